// Package common contains shared constants and sentinel errors used across
// the ESPM client components.
package common

// AnonymousHeaderName marks an outbound HTTP request as anonymous. The
// authenticating transport strips it and does not attach an access token,
// which keeps token endpoint calls out of the refresh path.
const AnonymousHeaderName = "X-Anonymous"

// Storage keys of the persisted session record.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
	ClientIDKey     = "client_id"
	StorageSaltKey  = "storage_salt"
)
