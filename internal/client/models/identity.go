package models

import "net/url"

// GrantType is the OAuth2 grant requested from the token endpoint.
type GrantType string

const (
	GrantPassword     GrantType = "password"
	GrantRefreshToken GrantType = "refresh_token"
)

// Identity is the credential payload posted to /connect/token. Username and
// Password are set for the password grant, RefreshToken for the refresh grant.
type Identity struct {
	ClientID     string
	ClientSecret string
	GrantType    GrantType
	Scope        string

	Username string
	Password string

	RefreshToken string
}

// NewPasswordIdentity builds a password-grant identity.
func NewPasswordIdentity(clientID, clientSecret, scope, username, password string) Identity {
	return Identity{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		GrantType:    GrantPassword,
		Scope:        scope,
		Username:     username,
		Password:     password,
	}
}

// NewRefreshTokenIdentity builds a refresh-token-grant identity.
func NewRefreshTokenIdentity(clientID, clientSecret, scope, refreshToken string) Identity {
	return Identity{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		GrantType:    GrantRefreshToken,
		Scope:        scope,
		RefreshToken: refreshToken,
	}
}

// Values returns the form fields of the identity. Empty fields are omitted.
func (i Identity) Values() url.Values {
	v := url.Values{}
	add := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	add("client_id", i.ClientID)
	add("client_secret", i.ClientSecret)
	add("grant_type", string(i.GrantType))
	add("scope", i.Scope)

	switch i.GrantType {
	case GrantPassword:
		add("username", i.Username)
		add("password", i.Password)
	case GrantRefreshToken:
		add("refresh_token", i.RefreshToken)
	}
	return v
}
