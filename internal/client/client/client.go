package client

import (
	"context"

	"github.com/dmitrijs2005/espm/internal/client/models"
)

// IdentityProvider talks to the identity server.
type IdentityProvider interface {
	// GetToken exchanges identity for a token pair at /connect/token.
	GetToken(ctx context.Context, identity models.Identity) (*models.TokenResponse, error)
	// GetUserClaims fetches /connect/userinfo with accessToken.
	GetUserClaims(ctx context.Context, accessToken string) (*models.UserClaims, error)
}

// TokenSource returns an access token to attach to an outgoing request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}
