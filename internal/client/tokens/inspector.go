// Package tokens inspects access tokens: it decodes the JWT payload without
// verifying the signature and classifies a token against a point in time.
// Verification is the identity server's job; the client only needs the
// expiry and the issuing client id.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/espm/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultLeadWindow is used when an Inspector is built with a non-positive window.
const DefaultLeadWindow = 60 * time.Second

// ErrMalformedToken is returned when a token cannot be decoded.
var ErrMalformedToken = errors.New("malformed token")

// SessionState classifies the stored access token.
type SessionState int

const (
	NoSession SessionState = iota
	Valid
	ExpiringSoon
	Expired
)

func (s SessionState) String() string {
	switch s {
	case NoSession:
		return "no_session"
	case Valid:
		return "valid"
	case ExpiringSoon:
		return "expiring_soon"
	case Expired:
		return "expired"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// Inspector decodes tokens and decides their state. It holds no state other
// than the lead window and is safe for concurrent use.
type Inspector struct {
	lead   time.Duration
	parser *jwt.Parser
}

// NewInspector returns an Inspector that treats a token as expiring soon
// during the last lead of its lifetime.
func NewInspector(lead time.Duration) *Inspector {
	if lead <= 0 {
		lead = DefaultLeadWindow
	}
	return &Inspector{lead: lead, parser: jwt.NewParser()}
}

// LeadWindow returns the configured lead window.
func (i *Inspector) LeadWindow() time.Duration {
	return i.lead
}

// Decode returns the claims of token without verifying its signature.
func (i *Inspector) Decode(token string) (*models.TokenClaims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformedToken)
	}
	claims := &models.TokenClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// expiry returns the exp claim. ok is false when the token has none.
func (i *Inspector) expiry(token string) (exp time.Time, ok bool, err error) {
	claims, err := i.Decode(token)
	if err != nil {
		return time.Time{}, false, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}

// IsExpired reports whether token is unusable at asOf: it cannot be decoded
// or asOf is at or past its expiry. A token without exp never expires.
func (i *Inspector) IsExpired(token string, asOf time.Time) bool {
	exp, ok, err := i.expiry(token)
	if err != nil {
		return true
	}
	if !ok {
		return false
	}
	return !asOf.Before(exp)
}

// IsExpiringSoon reports whether asOf falls within [exp-lead, exp).
func (i *Inspector) IsExpiringSoon(token string, asOf time.Time) bool {
	exp, ok, err := i.expiry(token)
	if err != nil || !ok {
		return false
	}
	return !asOf.Before(exp.Add(-i.lead)) && asOf.Before(exp)
}

// State classifies token at asOf. Expired wins over ExpiringSoon.
func (i *Inspector) State(token string, asOf time.Time) SessionState {
	switch {
	case token == "":
		return NoSession
	case i.IsExpired(token, asOf):
		return Expired
	case i.IsExpiringSoon(token, asOf):
		return ExpiringSoon
	default:
		return Valid
	}
}
