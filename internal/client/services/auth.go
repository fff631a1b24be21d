// Package services contains the application services of the ESPM client.
// This file defines the authentication service: login against the identity
// server, logout, session state, and the refresh-if-needed policy used by
// every authenticated request.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/espm/internal/client/client"
	"github.com/dmitrijs2005/espm/internal/client/config"
	"github.com/dmitrijs2005/espm/internal/client/models"
	"github.com/dmitrijs2005/espm/internal/client/tokens"
	"github.com/dmitrijs2005/espm/internal/client/tokenstore"
	"github.com/dmitrijs2005/espm/internal/clock"
	"github.com/dmitrijs2005/espm/internal/common"
	"github.com/dmitrijs2005/espm/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// ErrNoRefreshToken is returned when a token is requested but no refresh
// token is stored.
var ErrNoRefreshToken = errors.New("no refresh token")

const defaultBackgroundInterval = 10 * time.Second

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange an identity for tokens, persist them, return the user's claims.
//   - LoginWithPassword: Login with a password identity for the ESPM client profile.
//   - Logout: forget the session. Never fails.
//   - IsAuthenticated: a stored access token exists and has not expired. No I/O.
//   - HasSession: something is stored that a request could use or refresh.
//   - State: the session state of the stored access token.
//   - RefreshAccessTokenIfNeeded: return a usable access token, refreshing
//     synchronously when expired and in the background when expiring soon.
//   - Token: same as RefreshAccessTokenIfNeeded; satisfies client.TokenSource.
//   - UserClaims: fetch the signed-in user's profile.
//   - Close: wait for background refreshes to finish.
type AuthService interface {
	Login(ctx context.Context, identity models.Identity) (*models.UserClaims, error)
	LoginWithPassword(ctx context.Context, username string, password []byte) (*models.UserClaims, error)
	Logout(ctx context.Context)
	IsAuthenticated() bool
	HasSession() bool
	State() tokens.SessionState
	RefreshAccessTokenIfNeeded(ctx context.Context) (string, error)
	Token(ctx context.Context) (string, error)
	UserClaims(ctx context.Context) (*models.UserClaims, error)
	Close(ctx context.Context) error
}

// TokenStore persists the session record.
type TokenStore interface {
	Snapshot() tokenstore.State
	Save(ctx context.Context, st tokenstore.State) error
	Reset(ctx context.Context) error
}

type AuthOption func(*authService)

func WithClock(c clock.Clock) AuthOption {
	return func(a *authService) { a.clock = c }
}

func WithLogger(l logging.Logger) AuthOption {
	return func(a *authService) { a.log = l }
}

// WithScope sets the scope requested by every grant.
func WithScope(scope string) AuthOption {
	return func(a *authService) { a.scope = scope }
}

// WithBackgroundInterval sets the minimum gap between two background
// refresh attempts.
func WithBackgroundInterval(d time.Duration) AuthOption {
	return func(a *authService) {
		if d > 0 {
			a.bgInterval = d
		}
	}
}

// authService is the concrete AuthService. It owns the session: the store
// is restored before construction and cleared by Logout.
//
// A background refresh that is in flight when Logout runs is not cancelled
// and may store fresh tokens after the logout.
type authService struct {
	idp       client.IdentityProvider
	store     TokenStore
	inspector *tokens.Inspector
	clients   config.Clients
	scope     string
	clock     clock.Clock
	log       logging.Logger

	refreshGroup singleflight.Group
	bgInterval   time.Duration
	limiter      *rate.Limiter

	bgMu   sync.Mutex
	bgWG   sync.WaitGroup
	closed bool
}

// NewAuthService constructs an AuthService over the identity provider and
// the restored token store.
func NewAuthService(idp client.IdentityProvider, store TokenStore, inspector *tokens.Inspector, clients config.Clients, opts ...AuthOption) AuthService {
	a := &authService{
		idp:        idp,
		store:      store,
		inspector:  inspector,
		clients:    clients,
		clock:      clock.Real{},
		log:        logging.Discard(),
		bgInterval: defaultBackgroundInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.limiter = rate.NewLimiter(rate.Every(a.bgInterval), 1)
	return a
}

// Login exchanges identity for a token pair, stores access token, refresh
// token and the token's client_id in one write, then fetches the claims
// with the new token. When the exchange fails nothing is stored.
func (a *authService) Login(ctx context.Context, identity models.Identity) (*models.UserClaims, error) {
	resp, err := a.idp.GetToken(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("get token error: %w", err)
	}

	claims, err := a.inspector.Decode(resp.AccessToken)
	if err != nil {
		return nil, err
	}

	st := tokenstore.State{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ClientID:     claims.ClientID,
	}
	if err := a.store.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	user, err := a.idp.GetUserClaims(ctx, resp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("get user claims error: %w", err)
	}
	return user, nil
}

// LoginWithPassword logs in with the ESPM client profile. password is wiped
// before returning.
func (a *authService) LoginWithPassword(ctx context.Context, username string, password []byte) (*models.UserClaims, error) {
	defer common.WipeByteArray(password)

	profile := a.clients.ESPM
	identity := models.NewPasswordIdentity(profile.ID, profile.Secret, a.scope, username, string(password))

	user, err := a.Login(ctx, identity)
	if err != nil {
		return nil, err
	}
	a.log.Info(ctx, "logged in", "subject", user.Subject)
	return user, nil
}

// Logout clears the session. Storage errors are logged, not returned.
// A refresh already in flight is not cancelled and may store its tokens
// after Logout returns.
func (a *authService) Logout(ctx context.Context) {
	if err := a.store.Reset(ctx); err != nil {
		a.log.Error(ctx, "failed to clear stored session", "error", err)
		return
	}
	a.log.Info(ctx, "logged out")
}

func (a *authService) IsAuthenticated() bool {
	st := a.store.Snapshot()
	return st.AccessToken != "" && !a.inspector.IsExpired(st.AccessToken, a.clock.Now())
}

func (a *authService) HasSession() bool {
	st := a.store.Snapshot()
	return st.AccessToken != "" || st.RefreshToken != ""
}

func (a *authService) State() tokens.SessionState {
	return a.inspector.State(a.store.Snapshot().AccessToken, a.clock.Now())
}

// RefreshAccessTokenIfNeeded returns an access token for an outgoing request.
//
//   - no refresh token stored: ErrNoRefreshToken.
//   - Valid: the stored token, no network.
//   - ExpiringSoon: the stored token; one refresh is started in the
//     background and its errors are only logged.
//   - Expired or no access token: refreshes synchronously and returns the
//     new token.
func (a *authService) RefreshAccessTokenIfNeeded(ctx context.Context) (string, error) {
	st := a.store.Snapshot()
	if st.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}

	switch a.inspector.State(st.AccessToken, a.clock.Now()) {
	case tokens.Valid:
		return st.AccessToken, nil
	case tokens.ExpiringSoon:
		a.refreshInBackground()
		return st.AccessToken, nil
	default:
		return a.refresh(ctx)
	}
}

func (a *authService) Token(ctx context.Context) (string, error) {
	return a.RefreshAccessTokenIfNeeded(ctx)
}

func (a *authService) UserClaims(ctx context.Context) (*models.UserClaims, error) {
	token, err := a.RefreshAccessTokenIfNeeded(ctx)
	if err != nil {
		return nil, err
	}
	return a.idp.GetUserClaims(ctx, token)
}

// refresh runs a refresh-token Login. Concurrent callers share one exchange.
func (a *authService) refresh(ctx context.Context) (string, error) {
	v, err, _ := a.refreshGroup.Do("refresh", func() (any, error) {
		st := a.store.Snapshot()
		if st.RefreshToken == "" {
			return "", ErrNoRefreshToken
		}
		// another caller may have refreshed while this one was waiting
		if a.inspector.State(st.AccessToken, a.clock.Now()) == tokens.Valid {
			return st.AccessToken, nil
		}

		profile := a.clients.ForClientID(st.ClientID)
		a.log.Debug(ctx, "refreshing session", "profile", a.clients.ProfileFor(st.ClientID))
		identity := models.NewRefreshTokenIdentity(profile.ID, profile.Secret, a.scope, st.RefreshToken)

		if _, err := a.Login(ctx, identity); err != nil {
			return "", fmt.Errorf("refresh error: %w", err)
		}
		return a.store.Snapshot().AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// refreshInBackground spawns one detached refresh unless the service is
// closed or the previous attempt was too recent.
func (a *authService) refreshInBackground() {
	a.bgMu.Lock()
	defer a.bgMu.Unlock()

	if a.closed {
		return
	}
	if !a.limiter.AllowN(a.clock.Now(), 1) {
		return
	}

	log := a.log.With("refresh_id", uuid.NewString())
	a.bgWG.Add(1)
	go func() {
		defer a.bgWG.Done()

		ctx := context.Background()
		log.Debug(ctx, "background token refresh started")
		if _, err := a.refresh(ctx); err != nil {
			log.Warn(ctx, "background token refresh failed", "error", err)
			return
		}
		log.Debug(ctx, "background token refresh finished")
	}()
}

// Close stops new background refreshes and waits for running ones, or for
// ctx to be done.
func (a *authService) Close(ctx context.Context) error {
	a.bgMu.Lock()
	a.closed = true
	a.bgMu.Unlock()

	done := make(chan struct{})
	go func() {
		a.bgWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ client.TokenSource = (*authService)(nil)
