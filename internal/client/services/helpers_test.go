package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/espm/internal/client/client"
	"github.com/dmitrijs2005/espm/internal/client/config"
	"github.com/dmitrijs2005/espm/internal/client/models"
	"github.com/dmitrijs2005/espm/internal/client/tokens"
	"github.com/dmitrijs2005/espm/internal/client/tokenstore"
	"github.com/dmitrijs2005/espm/internal/clock/clocktest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

var testClients = config.Clients{
	ESPM:                 config.ClientProfile{ID: "espm", Secret: "espm-secret"},
	ExternalLoginAndroid: config.ClientProfile{ID: "espm.external", Secret: "ext-secret"},
}

func makeJWT(t *testing.T, clientID string, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"client_id": clientID,
		"exp":       exp.Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "espm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func openStore(t *testing.T, st tokenstore.State) *tokenstore.Store {
	t.Helper()
	ctx := context.Background()
	s, err := tokenstore.Open(ctx, setupDB(t))
	require.NoError(t, err)
	if !st.Empty() {
		require.NoError(t, s.Save(ctx, st))
	}
	return s
}

// fakeIDP is a scripted IdentityProvider. When gate is set, GetToken
// signals entered and blocks until gate is closed.
type fakeIDP struct {
	mu         sync.Mutex
	identities []models.Identity
	userCalls  int

	next      func() *models.TokenResponse
	tokenErr  error
	claims    *models.UserClaims
	claimsErr error

	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeIDP) GetToken(ctx context.Context, identity models.Identity) (*models.TokenResponse, error) {
	f.mu.Lock()
	f.identities = append(f.identities, identity)
	gate, entered := f.gate, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	return f.next(), nil
}

func (f *fakeIDP) GetUserClaims(ctx context.Context, accessToken string) (*models.UserClaims, error) {
	f.mu.Lock()
	f.userCalls++
	f.mu.Unlock()
	if f.claimsErr != nil {
		return nil, f.claimsErr
	}
	if f.claims != nil {
		return f.claims, nil
	}
	return &models.UserClaims{Subject: "42"}, nil
}

func (f *fakeIDP) tokenCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.identities)
}

func (f *fakeIDP) lastIdentity() models.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.identities[len(f.identities)-1]
}

// staticResponse returns the same token pair on every call.
func staticResponse(access, refresh string) func() *models.TokenResponse {
	return func() *models.TokenResponse {
		return &models.TokenResponse{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"}
	}
}

// fakeStore wraps an in-memory state with injectable failures.
type fakeStore struct {
	mu       sync.Mutex
	st       tokenstore.State
	saveErr  error
	resetErr error
}

func (s *fakeStore) Snapshot() tokenstore.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

func (s *fakeStore) Save(ctx context.Context, st tokenstore.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.st = st
	return nil
}

func (s *fakeStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = tokenstore.State{}
	return s.resetErr
}

func newTestAuth(t *testing.T, idp *fakeIDP, store TokenStore, fc *clocktest.Fake) AuthService {
	t.Helper()
	a := NewAuthService(idp, store, tokens.NewInspector(60*time.Second), testClients,
		WithClock(fc),
		WithScope("openid offline_access"),
		WithBackgroundInterval(10*time.Second),
	)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Close(ctx)
	})
	return a
}
