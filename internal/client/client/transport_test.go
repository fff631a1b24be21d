package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/espm/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls int
	token string
	err   error
}

func (s *countingSource) Token(context.Context) (string, error) {
	s.calls++
	return s.token, s.err
}

func TestAuthTransport_AttachesBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	src := &countingSource{token: "tok-1"}
	hc := NewHTTPClient(time.Second, src)

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := hc.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, 1, src.calls)
	assert.Empty(t, req.Header.Get("Authorization"), "caller's request must not be mutated")
}

func TestAuthTransport_AnonymousSkipsTokenAndStripsHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(common.AnonymousHeaderName))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	src := &countingSource{token: "tok-1"}
	hc := NewHTTPClient(time.Second, src)

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set(common.AnonymousHeaderName, "true")

	resp, err := hc.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Zero(t, src.calls)
	assert.Equal(t, "true", req.Header.Get(common.AnonymousHeaderName))
}

func TestAuthTransport_TokenErrorStopsRequest(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer srv.Close()

	sentinel := errors.New("no refresh token")
	hc := NewHTTPClient(time.Second, &countingSource{err: sentinel})

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	err = doJSON(hc, req, nil)

	require.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.False(t, hit)
}

func TestTokenSourceFunc(t *testing.T) {
	var src TokenSource = TokenSourceFunc(func(context.Context) (string, error) { return "x", nil })
	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", tok)
}
