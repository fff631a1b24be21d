package client

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/espm/internal/common"
)

// AuthTransport attaches "Authorization: Bearer <token>" to outgoing
// requests. Requests carrying the anonymous header are forwarded untouched
// apart from losing that header.
type AuthTransport struct {
	Base   http.RoundTripper
	Source TokenSource
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper. The caller's request is never
// modified; a clone is sent instead.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	if out.Header.Get(common.AnonymousHeaderName) != "" {
		out.Header.Del(common.AnonymousHeaderName)
		return t.base().RoundTrip(out)
	}

	token, err := t.Source.Token(req.Context())
	if err != nil {
		closeBody(req)
		return nil, &TokenSourceError{Err: err}
	}
	out.Header.Set("Authorization", "Bearer "+token)

	return t.base().RoundTrip(out)
}

// TokenSourceError reports that no token could be obtained for a request,
// so it was never sent.
type TokenSourceError struct {
	Err error
}

func (e *TokenSourceError) Error() string {
	return "failed to obtain access token: " + e.Err.Error()
}

func (e *TokenSourceError) Unwrap() error {
	return e.Err
}

// closeBody honours the RoundTripper contract of closing the request body
// even when the request is never sent.
func closeBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}

// NewHTTPClient returns an http.Client whose requests go through an
// AuthTransport backed by source.
func NewHTTPClient(timeout time.Duration, source TokenSource) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &AuthTransport{Source: source},
	}
}
