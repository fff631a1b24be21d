package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/espm/internal/client/models"
	"github.com/dmitrijs2005/espm/internal/common"
)

const (
	tokenPath    = "/connect/token"
	userInfoPath = "/connect/userinfo"

	// maxBodySize caps how much of a response is read.
	maxBodySize = 1 << 20
)

// HTTPIdentityClient implements IdentityProvider over HTTP.
type HTTPIdentityClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPIdentityClient creates a client for the identity server at baseURL.
// httpClient may carry an AuthTransport: every request made here is marked
// anonymous, so the transport leaves it alone.
func NewHTTPIdentityClient(baseURL string, httpClient *http.Client) *HTTPIdentityClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPIdentityClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *HTTPIdentityClient) GetToken(ctx context.Context, identity models.Identity) (*models.TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(identity.Values().Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.AnonymousHeaderName, "true")

	var tr models.TokenResponse
	if err := c.do(req, &tr); err != nil {
		return nil, err
	}
	if tr.AccessToken == "" {
		return nil, &OAuth2Error{
			StatusCode:  http.StatusUnauthorized,
			Code:        ErrorCodeInvalidGrant,
			Description: "token response without access_token",
		}
	}
	return &tr, nil
}

func (c *HTTPIdentityClient) GetUserClaims(ctx context.Context, accessToken string) (*models.UserClaims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+userInfoPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set(common.AnonymousHeaderName, "true")

	var claims models.UserClaims
	if err := c.do(req, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (c *HTTPIdentityClient) do(req *http.Request, target any) error {
	return doJSON(c.httpClient, req, target)
}

// doJSON sends req and decodes a 2xx JSON body into target. target may be
// nil when the body is not needed.
func doJSON(httpClient *http.Client, req *http.Request, target any) error {
	resp, err := httpClient.Do(req)
	if err != nil {
		var tse *TokenSourceError
		if errors.As(err, &tse) {
			return tse
		}
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp.StatusCode, body)
	}

	if target == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var _ IdentityProvider = (*HTTPIdentityClient)(nil)
