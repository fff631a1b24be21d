package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// OAuth2 error codes returned by the identity server (RFC 6749).
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeInvalidClient  = "invalid_client"
	ErrorCodeInvalidGrant   = "invalid_grant"
	ErrorCodeServerError    = "server_error"
)

// OAuth2Error is a non-2xx answer from the identity server or one of the
// APIs. It unwraps to ErrUnauthorized for 400/401/403 and to ErrUnavailable
// for 5xx, so callers can branch with errors.Is.
type OAuth2Error struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *OAuth2Error) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("%s (HTTP %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Code, e.Description, e.StatusCode)
}

func (e *OAuth2Error) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusBadRequest,
		e.StatusCode == http.StatusUnauthorized,
		e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrUnavailable
	default:
		return nil
	}
}

// parseErrorResponse turns a non-2xx response body into an *OAuth2Error.
// Bodies that are not OAuth2 JSON get a generic code from the status.
func parseErrorResponse(statusCode int, body []byte) error {
	var e OAuth2Error
	if err := json.Unmarshal(body, &e); err == nil && e.Code != "" {
		e.StatusCode = statusCode
		return &e
	}

	code := ErrorCodeInvalidRequest
	if statusCode >= http.StatusInternalServerError {
		code = ErrorCodeServerError
	}
	return &OAuth2Error{
		StatusCode:  statusCode,
		Code:        code,
		Description: http.StatusText(statusCode),
	}
}
