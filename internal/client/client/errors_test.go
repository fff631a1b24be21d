package client

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuth2Error_Unwrap(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrUnauthorized},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, nil},
		{http.StatusInternalServerError, ErrUnavailable},
		{http.StatusServiceUnavailable, ErrUnavailable},
	}
	for _, tt := range tests {
		e := &OAuth2Error{StatusCode: tt.status, Code: "x"}
		assert.Equal(t, tt.want, e.Unwrap(), "status %d", tt.status)
	}
}

func TestParseErrorResponse(t *testing.T) {
	err := parseErrorResponse(http.StatusUnauthorized, []byte(`{"error":"invalid_client","error_description":"unknown client"}`))

	var oe *OAuth2Error
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, ErrorCodeInvalidClient, oe.Code)
	assert.Equal(t, "invalid_client: unknown client (HTTP 401)", oe.Error())

	err = parseErrorResponse(http.StatusInternalServerError, []byte(`<html>oops</html>`))
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, ErrorCodeServerError, oe.Code)
	assert.Equal(t, "Internal Server Error", oe.Description)

	err = parseErrorResponse(http.StatusNotFound, nil)
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, ErrorCodeInvalidRequest, oe.Code)
}
