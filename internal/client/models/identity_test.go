package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPasswordIdentity_Values(t *testing.T) {
	id := NewPasswordIdentity("espm", "s3cr3t", "openid offline_access", "alice", "pw")

	v := id.Values()

	assert.Equal(t, "espm", v.Get("client_id"))
	assert.Equal(t, "s3cr3t", v.Get("client_secret"))
	assert.Equal(t, "password", v.Get("grant_type"))
	assert.Equal(t, "openid offline_access", v.Get("scope"))
	assert.Equal(t, "alice", v.Get("username"))
	assert.Equal(t, "pw", v.Get("password"))
	assert.False(t, v.Has("refresh_token"))
}

func TestNewRefreshTokenIdentity_Values(t *testing.T) {
	id := NewRefreshTokenIdentity("ext", "", "openid", "rt-1")

	v := id.Values()

	assert.Equal(t, "refresh_token", v.Get("grant_type"))
	assert.Equal(t, "rt-1", v.Get("refresh_token"))
	assert.False(t, v.Has("client_secret"), "empty secret is omitted")
	assert.False(t, v.Has("username"))
	assert.False(t, v.Has("password"))
}

func TestIdentity_ValuesEncodeSpaces(t *testing.T) {
	id := NewPasswordIdentity("espm", "", "openid email", "a b", "p&q")

	enc := id.Values().Encode()

	assert.Contains(t, enc, "scope=openid+email")
	assert.Contains(t, enc, "username=a+b")
	assert.Contains(t, enc, "password=p%26q")
}

func TestUserClaims_DisplayName(t *testing.T) {
	assert.Equal(t, "Zé", UserClaims{Apelido: "Zé", Nome: "José"}.DisplayName())
	assert.Equal(t, "José", UserClaims{Nome: "José", Subject: "1"}.DisplayName())
	assert.Equal(t, "1", UserClaims{Subject: "1"}.DisplayName())
}
