package models

import "github.com/golang-jwt/jwt/v5"

// TokenResponse is the body returned by the token endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// TokenClaims is the decoded payload of an access token.
type TokenClaims struct {
	jwt.RegisteredClaims
	ClientID string `json:"client_id"`
}

// UserClaims is the profile returned by /connect/userinfo.
type UserClaims struct {
	Subject  string `json:"sub"`
	Nome     string `json:"nome"`
	Apelido  string `json:"apelido"`
	CPF      string `json:"cpf"`
	Email    string `json:"email"`
	Verified bool   `json:"email_verified"`
}

// DisplayName prefers the nickname and falls back to the full name, then
// the subject.
func (c UserClaims) DisplayName() string {
	switch {
	case c.Apelido != "":
		return c.Apelido
	case c.Nome != "":
		return c.Nome
	default:
		return c.Subject
	}
}
