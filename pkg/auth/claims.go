package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/ipa-digital/safra-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	CPF  string
	Nome string
	Role enums.ActorRole
	JTI  string
}

// AccessTokenClaims represents the typed JWT issued to clients.
// The registered subject carries the canonical 11-digit CPF.
type AccessTokenClaims struct {
	Nome string          `json:"nome"`
	Role enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}

// CPF returns the canonical CPF the token was issued for.
func (c *AccessTokenClaims) CPF() string {
	return c.Subject
}
