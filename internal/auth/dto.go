package auth

import (
	"time"

	"github.com/ipa-digital/safra-backend/pkg/enums"
)

// SessionDTO is returned on login and registration: the signed token plus
// enough identity for the client to render its header.
type SessionDTO struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Nome      string          `json:"nome"`
	CPF       string          `json:"cpf"`
	Role      enums.ActorRole `json:"role"`
}

// IdentityDTO is the verified identity behind a presented token.
type IdentityDTO struct {
	Nome string          `json:"nome"`
	CPF  string          `json:"cpf"`
	Role enums.ActorRole `json:"role"`
}
