package users

import (
	"time"

	"github.com/ipa-digital/safra-backend/pkg/db/models"
)

// UserDTO is the beneficiary payload returned to clients.
type UserDTO struct {
	ID              int64     `json:"id"`
	Nome            string    `json:"nome"`
	CPF             string    `json:"cpf"`
	CAF             *string   `json:"caf,omitempty"`
	TipoPropriedade *string   `json:"tipoPropriedade,omitempty"`
	CEP             *string   `json:"cep,omitempty"`
	Email           *string   `json:"email,omitempty"`
	Estado          *string   `json:"estado,omitempty"`
	Telefone        *string   `json:"telefone,omitempty"`
	Endereco        *string   `json:"endereco,omitempty"`
	Cidade          *string   `json:"cidade,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewUserDTO builds a DTO from the persisted model.
func NewUserDTO(user *models.Usuario) *UserDTO {
	return &UserDTO{
		ID:              user.ID,
		Nome:            user.Nome,
		CPF:             user.CPF,
		CAF:             user.CAF,
		TipoPropriedade: user.TipoPropriedade,
		CEP:             user.CEP,
		Email:           user.Email,
		Estado:          user.Estado,
		Telefone:        user.Telefone,
		Endereco:        user.Endereco,
		Cidade:          user.Cidade,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

// NewUserDTOs maps a slice of models.
func NewUserDTOs(users []models.Usuario) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *NewUserDTO(&users[i]))
	}
	return out
}
