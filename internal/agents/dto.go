package agents

import (
	"time"

	"github.com/ipa-digital/safra-backend/pkg/db/models"
)

// AgentDTO is the API shape of a field agent. Credentials never leave
// the service layer.
type AgentDTO struct {
	ID           int64     `json:"id"`
	Nome         string    `json:"nome"`
	CPF          string    `json:"cpf"`
	Telefone     *string   `json:"telefone,omitempty"`
	Email        *string   `json:"email,omitempty"`
	MatriculaIpa *string   `json:"matriculaIpa,omitempty"`
	LocalAtuacao *string   `json:"localAtuacao,omitempty"`
	Cidade       *string   `json:"cidade,omitempty"`
	UF           *string   `json:"uf,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewAgentDTO maps a model to its API representation.
func NewAgentDTO(m *models.UsuarioIpa) *AgentDTO {
	return &AgentDTO{
		ID:           m.ID,
		Nome:         m.Nome,
		CPF:          m.CPF,
		Telefone:     m.Telefone,
		Email:        m.Email,
		MatriculaIpa: m.MatriculaIpa,
		LocalAtuacao: m.LocalAtuacao,
		Cidade:       m.Cidade,
		UF:           m.UF,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// NewAgentDTOs maps a slice of models.
func NewAgentDTOs(ms []models.UsuarioIpa) []AgentDTO {
	out := make([]AgentDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *NewAgentDTO(&ms[i]))
	}
	return out
}
