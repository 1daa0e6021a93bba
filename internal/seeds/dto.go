package seeds

import (
	"time"

	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// SeedDTO is the API shape of a seed catalog entry.
type SeedDTO struct {
	ID                int64            `json:"id"`
	Nome              string           `json:"nome"`
	Tipo              string           `json:"tipo"`
	Cultura           string           `json:"cultura"`
	Variedade         *string          `json:"variedade,omitempty"`
	Descricao         *string          `json:"descricao,omitempty"`
	EstoqueDisponivel int              `json:"estoqueDisponivel"`
	UnidadeMedida     string           `json:"unidadeMedida"`
	PesoUnidade       *decimal.Decimal `json:"pesoUnidade,omitempty"`
	Ativo             bool             `json:"ativo"`
	ImagemURL         *string          `json:"imagemUrl,omitempty"`
	Observacoes       *string          `json:"observacoes,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// NewSeedDTO maps a model to its API representation.
func NewSeedDTO(m *models.Semente) *SeedDTO {
	return &SeedDTO{
		ID:                m.ID,
		Nome:              m.Nome,
		Tipo:              m.Tipo,
		Cultura:           m.Cultura,
		Variedade:         m.Variedade,
		Descricao:         m.Descricao,
		EstoqueDisponivel: m.EstoqueDisponivel,
		UnidadeMedida:     m.UnidadeMedida,
		PesoUnidade:       m.PesoUnidade,
		Ativo:             m.Ativo,
		ImagemURL:         m.ImagemURL,
		Observacoes:       m.Observacoes,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// NewSeedDTOs maps a slice of models.
func NewSeedDTOs(ms []models.Semente) []SeedDTO {
	out := make([]SeedDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *NewSeedDTO(&ms[i]))
	}
	return out
}
