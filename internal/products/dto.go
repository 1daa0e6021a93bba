package products

import (
	"time"

	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"github.com/ipa-digital/safra-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductDTO is the API shape of a catalog product.
type ProductDTO struct {
	ID            int64           `json:"id"`
	Nome          string          `json:"nome"`
	Descricao     *string         `json:"descricao,omitempty"`
	Categoria     string          `json:"categoria"`
	Preco         decimal.Decimal `json:"preco"`
	Estoque       int             `json:"estoque"`
	UnidadeMedida string          `json:"unidadeMedida"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ProductPage is one window of the catalog along with paging metadata.
type ProductPage struct {
	Items []ProductDTO    `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// NewProductDTO maps a model to its API representation.
func NewProductDTO(m *models.Produto) *ProductDTO {
	return &ProductDTO{
		ID:            m.ID,
		Nome:          m.Nome,
		Descricao:     m.Descricao,
		Categoria:     m.Categoria,
		Preco:         m.Preco,
		Estoque:       m.Estoque,
		UnidadeMedida: m.UnidadeMedida,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// NewProductDTOs maps a slice of models.
func NewProductDTOs(ms []models.Produto) []ProductDTO {
	out := make([]ProductDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *NewProductDTO(&ms[i]))
	}
	return out
}
