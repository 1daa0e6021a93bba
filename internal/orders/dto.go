package orders

import (
	"time"

	"github.com/ipa-digital/safra-backend/internal/tracking"
	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"github.com/ipa-digital/safra-backend/pkg/enums"
	"github.com/ipa-digital/safra-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// OrderDTO is the API shape of an order. User and product names are
// denormalized for listing screens when the associations were loaded.
type OrderDTO struct {
	ID             int64             `json:"id"`
	NumeroRastreio string            `json:"numeroRastreio"`
	UsuarioID      int64             `json:"usuarioId"`
	UsuarioNome    string            `json:"usuarioNome,omitempty"`
	ProdutoID      int64             `json:"produtoId"`
	ProdutoNome    string            `json:"produtoNome,omitempty"`
	Quantidade     int               `json:"quantidade"`
	ValorTotal     decimal.Decimal   `json:"valorTotal"`
	Status         enums.OrderStatus `json:"status"`
	DataPedido     time.Time         `json:"dataPedido"`
	DataEntrega    *time.Time        `json:"dataEntrega,omitempty"`
	Observacoes    *string           `json:"observacoes,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// OrderPage is one window of orders along with paging metadata.
type OrderPage struct {
	Items []OrderDTO      `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// OrderTrackingDTO is the public tracking view: the order plus its
// delivery milestones.
type OrderTrackingDTO struct {
	Pedido OrderDTO             `json:"pedido"`
	Etapas []tracking.Milestone `json:"etapas"`
}

// NewOrderDTO maps a model to its API representation.
func NewOrderDTO(m *models.Pedido) *OrderDTO {
	dto := &OrderDTO{
		ID:             m.ID,
		NumeroRastreio: m.NumeroRastreio,
		UsuarioID:      m.UsuarioID,
		ProdutoID:      m.ProdutoID,
		Quantidade:     m.Quantidade,
		ValorTotal:     m.ValorTotal,
		Status:         m.Status,
		DataPedido:     m.DataPedido,
		DataEntrega:    m.DataEntrega,
		Observacoes:    m.Observacoes,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Usuario != nil {
		dto.UsuarioNome = m.Usuario.Nome
	}
	if m.Produto != nil {
		dto.ProdutoNome = m.Produto.Nome
	}
	return dto
}

// NewOrderDTOs maps a slice of models.
func NewOrderDTOs(ms []models.Pedido) []OrderDTO {
	out := make([]OrderDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *NewOrderDTO(&ms[i]))
	}
	return out
}
