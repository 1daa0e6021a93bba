package models

import (
	"time"

	"github.com/ipa-digital/safra-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Pedido is a confirmed order moving through the delivery pipeline.
type Pedido struct {
	ID             int64             `gorm:"column:id;primaryKey;autoIncrement"`
	NumeroRastreio string            `gorm:"column:numero_rastreio;size:30;not null;uniqueIndex"`
	UsuarioID      int64             `gorm:"column:usuario_id;not null;index"`
	Usuario        *Usuario          `gorm:"foreignKey:UsuarioID"`
	ProdutoID      int64             `gorm:"column:produto_id;not null;index"`
	Produto        *Produto          `gorm:"foreignKey:ProdutoID"`
	Quantidade     int               `gorm:"column:quantidade;not null"`
	ValorTotal     decimal.Decimal   `gorm:"column:valor_total;type:numeric(12,2);not null"`
	Status         enums.OrderStatus `gorm:"column:status;size:20;not null;index"`
	DataPedido     time.Time         `gorm:"column:data_pedido;not null"`
	DataEntrega    *time.Time        `gorm:"column:data_entrega"`
	Observacoes    *string           `gorm:"column:observacoes"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table naming.
func (Pedido) TableName() string {
	return "pedidos"
}
