package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produto is a purchasable agricultural input in the catalog.
type Produto struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Nome          string          `gorm:"column:nome;not null"`
	Descricao     *string         `gorm:"column:descricao"`
	Categoria     string          `gorm:"column:categoria;not null;index"`
	Preco         decimal.Decimal `gorm:"column:preco;type:numeric(12,2);not null"`
	Estoque       int             `gorm:"column:estoque;not null"`
	UnidadeMedida string          `gorm:"column:unidade_medida;size:20;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table naming.
func (Produto) TableName() string {
	return "produtos"
}
