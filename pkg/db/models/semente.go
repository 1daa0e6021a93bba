package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Semente is a seed or seedling tracked with its own stock and active flag.
type Semente struct {
	ID                int64            `gorm:"column:id;primaryKey;autoIncrement"`
	Nome              string           `gorm:"column:nome;size:100;not null"`
	Tipo              string           `gorm:"column:tipo;size:50;not null;index"`
	Cultura           string           `gorm:"column:cultura;size:100;not null"`
	Variedade         *string          `gorm:"column:variedade;size:100"`
	Descricao         *string          `gorm:"column:descricao"`
	EstoqueDisponivel int              `gorm:"column:estoque_disponivel;not null"`
	UnidadeMedida     string           `gorm:"column:unidade_medida;size:20;not null"`
	PesoUnidade       *decimal.Decimal `gorm:"column:peso_unidade;type:numeric(10,3)"`
	Ativo             bool             `gorm:"column:ativo;not null;default:true"`
	ImagemURL         *string          `gorm:"column:imagem_url"`
	Observacoes       *string          `gorm:"column:observacoes"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table naming.
func (Semente) TableName() string {
	return "sementes"
}
