package models

import "time"

// Usuario represents a beneficiary farmer identified by CPF.
// CPF is stored in canonical digits-only form.
type Usuario struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Nome            string    `gorm:"column:nome;not null"`
	CPF             string    `gorm:"column:cpf;size:11;not null;uniqueIndex"`
	CAF             *string   `gorm:"column:caf;size:9"`
	TipoPropriedade *string   `gorm:"column:tipo_propriedade"`
	CEP             *string   `gorm:"column:cep;size:10"`
	Email           *string   `gorm:"column:email;uniqueIndex"`
	Estado          *string   `gorm:"column:estado;size:2"`
	Telefone        *string   `gorm:"column:telefone"`
	Endereco        *string   `gorm:"column:endereco"`
	Cidade          *string   `gorm:"column:cidade"`
	SenhaHash       string    `gorm:"column:senha_hash;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table naming.
func (Usuario) TableName() string {
	return "usuarios"
}
