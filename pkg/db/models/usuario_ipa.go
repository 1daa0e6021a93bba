package models

import "time"

// UsuarioIpa represents a field agent with credentialed access.
type UsuarioIpa struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Nome         string    `gorm:"column:nome;size:150;not null"`
	CPF          string    `gorm:"column:cpf;size:11;not null;uniqueIndex"`
	Telefone     *string   `gorm:"column:telefone;size:20"`
	Email        *string   `gorm:"column:email;uniqueIndex"`
	MatriculaIpa *string   `gorm:"column:matricula_ipa;size:20"`
	LocalAtuacao *string   `gorm:"column:local_atuacao"`
	SenhaHash    string    `gorm:"column:senha_hash;not null"`
	Cidade       *string   `gorm:"column:cidade"`
	UF           *string   `gorm:"column:uf;size:2"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table naming.
func (UsuarioIpa) TableName() string {
	return "usuarios_ipa"
}
