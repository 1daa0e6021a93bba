package models

import (
	"time"

	"github.com/ipa-digital/safra-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Solicitacao is an input request filed by a field agent on behalf of a
// beneficiary. Requester and beneficiary data is denormalized into snapshot
// columns so listings avoid joins; the sync rules live in the service layer.
type Solicitacao struct {
	ID             int64       `gorm:"column:id;primaryKey;autoIncrement"`
	SolicitanteID  int64       `gorm:"column:solicitante_id;not null;index"`
	Solicitante    *UsuarioIpa `gorm:"foreignKey:SolicitanteID"`
	BeneficiarioID int64       `gorm:"column:beneficiario_id;not null;index"`
	Beneficiario   *Usuario    `gorm:"foreignKey:BeneficiarioID"`

	SolicitanteNome      string  `gorm:"column:solicitante_nome;not null"`
	SolicitanteCPF       string  `gorm:"column:solicitante_cpf;size:11;not null;index"`
	SolicitanteMatricula *string `gorm:"column:solicitante_matricula"`
	SolicitanteTelefone  *string `gorm:"column:solicitante_telefone;size:20"`
	LocalAtuacao         *string `gorm:"column:local_atuacao"`

	BeneficiarioNome        string  `gorm:"column:beneficiario_nome;not null"`
	BeneficiarioCPF         string  `gorm:"column:beneficiario_cpf;size:11;not null;index"`
	BeneficiarioCAF         *string `gorm:"column:beneficiario_caf;size:20"`
	TipoPropriedade         *string `gorm:"column:tipo_propriedade"`
	BeneficiarioCEP         *string `gorm:"column:beneficiario_cep;size:10"`
	BeneficiarioComplemento *string `gorm:"column:beneficiario_complemento"`
	PontoReferencia         *string `gorm:"column:ponto_referencia"`

	TipoInsumo       string               `gorm:"column:tipo_insumo;not null"`
	Cultura          string               `gorm:"column:cultura;not null"`
	Variedade        *string              `gorm:"column:variedade"`
	Quantidade       int                  `gorm:"column:quantidade;not null"`
	UnidadeMedida    string               `gorm:"column:unidade_medida;not null"`
	AreaPlantada     *decimal.Decimal     `gorm:"column:area_plantada;type:numeric(10,2)"`
	AreaUnidade      *string              `gorm:"column:area_unidade"`
	DataIdealPlantio *time.Time           `gorm:"column:data_ideal_plantio;type:date"`
	Finalidade       string               `gorm:"column:finalidade;not null"`
	FormaEntrega     enums.DeliveryMethod `gorm:"column:forma_entrega;size:20;not null"`

	MunicipioDestino     *string `gorm:"column:municipio_destino"`
	EnderecoEntrega      *string `gorm:"column:endereco_entrega"`
	CEPEntrega           *string `gorm:"column:cep_entrega;size:10"`
	ComplementoEntrega   *string `gorm:"column:complemento_entrega"`
	NomeDestinatario     *string `gorm:"column:nome_destinatario"`
	TelefoneDestinatario *string `gorm:"column:telefone_destinatario;size:20"`

	Status         enums.RequestStatus `gorm:"column:status;size:20;not null;index"`
	PedidoID       *int64              `gorm:"column:pedido_id"`
	CodigoRastreio *string             `gorm:"column:codigo_rastreio;size:30;uniqueIndex"`
	Observacoes    *string             `gorm:"column:observacoes"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table naming.
func (Solicitacao) TableName() string {
	return "solicitacoes"
}
