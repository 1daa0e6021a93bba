package requests

import (
	"time"

	"github.com/ipa-digital/safra-backend/internal/tracking"
	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"github.com/ipa-digital/safra-backend/pkg/enums"
	"github.com/ipa-digital/safra-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// RequestDTO is the API shape of an input request. Requester and
// beneficiary fields come from the snapshot columns, not live joins.
type RequestDTO struct {
	ID int64 `json:"id"`

	SolicitanteID        int64   `json:"solicitanteId"`
	SolicitanteNome      string  `json:"solicitanteNome"`
	SolicitanteCPF       string  `json:"solicitanteCpf"`
	SolicitanteMatricula *string `json:"solicitanteMatricula,omitempty"`
	SolicitanteTelefone  *string `json:"solicitanteTelefone,omitempty"`
	LocalAtuacao         *string `json:"localAtuacao,omitempty"`

	BeneficiarioID          int64   `json:"beneficiarioId"`
	BeneficiarioNome        string  `json:"beneficiarioNome"`
	BeneficiarioCPF         string  `json:"beneficiarioCpf"`
	BeneficiarioCAF         *string `json:"beneficiarioCaf,omitempty"`
	TipoPropriedade         *string `json:"tipoPropriedade,omitempty"`
	BeneficiarioCEP         *string `json:"beneficiarioCep,omitempty"`
	BeneficiarioComplemento *string `json:"beneficiarioComplemento,omitempty"`
	PontoReferencia         *string `json:"pontoReferencia,omitempty"`

	TipoInsumo       string               `json:"tipoInsumo"`
	Cultura          string               `json:"cultura"`
	Variedade        *string              `json:"variedade,omitempty"`
	Quantidade       int                  `json:"quantidade"`
	UnidadeMedida    string               `json:"unidadeMedida"`
	AreaPlantada     *decimal.Decimal     `json:"areaPlantada,omitempty"`
	AreaUnidade      *string              `json:"areaUnidade,omitempty"`
	DataIdealPlantio *time.Time           `json:"dataIdealPlantio,omitempty"`
	Finalidade       string               `json:"finalidade"`
	FormaEntrega     enums.DeliveryMethod `json:"formaEntrega"`

	MunicipioDestino     *string `json:"municipioDestino,omitempty"`
	EnderecoEntrega      *string `json:"enderecoEntrega,omitempty"`
	CEPEntrega           *string `json:"cepEntrega,omitempty"`
	ComplementoEntrega   *string `json:"complementoEntrega,omitempty"`
	NomeDestinatario     *string `json:"nomeDestinatario,omitempty"`
	TelefoneDestinatario *string `json:"telefoneDestinatario,omitempty"`

	Status         enums.RequestStatus `json:"status"`
	PedidoID       *int64              `json:"pedidoId,omitempty"`
	CodigoRastreio *string             `json:"codigoRastreio,omitempty"`
	Observacoes    *string             `json:"observacoes,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// RequestPage is one window of requests along with paging metadata.
type RequestPage struct {
	Items []RequestDTO    `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// RequestTrackingDTO is the public tracking view: the request plus its
// review milestones.
type RequestTrackingDTO struct {
	Solicitacao RequestDTO           `json:"solicitacao"`
	Etapas      []tracking.Milestone `json:"etapas"`
}

// NewRequestDTO maps a model to its API representation.
func NewRequestDTO(m *models.Solicitacao) *RequestDTO {
	return &RequestDTO{
		ID: m.ID,

		SolicitanteID:        m.SolicitanteID,
		SolicitanteNome:      m.SolicitanteNome,
		SolicitanteCPF:       m.SolicitanteCPF,
		SolicitanteMatricula: m.SolicitanteMatricula,
		SolicitanteTelefone:  m.SolicitanteTelefone,
		LocalAtuacao:         m.LocalAtuacao,

		BeneficiarioID:          m.BeneficiarioID,
		BeneficiarioNome:        m.BeneficiarioNome,
		BeneficiarioCPF:         m.BeneficiarioCPF,
		BeneficiarioCAF:         m.BeneficiarioCAF,
		TipoPropriedade:         m.TipoPropriedade,
		BeneficiarioCEP:         m.BeneficiarioCEP,
		BeneficiarioComplemento: m.BeneficiarioComplemento,
		PontoReferencia:         m.PontoReferencia,

		TipoInsumo:       m.TipoInsumo,
		Cultura:          m.Cultura,
		Variedade:        m.Variedade,
		Quantidade:       m.Quantidade,
		UnidadeMedida:    m.UnidadeMedida,
		AreaPlantada:     m.AreaPlantada,
		AreaUnidade:      m.AreaUnidade,
		DataIdealPlantio: m.DataIdealPlantio,
		Finalidade:       m.Finalidade,
		FormaEntrega:     m.FormaEntrega,

		MunicipioDestino:     m.MunicipioDestino,
		EnderecoEntrega:      m.EnderecoEntrega,
		CEPEntrega:           m.CEPEntrega,
		ComplementoEntrega:   m.ComplementoEntrega,
		NomeDestinatario:     m.NomeDestinatario,
		TelefoneDestinatario: m.TelefoneDestinatario,

		Status:         m.Status,
		PedidoID:       m.PedidoID,
		CodigoRastreio: m.CodigoRastreio,
		Observacoes:    m.Observacoes,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// NewRequestDTOs maps a slice of models.
func NewRequestDTOs(ms []models.Solicitacao) []RequestDTO {
	out := make([]RequestDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *NewRequestDTO(&ms[i]))
	}
	return out
}
