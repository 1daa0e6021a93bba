package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ipa-digital/safra-backend/api/responses"
	"github.com/ipa-digital/safra-backend/api/validators"
	requestsvc "github.com/ipa-digital/safra-backend/internal/requests"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"github.com/ipa-digital/safra-backend/pkg/logger"
)

type createSolicitacaoRequest struct {
	SolicitanteCPF  string `json:"solicitanteCpf" validate:"required,cpf"`
	BeneficiarioCPF string `json:"beneficiarioCpf" validate:"required,cpf"`

	TipoInsumo       string           `json:"tipoInsumo" validate:"required"`
	Cultura          string           `json:"cultura" validate:"required"`
	Variedade        *string          `json:"variedade,omitempty"`
	Quantidade       int              `json:"quantidade" validate:"required,min=1"`
	UnidadeMedida    string           `json:"unidadeMedida" validate:"required"`
	AreaPlantada     *decimal.Decimal `json:"areaPlantada,omitempty"`
	AreaUnidade      *string          `json:"areaUnidade,omitempty"`
	DataIdealPlantio *time.Time       `json:"dataIdealPlantio,omitempty"`
	Finalidade       string           `json:"finalidade" validate:"required"`
	FormaEntrega     string           `json:"formaEntrega" validate:"required"`

	MunicipioDestino     *string `json:"municipioDestino,omitempty"`
	EnderecoEntrega      *string `json:"enderecoEntrega,omitempty"`
	CEPEntrega           *string `json:"cepEntrega,omitempty"`
	ComplementoEntrega   *string `json:"complementoEntrega,omitempty"`
	NomeDestinatario     *string `json:"nomeDestinatario,omitempty"`
	TelefoneDestinatario *string `json:"telefoneDestinatario,omitempty"`

	BeneficiarioComplemento *string `json:"beneficiarioComplemento,omitempty"`
	PontoReferencia         *string `json:"pontoReferencia,omitempty"`
	Observacoes             *string `json:"observacoes,omitempty"`

	Rascunho bool `json:"rascunho,omitempty"`
}

type updateSolicitacaoRequest struct {
	TipoInsumo       *string          `json:"tipoInsumo,omitempty"`
	Cultura          *string          `json:"cultura,omitempty"`
	Variedade        *string          `json:"variedade,omitempty"`
	Quantidade       *int             `json:"quantidade,omitempty" validate:"omitempty,min=1"`
	UnidadeMedida    *string          `json:"unidadeMedida,omitempty"`
	AreaPlantada     *decimal.Decimal `json:"areaPlantada,omitempty"`
	AreaUnidade      *string          `json:"areaUnidade,omitempty"`
	DataIdealPlantio *time.Time       `json:"dataIdealPlantio,omitempty"`
	Finalidade       *string          `json:"finalidade,omitempty"`
	FormaEntrega     *string          `json:"formaEntrega,omitempty"`

	MunicipioDestino     *string `json:"municipioDestino,omitempty"`
	EnderecoEntrega      *string `json:"enderecoEntrega,omitempty"`
	CEPEntrega           *string `json:"cepEntrega,omitempty"`
	ComplementoEntrega   *string `json:"complementoEntrega,omitempty"`
	NomeDestinatario     *string `json:"nomeDestinatario,omitempty"`
	TelefoneDestinatario *string `json:"telefoneDestinatario,omitempty"`

	PontoReferencia *string `json:"pontoReferencia,omitempty"`
	Observacoes     *string `json:"observacoes,omitempty"`
}

type updateSolicitacaoStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateSolicitacao files an input request on behalf of a beneficiary.
func CreateSolicitacao(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request service unavailable"))
			return
		}

		var payload createSolicitacaoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Create(r.Context(), requestsvc.CreateRequestInput{
			SolicitanteCPF:          payload.SolicitanteCPF,
			BeneficiarioCPF:         payload.BeneficiarioCPF,
			TipoInsumo:              payload.TipoInsumo,
			Cultura:                 payload.Cultura,
			Variedade:               payload.Variedade,
			Quantidade:              payload.Quantidade,
			UnidadeMedida:           payload.UnidadeMedida,
			AreaPlantada:            payload.AreaPlantada,
			AreaUnidade:             payload.AreaUnidade,
			DataIdealPlantio:        payload.DataIdealPlantio,
			Finalidade:              payload.Finalidade,
			FormaEntrega:            payload.FormaEntrega,
			MunicipioDestino:        payload.MunicipioDestino,
			EnderecoEntrega:         payload.EnderecoEntrega,
			CEPEntrega:              payload.CEPEntrega,
			ComplementoEntrega:      payload.ComplementoEntrega,
			NomeDestinatario:        payload.NomeDestinatario,
			TelefoneDestinatario:    payload.TelefoneDestinatario,
			BeneficiarioComplemento: payload.BeneficiarioComplemento,
			PontoReferencia:         payload.PontoReferencia,
			Observacoes:             payload.Observacoes,
			Rascunho:                payload.Rascunho,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

// ListSolicitacoes returns a page of requests, newest first.
func ListSolicitacoes(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func GetSolicitacao(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, request)
	}
}

// RastrearSolicitacao resolves a tracking code to the request plus its
// milestone checklist. Public: the code itself is the credential.
func RastrearSolicitacao(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request service unavailable"))
			return
		}

		tracked, err := svc.Track(r.Context(), chi.URLParam(r, "codigo"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, tracked)
	}
}

func ListSolicitacoesByStatus(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request service unavailable"))
			return
		}

		requests, err := svc.ListByStatus(r.Context(), chi.URLParam(r, "status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, requests)
	}
}

func ListSolicitacoesBySolicitante(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request service unavailable"))
			return
		}

		requests, err := svc.ListBySolicitanteCPF(r.Context(), chi.URLParam(r, "cpf"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, requests)
	}
}

func ListSolicitacoesByBeneficiario(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request service unavailable"))
			return
		}

		requests, err := svc.ListByBeneficiarioCPF(r.Context(), chi.URLParam(r, "cpf"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, requests)
	}
}

// UpdateSolicitacao edits a request while it is still editable.
func UpdateSolicitacao(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateSolicitacaoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Update(r.Context(), id, requestsvc.UpdateRequestInput{
			TipoInsumo:           payload.TipoInsumo,
			Cultura:              payload.Cultura,
			Variedade:            payload.Variedade,
			Quantidade:           payload.Quantidade,
			UnidadeMedida:        payload.UnidadeMedida,
			AreaPlantada:         payload.AreaPlantada,
			AreaUnidade:          payload.AreaUnidade,
			DataIdealPlantio:     payload.DataIdealPlantio,
			Finalidade:           payload.Finalidade,
			FormaEntrega:         payload.FormaEntrega,
			MunicipioDestino:     payload.MunicipioDestino,
			EnderecoEntrega:      payload.EnderecoEntrega,
			CEPEntrega:           payload.CEPEntrega,
			ComplementoEntrega:   payload.ComplementoEntrega,
			NomeDestinatario:     payload.NomeDestinatario,
			TelefoneDestinatario: payload.TelefoneDestinatario,
			PontoReferencia:      payload.PontoReferencia,
			Observacoes:          payload.Observacoes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, request)
	}
}

// UpdateSolicitacaoStatus advances a request through the review pipeline.
func UpdateSolicitacaoStatus(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateSolicitacaoStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.UpdateStatus(r.Context(), id, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, request)
	}
}

func DeleteSolicitacao(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
