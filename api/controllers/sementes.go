package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ipa-digital/safra-backend/api/responses"
	"github.com/ipa-digital/safra-backend/api/validators"
	seedsvc "github.com/ipa-digital/safra-backend/internal/seeds"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"github.com/ipa-digital/safra-backend/pkg/logger"
)

type createSementeRequest struct {
	Nome              string           `json:"nome" validate:"required"`
	Tipo              string           `json:"tipo" validate:"required"`
	Cultura           string           `json:"cultura" validate:"required"`
	Variedade         *string          `json:"variedade,omitempty"`
	Descricao         *string          `json:"descricao,omitempty"`
	EstoqueDisponivel int              `json:"estoqueDisponivel" validate:"min=0"`
	UnidadeMedida     string           `json:"unidadeMedida" validate:"required"`
	PesoUnidade       *decimal.Decimal `json:"pesoUnidade,omitempty"`
	Ativo             *bool            `json:"ativo,omitempty"`
	ImagemURL         *string          `json:"imagemUrl,omitempty"`
	Observacoes       *string          `json:"observacoes,omitempty"`
}

type updateSementeRequest struct {
	Nome              *string          `json:"nome,omitempty"`
	Tipo              *string          `json:"tipo,omitempty"`
	Cultura           *string          `json:"cultura,omitempty"`
	Variedade         *string          `json:"variedade,omitempty"`
	Descricao         *string          `json:"descricao,omitempty"`
	EstoqueDisponivel *int             `json:"estoqueDisponivel,omitempty" validate:"omitempty,min=0"`
	UnidadeMedida     *string          `json:"unidadeMedida,omitempty"`
	PesoUnidade       *decimal.Decimal `json:"pesoUnidade,omitempty"`
	ImagemURL         *string          `json:"imagemUrl,omitempty"`
	Observacoes       *string          `json:"observacoes,omitempty"`
}

type setSementeEstoqueRequest struct {
	EstoqueDisponivel int `json:"estoqueDisponivel" validate:"min=0"`
}

func CreateSemente(svc seedsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seed service unavailable"))
			return
		}

		var payload createSementeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		seed, err := svc.Create(r.Context(), seedsvc.CreateSeedInput{
			Nome:              payload.Nome,
			Tipo:              payload.Tipo,
			Cultura:           payload.Cultura,
			Variedade:         payload.Variedade,
			Descricao:         payload.Descricao,
			EstoqueDisponivel: payload.EstoqueDisponivel,
			UnidadeMedida:     payload.UnidadeMedida,
			PesoUnidade:       payload.PesoUnidade,
			Ativo:             payload.Ativo,
			ImagemURL:         payload.ImagemURL,
			Observacoes:       payload.Observacoes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, seed)
	}
}

func ListSementes(svc seedsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seed service unavailable"))
			return
		}

		seeds, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, seeds)
	}
}

// ListSementesAtivas returns only entries currently offered to growers.
func ListSementesAtivas(svc seedsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seed service unavailable"))
			return
		}

		seeds, err := svc.ListAtivas(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, seeds)
	}
}

func ListSementesByTipo(svc seedsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seed service unavailable"))
			return
		}

		seeds, err := svc.ListByTipo(r.Context(), chi.URLParam(r, "tipo"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, seeds)
	}
}

func GetSemente(svc seedsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seed service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		seed, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, seed)
	}
}

func UpdateSemente(svc seedsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seed service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateSementeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		seed, err := svc.Update(r.Context(), id, seedsvc.UpdateSeedInput{
			Nome:              payload.Nome,
			Tipo:              payload.Tipo,
			Cultura:           payload.Cultura,
			Variedade:         payload.Variedade,
			Descricao:         payload.Descricao,
			EstoqueDisponivel: payload.EstoqueDisponivel,
			UnidadeMedida:     payload.UnidadeMedida,
			PesoUnidade:       payload.PesoUnidade,
			ImagemURL:         payload.ImagemURL,
			Observacoes:       payload.Observacoes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, seed)
	}
}

// SetSementeEstoque replaces the available stock with an absolute value.
func SetSementeEstoque(svc seedsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seed service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setSementeEstoqueRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		seed, err := svc.SetStock(r.Context(), id, payload.EstoqueDisponivel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, seed)
	}
}

// ToggleSementeStatus flips the active flag.
func ToggleSementeStatus(svc seedsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seed service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		seed, err := svc.ToggleStatus(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, seed)
	}
}

func DeleteSemente(svc seedsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seed service unavailable"))
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
