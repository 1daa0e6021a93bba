package controllers

import (
	"net/http"

	"github.com/ipa-digital/safra-backend/api/responses"
	"github.com/ipa-digital/safra-backend/api/validators"
	agentsvc "github.com/ipa-digital/safra-backend/internal/agents"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"github.com/ipa-digital/safra-backend/pkg/logger"
)

type createUsuarioIpaRequest struct {
	Nome         string  `json:"nome" validate:"required"`
	CPF          string  `json:"cpf" validate:"required,cpf"`
	Senha        string  `json:"senha" validate:"required"`
	Telefone     *string `json:"telefone,omitempty"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	MatriculaIpa *string `json:"matriculaIpa,omitempty"`
	LocalAtuacao *string `json:"localAtuacao,omitempty"`
	Cidade       *string `json:"cidade,omitempty"`
	UF           *string `json:"uf,omitempty" validate:"omitempty,len=2"`
}

type updateUsuarioIpaRequest struct {
	Nome         *string `json:"nome,omitempty"`
	Telefone     *string `json:"telefone,omitempty"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	MatriculaIpa *string `json:"matriculaIpa,omitempty"`
	LocalAtuacao *string `json:"localAtuacao,omitempty"`
	Cidade       *string `json:"cidade,omitempty"`
	UF           *string `json:"uf,omitempty" validate:"omitempty,len=2"`
}

// CreateUsuarioIpa provisions a staff agent account.
func CreateUsuarioIpa(svc agentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		var payload createUsuarioIpaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agent, err := svc.Create(r.Context(), agentsvc.CreateAgentInput{
			Nome:         payload.Nome,
			CPF:          payload.CPF,
			Senha:        payload.Senha,
			Telefone:     payload.Telefone,
			Email:        payload.Email,
			MatriculaIpa: payload.MatriculaIpa,
			LocalAtuacao: payload.LocalAtuacao,
			Cidade:       payload.Cidade,
			UF:           payload.UF,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, agent)
	}
}

func ListUsuariosIpa(svc agentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		agents, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, agents)
	}
}

func GetUsuarioIpa(svc agentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agent, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, agent)
	}
}

func UpdateUsuarioIpa(svc agentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateUsuarioIpaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agent, err := svc.Update(r.Context(), id, agentsvc.UpdateAgentInput{
			Nome:         payload.Nome,
			Telefone:     payload.Telefone,
			Email:        payload.Email,
			MatriculaIpa: payload.MatriculaIpa,
			LocalAtuacao: payload.LocalAtuacao,
			Cidade:       payload.Cidade,
			UF:           payload.UF,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, agent)
	}
}

func DeleteUsuarioIpa(svc agentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
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
