package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ipa-digital/safra-backend/api/responses"
	"github.com/ipa-digital/safra-backend/api/validators"
	usersvc "github.com/ipa-digital/safra-backend/internal/users"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"github.com/ipa-digital/safra-backend/pkg/logger"
)

type createUsuarioRequest struct {
	Nome            string  `json:"nome" validate:"required"`
	CPF             string  `json:"cpf" validate:"required,cpf"`
	CAF             *string `json:"caf,omitempty"`
	TipoPropriedade *string `json:"tipoPropriedade,omitempty"`
	CEP             *string `json:"cep,omitempty"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Estado          *string `json:"estado,omitempty"`
	Telefone        *string `json:"telefone,omitempty"`
	Endereco        *string `json:"endereco,omitempty"`
	Cidade          *string `json:"cidade,omitempty"`
	Senha           *string `json:"senha,omitempty"`
}

type updateUsuarioRequest struct {
	Nome            *string `json:"nome,omitempty"`
	CAF             *string `json:"caf,omitempty"`
	TipoPropriedade *string `json:"tipoPropriedade,omitempty"`
	CEP             *string `json:"cep,omitempty"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Estado          *string `json:"estado,omitempty"`
	Telefone        *string `json:"telefone,omitempty"`
	Endereco        *string `json:"endereco,omitempty"`
	Cidade          *string `json:"cidade,omitempty"`
}

// CreateUsuario registers a beneficiary.
func CreateUsuario(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		var payload createUsuarioRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Create(r.Context(), usersvc.CreateUserInput{
			Nome:            payload.Nome,
			CPF:             payload.CPF,
			CAF:             payload.CAF,
			TipoPropriedade: payload.TipoPropriedade,
			CEP:             payload.CEP,
			Email:           payload.Email,
			Estado:          payload.Estado,
			Telefone:        payload.Telefone,
			Endereco:        payload.Endereco,
			Cidade:          payload.Cidade,
			Senha:           payload.Senha,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// ListUsuarios returns every beneficiary ordered by name.
func ListUsuarios(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		users, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, users)
	}
}

func GetUsuario(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

func GetUsuarioByCPF(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		user, err := svc.GetByCPF(r.Context(), chi.URLParam(r, "cpf"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// VerificarCPF probes whether a CPF is free for registration.
func VerificarCPF(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		taken, err := svc.VerifyCPF(r.Context(), chi.URLParam(r, "cpf"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"cadastrado": taken})
	}
}

func UpdateUsuario(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateUsuarioRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Update(r.Context(), id, usersvc.UpdateUserInput{
			Nome:            payload.Nome,
			CAF:             payload.CAF,
			TipoPropriedade: payload.TipoPropriedade,
			CEP:             payload.CEP,
			Email:           payload.Email,
			Estado:          payload.Estado,
			Telefone:        payload.Telefone,
			Endereco:        payload.Endereco,
			Cidade:          payload.Cidade,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

func DeleteUsuario(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
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
