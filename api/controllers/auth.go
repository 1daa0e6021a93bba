package controllers

import (
	"net/http"
	"strings"

	"github.com/ipa-digital/safra-backend/api/responses"
	"github.com/ipa-digital/safra-backend/api/validators"
	authsvc "github.com/ipa-digital/safra-backend/internal/auth"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"github.com/ipa-digital/safra-backend/pkg/logger"
)

type loginRequest struct {
	CPF   string `json:"cpf" validate:"required,cpf"`
	Senha string `json:"senha" validate:"required"`
}

type registerRequest struct {
	Nome            string  `json:"nome" validate:"required"`
	CPF             string  `json:"cpf" validate:"required,cpf"`
	Senha           string  `json:"senha" validate:"required"`
	CAF             *string `json:"caf,omitempty"`
	TipoPropriedade *string `json:"tipoPropriedade,omitempty"`
	CEP             *string `json:"cep,omitempty"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Estado          *string `json:"estado,omitempty"`
	Telefone        *string `json:"telefone,omitempty"`
	Endereco        *string `json:"endereco,omitempty"`
	Cidade          *string `json:"cidade,omitempty"`
}

func parseBearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "Credenciais ausentes")
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "Credenciais ausentes")
	}
	return token, nil
}

// AuthLogin authenticates a CPF/password pair and opens a session.
func AuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Login(r.Context(), authsvc.LoginInput{
			CPF:   payload.CPF,
			Senha: payload.Senha,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// AuthRegister self-registers a beneficiary and opens a session right away.
func AuthRegister(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Register(r.Context(), authsvc.RegisterInput{
			Nome:            payload.Nome,
			CPF:             payload.CPF,
			Senha:           payload.Senha,
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

		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

// AuthLogout revokes the session tied to the presented access token.
func AuthLogout(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		token, err := parseBearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Logout(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthValidate reports who the presented token belongs to, if it is live.
func AuthValidate(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		token, err := parseBearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		identity, err := svc.Validate(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, identity)
	}
}
