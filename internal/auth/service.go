package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/ipa-digital/safra-backend/internal/users"
	pkgauth "github.com/ipa-digital/safra-backend/pkg/auth"
	"github.com/ipa-digital/safra-backend/pkg/auth/session"
	"github.com/ipa-digital/safra-backend/pkg/config"
	"github.com/ipa-digital/safra-backend/pkg/cpf"
	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"github.com/ipa-digital/safra-backend/pkg/enums"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"github.com/ipa-digital/safra-backend/pkg/security"
	"gorm.io/gorm"
)

// Service exposes authentication operations for both actor kinds.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*SessionDTO, error)
	Register(ctx context.Context, input RegisterInput) (*SessionDTO, error)
	Logout(ctx context.Context, rawToken string) error
	Validate(ctx context.Context, rawToken string) (*IdentityDTO, error)
}

// LoginInput is the credential pair presented by the client.
type LoginInput struct {
	CPF   string
	Senha string
}

// RegisterInput is the self-signup payload for beneficiaries. Staff
// accounts are provisioned through the agent management endpoints instead.
type RegisterInput struct {
	Nome            string
	CPF             string
	Senha           string
	CAF             *string
	TipoPropriedade *string
	CEP             *string
	Email           *string
	Estado          *string
	Telefone        *string
	Endereco        *string
	Cidade          *string
}

type agentFinder interface {
	FindByCPF(ctx context.Context, cpf string) (*models.UsuarioIpa, error)
}

type userFinder interface {
	FindByCPF(ctx context.Context, cpf string) (*models.Usuario, error)
}

type userRegistrar interface {
	Create(ctx context.Context, input users.CreateUserInput) (*users.UserDTO, error)
}

type sessionRegistry interface {
	Register(ctx context.Context, tokenID, subject string) error
	Revoke(ctx context.Context, tokenID string) error
	HasSession(ctx context.Context, tokenID string) (bool, error)
}

type service struct {
	agents   agentFinder
	users    userFinder
	signup   userRegistrar
	sessions sessionRegistry
	jwtCfg   config.JWTConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Agents   agentFinder
	Users    userFinder
	Signup   userRegistrar
	Sessions sessionRegistry
	JWT      config.JWTConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Agents == nil || params.Users == nil {
		return nil, fmt.Errorf("agent and user lookups are required")
	}
	if params.Signup == nil {
		return nil, fmt.Errorf("user registrar is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session registry is required")
	}
	return &service{
		agents:   params.Agents,
		users:    params.Users,
		signup:   params.Signup,
		sessions: params.Sessions,
		jwtCfg:   params.JWT,
	}, nil
}

var errBadCredentials = pkgerrors.New(pkgerrors.CodeUnauthorized, "CPF ou senha inválidos")

// Login authenticates either actor kind by CPF. Staff accounts are checked
// first; a CPF present in both tables authenticates as staff.
func (s *service) Login(ctx context.Context, input LoginInput) (*SessionDTO, error) {
	canonical := cpf.Normalize(input.CPF)
	if len(canonical) != cpf.Length || input.Senha == "" {
		return nil, errBadCredentials
	}

	nome, hash, role, err := s.resolveAccount(ctx, canonical)
	if err != nil {
		return nil, err
	}
	if hash == "" {
		// Profile exists but was created without a credential.
		return nil, errBadCredentials
	}

	ok, err := security.VerifyPassword(input.Senha, hash)
	if err != nil || !ok {
		return nil, errBadCredentials
	}

	return s.openSession(ctx, canonical, nome, role)
}

// Register signs up a beneficiary and opens a session for them.
func (s *service) Register(ctx context.Context, input RegisterInput) (*SessionDTO, error) {
	if input.Senha == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "A senha é obrigatória")
	}

	created, err := s.signup.Create(ctx, users.CreateUserInput{
		Nome:            input.Nome,
		CPF:             input.CPF,
		CAF:             input.CAF,
		TipoPropriedade: input.TipoPropriedade,
		CEP:             input.CEP,
		Email:           input.Email,
		Estado:          input.Estado,
		Telefone:        input.Telefone,
		Endereco:        input.Endereco,
		Cidade:          input.Cidade,
		Senha:           &input.Senha,
	})
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, created.CPF, created.Nome, enums.ActorRoleBeneficiario)
}

// Logout revokes the session behind the presented token. An already
// expired or revoked token is not an error.
func (s *service) Logout(ctx context.Context, rawToken string) error {
	claims, err := pkgauth.ParseAccessToken(s.jwtCfg, rawToken)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session: revoke")
	}
	return nil
}

// Validate verifies the token signature and that its session is still
// active, returning the identity it carries.
func (s *service) Validate(ctx context.Context, rawToken string) (*IdentityDTO, error) {
	claims, err := pkgauth.ParseAccessToken(s.jwtCfg, rawToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token inválido ou expirado")
	}

	active, err := s.sessions.HasSession(ctx, claims.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session: check")
	}
	if !active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sessão encerrada")
	}

	return &IdentityDTO{
		Nome: claims.Nome,
		CPF:  claims.CPF(),
		Role: claims.Role,
	}, nil
}

func (s *service) resolveAccount(ctx context.Context, canonical string) (nome, hash string, role enums.ActorRole, err error) {
	agent, err := s.agents.FindByCPF(ctx, canonical)
	switch {
	case err == nil:
		return agent.Nome, agent.SenhaHash, enums.ActorRoleAgente, nil
	case !stderrors.Is(err, gorm.ErrRecordNotFound):
		return "", "", "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load usuario_ipa by cpf")
	}

	user, err := s.users.FindByCPF(ctx, canonical)
	switch {
	case err == nil:
		return user.Nome, user.SenhaHash, enums.ActorRoleBeneficiario, nil
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return "", "", "", errBadCredentials
	default:
		return "", "", "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load usuario by cpf")
	}
}

func (s *service) openSession(ctx context.Context, canonical, nome string, role enums.ActorRole) (*SessionDTO, error) {
	now := time.Now().UTC()
	tokenID := session.NewTokenID()

	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		CPF:  canonical,
		Nome: nome,
		Role: role,
		JTI:  tokenID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	if err := s.sessions.Register(ctx, tokenID, canonical); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session: register")
	}

	return &SessionDTO{
		Token:     token,
		ExpiresAt: now.Add(s.jwtCfg.AccessTokenTTL()),
		Nome:      nome,
		CPF:       canonical,
		Role:      role,
	}, nil
}
