package agents

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/ipa-digital/safra-backend/pkg/config"
	"github.com/ipa-digital/safra-backend/pkg/cpf"
	"github.com/ipa-digital/safra-backend/pkg/db"
	"github.com/ipa-digital/safra-backend/pkg/db/models"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"github.com/ipa-digital/safra-backend/pkg/security"
	"gorm.io/gorm"
)

// Service exposes field agent management operations.
type Service interface {
	Create(ctx context.Context, input CreateAgentInput) (*AgentDTO, error)
	GetByID(ctx context.Context, id int64) (*AgentDTO, error)
	GetByCPF(ctx context.Context, rawCPF string) (*AgentDTO, error)
	List(ctx context.Context) ([]AgentDTO, error)
	Update(ctx context.Context, id int64, input UpdateAgentInput) (*AgentDTO, error)
	Delete(ctx context.Context, id int64) error
}

// CreateAgentInput holds the validated payload to register a field agent.
// Unlike beneficiaries, agents always authenticate, so a password is
// mandatory at registration time.
type CreateAgentInput struct {
	Nome         string
	CPF          string
	Senha        string
	Telefone     *string
	Email        *string
	MatriculaIpa *string
	LocalAtuacao *string
	Cidade       *string
	UF           *string
}

// UpdateAgentInput holds optional mutation values for a field agent.
// CPF is immutable once registered.
type UpdateAgentInput struct {
	Nome         *string
	Telefone     *string
	Email        *string
	MatriculaIpa *string
	LocalAtuacao *string
	Cidade       *string
	UF           *string
}

type agentRepository interface {
	Create(ctx context.Context, agent *models.UsuarioIpa) (*models.UsuarioIpa, error)
	FindByID(ctx context.Context, id int64) (*models.UsuarioIpa, error)
	FindByCPF(ctx context.Context, cpf string) (*models.UsuarioIpa, error)
	ExistsByCPF(ctx context.Context, cpf string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]models.UsuarioIpa, error)
	Update(ctx context.Context, agent *models.UsuarioIpa) (*models.UsuarioIpa, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo        agentRepository
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build an agent service.
type ServiceParams struct {
	Repo           agentRepository
	PasswordConfig config.PasswordConfig
}

// NewService constructs an agent service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("agent repository is required")
	}
	return &service{repo: params.Repo, passwordCfg: params.PasswordConfig}, nil
}

// Create registers a field agent after normalizing the CPF and hashing the
// mandatory password.
func (s *service) Create(ctx context.Context, input CreateAgentInput) (*AgentDTO, error) {
	canonical, err := cpf.Parse(input.CPF)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cpf inválido")
	}

	if len(input.Senha) < s.passwordCfg.MinLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("A senha deve ter no mínimo %d caracteres", s.passwordCfg.MinLength))
	}

	taken, err := s.repo.ExistsByCPF(ctx, canonical)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check cpf")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "CPF já cadastrado")
	}

	if input.Email != nil && *input.Email != "" {
		emailTaken, err := s.repo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check email")
		}
		if emailTaken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Email já cadastrado")
		}
	}

	senhaHash, err := security.HashPassword(input.Senha, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	agent := &models.UsuarioIpa{
		Nome:         input.Nome,
		CPF:          canonical,
		Telefone:     input.Telefone,
		Email:        input.Email,
		MatriculaIpa: input.MatriculaIpa,
		LocalAtuacao: input.LocalAtuacao,
		Cidade:       input.Cidade,
		UF:           input.UF,
		SenhaHash:    senhaHash,
	}

	created, err := s.repo.Create(ctx, agent)
	if err != nil {
		// Backstop for a concurrent registration racing past the CPF lookup.
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "CPF já cadastrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert usuario_ipa")
	}
	return NewAgentDTO(created), nil
}

// GetByID loads a field agent by primary key.
func (s *service) GetByID(ctx context.Context, id int64) (*AgentDTO, error) {
	agent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Usuário IPA não encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load usuario_ipa")
	}
	return NewAgentDTO(agent), nil
}

// GetByCPF normalizes the input and loads the matching field agent.
func (s *service) GetByCPF(ctx context.Context, rawCPF string) (*AgentDTO, error) {
	canonical := cpf.Normalize(rawCPF)
	if len(canonical) != cpf.Length {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cpf inválido")
	}

	agent, err := s.repo.FindByCPF(ctx, canonical)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Usuário IPA não encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load usuario_ipa by cpf")
	}
	return NewAgentDTO(agent), nil
}

// List returns all registered field agents.
func (s *service) List(ctx context.Context) ([]AgentDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list usuarios_ipa")
	}
	return NewAgentDTOs(items), nil
}

// Update applies profile changes to an existing field agent.
func (s *service) Update(ctx context.Context, id int64, input UpdateAgentInput) (*AgentDTO, error) {
	agent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Usuário IPA não encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load usuario_ipa")
	}

	if input.Email != nil && *input.Email != "" && (agent.Email == nil || *agent.Email != *input.Email) {
		taken, err := s.repo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check email")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Email já cadastrado")
		}
	}

	applyAgentUpdate(agent, input)

	updated, err := s.repo.Update(ctx, agent)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update usuario_ipa")
	}
	return NewAgentDTO(updated), nil
}

// Delete removes a field agent.
func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Usuário IPA não encontrado")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load usuario_ipa")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete usuario_ipa")
	}
	return nil
}

func applyAgentUpdate(agent *models.UsuarioIpa, input UpdateAgentInput) {
	if input.Nome != nil {
		agent.Nome = *input.Nome
	}
	if input.Telefone != nil {
		agent.Telefone = input.Telefone
	}
	if input.Email != nil {
		agent.Email = input.Email
	}
	if input.MatriculaIpa != nil {
		agent.MatriculaIpa = input.MatriculaIpa
	}
	if input.LocalAtuacao != nil {
		agent.LocalAtuacao = input.LocalAtuacao
	}
	if input.Cidade != nil {
		agent.Cidade = input.Cidade
	}
	if input.UF != nil {
		agent.UF = input.UF
	}
}
