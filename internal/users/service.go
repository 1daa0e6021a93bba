package users

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

// Service exposes beneficiary management operations.
type Service interface {
	Create(ctx context.Context, input CreateUserInput) (*UserDTO, error)
	GetByID(ctx context.Context, id int64) (*UserDTO, error)
	GetByCPF(ctx context.Context, rawCPF string) (*UserDTO, error)
	VerifyCPF(ctx context.Context, rawCPF string) (bool, error)
	List(ctx context.Context) ([]UserDTO, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*UserDTO, error)
	Delete(ctx context.Context, id int64) error
}

// CreateUserInput holds the validated payload to register a beneficiary.
type CreateUserInput struct {
	Nome            string
	CPF             string
	CAF             *string
	TipoPropriedade *string
	CEP             *string
	Email           *string
	Estado          *string
	Telefone        *string
	Endereco        *string
	Cidade          *string
	// Senha is optional: agent-created profiles start without a credential
	// and cannot log in until one is set through registration.
	Senha *string
}

// UpdateUserInput holds optional mutation values for a beneficiary.
// CPF is immutable once registered; identity never changes on update.
type UpdateUserInput struct {
	Nome            *string
	CAF             *string
	TipoPropriedade *string
	CEP             *string
	Email           *string
	Estado          *string
	Telefone        *string
	Endereco        *string
	Cidade          *string
}

type userRepository interface {
	Create(ctx context.Context, user *models.Usuario) (*models.Usuario, error)
	FindByID(ctx context.Context, id int64) (*models.Usuario, error)
	FindByCPF(ctx context.Context, cpf string) (*models.Usuario, error)
	ExistsByCPF(ctx context.Context, cpf string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]models.Usuario, error)
	Update(ctx context.Context, user *models.Usuario) (*models.Usuario, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo        userRepository
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build a user service.
type ServiceParams struct {
	Repo           userRepository
	PasswordConfig config.PasswordConfig
}

// NewService constructs a beneficiary service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{repo: params.Repo, passwordCfg: params.PasswordConfig}, nil
}

// Create registers a beneficiary after normalizing and validating the CPF.
func (s *service) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	canonical, err := cpf.Parse(input.CPF)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cpf inválido")
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

	var senhaHash string
	if input.Senha != nil && *input.Senha != "" {
		if len(*input.Senha) < s.passwordCfg.MinLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("A senha deve ter no mínimo %d caracteres", s.passwordCfg.MinLength))
		}
		senhaHash, err = security.HashPassword(*input.Senha, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
	}

	user := &models.Usuario{
		Nome:            input.Nome,
		CPF:             canonical,
		CAF:             input.CAF,
		TipoPropriedade: input.TipoPropriedade,
		CEP:             input.CEP,
		Email:           input.Email,
		Estado:          input.Estado,
		Telefone:        input.Telefone,
		Endereco:        input.Endereco,
		Cidade:          input.Cidade,
		SenhaHash:       senhaHash,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		// Backstop for a concurrent registration racing past the CPF lookup.
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "CPF já cadastrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert usuario")
	}
	return NewUserDTO(created), nil
}

// GetByID loads a beneficiary by primary key.
func (s *service) GetByID(ctx context.Context, id int64) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Usuário não encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load usuario")
	}
	return NewUserDTO(user), nil
}

// GetByCPF normalizes the input and loads the matching beneficiary.
func (s *service) GetByCPF(ctx context.Context, rawCPF string) (*UserDTO, error) {
	canonical := cpf.Normalize(rawCPF)
	if len(canonical) != cpf.Length {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cpf inválido")
	}

	user, err := s.repo.FindByCPF(ctx, canonical)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Usuário não encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load usuario by cpf")
	}
	return NewUserDTO(user), nil
}

// VerifyCPF reports whether a beneficiary exists for the normalized CPF.
func (s *service) VerifyCPF(ctx context.Context, rawCPF string) (bool, error) {
	canonical := cpf.Normalize(rawCPF)
	if len(canonical) != cpf.Length {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "cpf inválido")
	}

	exists, err := s.repo.ExistsByCPF(ctx, canonical)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check cpf")
	}
	return exists, nil
}

// List returns all registered beneficiaries.
func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list usuarios")
	}
	return NewUserDTOs(users), nil
}

// Update applies profile changes to an existing beneficiary.
func (s *service) Update(ctx context.Context, id int64, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Usuário não encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load usuario")
	}

	if input.Email != nil && *input.Email != "" && (user.Email == nil || *user.Email != *input.Email) {
		taken, err := s.repo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check email")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Email já cadastrado")
		}
	}

	applyUserUpdate(user, input)

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update usuario")
	}
	return NewUserDTO(updated), nil
}

// Delete removes a beneficiary.
func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Usuário não encontrado")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load usuario")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete usuario")
	}
	return nil
}

func applyUserUpdate(user *models.Usuario, input UpdateUserInput) {
	if input.Nome != nil {
		user.Nome = *input.Nome
	}
	if input.CAF != nil {
		user.CAF = input.CAF
	}
	if input.TipoPropriedade != nil {
		user.TipoPropriedade = input.TipoPropriedade
	}
	if input.CEP != nil {
		user.CEP = input.CEP
	}
	if input.Email != nil {
		user.Email = input.Email
	}
	if input.Estado != nil {
		user.Estado = input.Estado
	}
	if input.Telefone != nil {
		user.Telefone = input.Telefone
	}
	if input.Endereco != nil {
		user.Endereco = input.Endereco
	}
	if input.Cidade != nil {
		user.Cidade = input.Cidade
	}
}
