package seeds

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/ipa-digital/safra-backend/pkg/db/models"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes seed catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateSeedInput) (*SeedDTO, error)
	GetByID(ctx context.Context, id int64) (*SeedDTO, error)
	List(ctx context.Context) ([]SeedDTO, error)
	ListAtivas(ctx context.Context) ([]SeedDTO, error)
	ListByTipo(ctx context.Context, tipo string) ([]SeedDTO, error)
	Update(ctx context.Context, id int64, input UpdateSeedInput) (*SeedDTO, error)
	SetStock(ctx context.Context, id int64, estoque int) (*SeedDTO, error)
	ToggleStatus(ctx context.Context, id int64) (*SeedDTO, error)
	Delete(ctx context.Context, id int64) error
}

// CreateSeedInput holds the validated payload to add a seed. New entries
// start active unless told otherwise.
type CreateSeedInput struct {
	Nome              string
	Tipo              string
	Cultura           string
	Variedade         *string
	Descricao         *string
	EstoqueDisponivel int
	UnidadeMedida     string
	PesoUnidade       *decimal.Decimal
	Ativo             *bool
	ImagemURL         *string
	Observacoes       *string
}

// UpdateSeedInput holds optional mutation values for a seed.
type UpdateSeedInput struct {
	Nome              *string
	Tipo              *string
	Cultura           *string
	Variedade         *string
	Descricao         *string
	EstoqueDisponivel *int
	UnidadeMedida     *string
	PesoUnidade       *decimal.Decimal
	ImagemURL         *string
	Observacoes       *string
}

type seedRepository interface {
	Create(ctx context.Context, s *models.Semente) (*models.Semente, error)
	FindByID(ctx context.Context, id int64) (*models.Semente, error)
	List(ctx context.Context) ([]models.Semente, error)
	ListAtivas(ctx context.Context) ([]models.Semente, error)
	ListByTipo(ctx context.Context, tipo string) ([]models.Semente, error)
	Update(ctx context.Context, s *models.Semente) (*models.Semente, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo seedRepository
}

// ServiceParams bundles the dependencies required to build a seed service.
type ServiceParams struct {
	Repo seedRepository
}

// NewService constructs a seed service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("seed repository is required")
	}
	return &service{repo: params.Repo}, nil
}

// Create adds a seed to the catalog.
func (s *service) Create(ctx context.Context, input CreateSeedInput) (*SeedDTO, error) {
	if input.EstoqueDisponivel < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "O estoque não pode ser negativo")
	}

	ativo := true
	if input.Ativo != nil {
		ativo = *input.Ativo
	}

	seed := &models.Semente{
		Nome:              input.Nome,
		Tipo:              input.Tipo,
		Cultura:           input.Cultura,
		Variedade:         input.Variedade,
		Descricao:         input.Descricao,
		EstoqueDisponivel: input.EstoqueDisponivel,
		UnidadeMedida:     input.UnidadeMedida,
		PesoUnidade:       input.PesoUnidade,
		Ativo:             ativo,
		ImagemURL:         input.ImagemURL,
		Observacoes:       input.Observacoes,
	}

	created, err := s.repo.Create(ctx, seed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert semente")
	}
	return NewSeedDTO(created), nil
}

// GetByID loads a seed by primary key.
func (s *service) GetByID(ctx context.Context, id int64) (*SeedDTO, error) {
	seed, err := s.loadSeed(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewSeedDTO(seed), nil
}

// List returns the full seed catalog.
func (s *service) List(ctx context.Context) ([]SeedDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sementes")
	}
	return NewSeedDTOs(items), nil
}

// ListAtivas returns only seeds currently offered to beneficiaries.
func (s *service) ListAtivas(ctx context.Context) ([]SeedDTO, error) {
	items, err := s.repo.ListAtivas(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sementes ativas")
	}
	return NewSeedDTOs(items), nil
}

// ListByTipo returns all seeds of the given type.
func (s *service) ListByTipo(ctx context.Context, tipo string) ([]SeedDTO, error) {
	tipo = strings.TrimSpace(tipo)
	if tipo == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tipo é obrigatório")
	}

	items, err := s.repo.ListByTipo(ctx, tipo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sementes by tipo")
	}
	return NewSeedDTOs(items), nil
}

// Update applies changes to an existing seed.
func (s *service) Update(ctx context.Context, id int64, input UpdateSeedInput) (*SeedDTO, error) {
	seed, err := s.loadSeed(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.EstoqueDisponivel != nil && *input.EstoqueDisponivel < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "O estoque não pode ser negativo")
	}

	applySeedUpdate(seed, input)

	updated, err := s.repo.Update(ctx, seed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update semente")
	}
	return NewSeedDTO(updated), nil
}

// SetStock replaces the available stock with the given absolute value.
func (s *service) SetStock(ctx context.Context, id int64, estoque int) (*SeedDTO, error) {
	if estoque < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "O estoque não pode ser negativo")
	}

	seed, err := s.loadSeed(ctx, id)
	if err != nil {
		return nil, err
	}
	seed.EstoqueDisponivel = estoque

	updated, err := s.repo.Update(ctx, seed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update estoque semente")
	}
	return NewSeedDTO(updated), nil
}

// ToggleStatus flips the active flag of the seed.
func (s *service) ToggleStatus(ctx context.Context, id int64) (*SeedDTO, error) {
	seed, err := s.loadSeed(ctx, id)
	if err != nil {
		return nil, err
	}
	seed.Ativo = !seed.Ativo

	updated, err := s.repo.Update(ctx, seed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: toggle semente")
	}
	return NewSeedDTO(updated), nil
}

// Delete removes a seed from the catalog.
func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.loadSeed(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete semente")
	}
	return nil
}

func (s *service) loadSeed(ctx context.Context, id int64) (*models.Semente, error) {
	seed, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Semente não encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load semente")
	}
	return seed, nil
}

func applySeedUpdate(seed *models.Semente, input UpdateSeedInput) {
	if input.Nome != nil {
		seed.Nome = *input.Nome
	}
	if input.Tipo != nil {
		seed.Tipo = *input.Tipo
	}
	if input.Cultura != nil {
		seed.Cultura = *input.Cultura
	}
	if input.Variedade != nil {
		seed.Variedade = input.Variedade
	}
	if input.Descricao != nil {
		seed.Descricao = input.Descricao
	}
	if input.EstoqueDisponivel != nil {
		seed.EstoqueDisponivel = *input.EstoqueDisponivel
	}
	if input.UnidadeMedida != nil {
		seed.UnidadeMedida = *input.UnidadeMedida
	}
	if input.PesoUnidade != nil {
		seed.PesoUnidade = input.PesoUnidade
	}
	if input.ImagemURL != nil {
		seed.ImagemURL = input.ImagemURL
	}
	if input.Observacoes != nil {
		seed.Observacoes = input.Observacoes
	}
}
