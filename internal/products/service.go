package products

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/ipa-digital/safra-backend/pkg/db/models"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"github.com/ipa-digital/safra-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes product catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	GetByID(ctx context.Context, id int64) (*ProductDTO, error)
	List(ctx context.Context, params pagination.Params) (*ProductPage, error)
	ListByCategoria(ctx context.Context, categoria string) ([]ProductDTO, error)
	SearchByNome(ctx context.Context, termo string) ([]ProductDTO, error)
	Update(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error)
	AdjustStock(ctx context.Context, id int64, delta int) (*ProductDTO, error)
	Delete(ctx context.Context, id int64) error
}

// CreateProductInput holds the validated payload to add a catalog product.
type CreateProductInput struct {
	Nome          string
	Descricao     *string
	Categoria     string
	Preco         decimal.Decimal
	Estoque       int
	UnidadeMedida string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Nome          *string
	Descricao     *string
	Categoria     *string
	Preco         *decimal.Decimal
	Estoque       *int
	UnidadeMedida *string
}

type productRepository interface {
	Create(ctx context.Context, p *models.Produto) (*models.Produto, error)
	FindByID(ctx context.Context, id int64) (*models.Produto, error)
	List(ctx context.Context, params pagination.Params) ([]models.Produto, int64, error)
	ListByCategoria(ctx context.Context, categoria string) ([]models.Produto, error)
	SearchByNome(ctx context.Context, termo string) ([]models.Produto, error)
	Update(ctx context.Context, p *models.Produto) (*models.Produto, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo productRepository
}

// ServiceParams bundles the dependencies required to build a product service.
type ServiceParams struct {
	Repo productRepository
}

// NewService constructs a product service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{repo: params.Repo}, nil
}

// Create adds a product to the catalog.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if input.Preco.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "O preço não pode ser negativo")
	}
	if input.Estoque < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "O estoque não pode ser negativo")
	}

	p := &models.Produto{
		Nome:          input.Nome,
		Descricao:     input.Descricao,
		Categoria:     input.Categoria,
		Preco:         input.Preco,
		Estoque:       input.Estoque,
		UnidadeMedida: input.UnidadeMedida,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert produto")
	}
	return NewProductDTO(created), nil
}

// GetByID loads a product by primary key.
func (s *service) GetByID(ctx context.Context, id int64) (*ProductDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Produto não encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load produto")
	}
	return NewProductDTO(p), nil
}

// List returns a page of the catalog ordered by name.
func (s *service) List(ctx context.Context, params pagination.Params) (*ProductPage, error) {
	params = params.Normalize()

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list produtos")
	}
	return &ProductPage{
		Items: NewProductDTOs(items),
		Meta:  pagination.MetaFor(params, total),
	}, nil
}

// ListByCategoria returns all products in the given category.
func (s *service) ListByCategoria(ctx context.Context, categoria string) ([]ProductDTO, error) {
	categoria = strings.TrimSpace(categoria)
	if categoria == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "categoria é obrigatória")
	}

	items, err := s.repo.ListByCategoria(ctx, categoria)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list produtos by categoria")
	}
	return NewProductDTOs(items), nil
}

// SearchByNome returns products whose name contains the term.
func (s *service) SearchByNome(ctx context.Context, termo string) ([]ProductDTO, error) {
	termo = strings.TrimSpace(termo)
	if termo == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "termo de busca é obrigatório")
	}

	items, err := s.repo.SearchByNome(ctx, termo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: search produtos")
	}
	return NewProductDTOs(items), nil
}

// Update applies changes to an existing product.
func (s *service) Update(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Produto não encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load produto")
	}

	if input.Preco != nil && input.Preco.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "O preço não pode ser negativo")
	}
	if input.Estoque != nil && *input.Estoque < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "O estoque não pode ser negativo")
	}

	applyProductUpdate(p, input)

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update produto")
	}
	return NewProductDTO(updated), nil
}

// AdjustStock adds the delta to the current stock. Negative deltas draw
// stock down and are rejected when they would leave a negative balance.
func (s *service) AdjustStock(ctx context.Context, id int64, delta int) (*ProductDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Produto não encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load produto")
	}

	next := p.Estoque + delta
	if next < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Estoque insuficiente")
	}
	p.Estoque = next

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update estoque")
	}
	return NewProductDTO(updated), nil
}

// Delete removes a product from the catalog.
func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Produto não encontrado")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load produto")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete produto")
	}
	return nil
}

func applyProductUpdate(p *models.Produto, input UpdateProductInput) {
	if input.Nome != nil {
		p.Nome = *input.Nome
	}
	if input.Descricao != nil {
		p.Descricao = input.Descricao
	}
	if input.Categoria != nil {
		p.Categoria = *input.Categoria
	}
	if input.Preco != nil {
		p.Preco = *input.Preco
	}
	if input.Estoque != nil {
		p.Estoque = *input.Estoque
	}
	if input.UnidadeMedida != nil {
		p.UnidadeMedida = *input.UnidadeMedida
	}
}
