package products

import (
	"context"

	"github.com/ipa-digital/safra-backend/internal/repo"
	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"github.com/ipa-digital/safra-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists catalog products.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, p *models.Produto) (*models.Produto, error) {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// FindByID loads a product by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Produto, error) {
	var p models.Produto
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns a page of products ordered by name, plus the total row count.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Produto, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Produto{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Produto
	err := r.db.WithContext(ctx).
		Scopes(repo.Paginate(params)).
		Order("nome ASC").
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListByCategoria returns all products in the category.
func (r *Repository) ListByCategoria(ctx context.Context, categoria string) ([]models.Produto, error) {
	var out []models.Produto
	if err := r.db.WithContext(ctx).Where("categoria = ?", categoria).Order("nome ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SearchByNome returns products whose name contains the term, case
// insensitive.
func (r *Repository) SearchByNome(ctx context.Context, termo string) ([]models.Produto, error) {
	var out []models.Produto
	err := r.db.WithContext(ctx).
		Where("LOWER(nome) LIKE LOWER(?)", "%"+termo+"%").
		Order("nome ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DecrementEstoque draws quantidade units from stock in a single conditional
// UPDATE, so concurrent draw-downs re-check the balance at write time instead
// of trusting an earlier read. It reports false when the product is missing
// or the remaining stock does not cover the quantity.
func (r *Repository) DecrementEstoque(ctx context.Context, id int64, quantidade int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Produto{}).
		Where("id = ? AND estoque >= ?", id, quantidade).
		UpdateColumn("estoque", gorm.Expr("estoque - ?", quantidade))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Update persists all columns of the product.
func (r *Repository) Update(ctx context.Context, p *models.Produto) (*models.Produto, error) {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the product row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Produto{}, "id = ?", id).Error
}
