package seeds

import (
	"context"

	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists seed catalog records.
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

// Create inserts a new seed.
func (r *Repository) Create(ctx context.Context, s *models.Semente) (*models.Semente, error) {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// FindByID loads a seed by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Semente, error) {
	var s models.Semente
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all seeds ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Semente, error) {
	var out []models.Semente
	if err := r.db.WithContext(ctx).Order("nome ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListAtivas returns only seeds currently offered.
func (r *Repository) ListAtivas(ctx context.Context) ([]models.Semente, error) {
	var out []models.Semente
	if err := r.db.WithContext(ctx).Where("ativo = ?", true).Order("nome ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListByTipo returns all seeds of the given type.
func (r *Repository) ListByTipo(ctx context.Context, tipo string) ([]models.Semente, error) {
	var out []models.Semente
	if err := r.db.WithContext(ctx).Where("tipo = ?", tipo).Order("nome ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists all columns of the seed.
func (r *Repository) Update(ctx context.Context, s *models.Semente) (*models.Semente, error) {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes the seed row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Semente{}, "id = ?", id).Error
}
