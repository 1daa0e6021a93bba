package users

import (
	"context"

	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists beneficiary records.
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

// Create inserts a new beneficiary.
func (r *Repository) Create(ctx context.Context, user *models.Usuario) (*models.Usuario, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID loads a beneficiary by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Usuario, error) {
	var user models.Usuario
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByCPF loads a beneficiary by canonical CPF.
func (r *Repository) FindByCPF(ctx context.Context, cpf string) (*models.Usuario, error) {
	var user models.Usuario
	if err := r.db.WithContext(ctx).First(&user, "cpf = ?", cpf).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByCPF reports whether a beneficiary with the CPF is registered.
func (r *Repository) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Usuario{}).Where("cpf = ?", cpf).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByEmail reports whether the email is already taken.
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Usuario{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all beneficiaries ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Usuario, error) {
	var out []models.Usuario
	if err := r.db.WithContext(ctx).Order("nome ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists all columns of the beneficiary.
func (r *Repository) Update(ctx context.Context, user *models.Usuario) (*models.Usuario, error) {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the beneficiary row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Usuario{}, "id = ?", id).Error
}
