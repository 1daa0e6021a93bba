package agents

import (
	"context"

	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists field agent records.
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

// Create inserts a new agent.
func (r *Repository) Create(ctx context.Context, agent *models.UsuarioIpa) (*models.UsuarioIpa, error) {
	if err := r.db.WithContext(ctx).Create(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

// FindByID loads an agent by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.UsuarioIpa, error) {
	var agent models.UsuarioIpa
	if err := r.db.WithContext(ctx).First(&agent, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// FindByCPF loads an agent by canonical CPF.
func (r *Repository) FindByCPF(ctx context.Context, cpf string) (*models.UsuarioIpa, error) {
	var agent models.UsuarioIpa
	if err := r.db.WithContext(ctx).First(&agent, "cpf = ?", cpf).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// ExistsByCPF reports whether an agent with the CPF is registered.
func (r *Repository) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UsuarioIpa{}).Where("cpf = ?", cpf).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByEmail reports whether the email is already taken.
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UsuarioIpa{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all agents ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.UsuarioIpa, error) {
	var out []models.UsuarioIpa
	if err := r.db.WithContext(ctx).Order("nome ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists all columns of the agent.
func (r *Repository) Update(ctx context.Context, agent *models.UsuarioIpa) (*models.UsuarioIpa, error) {
	if err := r.db.WithContext(ctx).Save(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

// Delete removes the agent row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.UsuarioIpa{}, "id = ?", id).Error
}
