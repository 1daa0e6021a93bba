package requests

import (
	"context"

	"github.com/ipa-digital/safra-backend/internal/repo"
	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"github.com/ipa-digital/safra-backend/pkg/enums"
	"github.com/ipa-digital/safra-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists input requests.
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

// Create inserts a new request.
func (r *Repository) Create(ctx context.Context, s *models.Solicitacao) (*models.Solicitacao, error) {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// FindByID loads a request by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Solicitacao, error) {
	var s models.Solicitacao
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByCodigoRastreio loads a request by its tracking code.
func (r *Repository) FindByCodigoRastreio(ctx context.Context, codigo string) (*models.Solicitacao, error) {
	var s models.Solicitacao
	if err := r.db.WithContext(ctx).First(&s, "codigo_rastreio = ?", codigo).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ExistsByCodigoRastreio reports whether the tracking code is taken.
func (r *Repository) ExistsByCodigoRastreio(ctx context.Context, codigo string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Solicitacao{}).Where("codigo_rastreio = ?", codigo).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns a page of requests, newest first, plus the total row count.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Solicitacao, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Solicitacao{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Solicitacao
	err := r.db.WithContext(ctx).
		Scopes(repo.Paginate(params)).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListByStatus returns all requests in the given review stage.
func (r *Repository) ListByStatus(ctx context.Context, status enums.RequestStatus) ([]models.Solicitacao, error) {
	var out []models.Solicitacao
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListBySolicitanteCPF returns all requests filed by the agent.
func (r *Repository) ListBySolicitanteCPF(ctx context.Context, cpf string) ([]models.Solicitacao, error) {
	var out []models.Solicitacao
	if err := r.db.WithContext(ctx).Where("solicitante_cpf = ?", cpf).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListByBeneficiarioCPF returns all requests filed for the beneficiary.
func (r *Repository) ListByBeneficiarioCPF(ctx context.Context, cpf string) ([]models.Solicitacao, error) {
	var out []models.Solicitacao
	if err := r.db.WithContext(ctx).Where("beneficiario_cpf = ?", cpf).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists all columns of the request.
func (r *Repository) Update(ctx context.Context, s *models.Solicitacao) (*models.Solicitacao, error) {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes the request row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Solicitacao{}, "id = ?", id).Error
}
