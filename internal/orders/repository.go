package orders

import (
	"context"

	"github.com/ipa-digital/safra-backend/internal/repo"
	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"github.com/ipa-digital/safra-backend/pkg/enums"
	"github.com/ipa-digital/safra-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists orders.
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

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, p *models.Pedido) (*models.Pedido, error) {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// FindByID loads an order with its user and product.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Pedido, error) {
	var p models.Pedido
	err := r.db.WithContext(ctx).
		Preload("Usuario").
		Preload("Produto").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByNumeroRastreio loads an order by its tracking code.
func (r *Repository) FindByNumeroRastreio(ctx context.Context, codigo string) (*models.Pedido, error) {
	var p models.Pedido
	err := r.db.WithContext(ctx).
		Preload("Usuario").
		Preload("Produto").
		First(&p, "numero_rastreio = ?", codigo).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ExistsByNumeroRastreio reports whether the tracking code is taken.
func (r *Repository) ExistsByNumeroRastreio(ctx context.Context, codigo string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Pedido{}).Where("numero_rastreio = ?", codigo).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns a page of orders, newest first, plus the total row count.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Pedido, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Pedido{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Pedido
	err := r.db.WithContext(ctx).
		Preload("Usuario").
		Preload("Produto").
		Scopes(repo.Paginate(params)).
		Order("data_pedido DESC").
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListByStatus returns all orders in the given pipeline stage.
func (r *Repository) ListByStatus(ctx context.Context, status enums.OrderStatus) ([]models.Pedido, error) {
	var out []models.Pedido
	err := r.db.WithContext(ctx).
		Preload("Usuario").
		Preload("Produto").
		Where("status = ?", status).
		Order("data_pedido DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUsuario returns all orders placed for the beneficiary.
func (r *Repository) ListByUsuario(ctx context.Context, usuarioID int64) ([]models.Pedido, error) {
	var out []models.Pedido
	err := r.db.WithContext(ctx).
		Preload("Usuario").
		Preload("Produto").
		Where("usuario_id = ?", usuarioID).
		Order("data_pedido DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists all columns of the order.
func (r *Repository) Update(ctx context.Context, p *models.Pedido) (*models.Pedido, error) {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the order row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Pedido{}, "id = ?", id).Error
}
