package seeds

import (
	"context"
	"testing"

	"github.com/ipa-digital/safra-backend/pkg/db/models"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubSeedRepo struct {
	createFn     func(ctx context.Context, s *models.Semente) (*models.Semente, error)
	findByIDFn   func(ctx context.Context, id int64) (*models.Semente, error)
	listFn       func(ctx context.Context) ([]models.Semente, error)
	listAtivasFn func(ctx context.Context) ([]models.Semente, error)
	listByTipoFn func(ctx context.Context, tipo string) ([]models.Semente, error)
	updateFn     func(ctx context.Context, s *models.Semente) (*models.Semente, error)
	deleteFn     func(ctx context.Context, id int64) error
}

func (s *stubSeedRepo) Create(ctx context.Context, m *models.Semente) (*models.Semente, error) {
	return s.createFn(ctx, m)
}

func (s *stubSeedRepo) FindByID(ctx context.Context, id int64) (*models.Semente, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubSeedRepo) List(ctx context.Context) ([]models.Semente, error) {
	return s.listFn(ctx)
}

func (s *stubSeedRepo) ListAtivas(ctx context.Context) ([]models.Semente, error) {
	return s.listAtivasFn(ctx)
}

func (s *stubSeedRepo) ListByTipo(ctx context.Context, tipo string) ([]models.Semente, error) {
	return s.listByTipoFn(ctx, tipo)
}

func (s *stubSeedRepo) Update(ctx context.Context, m *models.Semente) (*models.Semente, error) {
	return s.updateFn(ctx, m)
}

func (s *stubSeedRepo) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func TestCreateSeedDefaultsToActive(t *testing.T) {
	repo := &stubSeedRepo{
		createFn: func(ctx context.Context, m *models.Semente) (*models.Semente, error) {
			m.ID = 1
			return m, nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	dto, err := svc.Create(context.Background(), CreateSeedInput{
		Nome:          "Milho Crioulo",
		Tipo:          "GRAO",
		Cultura:       "Milho",
		UnidadeMedida: "kg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !dto.Ativo {
		t.Fatal("new seed should start active")
	}
}

func TestToggleStatusFlipsActiveFlag(t *testing.T) {
	seed := &models.Semente{ID: 1, Nome: "Milho Crioulo", Ativo: true}
	repo := &stubSeedRepo{
		findByIDFn: func(ctx context.Context, id int64) (*models.Semente, error) { return seed, nil },
		updateFn:   func(ctx context.Context, m *models.Semente) (*models.Semente, error) { return m, nil },
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	dto, err := svc.ToggleStatus(context.Background(), 1)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if dto.Ativo {
		t.Fatal("expected seed deactivated")
	}

	dto, err = svc.ToggleStatus(context.Background(), 1)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if !dto.Ativo {
		t.Fatal("expected seed reactivated")
	}
}

func TestSetStockReplacesValue(t *testing.T) {
	seed := &models.Semente{ID: 1, EstoqueDisponivel: 80}
	repo := &stubSeedRepo{
		findByIDFn: func(ctx context.Context, id int64) (*models.Semente, error) { return seed, nil },
		updateFn:   func(ctx context.Context, m *models.Semente) (*models.Semente, error) { return m, nil },
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	dto, err := svc.SetStock(context.Background(), 1, 15)
	if err != nil {
		t.Fatalf("set stock: %v", err)
	}
	if dto.EstoqueDisponivel != 15 {
		t.Fatalf("estoque = %d, want 15", dto.EstoqueDisponivel)
	}
}

func TestSetStockRejectsNegative(t *testing.T) {
	svc, _ := NewService(ServiceParams{Repo: &stubSeedRepo{}})

	_, err := svc.SetStock(context.Background(), 1, -1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetSeedNotFound(t *testing.T) {
	repo := &stubSeedRepo{
		findByIDFn: func(ctx context.Context, id int64) (*models.Semente, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	_, err := svc.GetByID(context.Background(), 9)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListByTipoRequiresTipo(t *testing.T) {
	svc, _ := NewService(ServiceParams{Repo: &stubSeedRepo{}})

	_, err := svc.ListByTipo(context.Background(), "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
