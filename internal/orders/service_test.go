package orders

import (
	"context"
	"regexp"
	"testing"

	"github.com/ipa-digital/safra-backend/internal/products"
	"github.com/ipa-digital/safra-backend/internal/users"
	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"github.com/ipa-digital/safra-backend/pkg/enums"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"github.com/ipa-digital/safra-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteTx adapts a plain GORM connection to the transaction runner used in
// production.
type sqliteTx struct {
	db *gorm.DB
}

func (s *sqliteTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

type fixture struct {
	svc     Service
	db      *gorm.DB
	usuario *models.Usuario
	produto *models.Produto
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Usuario{}, &models.Produto{}, &models.Pedido{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	usuario := &models.Usuario{Nome: "Maria das Dores", CPF: "11144477735"}
	if err := conn.Create(usuario).Error; err != nil {
		t.Fatalf("insert usuario: %v", err)
	}
	produto := &models.Produto{
		Nome:          "Adubo Orgânico",
		Categoria:     "FERTILIZANTE",
		Preco:         decimal.NewFromFloat(35.90),
		Estoque:       10,
		UnidadeMedida: "saco",
	}
	if err := conn.Create(produto).Error; err != nil {
		t.Fatalf("insert produto: %v", err)
	}

	svc, err := NewService(ServiceParams{
		Tx:       &sqliteTx{db: conn},
		Orders:   NewRepository(conn),
		Users:    users.NewRepository(conn),
		Products: products.NewRepository(conn),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, db: conn, usuario: usuario, produto: produto}
}

func TestCreateOrderDrawsDownStockAndAllocatesCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, CreateOrderInput{
		UsuarioID:  f.usuario.ID,
		ProdutoID:  f.produto.ID,
		Quantidade: 3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !regexp.MustCompile(`^SAFRA-\d{4}-[A-Z0-9]{8}$`).MatchString(dto.NumeroRastreio) {
		t.Fatalf("bad tracking code %q", dto.NumeroRastreio)
	}
	if dto.Status != enums.OrderStatusPendente {
		t.Fatalf("status = %s, want PENDENTE", dto.Status)
	}
	if want := decimal.NewFromFloat(107.70); !dto.ValorTotal.Equal(want) {
		t.Fatalf("valor total = %s, want %s", dto.ValorTotal, want)
	}

	var produto models.Produto
	if err := f.db.First(&produto, f.produto.ID).Error; err != nil {
		t.Fatalf("reload produto: %v", err)
	}
	if produto.Estoque != 7 {
		t.Fatalf("estoque = %d, want 7", produto.Estoque)
	}
}

func TestCreateOrderRejectsInsufficientStock(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateOrderInput{
		UsuarioID:  f.usuario.ID,
		ProdutoID:  f.produto.ID,
		Quantidade: 11,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	var produto models.Produto
	if err := f.db.First(&produto, f.produto.ID).Error; err != nil {
		t.Fatalf("reload produto: %v", err)
	}
	if produto.Estoque != 10 {
		t.Fatalf("failed order must not touch stock, estoque = %d", produto.Estoque)
	}
}

func TestCreateOrderStockCheckHoldsAgainstConcurrentDrawdown(t *testing.T) {
	f := newFixture(t)

	// Drain part of the stock after the service has read the product but
	// before its decrement statement runs, the way a concurrent order would.
	drained := false
	err := f.db.Callback().Update().Before("gorm:update").Register("orders_test_drain", func(g *gorm.DB) {
		if drained {
			return
		}
		drained = true
		g.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE produtos SET estoque = estoque - 5 WHERE id = ?", f.produto.ID)
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = f.svc.Create(context.Background(), CreateOrderInput{
		UsuarioID:  f.usuario.ID,
		ProdutoID:  f.produto.ID,
		Quantidade: 6,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("decrement must re-check stock at write time, got %v", err)
	}

	var produto models.Produto
	if err := f.db.First(&produto, f.produto.ID).Error; err != nil {
		t.Fatalf("reload produto: %v", err)
	}
	if produto.Estoque < 0 {
		t.Fatalf("stock went negative: %d", produto.Estoque)
	}
	if produto.Estoque != 10 {
		t.Fatalf("rolled back order left estoque = %d, want 10", produto.Estoque)
	}
}

func TestCreateOrderUnknownUsuario(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateOrderInput{
		UsuarioID:  9999,
		ProdutoID:  f.produto.ID,
		Quantidade: 1,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateOrderRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateOrderInput{
		UsuarioID:  f.usuario.ID,
		ProdutoID:  f.produto.ID,
		Quantidade: 0,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusFollowsPipeline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, CreateOrderInput{UsuarioID: f.usuario.ID, ProdutoID: f.produto.ID, Quantidade: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// PENDENTE cannot jump straight to ENTREGUE.
	_, err = f.svc.UpdateStatus(ctx, dto.ID, "ENTREGUE")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on illegal jump, got %v", err)
	}

	for _, next := range []string{"APROVADO", "EM_ROTA", "ENTREGUE"} {
		if dto, err = f.svc.UpdateStatus(ctx, dto.ID, next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
	if dto.DataEntrega == nil {
		t.Fatal("delivery date not stamped on ENTREGUE")
	}

	// ENTREGUE is terminal.
	_, err = f.svc.UpdateStatus(ctx, dto.ID, "CANCELADO")
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected terminal state rejection, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), 1, "DESPACHADO")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTrackReturnsMilestones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, CreateOrderInput{UsuarioID: f.usuario.ID, ProdutoID: f.produto.ID, Quantidade: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	view, err := f.svc.Track(ctx, dto.NumeroRastreio)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if view.Pedido.ID != dto.ID {
		t.Fatal("tracking resolved wrong order")
	}
	if len(view.Etapas) != 5 {
		t.Fatalf("got %d milestones, want 5", len(view.Etapas))
	}
	if !view.Etapas[0].Concluida {
		t.Fatal("first milestone must be complete for any order")
	}
	if view.Etapas[4].Concluida {
		t.Fatal("delivery milestone complete for a pending order")
	}

	_, err = f.svc.Track(ctx, "SAFRA-2026-NAOEXIST")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListFiltersAndPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Create(ctx, CreateOrderInput{UsuarioID: f.usuario.ID, ProdutoID: f.produto.ID, Quantidade: 1}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	page, err := f.svc.List(ctx, pagination.Params{Page: 1, Size: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Meta.TotalItems != 3 || len(page.Items) != 2 {
		t.Fatalf("unexpected page: total=%d len=%d", page.Meta.TotalItems, len(page.Items))
	}
	if page.Items[0].UsuarioNome != "Maria das Dores" || page.Items[0].ProdutoNome != "Adubo Orgânico" {
		t.Fatalf("associations not denormalized: %+v", page.Items[0])
	}

	pendentes, err := f.svc.ListByStatus(ctx, "PENDENTE")
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(pendentes) != 3 {
		t.Fatalf("got %d pending orders, want 3", len(pendentes))
	}

	byUser, err := f.svc.ListByUsuario(ctx, f.usuario.ID)
	if err != nil {
		t.Fatalf("list by usuario: %v", err)
	}
	if len(byUser) != 3 {
		t.Fatalf("got %d orders for usuario, want 3", len(byUser))
	}
}
