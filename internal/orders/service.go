package orders

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/ipa-digital/safra-backend/internal/products"
	"github.com/ipa-digital/safra-backend/internal/tracking"
	"github.com/ipa-digital/safra-backend/internal/users"
	"github.com/ipa-digital/safra-backend/pkg/db"
	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"github.com/ipa-digital/safra-backend/pkg/enums"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"github.com/ipa-digital/safra-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	GetByID(ctx context.Context, id int64) (*OrderDTO, error)
	Track(ctx context.Context, codigo string) (*OrderTrackingDTO, error)
	List(ctx context.Context, params pagination.Params) (*OrderPage, error)
	ListByStatus(ctx context.Context, status string) ([]OrderDTO, error)
	ListByUsuario(ctx context.Context, usuarioID int64) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*OrderDTO, error)
	Delete(ctx context.Context, id int64) error
}

// CreateOrderInput holds the validated payload to place an order.
type CreateOrderInput struct {
	UsuarioID   int64
	ProdutoID   int64
	Quantidade  int
	Observacoes *string
}

// txRunner runs a function inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx              txRunner
	orders          *Repository
	users           *users.Repository
	products        *products.Repository
	maxCodeAttempts int
}

// ServiceParams bundles the dependencies required to build an order service.
type ServiceParams struct {
	Tx              txRunner
	Orders          *Repository
	Users           *users.Repository
	Products        *products.Repository
	MaxCodeAttempts int
}

// NewService constructs an order service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Orders == nil || params.Users == nil || params.Products == nil {
		return nil, fmt.Errorf("order, user and product repositories are required")
	}
	attempts := params.MaxCodeAttempts
	if attempts <= 0 {
		attempts = tracking.DefaultMaxAttempts
	}
	return &service{
		tx:              params.Tx,
		orders:          params.Orders,
		users:           params.Users,
		products:        params.Products,
		maxCodeAttempts: attempts,
	}, nil
}

// Create places an order. Stock is drawn down and the tracking code is
// allocated inside one transaction so a failed insert leaves nothing behind.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.Quantidade <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "A quantidade deve ser maior que zero")
	}

	var created *models.Pedido
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.users.WithTx(tx)
		productRepo := s.products.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		usuario, err := userRepo.FindByID(ctx, input.UsuarioID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Usuário não encontrado")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load usuario")
		}

		produto, err := productRepo.FindByID(ctx, input.ProdutoID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Produto não encontrado")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load produto")
		}

		// The conditional UPDATE re-checks the balance at write time, so a
		// draw-down committed between our read and this statement cannot be
		// overwritten into an oversell.
		ok, err := productRepo.DecrementEstoque(ctx, produto.ID, input.Quantidade)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update estoque")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "Estoque insuficiente")
		}
		produto.Estoque -= input.Quantidade

		codigo, err := tracking.AllocateCode(ctx, orderRepo.ExistsByNumeroRastreio, s.maxCodeAttempts)
		if err != nil {
			return err
		}

		pedido := &models.Pedido{
			NumeroRastreio: codigo,
			UsuarioID:      usuario.ID,
			ProdutoID:      produto.ID,
			Quantidade:     input.Quantidade,
			ValorTotal:     produto.Preco.Mul(decimal.NewFromInt(int64(input.Quantidade))),
			Status:         enums.OrderStatusPendente,
			DataPedido:     time.Now().UTC(),
			Observacoes:    input.Observacoes,
		}
		created, err = orderRepo.Create(ctx, pedido)
		if err != nil {
			// Backstop for the code-allocation race: two creates can pass the
			// uniqueness probe with the same candidate, but only one insert
			// wins the unique index.
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Código de rastreio já utilizado")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert pedido")
		}
		created.Usuario = usuario
		created.Produto = produto
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create pedido tx")
	}
	return NewOrderDTO(created), nil
}

// GetByID loads an order by primary key.
func (s *service) GetByID(ctx context.Context, id int64) (*OrderDTO, error) {
	pedido, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(pedido), nil
}

// Track resolves a tracking code to the order and its delivery milestones.
func (s *service) Track(ctx context.Context, codigo string) (*OrderTrackingDTO, error) {
	pedido, err := s.orders.FindByNumeroRastreio(ctx, codigo)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Código de rastreio não encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load pedido by codigo")
	}
	return &OrderTrackingDTO{
		Pedido: *NewOrderDTO(pedido),
		Etapas: tracking.OrderMilestones(pedido.Status),
	}, nil
}

// List returns a page of orders, newest first.
func (s *service) List(ctx context.Context, params pagination.Params) (*OrderPage, error) {
	params = params.Normalize()

	items, total, err := s.orders.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list pedidos")
	}
	return &OrderPage{
		Items: NewOrderDTOs(items),
		Meta:  pagination.MetaFor(params, total),
	}, nil
}

// ListByStatus returns all orders in the given pipeline stage.
func (s *service) ListByStatus(ctx context.Context, status string) ([]OrderDTO, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status de pedido inválido")
	}

	items, err := s.orders.ListByStatus(ctx, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list pedidos by status")
	}
	return NewOrderDTOs(items), nil
}

// ListByUsuario returns all orders placed for the beneficiary.
func (s *service) ListByUsuario(ctx context.Context, usuarioID int64) ([]OrderDTO, error) {
	items, err := s.orders.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list pedidos by usuario")
	}
	return NewOrderDTOs(items), nil
}

// UpdateStatus moves the order one step through the pipeline. Illegal jumps
// and transitions out of a terminal state are rejected.
func (s *service) UpdateStatus(ctx context.Context, id int64, status string) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status de pedido inválido")
	}

	pedido, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !pedido.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("Transição de status inválida: %s -> %s", pedido.Status, next))
	}

	pedido.Status = next
	if next == enums.OrderStatusEntregue {
		now := time.Now().UTC()
		pedido.DataEntrega = &now
	}

	updated, err := s.orders.Update(ctx, pedido)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update pedido status")
	}
	return NewOrderDTO(updated), nil
}

// Delete removes an order.
func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.loadOrder(ctx, id); err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete pedido")
	}
	return nil
}

func (s *service) loadOrder(ctx context.Context, id int64) (*models.Pedido, error) {
	pedido, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Pedido não encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load pedido")
	}
	return pedido, nil
}
