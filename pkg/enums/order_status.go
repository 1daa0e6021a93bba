package enums

import "fmt"

// OrderStatus tracks the delivery lifecycle of a pedido.
type OrderStatus string

const (
	OrderStatusPendente  OrderStatus = "PENDENTE"
	OrderStatusAprovado  OrderStatus = "APROVADO"
	OrderStatusEmRota    OrderStatus = "EM_ROTA"
	OrderStatusEntregue  OrderStatus = "ENTREGUE"
	OrderStatusCancelado OrderStatus = "CANCELADO"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPendente,
	OrderStatusAprovado,
	OrderStatusEmRota,
	OrderStatusEntregue,
	OrderStatusCancelado,
}

// orderTransitions is the explicit state machine: terminal states have no
// outgoing edges, and CANCELADO is reachable from every non-terminal state.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPendente:  {OrderStatusAprovado, OrderStatusCancelado},
	OrderStatusAprovado:  {OrderStatusEmRota, OrderStatusCancelado},
	OrderStatusEmRota:    {OrderStatusEntregue, OrderStatusCancelado},
	OrderStatusEntregue:  {},
	OrderStatusCancelado: {},
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo reports whether the transition s -> next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range orderTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
