package enums

import "fmt"

// RequestStatus tracks the review lifecycle of a solicitacao.
type RequestStatus string

const (
	RequestStatusRascunho     RequestStatus = "RASCUNHO"
	RequestStatusEnviada      RequestStatus = "ENVIADA"
	RequestStatusAprovada     RequestStatus = "APROVADA"
	RequestStatusEmPreparacao RequestStatus = "EM_PREPARACAO"
	RequestStatusDespachada   RequestStatus = "DESPACHADA"
	RequestStatusEntregue     RequestStatus = "ENTREGUE"
	RequestStatusRejeitada    RequestStatus = "REJEITADA"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusRascunho,
	RequestStatusEnviada,
	RequestStatusAprovada,
	RequestStatusEmPreparacao,
	RequestStatusDespachada,
	RequestStatusEntregue,
	RequestStatusRejeitada,
}

// requestTransitions advances one stage at a time toward ENTREGUE, with
// REJEITADA reachable from every non-terminal state.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusRascunho:     {RequestStatusEnviada, RequestStatusRejeitada},
	RequestStatusEnviada:      {RequestStatusAprovada, RequestStatusRejeitada},
	RequestStatusAprovada:     {RequestStatusEmPreparacao, RequestStatusRejeitada},
	RequestStatusEmPreparacao: {RequestStatusDespachada, RequestStatusRejeitada},
	RequestStatusDespachada:   {RequestStatusEntregue, RequestStatusRejeitada},
	RequestStatusEntregue:     {},
	RequestStatusRejeitada:    {},
}

// String implements fmt.Stringer.
func (s RequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RequestStatus.
func (s RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions.
func (s RequestStatus) IsTerminal() bool {
	return len(requestTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo reports whether the transition s -> next is allowed.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, candidate := range requestTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseRequestStatus converts raw input into a RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}
