package tracking

import "github.com/ipa-digital/safra-backend/pkg/enums"

// Milestone is one stage in the tracking timeline shown to callers.
type Milestone struct {
	Etapa     string `json:"etapa"`
	Descricao string `json:"descricao"`
	Concluida bool   `json:"concluida"`
	Icone     string `json:"icone"`
}

// Completion is a membership test: a stage is done when the current status
// belongs to the set of statuses known to imply the stage was reached. An
// unknown status therefore completes nothing it is not explicitly listed for.
var orderStageSets = []struct {
	etapa     string
	descricao string
	icone     string
	reached   []enums.OrderStatus
}{
	{
		etapa:     "Solicitação Recebida",
		descricao: "Pedido registrado no sistema",
		icone:     "📝",
		reached:   nil, // always completed
	},
	{
		etapa:     "Análise e Aprovação",
		descricao: "Verificação de estoque e documentação",
		icone:     "✅",
		reached:   []enums.OrderStatus{enums.OrderStatusAprovado, enums.OrderStatusEmRota, enums.OrderStatusEntregue},
	},
	{
		etapa:     "Preparação do Insumo",
		descricao: "Separação e embalagem",
		icone:     "📦",
		reached:   []enums.OrderStatus{enums.OrderStatusEmRota, enums.OrderStatusEntregue},
	},
	{
		etapa:     "Em Rota de Entrega",
		descricao: "Produto a caminho do destino",
		icone:     "🚚",
		reached:   []enums.OrderStatus{enums.OrderStatusEmRota, enums.OrderStatusEntregue},
	},
	{
		etapa:     "Entregue",
		descricao: "Produto recebido pelo agricultor",
		icone:     "🎉",
		reached:   []enums.OrderStatus{enums.OrderStatusEntregue},
	},
}

// OrderMilestones projects an order status onto the fixed 5-stage timeline.
func OrderMilestones(status enums.OrderStatus) []Milestone {
	out := make([]Milestone, 0, len(orderStageSets))
	for i, stage := range orderStageSets {
		done := i == 0
		for _, s := range stage.reached {
			if s == status {
				done = true
				break
			}
		}
		out = append(out, Milestone{
			Etapa:     stage.etapa,
			Descricao: stage.descricao,
			Concluida: done,
			Icone:     stage.icone,
		})
	}
	return out
}

var requestStageSets = []struct {
	etapa     string
	descricao string
	icone     string
	reached   []enums.RequestStatus
}{
	{
		etapa:     "Solicitação Registrada",
		descricao: "Solicitação registrada pelo agente de campo",
		icone:     "📝",
		reached: []enums.RequestStatus{
			enums.RequestStatusRascunho, enums.RequestStatusEnviada, enums.RequestStatusAprovada,
			enums.RequestStatusEmPreparacao, enums.RequestStatusDespachada, enums.RequestStatusEntregue,
		},
	},
	{
		etapa:     "Em Análise",
		descricao: "Solicitação enviada para análise",
		icone:     "🔍",
		reached: []enums.RequestStatus{
			enums.RequestStatusEnviada, enums.RequestStatusAprovada,
			enums.RequestStatusEmPreparacao, enums.RequestStatusDespachada, enums.RequestStatusEntregue,
		},
	},
	{
		etapa:     "Aprovada",
		descricao: "Solicitação aprovada e código de rastreio emitido",
		icone:     "✅",
		reached: []enums.RequestStatus{
			enums.RequestStatusAprovada, enums.RequestStatusEmPreparacao,
			enums.RequestStatusDespachada, enums.RequestStatusEntregue,
		},
	},
	{
		etapa:     "Em Preparação",
		descricao: "Separação e embalagem do insumo",
		icone:     "📦",
		reached: []enums.RequestStatus{
			enums.RequestStatusEmPreparacao, enums.RequestStatusDespachada, enums.RequestStatusEntregue,
		},
	},
	{
		etapa:     "Despachada",
		descricao: "Insumo a caminho do destino",
		icone:     "🚚",
		reached:   []enums.RequestStatus{enums.RequestStatusDespachada, enums.RequestStatusEntregue},
	},
	{
		etapa:     "Entregue",
		descricao: "Insumo recebido pelo agricultor",
		icone:     "🎉",
		reached:   []enums.RequestStatus{enums.RequestStatusEntregue},
	},
}

// RequestMilestones projects a request status onto the fixed 6-stage timeline.
func RequestMilestones(status enums.RequestStatus) []Milestone {
	out := make([]Milestone, 0, len(requestStageSets))
	for _, stage := range requestStageSets {
		done := false
		for _, s := range stage.reached {
			if s == status {
				done = true
				break
			}
		}
		out = append(out, Milestone{
			Etapa:     stage.etapa,
			Descricao: stage.descricao,
			Concluida: done,
			Icone:     stage.icone,
		})
	}
	return out
}
