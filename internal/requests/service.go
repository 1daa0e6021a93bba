package requests

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/ipa-digital/safra-backend/internal/agents"
	"github.com/ipa-digital/safra-backend/internal/tracking"
	"github.com/ipa-digital/safra-backend/internal/users"
	"github.com/ipa-digital/safra-backend/pkg/cpf"
	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"github.com/ipa-digital/safra-backend/pkg/enums"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"github.com/ipa-digital/safra-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes input request lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateRequestInput) (*RequestDTO, error)
	GetByID(ctx context.Context, id int64) (*RequestDTO, error)
	Track(ctx context.Context, codigo string) (*RequestTrackingDTO, error)
	List(ctx context.Context, params pagination.Params) (*RequestPage, error)
	ListByStatus(ctx context.Context, status string) ([]RequestDTO, error)
	ListBySolicitanteCPF(ctx context.Context, rawCPF string) ([]RequestDTO, error)
	ListByBeneficiarioCPF(ctx context.Context, rawCPF string) ([]RequestDTO, error)
	Update(ctx context.Context, id int64, input UpdateRequestInput) (*RequestDTO, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*RequestDTO, error)
	Delete(ctx context.Context, id int64) error
}

// CreateRequestInput holds the validated payload to file an input request.
// Both CPFs must belong to already registered people; filing a request
// never creates an identity as a side effect.
type CreateRequestInput struct {
	SolicitanteCPF  string
	BeneficiarioCPF string

	TipoInsumo       string
	Cultura          string
	Variedade        *string
	Quantidade       int
	UnidadeMedida    string
	AreaPlantada     *decimal.Decimal
	AreaUnidade      *string
	DataIdealPlantio *time.Time
	Finalidade       string
	FormaEntrega     string

	MunicipioDestino     *string
	EnderecoEntrega      *string
	CEPEntrega           *string
	ComplementoEntrega   *string
	NomeDestinatario     *string
	TelefoneDestinatario *string

	BeneficiarioComplemento *string
	PontoReferencia         *string
	Observacoes             *string

	// Rascunho keeps the request editable instead of submitting it.
	Rascunho bool
}

// UpdateRequestInput holds optional mutation values for a request still
// under edit. The referenced parties cannot be changed, but their snapshot
// columns are refreshed from the canonical records on every update.
type UpdateRequestInput struct {
	TipoInsumo       *string
	Cultura          *string
	Variedade        *string
	Quantidade       *int
	UnidadeMedida    *string
	AreaPlantada     *decimal.Decimal
	AreaUnidade      *string
	DataIdealPlantio *time.Time
	Finalidade       *string
	FormaEntrega     *string

	MunicipioDestino     *string
	EnderecoEntrega      *string
	CEPEntrega           *string
	ComplementoEntrega   *string
	NomeDestinatario     *string
	TelefoneDestinatario *string

	PontoReferencia *string
	Observacoes     *string
}

type service struct {
	requests        *Repository
	agents          *agents.Repository
	users           *users.Repository
	maxCodeAttempts int
}

// ServiceParams bundles the dependencies required to build a request service.
type ServiceParams struct {
	Requests        *Repository
	Agents          *agents.Repository
	Users           *users.Repository
	MaxCodeAttempts int
}

// NewService constructs a request service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Requests == nil || params.Agents == nil || params.Users == nil {
		return nil, fmt.Errorf("request, agent and user repositories are required")
	}
	attempts := params.MaxCodeAttempts
	if attempts <= 0 {
		attempts = tracking.DefaultMaxAttempts
	}
	return &service{
		requests:        params.Requests,
		agents:          params.Agents,
		users:           params.Users,
		maxCodeAttempts: attempts,
	}, nil
}

// Create files an input request, copying requester and beneficiary data
// into the snapshot columns.
func (s *service) Create(ctx context.Context, input CreateRequestInput) (*RequestDTO, error) {
	solicitanteCPF, err := cpf.Parse(input.SolicitanteCPF)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cpf do solicitante inválido")
	}
	beneficiarioCPF, err := cpf.Parse(input.BeneficiarioCPF)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cpf do beneficiário inválido")
	}
	if input.Quantidade <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "A quantidade deve ser maior que zero")
	}
	formaEntrega, err := enums.ParseDeliveryMethod(input.FormaEntrega)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "forma de entrega inválida")
	}

	solicitante, err := s.agents.FindByCPF(ctx, solicitanteCPF)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Solicitante não cadastrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load solicitante")
	}
	beneficiario, err := s.users.FindByCPF(ctx, beneficiarioCPF)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Beneficiário não cadastrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load beneficiario")
	}

	status := enums.RequestStatusEnviada
	if input.Rascunho {
		status = enums.RequestStatusRascunho
	}

	sol := &models.Solicitacao{
		SolicitanteID:  solicitante.ID,
		BeneficiarioID: beneficiario.ID,

		SolicitanteNome:      solicitante.Nome,
		SolicitanteCPF:       solicitante.CPF,
		SolicitanteMatricula: solicitante.MatriculaIpa,
		SolicitanteTelefone:  solicitante.Telefone,
		LocalAtuacao:         solicitante.LocalAtuacao,

		BeneficiarioNome:        beneficiario.Nome,
		BeneficiarioCPF:         beneficiario.CPF,
		BeneficiarioCAF:         beneficiario.CAF,
		TipoPropriedade:         beneficiario.TipoPropriedade,
		BeneficiarioCEP:         beneficiario.CEP,
		BeneficiarioComplemento: input.BeneficiarioComplemento,
		PontoReferencia:         input.PontoReferencia,

		TipoInsumo:       input.TipoInsumo,
		Cultura:          input.Cultura,
		Variedade:        input.Variedade,
		Quantidade:       input.Quantidade,
		UnidadeMedida:    input.UnidadeMedida,
		AreaPlantada:     input.AreaPlantada,
		AreaUnidade:      input.AreaUnidade,
		DataIdealPlantio: input.DataIdealPlantio,
		Finalidade:       input.Finalidade,
		FormaEntrega:     formaEntrega,

		MunicipioDestino:     input.MunicipioDestino,
		EnderecoEntrega:      input.EnderecoEntrega,
		CEPEntrega:           input.CEPEntrega,
		ComplementoEntrega:   input.ComplementoEntrega,
		NomeDestinatario:     input.NomeDestinatario,
		TelefoneDestinatario: input.TelefoneDestinatario,

		Status:      status,
		Observacoes: input.Observacoes,
	}

	created, err := s.requests.Create(ctx, sol)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert solicitacao")
	}
	return NewRequestDTO(created), nil
}

// GetByID loads a request by primary key.
func (s *service) GetByID(ctx context.Context, id int64) (*RequestDTO, error) {
	sol, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewRequestDTO(sol), nil
}

// Track resolves a tracking code to the request and its review milestones.
func (s *service) Track(ctx context.Context, codigo string) (*RequestTrackingDTO, error) {
	sol, err := s.requests.FindByCodigoRastreio(ctx, codigo)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Código de rastreio não encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load solicitacao by codigo")
	}
	return &RequestTrackingDTO{
		Solicitacao: *NewRequestDTO(sol),
		Etapas:      tracking.RequestMilestones(sol.Status),
	}, nil
}

// List returns a page of requests, newest first.
func (s *service) List(ctx context.Context, params pagination.Params) (*RequestPage, error) {
	params = params.Normalize()

	items, total, err := s.requests.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list solicitacoes")
	}
	return &RequestPage{
		Items: NewRequestDTOs(items),
		Meta:  pagination.MetaFor(params, total),
	}, nil
}

// ListByStatus returns all requests in the given review stage.
func (s *service) ListByStatus(ctx context.Context, status string) ([]RequestDTO, error) {
	parsed, err := enums.ParseRequestStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status de solicitação inválido")
	}

	items, err := s.requests.ListByStatus(ctx, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list solicitacoes by status")
	}
	return NewRequestDTOs(items), nil
}

// ListBySolicitanteCPF returns all requests filed by the agent.
func (s *service) ListBySolicitanteCPF(ctx context.Context, rawCPF string) ([]RequestDTO, error) {
	canonical := cpf.Normalize(rawCPF)
	if len(canonical) != cpf.Length {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cpf inválido")
	}

	items, err := s.requests.ListBySolicitanteCPF(ctx, canonical)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list solicitacoes by solicitante")
	}
	return NewRequestDTOs(items), nil
}

// ListByBeneficiarioCPF returns all requests filed for the beneficiary.
func (s *service) ListByBeneficiarioCPF(ctx context.Context, rawCPF string) ([]RequestDTO, error) {
	canonical := cpf.Normalize(rawCPF)
	if len(canonical) != cpf.Length {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cpf inválido")
	}

	items, err := s.requests.ListByBeneficiarioCPF(ctx, canonical)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list solicitacoes by beneficiario")
	}
	return NewRequestDTOs(items), nil
}

// Update edits the insumo and delivery fields of a request that has not
// entered review yet.
func (s *service) Update(ctx context.Context, id int64, input UpdateRequestInput) (*RequestDTO, error) {
	sol, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if sol.Status != enums.RequestStatusRascunho && sol.Status != enums.RequestStatusEnviada {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Solicitação não pode mais ser editada")
	}
	if input.Quantidade != nil && *input.Quantidade <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "A quantidade deve ser maior que zero")
	}
	if input.FormaEntrega != nil {
		forma, err := enums.ParseDeliveryMethod(*input.FormaEntrega)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "forma de entrega inválida")
		}
		sol.FormaEntrega = forma
	}

	applyRequestUpdate(sol, input)

	if err := s.refreshSnapshots(ctx, sol); err != nil {
		return nil, err
	}

	updated, err := s.requests.Update(ctx, sol)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update solicitacao")
	}
	return NewRequestDTO(updated), nil
}

// refreshSnapshots rewrites the denormalized party columns from the current
// canonical records, so an edited request never carries stale names or
// contact data (write-through cache).
func (s *service) refreshSnapshots(ctx context.Context, sol *models.Solicitacao) error {
	solicitante, err := s.agents.FindByID(ctx, sol.SolicitanteID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Solicitante não cadastrado")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load solicitante")
	}
	beneficiario, err := s.users.FindByID(ctx, sol.BeneficiarioID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Beneficiário não cadastrado")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load beneficiario")
	}

	sol.SolicitanteNome = solicitante.Nome
	sol.SolicitanteCPF = solicitante.CPF
	sol.SolicitanteMatricula = solicitante.MatriculaIpa
	sol.SolicitanteTelefone = solicitante.Telefone
	sol.LocalAtuacao = solicitante.LocalAtuacao

	sol.BeneficiarioNome = beneficiario.Nome
	sol.BeneficiarioCPF = beneficiario.CPF
	sol.BeneficiarioCAF = beneficiario.CAF
	sol.TipoPropriedade = beneficiario.TipoPropriedade
	sol.BeneficiarioCEP = beneficiario.CEP
	return nil
}

// UpdateStatus moves the request one step through review. Approval also
// allocates the public tracking code.
func (s *service) UpdateStatus(ctx context.Context, id int64, status string) (*RequestDTO, error) {
	next, err := enums.ParseRequestStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status de solicitação inválido")
	}

	sol, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if !sol.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("Transição de status inválida: %s -> %s", sol.Status, next))
	}

	if next == enums.RequestStatusAprovada && sol.CodigoRastreio == nil {
		codigo, err := tracking.AllocateCode(ctx, s.requests.ExistsByCodigoRastreio, s.maxCodeAttempts)
		if err != nil {
			return nil, err
		}
		sol.CodigoRastreio = &codigo
	}
	sol.Status = next

	updated, err := s.requests.Update(ctx, sol)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update solicitacao status")
	}
	return NewRequestDTO(updated), nil
}

// Delete removes a request.
func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.loadRequest(ctx, id); err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete solicitacao")
	}
	return nil
}

func (s *service) loadRequest(ctx context.Context, id int64) (*models.Solicitacao, error) {
	sol, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Solicitação não encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load solicitacao")
	}
	return sol, nil
}

func applyRequestUpdate(sol *models.Solicitacao, input UpdateRequestInput) {
	if input.TipoInsumo != nil {
		sol.TipoInsumo = *input.TipoInsumo
	}
	if input.Cultura != nil {
		sol.Cultura = *input.Cultura
	}
	if input.Variedade != nil {
		sol.Variedade = input.Variedade
	}
	if input.Quantidade != nil {
		sol.Quantidade = *input.Quantidade
	}
	if input.UnidadeMedida != nil {
		sol.UnidadeMedida = *input.UnidadeMedida
	}
	if input.AreaPlantada != nil {
		sol.AreaPlantada = input.AreaPlantada
	}
	if input.AreaUnidade != nil {
		sol.AreaUnidade = input.AreaUnidade
	}
	if input.DataIdealPlantio != nil {
		sol.DataIdealPlantio = input.DataIdealPlantio
	}
	if input.Finalidade != nil {
		sol.Finalidade = *input.Finalidade
	}
	if input.MunicipioDestino != nil {
		sol.MunicipioDestino = input.MunicipioDestino
	}
	if input.EnderecoEntrega != nil {
		sol.EnderecoEntrega = input.EnderecoEntrega
	}
	if input.CEPEntrega != nil {
		sol.CEPEntrega = input.CEPEntrega
	}
	if input.ComplementoEntrega != nil {
		sol.ComplementoEntrega = input.ComplementoEntrega
	}
	if input.NomeDestinatario != nil {
		sol.NomeDestinatario = input.NomeDestinatario
	}
	if input.TelefoneDestinatario != nil {
		sol.TelefoneDestinatario = input.TelefoneDestinatario
	}
	if input.PontoReferencia != nil {
		sol.PontoReferencia = input.PontoReferencia
	}
	if input.Observacoes != nil {
		sol.Observacoes = input.Observacoes
	}
}
