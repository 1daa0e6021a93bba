package requests

import (
	"context"
	"regexp"
	"testing"

	"github.com/ipa-digital/safra-backend/internal/agents"
	"github.com/ipa-digital/safra-backend/internal/users"
	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"github.com/ipa-digital/safra-backend/pkg/enums"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	svc          Service
	db           *gorm.DB
	solicitante  *models.UsuarioIpa
	beneficiario *models.Usuario
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Usuario{}, &models.UsuarioIpa{}, &models.Solicitacao{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	matricula := "IPA-0042"
	local := "Caruaru"
	solicitante := &models.UsuarioIpa{
		Nome:         "João Pereira",
		CPF:          "52998224725",
		MatriculaIpa: &matricula,
		LocalAtuacao: &local,
		SenhaHash:    "$argon2id$stub",
	}
	if err := conn.Create(solicitante).Error; err != nil {
		t.Fatalf("insert solicitante: %v", err)
	}

	caf := "CAF-123"
	beneficiario := &models.Usuario{Nome: "Maria das Dores", CPF: "11144477735", CAF: &caf}
	if err := conn.Create(beneficiario).Error; err != nil {
		t.Fatalf("insert beneficiario: %v", err)
	}

	svc, err := NewService(ServiceParams{
		Requests: NewRepository(conn),
		Agents:   agents.NewRepository(conn),
		Users:    users.NewRepository(conn),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, db: conn, solicitante: solicitante, beneficiario: beneficiario}
}

func validInput() CreateRequestInput {
	return CreateRequestInput{
		SolicitanteCPF:  "529.982.247-25",
		BeneficiarioCPF: "111.444.777-35",
		TipoInsumo:      "SEMENTE",
		Cultura:         "Milho",
		Quantidade:      50,
		UnidadeMedida:   "kg",
		Finalidade:      "Plantio de subsistência",
		FormaEntrega:    "RETIRADA",
	}
}

func TestCreateRequestSnapshotsParties(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != enums.RequestStatusEnviada {
		t.Fatalf("status = %s, want ENVIADA", dto.Status)
	}
	if dto.SolicitanteNome != "João Pereira" || dto.SolicitanteCPF != "52998224725" {
		t.Fatalf("solicitante snapshot wrong: %+v", dto)
	}
	if dto.SolicitanteMatricula == nil || *dto.SolicitanteMatricula != "IPA-0042" {
		t.Fatal("matricula not copied into snapshot")
	}
	if dto.BeneficiarioNome != "Maria das Dores" || dto.BeneficiarioCPF != "11144477735" {
		t.Fatalf("beneficiario snapshot wrong: %+v", dto)
	}
	if dto.BeneficiarioCAF == nil || *dto.BeneficiarioCAF != "CAF-123" {
		t.Fatal("caf not copied into snapshot")
	}
	if dto.CodigoRastreio != nil {
		t.Fatal("tracking code must not exist before approval")
	}
}

func TestCreateRequestAsDraft(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.Rascunho = true
	dto, err := f.svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != enums.RequestStatusRascunho {
		t.Fatalf("status = %s, want RASCUNHO", dto.Status)
	}
}

func TestCreateRequestRequiresRegisteredParties(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.BeneficiarioCPF = "123.456.789-09"
	_, err := f.svc.Create(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unregistered beneficiario, got %v", err)
	}

	var count int64
	if err := f.db.Model(&models.Usuario{}).Count(&count).Error; err != nil {
		t.Fatalf("count usuarios: %v", err)
	}
	if count != 1 {
		t.Fatalf("filing a request must never create identities, usuarios = %d", count)
	}
}

func TestCreateRequestRejectsBadDeliveryMethod(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.FormaEntrega = "SEDEX"
	_, err := f.svc.Create(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApprovalAllocatesTrackingCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	dto, err = f.svc.UpdateStatus(ctx, dto.ID, "APROVADA")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if dto.CodigoRastreio == nil {
		t.Fatal("approval must allocate a tracking code")
	}
	if !regexp.MustCompile(`^SAFRA-\d{4}-[A-Z0-9]{8}$`).MatchString(*dto.CodigoRastreio) {
		t.Fatalf("bad tracking code %q", *dto.CodigoRastreio)
	}

	view, err := f.svc.Track(ctx, *dto.CodigoRastreio)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if len(view.Etapas) != 6 {
		t.Fatalf("got %d milestones, want 6", len(view.Etapas))
	}
	if !view.Etapas[2].Concluida {
		t.Fatal("approval milestone should be complete")
	}
	if view.Etapas[5].Concluida {
		t.Fatal("delivery milestone complete before dispatch")
	}
}

func TestStatusPipelineOneStepAtATime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// ENVIADA cannot skip review.
	_, err = f.svc.UpdateStatus(ctx, dto.ID, "DESPACHADA")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on skip, got %v", err)
	}

	for _, next := range []string{"APROVADA", "EM_PREPARACAO", "DESPACHADA", "ENTREGUE"} {
		if dto, err = f.svc.UpdateStatus(ctx, dto.ID, next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}

	// ENTREGUE is terminal.
	_, err = f.svc.UpdateStatus(ctx, dto.ID, "REJEITADA")
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected terminal rejection, got %v", err)
	}
}

func TestRejectionAllowedFromReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	dto, err = f.svc.UpdateStatus(ctx, dto.ID, "REJEITADA")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if dto.Status != enums.RequestStatusRejeitada {
		t.Fatalf("status = %s, want REJEITADA", dto.Status)
	}
	if dto.CodigoRastreio != nil {
		t.Fatal("rejection must not allocate a tracking code")
	}
}

func TestUpdateLockedAfterReviewStarts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err = f.svc.UpdateStatus(ctx, dto.ID, "APROVADA"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	qty := 80
	_, err = f.svc.Update(ctx, dto.ID, UpdateRequestInput{Quantidade: &qty})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected edit lock, got %v", err)
	}
}

func TestUpdateRefreshesPartySnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = f.db.Model(&models.Usuario{}).
		Where("id = ?", f.beneficiario.ID).
		Update("nome", "Maria Renomeada").Error
	if err != nil {
		t.Fatalf("rename beneficiario: %v", err)
	}

	cultura := "Feijão"
	updated, err := f.svc.Update(ctx, dto.ID, UpdateRequestInput{Cultura: &cultura})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Cultura != "Feijão" {
		t.Fatalf("cultura = %q, want Feijão", updated.Cultura)
	}
	if updated.BeneficiarioNome != "Maria Renomeada" {
		t.Fatalf("snapshot not refreshed on update: got %q", updated.BeneficiarioNome)
	}
}

func TestListByPartyCPFNormalizesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	bySolicitante, err := f.svc.ListBySolicitanteCPF(ctx, "529.982.247-25")
	if err != nil {
		t.Fatalf("list by solicitante: %v", err)
	}
	if len(bySolicitante) != 1 {
		t.Fatalf("got %d rows, want 1", len(bySolicitante))
	}

	byBeneficiario, err := f.svc.ListByBeneficiarioCPF(ctx, "111.444.777-35")
	if err != nil {
		t.Fatalf("list by beneficiario: %v", err)
	}
	if len(byBeneficiario) != 1 {
		t.Fatalf("got %d rows, want 1", len(byBeneficiario))
	}
}
