package users

import (
	"context"
	"testing"

	"github.com/ipa-digital/safra-backend/pkg/config"
	"github.com/ipa-digital/safra-backend/pkg/db/models"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	createFn        func(ctx context.Context, user *models.Usuario) (*models.Usuario, error)
	findByIDFn      func(ctx context.Context, id int64) (*models.Usuario, error)
	findByCPFFn     func(ctx context.Context, cpf string) (*models.Usuario, error)
	existsByCPFFn   func(ctx context.Context, cpf string) (bool, error)
	existsByEmailFn func(ctx context.Context, email string) (bool, error)
	listFn          func(ctx context.Context) ([]models.Usuario, error)
	updateFn        func(ctx context.Context, user *models.Usuario) (*models.Usuario, error)
	deleteFn        func(ctx context.Context, id int64) error
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.Usuario) (*models.Usuario, error) {
	return s.createFn(ctx, user)
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int64) (*models.Usuario, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubUserRepo) FindByCPF(ctx context.Context, cpf string) (*models.Usuario, error) {
	return s.findByCPFFn(ctx, cpf)
}

func (s *stubUserRepo) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	return s.existsByCPFFn(ctx, cpf)
}

func (s *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.existsByEmailFn(ctx, email)
}

func (s *stubUserRepo) List(ctx context.Context) ([]models.Usuario, error) {
	return s.listFn(ctx)
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.Usuario) (*models.Usuario, error) {
	return s.updateFn(ctx, user)
}

func (s *stubUserRepo) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func TestCreateNormalizesCPF(t *testing.T) {
	var storedCPF string
	repo := &stubUserRepo{
		existsByCPFFn: func(ctx context.Context, cpf string) (bool, error) {
			storedCPF = cpf
			return false, nil
		},
		createFn: func(ctx context.Context, user *models.Usuario) (*models.Usuario, error) {
			user.ID = 1
			return user, nil
		},
	}
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), CreateUserInput{
		Nome: "Maria das Dores",
		CPF:  "111.444.777-35",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.CPF != "11144477735" {
		t.Fatalf("expected canonical cpf, got %q", dto.CPF)
	}
	if storedCPF != "11144477735" {
		t.Fatalf("uniqueness check used %q, want canonical", storedCPF)
	}
}

func TestCreateRejectsInvalidCPF(t *testing.T) {
	svc, _ := NewService(ServiceParams{Repo: &stubUserRepo{}})

	_, err := svc.Create(context.Background(), CreateUserInput{Nome: "X", CPF: "123.456.789-00"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsDuplicateCPF(t *testing.T) {
	repo := &stubUserRepo{
		existsByCPFFn: func(ctx context.Context, cpf string) (bool, error) { return true, nil },
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	_, err := svc.Create(context.Background(), CreateUserInput{Nome: "X", CPF: "11144477735"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	email := "maria@example.com"
	repo := &stubUserRepo{
		existsByCPFFn:   func(ctx context.Context, cpf string) (bool, error) { return false, nil },
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) { return true, nil },
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	_, err := svc.Create(context.Background(), CreateUserInput{Nome: "X", CPF: "11144477735", Email: &email})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateRejectsWeakPassword(t *testing.T) {
	repo := &stubUserRepo{
		existsByCPFFn: func(ctx context.Context, cpf string) (bool, error) { return false, nil },
	}
	svc, _ := NewService(ServiceParams{
		Repo:           repo,
		PasswordConfig: config.PasswordConfig{MinLength: 6},
	})

	senha := "123"
	_, err := svc.Create(context.Background(), CreateUserInput{Nome: "X", CPF: "11144477735", Senha: &senha})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for weak password, got %v", err)
	}
}

func TestCreateHashesPassword(t *testing.T) {
	var stored *models.Usuario
	repo := &stubUserRepo{
		existsByCPFFn: func(ctx context.Context, cpf string) (bool, error) { return false, nil },
		createFn: func(ctx context.Context, user *models.Usuario) (*models.Usuario, error) {
			stored = user
			return user, nil
		},
	}
	svc, _ := NewService(ServiceParams{
		Repo: repo,
		PasswordConfig: config.PasswordConfig{
			ArgonMemoryKB:    8,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     8,
			ArgonKeyLen:      16,
			MinLength:        6,
		},
	})

	senha := "senha-forte"
	if _, err := svc.Create(context.Background(), CreateUserInput{Nome: "X", CPF: "11144477735", Senha: &senha}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if stored.SenhaHash == "" || stored.SenhaHash == senha {
		t.Fatalf("password must be stored hashed, got %q", stored.SenhaHash)
	}
}

func TestGetByCPFNormalizesLookupKey(t *testing.T) {
	var lookupKey string
	repo := &stubUserRepo{
		findByCPFFn: func(ctx context.Context, cpf string) (*models.Usuario, error) {
			lookupKey = cpf
			return &models.Usuario{ID: 7, Nome: "Maria", CPF: cpf}, nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	dto, err := svc.GetByCPF(context.Background(), "111.444.777-35")
	if err != nil {
		t.Fatalf("get by cpf: %v", err)
	}
	if lookupKey != "11144477735" {
		t.Fatalf("lookup used %q, want canonical digits", lookupKey)
	}
	if dto.ID != 7 {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestGetByCPFNotFound(t *testing.T) {
	repo := &stubUserRepo{
		findByCPFFn: func(ctx context.Context, cpf string) (*models.Usuario, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	_, err := svc.GetByCPF(context.Background(), "11144477735")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestVerifyCPF(t *testing.T) {
	repo := &stubUserRepo{
		existsByCPFFn: func(ctx context.Context, cpf string) (bool, error) { return cpf == "11144477735", nil },
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	exists, err := svc.VerifyCPF(context.Background(), "111.444.777-35")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !exists {
		t.Fatal("expected cpf to be registered")
	}

	if _, err := svc.VerifyCPF(context.Background(), "123"); err == nil {
		t.Fatal("expected validation error for short cpf")
	}
}

func TestUpdateKeepsCPFImmutable(t *testing.T) {
	stored := &models.Usuario{ID: 3, Nome: "Maria", CPF: "11144477735"}
	repo := &stubUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*models.Usuario, error) { return stored, nil },
		updateFn: func(ctx context.Context, user *models.Usuario) (*models.Usuario, error) {
			return user, nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	nome := "Maria Silva"
	dto, err := svc.Update(context.Background(), 3, UpdateUserInput{Nome: &nome})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Nome != "Maria Silva" {
		t.Fatalf("nome not updated: %q", dto.Nome)
	}
	if dto.CPF != "11144477735" {
		t.Fatalf("cpf must not change on update: %q", dto.CPF)
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo := &stubUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*models.Usuario, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	err := svc.Delete(context.Background(), 99)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
