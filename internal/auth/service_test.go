package auth

import (
	"context"
	"testing"

	"github.com/ipa-digital/safra-backend/internal/users"
	"github.com/ipa-digital/safra-backend/pkg/config"
	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"github.com/ipa-digital/safra-backend/pkg/enums"
	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
	"github.com/ipa-digital/safra-backend/pkg/security"
	"gorm.io/gorm"
)

type stubAgentFinder struct {
	fn func(ctx context.Context, cpf string) (*models.UsuarioIpa, error)
}

func (s *stubAgentFinder) FindByCPF(ctx context.Context, cpf string) (*models.UsuarioIpa, error) {
	return s.fn(ctx, cpf)
}

type stubUserFinder struct {
	fn func(ctx context.Context, cpf string) (*models.Usuario, error)
}

func (s *stubUserFinder) FindByCPF(ctx context.Context, cpf string) (*models.Usuario, error) {
	return s.fn(ctx, cpf)
}

type stubRegistrar struct {
	fn func(ctx context.Context, input users.CreateUserInput) (*users.UserDTO, error)
}

func (s *stubRegistrar) Create(ctx context.Context, input users.CreateUserInput) (*users.UserDTO, error) {
	return s.fn(ctx, input)
}

type memorySessions struct {
	active map[string]string
}

func newMemorySessions() *memorySessions {
	return &memorySessions{active: map[string]string{}}
}

func (m *memorySessions) Register(ctx context.Context, tokenID, subject string) error {
	m.active[tokenID] = subject
	return nil
}

func (m *memorySessions) Revoke(ctx context.Context, tokenID string) error {
	delete(m.active, tokenID)
	return nil
}

func (m *memorySessions) HasSession(ctx context.Context, tokenID string) (bool, error) {
	_, ok := m.active[tokenID]
	return ok, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret-key",
		Issuer:            "safra-backend-test",
		ExpirationMinutes: 30,
	}
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
		MinLength:        6,
	})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return hash
}

func noAgents() *stubAgentFinder {
	return &stubAgentFinder{fn: func(ctx context.Context, cpf string) (*models.UsuarioIpa, error) {
		return nil, gorm.ErrRecordNotFound
	}}
}

func noUsers() *stubUserFinder {
	return &stubUserFinder{fn: func(ctx context.Context, cpf string) (*models.Usuario, error) {
		return nil, gorm.ErrRecordNotFound
	}}
}

func rejectSignup(t *testing.T) *stubRegistrar {
	return &stubRegistrar{fn: func(ctx context.Context, input users.CreateUserInput) (*users.UserDTO, error) {
		t.Fatal("signup must not be reached")
		return nil, nil
	}}
}

func TestLoginPrefersStaffAccount(t *testing.T) {
	hash := hashFor(t, "segredo1")
	agents := &stubAgentFinder{fn: func(ctx context.Context, cpf string) (*models.UsuarioIpa, error) {
		if cpf != "52998224725" {
			t.Fatalf("lookup used %q, want canonical cpf", cpf)
		}
		return &models.UsuarioIpa{ID: 1, Nome: "João Pereira", CPF: cpf, SenhaHash: hash}, nil
	}}
	sessions := newMemorySessions()
	svc, err := NewService(ServiceParams{
		Agents: agents, Users: noUsers(), Signup: rejectSignup(t),
		Sessions: sessions, JWT: testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	sess, err := svc.Login(context.Background(), LoginInput{CPF: "529.982.247-25", Senha: "segredo1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Role != enums.ActorRoleAgente {
		t.Fatalf("role = %s, want AGENTE", sess.Role)
	}
	if sess.CPF != "52998224725" {
		t.Fatalf("cpf = %q", sess.CPF)
	}
	if len(sessions.active) != 1 {
		t.Fatal("session not registered")
	}

	identity, err := svc.Validate(context.Background(), sess.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if identity.Nome != "João Pereira" || identity.Role != enums.ActorRoleAgente {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestLoginFallsBackToBeneficiary(t *testing.T) {
	hash := hashFor(t, "roçado26")
	userFinder := &stubUserFinder{fn: func(ctx context.Context, cpf string) (*models.Usuario, error) {
		return &models.Usuario{ID: 2, Nome: "Maria das Dores", CPF: cpf, SenhaHash: hash}, nil
	}}
	svc, _ := NewService(ServiceParams{
		Agents: noAgents(), Users: userFinder, Signup: rejectSignup(t),
		Sessions: newMemorySessions(), JWT: testJWTConfig(),
	})

	sess, err := svc.Login(context.Background(), LoginInput{CPF: "111.444.777-35", Senha: "roçado26"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Role != enums.ActorRoleBeneficiario {
		t.Fatalf("role = %s, want BENEFICIARIO", sess.Role)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hash := hashFor(t, "segredo1")
	userFinder := &stubUserFinder{fn: func(ctx context.Context, cpf string) (*models.Usuario, error) {
		return &models.Usuario{ID: 2, Nome: "Maria", CPF: cpf, SenhaHash: hash}, nil
	}}
	svc, _ := NewService(ServiceParams{
		Agents: noAgents(), Users: userFinder, Signup: rejectSignup(t),
		Sessions: newMemorySessions(), JWT: testJWTConfig(),
	})

	_, err := svc.Login(context.Background(), LoginInput{CPF: "11144477735", Senha: "errada"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsProfileWithoutCredential(t *testing.T) {
	userFinder := &stubUserFinder{fn: func(ctx context.Context, cpf string) (*models.Usuario, error) {
		return &models.Usuario{ID: 2, Nome: "Maria", CPF: cpf}, nil
	}}
	svc, _ := NewService(ServiceParams{
		Agents: noAgents(), Users: userFinder, Signup: rejectSignup(t),
		Sessions: newMemorySessions(), JWT: testJWTConfig(),
	})

	_, err := svc.Login(context.Background(), LoginInput{CPF: "11144477735", Senha: "qualquer"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsUnknownCPF(t *testing.T) {
	svc, _ := NewService(ServiceParams{
		Agents: noAgents(), Users: noUsers(), Signup: rejectSignup(t),
		Sessions: newMemorySessions(), JWT: testJWTConfig(),
	})

	_, err := svc.Login(context.Background(), LoginInput{CPF: "11144477735", Senha: "qualquer"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	hash := hashFor(t, "segredo1")
	userFinder := &stubUserFinder{fn: func(ctx context.Context, cpf string) (*models.Usuario, error) {
		return &models.Usuario{ID: 2, Nome: "Maria", CPF: cpf, SenhaHash: hash}, nil
	}}
	sessions := newMemorySessions()
	svc, _ := NewService(ServiceParams{
		Agents: noAgents(), Users: userFinder, Signup: rejectSignup(t),
		Sessions: sessions, JWT: testJWTConfig(),
	})
	ctx := context.Background()

	sess, err := svc.Login(ctx, LoginInput{CPF: "11144477735", Senha: "segredo1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, sess.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.active) != 0 {
		t.Fatal("session not revoked")
	}

	_, err = svc.Validate(ctx, sess.Token)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
}

func TestRegisterOpensSession(t *testing.T) {
	registrar := &stubRegistrar{fn: func(ctx context.Context, input users.CreateUserInput) (*users.UserDTO, error) {
		if input.Senha == nil || *input.Senha != "semente26" {
			t.Fatalf("password not forwarded: %+v", input.Senha)
		}
		return &users.UserDTO{ID: 5, Nome: input.Nome, CPF: "11144477735"}, nil
	}}
	sessions := newMemorySessions()
	svc, _ := NewService(ServiceParams{
		Agents: noAgents(), Users: noUsers(), Signup: registrar,
		Sessions: sessions, JWT: testJWTConfig(),
	})

	sess, err := svc.Register(context.Background(), RegisterInput{
		Nome:  "Maria das Dores",
		CPF:   "111.444.777-35",
		Senha: "semente26",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if sess.Role != enums.ActorRoleBeneficiario {
		t.Fatalf("role = %s, want BENEFICIARIO", sess.Role)
	}
	if len(sessions.active) != 1 {
		t.Fatal("session not registered")
	}
}
