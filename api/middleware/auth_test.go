package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/ipa-digital/safra-backend/pkg/auth"
	"github.com/ipa-digital/safra-backend/pkg/config"
	"github.com/ipa-digital/safra-backend/pkg/enums"
	"github.com/ipa-digital/safra-backend/pkg/logger"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-test-secret",
		Issuer:            "safra-backend-test",
		ExpirationMinutes: 30,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubChecker struct {
	live map[string]bool
}

func (s *stubChecker) HasSession(ctx context.Context, tokenID string) (bool, error) {
	return s.live[tokenID], nil
}

func mintToken(t *testing.T, cfg config.JWTConfig, jti string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		CPF:  "11144477735",
		Nome: "Maria das Dores",
		Role: enums.ActorRoleBeneficiario,
		JTI:  jti,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testJWTConfig()
	logg := testLogger()

	handler := func(captured *map[string]string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*captured = map[string]string{
				"cpf":  CPFFromContext(r.Context()),
				"role": RoleFromContext(r.Context()),
				"nome": NomeFromContext(r.Context()),
			}
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("missing header", func(t *testing.T) {
		var seen map[string]string
		req := httptest.NewRequest(http.MethodGet, "/api/usuarios", nil)
		rec := httptest.NewRecorder()
		Auth(cfg, &stubChecker{}, logg)(handler(&seen)).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if seen != nil {
			t.Fatalf("handler should not run without credentials")
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		var seen map[string]string
		req := httptest.NewRequest(http.MethodGet, "/api/usuarios", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		Auth(cfg, &stubChecker{}, logg)(handler(&seen)).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("revoked session", func(t *testing.T) {
		var seen map[string]string
		token := mintToken(t, cfg, "jti-revoked")
		req := httptest.NewRequest(http.MethodGet, "/api/usuarios", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		Auth(cfg, &stubChecker{live: map[string]bool{}}, logg)(handler(&seen)).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for revoked session, got %d", rec.Code)
		}
	})

	t.Run("live session seeds context", func(t *testing.T) {
		var seen map[string]string
		token := mintToken(t, cfg, "jti-live")
		req := httptest.NewRequest(http.MethodGet, "/api/usuarios", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		Auth(cfg, &stubChecker{live: map[string]bool{"jti-live": true}}, logg)(handler(&seen)).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if seen["cpf"] != "11144477735" {
			t.Fatalf("expected canonical cpf in context, got %q", seen["cpf"])
		}
		if seen["role"] != string(enums.ActorRoleBeneficiario) {
			t.Fatalf("expected role in context, got %q", seen["role"])
		}
		if seen["nome"] != "Maria das Dores" {
			t.Fatalf("expected nome in context, got %q", seen["nome"])
		}
	})
}

func TestRequireRole(t *testing.T) {
	logg := testLogger()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("wrong role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/produtos/1", nil)
		req = req.WithContext(WithRole(req.Context(), string(enums.ActorRoleBeneficiario)))
		rec := httptest.NewRecorder()
		RequireRole(enums.ActorRoleAgente, logg)(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("matching role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/produtos/1", nil)
		req = req.WithContext(WithRole(req.Context(), string(enums.ActorRoleAgente)))
		rec := httptest.NewRecorder()
		RequireRole(enums.ActorRoleAgente, logg)(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
