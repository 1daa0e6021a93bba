package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type memoryLimiterStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemoryLimiterStore() *memoryLimiterStore {
	return &memoryLimiterStore{counts: map[string]int64{}}
}

func (s *memoryLimiterStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func loginRequest(cpf string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"cpf":"`+cpf+`","senha":"x"}`))
	req.RemoteAddr = "10.0.0.1:40000"
	return req
}

func TestAuthRateLimitPerCPF(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	store := newMemoryLimiterStore()
	var hits int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	})
	limited := AuthRateLimit(policy, store, testLogger())(next)

	// Masked and bare forms of the same CPF share one counter.
	for i, cpf := range []string{"111.444.777-35", "11144477735"} {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, loginRequest(cpf))
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, loginRequest("11144477735"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third attempt, got %d", rec.Code)
	}
	if hits != 2 {
		t.Fatalf("expected handler to run twice, ran %d times", hits)
	}

	// A different CPF from the same IP still passes.
	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, loginRequest("529.982.247-25"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a different cpf, got %d", rec.Code)
	}
}

func TestAuthRateLimitPerIP(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	store := newMemoryLimiterStore()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	limited := AuthRateLimit(policy, store, testLogger())(next)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, loginRequest("11144477735"))
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, loginRequest("11144477735"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the ip budget is spent, got %d", rec.Code)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 0, 0)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	limited := AuthRateLimit(policy, newMemoryLimiterStore(), testLogger())(next)

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, loginRequest("11144477735"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through when disabled, got %d", rec.Code)
	}
}
