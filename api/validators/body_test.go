package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/ipa-digital/safra-backend/pkg/errors"
)

type signupBody struct {
	Nome string `json:"nome" validate:"required"`
	CPF  string `json:"cpf" validate:"required,cpf"`
}

func decode(t *testing.T, raw string, dest any) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
	return DecodeJSONBody(req, dest)
}

func TestDecodeJSONBodyAcceptsMaskedCPF(t *testing.T) {
	var body signupBody
	if err := decode(t, `{"nome":"Maria","cpf":"111.444.777-35"}`, &body); err != nil {
		t.Fatalf("expected masked cpf to validate, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsBadCheckDigits(t *testing.T) {
	var body signupBody
	err := decode(t, `{"nome":"Maria","cpf":"111.444.777-36"}`, &body)
	if err == nil {
		t.Fatal("expected invalid cpf to be rejected")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["cpf"] == "" {
		t.Fatalf("expected a cpf field message in details, got %v", typed.Details())
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var body signupBody
	if err := decode(t, `{"nome":"Maria","cpf":"11144477735","extra":true}`, &body); err == nil {
		t.Fatal("expected unknown fields to be rejected")
	}
}

func TestParseQueryIntBounds(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?size=500", nil)
	if _, err := ParseQueryInt(req, "size", 25, 1, 100); err == nil {
		t.Fatal("expected out-of-range size to fail")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	got, err := ParseQueryInt(req, "size", 25, 1, 100)
	if err != nil || got != 25 {
		t.Fatalf("expected default 25, got %d (%v)", got, err)
	}
}

func TestParsePaginationDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3", nil)
	params, err := ParsePagination(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Page != 3 || params.Size != 25 {
		t.Fatalf("unexpected params: %+v", params)
	}
}
