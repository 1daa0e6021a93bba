package tracking

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/ipa-digital/safra-backend/pkg/errors"
)

var codeRe = regexp.MustCompile(`^SAFRA-\d{4}-[A-Z0-9]{8}$`)

func TestGenerateCodeFormat(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		code, err := GenerateCode(now)
		if err != nil {
			t.Fatalf("generate code: %v", err)
		}
		if !codeRe.MatchString(code) {
			t.Fatalf("code %q does not match expected format", code)
		}
		if code[:11] != "SAFRA-2026-" {
			t.Fatalf("code %q does not carry the year", code)
		}
	}
}

func TestGenerateCodeCoversWholeAlphabet(t *testing.T) {
	// 500 codes give 4000 suffix samples; with unbiased sampling the odds of
	// any of the 36 symbols never appearing are vanishingly small.
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	seen := map[byte]int{}
	for i := 0; i < 500; i++ {
		code, err := GenerateCode(now)
		if err != nil {
			t.Fatalf("generate code: %v", err)
		}
		for j := len(code) - codeSuffixLen; j < len(code); j++ {
			seen[code[j]]++
		}
	}
	for i := 0; i < len(codeCharset); i++ {
		if seen[codeCharset[i]] == 0 {
			t.Fatalf("symbol %c never sampled across 500 codes", codeCharset[i])
		}
	}
}

func TestAllocateCodeReturnsFirstFree(t *testing.T) {
	calls := 0
	exists := func(ctx context.Context, code string) (bool, error) {
		calls++
		return calls < 3, nil // first two candidates taken
	}

	code, err := AllocateCode(context.Background(), exists, 10)
	if err != nil {
		t.Fatalf("allocate code: %v", err)
	}
	if !codeRe.MatchString(code) {
		t.Fatalf("allocated code %q malformed", code)
	}
	if calls != 3 {
		t.Fatalf("expected 3 uniqueness checks, got %d", calls)
	}
}

func TestAllocateCodeExhausted(t *testing.T) {
	exists := func(ctx context.Context, code string) (bool, error) {
		return true, nil
	}

	_, err := AllocateCode(context.Background(), exists, 4)
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeExhausted {
		t.Fatalf("expected CodeExhausted, got %v", err)
	}
}

func TestAllocateCodePropagatesCheckError(t *testing.T) {
	exists := func(ctx context.Context, code string) (bool, error) {
		return false, fmt.Errorf("db down")
	}

	if _, err := AllocateCode(context.Background(), exists, 10); err == nil {
		t.Fatal("expected error from uniqueness check")
	}
}

func TestAllocateCodeRequiresExistsFunc(t *testing.T) {
	if _, err := AllocateCode(context.Background(), nil, 10); err == nil {
		t.Fatal("expected error for nil exists func")
	}
}
