package tracking

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/ipa-digital/safra-backend/pkg/errors"
)

const (
	codePrefix    = "SAFRA"
	codeCharset   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeSuffixLen = 8
)

// DefaultMaxAttempts bounds the uniqueness retry loop when no config is set.
const DefaultMaxAttempts = 10

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// GenerateCode produces a tracking code in the form SAFRA-<year>-<8 chars>,
// e.g. SAFRA-2026-K7L8M9N0.
func GenerateCode(now time.Time) (string, error) {
	var sb strings.Builder
	sb.WriteString(codePrefix)
	sb.WriteByte('-')
	fmt.Fprintf(&sb, "%d", now.Year())
	sb.WriteByte('-')

	// Reject bytes beyond the largest multiple of the alphabet size so every
	// symbol is sampled with equal probability.
	const maxUnbiasedByte = 256 - 256%len(codeCharset)
	written := 0
	buf := make([]byte, 2*codeSuffixLen)
	for written < codeSuffixLen {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("reading random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxUnbiasedByte {
				continue
			}
			sb.WriteByte(codeCharset[int(b)%len(codeCharset)])
			written++
			if written == codeSuffixLen {
				break
			}
		}
	}
	return sb.String(), nil
}

// AllocateCode generates codes until one is free, giving up after maxAttempts.
// Exhaustion is mapped to CodeExhausted so callers can surface a retryable error.
func AllocateCode(ctx context.Context, exists ExistsFunc, maxAttempts int) (string, error) {
	if exists == nil {
		return "", fmt.Errorf("exists check is required")
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := GenerateCode(time.Now())
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("checking code uniqueness: %w", err)
		}
		if !taken {
			return code, nil
		}
	}

	return "", errors.New(errors.CodeExhausted, fmt.Sprintf("could not allocate a unique tracking code after %d attempts", maxAttempts))
}
