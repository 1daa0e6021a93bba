package cpf

import (
	"fmt"
	"strings"
)

// Length is the canonical digits-only CPF size.
const Length = 11

// ErrInvalid signals a CPF that fails length or check-digit validation.
var ErrInvalid = fmt.Errorf("invalid cpf")

// Normalize strips punctuation and whitespace, returning the digits-only form.
// Identity comparison always happens on this form, never on display formatting.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(Length)
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Parse normalizes and validates the input, returning the canonical form.
func Parse(raw string) (string, error) {
	normalized := Normalize(raw)
	if !IsValid(normalized) {
		return "", ErrInvalid
	}
	return normalized, nil
}

// IsValid reports whether the digits-only value is a well-formed CPF,
// including the two mod-11 check digits.
func IsValid(digits string) bool {
	if len(digits) != Length {
		return false
	}
	allSame := true
	for i := 1; i < Length; i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	if checkDigit(digits, 9) != int(digits[9]-'0') {
		return false
	}
	return checkDigit(digits, 10) == int(digits[10]-'0')
}

// Format renders the canonical form as XXX.XXX.XXX-XX for display only.
func Format(digits string) string {
	if len(digits) != Length {
		return digits
	}
	return fmt.Sprintf("%s.%s.%s-%s", digits[0:3], digits[3:6], digits[6:9], digits[9:11])
}

func checkDigit(digits string, position int) int {
	sum := 0
	weight := position + 1
	for i := 0; i < position; i++ {
		sum += int(digits[i]-'0') * weight
		weight--
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}
