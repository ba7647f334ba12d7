package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"unicode"
)

//
// ===========================================================
//  ENV UTILITIES
// ===========================================================
//

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

//
// ===========================================================
//  TOKEN GENERATOR
// ===========================================================
//

// GenerateSecureToken returns a random hex token (length = bytes).
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

//
// ===========================================================
//  FORM VALIDATORS
// ===========================================================
//

// CountDigits counts decimal digits in s, ignoring separators like "-" or spaces.
func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// IsValidTel accepts phone numbers carrying 10-12 digits.
func IsValidTel(tel string) bool {
	n := CountDigits(tel)
	return n >= 10 && n <= 12
}

// IsValidPostalCode accepts exactly 5-character postal codes.
func IsValidPostalCode(code string) bool {
	return len(strings.TrimSpace(code)) == 5
}

//
// ===========================================================
//  EMAIL MASKING
// ===========================================================
//

// MaskEmail returns masked email for safe display in logs.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	local := parts[0]
	domain := parts[1]

	maskedLocal := local
	if len(local) > 2 {
		maskedLocal = local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:]
	} else if len(local) == 2 {
		maskedLocal = local[:1] + "*"
	}

	domainParts := strings.Split(domain, ".")
	if len(domainParts) >= 2 {
		if len(domainParts[0]) > 1 {
			domainParts[0] = domainParts[0][:1] + strings.Repeat("*", len(domainParts[0])-1)
		}
	}

	return maskedLocal + "@" + strings.Join(domainParts, ".")
}
