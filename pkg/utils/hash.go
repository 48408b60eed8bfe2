package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashString creates a SHA-256 hash of the input string
func HashString(input string) string {
	h := sha256.New()
	h.Write([]byte(input))

	return hex.EncodeToString(h.Sum(nil))
}

// HashIdentifier normalizes an identifier the way the Conversions API
// expects (trim, then lowercase) and returns its SHA-256 hex digest.
// Empty input hashes to the empty string so optional fields stay absent.
func HashIdentifier(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return ""
	}
	return HashString(normalized)
}

// DigitsOnly strips every non-digit rune, used before hashing phone numbers.
func DigitsOnly(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
