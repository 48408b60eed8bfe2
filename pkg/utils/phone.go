package utils

import "strings"

// NormalizePhone reformats a free-text phone number into a "+"-prefixed
// form. A 10-digit number is assumed domestic and gets the US calling code;
// an 11-digit number starting with 1 is already international. Numbers that
// already carry a "+" pass through untouched.
//
// Any other digit count falls through to a bare "+" prefix. That matches
// the legacy form behavior and can produce invalid international numbers;
// kept as-is pending a review of real submissions.
func NormalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "+") {
		return trimmed
	}

	digits := DigitsOnly(trimmed)
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits
	default:
		return "+" + digits
	}
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
