package utils

import "strings"

// SplitName splits a free-text full name into a title-cased first and last
// name. Everything after the first word becomes the last name.
func SplitName(fullName string) (firstName, lastName string) {
	parts := capitalizeParts(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// CapitalizeFullName title-cases each whitespace-separated part of a name
func CapitalizeFullName(fullName string) string {
	return strings.Join(capitalizeParts(fullName), " ")
}

func capitalizeParts(fullName string) []string {
	fields := strings.Fields(fullName)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		runes := []rune(strings.ToLower(field))
		parts = append(parts, strings.ToUpper(string(runes[0]))+string(runes[1:]))
	}
	return parts
}
