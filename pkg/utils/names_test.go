package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFirst string
		wantLast  string
	}{
		{"two words", "john doe", "John", "Doe"},
		{"shouting", "JOHN DOE", "John", "Doe"},
		{"single word", "cher", "Cher", ""},
		{"three words", "mary jane watson", "Mary", "Jane Watson"},
		{"extra whitespace", "  john   doe  ", "John", "Doe"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitName(tt.input)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestCapitalizeFullName(t *testing.T) {
	assert.Equal(t, "John Doe", CapitalizeFullName("john DOE"))
	assert.Equal(t, "", CapitalizeFullName("   "))
}
