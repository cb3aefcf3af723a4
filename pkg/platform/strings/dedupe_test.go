package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "single element",
			input:    []string{"103"},
			expected: []string{"103"},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  103  ", "302  ", "  309"},
			expected: []string{"103", "302", "309"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"103", "302", "103", "309", "302"},
			expected: []string{"103", "302", "309"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"103", "", "  ", "302"},
			expected: []string{"103", "302"},
		},
		{
			name:     "combined: trim, dedupe, remove empty",
			input:    []string{"  103 ", "302", "103", "", "  ", "302"},
			expected: []string{"103", "302"},
		},
		{
			name:     "preserves case",
			input:    []string{"363A", "363a"},
			expected: []string{"363A", "363a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DedupeAndTrim(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDedupeAndTrimUpper(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "upper-cases sub-section letters and dedupes",
			input:    []string{"363a", "363A", " 363A "},
			expected: []string{"363A"},
		},
		{
			name:     "keeps numeric sections in order",
			input:    []string{" 302 ", "376a", "302", ""},
			expected: []string{"302", "376A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DedupeAndTrimUpper(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
