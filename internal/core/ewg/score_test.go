package ewg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  int
		found bool
	}{
		{"number with scale", "Score: 7/10", 7, true},
		{"bare number", "3", 3, true},
		{"clamped high", "score 42", 10, true},
		{"clamped low", "0 hazard", 1, true},
		{"low keyword", "This is a low risk ingredient", 2, true},
		{"moderate keyword", "Average hazard", 5, true},
		{"high keyword", "Considered dangerous", 8, true},
		{"empty", "", 0, false},
		{"no signal", "verified", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseScore(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
