package faq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingredient-safety/internal/pkg/common"
)

func TestAnswer(t *testing.T) {
	r, err := NewResponder()
	require.NoError(t, err)

	tests := []struct {
		question string
		topic    string
	}{
		{"Are PARABENS bad for me?", "parabens"},
		{"Is SLS harsh on my scalp?", "sulfates"},
		{"Which sunscreen is best?", "sunscreen"},
		{"What does an EWG score mean?", "scores"},
		// 主題依序比對，懷孕排在維生素 A 之前
		{"Can I use retinol while pregnant?", "pregnancy"},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			a, err := r.Answer(tt.question)
			require.NoError(t, err)
			assert.True(t, a.Matched)
			assert.Equal(t, tt.topic, a.Topic)
			assert.NotEmpty(t, a.Answer)
		})
	}
}

func TestAnswer_Fallback(t *testing.T) {
	r, err := NewResponder()
	require.NoError(t, err)

	a, err := r.Answer("What time is it?")
	require.NoError(t, err)
	assert.False(t, a.Matched)
	assert.Empty(t, a.Topic)
	assert.Contains(t, a.Answer, "dermatologist")
	assert.Equal(t, r.Topics(), a.RelatedTopics)
}

func TestAnswer_EmptyQuestion(t *testing.T) {
	r, err := NewResponder()
	require.NoError(t, err)

	_, err = r.Answer("   ")
	assert.True(t, common.IsValidationError(err))
}

func TestParseResponder_Invalid(t *testing.T) {
	_, err := ParseResponder([]byte("topics: []"))
	assert.Error(t, err)

	_, err = ParseResponder([]byte("fallback: hi\ntopics:\n  - name: x\n"))
	assert.Error(t, err)
}
