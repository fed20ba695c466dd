package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *Validator {
	return NewValidator(nil, nil, nil)
}

func TestIsDrugNameBoundaries(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"a", false},
		{"2024", false},
		{"aspirin", true},
		{"ASPIRIN", true},
		{"  aspirin  ", true},
		{"john", false},
		{"hypertension", false},
		{"what is aspirin", false},
		{"take two pills every morning daily", false},
		{"user@example.com", false},
		{"https://example.com/aspirin", false},
		{"funicillin", true},
		{"zorbactamycin", true},  // suffix heuristic
		{"amoxiclav", true},      // prefix heuristic
		{"xywav", true},          // generic pharmaceutical shape
		{"co-amoxiclav", true},   // hyphenated fallback shape
		{"rx", false},            // shape rules need length >= 4
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, v.IsDrugName(tt.input), "%q", tt.input)
	}
}

func TestCheckReasons(t *testing.T) {
	v := newTestValidator()

	res := v.Check("hypertension")
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Reason, "condition")

	res = v.Check("what is metformin")
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Reason, "question")

	res = v.Check("aspirin")
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Reason)
	assert.Empty(t, res.Suggestions)
}

func TestCheckAttachesSuggestions(t *testing.T) {
	v := newTestValidator()

	res := v.Check("metforminn e x t r a")
	require.False(t, res.IsValid)
	assert.Contains(t, res.Suggestions, "metformin")
}

func TestSuggestSimilar(t *testing.T) {
	v := newTestValidator()

	// Shared 3-character prefix ranks first.
	suggestions := v.SuggestSimilar("metclopramide")
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "metformin", suggestions[0])

	// Substring containment backs up the prefix tier.
	assert.Contains(t, v.SuggestSimilar("formin"), "metformin")

	// Exact matches are never suggested back.
	assert.NotContains(t, v.SuggestSimilar("aspirin"), "aspirin")

	assert.LessOrEqual(t, len(v.SuggestSimilar("a")), 5)
	for _, input := range []string{"amo", "cip", "li"} {
		assert.LessOrEqual(t, len(v.SuggestSimilar(input)), 5, input)
	}
}
