package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips non-whitelisted symbols",
			input:    "ASPIRIN® 81mg — take daily!",
			expected: "ASPIRIN 81mg take daily",
		},
		{
			name:     "collapses whitespace runs",
			input:    "METFORMIN   500MG\n\n\tTake with   food",
			expected: "METFORMIN 500MG Take with food",
		},
		{
			name:     "preserves case and allowed punctuation",
			input:    "Patient: Jane (DOB: 01/15/1980), BP 120/80",
			expected: "Patient: Jane (DOB: 01/15/1980), BP 120/80",
		},
		{
			name:     "trims",
			input:    "  aspirin  ",
			expected: "aspirin",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("METFORMIN 500MG, take twice-daily")
	var words []string
	for _, tok := range tokens {
		words = append(words, tok.text)
	}
	assert.Equal(t, []string{"METFORMIN", "500MG", "take", "twice-daily"}, words)
	assert.Equal(t, 0, tokens[0].start)
	assert.Equal(t, 10, tokens[1].start)
}

func TestCaseShapes(t *testing.T) {
	assert.True(t, isTitleCase("Metformin"))
	assert.False(t, isTitleCase("METFORMIN"))
	assert.False(t, isTitleCase("metformin"))
	assert.False(t, isTitleCase("Met4ormin"))

	assert.True(t, isAllCaps("METFORMIN"))
	assert.False(t, isAllCaps("Metformin"))
	assert.False(t, isAllCaps("500MG"))
	assert.False(t, isAllCaps("M"))
}
