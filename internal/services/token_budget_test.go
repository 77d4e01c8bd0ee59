package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	budget := DefaultTokenBudget()

	assert.Equal(t, 0, budget.EstimateTokens(""))
	assert.Equal(t, 25, budget.EstimateTokens(strings.Repeat("a", 100)))
}

func TestEstimateJSONTokens(t *testing.T) {
	budget := DefaultTokenBudget()

	data := map[string]any{"name": "Central Park", "rating": 4.7}
	raw := `{"name":"Central Park","rating":4.7}`
	assert.Equal(t, budget.EstimateTokens(raw), budget.EstimateJSONTokens(data))
}

func TestAvailableForPlaces(t *testing.T) {
	budget := TokenBudget{
		CharsPerToken:   4,
		MaxInputTokens:  1000,
		MaxOutputTokens: 100,
		SafetyMargin:    0.1,
	}

	// 900 usable input tokens minus 100 output minus 50 prompt tokens.
	prompt := strings.Repeat("a", 200)
	assert.Equal(t, 750, budget.AvailableForPlaces(prompt, ""))
}

func TestAvailableForPlacesNeverNegative(t *testing.T) {
	budget := TokenBudget{
		CharsPerToken:   4,
		MaxInputTokens:  100,
		MaxOutputTokens: 100,
		SafetyMargin:    0.15,
	}

	assert.Equal(t, 0, budget.AvailableForPlaces(strings.Repeat("a", 10000), ""))
}
