package services

import "encoding/json"

// TokenBudget estimates token usage for prompt assembly. The limits encode a
// specific model's context window, so they are plain configurable fields
// rather than constants buried in the arithmetic.
type TokenBudget struct {
	CharsPerToken   int
	MaxInputTokens  int
	MaxOutputTokens int
	SafetyMargin    float64
}

// DefaultTokenBudget returns conservative limits for Gemini Flash class
// models: the model advertises 1M input tokens, we plan against 800k.
func DefaultTokenBudget() TokenBudget {
	return TokenBudget{
		CharsPerToken:   4,
		MaxInputTokens:  800_000,
		MaxOutputTokens: 8_000,
		SafetyMargin:    0.15,
	}
}

// EstimateTokens approximates token count from text length. Deliberately a
// rough heuristic: 1 token per 4 characters of English text.
func (b TokenBudget) EstimateTokens(text string) int {
	return len(text) / b.CharsPerToken
}

// EstimateJSONTokens estimates tokens for a value serialized as compact JSON.
func (b TokenBudget) EstimateJSONTokens(data any) int {
	raw, err := json.Marshal(data)
	if err != nil {
		return 0
	}
	return b.EstimateTokens(string(raw))
}

// AvailableForPlaces returns the token budget left for places data after
// reserving the prompts, the output window, and the safety margin.
func (b TokenBudget) AvailableForPlaces(systemPrompt, userContext string) int {
	used := b.EstimateTokens(systemPrompt) + b.EstimateTokens(userContext)
	maxInput := int(float64(b.MaxInputTokens) * (1 - b.SafetyMargin))
	available := maxInput - used - b.MaxOutputTokens
	if available < 0 {
		return 0
	}
	return available
}
