package tokens

import (
	"unicode/utf8"
)

// DefaultCharsPerToken is the default character-to-token ratio.
// Roughly four characters make one token for English text.
const DefaultCharsPerToken = 4.0

// Counter estimates token counts for text.
type Counter interface {
	// Count estimates the number of tokens in text.
	Count(text string) int
}

// EstimatingCounter estimates tokens from the rune count.
type EstimatingCounter struct {
	CharsPerToken float64
}

// NewEstimatingCounter creates a counter with the default ratio.
func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{CharsPerToken: DefaultCharsPerToken}
}

// NewEstimatingCounterWithRatio creates a counter with a custom ratio.
// Non-positive ratios fall back to DefaultCharsPerToken.
func NewEstimatingCounterWithRatio(charsPerToken float64) *EstimatingCounter {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	return &EstimatingCounter{CharsPerToken: charsPerToken}
}

// Count implements Counter, rounding to the nearest token.
func (c *EstimatingCounter) Count(text string) int {
	ratio := c.CharsPerToken
	if ratio <= 0 {
		ratio = DefaultCharsPerToken
	}
	return int(float64(utf8.RuneCountInString(text))/ratio + 0.5)
}

// EstimateTokens counts text with the default estimator.
func EstimateTokens(text string) int {
	return NewEstimatingCounter().Count(text)
}

// ContextWindows holds context window sizes for the supported chat models.
var ContextWindows = map[string]int{
	"gpt-4o-mini":   128000,
	"gpt-4o":        128000,
	"gpt-4.1-mini":  1047576,
	"gpt-3.5-turbo": 16385,
}

// DefaultContextWindow is used for models missing from ContextWindows.
const DefaultContextWindow = 16385

// ContextWindow returns the context window for modelID.
func ContextWindow(modelID string) int {
	if n, ok := ContextWindows[modelID]; ok {
		return n
	}
	return DefaultContextWindow
}
