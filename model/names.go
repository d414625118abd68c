package model

import (
	"regexp"
	"strings"
)

// ModelID is a normalized provider model identifier.
type ModelID string

// OpenAI chat model identifiers with known prices.
const (
	ModelGPT4oMini  ModelID = "gpt-4o-mini"
	ModelGPT4o      ModelID = "gpt-4o"
	ModelGPT41Mini  ModelID = "gpt-4.1-mini"
	ModelGPT35Turbo ModelID = "gpt-3.5-turbo"
)

// DefaultModel is used when no model is configured and when pricing an
// unknown model.
const DefaultModel = ModelGPT4oMini

// snapshotSuffix matches dated snapshot suffixes such as "-2024-07-18".
var snapshotSuffix = regexp.MustCompile(`-\d{4}-\d{2}-\d{2}$`)

// NormalizeModelID converts a provider model name to its price-table key.
// For example, "GPT-4o-mini-2024-07-18" becomes "gpt-4o-mini".
// Names that match no pattern are returned lowercased and trimmed.
func NormalizeModelID(name string) ModelID {
	lower := strings.ToLower(strings.TrimSpace(name))
	lower = snapshotSuffix.ReplaceAllString(lower, "")
	return ModelID(lower)
}

// String returns the identifier as a plain string.
func (m ModelID) String() string {
	return string(m)
}
