package generate

import (
	"fmt"
	"strings"
	"time"

	"github.com/randalmurphal/prospectkit/compose"
	"github.com/randalmurphal/prospectkit/model"
)

// Defaults applied to zero Config fields.
const (
	DefaultMaxTokens = 1500
	DefaultTimeout   = 30 * time.Second
)

// SpecsPolicy decides whether empty specifications are accepted.
type SpecsPolicy int

const (
	// SpecsOptional accepts an empty specs string.
	SpecsOptional SpecsPolicy = iota
	// SpecsRequired rejects an empty specs string as invalid input.
	SpecsRequired
)

func (p SpecsPolicy) String() string {
	if p == SpecsRequired {
		return "required"
	}
	return "optional"
}

// ParseSpecsPolicy parses "optional" or "required". Empty means optional.
func ParseSpecsPolicy(s string) (SpecsPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "optional":
		return SpecsOptional, nil
	case "required":
		return SpecsRequired, nil
	default:
		return SpecsOptional, fmt.Errorf("unknown specs policy %q", s)
	}
}

// Config holds the service settings.
type Config struct {
	// Model is the provider model identifier, also used for pricing.
	Model string

	// Credential is checked for plausibility before every dispatch.
	// It is never logged.
	Credential string

	// MaxTokens caps the completion length.
	MaxTokens int

	// SystemPrompt overrides the composer's system-role framing.
	SystemPrompt string

	// Timeout bounds the provider call, transport retries included.
	Timeout time.Duration

	// SpecsPolicy controls validation of Request.Specs.
	SpecsPolicy SpecsPolicy
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Model:        string(model.DefaultModel),
		MaxTokens:    DefaultMaxTokens,
		SystemPrompt: compose.DefaultSystemPrompt,
		Timeout:      DefaultTimeout,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if strings.TrimSpace(c.Model) == "" {
		c.Model = d.Model
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = d.MaxTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	return c
}
