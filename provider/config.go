package provider

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Credential plausibility limits. Keys shorter than MinCredentialLength or
// starting with PlaceholderCredentialPrefix are rejected before any network
// call is made.
const (
	MinCredentialLength         = 30
	PlaceholderCredentialPrefix = "sk-your-key"
)

// Config holds configuration for creating a provider client.
// Common fields apply to all providers; use Options for provider-specific settings.
type Config struct {
	// Provider is the name of the provider to use.
	// Required. Values: "openai"
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model to use (provider-specific name).
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// Credential is the API key sent to the provider.
	Credential string `json:"-" yaml:"-" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint. Optional.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a single completion request, retries included.
	// 0 uses the provider default.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxRetries is the transport-level retry budget for connection failures.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Options holds provider-specific configuration.
	Options map[string]any `json:"options" yaml:"options" mapstructure:"options"`

	// Logger receives client diagnostics. Nil disables logging.
	Logger *zap.Logger `json:"-" yaml:"-" mapstructure:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
// Credential must still be set before use.
func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		Model:      "gpt-4o-mini",
		Timeout:    30 * time.Second,
		MaxRetries: 3,
	}
}

// Validate checks if the configuration is valid.
// The credential is checked separately by CheckCredential so that callers
// can surface it as a configuration failure at request time.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries)
	}
	return nil
}

// CheckCredential reports whether key is present and structurally plausible.
func CheckCredential(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: API key is not set", ErrCredentialsNotFound)
	}
	if strings.HasPrefix(key, PlaceholderCredentialPrefix) || len(key) < MinCredentialLength {
		return fmt.Errorf("%w: API key appears to be a placeholder or is too short", ErrCredentialsInvalid)
	}
	return nil
}

// WithModel returns a copy of the config with the specified model.
func (c Config) WithModel(model string) Config {
	c.Model = model
	return c
}

// WithCredential returns a copy of the config with the specified credential.
func (c Config) WithCredential(key string) Config {
	c.Credential = key
	return c
}

// GetLogger returns the configured logger or a no-op logger.
func (c Config) GetLogger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// GetStringOption retrieves a string option, returning defaultVal if not set.
func (c Config) GetStringOption(key, defaultVal string) string {
	if c.Options == nil {
		return defaultVal
	}
	if v, ok := c.Options[key].(string); ok {
		return v
	}
	return defaultVal
}
