// Package config loads application settings for the prospectfind command.
//
// Settings come from defaults, then an optional prospectfind.yaml, then the
// environment. A .env file is read into the environment first without
// overriding variables that are already set.
package config

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/randalmurphal/prospectkit/generate"
	"github.com/randalmurphal/prospectkit/provider"
)

// Settings is the complete application configuration.
type Settings struct {
	OpenAI     OpenAISettings     `mapstructure:"openai"`
	Generation GenerationSettings `mapstructure:"generation"`
	Prompts    PromptSettings     `mapstructure:"prompts"`
	Export     ExportSettings     `mapstructure:"export"`
	Log        LogSettings        `mapstructure:"log"`
	Server     ServerSettings     `mapstructure:"server"`
	Tracing    TracingSettings    `mapstructure:"tracing"`
}

// OpenAISettings configures the completion provider.
type OpenAISettings struct {
	// APIKey is not required here; a missing key is reported per request.
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model" validate:"required"`
	BaseURL      string        `mapstructure:"base_url" validate:"omitempty,url"`
	Organization string        `mapstructure:"organization"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxRetries   int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
}

// GenerationSettings configures the generation service.
type GenerationSettings struct {
	MaxTokens    int    `mapstructure:"max_tokens" validate:"gt=0"`
	SpecsPolicy  string `mapstructure:"specs_policy" validate:"oneof=optional required"`
	SystemPrompt string `mapstructure:"system_prompt"`
}

// PromptSettings locates the prompt configuration document.
type PromptSettings struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ExportSettings configures markdown export.
type ExportSettings struct {
	Dir  string `mapstructure:"dir" validate:"required"`
	Link string `mapstructure:"link"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	File   string `mapstructure:"file"`
}

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	Addr           string        `mapstructure:"addr" validate:"required"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	RateLimit      float64       `mapstructure:"rate_limit" validate:"gte=0"`
	Burst          int           `mapstructure:"burst" validate:"gte=0"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	SessionIdle    time.Duration `mapstructure:"session_idle" validate:"gte=0"`
}

// TracingSettings configures the OTLP exporter.
type TracingSettings struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint" validate:"required_if=Enabled true"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// ProviderConfig converts the settings into a provider client configuration.
func (s *Settings) ProviderConfig(logger *zap.Logger) provider.Config {
	cfg := provider.Config{
		Provider:   "openai",
		Model:      s.OpenAI.Model,
		Credential: s.OpenAI.APIKey,
		BaseURL:    s.OpenAI.BaseURL,
		Timeout:    s.OpenAI.Timeout,
		MaxRetries: s.OpenAI.MaxRetries,
		Logger:     logger,
	}
	if s.OpenAI.Organization != "" {
		cfg.Options = map[string]any{"organization": s.OpenAI.Organization}
	}
	return cfg
}

// GenerateConfig converts the settings into a generation service configuration.
func (s *Settings) GenerateConfig() (generate.Config, error) {
	policy, err := generate.ParseSpecsPolicy(s.Generation.SpecsPolicy)
	if err != nil {
		return generate.Config{}, fmt.Errorf("generation.specs_policy: %w", err)
	}
	return generate.Config{
		Model:        s.OpenAI.Model,
		Credential:   s.OpenAI.APIKey,
		MaxTokens:    s.Generation.MaxTokens,
		SystemPrompt: s.Generation.SystemPrompt,
		Timeout:      s.OpenAI.Timeout,
		SpecsPolicy:  policy,
	}, nil
}
