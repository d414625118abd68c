package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PROSPECTFIND_LOG_LEVEL.
const EnvPrefix = "PROSPECTFIND"

// ConfigName is the base name of the optional settings file.
const ConfigName = "prospectfind"

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// ConfigFile is an explicit settings file. When empty, prospectfind.yaml
	// is searched in the working directory and in config/.
	ConfigFile string

	// EnvFile is loaded into the environment first. Empty means ".env".
	// A missing file is not an error.
	EnvFile string
}

// Load reads and validates the settings.
func Load(opts LoadOptions) (*Settings, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The provider's conventional variables are honored without the prefix.
	for key, env := range map[string]string{
		"openai.api_key":      "OPENAI_API_KEY",
		"openai.model":        "OPENAI_MODEL",
		"openai.base_url":     "OPENAI_BASE_URL",
		"openai.organization": "OPENAI_ORGANIZATION",
	} {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	s.OpenAI.APIKey = strings.TrimSpace(s.OpenAI.APIKey)

	if err := validator.New().Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &s, nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.organization", "")
	v.SetDefault("openai.timeout", "30s")
	v.SetDefault("openai.max_retries", 3)

	v.SetDefault("generation.max_tokens", 1500)
	v.SetDefault("generation.specs_policy", "optional")
	v.SetDefault("generation.system_prompt", "")

	v.SetDefault("prompts.path", "config/prompts.yaml")

	v.SetDefault("export.dir", "output")
	v.SetDefault("export.link", "list1.md")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.rate_limit", 1.0)
	v.SetDefault("server.burst", 5)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.session_idle", "30m")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.service_name", "prospectfind")
	v.SetDefault("tracing.sample_rate", 1.0)
}
