package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables with the GLOW_ prefix
// (e.g. GLOW_DATABASE_URL, GLOW_LLM_GEMINI_API_KEY), applies defaults, and
// validates the result. Missing required credentials are a load error, which
// callers treat as a fatal startup condition rather than a per-request error.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults for everything that is not a credential.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("llm.model_name", "gemini-2.5-flash")
	v.SetDefault("llm.max_output_tokens", 512)
	v.SetDefault("places.language", "de")
	v.SetDefault("places.default_timezone", "UTC")
	v.SetDefault("places.timeout_seconds", 10)
	v.SetDefault("job.batch_size", 5)
	v.SetDefault("job.retention_days", 7)
	v.SetDefault("job.inter_call_delay_ms", 500)

	v.SetEnvPrefix("GLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys through Unmarshal,
	// so bind each key explicitly.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"database.url",
		"auth.service_key",
		"llm.gemini_api_key",
		"llm.model_name",
		"llm.max_output_tokens",
		"places.api_key",
		"places.language",
		"places.default_timezone",
		"places.timeout_seconds",
		"job.batch_size",
		"job.retention_days",
		"job.inter_call_delay_ms",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
