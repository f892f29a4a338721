package config

// Config holds all application configuration.
// It is constructed once at startup, validated, and passed by reference to
// every component; nothing reads ambient environment state after load.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Places   PlacesConfig   `mapstructure:"places" validate:"required"`
	Job      JobConfig      `mapstructure:"job" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig holds the credential that protects the generation job
// endpoints. The jobs are triggered by a scheduler, not by end users, so a
// single static service key stands in for per-user authentication.
type AuthConfig struct {
	ServiceKey string `mapstructure:"service_key" validate:"required,min=16"`
}

// LLMConfig contains all settings for the text generation backend.
type LLMConfig struct {
	GeminiAPIKey    string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName       string `mapstructure:"model_name" validate:"required"`
	MaxOutputTokens int    `mapstructure:"max_output_tokens" validate:"required,gt=0"`
}

// PlacesConfig contains all settings for the place resolution chain.
type PlacesConfig struct {
	APIKey          string `mapstructure:"api_key" validate:"required"`
	Language        string `mapstructure:"language" validate:"required"`
	DefaultTimezone string `mapstructure:"default_timezone" validate:"required"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// JobConfig contains the tunables of the two generation jobs.
type JobConfig struct {
	// BatchSize bounds how many generation calls the horoscope job has in
	// flight at once.
	BatchSize int `mapstructure:"batch_size" validate:"required,gt=0"`

	// RetentionDays is the horizon of the retention sweep; horoscopes dated
	// before today minus this many days are deleted after a run.
	RetentionDays int `mapstructure:"retention_days" validate:"required,gt=0"`

	// InterCallDelayMs is the fixed pause the content job inserts between
	// sequential generation calls to stay under the upstream rate limit.
	InterCallDelayMs int `mapstructure:"inter_call_delay_ms" validate:"gte=0"`
}
