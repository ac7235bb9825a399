// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	DataSource DataSourceConfig `mapstructure:"data_source"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// TelegramConfig holds the chat front-end settings. Token is a required
// secret; startup fails without it.
type TelegramConfig struct {
	Token          string `mapstructure:"token"`
	UpdateTimeout  int    `mapstructure:"update_timeout"` // seconds, long-poll window
	MaxMessageSize int    `mapstructure:"max_message_size"`
}

// GeminiConfig holds the inference service settings. APIKey is a required
// secret; startup fails without it.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// DataSourceConfig holds the upstream REST API settings.
type DataSourceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// PipelineConfig holds per-stage timeouts.
type PipelineConfig struct {
	ResolveTimeout int `mapstructure:"resolve_timeout"` // milliseconds
	ExtractTimeout int `mapstructure:"extract_timeout"` // milliseconds
	ChatTimeout    int `mapstructure:"chat_timeout"`    // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}
