// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like TELEGRAM_TOKEN
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig pulls the secrets straight from the environment when the
// YAML left them empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Telegram.Token == "" {
		if val := os.Getenv("TELEGRAM_TOKEN"); val != "" {
			cfg.Telegram.Token = val
		}
	}
	if cfg.Gemini.APIKey == "" {
		if val := os.Getenv("GEMINI_API_KEY"); val != "" {
			cfg.Gemini.APIKey = val
		}
	}
	if cfg.DataSource.BaseURL == "" {
		if val := os.Getenv("DATA_SOURCE_BASE_URL"); val != "" {
			cfg.DataSource.BaseURL = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "chainx-bot"
	}

	if cfg.Telegram.UpdateTimeout == 0 {
		cfg.Telegram.UpdateTimeout = 30
	}
	if cfg.Telegram.MaxMessageSize == 0 {
		cfg.Telegram.MaxMessageSize = 4096
	}

	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-1.5-flash"
	}
	if cfg.Gemini.Timeout == 0 {
		cfg.Gemini.Timeout = 30000
	}

	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://chainx-beta.vercel.app/api"
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 20000
	}

	if cfg.Pipeline.ResolveTimeout == 0 {
		cfg.Pipeline.ResolveTimeout = cfg.Gemini.Timeout
	}
	if cfg.Pipeline.ExtractTimeout == 0 {
		cfg.Pipeline.ExtractTimeout = cfg.Gemini.Timeout
	}
	if cfg.Pipeline.ChatTimeout == 0 {
		cfg.Pipeline.ChatTimeout = cfg.Gemini.Timeout
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
}

// validateConfig validates critical configuration fields. The two secrets are
// required at startup; their absence is a fatal error, not a runtime one.
func validateConfig(cfg *Config) error {
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram.token (TELEGRAM_TOKEN) is required")
	}
	if cfg.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key (GEMINI_API_KEY) is required")
	}
	if cfg.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
