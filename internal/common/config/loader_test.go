// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
telegram:
  token: test-token
gemini:
  api_key: test-key
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Telegram.Token)
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, 30, cfg.Telegram.UpdateTimeout)
	assert.Equal(t, 4096, cfg.Telegram.MaxMessageSize)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "https://chainx-beta.vercel.app/api", cfg.DataSource.BaseURL)
	assert.Equal(t, 20000, cfg.DataSource.Timeout)
	assert.Equal(t, cfg.Gemini.Timeout, cfg.Pipeline.ResolveTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestLoadFromFile_MissingSecretsFail(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing telegram token",
			content: `
gemini:
  api_key: test-key
`,
		},
		{
			name: "missing gemini key",
			content: `
telegram:
  token: test-token
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_TOKEN", "")
			t.Setenv("GEMINI_API_KEY", "")
			path := writeConfigFile(t, tt.content)

			_, err := LoadFromFile(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile_EnvOverridesEmptySecrets(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "env-token")
	t.Setenv("GEMINI_API_KEY", "env-key")

	path := writeConfigFile(t, `
logging:
  level: debug
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.Token)
	assert.Equal(t, "env-key", cfg.Gemini.APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 30*time.Second, GetDuration(30000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
