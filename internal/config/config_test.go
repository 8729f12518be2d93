package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[completion]
api_key = "sk-test"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "./data/relay.db", cfg.Storage.DSN)
	assert.Equal(t, 1, cfg.Storage.MaxOpenConns)
	assert.Equal(t, 30, cfg.Relay.PollTimeout)
	assert.Equal(t, time.Second, cfg.Relay.PollDelay())
	assert.Equal(t, 5*time.Second, cfg.Relay.ErrorBackoff())
	assert.Equal(t, 45, cfg.Telegram.RequestTimeout)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Completion.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.Completion.Model)
	require.NotNil(t, cfg.Completion.Temperature)
	assert.InDelta(t, 0.7, *cfg.Completion.Temperature, 1e-9)
	assert.Equal(t, 1000, cfg.Completion.MaxTokens)
	assert.Equal(t, 1000, cfg.Journal.Limit)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_ExplicitZeroTemperature(t *testing.T) {
	path := writeConfig(t, `
[completion]
api_key = "sk-test"
temperature = 0.0
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, *cfg.Completion.Temperature)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9000

[storage]
driver = "sqlite"

[completion]
api_key = "from-file"
`)

	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("COMPLETION_API_KEY", "from-env")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:env")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("STORAGE_DSN", "postgres://relay@localhost/relay?sslmode=disable")
	t.Setenv("TELEGRAM_AUTO_START", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.HTTPPort)
	assert.Equal(t, "from-env", cfg.Completion.APIKey)
	assert.Equal(t, "123:env", cfg.Telegram.BotToken)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 10, cfg.Storage.MaxOpenConns)
	assert.True(t, cfg.Telegram.AutoStart)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing api key", content: `[server]
http_port = 8080`},
		{name: "unknown driver", content: `[storage]
driver = "mysql"
[completion]
api_key = "k"`},
		{name: "postgres without dsn", content: `[storage]
driver = "postgres"
[completion]
api_key = "k"`},
		{name: "request timeout below poll timeout", content: `[telegram]
request_timeout = 10
[relay]
poll_timeout = 30
[completion]
api_key = "k"`},
		{name: "temperature out of range", content: `[completion]
api_key = "k"
temperature = 3.5`},
		{name: "bad port", content: `[server]
http_port = 70000
[completion]
api_key = "k"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
