package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-RelayBot/pkg/sqlbuilder"
)

// Config представляет полную конфигурацию приложения
type Config struct {
	Logs       LogsConfig       `toml:"logs"`
	Server     ServerConfig     `toml:"server"`
	Storage    StorageConfig    `toml:"storage"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Telegram   TelegramConfig   `toml:"telegram"`
	Completion CompletionConfig `toml:"completion"`
	Relay      RelayConfig      `toml:"relay"`
	Journal    JournalConfig    `toml:"journal"`
}

// LogsConfig содержит настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// ServerConfig содержит настройки HTTP сервера панели управления
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// StorageConfig содержит настройки key-value хранилища (sqlite или postgres)
type StorageConfig struct {
	Driver          string `toml:"driver"`
	DSN             string `toml:"dsn"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // в секундах
}

// MetricsConfig содержит настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// TelegramConfig содержит настройки Telegram Bot API
type TelegramConfig struct {
	BotToken       string `toml:"bot_token"`       // Опционально: сохраняется в хранилище при старте
	APIEndpoint    string `toml:"api_endpoint"`    // Формат tgbotapi: https://api.telegram.org/bot%s/%s
	RequestTimeout int    `toml:"request_timeout"` // в секундах, должен превышать poll_timeout
	AutoStart      bool   `toml:"auto_start"`
}

// CompletionConfig содержит настройки сервиса генерации ответов
type CompletionConfig struct {
	BaseURL     string   `toml:"base_url"`
	APIKey      string   `toml:"api_key"`
	Model       string   `toml:"model"`
	Temperature *float64 `toml:"temperature"` // nil - значение по умолчанию, 0 допустим
	MaxTokens   int      `toml:"max_tokens"`
	Timeout     int      `toml:"timeout"` // в секундах, 0 - без таймаута
}

// RelayConfig содержит настройки цикла опроса
type RelayConfig struct {
	PollTimeout    int `toml:"poll_timeout"`     // серверный таймаут getUpdates, в секундах
	PollDelayMs    int `toml:"poll_delay_ms"`    // пауза между запросами
	ErrorBackoffMs int `toml:"error_backoff_ms"` // пауза после ошибки
}

// JournalConfig содержит настройки журнала ретранслятора
type JournalConfig struct {
	Limit             int    `toml:"limit"`
	ExportDir         string `toml:"export_dir"`         // пусто - ежедневная выгрузка отключена
	HeartbeatInterval int    `toml:"heartbeat_interval"` // в секундах, 0 - отключено
}

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1000
	defaultModel       = "gpt-4o-mini"
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultSQLiteDSN   = "./data/relay.db"
)

// PollDelay пауза между успешными запросами
func (r RelayConfig) PollDelay() time.Duration {
	return time.Duration(r.PollDelayMs) * time.Millisecond
}

// ErrorBackoff пауза после ошибки запроса
func (r RelayConfig) ErrorBackoff() time.Duration {
	return time.Duration(r.ErrorBackoffMs) * time.Millisecond
}

// Load загружает конфигурацию из TOML файла с поддержкой переменных окружения
func Load(path string) (*Config, error) {
	var cfg Config

	// Читаем TOML файл
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode TOML config: %w", err)
	}

	// Переопределяем значения из переменных окружения (если они установлены)
	overrideFromEnv(&cfg)

	// Валидация конфигурации
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// overrideFromEnv переопределяет значения из переменных окружения
func overrideFromEnv(cfg *Config) {
	// Storage
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}

	// Server
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.HTTPPort = port
		}
	}

	// Logs
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logs.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Logs.File = v
	}

	// Metrics
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
	if v := os.Getenv("METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}
	if v := os.Getenv("METRICS_SERVICE_NAME"); v != "" {
		cfg.Metrics.ServiceName = v
	}

	// Telegram
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_API_ENDPOINT"); v != "" {
		cfg.Telegram.APIEndpoint = v
	}
	if v := os.Getenv("TELEGRAM_AUTO_START"); v != "" {
		if autoStart, err := strconv.ParseBool(v); err == nil {
			cfg.Telegram.AutoStart = autoStart
		}
	}

	// Completion
	if v := os.Getenv("COMPLETION_BASE_URL"); v != "" {
		cfg.Completion.BaseURL = v
	}
	if v := os.Getenv("COMPLETION_API_KEY"); v != "" {
		cfg.Completion.APIKey = v
	}
	if v := os.Getenv("COMPLETION_MODEL"); v != "" {
		cfg.Completion.Model = v
	}
	if v := os.Getenv("COMPLETION_TIMEOUT"); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.Completion.Timeout = timeout
		}
	}

	// Journal
	if v := os.Getenv("JOURNAL_EXPORT_DIR"); v != "" {
		cfg.Journal.ExportDir = v
	}
}

// validate проверяет корректность конфигурации и заполняет значения по умолчанию
func validate(cfg *Config) error {
	// Server validation
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.HTTPPort < 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("HTTP port must be between 1 and 65535")
	}

	// Logs defaults
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
	if cfg.Logs.File == "" {
		cfg.Logs.File = "./logs/app.log"
	}

	// Set defaults for timeouts if not specified
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		// Старт бота ждёт ответа getMe, поэтому запас больше, чем у чтения
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}

	// Storage validation and defaults
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = sqlbuilder.DriverSQLite
	}
	if !sqlbuilder.IsSupported(cfg.Storage.Driver) {
		return fmt.Errorf("storage driver must be %q or %q, got %q",
			sqlbuilder.DriverSQLite, sqlbuilder.DriverPostgres, cfg.Storage.Driver)
	}
	if cfg.Storage.DSN == "" {
		if cfg.Storage.Driver == sqlbuilder.DriverPostgres {
			return fmt.Errorf("storage dsn is required for postgres")
		}
		cfg.Storage.DSN = defaultSQLiteDSN
	}
	if cfg.Storage.MaxOpenConns == 0 {
		if cfg.Storage.Driver == sqlbuilder.DriverSQLite {
			cfg.Storage.MaxOpenConns = 1 // SQLite допускает одного писателя
		} else {
			cfg.Storage.MaxOpenConns = 10
		}
	}
	if cfg.Storage.MaxIdleConns == 0 {
		cfg.Storage.MaxIdleConns = 1
	}
	if cfg.Storage.ConnMaxLifetime == 0 {
		cfg.Storage.ConnMaxLifetime = 300 // 5 minutes
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "relaybot"
	}

	// Relay defaults
	if cfg.Relay.PollTimeout == 0 {
		cfg.Relay.PollTimeout = 30
	}
	if cfg.Relay.PollTimeout < 0 {
		return fmt.Errorf("relay poll_timeout must not be negative")
	}
	if cfg.Relay.PollDelayMs == 0 {
		cfg.Relay.PollDelayMs = 1000
	}
	if cfg.Relay.ErrorBackoffMs == 0 {
		cfg.Relay.ErrorBackoffMs = 5000
	}
	if cfg.Relay.PollDelayMs < 0 || cfg.Relay.ErrorBackoffMs < 0 {
		return fmt.Errorf("relay delays must not be negative")
	}

	// Telegram defaults
	if cfg.Telegram.RequestTimeout == 0 {
		cfg.Telegram.RequestTimeout = cfg.Relay.PollTimeout + 15
	}
	if cfg.Telegram.RequestTimeout <= cfg.Relay.PollTimeout {
		return fmt.Errorf("telegram request_timeout (%ds) must exceed relay poll_timeout (%ds)",
			cfg.Telegram.RequestTimeout, cfg.Relay.PollTimeout)
	}

	// Completion validation and defaults
	if cfg.Completion.APIKey == "" {
		return fmt.Errorf("completion api key is required")
	}
	if cfg.Completion.BaseURL == "" {
		cfg.Completion.BaseURL = defaultBaseURL
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = defaultModel
	}
	if cfg.Completion.Temperature == nil {
		t := defaultTemperature
		cfg.Completion.Temperature = &t
	}
	if *cfg.Completion.Temperature < 0 || *cfg.Completion.Temperature > 2 {
		return fmt.Errorf("completion temperature must be between 0 and 2")
	}
	if cfg.Completion.MaxTokens == 0 {
		cfg.Completion.MaxTokens = defaultMaxTokens
	}
	if cfg.Completion.MaxTokens < 0 {
		return fmt.Errorf("completion max_tokens must be positive")
	}

	// Journal defaults
	if cfg.Journal.Limit == 0 {
		cfg.Journal.Limit = 1000
	}

	return nil
}
