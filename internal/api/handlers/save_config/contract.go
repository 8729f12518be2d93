package save_config

import "context"

// ConfigService интерфейс сервиса конфигурации бота
type ConfigService interface {
	Save(ctx context.Context, token string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
