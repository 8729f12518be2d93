package botconfig

import "context"

// Repository key-value хранилище
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Stopper ретранслятор, который нужно остановить при очистке конфигурации
type Stopper interface {
	Stop()
}

// Logger журнал ретранслятора
type Logger interface {
	Info(format string, v ...interface{})
	Success(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
