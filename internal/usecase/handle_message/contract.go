package handle_message

import (
	"context"

	"github.com/m04kA/SMC-RelayBot/internal/domain"
)

// TelegramService интерфейс для отправки ответов в Telegram
type TelegramService interface {
	SendMessage(msg *domain.TelegramMessage) bool
}

// CompletionClient интерфейс для сервиса генерации ответов
type CompletionClient interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Logger журнал ретранслятора
type Logger interface {
	Info(format string, v ...interface{})
	Success(format string, v ...interface{})
	Error(format string, v ...interface{})
}
