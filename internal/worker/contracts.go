package worker

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-RelayBot/internal/domain"
)

// TelegramService интерфейс для работы с Telegram Bot API
type TelegramService interface {
	// Authenticate проверяет токен (getMe) и возвращает username бота
	Authenticate(token string) (string, error)

	// GetUpdates получает обновления начиная с offset (long polling)
	GetUpdates(offset, timeout int) ([]tgbotapi.Update, error)
}

// MessageHandler обработчик входящего сообщения (команды и вопросы к модели)
type MessageHandler interface {
	Execute(ctx context.Context, session *domain.Session, msg *domain.InboundMessage)
}

// Sink приёмник записей журнала и снимков состояния
type Sink interface {
	Info(format string, v ...interface{})
	Success(format string, v ...interface{})
	Error(format string, v ...interface{})
	PublishStatus(snapshot domain.StatusSnapshot)
}

// JournalExporter выгрузка записей журнала за сутки в файл
type JournalExporter interface {
	ExportDayToDir(dir string, day time.Time) (string, error)
}

// StatusPublisher публикует актуальный снимок состояния
type StatusPublisher interface {
	PublishStatus()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
