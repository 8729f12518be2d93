package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// BotAPI интерфейс для Telegram Bot API
// Абстракция над tgbotapi.BotAPI для упрощения тестирования
type BotAPI interface {
	// Send отправляет сообщение через Telegram Bot API
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)

	// GetUpdates запрашивает обновления начиная с offset (long polling)
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// Connector проверяет токен (getMe) и возвращает клиента, привязанного к нему
type Connector interface {
	Connect(token string) (BotAPI, string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
