package domain

// ParseMode константы для режимов парсинга текста в Telegram
const (
	ParseModeMarkdown = "Markdown" // Markdown форматирование (legacy), им размечены ответы бота
	ParseModePlain    = ""         // Без форматирования
)

// TelegramMessage представляет сообщение для отправки через Telegram Bot API
type TelegramMessage struct {
	ChatID      int64  // ID чата получателя
	MessageText string // Текст сообщения
	ParseMode   string // Режим парсинга (Markdown, Plain)
}

// NewTelegramMessage создает ответ в чат
// По умолчанию использует Markdown, как и ответы модели
func NewTelegramMessage(chatID int64, text string) *TelegramMessage {
	return &TelegramMessage{
		ChatID:      chatID,
		MessageText: text,
		ParseMode:   ParseModeMarkdown,
	}
}

// WithParseMode устанавливает режим парсинга и возвращает сообщение (builder pattern)
func (m *TelegramMessage) WithParseMode(mode string) *TelegramMessage {
	m.ParseMode = mode
	return m
}
