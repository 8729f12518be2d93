package templates

import "fmt"

const (
	// WelcomeMessageText приветственное сообщение для /start и /help
	WelcomeMessageText = "👋 Hello! I'm an *AI assistant* bot.\n\n" +
		"Available commands:\n" +
		"/ask [question] - Ask me anything\n" +
		"/status - Check bot status\n" +
		"/help - Show this message\n\n" +
		"You can also just send me a message."

	// FallbackMessageText ответ, когда сервис генерации недоступен
	FallbackMessageText = "⚠️ *System Error*\n" +
		"The AI service is currently unavailable.\n\n" +
		"I cannot process your request at the moment. Try again later."
)

// StatusMessage возвращает ответ на /status по текущим счётчикам сессии
func StatusMessage(messageCount uint64, userCount int, model string) string {
	return fmt.Sprintf("⚡ *Bot Status*\n"+
		"Messages: %d\n"+
		"Users: %d\n"+
		"Model: %s\n"+
		"Status: ONLINE ✅", messageCount, userCount, model)
}
