package telegram

import "errors"

var (
	// ErrAuth возвращается, когда Telegram отклонил токен или недоступен при проверке
	ErrAuth = errors.New("service.telegram: authentication failed")

	// ErrNotAuthenticated возвращается при обращении к API до успешной аутентификации
	ErrNotAuthenticated = errors.New("service.telegram: bot is not authenticated")

	// ErrGetUpdates возвращается при ошибке получения обновлений
	ErrGetUpdates = errors.New("service.telegram: failed to get updates")

	// ErrSendMessage возвращается при ошибке отправки сообщения
	ErrSendMessage = errors.New("service.telegram: failed to send message")

	// ErrInvalidChatID возвращается при некорректном chat_id
	ErrInvalidChatID = errors.New("service.telegram: invalid chat_id")

	// ErrEmptyMessage возвращается при пустом тексте сообщения
	ErrEmptyMessage = errors.New("service.telegram: message text is empty")
)
