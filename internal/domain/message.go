package domain

import "strconv"

// InboundMessage входящее сообщение, извлечённое из Telegram update
type InboundMessage struct {
	UpdateID int
	ChatID   int64
	UserID   int64
	Username string
	Text     string
}

// DisplayName возвращает имя для логов: username или User_<id>
func (m *InboundMessage) DisplayName() string {
	if m.Username != "" {
		return m.Username
	}
	return "User_" + strconv.FormatInt(m.UserID, 10)
}
