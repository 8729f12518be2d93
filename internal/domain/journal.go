package domain

import "time"

// Severity уровень записи в журнале ретранслятора
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// LogRecord запись журнала, видимая в панели управления
type LogRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
}

// StatusSnapshot снимок состояния ретранслятора
type StatusSnapshot struct {
	Online       bool       `json:"online"`
	State        string     `json:"state"`
	SessionID    string     `json:"session_id"`
	MessageCount uint64     `json:"message_count"`
	UserCount    int        `json:"user_count"`
	LastActive   *time.Time `json:"last_active,omitempty"`
	Model        string     `json:"model"`
}
