package start_bot

import "github.com/m04kA/SMC-RelayBot/internal/domain"

// Relay интерфейс ретранслятора
type Relay interface {
	Start(token string)
	Snapshot() domain.StatusSnapshot
}

// TokenSource источник текущего токена бота
type TokenSource interface {
	Token() string
}
