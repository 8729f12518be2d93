package worker

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth возвращается, когда ретранслятор не смог пройти аутентификацию в Telegram
	ErrAuth = errors.New("worker.relay: authentication failed")

	// ErrTokenNotConfigured токен бота не задан
	ErrTokenNotConfigured = fmt.Errorf("%w: bot token not configured", ErrAuth)

	// ErrTransientPoll ошибка получения обновлений, после которой цикл продолжает работу
	ErrTransientPoll = errors.New("worker.relay: transient poll error")
)
