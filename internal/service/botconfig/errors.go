package botconfig

import "errors"

var (
	// ErrValidation возвращается при пустом токене
	ErrValidation = errors.New("service.botconfig: bot token is empty")

	// ErrStorage возвращается при ошибке записи конфигурации в хранилище
	ErrStorage = errors.New("service.botconfig: storage failure")
)
