package completion

import "errors"

var (
	// ErrAPI возвращается при сетевой ошибке или не-2xx ответе сервиса генерации
	ErrAPI = errors.New("integrations.completion: API request failed")

	// ErrInvalidResponse возвращается, если в ответе нет текста ответа
	ErrInvalidResponse = errors.New("integrations.completion: invalid response")
)
