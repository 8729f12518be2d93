package domain

// ConfigKey ключ, под которым конфигурация бота лежит в key-value хранилище
const ConfigKey = "relay_config"

// Configuration сохраняемая конфигурация ретранслятора
type Configuration struct {
	BotToken string `json:"botToken"`
}

// IsConfigured проверяет, что токен задан
func (c *Configuration) IsConfigured() bool {
	return c != nil && c.BotToken != ""
}

// MaskedToken возвращает токен, пригодный для показа в панели управления
func (c *Configuration) MaskedToken() string {
	if !c.IsConfigured() {
		return ""
	}
	return MaskToken(c.BotToken)
}

// MaskToken скрывает всё, кроме последних четырёх символов
func MaskToken(token string) string {
	const visible = 4
	runes := []rune(token)
	if len(runes) <= visible {
		return "****"
	}
	return "****" + string(runes[len(runes)-visible:])
}
