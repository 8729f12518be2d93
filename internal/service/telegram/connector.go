package telegram

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotConnector создает клиентов tgbotapi для заданного endpoint
type BotConnector struct {
	endpoint string
	client   *http.Client
}

// NewBotConnector создает коннектор
// endpoint в формате tgbotapi ("https://api.telegram.org/bot%s/%s"), пустой - официальный API
// timeout должен превышать таймаут long polling, иначе getUpdates будет обрываться
func NewBotConnector(endpoint string, timeout time.Duration) *BotConnector {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	return &BotConnector{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Connect выполняет getMe и возвращает бота и его username
func (c *BotConnector) Connect(token string) (BotAPI, string, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, c.endpoint, c.client)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	bot.Debug = false

	return bot, bot.Self.UserName, nil
}
