package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/m04kA/SMC-RelayBot/pkg/metrics"
)

// Options параметры клиента сервиса генерации
type Options struct {
	BaseURL     string // Базовый URL OpenAI-совместимого API, запрос идёт на <BaseURL>/chat/completions
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration // 0 - таймаут транспорта по умолчанию
}

// Client клиент chat completion API
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	metrics     *metrics.Metrics
}

// NewClient создает новый экземпляр клиента
func NewClient(opts Options, m *metrics.Metrics) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}

	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		metrics:     m,
	}
}

// Model имя модели, с которой работает клиент
func (c *Client) Model() string {
	return c.model
}

// Ask отправляет один вопрос пользователя и возвращает текст ответа
// Повторов нет: при ошибке вызывающий отправляет запасной ответ
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	answer, err := c.ask(ctx, prompt)
	if err != nil {
		c.metrics.ObserveCompletion("error", time.Since(start))
		return "", err
	}

	c.metrics.ObserveCompletion("ok", time.Since(start))
	return answer, nil
}

func (c *Client) ask(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: API error: %d", ErrAPI, apiErr.HTTPStatusCode)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", fmt.Errorf("%w: API error: %d", ErrAPI, reqErr.HTTPStatusCode)
		}
		return "", fmt.Errorf("%w: %v", ErrAPI, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrInvalidResponse)
	}

	answer := resp.Choices[0].Message.Content
	if answer == "" {
		return "", fmt.Errorf("%w: empty message content", ErrInvalidResponse)
	}

	return answer, nil
}
