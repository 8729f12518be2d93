package handle_message

import (
	"context"

	"github.com/m04kA/SMC-RelayBot/internal/domain"
	"github.com/m04kA/SMC-RelayBot/internal/service/telegram/templates"
	"github.com/m04kA/SMC-RelayBot/pkg/metrics"
)

// promptPreviewLen сколько символов запроса попадает в журнал
const promptPreviewLen = 50

// UseCase маршрутизирует входящее сообщение: команды бота или вопрос к модели
type UseCase struct {
	telegramService TelegramService
	completion      CompletionClient
	logger          Logger
	model           string
	metrics         *metrics.Metrics
}

// New создаёт новый use case обработки сообщений
func New(telegramService TelegramService, completion CompletionClient, logger Logger, model string, m *metrics.Metrics) *UseCase {
	return &UseCase{
		telegramService: telegramService,
		completion:      completion,
		logger:          logger,
		model:           model,
		metrics:         m,
	}
}

// Execute обрабатывает сообщение, уже учтённое в счётчиках сессии
// Ошибки не возвращаются: сбой генерации заменяется запасным ответом
func (uc *UseCase) Execute(ctx context.Context, session *domain.Session, msg *domain.InboundMessage) {
	cmd := domain.ParseCommand(msg.Text)
	uc.metrics.IncRelayUpdate(string(cmd.Kind))

	switch cmd.Kind {
	case domain.CommandStart:
		uc.reply(msg.ChatID, templates.WelcomeMessageText)
	case domain.CommandStatus:
		counters := session.Counters()
		uc.reply(msg.ChatID, templates.StatusMessage(counters.MessageCount, counters.UserCount, uc.model))
	default:
		if prompt := cmd.Prompt(); prompt != "" {
			uc.answer(ctx, msg.ChatID, prompt)
		}
	}
}

// answer запрашивает ответ у модели и отправляет его в чат
func (uc *UseCase) answer(ctx context.Context, chatID int64, prompt string) {
	uc.logger.Info("Processing AI request: %s...", preview(prompt))

	answer, err := uc.completion.Ask(ctx, prompt)
	if err != nil {
		uc.logger.Error("AI request failed: %v", err)
		uc.reply(chatID, templates.FallbackMessageText)
		return
	}

	uc.reply(chatID, answer)
	uc.logger.Success("AI response sent successfully")
}

func (uc *UseCase) reply(chatID int64, text string) bool {
	return uc.telegramService.SendMessage(domain.NewTelegramMessage(chatID, text))
}

func preview(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= promptPreviewLen {
		return prompt
	}
	return string(runes[:promptPreviewLen])
}
