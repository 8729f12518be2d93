package telegram

import (
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-RelayBot/internal/domain"
	"github.com/m04kA/SMC-RelayBot/pkg/metrics"
)

// Service сервис для работы с Telegram Bot API от имени текущего токена
type Service struct {
	connector Connector
	logger    Logger
	metrics   *metrics.Metrics

	mu  sync.RWMutex
	bot BotAPI
}

// NewService создает новый экземпляр Telegram сервиса
func NewService(connector Connector, logger Logger, m *metrics.Metrics) *Service {
	return &Service{
		connector: connector,
		logger:    logger,
		metrics:   m,
	}
}

// Authenticate проверяет токен через getMe и привязывает сервис к новому боту
func (s *Service) Authenticate(token string) (string, error) {
	bot, username, err := s.connector.Connect(token)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.bot = bot
	s.mu.Unlock()

	return username, nil
}

// GetUpdates получает обновления начиная с offset с серверным таймаутом long polling
func (s *Service) GetUpdates(offset, timeout int) ([]tgbotapi.Update, error) {
	bot := s.current()
	if bot == nil {
		return nil, ErrNotAuthenticated
	}

	cfg := tgbotapi.NewUpdate(offset)
	cfg.Timeout = timeout

	updates, err := bot.GetUpdates(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGetUpdates, err)
	}

	return updates, nil
}

// SendMessage отправляет сообщение в чат
// Доставка best-effort: ошибка логируется, вызывающий получает только false
func (s *Service) SendMessage(msg *domain.TelegramMessage) bool {
	if err := s.send(msg); err != nil {
		s.metrics.IncTelegramSend("error")
		s.logger.Error("Send message failed: %v", err)
		return false
	}

	s.metrics.IncTelegramSend("ok")
	return true
}

func (s *Service) send(msg *domain.TelegramMessage) error {
	if msg == nil || msg.ChatID == 0 {
		return ErrInvalidChatID
	}

	if msg.MessageText == "" {
		return ErrEmptyMessage
	}

	bot := s.current()
	if bot == nil {
		return ErrNotAuthenticated
	}

	tgMsg := tgbotapi.NewMessage(msg.ChatID, msg.MessageText)
	tgMsg.ParseMode = msg.ParseMode

	if _, err := bot.Send(tgMsg); err != nil {
		return fmt.Errorf("%w: %v", ErrSendMessage, err)
	}

	return nil
}

func (s *Service) current() BotAPI {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bot
}
