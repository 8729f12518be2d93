package botconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/m04kA/SMC-RelayBot/internal/domain"
	"github.com/m04kA/SMC-RelayBot/internal/infra/storage/kvstore"
)

// Service хранит токен бота: в памяти и в key-value хранилище
// После любого Load/Save/Clear оба значения совпадают
type Service struct {
	repo   Repository
	relay  Stopper
	logger Logger

	mu    sync.RWMutex
	token string
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(repo Repository, relay Stopper, logger Logger) *Service {
	return &Service{
		repo:   repo,
		relay:  relay,
		logger: logger,
	}
}

// Load читает сохранённую конфигурацию
// Отсутствующая или повреждённая запись даёт (nil, false) без ошибки
func (s *Service) Load(ctx context.Context) (*domain.Configuration, bool) {
	raw, err := s.repo.Get(ctx, domain.ConfigKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("Failed to read configuration: %v", err)
		return nil, false
	}

	var cfg domain.Configuration
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		s.logger.Warn("Stored configuration is malformed: %v", err)
		return nil, false
	}

	s.setToken(cfg.BotToken)
	s.logger.Success("Configuration loaded from storage")

	return &cfg, true
}

// Save сохраняет токен бота
func (s *Service) Save(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		s.logger.Error("Please enter a valid bot token")
		return ErrValidation
	}

	raw, err := json.Marshal(domain.Configuration{BotToken: token})
	if err != nil {
		return fmt.Errorf("%w: marshal configuration: %v", ErrStorage, err)
	}

	if err := s.repo.Set(ctx, domain.ConfigKey, string(raw)); err != nil {
		s.logger.Error("Failed to save configuration: %v", err)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.setToken(token)
	s.logger.Success("Configuration saved")

	return nil
}

// Clear удаляет конфигурацию и останавливает ретранслятор
// Если запись удалить не удалось, токен в памяти остаётся таким же, как в хранилище
func (s *Service) Clear(ctx context.Context) {
	s.relay.Stop()

	if err := s.repo.Delete(ctx, domain.ConfigKey); err != nil {
		s.logger.Error("Failed to clear configuration, bot token is still stored: %v", err)
		return
	}

	s.setToken("")
	s.logger.Info("All configuration cleared")
}

// Token текущий токен в памяти
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Current текущая конфигурация
func (s *Service) Current() *domain.Configuration {
	return &domain.Configuration{BotToken: s.Token()}
}

func (s *Service) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}
