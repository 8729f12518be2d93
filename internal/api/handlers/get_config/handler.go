package get_config

import (
	"net/http"

	"github.com/m04kA/SMC-RelayBot/internal/api/handlers"
	"github.com/m04kA/SMC-RelayBot/internal/domain"
)

// ConfigService интерфейс сервиса конфигурации бота
type ConfigService interface {
	Current() *domain.Configuration
}

// Response токен никогда не отдаётся целиком
type Response struct {
	Configured bool   `json:"configured"`
	BotToken   string `json:"bot_token"`
}

type Handler struct {
	service ConfigService
}

func NewHandler(service ConfigService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	cfg := h.service.Current()

	handlers.RespondJSON(w, http.StatusOK, Response{
		Configured: cfg.IsConfigured(),
		BotToken:   cfg.MaskedToken(),
	})
}
