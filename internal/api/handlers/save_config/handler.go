package save_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RelayBot/internal/api/handlers"
	"github.com/m04kA/SMC-RelayBot/internal/service/botconfig"
)

const (
	msgInvalidRequestBody = "неверный формат тела запроса"
	msgEmptyToken         = "токен бота не может быть пустым"
)

// Request тело запроса сохранения конфигурации
type Request struct {
	BotToken string `json:"bot_token"`
}

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("Failed to decode save config request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.Save(r.Context(), req.BotToken); err != nil {
		if errors.Is(err, botconfig.ErrValidation) {
			handlers.RespondBadRequest(w, msgEmptyToken)
			return
		}

		h.logger.Error("Failed to save configuration: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
