package clear_config

import (
	"context"
	"net/http"
)

// ConfigService интерфейс сервиса конфигурации бота
type ConfigService interface {
	Clear(ctx context.Context)
}

type Handler struct {
	service ConfigService
}

func NewHandler(service ConfigService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.service.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
