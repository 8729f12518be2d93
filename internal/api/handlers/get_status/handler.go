package get_status

import (
	"net/http"

	"github.com/m04kA/SMC-RelayBot/internal/api/handlers"
	"github.com/m04kA/SMC-RelayBot/internal/domain"
)

// StatusSource последний опубликованный снимок состояния
type StatusSource interface {
	Status() domain.StatusSnapshot
}

type Handler struct {
	source StatusSource
}

func NewHandler(source StatusSource) *Handler {
	return &Handler{source: source}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.source.Status())
}
