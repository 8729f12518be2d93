package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-RelayBot/internal/api/handlers"
	"github.com/m04kA/SMC-RelayBot/internal/domain"
)

const pingTimeout = 2 * time.Second

// Pinger проверка доступности хранилища
type Pinger interface {
	PingContext(ctx context.Context) error
}

// StateProvider состояние ретранслятора
type StateProvider interface {
	State() domain.RelayState
}

type Handler struct {
	db    Pinger
	relay StateProvider
}

func NewHandler(db Pinger, relay StateProvider) *Handler {
	return &Handler{
		db:    db,
		relay: relay,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	response := map[string]string{
		"status":  "healthy",
		"storage": "ok",
		"relay":   h.relay.State().String(),
	}

	if err := h.db.PingContext(ctx); err != nil {
		response["status"] = "unhealthy"
		response["storage"] = err.Error()
		handlers.RespondJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, response)
}
