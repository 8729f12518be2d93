package stop_bot

import (
	"net/http"

	"github.com/m04kA/SMC-RelayBot/internal/api/handlers"
	"github.com/m04kA/SMC-RelayBot/internal/domain"
)

// Relay интерфейс ретранслятора
type Relay interface {
	Stop()
	Snapshot() domain.StatusSnapshot
}

type Handler struct {
	relay Relay
}

func NewHandler(relay Relay) *Handler {
	return &Handler{relay: relay}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.relay.Stop()
	handlers.RespondJSON(w, http.StatusAccepted, h.relay.Snapshot())
}
