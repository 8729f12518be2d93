package start_bot

import (
	"net/http"

	"github.com/m04kA/SMC-RelayBot/internal/api/handlers"
)

type Handler struct {
	relay  Relay
	tokens TokenSource
}

func NewHandler(relay Relay, tokens TokenSource) *Handler {
	return &Handler{
		relay:  relay,
		tokens: tokens,
	}
}

// Handle запускает ретранслятор и возвращает его состояние
// Ошибка аутентификации видна по состоянию и в журнале, а не по коду ответа
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.relay.Start(h.tokens.Token())
	handlers.RespondJSON(w, http.StatusAccepted, h.relay.Snapshot())
}
