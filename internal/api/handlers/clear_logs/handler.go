package clear_logs

import "net/http"

// Journal журнал ретранслятора
type Journal interface {
	Clear()
}

type Handler struct {
	journal Journal
}

func NewHandler(journal Journal) *Handler {
	return &Handler{journal: journal}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.journal.Clear()
	w.WriteHeader(http.StatusNoContent)
}
