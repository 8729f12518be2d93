package list_logs

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-RelayBot/internal/api/handlers"
	"github.com/m04kA/SMC-RelayBot/internal/domain"
)

const msgInvalidLimit = "неверное значение limit"

// Journal журнал ретранслятора
type Journal interface {
	Records() []domain.LogRecord
}

// Response список записей журнала
type Response struct {
	Records []domain.LogRecord `json:"records"`
	Total   int                `json:"total"`
}

type Handler struct {
	journal Journal
}

func NewHandler(journal Journal) *Handler {
	return &Handler{journal: journal}
}

// Handle отдаёт записи журнала; ?limit=N оставляет N последних
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	records := h.journal.Records()
	total := len(records)

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		if limit < len(records) {
			records = records[len(records)-limit:]
		}
	}

	handlers.RespondJSON(w, http.StatusOK, Response{
		Records: records,
		Total:   total,
	})
}
