package export_logs

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-RelayBot/internal/api/handlers"
	"github.com/m04kA/SMC-RelayBot/internal/service/journal"
)

// Journal журнал ретранслятора
type Journal interface {
	Export(w io.Writer) error
	Success(format string, v ...interface{})
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}

type Handler struct {
	journal Journal
	logger  Logger
	now     func() time.Time
}

func NewHandler(j Journal, logger Logger) *Handler {
	return &Handler{
		journal: j,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle отдаёт журнал текстовым файлом relay_logs_<дата>.txt
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.journal.Export(&buf); err != nil {
		h.logger.Error("Failed to export logs: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", journal.ExportFileName(h.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())

	h.journal.Success("Logs exported")
}
