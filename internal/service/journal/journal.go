package journal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/m04kA/SMC-RelayBot/internal/domain"
)

const (
	// DefaultLimit максимальное количество записей, хранимых в памяти
	DefaultLimit = 1000

	exportTimeLayout = "15:04:05"
	exportFilePrefix = "relay_logs_"
)

// Journal приёмник записей и снимков состояния ретранслятора
// Хранит последние записи и последний опубликованный снимок
type Journal struct {
	mu      sync.RWMutex
	records []domain.LogRecord
	limit   int
	status  domain.StatusSnapshot
	logger  Logger
	now     func() time.Time
}

// New создает журнал; limit <= 0 означает DefaultLimit
func New(limit int, logger Logger) *Journal {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Journal{
		records: make([]domain.LogRecord, 0, 64),
		limit:   limit,
		status:  domain.StatusSnapshot{State: domain.RelayStopped.String()},
		logger:  logger,
		now:     time.Now,
	}
}

func (j *Journal) Info(format string, v ...interface{}) {
	j.append(domain.SeverityInfo, fmt.Sprintf(format, v...))
}

func (j *Journal) Success(format string, v ...interface{}) {
	j.append(domain.SeveritySuccess, fmt.Sprintf(format, v...))
}

func (j *Journal) Warn(format string, v ...interface{}) {
	j.append(domain.SeverityWarn, fmt.Sprintf(format, v...))
}

func (j *Journal) Error(format string, v ...interface{}) {
	j.append(domain.SeverityError, fmt.Sprintf(format, v...))
}

func (j *Journal) append(severity domain.Severity, message string) {
	record := domain.LogRecord{
		Timestamp: j.now(),
		Message:   message,
		Severity:  severity,
	}

	j.mu.Lock()
	if len(j.records) >= j.limit {
		// Сдвигаем окно, отбрасывая самые старые записи
		copy(j.records, j.records[len(j.records)-j.limit+1:])
		j.records = j.records[:j.limit-1]
	}
	j.records = append(j.records, record)
	j.mu.Unlock()

	if j.logger == nil {
		return
	}
	switch severity {
	case domain.SeverityError:
		j.logger.Error("%s", message)
	case domain.SeverityWarn:
		j.logger.Warn("%s", message)
	default:
		j.logger.Info("%s", message)
	}
}

// Records возвращает копию записей в порядке поступления
func (j *Journal) Records() []domain.LogRecord {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]domain.LogRecord, len(j.records))
	copy(out, j.records)
	return out
}

// Clear очищает журнал
func (j *Journal) Clear() {
	j.mu.Lock()
	j.records = j.records[:0]
	j.mu.Unlock()

	j.Info("Terminal cleared")
}

// PublishStatus сохраняет последний снимок состояния
func (j *Journal) PublishStatus(snapshot domain.StatusSnapshot) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = snapshot
}

// Status возвращает последний опубликованный снимок
func (j *Journal) Status() domain.StatusSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// Export пишет журнал в текстовом виде: "[15:04:05] message" построчно
func (j *Journal) Export(w io.Writer) error {
	return writeRecords(w, j.Records())
}

// ExportFileName имя файла выгрузки по дате (UTC)
func ExportFileName(at time.Time) string {
	return exportFilePrefix + at.UTC().Format("2006-01-02") + ".txt"
}

// ExportDayToDir сохраняет в каталог записи за сутки (UTC), содержащие day,
// и возвращает путь к файлу
func (j *Journal) ExportDayToDir(dir string, day time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create dir %s: %v", ErrExport, dir, err)
	}

	path := filepath.Join(dir, ExportFileName(day))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: create file %s: %v", ErrExport, path, err)
	}
	defer file.Close()

	if err := writeRecords(file, j.RecordsForDay(day)); err != nil {
		return "", err
	}

	j.Success("Logs exported")
	return path, nil
}

// RecordsForDay записи за сутки (UTC), содержащие day
func (j *Journal) RecordsForDay(day time.Time) []domain.LogRecord {
	day = day.UTC()
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	var out []domain.LogRecord
	for _, record := range j.Records() {
		ts := record.Timestamp.UTC()
		if !ts.Before(from) && ts.Before(to) {
			out = append(out, record)
		}
	}
	return out
}

func writeRecords(w io.Writer, records []domain.LogRecord) error {
	buf := bufio.NewWriter(w)
	for _, record := range records {
		if _, err := fmt.Fprintf(buf, "[%s] %s\n", record.Timestamp.Format(exportTimeLayout), record.Message); err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}
