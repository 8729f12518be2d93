package worker

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler планировщик фоновых задач ретранслятора:
// ежедневная выгрузка журнала и периодическая публикация состояния
type Scheduler struct {
	exporter  JournalExporter
	publisher StatusPublisher
	logger    Logger
	scheduler *gocron.Scheduler
	exportDir string
	heartbeat time.Duration
	now       func() time.Time
}

// NewScheduler создает новый экземпляр планировщика
// Пустой exportDir отключает выгрузку, heartbeat <= 0 отключает публикацию состояния
func NewScheduler(exporter JournalExporter, publisher StatusPublisher, logger Logger, exportDir string, heartbeat time.Duration) *Scheduler {
	return &Scheduler{
		exporter:  exporter,
		publisher: publisher,
		logger:    logger,
		scheduler: gocron.NewScheduler(time.UTC),
		exportDir: exportDir,
		heartbeat: heartbeat,
		now:       time.Now,
	}
}

// Start регистрирует задачи и запускает планировщик
func (s *Scheduler) Start() error {
	s.logger.Info("Starting relay scheduler")

	if s.exportDir != "" {
		if _, err := s.scheduler.Every(1).Day().At("00:00").Do(s.exportJournal); err != nil {
			return fmt.Errorf("failed to schedule journal export: %w", err)
		}
		s.logger.Info("Scheduled daily journal export to %s", s.exportDir)
	}

	if s.heartbeat > 0 {
		if _, err := s.scheduler.Every(s.heartbeat).Do(s.publisher.PublishStatus); err != nil {
			return fmt.Errorf("failed to schedule status heartbeat: %w", err)
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop останавливает планировщик
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping relay scheduler")
	s.scheduler.Stop()
	s.logger.Info("Relay scheduler stopped")
}

// JobsCount количество зарегистрированных задач
func (s *Scheduler) JobsCount() int {
	return s.scheduler.Len()
}

// exportJournal выгружает журнал за завершившиеся сутки
// Вызывается планировщиком gocron в полночь UTC
func (s *Scheduler) exportJournal() {
	day := s.now().UTC().AddDate(0, 0, -1)

	path, err := s.exporter.ExportDayToDir(s.exportDir, day)
	if err != nil {
		s.logger.Error("Failed to export journal: %v", err)
		return
	}

	s.logger.Info("Journal exported to %s", path)
}
