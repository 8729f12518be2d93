package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-RelayBot/internal/api/handlers/clear_config"
	"github.com/m04kA/SMC-RelayBot/internal/api/handlers/clear_logs"
	"github.com/m04kA/SMC-RelayBot/internal/api/handlers/export_logs"
	"github.com/m04kA/SMC-RelayBot/internal/api/handlers/get_config"
	"github.com/m04kA/SMC-RelayBot/internal/api/handlers/get_status"
	"github.com/m04kA/SMC-RelayBot/internal/api/handlers/health"
	"github.com/m04kA/SMC-RelayBot/internal/api/handlers/list_logs"
	"github.com/m04kA/SMC-RelayBot/internal/api/handlers/save_config"
	"github.com/m04kA/SMC-RelayBot/internal/api/handlers/start_bot"
	"github.com/m04kA/SMC-RelayBot/internal/api/handlers/stop_bot"
	"github.com/m04kA/SMC-RelayBot/internal/api/middleware"
	"github.com/m04kA/SMC-RelayBot/internal/config"
	"github.com/m04kA/SMC-RelayBot/internal/infra/storage/kvstore"
	"github.com/m04kA/SMC-RelayBot/internal/integrations/completion"
	"github.com/m04kA/SMC-RelayBot/internal/service/botconfig"
	"github.com/m04kA/SMC-RelayBot/internal/service/journal"
	"github.com/m04kA/SMC-RelayBot/internal/service/telegram"
	"github.com/m04kA/SMC-RelayBot/internal/usecase/handle_message"
	"github.com/m04kA/SMC-RelayBot/internal/worker"
	"github.com/m04kA/SMC-RelayBot/pkg/dbmetrics"
	"github.com/m04kA/SMC-RelayBot/pkg/logger"
	"github.com/m04kA/SMC-RelayBot/pkg/metrics"
	"github.com/m04kA/SMC-RelayBot/pkg/sqlbuilder"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-RelayBot...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к хранилищу
	if cfg.Storage.Driver == sqlbuilder.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DSN), 0o755); err != nil {
			log.Fatal("Failed to create storage directory: %v", err)
		}
	}

	db, err := sql.Open(cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Storage.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Storage.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Storage.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping storage: %v", err)
	}
	log.Info("Successfully connected to storage (driver=%s)", cfg.Storage.Driver)

	// Инициализируем repository
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	kvRepo := kvstore.NewRepository(wrappedDB, cfg.Storage.Driver)

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := kvRepo.Migrate(migrateCtx); err != nil {
		cancelMigrate()
		log.Fatal("Failed to migrate storage: %v", err)
	}
	cancelMigrate()

	// Журнал ретранслятора: записи для панели управления дублируются в лог процесса
	relayJournal := journal.New(cfg.Journal.Limit, log)
	relayJournal.Info("System initialized")

	// Инициализируем Telegram Service
	connector := telegram.NewBotConnector(
		cfg.Telegram.APIEndpoint,
		time.Duration(cfg.Telegram.RequestTimeout)*time.Second,
	)
	telegramSvc := telegram.NewService(connector, relayJournal, metricsCollector)
	log.Info("Telegram service initialized")

	// Инициализируем клиента сервиса генерации
	completionClient := completion.NewClient(completion.Options{
		BaseURL:     cfg.Completion.BaseURL,
		APIKey:      cfg.Completion.APIKey,
		Model:       cfg.Completion.Model,
		Temperature: float32(*cfg.Completion.Temperature),
		MaxTokens:   cfg.Completion.MaxTokens,
		Timeout:     time.Duration(cfg.Completion.Timeout) * time.Second,
	}, metricsCollector)
	log.Info("Completion client initialized (model=%s)", completionClient.Model())

	// Инициализируем use case обработки сообщений
	handleMessageUC := handle_message.New(telegramSvc, completionClient, relayJournal, completionClient.Model(), metricsCollector)

	// Инициализируем ретранслятор
	relay := worker.NewRelay(telegramSvc, handleMessageUC, relayJournal, metricsCollector, worker.Options{
		PollTimeout:  cfg.Relay.PollTimeout,
		PollDelay:    cfg.Relay.PollDelay(),
		ErrorBackoff: cfg.Relay.ErrorBackoff(),
		Model:        completionClient.Model(),
	})
	relay.PublishStatus()

	// Инициализируем конфигурацию бота
	botConfig := botconfig.NewService(kvRepo, relay, relayJournal)

	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	botConfig.Load(ctx)
	if cfg.Telegram.BotToken != "" && cfg.Telegram.BotToken != botConfig.Token() {
		if err := botConfig.Save(ctx, cfg.Telegram.BotToken); err != nil {
			log.Error("Failed to save bot token from config: %v", err)
		}
	}

	// Инициализируем планировщик
	scheduler := worker.NewScheduler(
		relayJournal,
		relay,
		log,
		cfg.Journal.ExportDir,
		time.Duration(cfg.Journal.HeartbeatInterval)*time.Second,
	)
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start scheduler: %v", err)
	}
	log.Info("Relay scheduler started (%d jobs)", scheduler.JobsCount())

	if cfg.Telegram.AutoStart {
		relay.Start(botConfig.Token())
	}

	// Инициализируем handlers
	healthHandler := health.NewHandler(db, relay)
	saveConfigHandler := save_config.NewHandler(botConfig, log)
	getConfigHandler := get_config.NewHandler(botConfig)
	clearConfigHandler := clear_config.NewHandler(botConfig)
	startBotHandler := start_bot.NewHandler(relay, botConfig)
	stopBotHandler := stop_bot.NewHandler(relay)
	getStatusHandler := get_status.NewHandler(relayJournal)
	listLogsHandler := list_logs.NewHandler(relayJournal)
	clearLogsHandler := clear_logs.NewHandler(relayJournal)
	exportLogsHandler := export_logs.NewHandler(relayJournal, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Публичные endpoints
	r.HandleFunc("/health", healthHandler.Handle).Methods(http.MethodGet)

	// Metrics endpoint (публичный)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API v1 endpoints
	api := r.PathPrefix("/api/v1").Subrouter()

	// Config endpoints
	api.HandleFunc("/config", saveConfigHandler.Handle).Methods(http.MethodPut)
	api.HandleFunc("/config", getConfigHandler.Handle).Methods(http.MethodGet)
	api.HandleFunc("/config", clearConfigHandler.Handle).Methods(http.MethodDelete)

	// Bot lifecycle endpoints
	api.HandleFunc("/bot/start", startBotHandler.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bot/stop", stopBotHandler.Handle).Methods(http.MethodPost)
	api.HandleFunc("/status", getStatusHandler.Handle).Methods(http.MethodGet)

	// Journal endpoints
	api.HandleFunc("/logs", listLogsHandler.Handle).Methods(http.MethodGet)
	api.HandleFunc("/logs", clearLogsHandler.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/logs/export", exportLogsHandler.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Запускаем HTTP сервер
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// КРИТИЧНО: Останавливаем ретранслятор ПЕРЕД сервером
	scheduler.Stop()
	relay.Shutdown()
	log.Info("Relay stopped")

	// Останавливаем сбор метрик
	close(stopMetricsCh)

	// Graceful shutdown HTTP сервера
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
