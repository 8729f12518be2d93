package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m04kA/SMC-RelayBot/internal/domain"
	"github.com/m04kA/SMC-RelayBot/pkg/metrics"
)

const (
	DefaultPollTimeout  = 30 // секунд, серверный таймаут getUpdates
	DefaultPollDelay    = time.Second
	DefaultErrorBackoff = 5 * time.Second
)

// Options параметры цикла опроса
type Options struct {
	PollTimeout  int           // Серверный таймаут long polling, секунды
	PollDelay    time.Duration // Пауза между успешными запросами
	ErrorBackoff time.Duration // Пауза после ошибки запроса
	Model        string        // Имя модели для снимка состояния
}

// pollRun один запуск цикла опроса
// stop закрывается при остановке, done - при выходе goroutine
// Новый запуск не начинает опрос, пока не завершится предыдущий (prev)
type pollRun struct {
	stop chan struct{}
	done chan struct{}
	prev *pollRun
}

func newPollRun(prev *pollRun) *pollRun {
	return &pollRun{
		stop: make(chan struct{}),
		done: make(chan struct{}),
		prev: prev,
	}
}

func (p *pollRun) active() bool {
	select {
	case <-p.stop:
		return false
	default:
		return true
	}
}

// Relay ретранслятор: аутентифицируется в Telegram и опрашивает обновления
// Состояние STOPPED -> AUTHENTICATING -> POLLING -> STOPPED
type Relay struct {
	telegram TelegramService
	handler  MessageHandler
	sink     Sink
	metrics  *metrics.Metrics
	opts     Options
	session  *domain.Session
	now      func() time.Time

	state   atomic.Int32
	mu      sync.Mutex // Защищает переходы состояния, run, last и attempt
	run     *pollRun
	last    *pollRun // Последний запущенный цикл, в том числе остановленный
	attempt uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRelay создает ретранслятор со своей сессией
func NewRelay(telegram TelegramService, handler MessageHandler, sink Sink, m *metrics.Metrics, opts Options) *Relay {
	if opts.PollTimeout < 0 {
		opts.PollTimeout = DefaultPollTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Relay{
		telegram: telegram,
		handler:  handler,
		sink:     sink,
		metrics:  m,
		opts:     opts,
		session:  domain.NewSession(),
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start аутентифицирует бота и запускает цикл опроса в отдельной goroutine
// Ошибки не возвращаются, а пишутся в журнал
func (r *Relay) Start(token string) {
	r.mu.Lock()
	if r.State() != domain.RelayStopped {
		r.mu.Unlock()
		r.sink.Info("Bot is already running")
		return
	}
	if strings.TrimSpace(token) == "" {
		r.mu.Unlock()
		r.sink.Error("Error: %v", ErrTokenNotConfigured)
		return
	}

	r.attempt++
	attempt := r.attempt
	r.setState(domain.RelayAuthenticating)
	r.mu.Unlock()

	r.sink.Info("Starting bot...")
	r.PublishStatus()

	username, err := r.telegram.Authenticate(token)

	r.mu.Lock()
	if r.attempt != attempt || r.State() != domain.RelayAuthenticating {
		// Остановлен во время проверки токена
		r.mu.Unlock()
		return
	}
	if err != nil {
		r.setState(domain.RelayStopped)
		r.mu.Unlock()
		r.sink.Error("Failed to start bot: %v", fmt.Errorf("%w: %v", ErrAuth, err))
		r.PublishStatus()
		return
	}

	run := newPollRun(r.last)
	r.run = run
	r.last = run
	r.setState(domain.RelayPolling)
	r.sink.Success("Bot authenticated: @%s", username)
	r.sink.Success("Bot started successfully. Listening for messages...")

	r.wg.Add(1)
	go r.poll(run)
	r.mu.Unlock()

	r.PublishStatus()
}

// Stop останавливает цикл опроса
// Текущий запрос getUpdates дорабатывает, его результат отбрасывается
func (r *Relay) Stop() {
	r.mu.Lock()
	prev := r.State()
	r.setState(domain.RelayStopped)
	if r.run != nil {
		close(r.run.stop)
		r.run = nil
	}
	r.mu.Unlock()

	if prev == domain.RelayStopped {
		return
	}

	r.sink.Info("Bot stopped")
	r.PublishStatus()
}

// Wait ожидает завершения всех запущенных циклов опроса
func (r *Relay) Wait() {
	r.wg.Wait()
}

// Shutdown останавливает ретранслятор и прерывает обработку текущего сообщения
func (r *Relay) Shutdown() {
	r.Stop()
	r.cancel()
	r.wg.Wait()
}

// State текущее состояние
func (r *Relay) State() domain.RelayState {
	return domain.RelayState(r.state.Load())
}

// Session сессия ретранслятора
func (r *Relay) Session() *domain.Session {
	return r.session
}

// Snapshot снимок состояния для панели управления
func (r *Relay) Snapshot() domain.StatusSnapshot {
	state := r.State()
	counters := r.session.Counters()

	return domain.StatusSnapshot{
		Online:       state == domain.RelayPolling,
		State:        state.String(),
		SessionID:    r.session.ID,
		MessageCount: counters.MessageCount,
		UserCount:    counters.UserCount,
		LastActive:   counters.LastActive,
		Model:        r.opts.Model,
	}
}

// PublishStatus отправляет актуальный снимок в журнал
func (r *Relay) PublishStatus() {
	r.sink.PublishStatus(r.Snapshot())
}

func (r *Relay) setState(state domain.RelayState) {
	r.state.Store(int32(state))
	r.metrics.SetRelayOnline(state == domain.RelayPolling)
}
