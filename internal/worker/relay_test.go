package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RelayBot/internal/domain"
)

const waitTimeout = 2 * time.Second

// pollResult один скриптованный ответ getUpdates
type pollResult struct {
	updates []tgbotapi.Update
	err     error
}

type fakeTelegram struct {
	mu        sync.Mutex
	authErr   error
	authGate  chan struct{} // если задан, Authenticate ждёт его закрытия
	authCalls int
	results   []pollResult
	offsets   []int
	drained   chan struct{}
	once      sync.Once
}

func newFakeTelegram(results ...pollResult) *fakeTelegram {
	return &fakeTelegram{results: results, drained: make(chan struct{})}
}

func (f *fakeTelegram) Authenticate(string) (string, error) {
	f.mu.Lock()
	f.authCalls++
	gate := f.authGate
	err := f.authErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return "", err
	}
	return "relay_bot", nil
}

func (f *fakeTelegram) GetUpdates(offset, _ int) ([]tgbotapi.Update, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.offsets = append(f.offsets, offset)
	if len(f.results) == 0 {
		f.once.Do(func() { close(f.drained) })
		return nil, nil
	}

	next := f.results[0]
	f.results = f.results[1:]
	return next.updates, next.err
}

func (f *fakeTelegram) AuthCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authCalls
}

func (f *fakeTelegram) Offsets() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.offsets...)
}

type fakeHandler struct {
	mu       sync.Mutex
	messages []domain.InboundMessage
}

func (h *fakeHandler) Execute(_ context.Context, _ *domain.Session, msg *domain.InboundMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, *msg)
}

func (h *fakeHandler) UpdateIDs() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]int, 0, len(h.messages))
	for _, m := range h.messages {
		ids = append(ids, m.UpdateID)
	}
	return ids
}

// slowHandler держит каждый вызов до закрытия release и считает одновременные вызовы
type slowHandler struct {
	fakeHandler
	release  chan struct{}
	entered  chan struct{}
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func newSlowHandler() *slowHandler {
	return &slowHandler{
		release: make(chan struct{}),
		entered: make(chan struct{}, 8),
	}
}

func (h *slowHandler) Execute(ctx context.Context, session *domain.Session, msg *domain.InboundMessage) {
	n := h.inFlight.Add(1)
	defer h.inFlight.Add(-1)
	for {
		seen := h.maxSeen.Load()
		if n <= seen || h.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	h.entered <- struct{}{}

	<-h.release
	h.fakeHandler.Execute(ctx, session, msg)
}

type fakeSink struct {
	mu       sync.Mutex
	lines    []string
	statuses []domain.StatusSnapshot
}

func (s *fakeSink) add(prefix, format string, v ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, prefix+fmt.Sprintf(format, v...))
}

func (s *fakeSink) Info(format string, v ...interface{})    { s.add("info: ", format, v...) }
func (s *fakeSink) Success(format string, v ...interface{}) { s.add("success: ", format, v...) }
func (s *fakeSink) Error(format string, v ...interface{})   { s.add("error: ", format, v...) }

func (s *fakeSink) PublishStatus(snapshot domain.StatusSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, snapshot)
}

func (s *fakeSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func (s *fakeSink) HasLine(substr string) bool {
	for _, line := range s.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func textUpdate(updateID int, userID int64, username, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: updateID,
		Message: &tgbotapi.Message{
			MessageID: updateID,
			From:      &tgbotapi.User{ID: userID, UserName: username},
			Chat:      &tgbotapi.Chat{ID: userID},
			Text:      text,
		},
	}
}

func newTestRelay(tg *fakeTelegram) (*Relay, *fakeHandler, *fakeSink) {
	handler := &fakeHandler{}
	sink := &fakeSink{}
	relay := NewRelay(tg, handler, sink, nil, Options{
		PollTimeout:  0,
		PollDelay:    time.Millisecond,
		ErrorBackoff: time.Millisecond,
		Model:        "test-model",
	})
	return relay, handler, sink
}

func waitDrained(t *testing.T, tg *fakeTelegram) {
	t.Helper()
	select {
	case <-tg.drained:
	case <-time.After(waitTimeout):
		t.Fatal("poll loop did not consume all scripted results")
	}
}

func TestRelay_ProcessesUpdatesInOrder(t *testing.T) {
	tg := newFakeTelegram(
		pollResult{updates: []tgbotapi.Update{
			textUpdate(1, 10, "alice", "hello"),
			textUpdate(2, 20, "", "/status"),
		}},
		pollResult{updates: []tgbotapi.Update{
			textUpdate(3, 10, "alice", "/ask why"),
		}},
	)
	relay, handler, sink := newTestRelay(tg)

	relay.Start("token")
	assert.Equal(t, domain.RelayPolling, relay.State())

	waitDrained(t, tg)
	relay.Stop()
	relay.Wait()

	assert.Equal(t, []int{1, 2, 3}, handler.UpdateIDs())
	assert.Equal(t, uint64(3), relay.Session().MessageCount())
	assert.Equal(t, 2, relay.Session().UserCount())
	assert.Equal(t, 4, relay.Session().Offset())

	assert.True(t, sink.HasLine("success: Bot authenticated: @relay_bot"))
	assert.True(t, sink.HasLine("info: Message from @alice: hello"))
	assert.True(t, sink.HasLine("info: Message from @User_20: /status"))
	assert.True(t, sink.HasLine("info: Bot stopped"))
	assert.Equal(t, domain.RelayStopped, relay.State())
}

func TestRelay_OffsetNeverRegresses(t *testing.T) {
	tg := newFakeTelegram(
		pollResult{updates: []tgbotapi.Update{textUpdate(5, 1, "a", "x"), textUpdate(6, 1, "a", "y")}},
		pollResult{err: errors.New("connection reset")},
		pollResult{updates: []tgbotapi.Update{textUpdate(6, 1, "a", "y"), textUpdate(7, 2, "b", "z")}},
	)
	relay, handler, sink := newTestRelay(tg)

	relay.Start("token")
	waitDrained(t, tg)
	relay.Stop()
	relay.Wait()

	offsets := tg.Offsets()
	require.GreaterOrEqual(t, len(offsets), 4)
	assert.Equal(t, []int{0, 7, 7, 8}, offsets[:4])
	for i := 1; i < len(offsets); i++ {
		assert.GreaterOrEqual(t, offsets[i], offsets[i-1])
	}

	assert.Equal(t, []int{5, 6, 7}, handler.UpdateIDs())
	assert.True(t, sink.HasLine("error: Poll error:"))
	assert.Equal(t, uint64(3), relay.Session().MessageCount())
}

func TestRelay_PollErrorKeepsPolling(t *testing.T) {
	tg := newFakeTelegram(
		pollResult{err: errors.New("502 Bad Gateway")},
		pollResult{err: errors.New("502 Bad Gateway")},
		pollResult{updates: []tgbotapi.Update{textUpdate(1, 1, "a", "hi")}},
	)
	relay, handler, _ := newTestRelay(tg)

	relay.Start("token")
	waitDrained(t, tg)

	assert.Equal(t, domain.RelayPolling, relay.State())
	assert.Equal(t, []int{1}, handler.UpdateIDs())

	relay.Stop()
	relay.Wait()
}

func TestRelay_StartTwiceAuthenticatesOnce(t *testing.T) {
	tg := newFakeTelegram()
	relay, _, sink := newTestRelay(tg)

	relay.Start("token")
	relay.Start("token")

	assert.Equal(t, 1, tg.AuthCalls())
	assert.True(t, sink.HasLine("info: Bot is already running"))

	relay.Stop()
	relay.Wait()
}

func TestRelay_StartWithoutToken(t *testing.T) {
	tg := newFakeTelegram()
	relay, _, sink := newTestRelay(tg)

	relay.Start("   ")

	assert.Equal(t, domain.RelayStopped, relay.State())
	assert.Equal(t, 0, tg.AuthCalls())
	assert.True(t, sink.HasLine("bot token not configured"))
	assert.True(t, sink.HasLine(ErrAuth.Error()))
	assert.ErrorIs(t, ErrTokenNotConfigured, ErrAuth)
}

func TestRelay_AuthFailure(t *testing.T) {
	tg := newFakeTelegram()
	tg.authErr = errors.New("Unauthorized")
	relay, _, sink := newTestRelay(tg)

	relay.Start("bad-token")

	assert.Equal(t, domain.RelayStopped, relay.State())
	assert.True(t, sink.HasLine("error: Failed to start bot"))
	assert.True(t, sink.HasLine(ErrAuth.Error()))
	assert.Empty(t, tg.Offsets())
}

func TestRelay_StopDuringAuthentication(t *testing.T) {
	tg := newFakeTelegram()
	tg.authGate = make(chan struct{})
	relay, _, _ := newTestRelay(tg)

	done := make(chan struct{})
	go func() {
		relay.Start("token")
		close(done)
	}()

	require.Eventually(t, func() bool {
		return relay.State() == domain.RelayAuthenticating
	}, waitTimeout, time.Millisecond)

	relay.Stop()
	close(tg.authGate)
	<-done

	assert.Equal(t, domain.RelayStopped, relay.State())
	relay.Wait()
	assert.Empty(t, tg.Offsets())
}

func TestRelay_StopIsIdempotent(t *testing.T) {
	relay, _, sink := newTestRelay(newFakeTelegram())

	relay.Stop()
	assert.False(t, sink.HasLine("Bot stopped"))

	relay.Start("token")
	relay.Stop()
	relay.Stop()
	relay.Wait()

	stopped := 0
	for _, line := range sink.Lines() {
		if line == "info: Bot stopped" {
			stopped++
		}
	}
	assert.Equal(t, 1, stopped)
}

func TestRelay_RestartKeepsSession(t *testing.T) {
	tg := newFakeTelegram(pollResult{updates: []tgbotapi.Update{textUpdate(1, 1, "a", "hi")}})
	relay, _, _ := newTestRelay(tg)

	relay.Start("token")
	waitDrained(t, tg)
	relay.Stop()
	relay.Wait()

	relay.Start("token")
	assert.Equal(t, domain.RelayPolling, relay.State())
	assert.Equal(t, uint64(1), relay.Session().MessageCount())
	assert.Equal(t, 2, relay.Session().Offset())

	relay.Shutdown()
	assert.Equal(t, domain.RelayStopped, relay.State())
}

func TestRelay_SkipsUpdatesWithoutMessage(t *testing.T) {
	tg := newFakeTelegram(pollResult{updates: []tgbotapi.Update{
		{UpdateID: 1},
		textUpdate(2, 1, "a", "hi"),
	}})
	relay, handler, _ := newTestRelay(tg)

	relay.Start("token")
	waitDrained(t, tg)
	relay.Stop()
	relay.Wait()

	assert.Equal(t, []int{2}, handler.UpdateIDs())
	assert.Equal(t, 3, relay.Session().Offset())
	assert.Equal(t, uint64(1), relay.Session().MessageCount())
}

func TestRelay_Snapshot(t *testing.T) {
	tg := newFakeTelegram(pollResult{updates: []tgbotapi.Update{textUpdate(1, 1, "a", "hi")}})
	relay, _, sink := newTestRelay(tg)

	snapshot := relay.Snapshot()
	assert.False(t, snapshot.Online)
	assert.Equal(t, "stopped", snapshot.State)
	assert.Equal(t, "test-model", snapshot.Model)
	assert.Nil(t, snapshot.LastActive)

	relay.Start("token")
	waitDrained(t, tg)

	snapshot = relay.Snapshot()
	assert.True(t, snapshot.Online)
	assert.Equal(t, "polling", snapshot.State)
	assert.Equal(t, relay.Session().ID, snapshot.SessionID)
	assert.Equal(t, uint64(1), snapshot.MessageCount)
	assert.NotNil(t, snapshot.LastActive)

	relay.Stop()
	relay.Wait()

	sink.mu.Lock()
	last := sink.statuses[len(sink.statuses)-1]
	sink.mu.Unlock()
	assert.False(t, last.Online)
}

func TestRelay_RestartWaitsForHandlerInProgress(t *testing.T) {
	tg := newFakeTelegram(
		pollResult{updates: []tgbotapi.Update{textUpdate(1, 1, "a", "first")}},
		pollResult{updates: []tgbotapi.Update{textUpdate(2, 1, "a", "second")}},
	)
	handler := newSlowHandler()
	relay := NewRelay(tg, handler, &fakeSink{}, nil, Options{
		PollDelay:    time.Millisecond,
		ErrorBackoff: time.Millisecond,
	})

	relay.Start("token")
	select {
	case <-handler.entered:
	case <-time.After(waitTimeout):
		t.Fatal("first message was not dispatched")
	}

	// Первое сообщение ещё обрабатывается, а ретранслятор уже перезапущен
	relay.Stop()
	relay.Start("token")
	assert.Equal(t, domain.RelayPolling, relay.State())

	assert.Never(t, func() bool {
		return handler.inFlight.Load() > 1
	}, 100*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, []int{0}, tg.Offsets())

	close(handler.release)
	waitDrained(t, tg)
	relay.Stop()
	relay.Wait()

	assert.Equal(t, int32(1), handler.maxSeen.Load())
	assert.Equal(t, []int{1, 2}, handler.UpdateIDs())
}

func TestRelay_RepeatedRestartWaitsForOldestRun(t *testing.T) {
	tg := newFakeTelegram(
		pollResult{updates: []tgbotapi.Update{textUpdate(1, 1, "a", "first")}},
		pollResult{updates: []tgbotapi.Update{textUpdate(2, 1, "a", "second")}},
	)
	handler := newSlowHandler()
	relay := NewRelay(tg, handler, &fakeSink{}, nil, Options{PollDelay: time.Millisecond})

	relay.Start("token")
	<-handler.entered

	relay.Stop()
	relay.Start("token")
	relay.Stop()
	relay.Start("token")

	assert.Never(t, func() bool {
		return len(tg.Offsets()) > 1
	}, 100*time.Millisecond, 5*time.Millisecond)

	close(handler.release)
	waitDrained(t, tg)
	relay.Shutdown()

	assert.Equal(t, int32(1), handler.maxSeen.Load())
	assert.Equal(t, []int{1, 2}, handler.UpdateIDs())
}
