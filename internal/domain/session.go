package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RelayState состояние ретранслятора
type RelayState int32

const (
	RelayStopped RelayState = iota
	RelayAuthenticating
	RelayPolling
)

func (s RelayState) String() string {
	switch s {
	case RelayAuthenticating:
		return "authenticating"
	case RelayPolling:
		return "polling"
	default:
		return "stopped"
	}
}

// SessionCounters значения счётчиков сессии на момент чтения
type SessionCounters struct {
	MessageCount uint64
	UserCount    int
	LastActive   *time.Time
}

// Session состояние одной сессии ретранслятора
// Счётчики только растут, курсор только движется вперёд
type Session struct {
	ID string

	mu           sync.RWMutex
	messageCount uint64
	users        map[int64]struct{}
	pollOffset   int
	lastActive   time.Time
}

// NewSession создает пустую сессию с новым идентификатором
func NewSession() *Session {
	return &Session{
		ID:    uuid.NewString(),
		users: make(map[int64]struct{}),
	}
}

// RecordMessage учитывает входящее сообщение
func (s *Session) RecordMessage(userID int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messageCount++
	s.users[userID] = struct{}{}
	s.lastActive = at
}

// MessageCount количество обработанных сообщений
func (s *Session) MessageCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.messageCount
}

// UserCount количество различных пользователей
func (s *Session) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Offset текущий курсор getUpdates
func (s *Session) Offset() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pollOffset
}

// AdvanceOffset сдвигает курсор на updateID+1
// Возвращает false, если update уже был обработан (курсор не уменьшается)
func (s *Session) AdvanceOffset(updateID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := updateID + 1
	if next <= s.pollOffset {
		return false
	}
	s.pollOffset = next
	return true
}

// Counters возвращает согласованный снимок счётчиков
func (s *Session) Counters() SessionCounters {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counters := SessionCounters{
		MessageCount: s.messageCount,
		UserCount:    len(s.users),
	}
	if !s.lastActive.IsZero() {
		lastActive := s.lastActive
		counters.LastActive = &lastActive
	}
	return counters
}
