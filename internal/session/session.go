package session

import (
	"errors"
	"sync"
	"time"

	"dresses/storefront/internal/catalog"
	"dresses/storefront/internal/checkout"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("session not found")

// Session is one shopper's checkout flow and catalog. Operations on a
// session are serialized by its mutex, one event at a time.
type Session struct {
	ID     string
	Flow   *checkout.Flow
	Engine *catalog.Engine

	mu       sync.Mutex
	lastSeen time.Time
}

// Do runs fn with the session locked and marks it as active
func (s *Session) Do(fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = time.Now()
	return fn(s)
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return now.Sub(s.lastSeen)
}

// Manager keeps live sessions in memory and expires idle ones
type Manager struct {
	newEngine func() *catalog.Engine
	ttl       time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(newEngine func() *catalog.Engine, ttl time.Duration) *Manager {
	return &Manager{
		newEngine: newEngine,
		ttl:       ttl,
		sessions:  make(map[string]*Session),
	}
}

func (m *Manager) Create() *Session {
	s := &Session{
		ID:       uuid.NewString(),
		Flow:     checkout.NewFlow(),
		Engine:   m.newEngine(),
		lastSeen: time.Now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log.Debugf("Session %s created", s.ID)
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many were dropped
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
