package handler

import (
	"sync"

	"github.com/openretail/pos-register/internal/domain/register"
)

// SessionFactory builds a fresh register session for a terminal.
type SessionFactory func(registerID, cashierID string) *register.Session

// SessionManager owns one register.Session per terminal and serializes all
// operations on each session behind a per-session lock. The session itself
// is a single-writer state machine; this is the boundary that enforces it
// when requests for the same terminal arrive concurrently.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*managedSession
	factory  SessionFactory
}

type managedSession struct {
	mu      sync.Mutex
	session *register.Session
}

// NewSessionManager creates a SessionManager that lazily builds sessions
// with the given factory.
func NewSessionManager(factory SessionFactory) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*managedSession),
		factory:  factory,
	}
}

// With runs fn with exclusive access to the session for registerID, creating
// the session on first use.
func (m *SessionManager) With(registerID, cashierID string, fn func(*register.Session) error) error {
	m.mu.Lock()
	ms, ok := m.sessions[registerID]
	if !ok {
		ms = &managedSession{session: m.factory(registerID, cashierID)}
		m.sessions[registerID] = ms
	}
	m.mu.Unlock()

	ms.mu.Lock()
	defer ms.mu.Unlock()
	return fn(ms.session)
}
