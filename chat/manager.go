package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sahilchouksey/edupath-api/utils/logger"
)

// DefaultSessionTTL is how long an idle session survives before SweepIdle drops it
const DefaultSessionTTL = 30 * time.Minute

type entry struct {
	session *Session
	owner   string
}

// Manager keeps every live chat session, keyed by a random id.
// Sessions opened by a signed-in user can only be reached by that user.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[string]*entry
	completer Completer
	ttl       time.Duration
	log       *logger.Logger
}

func NewManager(completer Completer, ttl time.Duration, log *logger.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		sessions:  make(map[string]*entry),
		completer: completer,
		ttl:       ttl,
		log:       log,
	}
}

// Create opens a session for identity. owner is the user id, empty for guests.
func (m *Manager) Create(identity Identity, owner string) (string, *Session) {
	id := uuid.New().String()
	s := NewSession(identity, m.completer, WithLogger(m.log.With("chat_session", id)))

	m.mu.Lock()
	m.sessions[id] = &entry{session: s, owner: owner}
	m.mu.Unlock()

	return id, s
}

// Get returns the session if it exists and owner may access it
func (m *Manager) Get(id, owner string) (*Session, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || (e.owner != "" && e.owner != owner) {
		return nil, ErrSessionNotFound
	}
	return e.session, nil
}

// Delete drops a session. A pending reply still settles but nobody can read it.
func (m *Manager) Delete(id, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok || (e.owner != "" && e.owner != owner) {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// SweepIdle removes idle sessions untouched for longer than the TTL and reports how many went
func (m *Manager) SweepIdle(now time.Time) int {
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.sessions {
		if e.session.State() == StateAwaitingReply {
			continue
		}
		if e.session.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
