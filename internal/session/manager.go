package session

import (
	"sync"

	"github.com/lucas/simhost/internal/action"
	"github.com/lucas/simhost/internal/randsrc"
	"github.com/lucas/simhost/internal/worldstate"
)

// Manager owns every live Session, keyed by instance+player, the way the
// teacher's game.Manager owns every live Engine keyed by game id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	registry *action.Registry
	rand     randsrc.Source
}

// NewManager creates an empty session manager sharing one action registry
// and randomness source across every session it creates.
func NewManager(registry *action.Registry, rand randsrc.Source) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		registry: registry,
		rand:     rand,
	}
}

func key(instanceID, playerID string) string {
	return instanceID + "::" + playerID
}

// Join creates (or returns the existing) session for a player joining an
// instance.
func (m *Manager) Join(instanceID, playerID string, world *worldstate.WorldState) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(instanceID, playerID)
	if s, ok := m.sessions[k]; ok {
		return s
	}
	s := New(instanceID, playerID, world, m.registry, m.rand)
	m.sessions[k] = s
	return s
}

// Get retrieves an existing session.
func (m *Manager) Get(instanceID, playerID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[key(instanceID, playerID)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// EndInstance drops every session belonging to an instance, called when the
// instance is stopped or deleted.
func (m *Manager) EndInstance(instanceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := instanceID + "::"
	for k := range m.sessions {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(m.sessions, k)
		}
	}
}
