package session_test

import (
	"testing"

	"github.com/lucas/simhost/internal/eventbus"
	"github.com/lucas/simhost/internal/randsrc"
	"github.com/lucas/simhost/internal/session"
	"github.com/lucas/simhost/internal/worldstate"
)

func TestManagerJoinReturnsSameSession(t *testing.T) {
	w := worldstate.New("inst-1", 100, 100, 200, 10, eventbus.New())
	m := session.NewManager(newTestRegistry(), randsrc.NewSeeded(1))

	first := m.Join("inst-1", "agent-1", w)
	second := m.Join("inst-1", "agent-1", w)
	if first != second {
		t.Error("expected Join to return the same session for a repeat join")
	}
}

func TestManagerGetMissingSession(t *testing.T) {
	m := session.NewManager(newTestRegistry(), randsrc.NewSeeded(1))
	if _, err := m.Get("missing", "agent-1"); err != session.ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestManagerEndInstanceDropsOnlyThatInstance(t *testing.T) {
	w := worldstate.New("inst-1", 100, 100, 200, 10, eventbus.New())
	m := session.NewManager(newTestRegistry(), randsrc.NewSeeded(1))

	m.Join("inst-1", "agent-1", w)
	m.Join("inst-2", "agent-1", w)

	m.EndInstance("inst-1")

	if _, err := m.Get("inst-1", "agent-1"); err != session.ErrSessionNotFound {
		t.Error("expected inst-1 session to be dropped")
	}
	if _, err := m.Get("inst-2", "agent-1"); err != nil {
		t.Error("expected inst-2 session to survive")
	}
}
