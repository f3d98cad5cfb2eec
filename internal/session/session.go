// Package session tracks one player's run through one instance: its turn
// counter, status, and action log, and serializes Dispatch calls the way
// the teacher's Engine serializes ProcessAction against a single game.
package session

import (
	"sync"
	"time"

	"github.com/lucas/simhost/internal/action"
	"github.com/lucas/simhost/internal/randsrc"
	"github.com/lucas/simhost/internal/worldstate"
)

// Status is a session's lifecycle state.
type Status string

const (
	StatusStarted    Status = "started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// LogEntry records one dispatched action and its outcome.
type LogEntry struct {
	Turn      int            `json:"turn"`
	Action    action.Type    `json:"action"`
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
}

// Session is a single player's session against one instance's WorldState.
// Every Dispatch call increments Turn, including ones that fail validation
// — the calls that do not consume a turn are those on a finished session
// and those for an unregistered verb or a verb outside the world's
// allowed_actions, which Dispatch rejects before touching the counter.
type Session struct {
	mu sync.Mutex

	InstanceID string
	PlayerID   string
	World      *worldstate.WorldState
	Registry   *action.Registry
	Rand       randsrc.Source

	turn   int
	status Status
	score  float64
	log    []LogEntry
}

// New creates a started session bound to a world and a shared action
// registry. Rand may be nil, in which case a system source is used.
func New(instanceID, playerID string, world *worldstate.WorldState, registry *action.Registry, rand randsrc.Source) *Session {
	if rand == nil {
		rand = randsrc.NewSystem()
	}
	return &Session{
		InstanceID: instanceID,
		PlayerID:   playerID,
		World:      world,
		Registry:   registry,
		Rand:       rand,
		status:     StatusStarted,
	}
}

// Status returns the session's current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Turn returns the number of actions dispatched so far.
func (s *Session) Turn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn
}

// Score returns the session's terminal score, valid once Status is
// completed.
func (s *Session) Score() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Log returns a copy of the dispatched action history.
func (s *Session) Log() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LogEntry, len(s.log))
	copy(out, s.log)
	return out
}

// Dispatch routes one player action through the registry, applies any
// session-status/score transition the handler requested, and appends to the
// action log. It serializes all calls for this session — two concurrent
// Dispatch calls for the same player never interleave.
func (s *Session) Dispatch(a action.Action) action.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusCompleted || s.status == StatusFailed {
		return action.Failed("session already finished")
	}

	handler, ok := s.Registry.Get(a.Type)
	if !ok {
		return action.Failed("unknown action type")
	}
	if allowed, ok := s.World.Properties["allowed_actions"].([]string); ok {
		permitted := false
		for _, v := range allowed {
			if v == string(a.Type) {
				permitted = true
				break
			}
		}
		if !permitted {
			return action.Failed("action not allowed in this scenario")
		}
	}

	s.turn++
	if s.status == StatusStarted {
		s.status = StatusInProgress
	}

	ctx := &action.Context{
		World:   s.World,
		AgentID: a.AgentID,
		Action:  a,
		Rand:    s.Rand,
		Turn:    s.turn,
	}

	result := handler.Process(ctx)
	s.applyUpdate(result.Update)

	s.log = append(s.log, LogEntry{
		Turn:      s.turn,
		Action:    a.Type,
		Success:   result.Success,
		Message:   result.Message,
		Timestamp: time.Now(),
	})

	return result
}

// applyUpdate interprets the session-facing keys a handler's Result.Update
// may carry — session_status and score — leaving every other key as
// world-facing data the caller already applied via WorldState mutation.
func (s *Session) applyUpdate(update map[string]any) {
	if update == nil {
		return
	}
	if raw, ok := update["session_status"]; ok {
		if st, ok := raw.(string); ok {
			switch Status(st) {
			case StatusCompleted:
				s.status = StatusCompleted
			case StatusFailed:
				s.status = StatusFailed
			}
		}
	}
	if raw, ok := update["score"]; ok {
		if f, ok := raw.(float64); ok {
			s.score = f
		}
	}
}

// Errors mirroring the registry's InstanceError pattern for not-found lookups.
var (
	ErrSessionNotFound = &SessionError{"session not found"}
	ErrSessionExists   = &SessionError{"session already exists"}
)

// SessionError represents a session-related error.
type SessionError struct {
	Message string
}

func (e *SessionError) Error() string {
	return e.Message
}
