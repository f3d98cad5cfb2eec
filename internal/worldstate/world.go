package worldstate

import (
	"sort"
	"sync"
	"time"

	"github.com/lucas/simhost/internal/eventbus"
)

// WorldState is the authoritative state for one instance: its entities,
// world properties, bounded event log, and turn counter. One WorldState is
// owned by exactly one Instance; the Scheduler holds only a non-owning
// reference while ticking.
type WorldState struct {
	mu sync.RWMutex

	InstanceID string
	Width      float64
	Height     float64

	entities map[string]*Entity
	order    []string // insertion order, for stable iteration (§4.3 ordering rule)

	Properties map[string]any // max_turns, allowed_actions, starting_position, target_item_id, ...

	eventLog []eventbus.GameEvent
	logCap   int // retained event window (default 200)
	viewCap  int // player-visible snapshot window (default 10)

	turn int

	bus *eventbus.EventBus
}

// New creates an empty world of the given bounds, wired to bus for
// log_event publication.
func New(instanceID string, width, height float64, logCap, viewCap int, bus *eventbus.EventBus) *WorldState {
	if logCap <= 0 {
		logCap = 200
	}
	if viewCap <= 0 {
		viewCap = 10
	}
	return &WorldState{
		InstanceID: instanceID,
		Width:      width,
		Height:     height,
		entities:   make(map[string]*Entity),
		Properties: make(map[string]any),
		logCap:     logCap,
		viewCap:    viewCap,
		bus:        bus,
	}
}

// InBounds reports whether a position is within [0,Width] x [0,Height].
func (w *WorldState) InBounds(pos Position) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return pos.X >= 0 && pos.X <= w.Width && pos.Y >= 0 && pos.Y <= w.Height
}

// AddEntity inserts a new entity. A duplicate ID silently replaces the slot
// in place (insertion order preserved) — callers are responsible for id
// uniqueness per the WorldState invariant.
func (w *WorldState) AddEntity(e *Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.entities[e.ID]; !exists {
		w.order = append(w.order, e.ID)
	}
	w.entities[e.ID] = e
}

// RemoveEntity deletes an entity. Unknown IDs are a silent no-op.
func (w *WorldState) RemoveEntity(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.entities[id]; !ok {
		return
	}
	delete(w.entities, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// GetEntity looks up an entity by ID.
func (w *WorldState) GetEntity(id string) (*Entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entities[id]
	return e, ok
}

// Entities returns all entities in stable (insertion) order. A single move
// resolving "the first encountered by entity-map iteration order" (§4.3)
// relies on this being deterministic across calls.
func (w *WorldState) Entities() []*Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.entities[id])
	}
	return out
}

// EntitiesOfType returns entities of one type, in stable order.
func (w *WorldState) EntitiesOfType(t EntityType) []*Entity {
	var out []*Entity
	for _, e := range w.Entities() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// UpdateEntity applies a shallow patch: x, y and type are assigned to their
// typed fields; every other key flows into the properties bag via Entity.Set
// (which clamps trust/health). Unknown entity IDs are a silent no-op — the
// action that needed the entity must have already resolved it.
func (w *WorldState) UpdateEntity(id string, patch map[string]any) {
	e, ok := w.GetEntity(id)
	if !ok {
		return
	}

	pos := e.GetPosition()
	moved := false
	for k, v := range patch {
		switch k {
		case "x":
			if f, ok := asFloat(v); ok {
				pos.X = f
				moved = true
			}
		case "y":
			if f, ok := asFloat(v); ok {
				pos.Y = f
				moved = true
			}
		case "type":
			if s, ok := v.(string); ok {
				e.mu.Lock()
				e.Type = EntityType(s)
				e.mu.Unlock()
			}
		default:
			e.Set(k, v)
		}
	}
	if moved {
		e.SetPosition(pos)
	}
}

// LogEvent appends to the bounded in-memory log and publishes to the
// EventBus in one synchronous call. World coordinates are taken from the
// npc_id/target_npc_id referenced entity in data when present, else (0,0).
// Publication never blocks or raises; the in-memory log is capped at
// logCap, while the EventBus queue itself has no cap.
func (w *WorldState) LogEvent(eventType string, data map[string]any) {
	x, y := w.eventCoords(data)

	ev := eventbus.GameEvent{
		InstanceID: w.InstanceID,
		EventType:  eventType,
		Data:       data,
		X:          x,
		Y:          y,
		Timestamp:  time.Now(),
	}

	w.mu.Lock()
	w.eventLog = append(w.eventLog, ev)
	if len(w.eventLog) > w.logCap {
		w.eventLog = w.eventLog[len(w.eventLog)-w.logCap:]
	}
	w.mu.Unlock()

	if w.bus != nil {
		w.bus.Publish(ev)
	}
}

func (w *WorldState) eventCoords(data map[string]any) (float64, float64) {
	for _, key := range []string{"npc_id", "target_npc_id"} {
		idRaw, ok := data[key]
		if !ok {
			continue
		}
		id, ok := idRaw.(string)
		if !ok {
			continue
		}
		if e, ok := w.GetEntity(id); ok {
			pos := e.GetPosition()
			return pos.X, pos.Y
		}
	}
	return 0, 0
}

// Turn returns the world's turn counter, which the Scheduler advances once
// per tick while the instance is active (sessions keep their own count).
func (w *WorldState) Turn() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.turn
}

// IncrementTurn advances and returns the turn counter.
func (w *WorldState) IncrementTurn() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.turn++
	return w.turn
}

// Snapshot returns a serializable view of the world containing only the
// last viewCap events — the player-visible event window.
func (w *WorldState) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	entities := make([]EntitySnapshot, 0, len(w.order))
	for _, id := range w.order {
		e := w.entities[id]
		entities = append(entities, EntitySnapshot{
			ID:         e.ID,
			Type:       e.Type,
			Position:   e.GetPosition(),
			Properties: e.SnapshotProperties(),
		})
	}

	events := w.eventLog
	if len(events) > w.viewCap {
		events = events[len(events)-w.viewCap:]
	}
	eventsCopy := make([]eventbus.GameEvent, len(events))
	copy(eventsCopy, events)

	props := make(map[string]any, len(w.Properties))
	for k, v := range w.Properties {
		props[k] = v
	}

	return Snapshot{
		InstanceID: w.InstanceID,
		Width:      w.Width,
		Height:     w.Height,
		Turn:       w.turn,
		Properties: props,
		Entities:   entities,
		Events:     eventsCopy,
	}
}

// FullEventLog returns a copy of the entire retained event window (up to
// logCap entries), for persistence round-trips — unlike Snapshot, which
// truncates to the player-visible window.
func (w *WorldState) FullEventLog() []eventbus.GameEvent {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]eventbus.GameEvent, len(w.eventLog))
	copy(out, w.eventLog)
	return out
}

// PropFloat reads a numeric world property, returning def if absent or of
// the wrong type. Used by handlers that key scoring off properties such as
// max_turns or pricing_multiplier.
func (w *WorldState) PropFloat(key string, def float64) float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.Properties[key]
	if !ok {
		return def
	}
	f, ok := asFloat(v)
	if !ok {
		return def
	}
	return f
}

// PropString reads a string world property, returning def if absent or of
// the wrong type.
func (w *WorldState) PropString(key string, def string) string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if s, ok := w.Properties[key].(string); ok {
		return s
	}
	return def
}

// SortedIDs returns entity IDs in lexical order, used by diagnostics that
// want a deterministic but not insertion-dependent ordering.
func (w *WorldState) SortedIDs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]string, 0, len(w.entities))
	for id := range w.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EntitySnapshot is a serializable view of one entity.
type EntitySnapshot struct {
	ID         string         `json:"id"`
	Type       EntityType     `json:"type"`
	Position   Position       `json:"position"`
	Properties map[string]any `json:"properties"`
}

// Snapshot is a serializable view of a WorldState.
type Snapshot struct {
	InstanceID string                `json:"instance_id"`
	Width      float64               `json:"width"`
	Height     float64               `json:"height"`
	Turn       int                   `json:"turn"`
	Properties map[string]any        `json:"properties"`
	Entities   []EntitySnapshot      `json:"entities"`
	Events     []eventbus.GameEvent  `json:"events"`
}

// FromDict rebuilds a WorldState from a prior Snapshot plus the full
// (untruncated) event log, restoring entities, turn, properties and the
// retained event window. Used for persistence round-trips:
// FromDict(ToDict(state)) must reproduce equivalent state.
func FromDict(snap Snapshot, fullLog []eventbus.GameEvent, logCap, viewCap int, bus *eventbus.EventBus) *WorldState {
	w := New(snap.InstanceID, snap.Width, snap.Height, logCap, viewCap, bus)
	w.turn = snap.Turn
	for k, v := range snap.Properties {
		w.Properties[k] = v
	}
	for _, es := range snap.Entities {
		e := NewEntity(es.ID, es.Type, es.Position)
		for k, v := range es.Properties {
			e.Properties[k] = v
		}
		w.AddEntity(e)
	}
	w.eventLog = append([]eventbus.GameEvent(nil), fullLog...)
	if len(w.eventLog) > w.logCap {
		w.eventLog = w.eventLog[len(w.eventLog)-w.logCap:]
	}
	return w
}

// ToDict is an alias for Snapshot kept for symmetry with FromDict, except it
// returns the full retained event log rather than the truncated player
// window — this is the persistence-facing serialization, not the
// player-facing one.
func (w *WorldState) ToDict() (Snapshot, []eventbus.GameEvent) {
	snap := w.Snapshot()
	snap.Events = nil
	return snap, w.FullEventLog()
}
