package worldstate_test

import (
	"testing"

	"github.com/lucas/simhost/internal/eventbus"
	"github.com/lucas/simhost/internal/worldstate"
)

func newWorld() *worldstate.WorldState {
	return worldstate.New("inst-1", 100, 100, 200, 10, eventbus.New())
}

func TestAddAndGetEntity(t *testing.T) {
	w := newWorld()
	e := worldstate.NewEntity("agent-1", worldstate.EntityAgent, worldstate.Position{X: 1, Y: 2})
	w.AddEntity(e)

	got, ok := w.GetEntity("agent-1")
	if !ok {
		t.Fatal("expected entity to be found")
	}
	if got.GetPosition() != (worldstate.Position{X: 1, Y: 2}) {
		t.Errorf("unexpected position: %v", got.GetPosition())
	}
}

func TestEntitiesOfType(t *testing.T) {
	w := newWorld()
	w.AddEntity(worldstate.NewEntity("agent-1", worldstate.EntityAgent, worldstate.Position{}))
	w.AddEntity(worldstate.NewEntity("npc-1", worldstate.EntityNPC, worldstate.Position{}))
	w.AddEntity(worldstate.NewEntity("npc-2", worldstate.EntityNPC, worldstate.Position{}))

	npcs := w.EntitiesOfType(worldstate.EntityNPC)
	if len(npcs) != 2 {
		t.Fatalf("expected 2 npcs, got %d", len(npcs))
	}
}

func TestInBounds(t *testing.T) {
	w := newWorld()
	if !w.InBounds(worldstate.Position{X: 50, Y: 50}) {
		t.Error("expected center to be in bounds")
	}
	if w.InBounds(worldstate.Position{X: -1, Y: 50}) {
		t.Error("expected negative x to be out of bounds")
	}
	if w.InBounds(worldstate.Position{X: 101, Y: 50}) {
		t.Error("expected x beyond width to be out of bounds")
	}
}

func TestTurnIncrement(t *testing.T) {
	w := newWorld()
	if w.Turn() != 0 {
		t.Fatalf("expected initial turn 0, got %d", w.Turn())
	}
	if got := w.IncrementTurn(); got != 1 {
		t.Errorf("expected turn 1 after increment, got %d", got)
	}
}

func TestSnapshotTruncatesToViewCap(t *testing.T) {
	w := worldstate.New("inst-1", 100, 100, 200, 2, eventbus.New())
	w.LogEvent("e1", nil)
	w.LogEvent("e2", nil)
	w.LogEvent("e3", nil)

	snap := w.Snapshot()
	if len(snap.Events) != 2 {
		t.Fatalf("expected snapshot truncated to viewCap=2, got %d", len(snap.Events))
	}
	if snap.Events[len(snap.Events)-1].EventType != "e3" {
		t.Errorf("expected newest event last, got %v", snap.Events)
	}
}

func TestFullEventLogRetainsLogCap(t *testing.T) {
	w := worldstate.New("inst-1", 100, 100, 2, 1, eventbus.New())
	w.LogEvent("e1", nil)
	w.LogEvent("e2", nil)
	w.LogEvent("e3", nil)

	full := w.FullEventLog()
	if len(full) != 2 {
		t.Fatalf("expected retained log capped at 2, got %d", len(full))
	}
}

func TestPropFloatAndPropString(t *testing.T) {
	w := newWorld()
	w.Properties["max_turns"] = 50.0
	w.Properties["target_item_id"] = "gem"

	if got := w.PropFloat("max_turns", 100); got != 50 {
		t.Errorf("expected 50, got %v", got)
	}
	if got := w.PropFloat("missing", 7); got != 7 {
		t.Errorf("expected default 7, got %v", got)
	}
	if got := w.PropString("target_item_id", ""); got != "gem" {
		t.Errorf("expected gem, got %v", got)
	}
}

func TestEntityTrustAndHealthClamp(t *testing.T) {
	e := worldstate.NewEntity("npc-1", worldstate.EntityNPC, worldstate.Position{})
	e.Set("trust", 1.5)
	if got := e.Float("trust", 0); got != 1 {
		t.Errorf("expected trust clamped to 1, got %v", got)
	}
	e.Set("trust", -1.0)
	if got := e.Float("trust", 0); got != 0 {
		t.Errorf("expected trust clamped to 0, got %v", got)
	}

	e.Set("max_health", 50.0)
	e.Set("health", 9000.0)
	if got := e.Float("health", 0); got != 50 {
		t.Errorf("expected health clamped to max_health=50, got %v", got)
	}
}
