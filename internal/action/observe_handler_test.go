package action_test

import (
	"testing"

	"github.com/lucas/simhost/internal/action"
	"github.com/lucas/simhost/internal/worldstate"
)

func TestObserveHandler_SortsByDistanceAndRespectsRadius(t *testing.T) {
	w := newTestWorld(200, 200)
	agent := worldstate.NewEntity("agent-1", worldstate.EntityAgent, worldstate.Position{X: 0, Y: 0})
	w.AddEntity(agent)

	near := worldstate.NewEntity("npc-near", worldstate.EntityNPC, worldstate.Position{X: 10, Y: 0})
	w.AddEntity(near)
	far := worldstate.NewEntity("npc-far", worldstate.EntityNPC, worldstate.Position{X: 50, Y: 0})
	w.AddEntity(far)
	outOfRange := worldstate.NewEntity("npc-outside", worldstate.EntityNPC, worldstate.Position{X: 1000, Y: 0})
	w.AddEntity(outOfRange)

	h := &action.ObserveHandler{}
	ctx := &action.Context{
		World:   w,
		AgentID: "agent-1",
		Action:  action.Action{AgentID: "agent-1", Type: action.Observe, Params: action.Params{Radius: 60}},
	}

	result := h.Process(ctx)
	if !result.Success {
		t.Fatalf("expected success, got: %s", result.Message)
	}

	entities, ok := result.Update["entities"].([]map[string]any)
	if !ok {
		t.Fatalf("expected entities list, got %v", result.Update["entities"])
	}
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities within radius, got %d", len(entities))
	}
	if entities[0]["id"] != "npc-near" || entities[1]["id"] != "npc-far" {
		t.Errorf("expected nearest-first ordering, got %v then %v", entities[0]["id"], entities[1]["id"])
	}
}

func TestObserveHandler_UnknownAgent(t *testing.T) {
	w := newTestWorld(200, 200)

	h := &action.ObserveHandler{}
	ctx := &action.Context{
		World:   w,
		AgentID: "ghost",
		Action:  action.Action{AgentID: "ghost", Type: action.Observe},
	}

	if err := h.Validate(ctx); err == nil {
		t.Fatal("expected validation error for unknown agent")
	}
}
