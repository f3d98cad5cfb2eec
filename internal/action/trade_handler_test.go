package action_test

import (
	"testing"

	"github.com/lucas/simhost/internal/action"
	"github.com/lucas/simhost/internal/worldstate"
)

func TestTradeHandler_AcceptsFairSwap(t *testing.T) {
	w := newTestWorld(200, 200)
	agent := worldstate.NewEntity("agent-1", worldstate.EntityAgent, worldstate.Position{X: 0, Y: 0})
	agent.Set("items", []worldstate.ItemRecord{{ItemID: "dagger", Value: 90}})
	w.AddEntity(agent)

	store := worldstate.NewEntity("store-1", worldstate.EntityStore, worldstate.Position{X: 0, Y: 0})
	store.Set("items", []worldstate.ItemRecord{{ItemID: "shield", Value: 100}})
	w.AddEntity(store)

	h := &action.TradeHandler{}
	ctx := &action.Context{
		World:   w,
		AgentID: "agent-1",
		Action: action.Action{
			AgentID: "agent-1",
			Type:    action.Trade,
			Params:  action.Params{StoreID: "store-1", GiveItemID: "dagger", ReceiveItemID: "shield"},
		},
	}

	result := h.Process(ctx)
	if !result.Success {
		t.Fatalf("expected success, got: %s", result.Message)
	}
	if result.Update["accepted"] != true {
		t.Errorf("expected trade at 0.9x value to be accepted, got %v", result.Update)
	}

	if _, ok, _ := itemHeld(agent, "shield"); !ok {
		t.Error("expected agent to receive shield")
	}
	if _, ok, _ := itemHeld(store, "dagger"); !ok {
		t.Error("expected store to receive dagger")
	}
}

func TestTradeHandler_RejectsUnfairSwap(t *testing.T) {
	w := newTestWorld(200, 200)
	agent := worldstate.NewEntity("agent-1", worldstate.EntityAgent, worldstate.Position{X: 0, Y: 0})
	agent.Set("items", []worldstate.ItemRecord{{ItemID: "pebble", Value: 1}})
	w.AddEntity(agent)

	store := worldstate.NewEntity("store-1", worldstate.EntityStore, worldstate.Position{X: 0, Y: 0})
	store.Set("items", []worldstate.ItemRecord{{ItemID: "shield", Value: 100}})
	w.AddEntity(store)

	h := &action.TradeHandler{}
	ctx := &action.Context{
		World:   w,
		AgentID: "agent-1",
		Action: action.Action{
			AgentID: "agent-1",
			Type:    action.Trade,
			Params:  action.Params{StoreID: "store-1", GiveItemID: "pebble", ReceiveItemID: "shield"},
		},
	}

	result := h.Process(ctx)
	if !result.Success {
		t.Fatalf("expected the trade exchange itself to succeed, got: %s", result.Message)
	}
	if result.Update["accepted"] != false {
		t.Errorf("expected lopsided trade to be rejected, got %v", result.Update)
	}
	if _, ok, _ := itemHeld(agent, "pebble"); !ok {
		t.Error("expected agent to keep pebble after a rejected trade")
	}
}

func itemHeld(e *worldstate.Entity, itemID string) (worldstate.ItemRecord, bool, error) {
	raw, ok := e.Get("items")
	if !ok {
		return worldstate.ItemRecord{}, false, nil
	}
	items, ok := raw.([]worldstate.ItemRecord)
	if !ok {
		return worldstate.ItemRecord{}, false, nil
	}
	for _, it := range items {
		if it.ItemID == itemID {
			return it, true, nil
		}
	}
	return worldstate.ItemRecord{}, false, nil
}
