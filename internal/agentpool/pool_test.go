package agentpool_test

import (
	"context"
	"testing"

	"github.com/lucas/simhost/internal/agentpool"
)

type stubWorker struct {
	id            string
	role          string
	refuseConnect bool
	disconnected  bool
}

func (w *stubWorker) ID() string   { return w.id }
func (w *stubWorker) Role() string { return w.role }
func (w *stubWorker) HandleRequest(_ context.Context, action string, payload map[string]any) (map[string]any, error) {
	return map[string]any{"worker": w.id, "action": action}, nil
}
func (w *stubWorker) Connect() bool { return !w.refuseConnect }
func (w *stubWorker) Disconnect() bool {
	w.disconnected = true
	return true
}

func TestRequestRoundRobinsAcrossWorkers(t *testing.T) {
	p := agentpool.New()
	p.Register(&stubWorker{id: "w1", role: "npc_reaction"})
	p.Register(&stubWorker{id: "w2", role: "npc_reaction"})

	first, err := p.Request(context.Background(), "npc_reaction", "react", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Request(context.Background(), "npc_reaction", "react", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first["worker"] == second["worker"] {
		t.Errorf("expected round-robin to alternate workers, got %v then %v", first, second)
	}

	third, _ := p.Request(context.Background(), "npc_reaction", "react", nil)
	if third["worker"] != first["worker"] {
		t.Errorf("expected rotation to wrap back to first worker, got %v", third)
	}
}

func TestRequestNoWorkerRegistered(t *testing.T) {
	p := agentpool.New()
	if _, err := p.Request(context.Background(), "missing_role", "act", nil); err == nil {
		t.Fatal("expected an error when no worker is registered for the role")
	}
}

func TestRegisterReplacesExistingID(t *testing.T) {
	p := agentpool.New()
	p.Register(&stubWorker{id: "w1", role: "npc_idle"})
	p.Register(&stubWorker{id: "w1", role: "npc_idle"})

	status := p.Status()
	if len(status["npc_idle"]) != 1 {
		t.Errorf("expected re-registering the same id to replace in place, got %v", status)
	}
}

func TestUnregisterRemovesWorker(t *testing.T) {
	p := agentpool.New()
	w := &stubWorker{id: "w1", role: "npc_idle"}
	p.Register(w)
	p.Unregister("w1")

	if p.HasRole("npc_idle") {
		t.Error("expected role to have no workers after unregister")
	}
	if !w.disconnected {
		t.Error("expected Unregister to call Disconnect on the removed worker")
	}
}

func TestRegisterRefusesWorkerWhenConnectFails(t *testing.T) {
	p := agentpool.New()
	ok := p.Register(&stubWorker{id: "w1", role: "npc_idle", refuseConnect: true})
	if ok {
		t.Error("expected Register to report failure when Connect fails")
	}
	if p.HasRole("npc_idle") {
		t.Error("expected a worker that fails Connect to not be admitted")
	}
}

func TestShutdownDisconnectsEveryWorker(t *testing.T) {
	p := agentpool.New()
	w1 := &stubWorker{id: "w1", role: "npc_idle"}
	w2 := &stubWorker{id: "w2", role: "npc_reaction"}
	p.Register(w1)
	p.Register(w2)

	p.Shutdown()

	if !w1.disconnected || !w2.disconnected {
		t.Errorf("expected Shutdown to disconnect every worker, got w1=%v w2=%v", w1.disconnected, w2.disconnected)
	}
	if p.HasRole("npc_idle") || p.HasRole("npc_reaction") {
		t.Error("expected Shutdown to clear all roles")
	}
}

func TestBroadcastCollectsAllResponses(t *testing.T) {
	p := agentpool.New()
	p.Register(&stubWorker{id: "w1", role: "scenario_generator"})
	p.Register(&stubWorker{id: "w2", role: "scenario_generator"})

	responses, errs := p.Broadcast(context.Background(), "scenario_generator", "generate_npcs", nil)
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}
	for i, err := range errs {
		if err != nil {
			t.Errorf("unexpected error at index %d: %v", i, err)
		}
	}
}
