package action_test

import (
	"testing"

	"github.com/lucas/simhost/internal/action"
	"github.com/lucas/simhost/internal/randsrc"
	"github.com/lucas/simhost/internal/worldstate"
)

func TestTalkHandler_LogsEventAndAcks(t *testing.T) {
	w := newTestWorld(200, 200)
	agent := worldstate.NewEntity("agent-1", worldstate.EntityAgent, worldstate.Position{})
	w.AddEntity(agent)

	npc := worldstate.NewEntity("npc-1", worldstate.EntityNPC, worldstate.Position{})
	w.AddEntity(npc)

	h := &action.TalkHandler{}
	ctx := &action.Context{
		World:   w,
		AgentID: "agent-1",
		Action: action.Action{AgentID: "agent-1", Type: action.Talk, Params: action.Params{
			NPCID: "npc-1", Message: "hello",
		}},
		Rand: randsrc.NewSeeded(1),
	}

	result := h.Process(ctx)
	if !result.Success {
		t.Fatalf("expected success, got: %s", result.Message)
	}
	if result.Update["ack"] != true {
		t.Errorf("expected immediate ack, got %v", result.Update)
	}

	full := w.FullEventLog()
	if len(full) != 1 || full[0].EventType != "npc_talk" {
		t.Fatalf("expected one npc_talk event logged, got %v", full)
	}
	if full[0].Data["message"] != "hello" {
		t.Errorf("expected message recorded on event, got %v", full[0].Data)
	}
}

func TestTalkHandler_UnknownNPC(t *testing.T) {
	w := newTestWorld(200, 200)
	agent := worldstate.NewEntity("agent-1", worldstate.EntityAgent, worldstate.Position{})
	w.AddEntity(agent)

	h := &action.TalkHandler{}
	ctx := &action.Context{
		World:   w,
		AgentID: "agent-1",
		Action: action.Action{AgentID: "agent-1", Type: action.Talk, Params: action.Params{
			NPCID: "missing",
		}},
		Rand: randsrc.NewSeeded(1),
	}

	result := h.Process(ctx)
	if result.Success {
		t.Fatal("expected failure for unknown npc")
	}
}
