package scheduler

import (
	"testing"

	"github.com/lucas/simhost/internal/eventbus"
	"github.com/lucas/simhost/internal/llm"
	"github.com/lucas/simhost/internal/worldstate"
)

func newApplyTestWorld() *worldstate.WorldState {
	return worldstate.New("inst-1", 200, 200, 200, 10, eventbus.New())
}

func TestApplyNPCReaction_AddsDeltasAndReplacesMoodAndMessage(t *testing.T) {
	w := newApplyTestWorld()
	npc := worldstate.NewEntity("npc-1", worldstate.EntityNPC, worldstate.Position{X: 0, Y: 0})
	npc.Set("trust", 0.5)
	npc.Set("health", 80.0)
	w.AddEntity(npc)

	applyNPCReaction(w, "npc-1", llm.NPCReaction{
		Message:     "back away",
		Mood:        "hostile",
		TrustDelta:  -0.2,
		HealthDelta: -10,
	})

	if got := npc.Float("trust", -1); got != 0.3 {
		t.Errorf("expected trust 0.3, got %v", got)
	}
	if got := npc.Float("health", -1); got != 70 {
		t.Errorf("expected health 70, got %v", got)
	}
	if npc.String("mood", "") != "hostile" {
		t.Errorf("expected mood replaced, got %q", npc.String("mood", ""))
	}
	if npc.String("last_ai_message", "") != "back away" {
		t.Errorf("expected message stored, got %q", npc.String("last_ai_message", ""))
	}
}

func TestApplyNPCReaction_ZeroDeltasDoNotOverwrite(t *testing.T) {
	w := newApplyTestWorld()
	npc := worldstate.NewEntity("npc-1", worldstate.EntityNPC, worldstate.Position{X: 0, Y: 0})
	npc.Set("trust", 0.6)
	w.AddEntity(npc)

	applyNPCReaction(w, "npc-1", llm.NPCReaction{TrustDelta: 0, HealthDelta: 0})

	if got := npc.Float("trust", -1); got != 0.6 {
		t.Errorf("expected trust untouched by a zero delta, got %v", got)
	}
}

func TestApplyNPCReaction_UnknownNPCIsNoop(t *testing.T) {
	w := newApplyTestWorld()
	applyNPCReaction(w, "ghost", llm.NPCReaction{Message: "hi"})
}

func TestApplyNPCIdle_MovesWithinBoundsAndReplacesFields(t *testing.T) {
	w := newApplyTestWorld()
	npc := worldstate.NewEntity("npc-1", worldstate.EntityNPC, worldstate.Position{X: 50, Y: 50})
	w.AddEntity(npc)

	applyNPCIdle(w, "npc-1", llm.NPCIdle{PatrolTarget: "north_gate", Mood: "calm", DX: 5, DY: -5})

	if got := npc.GetPosition(); got != (worldstate.Position{X: 55, Y: 45}) {
		t.Errorf("expected npc moved to (55,45), got %v", got)
	}
	if npc.String("patrol_target", "") != "north_gate" {
		t.Errorf("expected patrol_target set, got %q", npc.String("patrol_target", ""))
	}
	if npc.String("mood", "") != "calm" {
		t.Errorf("expected mood set, got %q", npc.String("mood", ""))
	}
}

func TestApplyNPCIdle_IgnoresOutOfBoundsMove(t *testing.T) {
	w := newApplyTestWorld()
	npc := worldstate.NewEntity("npc-1", worldstate.EntityNPC, worldstate.Position{X: 5, Y: 5})
	w.AddEntity(npc)

	applyNPCIdle(w, "npc-1", llm.NPCIdle{DX: -100, DY: -100})

	if got := npc.GetPosition(); got != (worldstate.Position{X: 5, Y: 5}) {
		t.Errorf("expected npc not to move out of bounds, got %v", got)
	}
}
