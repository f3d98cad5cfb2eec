package scheduler

import (
	"github.com/lucas/simhost/internal/llm"
	"github.com/lucas/simhost/internal/worldstate"
)

// applyNPCReaction writes an npc_reaction response back onto the npc
// entity: trust_delta and health_delta are added to the current value (and
// clamped by Entity.Set), mood and message replace outright. Concurrent
// reaction and idle dispatches for the same npc never overlap — the
// Autonomous Phase skips any npc the Reaction Phase already covered this
// tick — so these writes need no cross-dispatch coordination beyond the
// entity's own property lock.
func applyNPCReaction(world *worldstate.WorldState, npcID string, r llm.NPCReaction) {
	npc, ok := world.GetEntity(npcID)
	if !ok {
		return
	}
	if r.TrustDelta != 0 {
		npc.Set("trust", npc.Float("trust", 0.5)+r.TrustDelta)
	}
	if r.HealthDelta != 0 {
		npc.Set("health", npc.Float("health", 100)+r.HealthDelta)
	}
	if r.Mood != "" {
		npc.Set("mood", r.Mood)
	}
	if r.Message != "" {
		npc.Set("last_ai_message", r.Message)
	}
	world.LogEvent("npc_reacted", map[string]any{
		"npc_id":  npcID,
		"message": r.Message,
	})
}

// applyNPCIdle writes an npc_idle response: patrol_target and mood replace,
// dx/dy move the npc within world bounds.
func applyNPCIdle(world *worldstate.WorldState, npcID string, r llm.NPCIdle) {
	npc, ok := world.GetEntity(npcID)
	if !ok {
		return
	}
	if r.PatrolTarget != "" {
		npc.Set("patrol_target", r.PatrolTarget)
	}
	if r.Mood != "" {
		npc.Set("mood", r.Mood)
	}
	if r.DX != 0 || r.DY != 0 {
		pos := npc.GetPosition()
		target := worldstate.Position{X: pos.X + r.DX, Y: pos.Y + r.DY}
		if world.InBounds(target) {
			npc.SetPosition(target)
		}
	}
	world.LogEvent("npc_idled", map[string]any{
		"npc_id": npcID,
	})
}
