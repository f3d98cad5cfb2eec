package scheduler

import (
	"context"

	"github.com/lucas/simhost/internal/llm"
	"github.com/lucas/simhost/internal/registry"
	"github.com/lucas/simhost/internal/worldstate"
)

// autonomousPhase spawns an npc_idle dispatch for every npc not already
// covered by the Reaction Phase this tick, giving otherwise-idle npcs
// something to do every idleInterval ticks. Like the Reaction Phase, these
// dispatches are fire-and-forget: the phase returns once they are spawned,
// never waiting on a worker's reply.
func (s *Scheduler) autonomousPhase(ctx context.Context, inst *registry.Instance, covered coveredSet) {
	npcs := inst.World.EntitiesOfType(worldstate.EntityNPC)

	for _, npc := range npcs {
		if covered[npc.ID] {
			continue
		}
		go s.dispatchIdle(ctx, inst, npc)
	}
}

func (s *Scheduler) dispatchIdle(ctx context.Context, inst *registry.Instance, npc *worldstate.Entity) {
	dctx, cancel := context.WithTimeout(ctx, s.reactDeadline)
	defer cancel()

	prompt := llm.BuildIdlePrompt(npc, inst.World)

	resp, err := s.pool.Request(dctx, "npc_idle", "idle", map[string]any{
		"npc_id": npc.ID,
		"prompt": prompt,
	})
	if err != nil {
		logDropped(inst.InstanceID, npc.ID, "idle", err)
		return
	}

	idle, err := llm.ParseNPCIdle(resp, nil)
	if err != nil {
		logDropped(inst.InstanceID, npc.ID, "idle-parse", err)
		return
	}

	applyNPCIdle(inst.World, npc.ID, idle)
}
