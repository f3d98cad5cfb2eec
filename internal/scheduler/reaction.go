package scheduler

import (
	"context"

	"github.com/lucas/simhost/internal/agentpool"
	"github.com/lucas/simhost/internal/eventbus"
	"github.com/lucas/simhost/internal/llm"
	"github.com/lucas/simhost/internal/registry"
)

// reactionPhase drains the instance's pending events, groups them by the
// npc they concern (npc_id or target_npc_id), and spawns one bounded
// npc_reaction dispatch per npc. Dispatches are fire-and-forget: the phase
// returns as soon as they are spawned, not once they finish, so a slow or
// stuck worker bounds only its own goroutine's wall time and never the
// tick's. It returns the set of npc ids it dispatched for, so the
// Autonomous Phase can skip them this tick.
func (s *Scheduler) reactionPhase(ctx context.Context, inst *registry.Instance) coveredSet {
	events := s.bus.DrainInstance(inst.InstanceID)
	if len(events) == 0 {
		return coveredSet{}
	}

	grouped := groupByNPC(events)
	covered := make(coveredSet, len(grouped))

	for npcID, npcEvents := range grouped {
		covered[npcID] = true

		if _, ok := inst.World.GetEntity(npcID); !ok {
			continue
		}

		go s.dispatchReaction(ctx, inst, npcID, npcEvents)
	}

	return covered
}

func (s *Scheduler) dispatchReaction(ctx context.Context, inst *registry.Instance, npcID string, events []eventbus.GameEvent) {
	npc, ok := inst.World.GetEntity(npcID)
	if !ok {
		return
	}

	dctx, cancel := context.WithTimeout(ctx, s.reactDeadline)
	defer cancel()

	history := s.history.Recent(npcID)
	prompt := llm.BuildReactionPrompt(npc, history, events)

	resp, err := s.pool.Request(dctx, "npc_reaction", "react", map[string]any{
		"npc_id": npcID,
		"prompt": prompt,
		"events": events,
	})
	if err != nil {
		logDropped(inst.InstanceID, npcID, "reaction", err)
		return
	}

	reaction, err := llm.ParseNPCReaction(resp, nil)
	if err != nil {
		logDropped(inst.InstanceID, npcID, "reaction-parse", err)
		return
	}

	applyNPCReaction(inst.World, npcID, reaction)
	if reaction.Message != "" {
		s.history.Append(npcID, agentpool.Turn{Speaker: npcID, Message: reaction.Message})
	}
}

func groupByNPC(events []eventbus.GameEvent) map[string][]eventbus.GameEvent {
	grouped := make(map[string][]eventbus.GameEvent)
	for _, ev := range events {
		for _, key := range []string{"npc_id", "target_npc_id"} {
			if id, ok := ev.Data[key].(string); ok && id != "" {
				grouped[id] = append(grouped[id], ev)
				break
			}
		}
	}
	return grouped
}
