package action

import (
	"fmt"

	"github.com/lucas/simhost/internal/worldstate"
)

// StealHandler implements steal(store_id|npc_id, item_id): success
// probability is max(0.1, 0.7 − 0.2×G), where G is the count of npc
// entities tagged role="guard" within 100 of the caller. A failed attempt
// costs the caller 20 health; trust consequences are left to the holder
// NPC's own LLM reaction to the steal_attempt event (which carries npc_id
// when the holder is an npc), not applied directly here.
type StealHandler struct{}

const stealFailurePenalty = 20.0

func (h *StealHandler) Type() Type { return Steal }

func (h *StealHandler) Validate(ctx *Context) error {
	if ctx.Action.Params.ItemID == "" {
		return fmt.Errorf("steal requires item_id")
	}
	holder, ok := holderOf(ctx)
	if !ok {
		return fmt.Errorf("steal requires a known store_id or npc_id")
	}
	if _, ok := findItem(holder, ctx.Action.Params.ItemID); !ok {
		return fmt.Errorf("item %q not held by %q", ctx.Action.Params.ItemID, holder.ID)
	}
	return nil
}

func (h *StealHandler) Process(ctx *Context) Result {
	if err := h.Validate(ctx); err != nil {
		return Failed(err.Error())
	}

	agent, ok := ctx.World.GetEntity(ctx.AgentID)
	if !ok {
		return Failed("unknown agent")
	}
	holder, _ := holderOf(ctx)
	item, _ := findItem(holder, ctx.Action.Params.ItemID)

	guards := 0
	pos := agent.GetPosition()
	for _, e := range ctx.World.Entities() {
		if e.ID == agent.ID {
			continue
		}
		if e.Type != worldstate.EntityNPC || e.String("role", "") != "guard" {
			continue
		}
		if pos.Distance(e.GetPosition()) <= 100 {
			guards++
		}
	}

	probability := 0.7 - 0.2*float64(guards)
	if probability < 0.1 {
		probability = 0.1
	}

	success := ctx.Rand.Float64() < probability

	update := map[string]any{
		"success":     success,
		"probability": probability,
		"guards_near": guards,
	}

	event := map[string]any{
		"agent_id":    agent.ID,
		"holder":      holder.ID,
		"item_id":     item.ItemID,
		"success":     success,
		"guards_near": guards,
	}
	if holder.Type == worldstate.EntityNPC {
		event["npc_id"] = holder.ID
	}
	ctx.World.LogEvent("steal_attempt", event)

	if !success {
		health := agent.Float("health", 100) - stealFailurePenalty
		agent.Set("health", health)
		update["new_health"] = health
		return Succeeded(fmt.Sprintf("failed to steal %s from %s, caught by guard", item.ItemID, holder.ID), update)
	}

	removeItem(holder, item.ItemID)
	addItem(agent, item)

	return Succeeded(fmt.Sprintf("stole %s from %s", item.ItemID, holder.ID), update)
}
