package action

import "fmt"

// HireHandler implements hire(npc_id): deducts the npc's hiring_cost from
// the caller's gold and marks the npc as hired_by the caller. An already
// hired npc cannot be re-hired.
type HireHandler struct{}

func (h *HireHandler) Type() Type { return Hire }

func (h *HireHandler) Validate(ctx *Context) error {
	if ctx.Action.Params.NPCID == "" {
		return fmt.Errorf("hire requires npc_id")
	}
	npc, ok := ctx.World.GetEntity(ctx.Action.Params.NPCID)
	if !ok {
		return fmt.Errorf("unknown npc %q", ctx.Action.Params.NPCID)
	}
	if hiredBy := npc.String("hired_by", ""); hiredBy != "" {
		return fmt.Errorf("npc %q already hired by %q", npc.ID, hiredBy)
	}
	return nil
}

func (h *HireHandler) Process(ctx *Context) Result {
	if err := h.Validate(ctx); err != nil {
		return Failed(err.Error())
	}

	agent, ok := ctx.World.GetEntity(ctx.AgentID)
	if !ok {
		return Failed("unknown agent")
	}
	npc, _ := ctx.World.GetEntity(ctx.Action.Params.NPCID)

	cost := npc.Float("hiring_cost", 0)
	gold := agent.Float("gold", 0)
	if gold < cost {
		return Failed(fmt.Sprintf("insufficient gold: have %.0f, need %.0f", gold, cost))
	}

	agent.Set("gold", gold-cost)
	npc.Set("hired_by", agent.ID)

	ctx.World.LogEvent("npc_hired", map[string]any{
		"agent_id": agent.ID,
		"npc_id":   npc.ID,
		"cost":     cost,
	})

	return Succeeded(fmt.Sprintf("hired %s for %.0f", npc.ID, cost), map[string]any{
		"npc_id":         npc.ID,
		"cost":           cost,
		"gold_remaining": gold - cost,
	})
}
