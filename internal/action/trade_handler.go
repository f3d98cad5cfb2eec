package action

import "fmt"

// TradeHandler implements trade(store_id|npc_id, give_item_id,
// receive_item_id): the counterparty accepts the swap iff the offered
// item's value is at least 0.8 × the requested item's value.
type TradeHandler struct{}

func (h *TradeHandler) Type() Type { return Trade }

func (h *TradeHandler) Validate(ctx *Context) error {
	if ctx.Action.Params.GiveItemID == "" || ctx.Action.Params.ReceiveItemID == "" {
		return fmt.Errorf("trade requires give_item_id and receive_item_id")
	}
	agent, ok := ctx.World.GetEntity(ctx.AgentID)
	if !ok {
		return fmt.Errorf("unknown agent %q", ctx.AgentID)
	}
	if _, ok := findItem(agent, ctx.Action.Params.GiveItemID); !ok {
		return fmt.Errorf("agent does not hold %q", ctx.Action.Params.GiveItemID)
	}
	holder, ok := holderOf(ctx)
	if !ok {
		return fmt.Errorf("trade requires a known store_id or npc_id")
	}
	if _, ok := findItem(holder, ctx.Action.Params.ReceiveItemID); !ok {
		return fmt.Errorf("item %q not held by %q", ctx.Action.Params.ReceiveItemID, holder.ID)
	}
	return nil
}

func (h *TradeHandler) Process(ctx *Context) Result {
	if err := h.Validate(ctx); err != nil {
		return Failed(err.Error())
	}

	agent, _ := ctx.World.GetEntity(ctx.AgentID)
	holder, _ := holderOf(ctx)
	give, _ := findItem(agent, ctx.Action.Params.GiveItemID)
	receive, _ := findItem(holder, ctx.Action.Params.ReceiveItemID)

	accepted := give.Value >= 0.8*receive.Value
	update := map[string]any{
		"accepted":     accepted,
		"give_value":   give.Value,
		"receive_value": receive.Value,
	}

	if !accepted {
		ctx.World.LogEvent("trade_rejected", map[string]any{
			"agent_id": agent.ID,
			"holder":   holder.ID,
			"give":     give.ItemID,
			"receive":  receive.ItemID,
		})
		return Succeeded(fmt.Sprintf("%s rejects trading %s for %s", holder.ID, receive.ItemID, give.ItemID), update)
	}

	removeItem(agent, give.ItemID)
	removeItem(holder, receive.ItemID)
	addItem(holder, give)
	addItem(agent, receive)

	ctx.World.LogEvent("trade_completed", map[string]any{
		"agent_id": agent.ID,
		"holder":   holder.ID,
		"give":     give.ItemID,
		"receive":  receive.ItemID,
	})

	return Succeeded(fmt.Sprintf("traded %s for %s with %s", give.ItemID, receive.ItemID, holder.ID), update)
}
