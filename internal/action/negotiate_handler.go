package action

import "fmt"

// NegotiateHandler implements negotiate(store_id|npc_id, item_id,
// offered_price): base price is value × pricing_multiplier; the holder
// accepts if the offer is at least 0.8 × base. Negotiating never transfers
// the item or gold by itself — a successful negotiation only reports the
// accepted price in its update as agreed_price; a later buy still charges
// round(value × pricing_multiplier).
type NegotiateHandler struct{}

func (h *NegotiateHandler) Type() Type { return Negotiate }

func (h *NegotiateHandler) Validate(ctx *Context) error {
	if ctx.Action.Params.ItemID == "" {
		return fmt.Errorf("negotiate requires item_id")
	}
	holder, ok := holderOf(ctx)
	if !ok {
		return fmt.Errorf("negotiate requires a known store_id or npc_id")
	}
	if _, ok := findItem(holder, ctx.Action.Params.ItemID); !ok {
		return fmt.Errorf("item %q not held by %q", ctx.Action.Params.ItemID, holder.ID)
	}
	return nil
}

func (h *NegotiateHandler) Process(ctx *Context) Result {
	if err := h.Validate(ctx); err != nil {
		return Failed(err.Error())
	}

	holder, _ := holderOf(ctx)
	item, _ := findItem(holder, ctx.Action.Params.ItemID)

	multiplier := holder.Float("pricing_multiplier", 1.0)
	base := item.Value * multiplier
	offered := ctx.Action.Params.OfferedPrice
	accepted := offered >= 0.8*base

	ctx.World.LogEvent("negotiate", map[string]any{
		"agent_id": ctx.AgentID,
		"holder":   holder.ID,
		"item_id":  item.ItemID,
		"offered":  offered,
		"base":     base,
		"accepted": accepted,
	})

	update := map[string]any{
		"base_price": base,
		"accepted":   accepted,
	}
	message := fmt.Sprintf("%s rejects %.2f for %s (base %.2f)", holder.ID, offered, item.ItemID, base)
	if accepted {
		update["agreed_price"] = offered
		message = fmt.Sprintf("%s accepts %.2f for %s", holder.ID, offered, item.ItemID)
	}
	return Succeeded(message, update)
}
