package action

import (
	"fmt"
	"math"
)

// BuyHandler implements buy(store_id|npc_id, item_id): price is
// round(value × pricing_multiplier), paid from the buyer's gold to the
// holder's gold, with the item transferred on success. Buying the world's
// target_item_id completes the session with a turn-weighted score.
type BuyHandler struct{}

func (h *BuyHandler) Type() Type { return Buy }

func (h *BuyHandler) Validate(ctx *Context) error {
	if ctx.Action.Params.ItemID == "" {
		return fmt.Errorf("buy requires item_id")
	}
	holder, ok := holderOf(ctx)
	if !ok {
		return fmt.Errorf("buy requires a known store_id or npc_id")
	}
	if _, ok := findItem(holder, ctx.Action.Params.ItemID); !ok {
		return fmt.Errorf("item %q not held by %q", ctx.Action.Params.ItemID, holder.ID)
	}
	if _, ok := ctx.World.GetEntity(ctx.AgentID); !ok {
		return fmt.Errorf("unknown agent %q", ctx.AgentID)
	}
	return nil
}

func (h *BuyHandler) Process(ctx *Context) Result {
	if err := h.Validate(ctx); err != nil {
		return Failed(err.Error())
	}

	agent, _ := ctx.World.GetEntity(ctx.AgentID)
	holder, _ := holderOf(ctx)
	item, _ := findItem(holder, ctx.Action.Params.ItemID)

	multiplier := holder.Float("pricing_multiplier", 1.0)
	price := math.Round(item.Value * multiplier)

	gold := agent.Float("gold", 0)
	if gold < price {
		return Failed(fmt.Sprintf("insufficient gold: have %.0f, need %.0f", gold, price))
	}

	agent.Set("gold", gold-price)
	holder.Set("gold", holder.Float("gold", 0)+price)
	removeItem(holder, item.ItemID)
	addItem(agent, item)

	ctx.World.LogEvent("item_purchased", map[string]any{
		"agent_id": agent.ID,
		"holder":   holder.ID,
		"item_id":  item.ItemID,
		"price":    price,
	})

	update := map[string]any{
		"item_id":        item.ItemID,
		"price":          price,
		"gold_remaining": gold - price,
	}

	target := ctx.World.PropString("target_item_id", "")
	if target != "" && target == item.ItemID {
		maxTurns := ctx.World.PropFloat("max_turns", 100)
		turnsUsed := float64(ctx.Turn)
		score := targetItemCompletionScore(turnsUsed, maxTurns)
		update["session_status"] = "completed"
		update["score"] = score
		ctx.World.LogEvent("target_item_acquired", map[string]any{
			"agent_id": agent.ID,
			"item_id":  item.ItemID,
			"score":    score,
		})
	}

	return Succeeded(fmt.Sprintf("bought %s for %.0f", item.ItemID, price), update)
}
