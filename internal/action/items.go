package action

import "github.com/lucas/simhost/internal/worldstate"

// itemsOf reads an entity's "items" property, accepting either
// []worldstate.ItemRecord (set directly by the Generator) or
// []map[string]any / []any (as would arrive from a deserialized snapshot or
// an LLM-authored scenario payload) and normalizing both to ItemRecord.
func itemsOf(e *worldstate.Entity) []worldstate.ItemRecord {
	raw, ok := e.Get("items")
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []worldstate.ItemRecord:
		return v
	case []map[string]any:
		out := make([]worldstate.ItemRecord, 0, len(v))
		for _, m := range v {
			out = append(out, itemRecordFromMap(m))
		}
		return out
	case []any:
		out := make([]worldstate.ItemRecord, 0, len(v))
		for _, raw := range v {
			if m, ok := raw.(map[string]any); ok {
				out = append(out, itemRecordFromMap(m))
			}
		}
		return out
	}
	return nil
}

func itemRecordFromMap(m map[string]any) worldstate.ItemRecord {
	rec := worldstate.ItemRecord{}
	if s, ok := m["item_id"].(string); ok {
		rec.ItemID = s
	}
	if s, ok := m["name"].(string); ok {
		rec.Name = s
	}
	if f, ok := asFloatAny(m["value"]); ok {
		rec.Value = f
	}
	if s, ok := m["rarity"].(string); ok {
		rec.Rarity = s
	}
	if b, ok := m["tradeable"].(bool); ok {
		rec.Tradeable = b
	}
	return rec
}

func asFloatAny(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// findItem locates an item by ID within an entity's items list.
func findItem(e *worldstate.Entity, itemID string) (worldstate.ItemRecord, bool) {
	for _, it := range itemsOf(e) {
		if it.ItemID == itemID {
			return it, true
		}
	}
	return worldstate.ItemRecord{}, false
}

// removeItem strips one item by ID from an entity's items list, writing the
// result back via Entity.Set. No-op if the item is not present.
func removeItem(e *worldstate.Entity, itemID string) {
	items := itemsOf(e)
	out := make([]worldstate.ItemRecord, 0, len(items))
	for _, it := range items {
		if it.ItemID != itemID {
			out = append(out, it)
		}
	}
	e.Set("items", out)
}

// addItem appends an item to an entity's items list.
func addItem(e *worldstate.Entity, item worldstate.ItemRecord) {
	items := itemsOf(e)
	e.Set("items", append(items, item))
}

// completionScore scores reaching an objective on a 0-100 scale with a
// turn-efficiency penalty of coefficient points per full turn_used/max_turns
// fraction: finishing in turn 0 scores 100, finishing at max_turns scores
// 100-coefficient, linearly in between. The coefficient differs by
// objective: 50 for reaching the exit, 30 for acquiring the target item.
func completionScore(turnsUsed, maxTurns, coefficient float64) float64 {
	score := 100 - (turnsUsed/maxTurns)*coefficient
	if score < 0 {
		return 0
	}
	return score
}

// exitCompletionScore scores reaching the world's exit.
func exitCompletionScore(turnsUsed, maxTurns float64) float64 {
	return completionScore(turnsUsed, maxTurns, 50)
}

// targetItemCompletionScore scores acquiring the world's target item.
func targetItemCompletionScore(turnsUsed, maxTurns float64) float64 {
	return completionScore(turnsUsed, maxTurns, 30)
}

// holderOf resolves the entity a negotiate/buy/trade action targets: the
// store if StoreID is set, else the npc if NPCID is set.
func holderOf(ctx *Context) (*worldstate.Entity, bool) {
	if ctx.Action.Params.StoreID != "" {
		return ctx.World.GetEntity(ctx.Action.Params.StoreID)
	}
	if ctx.Action.Params.NPCID != "" {
		return ctx.World.GetEntity(ctx.Action.Params.NPCID)
	}
	return nil, false
}
