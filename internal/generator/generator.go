// Package generator populates a freshly created instance's WorldState,
// either by dispatching to the scenario_generator role in the agent pool
// or, when no such agent is registered, via a deterministic noise-scatter
// fallback so an instance is never stuck in "generating" forever.
package generator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lucas/simhost/internal/agentpool"
	"github.com/lucas/simhost/internal/randsrc"
	"github.com/lucas/simhost/internal/worldstate"
)

// Generator drives the population of one instance.
type Generator struct {
	pool *agentpool.Pool
	rand randsrc.Source
}

// New creates a Generator backed by a shared agent pool and randomness
// source.
func New(pool *agentpool.Pool, rand randsrc.Source) *Generator {
	return &Generator{pool: pool, rand: rand}
}

// Populate fills world with stores, npcs, items, hazards and exits for a
// scenario template, then invokes onActive — the caller's hook for
// flipping the owning Instance's status to active, which must happen only
// once population is complete.
func (g *Generator) Populate(ctx context.Context, world *worldstate.WorldState, templateName string, params map[string]any, onActive func()) error {
	var err error
	if g.pool.HasRole("scenario_generator") {
		err = g.populateViaAgent(ctx, world, templateName, params)
	} else {
		g.populateDeterministic(world, templateName, params)
	}
	if err != nil {
		return err
	}
	if onActive != nil {
		onActive()
	}
	return nil
}

func (g *Generator) populateViaAgent(ctx context.Context, world *worldstate.WorldState, templateName string, params map[string]any) error {
	steps := []string{"generate_stores", "generate_npcs", "generate_items", "generate_target_item"}
	for _, step := range steps {
		resp, err := g.pool.Request(ctx, "scenario_generator", step, map[string]any{
			"template": templateName,
			"params":   params,
			"width":    world.Width,
			"height":   world.Height,
		})
		if err != nil {
			log.Warn().Str("instance", world.InstanceID).Str("step", step).Err(err).
				Msg("scenario_generator step failed, falling back to deterministic population")
			world.LogEvent("generation_fallback", map[string]any{
				"step":  step,
				"error": err.Error(),
			})
			g.populateDeterministic(world, templateName, params)
			return nil
		}
		g.applyGeneratedStep(world, step, resp)
	}
	return nil
}

func (g *Generator) applyGeneratedStep(world *worldstate.WorldState, step string, resp map[string]any) {
	switch step {
	case "generate_stores":
		for _, raw := range asSlice(resp["stores"]) {
			g.addEntityFromMap(world, worldstate.EntityStore, raw)
		}
	case "generate_npcs":
		for _, raw := range asSlice(resp["npcs"]) {
			g.addEntityFromMap(world, worldstate.EntityNPC, raw)
		}
	case "generate_items":
		for _, raw := range asSlice(resp["items"]) {
			g.addEntityFromMap(world, "item", raw)
		}
	case "generate_target_item":
		if targetID, ok := resp["target_item_id"].(string); ok && targetID != "" {
			world.Properties["target_item_id"] = targetID
		}
	}
}

func (g *Generator) addEntityFromMap(world *worldstate.WorldState, fallbackType worldstate.EntityType, raw any) {
	m, ok := raw.(map[string]any)
	if !ok {
		return
	}
	id, _ := m["id"].(string)
	if id == "" {
		id = fmt.Sprintf("%s-%d", fallbackType, int(g.rand.Float64()*1_000_000))
	}
	typ := fallbackType
	if t, ok := m["type"].(string); ok && t != "" {
		typ = worldstate.EntityType(t)
	}
	x, _ := asFloat(m["x"])
	y, _ := asFloat(m["y"])
	if x == 0 && y == 0 {
		x = g.rand.Float64() * world.Width
		y = g.rand.Float64() * world.Height
	}

	e := worldstate.NewEntity(id, typ, worldstate.Position{X: x, Y: y})
	for k, v := range m {
		switch k {
		case "id", "type", "x", "y":
			continue
		default:
			e.Set(k, v)
		}
	}
	world.AddEntity(e)
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
