package action

import (
	"fmt"
	"sort"

	"github.com/lucas/simhost/internal/worldstate"
)

// ObserveHandler implements observe(radius=150): a read-only scan of every
// other entity within radius, sorted nearest-first.
type ObserveHandler struct{}

func (h *ObserveHandler) Type() Type { return Observe }

func (h *ObserveHandler) Validate(ctx *Context) error {
	if _, ok := ctx.World.GetEntity(ctx.AgentID); !ok {
		return fmt.Errorf("unknown agent %q", ctx.AgentID)
	}
	return nil
}

type observedEntity struct {
	ID         string                 `json:"id"`
	Type       worldstate.EntityType  `json:"type"`
	Position   worldstate.Position    `json:"position"`
	Properties map[string]any         `json:"properties"`
	Distance   float64                `json:"distance"`
}

func (h *ObserveHandler) Process(ctx *Context) Result {
	if err := h.Validate(ctx); err != nil {
		return Failed(err.Error())
	}

	agent, _ := ctx.World.GetEntity(ctx.AgentID)
	pos := agent.GetPosition()

	radius := ctx.Action.Params.Radius
	if radius <= 0 {
		radius = 150
	}

	var found []observedEntity
	for _, e := range ctx.World.Entities() {
		if e.ID == agent.ID {
			continue
		}
		d := pos.Distance(e.GetPosition())
		if d > radius {
			continue
		}
		found = append(found, observedEntity{
			ID:         e.ID,
			Type:       e.Type,
			Position:   e.GetPosition(),
			Properties: e.SnapshotProperties(),
			Distance:   d,
		})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Distance < found[j].Distance })

	entities := make([]map[string]any, len(found))
	for i, oe := range found {
		entities[i] = map[string]any{
			"id":         oe.ID,
			"type":       string(oe.Type),
			"position":   oe.Position,
			"properties": oe.Properties,
			"distance":   oe.Distance,
		}
	}

	return Succeeded(fmt.Sprintf("observed %d entities within %.0f", len(entities), radius), map[string]any{
		"entities": entities,
	})
}
