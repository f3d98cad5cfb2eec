package action

import (
	"fmt"

	"github.com/lucas/simhost/internal/worldstate"
)

// MoveHandler implements move(direction, distance=10) per spec.md §4.3:
// bounds check, then hazard check, then exit check, then commit — a single
// move resolves at most one hazard or exit, the first encountered in the
// world's stable entity order.
type MoveHandler struct{}

func (h *MoveHandler) Type() Type { return Move }

func (h *MoveHandler) Validate(ctx *Context) error {
	switch ctx.Action.Params.Direction {
	case Up, Down, Left, Right:
		return nil
	default:
		return fmt.Errorf("invalid direction %q", ctx.Action.Params.Direction)
	}
}

func (h *MoveHandler) Process(ctx *Context) Result {
	if err := h.Validate(ctx); err != nil {
		return Failed(err.Error())
	}

	agent, ok := ctx.World.GetEntity(ctx.AgentID)
	if !ok {
		return Failed("unknown agent")
	}

	distance := ctx.Action.Params.Distance
	if distance <= 0 {
		distance = 10
	}

	origin := agent.GetPosition()
	target := origin
	switch ctx.Action.Params.Direction {
	case Up:
		target.Y -= distance
	case Down:
		target.Y += distance
	case Left:
		target.X -= distance
	case Right:
		target.X += distance
	}

	if !ctx.World.InBounds(target) {
		return Failed("move rejected: target out of world bounds")
	}

	// Hazard check: first hazard (in stable order) whose radius contains
	// the target position wins.
	for _, e := range ctx.World.Entities() {
		if e.ID == agent.ID || e.Type != worldstate.EntityHazard {
			continue
		}
		radius := e.Float("radius", 0)
		if radius <= 0 || target.Distance(e.GetPosition()) > radius {
			continue
		}

		damage := e.Float("damage", 0)
		health := agent.Float("health", 100) - damage
		agent.Set("health", health)
		agent.SetPosition(target)

		ctx.World.LogEvent("hazard_hit", map[string]any{
			"agent_id":  agent.ID,
			"hazard_id": e.ID,
			"damage":    damage,
		})

		update := map[string]any{"new_health": health}
		message := fmt.Sprintf("hit hazard %s for %.0f damage", e.ID, damage)
		if health <= 0 {
			update["session_status"] = "failed"
			message = fmt.Sprintf("Eliminated by hazard %s", e.ID)
		}
		return Succeeded(message, update)
	}

	// Exit check: first exit (in stable order) whose radius contains the
	// target position wins.
	for _, e := range ctx.World.Entities() {
		if e.ID == agent.ID || e.Type != worldstate.EntityExit {
			continue
		}
		radius := e.Float("radius", 0)
		if radius <= 0 || target.Distance(e.GetPosition()) > radius {
			continue
		}

		agent.SetPosition(target)

		maxTurns := ctx.World.PropFloat("max_turns", 100)
		turnsUsed := float64(ctx.Turn)
		score := exitCompletionScore(turnsUsed, maxTurns)

		ctx.World.LogEvent("exit_reached", map[string]any{
			"agent_id": agent.ID,
			"exit_id":  e.ID,
			"score":    score,
		})

		return Succeeded(fmt.Sprintf("reached exit %s", e.ID), map[string]any{
			"session_status": "completed",
			"score":          score,
		})
	}

	// Nothing in the way: commit the plain move.
	agent.SetPosition(target)
	ctx.World.LogEvent("moved", map[string]any{
		"agent_id": agent.ID,
		"x":        target.X,
		"y":        target.Y,
	})
	return Succeeded(fmt.Sprintf("moved %s to (%.0f,%.0f)", ctx.Action.Params.Direction, target.X, target.Y), nil)
}
