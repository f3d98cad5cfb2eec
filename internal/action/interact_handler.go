package action

import "fmt"

// InteractHandler is the generic fallback verb for entity types the engine
// has no dedicated handler for — AI-generated entities with arbitrary
// interact_verb semantics the scenario defines, not the engine. It never
// rejects on an unrecognized target type: it just records the attempt and
// echoes the full parameter set back for the Scheduler's reaction phase to
// interpret.
type InteractHandler struct{}

func (h *InteractHandler) Type() Type { return Interact }

func (h *InteractHandler) Validate(ctx *Context) error {
	if ctx.Action.Params.EntityID == "" {
		return fmt.Errorf("interact requires entity_id")
	}
	if _, ok := ctx.World.GetEntity(ctx.Action.Params.EntityID); !ok {
		return fmt.Errorf("unknown entity %q", ctx.Action.Params.EntityID)
	}
	return nil
}

func (h *InteractHandler) Process(ctx *Context) Result {
	if err := h.Validate(ctx); err != nil {
		return Failed(err.Error())
	}

	target, _ := ctx.World.GetEntity(ctx.Action.Params.EntityID)

	data := map[string]any{
		"agent_id":      ctx.AgentID,
		"entity_id":     target.ID,
		"entity_type":   string(target.Type),
		"interact_verb": ctx.Action.Params.InteractVerb,
	}
	for k, v := range ctx.Action.Params.Extra {
		data[k] = v
	}

	ctx.World.LogEvent("entity_interaction", data)

	verb := ctx.Action.Params.InteractVerb
	if verb == "" {
		verb = "interacted with"
	}
	return Succeeded(fmt.Sprintf("%s %s", verb, target.ID), data)
}
