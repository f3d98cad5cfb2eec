package action

import (
	"fmt"

	"github.com/lucas/simhost/internal/worldstate"
)

// TalkHandler implements talk(npc_id, message): it logs the utterance for
// the Scheduler's Reaction Phase to pick up and hand to an LLM worker, and
// returns an immediate synchronous acknowledgement — the actual reply
// arrives later via the Scheduler's applyNPCReaction, not from this call.
type TalkHandler struct{}

func (h *TalkHandler) Type() Type { return Talk }

func (h *TalkHandler) Validate(ctx *Context) error {
	if ctx.Action.Params.NPCID == "" {
		return fmt.Errorf("talk requires npc_id")
	}
	npc, ok := ctx.World.GetEntity(ctx.Action.Params.NPCID)
	if !ok || npc.Type != worldstate.EntityNPC {
		return fmt.Errorf("unknown npc %q", ctx.Action.Params.NPCID)
	}
	return nil
}

func (h *TalkHandler) Process(ctx *Context) Result {
	if err := h.Validate(ctx); err != nil {
		return Failed(err.Error())
	}

	npc, _ := ctx.World.GetEntity(ctx.Action.Params.NPCID)

	ctx.World.LogEvent("npc_talk", map[string]any{
		"agent_id": ctx.AgentID,
		"npc_id":   npc.ID,
		"message":  ctx.Action.Params.Message,
	})

	response := npc.String("default_response", fmt.Sprintf("%s listens but says nothing yet.", npc.ID))

	return Succeeded(fmt.Sprintf("talked to %s", npc.ID), map[string]any{
		"npc_id":   npc.ID,
		"response": response,
		"ack":      true,
	})
}
