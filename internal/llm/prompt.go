package llm

import (
	"fmt"
	"strings"

	"github.com/lucas/simhost/internal/agentpool"
	"github.com/lucas/simhost/internal/eventbus"
	"github.com/lucas/simhost/internal/worldstate"
)

// BuildReactionPrompt assembles the npc_reaction payload prompt: the npc's
// own state, its recent conversation history, and the events it needs to
// react to this tick.
func BuildReactionPrompt(npc *worldstate.Entity, history []agentpool.Turn, events []eventbus.GameEvent) string {
	var sb strings.Builder

	sb.WriteString("[NPC State]\n")
	sb.WriteString(fmt.Sprintf("id: %s\n", npc.ID))
	pos := npc.GetPosition()
	sb.WriteString(fmt.Sprintf("position: (%.0f, %.0f)\n", pos.X, pos.Y))
	sb.WriteString(fmt.Sprintf("mood: %s\n", npc.String("mood", "neutral")))
	sb.WriteString(fmt.Sprintf("trust: %.2f\n", npc.Float("trust", 0.5)))

	if len(history) > 0 {
		sb.WriteString("\n[Recent Conversation]\n")
		for _, t := range history {
			sb.WriteString(fmt.Sprintf("%s: %s\n", t.Speaker, t.Message))
		}
	}

	sb.WriteString("\n[Events To React To]\n")
	for _, ev := range events {
		sb.WriteString(fmt.Sprintf("- %s: %v\n", ev.EventType, ev.Data))
	}

	sb.WriteString("\nRespond with JSON: {\"message\": str, \"mood\": str, \"trust_delta\": float, \"health_delta\": float}\n")
	return sb.String()
}

// BuildIdlePrompt assembles the npc_idle payload prompt for an npc that has
// had no events to react to for IDLE_INTERVAL ticks.
func BuildIdlePrompt(npc *worldstate.Entity, world *worldstate.WorldState) string {
	var sb strings.Builder

	sb.WriteString("[NPC State]\n")
	sb.WriteString(fmt.Sprintf("id: %s\n", npc.ID))
	pos := npc.GetPosition()
	sb.WriteString(fmt.Sprintf("position: (%.0f, %.0f)\n", pos.X, pos.Y))
	sb.WriteString(fmt.Sprintf("mood: %s\n", npc.String("mood", "neutral")))
	sb.WriteString(fmt.Sprintf("world bounds: %.0fx%.0f\n", world.Width, world.Height))

	sb.WriteString("\nNothing has happened recently. Choose idle behavior.\n")
	sb.WriteString("Respond with JSON: {\"patrol_target\": str, \"mood\": str, \"dx\": float, \"dy\": float}\n")
	return sb.String()
}

// BuildScenarioPrompt assembles the scenario_generator payload prompt for
// populating a new instance from a template.
func BuildScenarioPrompt(templateName string, params map[string]any) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[Scenario Template]\n%s\n\n[Parameters]\n", templateName))
	for k, v := range params {
		sb.WriteString(fmt.Sprintf("%s: %v\n", k, v))
	}
	sb.WriteString("\nRespond with JSON describing stores, npcs, items, and target_item_id to populate the instance.\n")
	return sb.String()
}
