package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var codeBlockPattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")
var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// ExtractJSON pulls a JSON object out of potentially messy agent output —
// wrapped in a markdown code fence, preceded by commentary, or bare.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if matches := codeBlockPattern.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	if match := jsonObjectPattern.FindString(text); match != "" {
		return match
	}
	return text
}

// ParseJSONObject extracts and unmarshals a JSON object from raw agent
// output into a generic map. Callers that need typed access pass that map
// to ParseNPCReaction or ParseNPCIdle, which decode it into NPCReaction or
// NPCIdle.
func ParseJSONObject(raw []byte) (map[string]any, error) {
	jsonStr := ExtractJSON(string(raw))
	var out map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		return nil, fmt.Errorf("parse agent response: %w", err)
	}
	return out, nil
}

// NPCReaction is the npc_reaction role's expected payload shape.
type NPCReaction struct {
	Message     string  `json:"message"`
	Mood        string  `json:"mood,omitempty"`
	TrustDelta  float64 `json:"trust_delta,omitempty"`
	HealthDelta float64 `json:"health_delta,omitempty"`
}

// NPCIdle is the npc_idle role's expected payload shape.
type NPCIdle struct {
	PatrolTarget string  `json:"patrol_target,omitempty"`
	Mood         string  `json:"mood,omitempty"`
	DX           float64 `json:"dx,omitempty"`
	DY           float64 `json:"dy,omitempty"`
}

// ParseNPCReaction parses an npc_reaction response. A malformed reply never
// raises: it returns a zero-value NPCReaction and the parse error, leaving
// the caller to apply an empty update rather than crash the tick loop.
func ParseNPCReaction(update map[string]any, err error) (NPCReaction, error) {
	if err != nil {
		return NPCReaction{}, err
	}
	return decodeInto[NPCReaction](update)
}

// ParseNPCIdle parses an npc_idle response, same contract as
// ParseNPCReaction.
func ParseNPCIdle(update map[string]any, err error) (NPCIdle, error) {
	if err != nil {
		return NPCIdle{}, err
	}
	return decodeInto[NPCIdle](update)
}

func decodeInto[T any](m map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(m)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}
