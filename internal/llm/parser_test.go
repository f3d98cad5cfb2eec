package llm_test

import (
	"errors"
	"testing"

	"github.com/lucas/simhost/internal/llm"
)

func TestExtractJSON_MarkdownCodeFence(t *testing.T) {
	text := "Here you go:\n```json\n{\"mood\": \"wary\"}\n```\nhope that helps"
	got := llm.ExtractJSON(text)
	if got != `{"mood": "wary"}` {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractJSON_BareObject(t *testing.T) {
	text := `some preamble {"mood": "calm"} trailing text`
	got := llm.ExtractJSON(text)
	if got != `{"mood": "calm"}` {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestParseJSONObject(t *testing.T) {
	out, err := llm.ParseJSONObject([]byte("```json\n{\"a\": 1}\n```"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["a"] != float64(1) {
		t.Errorf("unexpected parse result: %v", out)
	}
}

func TestParseNPCReaction_PassesThroughUpstreamError(t *testing.T) {
	upstreamErr := errors.New("dispatch timed out")
	_, err := llm.ParseNPCReaction(nil, upstreamErr)
	if !errors.Is(err, upstreamErr) {
		t.Errorf("expected upstream error to pass through, got %v", err)
	}
}

func TestParseNPCReaction_DecodesFields(t *testing.T) {
	update := map[string]any{
		"message":      "back off",
		"mood":         "angry",
		"trust_delta":  -0.2,
		"health_delta": 0.0,
	}
	reaction, err := llm.ParseNPCReaction(update, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reaction.Message != "back off" || reaction.Mood != "angry" || reaction.TrustDelta != -0.2 {
		t.Errorf("unexpected reaction: %+v", reaction)
	}
}

func TestParseNPCIdle_DecodesFields(t *testing.T) {
	update := map[string]any{"patrol_target": "north_gate", "dx": 1.5, "dy": -1.0}
	idle, err := llm.ParseNPCIdle(update, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idle.PatrolTarget != "north_gate" || idle.DX != 1.5 || idle.DY != -1.0 {
		t.Errorf("unexpected idle result: %+v", idle)
	}
}
