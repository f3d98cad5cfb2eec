// Package llm implements agentpool.Worker for remote AI agents: an
// HTTP-backed provider worker generalized from the teacher's single-vendor
// Gemini client to accept any provider tag, plus a mock worker used in dev
// mode and tests.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Provider identifies which vendor a worker talks to. Legacy scenario
// templates sometimes say "gpt"; normalizeProvider maps that to "openai" so
// older templates keep working without a migration step.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

func normalizeProvider(raw string) Provider {
	switch raw {
	case "gpt":
		return ProviderOpenAI
	case string(ProviderAnthropic):
		return ProviderAnthropic
	default:
		return ProviderOpenAI
	}
}

// HTTPWorker dispatches role requests to a remote AI agent endpoint over
// HTTP, posting the action and payload as JSON and parsing the JSON body it
// gets back.
type HTTPWorker struct {
	id       string
	role     string
	provider Provider
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPWorker creates a worker bound to one registered agent's endpoint.
func NewHTTPWorker(id, role, providerTag, endpoint, apiKey string, timeout time.Duration) *HTTPWorker {
	return &HTTPWorker{
		id:       id,
		role:     role,
		provider: normalizeProvider(providerTag),
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

func (w *HTTPWorker) ID() string   { return w.id }
func (w *HTTPWorker) Role() string { return w.role }

// Connect validates the worker is configured with an endpoint to dispatch
// to. It does not probe the endpoint itself: a transient outage at
// registration time shouldn't permanently bar a worker whose endpoint
// becomes reachable again, and dispatch failures are already handled
// per-request by HandleRequest's caller.
func (w *HTTPWorker) Connect() bool {
	return w.endpoint != ""
}

// Disconnect is a no-op: HTTPWorker holds no persistent connection beyond
// its http.Client, which needs no explicit teardown.
func (w *HTTPWorker) Disconnect() bool {
	return true
}

type dispatchEnvelope struct {
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload"`
}

// HandleRequest posts the action and payload to the worker's endpoint and
// parses the JSON reply. Network failures and any status other than 200 OK
// are returned as errors for the caller (the Scheduler's reaction dispatch) to
// treat as a dropped reaction, never panicking the tick loop.
func (w *HTTPWorker) HandleRequest(ctx context.Context, action string, payload map[string]any) (map[string]any, error) {
	body, err := json.Marshal(dispatchEnvelope{Action: action, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.apiKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		log.Warn().Str("worker", w.id).Str("role", w.role).Err(err).Msg("agent dispatch failed")
		return nil, fmt.Errorf("dispatch to %s: %w", w.id, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn().Str("worker", w.id).Int("status", resp.StatusCode).Str("body", string(raw)).Msg("agent returned non-200")
		return nil, fmt.Errorf("agent %s returned status %d", w.id, resp.StatusCode)
	}

	parsed, err := ParseJSONObject(raw)
	if err != nil {
		log.Warn().Str("worker", w.id).Str("action", action).Err(err).Msg("agent reply not parseable")
		return nil, err
	}
	return parsed, nil
}
