package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lucas/simhost/internal/action"
	"github.com/lucas/simhost/internal/agentpool"
	"github.com/lucas/simhost/internal/config"
	"github.com/lucas/simhost/internal/feed"
	"github.com/lucas/simhost/internal/generator"
	"github.com/lucas/simhost/internal/llm"
	"github.com/lucas/simhost/internal/registry"
	"github.com/lucas/simhost/internal/scenario"
	"github.com/lucas/simhost/internal/session"
	"github.com/lucas/simhost/internal/ws"
)

// Handler holds every dependency the HTTP surface dispatches into.
type Handler struct {
	registry *registry.InstanceRegistry
	sessions *session.Manager
	pool     *agentpool.Pool
	gen      *generator.Generator
	feed     *feed.Feed
	hub      *ws.Hub
	cfg      *config.Config
	agents   *AgentDirectory

	wsHandler *ws.Handler
}

// NewHandler wires a Handler from the running server's components.
func NewHandler(reg *registry.InstanceRegistry, sessions *session.Manager, pool *agentpool.Pool, gen *generator.Generator, f *feed.Feed, hub *ws.Hub, cfg *config.Config) *Handler {
	h := &Handler{
		registry: reg,
		sessions: sessions,
		pool:     pool,
		gen:      gen,
		feed:     f,
		hub:      hub,
		cfg:      cfg,
		agents:   NewAgentDirectory(),
	}
	h.wsHandler = ws.NewHandler(hub, &snapshotAdapter{reg})
	return h
}

type snapshotAdapter struct {
	reg *registry.InstanceRegistry
}

func (a *snapshotAdapter) GetSnapshot(instanceID string) (any, error) {
	inst, err := a.reg.Get(instanceID)
	if err != nil {
		return nil, err
	}
	return inst.World.Snapshot(), nil
}

// Health reports server liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---- Player agent directory ----

// RegisterAgent registers a new player identity.
func (h *Handler) RegisterAgent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		req.Name = "Player"
	}
	agent := h.agents.Register(req.Name)
	writeJSON(w, http.StatusCreated, agent)
}

// ListAgents returns every registered player agent.
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.agents.List())
}

// GetAgent returns one registered player agent.
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	agent, ok := h.agents.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

// ---- Scenarios ----

// ListScenarios returns every known scenario template.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenario.List())
}

// GetScenario returns one scenario template.
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	tmpl, ok := scenario.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown scenario")
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

// CreateInstance creates and begins generating a new instance of a scenario
// template.
func (h *Handler) CreateInstance(w http.ResponseWriter, r *http.Request) {
	scenarioID := r.PathValue("id")
	tmpl, ok := scenario.Get(scenarioID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown scenario")
		return
	}

	inst := h.registry.Create(scenarioID, h.cfg.Sim.WorldWidth, h.cfg.Sim.WorldHeight, h.cfg.Sim.EventLogCap, h.cfg.Sim.SnapshotCap)
	inst.World.Properties["allowed_actions"] = tmpl.AllowedActions

	go func() {
		ctx := r.Context()
		if err := h.gen.Populate(ctx, inst.World, scenarioID, tmpl.Params, func() { h.registry.Activate(inst.InstanceID) }); err != nil {
			log.Error().Err(err).Str("instance_id", inst.InstanceID).Msg("instance generation failed")
		}
	}()

	writeJSON(w, http.StatusCreated, map[string]any{
		"instance_id": inst.InstanceID,
		"scenario_id": inst.ScenarioID,
		"status":      inst.Status,
	})
}

// ListInstances returns every instance.
func (h *Handler) ListInstances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.List())
}

// GetInstance returns one instance's current snapshot.
func (h *Handler) GetInstance(w http.ResponseWriter, r *http.Request) {
	inst, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"instance_id":  inst.InstanceID,
		"scenario_id":  inst.ScenarioID,
		"status":       inst.Status,
		"player_ids":   inst.PlayerIDs,
		"viewer_count": h.hub.RoomClientCount(inst.InstanceID),
		"snapshot":     inst.World.Snapshot(),
	})
}

// StopInstance stops an active instance (admin only).
func (h *Handler) StopInstance(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")
	if err := h.registry.Stop(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.sessions.EndInstance(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// DeleteInstance removes an instance entirely (admin only).
func (h *Handler) DeleteInstance(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")
	if err := h.registry.Delete(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.sessions.EndInstance(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// JoinInstance creates a session for an agent joining an active instance.
func (h *Handler) JoinInstance(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	agentID := r.URL.Query().Get("agent_id")
	if agentID == "" {
		writeError(w, http.StatusBadRequest, "agent_id is required")
		return
	}

	inst, err := h.registry.Join(id, agentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := h.sessions.Join(id, agentID, inst.World)
	writeJSON(w, http.StatusOK, map[string]any{
		"instance_id": id,
		"agent_id":    agentID,
		"status":      sess.Status(),
		"turn":        sess.Turn(),
	})
}

// actionRequest is the wire shape of a dispatched action.
type actionRequest struct {
	Type          string         `json:"type"`
	Radius        float64        `json:"radius,omitempty"`
	Direction     string         `json:"direction,omitempty"`
	Distance      float64        `json:"distance,omitempty"`
	NPCID         string         `json:"npc_id,omitempty"`
	Message       string         `json:"message,omitempty"`
	ItemID        string         `json:"item_id,omitempty"`
	OfferedPrice  float64        `json:"offered_price,omitempty"`
	StoreID       string         `json:"store_id,omitempty"`
	GiveItemID    string         `json:"give_item_id,omitempty"`
	ReceiveItemID string         `json:"receive_item_id,omitempty"`
	EntityID      string         `json:"entity_id,omitempty"`
	InteractVerb  string         `json:"interact_verb,omitempty"`
	Extra         map[string]any `json:"extra,omitempty"`
}

func (req actionRequest) toAction(agentID string) action.Action {
	return action.Action{
		AgentID: agentID,
		Type:    action.Type(req.Type),
		Params: action.Params{
			Radius:        req.Radius,
			Direction:     action.Direction(req.Direction),
			Distance:      req.Distance,
			NPCID:         req.NPCID,
			Message:       req.Message,
			ItemID:        req.ItemID,
			OfferedPrice:  req.OfferedPrice,
			StoreID:       req.StoreID,
			GiveItemID:    req.GiveItemID,
			ReceiveItemID: req.ReceiveItemID,
			EntityID:      req.EntityID,
			InteractVerb:  req.InteractVerb,
			Extra:         req.Extra,
		},
	}
}

// DispatchAction dispatches one action against an agent's session.
func (h *Handler) DispatchAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	agentID := r.URL.Query().Get("agent_id")
	if agentID == "" {
		writeError(w, http.StatusBadRequest, "agent_id is required")
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.sessions.Get(id, agentID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	result := sess.Dispatch(req.toAction(agentID))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": result.Success,
		"message": result.Message,
		"update":  result.Update,
		"status":  sess.Status(),
		"turn":    sess.Turn(),
		"score":   sess.Score(),
	})
}

// ---- Quick single-agent "games" flow: create + auto-join in one call ----

// StartGame creates an instance from a scenario, auto-joins one agent, and
// returns both ids together — a shortcut over the scenario/instance/join
// sequence for single-agent callers.
func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
		AgentName  string `json:"agent_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ScenarioID == "" {
		req.ScenarioID = "heist"
	}
	tmpl, ok := scenario.Get(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown scenario")
		return
	}
	if req.AgentName == "" {
		req.AgentName = "Player"
	}

	agent := h.agents.Register(req.AgentName)
	inst := h.registry.Create(req.ScenarioID, h.cfg.Sim.WorldWidth, h.cfg.Sim.WorldHeight, h.cfg.Sim.EventLogCap, h.cfg.Sim.SnapshotCap)
	inst.World.Properties["allowed_actions"] = tmpl.AllowedActions

	done := make(chan struct{})
	go func() {
		ctx := r.Context()
		if err := h.gen.Populate(ctx, inst.World, req.ScenarioID, tmpl.Params, func() { h.registry.Activate(inst.InstanceID); close(done) }); err != nil {
			log.Error().Err(err).Str("instance_id", inst.InstanceID).Msg("instance generation failed")
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
	}

	inst, _ = h.registry.Join(inst.InstanceID, agent.ID)
	sess := h.sessions.Join(inst.InstanceID, agent.ID, inst.World)

	writeJSON(w, http.StatusCreated, map[string]any{
		"game_id":  inst.InstanceID,
		"agent_id": agent.ID,
		"status":   sess.Status(),
	})
}

// GetGame returns one game's (instance's) state.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	h.GetInstance(w, r)
}

// GameAction dispatches an action in the quick-start flow, reading agent_id
// from the body instead of the query string.
func (h *Handler) GameAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		AgentID string `json:"agent_id"`
		actionRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.sessions.Get(id, req.AgentID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	result := sess.Dispatch(req.toAction(req.AgentID))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": result.Success,
		"message": result.Message,
		"update":  result.Update,
		"status":  sess.Status(),
		"turn":    sess.Turn(),
	})
}

// EndGame stops the underlying instance.
func (h *Handler) EndGame(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.registry.Stop(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.sessions.EndInstance(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// GameResult returns the final score/status for a game's single agent.
func (h *Handler) GameResult(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	agentID := r.URL.Query().Get("agent_id")

	sess, err := h.sessions.Get(id, agentID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": sess.Status(),
		"score":  sess.Score(),
		"turn":   sess.Turn(),
		"log":    sess.Log(),
	})
}

// ---- AI worker pool registration ----

func (h *Handler) RegisterAIAgent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Role     string `json:"role"`
		Provider string `json:"provider"`
		Endpoint string `json:"endpoint"`
		APIKey   string `json:"api_key"`
		TimeoutS int    `json:"timeout_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Role == "" || req.Endpoint == "" {
		writeError(w, http.StatusBadRequest, "name, role, and endpoint are required")
		return
	}

	timeout := h.cfg.LLM.DefaultTimeout
	if req.TimeoutS > 0 {
		timeout = time.Duration(req.TimeoutS) * time.Second
	}

	worker := llm.NewHTTPWorker(req.Name, req.Role, req.Provider, req.Endpoint, req.APIKey, timeout)
	if !h.pool.Register(worker) {
		writeError(w, http.StatusBadGateway, "agent failed to connect")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name, "role": req.Role})
}

func (h *Handler) UnregisterAIAgent(w http.ResponseWriter, r *http.Request) {
	h.pool.Unregister(r.PathValue("name"))
	writeJSON(w, http.StatusOK, map[string]string{"status": "unregistered"})
}

func (h *Handler) ListAIAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pool.Status())
}

func (h *Handler) AIAgentStatus(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	for role, ids := range h.pool.Status() {
		for _, id := range ids {
			if id == name {
				writeJSON(w, http.StatusOK, map[string]string{"name": name, "role": role, "status": "registered"})
				return
			}
		}
	}
	writeError(w, http.StatusNotFound, "worker not found")
}

func (h *Handler) AIAgentHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) AIAgentRequest(w http.ResponseWriter, r *http.Request) {
	role := r.PathValue("role")
	act := r.PathValue("action")

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.pool.Request(r.Context(), role, act, payload)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---- Global feed ----

// GetFeed returns the most recent global feed entries.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, h.feed.Recent(r.Context(), limit))
}

// ---- WebSocket ----

// WebSocket upgrades a connection to watch one instance's room.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.registry.Get(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.wsHandler.ServeWS(w, r, id)
}

// FeedWebSocket upgrades a connection to watch the global feed room.
func (h *Handler) FeedWebSocket(w http.ResponseWriter, r *http.Request) {
	h.wsHandler.ServeWS(w, r, ws.GlobalRoom)
}

// ---- helpers ----

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("x-admin-token") != h.cfg.Admin.Token {
		writeError(w, http.StatusForbidden, "admin token required")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
