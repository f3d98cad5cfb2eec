package api

import "net/http"

// NewRouter builds the HTTP router for the whole simhost API surface.
func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)

	// Player agent directory
	mux.HandleFunc("POST /agents/register", h.RegisterAgent)
	mux.HandleFunc("GET /agents", h.ListAgents)
	mux.HandleFunc("GET /agents/{id}", h.GetAgent)

	// Scenarios and instances
	mux.HandleFunc("GET /scenarios", h.ListScenarios)
	mux.HandleFunc("GET /scenarios/{id}", h.GetScenario)
	mux.HandleFunc("POST /scenarios/{id}/instances", h.CreateInstance)
	mux.HandleFunc("GET /scenarios/instances", h.ListInstances)
	mux.HandleFunc("GET /scenarios/instances/{id}", h.GetInstance)
	mux.HandleFunc("POST /scenarios/instances/{id}/stop", h.StopInstance)
	mux.HandleFunc("DELETE /scenarios/instances/{id}", h.DeleteInstance)
	mux.HandleFunc("POST /scenarios/instances/{id}/join", h.JoinInstance)
	mux.HandleFunc("POST /scenarios/instances/{id}/action", h.DispatchAction)

	// Quick single-agent game flow
	mux.HandleFunc("POST /games/start", h.StartGame)
	mux.HandleFunc("GET /games/{id}", h.GetGame)
	mux.HandleFunc("POST /games/{id}/action", h.GameAction)
	mux.HandleFunc("POST /games/{id}/end", h.EndGame)
	mux.HandleFunc("GET /games/{id}/result", h.GameResult)

	// AI worker pool (LLM-backed scenario generators / NPC reasoners)
	mux.HandleFunc("POST /ai-agents/register", h.RegisterAIAgent)
	mux.HandleFunc("POST /ai-agents/unregister/{name}", h.UnregisterAIAgent)
	mux.HandleFunc("GET /ai-agents/list", h.ListAIAgents)
	mux.HandleFunc("GET /ai-agents/status/{name}", h.AIAgentStatus)
	mux.HandleFunc("GET /ai-agents/health", h.AIAgentHealth)
	mux.HandleFunc("POST /ai-agents/request/{role}/{action}", h.AIAgentRequest)

	// Global activity feed
	mux.HandleFunc("GET /feed", h.GetFeed)

	// WebSocket viewers
	mux.HandleFunc("GET /ws/instances/{id}", h.WebSocket)
	mux.HandleFunc("GET /ws/feed", h.FeedWebSocket)

	return corsMiddleware(mux)
}

// corsMiddleware adds permissive CORS headers for development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, x-admin-token")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
