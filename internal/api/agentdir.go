package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// PlayerAgent is a registered player identity, independent of any instance
// it later joins.
type PlayerAgent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AgentDirectory tracks every registered player agent, the way the teacher
// tracks connected players per game, generalized to span instances.
type AgentDirectory struct {
	mu     sync.RWMutex
	agents map[string]*PlayerAgent
}

// NewAgentDirectory creates an empty directory.
func NewAgentDirectory() *AgentDirectory {
	return &AgentDirectory{agents: make(map[string]*PlayerAgent)}
}

// Register creates a new agent identity.
func (d *AgentDirectory) Register(name string) *PlayerAgent {
	agent := &PlayerAgent{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	d.mu.Lock()
	d.agents[agent.ID] = agent
	d.mu.Unlock()
	return agent
}

// Get looks up an agent by id.
func (d *AgentDirectory) Get(id string) (*PlayerAgent, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.agents[id]
	return a, ok
}

// List returns every registered agent.
func (d *AgentDirectory) List() []*PlayerAgent {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*PlayerAgent, 0, len(d.agents))
	for _, a := range d.agents {
		out = append(out, a)
	}
	return out
}
