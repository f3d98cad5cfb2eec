package agentpool

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Turn is one exchange recorded against an npc's conversation history.
type Turn struct {
	Speaker string
	Message string
}

// historyCap bounds how many recent turns are kept per npc before the
// oldest is evicted.
const historyCap = 10

// History keeps a bounded, FIFO-evicted conversation window per npc, shared
// across the workers so a reaction dispatch carries enough context without
// WorldState growing an unbounded transcript.
type History struct {
	mu    sync.Mutex
	cache *lru.Cache[string, []Turn]
}

// NewHistory creates a history keyed by npc id, capped at maxNPCs npcs
// tracked simultaneously (256 when maxNPCs is not positive; eviction here
// is per-npc-slot, not per-turn — each slot itself holds at most
// historyCap turns).
func NewHistory(maxNPCs int) *History {
	if maxNPCs <= 0 {
		maxNPCs = 256
	}
	c, err := lru.New[string, []Turn](maxNPCs)
	if err != nil {
		// Only returns an error for a non-positive size, which is guarded
		// above.
		panic(err)
	}
	return &History{cache: c}
}

// Append records one turn for an npc, evicting the oldest turn once the
// npc's window exceeds historyCap.
func (h *History) Append(npcID string, t Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	turns, _ := h.cache.Get(npcID)
	turns = append(turns, t)
	if len(turns) > historyCap {
		turns = turns[len(turns)-historyCap:]
	}
	h.cache.Add(npcID, turns)
}

// Recent returns a copy of an npc's recent turns, oldest first.
func (h *History) Recent(npcID string) []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()

	turns, ok := h.cache.Get(npcID)
	if !ok {
		return nil
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Forget drops an npc's history entirely, called when its instance ends.
func (h *History) Forget(npcID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache.Remove(npcID)
}
