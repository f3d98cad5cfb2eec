package action

import (
	"github.com/lucas/simhost/internal/randsrc"
	"github.com/lucas/simhost/internal/worldstate"
)

// Handler is the contract every verb implementation satisfies, mirroring
// the teacher's ActionHandler/ActionContext/HandlerRegistry split so each
// verb lives in its own small file.
type Handler interface {
	// Type returns the verb this handler processes.
	Type() Type
	// Validate reports whether the action's parameters are well-formed for
	// the current world. It does not mutate anything.
	Validate(ctx *Context) error
	// Process executes the action and returns the deterministic result.
	// Process may assume Validate has already been checked by the caller
	// but must not panic if it wasn't.
	Process(ctx *Context) Result
}

// Context carries everything a handler needs to process one action.
type Context struct {
	World   *worldstate.WorldState
	AgentID string
	Action  Action
	Rand    randsrc.Source
	Turn    int
}

// Registry maps verbs to their handler.
type Registry struct {
	handlers map[Type]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Type]Handler)}
}

// Register adds a handler, keyed by its own Type().
func (r *Registry) Register(h Handler) {
	r.handlers[h.Type()] = h
}

// Get retrieves the handler for a verb.
func (r *Registry) Get(t Type) (Handler, bool) {
	h, ok := r.handlers[t]
	return h, ok
}

// RegisterAll wires every built-in verb handler into a fresh registry.
func RegisterAll(r *Registry) {
	r.Register(&ObserveHandler{})
	r.Register(&MoveHandler{})
	r.Register(&TalkHandler{})
	r.Register(&NegotiateHandler{})
	r.Register(&BuyHandler{})
	r.Register(&HireHandler{})
	r.Register(&StealHandler{})
	r.Register(&TradeHandler{})
	r.Register(&InteractHandler{})
}
