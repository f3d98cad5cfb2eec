// Package action implements the ActionEngine: one deterministic handler per
// verb, dispatched through a HandlerRegistry the way the teacher's
// internal/game/actions package dispatches MOVE/BUY/FIGHT handlers.
package action

// Type is an action verb. The legal set for a given instance is narrowed by
// the scenario template's allowed_actions at the Session layer; Type itself
// enumerates every verb this engine knows how to execute.
type Type string

const (
	Observe   Type = "observe"
	Move      Type = "move"
	Talk      Type = "talk"
	Negotiate Type = "negotiate"
	Buy       Type = "buy"
	Hire      Type = "hire"
	Steal     Type = "steal"
	Trade     Type = "trade"
	Interact  Type = "interact"
)

// Direction is one of the four cardinal move directions.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Params carries the union of per-verb parameters. Only the fields relevant
// to Action.Type are meaningful for a given call; handlers read only their
// own fields.
type Params struct {
	Radius         float64
	Direction      Direction
	Distance       float64
	NPCID          string
	Message        string
	ItemID         string
	OfferedPrice   float64
	StoreID        string
	GiveItemID     string
	ReceiveItemID  string
	EntityID       string
	InteractVerb   string
	Extra          map[string]any // generic fallback for AI-generated entity interactions
}

// Action is one player-submitted action against a session's WorldState.
type Action struct {
	AgentID string
	Type    Type
	Params  Params
}

// Result is the deterministic, synchronous outcome returned to the caller:
// spec.md §4.3's (success, message, update) triple.
type Result struct {
	Success bool
	Message string
	Update  map[string]any
}

// Failed builds a non-mutating failure result with a diagnostic message.
func Failed(message string) Result {
	return Result{Success: false, Message: message}
}

// Succeeded builds a success result with an optional update payload.
func Succeeded(message string, update map[string]any) Result {
	return Result{Success: true, Message: message, Update: update}
}
