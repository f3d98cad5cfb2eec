// Package registry owns the lifecycle of every instance: generating,
// active, stopped. It mirrors the teacher's game.Manager — a mutex-guarded
// map plus CRUD methods — generalized from single-game-process ownership
// to many concurrently running instances.
package registry

import (
	"time"

	"github.com/lucas/simhost/internal/worldstate"
)

// Status is an instance's lifecycle state.
type Status string

const (
	StatusGenerating Status = "generating"
	StatusActive     Status = "active"
	StatusStopped    Status = "stopped"
)

// Instance is one running (or generating, or stopped) simulation.
type Instance struct {
	InstanceID string
	ScenarioID string
	World      *worldstate.WorldState
	PlayerIDs  []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Status     Status
}

// AddPlayer records a player as having joined, ignoring duplicates.
func (inst *Instance) AddPlayer(playerID string) {
	for _, id := range inst.PlayerIDs {
		if id == playerID {
			return
		}
	}
	inst.PlayerIDs = append(inst.PlayerIDs, playerID)
}
