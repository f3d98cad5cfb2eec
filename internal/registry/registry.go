package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lucas/simhost/internal/eventbus"
	"github.com/lucas/simhost/internal/worldstate"
)

// InstanceRegistry holds every instance known to the server.
type InstanceRegistry struct {
	mu        sync.RWMutex
	instances map[string]*Instance
	bus       *eventbus.EventBus
}

// New creates an empty registry wired to the shared event bus so Delete can
// clear an instance's queue.
func New(bus *eventbus.EventBus) *InstanceRegistry {
	return &InstanceRegistry{
		instances: make(map[string]*Instance),
		bus:       bus,
	}
}

// Create allocates a new instance in the generating state with a fresh
// WorldState, and returns it for the caller to hand to the Generator.
func (r *InstanceRegistry) Create(scenarioID string, width, height float64, logCap, viewCap int) *Instance {
	id := uuid.NewString()
	world := worldstate.New(id, width, height, logCap, viewCap, r.bus)

	now := time.Now()
	inst := &Instance{
		InstanceID: id,
		ScenarioID: scenarioID,
		World:      world,
		CreatedAt:  now,
		UpdatedAt:  now,
		Status:     StatusGenerating,
	}

	r.mu.Lock()
	r.instances[id] = inst
	r.mu.Unlock()

	return inst
}

// Get retrieves an instance by id.
func (r *InstanceRegistry) Get(instanceID string) (*Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[instanceID]
	if !ok {
		return nil, ErrInstanceNotFound
	}
	return inst, nil
}

// List returns every known instance, newest first.
func (r *InstanceRegistry) List() []*Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Instance, 0, len(r.instances))
	for _, inst := range r.instances {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ListActive returns every instance currently in the active state, the set
// the Scheduler ticks over.
func (r *InstanceRegistry) ListActive() []*Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Instance
	for _, inst := range r.instances {
		if inst.Status == StatusActive {
			out = append(out, inst)
		}
	}
	return out
}

// Activate flips an instance from generating to active. Intended as the
// Generator's onActive callback.
func (r *InstanceRegistry) Activate(instanceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst, ok := r.instances[instanceID]; ok {
		inst.Status = StatusActive
		inst.UpdatedAt = time.Now()
	}
}

// Stop marks an instance stopped without deleting its state — it drops out
// of the Scheduler's active set but remains inspectable.
func (r *InstanceRegistry) Stop(instanceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[instanceID]
	if !ok {
		return ErrInstanceNotFound
	}
	if inst.Status == StatusStopped {
		return ErrAlreadyStopped
	}
	inst.Status = StatusStopped
	inst.UpdatedAt = time.Now()
	return nil
}

// Delete removes an instance entirely and clears its pending event queue.
func (r *InstanceRegistry) Delete(instanceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.instances[instanceID]; !ok {
		return ErrInstanceNotFound
	}
	delete(r.instances, instanceID)
	if r.bus != nil {
		r.bus.ClearInstance(instanceID)
	}
	return nil
}

// Join records a player as having joined an active instance.
func (r *InstanceRegistry) Join(instanceID, playerID string) (*Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[instanceID]
	if !ok {
		return nil, ErrInstanceNotFound
	}
	if inst.Status != StatusActive {
		return nil, ErrInstanceNotActive
	}
	inst.AddPlayer(playerID)
	return inst, nil
}
