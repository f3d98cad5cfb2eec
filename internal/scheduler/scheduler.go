// Package scheduler runs the tick loop driving every active instance's
// NPCs: a Reaction Phase that answers events as they happen and an
// Autonomous Phase that gives idle NPCs something to do, mirroring the
// teacher's Engine.runLoop/processTick split generalized from one game's
// single tick to many instances ticked together.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lucas/simhost/internal/agentpool"
	"github.com/lucas/simhost/internal/eventbus"
	"github.com/lucas/simhost/internal/metrics"
	"github.com/lucas/simhost/internal/registry"
)

// Scheduler owns the ticker goroutine. Start and Stop both hold mu, so
// concurrent calls to them are serialized.
type Scheduler struct {
	mu     sync.Mutex
	cancel context.CancelFunc

	registry *registry.InstanceRegistry
	bus      *eventbus.EventBus
	pool     *agentpool.Pool
	history  *agentpool.History
	metrics  *metrics.Metrics

	tickRate      time.Duration
	idleInterval  int
	reactDeadline time.Duration

	tick int
}

// New creates a Scheduler. idleInterval is the number of ticks between
// autonomous dispatches for an otherwise-idle npc; reactDeadline bounds how
// long a single npc_reaction dispatch may run before being dropped.
func New(reg *registry.InstanceRegistry, bus *eventbus.EventBus, pool *agentpool.Pool, history *agentpool.History, m *metrics.Metrics, tickRate time.Duration, idleInterval int, reactDeadline time.Duration) *Scheduler {
	if idleInterval <= 0 {
		idleInterval = 30
	}
	if reactDeadline <= 0 {
		reactDeadline = 8 * time.Second
	}
	return &Scheduler{
		registry:      reg,
		bus:           bus,
		pool:          pool,
		history:       history,
		metrics:       m,
		tickRate:      tickRate,
		idleInterval:  idleInterval,
		reactDeadline: reactDeadline,
	}
}

// Start launches the tick loop in a background goroutine.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.runLoop(ctx)
}

// Stop cancels the tick loop. Safe to call even if Start was never called.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Scheduler) runLoop(ctx context.Context) {
	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.processTick(ctx)
		}
	}
}

func (s *Scheduler) processTick(ctx context.Context) {
	start := time.Now()
	s.tick++
	tick := s.tick

	for _, inst := range s.registry.List() {
		if inst.Status == registry.StatusStopped {
			s.bus.ClearInstance(inst.InstanceID)
		}
	}

	for _, inst := range s.registry.ListActive() {
		inst.World.IncrementTurn()

		covered := s.reactionPhase(ctx, inst)

		if tick%s.idleInterval == 0 {
			s.autonomousPhase(ctx, inst, covered)
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveTick(time.Since(start))
	}
}

// coveredSet tracks which npc ids already got a reaction dispatch this tick,
// so the autonomous phase skips them.
type coveredSet map[string]bool

func logDropped(instanceID, npcID, phase string, err error) {
	log.Warn().Str("instance", instanceID).Str("npc", npcID).Str("phase", phase).Err(err).Msg("dispatch dropped")
}
