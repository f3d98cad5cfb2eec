package persistence

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/lucas/simhost/internal/registry"
)

// Housekeeper periodically snapshots every known instance to Postgres, the
// way the teacher periodically flushes game state to its database.
type Housekeeper struct {
	cron *cron.Cron
	pg   *Postgres
	reg  *registry.InstanceRegistry
}

// NewHousekeeper builds a housekeeper that has not started yet.
func NewHousekeeper(pg *Postgres, reg *registry.InstanceRegistry) *Housekeeper {
	return &Housekeeper{cron: cron.New(), pg: pg, reg: reg}
}

// Start schedules the snapshot sweep on spec and starts the cron runner.
// spec is a standard 5-field cron expression (e.g. "*/30 * * * * *" style
// schedules aren't supported by the default parser; use "@every 30s" for
// sub-minute periods).
func (h *Housekeeper) Start(spec string) error {
	if !h.pg.IsConnected() {
		return nil
	}
	_, err := h.cron.AddFunc(spec, h.sweep)
	if err != nil {
		return err
	}
	h.cron.Start()
	return nil
}

// Stop halts the cron runner, waiting for an in-flight sweep to finish.
func (h *Housekeeper) Stop() {
	ctx := h.cron.Stop()
	<-ctx.Done()
}

func (h *Housekeeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, inst := range h.reg.List() {
		snap := inst.World.Snapshot()
		fullLog := inst.World.FullEventLog()
		if err := h.pg.SaveInstance(ctx, inst.InstanceID, inst.ScenarioID, string(inst.Status), snap, fullLog); err != nil {
			log.Warn().Err(err).Str("instance_id", inst.InstanceID).Msg("failed to persist instance snapshot")
		}
	}
}
