// Package persistence stores instance snapshots in Postgres and caches the
// global feed in Redis, adapted from the teacher's db.Postgres/db.Redis
// connection wrappers.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/lucas/simhost/internal/eventbus"
	"github.com/lucas/simhost/internal/worldstate"
)

// Postgres manages the connection pool and instance-snapshot persistence.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a connection pool. An empty connString yields a
// disconnected Postgres — callers check IsConnected before relying on it,
// the way dev mode runs without a database at all.
func NewPostgres(connString string) (*Postgres, error) {
	if connString == "" {
		return &Postgres{}, nil
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().Msg("connected to postgres")
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}

// IsConnected reports whether the pool is usable.
func (p *Postgres) IsConnected() bool {
	return p != nil && p.pool != nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS instances (
	instance_id TEXT PRIMARY KEY,
	scenario_id TEXT NOT NULL,
	status TEXT NOT NULL,
	state JSONB NOT NULL,
	events JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the instances table if it doesn't already exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if !p.IsConnected() {
		return nil
	}
	_, err := p.pool.Exec(ctx, schemaDDL)
	return err
}

// SaveInstance upserts an instance's snapshot and event log.
func (p *Postgres) SaveInstance(ctx context.Context, instanceID, scenarioID, status string, snap worldstate.Snapshot, fullLog []eventbus.GameEvent) error {
	if !p.IsConnected() {
		return nil
	}

	stateJSON, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	eventsJSON, err := json.Marshal(fullLog)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO instances (instance_id, scenario_id, status, state, events, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (instance_id) DO UPDATE SET
			status = EXCLUDED.status,
			state = EXCLUDED.state,
			events = EXCLUDED.events,
			updated_at = now()
	`, instanceID, scenarioID, status, stateJSON, eventsJSON)
	return err
}

// LoadInstance reads back a saved instance's snapshot and event log.
func (p *Postgres) LoadInstance(ctx context.Context, instanceID string) (worldstate.Snapshot, []eventbus.GameEvent, string, error) {
	var snap worldstate.Snapshot
	var fullLog []eventbus.GameEvent
	var status string
	var stateJSON, eventsJSON []byte

	if !p.IsConnected() {
		return snap, nil, "", fmt.Errorf("postgres not connected")
	}

	row := p.pool.QueryRow(ctx, `SELECT status, state, events FROM instances WHERE instance_id = $1`, instanceID)
	if err := row.Scan(&status, &stateJSON, &eventsJSON); err != nil {
		return snap, nil, "", err
	}
	if err := json.Unmarshal(stateJSON, &snap); err != nil {
		return snap, nil, "", fmt.Errorf("unmarshal state: %w", err)
	}
	if err := json.Unmarshal(eventsJSON, &fullLog); err != nil {
		return snap, nil, "", fmt.Errorf("unmarshal events: %w", err)
	}
	return snap, fullLog, status, nil
}

// DeleteInstance removes a persisted instance row.
func (p *Postgres) DeleteInstance(ctx context.Context, instanceID string) error {
	if !p.IsConnected() {
		return nil
	}
	_, err := p.pool.Exec(ctx, `DELETE FROM instances WHERE instance_id = $1`, instanceID)
	return err
}
