// Package feed maintains the global activity feed: every instance's
// notable events in one capped, cross-instance stream, backed by a Redis
// list so multiple API server processes could share one feed.
package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lucas/simhost/internal/eventbus"
	"github.com/lucas/simhost/internal/persistence"
)

// Cap is the maximum number of entries the feed retains.
const Cap = 200

const redisKey = "simhost:feed"

// Feed is the global, cross-instance activity stream.
type Feed struct {
	redis *persistence.Redis

	// local is an in-memory fallback ring buffer used when Redis is not
	// connected (dev mode), so the /feed endpoint still works.
	mu    sync.Mutex
	local []Entry
}

// Entry is one feed record.
type Entry struct {
	InstanceID string    `json:"instance_id"`
	EventType  string    `json:"event_type"`
	Data       map[string]any `json:"data"`
	Timestamp  time.Time `json:"timestamp"`
}

// New creates a Feed backed by redis (may be disconnected, in which case
// the in-memory fallback is used).
func New(redisClient *persistence.Redis) *Feed {
	return &Feed{redis: redisClient}
}

// Publish appends one event to the global feed, trimming to Cap.
func (f *Feed) Publish(ctx context.Context, ev eventbus.GameEvent) {
	entry := Entry{
		InstanceID: ev.InstanceID,
		EventType:  ev.EventType,
		Data:       ev.Data,
		Timestamp:  ev.Timestamp,
	}

	if f.redis.IsConnected() {
		raw, err := json.Marshal(entry)
		if err == nil {
			client := f.redis.Client()
			pipe := client.TxPipeline()
			pipe.LPush(ctx, redisKey, raw)
			pipe.LTrim(ctx, redisKey, 0, Cap-1)
			pipe.Exec(ctx)
		}
		return
	}

	f.mu.Lock()
	f.local = append([]Entry{entry}, f.local...)
	if len(f.local) > Cap {
		f.local = f.local[:Cap]
	}
	f.mu.Unlock()
}

// Recent returns up to limit of the most recent feed entries, newest
// first. limit is clamped to [1, Cap].
func (f *Feed) Recent(ctx context.Context, limit int) []Entry {
	if limit <= 0 {
		limit = 1
	}
	if limit > Cap {
		limit = Cap
	}

	if f.redis.IsConnected() {
		raw, err := f.redis.Client().LRange(ctx, redisKey, 0, int64(limit-1)).Result()
		if err != nil {
			return nil
		}
		out := make([]Entry, 0, len(raw))
		for _, r := range raw {
			var e Entry
			if json.Unmarshal([]byte(r), &e) == nil {
				out = append(out, e)
			}
		}
		return out
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.local) {
		limit = len(f.local)
	}
	out := make([]Entry, limit)
	copy(out, f.local[:limit])
	return out
}
