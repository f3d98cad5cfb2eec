package persistence

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis wraps a client used as the backing store for the global feed ring
// buffer.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to addr. An empty addr yields a disconnected Redis.
func NewRedis(addr string) (*Redis, error) {
	if addr == "" {
		return &Redis{}, nil
	}

	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	log.Info().Msg("connected to redis")
	return &Redis{client: client}, nil
}

// Close closes the client.
func (r *Redis) Close() error {
	if r != nil && r.client != nil {
		return r.client.Close()
	}
	return nil
}

// Client returns the underlying client, for packages (feed) that need
// direct list/pubsub operations.
func (r *Redis) Client() *redis.Client {
	return r.client
}

// IsConnected reports whether the client is usable.
func (r *Redis) IsConnected() bool {
	return r != nil && r.client != nil
}
