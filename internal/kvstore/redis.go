package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis implements Store on a Redis server, for deployments where the
// profile state should outlive the host running the storefront.
// Keys are stored without TTL: the containers decide when state dies.
type Redis struct {
	client *redis.Client
}

// NewRedis builds a Redis-backed store.
func NewRedis(addr, password string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

// newRedisWithClient is used by tests to point the store at miniredis.
func newRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Read returns the value stored under key, if present.
func (s *Redis) Read(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return val, true, nil
}

// Write stores value under key, replacing any previous value.
func (s *Redis) Write(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Remove deletes the key. Idempotent.
func (s *Redis) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying client connection pool.
func (s *Redis) Close() error {
	return s.client.Close()
}

// Compile-time check that Redis implements Store.
var _ Store = (*Redis)(nil)
