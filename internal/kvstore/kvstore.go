// Package kvstore provides the durable key-value store backing the session
// and cart containers.
//
// The adapter deliberately traffics in raw bytes: containers own their JSON
// encoding, and a malformed persisted value is detected by the caller on
// decode and reset to a default, never surfaced as a crash.
package kvstore

import (
	"context"

	"github.com/mundolibro/storefront/internal"
)

// Store defines the persistence contract for the state containers.
// Implementations must be durable across process restarts except for the
// in-memory backend, which exists for tests and ephemeral runs.
type Store interface {
	// Read returns the value stored under key, and whether the key exists.
	Read(ctx context.Context, key string) ([]byte, bool, error)

	// Write stores value under key, replacing any previous value.
	Write(ctx context.Context, key string, value []byte) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases any underlying resources.
	Close() error
}

// New creates a Store implementation based on configuration.
func New(cfg internal.StoreConfig) (Store, error) {
	switch cfg.Provider {
	case "memory":
		return NewMemory(), nil
	case "bolt", "":
		return NewBolt(cfg.BoltPath)
	case "redis":
		return NewRedis(cfg.RedisAddr, cfg.RedisPassword), nil
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}
