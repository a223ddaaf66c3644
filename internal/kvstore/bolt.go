package kvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "github.com/boltdb/bolt"
)

const bucketName = "storefront"

// Bolt implements Store on top of a single-file embedded BoltDB database.
// This is the default backend: one file per shopper profile, no external
// process required, same durability role localStorage played upstream.
type Bolt struct {
	db *bolt.DB
}

// NewBolt opens (or creates) a BoltDB database at the given path and ensures
// the storefront bucket exists.
func NewBolt(path string) (*Bolt, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &Bolt{db: db}, nil
}

// Read returns the value stored under key, if present.
func (s *Bolt) Read(_ context.Context, key string) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if v == nil {
			return nil
		}
		out = make([]byte, len(v))
		copy(out, v)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return out, out != nil, nil
}

// Write stores value under key, replacing any previous value.
func (s *Bolt) Write(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Remove deletes the key. Bolt's Delete is a no-op for absent keys, so this
// is idempotent.
func (s *Bolt) Remove(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

// Close releases the database file lock.
func (s *Bolt) Close() error {
	return s.db.Close()
}

// Compile-time check that Bolt implements Store.
var _ Store = (*Bolt)(nil)
