// Package kv provides the persistent key-value backends of the local
// annotation store.
package kv

import (
	"context"
	"fmt"
	"strings"
)

// Store is a small persistent key-value map.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Open builds the backend named by backend. location is a directory for
// "file", a database path for "bolt" and a URL for "redis".
func Open(backend, location string) (Store, error) {
	switch strings.ToLower(backend) {
	case BackendFile, "":
		return NewFileStore(location)
	case BackendBolt:
		return NewBoltStore(location)
	case BackendRedis:
		return NewRedisStore(location, "annotate:")
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
