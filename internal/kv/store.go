// Package kv provides the single-key blob stores that hold persisted application state.
// Every backend stores whole values: a write replaces the previous value for the key.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store reads and writes whole values by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names a Store implementation.
type Backend string

// Supported backends
const (
	BackendMemory   Backend = "memory"
	BackendFile     Backend = "file"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend     Backend
	DataDir     string
	DatabaseURL string
	RedisAddr   string
}

// Open connects to the configured backend. Network backends are pinged before returning.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case "", BackendFile:
		return NewFileStore(cfg.DataDir)
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.DataDir)
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL is required for the postgres backend")
		}
		return ConnectPostgres(ctx, cfg.DatabaseURL)
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis address is required for the redis backend")
		}
		return ConnectRedis(ctx, cfg.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
