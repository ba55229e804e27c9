// Package kvstore provides the device key-value stores the obstacle list can live in:
// a SQLite file for a single device, Redis for a shared or networked setup, and the
// in-memory store from pkg/obstacle for throwaway sessions.
package kvstore

import (
	"context"
	"fmt"

	"github.com/dyluth/roadlog/internal/config"
	"github.com/dyluth/roadlog/pkg/obstacle"
)

// Backend is an opened key-value store plus the capabilities it offers.
type Backend struct {
	KV obstacle.KV

	// Redis is set for the redis backend; it also publishes and streams change events.
	Redis *RedisKV

	close func() error
}

// Close releases the underlying connection or file.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Publisher returns the change-event publisher, or nil when the backend has none.
func (b *Backend) Publisher() obstacle.Publisher {
	if b.Redis == nil {
		return nil
	}
	return b.Redis
}

// Open connects the backend selected by the storage configuration.
// Redis connectivity is verified before returning.
func Open(ctx context.Context, cfg config.StorageConfig) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Backend{KV: db, close: db.Close}, nil

	case config.BackendRedis:
		rkv, err := NewRedisKV(cfg.RedisURL, cfg.Namespace)
		if err != nil {
			return nil, err
		}
		if err := rkv.Ping(ctx); err != nil {
			rkv.Close()
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisURL, err)
		}
		return &Backend{KV: rkv, Redis: rkv, close: rkv.Close}, nil

	case config.BackendMemory:
		return &Backend{KV: obstacle.NewMemoryKV()}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
