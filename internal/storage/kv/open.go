package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/pratik-mahalle/nutriscan/internal/config"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/metrics"
	"github.com/pratik-mahalle/nutriscan/migrations"
)

// Open builds the configured backend. SQL backends are migrated before use.
// The returned store records operation latency metrics.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Driver {
	case "memory":
		store = NewMemoryStore()
	case "redis":
		store, err = OpenRedis(ctx, cfg.RedisURL)
	case "sqlite", "postgres", "mysql":
		db, dialect, openErr := OpenDB(cfg)
		if openErr != nil {
			return nil, openErr
		}
		migFS, fsErr := migrations.For(dialect.Name)
		if fsErr != nil {
			db.Close()
			return nil, fsErr
		}
		if _, err := RunMigrations(db, dialect, migFS); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		store = NewSQLStore(db, dialect)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	return Instrument(store, cfg.Driver), nil
}

// instrumented records latency for every operation of the wrapped store.
type instrumented struct {
	Store
	backend string
}

// Instrument wraps s so each call is observed by the store metrics.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

func (i *instrumented) observe(op string, start time.Time) {
	metrics.RecordStoreOp(op, i.backend, time.Since(start))
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	defer i.observe("get", time.Now())
	return i.Store.Get(ctx, key)
}

func (i *instrumented) Set(ctx context.Context, key string, value []byte) error {
	defer i.observe("set", time.Now())
	return i.Store.Set(ctx, key, value)
}

func (i *instrumented) Remove(ctx context.Context, key string) error {
	defer i.observe("remove", time.Now())
	return i.Store.Remove(ctx, key)
}

func (i *instrumented) Keys(ctx context.Context, prefix string) ([]string, error) {
	defer i.observe("keys", time.Now())
	return i.Store.Keys(ctx, prefix)
}
