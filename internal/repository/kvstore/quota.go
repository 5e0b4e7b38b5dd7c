package kvstore

import (
	"context"

	"github.com/pratik-mahalle/nutriscan/internal/domain/quota"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/storage/kv"
)

// QuotaRepository implements quota.Repository
type QuotaRepository struct {
	store kv.Store
	log   *logger.Logger
}

// NewQuotaRepository creates a new daily counter repository
func NewQuotaRepository(store kv.Store, log *logger.Logger) quota.Repository {
	return &QuotaRepository{store: store, log: log}
}

func (r *QuotaRepository) Get(ctx context.Context, userID string) (quota.Counter, error) {
	var c quota.Counter
	found, err := load(ctx, r.store, r.log, kv.UserKey(userID, kv.NameDailyScans), &c)
	if err != nil || !found || c.Count < 0 {
		return quota.Counter{}, err
	}
	return c, nil
}

func (r *QuotaRepository) Save(ctx context.Context, userID string, c quota.Counter) error {
	return save(ctx, r.store, kv.UserKey(userID, kv.NameDailyScans), c)
}

func (r *QuotaRepository) Delete(ctx context.Context, userID string) error {
	return remove(ctx, r.store, kv.UserKey(userID, kv.NameDailyScans))
}

// DeleteStale re-reads the counter so a scan saved after a listing is kept
func (r *QuotaRepository) DeleteStale(ctx context.Context, userID, today string) (bool, error) {
	key := kv.UserKey(userID, kv.NameDailyScans)
	var c quota.Counter
	found, err := load(ctx, r.store, r.log, key, &c)
	if err != nil {
		return false, err
	}
	if found && c.Date == today {
		return false, nil
	}
	if err := remove(ctx, r.store, key); err != nil {
		return false, err
	}
	return true, nil
}

func (r *QuotaRepository) All(ctx context.Context) (map[string]quota.Counter, error) {
	keys, err := r.store.Keys(ctx, kv.Namespace+":user:")
	if err != nil {
		return nil, errors.StorageError("Failed to list counters", err)
	}

	out := make(map[string]quota.Counter)
	for _, k := range keys {
		userID, name, ok := kv.SplitUserKey(k)
		if !ok || name != kv.NameDailyScans {
			continue
		}
		c, err := r.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		out[userID] = c
	}
	return out, nil
}
