package kvstore

import (
	"context"

	"github.com/pratik-mahalle/nutriscan/internal/domain/history"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/storage/kv"
)

// HistoryRepository implements history.Repository. A user's history is a
// single JSON array, newest first.
type HistoryRepository struct {
	store kv.Store
	log   *logger.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(store kv.Store, log *logger.Logger) history.Repository {
	return &HistoryRepository{store: store, log: log}
}

func (r *HistoryRepository) Load(ctx context.Context, userID string) ([]history.Entry, error) {
	var entries []history.Entry
	found, err := load(ctx, r.store, r.log, kv.UserKey(userID, kv.NameHistory), &entries)
	if err != nil || !found {
		return []history.Entry{}, err
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	return entries, nil
}

func (r *HistoryRepository) Save(ctx context.Context, userID string, entries []history.Entry) error {
	return save(ctx, r.store, kv.UserKey(userID, kv.NameHistory), entries)
}

func (r *HistoryRepository) Delete(ctx context.Context, userID string) error {
	return remove(ctx, r.store, kv.UserKey(userID, kv.NameHistory))
}
