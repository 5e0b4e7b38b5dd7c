// Package kvstore implements the domain repositories on top of the kv port.
package kvstore

import (
	"context"
	"errors"

	apperrors "github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/storage/kv"
)

// load reads a JSON document. It reports false for missing documents and
// for corrupt ones, which are logged and otherwise ignored.
func load(ctx context.Context, store kv.Store, log *logger.Logger, key string, dst interface{}) (bool, error) {
	err := kv.GetJSON(ctx, store, key, dst)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, kv.ErrNotFound):
		return false, nil
	case errors.Is(err, kv.ErrCorrupt):
		log.WithFields(map[string]interface{}{"key": key}).WarnWithErr(err, "Ignoring corrupt stored value")
		return false, nil
	default:
		return false, apperrors.StorageError("Failed to read stored data", err)
	}
}

func save(ctx context.Context, store kv.Store, key string, v interface{}) error {
	if err := kv.SetJSON(ctx, store, key, v); err != nil {
		return apperrors.StorageError("Failed to write stored data", err)
	}
	return nil
}

func remove(ctx context.Context, store kv.Store, key string) error {
	if err := store.Remove(ctx, key); err != nil {
		return apperrors.StorageError("Failed to delete stored data", err)
	}
	return nil
}
