package kvstore

import (
	"context"

	"github.com/pratik-mahalle/nutriscan/internal/domain/profile"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/storage/kv"
)

// ProfileRepository implements profile.Repository
type ProfileRepository struct {
	store kv.Store
	log   *logger.Logger
}

// NewProfileRepository creates a new health profile repository
func NewProfileRepository(store kv.Store, log *logger.Logger) profile.Repository {
	return &ProfileRepository{store: store, log: log}
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*profile.HealthProfile, error) {
	var p profile.HealthProfile
	found, err := load(ctx, r.store, r.log, kv.UserKey(userID, kv.NameProfile), &p)
	if err != nil || !found {
		return nil, err
	}
	p.UserID = userID
	return &p, nil
}

func (r *ProfileRepository) Save(ctx context.Context, p *profile.HealthProfile) error {
	return save(ctx, r.store, kv.UserKey(p.UserID, kv.NameProfile), p)
}

func (r *ProfileRepository) Delete(ctx context.Context, userID string) error {
	return remove(ctx, r.store, kv.UserKey(userID, kv.NameProfile))
}
