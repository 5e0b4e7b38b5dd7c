package kvstore

import (
	"context"

	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/storage/kv"
)

// SubscriptionRepository implements subscription.Repository
type SubscriptionRepository struct {
	store kv.Store
	log   *logger.Logger
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(store kv.Store, log *logger.Logger) subscription.Repository {
	return &SubscriptionRepository{store: store, log: log}
}

// Get returns the stored subscription. Missing, corrupt or unrecognized
// records mean free.
func (r *SubscriptionRepository) Get(ctx context.Context, userID string) (subscription.Subscription, error) {
	var s subscription.Subscription
	found, err := load(ctx, r.store, r.log, kv.UserKey(userID, kv.NameSubscription), &s)
	if err != nil {
		return subscription.Free(), err
	}
	if !found || !s.Plan.Valid() {
		return subscription.Free(), nil
	}
	return s, nil
}

func (r *SubscriptionRepository) Save(ctx context.Context, userID string, s subscription.Subscription) error {
	return save(ctx, r.store, kv.UserKey(userID, kv.NameSubscription), s)
}

func (r *SubscriptionRepository) Delete(ctx context.Context, userID string) error {
	return remove(ctx, r.store, kv.UserKey(userID, kv.NameSubscription))
}
