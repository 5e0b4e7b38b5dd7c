package kvstore

import (
	"context"
	"time"

	"github.com/pratik-mahalle/nutriscan/internal/domain/user"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/storage/kv"
)

// UserRepository implements user.Repository
type UserRepository struct {
	store kv.Store
	log   *logger.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(store kv.Store, log *logger.Logger) user.Repository {
	return &UserRepository{store: store, log: log}
}

// Create stores a new user and, for email accounts, the email index
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u.Email != "" {
		existing, err := r.GetByEmail(ctx, u.Email)
		if err != nil && !errors.HasCode(err, errors.ErrCodeNotFound) {
			return err
		}
		if existing != nil {
			return errors.Conflict("An account with this email already exists")
		}
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := save(ctx, r.store, kv.UserKey(u.ID, kv.NameAccount), u); err != nil {
		return err
	}
	if u.Email != "" {
		if err := save(ctx, r.store, kv.EmailKey(u.Email), u.ID); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	found, err := load(ctx, r.store, r.log, kv.UserKey(id, kv.NameAccount), &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.NotFound("User")
	}
	return &u, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var id string
	found, err := load(ctx, r.store, r.log, kv.EmailKey(email), &id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.NotFound("User")
	}
	return r.GetByID(ctx, id)
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now().UTC()
	return save(ctx, r.store, kv.UserKey(u.ID, kv.NameAccount), u)
}

// Delete removes the account, its email index and every user document
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	u, err := r.GetByID(ctx, id)
	if err != nil && !errors.HasCode(err, errors.ErrCodeNotFound) {
		return err
	}
	if u != nil && u.Email != "" {
		if err := remove(ctx, r.store, kv.EmailKey(u.Email)); err != nil {
			return err
		}
	}

	keys, err := r.store.Keys(ctx, kv.UserPrefix(id))
	if err != nil {
		return errors.StorageError("Failed to list user data", err)
	}
	for _, k := range keys {
		if err := remove(ctx, r.store, k); err != nil {
			return err
		}
	}
	return nil
}

// SessionRepository implements user.SessionRepository
type SessionRepository struct {
	store kv.Store
	log   *logger.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(store kv.Store, log *logger.Logger) user.SessionRepository {
	return &SessionRepository{store: store, log: log}
}

func (r *SessionRepository) Create(ctx context.Context, s *user.Session) error {
	return save(ctx, r.store, kv.SessionKey(s.ID), s)
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*user.Session, error) {
	var s user.Session
	found, err := load(ctx, r.store, r.log, kv.SessionKey(id), &s)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.NotFound("Session")
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.store, kv.SessionKey(id))
}
