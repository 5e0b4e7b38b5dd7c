package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/pratik-mahalle/nutriscan/internal/domain/history"
	"github.com/pratik-mahalle/nutriscan/internal/domain/profile"
	"github.com/pratik-mahalle/nutriscan/internal/domain/quota"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
	"github.com/pratik-mahalle/nutriscan/internal/domain/user"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/repository/kvstore"
	"github.com/pratik-mahalle/nutriscan/internal/storage/kv"
	"github.com/pratik-mahalle/nutriscan/migrations"
)

// NewTestLogger returns a logger that only prints errors
func NewTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

// NewTestStore creates an in-memory SQLite store for testing
func NewTestStore(t *testing.T) kv.Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	migFS, err := migrations.For("sqlite")
	if err != nil {
		t.Fatalf("Failed to load migrations: %v", err)
	}
	if _, err := kv.RunMigrations(db, kv.DialectSQLite, migFS); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	store := kv.NewSQLStore(db, kv.DialectSQLite)
	t.Cleanup(func() { CleanupStore(store) })
	return store
}

// CleanupStore closes the test store
func CleanupStore(s kv.Store) {
	if s != nil {
		s.Close()
	}
}

// Repos bundles every repository over one store
type Repos struct {
	Store         kv.Store
	Users         user.Repository
	Sessions      user.SessionRepository
	Profiles      profile.Repository
	Subscriptions subscription.Repository
	Quota         quota.Repository
	History       history.Repository
}

// NewRepos wires the kv repositories over store
func NewRepos(store kv.Store) *Repos {
	log := NewTestLogger()
	return &Repos{
		Store:         store,
		Users:         kvstore.NewUserRepository(store, log),
		Sessions:      kvstore.NewSessionRepository(store, log),
		Profiles:      kvstore.NewProfileRepository(store, log),
		Subscriptions: kvstore.NewSubscriptionRepository(store, log),
		Quota:         kvstore.NewQuotaRepository(store, log),
		History:       kvstore.NewHistoryRepository(store, log),
	}
}
