package kv

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/nutriscan/migrations"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	migFS, err := migrations.For("sqlite")
	require.NoError(t, err)
	n, err := RunMigrations(db, DialectSQLite, migFS)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	return NewSQLStore(db, DialectSQLite)
}

func backends(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newSQLiteStore(t),
	}
}

func TestStore_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "a", []byte("one")))
			got, err := s.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, "one", string(got))

			require.NoError(t, s.Set(ctx, "a", []byte("two")))
			got, err = s.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, "two", string(got), "last write wins")

			require.NoError(t, s.Remove(ctx, "a"))
			_, err = s.Get(ctx, "a")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, s.Remove(ctx, "a"), "removing a missing key is fine")
			assert.NoError(t, s.Ping(ctx))
		})
	}
}

func TestStore_Keys(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, UserKey("u1", NameHistory), []byte("[]")))
			require.NoError(t, s.Set(ctx, UserKey("u1", NameDailyScans), []byte("{}")))
			require.NoError(t, s.Set(ctx, UserKey("u2", NameDailyScans), []byte("{}")))
			require.NoError(t, s.Set(ctx, SessionKey("s1"), []byte("{}")))

			keys, err := s.Keys(ctx, UserPrefix("u1"))
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{
				"nutriscan:user:u1:product_history",
				"nutriscan:user:u1:daily_scans",
			}, keys)

			all, err := s.Keys(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 4)
		})
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	s := newSQLiteStore(t)
	migFS, err := migrations.For("sqlite")
	require.NoError(t, err)

	n, err := RunMigrations(s.db, DialectSQLite, migFS)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGetJSON(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type doc struct {
		Count int `json:"count"`
	}

	var d doc
	err := GetJSON(ctx, s, "k", &d)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsAbsent(err))

	require.NoError(t, SetJSON(ctx, s, "k", doc{Count: 3}))
	require.NoError(t, GetJSON(ctx, s, "k", &d))
	assert.Equal(t, 3, d.Count)

	require.NoError(t, s.Set(ctx, "k", []byte("{not json")))
	err = GetJSON(ctx, s, "k", &d)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.True(t, IsAbsent(err))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "nutriscan:user:42:health_profile", UserKey("42", NameProfile))
	assert.Equal(t, "nutriscan:email:ana@example.com", EmailKey("  Ana@Example.com "))

	id, name, ok := SplitUserKey("nutriscan:user:guest-1:daily_scans")
	require.True(t, ok)
	assert.Equal(t, "guest-1", id)
	assert.Equal(t, NameDailyScans, name)

	_, _, ok = SplitUserKey("nutriscan:session:abc")
	assert.False(t, ok)
	_, _, ok = SplitUserKey("nutriscan:user:nope")
	assert.False(t, ok)
}

func TestDialectPlaceholder(t *testing.T) {
	assert.Equal(t, "$2", DialectPostgres.Placeholder(2))
	assert.Equal(t, "?", DialectMySQL.Placeholder(2))
	assert.Equal(t, "?", DialectSQLite.Placeholder(1))

	_, err := DialectFor("oracle")
	assert.Error(t, err)
}
