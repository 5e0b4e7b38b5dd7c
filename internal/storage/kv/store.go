// Package kv is the persistence port: a string-keyed store of opaque values.
// Every piece of NutriScan state (sessions, profiles, subscriptions, history
// and daily counters) is one JSON document under one key.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a key has no value.
	ErrNotFound = errors.New("kv: key not found")

	// ErrCorrupt is returned by GetJSON when a stored value cannot be decoded.
	ErrCorrupt = errors.New("kv: corrupt value")
)

// Store is a key-value store with string keys and byte values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes a key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// Keys lists every key that starts with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// Namespace is the root of every key written by the application.
const Namespace = "nutriscan"

// Names of the per-user documents.
const (
	NameAccount      = "account"
	NameProfile      = "health_profile"
	NameSubscription = "subscription"
	NameHistory      = "product_history"
	NameDailyScans   = "daily_scans"
)

// UserKey builds nutriscan:user:{id}:{name}.
func UserKey(userID, name string) string {
	return fmt.Sprintf("%s:user:%s:%s", Namespace, userID, name)
}

// UserPrefix is the prefix shared by every key owned by a user.
func UserPrefix(userID string) string {
	return fmt.Sprintf("%s:user:%s:", Namespace, userID)
}

// SessionKey builds nutriscan:session:{id}.
func SessionKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", Namespace, sessionID)
}

// EmailKey builds the email -> user id index key.
func EmailKey(email string) string {
	return fmt.Sprintf("%s:email:%s", Namespace, strings.ToLower(strings.TrimSpace(email)))
}

// SplitUserKey extracts the user id and document name from a user key.
func SplitUserKey(key string) (userID, name string, ok bool) {
	rest, found := strings.CutPrefix(key, Namespace+":user:")
	if !found {
		return "", "", false
	}
	i := strings.LastIndex(rest, ":")
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

// GetJSON loads key into dst. A missing key yields ErrNotFound and an
// undecodable value yields an error wrapping ErrCorrupt; callers treat both
// as absent.
func GetJSON(ctx context.Context, s Store, key string, dst interface{}) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// IsAbsent reports whether err means "no usable value".
func IsAbsent(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrCorrupt)
}
