package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pratik-mahalle/nutriscan/internal/domain/analysis"
	"github.com/pratik-mahalle/nutriscan/internal/domain/history"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
)

// HistoryRecorder implements history.Service
type HistoryRecorder struct {
	repo       history.Repository
	maxEntries int
	now        func() time.Time
	logger     *logger.Logger
}

// NewHistoryRecorder creates a history recorder keeping at most maxEntries
func NewHistoryRecorder(repo history.Repository, maxEntries int, log *logger.Logger) *HistoryRecorder {
	if maxEntries <= 0 {
		maxEntries = history.DefaultCap
	}
	return &HistoryRecorder{repo: repo, maxEntries: maxEntries, now: time.Now, logger: log}
}

// WithClock replaces the time source. Used by tests.
func (h *HistoryRecorder) WithClock(now func() time.Time) *HistoryRecorder {
	h.now = now
	return h
}

// Record prepends a new entry and drops the oldest ones beyond the cap.
// Every plan records; visibility is decided at read time.
func (h *HistoryRecorder) Record(ctx context.Context, userID string, p product.Product, a analysis.Result) (history.Entry, error) {
	entries, err := h.repo.Load(ctx, userID)
	if err != nil {
		return history.Entry{}, err
	}

	scannedAt := h.now().UTC()
	snapshot := a.Clone()
	snapshot.AnalyzedAt = &scannedAt
	entry := history.Entry{
		ID:        uuid.NewString(),
		ScannedAt: scannedAt,
		Product:   p,
		Analysis:  snapshot,
	}

	updated := make([]history.Entry, 0, min(len(entries)+1, h.maxEntries))
	updated = append(updated, entry)
	for _, e := range entries {
		if len(updated) == h.maxEntries {
			break
		}
		updated = append(updated, e)
	}

	if err := h.repo.Save(ctx, userID, updated); err != nil {
		h.logger.ErrorWithErr(err, "Failed to save history")
		return history.Entry{}, err
	}
	return entry, nil
}

// All returns every stored entry, newest first
func (h *HistoryRecorder) All(ctx context.Context, userID string) ([]history.Entry, error) {
	return h.repo.Load(ctx, userID)
}

// Lookup returns one entry by id
func (h *HistoryRecorder) Lookup(ctx context.Context, userID, id string) (*history.Entry, error) {
	entries, err := h.repo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == id {
			e := entries[i]
			return &e, nil
		}
	}
	return nil, errors.NotFound("History entry")
}

// Count returns the number of stored entries
func (h *HistoryRecorder) Count(ctx context.Context, userID string) (int, error) {
	entries, err := h.repo.Load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Clear removes every entry
func (h *HistoryRecorder) Clear(ctx context.Context, userID string) error {
	return h.repo.Delete(ctx, userID)
}
