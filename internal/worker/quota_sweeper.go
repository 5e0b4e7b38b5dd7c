package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pratik-mahalle/nutriscan/internal/domain/quota"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/metrics"
)

// Clock reports the current quota day
type Clock interface {
	Today() string
}

// QuotaSweeper periodically deletes counters left over from previous days.
// Counters reset lazily on read, so this only keeps the store tidy and the
// active-users gauge current.
type QuotaSweeper struct {
	repo     quota.Repository
	clock    Clock
	schedule string
	loc      *time.Location
	logger   *logger.Logger

	mu        sync.Mutex
	scheduler *cron.Cron
}

// NewQuotaSweeper creates a new quota sweeper worker. The schedule is
// evaluated in loc, the same location that defines the quota day.
func NewQuotaSweeper(repo quota.Repository, clock Clock, schedule string, loc *time.Location, log *logger.Logger) *QuotaSweeper {
	if loc == nil {
		loc = time.Local
	}
	return &QuotaSweeper{
		repo:     repo,
		clock:    clock,
		schedule: schedule,
		loc:      loc,
		logger:   log,
	}
}

// Start schedules the sweep. The first sweep runs immediately.
func (s *QuotaSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		return fmt.Errorf("quota sweeper is already running")
	}

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.schedule, func() {
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.ErrorWithErr(err, "Quota sweep failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	if _, err := s.Sweep(ctx); err != nil {
		s.logger.ErrorWithErr(err, "Quota sweep failed")
	}

	c.Start()
	s.scheduler = c
	s.logger.With("schedule", s.schedule).Info("Starting quota sweeper worker")
	return nil
}

// Stop halts the schedule and waits for a running sweep
func (s *QuotaSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler == nil {
		return
	}
	<-s.scheduler.Stop().Done()
	s.scheduler = nil
	s.logger.Info("Quota sweeper worker stopped")
}

// Sweep deletes stale counters and returns how many were removed
func (s *QuotaSweeper) Sweep(ctx context.Context) (int, error) {
	counters, err := s.repo.All(ctx)
	if err != nil {
		return 0, err
	}

	today := s.clock.Today()
	removed, active := 0, 0
	for userID, c := range counters {
		if c.Date == today {
			if c.Count > 0 {
				active++
			}
			continue
		}
		// The listing may be stale by now; a scan since then keeps its counter
		deleted, err := s.repo.DeleteStale(ctx, userID, today)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"user_id": userID,
			}).ErrorWithErr(err, "Failed to delete stale quota counter")
			continue
		}
		if deleted {
			removed++
		} else {
			active++
		}
	}

	metrics.SetQuotaCounters(float64(active))
	s.logger.WithFields(map[string]interface{}{
		"removed": removed,
		"active":  active,
	}).Debug("Quota sweep finished")
	return removed, nil
}
