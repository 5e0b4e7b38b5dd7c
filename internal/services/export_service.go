package services

import (
	"context"
	"time"

	"github.com/pratik-mahalle/nutriscan/internal/domain/history"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
	"github.com/pratik-mahalle/nutriscan/internal/domain/user"
	"github.com/pratik-mahalle/nutriscan/internal/export"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
)

// ExportService renders and publishes history exports for pro users
type ExportService struct {
	history       history.Service
	subscriptions subscription.Repository
	users         user.Repository
	gate          *PlanGate
	sink          export.Sink
	prefix        string
	now           func() time.Time
	logger        *logger.Logger
}

// NewExportService creates a new export service. sink may be nil, in which
// case only downloads are available.
func NewExportService(h history.Service, subs subscription.Repository, users user.Repository, gate *PlanGate, sink export.Sink, prefix string, log *logger.Logger) *ExportService {
	return &ExportService{
		history:       h,
		subscriptions: subs,
		users:         users,
		gate:          gate,
		sink:          sink,
		prefix:        prefix,
		now:           time.Now,
		logger:        log,
	}
}

// Export renders the user's full history
func (s *ExportService) Export(ctx context.Context, userID string, format export.Format) ([]byte, error) {
	sub, err := s.subscriptions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.gate.Features(sub.Plan).Export {
		return nil, errors.PlanRequired("History export", string(subscription.PlanPro))
	}

	entries, err := s.history.All(ctx, userID)
	if err != nil {
		return nil, err
	}
	data, err := export.Render(entries, format)
	if err != nil {
		return nil, errors.BadRequest(err.Error())
	}
	return data, nil
}

// Publish renders the export and uploads it to the configured sink
func (s *ExportService) Publish(ctx context.Context, userID string, format export.Format) (string, error) {
	if s.sink == nil {
		return "", errors.ServiceUnavailable("Export publishing is not configured")
	}
	data, err := s.Export(ctx, userID, format)
	if err != nil {
		return "", err
	}

	name := ""
	if u, err := s.users.GetByID(ctx, userID); err == nil {
		name = u.Name
	}
	key := export.ObjectKey(s.prefix, name, userID, format, s.now())

	loc, err := s.sink.Put(ctx, key, format.ContentType(), data)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to publish export")
		return "", errors.Internal("Failed to publish export", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":  userID,
		"sink":     s.sink.Name(),
		"location": loc,
	}).Info("History export published")
	return loc, nil
}
