package services

import (
	"context"
	"time"

	"github.com/pratik-mahalle/nutriscan/internal/domain/profile"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
)

// ProfileService implements profile.Service
type ProfileService struct {
	repo   profile.Repository
	logger *logger.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(repo profile.Repository, log *logger.Logger) profile.Service {
	return &ProfileService{repo: repo, logger: log}
}

// Get returns the stored profile or an empty one
func (s *ProfileService) Get(ctx context.Context, userID string) (*profile.HealthProfile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &profile.HealthProfile{UserID: userID, Conditions: []string{}, Goals: []string{}}, nil
	}
	if p.Conditions == nil {
		p.Conditions = []string{}
	}
	if p.Goals == nil {
		p.Goals = []string{}
	}
	return p, nil
}

// Update merges the new lists into the stored profile
func (s *ProfileService) Update(ctx context.Context, userID string, conditions, goals []string) (*profile.HealthProfile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if conditions != nil {
		p.Conditions = profile.NormalizeTags(conditions)
	}
	if goals != nil {
		p.Goals = profile.NormalizeTags(goals)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to save health profile")
		return nil, err
	}

	var unknown []string
	for _, c := range p.Conditions {
		if !profile.IsKnownCondition(c) {
			unknown = append(unknown, c)
		}
	}
	for _, g := range p.Goals {
		if !profile.IsKnownGoal(g) {
			unknown = append(unknown, g)
		}
	}
	if len(unknown) > 0 {
		s.logger.WithFields(map[string]interface{}{
			"user_id": userID,
			"tags":    unknown,
		}).Debug("Profile contains tags the scoring engine ignores")
	}

	return p, nil
}

// HasProfile reports whether the user declared anything
func (s *ProfileService) HasProfile(ctx context.Context, userID string) (bool, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return p != nil && (len(p.Conditions) > 0 || len(p.Goals) > 0), nil
}
