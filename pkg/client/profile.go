package client

import "context"

// ProfileService handles health profile calls
type ProfileService struct {
	client *Client
}

// UpdateProfileRequest replaces the lists that are set. A nil list is sent
// as null and left unchanged; an empty list clears it.
type UpdateProfileRequest struct {
	Conditions []string `json:"conditions"`
	Goals      []string `json:"goals"`
}

// Get retrieves the caller's health profile
func (s *ProfileService) Get(ctx context.Context) (*HealthProfile, error) {
	var p HealthProfile
	if err := s.client.doRequest(ctx, "GET", "/api/v1/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update changes conditions and goals
func (s *ProfileService) Update(ctx context.Context, req UpdateProfileRequest) (*HealthProfile, error) {
	var p HealthProfile
	if err := s.client.doRequest(ctx, "PUT", "/api/v1/profile", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Options lists the recognized condition and goal tags
func (s *ProfileService) Options(ctx context.Context) (*ProfileOptions, error) {
	var opts ProfileOptions
	if err := s.client.doRequest(ctx, "GET", "/api/v1/profile/options", nil, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}
