package client

import "context"

// SubscriptionService handles plan, subscription and quota calls
type SubscriptionService struct {
	client *Client
}

// Plans lists the plan catalogue
func (s *SubscriptionService) Plans(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if err := s.client.doRequest(ctx, "GET", "/api/v1/plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Get retrieves the caller's subscription
func (s *SubscriptionService) Get(ctx context.Context) (*Subscription, error) {
	var sub Subscription
	if err := s.client.doRequest(ctx, "GET", "/api/v1/subscription", nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upgrade moves the caller to "premium" or "pro", billed "monthly" or "yearly"
func (s *SubscriptionService) Upgrade(ctx context.Context, plan, cycle string) (*Subscription, error) {
	body := map[string]string{"plan": plan}
	if cycle != "" {
		body["billing_cycle"] = cycle
	}

	var sub Subscription
	if err := s.client.doRequest(ctx, "POST", "/api/v1/subscription/upgrade", body, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Cancel returns the caller to the free plan
func (s *SubscriptionService) Cancel(ctx context.Context) error {
	return s.client.doRequest(ctx, "DELETE", "/api/v1/subscription", nil, nil)
}

// Quota returns today's scan usage
func (s *SubscriptionService) Quota(ctx context.Context) (*Quota, error) {
	var q Quota
	if err := s.client.doRequest(ctx, "GET", "/api/v1/quota", nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}
