package client

import (
	"context"
	"net/url"
	"strconv"
)

// HistoryService handles scan history calls
type HistoryService struct {
	client *Client
}

// ExportResult reports where a published export was stored
type ExportResult struct {
	Location string `json:"location"`
	Format   string `json:"format"`
}

// List retrieves the history visible to the caller's plan
func (s *HistoryService) List(ctx context.Context, opts *ListOptions) (*HistoryPage, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(opts.PageSize))
		}
	}

	path := "/api/v1/history"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page HistoryPage
	if err := s.client.doRequest(ctx, "GET", path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get retrieves one history entry
func (s *HistoryService) Get(ctx context.Context, id string) (*HistoryEntry, error) {
	var entry HistoryEntry
	if err := s.client.doRequest(ctx, "GET", "/api/v1/history/"+url.PathEscape(id), nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Clear deletes the caller's history
func (s *HistoryService) Clear(ctx context.Context) error {
	return s.client.doRequest(ctx, "DELETE", "/api/v1/history", nil, nil)
}

// Export downloads the full history as "json" or "csv"
func (s *HistoryService) Export(ctx context.Context, format string) ([]byte, error) {
	data, _, err := s.client.send(ctx, "GET", "/api/v1/history/export?format="+url.QueryEscape(format), nil)
	return data, err
}

// Publish stores an export in the server's configured bucket
func (s *HistoryService) Publish(ctx context.Context, format string) (*ExportResult, error) {
	var result ExportResult
	if err := s.client.doRequest(ctx, "POST", "/api/v1/history/export?format="+url.QueryEscape(format), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
