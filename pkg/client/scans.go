package client

import (
	"context"
	"net/url"
)

// ScanService handles scanning and analysis calls
type ScanService struct {
	client *Client
}

// AnalyzeRequest describes a product to score without a lookup
type AnalyzeRequest struct {
	Barcode     string    `json:"barcode,omitempty"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand,omitempty"`
	Nutrition   Nutrition `json:"nutrition"`
	Ingredients []string  `json:"ingredients,omitempty"`
	Allergens   []string  `json:"allergens,omitempty"`
}

// Scan looks up a barcode and analyzes it. It counts against the daily quota.
func (s *ScanService) Scan(ctx context.Context, barcode string) (*ScanResult, error) {
	var result ScanResult
	body := map[string]string{"barcode": barcode}
	if err := s.client.doRequest(ctx, "POST", "/api/v1/scans", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Analyze scores a product described by the caller
func (s *ScanService) Analyze(ctx context.Context, req AnalyzeRequest) (*ScanResult, error) {
	var result ScanResult
	if err := s.client.doRequest(ctx, "POST", "/api/v1/analyze", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Product returns product data for a barcode without analyzing it
func (s *ScanService) Product(ctx context.Context, barcode string) (*Product, error) {
	var p Product
	if err := s.client.doRequest(ctx, "GET", "/api/v1/products/"+url.PathEscape(barcode), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
