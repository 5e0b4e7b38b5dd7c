package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

func writeErr(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	})
}

func TestClient_SignInStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/signin":
			var req SignInRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "ana@example.com", req.Email)
			writeData(w, http.StatusOK, map[string]interface{}{
				"token": "tok-1",
				"user":  map[string]string{"id": "u1", "email": req.Email, "name": "Ana"},
			})
		case "/api/v1/auth/me":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				writeErr(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authentication token")
				return
			}
			writeData(w, http.StatusOK, map[string]string{"id": "u1", "name": "Ana"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/"})
	ctx := context.Background()

	resp, err := c.SignIn(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, "tok-1", c.GetToken())

	u, err := c.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusTooManyRequests, "QUOTA_EXCEEDED", "Daily scan limit reached. Plan free: 5 scans/day")
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Token: "tok"})
	_, err := c.Scans().Scan(context.Background(), "7501000673209")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.True(t, apiErr.IsQuotaExceeded())
	assert.False(t, apiErr.IsPlanRequired())
	assert.True(t, IsQuotaExceeded(fmt.Errorf("scan: %w", err)))
	assert.False(t, IsPlanRequired(err))
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(Config{BaseURL: srv.URL}).Ping(context.Background())
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsServerError())
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestHistoryService_ListAndExport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/history":
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			writeData(w, http.StatusOK, map[string]interface{}{
				"plan":        "pro",
				"data":        []map[string]string{{"id": "h1"}},
				"page":        2,
				"page_size":   1,
				"total_items": 2,
				"total_pages": 2,
			})
		case "/api/v1/history/export":
			assert.Equal(t, "csv", r.URL.Query().Get("format"))
			w.Header().Set("Content-Type", "text/csv")
			w.Write([]byte("id,barcode\nh1,7501000673209\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Token: "tok"})
	ctx := context.Background()

	page, err := c.History().List(ctx, &ListOptions{Page: 2, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, "pro", page.Plan)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "h1", page.Data[0].ID)
	assert.EqualValues(t, 2, page.TotalItems)

	data, err := c.History().Export(ctx, "csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "7501000673209")
}

func TestSubscriptionService_UpgradeBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/subscription/upgrade", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"plan": "pro", "billing_cycle": "yearly"}, body)
		writeData(w, http.StatusOK, map[string]string{"plan": "pro", "billing_cycle": "yearly", "status": "active"})
	}))
	defer srv.Close()

	sub, err := NewClient(Config{BaseURL: srv.URL, Token: "tok"}).Subscription().Upgrade(context.Background(), "pro", "yearly")
	require.NoError(t, err)
	assert.Equal(t, "pro", sub.Plan)
}
