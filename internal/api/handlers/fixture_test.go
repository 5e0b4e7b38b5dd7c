package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pratik-mahalle/nutriscan/internal/api/middleware"
	"github.com/pratik-mahalle/nutriscan/internal/domain/history"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	"github.com/pratik-mahalle/nutriscan/internal/domain/quota"
	"github.com/pratik-mahalle/nutriscan/internal/events"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/validator"
	"github.com/pratik-mahalle/nutriscan/internal/services"
	"github.com/pratik-mahalle/nutriscan/internal/storage/kv"
	"github.com/pratik-mahalle/nutriscan/internal/testutil"
)

type testAPI struct {
	store        kv.Store
	repos        *testutil.Repos
	lookup       *testutil.MockLookup
	events       *events.Recorder
	users        *services.UserService
	subs         *services.SubscriptionService
	auth         *AuthHandler
	scan         *ScanHandler
	product      *ProductHandler
	profile      *ProfileHandler
	subscription *SubscriptionHandler
	history      *HistoryHandler
	health       *HealthHandler
}

func newTestAPI(t *testing.T, products ...product.Product) *testAPI {
	t.Helper()
	log := testutil.NewTestLogger()
	store := kv.NewMemoryStore()
	repos := testutil.NewRepos(store)
	val := validator.New()

	gate := services.NewPlanGate(quota.DefaultLimits, history.DefaultPremiumVisible, history.DefaultCap)
	tracker := services.NewQuotaTracker(repos.Quota, quota.DefaultLimits, time.UTC, log)
	recorder := services.NewHistoryRecorder(repos.History, history.DefaultCap, log)
	profiles := services.NewProfileService(repos.Profiles, log)
	subs := services.NewSubscriptionService(repos.Subscriptions, gate, log)
	users := services.NewUserService(repos.Users, repos.Sessions, services.UserServiceConfig{
		JWTSecret:  "test-secret",
		SessionTTL: time.Hour,
		BCryptCost: bcrypt.MinCost,
	}, log)

	api := &testAPI{
		store:  store,
		repos:  repos,
		lookup: testutil.NewMockLookup(products...),
		events: &events.Recorder{},
		users:  users,
		subs:   subs,
	}

	scanService := services.NewScanService(services.ScanServiceDeps{
		Subscriptions: repos.Subscriptions,
		Profiles:      profiles,
		Quota:         tracker,
		Lookup:        api.lookup,
		Engine:        services.NewScoringEngine(),
		History:       recorder,
		Gate:          gate,
		Publisher:     api.events,
		LookupTimeout: time.Second,
	}, log)

	api.auth = NewAuthHandler(users, nil, log, val)
	api.scan = NewScanHandler(scanService, log, val)
	api.product = NewProductHandler(api.lookup, time.Second, log)
	api.profile = NewProfileHandler(profiles, log, val)
	api.subscription = NewSubscriptionHandler(subs, tracker, log, val)
	api.history = NewHistoryHandler(
		services.NewHistoryView(recorder, repos.Subscriptions, gate, log),
		services.NewExportService(recorder, repos.Subscriptions, repos.Users, gate, nil, "exports", log),
		log,
	)
	api.health = NewHealthHandler(store, log)
	return api
}

// newRequest builds a request as the given user; an empty userID is anonymous
func newRequest(t *testing.T, method, target, userID string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = buf
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	}
	return req
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
	}
	return env
}
