package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pratik-mahalle/nutriscan/internal/api/handlers"
	"github.com/pratik-mahalle/nutriscan/internal/api/middleware"
	"github.com/pratik-mahalle/nutriscan/internal/config"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/metrics"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Scan         *handlers.ScanHandler
	Product      *handlers.ProductHandler
	Profile      *handlers.ProfileHandler
	Subscription *handlers.SubscriptionHandler
	History      *handlers.HistoryHandler
}

// scanRate caps scans per user on top of the daily quota
const (
	scanRate  = 2
	scanBurst = 5
)

func New(cfg *config.Config, log *logger.Logger, auth middleware.Authenticator, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst))
	r.Use(metrics.Middleware)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Handle("/metrics", metrics.Handler())

		// Health checks
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		r.Route("/api/v1/auth", func(r chi.Router) {
			r.Post("/signup", h.Auth.SignUp)
			r.Post("/signin", h.Auth.SignIn)
			r.Post("/guest", h.Auth.Guest)
			r.Get("/{provider}/login", h.Auth.ProviderLogin)
			r.Get("/{provider}/callback", h.Auth.ProviderCallback)
		})

		r.Get("/api/v1/plans", h.Subscription.Plans)
		r.Get("/api/v1/profile/options", h.Profile.Options)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(auth))

		// Auth
		r.Post("/api/v1/auth/signout", h.Auth.SignOut)
		r.Get("/api/v1/auth/me", h.Auth.Me)

		// Scanning
		r.With(middleware.UserRateLimit(scanRate, scanBurst)).Post("/api/v1/scans", h.Scan.Scan)
		r.Post("/api/v1/analyze", h.Scan.Analyze)
		r.Get("/api/v1/products/{barcode}", h.Product.Get)

		// Health profile
		r.Route("/api/v1/profile", func(r chi.Router) {
			r.Get("/", h.Profile.Get)
			r.Put("/", h.Profile.Update)
		})

		// Subscription & quota
		r.Route("/api/v1/subscription", func(r chi.Router) {
			r.Get("/", h.Subscription.Get)
			r.Post("/upgrade", h.Subscription.Upgrade)
			r.Delete("/", h.Subscription.Cancel)
		})
		r.Get("/api/v1/quota", h.Subscription.Quota)

		// History
		r.Route("/api/v1/history", func(r chi.Router) {
			r.Get("/", h.History.List)
			r.Delete("/", h.History.Clear)
			r.Get("/export", h.History.Download)
			r.Post("/export", h.History.Publish)
			r.Get("/{id}", h.History.Get)
		})
	})

	return r
}
