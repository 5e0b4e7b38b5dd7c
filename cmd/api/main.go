package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pratik-mahalle/nutriscan/internal/api/handlers"
	"github.com/pratik-mahalle/nutriscan/internal/api/router"
	"github.com/pratik-mahalle/nutriscan/internal/auth"
	"github.com/pratik-mahalle/nutriscan/internal/config"
	"github.com/pratik-mahalle/nutriscan/internal/domain/quota"
	"github.com/pratik-mahalle/nutriscan/internal/events"
	"github.com/pratik-mahalle/nutriscan/internal/export"
	"github.com/pratik-mahalle/nutriscan/internal/integrations"
	"github.com/pratik-mahalle/nutriscan/internal/lookup"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/validator"
	"github.com/pratik-mahalle/nutriscan/internal/repository/kvstore"
	"github.com/pratik-mahalle/nutriscan/internal/services"
	"github.com/pratik-mahalle/nutriscan/internal/storage/kv"
	"github.com/pratik-mahalle/nutriscan/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.ErrorWithErr(err, "Failed to load config")
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
		Service:    "nutriscan-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.ErrorWithErr(err, "Server exited with error")
		os.Exit(1)
	}
	log.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	store, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()
	log.With("driver", cfg.Storage.Driver).Info("Store opened")

	loc, err := cfg.Quota.Location()
	if err != nil {
		return err
	}

	// Repositories
	userRepo := kvstore.NewUserRepository(store, log)
	sessionRepo := kvstore.NewSessionRepository(store, log)
	profileRepo := kvstore.NewProfileRepository(store, log)
	subscriptionRepo := kvstore.NewSubscriptionRepository(store, log)
	quotaRepo := kvstore.NewQuotaRepository(store, log)
	historyRepo := kvstore.NewHistoryRepository(store, log)

	publisher, err := events.New(cfg.Events.AMQPURL, log)
	if err != nil {
		log.WarnWithErr(err, "Event publishing disabled")
		publisher = events.NoopPublisher{}
	}
	defer publisher.Close()

	sink, err := export.New(ctx, cfg.Export)
	if err != nil {
		log.WarnWithErr(err, "Export publishing disabled")
		sink = nil
	}

	// Services
	limits := quota.Limits{Free: cfg.Quota.FreeDaily, Premium: cfg.Quota.PremiumDaily}
	gate := services.NewPlanGate(limits, cfg.History.PremiumVisibleSize, cfg.History.MaxEntries)
	tracker := services.NewQuotaTracker(quotaRepo, limits, loc, log)
	recorder := services.NewHistoryRecorder(historyRepo, cfg.History.MaxEntries, log)
	profileService := services.NewProfileService(profileRepo, log)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, gate, log)
	userService := services.NewUserService(userRepo, sessionRepo, services.UserServiceConfig{
		JWTSecret:  cfg.Auth.JWTSecret,
		SessionTTL: cfg.Auth.SessionTTL,
		BCryptCost: cfg.Auth.BCryptCost,
	}, log, providers(cfg)...)

	products := lookup.NewDefault(lookup.NewOpenFoodFacts(cfg.Lookup, log), cfg.Lookup.Timeout, log)

	deps := services.ScanServiceDeps{
		Subscriptions: subscriptionRepo,
		Profiles:      profileService,
		Quota:         tracker,
		Lookup:        products,
		Engine:        services.NewScoringEngine(),
		History:       recorder,
		Gate:          gate,
		Publisher:     publisher,
		LookupTimeout: cfg.Lookup.Timeout,
	}
	if n := integrations.NewOpenAINarrator(cfg.Integrations.OpenAIAPIKey, cfg.Integrations.OpenAIModel); n != nil {
		deps.Narrator = n
		log.With("model", cfg.Integrations.OpenAIModel).Info("OpenAI narration enabled")
	} else if g := integrations.NewGeminiClient(cfg.Integrations.GeminiAPIKey, cfg.Integrations.GeminiModel); g != nil {
		deps.Narrator = g
		log.With("model", cfg.Integrations.GeminiModel).Info("Gemini narration enabled")
	}
	scanService := services.NewScanService(deps, log)
	historyView := services.NewHistoryView(recorder, subscriptionRepo, gate, log)
	exportService := services.NewExportService(recorder, subscriptionRepo, userRepo, gate, sink, cfg.Export.Prefix, log)

	sweeper := worker.NewQuotaSweeper(quotaRepo, tracker, cfg.Worker.QuotaSweepSchedule, loc, log)
	if err := sweeper.Start(ctx); err != nil {
		return err
	}
	defer sweeper.Stop()

	val := validator.New()
	h := &router.Handlers{
		Health:       handlers.NewHealthHandler(store, log),
		Auth:         handlers.NewAuthHandler(userService, cfg, log, val),
		Scan:         handlers.NewScanHandler(scanService, log, val),
		Product:      handlers.NewProductHandler(products, cfg.Lookup.Timeout, log),
		Profile:      handlers.NewProfileHandler(profileService, log, val),
		Subscription: handlers.NewSubscriptionHandler(subscriptionService, tracker, log, val),
		History:      handlers.NewHistoryHandler(historyView, exportService, log),
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.New(cfg, log, userService, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.With("addr", srv.Addr).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// providers returns the configured external sign-in providers
func providers(cfg *config.Config) []auth.Provider {
	var out []auth.Provider
	if g := auth.NewGoogleProvider(cfg.OAuth.Google); g != nil {
		out = append(out, g)
	}
	if gh := auth.NewGitHubProvider(cfg.OAuth.GitHub); gh != nil {
		out = append(out, gh)
	}
	return out
}
