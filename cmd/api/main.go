package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lckr_backend/internal/booking"
	"lckr_backend/internal/events"
	"lckr_backend/internal/geocoding"
	apphttp "lckr_backend/internal/http"
	"lckr_backend/internal/http/router"
	"lckr_backend/internal/listings"
	"lckr_backend/internal/locationinput"
	"lckr_backend/internal/maps"
	"lckr_backend/internal/notification"
	"lckr_backend/internal/notification/sse"
	"lckr_backend/platform/config"
	"lckr_backend/platform/logger"
	"lckr_backend/platform/validator"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "geocoder", cfg.GeocoderProvider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	upstream, err := geocoding.NewProviderFromConfig(cfg, log)
	if err != nil {
		log.Error("failed to initialize geocoding provider", "error", err)
		panic("failed to initialize geocoding provider: " + err.Error())
	}

	cache, closeCache, err := geocoding.NewCacheFromConfig(cfg, log)
	if err != nil {
		log.Error("failed to initialize geocoding cache", "error", err)
		panic("failed to initialize geocoding cache: " + err.Error())
	}
	defer func() {
		_ = closeCache()
	}()

	var health apphttp.HealthChecker
	if redisCache, ok := cache.(*geocoding.RedisCache); ok {
		if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
			return redisCache.Ping(ctx)
		}); err != nil {
			log.Error("failed to connect to redis", "error", err)
			panic("failed to connect to redis: " + err.Error())
		}
		health = redisCache
		log.Info("redis connection established")
	}

	geo := geocoding.NewService(upstream, cache, cfg.GetGeocoderCacheTTL(), log)

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	stream := sse.New(log)
	defer stream.Close()

	// Notification module subscribes to domain events and pushes them over SSE
	notificationModule := notification.New(stream, log)
	notificationModule.RegisterHandlers(eventBus)

	locationInputModule := locationinput.NewModule(
		locationinput.NewService(geo, stream, eventBus, cfg, log),
		stream,
		val,
	)

	presets, err := listings.DefaultPresets()
	if err != nil {
		log.Error("failed to load pickup locations", "error", err)
		panic("failed to load pickup locations: " + err.Error())
	}
	listingsModule := listings.NewModule(
		listings.NewService(presets, listings.NewMarketplaceClient(cfg, log), eventBus, log),
		val,
	)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			maps.NewModule(geo),
			locationInputModule,
			listingsModule,
			booking.NewModule(cfg, val),
			notificationModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		return locationInputModule.Run(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	eventBus.Wait()
	log.Info("server stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
