package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mundolibro/storefront/internal"
	"github.com/mundolibro/storefront/internal/cart"
	"github.com/mundolibro/storefront/internal/checkout"
	"github.com/mundolibro/storefront/internal/gateway"
	"github.com/mundolibro/storefront/internal/handler/storefront"
	"github.com/mundolibro/storefront/internal/kvstore"
	"github.com/mundolibro/storefront/internal/middleware"
	"github.com/mundolibro/storefront/internal/router"
	"github.com/mundolibro/storefront/internal/routes"
	"github.com/mundolibro/storefront/internal/session"
	"github.com/mundolibro/storefront/internal/tenant"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Open the persistent key-value store backing sessions and carts
	store, err := kvstore.New(cfg.Store)
	if err != nil {
		return fmt.Errorf("store initialization failed: %w", err)
	}
	defer store.Close()
	logger.Info("Persistent store ready", slog.String("provider", cfg.Store.Provider))

	// The users service never sees a token, so its client carries none.
	authClient, err := gateway.NewClient(gateway.ClientConfig{
		BaseURL: cfg.Services.UsersURL,
		Timeout: cfg.Services.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("users client failed: %w", err)
	}

	// Session container rehydrates before any authenticated client is
	// built, so a persisted token survives restarts.
	sessions := session.NewContainer(ctx, store, gateway.NewAuth(authClient), logger)

	// Every other backend authenticates with the session's token.
	catalogClient, err := gateway.NewClient(gateway.ClientConfig{
		BaseURL: cfg.Services.CatalogURL,
		Timeout: cfg.Services.Timeout,
		Tokens:  sessions,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("catalog client failed: %w", err)
	}
	purchasesClient, err := gateway.NewClient(gateway.ClientConfig{
		BaseURL: cfg.Services.PurchasesURL,
		Timeout: cfg.Services.Timeout,
		Tokens:  sessions,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("purchases client failed: %w", err)
	}
	reviewsClient, err := gateway.NewClient(gateway.ClientConfig{
		BaseURL: cfg.Services.ReviewsURL,
		Timeout: cfg.Services.Timeout,
		Tokens:  sessions,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("reviews client failed: %w", err)
	}

	// Per-store containers and gateways. Carts persist under
	// store-scoped keys so switching stores never mixes items.
	registry := storefront.Registry{}
	for _, t := range tenant.All() {
		catalog := gateway.NewCatalog(catalogClient, t.ID)
		purchases := gateway.NewPurchases(purchasesClient, t.ID)
		storeCart := cart.NewContainer(ctx, store, t.ID, logger)
		registry[t.ID] = &storefront.TenantDeps{
			Tenant:    t,
			Catalog:   catalog,
			Purchases: purchases,
			Reviews:   gateway.NewReviews(reviewsClient),
			Cart:      storeCart,
			Checkout:  checkout.NewOrchestrator(purchases, catalog, storeCart, sessions, logger),
		}
	}

	// Metrics
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(promRegistry)

	// Router with the global middleware chain
	r := router.New()
	r.Use(
		middleware.WithRequestID,
		metrics.WithMetrics,
		middleware.WithRequestLogger(logger),
	)

	routes.RegisterStorefrontRoutes(r, routes.StorefrontDeps{
		Handler:  storefront.NewHandler(registry, sessions),
		Sessions: sessions,
		Registry: promRegistry,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("addr", srv.Addr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("Shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
