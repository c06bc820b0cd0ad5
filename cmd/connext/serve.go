// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"connext/internal/cache"
	"connext/internal/database"
	"connext/internal/display"
	"connext/internal/handlers"
	"connext/internal/middleware"
	"connext/internal/router"
	"connext/internal/settings"
	"connext/internal/store"
)

// Admin requests allowed per client IP per minute.
const adminRateLimit = 60

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server with the public display API, the admin API and
Prometheus metrics. Pending migrations are applied on start.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"admin_api", cfg.AdminTokenHash != "",
	)

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	// Seed default settings in development (no-op if settings exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	settingStore := store.NewSettingStore(db)
	taxonomyStore := store.NewTaxonomyStore(db)
	postStore := store.NewPostStore(db)

	settingsCache := cache.NewSettingsCache(valkeyClient, settingStore, cfg.SettingsCacheTTL)
	gate := display.NewGate(settingsCache, postStore, postStore, cfg.ScriptBaseURL)
	svc := settings.NewService(taxonomyStore, settingStore, settingsCache, cfg.TaxonomyAllowList())

	adminLimiter := middleware.NewRateLimiter(adminRateLimit, time.Minute)
	defer adminLimiter.Stop()

	if cfg.AdminTokenHash == "" {
		slog.Warn("ADMIN_TOKEN_HASH not set, admin api disabled")
	}

	r := router.New(
		handlers.NewPublic(gate),
		handlers.NewAdmin(svc, settingStore, settingsCache, taxonomyStore, postStore, cfg.AllowsOverride),
		router.Options{AdminTokenHash: cfg.AdminTokenHash, AdminLimiter: adminLimiter},
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}
