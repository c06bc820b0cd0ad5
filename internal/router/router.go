// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Connext service. Routes are split into the public display API and the
// token-protected admin API.
package router

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"connext/internal/handlers"
	"connext/internal/middleware"
)

// Options carries the admin API guards.
type Options struct {
	// AdminTokenHash is the bcrypt hash admin bearer tokens are checked
	// against. Empty disables the admin API.
	AdminTokenHash string

	// AdminLimiter rate-limits admin requests per client IP. Optional.
	AdminLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router.
func New(public *handlers.Public, admin *handlers.Admin, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. Recoverer sits inside
	// RequestID and Logger so a panic is logged with its request id and the
	// 500 still gets a request line.
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/display", public.Display)

	r.Route("/admin", func(r chi.Router) {
		if opts.AdminLimiter != nil {
			r.Use(opts.AdminLimiter.Middleware)
		}
		r.Use(middleware.NoStore)
		r.Use(middleware.AdminToken(opts.AdminTokenHash))

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", admin.SettingsGet)
			r.Post("/", admin.SettingsSave)
			r.Get("/fields", admin.SettingsFields)
		})

		r.Put("/taxonomies/{name}", admin.TaxonomyPut)
		r.Delete("/taxonomies/{name}", admin.TaxonomyDelete)

		r.Put("/posts/{id}", admin.PostPut)
		r.Put("/posts/{id}/override", admin.PostOverridePut)
	})

	return r
}
