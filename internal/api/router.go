// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devatlas/devatlas/internal/middleware"
)

// RouterConfig tunes the middleware stack.
type RouterConfig struct {
	// RateLimitRequests is the per-IP request budget per RateLimitWindow
	// for /api/v1 routes. Zero disables rate limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// CORSAllowedOrigins is empty by default; cross-origin access requires
	// explicit configuration.
	CORSAllowedOrigins []string
}

// DefaultRouterConfig allows 120 requests per minute per client IP.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimitRequests: 120,
		RateLimitWindow:   time.Minute,
	}
}

// NewRouter assembles the admin API router.
func NewRouter(h *Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PrometheusMetrics)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         86400,
		}))
	}

	r.Get("/healthz", h.HandleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitRequests > 0 {
			r.Use(httprate.Limit(
				cfg.RateLimitRequests,
				cfg.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
			))
		}

		r.Post("/sync", h.HandleTriggerSync)
		r.Post("/sync/brands/{brand}", h.HandleSyncBrand)
		r.Get("/sync/status", h.HandleSyncStatus)

		r.Get("/brands", h.HandleListBrands)
		r.Get("/brands/{brand}/devices", h.HandleListBrandDevices)
		r.Get("/devices/{brand}/{model}", h.HandleGetDevice)
	})

	return r
}
