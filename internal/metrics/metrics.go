// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

// Package metrics exposes Prometheus instrumentation for the ingestion
// engine: provider request outcomes and latency, sync run accounting,
// circuit breaker state, and admin API throughput.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Provider client metrics

	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devatlas_provider_requests_total",
			Help: "Total provider API requests by provider and outcome",
		},
		[]string{"provider", "outcome"}, // outcome: success, upstream_error, transport_error
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "devatlas_provider_request_duration_seconds",
			Help:    "Provider API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"}, // operation: brands, devices, specs
	)

	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devatlas_provider_fallbacks_total",
			Help: "Times the fetch client fell through to a lower-priority provider",
		},
		[]string{"operation"},
	)

	// Circuit breaker metrics

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "devatlas_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"breaker"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devatlas_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"breaker", "from", "to"},
	)

	// Sync orchestrator metrics

	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devatlas_sync_runs_total",
			Help: "Sync runs by trigger and result",
		},
		[]string{"trigger", "result"}, // trigger: scheduled, manual, startup; result: completed, failed
	)

	SyncDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "devatlas_sync_duration_seconds",
			Help:    "Duration of full sync runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	DevicesUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "devatlas_devices_upserted_total",
			Help: "Devices upserted into the catalog by sync runs",
		},
	)

	BrandsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "devatlas_sync_brand_failures_total",
			Help: "Brands skipped during sync because their device listing failed",
		},
	)

	DevicesFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "devatlas_sync_device_failures_total",
			Help: "Devices skipped during sync because their upsert failed",
		},
	)

	// Admin API metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devatlas_api_requests_total",
			Help: "Admin API requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)
)
