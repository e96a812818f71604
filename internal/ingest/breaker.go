// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package ingest

import (
	"context"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/devatlas/devatlas/internal/logging"
	"github.com/devatlas/devatlas/internal/metrics"
	"github.com/devatlas/devatlas/internal/models"
)

// BreakerProvider wraps a Provider with a circuit breaker so a provider that
// is down or rate-limited stops receiving traffic and the fetch client falls
// through to the next tier immediately. A rejected call (open circuit) is
// indistinguishable from a failed call to the caller, which is exactly the
// fallback semantics the fetch client wants.
//
// The breaker uses real time for its interval and timeout windows; tests
// exercise the wrapped provider directly rather than waiting out the breaker.
type BreakerProvider struct {
	provider Provider
	cb       *gobreaker.CircuitBreaker[any]
}

// WithBreaker wraps provider with circuit breaker protection:
// opens after a 60% failure rate over at least 10 requests, allows 3 probe
// requests in half-open state, and retries the open circuit after 2 minutes.
func WithBreaker(provider Provider) *BreakerProvider {
	name := provider.Name()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().
					Str("provider", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening provider circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := breakerStateString(from)
			toStr := breakerStateString(to)
			logging.Info().
				Str("provider", name).
				Str("from", fromStr).
				Str("to", toStr).
				Msg("Provider circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerProvider{provider: provider, cb: cb}
}

// Name implements Provider.
func (b *BreakerProvider) Name() string { return b.provider.Name() }

// FetchBrands implements Provider with circuit breaker protection.
func (b *BreakerProvider) FetchBrands(ctx context.Context) ([]string, error) {
	return breakerCall[[]string](b, func() (any, error) {
		return b.provider.FetchBrands(ctx)
	})
}

// FetchDevicesByBrand implements Provider with circuit breaker protection.
func (b *BreakerProvider) FetchDevicesByBrand(ctx context.Context, brand string) ([]models.Device, error) {
	return breakerCall[[]models.Device](b, func() (any, error) {
		return b.provider.FetchDevicesByBrand(ctx, brand)
	})
}

// FetchDeviceSpecs implements Provider with circuit breaker protection.
func (b *BreakerProvider) FetchDeviceSpecs(ctx context.Context, brand, model string) (*models.Device, error) {
	return breakerCall[*models.Device](b, func() (any, error) {
		return b.provider.FetchDeviceSpecs(ctx, brand, model)
	})
}

// breakerCall routes one provider call through the breaker and casts the
// untyped result back. A cast mismatch can only come from a wiring bug.
func breakerCall[T any](b *BreakerProvider, fn func() (any, error)) (T, error) {
	var zero T
	result, err := b.cb.Execute(fn)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%s breaker: unexpected result type %T", b.Name(), result)
	}
	return typed, nil
}

func breakerStateFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func breakerStateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
