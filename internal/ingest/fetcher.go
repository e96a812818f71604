// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package ingest

import (
	"context"
	"fmt"

	"github.com/devatlas/devatlas/internal/config"
	"github.com/devatlas/devatlas/internal/logging"
	"github.com/devatlas/devatlas/internal/metrics"
	"github.com/devatlas/devatlas/internal/models"
)

// Fetcher resolves device data across an ordered list of provider tiers.
// Each operation walks the tiers in priority order and returns the first
// success; a tier failure is logged and counted, never surfaced, until every
// tier has been exhausted.
type Fetcher struct {
	providers []Provider
}

// NewFetcher builds a fetch client over the given providers, tried in the
// order supplied.
func NewFetcher(providers ...Provider) *Fetcher {
	return &Fetcher{providers: providers}
}

// NewFetcherFromConfig builds the standard two-tier fetch client, each tier
// wrapped with circuit breaker protection.
func NewFetcherFromConfig(cfg config.ProvidersConfig) *Fetcher {
	return NewFetcher(
		WithBreaker(NewPrimaryClient(cfg)),
		WithBreaker(NewSecondaryClient(cfg)),
	)
}

// FetchDeviceSpecs resolves one device's full specifications, falling back
// through the provider tiers. When every tier fails the result wraps
// ErrDeviceNotFound.
func (f *Fetcher) FetchDeviceSpecs(ctx context.Context, brand, model string) (*models.Device, error) {
	for i, p := range f.providers {
		device, err := p.FetchDeviceSpecs(ctx, brand, model)
		if err == nil {
			return device, nil
		}
		f.recordMiss("device_specs", i, p.Name(), err, brand, model)
	}
	return nil, fmt.Errorf("%s %s: %w", brand, model, ErrDeviceNotFound)
}

// FetchDevicesByBrand resolves a brand's device listing, falling back
// through the provider tiers. When every tier fails the result wraps
// ErrBrandNotFound.
func (f *Fetcher) FetchDevicesByBrand(ctx context.Context, brand string) ([]models.Device, error) {
	for i, p := range f.providers {
		devices, err := p.FetchDevicesByBrand(ctx, brand)
		if err == nil {
			return devices, nil
		}
		f.recordMiss("devices_by_brand", i, p.Name(), err, brand, "")
	}
	return nil, fmt.Errorf("%s: %w", brand, ErrBrandNotFound)
}

// FetchBrands resolves the set of available brands, falling back through the
// provider tiers. Total failure degrades to an empty list rather than an
// error: brand enumeration going dark should not break callers that can
// still serve brands they already know.
func (f *Fetcher) FetchBrands(ctx context.Context) []string {
	for i, p := range f.providers {
		brands, err := p.FetchBrands(ctx)
		if err == nil {
			return brands
		}
		f.recordMiss("brands", i, p.Name(), err, "", "")
	}
	logging.Warn().Msg("Brand enumeration failed on every provider, returning empty list")
	return []string{}
}

// recordMiss logs one tier failure and counts the fallback when lower tiers
// remain to be tried.
func (f *Fetcher) recordMiss(operation string, tier int, provider string, err error, brand, model string) {
	evt := logging.Warn().
		Str("operation", operation).
		Str("provider", provider).
		Err(err)
	if brand != "" {
		evt = evt.Str("brand", brand)
	}
	if model != "" {
		evt = evt.Str("model", model)
	}

	if tier < len(f.providers)-1 {
		metrics.FallbacksTotal.WithLabelValues(operation).Inc()
		evt.Msg("Provider failed, falling back to next tier")
		return
	}
	evt.Msg("Provider failed, no tiers left")
}
