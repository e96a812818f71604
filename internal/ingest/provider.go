// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/devatlas/devatlas/internal/config"
	"github.com/devatlas/devatlas/internal/metrics"
	"github.com/devatlas/devatlas/internal/models"
)

// Provider is one upstream specifications source. Each implementation owns
// its wire schema and returns canonical records, so the fetch client can
// treat providers as interchangeable fallback tiers.
//
// All methods accept a context for cancellation; every call is bounded by
// the configured request timeout.
type Provider interface {
	Name() string
	FetchBrands(ctx context.Context) ([]string, error)
	FetchDevicesByBrand(ctx context.Context, brand string) ([]models.Device, error)
	FetchDeviceSpecs(ctx context.Context, brand, model string) (*models.Device, error)
}

// maxErrorBodySize bounds how much of an upstream error response is read for
// diagnostics, preventing unbounded allocation on large error bodies.
const maxErrorBodySize = 64 * 1024

// apiClient is the HTTP plumbing shared by both provider implementations:
// gateway authentication headers, bounded timeout and redirect count, and
// optional request pacing.
type apiClient struct {
	name    string
	baseURL string
	host    string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// newAPIClient builds the shared plumbing for one provider. A missing API
// key is tolerated here; requests will fail upstream with an auth error.
func newAPIClient(name string, provider config.ProviderConfig, shared config.ProvidersConfig) *apiClient {
	maxRedirects := shared.MaxRedirects

	var limiter *rate.Limiter
	if shared.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(shared.RequestsPerSecond), 1)
	}

	return &apiClient{
		name:    name,
		baseURL: provider.BaseURL,
		host:    provider.Host,
		apiKey:  shared.APIKey,
		client: &http.Client{
			Timeout: shared.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		limiter: limiter,
	}
}

// getJSON performs a paced, authenticated GET against the provider and
// decodes the JSON response into out. Non-2xx responses become a typed
// *UpstreamError; transport failures are wrapped unchanged so callers can
// tell the two classes apart.
func (c *apiClient) getJSON(ctx context.Context, operation, path string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s request pacing interrupted: %w", c.name, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", c.name, err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(c.name, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(c.name, "transport_error").Inc()
		return fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ProviderRequestsTotal.WithLabelValues(c.name, "upstream_error").Inc()
		return NewUpstreamError(c.name, resp.StatusCode, string(readBodyForError(resp.Body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(c.name, "upstream_error").Inc()
		return fmt.Errorf("failed to decode %s %s response: %w", c.name, operation, err)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(c.name, "success").Inc()
	return nil
}

// readBodyForError reads at most maxErrorBodySize of an error response body,
// marking truncation, so diagnostics never balloon memory.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte(" ... (truncated)")...)
	}
	return body
}
