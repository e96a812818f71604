// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package ingest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/devatlas/devatlas/internal/config"
	"github.com/devatlas/devatlas/internal/models"
)

// PrimaryProviderName labels the first-tier provider in logs and metrics.
const PrimaryProviderName = "arena"

// PrimaryClient talks to the first-tier specifications provider. Its wire
// schema uses flat camelCase detail payloads and plain string arrays for
// brand listings.
type PrimaryClient struct {
	api *apiClient
}

// NewPrimaryClient builds the first-tier provider client from configuration.
func NewPrimaryClient(cfg config.ProvidersConfig) *PrimaryClient {
	return &PrimaryClient{api: newAPIClient(PrimaryProviderName, cfg.Primary, cfg)}
}

// Name implements Provider.
func (c *PrimaryClient) Name() string { return PrimaryProviderName }

// FetchBrands lists every brand the provider knows. The endpoint serves a
// bare JSON string array; any other shape is reported as an error so the
// fetch client can fall back to the next tier.
func (c *PrimaryClient) FetchBrands(ctx context.Context) ([]string, error) {
	var raw []any
	if err := c.api.getJSON(ctx, "brands", "/brands", &raw); err != nil {
		return nil, err
	}

	brands := make([]string, 0, len(raw))
	for _, item := range raw {
		if name, ok := item.(string); ok && name != "" {
			brands = append(brands, name)
		}
	}
	if len(brands) == 0 && len(raw) > 0 {
		return nil, fmt.Errorf("%s brands payload has unexpected shape", c.Name())
	}
	return brands, nil
}

// FetchDevicesByBrand lists a brand's devices as lightweight partial records.
func (c *PrimaryClient) FetchDevicesByBrand(ctx context.Context, brand string) ([]models.Device, error) {
	var raw any
	path := "/brands/" + url.PathEscape(brand)
	if err := c.api.getJSON(ctx, "devices_by_brand", path, &raw); err != nil {
		return nil, err
	}
	return TransformPrimaryDeviceList(raw, brand), nil
}

// FetchDeviceSpecs fetches and transforms one device's full specifications.
// An empty payload counts as a miss, not a success, so the caller falls
// through to the next provider tier.
func (c *PrimaryClient) FetchDeviceSpecs(ctx context.Context, brand, model string) (*models.Device, error) {
	var payload Payload
	path := "/devices/" + url.PathEscape(brand) + "/" + url.PathEscape(model)
	if err := c.api.getJSON(ctx, "device_specs", path, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%s returned an empty payload for %s %s", c.Name(), brand, model)
	}
	return TransformPrimaryDevice(payload, brand, model), nil
}
