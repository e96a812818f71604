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

// SecondaryProviderName labels the fallback provider in logs and metrics.
const SecondaryProviderName = "hwspecs"

// SecondaryClient talks to the fallback specifications provider. Unlike the
// first tier it lists brands as objects and nests battery and body details
// under discrete fields.
type SecondaryClient struct {
	api *apiClient
}

// NewSecondaryClient builds the fallback provider client from configuration.
func NewSecondaryClient(cfg config.ProvidersConfig) *SecondaryClient {
	return &SecondaryClient{api: newAPIClient(SecondaryProviderName, cfg.Secondary, cfg)}
}

// Name implements Provider.
func (c *SecondaryClient) Name() string { return SecondaryProviderName }

// FetchBrands lists every brand the provider knows. Entries arrive as
// objects carrying the name under "brand_name" or "name"; bare strings are
// accepted too.
func (c *SecondaryClient) FetchBrands(ctx context.Context) ([]string, error) {
	var raw []any
	if err := c.api.getJSON(ctx, "brands", "/brands", &raw); err != nil {
		return nil, err
	}

	brands := make([]string, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			if v != "" {
				brands = append(brands, v)
			}
		case map[string]any:
			payload := Payload(v)
			if name := firstNonEmpty(payload.stringValue("brand_name"), payload.stringValue("name")); name != "" {
				brands = append(brands, name)
			}
		}
	}
	if len(brands) == 0 && len(raw) > 0 {
		return nil, fmt.Errorf("%s brands payload has unexpected shape", c.Name())
	}
	return brands, nil
}

// FetchDevicesByBrand lists a brand's devices as lightweight partial records.
func (c *SecondaryClient) FetchDevicesByBrand(ctx context.Context, brand string) ([]models.Device, error) {
	var raw any
	path := "/brands/" + url.PathEscape(Slugify(brand)) + "/devices"
	if err := c.api.getJSON(ctx, "devices_by_brand", path, &raw); err != nil {
		return nil, err
	}
	return TransformSecondaryDeviceList(raw, brand), nil
}

// FetchDeviceSpecs fetches and transforms one device's full specifications.
func (c *SecondaryClient) FetchDeviceSpecs(ctx context.Context, brand, model string) (*models.Device, error) {
	var payload Payload
	path := "/devices/" + url.PathEscape(brand) + "/" + url.PathEscape(model)
	if err := c.api.getJSON(ctx, "device_specs", path, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%s returned an empty payload for %s %s", c.Name(), brand, model)
	}
	return TransformSecondaryDevice(payload, brand, model), nil
}
