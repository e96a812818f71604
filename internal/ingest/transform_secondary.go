// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

/*
transform_secondary.go - Secondary Provider Transform

The secondary provider serves hardware-specs payloads: body dimensions and
weight as discrete fields, a single combined camera string per side, battery
described by type ("Li-Po 5000 mAh, non-removable"), and available colors.
Secondary payloads never carry a brand; the caller supplies it from the
listing context.
*/

package ingest

import "github.com/devatlas/devatlas/internal/models"

// TransformSecondaryDevice converts a secondary-provider detail payload into
// a canonical partial device. brand is passed through unchanged; modelFallback
// fills in when the payload omits its name.
func TransformSecondaryDevice(payload Payload, brand, modelFallback string) *models.Device {
	b := newSpecBuilder(payload)

	b.add("dimensions", "Body", "Dimensions")
	b.add("weight", "Body", "Weight")
	b.add("displayType", "Display", "Type")
	b.add("displaySize", "Display", "Size")
	b.add("resolution", "Display", "Resolution")
	b.add("chipset", "Platform", "Chipset")
	b.add("cpu", "Platform", "CPU")
	b.add("gpu", "Platform", "GPU")
	b.add("mainCamera", "Main Camera", "Specs")
	b.add("selfieCamera", "Selfie Camera", "Specs")
	b.add("batteryType", "Battery", "Type")
	b.add("colors", "Misc", "Colors")

	b.markKnown("name", "id", "_id", "img", "image")

	model := firstNonEmpty(payload.stringValue("name"), modelFallback)
	battery := payload.stringValue("batteryType")
	displaySize := payload.stringValue("displaySize")

	return &models.Device{
		Model:            model,
		Brand:            brand,
		Slug:             DeviceSlug(brand, model),
		Name:             brand + " " + model,
		ImageURL:         firstNonEmpty(payload.stringValue("img"), payload.stringValue("image")),
		Type:             models.DeviceTypePhone,
		IsActive:         true,
		Dimension:        payload.stringValue("dimensions"),
		Weight:           payload.stringValue("weight"),
		DisplaySize:      displaySize,
		DisplaySizeValue: ExtractDisplaySizeValue(displaySize),
		Chipset:          payload.stringValue("chipset"),
		Battery:          battery,
		BatteryValue:     ExtractBatteryValue(battery),
		Specs:            b.build(),
	}
}

// TransformSecondaryDeviceList converts a secondary-provider brand listing
// into lightweight partial devices (no specs). A payload that is not an
// array yields an empty slice.
func TransformSecondaryDeviceList(raw any, brand string) []models.Device {
	items, ok := raw.([]any)
	if !ok {
		return []models.Device{}
	}

	devices := make([]models.Device, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		payload := Payload(obj)

		model := payload.stringValue("name")
		if model == "" {
			continue
		}

		devices = append(devices, models.Device{
			Model:    model,
			Brand:    brand,
			Slug:     DeviceSlug(brand, model),
			Name:     brand + " " + model,
			ImageURL: firstNonEmpty(payload.stringValue("image"), payload.stringValue("img")),
			Type:     models.DeviceTypePhone,
			IsActive: true,
			Specs:    []models.DeviceSpec{},
		})
	}
	return devices
}
