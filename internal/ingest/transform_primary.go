// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

/*
transform_primary.go - Primary Provider Transform

The primary provider serves GSMArena-style payloads: flat camelCase keys,
combined storage+RAM strings ("128GB 8GB RAM, 256GB 12GB RAM"), a bare
Android version number, and separate spec/feature/video strings per camera.

TransformPrimaryDevice is a pure function: transforming the same payload
twice yields identical output.
*/

package ingest

import "github.com/devatlas/devatlas/internal/models"

// TransformPrimaryDevice converts a primary-provider detail payload into a
// canonical partial device. brandFallback and modelFallback fill in when the
// payload omits manufacturer or model (list endpoints know both, detail
// payloads usually repeat them).
func TransformPrimaryDevice(payload Payload, brandFallback, modelFallback string) *models.Device {
	b := newSpecBuilder(payload)

	osVersion := payload.stringValue("androidVersion")
	osName := ""
	if osVersion != "" {
		osName = "Android " + osVersion
	}

	b.add("chipset", "Platform", "Chipset")
	b.add("cpu", "Platform", "CPU")
	b.add("gpu", "Platform", "GPU")
	b.addValue("androidVersion", "Platform", "OS", osName)
	b.add("displaySize", "Display", "Size")
	b.add("displayResolution", "Display", "Resolution")
	b.add("displayType", "Display", "Type")
	b.add("internal", "Memory", "Internal")
	b.add("mainCamera", "Main Camera", "Specs")
	b.add("mainCameraFeatures", "Main Camera", "Features")
	b.add("mainCameraVideo", "Main Camera", "Video")
	b.add("selfieCamera", "Selfie Camera", "Specs")
	b.add("selfieCameraFeatures", "Selfie Camera", "Features")
	b.add("selfieCameraVideo", "Selfie Camera", "Video")
	b.add("battery", "Battery", "Capacity")
	b.add("sensors", "Features", "Sensors")

	b.markKnown("manufacturer", "model", "id", "_id", "img", "image")

	model := firstNonEmpty(payload.stringValue("model"), modelFallback)
	brand := firstNonEmpty(payload.stringValue("manufacturer"), brandFallback)
	internal := payload.stringValue("internal")

	return &models.Device{
		Model:            model,
		Brand:            brand,
		Slug:             DeviceSlug(brand, model),
		Name:             brand + " " + model,
		ImageURL:         firstNonEmpty(payload.stringValue("img"), payload.stringValue("image")),
		Type:             models.DeviceTypePhone,
		IsActive:         true,
		OS:               osName,
		Storage:          ExtractStorage(internal),
		StorageValue:     ExtractStorageValue(internal),
		RAM:              ExtractRAM(internal),
		RAMValue:         ExtractRAMValue(internal),
		DisplaySize:      payload.stringValue("displaySize"),
		DisplaySizeValue: ExtractDisplaySizeValue(payload.stringValue("displaySize")),
		Chipset:          payload.stringValue("chipset"),
		Battery:          payload.stringValue("battery"),
		BatteryValue:     ExtractBatteryValue(payload.stringValue("battery")),
		Specs:            b.build(),
	}
}

// TransformPrimaryDeviceList converts a primary-provider brand listing into
// lightweight partial devices (no specs) for enumeration. A payload that is
// not an array yields an empty slice rather than an error.
func TransformPrimaryDeviceList(raw any, brand string) []models.Device {
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

		model := firstNonEmpty(payload.stringValue("model"), payload.stringValue("deviceName"))
		if model == "" {
			continue
		}

		devices = append(devices, models.Device{
			Model:    model,
			Brand:    brand,
			Slug:     DeviceSlug(brand, model),
			Name:     brand + " " + model,
			ImageURL: firstNonEmpty(payload.stringValue("img"), payload.stringValue("image")),
			Type:     models.DeviceTypePhone,
			IsActive: true,
			Specs:    []models.DeviceSpec{},
		})
	}
	return devices
}
