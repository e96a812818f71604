// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package ingest

import (
	"reflect"
	"testing"

	"github.com/devatlas/devatlas/internal/models"
)

func findSpec(t *testing.T, specs []models.DeviceSpec, category, key string) models.DeviceSpec {
	t.Helper()
	for _, s := range specs {
		if s.Category == category && s.Key == key {
			return s
		}
	}
	t.Fatalf("spec %s/%s not found in %+v", category, key, specs)
	return models.DeviceSpec{}
}

func TestTransformPrimaryDevice(t *testing.T) {
	payload := Payload{
		"manufacturer":   "Google",
		"model":          "Pixel 8 Pro",
		"androidVersion": "14",
		"internal":       "128GB 12GB RAM, 256GB 12GB RAM",
		"chipset":        "Google Tensor G3",
		"displaySize":    "6.7 inches",
		"battery":        "5050 mAh",
		"img":            "https://cdn.example.com/pixel-8-pro.jpg",
		"customField":    "Some value",
	}

	device := TransformPrimaryDevice(payload, "", "")

	if device.Brand != "Google" {
		t.Errorf("Brand = %q, want %q", device.Brand, "Google")
	}
	if device.Model != "Pixel 8 Pro" {
		t.Errorf("Model = %q, want %q", device.Model, "Pixel 8 Pro")
	}
	if device.Slug != "google-pixel-8-pro" {
		t.Errorf("Slug = %q, want %q", device.Slug, "google-pixel-8-pro")
	}
	if device.Name != "Google Pixel 8 Pro" {
		t.Errorf("Name = %q, want %q", device.Name, "Google Pixel 8 Pro")
	}
	if device.OS != "Android 14" {
		t.Errorf("OS = %q, want %q", device.OS, "Android 14")
	}
	if device.RAM != "12GB" {
		t.Errorf("RAM = %q, want %q", device.RAM, "12GB")
	}
	if device.RAMValue != 12 {
		t.Errorf("RAMValue = %v, want 12", device.RAMValue)
	}
	if device.Storage != "128GB" {
		t.Errorf("Storage = %q, want %q", device.Storage, "128GB")
	}
	if device.StorageValue != 128 {
		t.Errorf("StorageValue = %v, want 128", device.StorageValue)
	}
	if device.DisplaySizeValue != 6.7 {
		t.Errorf("DisplaySizeValue = %v, want 6.7", device.DisplaySizeValue)
	}
	if device.BatteryValue != 5050 {
		t.Errorf("BatteryValue = %v, want 5050", device.BatteryValue)
	}
	if device.ImageURL != "https://cdn.example.com/pixel-8-pro.jpg" {
		t.Errorf("ImageURL = %q", device.ImageURL)
	}
	if !device.IsActive {
		t.Error("IsActive = false, want true")
	}
	if device.Type != models.DeviceTypePhone {
		t.Errorf("Type = %q, want %q", device.Type, models.DeviceTypePhone)
	}

	chipset := findSpec(t, device.Specs, "Platform", "Chipset")
	if chipset.Value != "Google Tensor G3" {
		t.Errorf("Platform/Chipset = %q, want %q", chipset.Value, "Google Tensor G3")
	}

	osSpec := findSpec(t, device.Specs, "Platform", "OS")
	if osSpec.Value != "Android 14" {
		t.Errorf("Platform/OS = %q, want %q", osSpec.Value, "Android 14")
	}

	custom := findSpec(t, device.Specs, "General", "Custom Field")
	if custom.Value != "Some value" {
		t.Errorf("General/Custom Field = %q, want %q", custom.Value, "Some value")
	}
}

func TestTransformPrimaryDeviceMinimalPayload(t *testing.T) {
	device := TransformPrimaryDevice(Payload{"model": "Galaxy S24"}, "Samsung", "")

	if device.Model != "Galaxy S24" {
		t.Errorf("Model = %q, want %q", device.Model, "Galaxy S24")
	}
	if device.Brand != "Samsung" {
		t.Errorf("Brand = %q, want %q", device.Brand, "Samsung")
	}
	if device.Slug != "samsung-galaxy-s24" {
		t.Errorf("Slug = %q, want %q", device.Slug, "samsung-galaxy-s24")
	}
	if len(device.Specs) != 0 {
		t.Errorf("Specs = %+v, want empty", device.Specs)
	}
	if device.OS != "" || device.RAM != "" || device.Storage != "" {
		t.Errorf("derived fields not empty: os=%q ram=%q storage=%q", device.OS, device.RAM, device.Storage)
	}
}

func TestTransformPrimaryDeviceFallbacks(t *testing.T) {
	device := TransformPrimaryDevice(Payload{"chipset": "Dimensity 9300"}, "Xiaomi", "14 Ultra")

	if device.Brand != "Xiaomi" {
		t.Errorf("Brand = %q, want fallback %q", device.Brand, "Xiaomi")
	}
	if device.Model != "14 Ultra" {
		t.Errorf("Model = %q, want fallback %q", device.Model, "14 Ultra")
	}
	// Payload values beat fallbacks
	device = TransformPrimaryDevice(Payload{"manufacturer": "OnePlus", "model": "12"}, "Xiaomi", "14 Ultra")
	if device.Brand != "OnePlus" || device.Model != "12" {
		t.Errorf("payload should win: brand=%q model=%q", device.Brand, device.Model)
	}
}

func TestTransformPrimaryDeviceIdempotent(t *testing.T) {
	payload := Payload{
		"manufacturer":   "Google",
		"model":          "Pixel 8 Pro",
		"androidVersion": "14",
		"internal":       "128GB 12GB RAM",
		"chipset":        "Google Tensor G3",
		"customField":    "Some value",
		"anotherExtra":   "more data",
	}

	first := TransformPrimaryDevice(payload, "", "")
	second := TransformPrimaryDevice(payload, "", "")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("transform not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestTransformPrimaryDeviceList(t *testing.T) {
	raw := []any{
		map[string]any{"model": "Pixel 8", "img": "pixel8.jpg"},
		map[string]any{"deviceName": "Pixel 8 Pro"},
		map[string]any{"irrelevant": "no model"},
		"not an object",
	}

	devices := TransformPrimaryDeviceList(raw, "Google")

	if len(devices) != 2 {
		t.Fatalf("len(devices) = %d, want 2", len(devices))
	}
	if devices[0].Slug != "google-pixel-8" {
		t.Errorf("devices[0].Slug = %q, want %q", devices[0].Slug, "google-pixel-8")
	}
	if devices[1].Model != "Pixel 8 Pro" {
		t.Errorf("devices[1].Model = %q, want %q", devices[1].Model, "Pixel 8 Pro")
	}
	for _, d := range devices {
		if len(d.Specs) != 0 {
			t.Errorf("list records must not carry specs: %+v", d.Specs)
		}
		if !d.IsActive {
			t.Error("list records should be active")
		}
	}
}

func TestTransformPrimaryDeviceListNonArray(t *testing.T) {
	for _, raw := range []any{nil, "oops", map[string]any{"model": "X"}, float64(3)} {
		devices := TransformPrimaryDeviceList(raw, "Google")
		if devices == nil || len(devices) != 0 {
			t.Errorf("TransformPrimaryDeviceList(%T) = %+v, want empty slice", raw, devices)
		}
	}
}
