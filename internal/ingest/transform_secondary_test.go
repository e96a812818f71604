// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package ingest

import "testing"

func TestTransformSecondaryDevice(t *testing.T) {
	payload := Payload{
		"name":        "Galaxy S24 Ultra",
		"dimensions":  "162.3 x 79 x 8.6 mm",
		"weight":      "232 g",
		"displayType": "Dynamic AMOLED 2X",
		"displaySize": "6.8 inches",
		"resolution":  "1440 x 3120 pixels",
		"chipset":     "Snapdragon 8 Gen 3",
		"mainCamera":  "200 MP wide",
		"batteryType": "Li-Ion 5000 mAh, non-removable",
		"colors":      []any{"Titanium Black", "Titanium Gray"},
		"image":       "s24u.jpg",
	}

	device := TransformSecondaryDevice(payload, "Samsung", "")

	if device.Brand != "Samsung" {
		t.Errorf("Brand = %q, want %q", device.Brand, "Samsung")
	}
	if device.Model != "Galaxy S24 Ultra" {
		t.Errorf("Model = %q, want %q", device.Model, "Galaxy S24 Ultra")
	}
	if device.Slug != "samsung-galaxy-s24-ultra" {
		t.Errorf("Slug = %q, want %q", device.Slug, "samsung-galaxy-s24-ultra")
	}
	if device.Dimension != "162.3 x 79 x 8.6 mm" {
		t.Errorf("Dimension = %q", device.Dimension)
	}
	if device.Weight != "232 g" {
		t.Errorf("Weight = %q", device.Weight)
	}
	if device.Battery != "Li-Ion 5000 mAh, non-removable" {
		t.Errorf("Battery = %q", device.Battery)
	}
	if device.BatteryValue != 5000 {
		t.Errorf("BatteryValue = %v, want 5000", device.BatteryValue)
	}
	if device.DisplaySizeValue != 6.8 {
		t.Errorf("DisplaySizeValue = %v, want 6.8", device.DisplaySizeValue)
	}
	if device.Chipset != "Snapdragon 8 Gen 3" {
		t.Errorf("Chipset = %q", device.Chipset)
	}

	body := findSpec(t, device.Specs, "Body", "Dimensions")
	if body.Value != "162.3 x 79 x 8.6 mm" {
		t.Errorf("Body/Dimensions = %q", body.Value)
	}
	camera := findSpec(t, device.Specs, "Main Camera", "Specs")
	if camera.Value != "200 MP wide" {
		t.Errorf("Main Camera/Specs = %q", camera.Value)
	}
	colors := findSpec(t, device.Specs, "Misc", "Colors")
	if colors.Value != "Titanium Black, Titanium Gray" {
		t.Errorf("Misc/Colors = %q", colors.Value)
	}
}

func TestTransformSecondaryDeviceModelFallback(t *testing.T) {
	device := TransformSecondaryDevice(Payload{"chipset": "A17 Pro"}, "Apple", "iPhone 15 Pro")

	if device.Model != "iPhone 15 Pro" {
		t.Errorf("Model = %q, want fallback %q", device.Model, "iPhone 15 Pro")
	}
	if device.Slug != "apple-iphone-15-pro" {
		t.Errorf("Slug = %q, want %q", device.Slug, "apple-iphone-15-pro")
	}
}

func TestTransformSecondaryDeviceList(t *testing.T) {
	raw := []any{
		map[string]any{"name": "Galaxy S24", "image": "s24.jpg"},
		map[string]any{"name": "Galaxy A55"},
		map[string]any{"missing": "name"},
	}

	devices := TransformSecondaryDeviceList(raw, "Samsung")

	if len(devices) != 2 {
		t.Fatalf("len(devices) = %d, want 2", len(devices))
	}
	if devices[0].ImageURL != "s24.jpg" {
		t.Errorf("devices[0].ImageURL = %q", devices[0].ImageURL)
	}
	if devices[1].Slug != "samsung-galaxy-a55" {
		t.Errorf("devices[1].Slug = %q, want %q", devices[1].Slug, "samsung-galaxy-a55")
	}
	for _, d := range devices {
		if len(d.Specs) != 0 {
			t.Errorf("list records must not carry specs: %+v", d.Specs)
		}
	}
}

func TestTransformSecondaryDeviceListNonArray(t *testing.T) {
	devices := TransformSecondaryDeviceList(map[string]any{"name": "X"}, "Samsung")
	if devices == nil || len(devices) != 0 {
		t.Errorf("TransformSecondaryDeviceList(non-array) = %+v, want empty slice", devices)
	}
}
