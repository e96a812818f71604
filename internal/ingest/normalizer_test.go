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

func TestInferCategory(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{
			name: "camera key",
			key:  "ultraWideCamera",
			want: "Camera",
		},
		{
			name: "camera wins over sensor on ambiguous key",
			key:  "cameraSensor",
			want: "Camera",
		},
		{
			name: "display key",
			key:  "screenProtection",
			want: "Display",
		},
		{
			name: "video beats resolution in group order",
			key:  "videoResolution",
			want: "Camera",
		},
		{
			name: "battery key",
			key:  "wirelessCharging",
			want: "Battery",
		},
		{
			name: "platform key",
			key:  "chipsetVendor",
			want: "Platform",
		},
		{
			name: "memory key",
			key:  "cardSlot",
			want: "Memory",
		},
		{
			name: "sound key",
			key:  "headphoneJack",
			want: "Sound",
		},
		{
			name: "comms key",
			key:  "bluetoothVersion",
			want: "Comms",
		},
		{
			name: "sensor without camera is features",
			key:  "fingerprintSensor",
			want: "Features",
		},
		{
			name: "body key",
			key:  "simSlots",
			want: "Body",
		},
		{
			name: "unmatched key",
			key:  "customField",
			want: "General",
		},
		{
			name: "case insensitive",
			key:  "BATTERYLIFE",
			want: "Battery",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inferCategory(tt.key); got != tt.want {
				t.Errorf("inferCategory(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestFormatSpecKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{
			name: "camel case splits",
			key:  "customField",
			want: "Custom Field",
		},
		{
			name: "multiple words",
			key:  "mainCameraVideo",
			want: "Main Camera Video",
		},
		{
			name: "single word capitalizes",
			key:  "chipset",
			want: "Chipset",
		},
		{
			name: "already capitalized",
			key:  "OS",
			want: "O S",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatSpecKey(tt.key); got != tt.want {
				t.Errorf("formatSpecKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestNormalizeSpecs(t *testing.T) {
	payload := Payload{
		"id":           "123",
		"_id":          "abc",
		"slug":         "already-known",
		"chipset":      "Tensor G3",
		"customField":  "Some value",
		"batteryLife":  "all day",
		"emptyField":   "",
		"simType":      "Nano-SIM",
		"speakerSetup": "stereo",
	}
	known := map[string]struct{}{"chipset": {}}

	got := NormalizeSpecs(payload, known)

	want := []models.DeviceSpec{
		{Category: "Battery", Key: "Battery Life", Value: "all day"},
		{Category: "General", Key: "Custom Field", Value: "Some value"},
		{Category: "Body", Key: "Sim Type", Value: "Nano-SIM"},
		{Category: "Sound", Key: "Speaker Setup", Value: "stereo"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeSpecs() = %+v, want %+v", got, want)
	}
}

func TestNormalizeSpecsDeterministic(t *testing.T) {
	payload := Payload{
		"alpha":   "1",
		"bravo":   "2",
		"charlie": "3",
		"delta":   "4",
		"echo":    "5",
	}

	first := NormalizeSpecs(payload, nil)
	for i := 0; i < 20; i++ {
		if got := NormalizeSpecs(payload, nil); !reflect.DeepEqual(got, first) {
			t.Fatalf("NormalizeSpecs() unstable on iteration %d: %+v vs %+v", i, got, first)
		}
	}
}

func TestNormalizeSpecsEmptyPayload(t *testing.T) {
	got := NormalizeSpecs(Payload{}, nil)
	if len(got) != 0 {
		t.Errorf("NormalizeSpecs(empty) = %+v, want empty", got)
	}
}
