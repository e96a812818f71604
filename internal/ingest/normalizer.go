// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

/*
normalizer.go - Dynamic Spec Categorization

Each transformer maps the payload keys it knows about with high precision,
then hands the payload plus that known-key set to NormalizeSpecs, which turns
every remaining informative key into a categorized spec entry. This is what
keeps ingestion working when a provider ships new fields without notice: the
field lands in a heuristically chosen category instead of being dropped.

Category inference tests the lowercased key against ordered substring groups;
the FIRST matching group wins, so a key containing both "camera" and "sensor"
resolves to Camera. The group order is load-bearing - reordering it changes
categorization for ambiguous keys.
*/

package ingest

import (
	"sort"
	"strings"
	"unicode"

	"github.com/devatlas/devatlas/internal/models"
)

// categoryGroup binds a spec category to the key substrings that select it.
type categoryGroup struct {
	category   string
	substrings []string
}

// categoryGroups is evaluated in order; first match wins. Keys matching no
// group fall through to General.
var categoryGroups = []categoryGroup{
	{"Camera", []string{"camera", "video", "photo"}},
	{"Display", []string{"display", "screen", "resolution"}},
	{"Battery", []string{"battery", "charge", "charging"}},
	{"Platform", []string{"cpu", "gpu", "chipset", "processor"}},
	{"Memory", []string{"memory", "storage", "ram", "card"}},
	{"Sound", []string{"sound", "audio", "jack", "speaker"}},
	{"Comms", []string{"network", "wifi", "bluetooth", "gps", "nfc", "radio", "usb"}},
	{"Features", []string{"sensor"}},
	{"Body", []string{"body", "dimension", "weight", "sim", "build"}},
}

// skippedKeys are identifier-like payload keys that carry no spec value.
var skippedKeys = map[string]struct{}{
	"id":   {},
	"slug": {},
	"_id":  {},
}

// NormalizeSpecs emits one spec entry per payload key not present in known,
// skipping identifier keys and empty values. Keys are processed in sorted
// order so the output is deterministic for a given payload (Go maps do not
// preserve JSON object order).
func NormalizeSpecs(payload Payload, known map[string]struct{}) []models.DeviceSpec {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		if _, handled := known[key]; handled {
			continue
		}
		if _, skip := skippedKeys[key]; skip {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	specs := make([]models.DeviceSpec, 0, len(keys))
	for _, key := range keys {
		value := payload.stringValue(key)
		if value == "" {
			continue
		}
		specs = append(specs, models.DeviceSpec{
			Category: inferCategory(key),
			Key:      formatSpecKey(key),
			Value:    value,
		})
	}
	return specs
}

// inferCategory picks the spec category for an unknown payload key.
func inferCategory(key string) string {
	lower := strings.ToLower(key)
	for _, group := range categoryGroups {
		for _, sub := range group.substrings {
			if strings.Contains(lower, sub) {
				return group.category
			}
		}
	}
	return "General"
}

// formatSpecKey turns a camelCase payload key into a Title Case display key:
// "customField" -> "Custom Field", "mainCameraVideo" -> "Main Camera Video".
func formatSpecKey(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)

	for i, r := range key {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
