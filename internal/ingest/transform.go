// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package ingest

import "github.com/devatlas/devatlas/internal/models"

// specBuilder accumulates the explicit high-precision mappings for one
// transform, records which payload keys those mappings consumed, and finally
// hands the leftovers to the dynamic normalizer. Explicit entries keep their
// declaration order ahead of the dynamically discovered ones.
type specBuilder struct {
	payload Payload
	known   map[string]struct{}
	specs   []models.DeviceSpec
}

func newSpecBuilder(payload Payload) *specBuilder {
	return &specBuilder{
		payload: payload,
		known:   make(map[string]struct{}),
		specs:   make([]models.DeviceSpec, 0, len(payload)),
	}
}

// add maps a payload key onto a categorized spec entry. The key is marked
// handled even when its value is empty, so the normalizer never re-emits an
// explicitly mapped field.
func (b *specBuilder) add(srcKey, category, displayKey string) {
	b.addValue(srcKey, category, displayKey, b.payload.stringValue(srcKey))
}

// addValue is add with a caller-computed value (for derived formats such as
// "Android {version}").
func (b *specBuilder) addValue(srcKey, category, displayKey, value string) {
	b.known[srcKey] = struct{}{}
	if value == "" {
		return
	}
	b.specs = append(b.specs, models.DeviceSpec{
		Category: category,
		Key:      displayKey,
		Value:    value,
	})
}

// markKnown records payload keys consumed outside the spec list (top-level
// fields, identifiers) so the normalizer skips them.
func (b *specBuilder) markKnown(keys ...string) {
	for _, key := range keys {
		b.known[key] = struct{}{}
	}
}

// build appends the dynamically normalized leftovers and returns the full
// insertion-ordered spec list.
func (b *specBuilder) build() []models.DeviceSpec {
	return append(b.specs, NormalizeSpecs(b.payload, b.known)...)
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
