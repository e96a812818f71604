// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package ingest

import "strings"

// Slugify converts free text into a lowercase hyphenated slug:
// "Google Pixel 8 Pro" -> "google-pixel-8-pro". Runs of non-alphanumeric
// characters collapse into a single hyphen; leading and trailing hyphens are
// trimmed. Deterministic for a given input.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// DeviceSlug derives the canonical device slug from brand and model.
func DeviceSlug(brand, model string) string {
	return Slugify(brand + " " + model)
}
