// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

/*
fields.go - Free-Text Field Extraction

Pure parsers for the free-text conventions both providers use in their spec
strings:

  - "128GB 8GB RAM, 256GB 12GB RAM"  (internal memory variants)
  - "5050 mAh"                       (battery capacity)
  - "6.7 inches"                     (display size)

Unparseable or empty input always degrades to the zero value of the result
type ("" or 0); extraction never returns an error.
*/

package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	ramPattern         = regexp.MustCompile(`(?i)(\d+)\s*(GB)\s*RAM`)
	storagePattern     = regexp.MustCompile(`(?i)^(\d+)\s*(GB|TB|MB)`)
	batteryPattern     = regexp.MustCompile(`(?i)(\d+)\s*mAh`)
	displaySizePattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*inches`)
)

// ExtractRAM returns the first RAM token of an internal-memory string as a
// display value, e.g. "8GB" from "128GB 8GB RAM". Returns "" when the string
// carries no RAM marker.
func ExtractRAM(internal string) string {
	m := ramPattern.FindStringSubmatch(internal)
	if m == nil {
		return ""
	}
	return m[1] + m[2]
}

// ExtractRAMValue returns the RAM magnitude in GB, or 0 when unparseable.
func ExtractRAMValue(internal string) float64 {
	m := ramPattern.FindStringSubmatch(internal)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// ExtractStorage returns the leading storage token of an internal-memory
// string exactly as written, e.g. "128GB" from "128GB 8GB RAM" or "1TB" from
// "1TB 12GB RAM". Returns "" when the string does not start with a
// number+unit token.
func ExtractStorage(internal string) string {
	m := storagePattern.FindString(internal)
	return m
}

// ExtractStorageValue returns the leading storage magnitude normalized to GB:
// TB multiplied by 1024, MB divided by 1024, GB as-is. Returns 0 on no match.
func ExtractStorageValue(internal string) float64 {
	m := storagePattern.FindStringSubmatch(internal)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	switch strings.ToUpper(m[2]) {
	case "TB":
		return v * 1024
	case "MB":
		return v / 1024
	default:
		return v
	}
}

// ExtractBatteryValue returns the battery capacity in mAh, or 0.
func ExtractBatteryValue(battery string) float64 {
	m := batteryPattern.FindStringSubmatch(battery)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// ExtractDisplaySizeValue returns the display diagonal in inches, or 0.
func ExtractDisplaySizeValue(display string) float64 {
	m := displaySizePattern.FindStringSubmatch(display)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}
