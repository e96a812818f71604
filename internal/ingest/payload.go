// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package ingest

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Payload is an untyped provider response body. Neither provider publishes a
// stable schema: keys come and go, values may be strings, numbers, nested
// objects or arrays, and nothing here is trusted beyond "it decoded as a JSON
// object". The transformers and the normalizer must tolerate every shape.
type Payload map[string]any

// stringValue coerces a payload value for the given key into a display
// string. Scalars render directly; objects and arrays are JSON-flattened via
// flattenValue. Missing, nil and empty-string values yield "".
func (p Payload) stringValue(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}

	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, []any:
		return flattenValue(t)
	default:
		return ""
	}
}

// has reports whether key is present with a non-empty value.
func (p Payload) has(key string) bool {
	return p.stringValue(key) != ""
}

// flattenValue renders a nested object or array as a one-line display string
// by JSON-encoding it and stripping the structural characters, normalizing
// comma spacing. {"sim":"Nano","usb":"Type-C"} -> "sim: Nano, usb: Type-C".
func flattenValue(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}

	s := string(raw)
	replacer := strings.NewReplacer(`{`, "", `}`, "", `[`, "", `]`, "", `"`, "")
	s = replacer.Replace(s)
	s = strings.ReplaceAll(s, ":", ": ")
	s = strings.ReplaceAll(s, ",", ", ")

	// Collapse any double spacing the replacements introduced.
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}
