// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

// Package models defines the canonical catalog records shared across the
// ingestion engine, the catalog store, and the admin API.
package models

import "time"

// DeviceType classifies a catalog device.
type DeviceType string

// Known device types. Ingested devices are phones; other types exist for
// manually curated catalog entries.
const (
	DeviceTypePhone  DeviceType = "phone"
	DeviceTypeTablet DeviceType = "tablet"
	DeviceTypeWatch  DeviceType = "watch"
)

// DeviceSpec is one labeled attribute of a device, e.g.
// {Category: "Platform", Key: "Chipset", Value: "Snapdragon 8 Gen 2"}.
//
// A device's spec list is insertion-ordered: explicitly mapped fields first,
// dynamically discovered fields after. The list is rebuilt wholesale on every
// transform; entries are never mutated in place.
type DeviceSpec struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// Device is the canonical (possibly partial) device record.
//
// Invariants:
//   - Slug is a deterministic lowercase hyphenated function of (Brand, Model).
//   - Every *Value field is a normalized magnitude (GB, mAh, inches) or 0
//     when the source text was unparseable. Never NaN.
//
// A transformer produces a Device without Category; the sync orchestrator
// assigns Category (the owning brand's category slug) before upsert. The
// store rejects upserts lacking Slug or Category.
type Device struct {
	Model    string     `json:"model"`
	Brand    string     `json:"brand"`
	Slug     string     `json:"slug" validate:"required"`
	Category string     `json:"category" validate:"required"`
	Name     string     `json:"name"`
	ImageURL string     `json:"image_url,omitempty"`
	Type     DeviceType `json:"type"`
	IsActive bool       `json:"is_active"`

	OS               string  `json:"os,omitempty"`
	Storage          string  `json:"storage,omitempty"`
	StorageValue     float64 `json:"storage_value,omitempty"`
	RAM              string  `json:"ram,omitempty"`
	RAMValue         float64 `json:"ram_value,omitempty"`
	DisplaySize      string  `json:"display_size,omitempty"`
	DisplaySizeValue float64 `json:"display_size_value,omitempty"`
	Chipset          string  `json:"chipset,omitempty"`
	Battery          string  `json:"battery,omitempty"`
	BatteryValue     float64 `json:"battery_value,omitempty"`
	Dimension        string  `json:"dimension,omitempty"`
	Weight           string  `json:"weight,omitempty"`

	Specs []DeviceSpec `json:"specs"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Category is a device category, one per brand for ingested devices.
// Identity is owned by the catalog store; the ingestion engine only produces
// the name and slug.
type Category struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
