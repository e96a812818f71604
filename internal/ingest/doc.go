// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

// Package ingest aggregates device specifications from two heterogeneous
// upstream providers and merges them into the canonical catalog.
//
// # Pipeline
//
//	Manager -> Fetcher -> (primary | secondary provider) -> raw payload
//	        -> transformer -> normalizer + field extraction -> models.Device
//	        -> catalog upsert
//
// The fetch client tries the primary provider first and falls back to the
// secondary on any failure; only when both fail does a lookup surface a
// terminal not-found error. Providers are modeled as an ordered strategy
// slice, so adding a third provider touches no fallback logic.
//
// Payloads are opaque key/value bags. Each transformer applies a fixed set of
// high-precision field mappings, then the dynamic normalizer categorizes
// every remaining key by substring heuristics, which keeps ingestion working
// when providers grow new fields without notice.
//
// The Manager drives bulk synchronization sequentially (one brand, one device
// at a time): third-party metered APIs are the bottleneck, and fan-out would
// only risk tripping their rate limits. Per-brand and per-device failures are
// logged and skipped; only a failure to enumerate brands aborts a run.
package ingest
