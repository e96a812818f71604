// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package ingest

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors surfaced by the fetch client once every provider tier has
// been exhausted. They map to 404-class responses at the admin API boundary.
var (
	// ErrDeviceNotFound means no provider could serve the device lookup.
	ErrDeviceNotFound = errors.New("device not found in any provider")

	// ErrBrandNotFound means no provider could list the brand's devices.
	ErrBrandNotFound = errors.New("brand not found in any provider")

	// errShuttingDown ends an in-flight sync run when the manager stops.
	errShuttingDown = errors.New("sync manager shutting down")
)

// UpstreamError wraps a provider response-level failure, distinguishing
// "upstream said no" (it answered with an error status) from "we couldn't
// reach upstream" (plain transport errors are not wrapped). StatusCode
// defaults to 502 when the upstream gave none.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

// NewUpstreamError builds an UpstreamError, applying the 502 default.
func NewUpstreamError(provider string, statusCode int, body string) *UpstreamError {
	if statusCode == 0 {
		statusCode = http.StatusBadGateway
	}
	return &UpstreamError{Provider: provider, StatusCode: statusCode, Body: body}
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s responded with status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s responded with status %d: %s", e.Provider, e.StatusCode, e.Body)
}
