// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/devatlas/devatlas/internal/catalog"
	"github.com/devatlas/devatlas/internal/ingest"
	"github.com/devatlas/devatlas/internal/models"
)

// SyncControl is the slice of the sync orchestrator the handlers drive.
type SyncControl interface {
	TriggerSync(ctx context.Context, trigger string)
	SyncBrand(ctx context.Context, brand string) error
	SyncDevice(ctx context.Context, brand, model string) (*models.Device, error)
	Status() ingest.Status
}

// CatalogReader is the slice of the catalog store the handlers read.
type CatalogReader interface {
	GetDevice(ctx context.Context, slug string) (*models.Device, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListDevicesByCategory(ctx context.Context, categorySlug string) ([]models.Device, error)
}

// Handlers holds the admin API endpoint implementations.
type Handlers struct {
	sync    SyncControl
	catalog CatalogReader
}

// NewHandlers wires the handlers to their collaborators.
func NewHandlers(sync SyncControl, catalog CatalogReader) *Handlers {
	return &Handlers{sync: sync, catalog: catalog}
}

// HandleTriggerSync handles POST /api/v1/sync.
// The run happens in the background; the response only acknowledges the
// hand-off. Failures surface in logs and GET /api/v1/sync/status.
func (h *Handlers) HandleTriggerSync(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	// Detached from the request context: the run outlives this response.
	h.sync.TriggerSync(context.WithoutCancel(r.Context()), ingest.TriggerManual)

	rw.Accepted(map[string]string{
		"message": "full sync started",
	})
}

// HandleSyncBrand handles POST /api/v1/sync/brands/{brand}.
// Unlike the full sync this runs synchronously so an operator fixing one
// brand sees the real outcome.
func (h *Handlers) HandleSyncBrand(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	brand := pathParam(r, "brand")
	if brand == "" {
		rw.BadRequest("brand is required")
		return
	}

	if err := h.sync.SyncBrand(r.Context(), brand); err != nil {
		switch {
		case errors.Is(err, ingest.ErrBrandNotFound):
			rw.NotFound("brand not found in any provider: " + brand)
		default:
			rw.ExternalServiceError(err)
		}
		return
	}

	rw.Success(map[string]string{
		"message": "brand synced",
		"brand":   brand,
	})
}

// HandleSyncStatus handles GET /api/v1/sync/status.
func (h *Handlers) HandleSyncStatus(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.sync.Status())
}

// HandleGetDevice handles GET /api/v1/devices/{brand}/{model}.
// The catalog is consulted first; on a miss the device is fetched from the
// providers, upserted, and returned — so the endpoint doubles as an on-demand
// single-device sync.
func (h *Handlers) HandleGetDevice(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	brand := pathParam(r, "brand")
	model := pathParam(r, "model")
	if brand == "" || model == "" {
		rw.BadRequest("brand and model are required")
		return
	}

	slug := ingest.DeviceSlug(brand, model)
	device, err := h.catalog.GetDevice(r.Context(), slug)
	if err == nil {
		rw.Success(device)
		return
	}
	if !errors.Is(err, catalog.ErrDeviceNotFound) {
		rw.InternalError("catalog lookup failed")
		return
	}

	device, err = h.sync.SyncDevice(r.Context(), brand, model)
	if err != nil {
		if errors.Is(err, ingest.ErrDeviceNotFound) {
			rw.NotFound("device not found: " + slug)
			return
		}
		rw.ExternalServiceError(err)
		return
	}
	rw.Success(device)
}

// HandleListBrands handles GET /api/v1/brands.
func (h *Handlers) HandleListBrands(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		rw.InternalError("failed to list brands")
		return
	}
	rw.Success(categories)
}

// HandleListBrandDevices handles GET /api/v1/brands/{brand}/devices.
func (h *Handlers) HandleListBrandDevices(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	brand := pathParam(r, "brand")
	if brand == "" {
		rw.BadRequest("brand is required")
		return
	}

	devices, err := h.catalog.ListDevicesByCategory(r.Context(), ingest.Slugify(brand))
	if err != nil {
		rw.InternalError("failed to list devices")
		return
	}
	rw.Success(devices)
}

// HandleHealthz handles GET /healthz.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ok"})
}

// pathParam returns a chi URL parameter with percent-encoding undone, so
// "Pixel%208%20Pro" arrives as "Pixel 8 Pro".
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
