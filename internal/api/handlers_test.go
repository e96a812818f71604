// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/devatlas/devatlas/internal/catalog"
	"github.com/devatlas/devatlas/internal/ingest"
	"github.com/devatlas/devatlas/internal/models"
)

type fakeSync struct {
	triggered      []string
	syncBrandErr   error
	syncBrandCalls []string
	device         *models.Device
	deviceErr      error
	deviceCalls    int
	status         ingest.Status
}

func (f *fakeSync) TriggerSync(_ context.Context, trigger string) {
	f.triggered = append(f.triggered, trigger)
}

func (f *fakeSync) SyncBrand(_ context.Context, brand string) error {
	f.syncBrandCalls = append(f.syncBrandCalls, brand)
	return f.syncBrandErr
}

func (f *fakeSync) SyncDevice(_ context.Context, _, _ string) (*models.Device, error) {
	f.deviceCalls++
	return f.device, f.deviceErr
}

func (f *fakeSync) Status() ingest.Status { return f.status }

type fakeCatalog struct {
	devices    map[string]*models.Device
	categories []models.Category
	byCategory map[string][]models.Device
}

func (f *fakeCatalog) GetDevice(_ context.Context, slug string) (*models.Device, error) {
	if d, ok := f.devices[slug]; ok {
		return d, nil
	}
	return nil, catalog.ErrDeviceNotFound
}

func (f *fakeCatalog) ListCategories(_ context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalog) ListDevicesByCategory(_ context.Context, slug string) ([]models.Device, error) {
	return f.byCategory[slug], nil
}

func newTestServer(t *testing.T, sync *fakeSync, cat *fakeCatalog) *httptest.Server {
	t.Helper()
	if cat.devices == nil {
		cat.devices = map[string]*models.Device{}
	}
	srv := httptest.NewServer(NewRouter(NewHandlers(sync, cat), RouterConfig{}))
	t.Cleanup(srv.Close)
	return srv
}

func decodeResponse(t *testing.T, resp *http.Response) APIResponse {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var body APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestTriggerSyncAccepted(t *testing.T) {
	sync := &fakeSync{}
	srv := newTestServer(t, sync, &fakeCatalog{})

	resp, err := http.Post(srv.URL+"/api/v1/sync", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /sync error = %v", err)
	}
	body := decodeResponse(t, resp)

	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("status = %d, want 202", resp.StatusCode)
	}
	if !body.Success {
		t.Error("Success = false, want true")
	}
	if len(sync.triggered) != 1 || sync.triggered[0] != ingest.TriggerManual {
		t.Errorf("triggered = %v, want one manual trigger", sync.triggered)
	}
}

func TestSyncBrandSuccess(t *testing.T) {
	sync := &fakeSync{}
	srv := newTestServer(t, sync, &fakeCatalog{})

	resp, err := http.Post(srv.URL+"/api/v1/sync/brands/Samsung", "application/json", nil)
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	decodeResponse(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if len(sync.syncBrandCalls) != 1 || sync.syncBrandCalls[0] != "Samsung" {
		t.Errorf("syncBrandCalls = %v", sync.syncBrandCalls)
	}
}

func TestSyncBrandNotFound(t *testing.T) {
	sync := &fakeSync{syncBrandErr: ingest.ErrBrandNotFound}
	srv := newTestServer(t, sync, &fakeCatalog{})

	resp, err := http.Post(srv.URL+"/api/v1/sync/brands/Nokiatron", "application/json", nil)
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	body := decodeResponse(t, resp)

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v, want NOT_FOUND", body.Error)
	}
}

func TestSyncBrandUpstreamFailure(t *testing.T) {
	sync := &fakeSync{syncBrandErr: errors.New("listing exploded")}
	srv := newTestServer(t, sync, &fakeCatalog{})

	resp, err := http.Post(srv.URL+"/api/v1/sync/brands/Samsung", "application/json", nil)
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	decodeResponse(t, resp)

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestSyncStatus(t *testing.T) {
	sync := &fakeSync{status: ingest.Status{LastResult: "completed", DevicesUpserted: 42}}
	srv := newTestServer(t, sync, &fakeCatalog{})

	resp, err := http.Get(srv.URL + "/api/v1/sync/status")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body := decodeResponse(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	data, ok := body.Data.(map[string]any)
	if !ok {
		t.Fatalf("Data = %T, want object", body.Data)
	}
	if data["last_result"] != "completed" {
		t.Errorf("last_result = %v, want completed", data["last_result"])
	}
	if data["devices_upserted"] != float64(42) {
		t.Errorf("devices_upserted = %v, want 42", data["devices_upserted"])
	}
}

func TestGetDeviceFromCatalog(t *testing.T) {
	sync := &fakeSync{}
	cat := &fakeCatalog{
		devices: map[string]*models.Device{
			"google-pixel-8-pro": {Slug: "google-pixel-8-pro", OS: "Android 14"},
		},
	}
	srv := newTestServer(t, sync, cat)

	resp, err := http.Get(srv.URL + "/api/v1/devices/Google/Pixel%208%20Pro")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body := decodeResponse(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if sync.deviceCalls != 0 {
		t.Error("catalog hit must not reach the providers")
	}
	data := body.Data.(map[string]any)
	if data["os"] != "Android 14" {
		t.Errorf("os = %v, want Android 14", data["os"])
	}
}

func TestGetDeviceFetchThrough(t *testing.T) {
	sync := &fakeSync{
		device: &models.Device{Slug: "google-pixel-9", Category: "google"},
	}
	srv := newTestServer(t, sync, &fakeCatalog{})

	resp, err := http.Get(srv.URL + "/api/v1/devices/Google/Pixel%209")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	decodeResponse(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if sync.deviceCalls != 1 {
		t.Errorf("deviceCalls = %d, want 1 fetch-through", sync.deviceCalls)
	}
}

func TestGetDeviceNotAnywhere(t *testing.T) {
	sync := &fakeSync{deviceErr: ingest.ErrDeviceNotFound}
	srv := newTestServer(t, sync, &fakeCatalog{})

	resp, err := http.Get(srv.URL + "/api/v1/devices/Google/Pixel%2099")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body := decodeResponse(t, resp)

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v, want NOT_FOUND", body.Error)
	}
}

func TestListBrands(t *testing.T) {
	cat := &fakeCatalog{
		categories: []models.Category{{Name: "Google", Slug: "google"}},
	}
	srv := newTestServer(t, &fakeSync{}, cat)

	resp, err := http.Get(srv.URL + "/api/v1/brands")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body := decodeResponse(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	list, ok := body.Data.([]any)
	if !ok || len(list) != 1 {
		t.Errorf("Data = %+v, want one brand", body.Data)
	}
}

func TestListBrandDevices(t *testing.T) {
	cat := &fakeCatalog{
		byCategory: map[string][]models.Device{
			"google": {{Slug: "google-pixel-8"}, {Slug: "google-pixel-8-pro"}},
		},
	}
	srv := newTestServer(t, &fakeSync{}, cat)

	resp, err := http.Get(srv.URL + "/api/v1/brands/Google/devices")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body := decodeResponse(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	list, ok := body.Data.([]any)
	if !ok || len(list) != 2 {
		t.Errorf("Data = %+v, want two devices", body.Data)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeSync{}, &fakeCatalog{})

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	decodeResponse(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t, &fakeSync{}, &fakeCatalog{})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", "trace-me-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if got := resp.Header.Get("X-Request-ID"); got != "trace-me-123" {
		t.Errorf("X-Request-ID = %q, want trace-me-123", got)
	}
}
