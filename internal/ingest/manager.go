// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devatlas/devatlas/internal/config"
	"github.com/devatlas/devatlas/internal/logging"
	"github.com/devatlas/devatlas/internal/metrics"
	"github.com/devatlas/devatlas/internal/models"
)

// Sync trigger labels for logs and metrics.
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
	TriggerStartup   = "startup"
)

// Catalog is the upsert collaborator the orchestrator feeds. Both operations
// are idempotent: re-upserting the same record merges rather than duplicates,
// which is what makes overlapping sync runs harmless.
type Catalog interface {
	UpsertCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	UpsertDevice(ctx context.Context, device *models.Device) (*models.Device, error)
}

// DeviceSource is the slice of the fetch client the orchestrator consumes.
type DeviceSource interface {
	FetchBrands(ctx context.Context) []string
	FetchDevicesByBrand(ctx context.Context, brand string) ([]models.Device, error)
	FetchDeviceSpecs(ctx context.Context, brand, model string) (*models.Device, error)
}

// Status is a point-in-time snapshot of the orchestrator for the admin API.
type Status struct {
	Running         bool      `json:"running"`
	LastRunID       string    `json:"last_run_id,omitempty"`
	LastRunAt       time.Time `json:"last_run_at"`
	LastResult      string    `json:"last_result,omitempty"`
	LastError       string    `json:"last_error,omitempty"`
	BrandsSynced    int       `json:"brands_synced"`
	BrandsFailed    int       `json:"brands_failed"`
	DevicesUpserted int       `json:"devices_upserted"`
	DevicesFailed   int       `json:"devices_failed"`
	NextRunAt       time.Time `json:"next_run_at"`
}

// runCounters accumulates per-run accounting.
type runCounters struct {
	brandsSynced    int
	brandsFailed    int
	devicesUpserted int
	devicesFailed   int
}

// Manager drives bulk ingestion: enumerate brands, ensure each brand's
// category exists, list the brand's devices and upsert each one. A failing
// brand or device is logged and skipped; the run always walks the full brand
// list. Brands are processed sequentially to stay inside provider rate
// limits.
type Manager struct {
	source   DeviceSource
	catalog  Catalog
	cfg      config.SyncConfig
	schedule *Schedule

	mu     sync.RWMutex
	status Status

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewManager builds the orchestrator. The cron expression is validated here
// even when scheduling is disabled, so a bad expression fails at startup
// rather than at the first tick.
func NewManager(source DeviceSource, catalog Catalog, cfg config.SyncConfig) (*Manager, error) {
	schedule, err := ParseSchedule(cfg.Cron)
	if err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", cfg.Cron, err)
	}
	return &Manager{
		source:   source,
		catalog:  catalog,
		cfg:      cfg,
		schedule: schedule,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start launches the scheduler loop and, when configured, an initial startup
// sync. It returns immediately.
func (m *Manager) Start(ctx context.Context) {
	if m.cfg.OnStartup {
		m.TriggerSync(ctx, TriggerStartup)
	}
	if !m.cfg.Enabled {
		logging.Info().Msg("Scheduled sync disabled")
		return
	}

	m.wg.Add(1)
	go m.scheduleLoop(ctx)
}

// Stop terminates the scheduler loop and waits for in-flight work spawned by
// Start to finish. Safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()
}

// Status returns a snapshot of the orchestrator state.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// TriggerSync launches a full sync in the background and returns
// immediately. Failures are logged, never returned; callers that need the
// result use FullSync directly.
func (m *Manager) TriggerSync(ctx context.Context, trigger string) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.run(ctx, trigger); err != nil {
			logging.Error().Err(err).Str("trigger", trigger).Msg("Background sync failed")
		}
	}()
}

// FullSync runs a complete brand-by-brand ingestion synchronously.
func (m *Manager) FullSync(ctx context.Context) error {
	return m.run(ctx, TriggerManual)
}

// IncrementalSync currently performs the same work as FullSync: upsert
// semantics make a full pass incremental by nature. The separate entry point
// keeps room for delta detection against provider change feeds.
func (m *Manager) IncrementalSync(ctx context.Context) error {
	return m.run(ctx, TriggerScheduled)
}

// SyncBrand ingests exactly one brand, synchronously. Unlike the bulk run,
// a listing failure here propagates to the caller so an operator-initiated
// fix reports honestly.
func (m *Manager) SyncBrand(ctx context.Context, brand string) error {
	counters := &runCounters{}
	if err := m.syncBrand(ctx, brand, counters); err != nil {
		return err
	}
	logging.Info().
		Str("brand", brand).
		Int("devices_upserted", counters.devicesUpserted).
		Int("devices_failed", counters.devicesFailed).
		Msg("Brand sync complete")
	return nil
}

// SyncDevice fetches one device's full specifications and upserts it,
// ensuring its brand category exists first. Used by the admin fetch-through
// lookup.
func (m *Manager) SyncDevice(ctx context.Context, brand, model string) (*models.Device, error) {
	device, err := m.source.FetchDeviceSpecs(ctx, brand, model)
	if err != nil {
		return nil, err
	}

	category, err := m.catalog.UpsertCategory(ctx, &models.Category{
		Name: device.Brand,
		Slug: Slugify(device.Brand),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert category %q: %w", device.Brand, err)
	}

	device.Category = category.Slug
	stored, err := m.catalog.UpsertDevice(ctx, device)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert device %q: %w", device.Slug, err)
	}
	return stored, nil
}

// run executes one full sync pass. Only the brand enumeration step can end a
// run early; per-brand and per-device failures are absorbed into counters.
func (m *Manager) run(ctx context.Context, trigger string) error {
	runID := uuid.NewString()
	start := time.Now()

	m.mu.Lock()
	m.status.Running = true
	m.status.LastRunID = runID
	m.status.LastRunAt = start
	m.mu.Unlock()

	logging.Info().Str("run_id", runID).Str("trigger", trigger).Msg("Sync run started")

	counters := &runCounters{}
	result := "completed"
	var runErr error

	brands := m.source.FetchBrands(ctx)
	if len(brands) == 0 {
		logging.Warn().Str("run_id", runID).Msg("No brands to sync")
	}

	for _, brand := range brands {
		if err := m.interrupted(ctx); err != nil {
			result = "failed"
			runErr = fmt.Errorf("sync run %s interrupted: %w", runID, err)
			break
		}
		if err := m.syncBrand(ctx, brand, counters); err != nil {
			counters.brandsFailed++
			metrics.BrandsFailed.Inc()
			logging.Error().Err(err).Str("run_id", runID).Str("brand", brand).Msg("Brand sync failed, continuing")
			continue
		}
		counters.brandsSynced++
	}

	elapsed := time.Since(start)
	metrics.SyncRunsTotal.WithLabelValues(trigger, result).Inc()
	metrics.SyncDurationSeconds.Observe(elapsed.Seconds())

	m.mu.Lock()
	m.status.Running = false
	m.status.LastResult = result
	m.status.LastError = ""
	if runErr != nil {
		m.status.LastError = runErr.Error()
	}
	m.status.BrandsSynced = counters.brandsSynced
	m.status.BrandsFailed = counters.brandsFailed
	m.status.DevicesUpserted = counters.devicesUpserted
	m.status.DevicesFailed = counters.devicesFailed
	m.mu.Unlock()

	logging.Info().
		Str("run_id", runID).
		Str("trigger", trigger).
		Str("result", result).
		Dur("elapsed", elapsed).
		Int("brands_synced", counters.brandsSynced).
		Int("brands_failed", counters.brandsFailed).
		Int("devices_upserted", counters.devicesUpserted).
		Int("devices_failed", counters.devicesFailed).
		Msg("Sync run finished")

	return runErr
}

// interrupted reports why a run should stop early: context cancellation, or
// manager shutdown. Manual triggers run on an uncancelable context, so the
// stop channel is what ends them at shutdown.
func (m *Manager) interrupted(ctx context.Context) error {
	select {
	case <-m.stopCh:
		return errShuttingDown
	default:
	}
	return ctx.Err()
}

// syncBrand ensures the brand's category exists, lists its devices and
// upserts each one. The category upsert happens before the device listing so
// the category survives even when the listing fails.
func (m *Manager) syncBrand(ctx context.Context, brand string, counters *runCounters) error {
	category, err := m.catalog.UpsertCategory(ctx, &models.Category{
		Name: brand,
		Slug: Slugify(brand),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert category %q: %w", brand, err)
	}

	devices, err := m.source.FetchDevicesByBrand(ctx, brand)
	if err != nil {
		return fmt.Errorf("failed to list devices for %q: %w", brand, err)
	}

	for i := range devices {
		device := &devices[i]
		device.Category = category.Slug
		if _, err := m.catalog.UpsertDevice(ctx, device); err != nil {
			counters.devicesFailed++
			metrics.DevicesFailed.Inc()
			logging.Error().Err(err).Str("brand", brand).Str("device", device.Slug).Msg("Device upsert failed, continuing")
			continue
		}
		counters.devicesUpserted++
		metrics.DevicesUpserted.Inc()
	}
	return nil
}

// scheduleLoop sleeps until each cron tick and runs an incremental sync.
func (m *Manager) scheduleLoop(ctx context.Context) {
	defer m.wg.Done()

	for {
		next := m.schedule.NextRun(time.Now())
		if next.IsZero() {
			logging.Error().Str("cron", m.cfg.Cron).Msg("Schedule never fires, stopping scheduler")
			return
		}

		m.mu.Lock()
		m.status.NextRunAt = next
		m.mu.Unlock()

		timer := time.NewTimer(time.Until(next))
		select {
		case <-timer.C:
			logging.Info().Time("scheduled_for", next).Msg("Scheduled sync due")
			if err := m.IncrementalSync(ctx); err != nil {
				logging.Error().Err(err).Msg("Scheduled sync failed")
			}
		case <-m.stopCh:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}
