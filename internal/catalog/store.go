// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

// Package catalog persists the device catalog in BadgerDB. Records are
// keyed by slug, JSON-encoded, and upserts merge into whatever is already
// stored: a lightweight listing record never erases detail fields a full
// specifications fetch wrote earlier.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/devatlas/devatlas/internal/config"
	"github.com/devatlas/devatlas/internal/logging"
	"github.com/devatlas/devatlas/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	deviceKeyPrefix   = "device:"
	categoryKeyPrefix = "category:"
)

// Lookup errors.
var (
	ErrDeviceNotFound   = errors.New("device not found in catalog")
	ErrCategoryNotFound = errors.New("category not found in catalog")
)

// Store is the BadgerDB-backed catalog.
type Store struct {
	db       *badger.DB
	validate *validator.Validate
}

// Open opens (or creates) the catalog database at the configured path. With
// InMemory set the store lives only for the process lifetime, which the test
// suite and ephemeral deployments use.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Bool("in_memory", cfg.InMemory).Msg("Catalog store opened")
	return &Store{
		db:       db,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertCategory creates the category or refreshes an existing one,
// preserving its creation timestamp. The stored record is returned.
func (s *Store) UpsertCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(category); err != nil {
		return nil, fmt.Errorf("invalid category: %w", err)
	}
	if category.Slug == "" {
		return nil, errors.New("invalid category: slug is required")
	}

	now := time.Now().UTC()
	stored := *category
	stored.UpdatedAt = now
	stored.CreatedAt = now

	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(categoryKeyPrefix + category.Slug)

		if existing, err := getJSON[models.Category](txn, key); err == nil {
			stored.CreatedAt = existing.CreatedAt
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(&stored)
		if err != nil {
			return fmt.Errorf("marshal category: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert category %q: %w", category.Slug, err)
	}
	return &stored, nil
}

// GetCategory retrieves a category by slug.
func (s *Store) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var category *models.Category
	err := s.db.View(func(txn *badger.Txn) error {
		c, err := getJSON[models.Category](txn, []byte(categoryKeyPrefix+slug))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrCategoryNotFound
		}
		category = c
		return err
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns every category, ordered by slug.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	categories := []models.Category{}
	err := s.db.View(func(txn *badger.Txn) error {
		return iteratePrefix(txn, categoryKeyPrefix, func(val []byte) error {
			var c models.Category
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			categories = append(categories, c)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// UpsertDevice writes a device record, merging with any stored record for
// the same slug. Incoming non-empty fields win; fields the incoming record
// leaves empty keep their stored value. The merged record is returned.
func (s *Store) UpsertDevice(ctx context.Context, device *models.Device) (*models.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(device); err != nil {
		return nil, fmt.Errorf("invalid device: %w", err)
	}

	now := time.Now().UTC()
	merged := *device
	merged.UpdatedAt = now
	merged.CreatedAt = now

	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(deviceKeyPrefix + device.Slug)

		if existing, err := getJSON[models.Device](txn, key); err == nil {
			merged = mergeDevice(*existing, *device)
			merged.CreatedAt = existing.CreatedAt
			merged.UpdatedAt = now
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(&merged)
		if err != nil {
			return fmt.Errorf("marshal device: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert device %q: %w", device.Slug, err)
	}
	return &merged, nil
}

// GetDevice retrieves a device by slug.
func (s *Store) GetDevice(ctx context.Context, slug string) (*models.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var device *models.Device
	err := s.db.View(func(txn *badger.Txn) error {
		d, err := getJSON[models.Device](txn, []byte(deviceKeyPrefix+slug))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrDeviceNotFound
		}
		device = d
		return err
	})
	if err != nil {
		return nil, err
	}
	return device, nil
}

// ListDevicesByCategory returns every device in a category, ordered by slug.
func (s *Store) ListDevicesByCategory(ctx context.Context, categorySlug string) ([]models.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	devices := []models.Device{}
	err := s.db.View(func(txn *badger.Txn) error {
		return iteratePrefix(txn, deviceKeyPrefix, func(val []byte) error {
			var d models.Device
			if err := json.Unmarshal(val, &d); err != nil {
				return err
			}
			if d.Category == categorySlug {
				devices = append(devices, d)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}

// mergeDevice overlays incoming onto existing: non-empty incoming fields
// win, empty ones keep the stored value. Specs replace wholesale when the
// incoming record carries any, so a full detail fetch refreshes the list but
// a lightweight listing record leaves it alone.
func mergeDevice(existing, incoming models.Device) models.Device {
	merged := existing

	setString(&merged.Model, incoming.Model)
	setString(&merged.Brand, incoming.Brand)
	setString(&merged.Category, incoming.Category)
	setString(&merged.Name, incoming.Name)
	setString(&merged.ImageURL, incoming.ImageURL)
	setString(&merged.OS, incoming.OS)
	setString(&merged.Storage, incoming.Storage)
	setString(&merged.RAM, incoming.RAM)
	setString(&merged.DisplaySize, incoming.DisplaySize)
	setString(&merged.Chipset, incoming.Chipset)
	setString(&merged.Battery, incoming.Battery)
	setString(&merged.Dimension, incoming.Dimension)
	setString(&merged.Weight, incoming.Weight)

	setFloat(&merged.StorageValue, incoming.StorageValue)
	setFloat(&merged.RAMValue, incoming.RAMValue)
	setFloat(&merged.DisplaySizeValue, incoming.DisplaySizeValue)
	setFloat(&merged.BatteryValue, incoming.BatteryValue)

	if incoming.Type != "" {
		merged.Type = incoming.Type
	}
	merged.IsActive = incoming.IsActive
	if len(incoming.Specs) > 0 {
		merged.Specs = incoming.Specs
	}
	return merged
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

// getJSON loads and decodes one record inside a transaction.
func getJSON[T any](txn *badger.Txn, key []byte) (*T, error) {
	item, err := txn.Get(key)
	if err != nil {
		return nil, err
	}
	var out T
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &out)
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// iteratePrefix walks every value under a key prefix. Badger iterates keys
// in lexicographic order, so results are ordered by slug.
func iteratePrefix(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
