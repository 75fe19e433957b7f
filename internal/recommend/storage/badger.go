// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/goccy/go-json"
)

// Key layout:
//
//	model/{name}/v{version}  envelope bytes
//	model/{name}/latest      latest version, decimal
//	meta/{name}/v{version}   ModelMetadata as JSON
const (
	modelPrefix = "model/"
	metaPrefix  = "meta/"
)

// BadgerConfig configures a BadgerStore.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps the database in memory (tests).
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool
}

// BadgerStore keeps artifacts in an embedded BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens or creates the database.
func OpenBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("model store path is required")
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Compression = options.Snappy

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func modelKey(name string, version int) []byte {
	return []byte(modelPrefix + name + "/v" + strconv.Itoa(version))
}

func latestKey(name string) []byte {
	return []byte(modelPrefix + name + "/latest")
}

func metaKey(name string, version int) []byte {
	return []byte(metaPrefix + name + "/v" + strconv.Itoa(version))
}

// Save writes the envelope, its metadata and the latest pointer in one
// transaction.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *BadgerStore) Save(ctx context.Context, name string, version int, data any, meta ModelMetadata) (*ModelMetadata, error) {
	if err := checkName(name, version); err != nil {
		return nil, err
	}
	if strings.Contains(name, "/") {
		return nil, fmt.Errorf("model name %q must not contain '/'", name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta.Name = name
	meta.Version = version
	buf, meta, err := encode(data, meta)
	if err != nil {
		return nil, err
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(modelKey(name, version), buf); err != nil {
			return err
		}
		if err := txn.Set(metaKey(name, version), metaJSON); err != nil {
			return err
		}
		latest, err := readLatest(txn, name)
		if err != nil && !errors.Is(err, ErrModelNotFound) {
			return err
		}
		if version > latest {
			return txn.Set(latestKey(name), []byte(strconv.Itoa(version)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}
	return &meta, nil
}

// Load decodes version of name into target. Version 0 loads the latest.
func (s *BadgerStore) Load(ctx context.Context, name string, version int, kind Kind, target any) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		if version == 0 {
			latest, err := readLatest(txn, name)
			if err != nil {
				return err
			}
			version = latest
		}
		item, err := txn.Get(modelKey(name, version))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s v%d", ErrModelNotFound, name, version)
		}
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return decode(bytes.NewReader(raw), kind, target)
}

// LatestVersion returns the newest version of name.
func (s *BadgerStore) LatestVersion(_ context.Context, name string) (int, error) {
	var latest int
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		latest, err = readLatest(txn, name)
		return err
	})
	return latest, err
}

func readLatest(txn *badger.Txn, name string) (int, error) {
	item, err := txn.Get(latestKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	if err != nil {
		return 0, err
	}
	var version int
	err = item.Value(func(val []byte) error {
		v, err := strconv.Atoi(string(val))
		version = v
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: latest pointer for %s: %w", ErrCorrupt, name, err)
	}
	return version, nil
}

// List returns metadata for the latest version of every artifact, sorted
// by name.
func (s *BadgerStore) List(ctx context.Context) ([]ModelMetadata, error) {
	var models []ModelMetadata
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(modelPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := string(it.Item().Key())
			name, found := strings.CutSuffix(strings.TrimPrefix(key, modelPrefix), "/latest")
			if !found {
				continue
			}
			version, err := readLatest(txn, name)
			if err != nil {
				return err
			}
			item, err := txn.Get(metaKey(name, version))
			if err != nil {
				continue
			}
			var meta ModelMetadata
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &meta) }); err != nil {
				continue
			}
			models = append(models, meta)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return models, nil
}

// Delete removes one version and moves the latest pointer if needed.
func (s *BadgerStore) Delete(_ context.Context, name string, version int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(modelKey(name, version)); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s v%d", ErrModelNotFound, name, version)
		} else if err != nil {
			return err
		}
		if err := txn.Delete(modelKey(name, version)); err != nil {
			return err
		}
		if err := txn.Delete(metaKey(name, version)); err != nil {
			return err
		}

		latest, err := readLatest(txn, name)
		if err != nil || latest != version {
			return err
		}

		newest := 0
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(modelPrefix + name + "/v")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			v, err := strconv.Atoi(strings.TrimPrefix(string(it.Item().Key()), string(prefix)))
			if err == nil && v != version && v > newest {
				newest = v
			}
		}
		if newest == 0 {
			return txn.Delete(latestKey(name))
		}
		return txn.Set(latestKey(name), []byte(strconv.Itoa(newest)))
	})
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
