// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package storage

import (
	"context"
	"errors"
	"fmt"
)

// Store persists versioned model artifacts.
type Store interface {
	// Save writes data as version of name and returns the completed metadata.
	Save(ctx context.Context, name string, version int, data any, meta ModelMetadata) (*ModelMetadata, error)

	// Load decodes version of name into target. Version 0 loads the latest.
	// An empty kind accepts any payload type.
	Load(ctx context.Context, name string, version int, kind Kind, target any) (*ModelMetadata, error)

	// LatestVersion returns the newest version of name or ErrModelNotFound.
	LatestVersion(ctx context.Context, name string) (int, error)

	// List returns the metadata of the latest version of every artifact.
	List(ctx context.Context) ([]ModelMetadata, error)

	// Delete removes one version.
	Delete(ctx context.Context, name string, version int) error

	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Open opens the store backend named by backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(path)
	case BackendBadger:
		return OpenBadgerStore(BadgerConfig{Path: path})
	default:
		return nil, fmt.Errorf("unknown model store backend %q", backend)
	}
}

// NextVersion returns the version a new artifact named name should use.
func NextVersion(ctx context.Context, s Store, name string) (int, error) {
	latest, err := s.LatestVersion(ctx, name)
	if errors.Is(err, ErrModelNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return latest + 1, nil
}

func checkName(name string, version int) error {
	if name == "" {
		return errors.New("model name is required")
	}
	if version < 1 {
		return fmt.Errorf("model version must be positive, got %d", version)
	}
	return nil
}
