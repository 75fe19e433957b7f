// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"
)

// FormatVersion is the envelope layout this build reads and writes.
const FormatVersion = 1

// Kind identifies the payload type inside an artifact.
type Kind string

const (
	// KindSimilarityIndex holds content neighbor lists.
	KindSimilarityIndex Kind = "similarity_index"

	// KindLatentModel holds ALS item factors.
	KindLatentModel Kind = "latent_model"
)

var (
	// ErrModelNotFound is returned when no artifact matches name and version.
	ErrModelNotFound = errors.New("model not found")

	// ErrIncompatible is returned for an artifact of another kind or format.
	ErrIncompatible = errors.New("incompatible model artifact")

	// ErrChecksum is returned when the payload does not match its checksum.
	ErrChecksum = errors.New("model checksum mismatch")

	// ErrCorrupt is returned when an artifact cannot be decoded at all.
	ErrCorrupt = errors.New("corrupt model artifact")
)

// ModelMetadata describes one stored artifact.
type ModelMetadata struct {
	// Kind is the payload type.
	Kind Kind `json:"kind"`

	// FormatVersion is the envelope layout version.
	FormatVersion int `json:"format_version"`

	// Name is the artifact name (e.g., "latent_model").
	Name string `json:"name"`

	// Version is the artifact version (monotonically increasing).
	Version int `json:"version"`

	// TrainedAt is when the payload was computed.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the artifact was written.
	SavedAt time.Time `json:"saved_at"`

	// ItemCount is the number of movies covered.
	ItemCount int `json:"item_count"`

	// RatingCount is the number of ratings used for training, if any.
	RatingCount int `json:"rating_count,omitempty"`

	// Checksum is the SHA-256 of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`

	// TrainingDurationMS is how long the payload took to compute.
	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// envelope is the stored form of an artifact.
type envelope struct {
	Metadata       ModelMetadata
	CompressedData []byte
}

// encode serializes data into an envelope. meta is completed with the
// format version, checksum, size and save time.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func encode(data any, meta ModelMetadata) ([]byte, ModelMetadata, error) {
	if meta.Kind == "" {
		return nil, meta, errors.New("artifact kind is required")
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(data); err != nil {
		return nil, meta, fmt.Errorf("encode model: %w", err)
	}

	hash := sha256.Sum256(raw.Bytes())
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, meta, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, meta, fmt.Errorf("finalize compression: %w", err)
	}

	meta.FormatVersion = FormatVersion
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()

	var out bytes.Buffer
	if err := gob.NewEncoder(&out).Encode(envelope{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		return nil, meta, fmt.Errorf("write envelope: %w", err)
	}
	return out.Bytes(), meta, nil
}

// decodeMetadata reads only the envelope header.
func decodeMetadata(r io.Reader) (*envelope, error) {
	var env envelope
	if err := gob.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: read envelope: %w", ErrCorrupt, err)
	}
	return &env, nil
}

// decode is the single deserialization boundary for artifacts: it checks
// format, kind and checksum before decoding the payload into target.
func decode(r io.Reader, kind Kind, target any) (*ModelMetadata, error) {
	env, err := decodeMetadata(r)
	if err != nil {
		return nil, err
	}
	meta := env.Metadata

	if meta.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: %s v%d has format %d, want %d",
			ErrIncompatible, meta.Name, meta.Version, meta.FormatVersion, FormatVersion)
	}
	if kind != "" && meta.Kind != kind {
		return nil, fmt.Errorf("%w: %s v%d holds %q, want %q",
			ErrIncompatible, meta.Name, meta.Version, meta.Kind, kind)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(env.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress model: %w", ErrCorrupt, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("%w: read decompressed data: %w", ErrCorrupt, err)
	}

	hash := sha256.Sum256(raw)
	if sum := hex.EncodeToString(hash[:]); sum != meta.Checksum {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksum, meta.Checksum, sum)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, fmt.Errorf("%w: decode model: %w", ErrCorrupt, err)
	}
	return &meta, nil
}
