// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

// Package storage persists trained recommendation artifacts.
//
// An artifact is a gob-encoded, gzip-compressed payload wrapped in an
// envelope carrying ModelMetadata: the payload Kind, the envelope
// FormatVersion, the artifact name and version, and a SHA-256 checksum of
// the uncompressed payload. Every load goes through one decoding boundary
// that rejects artifacts of another kind or format (ErrIncompatible),
// payloads whose checksum does not match (ErrChecksum) and undecodable
// bytes (ErrCorrupt).
//
// # Backends
//
// FileStore keeps one file per version:
//
//	{name}_v{version}.gob.gz
//
// BadgerStore keeps the same envelopes in an embedded BadgerDB:
//
//	model/{name}/v{version}
//	model/{name}/latest
//	meta/{name}/v{version}
//
// # Usage Example
//
//	store, err := storage.Open("file", "/data/models")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	version, err := storage.NextVersion(ctx, store, "latent_model")
//	meta, err := store.Save(ctx, "latent_model", version, payload, storage.ModelMetadata{
//	    Kind:      storage.KindLatentModel,
//	    TrainedAt: time.Now(),
//	})
//
//	var payload collab.ModelPayload
//	meta, err = store.Load(ctx, "latent_model", 0, storage.KindLatentModel, &payload) // 0 = latest
//
// # Thread Safety
//
// Both backends are safe for concurrent use.
package storage
