// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package storage

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testPayload struct {
	ItemIDs []int
	Values  []float64
	Label   string
}

type backend struct {
	name string
	open func(t *testing.T) Store
}

func backends() []backend {
	return []backend{
		{
			name: "file",
			open: func(t *testing.T) Store {
				s, err := NewFileStore(t.TempDir())
				if err != nil {
					t.Fatalf("NewFileStore() error = %v", err)
				}
				return s
			},
		},
		{
			name: "badger",
			open: func(t *testing.T) Store {
				s, err := OpenBadgerStore(BadgerConfig{InMemory: true})
				if err != nil {
					t.Fatalf("OpenBadgerStore() error = %v", err)
				}
				t.Cleanup(func() { _ = s.Close() })
				return s
			},
		},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store := b.open(t)
			ctx := context.Background()

			in := testPayload{ItemIDs: []int{1, 2, 3}, Values: []float64{0.5, 0.25, 0.125}, Label: "x"}
			trained := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
			saved, err := store.Save(ctx, "latent_model", 1, in, ModelMetadata{
				Kind:        KindLatentModel,
				TrainedAt:   trained,
				ItemCount:   3,
				RatingCount: 10,
			})
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if saved.Checksum == "" {
				t.Error("Checksum should not be empty")
			}
			if saved.SizeBytes == 0 {
				t.Error("SizeBytes should not be zero")
			}
			if saved.FormatVersion != FormatVersion {
				t.Errorf("FormatVersion = %d, want %d", saved.FormatVersion, FormatVersion)
			}

			var out testPayload
			meta, err := store.Load(ctx, "latent_model", 1, KindLatentModel, &out)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if meta.Name != "latent_model" || meta.Version != 1 {
				t.Errorf("metadata = %s v%d, want latent_model v1", meta.Name, meta.Version)
			}
			if !meta.TrainedAt.Equal(trained) {
				t.Errorf("TrainedAt = %v, want %v", meta.TrainedAt, trained)
			}
			if meta.RatingCount != 10 {
				t.Errorf("RatingCount = %d, want 10", meta.RatingCount)
			}
			if len(out.ItemIDs) != 3 || out.Values[2] != 0.125 || out.Label != "x" {
				t.Errorf("payload = %+v, want %+v", out, in)
			}
		})
	}
}

func TestStore_LoadLatest(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store := b.open(t)
			ctx := context.Background()

			for v := 1; v <= 3; v++ {
				data := testPayload{Label: string(rune('a' + v - 1))}
				if _, err := store.Save(ctx, "index", v, data, ModelMetadata{Kind: KindSimilarityIndex}); err != nil {
					t.Fatalf("Save() error = %v", err)
				}
			}

			var out testPayload
			meta, err := store.Load(ctx, "index", 0, KindSimilarityIndex, &out)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if meta.Version != 3 {
				t.Errorf("Version = %d, want 3 (latest)", meta.Version)
			}
			if out.Label != "c" {
				t.Errorf("Label = %q, want c", out.Label)
			}

			next, err := NextVersion(ctx, store, "index")
			if err != nil {
				t.Fatalf("NextVersion() error = %v", err)
			}
			if next != 4 {
				t.Errorf("NextVersion() = %d, want 4", next)
			}
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store := b.open(t)
			ctx := context.Background()

			var out testPayload
			if _, err := store.Load(ctx, "missing", 0, "", &out); !errors.Is(err, ErrModelNotFound) {
				t.Errorf("Load(latest) error = %v, want ErrModelNotFound", err)
			}
			if _, err := store.Load(ctx, "missing", 2, "", &out); !errors.Is(err, ErrModelNotFound) {
				t.Errorf("Load(v2) error = %v, want ErrModelNotFound", err)
			}
			if _, err := store.LatestVersion(ctx, "missing"); !errors.Is(err, ErrModelNotFound) {
				t.Errorf("LatestVersion() error = %v, want ErrModelNotFound", err)
			}
			next, err := NextVersion(ctx, store, "missing")
			if err != nil || next != 1 {
				t.Errorf("NextVersion() = %d, %v, want 1, nil", next, err)
			}
		})
	}
}

func TestStore_WrongKind(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store := b.open(t)
			ctx := context.Background()

			if _, err := store.Save(ctx, "m", 1, testPayload{}, ModelMetadata{Kind: KindSimilarityIndex}); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			var out testPayload
			if _, err := store.Load(ctx, "m", 1, KindLatentModel, &out); !errors.Is(err, ErrIncompatible) {
				t.Errorf("Load() error = %v, want ErrIncompatible", err)
			}
		})
	}
}

func TestStore_SaveRejectsBadInput(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store := b.open(t)
			ctx := context.Background()

			tests := []struct {
				name    string
				model   string
				version int
				meta    ModelMetadata
			}{
				{"empty name", "", 1, ModelMetadata{Kind: KindLatentModel}},
				{"zero version", "m", 0, ModelMetadata{Kind: KindLatentModel}},
				{"path in name", "a/b", 1, ModelMetadata{Kind: KindLatentModel}},
				{"missing kind", "m", 1, ModelMetadata{}},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					if _, err := store.Save(ctx, tt.model, tt.version, testPayload{}, tt.meta); err == nil {
						t.Error("Save() should fail")
					}
				})
			}
		})
	}
}

func TestStore_DeleteMovesLatest(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store := b.open(t)
			ctx := context.Background()

			for v := 1; v <= 2; v++ {
				if _, err := store.Save(ctx, "m", v, testPayload{}, ModelMetadata{Kind: KindLatentModel}); err != nil {
					t.Fatalf("Save() error = %v", err)
				}
			}
			if err := store.Delete(ctx, "m", 2); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			latest, err := store.LatestVersion(ctx, "m")
			if err != nil {
				t.Fatalf("LatestVersion() error = %v", err)
			}
			if latest != 1 {
				t.Errorf("LatestVersion() = %d, want 1", latest)
			}

			if err := store.Delete(ctx, "m", 1); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := store.LatestVersion(ctx, "m"); !errors.Is(err, ErrModelNotFound) {
				t.Errorf("LatestVersion() error = %v, want ErrModelNotFound", err)
			}
			if err := store.Delete(ctx, "m", 1); !errors.Is(err, ErrModelNotFound) {
				t.Errorf("Delete() error = %v, want ErrModelNotFound", err)
			}
		})
	}
}

func TestStore_List(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store := b.open(t)
			ctx := context.Background()

			saves := []struct {
				name    string
				version int
				kind    Kind
			}{
				{"similarity_index", 1, KindSimilarityIndex},
				{"latent_model", 1, KindLatentModel},
				{"latent_model", 2, KindLatentModel},
			}
			for _, s := range saves {
				if _, err := store.Save(ctx, s.name, s.version, testPayload{}, ModelMetadata{Kind: s.kind}); err != nil {
					t.Fatalf("Save() error = %v", err)
				}
			}

			models, err := store.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(models) != 2 {
				t.Fatalf("len(List()) = %d, want 2", len(models))
			}
			if models[0].Name != "latent_model" || models[0].Version != 2 {
				t.Errorf("models[0] = %s v%d, want latent_model v2", models[0].Name, models[0].Version)
			}
			if models[1].Name != "similarity_index" || models[1].Kind != KindSimilarityIndex {
				t.Errorf("models[1] = %s (%s), want similarity_index", models[1].Name, models[1].Kind)
			}
		})
	}
}

// rewriteEnvelope re-encodes a stored file after mutating its envelope.
func rewriteEnvelope(t *testing.T, path string, mutate func(env *envelope)) {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	env, err := decodeMetadata(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decodeMetadata() error = %v", err)
	}
	mutate(env)
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestFileStore_RejectsTamperedArtifacts(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(env *envelope)
		wantErr error
	}{
		{
			name:    "checksum mismatch",
			mutate:  func(env *envelope) { env.Metadata.Checksum = "deadbeef" },
			wantErr: ErrChecksum,
		},
		{
			name:    "newer format",
			mutate:  func(env *envelope) { env.Metadata.FormatVersion = FormatVersion + 1 },
			wantErr: ErrIncompatible,
		},
		{
			name:    "truncated payload",
			mutate:  func(env *envelope) { env.CompressedData = env.CompressedData[:len(env.CompressedData)/2] },
			wantErr: ErrCorrupt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			store, err := NewFileStore(dir)
			if err != nil {
				t.Fatalf("NewFileStore() error = %v", err)
			}
			ctx := context.Background()
			if _, err := store.Save(ctx, "m", 1, testPayload{Values: []float64{1, 2, 3}}, ModelMetadata{Kind: KindLatentModel}); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			rewriteEnvelope(t, filepath.Join(dir, "m_v1.gob.gz"), tt.mutate)

			var out testPayload
			if _, err := store.Load(ctx, "m", 1, KindLatentModel, &out); !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFileStore_GarbageFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "m_v1.gob.gz"), []byte("not a model"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	var out testPayload
	if _, err := store.Load(context.Background(), "m", 0, "", &out); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Load() error = %v, want ErrCorrupt", err)
	}
}

func TestFileStore_ScansExistingVersions(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()
	for _, v := range []int{1, 7, 3} {
		if _, err := first.Save(ctx, "latent_model", v, testPayload{}, ModelMetadata{Kind: KindLatentModel}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	latest, err := reopened.LatestVersion(ctx, "latent_model")
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if latest != 7 {
		t.Errorf("LatestVersion() = %d, want 7", latest)
	}
}

func TestFileStore_Prune(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()
	for v := 1; v <= 5; v++ {
		if _, err := store.Save(ctx, "m", v, testPayload{}, ModelMetadata{Kind: KindLatentModel}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	if err := store.Prune(ctx, "m", 2); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	for v := 1; v <= 5; v++ {
		_, statErr := os.Stat(filepath.Join(dir, "m_v"+string(rune('0'+v))+".gob.gz"))
		exists := statErr == nil
		if want := v >= 4; exists != want {
			t.Errorf("version %d exists = %v, want %v", v, exists, want)
		}
	}
}

func TestParseModelFilename(t *testing.T) {
	tests := []struct {
		filename    string
		wantName    string
		wantVersion int
		wantOK      bool
	}{
		{"latent_model_v3.gob.gz", "latent_model", 3, true},
		{"similarity_index_v12.gob.gz", "similarity_index", 12, true},
		{"a_v1_v2.gob.gz", "a_v1", 2, true},
		{"model.gob.gz", "", 0, false},
		{"model_v.gob.gz", "", 0, false},
		{"model_v0.gob.gz", "", 0, false},
		{"model_v1.gob", "", 0, false},
		{"_v1.gob.gz", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			name, version, ok := parseModelFilename(tt.filename)
			if name != tt.wantName || version != tt.wantVersion || ok != tt.wantOK {
				t.Errorf("parseModelFilename(%q) = %q, %d, %v, want %q, %d, %v",
					tt.filename, name, version, ok, tt.wantName, tt.wantVersion, tt.wantOK)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{BackendFile, false},
		{"", false},
		{BackendBadger, false},
		{"s3", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			store, err := Open(tt.backend, t.TempDir())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
			}
			if store != nil {
				if err := store.Close(); err != nil {
					t.Errorf("Close() error = %v", err)
				}
			}
		})
	}
}
