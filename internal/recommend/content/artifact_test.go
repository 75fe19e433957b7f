// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package content

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/storage"
)

func newFileStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return store
}

func TestIndexArtifact_RoundTrip(t *testing.T) {
	table := sampleCatalog(t)
	built, err := Build(context.Background(), table, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	store := newFileStore(t)
	ctx := context.Background()
	meta, err := SaveIndex(ctx, store, DefaultArtifactName, built, time.Second)
	if err != nil {
		t.Fatalf("SaveIndex() error = %v", err)
	}
	if meta.Kind != storage.KindSimilarityIndex || meta.Version != 1 {
		t.Errorf("metadata = %s v%d, want similarity_index v1", meta.Kind, meta.Version)
	}

	loaded, _, err := LoadIndex(ctx, store, DefaultArtifactName, table)
	if err != nil {
		t.Fatalf("LoadIndex() error = %v", err)
	}
	if !reflect.DeepEqual(loaded.neighbors, built.neighbors) {
		t.Error("loaded index differs from built index")
	}
	if loaded.limit != DefaultConfig().Depth {
		t.Errorf("stored depth = %d, want %d", loaded.limit, DefaultConfig().Depth)
	}
	if loaded.Metric() != MetricCosine {
		t.Errorf("Metric() = %q, want cosine", loaded.Metric())
	}
}

func TestLoadIndex_StaleCatalog(t *testing.T) {
	built, err := Build(context.Background(), sampleCatalog(t), DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	store := newFileStore(t)
	ctx := context.Background()
	if _, err := SaveIndex(ctx, store, DefaultArtifactName, built, 0); err != nil {
		t.Fatalf("SaveIndex() error = %v", err)
	}

	smaller := mustTable(t, []catalog.Item{
		{ID: 1, Title: "Toy Story (1995)"},
		{ID: 2, Title: "Toy Story 2 (1999)"},
	})
	if _, _, err := LoadIndex(ctx, store, DefaultArtifactName, smaller); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("LoadIndex() error = %v, want ErrInvalidIndex", err)
	}
}

func TestLoadIndex_WrongKind(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()
	if _, err := store.Save(ctx, DefaultArtifactName, 1, IndexPayload{}, storage.ModelMetadata{Kind: storage.KindLatentModel}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, _, err := LoadIndex(ctx, store, DefaultArtifactName, sampleCatalog(t)); !errors.Is(err, storage.ErrIncompatible) {
		t.Errorf("LoadIndex() error = %v, want ErrIncompatible", err)
	}
}

func TestFromPayload_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		payload IndexPayload
	}{
		{
			name:    "length mismatch",
			payload: IndexPayload{ItemIDs: []int{1, 2}, Neighbors: [][]Neighbor{{}}},
		},
		{
			name:    "unsorted list",
			payload: IndexPayload{ItemIDs: []int{1}, Neighbors: [][]Neighbor{{{ID: 2, Score: 0.1}, {ID: 3, Score: 0.9}}}},
		},
		{
			name:    "duplicate movie",
			payload: IndexPayload{ItemIDs: []int{1, 1}, Neighbors: [][]Neighbor{{}, {}}},
		},
		{
			name:    "deeper than declared",
			payload: IndexPayload{Depth: 1, ItemIDs: []int{1}, Neighbors: [][]Neighbor{{{ID: 2, Score: 0.9}, {ID: 3, Score: 0.1}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromPayload(tt.payload); !errors.Is(err, ErrInvalidIndex) {
				t.Errorf("FromPayload() error = %v, want ErrInvalidIndex", err)
			}
		})
	}
}

func TestNewLoader(t *testing.T) {
	table := sampleCatalog(t)
	ctx := context.Background()

	t.Run("build", func(t *testing.T) {
		load := NewLoader(table, LoaderConfig{Source: SourceBuild, Config: DefaultConfig()}, nil, zerolog.Nop())
		engine, err := load(ctx)
		if err != nil {
			t.Fatalf("loader error = %v", err)
		}
		got, err := engine.Rank(ctx, []int{1, 3, 6}, 2)
		if err != nil {
			t.Fatalf("Rank() error = %v", err)
		}
		if !slices.ContainsFunc(got, func(s recommend.Scored) bool { return s.ID == 2 }) {
			t.Errorf("Rank() = %v, want Toy Story 2 included", got)
		}
	})

	t.Run("artifact", func(t *testing.T) {
		store := newFileStore(t)
		built, err := Build(ctx, table, DefaultConfig(), zerolog.Nop())
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if _, err := SaveIndex(ctx, store, "custom_index", built, 0); err != nil {
			t.Fatalf("SaveIndex() error = %v", err)
		}
		load := NewLoader(table, LoaderConfig{Source: SourceArtifact, ArtifactName: "custom_index", Config: DefaultConfig()}, store, zerolog.Nop())
		if _, err := load(ctx); err != nil {
			t.Errorf("loader error = %v", err)
		}
	})

	t.Run("artifact shallower than max top_n", func(t *testing.T) {
		store := newFileStore(t)
		cfg := DefaultConfig()
		cfg.Depth = 5
		built, err := Build(ctx, table, cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if _, err := SaveIndex(ctx, store, DefaultArtifactName, built, 0); err != nil {
			t.Fatalf("SaveIndex() error = %v", err)
		}

		shallow := NewLoader(table, LoaderConfig{Source: SourceArtifact, Config: DefaultConfig(), MaxTopN: 10}, store, zerolog.Nop())
		if _, err := shallow(ctx); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("loader error = %v, want ErrInvalidIndex", err)
		}
		deepEnough := NewLoader(table, LoaderConfig{Source: SourceArtifact, Config: DefaultConfig(), MaxTopN: 5}, store, zerolog.Nop())
		if _, err := deepEnough(ctx); err != nil {
			t.Errorf("loader error = %v, want nil at max top_n 5", err)
		}
	})

	t.Run("missing artifact", func(t *testing.T) {
		load := NewLoader(table, LoaderConfig{Source: SourceArtifact, Config: DefaultConfig()}, newFileStore(t), zerolog.Nop())
		if _, err := load(ctx); !errors.Is(err, storage.ErrModelNotFound) {
			t.Errorf("loader error = %v, want ErrModelNotFound", err)
		}
	})

	t.Run("artifact without store", func(t *testing.T) {
		load := NewLoader(table, LoaderConfig{Source: SourceArtifact, Config: DefaultConfig()}, nil, zerolog.Nop())
		if _, err := load(ctx); err == nil {
			t.Error("loader should fail without a store")
		}
	})

	t.Run("unknown source", func(t *testing.T) {
		load := NewLoader(table, LoaderConfig{Source: "s3", Config: DefaultConfig()}, nil, zerolog.Nop())
		if _, err := load(ctx); err == nil {
			t.Error("loader should fail for an unknown source")
		}
	})
}
