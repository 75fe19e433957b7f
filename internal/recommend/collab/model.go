// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package collab

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/linalg"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/storage"
)

// DefaultArtifactName is the store name of the latent model.
const DefaultArtifactName = "latent_model"

var (
	// ErrInvalidModel is wrapped by every model validation failure.
	ErrInvalidModel = errors.New("invalid latent model")

	// ErrStaleModel is returned when the model names movies the catalog
	// does not have.
	ErrStaleModel = errors.New("latent model does not match the catalog")
)

// ModelPayload is the stored form of a trained implicit ALS model.
// ItemFactors is parallel to ItemIDs.
type ModelPayload struct {
	Factors        int
	Regularization float64
	Alpha          float64
	ItemIDs        []int
	ItemFactors    [][]float64
	UserCount      int
	RatingCount    int
}

// Model is a validated latent model plus the item Gram matrix YᵀY. It is
// read-only and safe for concurrent use.
type Model struct {
	factors        int
	regularization float64
	alpha          float64

	ids     []int
	pos     map[int]int
	vectors [][]float64
	norms   []float64
	gram    [][]float64
}

// NewModel validates p and precomputes the Gram matrix and item norms.
func NewModel(p ModelPayload) (*Model, error) {
	if p.Factors < 1 {
		return nil, fmt.Errorf("%w: %d factors", ErrInvalidModel, p.Factors)
	}
	if !(p.Regularization > 0) || math.IsInf(p.Regularization, 0) {
		return nil, fmt.Errorf("%w: regularization %v must be positive", ErrInvalidModel, p.Regularization)
	}
	if !(p.Alpha >= 0) || math.IsInf(p.Alpha, 0) {
		return nil, fmt.Errorf("%w: alpha %v must be non-negative", ErrInvalidModel, p.Alpha)
	}
	if len(p.ItemIDs) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidModel)
	}
	if len(p.ItemIDs) != len(p.ItemFactors) {
		return nil, fmt.Errorf("%w: %d ids for %d vectors", ErrInvalidModel, len(p.ItemIDs), len(p.ItemFactors))
	}

	m := &Model{
		factors:        p.Factors,
		regularization: p.Regularization,
		alpha:          p.Alpha,
		ids:            p.ItemIDs,
		pos:            make(map[int]int, len(p.ItemIDs)),
		vectors:        p.ItemFactors,
		norms:          make([]float64, len(p.ItemIDs)),
	}
	for i, id := range p.ItemIDs {
		if _, dup := m.pos[id]; dup {
			return nil, fmt.Errorf("%w: movie %d stored twice", ErrInvalidModel, id)
		}
		m.pos[id] = i
		v := p.ItemFactors[i]
		if len(v) != p.Factors {
			return nil, fmt.Errorf("%w: movie %d has %d factors, want %d", ErrInvalidModel, id, len(v), p.Factors)
		}
		if !linalg.Finite(v) {
			return nil, fmt.Errorf("%w: movie %d: %w", ErrInvalidModel, id, linalg.ErrNonFinite)
		}
		m.norms[i] = linalg.Norm(v)
	}
	m.gram = linalg.Gram(m.vectors, m.factors)
	return m, nil
}

// Payload returns the stored form of m.
func (m *Model) Payload() ModelPayload {
	return ModelPayload{
		Factors:        m.factors,
		Regularization: m.regularization,
		Alpha:          m.alpha,
		ItemIDs:        m.ids,
		ItemFactors:    m.vectors,
	}
}

// Len is the number of movies with a vector.
func (m *Model) Len() int { return len(m.ids) }

// Factors is the latent dimension.
func (m *Model) Factors() int { return m.factors }

// Vector returns the factors of id. Callers must not modify it.
func (m *Model) Vector(id int) ([]float64, bool) {
	i, ok := m.pos[id]
	if !ok {
		return nil, false
	}
	return m.vectors[i], true
}

// CheckCatalog fails with ErrStaleModel if any model movie is missing from
// table.
func (m *Model) CheckCatalog(table *catalog.Table) error {
	missing := 0
	first := 0
	for _, id := range m.ids {
		if !table.Contains(id) {
			if missing == 0 {
				first = id
			}
			missing++
		}
	}
	if missing > 0 {
		return fmt.Errorf("%w: %d movies unknown to the catalog, first %d", ErrStaleModel, missing, first)
	}
	return nil
}

// SaveModel writes p as the next version of name.
func SaveModel(ctx context.Context, store storage.Store, name string, p ModelPayload, took time.Duration) (*storage.ModelMetadata, error) {
	version, err := storage.NextVersion(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("next model version: %w", err)
	}
	return store.Save(ctx, name, version, p, storage.ModelMetadata{
		Kind:               storage.KindLatentModel,
		TrainedAt:          time.Now().UTC(),
		ItemCount:          len(p.ItemIDs),
		RatingCount:        p.RatingCount,
		TrainingDurationMS: took.Milliseconds(),
	})
}

// LoadModel reads version of name (0 for the latest), validates it and
// checks it against table.
func LoadModel(ctx context.Context, store storage.Store, name string, version int, table *catalog.Table) (*Model, *storage.ModelMetadata, error) {
	var p ModelPayload
	meta, err := store.Load(ctx, name, version, storage.KindLatentModel, &p)
	if err != nil {
		return nil, nil, fmt.Errorf("load latent model: %w", err)
	}
	m, err := NewModel(p)
	if err != nil {
		return nil, nil, fmt.Errorf("%s v%d: %w", meta.Name, meta.Version, err)
	}
	if err := m.CheckCatalog(table); err != nil {
		return nil, nil, fmt.Errorf("%s v%d: %w", meta.Name, meta.Version, err)
	}
	return m, meta, nil
}
