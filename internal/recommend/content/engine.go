// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package content

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/storage"
)

// Engine ranks movies by their aggregated similarity to the seeds.
type Engine struct {
	index     *Index
	aggregate Aggregate
}

// New wraps idx. An empty aggregate means sum.
func New(idx *Index, aggregate Aggregate) (*Engine, error) {
	if idx == nil {
		return nil, errors.New("similarity index is required")
	}
	if aggregate == "" {
		aggregate = AggregateSum
	}
	if err := aggregate.validate(); err != nil {
		return nil, err
	}
	return &Engine{index: idx, aggregate: aggregate}, nil
}

// Rank unions the seeds' full neighbor lists, drops the seeds and keeps the
// topN best aggregated scores. Seeds are visited in ascending id order so
// the floating point sums do not depend on request order.
func (e *Engine) Rank(ctx context.Context, seeds []int, topN int) ([]recommend.Scored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ordered := slices.Clone(seeds)
	slices.Sort(ordered)

	scores := make(map[int]float64)
	for _, seed := range ordered {
		for _, nb := range e.index.Neighbors(seed) {
			switch e.aggregate {
			case AggregateMax:
				if cur, ok := scores[nb.ID]; !ok || nb.Score > cur {
					scores[nb.ID] = nb.Score
				}
			default:
				scores[nb.ID] += nb.Score
			}
		}
	}
	return recommend.TopScored(scores, seeds, topN)
}

// Source selects where the index comes from at startup.
type Source string

const (
	// SourceBuild computes the index from the catalog.
	SourceBuild Source = "build"

	// SourceArtifact loads a previously built index from the model store.
	SourceArtifact Source = "artifact"
)

// LoaderConfig configures NewLoader.
type LoaderConfig struct {
	Source       Source
	ArtifactName string
	Config       Config

	// MaxTopN is the largest top_n the aggregator accepts. A stored index
	// built with a smaller depth is rejected.
	MaxTopN int
}

// NewLoader returns the startup loader for the content engine. store may
// be nil when the index is built from the catalog.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(table *catalog.Table, cfg LoaderConfig, store storage.Store, logger zerolog.Logger) recommend.Loader {
	logger = logger.With().Str("component", "content").Logger()
	return func(ctx context.Context) (recommend.Engine, error) {
		var (
			idx *Index
			err error
		)
		start := time.Now()
		switch cfg.Source {
		case SourceArtifact:
			if store == nil {
				return nil, errors.New("no model store configured")
			}
			name := cfg.ArtifactName
			if name == "" {
				name = DefaultArtifactName
			}
			var meta *storage.ModelMetadata
			idx, meta, err = LoadIndex(ctx, store, name, table)
			if err != nil {
				return nil, err
			}
			if idx.limit > 0 && idx.limit < cfg.MaxTopN {
				return nil, fmt.Errorf("%w: %s v%d was built with depth %d, below max top_n %d",
					ErrInvalidIndex, meta.Name, meta.Version, idx.limit, cfg.MaxTopN)
			}
			logger.Info().
				Str("name", meta.Name).
				Int("version", meta.Version).
				Int("movies", idx.Len()).
				Int("depth", idx.limit).
				Dur("took", time.Since(start)).
				Msg("Similarity index loaded")
		case SourceBuild, "":
			idx, err = Build(ctx, table, cfg.Config, logger)
			if err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown content source %q", cfg.Source)
		}
		return New(idx, cfg.Config.Aggregate)
	}
}
