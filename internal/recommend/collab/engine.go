// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package collab

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/linalg"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/storage"
)

// cancelCheckEvery is how many movies Rank scores between ctx checks.
const cancelCheckEvery = 4096

// ErrNoSignal is returned when none of the seeds has a latent vector.
var ErrNoSignal = errors.New("no seed has a latent vector")

// Strategy turns the seeds into scores.
type Strategy string

const (
	// StrategyFoldIn solves the ALS user step for a pseudo-user who
	// watched the seeds and scores movies by x·y.
	StrategyFoldIn Strategy = "fold_in"

	// StrategyItemCosine sums each movie's cosine similarity to the seeds.
	StrategyItemCosine Strategy = "item_cosine"
)

// Engine ranks movies by predicted affinity for the seeds.
type Engine struct {
	model    *Model
	strategy Strategy
	logger   zerolog.Logger
}

// New wraps model. An empty strategy means fold_in.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(model *Model, strategy Strategy, logger zerolog.Logger) (*Engine, error) {
	if model == nil {
		return nil, errors.New("latent model is required")
	}
	switch strategy {
	case "":
		strategy = StrategyFoldIn
	case StrategyFoldIn, StrategyItemCosine:
	default:
		return nil, fmt.Errorf("unknown collaborative strategy %q", strategy)
	}
	return &Engine{model: model, strategy: strategy, logger: logger}, nil
}

// Rank scores every movie in the model except the seeds. Seeds without a
// vector are skipped; if none has one the call fails with ErrNoSignal.
func (e *Engine) Rank(ctx context.Context, seeds []int, topN int) ([]recommend.Scored, error) {
	known := make([][]float64, 0, len(seeds))
	for _, id := range slices.Sorted(slices.Values(seeds)) {
		v, ok := e.model.Vector(id)
		if !ok {
			e.logger.Warn().Int("movie_id", id).Msg("Seed has no latent vector, skipping")
			continue
		}
		known = append(known, v)
	}
	if len(known) == 0 {
		return nil, ErrNoSignal
	}

	var score func(i int) float64
	switch e.strategy {
	case StrategyItemCosine:
		norms := make([]float64, len(known))
		for s, v := range known {
			norms[s] = linalg.Norm(v)
		}
		score = func(i int) float64 {
			total := 0.0
			for s, v := range known {
				total += linalg.Cosine(v, e.model.vectors[i], norms[s], e.model.norms[i])
			}
			return total
		}
	default:
		x, err := e.foldIn(known)
		if err != nil {
			return nil, err
		}
		score = func(i int) float64 { return linalg.Dot(x, e.model.vectors[i]) }
	}

	scores := make(map[int]float64, len(e.model.ids))
	for i, id := range e.model.ids {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		scores[id] = score(i)
	}
	return recommend.TopScored(scores, seeds, topN)
}

// foldIn solves (YᵀY + λI + Σ (c-1) y yᵀ) x = Σ c y with c = 1 + α for a
// pseudo-user whose only history is the seeds.
func (e *Engine) foldIn(seeds [][]float64) ([]float64, error) {
	m := e.model
	a := linalg.Clone(m.gram)
	for f := range a {
		a[f][f] += m.regularization
	}

	c := 1 + m.alpha
	b := make([]float64, m.factors)
	for _, y := range seeds {
		linalg.AddOuter(a, y, c-1)
		for f, v := range y {
			b[f] += c * v
		}
	}

	x, err := linalg.SolveSPD(a, b)
	if err != nil {
		return nil, fmt.Errorf("fold in seeds: %w", err)
	}
	if !linalg.Finite(x) {
		return nil, fmt.Errorf("fold in seeds: %w", linalg.ErrNonFinite)
	}
	return x, nil
}

// LoaderConfig configures NewLoader.
type LoaderConfig struct {
	ArtifactName string
	Version      int
	Strategy     Strategy
}

// NewLoader returns the startup loader for the collaborative engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(table *catalog.Table, cfg LoaderConfig, store storage.Store, logger zerolog.Logger) recommend.Loader {
	logger = logger.With().Str("component", "collab").Logger()
	return func(ctx context.Context) (recommend.Engine, error) {
		if store == nil {
			return nil, errors.New("no model store configured")
		}
		name := cfg.ArtifactName
		if name == "" {
			name = DefaultArtifactName
		}

		start := time.Now()
		model, meta, err := LoadModel(ctx, store, name, cfg.Version, table)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Str("name", meta.Name).
			Int("version", meta.Version).
			Int("movies", model.Len()).
			Int("factors", model.Factors()).
			Time("trained_at", meta.TrainedAt).
			Dur("took", time.Since(start)).
			Msg("Latent model loaded")
		if coverage := float64(model.Len()) / float64(table.Len()); coverage < 0.5 {
			logger.Warn().Float64("coverage", coverage).Msg("Latent model covers less than half the catalog")
		}
		return New(model, cfg.Strategy, logger)
	}
}
