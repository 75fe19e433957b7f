// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package train

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/ratings"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/collab"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/linalg"
)

// maxRating is the top of the rating scale; confidence grows with r/maxRating.
const maxRating = 5.0

// ErrNoData is returned when there is nothing to train on.
var ErrNoData = errors.New("no ratings to train on")

// Config contains configuration for implicit ALS.
type Config struct {
	// Factors is the dimension of the latent factor vectors.
	Factors int

	// Iterations is the number of alternating sweeps.
	Iterations int

	// Regularization is the L2 penalty λ.
	Regularization float64

	// Alpha scales confidence: c = 1 + Alpha * r / 5.
	Alpha float64

	// Workers bounds the parallel solves. 0 means runtime.NumCPU().
	Workers int

	// Seed fixes the factor initialization.
	Seed uint64
}

// DefaultConfig returns the trainer defaults.
func DefaultConfig() Config {
	return Config{
		Factors:        50,
		Iterations:     15,
		Regularization: 0.1,
		Alpha:          40,
		Seed:           42,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Factors < 1 {
		return fmt.Errorf("factors must be positive, got %d", c.Factors)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if !(c.Regularization > 0) {
		return fmt.Errorf("regularization must be positive, got %v", c.Regularization)
	}
	if !(c.Alpha >= 0) {
		return fmt.Errorf("alpha must be non-negative, got %v", c.Alpha)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// entry is one observed (row, column) confidence.
type entry struct {
	col  int
	conf float64
}

// ALS fits an implicit feedback model (Hu, Koren, Volinsky 2008):
//
//	min Σ_{u,i} c_ui (p_ui - x_uᵀ y_i)² + λ (Σ‖x_u‖² + Σ‖y_i‖²)
//
// with p_ui = 1 for every rating kept and c_ui = 1 + α r_ui / 5. The result
// depends only on the ratings and cfg, not on worker scheduling.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func ALS(ctx context.Context, data []ratings.Rating, cfg Config, logger zerolog.Logger) (*collab.ModelPayload, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ALS config: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoData
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	userIDs, itemIDs := distinct(data)
	userPos := positions(userIDs)
	itemPos := positions(itemIDs)

	userItems := make([][]entry, len(userIDs))
	itemUsers := make([][]entry, len(itemIDs))
	for _, r := range data {
		u, i := userPos[r.UserID], itemPos[r.ItemID]
		conf := 1 + cfg.Alpha*r.Value/maxRating
		userItems[u] = append(userItems[u], entry{col: i, conf: conf})
		itemUsers[i] = append(itemUsers[i], entry{col: u, conf: conf})
	}
	for _, rows := range [][][]entry{userItems, itemUsers} {
		for r := range rows {
			rows[r] = compact(rows[r])
		}
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // deterministic initialization, not security
	x := make([][]float64, len(userIDs))
	for u := range x {
		x[u] = make([]float64, cfg.Factors)
	}
	y := make([][]float64, len(itemIDs))
	for i := range y {
		y[i] = make([]float64, cfg.Factors)
		for f := range y[i] {
			y[i][f] = 0.1 * (rng.Float64() - 0.5)
		}
	}

	start := time.Now()
	for iter := 0; iter < cfg.Iterations; iter++ {
		if err := halfStep(ctx, x, y, userItems, cfg, workers); err != nil {
			return nil, fmt.Errorf("iteration %d user step: %w", iter+1, err)
		}
		if err := halfStep(ctx, y, x, itemUsers, cfg, workers); err != nil {
			return nil, fmt.Errorf("iteration %d item step: %w", iter+1, err)
		}
		logger.Debug().Int("iteration", iter+1).Dur("elapsed", time.Since(start)).Msg("ALS iteration complete")
	}

	logger.Info().
		Int("users", len(userIDs)).
		Int("movies", len(itemIDs)).
		Int("ratings", len(data)).
		Int("factors", cfg.Factors).
		Int("iterations", cfg.Iterations).
		Dur("took", time.Since(start)).
		Msg("ALS training complete")

	return &collab.ModelPayload{
		Factors:        cfg.Factors,
		Regularization: cfg.Regularization,
		Alpha:          cfg.Alpha,
		ItemIDs:        itemIDs,
		ItemFactors:    y,
		UserCount:      len(userIDs),
		RatingCount:    len(data),
	}, nil
}

// halfStep solves every row of out against the fixed factors in fixed:
//
//	out_r = (FᵀF + λI + Σ (c-1) f fᵀ)⁻¹ Σ c f
//
// Rows are split into contiguous chunks; each worker writes only its own.
func halfStep(ctx context.Context, out, fixed [][]float64, observed [][]entry, cfg Config, workers int) error {
	gram := linalg.Gram(fixed, cfg.Factors)
	for f := range gram {
		gram[f][f] += cfg.Regularization
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	chunk := max((len(out)+workers-1)/workers, 1)
	for lo := 0; lo < len(out); lo += chunk {
		hi := min(lo+chunk, len(out))
		g.Go(func() error {
			for r := lo; r < hi; r++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				v, err := solveRow(gram, fixed, observed[r], cfg.Factors)
				if err != nil {
					return fmt.Errorf("row %d: %w", r, err)
				}
				out[r] = v
			}
			return nil
		})
	}
	return g.Wait()
}

func solveRow(gram, fixed [][]float64, observed []entry, k int) ([]float64, error) {
	a := linalg.Clone(gram)
	b := make([]float64, k)
	for _, e := range observed {
		v := fixed[e.col]
		linalg.AddOuter(a, v, e.conf-1)
		for f := range b {
			b[f] += e.conf * v[f]
		}
	}
	x, err := linalg.SolveSPD(a, b)
	if err != nil {
		return nil, err
	}
	if !linalg.Finite(x) {
		return nil, linalg.ErrNonFinite
	}
	return x, nil
}

func distinct(data []ratings.Rating) (users, items []int) {
	seenU := make(map[int]struct{})
	seenI := make(map[int]struct{})
	for _, r := range data {
		if _, ok := seenU[r.UserID]; !ok {
			seenU[r.UserID] = struct{}{}
			users = append(users, r.UserID)
		}
		if _, ok := seenI[r.ItemID]; !ok {
			seenI[r.ItemID] = struct{}{}
			items = append(items, r.ItemID)
		}
	}
	slices.Sort(users)
	slices.Sort(items)
	return users, items
}

func positions(ids []int) map[int]int {
	m := make(map[int]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// compact sorts row by column and keeps the highest confidence for a
// repeated column.
func compact(row []entry) []entry {
	slices.SortFunc(row, func(a, b entry) int {
		if c := cmp.Compare(a.col, b.col); c != 0 {
			return c
		}
		return cmp.Compare(b.conf, a.conf)
	})
	return slices.CompactFunc(row, func(a, b entry) bool { return a.col == b.col })
}
