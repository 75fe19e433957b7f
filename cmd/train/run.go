// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/config"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/metrics"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/ratings"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/collab"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/content"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/storage"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/train"
)

// report summarizes one training run.
type report struct {
	Catalog        int                    `json:"catalog_movies"`
	Ratings        int                    `json:"ratings"`
	DroppedRatings int                    `json:"dropped_ratings"`
	Users          int                    `json:"users"`
	MeanRating     float64                `json:"mean_rating"`
	Model          *storage.ModelMetadata `json:"latent_model"`
	Index          *storage.ModelMetadata `json:"similarity_index,omitempty"`
}

// run trains the configured artifacts and writes them to the model store.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (rep *report, err error) {
	table, err := catalog.Load(ctx, catalog.Source{
		MoviesPath:   cfg.Catalog.MoviesPath,
		MetadataPath: cfg.Catalog.MetadataPath,
		TagsPath:     cfg.Catalog.TagsPath,
		MaxCast:      cfg.Catalog.MaxCast,
	}, logger)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close model store: %w", cerr))
		}
	}()

	data, _, err := ratings.Read(ctx, ratings.Source{
		Path:      cfg.Train.RatingsPath,
		MinRating: cfg.Train.MinRating,
		MaxMemory: cfg.Train.DuckDBMemory,
	}, logger)
	if err != nil {
		return nil, err
	}

	kept, dropped := inCatalog(data, table)
	if dropped > 0 {
		logger.Warn().Int("dropped", dropped).Msg("Ratings for movies missing from the catalog dropped")
	}
	summary := ratings.Summarize(kept)

	rep = &report{
		Catalog:        table.Len(),
		Ratings:        len(kept),
		DroppedRatings: dropped,
		Users:          summary.Users,
		MeanRating:     summary.Mean,
	}

	start := time.Now()
	payload, err := train.ALS(ctx, kept, train.Config{
		Factors:        cfg.Train.Factors,
		Iterations:     cfg.Train.Iterations,
		Regularization: cfg.Train.Regularization,
		Alpha:          cfg.Train.Alpha,
		Workers:        cfg.Train.Workers,
		Seed:           train.DefaultConfig().Seed,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("train latent model: %w", err)
	}
	took := time.Since(start)
	metrics.RecordTraining(string(storage.KindLatentModel), took)

	rep.Model, err = collab.SaveModel(ctx, store, cfg.Recommend.Collab.ArtifactName, *payload, took)
	if err != nil {
		return nil, fmt.Errorf("save latent model: %w", err)
	}
	logger.Info().
		Str("name", rep.Model.Name).
		Int("version", rep.Model.Version).
		Int("movies", rep.Model.ItemCount).
		Dur("took", took).
		Msg("Latent model saved")

	if !cfg.Train.BuildContentIndex {
		return rep, nil
	}

	start = time.Now()
	idx, err := content.Build(ctx, table, cfg.Recommend.Content.EngineConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("build similarity index: %w", err)
	}
	took = time.Since(start)
	metrics.RecordTraining(string(storage.KindSimilarityIndex), took)

	rep.Index, err = content.SaveIndex(ctx, store, cfg.Recommend.Content.ArtifactName, idx, took)
	if err != nil {
		return nil, fmt.Errorf("save similarity index: %w", err)
	}
	logger.Info().
		Str("name", rep.Index.Name).
		Int("version", rep.Index.Version).
		Int("movies", idx.Len()).
		Dur("took", took).
		Msg("Similarity index saved")
	return rep, nil
}

// inCatalog keeps the ratings whose movie the catalog knows, so the model
// never carries movies the server cannot name.
func inCatalog(data []ratings.Rating, table *catalog.Table) ([]ratings.Rating, int) {
	kept := make([]ratings.Rating, 0, len(data))
	for _, r := range data {
		if table.Contains(r.ItemID) {
			kept = append(kept, r)
		}
	}
	return kept, len(data) - len(kept)
}
