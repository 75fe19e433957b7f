// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/config"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/collab"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/content"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/storage"
)

// buildLoaders returns one loader per configured algorithm. store may be
// nil when only the content engine is enabled and builds from the catalog.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func buildLoaders(cfg *config.Config, table *catalog.Table, store storage.Store, logger zerolog.Logger) (map[recommend.Algorithm]recommend.Loader, error) {
	loaders := make(map[recommend.Algorithm]recommend.Loader, len(cfg.Recommend.Algorithms))
	for _, name := range cfg.Recommend.Algorithms {
		alg, err := recommend.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		if _, dup := loaders[alg]; dup {
			return nil, fmt.Errorf("algorithm %q listed twice", alg)
		}

		switch alg {
		case recommend.AlgorithmContent:
			loaders[alg] = content.NewLoader(table, content.LoaderConfig{
				Source:       content.Source(cfg.Recommend.Content.Source),
				ArtifactName: cfg.Recommend.Content.ArtifactName,
				Config:       cfg.Recommend.Content.EngineConfig(),
				MaxTopN:      cfg.Recommend.MaxTopN,
			}, store, logger)
		case recommend.AlgorithmCollaborative:
			loaders[alg] = collab.NewLoader(table, collab.LoaderConfig{
				ArtifactName: cfg.Recommend.Collab.ArtifactName,
				Version:      cfg.Recommend.Collab.Version,
				Strategy:     collab.Strategy(cfg.Recommend.Collab.Strategy),
			}, store, logger)
		}
		logger.Info().Str("algorithm", string(alg)).Msg("Recommendation engine enabled")
	}
	return loaders, nil
}

// needsStore reports whether any enabled engine reads from the model store.
func needsStore(cfg *config.Config) bool {
	for _, name := range cfg.Recommend.Algorithms {
		alg, err := recommend.ParseAlgorithm(name)
		if err != nil {
			continue
		}
		if alg == recommend.AlgorithmCollaborative {
			return true
		}
		if alg == recommend.AlgorithmContent && content.Source(cfg.Recommend.Content.Source) == content.SourceArtifact {
			return true
		}
	}
	return false
}

// initRecommend builds the aggregator over the loaded catalog.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, table *catalog.Table, store storage.Store, logger zerolog.Logger) (*recommend.Aggregator, error) {
	loaders, err := buildLoaders(cfg, table, store, logger)
	if err != nil {
		return nil, err
	}
	return recommend.NewAggregator(table, recommend.Config{
		MaxTopN:     cfg.Recommend.MaxTopN,
		InitTimeout: cfg.Recommend.InitTimeout,
	}, loaders, logger)
}
