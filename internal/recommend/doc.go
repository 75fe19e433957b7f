// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

// Package recommend turns three favorite movie titles into a ranked list of
// further titles.
//
// # Architecture
//
// An Aggregator owns the catalog and one Engine per enabled algorithm:
//
//	caller -> Aggregator -> catalog (title -> id) -> Engine.Rank -> catalog (id -> title)
//
// Engines live in subpackages:
//
//   - content: nearest neighbors in a SimilarityIndex built from genres,
//     directors, cast, plot keywords and tags.
//   - collab: affinity for a pseudo-user folded into an implicit ALS model
//     trained offline from ratings.
//
// # Lifecycle
//
// Each engine is loaded exactly once, either by Init at startup or by the
// first request that needs it; concurrent callers wait for the same load.
// A caller that stops waiting does not stop the load. Close cancels loads
// still running at shutdown.
// Status distinguishes not_ready, loading, ready and failed. A failed load
// is permanent and surfaces as ModelUnavailableError for that algorithm
// only.
//
// # Errors
//
//   - catalog.LoadError: the catalog could not be read (startup, fatal)
//   - ModelUnavailableError: the engine could not load (startup, per engine)
//   - catalog.UnknownTitleError: a seed title is not in the catalog
//   - InvalidRequestError: not exactly three distinct non-blank seeds, or a
//     bad top_n
//   - RecommendationError: the engine failed while scoring
//   - ErrNotReady: the caller gave up before the engine finished loading
//
// An empty result is never an error; it means no candidate qualified.
//
// # Usage
//
//	agg, err := recommend.NewAggregator(table, recommend.DefaultConfig(), loaders, logger)
//	if err := agg.Init(ctx); err != nil {
//	    logger.Warn().Err(err).Msg("Some engines are unavailable")
//	}
//	titles, err := agg.ContentModel([]string{"Heat (1995)", "Ronin (1998)", "Collateral (2004)"}, 10)
package recommend
