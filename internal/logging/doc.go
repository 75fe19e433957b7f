// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

// Package logging provides the process-wide zerolog logger.
//
// Initialize once from main with the values loaded by internal/config:
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//
// Components take a zerolog.Logger in their constructors and tag it with a
// component field:
//
//	logger := logging.WithComponent("catalog")
//	logger.Info().Int("items", table.Len()).Msg("Catalog loaded")
//
// Request-scoped logging picks up the request ID placed in the context by the
// HTTP middleware:
//
//	logging.Ctx(ctx).Debug().Str("algorithm", "content").Msg("Ranking")
//
// SlogHandler bridges zerolog into log/slog for the supervisor tree.
package logging
