// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// EngineInitializer loads every configured engine once. It is satisfied by
// *recommend.Aggregator.
type EngineInitializer interface {
	Init(ctx context.Context) error
}

// EngineLoaderService loads the recommendation engines in the background so
// the HTTP server can answer probes while large artifacts are read. Engine
// load failures are permanent; the service reports them and leaves the
// tree instead of restarting.
type EngineLoaderService struct {
	engines EngineInitializer
	logger  zerolog.Logger
	name    string
}

// NewEngineLoaderService creates the loader service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngineLoaderService(engines EngineInitializer, logger zerolog.Logger) *EngineLoaderService {
	return &EngineLoaderService{
		engines: engines,
		logger:  logger.With().Str("service", "engine-loader").Logger(),
		name:    "engine-loader",
	}
}

// Serve implements suture.Service.
func (s *EngineLoaderService) Serve(ctx context.Context) error {
	start := time.Now()
	s.logger.Info().Msg("Loading recommendation engines")

	err := s.engines.Init(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		s.logger.Error().Err(err).Dur("took", time.Since(start)).Msg("Some engines are unavailable; serving the rest")
	} else {
		s.logger.Info().Dur("took", time.Since(start)).Msg("All engines ready")
	}
	return suture.ErrDoNotRestart
}

// String identifies the service in supervisor events.
func (s *EngineLoaderService) String() string {
	return s.name
}
