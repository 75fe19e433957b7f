// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package api

import (
	"errors"
	"time"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend"
)

// HandlerConfig configures the request handlers.
type HandlerConfig struct {
	// DefaultTopN applies when a request omits top_n.
	DefaultTopN int

	// RequestTimeout bounds one recommendation, including waiting for an
	// engine that is still loading.
	RequestTimeout time.Duration

	// DefaultSearchLimit applies when GET /movies omits limit.
	DefaultSearchLimit int
}

// DefaultHandlerConfig returns the handler defaults.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		DefaultTopN:        10,
		RequestTimeout:     30 * time.Second,
		DefaultSearchLimit: 100,
	}
}

// Handler serves the recommendation API over one Aggregator.
type Handler struct {
	agg       *recommend.Aggregator
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a handler. Zero config fields take their defaults.
func NewHandler(agg *recommend.Aggregator, cfg HandlerConfig) (*Handler, error) {
	if agg == nil {
		return nil, errors.New("aggregator is required")
	}
	defaults := DefaultHandlerConfig()
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = defaults.DefaultTopN
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.DefaultSearchLimit <= 0 {
		cfg.DefaultSearchLimit = defaults.DefaultSearchLimit
	}
	return &Handler{agg: agg, config: cfg, startTime: time.Now()}, nil
}
