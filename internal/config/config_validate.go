// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package config

import (
	"errors"
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validAlgorithms = map[string]bool{
	"content":       true,
	"collaborative": true,
}

// Validate checks the configuration for values the rest of the program
// cannot recover from.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateTrain(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.MoviesPath) == "" {
		return errors.New("CATALOG_MOVIES_PATH is required")
	}
	if c.Catalog.MaxCast < 0 {
		return errors.New("CATALOG_MAX_CAST must be >= 0")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if len(r.Algorithms) == 0 {
		return errors.New("RECOMMEND_ALGORITHMS must name at least one algorithm")
	}
	for _, a := range r.Algorithms {
		if !validAlgorithms[a] {
			return fmt.Errorf("RECOMMEND_ALGORITHMS: unknown algorithm %q (valid: content, collaborative)", a)
		}
	}
	if r.DefaultTopN < 1 {
		return errors.New("RECOMMEND_DEFAULT_TOP_N must be >= 1")
	}
	if r.MaxTopN < r.DefaultTopN {
		return fmt.Errorf("RECOMMEND_MAX_TOP_N (%d) must be >= RECOMMEND_DEFAULT_TOP_N (%d)", r.MaxTopN, r.DefaultTopN)
	}
	if r.InitTimeout <= 0 {
		return errors.New("RECOMMEND_INIT_TIMEOUT must be positive")
	}

	ct := r.Content
	if ct.Source != "build" && ct.Source != "artifact" {
		return fmt.Errorf("RECOMMEND_CONTENT_SOURCE must be build or artifact, got %q", ct.Source)
	}
	if ct.Metric != "cosine" && ct.Metric != "jaccard" {
		return fmt.Errorf("RECOMMEND_CONTENT_METRIC must be cosine or jaccard, got %q", ct.Metric)
	}
	if ct.Aggregate != "sum" && ct.Aggregate != "max" {
		return fmt.Errorf("RECOMMEND_CONTENT_AGGREGATE must be sum or max, got %q", ct.Aggregate)
	}
	if ct.Depth < r.MaxTopN {
		return fmt.Errorf("RECOMMEND_CONTENT_DEPTH (%d) must be >= RECOMMEND_MAX_TOP_N (%d)", ct.Depth, r.MaxTopN)
	}
	if ct.Workers < 0 {
		return errors.New("RECOMMEND_CONTENT_WORKERS must be >= 0")
	}
	weights := []float64{ct.GenreWeight, ct.DirectorWeight, ct.CastWeight, ct.KeywordWeight, ct.TagWeight}
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return errors.New("content weights must be >= 0")
		}
		total += w
	}
	if total == 0 {
		return errors.New("at least one content weight must be positive")
	}

	cl := r.Collab
	if cl.Strategy != "fold_in" && cl.Strategy != "item_cosine" {
		return fmt.Errorf("RECOMMEND_COLLAB_STRATEGY must be fold_in or item_cosine, got %q", cl.Strategy)
	}
	if cl.Version < 0 {
		return errors.New("RECOMMEND_COLLAB_VERSION must be >= 0")
	}
	if cl.ArtifactName == "" {
		return errors.New("RECOMMEND_COLLAB_ARTIFACT is required")
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.Backend != "file" && c.Store.Backend != "badger" {
		return fmt.Errorf("MODEL_STORE_BACKEND must be file or badger, got %q", c.Store.Backend)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("MODEL_STORE_PATH is required")
	}
	return nil
}

func (c *Config) validateTrain() error {
	t := c.Train
	if t.Factors < 1 {
		return errors.New("TRAIN_FACTORS must be >= 1")
	}
	if t.Iterations < 1 {
		return errors.New("TRAIN_ITERATIONS must be >= 1")
	}
	if t.Regularization <= 0 {
		return errors.New("TRAIN_REGULARIZATION must be positive")
	}
	if t.Alpha <= 0 {
		return errors.New("TRAIN_ALPHA must be positive")
	}
	if t.Workers < 0 {
		return errors.New("TRAIN_WORKERS must be >= 0")
	}
	return nil
}

func (c *Config) validateServer() error {
	s := c.Server
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", s.Port)
	}
	if s.Timeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}
	if s.RateLimitReqs < 0 {
		return errors.New("RATE_LIMIT_REQUESTS must be >= 0")
	}
	if s.RateLimitReqs > 0 && s.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
