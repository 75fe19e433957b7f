// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package recommend

import (
	"fmt"
	"time"
)

// Config contains the aggregator settings.
type Config struct {
	// MaxTopN rejects requests asking for more results.
	MaxTopN int `json:"max_top_n"`

	// InitTimeout bounds each engine load.
	InitTimeout time.Duration `json:"init_timeout"`
}

// DefaultConfig returns the default aggregator configuration.
func DefaultConfig() Config {
	return Config{
		MaxTopN:     100,
		InitTimeout: 10 * time.Minute,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MaxTopN < 1 {
		return fmt.Errorf("max_top_n must be >= 1, got %d", c.MaxTopN)
	}
	if c.InitTimeout <= 0 {
		return fmt.Errorf("init_timeout must be positive, got %s", c.InitTimeout)
	}
	return nil
}
