// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package content

import (
	"fmt"
	"math"
	"runtime"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
)

// Metric selects how two movies' attribute bags are compared.
type Metric string

const (
	// MetricCosine compares TF-IDF weighted, L2-normalized token vectors.
	MetricCosine Metric = "cosine"

	// MetricJaccard sums per-field set overlap weighted by field weight.
	MetricJaccard Metric = "jaccard"
)

// Aggregate combines one candidate's similarities to the three seeds.
type Aggregate string

const (
	// AggregateSum adds the similarities of every seed that lists the candidate.
	AggregateSum Aggregate = "sum"

	// AggregateMax keeps the best single similarity.
	AggregateMax Aggregate = "max"
)

// Weights assigns a relative importance to each attribute field.
type Weights struct {
	Genre    float64
	Director float64
	Cast     float64
	Keyword  float64
	Tag      float64
}

// DefaultWeights favors genres, then keywords.
func DefaultWeights() Weights {
	return Weights{Genre: 0.4, Director: 0.15, Cast: 0.15, Keyword: 0.2, Tag: 0.1}
}

// Of returns the weight for f.
func (w Weights) Of(f catalog.Field) float64 {
	switch f {
	case catalog.FieldGenre:
		return w.Genre
	case catalog.FieldDirector:
		return w.Director
	case catalog.FieldCast:
		return w.Cast
	case catalog.FieldKeyword:
		return w.Keyword
	case catalog.FieldTag:
		return w.Tag
	default:
		return 0
	}
}

// Normalized scales the weights to sum to 1.
func (w Weights) Normalized() (Weights, error) {
	total := 0.0
	for _, f := range catalog.Fields {
		v := w.Of(f)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Weights{}, fmt.Errorf("weight for %s must be a non-negative number, got %v", f, v)
		}
		total += v
	}
	if total == 0 {
		return Weights{}, fmt.Errorf("at least one field weight must be positive")
	}
	return Weights{
		Genre:    w.Genre / total,
		Director: w.Director / total,
		Cast:     w.Cast / total,
		Keyword:  w.Keyword / total,
		Tag:      w.Tag / total,
	}, nil
}

// Config controls index construction and ranking.
type Config struct {
	Metric    Metric
	Aggregate Aggregate
	Depth     int
	Workers   int
	Weights   Weights
}

// DefaultConfig returns cosine similarity with sum aggregation.
func DefaultConfig() Config {
	return Config{
		Metric:    MetricCosine,
		Aggregate: AggregateSum,
		Depth:     200,
		Weights:   DefaultWeights(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.Metric {
	case MetricCosine, MetricJaccard:
	default:
		return fmt.Errorf("unknown metric %q", c.Metric)
	}
	if err := c.Aggregate.validate(); err != nil {
		return err
	}
	if c.Depth < 1 {
		return fmt.Errorf("depth must be positive, got %d", c.Depth)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := c.Weights.Normalized(); err != nil {
		return err
	}
	return nil
}

func (a Aggregate) validate() error {
	switch a {
	case AggregateSum, AggregateMax:
		return nil
	default:
		return fmt.Errorf("unknown aggregate %q", a)
	}
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
