// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Algorithm selects a recommendation engine.
type Algorithm string

const (
	// AlgorithmContent ranks by similarity of movie attributes.
	AlgorithmContent Algorithm = "content"

	// AlgorithmCollaborative ranks by affinity learned from ratings.
	AlgorithmCollaborative Algorithm = "collaborative"
)

// Algorithms lists every supported algorithm in a fixed order.
var Algorithms = []Algorithm{AlgorithmContent, AlgorithmCollaborative}

// ParseAlgorithm accepts the canonical names plus the labels a UI shows.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "content", "content_based", "content based filtering":
		return AlgorithmContent, nil
	case "collaborative", "collab", "collaborative_based", "collaborative based filtering":
		return AlgorithmCollaborative, nil
	default:
		return "", &InvalidRequestError{Reason: fmt.Sprintf("algorithm %q is not supported", s), Err: ErrUnknownAlgorithm}
	}
}

// Scored is a catalog id with its ranking score.
type Scored struct {
	ID    int
	Score float64
}

// Engine ranks catalog items for three resolved seed ids. Implementations
// are read-only after construction and safe for concurrent use. Rank must
// exclude the seeds, return at most topN items ordered by score descending
// with ties broken by ascending id, and never perform I/O.
type Engine interface {
	Rank(ctx context.Context, seeds []int, topN int) ([]Scored, error)
}

// Loader builds an engine once at startup.
type Loader func(ctx context.Context) (Engine, error)

// Request is one recommendation call.
type Request struct {
	// Algorithm selects the engine.
	Algorithm Algorithm `json:"algorithm" validate:"required,oneof=content collaborative"`

	// Movies are exactly three distinct seed titles.
	Movies []string `json:"movies" validate:"len=3,unique,dive,notblank"`

	// TopN is the maximum number of titles to return.
	TopN int `json:"top_n" validate:"gte=1"`
}

// Recommendation is one ranked movie.
type Recommendation struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Response is the result of Recommend. Titles is never nil.
type Response struct {
	Algorithm Algorithm        `json:"algorithm"`
	Titles    []string         `json:"titles"`
	Items     []Recommendation `json:"items"`
	Metadata  ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	SeedIDs   []int     `json:"seed_ids"`
	TopN      int       `json:"top_n"`
	LatencyMS int64     `json:"latency_ms"`
	Generated time.Time `json:"generated_at"`
}
