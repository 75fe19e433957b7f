// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Store     StoreConfig     `koanf:"store"`
	Train     TrainConfig     `koanf:"train"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// CatalogConfig locates the movie catalog files.
type CatalogConfig struct {
	// MoviesPath is the movies CSV (movieId,title,genres). Required.
	MoviesPath string `koanf:"movies_path"`

	// MetadataPath is an optional CSV with director, title_cast and
	// plot_keywords columns keyed by movieId.
	MetadataPath string `koanf:"metadata_path"`

	// TagsPath is an optional user tags CSV (userId,movieId,tag,timestamp).
	TagsPath string `koanf:"tags_path"`

	// MaxCast caps the number of cast members kept per movie.
	// Default: 5
	MaxCast int `koanf:"max_cast"`
}

// RecommendConfig configures the serving engines.
type RecommendConfig struct {
	// Algorithms lists the engines to load: content, collaborative.
	Algorithms []string `koanf:"algorithms"`

	// DefaultTopN is used when a caller does not pass a count.
	// Default: 10
	DefaultTopN int `koanf:"default_top_n"`

	// MaxTopN rejects requests asking for more results.
	// Default: 100
	MaxTopN int `koanf:"max_top_n"`

	// InitTimeout bounds engine loading at startup.
	// Default: 10m
	InitTimeout time.Duration `koanf:"init_timeout"`

	Content ContentConfig `koanf:"content"`
	Collab  CollabConfig  `koanf:"collab"`
}

// ContentConfig configures the content similarity engine.
type ContentConfig struct {
	// Source is "build" (compute from catalog at start) or "artifact".
	// Default: build
	Source string `koanf:"source"`

	// ArtifactName is the store name of the similarity index.
	// Default: similarity_index
	ArtifactName string `koanf:"artifact_name"`

	// Metric is cosine (TF-IDF) or jaccard.
	// Default: cosine
	Metric string `koanf:"metric"`

	// Aggregate combines per-seed similarities: sum or max.
	// Default: sum
	Aggregate string `koanf:"aggregate"`

	// Depth is the number of neighbors kept per movie.
	// Default: 200
	Depth int `koanf:"depth"`

	// Workers bounds the index build parallelism. 0 means runtime.NumCPU().
	Workers int `koanf:"workers"`

	GenreWeight    float64 `koanf:"genre_weight"`
	DirectorWeight float64 `koanf:"director_weight"`
	CastWeight     float64 `koanf:"cast_weight"`
	KeywordWeight  float64 `koanf:"keyword_weight"`
	TagWeight      float64 `koanf:"tag_weight"`
}

// CollabConfig configures the collaborative engine.
type CollabConfig struct {
	// ArtifactName is the store name of the latent model.
	// Default: latent_model
	ArtifactName string `koanf:"artifact_name"`

	// Version pins a model version. 0 loads the latest.
	Version int `koanf:"version"`

	// Strategy is fold_in or item_cosine.
	// Default: fold_in
	Strategy string `koanf:"strategy"`
}

// StoreConfig selects the artifact store.
type StoreConfig struct {
	// Backend is file or badger.
	// Default: file
	Backend string `koanf:"backend"`

	// Path is the store directory.
	// Default: ./models
	Path string `koanf:"path"`
}

// TrainConfig configures the offline trainer.
type TrainConfig struct {
	// RatingsPath is the ratings CSV (userId,movieId,rating,timestamp).
	RatingsPath string `koanf:"ratings_path"`

	// MinRating drops weaker ratings before training.
	// Default: 3.0
	MinRating float64 `koanf:"min_rating"`

	Factors        int     `koanf:"factors"`
	Iterations     int     `koanf:"iterations"`
	Regularization float64 `koanf:"regularization"`
	Alpha          float64 `koanf:"alpha"`

	// Workers for ALS half-steps. 0 means runtime.NumCPU().
	Workers int `koanf:"workers"`

	// DuckDBMemory caps DuckDB memory while reading ratings.
	// Default: 2GB
	DuckDBMemory string `koanf:"duckdb_memory"`

	// BuildContentIndex also writes a similarity index artifact.
	BuildContentIndex bool `koanf:"build_content_index"`
}

// ServerConfig configures the HTTP wrapper.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	// RateLimitReqs per RateLimitWindow per client IP. 0 disables limiting.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
