// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/movierec/config.yaml",
	"/etc/movierec/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			MoviesPath: "resources/data/movies.csv",
			MaxCast:    5,
		},
		Recommend: RecommendConfig{
			Algorithms:  []string{"content", "collaborative"},
			DefaultTopN: 10,
			MaxTopN:     100,
			InitTimeout: 10 * time.Minute,
			Content: ContentConfig{
				Source:         "build",
				ArtifactName:   "similarity_index",
				Metric:         "cosine",
				Aggregate:      "sum",
				Depth:          200,
				Workers:        0, // 0 = runtime.NumCPU()
				GenreWeight:    0.4,
				DirectorWeight: 0.15,
				CastWeight:     0.15,
				KeywordWeight:  0.2,
				TagWeight:      0.1,
			},
			Collab: CollabConfig{
				ArtifactName: "latent_model",
				Version:      0,
				Strategy:     "fold_in",
			},
		},
		Store: StoreConfig{
			Backend: "file",
			Path:    "models",
		},
		Train: TrainConfig{
			RatingsPath:    "resources/data/ratings.csv",
			MinRating:      3.0,
			Factors:        50,
			Iterations:     15,
			Regularization: 0.1,
			Alpha:          40.0,
			DuckDBMemory:   "2GB",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8501,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from defaults, then an optional YAML file, then
// environment variables, each layer overriding the previous one.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as env strings.
var sliceConfigPaths = []string{
	"recommend.algorithms",
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"catalog_movies_path":   "catalog.movies_path",
	"catalog_metadata_path": "catalog.metadata_path",
	"catalog_tags_path":     "catalog.tags_path",
	"catalog_max_cast":      "catalog.max_cast",

	"recommend_algorithms":    "recommend.algorithms",
	"recommend_default_top_n": "recommend.default_top_n",
	"recommend_max_top_n":     "recommend.max_top_n",
	"recommend_init_timeout":  "recommend.init_timeout",

	"recommend_content_source":          "recommend.content.source",
	"recommend_content_artifact":        "recommend.content.artifact_name",
	"recommend_content_metric":          "recommend.content.metric",
	"recommend_content_aggregate":       "recommend.content.aggregate",
	"recommend_content_depth":           "recommend.content.depth",
	"recommend_content_workers":         "recommend.content.workers",
	"recommend_content_genre_weight":    "recommend.content.genre_weight",
	"recommend_content_director_weight": "recommend.content.director_weight",
	"recommend_content_cast_weight":     "recommend.content.cast_weight",
	"recommend_content_keyword_weight":  "recommend.content.keyword_weight",
	"recommend_content_tag_weight":      "recommend.content.tag_weight",

	"recommend_collab_artifact": "recommend.collab.artifact_name",
	"recommend_collab_version":  "recommend.collab.version",
	"recommend_collab_strategy": "recommend.collab.strategy",

	"model_store_backend": "store.backend",
	"model_store_path":    "store.path",

	"train_ratings_path":        "train.ratings_path",
	"train_min_rating":          "train.min_rating",
	"train_factors":             "train.factors",
	"train_iterations":          "train.iterations",
	"train_regularization":      "train.regularization",
	"train_alpha":               "train.alpha",
	"train_workers":             "train.workers",
	"train_duckdb_memory":       "train.duckdb_memory",
	"train_build_content_index": "train.build_content_index",

	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps HTTP_PORT to server.port and so on.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
