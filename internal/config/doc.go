// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

// Package config loads layered configuration with koanf.
//
// Precedence, lowest to highest:
//
//  1. built-in defaults (defaultConfig)
//  2. a YAML file from CONFIG_PATH or DefaultConfigPaths
//  3. environment variables listed in envMappings
//
// Example config.yaml:
//
//	catalog:
//	  movies_path: resources/data/movies.csv
//	  metadata_path: resources/data/imdb_data.csv
//	recommend:
//	  content:
//	    metric: cosine
//	    aggregate: sum
//	  collab:
//	    strategy: fold_in
//	store:
//	  backend: file
//	  path: models
//
// The result is validated before it is returned.
package config
