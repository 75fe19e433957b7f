// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

// Package main is the entry point for the recommendation server.
//
// The server loads the movie catalog, then starts a supervisor tree with
// two layers:
//
//  1. engine-layer: loads every enabled engine once (content similarity
//     index, collaborative latent model) and records per-engine state
//  2. api-layer: the HTTP API, started immediately so health probes
//     answer while engines load
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (CATALOG_MOVIES_PATH, RECOMMEND_ALGORITHMS, ...)
//   - Config file (config.yaml, or the path in CONFIG_PATH)
//   - Built-in defaults
//
// The collaborative engine and the content engine in artifact mode read
// from the model store (MODEL_STORE_BACKEND, MODEL_STORE_PATH). Artifacts are written
// by cmd/train.
//
// # Endpoints
//
//	GET  /api/v1/health/live
//	GET  /api/v1/health/ready
//	GET  /api/v1/movies?q=&limit=
//	POST /api/v1/recommendations
//	GET  /metrics
//
// # Shutdown
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains
// in-flight requests within HTTP_SHUTDOWN_TIMEOUT; services that fail
// to stop in time are reported before exit.
package main
