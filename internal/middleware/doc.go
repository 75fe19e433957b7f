// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

/*
Package middleware provides the infrastructure middleware of the HTTP
wrapper.

Key Components:

  - RequestID: UUID request tracking; the id is echoed in X-Request-ID and
    stored in the context for logging.Ctx
  - PrometheusMetrics: request count and latency per chi route pattern

Both are chi-compatible (func(http.Handler) http.Handler):

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

CORS, rate limiting and compression come from go-chi/cors, go-chi/httprate
and chi's own middleware package and are wired in internal/api.
*/
package middleware
