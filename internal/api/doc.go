// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

/*
Package api is the HTTP wrapper around the recommendation Aggregator.

Routes:

	GET  /api/v1/health/live       liveness, always 200
	GET  /api/v1/health/ready      200 once an engine is ready, else 503
	GET  /api/v1/movies?q=&limit=  title search for the selection lists
	POST /api/v1/recommendations   {"algorithm", "movies": [3 titles], "top_n"}
	GET  /metrics                  Prometheus

Every JSON response uses the APIResponse envelope. Recommendation errors
map to codes:

	INVALID_REQUEST        400
	UNKNOWN_TITLE          404
	MODEL_UNAVAILABLE      503
	NOT_READY              503 (with Retry-After)
	RECOMMENDATION_FAILED  500

Middleware: request ids, real IP, panic recovery, go-chi/cors, Prometheus
request metrics, and a go-chi/httprate limiter on the data routes.
*/
package api
