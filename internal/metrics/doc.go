// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

// Package metrics registers the Prometheus collectors for catalog loading,
// engine lifecycle, recommendation requests, the HTTP wrapper and offline
// training. Collectors are registered on the default registry via promauto
// and exposed by the server at /metrics.
package metrics
