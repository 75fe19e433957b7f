// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

// Package content implements content-based filtering over catalog
// attributes.
//
// Every movie is reduced to a bag of namespaced tokens (genre:, director:,
// cast:, keyword:, tag:). Build compares each movie with every other movie
// sharing at least one token and keeps its Depth most similar neighbors:
//
//	cosine:  TF-IDF vectors per field, scaled by sqrt(field weight), L2-normalized
//	jaccard: sum over fields of weight * |A ∩ B| / |A ∪ B|
//
// Field weights are normalized to sum to 1, so both metrics stay in [0, 1].
//
// Engine.Rank unions the full neighbor lists of the three seeds, drops the
// seeds, and combines each candidate's similarities with AggregateSum
// (default) or AggregateMax. The stored list depth never depends on the
// requested result count, so asking for fewer results yields a prefix of a
// longer answer.
//
// Indexes can be built at startup or saved with SaveIndex and loaded with
// LoadIndex from a storage.Store.
package content
