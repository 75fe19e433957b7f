// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

// Package ratings reads user ratings for offline training.
//
// Ratings files can hold tens of millions of rows, so they are scanned by an
// in-memory DuckDB through read_csv_auto rather than parsed row by row in
// Go. Filtering, de-duplication and ordering happen in SQL; the serving
// process never touches ratings.
package ratings
