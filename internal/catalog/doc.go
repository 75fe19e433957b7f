// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

// Package catalog loads the movie catalog into an immutable indexed Table.
//
// The movies file follows the MovieLens layout:
//
//	movieId,title,genres
//	1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy
//
// Optional side files add directors, cast and plot keywords (keyed by
// movieId) and user tags. All list cells are pipe-separated; tokens are
// lowercased and deduplicated.
//
// Title lookups are exact. When a title appears more than once the first
// row in file order wins, so resolution is deterministic.
package catalog
