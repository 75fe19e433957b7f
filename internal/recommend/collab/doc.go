// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

// Package collab implements collaborative filtering over an implicit ALS
// latent model trained offline from user ratings.
//
// A request carries no user, only three seed movies. The default fold_in
// strategy treats them as the full viewing history of a new user and solves
// the ALS user step against the fixed item factors Y:
//
//	x = (YᵀY + λI + Σ_s (c-1) y_s y_sᵀ)⁻¹ Σ_s c y_s,   c = 1 + α
//
// Every other movie is then scored by x·y. The item_cosine strategy instead
// sums each movie's cosine similarity to the seed vectors.
//
// Models are produced by package train and loaded with LoadModel from a
// storage.Store. A model naming movies the catalog lacks is rejected with
// ErrStaleModel.
package collab
