// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

// Package train fits the latent model used by the collaborative engine.
//
// ALS alternates two half-steps over implicit feedback derived from
// ratings: every kept rating is a positive observation whose confidence is
// 1 + α·r/5. Each half-step solves one small positive definite system per
// user or movie with a Cholesky factorization; the solves run on a bounded
// errgroup and write disjoint rows, so results do not depend on scheduling.
package train
