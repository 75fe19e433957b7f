// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

// Package validation wraps a shared go-playground/validator instance.
//
// Besides the built-in rules it registers notblank, which rejects strings
// that are empty once surrounding whitespace is removed:
//
//	type Request struct {
//	    Movies []string `validate:"len=3,unique,dive,notblank"`
//	}
//
// ValidateStruct returns a *RequestValidationError with one human-readable
// message per failed rule.
package validation
