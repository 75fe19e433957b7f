// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package recommend

import (
	"errors"
	"fmt"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
)

var (
	// ErrNotReady is returned when an engine is still loading and the
	// caller's context ended before it finished. It never means failure.
	ErrNotReady = errors.New("engine not ready")

	// ErrNotConfigured is wrapped in ModelUnavailableError for algorithms
	// that were not enabled at startup.
	ErrNotConfigured = errors.New("algorithm not enabled")

	// ErrUnknownAlgorithm is wrapped in InvalidRequestError for selectors
	// that name no algorithm.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// ModelUnavailableError reports an engine whose model could not be loaded.
// It is fixed for the life of the process; retrying will not help.
type ModelUnavailableError struct {
	Algorithm Algorithm
	Err       error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("%s model unavailable: %v", e.Algorithm, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

// InvalidRequestError reports a request that breaks a precondition.
type InvalidRequestError struct {
	Reason string
	Err    error
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

func (e *InvalidRequestError) Unwrap() error { return e.Err }

// RecommendationError reports an internal failure while scoring a request.
type RecommendationError struct {
	Algorithm Algorithm
	Err       error
}

func (e *RecommendationError) Error() string {
	return fmt.Sprintf("%s recommendation failed: %v", e.Algorithm, e.Err)
}

func (e *RecommendationError) Unwrap() error { return e.Err }

// Error codes used for metrics labels and API responses.
const (
	CodeOK                   = "ok"
	CodeInvalidRequest       = "invalid_request"
	CodeUnknownTitle         = "unknown_title"
	CodeModelUnavailable     = "model_unavailable"
	CodeNotReady             = "not_ready"
	CodeRecommendationFailed = "recommendation_failed"
)

// ErrorCode classifies err into one of the Code constants.
func ErrorCode(err error) string {
	var (
		invalid     *InvalidRequestError
		unknown     *catalog.UnknownTitleError
		unavailable *ModelUnavailableError
	)
	switch {
	case err == nil:
		return CodeOK
	case errors.As(err, &invalid):
		return CodeInvalidRequest
	case errors.As(err, &unknown):
		return CodeUnknownTitle
	case errors.As(err, &unavailable):
		return CodeModelUnavailable
	case errors.Is(err, ErrNotReady):
		return CodeNotReady
	default:
		return CodeRecommendationFailed
	}
}

func invalidf(format string, args ...any) error {
	return &InvalidRequestError{Reason: fmt.Sprintf(format, args...)}
}
