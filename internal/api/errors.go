// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package api

import (
	"errors"
	"net/http"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend"
)

// errorStatus maps a recommendation error to an HTTP status and API code.
func errorStatus(err error) (int, string) {
	switch recommend.ErrorCode(err) {
	case recommend.CodeInvalidRequest:
		return http.StatusBadRequest, ErrCodeInvalidRequest
	case recommend.CodeUnknownTitle:
		return http.StatusNotFound, ErrCodeUnknownTitle
	case recommend.CodeModelUnavailable:
		return http.StatusServiceUnavailable, ErrCodeModelUnavailable
	case recommend.CodeNotReady:
		return http.StatusServiceUnavailable, ErrCodeNotReady
	default:
		return http.StatusInternalServerError, ErrCodeRecommendationFailed
	}
}

// clientMessage is the message a caller sees. Request errors are reported
// verbatim; load and scoring failures only name the algorithm, the cause
// goes to the log.
func clientMessage(code string, err error) string {
	switch code {
	case ErrCodeModelUnavailable:
		var unavailable *recommend.ModelUnavailableError
		if errors.As(err, &unavailable) {
			return string(unavailable.Algorithm) + " model unavailable"
		}
		return "model unavailable"
	case ErrCodeNotReady:
		return "model is still loading, retry shortly"
	case ErrCodeRecommendationFailed:
		return "failed to generate recommendations"
	default:
		return err.Error()
	}
}
