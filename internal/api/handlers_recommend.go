// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/logging"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend"
)

// maxBodyBytes bounds a recommendation request body.
const maxBodyBytes = 64 << 10

// RecommendationRequest is the body of POST /api/v1/recommendations.
// Algorithm accepts the canonical names and the UI labels.
type RecommendationRequest struct {
	Algorithm string   `json:"algorithm"`
	Movies    []string `json:"movies"`
	TopN      *int     `json:"top_n,omitempty"`
}

// Recommend handles POST /api/v1/recommendations.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body RecommendationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		respondError(w, r, start, http.StatusBadRequest, ErrCodeInvalidRequest, "request body must be a JSON object with algorithm, movies and top_n", nil)
		return
	}

	alg, err := recommend.ParseAlgorithm(body.Algorithm)
	if err != nil {
		h.fail(w, r, start, err)
		return
	}
	topN := h.config.DefaultTopN
	if body.TopN != nil {
		topN = *body.TopN
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	resp, err := h.agg.Recommend(ctx, recommend.Request{Algorithm: alg, Movies: body.Movies, TopN: topN})
	if err != nil {
		h.fail(w, r, start, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("algorithm", string(alg)).
		Int("results", len(resp.Titles)).
		Dur("took", time.Since(start)).
		Msg("Recommendation served")
	respondJSON(w, r, start, http.StatusOK, resp)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, start time.Time, err error) {
	status, code := errorStatus(err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}
	respondError(w, r, start, status, code, clientMessage(code, err), err)
}
