// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package api

import (
	"net/http"
	"time"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend"
)

// LiveStatus is the liveness payload.
type LiveStatus struct {
	Alive  bool    `json:"alive"`
	Uptime float64 `json:"uptime_seconds"`
}

// ReadyStatus is the readiness payload.
type ReadyStatus struct {
	Ready    bool                     `json:"ready"`
	Movies   int                      `json:"movies"`
	Engines  []recommend.EngineStatus `json:"engines"`
	Requests recommend.Stats          `json:"requests"`
}

// HealthLive handles GET /api/v1/health/live. It answers 200 whenever the
// process can serve HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondJSON(w, r, start, http.StatusOK, LiveStatus{
		Alive:  true,
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /api/v1/health/ready. It answers 200 once at least
// one engine is ready and 503 before that, reporting every engine either way.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := ReadyStatus{
		Ready:    h.agg.Ready(),
		Movies:   h.agg.Catalog().Len(),
		Engines:  h.agg.Status(),
		Requests: h.agg.Stats(),
	}
	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, r, start, code, status)
}
