// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		outcome   string
		results   int
	}{
		{"content ok", "content", "ok", 10},
		{"collaborative unknown title", "collaborative", "unknown_title", 0},
		{"content invalid", "content", "invalid_request", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RecommendRequests.WithLabelValues(tt.algorithm, tt.outcome))
			RecordRecommendation(tt.algorithm, tt.outcome, tt.results, 3*time.Millisecond)
			after := testutil.ToFloat64(RecommendRequests.WithLabelValues(tt.algorithm, tt.outcome))
			if after-before != 1 {
				t.Errorf("requests counter delta = %v, want 1", after-before)
			}
		})
	}
}

func TestRecordCatalogLoad(t *testing.T) {
	RecordCatalogLoad(62423, 2*time.Second)
	if got := testutil.ToFloat64(CatalogItems); got != 62423 {
		t.Errorf("CatalogItems = %v, want 62423", got)
	}
}

func TestSetEngineState(t *testing.T) {
	SetEngineState("content", 2)
	if got := testutil.ToFloat64(EngineState.WithLabelValues("content")); got != 2 {
		t.Errorf("EngineState(content) = %v, want 2", got)
	}
	SetEngineState("content", 3)
	if got := testutil.ToFloat64(EngineState.WithLabelValues("content")); got != 3 {
		t.Errorf("EngineState(content) = %v, want 3", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/recommendations", "200"))
	RecordAPIRequest("POST", "/api/v1/recommendations", "200", 5*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/recommendations", "200"))
	if after-before != 1 {
		t.Errorf("api counter delta = %v, want 1", after-before)
	}
}
