// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/content"
)

type rankFunc func(ctx context.Context, seeds []int, topN int) ([]recommend.Scored, error)

func (f rankFunc) Rank(ctx context.Context, seeds []int, topN int) ([]recommend.Scored, error) {
	return f(ctx, seeds, topN)
}

// envelope mirrors APIResponse with a raw payload.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not JSON: %v: %s", err, rec.Body.String())
	}
	return env
}

// Movies A..F have ids 1..6.
func testAggregator(t *testing.T, loaders map[recommend.Algorithm]recommend.Loader) *recommend.Aggregator {
	t.Helper()
	table, err := catalog.NewTable([]catalog.Item{
		{ID: 1, Title: "A"}, {ID: 2, Title: "B"}, {ID: 3, Title: "C"},
		{ID: 4, Title: "D"}, {ID: 5, Title: "E"}, {ID: 6, Title: "F"},
	})
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	cfg := recommend.DefaultConfig()
	cfg.MaxTopN = 20
	agg, err := recommend.NewAggregator(table, cfg, loaders, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAggregator() error = %v", err)
	}
	return agg
}

func contentLoader(t *testing.T) recommend.Loader {
	t.Helper()
	idx, err := content.NewIndex(map[int][]content.Neighbor{
		1: {{ID: 4, Score: 0.9}, {ID: 5, Score: 0.8}, {ID: 2, Score: 0.7}, {ID: 3, Score: 0.6}},
		2: {{ID: 1, Score: 0.7}, {ID: 4, Score: 0.5}, {ID: 5, Score: 0.4}, {ID: 3, Score: 0.3}},
		3: {{ID: 1, Score: 0.6}, {ID: 4, Score: 0.35}, {ID: 5, Score: 0.3}, {ID: 2, Score: 0.3}},
		4: {{ID: 1, Score: 0.9}, {ID: 5, Score: 0.6}},
		5: {{ID: 1, Score: 0.8}, {ID: 4, Score: 0.6}},
	})
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	engine, err := content.New(idx, content.AggregateSum)
	if err != nil {
		t.Fatalf("content.New() error = %v", err)
	}
	return func(context.Context) (recommend.Engine, error) { return engine, nil }
}

func testRouter(t *testing.T, agg *recommend.Aggregator, hcfg HandlerConfig, mw *ChiMiddlewareConfig) http.Handler {
	t.Helper()
	h, err := NewHandler(agg, hcfg)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return NewRouter(h, mw).SetupChi()
}

func post(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecommend(t *testing.T) {
	agg := testAggregator(t, map[recommend.Algorithm]recommend.Loader{
		recommend.AlgorithmContent: contentLoader(t),
		recommend.AlgorithmCollaborative: func(context.Context) (recommend.Engine, error) {
			return nil, errors.New("open models/latent_model_v1.gob.gz: no such file")
		},
	})
	router := testRouter(t, agg, HandlerConfig{}, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantTitles []string
	}{
		{
			name:       "content",
			body:       `{"algorithm":"content","movies":["A","B","C"],"top_n":2}`,
			wantStatus: http.StatusOK,
			wantTitles: []string{"D", "E"},
		},
		{
			name:       "default top_n",
			body:       `{"algorithm":"content","movies":["A","B","C"]}`,
			wantStatus: http.StatusOK,
			wantTitles: []string{"D", "E"},
		},
		{
			name:       "ui label",
			body:       `{"algorithm":"Content Based Filtering","movies":["A","B","C"],"top_n":1}`,
			wantStatus: http.StatusOK,
			wantTitles: []string{"D"},
		},
		{"malformed json", `{"algorithm":`, http.StatusBadRequest, ErrCodeInvalidRequest, nil},
		{"unknown field", `{"algorithm":"content","movies":["A","B","C"],"k":3}`, http.StatusBadRequest, ErrCodeInvalidRequest, nil},
		{"unknown algorithm", `{"algorithm":"hybrid","movies":["A","B","C"]}`, http.StatusBadRequest, ErrCodeInvalidRequest, nil},
		{"two movies", `{"algorithm":"content","movies":["A","B"]}`, http.StatusBadRequest, ErrCodeInvalidRequest, nil},
		{"duplicate movies", `{"algorithm":"content","movies":["A","A","B"]}`, http.StatusBadRequest, ErrCodeInvalidRequest, nil},
		{"zero top_n", `{"algorithm":"content","movies":["A","B","C"],"top_n":0}`, http.StatusBadRequest, ErrCodeInvalidRequest, nil},
		{"top_n over limit", `{"algorithm":"content","movies":["A","B","C"],"top_n":21}`, http.StatusBadRequest, ErrCodeInvalidRequest, nil},
		{"unknown title", `{"algorithm":"content","movies":["A","B","Nope"]}`, http.StatusNotFound, ErrCodeUnknownTitle, nil},
		{"model unavailable", `{"algorithm":"collaborative","movies":["A","B","C"]}`, http.StatusServiceUnavailable, ErrCodeModelUnavailable, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(router, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)

			if tt.wantCode != "" {
				if env.Success || env.Error == nil {
					t.Fatalf("envelope = %+v, want error", env)
				}
				if env.Error.Code != tt.wantCode {
					t.Errorf("code = %q, want %q", env.Error.Code, tt.wantCode)
				}
				return
			}

			var resp recommend.Response
			if err := json.Unmarshal(env.Data, &resp); err != nil {
				t.Fatalf("data is not a Response: %v", err)
			}
			if !env.Success {
				t.Error("success = false, want true")
			}
			if !slices.Equal(resp.Titles, tt.wantTitles) {
				t.Errorf("titles = %v, want %v", resp.Titles, tt.wantTitles)
			}
		})
	}
}

func TestRecommend_ModelUnavailableHidesCause(t *testing.T) {
	agg := testAggregator(t, map[recommend.Algorithm]recommend.Loader{
		recommend.AlgorithmCollaborative: func(context.Context) (recommend.Engine, error) {
			return nil, errors.New("open /srv/secret/path")
		},
	})
	rec := post(testRouter(t, agg, HandlerConfig{}, nil), `{"algorithm":"collaborative","movies":["A","B","C"]}`)

	if got := rec.Header().Get("Retry-After"); got == "" {
		t.Error("Retry-After header missing")
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || strings.Contains(env.Error.Message, "/srv/secret") {
		t.Errorf("error = %+v, want message without the load cause", env.Error)
	}
}

func TestRecommend_EngineFailure(t *testing.T) {
	agg := testAggregator(t, map[recommend.Algorithm]recommend.Loader{
		recommend.AlgorithmCollaborative: func(context.Context) (recommend.Engine, error) {
			return rankFunc(func(context.Context, []int, int) ([]recommend.Scored, error) {
				return nil, errors.New("solver diverged")
			}), nil
		},
	})
	rec := post(testRouter(t, agg, HandlerConfig{}, nil), `{"algorithm":"collab","movies":["A","B","C"]}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != ErrCodeRecommendationFailed {
		t.Errorf("error = %+v, want %s", env.Error, ErrCodeRecommendationFailed)
	}
}

func TestRecommend_NotReady(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	agg := testAggregator(t, map[recommend.Algorithm]recommend.Loader{
		recommend.AlgorithmContent: func(ctx context.Context) (recommend.Engine, error) {
			select {
			case <-release:
			case <-ctx.Done():
			}
			return nil, errors.New("stopped")
		},
	})
	router := testRouter(t, agg, HandlerConfig{RequestTimeout: 20 * time.Millisecond}, nil)

	rec := post(router, `{"algorithm":"content","movies":["A","B","C"]}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != ErrCodeNotReady {
		t.Errorf("error = %+v, want %s", env.Error, ErrCodeNotReady)
	}
}

func TestHealth(t *testing.T) {
	agg := testAggregator(t, map[recommend.Algorithm]recommend.Loader{
		recommend.AlgorithmContent: contentLoader(t),
	})
	router := testRouter(t, agg, HandlerConfig{}, nil)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	if rec := get("/api/v1/health/live"); rec.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", rec.Code)
	}

	rec := get("/api/v1/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready before init = %d, want 503", rec.Code)
	}

	if err := agg.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	rec = get("/api/v1/health/ready")
	if rec.Code != http.StatusOK {
		t.Fatalf("ready after init = %d, want 200", rec.Code)
	}
	var status ReadyStatus
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &status); err != nil {
		t.Fatalf("data is not ReadyStatus: %v", err)
	}
	if !status.Ready || status.Movies != 6 || len(status.Engines) != 1 || status.Engines[0].State != "ready" {
		t.Errorf("status = %+v", status)
	}
}

func TestMovies(t *testing.T) {
	agg := testAggregator(t, map[recommend.Algorithm]recommend.Loader{
		recommend.AlgorithmContent: contentLoader(t),
	})
	router := testRouter(t, agg, HandlerConfig{DefaultSearchLimit: 4}, nil)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		want       []string
	}{
		{"default limit", "", http.StatusOK, []string{"A", "B", "C", "D"}},
		{"limit", "?limit=2", http.StatusOK, []string{"A", "B"}},
		{"query", "?q=e", http.StatusOK, []string{"E"}},
		{"no match", "?q=zzz", http.StatusOK, []string{}},
		{"bad limit", "?limit=abc", http.StatusBadRequest, nil},
		{"zero limit", "?limit=0", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movies"+tt.query, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.want == nil {
				return
			}
			var list MovieList
			if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &list); err != nil {
				t.Fatalf("data is not MovieList: %v", err)
			}
			if !slices.Equal(list.Titles, tt.want) {
				t.Errorf("titles = %v, want %v", list.Titles, tt.want)
			}
			if list.Total != 6 {
				t.Errorf("total = %d, want 6", list.Total)
			}
		})
	}
}

func TestNewHandler(t *testing.T) {
	if _, err := NewHandler(nil, HandlerConfig{}); err == nil {
		t.Error("NewHandler(nil) should fail")
	}

	agg := testAggregator(t, map[recommend.Algorithm]recommend.Loader{
		recommend.AlgorithmContent: contentLoader(t),
	})
	h, err := NewHandler(agg, HandlerConfig{})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	if h.config != DefaultHandlerConfig() {
		t.Errorf("config = %+v, want defaults", h.config)
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{&recommend.InvalidRequestError{Reason: "x"}, http.StatusBadRequest, ErrCodeInvalidRequest},
		{&catalog.UnknownTitleError{Title: "x"}, http.StatusNotFound, ErrCodeUnknownTitle},
		{&recommend.ModelUnavailableError{Algorithm: recommend.AlgorithmContent, Err: errors.New("x")}, http.StatusServiceUnavailable, ErrCodeModelUnavailable},
		{recommend.ErrNotReady, http.StatusServiceUnavailable, ErrCodeNotReady},
		{&recommend.RecommendationError{Algorithm: recommend.AlgorithmContent, Err: errors.New("x")}, http.StatusInternalServerError, ErrCodeRecommendationFailed},
	}

	for _, tt := range tests {
		status, code := errorStatus(tt.err)
		if status != tt.wantStatus || code != tt.wantCode {
			t.Errorf("errorStatus(%v) = %d, %q, want %d, %q", tt.err, status, code, tt.wantStatus, tt.wantCode)
		}
	}
}

func TestSanitizeLogValue(t *testing.T) {
	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
