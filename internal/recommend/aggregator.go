// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/metrics"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/validation"
)

// SeedCount is the number of favorite titles every request carries.
const SeedCount = 3

// State is the lifecycle state of one engine.
type State int32

const (
	StateNotReady State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotReady:
		return "not_ready"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EngineStatus reports the lifecycle of one algorithm.
type EngineStatus struct {
	Algorithm Algorithm  `json:"algorithm"`
	State     string     `json:"state"`
	Error     string     `json:"error,omitempty"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
}

// Stats are cumulative request counters.
type Stats struct {
	Requests int64 `json:"requests"`
	Errors   int64 `json:"errors"`
}

// slot holds one engine. engine, err and loadedAt are written once by the
// loading goroutine before done is closed and are read-only afterwards.
type slot struct {
	algorithm Algorithm
	loader    Loader
	startOnce sync.Once
	done      chan struct{}
	state     atomic.Int32

	engine   Engine
	err      error
	loadedAt time.Time
}

// Aggregator is the process-wide recommendation context: the catalog plus
// one lazily loaded engine per enabled algorithm. It is built once and is
// safe for concurrent use; requests take no locks.
type Aggregator struct {
	catalog *catalog.Table
	config  Config
	logger  zerolog.Logger
	slots   map[Algorithm]*slot
	order   []Algorithm

	// loads run under loadCtx so a caller giving up on Init or on a
	// request never fails the load itself.
	loadCtx   context.Context
	stopLoads context.CancelFunc

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewAggregator builds an aggregator over table with one loader per enabled
// algorithm. Loaders run at most once, on Init or on first use.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAggregator(table *catalog.Table, cfg Config, loaders map[Algorithm]Loader, logger zerolog.Logger) (*Aggregator, error) {
	if table == nil {
		return nil, errors.New("catalog is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &Aggregator{
		catalog: table,
		config:  cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
		slots:   make(map[Algorithm]*slot, len(loaders)),
	}
	for _, alg := range Algorithms {
		loader, ok := loaders[alg]
		if !ok {
			continue
		}
		if loader == nil {
			return nil, fmt.Errorf("nil loader for %s", alg)
		}
		a.slots[alg] = &slot{algorithm: alg, loader: loader, done: make(chan struct{})}
		a.order = append(a.order, alg)
		metrics.SetEngineState(string(alg), int(StateNotReady))
	}
	if len(a.slots) != len(loaders) {
		return nil, fmt.Errorf("%w among %d loaders", ErrUnknownAlgorithm, len(loaders))
	}
	if len(a.order) == 0 {
		return nil, errors.New("no algorithms enabled")
	}
	a.loadCtx, a.stopLoads = context.WithCancel(context.Background())
	return a, nil
}

// Catalog returns the shared catalog.
func (a *Aggregator) Catalog() *catalog.Table { return a.catalog }

// Init loads every engine concurrently and waits for all of them. A failed
// engine is reported in the joined error while the others stay usable. If
// ctx ends first Init returns ErrNotReady and the loads carry on, bounded
// by InitTimeout.
func (a *Aggregator) Init(ctx context.Context) error {
	for _, alg := range a.order {
		a.start(a.slots[alg])
	}

	var errs []error
	for _, alg := range a.order {
		s := a.slots[alg]
		select {
		case <-s.done:
			if s.err != nil {
				errs = append(errs, s.err)
			}
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrNotReady, ctx.Err())
		}
	}
	return errors.Join(errs...)
}

// Close cancels loads still in flight; they fail as unavailable. Engines
// already loaded keep serving.
func (a *Aggregator) Close() {
	a.stopLoads()
}

func (a *Aggregator) start(s *slot) {
	s.startOnce.Do(func() {
		s.state.Store(int32(StateLoading))
		metrics.SetEngineState(string(s.algorithm), int(StateLoading))
		go a.load(s)
	})
}

func (a *Aggregator) load(s *slot) {
	ctx, cancel := context.WithTimeout(a.loadCtx, a.config.InitTimeout)
	defer cancel()

	logger := a.logger.With().Str("algorithm", string(s.algorithm)).Logger()
	logger.Info().Msg("Loading engine")
	start := time.Now()

	engine, err := callLoader(ctx, s.loader)
	if err == nil && engine == nil {
		err = errors.New("loader returned no engine")
	}

	took := time.Since(start)
	metrics.RecordEngineLoad(string(s.algorithm), took)

	if err != nil {
		var unavailable *ModelUnavailableError
		if !errors.As(err, &unavailable) {
			err = &ModelUnavailableError{Algorithm: s.algorithm, Err: err}
		}
		s.err = err
		s.state.Store(int32(StateFailed))
		metrics.SetEngineState(string(s.algorithm), int(StateFailed))
		logger.Error().Err(err).Dur("took", took).Msg("Engine unavailable")
	} else {
		s.engine = engine
		s.loadedAt = time.Now()
		s.state.Store(int32(StateReady))
		metrics.SetEngineState(string(s.algorithm), int(StateReady))
		logger.Info().Dur("took", took).Msg("Engine ready")
	}
	close(s.done)
}

func callLoader(ctx context.Context, loader Loader) (engine Engine, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loader panic: %v", r)
		}
	}()
	return loader(ctx)
}

// wait blocks until s has loaded, starting the load if nobody has yet.
func (a *Aggregator) wait(ctx context.Context, s *slot) (Engine, error) {
	a.start(s)
	select {
	case <-s.done:
		if s.err != nil {
			return nil, s.err
		}
		return s.engine, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrNotReady, s.algorithm, ctx.Err())
	}
}

// Status reports every configured algorithm in a fixed order.
func (a *Aggregator) Status() []EngineStatus {
	out := make([]EngineStatus, 0, len(a.order))
	for _, alg := range a.order {
		s := a.slots[alg]
		st := State(s.state.Load())
		es := EngineStatus{Algorithm: alg, State: st.String()}
		switch st {
		case StateFailed:
			es.Error = s.err.Error()
		case StateReady:
			loaded := s.loadedAt
			es.LoadedAt = &loaded
		}
		out = append(out, es)
	}
	return out
}

// Ready reports whether at least one engine can serve requests.
func (a *Aggregator) Ready() bool {
	for _, alg := range a.order {
		if State(a.slots[alg].state.Load()) == StateReady {
			return true
		}
	}
	return false
}

// Stats returns cumulative request counters.
func (a *Aggregator) Stats() Stats {
	return Stats{Requests: a.requestCount.Load(), Errors: a.errorCount.Load()}
}

// ContentModel recommends up to topN titles similar in content to the
// three seed titles in movieList.
func (a *Aggregator) ContentModel(movieList []string, topN int) ([]string, error) {
	return a.titles(AlgorithmContent, movieList, topN)
}

// CollabModel recommends up to topN titles that users who liked the three
// seed titles in movieList also rated highly.
func (a *Aggregator) CollabModel(movieList []string, topN int) ([]string, error) {
	return a.titles(AlgorithmCollaborative, movieList, topN)
}

func (a *Aggregator) titles(alg Algorithm, movies []string, topN int) ([]string, error) {
	resp, err := a.Recommend(context.Background(), Request{Algorithm: alg, Movies: movies, TopN: topN})
	if err != nil {
		return nil, err
	}
	return resp.Titles, nil
}

// Recommend validates req, resolves the seeds, runs the selected engine and
// maps the result back to titles. The engine's order is returned unchanged.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (a *Aggregator) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	a.requestCount.Add(1)

	resp, err := a.recommend(ctx, req, start)

	label := string(req.Algorithm)
	if _, ok := a.slots[req.Algorithm]; !ok {
		label = "unknown"
	}
	results := 0
	if resp != nil {
		results = len(resp.Titles)
	}
	code := ErrorCode(err)
	metrics.RecordRecommendation(label, code, results, time.Since(start))

	if err != nil {
		a.errorCount.Add(1)
		event := a.logger.Debug()
		if code == CodeRecommendationFailed {
			event = a.logger.Error()
		}
		event.Err(err).Str("algorithm", label).Str("code", code).Msg("Recommendation failed")
		return nil, err
	}
	return resp, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (a *Aggregator) recommend(ctx context.Context, req Request, start time.Time) (*Response, error) {
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, &InvalidRequestError{Reason: verr.Error()}
	}
	if req.TopN > a.config.MaxTopN {
		return nil, invalidf("top_n must be at most %d, got %d", a.config.MaxTopN, req.TopN)
	}

	s, ok := a.slots[req.Algorithm]
	if !ok {
		return nil, &ModelUnavailableError{Algorithm: req.Algorithm, Err: ErrNotConfigured}
	}

	seeds, err := a.resolveSeeds(req.Movies)
	if err != nil {
		return nil, err
	}

	engine, err := a.wait(ctx, s)
	if err != nil {
		return nil, err
	}

	ranked, err := rank(ctx, engine, seeds, req.TopN)
	if err != nil {
		return nil, classifyRankError(req.Algorithm, err)
	}
	if err := a.verify(ranked, seeds, req.TopN); err != nil {
		return nil, &RecommendationError{Algorithm: req.Algorithm, Err: err}
	}

	ids := make([]int, len(ranked))
	for i, sc := range ranked {
		ids[i] = sc.ID
	}
	titles, err := a.catalog.Titles(ids)
	if err != nil {
		return nil, &RecommendationError{Algorithm: req.Algorithm, Err: err}
	}

	resp := &Response{
		Algorithm: req.Algorithm,
		Titles:    titles,
		Items:     make([]Recommendation, len(ranked)),
		Metadata: ResponseMetadata{
			SeedIDs:   seeds,
			TopN:      req.TopN,
			Generated: time.Now().UTC(),
		},
	}
	for i, sc := range ranked {
		resp.Items[i] = Recommendation{ID: sc.ID, Title: titles[i], Score: sc.Score}
	}
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	return resp, nil
}

// resolveSeeds maps titles to ids. Surrounding whitespace is ignored; the
// title in an UnknownTitleError is the one the caller sent.
func (a *Aggregator) resolveSeeds(titles []string) ([]int, error) {
	ids := make([]int, 0, len(titles))
	for _, title := range titles {
		id, err := a.catalog.Resolve(strings.TrimSpace(title))
		if err != nil {
			return nil, &catalog.UnknownTitleError{Title: title}
		}
		if slices.Contains(ids, id) {
			return nil, invalidf("seed %q names the same movie as another seed", title)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func rank(ctx context.Context, engine Engine, seeds []int, topN int) (out []Scored, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panic: %v", r)
		}
	}()
	return engine.Rank(ctx, seeds, topN)
}

func classifyRankError(alg Algorithm, err error) error {
	var (
		recErr      *RecommendationError
		unavailable *ModelUnavailableError
		unknown     *catalog.UnknownTitleError
		invalid     *InvalidRequestError
	)
	if errors.As(err, &recErr) || errors.As(err, &unavailable) || errors.As(err, &unknown) || errors.As(err, &invalid) {
		return err
	}
	return &RecommendationError{Algorithm: alg, Err: err}
}

// verify enforces the result contract on whatever an engine returned.
func (a *Aggregator) verify(ranked []Scored, seeds []int, topN int) error {
	if len(ranked) > topN {
		return fmt.Errorf("engine returned %d items for top_n %d", len(ranked), topN)
	}
	seen := make(map[int]struct{}, len(ranked))
	for i, sc := range ranked {
		if math.IsNaN(sc.Score) || math.IsInf(sc.Score, 0) {
			return fmt.Errorf("non-finite score for item %d", sc.ID)
		}
		if slices.Contains(seeds, sc.ID) {
			return fmt.Errorf("engine returned seed %d", sc.ID)
		}
		if !a.catalog.Contains(sc.ID) {
			return fmt.Errorf("engine returned id %d outside the catalog", sc.ID)
		}
		if _, dup := seen[sc.ID]; dup {
			return fmt.Errorf("engine returned id %d twice", sc.ID)
		}
		seen[sc.ID] = struct{}{}
		if i > 0 && CompareScored(ranked[i-1], sc) > 0 {
			return fmt.Errorf("engine result out of order at position %d", i)
		}
	}
	return nil
}
