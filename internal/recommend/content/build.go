// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package content

import (
	"container/heap"
	"context"
	"fmt"
	"math"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/metrics"
)

const (
	// cancelCheckEvery is how many movies a worker scores between ctx checks.
	cancelCheckEvery = 64

	// fieldCount is len(catalog.Fields).
	fieldCount = 5
)

// posting is one movie carrying a token, with the token's vector value.
type posting struct {
	pos   int32
	value float64
}

// token is a vocabulary entry.
type token struct {
	field int
	df    int
}

// itemTokens is a movie's deduplicated token set with per-field sizes.
type itemTokens struct {
	tokens []int32
	values []float64
	sizes  [fieldCount]int
}

// builder holds the read-only state shared by the build workers.
type builder struct {
	cfg      Config
	weights  [fieldCount]float64
	ids      []int
	items    []itemTokens
	vocab    []token
	postings [][]posting
}

// Build computes the similarity index for every movie in table. The result
// depends only on the catalog and cfg, not on scheduling.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Build(ctx context.Context, table *catalog.Table, cfg Config, logger zerolog.Logger) (*Index, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content config: %w", err)
	}
	start := time.Now()

	b := newBuilder(table, cfg)
	lists, err := b.run(ctx)
	if err != nil {
		return nil, err
	}

	idx := &Index{neighbors: make(map[int][]Neighbor, len(b.ids)), metric: cfg.Metric, limit: cfg.Depth}
	for pos, list := range lists {
		if len(list) == 0 {
			continue
		}
		idx.neighbors[b.ids[pos]] = list
		idx.depth = max(idx.depth, len(list))
	}

	entries := idx.Entries()
	metrics.SimilarityIndexNeighbors.Set(float64(entries))
	logger.Info().
		Str("metric", string(cfg.Metric)).
		Int("movies", len(b.ids)).
		Int("vocabulary", len(b.vocab)).
		Int("neighbors", entries).
		Dur("took", time.Since(start)).
		Msg("Similarity index built")
	return idx, nil
}

func newBuilder(table *catalog.Table, cfg Config) *builder {
	norm, _ := cfg.Weights.Normalized() //nolint:errcheck // validated by caller
	b := &builder{cfg: cfg, ids: table.IDs()}
	for i, f := range catalog.Fields {
		b.weights[i] = norm.Of(f)
	}

	type key struct {
		field int
		text  string
	}
	lookup := make(map[key]int32)
	b.items = make([]itemTokens, len(b.ids))

	for pos, id := range b.ids {
		it, _ := table.Item(id)
		var toks []int32
		for fi, f := range catalog.Fields {
			if b.weights[fi] == 0 {
				continue
			}
			values := slices.Clone(it.Attributes(f))
			slices.Sort(values)
			values = slices.Compact(values)
			for _, v := range values {
				if v == "" {
					continue
				}
				k := key{field: fi, text: v}
				ti, ok := lookup[k]
				if !ok {
					ti = int32(len(b.vocab)) //nolint:gosec // vocabulary is far below 2^31
					lookup[k] = ti
					b.vocab = append(b.vocab, token{field: fi})
				}
				b.vocab[ti].df++
				toks = append(toks, ti)
				b.items[pos].sizes[fi]++
			}
		}
		b.items[pos].tokens = toks
	}

	b.weighItems()

	b.postings = make([][]posting, len(b.vocab))
	for pos := range b.items {
		it := &b.items[pos]
		for i, ti := range it.tokens {
			b.postings[ti] = append(b.postings[ti], posting{pos: int32(pos), value: it.values[i]}) //nolint:gosec // catalog size is far below 2^31
		}
	}
	return b
}

// weighItems fills the per-token values. For cosine each field block is a
// unit TF-IDF vector scaled by the square root of its weight, and the whole
// vector is then normalized, so two fully described movies score
// sum_f w_f * cos_f. Jaccard only needs presence.
func (b *builder) weighItems() {
	n := float64(len(b.items))
	for pos := range b.items {
		it := &b.items[pos]
		it.values = make([]float64, len(it.tokens))
		if b.cfg.Metric != MetricCosine {
			continue
		}

		var fieldNorm [fieldCount]float64
		for i, ti := range it.tokens {
			idf := math.Log((1+n)/(1+float64(b.vocab[ti].df))) + 1
			it.values[i] = idf
			fieldNorm[b.vocab[ti].field] += idf * idf
		}
		total := 0.0
		for fi := range fieldNorm {
			if fieldNorm[fi] > 0 {
				fieldNorm[fi] = math.Sqrt(fieldNorm[fi])
				total += b.weights[fi]
			}
		}
		if total == 0 {
			continue
		}
		scale := math.Sqrt(total)
		for i, ti := range it.tokens {
			fi := b.vocab[ti].field
			it.values[i] = it.values[i] / fieldNorm[fi] * math.Sqrt(b.weights[fi]) / scale
		}
	}
}

// run scores every movie against its candidates. Workers pull positions
// from a shared counter and write only their own slots of the result.
func (b *builder) run(ctx context.Context) ([][]Neighbor, error) {
	n := len(b.ids)
	lists := make([][]Neighbor, n)
	var next atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for range min(b.cfg.workers(), max(n, 1)) {
		g.Go(func() error {
			s := newScratch(n)
			for done := 0; ; done++ {
				if done%cancelCheckEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				pos := int(next.Add(1) - 1)
				if pos >= n {
					return nil
				}
				lists[pos] = b.neighbors(pos, s)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build similarity index: %w", err)
	}
	return lists, nil
}

// scratch is one worker's reusable accumulator.
type scratch struct {
	acc     []float64
	inter   [][fieldCount]int32
	seen    []bool
	touched []int32
	top     worstFirst
}

func newScratch(n int) *scratch {
	return &scratch{
		acc:   make([]float64, n),
		inter: make([][fieldCount]int32, n),
		seen:  make([]bool, n),
	}
}

func (b *builder) neighbors(pos int, s *scratch) []Neighbor {
	it := &b.items[pos]
	if len(it.tokens) == 0 {
		return nil
	}

	for i, ti := range it.tokens {
		field := b.vocab[ti].field
		for _, p := range b.postings[ti] {
			if int(p.pos) == pos {
				continue
			}
			if !s.seen[p.pos] {
				s.seen[p.pos] = true
				s.touched = append(s.touched, p.pos)
			}
			s.acc[p.pos] += it.values[i] * p.value
			s.inter[p.pos][field]++
		}
	}

	s.top = s.top[:0]
	for _, q := range s.touched {
		score := b.score(it, q, s)
		s.acc[q] = 0
		s.inter[q] = [fieldCount]int32{}
		s.seen[q] = false
		if score <= 0 {
			continue
		}
		s.top.offer(Neighbor{ID: b.ids[q], Score: score}, b.cfg.Depth)
	}
	s.touched = s.touched[:0]

	if len(s.top) == 0 {
		return nil
	}
	out := slices.Clone([]Neighbor(s.top))
	slices.SortFunc(out, compareNeighbors)
	return out
}

func (b *builder) score(it *itemTokens, q int32, s *scratch) float64 {
	var score float64
	if b.cfg.Metric == MetricCosine {
		score = s.acc[q]
	} else {
		other := &b.items[q]
		for fi, inter := range s.inter[q] {
			if inter == 0 {
				continue
			}
			union := it.sizes[fi] + other.sizes[fi] - int(inter)
			score += b.weights[fi] * float64(inter) / float64(union)
		}
	}
	return min(max(score, 0), 1)
}

// worstFirst is a bounded heap whose root is the weakest kept neighbor.
type worstFirst []Neighbor

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return compareNeighbors(h[i], h[j]) > 0 }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *worstFirst) Push(x any) { *h = append(*h, x.(Neighbor)) }

func (h *worstFirst) Pop() any {
	old := *h
	last := old[len(old)-1]
	*h = old[:len(old)-1]
	return last
}

// offer keeps nb if it ranks among the best limit seen so far.
func (h *worstFirst) offer(nb Neighbor, limit int) {
	if h.Len() < limit {
		heap.Push(h, nb)
		return
	}
	if compareNeighbors(nb, (*h)[0]) < 0 {
		(*h)[0] = nb
		heap.Fix(h, 0)
	}
}
