// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package content

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
)

// ErrInvalidIndex is wrapped by every index validation failure.
var ErrInvalidIndex = errors.New("invalid similarity index")

// Neighbor is one entry of a movie's similarity list.
type Neighbor struct {
	ID    int
	Score float64
}

// compareNeighbors orders by score descending, then id ascending.
func compareNeighbors(a, b Neighbor) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Index maps a movie id to its most similar movies, best first. An Index is
// read-only once built and safe for concurrent use.
type Index struct {
	neighbors map[int][]Neighbor
	depth     int
	metric    Metric

	// limit is the depth the index was built with, 0 for explicit lists.
	limit int
}

// NewIndex builds an index from explicit neighbor lists. Lists are copied
// and sorted; self references, duplicates and scores outside [0, 1] are
// rejected.
func NewIndex(lists map[int][]Neighbor) (*Index, error) {
	idx := &Index{neighbors: make(map[int][]Neighbor, len(lists))}
	for id, list := range lists {
		sorted := slices.Clone(list)
		slices.SortFunc(sorted, compareNeighbors)
		if err := checkList(id, sorted); err != nil {
			return nil, err
		}
		idx.neighbors[id] = sorted
		idx.depth = max(idx.depth, len(sorted))
	}
	return idx, nil
}

// checkList validates one sorted neighbor list.
func checkList(id int, list []Neighbor) error {
	seen := make(map[int]struct{}, len(list))
	for i, nb := range list {
		if nb.ID == id {
			return fmt.Errorf("%w: movie %d lists itself", ErrInvalidIndex, id)
		}
		if math.IsNaN(nb.Score) || nb.Score < 0 || nb.Score > 1 {
			return fmt.Errorf("%w: movie %d neighbor %d has score %v", ErrInvalidIndex, id, nb.ID, nb.Score)
		}
		if _, dup := seen[nb.ID]; dup {
			return fmt.Errorf("%w: movie %d lists neighbor %d twice", ErrInvalidIndex, id, nb.ID)
		}
		seen[nb.ID] = struct{}{}
		if i > 0 && compareNeighbors(list[i-1], nb) > 0 {
			return fmt.Errorf("%w: movie %d neighbors out of order at %d", ErrInvalidIndex, id, i)
		}
	}
	return nil
}

// Neighbors returns the stored list for id, best first. Callers must not
// modify it.
func (x *Index) Neighbors(id int) []Neighbor {
	return x.neighbors[id]
}

// Len is the number of movies with a neighbor list.
func (x *Index) Len() int { return len(x.neighbors) }

// Depth is the longest stored list.
func (x *Index) Depth() int { return x.depth }

// Metric is the similarity used to build the index, empty for explicit ones.
func (x *Index) Metric() Metric { return x.metric }

// Entries counts all stored neighbor pairs.
func (x *Index) Entries() int {
	n := 0
	for _, list := range x.neighbors {
		n += len(list)
	}
	return n
}

// CheckCatalog fails if any id in the index is missing from table.
func (x *Index) CheckCatalog(table *catalog.Table) error {
	for id, list := range x.neighbors {
		if !table.Contains(id) {
			return fmt.Errorf("%w: movie %d is not in the catalog", ErrInvalidIndex, id)
		}
		for _, nb := range list {
			if !table.Contains(nb.ID) {
				return fmt.Errorf("%w: neighbor %d of movie %d is not in the catalog", ErrInvalidIndex, nb.ID, id)
			}
		}
	}
	return nil
}
