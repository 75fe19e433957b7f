// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package recommend

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// CompareScored orders by score descending, then id ascending.
func CompareScored(a, b Scored) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortScored sorts s in ranking order. The order is total, so the result
// does not depend on the input order.
func SortScored(s []Scored) {
	slices.SortFunc(s, CompareScored)
}

// TopScored ranks scores, dropping excluded ids, and keeps the first n.
// It fails on NaN or infinite scores rather than ranking them.
func TopScored(scores map[int]float64, exclude []int, n int) ([]Scored, error) {
	out := make([]Scored, 0, len(scores))
	for id, s := range scores {
		if slices.Contains(exclude, id) {
			continue
		}
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("non-finite score %v for item %d", s, id)
		}
		out = append(out, Scored{ID: id, Score: s})
	}
	SortScored(out)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}
