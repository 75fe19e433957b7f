// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package content

import (
	"errors"
	"math"
	"testing"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
)

func TestNewIndex_SortsLists(t *testing.T) {
	idx, err := NewIndex(map[int][]Neighbor{
		1: {{ID: 3, Score: 0.2}, {ID: 4, Score: 0.9}, {ID: 2, Score: 0.2}},
	})
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}

	got := idx.Neighbors(1)
	want := []Neighbor{{ID: 4, Score: 0.9}, {ID: 2, Score: 0.2}, {ID: 3, Score: 0.2}}
	if len(got) != len(want) {
		t.Fatalf("len(Neighbors) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Neighbors[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if idx.Depth() != 3 {
		t.Errorf("Depth() = %d, want 3", idx.Depth())
	}
	if idx.Entries() != 3 {
		t.Errorf("Entries() = %d, want 3", idx.Entries())
	}
	if len(idx.Neighbors(99)) != 0 {
		t.Error("Neighbors() of an unknown id should be empty")
	}
}

func TestNewIndex_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		lists map[int][]Neighbor
	}{
		{"self reference", map[int][]Neighbor{1: {{ID: 1, Score: 0.5}}}},
		{"score above one", map[int][]Neighbor{1: {{ID: 2, Score: 1.5}}}},
		{"negative score", map[int][]Neighbor{1: {{ID: 2, Score: -0.1}}}},
		{"nan score", map[int][]Neighbor{1: {{ID: 2, Score: math.NaN()}}}},
		{"duplicate neighbor", map[int][]Neighbor{1: {{ID: 2, Score: 0.5}, {ID: 2, Score: 0.4}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewIndex(tt.lists); !errors.Is(err, ErrInvalidIndex) {
				t.Errorf("NewIndex() error = %v, want ErrInvalidIndex", err)
			}
		})
	}
}

func TestIndex_CheckCatalog(t *testing.T) {
	table := mustTable(t, []catalog.Item{
		{ID: 1, Title: "One (2001)"},
		{ID: 2, Title: "Two (2002)"},
	})

	ok, err := NewIndex(map[int][]Neighbor{1: {{ID: 2, Score: 0.5}}})
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	if err := ok.CheckCatalog(table); err != nil {
		t.Errorf("CheckCatalog() error = %v", err)
	}

	tests := []struct {
		name  string
		lists map[int][]Neighbor
	}{
		{"unknown movie", map[int][]Neighbor{3: {{ID: 1, Score: 0.5}}}},
		{"unknown neighbor", map[int][]Neighbor{1: {{ID: 3, Score: 0.5}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := NewIndex(tt.lists)
			if err != nil {
				t.Fatalf("NewIndex() error = %v", err)
			}
			if err := idx.CheckCatalog(table); !errors.Is(err, ErrInvalidIndex) {
				t.Errorf("CheckCatalog() error = %v, want ErrInvalidIndex", err)
			}
		})
	}
}

func mustTable(t *testing.T, items []catalog.Item) *catalog.Table {
	t.Helper()
	table, err := catalog.NewTable(items)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return table
}
