// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Table is the immutable, indexed movie catalog. All methods are safe for
// concurrent use.
type Table struct {
	items   []Item
	byID    map[int]int
	byTitle map[string]int
	ids     []int

	duplicateTitles int
}

// NewTable indexes items in the given order. Duplicate ids and empty titles
// are rejected. When titles repeat, the first occurrence wins title lookups.
func NewTable(items []Item) (*Table, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}

	t := &Table{
		items:   items,
		byID:    make(map[int]int, len(items)),
		byTitle: make(map[string]int, len(items)),
		ids:     make([]int, 0, len(items)),
	}

	for i := range items {
		it := &items[i]
		if strings.TrimSpace(it.Title) == "" {
			return nil, malformed("movie %d has an empty title", it.ID)
		}
		if _, dup := t.byID[it.ID]; dup {
			return nil, malformed("duplicate movie id %d", it.ID)
		}
		t.byID[it.ID] = i
		t.ids = append(t.ids, it.ID)

		if _, seen := t.byTitle[it.Title]; seen {
			t.duplicateTitles++
			continue
		}
		t.byTitle[it.Title] = i
	}

	sort.Ints(t.ids)
	return t, nil
}

// Len returns the number of movies.
func (t *Table) Len() int { return len(t.items) }

// DuplicateTitles returns how many rows repeated an earlier title.
func (t *Table) DuplicateTitles() int { return t.duplicateTitles }

// Item returns the movie with the given id.
func (t *Table) Item(id int) (*Item, bool) {
	i, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return &t.items[i], true
}

// Contains reports whether id is in the catalog.
func (t *Table) Contains(id int) bool {
	_, ok := t.byID[id]
	return ok
}

// Title returns the display title for id.
func (t *Table) Title(id int) (string, bool) {
	i, ok := t.byID[id]
	if !ok {
		return "", false
	}
	return t.items[i].Title, true
}

// Resolve maps a title to its id. Duplicate titles resolve to the first
// occurrence in catalog order.
func (t *Table) Resolve(title string) (int, error) {
	i, ok := t.byTitle[title]
	if !ok {
		return 0, &UnknownTitleError{Title: title}
	}
	return t.items[i].ID, nil
}

// Titles maps ids to titles, preserving order.
func (t *Table) Titles(ids []int) ([]string, error) {
	out := make([]string, len(ids))
	for i, id := range ids {
		title, ok := t.Title(id)
		if !ok {
			return nil, fmt.Errorf("movie id %d not in catalog", id)
		}
		out[i] = title
	}
	return out, nil
}

// IDs returns all ids in ascending order. The slice is shared.
func (t *Table) IDs() []int { return t.ids }

// AllTitles returns every distinct title in catalog order, the list a UI
// offers as selectable favorites.
func (t *Table) AllTitles() []string {
	out := make([]string, 0, len(t.byTitle))
	for i := range t.items {
		if t.byTitle[t.items[i].Title] == i {
			out = append(out, t.items[i].Title)
		}
	}
	return out
}

// Search returns up to limit distinct titles containing query,
// case-insensitively, in catalog order. limit <= 0 means no limit.
func (t *Table) Search(query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]string, 0)
	for i := range t.items {
		it := &t.items[i]
		if t.byTitle[it.Title] != i {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(it.Title), q) {
			continue
		}
		out = append(out, it.Title)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
