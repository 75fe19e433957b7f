// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package api

import (
	"net/http"
	"strconv"
	"time"
)

// maxSearchLimit caps one page of titles.
const maxSearchLimit = 10000

// MovieList is the payload of GET /api/v1/movies.
type MovieList struct {
	Titles []string `json:"titles"`
	Count  int      `json:"count"`
	Total  int      `json:"total"`
}

// Movies handles GET /api/v1/movies?q=&limit=, the title list a client
// offers for choosing the three favorites.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query()

	limit := h.config.DefaultSearchLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSearchLimit {
			respondError(w, r, start, http.StatusBadRequest, ErrCodeInvalidRequest,
				"limit must be an integer between 1 and "+strconv.Itoa(maxSearchLimit), nil)
			return
		}
		limit = n
	}

	table := h.agg.Catalog()
	titles := table.Search(query.Get("q"), limit)
	respondJSON(w, r, start, http.StatusOK, MovieList{
		Titles: titles,
		Count:  len(titles),
		Total:  table.Len(),
	})
}
