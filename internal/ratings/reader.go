// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package ratings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	"github.com/rs/zerolog"
)

// ErrNoRatings is returned when no rating passes the filter.
var ErrNoRatings = errors.New("no ratings")

// Rating is one user's rating of one movie.
type Rating struct {
	UserID    int
	ItemID    int
	Value     float64
	Timestamp int64
}

// Source names a MovieLens style ratings CSV (userId,movieId,rating,timestamp).
type Source struct {
	Path string

	// MinRating drops ratings below it.
	MinRating float64

	// MaxMemory caps DuckDB memory, e.g. "2GB". Empty keeps the default.
	MaxMemory string
}

// Summary describes a loaded ratings set.
type Summary struct {
	Ratings int
	Users   int
	Items   int
	Mean    float64
}

// Read loads every rating at or above src.MinRating, one per user and
// movie (the highest wins), ordered by user then movie.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Read(ctx context.Context, src Source, logger zerolog.Logger) ([]Rating, *Summary, error) {
	if src.Path == "" {
		return nil, nil, errors.New("ratings path is required")
	}
	if _, err := os.Stat(src.Path); err != nil {
		return nil, nil, fmt.Errorf("ratings %s: %w", src.Path, err)
	}
	start := time.Now()

	db, err := open(src.MaxMemory)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = db.Close() }() //nolint:errcheck // in-memory database

	query := `
		SELECT
			CAST(userId AS BIGINT)  AS user_id,
			CAST(movieId AS BIGINT) AS item_id,
			MAX(CAST(rating AS DOUBLE)) AS rating,
			MAX(CAST("timestamp" AS BIGINT)) AS ts
		FROM read_csv_auto(` + quoteLiteral(src.Path) + `, header = true)
		WHERE userId IS NOT NULL
		  AND movieId IS NOT NULL
		  AND CAST(rating AS DOUBLE) >= ?
		GROUP BY 1, 2
		ORDER BY 1, 2
	`

	rows, err := db.QueryContext(ctx, query, src.MinRating)
	if err != nil {
		return nil, nil, fmt.Errorf("query ratings %s: %w", src.Path, err)
	}
	defer rows.Close()

	var out []Rating
	for rows.Next() {
		var (
			r  Rating
			ts sql.NullInt64
		)
		if err := rows.Scan(&r.UserID, &r.ItemID, &r.Value, &ts); err != nil {
			return nil, nil, fmt.Errorf("scan rating: %w", err)
		}
		r.Timestamp = ts.Int64
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("read ratings %s: %w", src.Path, err)
	}
	if len(out) == 0 {
		return nil, nil, fmt.Errorf("%w at or above %.1f in %s", ErrNoRatings, src.MinRating, src.Path)
	}

	summary := Summarize(out)
	logger.Info().
		Str("path", src.Path).
		Int("ratings", summary.Ratings).
		Int("users", summary.Users).
		Int("movies", summary.Items).
		Float64("min_rating", src.MinRating).
		Dur("took", time.Since(start)).
		Msg("Ratings loaded")
	return out, summary, nil
}

// Summarize counts the ratings, distinct users and movies in data and their
// mean value.
func Summarize(data []Rating) *Summary {
	users := make(map[int]struct{})
	items := make(map[int]struct{})
	sum := 0.0
	for _, r := range data {
		users[r.UserID] = struct{}{}
		items[r.ItemID] = struct{}{}
		sum += r.Value
	}
	s := &Summary{Ratings: len(data), Users: len(users), Items: len(items)}
	if len(data) > 0 {
		s.Mean = sum / float64(len(data))
	}
	return s
}

// open starts an in-memory DuckDB with extension auto-loading disabled.
func open(maxMemory string) (*sql.DB, error) {
	params := url.Values{}
	params.Set("autoinstall_known_extensions", "false")
	params.Set("autoload_known_extensions", "false")
	if maxMemory != "" {
		params.Set("max_memory", maxMemory)
	}
	db, err := sql.Open("duckdb", ":memory:?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return db, nil
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
