// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/metrics"
)

// Source names the catalog files.
type Source struct {
	// MoviesPath is the movies CSV with movieId and title columns and an
	// optional pipe-separated genres column. Required.
	MoviesPath string

	// MetadataPath is an optional CSV keyed by movieId with director,
	// title_cast and plot_keywords columns.
	MetadataPath string

	// TagsPath is an optional CSV of user tags (movieId, tag).
	TagsPath string

	// MaxCast caps cast members kept per movie. 0 keeps all.
	MaxCast int
}

const (
	noGenres   = "(no genres listed)"
	ctxEvery   = 4096
	listSep    = "|"
	utf8BOM    = "\ufeff"
	idColumn   = "movieid"
	tagColumn  = "tag"
	yearDigits = 4
)

var yearPattern = regexp.MustCompile(`\((\d{4})\)\s*$`)

// Load reads the catalog described by src. Every failure is a *LoadError.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Load(ctx context.Context, src Source, logger zerolog.Logger) (*Table, error) {
	logger = logger.With().Str("component", "catalog").Logger()
	start := time.Now()

	items, err := readMovies(ctx, src.MoviesPath)
	if err != nil {
		return nil, loadErr(src.MoviesPath, err)
	}

	index := make(map[int]int, len(items))
	for i := range items {
		index[items[i].ID] = i
	}

	if src.MetadataPath != "" {
		merged, err := readMetadata(ctx, src.MetadataPath, items, index, src.MaxCast)
		if err != nil {
			return nil, loadErr(src.MetadataPath, err)
		}
		logger.Debug().Int("matched", merged).Str("path", src.MetadataPath).Msg("Merged movie metadata")
	}

	if src.TagsPath != "" {
		tagged, err := readTags(ctx, src.TagsPath, items, index)
		if err != nil {
			return nil, loadErr(src.TagsPath, err)
		}
		logger.Debug().Int("movies", tagged).Str("path", src.TagsPath).Msg("Merged user tags")
	}

	table, err := NewTable(items)
	if err != nil {
		return nil, loadErr(src.MoviesPath, err)
	}

	bare := 0
	for i := range items {
		if !items[i].HasAttributes() {
			bare++
		}
	}

	took := time.Since(start)
	metrics.RecordCatalogLoad(table.Len(), took)
	logger.Info().
		Int("movies", table.Len()).
		Int("duplicate_titles", table.DuplicateTitles()).
		Int("without_attributes", bare).
		Dur("took", took).
		Msg("Catalog loaded")

	return table, nil
}

// openCSV opens path and returns a reader positioned after the header
// together with the lowercased header columns.
func openCSV(path string) (*os.File, *csv.Reader, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}

	r := csv.NewReader(f)
	r.ReuseRecord = true
	header, err := r.Read()
	if err != nil {
		_ = f.Close()
		if errors.Is(err, io.EOF) {
			return nil, nil, nil, malformed("missing header row")
		}
		return nil, nil, nil, malformed("header: %v", err)
	}

	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, utf8BOM)))
	}
	return f, r, cols, nil
}

func columnIndex(cols []string, names ...string) int {
	for _, name := range names {
		for i, c := range cols {
			if c == name {
				return i
			}
		}
	}
	return -1
}

// eachRecord reads every record after the header, checking ctx periodically.
func eachRecord(ctx context.Context, r *csv.Reader, fn func(line int, rec []string) error) error {
	for line := 2; ; line++ {
		if line%ctxEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return malformed("%v", err)
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}

func readMovies(ctx context.Context, path string) ([]Item, error) {
	if path == "" {
		return nil, errors.New("movies path is empty")
	}
	f, r, cols, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	idCol := columnIndex(cols, idColumn, "movie_id", "id")
	if idCol < 0 {
		return nil, ErrNoIDColumn
	}
	titleCol := columnIndex(cols, "title")
	if titleCol < 0 {
		return nil, ErrNoTitleColumn
	}
	genreCol := columnIndex(cols, "genres", "genre")

	items := make([]Item, 0, 1024)
	seen := make(map[int]int)
	err = eachRecord(ctx, r, func(line int, rec []string) error {
		id, err := strconv.Atoi(strings.TrimSpace(rec[idCol]))
		if err != nil {
			return malformed("line %d: invalid movie id %q", line, rec[idCol])
		}
		if first, dup := seen[id]; dup {
			return malformed("line %d: duplicate movie id %d (first on line %d)", line, id, first)
		}
		seen[id] = line

		title := strings.TrimSpace(rec[titleCol])
		if title == "" {
			return malformed("line %d: empty title for movie %d", line, id)
		}

		it := Item{ID: id, Title: title, Year: parseYear(title)}
		if genreCol >= 0 {
			it.Genres = splitList(rec[genreCol], 0, noGenres)
		}
		items = append(items, it)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}
	return items, nil
}

func readMetadata(ctx context.Context, path string, items []Item, index map[int]int, maxCast int) (int, error) {
	f, r, cols, err := openCSV(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	idCol := columnIndex(cols, idColumn, "movie_id", "id")
	if idCol < 0 {
		return 0, ErrNoIDColumn
	}
	directorCol := columnIndex(cols, "director", "directors")
	castCol := columnIndex(cols, "title_cast", "cast")
	keywordCol := columnIndex(cols, "plot_keywords", "keywords")
	if directorCol < 0 && castCol < 0 && keywordCol < 0 {
		return 0, malformed("metadata has none of director, title_cast, plot_keywords")
	}

	merged := 0
	err = eachRecord(ctx, r, func(line int, rec []string) error {
		id, err := strconv.Atoi(strings.TrimSpace(rec[idCol]))
		if err != nil {
			return malformed("line %d: invalid movie id %q", line, rec[idCol])
		}
		i, ok := index[id]
		if !ok {
			return nil
		}
		it := &items[i]
		if directorCol >= 0 {
			it.Directors = splitList(rec[directorCol], 0)
		}
		if castCol >= 0 {
			it.Cast = splitList(rec[castCol], maxCast)
		}
		if keywordCol >= 0 {
			it.Keywords = splitList(rec[keywordCol], 0)
		}
		merged++
		return nil
	})
	return merged, err
}

func readTags(ctx context.Context, path string, items []Item, index map[int]int) (int, error) {
	f, r, cols, err := openCSV(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	idCol := columnIndex(cols, idColumn, "movie_id")
	tagCol := columnIndex(cols, tagColumn)
	if idCol < 0 || tagCol < 0 {
		return 0, malformed("tags file needs movieId and tag columns")
	}

	seen := make(map[int]map[string]struct{})
	err = eachRecord(ctx, r, func(line int, rec []string) error {
		id, err := strconv.Atoi(strings.TrimSpace(rec[idCol]))
		if err != nil {
			return malformed("line %d: invalid movie id %q", line, rec[idCol])
		}
		i, ok := index[id]
		if !ok {
			return nil
		}
		tag := normalizeToken(rec[tagCol])
		if tag == "" {
			return nil
		}
		set, ok := seen[id]
		if !ok {
			set = make(map[string]struct{})
			seen[id] = set
		}
		if _, dup := set[tag]; dup {
			return nil
		}
		set[tag] = struct{}{}
		items[i].Tags = append(items[i].Tags, tag)
		return nil
	})
	return len(seen), err
}

// splitList splits a pipe-separated cell into distinct normalized tokens,
// keeping at most limit of them when limit > 0.
func splitList(cell string, limit int, skip ...string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, listSep)
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
outer:
	for _, p := range parts {
		tok := normalizeToken(p)
		if tok == "" {
			continue
		}
		for _, s := range skip {
			if tok == s {
				continue outer
			}
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeToken(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func parseYear(title string) int {
	m := yearPattern.FindStringSubmatch(title)
	if len(m) != 2 || len(m[1]) != yearDigits {
		return 0
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return y
}

// String implements fmt.Stringer for log fields.
func (s Source) String() string {
	return fmt.Sprintf("movies=%s metadata=%s tags=%s", s.MoviesPath, s.MetadataPath, s.TagsPath)
}
