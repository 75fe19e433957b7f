// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package catalog

// Field names a categorical attribute of a movie.
type Field string

// Attribute fields used for content similarity.
const (
	FieldGenre    Field = "genre"
	FieldDirector Field = "director"
	FieldCast     Field = "cast"
	FieldKeyword  Field = "keyword"
	FieldTag      Field = "tag"
)

// Fields lists every attribute field in a fixed order.
var Fields = []Field{FieldGenre, FieldDirector, FieldCast, FieldKeyword, FieldTag}

// Item is one movie in the catalog. Items are shared read-only once the
// table is built; callers must not modify the slices.
type Item struct {
	// ID is the catalog identifier (movieId).
	ID int

	// Title is the display title, including the release year suffix.
	Title string

	// Year is parsed from a trailing "(YYYY)" in the title, 0 if absent.
	Year int

	// Genres are lowercased genre tags.
	Genres []string

	// Directors are lowercased director names.
	Directors []string

	// Cast are lowercased cast member names, capped by Source.MaxCast.
	Cast []string

	// Keywords are lowercased plot keywords.
	Keywords []string

	// Tags are lowercased distinct user tags.
	Tags []string
}

// Attributes returns the tokens of one field.
func (it *Item) Attributes(f Field) []string {
	switch f {
	case FieldGenre:
		return it.Genres
	case FieldDirector:
		return it.Directors
	case FieldCast:
		return it.Cast
	case FieldKeyword:
		return it.Keywords
	case FieldTag:
		return it.Tags
	default:
		return nil
	}
}

// HasAttributes reports whether the movie carries any categorical token.
func (it *Item) HasAttributes() bool {
	for _, f := range Fields {
		if len(it.Attributes(f)) > 0 {
			return true
		}
	}
	return false
}
