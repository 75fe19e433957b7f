// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTitleColumn is returned when the movies file has no title column.
	ErrNoTitleColumn = errors.New("no title column")

	// ErrNoIDColumn is returned when the movies file has no id column.
	ErrNoIDColumn = errors.New("no id column")

	// ErrEmptyCatalog is returned when no usable rows were read.
	ErrEmptyCatalog = errors.New("catalog contains no movies")

	// ErrMalformed wraps row-level parse failures.
	ErrMalformed = errors.New("malformed catalog data")
)

// LoadError reports a catalog that could not be loaded. It is fatal at
// startup: no engine can serve without the catalog.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("catalog load failed: %v", e.Err)
	}
	return fmt.Sprintf("catalog load failed for %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// UnknownTitleError reports a title that does not resolve to any movie.
type UnknownTitleError struct {
	Title string
}

func (e *UnknownTitleError) Error() string {
	return fmt.Sprintf("unknown title %q", e.Title)
}

func loadErr(path string, err error) error {
	return &LoadError{Path: path, Err: err}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
