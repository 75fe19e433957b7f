// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const moviesCSV = "\ufeffmovieId,title,genres\n" +
	"1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy\n" +
	"2,Jumanji (1995),Adventure|Children|Fantasy\n" +
	"3,\"Shawshank Redemption, The (1994)\",Crime|Drama\n" +
	"4,Untitled,(no genres listed)\n" +
	"5,Jumanji (1995),Adventure\n"

const metadataCSV = "movieId,title_cast,director,runtime,budget,plot_keywords\n" +
	"1,Tom Hanks|Tim Allen|Don Rickles,John Lasseter,81,\"$30,000,000\",toy|rivalry|cowboy\n" +
	"3,Tim Robbins|Morgan Freeman,Frank Darabont,142,,prison|escape\n" +
	"999,Nobody,Nobody,1,,ghost\n"

const tagsCSV = "userId,movieId,tag,timestamp\n" +
	"15,1,Pixar,1138537770\n" +
	"16,1,pixar,1138537771\n" +
	"17,3,  prison   break ,1138537772\n" +
	"18,42,orphan,1138537773\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	src := Source{
		MoviesPath:   writeFile(t, dir, "movies.csv", moviesCSV),
		MetadataPath: writeFile(t, dir, "imdb_data.csv", metadataCSV),
		TagsPath:     writeFile(t, dir, "tags.csv", tagsCSV),
		MaxCast:      2,
	}

	table, err := Load(context.Background(), src, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if table.Len() != 5 {
		t.Errorf("Len() = %d, want 5", table.Len())
	}
	if table.DuplicateTitles() != 1 {
		t.Errorf("DuplicateTitles() = %d, want 1", table.DuplicateTitles())
	}

	toy, ok := table.Item(1)
	if !ok {
		t.Fatal("Item(1) not found")
	}
	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"genres", toy.Genres, []string{"adventure", "animation", "children", "comedy", "fantasy"}},
		{"cast capped", toy.Cast, []string{"tom hanks", "tim allen"}},
		{"directors", toy.Directors, []string{"john lasseter"}},
		{"keywords", toy.Keywords, []string{"toy", "rivalry", "cowboy"}},
		{"tags deduplicated", toy.Tags, []string{"pixar"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if toy.Year != 1995 {
		t.Errorf("Year = %d, want 1995", toy.Year)
	}

	shawshank, _ := table.Item(3)
	if shawshank.Title != "Shawshank Redemption, The (1994)" {
		t.Errorf("quoted title = %q", shawshank.Title)
	}
	if !reflect.DeepEqual(shawshank.Tags, []string{"prison break"}) {
		t.Errorf("Tags = %v, want [prison break]", shawshank.Tags)
	}

	untitled, _ := table.Item(4)
	if untitled.Genres != nil {
		t.Errorf("Genres = %v, want nil for (no genres listed)", untitled.Genres)
	}
	if untitled.HasAttributes() {
		t.Error("HasAttributes() = true for movie without tokens")
	}
}

func TestLoadDuplicateTitleResolvesToFirst(t *testing.T) {
	dir := t.TempDir()
	table, err := Load(context.Background(), Source{MoviesPath: writeFile(t, dir, "movies.csv", moviesCSV)}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	id, err := table.Resolve("Jumanji (1995)")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id != 2 {
		t.Errorf("Resolve(Jumanji) = %d, want 2 (first occurrence)", id)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
		wantErr error
	}{
		{name: "missing file", missing: true, wantErr: os.ErrNotExist},
		{name: "empty file", content: "", wantErr: ErrMalformed},
		{name: "no title column", content: "movieId,name\n1,Heat\n", wantErr: ErrNoTitleColumn},
		{name: "no id column", content: "title,genres\nHeat,Crime\n", wantErr: ErrNoIDColumn},
		{name: "header only", content: "movieId,title\n", wantErr: ErrEmptyCatalog},
		{name: "bad id", content: "movieId,title\nx,Heat\n", wantErr: ErrMalformed},
		{name: "duplicate id", content: "movieId,title\n1,Heat\n1,Ronin\n", wantErr: ErrMalformed},
		{name: "wrong field count", content: "movieId,title,genres\n1,Heat\n", wantErr: ErrMalformed},
		{name: "empty title", content: "movieId,title\n1, \n", wantErr: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "movies.csv")
			if !tt.missing {
				path = writeFile(t, dir, "movies.csv", tt.content)
			}

			_, err := Load(context.Background(), Source{MoviesPath: path}, zerolog.Nop())
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("Load() error = %v, want *LoadError", err)
			}
			if loadErr.Path != path {
				t.Errorf("LoadError.Path = %q, want %q", loadErr.Path, path)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want wrapping %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadBadSideFile(t *testing.T) {
	dir := t.TempDir()
	src := Source{
		MoviesPath:   writeFile(t, dir, "movies.csv", moviesCSV),
		MetadataPath: writeFile(t, dir, "imdb.csv", "movieId,runtime\n1,81\n"),
	}

	_, err := Load(context.Background(), src, zerolog.Nop())
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Load() error = %v, want *LoadError", err)
	}
	if loadErr.Path != src.MetadataPath {
		t.Errorf("LoadError.Path = %q, want metadata path", loadErr.Path)
	}
}

func TestLoadCancelled(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	b.WriteString("movieId,title\n")
	for i := 1; i <= 10000; i++ {
		fmt.Fprintf(&b, "%d,Movie %d\n", i, i)
	}
	content := b.String()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, Source{MoviesPath: writeFile(t, dir, "movies.csv", content)}, zerolog.Nop())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		title string
		want  int
	}{
		{"Toy Story (1995)", 1995},
		{"Babylon 5 ", 0},
		{"Hello (2001) ", 2001},
		{"(500) Days of Summer (2009)", 2009},
		{"Nothing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := parseYear(tt.title); got != tt.want {
				t.Errorf("parseYear(%q) = %d, want %d", tt.title, got, tt.want)
			}
		})
	}
}
