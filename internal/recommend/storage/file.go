// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
)

const fileSuffix = ".gob.gz"

// FileStore keeps one file per artifact version in a directory:
// {name}_v{version}.gob.gz. Writes go to a temp file and are renamed into
// place, so readers never observe a partial artifact.
type FileStore struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per artifact name
	versions map[string]int
}

// NewFileStore opens (creating if needed) a store rooted at baseDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, errors.New("model store path is required")
	}
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &FileStore{baseDir: baseDir, versions: make(map[string]int)}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan existing models: %w", err)
	}
	return s, nil
}

// scan records the latest version of every artifact in the directory.
func (s *FileStore) scan() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, version, ok := parseModelFilename(entry.Name())
		if !ok {
			continue
		}
		if current, seen := s.versions[name]; !seen || version > current {
			s.versions[name] = version
		}
	}
	return nil
}

// parseModelFilename splits "latent_model_v3.gob.gz" into name and version.
func parseModelFilename(filename string) (name string, version int, ok bool) {
	base, found := strings.CutSuffix(filename, fileSuffix)
	if !found {
		return "", 0, false
	}
	i := strings.LastIndex(base, "_v")
	if i < 1 {
		return "", 0, false
	}
	version, err := strconv.Atoi(base[i+2:])
	if err != nil || version < 1 {
		return "", 0, false
	}
	return base[:i], version, true
}

// Save writes data as version of name, replacing any file of that version.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *FileStore) Save(ctx context.Context, name string, version int, data any, meta ModelMetadata) (*ModelMetadata, error) {
	if err := checkName(name, version); err != nil {
		return nil, err
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("model name %q must not contain path separators", name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta.Name = name
	meta.Version = version
	buf, meta, err := encode(data, meta)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.baseDir, ".tmp-"+name+"-*")
	if err != nil {
		return nil, fmt.Errorf("create model file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op once renamed

	if _, err := tmp.Write(buf); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error is returned
		return nil, fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmpName, s.modelPath(name, version)); err != nil {
		return nil, fmt.Errorf("install model file: %w", err)
	}

	if current, ok := s.versions[name]; !ok || version > current {
		s.versions[name] = version
	}
	return &meta, nil
}

// Load decodes version of name into target. Version 0 loads the latest.
func (s *FileStore) Load(ctx context.Context, name string, version int, kind Kind, target any) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
		}
	}

	f, err := os.Open(s.modelPath(name, version))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s v%d", ErrModelNotFound, name, version)
	}
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	return decode(f, kind, target)
}

// LatestVersion returns the newest version of name.
func (s *FileStore) LatestVersion(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	return version, nil
}

// List returns metadata for the latest version of every artifact, sorted
// by name. Unreadable files are skipped.
func (s *FileStore) List(ctx context.Context) ([]ModelMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.versions))
	for name := range s.versions {
		names = append(names, name)
	}
	slices.Sort(names)

	models := make([]ModelMetadata, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.Open(s.modelPath(name, s.versions[name]))
		if err != nil {
			continue
		}
		env, err := decodeMetadata(f)
		_ = f.Close() //nolint:errcheck // read-only file
		if err != nil {
			continue
		}
		models = append(models, env.Metadata)
	}
	return models, nil
}

// Delete removes a specific version and recomputes the latest one.
func (s *FileStore) Delete(_ context.Context, name string, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.modelPath(name, version)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s v%d", ErrModelNotFound, name, version)
		}
		return fmt.Errorf("delete model: %w", err)
	}

	if s.versions[name] == version {
		versions, err := s.versionsOf(name)
		if err != nil {
			return err
		}
		if len(versions) == 0 {
			delete(s.versions, name)
		} else {
			s.versions[name] = slices.Max(versions)
		}
	}
	return nil
}

// Prune removes old versions of name, keeping the newest keep.
func (s *FileStore) Prune(_ context.Context, name string, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keep = max(keep, 1)
	versions, err := s.versionsOf(name)
	if err != nil {
		return err
	}
	slices.Sort(versions)
	slices.Reverse(versions)
	for _, v := range versions[min(keep, len(versions)):] {
		_ = os.Remove(s.modelPath(name, v)) //nolint:errcheck // best-effort cleanup of old versions
	}
	return nil
}

// Close is a no-op for files.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) versionsOf(name string) ([]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var versions []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		n, v, ok := parseModelFilename(entry.Name())
		if ok && n == name {
			versions = append(versions, v)
		}
	}
	return versions, nil
}

func (s *FileStore) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, name+"_v"+strconv.Itoa(version)+fileSuffix)
}
