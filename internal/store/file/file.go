// Package filestore keeps one binary orbit artifact per planet on disk.
package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/khampton353/orrery/internal/orbit"
)

const artifactExt = ".orb"

// Store writes and reads per-planet artifacts under a single directory.
type Store struct {
	dir string
}

// New creates the artifact directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the artifact path for a planet name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+artifactExt)
}

// Save writes the record to a temporary file in the artifact directory and
// renames it into place, so a failure partway never leaves a partial
// artifact behind.
func (s *Store) Save(rec *orbit.Record) error {
	tmp, err := os.CreateTemp(s.dir, rec.Name+".*.tmp")
	if err != nil {
		return &orbit.ArtifactError{Planet: rec.Name, Err: err}
	}
	tmpName := tmp.Name()

	if err := orbit.Encode(tmp, rec); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &orbit.ArtifactError{Planet: rec.Name, Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &orbit.ArtifactError{Planet: rec.Name, Path: tmpName, Err: err}
	}

	dst := s.Path(rec.Name)
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return &orbit.ArtifactError{Planet: rec.Name, Path: dst, Err: err}
	}
	return nil
}

// Load reads one planet's artifact.
func (s *Store) Load(name string) (*orbit.Record, error) {
	path := s.Path(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, &orbit.ArtifactError{Planet: name, Path: path, Err: err}
	}
	defer f.Close()

	rec, err := orbit.Decode(f)
	if err != nil {
		return nil, &orbit.ArtifactError{Planet: name, Path: path, Err: err}
	}
	if rec.Name != name {
		return nil, &orbit.ArtifactError{
			Planet: name,
			Path:   path,
			Err:    fmt.Errorf("artifact names %q", rec.Name),
		}
	}
	return rec, nil
}

// List returns the planet names with an artifact on disk.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), artifactExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), artifactExt))
	}
	return names, nil
}

// Close is a no-op for the file backend.
func (s *Store) Close() error { return nil }
