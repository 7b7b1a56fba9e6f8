package filestore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khampton353/orrery/internal/orbit"
)

func testRecord(name string) *orbit.Record {
	return &orbit.Record{
		Name:         name,
		Granularity:  orbit.GranularityDays,
		IntervalDays: 1,
		StartJD:      2458143.5,
		RefIndex:     1,
		Span:         orbit.Span{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1},
		Points:       []orbit.Point{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	rec := testRecord("Earth")
	require.NoError(t, s.Save(rec))

	got, err := s.Load("Earth")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestLoadMissing(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Load("Vulcan")
	var ae *orbit.ArtifactError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "Vulcan", ae.Planet)
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path("Mars"), []byte("not an artifact"), 0644))

	_, err = s.Load("Mars")
	var ae *orbit.ArtifactError
	require.True(t, errors.As(err, &ae))
	assert.ErrorIs(t, err, orbit.ErrBadArtifact)
}

func TestLoadNameMismatch(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(testRecord("Earth")))
	require.NoError(t, os.Rename(s.Path("Earth"), s.Path("Venus")))

	_, err = s.Load("Venus")
	assert.Error(t, err)
}

func TestFailedSaveLeavesNothingBehind(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	bad := testRecord("Broken")
	bad.Points = nil // invalid, encoding must refuse it
	require.Error(t, s.Save(bad))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial artifact or temp file may remain")
}

func TestSaveOverwritesAtomically(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	first := testRecord("Earth")
	require.NoError(t, s.Save(first))

	second := testRecord("Earth")
	second.RefIndex = 2
	require.NoError(t, s.Save(second))

	got, err := s.Load("Earth")
	require.NoError(t, err)
	assert.Equal(t, 2, got.RefIndex)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(testRecord("Earth")))
	require.NoError(t, s.Save(testRecord("Mars")))
	// unrelated files are not artifacts
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	names, err := s.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Earth", "Mars"}, names)
}
