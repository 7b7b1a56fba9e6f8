package sqlitestore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khampton353/orrery/internal/database"
	"github.com/khampton353/orrery/internal/orbit"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.GetSqliteDB(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	s := New(db)
	require.NoError(t, s.Init())
	return s
}

func testRecord(name string) *orbit.Record {
	return &orbit.Record{
		Name:         name,
		Granularity:  orbit.GranularityDegrees,
		IntervalDays: 74.83,
		StepDegrees:  2.5,
		StartJD:      2455000.5,
		RefIndex:     1,
		Span:         orbit.Span{MinX: -9.6, MaxX: 9.7, MinY: -10, MaxY: 10},
		Points:       []orbit.Point{{X: 9.7, Y: 0.1}, {X: 9.2, Y: 2.7}, {X: 8.1, Y: 5.05}},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	rec := testRecord("Saturn")
	require.NoError(t, s.Save(rec))

	got, err := s.Load("Saturn")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestSaveUpserts(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save(testRecord("Saturn")))
	updated := testRecord("Saturn")
	updated.RefIndex = 2
	require.NoError(t, s.Save(updated))

	got, err := s.Load("Saturn")
	require.NoError(t, err)
	assert.Equal(t, 2, got.RefIndex)

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Saturn"}, names)
}

func TestLoadMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load("Vulcan")
	var ae *orbit.ArtifactError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "Vulcan", ae.Planet)
	assert.ErrorIs(t, err, orbit.ErrBadArtifact)
}

func TestSaveRejectsInvalid(t *testing.T) {
	s := newTestStore(t)

	bad := testRecord("Broken")
	bad.Points = nil
	assert.Error(t, s.Save(bad))
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(testRecord("Neptune")))
	require.NoError(t, s.Save(testRecord("Jupiter")))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Jupiter", "Neptune"}, names)
}
