// Package sqlitestore keeps orbit records in a gorm-managed catalog, as an
// alternative to per-planet artifact files. The point sequence is stored as
// a JSON column so the schema works on both SQLite and Postgres.
package sqlitestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/khampton353/orrery/internal/orbit"
)

// orbitRow is the gorm model for one stored record.
type orbitRow struct {
	ID           uint   `gorm:"primarykey"`
	Name         string `gorm:"uniqueIndex;size:64"`
	Granularity  uint8
	IntervalDays float64
	StepDegrees  float64
	StartJD      float64
	RefIndex     int
	MinX         float64
	MaxX         float64
	MinY         float64
	MaxY         float64
	Points       datatypes.JSON
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (orbitRow) TableName() string { return "orbit_records" }

// Store is the catalog backend.
type Store struct {
	db *gorm.DB
}

// New wraps an existing gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Init migrates the catalog schema.
func (s *Store) Init() error {
	if err := s.db.AutoMigrate(&orbitRow{}); err != nil {
		return fmt.Errorf("migrate orbit catalog: %w", err)
	}
	return nil
}

// Save upserts one planet's record, keyed by name.
func (s *Store) Save(rec *orbit.Record) error {
	if err := rec.Validate(); err != nil {
		return &orbit.ArtifactError{Planet: rec.Name, Err: err}
	}
	points, err := json.Marshal(rec.Points)
	if err != nil {
		return &orbit.ArtifactError{Planet: rec.Name, Err: err}
	}
	row := orbitRow{
		Name:         rec.Name,
		Granularity:  uint8(rec.Granularity),
		IntervalDays: rec.IntervalDays,
		StepDegrees:  rec.StepDegrees,
		StartJD:      rec.StartJD,
		RefIndex:     rec.RefIndex,
		MinX:         rec.Span.MinX,
		MaxX:         rec.Span.MaxX,
		MinY:         rec.Span.MinY,
		MaxY:         rec.Span.MaxY,
		Points:       datatypes.JSON(points),
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return &orbit.ArtifactError{Planet: rec.Name, Err: err}
	}
	return nil
}

// Load retrieves one planet's record by name.
func (s *Store) Load(name string) (*orbit.Record, error) {
	var row orbitRow
	if err := s.db.Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = fmt.Errorf("%w: not in catalog", orbit.ErrBadArtifact)
		}
		return nil, &orbit.ArtifactError{Planet: name, Err: err}
	}

	rec := &orbit.Record{
		Name:         row.Name,
		Granularity:  orbit.Granularity(row.Granularity),
		IntervalDays: row.IntervalDays,
		StepDegrees:  row.StepDegrees,
		StartJD:      row.StartJD,
		RefIndex:     row.RefIndex,
		Span: orbit.Span{
			MinX: row.MinX, MaxX: row.MaxX,
			MinY: row.MinY, MaxY: row.MaxY,
		},
	}
	if err := json.Unmarshal(row.Points, &rec.Points); err != nil {
		return nil, &orbit.ArtifactError{Planet: name, Err: fmt.Errorf("%w: %v", orbit.ErrBadArtifact, err)}
	}
	if err := rec.Validate(); err != nil {
		return nil, &orbit.ArtifactError{Planet: name, Err: fmt.Errorf("%w: %v", orbit.ErrBadArtifact, err)}
	}
	return rec, nil
}

// List returns the names of all cataloged records.
func (s *Store) List() ([]string, error) {
	var names []string
	if err := s.db.Model(&orbitRow{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("list orbit catalog: %w", err)
	}
	return names, nil
}

// Close is a no-op; the owning database manager closes the connection.
func (s *Store) Close() error { return nil }
