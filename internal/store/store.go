// Package store persists per-planet orbit records. The file backend writes
// one binary artifact per planet; the sqlite backend keeps a queryable
// catalog through gorm.
package store

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/khampton353/orrery/internal/database"
	"github.com/khampton353/orrery/internal/orbit"
	filestore "github.com/khampton353/orrery/internal/store/file"
	sqlitestore "github.com/khampton353/orrery/internal/store/sqlite"
)

// Store is the interface all artifact storage implementations satisfy.
type Store interface {
	// Save persists one planet's record, atomically.
	Save(rec *orbit.Record) error

	// Load retrieves one planet's record by name. A missing or corrupt
	// artifact is reported as an *orbit.ArtifactError.
	Load(name string) (*orbit.Record, error)

	// List returns the names of all stored records.
	List() ([]string, error)

	Close() error
}

// New creates a storage backend based on configuration.
func New(log zerolog.Logger) (Store, error) {
	switch t := viper.GetString("storage.type"); t {
	case "file":
		return filestore.New(viper.GetString("artifactDir"))
	case "sqlite":
		dbm := database.NewManager(log, viper.GetString("storage.sqlitePath"))
		if err := dbm.Connect(); err != nil {
			return nil, fmt.Errorf("connect artifact catalog: %w", err)
		}
		s := sqlitestore.New(dbm.DB)
		if err := s.Init(); err != nil {
			return nil, fmt.Errorf("init artifact catalog: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", t)
	}
}
