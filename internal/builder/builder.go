// Package builder runs the ephemeris preprocessing batch: every configured
// planet's raw table is parsed, reduced to an orbit record, and persisted.
// One planet's failure never aborts the others.
package builder

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/khampton353/orrery/internal/config"
	"github.com/khampton353/orrery/internal/ephemeris"
	"github.com/khampton353/orrery/internal/orbit"
	"github.com/khampton353/orrery/internal/store"
)

// Result is the outcome of preprocessing one planet.
type Result struct {
	Planet   string
	Record   *orbit.Record
	Err      error
	Duration time.Duration
}

// Report collects the outcomes of a batch run.
type Report struct {
	Results []Result
}

// Failed returns the results that carry an error.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// OK reports whether every planet preprocessed cleanly.
func (r *Report) OK() bool { return len(r.Failed()) == 0 }

// Builder preprocesses raw tables into stored orbit records.
type Builder struct {
	dataDir string
	store   store.Store
	logger  *slog.Logger
}

// New creates a builder. Relative data file paths resolve under dataDir.
func New(dataDir string, st store.Store, logger *slog.Logger) *Builder {
	return &Builder{dataDir: dataDir, store: st, logger: logger}
}

// BuildAll preprocesses every configured planet, attempting all of them
// before reporting. Config errors passed in by the caller join the report so
// nothing is silently swallowed.
func (b *Builder) BuildAll(planets []config.PlanetConfig, configErrs []error) *Report {
	report := &Report{}
	for _, err := range configErrs {
		b.logger.Error("Planet configuration entry rejected", "error", err)
		report.Results = append(report.Results, Result{Planet: planetOf(err), Err: err})
	}

	for _, pc := range planets {
		start := time.Now()
		rec, err := b.buildOne(pc)
		res := Result{Planet: pc.Name, Record: rec, Err: err, Duration: time.Since(start)}
		if err != nil {
			b.logger.Error("Preprocessing failed", "planet", pc.Name, "error", err)
		} else {
			b.logger.Info("Preprocessed planet",
				"planet", pc.Name,
				"points", rec.Len(),
				"granularity", rec.Granularity.String(),
				"intervalDays", rec.IntervalDays,
				"refIndex", rec.RefIndex,
				"duration", res.Duration,
			)
		}
		report.Results = append(report.Results, res)
	}
	return report
}

func (b *Builder) buildOne(pc config.PlanetConfig) (*orbit.Record, error) {
	path := pc.DataFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.dataDir, path)
	}

	tbl, err := ephemeris.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pc.Name, err)
	}
	rec, err := orbit.Build(tbl, pc.Name)
	if err != nil {
		return nil, err
	}
	if err := b.store.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func planetOf(err error) string {
	if ce, ok := err.(*config.ConfigError); ok && ce.Planet != "" {
		return ce.Planet
	}
	return "(config)"
}
