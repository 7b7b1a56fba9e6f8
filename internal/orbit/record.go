// Package orbit builds compact per-planet orbit records from raw ephemeris
// tables and serializes them for playback.
package orbit

import (
	"errors"
	"fmt"
)

// Granularity records how the orbit's points were sampled: at a fixed
// calendar-day cadence or at a fixed angular displacement. The tag travels
// with the record so playback can treat every record uniformly.
type Granularity uint8

const (
	// GranularityDays marks records sampled at a uniform time step.
	GranularityDays Granularity = iota + 1
	// GranularityDegrees marks records sampled at a uniform angular step,
	// used for outer planets where uniform time sampling would misrepresent
	// curvature.
	GranularityDegrees
)

// String returns the tag name for logs and reports.
func (g Granularity) String() string {
	switch g {
	case GranularityDays:
		return "days"
	case GranularityDegrees:
		return "degrees"
	default:
		return fmt.Sprintf("granularity(%d)", uint8(g))
	}
}

// Point is one sampled heliocentric position, AU.
type Point struct {
	X, Y float64
}

// Span is the bounding extent of an orbit, used by views to scale drawing.
type Span struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Width returns the x extent of the span.
func (s Span) Width() float64 { return s.MaxX - s.MinX }

// Height returns the y extent of the span.
func (s Span) Height() float64 { return s.MaxY - s.MinY }

// Record is one planet's immutable orbit artifact: one revolution of sampled
// positions plus the metadata playback needs to advance a cursor through
// them. The point sequence is cyclic; the last point is adjacent to the
// first.
type Record struct {
	// Name is the planet the record belongs to, the artifact key.
	Name string

	// Granularity tags how the points were chosen.
	Granularity Granularity

	// IntervalDays is the real elapsed time between consecutive points.
	// For angle-sampled records it is the revolution period divided by the
	// point count. Playback normalizes cursor advancement with it.
	IntervalDays float64

	// StepDegrees is the angular step of angle-sampled records, 0 otherwise.
	StepDegrees float64

	// StartJD is the Julian date of point 0.
	StartJD float64

	// RefIndex is the index of the point nearest the reference date, the
	// common starting configuration for all planets.
	RefIndex int

	// Span bounds the orbit.
	Span Span

	// Points is the orbit's (x, y) sequence in chronological order.
	Points []Point
}

// Validate checks the record invariants that playback relies on.
func (r *Record) Validate() error {
	if r.Name == "" {
		return errors.New("orbit record has no name")
	}
	if len(r.Points) == 0 {
		return fmt.Errorf("orbit record %s has no points", r.Name)
	}
	if r.IntervalDays <= 0 {
		return fmt.Errorf("orbit record %s has non-positive interval %f", r.Name, r.IntervalDays)
	}
	if r.RefIndex < 0 || r.RefIndex >= len(r.Points) {
		return fmt.Errorf("orbit record %s reference index %d outside %d points", r.Name, r.RefIndex, len(r.Points))
	}
	switch r.Granularity {
	case GranularityDays, GranularityDegrees:
	default:
		return fmt.Errorf("orbit record %s has unknown granularity %d", r.Name, r.Granularity)
	}
	return nil
}

// Len returns the number of points in the cyclic sequence.
func (r *Record) Len() int { return len(r.Points) }

// PointAt returns the point at index i, wrapping modulo the sequence length.
// Negative indices wrap backwards.
func (r *Record) PointAt(i int) Point {
	n := len(r.Points)
	i %= n
	if i < 0 {
		i += n
	}
	return r.Points[i]
}

// PeriodDays returns the record's revolution period.
func (r *Record) PeriodDays() float64 {
	return r.IntervalDays * float64(len(r.Points))
}
