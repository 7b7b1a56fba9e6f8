package orbit

import (
	"errors"
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/khampton353/orrery/internal/ephemeris"
)

// Reference date used to align all planets to a common starting
// configuration: 2018-01-25, JD 2458143.5.
var ReferenceJD = julian.CalendarGregorianToJD(2018, 1, 25)

// ErrIncompleteOrbit is returned when a table does not cover one full
// revolution plus the margin needed to locate its endpoints.
var ErrIncompleteOrbit = errors.New("table does not cover a complete orbit")

// ErrReferenceDateNotFound is returned when no orbit sample lies within one
// sampling interval of the reference date.
var ErrReferenceDateNotFound = errors.New("no sample near reference date")

// ErrIrregularSampling is returned when neither the time deltas nor the
// angular deltas of the orbit samples are uniform.
var ErrIrregularSampling = errors.New("sampling is neither day-uniform nor angle-uniform")

// relative tolerance when judging a delta series uniform
const uniformTol = 0.05

// Build produces one planet's orbit record from its parsed vector table.
// name overrides the table's own target name when non-empty (plain tables
// carry none).
func Build(tbl *ephemeris.Table, name string) (*Record, error) {
	if name == "" {
		name = tbl.Name
	}
	if name == "" {
		return nil, fmt.Errorf("table names no target and no name was given")
	}
	if len(tbl.Samples) < 3 {
		return nil, fmt.Errorf("%s: %w: only %d samples", name, ErrIncompleteOrbit, len(tbl.Samples))
	}

	first, last, periodDays, err := selectRevolution(tbl.Samples)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	revolution := tbl.Samples[first:last]

	rec := &Record{
		Name:    name,
		StartJD: revolution[0].JD,
		Points:  make([]Point, len(revolution)),
	}
	for i, s := range revolution {
		rec.Points[i] = Point{X: s.X, Y: s.Y}
	}
	rec.Span = boundingSpan(rec.Points)

	if err := classify(rec, revolution, periodDays); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	refIdx, err := referenceIndex(tbl.Samples, first, last, rec.IntervalDays)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	rec.RefIndex = refIdx

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// selectRevolution picks one full revolution out of the sample series. When
// the sun-distance series has two turning points of the same kind, the slice
// between the last two is the most recent complete revolution. A table
// without such extremes (a near-circular synthetic orbit, or exactly one
// revolution of data) is accepted whole if its angular sweep covers a full
// turn. Returns the half-open index range [first, last) and the revolution
// period in days.
func selectRevolution(samples []ephemeris.RawSample) (first, last int, periodDays float64, err error) {
	aphelia, perihelia := distanceExtremes(samples)

	// prefer whichever kind of extremum occurs latest in the series
	extremes := perihelia
	if len(aphelia) > 0 && (len(perihelia) == 0 || aphelia[len(aphelia)-1] > perihelia[len(perihelia)-1]) {
		extremes = aphelia
	}
	if len(extremes) >= 2 {
		first = extremes[len(extremes)-2]
		last = extremes[len(extremes)-1]
		return first, last, samples[last].JD - samples[first].JD, nil
	}

	// No usable extremes. Accept the whole table when it sweeps a full turn:
	// the sampled deltas alone must reach 360 degrees minus roughly one step.
	sweep := angularSweep(samples)
	step := sweep / float64(len(samples)-1)
	if sweep < 2*math.Pi-1.5*step {
		return 0, 0, 0, ErrIncompleteOrbit
	}
	span := samples[len(samples)-1].JD - samples[0].JD
	return 0, len(samples), span * 2 * math.Pi / sweep, nil
}

// distanceExtremes scans the sun-distance series for local maxima (aphelia)
// and minima (perihelia), returning sample indices. The first and last
// samples are never extremes; a turning point needs a neighbor on both
// sides.
func distanceExtremes(samples []ephemeris.RawSample) (aphelia, perihelia []int) {
	for i := 1; i < len(samples)-1; i++ {
		prev, cur, next := samples[i-1].Distance, samples[i].Distance, samples[i+1].Distance
		if cur > prev && cur >= next {
			aphelia = append(aphelia, i)
		} else if cur < prev && cur <= next {
			perihelia = append(perihelia, i)
		}
	}
	return aphelia, perihelia
}

// angularSweep sums the wrapped angular displacement about the origin over
// consecutive samples.
func angularSweep(samples []ephemeris.RawSample) float64 {
	var sweep float64
	for i := 1; i < len(samples); i++ {
		sweep += math.Abs(angleDelta(samples[i-1], samples[i]))
	}
	return sweep
}

func angleDelta(a, b ephemeris.RawSample) float64 {
	d := math.Atan2(b.Y, b.X) - math.Atan2(a.Y, a.X)
	// wrap to (-pi, pi]
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}

// classify decides the record's sampling granularity. Uniform Julian-date
// deltas make a day-sampled record; otherwise uniform angular deltas make an
// angle-sampled one, with the interval prorated from the revolution period.
func classify(rec *Record, revolution []ephemeris.RawSample, periodDays float64) error {
	jdDeltas := make([]float64, len(revolution)-1)
	for i := 1; i < len(revolution); i++ {
		jdDeltas[i-1] = revolution[i].JD - revolution[i-1].JD
	}
	if mean, ok := uniformMean(jdDeltas); ok {
		rec.Granularity = GranularityDays
		rec.IntervalDays = mean
		return nil
	}

	angDeltas := make([]float64, len(revolution)-1)
	for i := 1; i < len(revolution); i++ {
		angDeltas[i-1] = math.Abs(angleDelta(revolution[i-1], revolution[i]))
	}
	if mean, ok := uniformMean(angDeltas); ok {
		rec.Granularity = GranularityDegrees
		rec.StepDegrees = mean * 180 / math.Pi
		rec.IntervalDays = periodDays / float64(len(revolution))
		return nil
	}

	return ErrIrregularSampling
}

// uniformMean reports whether the deltas are uniform within tolerance, and
// their mean.
func uniformMean(deltas []float64) (float64, bool) {
	if len(deltas) == 0 {
		return 0, false
	}
	var sum float64
	for _, d := range deltas {
		sum += d
	}
	mean := sum / float64(len(deltas))
	if mean <= 0 {
		return 0, false
	}
	for _, d := range deltas {
		if math.Abs(d-mean) > uniformTol*mean {
			return 0, false
		}
	}
	return mean, true
}

// referenceIndex finds the sample nearest the reference date by timestamp
// across the whole table, then maps it onto the chosen revolution by orbital
// phase (the table may run past the revolution's end, but those samples
// revisit the same cyclic positions). The nearest sample must lie within one
// sampling interval of the reference date.
func referenceIndex(samples []ephemeris.RawSample, first, last int, intervalDays float64) (int, error) {
	best := 0
	bestDiff := math.Inf(1)
	for i, s := range samples {
		if d := math.Abs(s.JD - ReferenceJD); d < bestDiff {
			bestDiff = d
			best = i
		}
	}
	if bestDiff > intervalDays {
		return 0, fmt.Errorf("%w: nearest sample is %.2f days away, interval is %.2f",
			ErrReferenceDateNotFound, bestDiff, intervalDays)
	}
	n := last - first
	idx := (best - first) % n
	if idx < 0 {
		idx += n
	}
	return idx, nil
}
