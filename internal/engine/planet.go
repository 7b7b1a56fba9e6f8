package engine

import (
	"math"

	"github.com/khampton353/orrery/internal/config"
	"github.com/khampton353/orrery/internal/orbit"
)

// Planet is one body in the active set: its immutable orbit record and
// display config plus the cursor into the point sequence. The cursor is
// mutated once per tick by the engine and read by the view afterwards.
type Planet struct {
	Config config.PlanetConfig
	Record *orbit.Record

	cursor int
}

// advance recomputes the cursor from the shared elapsed time. Each planet's
// rate is normalized by the sampling interval recorded in its artifact, so
// one simulated day means the same real time for every planet regardless of
// how its points were sampled. The cursor wraps modulo the sequence length;
// after one revolution playback seamlessly restarts.
func (p *Planet) advance(elapsedDays float64) {
	steps := int(math.Floor(elapsedDays / p.Record.IntervalDays))
	n := p.Record.Len()
	p.cursor = ((p.Record.RefIndex+steps)%n + n) % n
}

// Cursor returns the current index into the orbit's point sequence.
func (p *Planet) Cursor() int { return p.cursor }

// Position returns the planet's current model-space position.
func (p *Planet) Position() orbit.Point {
	return p.Record.Points[p.cursor]
}
