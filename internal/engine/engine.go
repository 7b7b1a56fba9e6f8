// Package engine replays preprocessed orbit records on a shared simulation
// clock. It is single-threaded by contract: ticks are driven by one external
// trigger (a UI timer or a test harness), no tick performs I/O, and the view
// reads positions only between ticks.
package engine

import (
	"log/slog"
	"time"

	"github.com/khampton353/orrery/internal/config"
	"github.com/khampton353/orrery/internal/orbit"
	"github.com/khampton353/orrery/internal/store"
)

// Engine owns the active planet set and the simulation clock.
type Engine struct {
	clock   *Clock
	planets []*Planet
	logger  *slog.Logger
	inst    instruments
}

// New creates an empty engine. Planets join via AddPlanet or Load.
func New(logger *slog.Logger, speed float64) *Engine {
	return &Engine{
		clock:  NewClock(speed),
		logger: logger,
		inst:   newInstruments(),
	}
}

// Load builds the engine's registry from the store: every configured
// planet's record is loaded once, up front. A planet whose artifact is
// missing or corrupt is excluded from the session and reported once; the
// session proceeds with the rest.
func Load(st store.Store, planets []config.PlanetConfig, logger *slog.Logger, speed float64) *Engine {
	e := New(logger, speed)
	for _, pc := range planets {
		rec, err := st.Load(pc.Name)
		if err != nil {
			logger.Error("Excluding planet from session", "planet", pc.Name, "error", err)
			continue
		}
		e.AddPlanet(pc, rec)
	}
	logger.Info("Playback registry loaded", "active", len(e.planets), "configured", len(planets))
	return e
}

// AddPlanet registers one planet, positioned at its reference index.
func (e *Engine) AddPlanet(cfg config.PlanetConfig, rec *orbit.Record) {
	e.planets = append(e.planets, &Planet{
		Config: cfg,
		Record: rec,
		cursor: rec.RefIndex,
	})
}

// Tick advances the simulation clock by one tick at the current speed and
// recomputes every planet's position. Constant-time per planet; never
// blocks.
func (e *Engine) Tick() {
	start := time.Now()
	elapsed := e.clock.Advance()
	for _, p := range e.planets {
		p.advance(elapsed)
	}
	e.inst.record(start, len(e.planets))
}

// Positions returns, for every active planet, its model-space position
// after the most recent tick. Screen-space transforms belong to the view.
func (e *Engine) Positions() map[string]orbit.Point {
	out := make(map[string]orbit.Point, len(e.planets))
	for _, p := range e.planets {
		out[p.Config.Name] = p.Position()
	}
	return out
}

// Planets returns the active set in configuration order.
func (e *Engine) Planets() []*Planet { return e.planets }

// SetSpeed changes the speed multiplier; it takes effect on the next tick.
func (e *Engine) SetSpeed(speed float64) { e.clock.SetSpeed(speed) }

// Speed returns the current speed multiplier.
func (e *Engine) Speed() float64 { return e.clock.Speed() }

// ElapsedDays returns the clock's total simulated time.
func (e *Engine) ElapsedDays() float64 { return e.clock.ElapsedDays() }

// LargestSpan returns the widest orbit extent across the active set, the
// scale reference a view needs to fit every orbit on screen.
func (e *Engine) LargestSpan() float64 {
	var largest float64
	for _, p := range e.planets {
		if w := p.Record.Span.Width(); w > largest {
			largest = w
		}
		if h := p.Record.Span.Height(); h > largest {
			largest = h
		}
	}
	return largest
}
