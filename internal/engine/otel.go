package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/khampton353/orrery/internal/engine"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// instruments holds the engine's metric instruments. Creation failures leave
// nil instruments, which record is careful to skip.
type instruments struct {
	ticks         metric.Int64Counter
	tickDuration  metric.Float64Histogram
	activePlanets metric.Int64Gauge
}

func newInstruments() instruments {
	m := meter()
	var inst instruments
	inst.ticks, _ = m.Int64Counter("orrery.engine.ticks",
		metric.WithDescription("Simulation ticks processed"))
	inst.tickDuration, _ = m.Float64Histogram("orrery.engine.tick_duration_ms",
		metric.WithDescription("Wall time spent per tick"),
		metric.WithUnit("ms"))
	inst.activePlanets, _ = m.Int64Gauge("orrery.engine.active_planets",
		metric.WithDescription("Planets in the playback registry"))
	return inst
}

func (i instruments) record(start time.Time, planets int) {
	ctx := context.Background()
	if i.ticks != nil {
		i.ticks.Add(ctx, 1)
	}
	if i.tickDuration != nil {
		i.tickDuration.Record(ctx, float64(time.Since(start).Microseconds())/1000)
	}
	if i.activePlanets != nil {
		i.activePlanets.Record(ctx, int64(planets))
	}
}
