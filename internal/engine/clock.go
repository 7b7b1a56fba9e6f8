package engine

// Clock is the shared simulation time base. One tick at speed 1 advances
// simulated time by one day, the cadence of the innermost planet's samples.
// The clock is monotonic for the session and is mutated only by the tick
// handler.
type Clock struct {
	elapsedDays float64
	speed       float64
}

// NewClock creates a clock at elapsed time zero. Negative speeds clamp to
// zero (paused).
func NewClock(speed float64) *Clock {
	c := &Clock{}
	c.SetSpeed(speed)
	return c
}

// Advance moves simulated time forward by one tick at the current speed and
// returns the new elapsed time in days.
func (c *Clock) Advance() float64 {
	c.elapsedDays += c.speed
	return c.elapsedDays
}

// ElapsedDays returns the total simulated time since session start.
func (c *Clock) ElapsedDays() float64 { return c.elapsedDays }

// Speed returns the current speed multiplier.
func (c *Clock) Speed() float64 { return c.speed }

// SetSpeed changes the speed multiplier, taking effect on the next tick.
// Zero pauses playback. There is no upper bound; at high speeds points are
// skipped, which is an accepted tradeoff rather than a bug.
func (c *Clock) SetSpeed(speed float64) {
	if speed < 0 {
		speed = 0
	}
	c.speed = speed
}
