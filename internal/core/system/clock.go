package system

import "time"

// Clock is the time source of the frame loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock reads the wall clock with its monotonic reading.
type RealClock struct{}

func (RealClock) Now() time.Time        { return time.Now() }
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// ManualClock only moves when told to. Sleep advances it instantly.
type ManualClock struct {
	now   time.Time
	slept time.Duration
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time { return c.now }

func (c *ManualClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	c.now = c.now.Add(d)
	c.slept += d
}

func (c *ManualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Slept is the total duration passed to Sleep.
func (c *ManualClock) Slept() time.Duration { return c.slept }

// Pacer caps the frame rate. Call Frame once per loop iteration; it sleeps
// off what is left of the frame budget and returns the time since the
// previous frame started.
type Pacer struct {
	clock  Clock
	target time.Duration
	last   time.Time
}

func NewPacer(clock Clock, fps int) *Pacer {
	p := &Pacer{clock: clock, last: clock.Now()}
	if fps > 0 {
		p.target = time.Second / time.Duration(fps)
	}
	return p
}

func (p *Pacer) Target() time.Duration { return p.target }

func (p *Pacer) Frame() time.Duration {
	if wait := p.target - p.clock.Now().Sub(p.last); wait > 0 && wait <= p.target {
		p.clock.Sleep(wait)
	}
	now := p.clock.Now()
	dt := now.Sub(p.last)
	p.last = now
	return dt
}
