package slidefx

import "time"

// Clock is the frame-driven time source shared by one Player.
//
// Time only moves inside Advance, which the host calls once per frame from
// its update loop. Timers fire from Advance on the caller's goroutine, so
// every callback is serialised with input handling and needs no locking.
// Timers due at the same instant fire in the order they were scheduled.
type Clock struct {
	now    time.Duration
	timers []*Timer
	seq    uint64
}

// Timer is a pending callback scheduled with Clock.AfterFunc.
type Timer struct {
	at    time.Duration
	seq   uint64
	fn    func()
	clock *Clock
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the time elapsed since the clock was created.
func (c *Clock) Now() time.Duration {
	return c.now
}

// AfterFunc schedules fn to run once d has elapsed. A non-positive d fires
// on the next Advance.
func (c *Clock) AfterFunc(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &Timer{at: c.now + d, seq: c.seq, fn: fn, clock: c}
	c.timers = append(c.timers, t)
	return t
}

// Stop cancels the timer. It reports whether the timer was still pending.
// Stop on a nil timer is a no-op.
func (t *Timer) Stop() bool {
	if t == nil || t.clock == nil {
		return false
	}
	c := t.clock
	t.clock = nil
	for i, p := range c.timers {
		if p == t {
			copy(c.timers[i:], c.timers[i+1:])
			c.timers[len(c.timers)-1] = nil
			c.timers = c.timers[:len(c.timers)-1]
			return true
		}
	}
	return false
}

// Pending reports whether the timer has neither fired nor been stopped.
func (t *Timer) Pending() bool {
	return t != nil && t.clock != nil
}

// Advance moves the clock forward by dt, firing every timer that falls due.
// Each callback observes Now() equal to its own due time. Timers scheduled by
// a callback fire in the same Advance if they fall due before its end.
func (c *Clock) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	end := c.now + dt
	for {
		t := c.nextDue(end)
		if t == nil {
			break
		}
		t.Stop()
		c.now = t.at
		t.fn()
	}
	c.now = end
}

// nextDue returns the earliest timer due at or before end.
func (c *Clock) nextDue(end time.Duration) *Timer {
	var best *Timer
	for _, t := range c.timers {
		if t.at > end {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// Len returns the number of pending timers.
func (c *Clock) Len() int {
	return len(c.timers)
}

// StopAll cancels every pending timer.
func (c *Clock) StopAll() {
	for _, t := range c.timers {
		t.clock = nil
	}
	clear(c.timers)
	c.timers = c.timers[:0]
}
