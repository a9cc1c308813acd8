package slidefx

import "time"

// Arbiter grants exclusive ownership of the input stream to one gesture at a
// time. Priority is drag > zoom > pan > tap. A higher-priority claim preempts
// the holder only while the holder is younger than the preempt window;
// otherwise it is rejected until the holder releases.
type Arbiter struct {
	clock   *Clock
	window  time.Duration
	current *Claim
}

// Claim is a granted gesture. Release it when the gesture ends.
type Claim struct {
	Kind      GestureKind
	owner     any
	at        time.Duration
	onPreempt func()
	arbiter   *Arbiter
}

// NewArbiter creates an arbiter reading time from clock.
func NewArbiter(clock *Clock, preemptWindow time.Duration) *Arbiter {
	return &Arbiter{clock: clock, window: preemptWindow}
}

// Claim asks for the input stream on behalf of owner. The same owner may
// re-claim to change kind without competing against itself. onPreempt, if
// set, runs when a later claim takes the stream away.
func (a *Arbiter) Claim(owner any, kind GestureKind, onPreempt func()) (*Claim, bool) {
	now := a.clock.Now()
	cur := a.current
	if cur != nil && cur.owner != owner {
		young := now-cur.at < a.window
		if kind.priority() <= cur.Kind.priority() || !young {
			logger.Debug().
				Stringer("want", kind).
				Stringer("held", cur.Kind).
				Msg("gesture claim rejected")
			return nil, false
		}
		logger.Debug().
			Stringer("want", kind).
			Stringer("held", cur.Kind).
			Msg("gesture claim preempted")
		a.current = nil
		cur.arbiter = nil
		if cur.onPreempt != nil {
			cur.onPreempt()
		}
	}
	if cur != nil && cur.owner == owner {
		cur.arbiter = nil
	}
	c := &Claim{Kind: kind, owner: owner, at: now, onPreempt: onPreempt, arbiter: a}
	a.current = c
	return c, true
}

// Current returns the kind of the held claim, if any.
func (a *Arbiter) Current() (GestureKind, bool) {
	if a.current == nil {
		return 0, false
	}
	return a.current.Kind, true
}

// Reset drops the held claim without running its preempt callback.
func (a *Arbiter) Reset() {
	if a.current != nil {
		a.current.arbiter = nil
		a.current = nil
	}
}

// Release gives the stream back. Releasing a claim that was preempted or
// already released is a no-op.
func (c *Claim) Release() {
	if c == nil || c.arbiter == nil {
		return
	}
	if c.arbiter.current == c {
		c.arbiter.current = nil
	}
	c.arbiter = nil
}

// Active reports whether the claim still holds the stream.
func (c *Claim) Active() bool {
	return c != nil && c.arbiter != nil && c.arbiter.current == c
}
