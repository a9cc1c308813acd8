package slidefx

import (
	"slices"
	"testing"
	"time"
)

func TestClockAfterFuncFiresAtDueTime(t *testing.T) {
	c := NewClock()
	var firedAt time.Duration = -1
	c.AfterFunc(100*time.Millisecond, func() { firedAt = c.Now() })

	c.Advance(99 * time.Millisecond)
	if firedAt != -1 {
		t.Fatalf("fired early at %v", firedAt)
	}
	c.Advance(50 * time.Millisecond)
	if firedAt != 100*time.Millisecond {
		t.Errorf("callback saw Now() = %v, want 100ms", firedAt)
	}
	if c.Now() != 149*time.Millisecond {
		t.Errorf("Now() = %v, want 149ms", c.Now())
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestClockOrdering(t *testing.T) {
	c := NewClock()
	var order []string
	c.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	c.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	c.AfterFunc(10*time.Millisecond, func() { order = append(order, "b") })

	c.Advance(time.Second)
	if want := []string{"a", "b", "c"}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestClockChainedTimersFireInOneAdvance(t *testing.T) {
	c := NewClock()
	var times []time.Duration
	var tick func()
	tick = func() {
		times = append(times, c.Now())
		if len(times) < 3 {
			c.AfterFunc(10*time.Millisecond, tick)
		}
	}
	c.AfterFunc(10*time.Millisecond, tick)

	c.Advance(time.Second)
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond}
	if !slices.Equal(times, want) {
		t.Errorf("times = %v, want %v", times, want)
	}
}

func TestTimerStop(t *testing.T) {
	c := NewClock()
	fired := false
	tm := c.AfterFunc(10*time.Millisecond, func() { fired = true })
	if !tm.Pending() {
		t.Fatal("new timer should be pending")
	}
	if !tm.Stop() {
		t.Error("Stop on pending timer should report true")
	}
	if tm.Stop() {
		t.Error("second Stop should report false")
	}
	c.Advance(time.Second)
	if fired {
		t.Error("stopped timer fired")
	}

	var nilTimer *Timer
	if nilTimer.Stop() || nilTimer.Pending() {
		t.Error("nil timer should be inert")
	}
}

func TestTimerStopFromEarlierCallback(t *testing.T) {
	c := NewClock()
	fired := false
	var second *Timer
	c.AfterFunc(10*time.Millisecond, func() { second.Stop() })
	second = c.AfterFunc(10*time.Millisecond, func() { fired = true })

	c.Advance(20 * time.Millisecond)
	if fired {
		t.Error("timer stopped by an earlier callback at the same instant fired")
	}
}

func TestClockNonPositiveDelay(t *testing.T) {
	c := NewClock()
	n := 0
	c.AfterFunc(-5*time.Second, func() { n++ })
	c.AfterFunc(0, func() { n++ })
	if n != 0 {
		t.Fatal("callbacks must not run inside AfterFunc")
	}
	c.Advance(0)
	if n != 2 {
		t.Errorf("fired %d callbacks, want 2", n)
	}
}

func TestClockStopAll(t *testing.T) {
	c := NewClock()
	fired := 0
	a := c.AfterFunc(time.Millisecond, func() { fired++ })
	c.AfterFunc(2*time.Millisecond, func() { fired++ })
	c.StopAll()
	c.Advance(time.Second)
	if fired != 0 {
		t.Errorf("fired = %d after StopAll", fired)
	}
	if a.Pending() {
		t.Error("timer still pending after StopAll")
	}
}
