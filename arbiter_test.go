package slidefx

import (
	"testing"
	"time"
)

func newTestArbiter() (*Arbiter, *Clock) {
	c := NewClock()
	return NewArbiter(c, DefaultPreemptWindow), c
}

func TestArbiterGrantsWhenFree(t *testing.T) {
	a, _ := newTestArbiter()
	c, ok := a.Claim("tap", GestureTap, nil)
	if !ok || c == nil {
		t.Fatal("claim on a free arbiter was rejected")
	}
	if k, held := a.Current(); !held || k != GestureTap {
		t.Errorf("Current() = %v, %v; want tap, true", k, held)
	}
	c.Release()
	if _, held := a.Current(); held {
		t.Error("claim still held after Release")
	}
	c.Release() // no-op
}

func TestArbiterPriority(t *testing.T) {
	tests := []struct {
		name    string
		held    GestureKind
		want    GestureKind
		elapsed time.Duration
		granted bool
	}{
		{"pan preempts young tap", GestureTap, GesturePan, 50 * time.Millisecond, true},
		{"zoom preempts young pan", GesturePan, GestureZoom, 99 * time.Millisecond, true},
		{"drag preempts young zoom", GestureZoom, GestureDrag, 0, true},
		{"tap never preempts pan", GesturePan, GestureTap, 0, false},
		{"equal priority rejected", GestureZoom, GestureZoom, 0, false},
		{"old tap keeps stream", GestureTap, GestureDrag, 100 * time.Millisecond, false},
		{"old pan keeps stream", GesturePan, GestureZoom, time.Second, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, clock := newTestArbiter()
			preempted := false
			first, _ := a.Claim("first", tt.held, func() { preempted = true })
			clock.Advance(tt.elapsed)

			second, ok := a.Claim("second", tt.want, nil)
			if ok != tt.granted {
				t.Fatalf("granted = %v, want %v", ok, tt.granted)
			}
			if preempted != tt.granted {
				t.Errorf("preempt callback ran = %v, want %v", preempted, tt.granted)
			}
			if tt.granted {
				if first.Active() {
					t.Error("preempted claim still active")
				}
				if !second.Active() {
					t.Error("winning claim not active")
				}
				// Releasing a preempted claim must not free the winner's stream.
				first.Release()
				if !second.Active() {
					t.Error("stale Release dropped the winner")
				}
			} else if !first.Active() {
				t.Error("holder lost the stream to a rejected claim")
			}
		})
	}
}

func TestArbiterSameOwnerUpgrades(t *testing.T) {
	a, clock := newTestArbiter()
	owner := &struct{}{}
	tap, _ := a.Claim(owner, GestureTap, nil)
	clock.Advance(time.Second)

	drag, ok := a.Claim(owner, GestureDrag, nil)
	if !ok {
		t.Fatal("owner could not upgrade its own claim")
	}
	if tap.Active() {
		t.Error("old claim still active after upgrade")
	}
	if k, _ := a.Current(); k != GestureDrag {
		t.Errorf("Current() = %v, want drag", k)
	}
	tap.Release()
	if !drag.Active() {
		t.Error("releasing the superseded claim freed the stream")
	}
}

func TestArbiterReset(t *testing.T) {
	a, _ := newTestArbiter()
	called := false
	c, _ := a.Claim("x", GesturePan, func() { called = true })
	a.Reset()
	if c.Active() {
		t.Error("claim active after Reset")
	}
	if called {
		t.Error("Reset must not run the preempt callback")
	}
	if _, ok := a.Claim("y", GestureTap, nil); !ok {
		t.Error("claim rejected after Reset")
	}
}
