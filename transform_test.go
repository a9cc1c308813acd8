package slidefx

import (
	"math"
	"testing"
	"time"
)

func newTestEngine(width, height float64) (*TransformEngine, *Arbiter, *Clock) {
	clock := NewClock()
	arbiter := NewArbiter(clock, DefaultPreemptWindow)
	e := NewTransformEngine(DefaultConfig(), arbiter)
	e.SetContainerSize(width, height)
	return e, arbiter, clock
}

func assertState(t *testing.T, got TransformState, scale, tx, ty float64) {
	t.Helper()
	assertNear(t, "scale", got.Scale, scale)
	assertNear(t, "translateX", got.TranslateX, tx)
	assertNear(t, "translateY", got.TranslateY, ty)
}

// assertInBounds checks the engine invariant: scale within limits and
// translation within Bounds(scale).
func assertInBounds(t *testing.T, e *TransformEngine) {
	t.Helper()
	st := e.State()
	if st.Scale < DefaultMinScale-epsilon || st.Scale > DefaultMaxScale+epsilon {
		t.Errorf("scale %v outside [%v, %v]", st.Scale, DefaultMinScale, DefaultMaxScale)
	}
	maxX, maxY := e.Bounds(st.Scale)
	if math.Abs(st.TranslateX) > maxX+epsilon || math.Abs(st.TranslateY) > maxY+epsilon {
		t.Errorf("translate (%v, %v) outside bounds (%v, %v)", st.TranslateX, st.TranslateY, maxX, maxY)
	}
}

func TestTransformInitialState(t *testing.T) {
	e, _, _ := newTestEngine(800, 600)
	assertState(t, e.State(), 1, 0, 0)
	if w, h := e.ContainerSize(); w != 800 || h != 600 {
		t.Errorf("ContainerSize() = %v, %v", w, h)
	}
}

func TestTransformBounds(t *testing.T) {
	e, _, _ := newTestEngine(800, 600)
	tests := []struct {
		scale      float64
		maxX, maxY float64
	}{
		{1, 50, 50},
		{2, 450, 350},
		{0.5, 0, 0},
	}
	for _, tt := range tests {
		x, y := e.Bounds(tt.scale)
		if !approxEqual(x, tt.maxX, epsilon) || !approxEqual(y, tt.maxY, epsilon) {
			t.Errorf("Bounds(%v) = %v, %v; want %v, %v", tt.scale, x, y, tt.maxX, tt.maxY)
		}
	}
}

func TestZoomAboutCentreKeepsTranslation(t *testing.T) {
	e, _, _ := newTestEngine(800, 600)
	if !e.ApplyZoom(2, 400, 300) {
		t.Fatal("zoom rejected")
	}
	assertState(t, e.State(), 2, 0, 0)
	if !e.State().IsZooming {
		t.Error("IsZooming not set during the gesture")
	}
	e.OnGestureEnd()
	if e.State().IsZooming {
		t.Error("IsZooming still set after the gesture")
	}
}

func TestZoomAnchorsFocalPoint(t *testing.T) {
	e, _, _ := newTestEngine(800, 600)
	e.ApplyZoom(2, 600, 300)
	assertState(t, e.State(), 2, -200, 0)

	// Later updates in the same gesture derive from the snapshot.
	e.ApplyZoom(3, 600, 300)
	assertState(t, e.State(), 3, -400, 0)
	assertInBounds(t, e)
}

func TestZoomClamps(t *testing.T) {
	tests := []struct {
		name      string
		scale     float64
		cx, cy    float64
		wantScale float64
	}{
		{"above max", 10, 400, 300, DefaultMaxScale},
		{"below min", 0.1, 0, 0, DefaultMinScale},
		{"corner focus", 4, 800, 600, 4},
		{"invalid scale", math.NaN(), 400, 300, 1},
		{"negative scale", -2, 400, 300, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestEngine(800, 600)
			e.ApplyZoom(tt.scale, tt.cx, tt.cy)
			assertNear(t, "scale", e.State().Scale, tt.wantScale)
			assertInBounds(t, e)
		})
	}
}

func TestPanIsCumulativeAndClamped(t *testing.T) {
	e, _, _ := newTestEngine(800, 600)

	e.ApplyPan(10, 5)
	e.ApplyPan(30, 5)
	assertState(t, e.State(), 1, 30, 5)
	if !e.State().IsPanning {
		t.Error("IsPanning not set during the gesture")
	}
	e.OnGestureEnd()

	// A new gesture starts from the settled translation.
	e.ApplyPan(10, 0)
	assertState(t, e.State(), 1, 40, 5)

	e.ApplyPan(500, -500)
	assertState(t, e.State(), 1, DefaultPanPadding, -DefaultPanPadding)
	e.OnGestureEnd()
	assertInBounds(t, e)
	if e.Animating() {
		t.Error("clamped pan should not spring back")
	}
}

func TestSnapBackAfterContainerShrinks(t *testing.T) {
	e, _, _ := newTestEngine(800, 600)
	e.ApplyZoom(2, 800, 600)
	assertState(t, e.State(), 2, -400, -300)
	e.OnGestureEnd()

	e.SetContainerSize(400, 300)
	if !e.Animating() {
		t.Fatal("out-of-bounds state did not start a spring-back")
	}

	e.Update(DefaultSnapBackDuration / 2)
	mid := e.State()
	if mid.TranslateX <= -400 || mid.TranslateX >= -250 {
		t.Errorf("halfway translateX = %v, want between -400 and -250", mid.TranslateX)
	}

	e.Update(DefaultSnapBackDuration)
	if e.Animating() {
		t.Error("spring-back still running after its duration")
	}
	assertState(t, e.State(), 2, -250, -200)
	assertInBounds(t, e)
}

func TestSnapBackInterruptedByGesture(t *testing.T) {
	e, _, _ := newTestEngine(800, 600)
	e.ApplyZoom(2, 800, 600)
	e.OnGestureEnd()
	e.SetContainerSize(400, 300)

	e.ApplyPan(0, 0)
	if e.Animating() {
		t.Error("a new gesture must cancel the spring-back")
	}
	assertInBounds(t, e)
}

func TestSnapBackWithinEpsilonIsImmediate(t *testing.T) {
	e, _, _ := newTestEngine(800, 600)
	e.ApplyZoom(2, 400, 300)
	e.OnGestureEnd()
	e.ApplyPan(1000, 0)
	e.OnGestureEnd()
	assertState(t, e.State(), 2, 450, 0)
	e.SetContainerSize(799.99, 600)
	if e.Animating() {
		t.Error("a tiny overshoot should be snapped without animating")
	}
	assertInBounds(t, e)
}

func TestZoomInOut(t *testing.T) {
	e, _, _ := newTestEngine(800, 600)
	e.ZoomIn()
	assertNear(t, "after ZoomIn", e.State().Scale, DefaultZoomStep)
	e.ZoomOut()
	e.ZoomOut()
	assertNear(t, "after ZoomOut", e.State().Scale, 1/DefaultZoomStep)
	for i := 0; i < 10; i++ {
		e.ZoomOut()
	}
	assertNear(t, "floor", e.State().Scale, DefaultMinScale)
	for i := 0; i < 20; i++ {
		e.ZoomIn()
	}
	assertNear(t, "ceiling", e.State().Scale, DefaultMaxScale)
}

func TestZoomOutShrinksTranslation(t *testing.T) {
	e, _, _ := newTestEngine(800, 600)
	e.ApplyZoom(2, 800, 600)
	e.OnGestureEnd()
	e.ZoomOut()
	e.ZoomOut()
	e.ZoomOut()
	assertInBounds(t, e)
}

func TestTransformReset(t *testing.T) {
	e, arbiter, _ := newTestEngine(800, 600)
	e.ApplyZoom(3, 100, 100)
	e.Reset()
	assertState(t, e.State(), 1, 0, 0)
	if _, held := arbiter.Current(); held {
		t.Error("Reset must release the input stream")
	}
}

func TestTransformRejectedByArbiter(t *testing.T) {
	e, arbiter, _ := newTestEngine(800, 600)
	arbiter.Claim("element", GestureDrag, nil)

	if e.ApplyPan(20, 20) {
		t.Error("pan accepted while an element drag holds the stream")
	}
	if e.ApplyZoom(2, 400, 300) {
		t.Error("zoom accepted while an element drag holds the stream")
	}
	assertState(t, e.State(), 1, 0, 0)
}

func TestTransformPreemptedByDrag(t *testing.T) {
	e, arbiter, clock := newTestEngine(800, 600)
	e.ApplyPan(20, 0)
	clock.Advance(50 * time.Millisecond)

	if _, ok := arbiter.Claim("element", GestureDrag, nil); !ok {
		t.Fatal("drag could not preempt a young pan")
	}
	if e.State().IsPanning {
		t.Error("preempted pan still reports IsPanning")
	}
	if e.ApplyPan(40, 0) {
		t.Error("pan resumed while the drag holds the stream")
	}
}

func TestTransformOnChange(t *testing.T) {
	e, _, _ := newTestEngine(800, 600)
	var states []TransformState
	e.OnChange(func(s TransformState) { states = append(states, s) })

	e.ApplyPan(10, 0)
	e.OnGestureEnd()
	if len(states) != 2 {
		t.Fatalf("OnChange called %d times, want 2", len(states))
	}
	if !states[0].IsPanning || states[1].IsPanning {
		t.Errorf("IsPanning sequence = %v, %v", states[0].IsPanning, states[1].IsPanning)
	}
}

func TestScreenCanvasRoundTrip(t *testing.T) {
	e, _, _ := newTestEngine(800, 600)
	e.ApplyZoom(2.5, 200, 150)
	e.ApplyPan(30, -20)

	sx, sy := e.CanvasToScreen(123, 456)
	x, y := e.ScreenToCanvas(sx, sy)
	assertNear(t, "x", x, 123)
	assertNear(t, "y", y, 456)

	// The focal point of a zoom stays under the fingers.
	f, _, _ := newTestEngine(800, 600)
	f.ApplyZoom(2, 200, 150)
	cx, cy := f.ScreenToCanvas(200, 150)
	assertNear(t, "focal x", cx, 200)
	assertNear(t, "focal y", cy, 150)
}
