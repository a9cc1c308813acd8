package slidefx

import (
	"testing"
	"time"
)

func TestHitTestTopmost(t *testing.T) {
	doc := testDeck()
	// Overlap tip with btn; later elements paint over earlier ones.
	doc.Slides[0].Elements[1].Position.Desktop = rectPtr(250, 100, 100, 100)
	p, err := NewPlayer(doc, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Dispose()

	tests := []struct {
		x, y float64
		want string
	}{
		{150, 150, "btn"},
		{275, 150, "tip"},
		{340, 150, "tip"},
		{1000, 700, ""},
	}
	for _, tt := range tests {
		got, ok := p.HitTest(tt.x, tt.y)
		if got != tt.want || ok != (tt.want != "") {
			t.Errorf("HitTest(%v, %v) = %q, %v; want %q", tt.x, tt.y, got, ok, tt.want)
		}
	}
}

func TestEmptyCanvasPan(t *testing.T) {
	p := newTestPlayer(t)
	p.PointerDown(0, 1000, 600)
	p.PointerMove(0, 1003, 600)
	if p.Transform().State().IsPanning {
		t.Fatal("pan started inside the dead zone")
	}
	p.PointerMove(0, 1030, 580)
	st := p.Transform().State()
	if !st.IsPanning {
		t.Fatal("pan did not start")
	}
	assertNear(t, "translateX", st.TranslateX, 30)
	assertNear(t, "translateY", st.TranslateY, -20)

	p.PointerMove(0, 1200, 600)
	assertNear(t, "clamped translateX", p.Transform().State().TranslateX, DefaultPanPadding)

	p.PointerUp(0, 1200, 600)
	if p.Transform().State().IsPanning {
		t.Error("still panning after release")
	}
}

func TestDragOffElementPansInViewMode(t *testing.T) {
	p := newTestPlayer(t)
	p.PointerDown(0, 150, 150)
	p.PointerMove(0, 170, 150)
	assertNear(t, "translateX", p.Transform().State().TranslateX, 20)
	p.PointerUp(0, 170, 150)
	if p.Effects().Len() != 0 {
		t.Error("abandoned tap still clicked")
	}
}

func TestPinchZoom(t *testing.T) {
	p := newTestPlayer(t)
	p.PointerDown(1, 500, 400)
	p.PointerDown(2, 700, 400)
	p.PointerMove(2, 900, 400)

	st := p.Transform().State()
	assertNear(t, "scale", st.Scale, 2)
	// Midpoint (700, 400) stays under the fingers.
	assertNear(t, "translateX", st.TranslateX, -100)
	assertNear(t, "translateY", st.TranslateY, 0)
	if !st.IsZooming {
		t.Error("IsZooming not set during the pinch")
	}

	p.PointerUp(2, 900, 400)
	if p.Transform().State().IsZooming {
		t.Error("pinch did not end on release")
	}
	p.PointerMove(1, 520, 400)
	p.PointerUp(1, 520, 400)
	assertNear(t, "scale after release", p.Transform().State().Scale, 2)
	if p.Transform().State().IsPanning {
		t.Error("leftover finger panned")
	}
}

func TestPinchCancelsElementTap(t *testing.T) {
	p := newTestPlayer(t)
	p.PointerDown(1, 150, 150)
	p.PointerDown(2, 900, 600)
	p.PointerUp(1, 150, 150)
	p.PointerUp(2, 900, 600)
	if p.Effects().Len() != 0 {
		t.Error("tap resolved after a second finger turned it into a pinch")
	}
}

func TestThirdFingerIgnored(t *testing.T) {
	p := newTestPlayer(t)
	p.PointerDown(1, 500, 400)
	p.PointerDown(2, 700, 400)
	p.PointerDown(3, 150, 150)
	p.PointerUp(3, 150, 150)
	if p.Effects().Len() != 0 {
		t.Error("third finger tapped an element")
	}
	p.PointerMove(2, 900, 400)
	assertNear(t, "scale", p.Transform().State().Scale, 2)
}

func TestWheelZoom(t *testing.T) {
	p := newTestPlayer(t)
	p.Wheel(-1, 600, 400)
	st := p.Transform().State()
	assertNear(t, "scale", st.Scale, DefaultZoomStep)
	assertNear(t, "translateX", st.TranslateX, 0)
	if st.IsZooming {
		t.Error("wheel zoom left a gesture open")
	}
	p.Wheel(1, 600, 400)
	assertNear(t, "scale", p.Transform().State().Scale, 1)
	p.Wheel(0, 600, 400)
	assertNear(t, "scale", p.Transform().State().Scale, 1)
}

func TestWheelIgnoredDuringPan(t *testing.T) {
	p := newTestPlayer(t)
	p.PointerDown(0, 1000, 600)
	p.PointerMove(0, 1030, 600)
	assertNear(t, "translateX", p.Transform().State().TranslateX, 30)

	p.Wheel(-1, 600, 400)
	st := p.Transform().State()
	assertNear(t, "scale", st.Scale, 1)
	if !st.IsPanning {
		t.Fatal("wheel ended the pan")
	}

	p.PointerMove(0, 1040, 600)
	assertNear(t, "translateX", p.Transform().State().TranslateX, 40)
	p.PointerUp(0, 1040, 600)

	p.Wheel(-1, 600, 400)
	assertNear(t, "scale after release", p.Transform().State().Scale, DefaultZoomStep)
}

func TestPointerLeaveCancelsPress(t *testing.T) {
	p := newTestPlayer(t)
	p.PointerDown(0, 650, 150)
	p.PointerLeave(0)
	p.Update(time.Second)
	p.PointerUp(0, 650, 150)
	if p.Effects().Len() != 0 {
		t.Error("press resolved after the pointer left")
	}

	// Hover re-fires after leaving and coming back.
	p.PointerMove(0, 450, 150)
	p.Update(time.Second)
	p.PointerLeave(0)
	p.PointerMove(0, 450, 150)
	if p.Effects().Len() != 1 {
		t.Errorf("effects = %v", liveEffects(p))
	}
}

func TestTouchHoverEndsOnLift(t *testing.T) {
	p := newTestPlayer(t)
	hovers := 0
	p.OnTrigger(func(ctx TriggerContext) {
		if ctx.Trigger == TriggerHover {
			hovers++
		}
	})
	for i := 0; i < 2; i++ {
		p.PointerDown(1, 450, 150)
		p.PointerUp(1, 450, 150)
		p.Update(time.Second)
	}
	if hovers != 2 {
		t.Errorf("hover fired %d times for two taps, want 2", hovers)
	}

	// The mouse keeps hovering across clicks.
	p.PointerDown(0, 450, 150)
	p.PointerUp(0, 450, 150)
	p.PointerDown(0, 450, 150)
	p.PointerUp(0, 450, 150)
	if hovers != 3 {
		t.Errorf("hover fired %d times, want 3", hovers)
	}
}

func TestPolledPointer(t *testing.T) {
	p := newTestPlayer(t)
	p.Pointer(0, 150, 150, false)
	p.Pointer(0, 150, 150, true)
	p.Pointer(0, 150, 150, true)
	p.Pointer(0, 150, 150, false)
	if p.Effects().Len() != 1 {
		t.Errorf("effects = %v", liveEffects(p))
	}
}

func TestInvalidPointerIDs(t *testing.T) {
	p := newTestPlayer(t)
	for _, id := range []int{-1, MaxPointers} {
		p.PointerDown(id, 150, 150)
		p.PointerMove(id, 150, 150)
		p.PointerUp(id, 150, 150)
		p.PointerLeave(id)
	}
	if p.Effects().Len() != 0 {
		t.Error("out-of-range pointer id clicked")
	}
}

func TestSetModeCancelsPress(t *testing.T) {
	p := newTestPlayer(t)
	p.PointerDown(0, 150, 150)
	p.SetMode(ModeEdit)
	p.SetMode(ModeView)
	p.PointerUp(0, 150, 150)
	if p.Effects().Len() != 0 {
		t.Error("press survived a mode switch")
	}
}
