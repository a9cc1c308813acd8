package slidefx

import (
	"testing"
	"time"
)

func TestInjectClick(t *testing.T) {
	p := newTestPlayer(t)
	p.InjectClick(150, 150)
	if !p.Injecting() || len(p.injectQueue) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(p.injectQueue))
	}

	// Frame 1: press
	p.Update(16 * time.Millisecond)
	if len(p.injectQueue) != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", len(p.injectQueue))
	}
	if p.Effects().Len() != 0 {
		t.Error("click should not fire on press frame")
	}

	// Frame 2: release fires the click
	p.Update(16 * time.Millisecond)
	if p.Injecting() {
		t.Fatal("queue not drained")
	}
	a := p.Effects().Active()
	if len(a) != 1 || a[0].Effect.ID != "glow" {
		t.Fatalf("effects = %+v", a)
	}
	if a[0].StartedAt != 16*time.Millisecond {
		t.Errorf("StartedAt = %v, want 16ms", a[0].StartedAt)
	}
}

func TestInjectDrag(t *testing.T) {
	p := newTestPlayer(t)
	p.SetMode(ModeEdit)
	var starts, ends int
	p.OnDragStart(func(DragContext) { starts++ })
	p.OnDragEnd(func(ctx DragContext) {
		ends++
		if ctx.X != 250 || ctx.StartX != 150 {
			t.Errorf("drag end context = %+v", ctx)
		}
	})

	p.InjectDrag(150, 150, 250, 150, 5)
	if len(p.injectQueue) != 5 {
		t.Fatalf("expected 5 queued events, got %d", len(p.injectQueue))
	}
	for p.Injecting() {
		p.Update(16 * time.Millisecond)
	}
	if starts != 1 || ends != 1 {
		t.Errorf("starts %d ends %d", starts, ends)
	}
	btn, _ := p.Document().Slides[0].Element("btn")
	if btn.Position.Desktop.X != 200 {
		t.Errorf("btn x = %v, want 200", btn.Position.Desktop.X)
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	p := newTestPlayer(t)
	p.InjectDrag(0, 0, 10, 10, 0)
	if len(p.injectQueue) != 2 {
		t.Errorf("expected press and release only, got %d events", len(p.injectQueue))
	}
}

func TestInjectDroppedOnDispose(t *testing.T) {
	p := newTestPlayer(t)
	p.InjectClick(150, 150)
	p.Dispose()
	if p.Injecting() {
		t.Error("queue survived Dispose")
	}
}
