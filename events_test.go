package slidefx

import (
	"slices"
	"testing"
	"time"
)

func TestCallbackHandleRemove(t *testing.T) {
	p := newTestPlayer(t)
	var a, b int
	ha := p.OnTrigger(func(TriggerContext) { a++ })
	p.OnTrigger(func(TriggerContext) { b++ })

	tapAt(p, 150, 150)
	ha.Remove()
	ha.Remove()
	p.Update(600 * time.Millisecond)
	tapAt(p, 150, 150)

	if a != 1 || b != 2 {
		t.Errorf("a = %d, b = %d; want 1, 2", a, b)
	}
	var zero CallbackHandle
	zero.Remove()
}

func TestEffectCallbacks(t *testing.T) {
	p := newTestPlayer(t)
	var started, ended []string
	p.OnEffectStart(func(a ActiveEffect) { started = append(started, a.Effect.ID) })
	h := p.OnEffectEnd(func(a ActiveEffect) { ended = append(ended, a.Effect.ID) })

	tapAt(p, 150, 150)
	p.GoToSlide(1)
	h.Remove()
	tapAt(p, 150, 150)
	p.GoToSlide(0)

	if !slices.Equal(started, []string{"glow", "zoom"}) {
		t.Errorf("started = %v", started)
	}
	if !slices.Equal(ended, []string{"glow"}) {
		t.Errorf("ended = %v", ended)
	}
}

func TestEventStoreReceivesEngineEvents(t *testing.T) {
	p := newTestPlayer(t)
	store := &recordingStore{}
	p.SetEventStore(store)

	tapAt(p, 150, 150)
	p.HandleKey(KeyEnd)

	want := []EventType{
		EventTrigger, EventEffectStart, // click on btn
		EventEffectEnd, EventSlideChange, // step 8 navigates to slide two
		EventTrigger, EventEffectStart, EventStepChange,
	}
	if !slices.Equal(store.types(), want) {
		t.Fatalf("events = %v, want %v", store.types(), want)
	}
	trig := store.events[0]
	if trig.ElementID != "btn" || trig.InteractionID != "btn-glow" || trig.EffectType != EffectHighlight {
		t.Errorf("trigger event = %+v", trig)
	}
	slide := store.events[3]
	if slide.FromSlide != 0 || slide.SlideIndex != 1 {
		t.Errorf("slide event = %+v", slide)
	}
	step := store.events[6]
	if step.Step != 8 || step.TotalSteps != 8 {
		t.Errorf("step event = %+v", step)
	}

	p.SetEventStore(nil)
	p.HandleKey(KeyHome)
	if len(store.events) != len(want) {
		t.Error("events forwarded after the store was removed")
	}
}
