package slidefx

import "time"

// ActiveEffect is one live entry of the active effect set.
type ActiveEffect struct {
	Effect    Effect
	StartedAt time.Duration
	// ExpiresAt is zero for effects that run until completed or cleared.
	ExpiresAt time.Duration
	// Source is the element the effect was triggered from, if any.
	Source string
}

// Indefinite reports whether the effect has no automatic expiry.
func (a ActiveEffect) Indefinite() bool {
	return a.ExpiresAt == 0
}

type activeEntry struct {
	ActiveEffect
	timer *Timer
}

// EffectScheduler tracks the effects currently live and expires them
// against the clock. Several effects may be live at once; callers that want
// exclusivity call ClearAll before Trigger.
type EffectScheduler struct {
	clock    *Clock
	active   map[string]*activeEntry
	order    []string
	disposed bool

	// Navigate is called when a transition effect completes its duration.
	Navigate func(targetSlideID string)
	// OnStart and OnEnd observe membership changes of the active set.
	OnStart func(ActiveEffect)
	OnEnd   func(ActiveEffect)
}

// NewEffectScheduler creates an empty scheduler on clock.
func NewEffectScheduler(clock *Clock) *EffectScheduler {
	return &EffectScheduler{
		clock:  clock,
		active: make(map[string]*activeEntry),
	}
}

// Trigger activates effect now. Retriggering a live effect restarts it.
// Effects with a positive duration expire on their own; duration 0 keeps
// the effect until Complete or Clear.
func (s *EffectScheduler) Trigger(effect Effect) {
	s.TriggerFrom("", effect)
}

// TriggerFrom is Trigger with the originating element recorded.
func (s *EffectScheduler) TriggerFrom(source string, effect Effect) {
	if s.disposed {
		return
	}
	if !effect.Type.Known() {
		logger.Debug().Str("effect", effect.ID).Str("type", string(effect.Type)).
			Msg("unknown effect type; activating without side effects")
	}
	if _, ok := s.active[effect.ID]; ok {
		s.remove(effect.ID)
	}

	now := s.clock.Now()
	entry := &activeEntry{ActiveEffect: ActiveEffect{Effect: effect, StartedAt: now, Source: source}}
	if effect.Duration > 0 {
		entry.ExpiresAt = now + effect.Duration
		entry.timer = s.clock.AfterFunc(effect.Duration, func() { s.expire(entry) })
	}
	s.active[effect.ID] = entry
	s.order = append(s.order, effect.ID)
	if s.OnStart != nil {
		s.OnStart(entry.ActiveEffect)
	}

	if effect.Type == EffectTransition && effect.Duration <= 0 {
		s.navigate(effect)
	}
}

// expire runs when an effect's duration elapses.
func (s *EffectScheduler) expire(entry *activeEntry) {
	if s.disposed {
		return
	}
	// A retrigger or clear may have replaced the entry before this fired.
	if cur, ok := s.active[entry.Effect.ID]; !ok || cur != entry {
		logger.Debug().Str("effect", entry.Effect.ID).Msg("stale effect timer ignored")
		return
	}
	entry.timer = nil
	s.remove(entry.Effect.ID)
	if entry.Effect.Type == EffectTransition {
		s.navigate(entry.Effect)
	}
}

func (s *EffectScheduler) navigate(effect Effect) {
	target := effect.StringParam(ParamTargetSlide, "")
	if target == "" {
		logger.Warn().Str("effect", effect.ID).Msg("transition without target slide")
		return
	}
	if s.Navigate != nil {
		s.Navigate(target)
	}
}

// Clear removes one effect and cancels its expiry. It reports whether the
// effect was live.
func (s *EffectScheduler) Clear(effectID string) bool {
	if _, ok := s.active[effectID]; !ok {
		return false
	}
	s.remove(effectID)
	return true
}

// Complete is the completion callback for effects that end on their own
// terms, such as media reaching its end.
func (s *EffectScheduler) Complete(effectID string) bool {
	return s.Clear(effectID)
}

// ClearAll cancels every pending expiry and empties the set.
func (s *EffectScheduler) ClearAll() {
	ids := s.order
	s.order = nil
	for _, id := range ids {
		entry, ok := s.active[id]
		if !ok {
			continue
		}
		delete(s.active, id)
		entry.timer.Stop()
		if s.OnEnd != nil {
			s.OnEnd(entry.ActiveEffect)
		}
	}
	// Listeners may have triggered new effects; those stay.
}

func (s *EffectScheduler) remove(id string) {
	entry, ok := s.active[id]
	if !ok {
		return
	}
	delete(s.active, id)
	entry.timer.Stop()
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.OnEnd != nil {
		s.OnEnd(entry.ActiveEffect)
	}
}

// IsActive reports whether effectID is live.
func (s *EffectScheduler) IsActive(effectID string) bool {
	_, ok := s.active[effectID]
	return ok
}

// Len returns the number of live effects.
func (s *EffectScheduler) Len() int {
	return len(s.active)
}

// Active returns the live effects in activation order.
func (s *EffectScheduler) Active() []ActiveEffect {
	out := make([]ActiveEffect, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.active[id].ActiveEffect)
	}
	return out
}

// Dispose clears every effect without notifying listeners and ignores all
// later calls and timer callbacks.
func (s *EffectScheduler) Dispose() {
	for _, entry := range s.active {
		entry.timer.Stop()
	}
	clear(s.active)
	s.order = nil
	s.disposed = true
}
