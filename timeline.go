package slidefx

import (
	"slices"
	"time"
)

// TimelineStep is one unit of the flattened cross-slide interaction
// sequence. A slide-entry step has no ElementID or InteractionID.
type TimelineStep struct {
	// Seq is the emission number, 1..N in document order before sorting.
	Seq           int           `json:"seq"`
	SlideIndex    int           `json:"slideIndex"`
	SlideID       string        `json:"slideId"`
	ElementID     string        `json:"elementId,omitempty"`
	InteractionID string        `json:"interactionId,omitempty"`
	Delay         time.Duration `json:"delay"`
	Duration      time.Duration `json:"duration"`
}

// SlideEntry reports whether the step only navigates to its slide.
func (s TimelineStep) SlideEntry() bool {
	return s.InteractionID == ""
}

// Dwell is how long auto-advance stays on the step before the fixed gap.
func (s TimelineStep) Dwell() time.Duration {
	return s.Delay + s.Duration
}

// BuildTimeline flattens slides into timeline steps: per slide one
// slide-entry step, then one step per interaction in element and declaration
// order. The result is stably sorted by (SlideIndex, Delay).
func BuildTimeline(slides []Slide) []TimelineStep {
	var steps []TimelineStep
	seq := 0
	for si := range slides {
		slide := &slides[si]
		seq++
		steps = append(steps, TimelineStep{Seq: seq, SlideIndex: si, SlideID: slide.ID})
		for ei := range slide.Elements {
			el := &slide.Elements[ei]
			for _, in := range el.Interactions {
				seq++
				steps = append(steps, TimelineStep{
					Seq:           seq,
					SlideIndex:    si,
					SlideID:       slide.ID,
					ElementID:     el.ID,
					InteractionID: in.ID,
					Delay:         max(in.Delay, 0),
					Duration:      max(in.Effect.Duration, 0),
				})
			}
		}
	}
	slices.SortStableFunc(steps, func(a, b TimelineStep) int {
		if a.SlideIndex != b.SlideIndex {
			return a.SlideIndex - b.SlideIndex
		}
		switch {
		case a.Delay < b.Delay:
			return -1
		case a.Delay > b.Delay:
			return 1
		}
		return 0
	})
	return steps
}

// StepHost is what a Sequencer drives when a step becomes current.
type StepHost interface {
	CurrentSlide() int
	GoToSlide(index int) bool
	TriggerInteraction(slideIndex int, elementID, interactionID string) bool
}

// Sequencer walks a timeline one step at a time, by hand or on a timer.
// Steps are addressed 1..Total(); Current() is 0 before the first selection.
type Sequencer struct {
	host  StepHost
	clock *Clock
	gap   time.Duration

	steps   []TimelineStep
	index   int
	gen     uint64
	playing bool
	timer   *Timer

	disposed bool

	// OnStepChange is called after the current step changes.
	OnStepChange func(current, total int)
	// OnPlayingChange is called when auto-advance starts or stops.
	OnPlayingChange func(playing bool)
}

// NewSequencer creates a sequencer over steps. gap is the fixed pause added
// after each step's delay and duration during auto-advance.
func NewSequencer(host StepHost, clock *Clock, steps []TimelineStep, gap time.Duration) *Sequencer {
	return &Sequencer{host: host, clock: clock, steps: steps, gap: gap}
}

// Total returns the number of steps.
func (s *Sequencer) Total() int {
	return len(s.steps)
}

// Current returns the 1-based current step, or 0 when none is selected.
func (s *Sequencer) Current() int {
	return s.index
}

// Step returns the step at 1-based position n.
func (s *Sequencer) Step(n int) (TimelineStep, bool) {
	if n < 1 || n > len(s.steps) {
		return TimelineStep{}, false
	}
	return s.steps[n-1], true
}

// Steps returns the sorted step list.
func (s *Sequencer) Steps() []TimelineStep {
	return s.steps
}

// Playing reports whether auto-advance is on.
func (s *Sequencer) Playing() bool {
	return s.playing
}

// SetSteps replaces the step list after the document changed. The current
// position is kept when still in range and any pending advance is
// rescheduled against the new step.
func (s *Sequencer) SetSteps(steps []TimelineStep) {
	if s.disposed {
		return
	}
	s.stopTimer()
	s.steps = steps
	if s.index > len(steps) {
		s.index = len(steps)
	}
	s.gen++
	if s.playing {
		s.schedule()
	}
	s.notify()
}

// SelectStep makes step n current. It navigates to the step's slide when it
// is not displayed and triggers the step's interaction, the same path a
// direct gesture takes. Out-of-range n is ignored and reports false.
func (s *Sequencer) SelectStep(n int) bool {
	if s.disposed || n < 1 || n > len(s.steps) {
		return false
	}
	s.stopTimer()
	s.index = n
	s.gen++
	gen := s.gen
	step := s.steps[n-1]

	logger.Debug().Int("step", n).Int("slide", step.SlideIndex).Str("interaction", step.InteractionID).Msg("timeline step")

	if s.host != nil {
		if s.host.CurrentSlide() != step.SlideIndex {
			s.host.GoToSlide(step.SlideIndex)
		}
		if s.stale(gen) {
			return true
		}
		if !step.SlideEntry() {
			s.host.TriggerInteraction(step.SlideIndex, step.ElementID, step.InteractionID)
		}
		if s.stale(gen) {
			return true
		}
	}
	s.notify()
	if s.playing {
		s.schedule()
	}
	return true
}

// stale reports whether a host callback moved the sequencer on.
func (s *Sequencer) stale(gen uint64) bool {
	return s.disposed || s.gen != gen
}

// Next selects the following step. At the last step it is a no-op.
func (s *Sequencer) Next() bool {
	if s.index >= len(s.steps) {
		return false
	}
	return s.SelectStep(s.index + 1)
}

// Previous selects the preceding step. At the first step it is a no-op.
func (s *Sequencer) Previous() bool {
	if s.index <= 1 {
		return false
	}
	return s.SelectStep(s.index - 1)
}

// First selects step 1.
func (s *Sequencer) First() bool {
	return s.SelectStep(1)
}

// Last selects the final step.
func (s *Sequencer) Last() bool {
	return s.SelectStep(len(s.steps))
}

// Play turns on auto-advance. With no step selected it starts at step 1;
// at the last step it restarts from step 1.
func (s *Sequencer) Play() {
	if s.disposed || s.playing || len(s.steps) == 0 {
		return
	}
	s.setPlaying(true)
	if s.index == 0 || s.index == len(s.steps) {
		s.SelectStep(1)
		return
	}
	s.schedule()
}

// Pause turns off auto-advance and cancels the pending advance.
func (s *Sequencer) Pause() {
	s.stopTimer()
	if s.playing {
		s.setPlaying(false)
	}
}

// Toggle plays when paused and pauses when playing.
func (s *Sequencer) Toggle() {
	if s.playing {
		s.Pause()
		return
	}
	s.Play()
}

// Reset pauses, returns to step 1 and shows the first slide.
func (s *Sequencer) Reset() {
	if s.disposed {
		return
	}
	s.Pause()
	if len(s.steps) == 0 {
		s.index = 0
		s.gen++
		if s.host != nil {
			s.host.GoToSlide(0)
		}
		s.notify()
		return
	}
	if s.host != nil && s.steps[0].SlideIndex != 0 {
		s.host.GoToSlide(0)
	}
	s.SelectStep(1)
}

// HandleKey maps a navigation key onto the sequencer. It reports whether the
// key changed anything.
func (s *Sequencer) HandleKey(k Key) bool {
	switch k {
	case KeyNext:
		return s.Next()
	case KeyPrevious:
		return s.Previous()
	case KeyHome:
		return s.First()
	case KeyEnd:
		return s.Last()
	case KeyTogglePlay:
		s.Toggle()
		return true
	}
	return false
}

// Dispose cancels the pending advance and ignores every later call.
func (s *Sequencer) Dispose() {
	s.stopTimer()
	s.playing = false
	s.disposed = true
}

// schedule arms the advance timer for the current step.
func (s *Sequencer) schedule() {
	s.stopTimer()
	if s.index == 0 {
		return
	}
	if s.index >= len(s.steps) {
		logger.Debug().Int("steps", len(s.steps)).Msg("timeline finished")
		s.setPlaying(false)
		return
	}
	wait := s.steps[s.index-1].Dwell() + s.gap
	gen := s.gen
	s.timer = s.clock.AfterFunc(wait, func() { s.advance(gen) })
}

func (s *Sequencer) advance(gen uint64) {
	s.timer = nil
	if s.disposed || !s.playing || s.gen != gen {
		return
	}
	s.Next()
}

func (s *Sequencer) stopTimer() {
	s.timer.Stop()
	s.timer = nil
}

func (s *Sequencer) setPlaying(on bool) {
	s.playing = on
	if s.OnPlayingChange != nil {
		s.OnPlayingChange(on)
	}
}

func (s *Sequencer) notify() {
	if s.OnStepChange != nil {
		s.OnStepChange(s.index, len(s.steps))
	}
}
