package slidefx

import (
	"math"
	"time"
)

// DragContext carries element drag data.
type DragContext struct {
	ElementID string
	// X and Y are the current pointer position in canvas pixels.
	X, Y float64
	// StartX and StartY are where the pointer went down.
	StartX, StartY float64
	// DeltaX and DeltaY are the movement since the previous drag event.
	DeltaX, DeltaY float64
}

// GestureConfig holds the thresholds a Disambiguator reads.
type GestureConfig struct {
	DoubleTapWindow time.Duration
	LongPressDelay  time.Duration
	DragDeadZone    float64
}

// gestureConfigFrom extracts the gesture thresholds from cfg.
func gestureConfigFrom(cfg Config) GestureConfig {
	return GestureConfig{
		DoubleTapWindow: cfg.DoubleTapWindow,
		LongPressDelay:  cfg.LongPressDelay,
		DragDeadZone:    cfg.DragDeadZone,
	}
}

// Disambiguator turns the raw pointer stream aimed at one element into at
// most one trigger per discrete gesture.
//
// In ModeView, down fires touch-start immediately; a held pointer fires
// long-press after LongPressDelay; up fires touch-end, or else click or
// double-click depending on the time since the previous tap. Hover fires on
// enter independently of the tap state. In ModeEdit, down emits a single
// select signal and movement past the dead zone drags the element.
//
// Out-of-order events (up without down, move while idle) reset to idle.
type Disambiguator struct {
	elementID string
	triggers  TriggerSet
	mode      Mode
	cfg       GestureConfig
	clock     *Clock
	arbiter   *Arbiter

	// OnTrigger is called with each resolved trigger that the element declares.
	OnTrigger func(TriggerKind)
	// OnSelect is called on pointer down in ModeEdit.
	OnSelect func()
	// OnDragStart, OnDrag and OnDragEnd report element drags in ModeEdit.
	OnDragStart func(DragContext)
	OnDrag      func(DragContext)
	OnDragEnd   func(DragContext)

	pressed    bool
	downAt     time.Duration
	startX     float64
	startY     float64
	lastX      float64
	lastY      float64
	interacted bool // a trigger already fired for this gesture
	moved      bool // pointer left the dead zone in ModeView
	dragging   bool

	lastTapAt  time.Duration
	hasLastTap bool

	longPress *Timer
	claim     *Claim
	disposed  bool
}

// NewDisambiguator creates the state machine for one element. arbiter may be
// nil, in which case gestures never compete.
func NewDisambiguator(elementID string, triggers TriggerSet, cfg GestureConfig, clock *Clock, arbiter *Arbiter) *Disambiguator {
	return &Disambiguator{
		elementID: elementID,
		triggers:  triggers,
		cfg:       cfg,
		clock:     clock,
		arbiter:   arbiter,
	}
}

// ElementID returns the element this disambiguator serves.
func (d *Disambiguator) ElementID() string {
	return d.elementID
}

// SetTriggers replaces the declared trigger set.
func (d *Disambiguator) SetTriggers(triggers TriggerSet) {
	d.triggers = triggers
}

// SetMode switches between viewing and editing. Any gesture in flight is
// cancelled.
func (d *Disambiguator) SetMode(m Mode) {
	if d.mode == m {
		return
	}
	d.Cancel()
	d.mode = m
}

// Pressed reports whether a gesture is in flight.
func (d *Disambiguator) Pressed() bool {
	return d.pressed
}

// Dragging reports whether an element drag is in flight.
func (d *Disambiguator) Dragging() bool {
	return d.dragging
}

// Abandoned reports whether the pointer left the dead zone without starting
// a drag, so the gesture will not resolve to a trigger.
func (d *Disambiguator) Abandoned() bool {
	return d.pressed && d.moved
}

// Down starts a gesture at (x, y).
func (d *Disambiguator) Down(x, y float64) {
	if d.disposed {
		return
	}
	if d.pressed {
		// A second down without up means we missed the release.
		d.reset()
	}
	if !d.acquire(GestureTap) {
		return
	}
	d.pressed = true
	d.downAt = d.clock.Now()
	d.startX, d.startY = x, y
	d.lastX, d.lastY = x, y
	d.interacted = false
	d.moved = false
	d.dragging = false

	if d.mode == ModeEdit {
		if d.OnSelect != nil {
			d.OnSelect()
		}
		return
	}

	if d.triggers.Has(TriggerTouchStart) {
		d.fire(TriggerTouchStart)
		if d.disposed || !d.pressed {
			return
		}
	}
	if d.triggers.Has(TriggerLongPress) {
		d.longPress = d.clock.AfterFunc(d.cfg.LongPressDelay, d.onLongPress)
	}
}

// Move updates the pointer position of the gesture in flight.
func (d *Disambiguator) Move(x, y float64) {
	if d.disposed || !d.pressed {
		return
	}
	if !d.dragging && !d.moved {
		dx := x - d.startX
		dy := y - d.startY
		if math.Sqrt(dx*dx+dy*dy) > d.cfg.DragDeadZone {
			d.leaveDeadZone(x, y)
		}
	}
	if d.dragging && (x != d.lastX || y != d.lastY) && d.OnDrag != nil {
		d.OnDrag(d.dragContext(x, y))
	}
	d.lastX, d.lastY = x, y
}

func (d *Disambiguator) leaveDeadZone(x, y float64) {
	d.stopLongPress()
	if d.mode != ModeEdit {
		// Moving abandons the tap; the canvas may pan instead.
		d.moved = true
		d.releaseClaim()
		return
	}
	if !d.acquire(GestureDrag) {
		d.moved = true
		return
	}
	d.dragging = true
	if d.OnDragStart != nil {
		d.OnDragStart(DragContext{
			ElementID: d.elementID,
			X:         x, Y: y,
			StartX: d.startX, StartY: d.startY,
			DeltaX: x - d.startX, DeltaY: y - d.startY,
		})
	}
	d.lastX, d.lastY = d.startX, d.startY
}

// Up ends the gesture at (x, y) and resolves it.
func (d *Disambiguator) Up(x, y float64) {
	if d.disposed {
		return
	}
	if !d.pressed {
		d.reset()
		return
	}
	d.stopLongPress()

	if d.dragging {
		if (x != d.lastX || y != d.lastY) && d.OnDrag != nil {
			d.OnDrag(d.dragContext(x, y))
			d.lastX, d.lastY = x, y
		}
		if d.disposed || !d.dragging {
			return
		}
		if d.OnDragEnd != nil {
			d.OnDragEnd(d.dragContext(x, y))
		}
		d.reset()
		return
	}
	if d.mode == ModeEdit || d.moved {
		d.reset()
		return
	}

	now := d.clock.Now()
	if d.triggers.Has(TriggerTouchEnd) && !d.interacted {
		d.fire(TriggerTouchEnd)
		d.reset()
		return
	}
	if !d.interacted && now-d.downAt < d.cfg.LongPressDelay {
		d.resolveTap(now)
	}
	d.reset()
}

// resolveTap picks click or double-click from the time since the previous tap.
func (d *Disambiguator) resolveTap(now time.Duration) {
	double := d.hasLastTap && now-d.lastTapAt <= d.cfg.DoubleTapWindow
	if double && d.triggers.Has(TriggerDoubleClick) {
		d.hasLastTap = false
		d.fire(TriggerDoubleClick)
		return
	}
	d.lastTapAt = now
	d.hasLastTap = true
	if d.triggers.Has(TriggerClick) {
		d.fire(TriggerClick)
	}
}

// Enter fires hover when declared. It does not touch the tap state.
func (d *Disambiguator) Enter() {
	if d.disposed || d.mode != ModeView {
		return
	}
	if d.triggers.Has(TriggerHover) && d.OnTrigger != nil {
		d.OnTrigger(TriggerHover)
	}
}

// Leave resets any pressed or long-press state, covering a release that
// never arrived (for example after losing pointer capture).
func (d *Disambiguator) Leave() {
	if d.disposed {
		return
	}
	if d.dragging {
		// Drags keep the pointer captured; leaving the element is expected.
		return
	}
	d.reset()
}

// Cancel abandons the gesture in flight without firing anything. A drag in
// flight is ended.
func (d *Disambiguator) Cancel() {
	if d.dragging && d.OnDragEnd != nil {
		d.OnDragEnd(d.dragContext(d.lastX, d.lastY))
	}
	d.reset()
}

// Dispose cancels the long-press timer and ignores every later event.
func (d *Disambiguator) Dispose() {
	d.reset()
	d.hasLastTap = false
	d.disposed = true
}

func (d *Disambiguator) onLongPress() {
	d.longPress = nil
	if d.disposed || !d.pressed || d.interacted || d.moved {
		return
	}
	d.fire(TriggerLongPress)
}

func (d *Disambiguator) fire(k TriggerKind) {
	d.interacted = true
	if d.OnTrigger != nil {
		d.OnTrigger(k)
	}
}

// acquire claims kind from the arbiter. Losing the claim later cancels the
// gesture.
func (d *Disambiguator) acquire(kind GestureKind) bool {
	if d.arbiter == nil {
		return true
	}
	c, ok := d.arbiter.Claim(d, kind, d.onPreempted)
	if !ok {
		return false
	}
	d.claim = c
	return true
}

func (d *Disambiguator) onPreempted() {
	d.claim = nil
	d.Cancel()
}

func (d *Disambiguator) releaseClaim() {
	if d.claim != nil {
		d.claim.Release()
		d.claim = nil
	}
}

func (d *Disambiguator) stopLongPress() {
	if d.longPress != nil {
		d.longPress.Stop()
		d.longPress = nil
	}
}

func (d *Disambiguator) reset() {
	d.stopLongPress()
	d.releaseClaim()
	d.pressed = false
	d.interacted = false
	d.moved = false
	d.dragging = false
}

func (d *Disambiguator) dragContext(x, y float64) DragContext {
	return DragContext{
		ElementID: d.elementID,
		X:         x, Y: y,
		StartX: d.startX, StartY: d.startY,
		DeltaX: x - d.lastX, DeltaY: y - d.lastY,
	}
}
