package slidefx

import (
	"time"
)

// Player is the controller for one canvas. It owns the clock, the gesture
// arbiter, the transform engine, the effect scheduler, the timeline
// sequencer and one Disambiguator per element of the displayed slide.
//
// Every method must be called from the host's update goroutine. Dispose is
// the single cancellation point: it stops every outstanding timer.
type Player struct {
	doc *Document
	cfg Config

	clock     *Clock
	arbiter   *Arbiter
	transform *TransformEngine
	effects   *EffectScheduler
	sequencer *Sequencer

	slide    int
	slideGen uint64
	mode     Mode
	ratio    AspectRatio

	viewW, viewH float64
	device       DeviceClass
	canvas       CanvasSize
	deviceFixed  bool

	gestures map[string]*Disambiguator

	// Input state
	pointers    [maxPointers]pointerState
	pinch       pinchState
	injectQueue []syntheticPointerEvent

	handlers handlerRegistry
	store    EventStore
	disposed bool
}

// NewPlayer creates a player showing the first slide of doc. The document
// is validated; cfg is validated too.
func NewPlayer(doc *Document, cfg Config) (*Player, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	clock := NewClock()
	arbiter := NewArbiter(clock, cfg.PreemptWindow)
	p := &Player{
		doc:       doc,
		cfg:       cfg,
		clock:     clock,
		arbiter:   arbiter,
		transform: NewTransformEngine(cfg, arbiter),
		effects:   NewEffectScheduler(clock),
		ratio:     aspectRatioOf(doc),
		gestures:  make(map[string]*Disambiguator),
	}
	p.effects.Navigate = p.navigateTo
	p.effects.OnStart = func(a ActiveEffect) { p.fireEffect(EventEffectStart, a) }
	p.effects.OnEnd = func(a ActiveEffect) { p.fireEffect(EventEffectEnd, a) }

	p.sequencer = NewSequencer(p, clock, BuildTimeline(doc.Slides), cfg.AutoAdvanceGap)
	p.sequencer.OnStepChange = func(cur, total int) {
		p.fireStepChange(StepChange{Current: cur, Total: total})
	}

	p.SetViewport(cfg.ReferenceWidth, cfg.ReferenceHeight)
	p.buildGestures()
	return p, nil
}

func aspectRatioOf(doc *Document) AspectRatio {
	if doc.AspectRatio == "" {
		return DefaultAspectRatio
	}
	r, err := ParseAspectRatio(doc.AspectRatio)
	if err != nil {
		logger.Warn().Err(err).Msg("using default aspect ratio")
		return DefaultAspectRatio
	}
	return r
}

// Document returns the document being played.
func (p *Player) Document() *Document {
	return p.doc
}

// Clock returns the player's time source.
func (p *Player) Clock() *Clock {
	return p.clock
}

// Transform returns the canvas transform engine.
func (p *Player) Transform() *TransformEngine {
	return p.transform
}

// Effects returns the effect scheduler.
func (p *Player) Effects() *EffectScheduler {
	return p.effects
}

// Sequencer returns the timeline sequencer.
func (p *Player) Sequencer() *Sequencer {
	return p.sequencer
}

// Update processes one queued synthetic input event, advances time by dt
// (firing due timers) and steps the snap-back animation.
func (p *Player) Update(dt time.Duration) {
	if p.disposed {
		return
	}
	p.processInjectedInput()
	p.clock.Advance(dt)
	p.transform.Update(dt)
}

// --- Slides ---

// CurrentSlide returns the index of the displayed slide.
func (p *Player) CurrentSlide() int {
	return p.slide
}

// SlideCount returns the number of slides.
func (p *Player) SlideCount() int {
	return len(p.doc.Slides)
}

// GoToSlide displays slide index. Navigation clears every active effect,
// cancels gestures in flight and resets the transform. Navigating to the
// displayed slide is a no-op. Out-of-range indexes report false.
func (p *Player) GoToSlide(index int) bool {
	if p.disposed || index < 0 || index >= len(p.doc.Slides) {
		return false
	}
	if index == p.slide {
		return true
	}
	from := p.slide
	p.effects.ClearAll()
	p.disposeGestures()
	p.resetPointers()
	p.arbiter.Reset()
	p.transform.Reset()
	p.slide = index
	p.slideGen++
	p.buildGestures()

	logger.Debug().Int("from", from).Int("to", index).Msg("slide change")
	p.fireSlideChange(SlideChange{From: from, To: index})
	return true
}

// NextSlide displays the following slide.
func (p *Player) NextSlide() bool {
	return p.GoToSlide(p.slide + 1)
}

// PreviousSlide displays the preceding slide.
func (p *Player) PreviousSlide() bool {
	return p.GoToSlide(p.slide - 1)
}

func (p *Player) navigateTo(slideID string) {
	idx := p.doc.SlideIndex(slideID)
	if idx < 0 {
		logger.Warn().Str("slide", slideID).Msg("transition target not found")
		return
	}
	p.GoToSlide(idx)
}

// Reload swaps in a changed document. The displayed slide is kept when it
// still exists and the timeline is rebuilt.
func (p *Player) Reload(doc *Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	p.effects.ClearAll()
	p.disposeGestures()
	p.resetPointers()
	p.arbiter.Reset()

	p.doc = doc
	p.ratio = aspectRatioOf(doc)
	if p.slide >= len(doc.Slides) {
		p.slide = max(0, len(doc.Slides)-1)
	}
	p.slideGen++
	p.layout()
	p.buildGestures()
	p.sequencer.SetSteps(BuildTimeline(doc.Slides))
	return nil
}

// --- Viewport ---

// SetViewport sets the host surface size. The device class follows the
// width breakpoints unless pinned with SetDeviceClass.
func (p *Player) SetViewport(width, height float64) {
	p.viewW, p.viewH = width, height
	if !p.deviceFixed {
		p.device = DeviceClassForWidth(width)
	}
	p.layout()
}

// SetDeviceClass pins the device class regardless of viewport width.
func (p *Player) SetDeviceClass(d DeviceClass) {
	p.device = d
	p.deviceFixed = true
	p.layout()
}

// DeviceClass returns the device class used for resolving positions.
func (p *Player) DeviceClass() DeviceClass {
	return p.device
}

// Canvas returns the fitted canvas size for the current viewport.
func (p *Player) Canvas() CanvasSize {
	return p.canvas
}

func (p *Player) layout() {
	ref := p.cfg.ReferenceWidth * p.device.CanvasRatio()
	p.canvas = ScaleForCanvas(p.ratio, p.viewW, p.viewH, p.cfg.CanvasPadding, ref)
	p.transform.SetContainerSize(p.canvas.Width, p.canvas.Height)
}

// CanvasOrigin returns the top-left of the fitted canvas in the viewport.
func (p *Player) CanvasOrigin() Vec2 {
	x, y := p.canvasOffset()
	return Vec2{X: x, Y: y}
}

// canvasOffset is the top-left of the fitted canvas inside the viewport.
func (p *Player) canvasOffset() (float64, float64) {
	return (p.viewW - p.canvas.Width) / 2, (p.viewH - p.canvas.Height) / 2
}

// layoutMatrix maps resolved element coordinates to viewport pixels:
// canvas offset, then the zoom/pan transform, then the canvas scale.
func (p *Player) layoutMatrix() [6]float64 {
	ox, oy := p.canvasOffset()
	offset := [6]float64{1, 0, 0, 1, ox, oy}
	s := p.canvas.Scale
	scale := [6]float64{s, 0, 0, s, 0, 0}
	view := viewMatrix(p.transform.State(), p.canvas.Width, p.canvas.Height)
	return multiplyAffine(offset, multiplyAffine(view, scale))
}

// ScreenToElementSpace maps a viewport point into the coordinate space
// element rectangles are authored in.
func (p *Player) ScreenToElementSpace(x, y float64) (float64, float64) {
	return transformPoint(invertAffine(p.layoutMatrix()), x, y)
}

// ElementRect returns the viewport rectangle of an element of the
// displayed slide.
func (p *Player) ElementRect(elementID string) (Rect, bool) {
	el, ok := p.currentSlide().Element(elementID)
	if !ok {
		return Rect{}, false
	}
	return transformRect(p.layoutMatrix(), Resolve(el.Position, p.device)), true
}

// --- Mode ---

// SetMode switches between viewing effects and authoring. Gestures in
// flight are cancelled.
func (p *Player) SetMode(m Mode) {
	if p.mode == m {
		return
	}
	p.mode = m
	for _, g := range p.gestures {
		g.SetMode(m)
	}
	p.resetPointers()
}

// Mode returns the current mode.
func (p *Player) Mode() Mode {
	return p.mode
}

// --- Gestures ---

func (p *Player) currentSlide() *Slide {
	if len(p.doc.Slides) == 0 {
		return &Slide{}
	}
	return &p.doc.Slides[p.slide]
}

func (p *Player) buildGestures() {
	gcfg := gestureConfigFrom(p.cfg)
	slide := p.currentSlide()
	for i := range slide.Elements {
		el := &slide.Elements[i]
		id := el.ID
		g := NewDisambiguator(id, el.Triggers(), gcfg, p.clock, p.arbiter)
		g.SetMode(p.mode)
		g.OnTrigger = func(k TriggerKind) { p.onElementTrigger(id, k) }
		g.OnSelect = func() {
			p.fireSelect(SelectContext{SlideIndex: p.slide, ElementID: id})
		}
		g.OnDragStart = func(ctx DragContext) { p.fireDrag(EventDragStart, ctx) }
		g.OnDrag = func(ctx DragContext) {
			p.moveElement(id, ctx.DeltaX, ctx.DeltaY)
			p.fireDrag(EventDrag, ctx)
		}
		g.OnDragEnd = func(ctx DragContext) { p.fireDrag(EventDragEnd, ctx) }
		p.gestures[id] = g
	}
}

func (p *Player) disposeGestures() {
	for id, g := range p.gestures {
		g.Dispose()
		delete(p.gestures, id)
	}
}

// onElementTrigger looks up the interaction declared for k. A trigger with
// no matching interaction is a silent no-op.
func (p *Player) onElementTrigger(elementID string, k TriggerKind) {
	el, ok := p.currentSlide().Element(elementID)
	if !ok {
		return
	}
	in, ok := el.InteractionFor(k)
	if !ok {
		logger.Debug().Str("element", elementID).Stringer("trigger", k).Msg("no interaction for trigger")
		return
	}
	p.trigger(p.slide, el, in, k)
}

// TriggerInteraction activates an interaction's effect. Gestures and the
// timeline share this path. The slide must be displayed.
func (p *Player) TriggerInteraction(slideIndex int, elementID, interactionID string) bool {
	if p.disposed || slideIndex != p.slide {
		return false
	}
	el, ok := p.currentSlide().Element(elementID)
	if !ok {
		logger.Warn().Str("element", elementID).Msg("interaction element not found")
		return false
	}
	in, ok := el.Interaction(interactionID)
	if !ok {
		logger.Warn().Str("element", elementID).Str("interaction", interactionID).Msg("interaction not found")
		return false
	}
	p.trigger(slideIndex, el, in, in.Trigger)
	return true
}

func (p *Player) trigger(slideIndex int, el *Element, in *Interaction, k TriggerKind) {
	ctx := TriggerContext{SlideIndex: slideIndex, ElementID: el.ID, Trigger: k, Interaction: *in}
	p.fireTrigger(ctx)
	if p.slide != slideIndex || p.disposed {
		return
	}
	p.effects.TriggerFrom(el.ID, in.Effect)
}

// moveElement shifts an element's rectangle for the current device class.
// A class without its own rectangle gets one copied from the resolved one.
func (p *Player) moveElement(elementID string, dx, dy float64) {
	el, ok := p.currentSlide().Element(elementID)
	if !ok {
		return
	}
	r := Resolve(el.Position, p.device)
	r.X += dx
	r.Y += dy
	switch p.device {
	case DeviceTablet:
		el.Position.Tablet = &r
	case DeviceMobile:
		el.Position.Mobile = &r
	default:
		el.Position.Desktop = &r
	}
}

// --- Keys ---

// HandleKey forwards a navigation key to the timeline sequencer.
func (p *Player) HandleKey(k Key) bool {
	if p.disposed {
		return false
	}
	return p.sequencer.HandleKey(k)
}

// --- Frame ---

// ElementFrame is the render data for one visible element.
type ElementFrame struct {
	ID   string
	Kind ElementKind
	// Rect is in viewport pixels; Local is the resolved authored rectangle.
	Rect    Rect
	Local   Rect
	Content string
	// Active reports whether an effect triggered from this element is live.
	Active bool
}

// Frame is the per-tick snapshot a renderer draws from.
type Frame struct {
	SlideIndex   int
	SlideID      string
	Mode         Mode
	Device       DeviceClass
	Canvas       CanvasSize
	CanvasOrigin Vec2
	Transform    TransformState
	Elements     []ElementFrame
	Effects      []ActiveEffect
	Step         int
	TotalSteps   int
	Playing      bool
}

// Frame returns the render snapshot for the current tick.
func (p *Player) Frame() Frame {
	ox, oy := p.canvasOffset()
	f := Frame{
		SlideIndex:   p.slide,
		Mode:         p.mode,
		Device:       p.device,
		Canvas:       p.canvas,
		CanvasOrigin: Vec2{X: ox, Y: oy},
		Transform:    p.transform.State(),
		Effects:      p.effects.Active(),
		Step:         p.sequencer.Current(),
		TotalSteps:   p.sequencer.Total(),
		Playing:      p.sequencer.Playing(),
	}
	active := make(map[string]bool, len(f.Effects))
	for _, a := range f.Effects {
		if a.Source != "" {
			active[a.Source] = true
		}
	}
	slide := p.currentSlide()
	f.SlideID = slide.ID
	m := p.layoutMatrix()
	for i := range slide.Elements {
		el := &slide.Elements[i]
		if !el.Visible() {
			continue
		}
		local := Resolve(el.Position, p.device)
		f.Elements = append(f.Elements, ElementFrame{
			ID:      el.ID,
			Kind:    el.Kind,
			Rect:    transformRect(m, local),
			Local:   local,
			Content: el.Content,
			Active:  active[el.ID],
		})
	}
	return f
}

// Dispose stops every timer, cancels gestures and ignores all later calls.
func (p *Player) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.sequencer.Dispose()
	p.effects.Dispose()
	p.disposeGestures()
	p.arbiter.Reset()
	p.transform.Reset()
	p.clock.StopAll()
	p.injectQueue = nil
}
