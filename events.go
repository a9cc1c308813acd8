package slidefx

// EventStore is the interface for optional ECS integration.
// When set on a Player, engine events are forwarded to the store.
type EventStore interface {
	EmitEvent(event EngineEvent)
}

// EngineEvent carries engine event data for the ECS bridge.
type EngineEvent struct {
	Type       EventType
	SlideIndex int
	ElementID  string
	// Trigger fields (valid for EventTrigger)
	Trigger       TriggerKind
	InteractionID string
	// Effect fields (valid for EventTrigger, EventEffectStart, EventEffectEnd)
	EffectID   string
	EffectType EffectType
	// Slide fields (valid for EventSlideChange)
	FromSlide int
	// Step fields (valid for EventStepChange)
	Step       int
	TotalSteps int
	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	X, Y           float64
	StartX, StartY float64
	DeltaX, DeltaY float64
}

// TriggerContext describes a resolved trigger that matched an interaction.
type TriggerContext struct {
	SlideIndex  int
	ElementID   string
	Trigger     TriggerKind
	Interaction Interaction
}

// SelectContext describes an element selected in edit mode.
type SelectContext struct {
	SlideIndex int
	ElementID  string
}

// SlideChange describes a slide navigation.
type SlideChange struct {
	From, To int
}

// StepChange describes a timeline step change.
type StepChange struct {
	Current, Total int
}

// --- Handler registry ---

type handler[T any] struct {
	id uint32
	fn func(T)
}

// removeHandler returns s without id. The result never shares its backing
// array with s, so a dispatch loop ranging over s is unaffected.
func removeHandler[T any](s []handler[T], id uint32) []handler[T] {
	for i := range s {
		if s[i].id == id {
			return append(s[:i:i], s[i+1:]...)
		}
	}
	return s
}

type handlerRegistry struct {
	trigger     []handler[TriggerContext]
	selected    []handler[SelectContext]
	effectStart []handler[ActiveEffect]
	effectEnd   []handler[ActiveEffect]
	slideChange []handler[SlideChange]
	stepChange  []handler[StepChange]
	dragStart   []handler[DragContext]
	drag        []handler[DragContext]
	dragEnd     []handler[DragContext]
	nextID      uint32
}

// CallbackHandle allows removing a registered player callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventTrigger:
		h.reg.trigger = removeHandler(h.reg.trigger, h.id)
	case EventSelect:
		h.reg.selected = removeHandler(h.reg.selected, h.id)
	case EventEffectStart:
		h.reg.effectStart = removeHandler(h.reg.effectStart, h.id)
	case EventEffectEnd:
		h.reg.effectEnd = removeHandler(h.reg.effectEnd, h.id)
	case EventSlideChange:
		h.reg.slideChange = removeHandler(h.reg.slideChange, h.id)
	case EventStepChange:
		h.reg.stepChange = removeHandler(h.reg.stepChange, h.id)
	case EventDragStart:
		h.reg.dragStart = removeHandler(h.reg.dragStart, h.id)
	case EventDrag:
		h.reg.drag = removeHandler(h.reg.drag, h.id)
	case EventDragEnd:
		h.reg.dragEnd = removeHandler(h.reg.dragEnd, h.id)
	}
}

func (r *handlerRegistry) next() uint32 {
	r.nextID++
	return r.nextID
}

// OnTrigger registers a callback for triggers that matched an interaction.
func (p *Player) OnTrigger(fn func(TriggerContext)) CallbackHandle {
	id := p.handlers.next()
	p.handlers.trigger = append(p.handlers.trigger, handler[TriggerContext]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, event: EventTrigger}
}

// OnSelect registers a callback for element selection in edit mode.
func (p *Player) OnSelect(fn func(SelectContext)) CallbackHandle {
	id := p.handlers.next()
	p.handlers.selected = append(p.handlers.selected, handler[SelectContext]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, event: EventSelect}
}

// OnEffectStart registers a callback for effects entering the active set.
func (p *Player) OnEffectStart(fn func(ActiveEffect)) CallbackHandle {
	id := p.handlers.next()
	p.handlers.effectStart = append(p.handlers.effectStart, handler[ActiveEffect]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, event: EventEffectStart}
}

// OnEffectEnd registers a callback for effects leaving the active set.
func (p *Player) OnEffectEnd(fn func(ActiveEffect)) CallbackHandle {
	id := p.handlers.next()
	p.handlers.effectEnd = append(p.handlers.effectEnd, handler[ActiveEffect]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, event: EventEffectEnd}
}

// OnSlideChange registers a callback for slide navigation.
func (p *Player) OnSlideChange(fn func(SlideChange)) CallbackHandle {
	id := p.handlers.next()
	p.handlers.slideChange = append(p.handlers.slideChange, handler[SlideChange]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, event: EventSlideChange}
}

// OnStepChange registers a callback for timeline step changes.
func (p *Player) OnStepChange(fn func(StepChange)) CallbackHandle {
	id := p.handlers.next()
	p.handlers.stepChange = append(p.handlers.stepChange, handler[StepChange]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, event: EventStepChange}
}

// OnDragStart registers a callback for element drag start in edit mode.
func (p *Player) OnDragStart(fn func(DragContext)) CallbackHandle {
	id := p.handlers.next()
	p.handlers.dragStart = append(p.handlers.dragStart, handler[DragContext]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, event: EventDragStart}
}

// OnDrag registers a callback for element drag movement in edit mode.
func (p *Player) OnDrag(fn func(DragContext)) CallbackHandle {
	id := p.handlers.next()
	p.handlers.drag = append(p.handlers.drag, handler[DragContext]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, event: EventDrag}
}

// OnDragEnd registers a callback for element drag end in edit mode.
func (p *Player) OnDragEnd(fn func(DragContext)) CallbackHandle {
	id := p.handlers.next()
	p.handlers.dragEnd = append(p.handlers.dragEnd, handler[DragContext]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, event: EventDragEnd}
}

// SetEventStore sets the optional ECS bridge.
func (p *Player) SetEventStore(store EventStore) {
	p.store = store
}

// --- Event dispatch ---

func (p *Player) fireTrigger(ctx TriggerContext) {
	for _, h := range p.handlers.trigger {
		h.fn(ctx)
	}
	p.emit(EngineEvent{
		Type:          EventTrigger,
		SlideIndex:    ctx.SlideIndex,
		ElementID:     ctx.ElementID,
		Trigger:       ctx.Trigger,
		InteractionID: ctx.Interaction.ID,
		EffectID:      ctx.Interaction.Effect.ID,
		EffectType:    ctx.Interaction.Effect.Type,
	})
}

func (p *Player) fireSelect(ctx SelectContext) {
	for _, h := range p.handlers.selected {
		h.fn(ctx)
	}
	p.emit(EngineEvent{Type: EventSelect, SlideIndex: ctx.SlideIndex, ElementID: ctx.ElementID})
}

func (p *Player) fireEffect(t EventType, a ActiveEffect) {
	list := p.handlers.effectStart
	if t == EventEffectEnd {
		list = p.handlers.effectEnd
	}
	for _, h := range list {
		h.fn(a)
	}
	p.emit(EngineEvent{
		Type:       t,
		SlideIndex: p.slide,
		ElementID:  a.Source,
		EffectID:   a.Effect.ID,
		EffectType: a.Effect.Type,
	})
}

func (p *Player) fireSlideChange(c SlideChange) {
	for _, h := range p.handlers.slideChange {
		h.fn(c)
	}
	p.emit(EngineEvent{Type: EventSlideChange, SlideIndex: c.To, FromSlide: c.From})
}

func (p *Player) fireStepChange(c StepChange) {
	for _, h := range p.handlers.stepChange {
		h.fn(c)
	}
	p.emit(EngineEvent{Type: EventStepChange, SlideIndex: p.slide, Step: c.Current, TotalSteps: c.Total})
}

func (p *Player) fireDrag(t EventType, ctx DragContext) {
	var list []handler[DragContext]
	switch t {
	case EventDragStart:
		list = p.handlers.dragStart
	case EventDrag:
		list = p.handlers.drag
	case EventDragEnd:
		list = p.handlers.dragEnd
	}
	for _, h := range list {
		h.fn(ctx)
	}
	p.emit(EngineEvent{
		Type:       t,
		SlideIndex: p.slide,
		ElementID:  ctx.ElementID,
		X:          ctx.X, Y: ctx.Y,
		StartX: ctx.StartX, StartY: ctx.StartY,
		DeltaX: ctx.DeltaX, DeltaY: ctx.DeltaY,
	})
}

func (p *Player) emit(e EngineEvent) {
	if p.store == nil {
		return
	}
	p.store.EmitEvent(e)
}
