package slidefx

import "math"

// MaxPointers is the number of pointer slots: 0 is the mouse, 1-9 are touches.
const MaxPointers = maxPointers

const maxPointers = 10

// --- Per-pointer state ---

type pointerState struct {
	down    bool
	startX  float64 // viewport pixels
	startY  float64
	lastX   float64
	lastY   float64
	target  string // element pressed, captured until release
	hover   string // element under the pointer, for enter/leave
	panning bool
	pinched bool // press belongs to a pinch; remaining moves are ignored
}

// --- Pinch state ---

type pinchState struct {
	active      bool
	pointer0    int
	pointer1    int
	initialDist float64
	baseScale   float64
}

// --- Hit testing ---

// hitTest finds the topmost visible element of the displayed slide at
// (x, y) in element space. Later elements paint over earlier ones.
func (p *Player) hitTest(x, y float64) string {
	slide := p.currentSlide()
	for i := len(slide.Elements) - 1; i >= 0; i-- {
		el := &slide.Elements[i]
		if !el.Visible() {
			continue
		}
		if Resolve(el.Position, p.device).Contains(x, y) {
			return el.ID
		}
	}
	return ""
}

// HitTest returns the element under the viewport point (x, y), if any.
func (p *Player) HitTest(x, y float64) (string, bool) {
	lx, ly := p.ScreenToElementSpace(x, y)
	id := p.hitTest(lx, ly)
	return id, id != ""
}

// --- Pointer API ---

// Pointer feeds the sampled state of pointer id at viewport position
// (x, y). Hosts that poll input call it once per pointer per frame; press
// and release are detected from the change in pressed.
func (p *Player) Pointer(id int, x, y float64, pressed bool) {
	p.processPointer(id, x, y, pressed)
}

// PointerDown reports that pointer id was pressed at (x, y).
func (p *Player) PointerDown(id int, x, y float64) {
	p.processPointer(id, x, y, true)
}

// PointerMove reports that pointer id moved to (x, y).
func (p *Player) PointerMove(id int, x, y float64) {
	if id < 0 || id >= maxPointers {
		return
	}
	p.processPointer(id, x, y, p.pointers[id].down)
}

// PointerUp reports that pointer id was released at (x, y).
func (p *Player) PointerUp(id int, x, y float64) {
	p.processPointer(id, x, y, false)
}

// PointerLeave reports that pointer id left the surface. A press in flight
// is cancelled without resolving.
func (p *Player) PointerLeave(id int) {
	if p.disposed || id < 0 || id >= maxPointers {
		return
	}
	ps := &p.pointers[id]
	hover, target, panning := ps.hover, ps.target, ps.panning
	wasPinch := p.pinch.active && (id == p.pinch.pointer0 || id == p.pinch.pointer1)
	*ps = pointerState{}

	if wasPinch {
		p.endPinch()
	}
	if panning {
		p.transform.OnGestureEnd()
	}
	if g := p.gestures[target]; g != nil {
		g.Cancel()
	}
	if g := p.gestures[hover]; g != nil {
		g.Leave()
	}
}

// Wheel zooms by one step per notch around the viewport point (x, y).
// Negative dy zooms in. Notches are dropped while a pan or pinch holds the
// canvas.
func (p *Player) Wheel(dy, x, y float64) {
	if p.disposed || dy == 0 || p.pinch.active || p.transform.Busy() {
		return
	}
	factor := p.cfg.ZoomStep
	if dy > 0 {
		factor = 1 / factor
	}
	ox, oy := p.canvasOffset()
	if p.transform.ApplyZoom(p.transform.State().Scale*factor, x-ox, y-oy) {
		p.transform.OnGestureEnd()
	}
}

// processPointer runs the pointer state machine for a single pointer.
func (p *Player) processPointer(id int, sx, sy float64, pressed bool) {
	if p.disposed || id < 0 || id >= maxPointers {
		return
	}
	ps := &p.pointers[id]
	gen := p.slideGen
	lx, ly := p.ScreenToElementSpace(sx, sy)
	hit := p.hitTest(lx, ly)

	// Fire hover enter/leave when the hovered element changes.
	if hit != ps.hover {
		prev := ps.hover
		ps.hover = hit
		if g := p.gestures[prev]; g != nil {
			g.Leave()
		}
		if p.slideGen != gen {
			return
		}
		if g := p.gestures[hit]; g != nil {
			g.Enter()
		}
		if p.slideGen != gen {
			return
		}
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.startX, ps.startY = sx, sy
		ps.lastX, ps.lastY = sx, sy
		ps.target = hit
		ps.panning = false
		ps.pinched = false
		if p.detectPinch() {
			return
		}
		if g := p.gestures[hit]; g != nil {
			g.Down(lx, ly)
		}

	case !pressed && ps.down:
		target, panning, pinched := ps.target, ps.panning, ps.pinched
		ps.down = false
		ps.target = ""
		ps.panning = false
		ps.pinched = false
		if pinched {
			if p.pinch.active && (id == p.pinch.pointer0 || id == p.pinch.pointer1) {
				p.endPinch()
			}
			p.liftTouch(id)
			return
		}
		if panning {
			p.transform.OnGestureEnd()
		}
		if g := p.gestures[target]; g != nil {
			g.Up(lx, ly)
			if p.slideGen != gen {
				return
			}
		}
		p.liftTouch(id)

	case pressed && ps.down:
		if sx == ps.lastX && sy == ps.lastY {
			return
		}
		ps.lastX, ps.lastY = sx, sy
		if ps.pinched {
			if p.pinch.active {
				p.updatePinch()
			}
			return
		}
		g := p.gestures[ps.target]
		if g != nil {
			g.Move(lx, ly)
			if p.slideGen != gen {
				return
			}
		}
		p.maybePan(ps, g, sx, sy)

	default:
		ps.lastX, ps.lastY = sx, sy
	}
}

// liftTouch ends the hover of a touch pointer when its finger lifts, so the
// next touch on the same element enters it again. The mouse keeps hovering.
func (p *Player) liftTouch(id int) {
	ps := &p.pointers[id]
	if id == 0 || ps.hover == "" {
		return
	}
	hover := ps.hover
	ps.hover = ""
	if g := p.gestures[hover]; g != nil {
		g.Leave()
	}
}

// maybePan pans the canvas for presses on empty canvas, and for presses on
// an element whose tap was abandoned in view mode.
func (p *Player) maybePan(ps *pointerState, g *Disambiguator, sx, sy float64) {
	dx := sx - ps.startX
	dy := sy - ps.startY
	if !ps.panning {
		switch {
		case g == nil:
			if math.Sqrt(dx*dx+dy*dy) <= p.cfg.DragDeadZone {
				return
			}
		case p.mode != ModeView || !g.Abandoned():
			return
		}
	}
	if p.transform.ApplyPan(dx, dy) {
		ps.panning = true
	}
}

// --- Pinch detection ---

// detectPinch starts a pinch when exactly two pointers are down. The
// gestures those pointers started are cancelled.
func (p *Player) detectPinch() bool {
	var ids [2]int
	count := 0
	for i := range p.pointers {
		if p.pointers[i].down {
			if count < 2 {
				ids[count] = i
			}
			count++
		}
	}
	if count < 2 {
		return false
	}
	if p.pinch.active || count > 2 {
		// Extra fingers are ignored until they lift.
		for i := range p.pointers {
			ps := &p.pointers[i]
			if ps.down && i != p.pinch.pointer0 && i != p.pinch.pointer1 {
				ps.pinched = true
				ps.target = ""
			}
		}
		return true
	}

	for _, i := range ids {
		ps := &p.pointers[i]
		if g := p.gestures[ps.target]; g != nil {
			g.Cancel()
		}
		if ps.panning {
			p.transform.OnGestureEnd()
		}
		ps.target = ""
		ps.panning = false
		ps.pinched = true
	}
	ps0, ps1 := &p.pointers[ids[0]], &p.pointers[ids[1]]
	p.pinch = pinchState{
		active:      true,
		pointer0:    ids[0],
		pointer1:    ids[1],
		initialDist: math.Hypot(ps1.lastX-ps0.lastX, ps1.lastY-ps0.lastY),
		baseScale:   p.transform.State().Scale,
	}
	return true
}

func (p *Player) updatePinch() {
	ps0 := &p.pointers[p.pinch.pointer0]
	ps1 := &p.pointers[p.pinch.pointer1]
	dist := math.Hypot(ps1.lastX-ps0.lastX, ps1.lastY-ps0.lastY)
	if p.pinch.initialDist <= 0 {
		// Fingers started on the same spot; rebase on the first spread.
		p.pinch.initialDist = dist
		return
	}
	ox, oy := p.canvasOffset()
	cx := (ps0.lastX+ps1.lastX)/2 - ox
	cy := (ps0.lastY+ps1.lastY)/2 - oy
	p.transform.ApplyZoom(p.pinch.baseScale*dist/p.pinch.initialDist, cx, cy)
}

func (p *Player) endPinch() {
	p.pinch = pinchState{}
	p.transform.OnGestureEnd()
}

// resetPointers abandons every press in flight. Pointers still held are
// ignored until they lift.
func (p *Player) resetPointers() {
	ended := p.pinch.active
	for i := range p.pointers {
		ps := &p.pointers[i]
		if g := p.gestures[ps.target]; g != nil {
			g.Cancel()
		}
		if ps.panning {
			ended = true
		}
		ps.target = ""
		ps.hover = ""
		ps.panning = false
		ps.pinched = ps.down
	}
	p.pinch = pinchState{}
	if ended {
		p.transform.OnGestureEnd()
	}
}
