package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/slidefx"
)

// keyBindings maps keyboard keys to sequencer navigation keys.
var keyBindings = []struct {
	key ebiten.Key
	nav slidefx.Key
}{
	{ebiten.KeyArrowRight, slidefx.KeyNext},
	{ebiten.KeySpace, slidefx.KeyNext},
	{ebiten.KeyPageDown, slidefx.KeyNext},
	{ebiten.KeyArrowLeft, slidefx.KeyPrevious},
	{ebiten.KeyPageUp, slidefx.KeyPrevious},
	{ebiten.KeyHome, slidefx.KeyHome},
	{ebiten.KeyEnd, slidefx.KeyEnd},
	{ebiten.KeyP, slidefx.KeyTogglePlay},
}

// Input polls ebiten mouse, touch, wheel and keyboard state and feeds it to
// a Player. Pointer 0 is the mouse; touches take slots 1-9.
type Input struct {
	touchMap     [slidefx.MaxPointers]ebiten.TouchID
	touchUsed    [slidefx.MaxPointers]bool
	touchLast    [slidefx.MaxPointers][2]float64
	prevTouchIDs []ebiten.TouchID
	mouseInside  bool
}

// NewInput creates an input poller.
func NewInput() *Input {
	return &Input{}
}

// Poll reads this frame's input into p. Real mouse input is skipped while
// synthetic events are queued.
func (in *Input) Poll(p *slidefx.Player) {
	if !p.Injecting() {
		in.pollMouse(p)
	}
	in.pollTouches(p)
	in.pollKeys(p)
}

func (in *Input) pollMouse(p *slidefx.Player) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	c := p.Canvas()
	o := p.CanvasOrigin()
	inside := x >= o.X && y >= o.Y && x <= o.X+c.Width && y <= o.Y+c.Height
	if in.mouseInside && !inside && !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		p.PointerLeave(0)
	}
	in.mouseInside = inside

	p.Pointer(0, x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))

	if _, wy := ebiten.Wheel(); wy != 0 {
		// Wheel up is positive in ebiten; Player zooms in on negative dy.
		p.Wheel(-wy, x, y)
	}
}

// pollTouches handles touch input (pointers 1-9).
func (in *Input) pollTouches(p *slidefx.Player) {
	touchIDs := ebiten.AppendTouchIDs(in.prevTouchIDs[:0])
	in.prevTouchIDs = touchIDs

	var activeSlots [slidefx.MaxPointers]bool
	for _, tid := range touchIDs {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		in.touchLast[slot] = [2]float64{float64(tx), float64(ty)}
		p.Pointer(slot, float64(tx), float64(ty), true)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < slidefx.MaxPointers; i++ {
		if in.touchUsed[i] && !activeSlots[i] {
			last := in.touchLast[i]
			p.Pointer(i, last[0], last[1], false)
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (in *Input) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < slidefx.MaxPointers; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < slidefx.MaxPointers; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}

func (in *Input) pollKeys(p *slidefx.Player) {
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			p.HandleKey(b.nav)
		}
	}
	t := p.Transform()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		t.ZoomIn()
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		t.ZoomOut()
	case inpututil.IsKeyJustPressed(ebiten.Key0):
		t.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		p.Sequencer().Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		if p.Mode() == slidefx.ModeView {
			p.SetMode(slidefx.ModeEdit)
		} else {
			p.SetMode(slidefx.ModeView)
		}
	}
}
