package slidefx

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TransformState is the zoom and pan of one canvas. Translation is measured
// in container pixels from the centred position.
type TransformState struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
	IsZooming  bool
	IsPanning  bool
}

// snapBackAnim holds the tweens easing the state back inside its bounds.
type snapBackAnim struct {
	scale *gween.Tween
	x     *gween.Tween
	y     *gween.Tween
	to    TransformState
}

// TransformEngine owns the TransformState of one canvas under pinch-zoom
// and pan gestures. Every mutation keeps scale within [MinScale, MaxScale]
// and translation within Bounds(scale).
type TransformEngine struct {
	state TransformState

	minScale float64
	maxScale float64
	zoomStep float64
	padding  float64
	snapDur  time.Duration
	epsilon  float64

	width  float64
	height float64

	arbiter *Arbiter
	claim   *Claim

	zoomSnap   TransformState
	zoomActive bool
	panSnapX   float64
	panSnapY   float64
	panActive  bool
	snap       *snapBackAnim
	onChange   func(TransformState)
}

// NewTransformEngine creates an engine at scale 1 with no translation.
// arbiter may be nil, in which case gestures never compete.
func NewTransformEngine(cfg Config, arbiter *Arbiter) *TransformEngine {
	return &TransformEngine{
		state:    TransformState{Scale: 1},
		minScale: cfg.MinScale,
		maxScale: cfg.MaxScale,
		zoomStep: cfg.ZoomStep,
		padding:  cfg.PanPadding,
		snapDur:  cfg.SnapBackDuration,
		epsilon:  cfg.SnapBackEpsilon,
		arbiter:  arbiter,
	}
}

// State returns a copy of the current state.
func (e *TransformEngine) State() TransformState {
	return e.state
}

// SetContainerSize sets the size the boundary function is evaluated
// against. Outside a gesture, a state left out of bounds springs back.
func (e *TransformEngine) SetContainerSize(width, height float64) {
	e.width = math.Max(0, width)
	e.height = math.Max(0, height)
	if !e.zoomActive && !e.panActive {
		e.settle()
	}
}

// ContainerSize returns the size set with SetContainerSize.
func (e *TransformEngine) ContainerSize() (float64, float64) {
	return e.width, e.height
}

// OnChange registers fn to be called after every state change.
func (e *TransformEngine) OnChange(fn func(TransformState)) {
	e.onChange = fn
}

// Bounds returns the largest allowed |translate| on each axis at scale s:
// the zoomed-in overflow on each side plus the pan padding.
func (e *TransformEngine) Bounds(s float64) (maxX, maxY float64) {
	maxX = math.Max(0, (e.width*s-e.width)/2+e.padding)
	maxY = math.Max(0, (e.height*s-e.height)/2+e.padding)
	return maxX, maxY
}

func (e *TransformEngine) clampScale(s float64) float64 {
	return math.Max(e.minScale, math.Min(s, e.maxScale))
}

func (e *TransformEngine) clampTranslate(tx, ty, s float64) (float64, float64) {
	maxX, maxY := e.Bounds(s)
	return math.Max(-maxX, math.Min(tx, maxX)), math.Max(-maxY, math.Min(ty, maxY))
}

// clamped returns the projection of st into the allowed region.
func (e *TransformEngine) clamped(st TransformState) TransformState {
	st.Scale = e.clampScale(st.Scale)
	st.TranslateX, st.TranslateY = e.clampTranslate(st.TranslateX, st.TranslateY, st.Scale)
	return st
}

// ApplyZoom sets the scale during a pinch gesture, keeping the canvas point
// under centre (in container pixels) stationary. The first call of a gesture
// snapshots the state; translation is derived from the snapshot:
//
//	translate = snapshot + (containerCentre - centre) * (scale/snapshotScale - 1)
//
// It reports false when the zoom gesture could not claim the input stream.
func (e *TransformEngine) ApplyZoom(scale, centerX, centerY float64) bool {
	if !e.acquire(GestureZoom) {
		return false
	}
	e.stopSnapBack()
	if !e.zoomActive {
		e.zoomSnap = e.state
		e.zoomActive = true
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = e.zoomSnap.Scale
	}
	change := scale / e.zoomSnap.Scale
	relX := e.width/2 - centerX
	relY := e.height/2 - centerY
	tx := e.zoomSnap.TranslateX + relX*(change-1)
	ty := e.zoomSnap.TranslateY + relY*(change-1)

	s := e.clampScale(scale)
	e.state.Scale = s
	e.state.TranslateX, e.state.TranslateY = e.clampTranslate(tx, ty, s)
	e.state.IsZooming = true
	e.changed()
	return true
}

// ApplyPan sets the translation to the gesture-start translation plus the
// cumulative delta, clamped at the current scale.
func (e *TransformEngine) ApplyPan(deltaX, deltaY float64) bool {
	if !e.acquire(GesturePan) {
		return false
	}
	e.stopSnapBack()
	if !e.panActive {
		e.panSnapX, e.panSnapY = e.state.TranslateX, e.state.TranslateY
		e.panActive = true
	}
	e.state.TranslateX, e.state.TranslateY = e.clampTranslate(
		e.panSnapX+deltaX, e.panSnapY+deltaY, e.state.Scale)
	e.state.IsPanning = true
	e.changed()
	return true
}

// OnGestureEnd finishes a zoom or pan gesture, releases the input stream
// and springs back if the state sits outside its bounds.
func (e *TransformEngine) OnGestureEnd() {
	e.endGesture()
	e.settle()
}

func (e *TransformEngine) endGesture() {
	if e.claim != nil {
		e.claim.Release()
		e.claim = nil
	}
	wasActive := e.state.IsZooming || e.state.IsPanning
	e.zoomActive = false
	e.panActive = false
	e.state.IsZooming = false
	e.state.IsPanning = false
	if wasActive {
		e.changed()
	}
}

// Busy reports whether a zoom or pan gesture is in progress.
func (e *TransformEngine) Busy() bool {
	return e.zoomActive || e.panActive
}

// ZoomIn multiplies the scale by the zoom step.
func (e *TransformEngine) ZoomIn() {
	e.setScale(e.state.Scale * e.zoomStep)
}

// ZoomOut divides the scale by the zoom step.
func (e *TransformEngine) ZoomOut() {
	e.setScale(e.state.Scale / e.zoomStep)
}

func (e *TransformEngine) setScale(s float64) {
	e.stopSnapBack()
	e.state.Scale = e.clampScale(s)
	e.state.TranslateX, e.state.TranslateY = e.clampTranslate(e.state.TranslateX, e.state.TranslateY, e.state.Scale)
	e.changed()
}

// Reset returns to scale 1 with no translation, abandoning any gesture or
// spring-back in flight.
func (e *TransformEngine) Reset() {
	e.stopSnapBack()
	if e.claim != nil {
		e.claim.Release()
		e.claim = nil
	}
	e.zoomActive = false
	e.panActive = false
	e.state = e.clamped(TransformState{Scale: 1})
	e.changed()
}

// Animating reports whether a spring-back is in flight.
func (e *TransformEngine) Animating() bool {
	return e.snap != nil
}

// Update advances the spring-back by dt. Call once per frame.
func (e *TransformEngine) Update(dt time.Duration) {
	if e.snap == nil {
		return
	}
	sec := float32(dt.Seconds())
	s, doneS := e.snap.scale.Update(sec)
	x, doneX := e.snap.x.Update(sec)
	y, doneY := e.snap.y.Update(sec)
	if doneS && doneX && doneY {
		to := e.snap.to
		e.snap = nil
		e.state.Scale = to.Scale
		e.state.TranslateX = to.TranslateX
		e.state.TranslateY = to.TranslateY
	} else {
		e.state.Scale = float64(s)
		e.state.TranslateX = float64(x)
		e.state.TranslateY = float64(y)
	}
	e.changed()
}

// settle starts a spring-back when the state differs from its clamped
// projection by more than epsilon.
func (e *TransformEngine) settle() {
	target := e.clamped(e.state)
	if math.Abs(target.Scale-e.state.Scale) <= e.epsilon &&
		math.Abs(target.TranslateX-e.state.TranslateX) <= e.epsilon &&
		math.Abs(target.TranslateY-e.state.TranslateY) <= e.epsilon {
		if target != e.state {
			e.state = target
			e.changed()
		}
		return
	}
	e.stopSnapBack()
	if e.snapDur <= 0 {
		e.state = target
		e.changed()
		return
	}
	dur := float32(e.snapDur.Seconds())
	e.snap = &snapBackAnim{
		scale: gween.New(float32(e.state.Scale), float32(target.Scale), dur, ease.OutCubic),
		x:     gween.New(float32(e.state.TranslateX), float32(target.TranslateX), dur, ease.OutCubic),
		y:     gween.New(float32(e.state.TranslateY), float32(target.TranslateY), dur, ease.OutCubic),
		to:    target,
	}
}

func (e *TransformEngine) stopSnapBack() {
	e.snap = nil
}

// acquire claims the input stream for kind unless a claim is already held.
func (e *TransformEngine) acquire(kind GestureKind) bool {
	if e.claim.Active() {
		return true
	}
	if e.arbiter == nil {
		return true
	}
	c, ok := e.arbiter.Claim(e, kind, e.onPreempted)
	if !ok {
		return false
	}
	e.claim = c
	return true
}

func (e *TransformEngine) onPreempted() {
	e.claim = nil
	e.endGesture()
}

func (e *TransformEngine) changed() {
	if e.onChange != nil {
		e.onChange(e.state)
	}
}

// CanvasToScreen maps a point on the untransformed canvas to container pixels.
func (e *TransformEngine) CanvasToScreen(x, y float64) (float64, float64) {
	return transformPoint(viewMatrix(e.state, e.width, e.height), x, y)
}

// ScreenToCanvas maps container pixels back onto the untransformed canvas.
func (e *TransformEngine) ScreenToCanvas(x, y float64) (float64, float64) {
	return transformPoint(invertAffine(viewMatrix(e.state, e.width, e.height)), x, y)
}
