package slidefx

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultRect is returned by Resolve when neither the requested device class
// nor desktop carries a rectangle.
var DefaultRect = Rect{X: 0, Y: 0, Width: 100, Height: 100}

// Width breakpoints used by DeviceClassForWidth.
const (
	// TabletMinWidth is the narrowest viewport treated as a tablet.
	TabletMinWidth = 768
	// DesktopMinWidth is the narrowest viewport treated as a desktop.
	DesktopMinWidth = 1024
)

// Canvas ratios applied when deriving tablet and mobile layouts from desktop.
const (
	tabletCanvasRatio  = 0.75
	mobileCanvasRatio  = 0.5
	tabletElementRatio = 0.9
	mobileElementRatio = 0.8
)

// CanvasRatio is the size of the class's authoring canvas relative to the
// desktop reference canvas.
func (d DeviceClass) CanvasRatio() float64 {
	switch d {
	case DeviceTablet:
		return tabletCanvasRatio
	case DeviceMobile:
		return mobileCanvasRatio
	}
	return 1
}

// DeviceClassForWidth picks the device class for a viewport width.
func DeviceClassForWidth(width float64) DeviceClass {
	switch {
	case width < TabletMinWidth:
		return DeviceMobile
	case width < DesktopMinWidth:
		return DeviceTablet
	default:
		return DeviceDesktop
	}
}

// Resolve returns the rectangle for class, falling back to desktop and then
// to DefaultRect. Negative or non-finite sizes become zero. It never mutates
// pos.
func Resolve(pos ResponsivePosition, class DeviceClass) Rect {
	r := pos.lookup(class)
	if r == nil {
		r = pos.Desktop
	}
	if r == nil {
		return DefaultRect
	}
	out := *r
	out.Width = sizeOrZero(out.Width)
	out.Height = sizeOrZero(out.Height)
	return out
}

func sizeOrZero(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 1) {
		return 0
	}
	return v
}

// SizeTier names one of the fixed legacy hotspot squares.
type SizeTier string

const (
	SizeXSmall SizeTier = "x-small"
	SizeSmall  SizeTier = "small"
	SizeMedium SizeTier = "medium"
	SizeLarge  SizeTier = "large"
)

// Pixels returns the edge length of the tier's square and whether the tier
// is known. Unknown tiers report the medium size.
func (t SizeTier) Pixels() (float64, bool) {
	switch t {
	case SizeXSmall:
		return 24, true
	case SizeSmall:
		return 32, true
	case SizeMedium:
		return 40, true
	case SizeLarge:
		return 48, true
	}
	return 40, false
}

// MigrateLegacyPercentage converts a percentage coordinate (0-100) and a size
// tier into concrete rectangles for every device class. The square is
// centred on the percentage point. Tablet and mobile derive from scaled
// canvases (0.75x, 0.5x) and scaled squares (0.9x, 0.8x).
func MigrateLegacyPercentage(xPct, yPct float64, tier SizeTier, canvasWidth, canvasHeight float64) ResponsivePosition {
	size, _ := tier.Pixels()
	desktop := centeredSquare(xPct, yPct, size, canvasWidth, canvasHeight)
	tablet := centeredSquare(xPct, yPct, size*tabletElementRatio,
		canvasWidth*tabletCanvasRatio, canvasHeight*tabletCanvasRatio)
	mobile := centeredSquare(xPct, yPct, size*mobileElementRatio,
		canvasWidth*mobileCanvasRatio, canvasHeight*mobileCanvasRatio)
	return ResponsivePosition{Desktop: &desktop, Tablet: &tablet, Mobile: &mobile}
}

func centeredSquare(xPct, yPct, size, w, h float64) Rect {
	cx := xPct / 100 * w
	cy := yPct / 100 * h
	return Rect{
		X:      math.Round(cx - size/2),
		Y:      math.Round(cy - size/2),
		Width:  math.Round(size),
		Height: math.Round(size),
	}
}

// AspectRatio is a canvas width:height ratio kept as integers so fitting
// stays exact.
type AspectRatio struct {
	W, H int
}

// Common presets.
var (
	Aspect16x9 = AspectRatio{16, 9}
	Aspect4x3  = AspectRatio{4, 3}
	Aspect3x2  = AspectRatio{3, 2}
	Aspect1x1  = AspectRatio{1, 1}
	Aspect9x16 = AspectRatio{9, 16}
)

// DefaultAspectRatio is used when a document names none or an invalid one.
var DefaultAspectRatio = Aspect16x9

func (a AspectRatio) String() string {
	return strconv.Itoa(a.W) + ":" + strconv.Itoa(a.H)
}

// Valid reports whether both terms are positive.
func (a AspectRatio) Valid() bool {
	return a.W > 0 && a.H > 0
}

// ParseAspectRatio parses "W:H" (also "WxH" or "W/H").
func ParseAspectRatio(s string) (AspectRatio, error) {
	s = strings.TrimSpace(s)
	sep := strings.IndexAny(s, ":x/")
	if sep < 0 {
		return AspectRatio{}, fmt.Errorf("aspect ratio %q: want W:H", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(s[:sep]))
	if err != nil {
		return AspectRatio{}, fmt.Errorf("aspect ratio %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(s[sep+1:]))
	if err != nil {
		return AspectRatio{}, fmt.Errorf("aspect ratio %q: %w", s, err)
	}
	a := AspectRatio{W: w, H: h}
	if !a.Valid() {
		return AspectRatio{}, fmt.Errorf("aspect ratio %q: terms must be positive", s)
	}
	return a, nil
}

// CanvasSize is the concrete canvas rectangle size and the uniform factor
// that maps reference-canvas pixels onto it.
type CanvasSize struct {
	Width, Height float64
	Scale         float64
}

// ScaleForCanvas fits the largest ratio-shaped rectangle into the available
// space minus padding on every side. Scale is Width over referenceWidth.
// Invalid ratios use DefaultAspectRatio.
func ScaleForCanvas(ratio AspectRatio, availableWidth, availableHeight, padding, referenceWidth float64) CanvasSize {
	if !ratio.Valid() {
		ratio = DefaultAspectRatio
	}
	innerW := math.Max(0, availableWidth-2*padding)
	innerH := math.Max(0, availableHeight-2*padding)
	rw, rh := float64(ratio.W), float64(ratio.H)

	var w, h float64
	if innerW*rh > innerH*rw {
		h = innerH
		w = h * rw / rh
	} else {
		w = innerW
		h = w * rh / rw
	}
	var scale float64
	if referenceWidth > 0 {
		scale = w / referenceWidth
	}
	return CanvasSize{Width: w, Height: h, Scale: scale}
}
