package slidefx

import (
	"math"
	"testing"
)

func rectPtr(x, y, w, h float64) *Rect {
	return &Rect{X: x, Y: y, Width: w, Height: h}
}

func TestResolveFallback(t *testing.T) {
	desktop := rectPtr(10, 20, 30, 40)
	mobile := rectPtr(1, 2, 3, 4)
	tests := []struct {
		name  string
		pos   ResponsivePosition
		class DeviceClass
		want  Rect
	}{
		{"exact class", ResponsivePosition{Desktop: desktop, Mobile: mobile}, DeviceMobile, *mobile},
		{"falls back to desktop", ResponsivePosition{Desktop: desktop, Mobile: mobile}, DeviceTablet, *desktop},
		{"desktop itself", ResponsivePosition{Desktop: desktop}, DeviceDesktop, *desktop},
		{"nothing set", ResponsivePosition{}, DeviceMobile, DefaultRect},
		{"only mobile asked for desktop", ResponsivePosition{Mobile: mobile}, DeviceDesktop, DefaultRect},
		{"negative size clamped", ResponsivePosition{Desktop: rectPtr(5, 5, -10, 20)}, DeviceDesktop, Rect{X: 5, Y: 5, Width: 0, Height: 20}},
		{"nan size zeroed", ResponsivePosition{Desktop: rectPtr(5, 5, math.NaN(), 20)}, DeviceDesktop, Rect{X: 5, Y: 5, Width: 0, Height: 20}},
		{"infinite size zeroed", ResponsivePosition{Desktop: rectPtr(5, 5, 10, math.Inf(1))}, DeviceDesktop, Rect{X: 5, Y: 5, Width: 10, Height: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.pos, tt.class); got != tt.want {
				t.Errorf("Resolve = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveDoesNotMutate(t *testing.T) {
	pos := ResponsivePosition{Desktop: rectPtr(0, 0, -5, -5)}
	Resolve(pos, DeviceDesktop)
	if pos.Desktop.Width != -5 || pos.Tablet != nil {
		t.Errorf("Resolve mutated its input: %+v", pos)
	}
}

func TestDeviceClassForWidth(t *testing.T) {
	tests := []struct {
		width float64
		want  DeviceClass
	}{
		{320, DeviceMobile},
		{767, DeviceMobile},
		{768, DeviceTablet},
		{1023, DeviceTablet},
		{1024, DeviceDesktop},
		{2560, DeviceDesktop},
	}
	for _, tt := range tests {
		if got := DeviceClassForWidth(tt.width); got != tt.want {
			t.Errorf("DeviceClassForWidth(%v) = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestCanvasRatio(t *testing.T) {
	assertNear(t, "desktop", DeviceDesktop.CanvasRatio(), 1)
	assertNear(t, "tablet", DeviceTablet.CanvasRatio(), 0.75)
	assertNear(t, "mobile", DeviceMobile.CanvasRatio(), 0.5)
}

func TestMigrateLegacyPercentage(t *testing.T) {
	pos := MigrateLegacyPercentage(50, 50, SizeMedium, 1200, 800)
	tests := []struct {
		name string
		got  *Rect
		want Rect
	}{
		{"desktop", pos.Desktop, Rect{X: 580, Y: 380, Width: 40, Height: 40}},
		{"tablet", pos.Tablet, Rect{X: 432, Y: 282, Width: 36, Height: 36}},
		{"mobile", pos.Mobile, Rect{X: 284, Y: 184, Width: 32, Height: 32}},
	}
	for _, tt := range tests {
		if tt.got == nil {
			t.Fatalf("%s rectangle missing", tt.name)
		}
		if *tt.got != tt.want {
			t.Errorf("%s = %+v, want %+v", tt.name, *tt.got, tt.want)
		}
	}
}

func TestMigrateLegacyCentresOnPoint(t *testing.T) {
	pos := MigrateLegacyPercentage(0, 100, SizeLarge, 1000, 500)
	c := pos.Desktop.Center()
	assertNear(t, "centre x", c.X, 0)
	assertNear(t, "centre y", c.Y, 500)
}

func TestSizeTierPixels(t *testing.T) {
	tests := []struct {
		tier  SizeTier
		px    float64
		known bool
	}{
		{SizeXSmall, 24, true},
		{SizeSmall, 32, true},
		{SizeMedium, 40, true},
		{SizeLarge, 48, true},
		{"huge", 40, false},
	}
	for _, tt := range tests {
		px, known := tt.tier.Pixels()
		if px != tt.px || known != tt.known {
			t.Errorf("%q.Pixels() = %v, %v; want %v, %v", tt.tier, px, known, tt.px, tt.known)
		}
	}
}

func TestParseAspectRatio(t *testing.T) {
	tests := []struct {
		in      string
		want    AspectRatio
		wantErr bool
	}{
		{"16:9", Aspect16x9, false},
		{" 4x3 ", Aspect4x3, false},
		{"3/2", Aspect3x2, false},
		{"9 : 16", Aspect9x16, false},
		{"16", AspectRatio{}, true},
		{"a:b", AspectRatio{}, true},
		{"0:1", AspectRatio{}, true},
		{"-4:3", AspectRatio{}, true},
	}
	for _, tt := range tests {
		got, err := ParseAspectRatio(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAspectRatio(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAspectRatio(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if s := Aspect16x9.String(); s != "16:9" {
		t.Errorf("String() = %q", s)
	}
}

func TestScaleForCanvas(t *testing.T) {
	tests := []struct {
		name           string
		ratio          AspectRatio
		w, h, pad, ref float64
		want           CanvasSize
	}{
		{"exact fit", Aspect16x9, 800, 450, 0, 1200, CanvasSize{800, 450, 800.0 / 1200}},
		{"height bound", Aspect16x9, 1000, 450, 0, 1200, CanvasSize{800, 450, 800.0 / 1200}},
		{"width bound", Aspect16x9, 800, 900, 0, 1200, CanvasSize{800, 450, 800.0 / 1200}},
		{"padding", Aspect16x9, 840, 490, 20, 1200, CanvasSize{800, 450, 800.0 / 1200}},
		{"default viewport", Aspect3x2, 1200, 800, 0, 1200, CanvasSize{1200, 800, 1}},
		{"portrait", Aspect9x16, 1000, 1600, 0, 1200, CanvasSize{900, 1600, 0.75}},
		{"invalid ratio", AspectRatio{}, 1600, 900, 0, 1600, CanvasSize{1600, 900, 1}},
		{"padding larger than space", Aspect1x1, 10, 10, 20, 100, CanvasSize{0, 0, 0}},
		{"no reference", Aspect1x1, 100, 100, 0, 0, CanvasSize{100, 100, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScaleForCanvas(tt.ratio, tt.w, tt.h, tt.pad, tt.ref)
			assertNear(t, "width", got.Width, tt.want.Width)
			assertNear(t, "height", got.Height, tt.want.Height)
			assertNear(t, "scale", got.Scale, tt.want.Scale)
		})
	}
}

func TestRectHelpers(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	if !r.Contains(10, 20) || !r.Contains(60, 45) {
		t.Error("Contains rejected an inside point")
	}
	if r.Contains(111, 45) || r.Contains(60, 19) {
		t.Error("Contains accepted an outside point")
	}
	if got := r.Scale(0.5); got != (Rect{X: 5, Y: 10, Width: 50, Height: 25}) {
		t.Errorf("Scale = %+v", got)
	}
	if c := r.Center(); c != (Vec2{X: 60, Y: 45}) {
		t.Errorf("Center = %+v", c)
	}
}
