package slidefx

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func TestViewMatrixIdentityAtRest(t *testing.T) {
	got := viewMatrix(TransformState{Scale: 1}, 800, 600)
	assertMatrix(t, "rest", got, identityTransform)
}

func TestViewMatrixScalesAboutCentre(t *testing.T) {
	m := viewMatrix(TransformState{Scale: 2}, 800, 600)
	x, y := transformPoint(m, 400, 300)
	assertNear(t, "centre x", x, 400)
	assertNear(t, "centre y", y, 300)

	x, y = transformPoint(m, 0, 0)
	assertNear(t, "corner x", x, -400)
	assertNear(t, "corner y", y, -300)
}

func TestViewMatrixTranslate(t *testing.T) {
	m := viewMatrix(TransformState{Scale: 1, TranslateX: 25, TranslateY: -10}, 800, 600)
	x, y := transformPoint(m, 100, 100)
	assertNear(t, "x", x, 125)
	assertNear(t, "y", y, 90)
}

func TestMultiplyAffineOrder(t *testing.T) {
	translate := [6]float64{1, 0, 0, 1, 10, 20}
	scale := [6]float64{2, 0, 0, 2, 0, 0}

	// translate * scale: scale first, then translate.
	x, y := transformPoint(multiplyAffine(translate, scale), 1, 1)
	assertNear(t, "x", x, 12)
	assertNear(t, "y", y, 22)

	x, y = transformPoint(multiplyAffine(scale, translate), 1, 1)
	assertNear(t, "x", x, 22)
	assertNear(t, "y", y, 42)
}

func TestInvertAffineRoundTrip(t *testing.T) {
	m := multiplyAffine([6]float64{1, 0, 0, 1, 37, -12}, viewMatrix(TransformState{Scale: 1.7, TranslateX: 5}, 640, 360))
	inv := invertAffine(m)
	assertMatrix(t, "m*inv", multiplyAffine(m, inv), identityTransform)

	x, y := transformPoint(m, 123, 45)
	x, y = transformPoint(inv, x, y)
	assertNear(t, "x", x, 123)
	assertNear(t, "y", y, 45)
}

func TestInvertAffineSingular(t *testing.T) {
	got := invertAffine([6]float64{0, 0, 0, 0, 5, 5})
	assertMatrix(t, "singular", got, identityTransform)
}

func TestTransformRect(t *testing.T) {
	m := [6]float64{2, 0, 0, 2, 10, 20}
	got := transformRect(m, Rect{X: 5, Y: 5, Width: 10, Height: 20})
	want := Rect{X: 20, Y: 30, Width: 20, Height: 40}
	if got != want {
		t.Errorf("transformRect = %+v, want %+v", got, want)
	}
}
