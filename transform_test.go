package overlay

import (
	"image"
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

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func assertPoint(t *testing.T, name string, m [6]float64, x, y, wantX, wantY float64) {
	t.Helper()
	gx, gy := transformPoint(m, x, y)
	if math.Abs(gx-wantX) > 1e-6 || math.Abs(gy-wantY) > 1e-6 {
		t.Errorf("%s: (%v, %v) -> (%v, %v), want (%v, %v)", name, x, y, gx, gy, wantX, wantY)
	}
}

// --- Affine helpers ---

func TestMultiplyAffineIdentity(t *testing.T) {
	m := [6]float64{2, 0.5, -1, 3, 10, 20}
	assertMatrix(t, "I*m", multiplyAffine(identityTransform, m), m)
	assertMatrix(t, "m*I", multiplyAffine(m, identityTransform), m)
}

func TestMultiplyAffineOrder(t *testing.T) {
	// Scale then translate: the translation is not scaled.
	m := multiplyAffine(translateAffine(5, 7), scaleAffine(2, 2))
	assertPoint(t, "translate*scale", m, 1, 1, 7, 9)

	// Translate then scale: the translation is scaled.
	m = multiplyAffine(scaleAffine(2, 2), translateAffine(5, 7))
	assertPoint(t, "scale*translate", m, 1, 1, 12, 16)
}

func TestRotateAffine90(t *testing.T) {
	m := rotateAffine(math.Pi / 2)
	assertPoint(t, "rotate", m, 1, 0, 0, 1)
	assertPoint(t, "rotate", m, 0, 1, -1, 0)
}

// --- drawTransform ---

func TestDrawTransformStretch(t *testing.T) {
	op := DrawOp{Dst: image.Rect(10, 20, 110, 70)}
	m := drawTransform(&op, 50, 25)
	assertPoint(t, "top-left", m, 0, 0, 10, 20)
	assertPoint(t, "bottom-right", m, 50, 25, 110, 70)
}

func TestDrawTransformZeroSource(t *testing.T) {
	op := DrawOp{Dst: image.Rect(0, 0, 10, 10)}
	assertMatrix(t, "zero", drawTransform(&op, 0, 10), [6]float64{})
}

func TestDrawTransformFlip(t *testing.T) {
	tests := []struct {
		name  string
		flip  Flip
		wantX float64
		wantY float64
	}{
		{"none", FlipNone, 0, 0},
		{"horizontal", FlipHorizontal, 40, 0},
		{"vertical", FlipVertical, 0, 30},
		{"both", FlipHorizontal | FlipVertical, 40, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := DrawOp{Dst: image.Rect(0, 0, 40, 30), Flip: tt.flip}
			m := drawTransform(&op, 4, 3)
			assertPoint(t, "source origin", m, 0, 0, tt.wantX, tt.wantY)
		})
	}
}

func TestDrawTransformRotationAroundOrigin(t *testing.T) {
	op := DrawOp{
		Dst:      image.Rect(100, 100, 120, 120),
		Rotation: math.Pi,
		Origin:   image.Pt(10, 10),
	}
	m := drawTransform(&op, 20, 20)
	// The origin stays put; opposite corners swap.
	assertPoint(t, "origin", m, 10, 10, 110, 110)
	assertPoint(t, "top-left", m, 0, 0, 120, 120)
	assertPoint(t, "bottom-right", m, 20, 20, 100, 100)
}

func TestGeoMFromAffine(t *testing.T) {
	src := [6]float64{2, 0.5, -1, 3, 10, 20}
	g := geoMFromAffine(src)
	x, y := g.Apply(1, 2)
	wx, wy := transformPoint(src, 1, 2)
	assertNear(t, "x", x, wx)
	assertNear(t, "y", y, wy)
}

// --- Scaling helpers ---

func TestScaleRectRoundsOutward(t *testing.T) {
	got := scaleRect(image.Rect(1, 1, 3, 3), 1.5)
	want := image.Rect(1, 1, 5, 5)
	if got != want {
		t.Errorf("scaleRect = %v, want %v", got, want)
	}
	if r := image.Rect(2, 3, 4, 5); scaleRect(r, 1) != r {
		t.Error("scale 1 should be a no-op")
	}
}

func TestUnscalePoint(t *testing.T) {
	if got := unscalePoint(301, 99, 2); got != image.Pt(150, 49) {
		t.Errorf("unscalePoint = %v, want (150,49)", got)
	}
	if got := unscalePoint(7, 9, 0); got != image.Pt(7, 9) {
		t.Errorf("non-positive scale should be ignored, got %v", got)
	}
}
