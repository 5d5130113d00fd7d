package overlay

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Affine matrices use the layout [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func translateAffine(x, y float64) [6]float64 { return [6]float64{1, 0, 0, 1, x, y} }

func scaleAffine(sx, sy float64) [6]float64 { return [6]float64{sx, 0, 0, sy, 0, 0} }

func rotateAffine(r float64) [6]float64 {
	sin, cos := math.Sincos(r)
	return [6]float64{cos, sin, -sin, cos, 0, 0}
}

// drawTransform maps a srcW x srcH texture onto op.Dst in UI space.
//
// Composition order:
//
//	Scale(dst/src) -> Flip -> Translate(-Origin) -> Rotate -> Translate(Dst.Min + Origin)
func drawTransform(op *DrawOp, srcW, srcH int) [6]float64 {
	if srcW == 0 || srcH == 0 {
		return [6]float64{0, 0, 0, 0, 0, 0}
	}
	dw := float64(op.Dst.Dx())
	dh := float64(op.Dst.Dy())
	m := scaleAffine(dw/float64(srcW), dh/float64(srcH))
	if op.Flip&FlipHorizontal != 0 {
		m = multiplyAffine(translateAffine(dw, 0), multiplyAffine(scaleAffine(-1, 1), m))
	}
	if op.Flip&FlipVertical != 0 {
		m = multiplyAffine(translateAffine(0, dh), multiplyAffine(scaleAffine(1, -1), m))
	}
	ox, oy := float64(op.Origin.X), float64(op.Origin.Y)
	if op.Rotation != 0 {
		m = multiplyAffine(translateAffine(-ox, -oy), m)
		m = multiplyAffine(rotateAffine(op.Rotation), m)
		m = multiplyAffine(translateAffine(ox, oy), m)
	}
	return multiplyAffine(translateAffine(float64(op.Dst.Min.X), float64(op.Dst.Min.Y)), m)
}

// geoMFromAffine converts a [6]float64 transform into an ebiten.GeoM.
func geoMFromAffine(t [6]float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, t[0])
	m.SetElement(1, 0, t[1])
	m.SetElement(0, 1, t[2])
	m.SetElement(1, 1, t[3])
	m.SetElement(0, 2, t[4])
	m.SetElement(1, 2, t[5])
	return m
}
