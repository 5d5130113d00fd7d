package overlay

import (
	"image"
	"math"
)

// rectAt returns the rectangle with origin loc and size size.
func rectAt(loc, size image.Point) image.Rectangle {
	return image.Rectangle{Min: loc, Max: loc.Add(size)}
}

// scaleRect converts a UI-space rectangle to screen space. Edges are rounded
// outward so scissor regions never lose a partially covered pixel.
func scaleRect(r image.Rectangle, scale float64) image.Rectangle {
	if scale == 1 {
		return r
	}
	return image.Rect(
		int(math.Floor(float64(r.Min.X)*scale)),
		int(math.Floor(float64(r.Min.Y)*scale)),
		int(math.Ceil(float64(r.Max.X)*scale)),
		int(math.Ceil(float64(r.Max.Y)*scale)),
	)
}

// unscalePoint converts a screen-space point to UI space.
func unscalePoint(x, y int, scale float64) image.Point {
	if scale == 1 || scale <= 0 {
		return image.Pt(x, y)
	}
	return image.Pt(int(math.Floor(float64(x)/scale)), int(math.Floor(float64(y)/scale)))
}

// unscaleSize converts a screen-space size to UI space.
func unscaleSize(w, h int, scale float64) image.Point {
	if scale == 1 || scale <= 0 {
		return image.Pt(w, h)
	}
	return image.Pt(int(float64(w)/scale), int(float64(h)/scale))
}
