package overlay

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Trail draws a textured ribbon along a path in game space, turned toward the
// camera at each point. The texture tiles along the path every TileLength
// world units.
type Trail struct {
	Texture    *ebiten.Image
	Width      float32 // world units
	Tint       Color
	TileLength float32

	points []mgl32.Vec3

	// Rebuilt on HandleRebuild.
	world  []mgl32.Vec3
	cumLen []float32

	// Rebuilt every draw.
	verts   []ebiten.Vertex
	indices []uint16
	visible []bool
}

// NewTrail creates an entity drawing a ribbon through points, given relative
// to the entity's position.
func NewTrail(tex *ebiten.Image, points []mgl32.Vec3, width float32) *Entity {
	tr := &Trail{
		Texture:    tex,
		Width:      width,
		Tint:       ColorWhite,
		TileLength: 1,
	}
	tr.points = append(tr.points, points...)
	e := NewEntity(tr)
	e.Name = "trail"
	return e
}

// Points returns a copy of the path.
func (tr *Trail) Points() []mgl32.Vec3 {
	return append([]mgl32.Vec3(nil), tr.points...)
}

// SetPoints replaces the path of the trail owned by e.
func (tr *Trail) SetPoints(e *Entity, points []mgl32.Vec3) {
	tr.points = append(tr.points[:0], points...)
	e.Invalidate()
}

// HandleRebuild resolves the path to world space and its running length.
func (tr *Trail) HandleRebuild(e *Entity) {
	n := len(tr.points)
	if cap(tr.world) < n {
		tr.world = make([]mgl32.Vec3, n)
		tr.cumLen = make([]float32, n)
	}
	tr.world = tr.world[:n]
	tr.cumLen = tr.cumLen[:n]
	if n == 0 {
		return
	}

	origin := e.RenderPosition()
	s := e.Scale()
	for i, p := range tr.points {
		tr.world[i] = origin.Add(p.Mul(s))
	}
	tr.cumLen[0] = 0
	for i := 1; i < n; i++ {
		tr.cumLen[i] = tr.cumLen[i-1] + tr.world[i].Sub(tr.world[i-1]).Len()
	}
}

func (tr *Trail) Update(*Entity, GameTime) {}

// Draw projects the ribbon and draws the segments whose ends are both in
// front of the camera.
func (tr *Trail) Draw(e *Entity, dc *DrawContext3D) {
	n := len(tr.world)
	if n < 2 {
		return
	}
	alpha := float32(tr.Tint.A) * e.AbsoluteOpacity()
	if alpha <= 0 {
		return
	}

	if cap(tr.verts) < n*2 {
		tr.verts = make([]ebiten.Vertex, n*2)
		tr.visible = make([]bool, n)
	}
	tr.verts = tr.verts[:n*2]
	tr.visible = tr.visible[:n]
	tr.indices = tr.indices[:0]

	tex := tr.Texture
	if tex == nil {
		tex = WhitePixel()
	}
	texH := float32(tex.Bounds().Dy())
	texW := float32(tex.Bounds().Dx())
	tile := tr.TileLength
	if tile <= 0 {
		tile = 1
	}

	halfW := tr.Width * e.Scale() / 2
	cr := float32(tr.Tint.R) * alpha
	cg := float32(tr.Tint.G) * alpha
	cb := float32(tr.Tint.B) * alpha

	for i, p := range tr.world {
		side := trailSide(tr.world, i, dc.Camera.Position).Mul(halfW)
		x0, y0, ok0 := dc.Camera.WorldToScreen(p.Add(side))
		x1, y1, ok1 := dc.Camera.WorldToScreen(p.Sub(side))
		tr.visible[i] = ok0 && ok1

		srcX := tr.cumLen[i] / tile * texW
		tr.verts[i*2] = ebiten.Vertex{
			DstX: x0, DstY: y0,
			SrcX: srcX, SrcY: 0,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: alpha,
		}
		tr.verts[i*2+1] = ebiten.Vertex{
			DstX: x1, DstY: y1,
			SrcX: srcX, SrcY: texH,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: alpha,
		}
	}

	for i := 0; i < n-1; i++ {
		if !tr.visible[i] || !tr.visible[i+1] {
			continue
		}
		v := uint16(i * 2)
		tr.indices = append(tr.indices, v, v+1, v+2, v+1, v+3, v+2)
	}
	if len(tr.indices) == 0 {
		return
	}
	dc.Target.DrawTriangles(tr.verts, tr.indices, tex, &dc.Options)
}

// trailSide returns the unit vector across the ribbon at point i: the path
// direction crossed with the direction to the camera.
func trailSide(pts []mgl32.Vec3, i int, eye mgl32.Vec3) mgl32.Vec3 {
	var dir mgl32.Vec3
	switch {
	case i == 0:
		dir = pts[1].Sub(pts[0])
	case i == len(pts)-1:
		dir = pts[i].Sub(pts[i-1])
	default:
		dir = pts[i+1].Sub(pts[i-1])
	}
	side := dir.Cross(eye.Sub(pts[i]))
	if side.Len() < 1e-6 {
		return mgl32.Vec3{0, 1, 0}
	}
	return side.Normalize()
}
