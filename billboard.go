package overlay

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// FaceMode controls how a billboard turns toward the camera.
type FaceMode uint8

const (
	// FaceCamera keeps the quad parallel to the screen.
	FaceCamera FaceMode = iota
	// FaceUpAxis turns the quad around the world up axis only, so it stays
	// upright as the camera pitches.
	FaceUpAxis
)

var quadIndices = []uint16{0, 1, 2, 1, 3, 2}

// Billboard is a textured quad drawn at its owner's render position.
type Billboard struct {
	Texture *ebiten.Image
	Size    mgl32.Vec2 // world units
	Tint    Color
	Opacity float32
	Facing  FaceMode

	// FadeNear and FadeFar fade the quad out between the two camera
	// distances. The fade is off unless FadeFar > FadeNear.
	FadeNear float32
	FadeFar  float32

	owner  *Entity
	dirty  bool
	halfW  float32
	halfH  float32
	verts  [4]ebiten.Vertex
	screen [4]mgl32.Vec2
}

// NewBillboard creates a billboard showing tex at size world units.
func NewBillboard(tex *ebiten.Image, size mgl32.Vec2) *Billboard {
	return &Billboard{
		Texture: tex,
		Size:    size,
		Tint:    ColorWhite,
		Opacity: 1,
		dirty:   true,
	}
}

// Owner returns the entity the billboard is attached to.
func (b *Billboard) Owner() *Entity { return b.owner }

// Invalidate rebuilds the quad extents on the next update.
func (b *Billboard) Invalidate() { b.dirty = true }

// ScreenCorners returns the projected corners from the last draw, in
// top-left, top-right, bottom-left, bottom-right order.
func (b *Billboard) ScreenCorners() [4]mgl32.Vec2 { return b.screen }

func (b *Billboard) update() {
	if !b.dirty || b.owner == nil {
		return
	}
	s := b.owner.Scale()
	b.halfW = b.Size.X() * s / 2
	b.halfH = b.Size.Y() * s / 2

	src := WhitePixel().Bounds()
	if b.Texture != nil {
		src = b.Texture.Bounds()
	}
	sx0, sy0 := float32(src.Min.X), float32(src.Min.Y)
	sx1, sy1 := float32(src.Max.X), float32(src.Max.Y)
	b.verts[0].SrcX, b.verts[0].SrcY = sx0, sy0
	b.verts[1].SrcX, b.verts[1].SrcY = sx1, sy0
	b.verts[2].SrcX, b.verts[2].SrcY = sx0, sy1
	b.verts[3].SrcX, b.verts[3].SrcY = sx1, sy1
	b.dirty = false
}

// axes returns the world-space right and up vectors of the quad.
func (b *Billboard) axes(cam *Camera) (right, up mgl32.Vec3) {
	right = cam.Right()
	if b.Facing == FaceUpAxis {
		flat := mgl32.Vec3{right.X(), 0, right.Z()}
		if flat.Len() > 1e-5 {
			right = flat.Normalize()
		}
		return right, WorldUp
	}
	return right, cam.ScreenUp()
}

// fade returns the distance fade factor for a camera distance d.
func (b *Billboard) fade(d float32) float32 {
	if b.FadeFar <= b.FadeNear {
		return 1
	}
	switch {
	case d <= b.FadeNear:
		return 1
	case d >= b.FadeFar:
		return 0
	}
	return 1 - (d-b.FadeNear)/(b.FadeFar-b.FadeNear)
}

func (b *Billboard) draw(owner *Entity, dc *DrawContext3D) {
	if b.dirty {
		b.update()
	}
	center := owner.RenderPosition()
	alpha := b.Opacity * owner.AbsoluteOpacity() * b.fade(dc.Camera.Distance(center))
	if alpha <= 0 {
		return
	}

	right, up := b.axes(dc.Camera)
	rx, uy := right.Mul(b.halfW), up.Mul(b.halfH)
	corners := [4]mgl32.Vec3{
		center.Sub(rx).Add(uy),
		center.Add(rx).Add(uy),
		center.Sub(rx).Sub(uy),
		center.Add(rx).Sub(uy),
	}
	for i, p := range corners {
		x, y, ok := dc.Camera.WorldToScreen(p)
		if !ok {
			return
		}
		b.screen[i] = mgl32.Vec2{x, y}
	}

	c := b.Tint
	a := float32(c.A) * alpha
	for i := range b.verts {
		v := &b.verts[i]
		v.DstX, v.DstY = b.screen[i].X(), b.screen[i].Y()
		v.ColorR = float32(c.R) * a
		v.ColorG = float32(c.G) * a
		v.ColorB = float32(c.B) * a
		v.ColorA = a
	}

	tex := b.Texture
	if tex == nil {
		tex = WhitePixel()
	}
	dc.Target.DrawTriangles(b.verts[:], quadIndices, tex, &dc.Options)
}

// NewMarker creates an entity at position showing tex as a camera-facing
// billboard of size world units.
func NewMarker(tex *ebiten.Image, position mgl32.Vec3, size mgl32.Vec2) *Entity {
	e := NewEntity(nil)
	e.Name = "marker"
	e.SetPosition(position)
	e.AttachBillboard(NewBillboard(tex, size))
	return e
}
