package overlay

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// DrawOp describes one textured quad in UI space.
type DrawOp struct {
	Dst      image.Rectangle
	Src      image.Rectangle // zero means the whole texture
	Tint     Color
	Rotation float64     // radians, around Origin
	Origin   image.Point // relative to Dst.Min
	Flip     Flip
}

// TextOp describes a run of text in UI space.
type TextOp struct {
	Position    image.Point // top-left of the first line
	Color       Color
	LineSpacing float64 // 0 uses the face's natural line height
}

// Batch is the drawing surface controls paint into. Coordinates are in UI
// space; implementations apply the UI scale and the scissor rectangle.
type Batch interface {
	Scissor() image.Rectangle
	SetScissor(r image.Rectangle)
	Viewport() image.Rectangle
	DrawTexture(tex *ebiten.Image, op DrawOp)
	DrawText(s string, font *Font, op TextOp)
}

// EbitenBatch draws into an ebiten image, clipping through SubImage.
type EbitenBatch struct {
	target  *ebiten.Image
	scale   float64
	scissor image.Rectangle
	clipped *ebiten.Image

	op     ebiten.DrawImageOptions
	textOp text.DrawOptions

	// DrawCalls counts submissions since the last Reset.
	DrawCalls int
}

// NewEbitenBatch returns a batch drawing into target at the given UI scale.
func NewEbitenBatch(target *ebiten.Image, scale float64) *EbitenBatch {
	b := &EbitenBatch{}
	b.Reset(target, scale)
	return b
}

// Reset retargets the batch and clears the scissor to the full viewport.
func (b *EbitenBatch) Reset(target *ebiten.Image, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	b.target = target
	b.scale = scale
	b.DrawCalls = 0
	b.SetScissor(b.Viewport())
}

// Viewport returns the target bounds in UI space.
func (b *EbitenBatch) Viewport() image.Rectangle {
	s := b.target.Bounds().Size()
	return image.Rectangle{Max: unscaleSize(s.X, s.Y, b.scale)}
}

// Scissor returns the current clip rectangle in UI space.
func (b *EbitenBatch) Scissor() image.Rectangle { return b.scissor }

// SetScissor sets the clip rectangle in UI space.
func (b *EbitenBatch) SetScissor(r image.Rectangle) {
	b.scissor = r
	screen := scaleRect(r, b.scale).Intersect(b.target.Bounds())
	if screen.Empty() {
		b.clipped = nil
		return
	}
	b.clipped = b.target.SubImage(screen).(*ebiten.Image)
}

// DrawTexture draws tex (or its Src region) into op.Dst.
func (b *EbitenBatch) DrawTexture(tex *ebiten.Image, op DrawOp) {
	if b.clipped == nil || tex == nil || op.Dst.Empty() || op.Tint.A <= 0 {
		return
	}
	src := tex
	if !op.Src.Empty() {
		src = tex.SubImage(op.Src).(*ebiten.Image)
	}
	size := src.Bounds().Size()
	t := multiplyAffine(scaleAffine(b.scale, b.scale), drawTransform(&op, size.X, size.Y))

	b.op.GeoM = geoMFromAffine(t)
	b.op.ColorScale.Reset()
	a := float32(op.Tint.A)
	b.op.ColorScale.Scale(float32(op.Tint.R)*a, float32(op.Tint.G)*a, float32(op.Tint.B)*a, a)
	b.op.Filter = ebiten.FilterNearest
	if b.scale != 1 || op.Rotation != 0 {
		b.op.Filter = ebiten.FilterLinear
	}
	b.clipped.DrawImage(src, &b.op)
	b.DrawCalls++
}

// DrawText draws s with its top-left corner at op.Position.
func (b *EbitenBatch) DrawText(s string, font *Font, op TextOp) {
	if b.clipped == nil || font == nil || s == "" || op.Color.A <= 0 {
		return
	}
	b.textOp.GeoM.Reset()
	b.textOp.GeoM.Translate(float64(op.Position.X), float64(op.Position.Y))
	b.textOp.GeoM.Scale(b.scale, b.scale)
	b.textOp.ColorScale.Reset()
	a := float32(op.Color.A)
	b.textOp.ColorScale.Scale(float32(op.Color.R)*a, float32(op.Color.G)*a, float32(op.Color.B)*a, a)
	b.textOp.LineSpacing = op.LineSpacing
	if b.textOp.LineSpacing == 0 {
		b.textOp.LineSpacing = font.LineHeight()
	}
	text.Draw(b.clipped, s, font.Face(), &b.textOp)
	b.DrawCalls++
}

// --- Painter ---

// Painter is handed to widgets while they paint. Coordinates passed to it are
// local to the control; the painter offsets them to UI space and multiplies
// tints by the control's absolute opacity.
type Painter struct {
	batch   Batch
	origin  image.Point
	opacity float64
}

func newPainter(b Batch, origin image.Point, opacity float64) *Painter {
	return &Painter{batch: b, origin: origin, opacity: opacity}
}

// Batch returns the underlying batch.
func (p *Painter) Batch() Batch { return p.batch }

// Origin returns the UI-space position of the control's top-left corner.
func (p *Painter) Origin() image.Point { return p.origin }

// Opacity returns the absolute opacity applied to every draw.
func (p *Painter) Opacity() float64 { return p.opacity }

// DrawTexture stretches tex over dst.
func (p *Painter) DrawTexture(tex *ebiten.Image, dst image.Rectangle, tint Color) {
	p.DrawTextureOp(tex, DrawOp{Dst: dst, Tint: tint})
}

// DrawTextureOp draws tex with full control over the quad. op.Dst is local.
func (p *Painter) DrawTextureOp(tex *ebiten.Image, op DrawOp) {
	if tex == nil {
		tex = WhitePixel()
	}
	op.Dst = op.Dst.Add(p.origin)
	op.Tint = op.Tint.WithAlpha(p.opacity)
	p.batch.DrawTexture(tex, op)
}

// FillRect fills dst with a solid color.
func (p *Painter) FillRect(dst image.Rectangle, c Color) {
	p.DrawTextureOp(WhitePixel(), DrawOp{Dst: dst, Tint: c})
}

// StrokeRect outlines dst with lines of the given width.
func (p *Painter) StrokeRect(dst image.Rectangle, c Color, width int) {
	if width <= 0 {
		return
	}
	p.FillRect(image.Rect(dst.Min.X, dst.Min.Y, dst.Max.X, dst.Min.Y+width), c)
	p.FillRect(image.Rect(dst.Min.X, dst.Max.Y-width, dst.Max.X, dst.Max.Y), c)
	p.FillRect(image.Rect(dst.Min.X, dst.Min.Y+width, dst.Min.X+width, dst.Max.Y-width), c)
	p.FillRect(image.Rect(dst.Max.X-width, dst.Min.Y+width, dst.Max.X, dst.Max.Y-width), c)
}

// DrawString draws s inside dst, aligned horizontally and centered
// vertically.
func (p *Painter) DrawString(font *Font, s string, dst image.Rectangle, c Color, align TextAlign) {
	if font == nil || s == "" {
		return
	}
	w, h := font.MeasureString(s)
	x := dst.Min.X
	switch align {
	case TextAlignCenter:
		x += int((float64(dst.Dx()) - w) / 2)
	case TextAlignRight:
		x = dst.Max.X - int(w)
	}
	y := dst.Min.Y + int((float64(dst.Dy())-h)/2)
	p.batch.DrawText(s, font, TextOp{
		Position: image.Pt(x, y).Add(p.origin),
		Color:    c.WithAlpha(p.opacity),
	})
}
