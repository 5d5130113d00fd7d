package overlay

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Image draws a texture stretched over the padded bounds of its control.
// When Texture is nil, TextureName is resolved through the UI's content
// service on first paint.
type Image struct {
	Texture     *ebiten.Image
	TextureName string
	Src         image.Rectangle // zero means the whole texture
	Tint        Color
	Flip        Flip
	Rotation    float64 // radians, around the center
}

// NewImage creates an image control showing the named texture at its
// natural size.
func (u *UI) NewImage(name string) *Control {
	w := &Image{TextureName: name, Tint: ColorWhite}
	c := u.NewControl(w)
	c.Name = name
	if tex := w.texture(c); tex != nil {
		c.SetSize(tex.Bounds().Size())
	}
	return c
}

func (w *Image) texture(c *Control) *ebiten.Image {
	if w.Texture == nil && w.TextureName != "" {
		w.Texture = c.ui.content.Texture(w.TextureName)
	}
	return w.Texture
}

func (w *Image) Paint(c *Control, p *Painter, bounds image.Rectangle) {
	tex := w.texture(c)
	if tex == nil {
		return
	}
	dst := c.Padding().Inset(bounds)
	p.DrawTextureOp(tex, DrawOp{
		Dst:      dst,
		Src:      w.Src,
		Tint:     w.Tint,
		Rotation: w.Rotation,
		Origin:   image.Pt(dst.Dx()/2, dst.Dy()/2),
		Flip:     w.Flip,
	})
}
