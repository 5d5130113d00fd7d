package overlay

import (
	"image"
	"math"
)

// tooltipZIndex keeps the shared tooltip above every sibling.
const tooltipZIndex = math.MaxInt32

// Tooltip draws a boxed single line of text. The UI owns one shared tooltip
// control; the screen shows it near the cursor while the active control has
// BasicTooltipText.
type Tooltip struct {
	Font       *Font
	Text       string
	Foreground Color
	Background Color
	Border     Color
	Padding    Thickness
}

func (t *Tooltip) font(c *Control) *Font {
	if t.Font == nil {
		t.Font = c.ui.content.Font("", 13)
	}
	return t.Font
}

// SetText changes the text and resizes c to fit it.
func (t *Tooltip) SetText(c *Control, s string) {
	if s == t.Text && c.layoutState == LayoutReady {
		return
	}
	t.Text = s
	c.reportLayout(c.Invalidate())
}

func (t *Tooltip) padding() Thickness {
	if t.Padding == (Thickness{}) {
		return Thickness{Top: 3, Right: 6, Bottom: 3, Left: 6}
	}
	return t.Padding
}

// RecalculateLayout sizes c to the text plus padding.
func (t *Tooltip) RecalculateLayout(c *Control) error {
	w, h := t.font(c).MeasureString(t.Text)
	pad := t.padding()
	c.SetSize(image.Pt(int(math.Ceil(w))+pad.Horizontal(), int(math.Ceil(h))+pad.Vertical()))
	return nil
}

func (t *Tooltip) Paint(c *Control, p *Painter, bounds image.Rectangle) {
	bg, border, fg := t.Background, t.Border, t.Foreground
	if bg == (Color{}) {
		bg = Color{0.08, 0.08, 0.1, 0.92}
	}
	if border == (Color{}) {
		border = Color{0.45, 0.45, 0.5, 1}
	}
	if fg == (Color{}) {
		fg = ColorWhite
	}
	p.FillRect(bounds, bg)
	p.StrokeRect(bounds, border, 1)
	p.DrawString(t.font(c), t.Text, t.padding().Inset(bounds), fg, TextAlignLeft)
}

// placeTooltip moves the tooltip next to the cursor, kept inside view.
func placeTooltip(tip *Control, cursor image.Point, offset image.Point, view image.Rectangle) {
	loc := cursor.Add(offset)
	size := tip.Size()
	if loc.X+size.X > view.Max.X {
		loc.X = cursor.X - offset.X - size.X
	}
	if loc.Y+size.Y > view.Max.Y {
		loc.Y = cursor.Y - offset.Y - size.Y
	}
	loc.X = max(loc.X, view.Min.X)
	loc.Y = max(loc.Y, view.Min.Y)
	tip.SetLocation(loc)
}
