package overlay

import (
	"image"
	"math"
	"strings"
)

// Label draws text inside the padding of its control. With AutoSize the
// control is resized to fit the text; with Wrap the text is broken to the
// control's width instead.
type Label struct {
	Text     string
	Font     *Font
	Color    Color
	Align    TextAlign
	AutoSize bool
	Wrap     bool

	lines []string
}

// NewLabel creates an auto-sized label control showing s.
func (u *UI) NewLabel(s string) *Control {
	c := u.NewControl(&Label{Text: s, Color: ColorWhite, AutoSize: true})
	c.Name = "label"
	c.SetCaptureInput(CaptureNone)
	return c
}

func (l *Label) font(c *Control) *Font {
	if l.Font == nil {
		l.Font = c.ui.content.Font("", 14)
	}
	return l.Font
}

// SetText changes the text and invalidates the layout of c.
func (l *Label) SetText(c *Control, s string) {
	if s == l.Text {
		return
	}
	l.Text = s
	c.notifyProperty("Text")
	c.reportLayout(c.Invalidate())
}

// Lines returns the lines produced by the last layout.
func (l *Label) Lines() []string { return l.lines }

func (l *Label) RecalculateLayout(c *Control) error {
	f := l.font(c)
	pad := c.Padding()
	switch {
	case l.Wrap && !l.AutoSize:
		l.lines = f.WrapText(l.Text, float64(c.Width()-pad.Horizontal()))
	default:
		l.lines = strings.Split(l.Text, "\n")
	}
	if !l.AutoSize {
		return nil
	}
	var w float64
	for _, line := range l.lines {
		lw, _ := f.MeasureString(line)
		w = max(w, lw)
	}
	h := f.LineHeight() * float64(len(l.lines))
	c.SetSize(image.Pt(int(math.Ceil(w))+pad.Horizontal(), int(math.Ceil(h))+pad.Vertical()))
	return nil
}

func (l *Label) Paint(c *Control, p *Painter, bounds image.Rectangle) {
	f := l.font(c)
	inner := c.Padding().Inset(bounds)
	lh := int(math.Ceil(f.LineHeight()))
	for i, line := range l.lines {
		row := image.Rect(inner.Min.X, inner.Min.Y+i*lh, inner.Max.X, inner.Min.Y+(i+1)*lh)
		p.DrawString(f, line, row, l.Color, l.Align)
	}
}
