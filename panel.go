package overlay

import (
	"image"

	"github.com/tanema/gween/ease"
)

const (
	defaultTitleHeight = 22
	defaultScrollStep  = 24
	panelScrollTime    = 0.15
	panelCollapseTime  = 0.2
)

// Panel is a container with an optional title bar. Children are laid out
// below the title and clipped to the border. The wheel scrolls the content
// and, when Collapsible, clicking the title folds the panel to its title bar.
// Both animate through the UI's tweener.
type Panel struct {
	Title       string
	Font        *Font
	TitleHeight int // 0 uses defaultTitleHeight; negative hides the title bar
	BorderWidth int
	ScrollStep  int // pixels per wheel notch
	Collapsible bool

	Background      Color
	TitleBackground Color
	TitleColor      Color
	BorderColor     Color

	collapsed      bool
	expandedHeight int
	scrollTarget   int
	scrollTween    *Tween
}

// NewPanel creates a panel container titled title.
func (u *UI) NewPanel(title string) *Control {
	p := &Panel{
		Title:           title,
		BorderWidth:     1,
		Background:      Color{0.1, 0.1, 0.12, 0.85},
		TitleBackground: Color{0.18, 0.18, 0.22, 0.95},
		TitleColor:      ColorWhite,
		BorderColor:     Color{0.35, 0.35, 0.4, 1},
	}
	c := u.NewContainer(p)
	c.Name = title
	c.SetCaptureInput(CaptureMouse | CaptureMouseWheel)
	c.OnMouseWheelScrolled(func(e MouseEvent) { p.scroll(e.Control, -wheelNotches(e.WheelDelta)) })
	c.OnClick(func(e MouseEvent) {
		if p.Collapsible && e.Local.Y < p.titleHeight() {
			p.SetCollapsed(e.Control, !p.collapsed)
		}
	})
	return c
}

func (p *Panel) titleHeight() int {
	switch {
	case p.TitleHeight < 0:
		return 0
	case p.TitleHeight == 0:
		return defaultTitleHeight
	}
	return p.TitleHeight
}

func (p *Panel) scrollStep() int {
	if p.ScrollStep <= 0 {
		return defaultScrollStep
	}
	return p.ScrollStep
}

// MaxScroll returns the largest vertical scroll offset that still shows
// content.
func (p *Panel) MaxScroll(c *Control) int {
	return max(0, c.ContentExtent().Y-c.ContentRegion().Dy())
}

// ScrollTarget returns the offset the scroll animation is heading to.
func (p *Panel) ScrollTarget() int { return p.scrollTarget }

// scroll moves the scroll target by notches wheel steps, positive down.
func (p *Panel) scroll(c *Control, notches int) {
	if notches == 0 || p.collapsed {
		return
	}
	target := p.scrollTarget + notches*p.scrollStep()
	p.ScrollTo(c, target)
}

// ScrollTo animates the vertical scroll offset to y, clamped to the content.
func (p *Panel) ScrollTo(c *Control, y int) {
	y = min(max(y, 0), p.MaxScroll(c))
	if y == p.scrollTarget && y == c.VerticalScrollOffset() {
		return
	}
	p.scrollTarget = y
	p.scrollTween = c.ui.tweener.Tween(c, Values{PropVerticalScrollOffset: float64(y)}, panelScrollTime, 0).
		Ease(ease.OutQuad)
}

// Collapsed reports whether the panel is folded to its title bar.
func (p *Panel) Collapsed() bool { return p.collapsed }

// SetCollapsed folds or unfolds the panel, animating its height.
func (p *Panel) SetCollapsed(c *Control, v bool) {
	if v == p.collapsed {
		return
	}
	p.collapsed = v
	height := p.expandedHeight
	if v {
		p.expandedHeight = c.Height()
		height = p.titleHeight() + 2*p.BorderWidth
	}
	c.notifyProperty("Collapsed")
	c.ui.tweener.Tween(c, Values{PropHeight: float64(height)}, panelCollapseTime, 0).
		Ease(ease.OutCubic)
}

func (p *Panel) RecalculateLayout(c *Control) error {
	b := p.BorderWidth
	top := b + p.titleHeight()
	c.SetContentRegion(image.Rectangle{
		Min: image.Pt(b, top),
		Max: image.Pt(max(b, c.Width()-b), max(top, c.Height()-b)),
	})

	if limit := p.MaxScroll(c); p.scrollTarget > limit {
		p.scrollTarget = limit
		if p.scrollTween != nil {
			p.scrollTween.Cancel()
		}
		c.SetVerticalScrollOffset(limit)
	}
	return nil
}

func (p *Panel) Paint(c *Control, pt *Painter, bounds image.Rectangle) {
	pt.FillRect(bounds, p.Background)
	if th := p.titleHeight(); th > 0 {
		bar := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Min.Y+th)
		pt.FillRect(bar, p.TitleBackground)
		if p.Font == nil {
			p.Font = c.ui.content.Font("", 14)
		}
		pt.DrawString(p.Font, p.Title, bar.Inset(6), p.TitleColor, TextAlignLeft)
	}
}

func (p *Panel) PaintAfterChildren(c *Control, pt *Painter, bounds image.Rectangle) {
	pt.StrokeRect(bounds, p.BorderColor, p.BorderWidth)
}
