package overlay

import (
	"image"
	"testing"
)

func newTestPanel(u *UI) (*Control, *Panel) {
	c := u.NewPanel("stats")
	c.SetSize(image.Pt(200, 100))
	return c, c.Widget().(*Panel)
}

func TestPanelContentRegionBelowTitle(t *testing.T) {
	u := newTestUI()
	c, _ := newTestPanel(u)
	if got, want := c.ContentRegion(), image.Rect(1, 23, 199, 99); got != want {
		t.Errorf("ContentRegion = %v, want %v", got, want)
	}

	child := u.NewControl(nil)
	c.AddChild(child)
	if got := child.AbsoluteBounds().Min; got != image.Pt(1, 23) {
		t.Errorf("child origin = %v, want (1,23)", got)
	}
}

func TestPanelWithoutTitleBar(t *testing.T) {
	u := newTestUI()
	c := u.NewPanel("")
	p := c.Widget().(*Panel)
	p.TitleHeight = -1
	p.BorderWidth = 0
	c.SetSize(image.Pt(50, 50))
	if got := c.ContentRegion(); got != image.Rect(0, 0, 50, 50) {
		t.Errorf("ContentRegion = %v, want full bounds", got)
	}
}

func TestPanelTinySizeKeepsRegionOrdered(t *testing.T) {
	u := newTestUI()
	c, _ := newTestPanel(u)
	c.SetSize(image.Pt(1, 5))
	r := c.ContentRegion()
	if r.Max.X < r.Min.X || r.Max.Y < r.Min.Y {
		t.Errorf("ContentRegion = %v has inverted edges", r)
	}
}

// --- Scrolling ---

func scrollablePanel(u *UI) (*Control, *Panel, *Control) {
	c, p := newTestPanel(u)
	tall := u.NewControl(nil)
	tall.SetSize(image.Pt(50, 300))
	c.AddChild(tall)
	return c, p, tall
}

func TestPanelMaxScroll(t *testing.T) {
	u := newTestUI()
	c, p, _ := scrollablePanel(u)
	if got := p.MaxScroll(c); got != 300-76 {
		t.Errorf("MaxScroll = %d, want %d", got, 300-76)
	}
}

func TestPanelWheelScrollsAnimated(t *testing.T) {
	u := newTestUI()
	c, p, _ := scrollablePanel(u)

	c.TriggerMouseInput(MouseWheelScrolled, MouseState{Position: image.Pt(10, 50), WheelDelta: -wheelNotch})
	u.Flush()
	if p.ScrollTarget() != defaultScrollStep {
		t.Fatalf("ScrollTarget = %d, want %d", p.ScrollTarget(), defaultScrollStep)
	}
	if c.VerticalScrollOffset() != 0 {
		t.Error("offset should animate, not jump")
	}
	u.Tweener().Update(panelScrollTime)
	if c.VerticalScrollOffset() != defaultScrollStep {
		t.Errorf("offset = %d, want %d", c.VerticalScrollOffset(), defaultScrollStep)
	}
}

func TestPanelScrollToClamps(t *testing.T) {
	u := newTestUI()
	c, p, _ := scrollablePanel(u)

	p.ScrollTo(c, 10000)
	if p.ScrollTarget() != p.MaxScroll(c) {
		t.Errorf("ScrollTarget = %d, want max %d", p.ScrollTarget(), p.MaxScroll(c))
	}
	p.ScrollTo(c, -50)
	if p.ScrollTarget() != 0 {
		t.Errorf("ScrollTarget = %d, want 0", p.ScrollTarget())
	}
}

func TestPanelClampsWhenContentShrinks(t *testing.T) {
	u := newTestUI()
	c, p, tall := scrollablePanel(u)
	p.ScrollTo(c, 200)
	u.Tweener().Update(1)
	if c.VerticalScrollOffset() != 200 {
		t.Fatalf("offset = %d, want 200", c.VerticalScrollOffset())
	}

	c.RemoveChild(tall)
	if c.VerticalScrollOffset() != 0 || p.ScrollTarget() != 0 {
		t.Errorf("offset/target = %d/%d, want 0/0", c.VerticalScrollOffset(), p.ScrollTarget())
	}
}

// --- Collapsing ---

func TestPanelCollapse(t *testing.T) {
	u := newTestUI()
	c, p := newTestPanel(u)
	p.Collapsible = true
	var names []string
	c.OnPropertyChanged(func(e PropertyChangedEvent) {
		if e.Name == "Collapsed" {
			names = append(names, e.Name)
		}
	})

	p.SetCollapsed(c, true)
	u.Tweener().Update(1)
	if !p.Collapsed() || c.Height() != defaultTitleHeight+2 {
		t.Errorf("collapsed height = %d, want %d", c.Height(), defaultTitleHeight+2)
	}

	p.SetCollapsed(c, false)
	u.Tweener().Update(1)
	if p.Collapsed() || c.Height() != 100 {
		t.Errorf("expanded height = %d, want 100", c.Height())
	}
	u.Flush()
	if len(names) != 2 {
		t.Errorf("Collapsed notifications = %d, want 2", len(names))
	}
}

func TestPanelTitleClickToggles(t *testing.T) {
	u := newTestUI()
	c, p := newTestPanel(u)
	p.Collapsible = true

	click := func(x, y int) {
		ms := MouseState{Position: image.Pt(x, y)}
		c.TriggerMouseInput(LeftMouseButtonPressed, ms)
		c.TriggerMouseInput(LeftMouseButtonReleased, ms)
		u.Flush()
	}

	click(50, 60)
	if p.Collapsed() {
		t.Error("click below the title should not collapse")
	}
	click(50, 5)
	if !p.Collapsed() {
		t.Error("title click should collapse")
	}
}

func TestPanelNotCollapsibleIgnoresTitleClick(t *testing.T) {
	u := newTestUI()
	c, p := newTestPanel(u)
	ms := MouseState{Position: image.Pt(50, 5)}
	c.TriggerMouseInput(LeftMouseButtonPressed, ms)
	c.TriggerMouseInput(LeftMouseButtonReleased, ms)
	u.Flush()
	if p.Collapsed() {
		t.Error("panel is not collapsible")
	}
}
