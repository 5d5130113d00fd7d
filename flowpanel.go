package overlay

import (
	"errors"
	"fmt"
	"image"
)

// ErrFlowOverflow is returned by a flow layout when a child does not fit the
// line length of its flow panel. The child is still placed, on a line of its
// own.
var ErrFlowOverflow = errors.New("overlay: flow overflow")

// FlowDirection is the primary axis of a flow panel.
type FlowDirection uint8

const (
	FlowLeftToRight FlowDirection = iota // fill rows, wrap downward
	FlowTopToBottom                      // fill columns, wrap rightward
)

// FlowPanel arranges the visible children of its control in insertion order
// along Direction, wrapping when the next child would cross the padded
// content region. ControlPadding is the gap between children and between
// lines.
type FlowPanel struct {
	Direction      FlowDirection
	ControlPadding image.Point

	lines int
}

// NewFlowPanel creates a transparent flow container.
func (u *UI) NewFlowPanel(dir FlowDirection) *Control {
	c := u.NewContainer(&FlowPanel{Direction: dir, ControlPadding: image.Pt(4, 4)})
	c.Name = "flow"
	c.SetCaptureInput(CaptureNone)
	return c
}

// Lines returns the number of lines produced by the last layout.
func (f *FlowPanel) Lines() int { return f.lines }

func (f *FlowPanel) Paint(*Control, *Painter, image.Rectangle) {}

// ChildResized reflows when a child changes size.
func (f *FlowPanel) ChildResized(parent, _ *Control) {
	parent.reportLayout(parent.Invalidate())
}

func (f *FlowPanel) RecalculateLayout(c *Control) error {
	region := c.ContentRegion()
	area := c.Padding().Inset(image.Rectangle{Max: region.Size()})

	// Work in (main, cross) coordinates and swap for top-to-bottom.
	axis := func(p image.Point) image.Point {
		if f.Direction == FlowTopToBottom {
			return image.Pt(p.Y, p.X)
		}
		return p
	}
	start := axis(area.Min)
	limit := axis(area.Max).X
	gap := axis(f.ControlPadding)

	var errs []error
	cursor := start
	lineCross := 0
	f.lines = 0
	for _, child := range c.Children() {
		if !child.Visible() {
			continue
		}
		size := axis(child.Size())
		if f.lines == 0 {
			f.lines = 1
		}
		if cursor.X > start.X && cursor.X+size.X > limit {
			cursor = image.Pt(start.X, cursor.Y+lineCross+gap.Y)
			lineCross = 0
			f.lines++
		}
		if size.X > limit-start.X {
			errs = append(errs, fmt.Errorf("%w: %q needs %d, line holds %d", ErrFlowOverflow, child.Name, size.X, limit-start.X))
		}
		child.SetLocation(axis(cursor))
		cursor.X += size.X + gap.X
		lineCross = max(lineCross, size.Y)
	}
	return errors.Join(errs...)
}
