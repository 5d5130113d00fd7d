package overlay

import (
	"fmt"
	"image"
	"slices"
)

// SizingMode controls how a container derives one dimension of its size.
type SizingMode uint8

const (
	SizingStandard SizingMode = iota // size is set explicitly
	SizingFill                       // fill the parent's content region from the current location
	SizingAutoSize                   // grow or shrink to fit the visible children
)

type containerState struct {
	children    []ControlID // insertion order
	sorted      []ControlID // paint order: ascending z, then insertion
	sortedDirty bool

	contentRegion image.Rectangle
	regionSet     bool

	hScroll, vScroll int

	widthMode, heightMode SizingMode
	autoSizePadding       image.Point
}

func (c *Control) mustContainer(op string) *containerState {
	if c.container == nil {
		panic(fmt.Sprintf("overlay: %s on non-container control %q", op, c.Name))
	}
	return c.container
}

// --- Hierarchy ---

// Parent returns the container holding c, or nil.
func (c *Control) Parent() *Control {
	if c.parent == 0 {
		return nil
	}
	return c.ui.Control(c.parent)
}

// SetParent moves c into p, or detaches it when p is nil. It returns false
// when either container vetoes the change, in which case nothing changed.
func (c *Control) SetParent(p *Control) bool {
	if p == nil {
		old := c.Parent()
		if old == nil {
			return true
		}
		return old.RemoveChild(c)
	}
	return p.AddChild(c)
}

// Children returns a snapshot of the children of c in insertion order.
func (c *Control) Children() []*Control {
	if c.container == nil {
		return nil
	}
	out := make([]*Control, 0, len(c.container.children))
	for _, id := range c.container.children {
		if child := c.ui.Control(id); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// ChildCount returns the number of children.
func (c *Control) ChildCount() int {
	if c.container == nil {
		return 0
	}
	return len(c.container.children)
}

// Descendants returns every control below c, depth first.
func (c *Control) Descendants() []*Control {
	var out []*Control
	var walk func(n *Control)
	walk = func(n *Control) {
		for _, child := range n.Children() {
			out = append(out, child)
			walk(child)
		}
	}
	walk(c)
	return out
}

// AddChild appends child to c, detaching it from any previous parent first.
// The previous parent's OnChildRemoved handlers run first, then the
// OnChildAdded handlers of c; either may cancel before anything changes.
// OnChildAdded never runs for a move the old parent vetoed. AddChild returns
// whether child is now a child of c. Panics if child is nil, if c is not a
// container, or if the move would create a cycle.
func (c *Control) AddChild(child *Control) bool {
	cs := c.mustContainer("AddChild")
	if child == nil {
		panic("overlay: cannot add nil child")
	}
	if c.ui.debug {
		debugCheckDisposed(c, "AddChild")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if child.disposed || c.disposed {
		return false
	}
	if child.ui != c.ui {
		panic(fmt.Sprintf("overlay: control %q belongs to a different UI", child.Name))
	}
	if child.parent == c.id {
		return true
	}
	if isAncestor(child, c) {
		panic("overlay: adding child would create a cycle")
	}

	old := child.Parent()
	if old != nil && old.removalVetoed(child) {
		return false
	}
	resulting := append(c.Children(), child)
	ev := &ChildChangedEvent{Parent: c, Child: child, Added: true, ResultingChildren: resulting}
	c.handlers.childAdded.emit(ev)
	if ev.Cancel {
		return false
	}
	if old != nil {
		old.detach(child)
		old.reportLayout(old.Invalidate())
	}

	child.parent = c.id
	cs.children = append(cs.children, child.id)
	cs.sortedDirty = true

	if c.ui.debug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(c)
	}
	c.reportLayout(c.Invalidate())
	return true
}

// RemoveChild detaches child from c. OnChildRemoved handlers run before
// anything changes and may cancel. It returns false if child is not a child
// of c or the removal was vetoed.
func (c *Control) RemoveChild(child *Control) bool {
	c.mustContainer("RemoveChild")
	if child == nil || child.parent != c.id || c.removalVetoed(child) {
		return false
	}
	c.detach(child)
	c.reportLayout(c.Invalidate())
	return true
}

// ClearChildren removes every child. Vetoed children stay; the number of
// removed children is returned.
func (c *Control) ClearChildren() int {
	c.mustContainer("ClearChildren")
	removed := 0
	for _, child := range c.Children() {
		if c.RemoveChild(child) {
			removed++
		}
	}
	return removed
}

// removalVetoed runs the OnChildRemoved handlers for child and reports
// whether one of them canceled.
func (c *Control) removalVetoed(child *Control) bool {
	resulting := make([]*Control, 0, len(c.container.children))
	for _, other := range c.Children() {
		if other != child {
			resulting = append(resulting, other)
		}
	}
	ev := &ChildChangedEvent{Parent: c, Child: child, ResultingChildren: resulting}
	c.handlers.childRemoved.emit(ev)
	return ev.Cancel
}

// detach unlinks child without raising events.
func (c *Control) detach(child *Control) {
	cs := c.container
	for i, id := range cs.children {
		if id == child.id {
			cs.children = slices.Delete(cs.children, i, i+1)
			break
		}
	}
	cs.sortedDirty = true
	child.parent = 0
}

// isAncestor reports whether a is an ancestor of (or the same as) b.
func isAncestor(a, b *Control) bool {
	for p := b; p != nil; p = p.Parent() {
		if p == a {
			return true
		}
	}
	return false
}

// OnChildAdded registers a callback raised before a child is added. Set
// Cancel on the event to veto the addition.
func (c *Control) OnChildAdded(fn func(*ChildChangedEvent)) CallbackHandle {
	return c.handlers.childAdded.add(fn)
}

// OnChildRemoved registers a callback raised before a child is removed. Set
// Cancel on the event to veto the removal.
func (c *Control) OnChildRemoved(fn func(*ChildChangedEvent)) CallbackHandle {
	return c.handlers.childRemoved.add(fn)
}

// paintOrder returns children sorted by ascending ZIndex, ties kept in
// insertion order. The slice is cached until membership or a child's ZIndex
// changes; callers that may mutate the tree must copy it.
func (c *Control) paintOrder() []ControlID {
	cs := c.container
	if !cs.sortedDirty {
		return cs.sorted
	}
	cs.sorted = append(cs.sorted[:0], cs.children...)
	s := cs.sorted
	// Insertion sort: stable and fast for the small, mostly sorted sibling lists.
	for i := 1; i < len(s); i++ {
		key := s[i]
		kz := c.ui.controls[key].zIndex
		j := i - 1
		for j >= 0 && c.ui.controls[s[j]].zIndex > kz {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = key
	}
	cs.sortedDirty = false
	return s
}

// --- Content region and scrolling ---

// ContentRegion returns the area children are laid out in, relative to the
// origin of c. It defaults to the full local bounds.
func (c *Control) ContentRegion() image.Rectangle {
	if c.container != nil && c.container.regionSet {
		return c.container.contentRegion
	}
	return image.Rectangle{Max: c.size}
}

// SetContentRegion sets the area children are laid out in.
func (c *Control) SetContentRegion(r image.Rectangle) {
	cs := c.mustContainer("SetContentRegion")
	prev := c.ContentRegion()
	cs.contentRegion = r
	cs.regionSet = true
	if prev != r {
		c.postContentResized(prev, r)
	}
}

// ResetContentRegion makes the content region follow the size again.
func (c *Control) ResetContentRegion() {
	cs := c.mustContainer("ResetContentRegion")
	prev := c.ContentRegion()
	cs.regionSet = false
	if cur := c.ContentRegion(); cur != prev {
		c.postContentResized(prev, cur)
	}
}

func (c *Control) postContentResized(prev, cur image.Rectangle) {
	c.ui.post(c, func(c *Control) {
		c.handlers.contentResized.emit(RegionChangedEvent{Control: c, Previous: prev, Current: cur})
	})
}

// OnContentResized registers a callback for content region changes.
func (c *Control) OnContentResized(fn func(RegionChangedEvent)) CallbackHandle {
	return c.handlers.contentResized.add(fn)
}

// HorizontalScrollOffset returns how far children are shifted left.
func (c *Control) HorizontalScrollOffset() int {
	if c.container == nil {
		return 0
	}
	return c.container.hScroll
}

// VerticalScrollOffset returns how far children are shifted up.
func (c *Control) VerticalScrollOffset() int {
	if c.container == nil {
		return 0
	}
	return c.container.vScroll
}

// SetHorizontalScrollOffset shifts children left by v.
func (c *Control) SetHorizontalScrollOffset(v int) {
	cs := c.mustContainer("SetHorizontalScrollOffset")
	if v == cs.hScroll {
		return
	}
	cs.hScroll = v
	c.notifyProperty("HorizontalScrollOffset")
}

// SetVerticalScrollOffset shifts children up by v.
func (c *Control) SetVerticalScrollOffset(v int) {
	cs := c.mustContainer("SetVerticalScrollOffset")
	if v == cs.vScroll {
		return
	}
	cs.vScroll = v
	c.notifyProperty("VerticalScrollOffset")
}

// ContentExtent returns the bottom-right corner of the visible children in
// content coordinates.
func (c *Control) ContentExtent() image.Point {
	var ext image.Point
	for _, child := range c.Children() {
		if !child.visible {
			continue
		}
		ext.X = max(ext.X, child.Right())
		ext.Y = max(ext.Y, child.Bottom())
	}
	return ext
}

// --- Sizing modes ---

// WidthSizingMode returns how the width of c is derived.
func (c *Control) WidthSizingMode() SizingMode { return c.mustContainer("WidthSizingMode").widthMode }

// HeightSizingMode returns how the height of c is derived.
func (c *Control) HeightSizingMode() SizingMode {
	return c.mustContainer("HeightSizingMode").heightMode
}

// SetSizingModes sets how the width and height of c are derived. Modes are
// applied during update.
func (c *Control) SetSizingModes(width, height SizingMode) {
	cs := c.mustContainer("SetSizingModes")
	cs.widthMode, cs.heightMode = width, height
}

// SetAutoSizePadding sets the space added around the children extent when a
// dimension is auto-sized.
func (c *Control) SetAutoSizePadding(p image.Point) {
	c.mustContainer("SetAutoSizePadding").autoSizePadding = p
}

// applyFill sizes child to the remaining content region of c for every
// dimension in Fill mode.
func (c *Control) applyFill(child *Control) {
	cs := child.container
	if cs == nil || (cs.widthMode != SizingFill && cs.heightMode != SizingFill) {
		return
	}
	region := c.ContentRegion()
	size := child.size
	if cs.widthMode == SizingFill {
		size.X = max(0, region.Dx()-child.location.X)
	}
	if cs.heightMode == SizingFill {
		size.Y = max(0, region.Dy()-child.location.Y)
	}
	child.SetSize(size)
}

// applyAutoSize grows or shrinks c to fit its visible children.
func (c *Control) applyAutoSize() {
	cs := c.container
	if cs.widthMode != SizingAutoSize && cs.heightMode != SizingAutoSize {
		return
	}
	ext := c.ContentExtent()
	region := c.ContentRegion()
	size := c.size
	// Chrome is whatever lies outside the content region.
	if cs.widthMode == SizingAutoSize {
		size.X = ext.X + cs.autoSizePadding.X + (c.size.X - region.Dx())
	}
	if cs.heightMode == SizingAutoSize {
		size.Y = ext.Y + cs.autoSizePadding.Y + (c.size.Y - region.Dy())
	}
	c.SetSize(size)
}

// --- Update ---

func (c *Control) updateChildren(gt GameTime) {
	ids := slices.Clone(c.container.children)
	for _, id := range ids {
		child := c.ui.Control(id)
		if child == nil || child.parent != c.id {
			continue
		}
		c.applyFill(child)
		if child.visible || child.layoutState != LayoutReady {
			child.DoUpdate(gt)
		}
	}
	c.applyAutoSize()
}

// --- Input ---

func (c *Control) triggerChildren(t MouseEventType, ms MouseState) *Control {
	ids := slices.Clone(c.paintOrder())
	content := c.ContentRegion().Add(c.AbsoluteBounds().Min)
	for i := len(ids) - 1; i >= 0; i-- {
		child := c.ui.Control(ids[i])
		if child == nil || !child.visible {
			continue
		}
		if child.clipsBounds && !ms.Position.In(content) {
			continue
		}
		if !ms.Position.In(child.AbsoluteBounds()) {
			continue
		}
		if r := child.TriggerMouseInput(t, ms); r != nil {
			return r
		}
	}
	return nil
}

// --- Drawing ---

// Draw paints c and its children. scissor is the clip rectangle inherited
// from the parent, in UI space. Controls that were never laid out are not
// drawn.
func (c *Control) Draw(b Batch, scissor image.Rectangle) {
	if !c.visible || c.disposed || c.layoutState == LayoutSkipDraw {
		return
	}
	abs := c.AbsoluteBounds()
	clip := scissor
	if c.clipsBounds {
		clip = scissor.Intersect(abs)
		if clip.Empty() {
			return
		}
	}
	b.SetScissor(clip)
	local := image.Rectangle{Max: c.size}
	p := newPainter(b, abs.Min, c.AbsoluteOpacity())
	if c.widget != nil {
		c.widget.Paint(c, p, local)
	}
	if c.container == nil {
		return
	}
	c.drawChildren(b, scissor, clip, abs)
	if pc, ok := c.widget.(PostChildPainter); ok {
		b.SetScissor(clip)
		pc.PaintAfterChildren(c, p, local)
	}
}

func (c *Control) drawChildren(b Batch, inherited, clip, abs image.Rectangle) {
	region := clip.Intersect(c.ContentRegion().Add(abs.Min))
	ids := slices.Clone(c.paintOrder())
	for _, id := range ids {
		child := c.ui.Control(id)
		if child == nil || !child.visible {
			continue
		}
		if !child.clipsBounds {
			child.Draw(b, inherited)
			continue
		}
		if !child.AbsoluteBounds().Overlaps(region) {
			continue
		}
		child.Draw(b, region)
	}
}
