package overlay

import (
	"fmt"
	"image"
)

// Default size of a new control.
const (
	defaultControlWidth  = 40
	defaultControlHeight = 20
)

// Widget is the drawing strategy of a control. Widgets may also implement
// LayoutWidget, UpdateWidget, PostChildPainter, ChildResizeObserver and
// DisposeWidget; the control checks for those at runtime.
type Widget interface {
	Paint(c *Control, p *Painter, bounds image.Rectangle)
}

// LayoutWidget recalculates the arrangement of a control (and, for
// containers, its children). It runs with layout suspended on c.
type LayoutWidget interface {
	RecalculateLayout(c *Control) error
}

// UpdateWidget receives a per-frame update before the control's children.
type UpdateWidget interface {
	Update(c *Control, gt GameTime)
}

// PostChildPainter paints on top of a container's children.
type PostChildPainter interface {
	PaintAfterChildren(c *Control, p *Painter, bounds image.Rectangle)
}

// ChildResizeObserver is notified synchronously when a child's size changes.
type ChildResizeObserver interface {
	ChildResized(parent, child *Control)
}

// DisposeWidget releases widget resources when its control is disposed.
type DisposeWidget interface {
	Dispose(c *Control)
}

// Positionable is anything with a 2D location and size.
type Positionable interface {
	Location() image.Point
	SetLocation(p image.Point)
	Size() image.Point
	SetSize(s image.Point)
}

// Paintable draws itself into a batch clipped to a scissor rectangle.
type Paintable interface {
	Draw(b Batch, scissor image.Rectangle)
}

// InputCapturable takes part in mouse dispatch.
type InputCapturable interface {
	CaptureInput() CaptureType
	TriggerMouseInput(t MouseEventType, ms MouseState) *Control
}

// Invalidatable has a deferrable layout.
type Invalidatable interface {
	Invalidate() error
	SuspendLayout()
	ResumeLayout(force bool)
}

var (
	_ Positionable    = (*Control)(nil)
	_ Paintable       = (*Control)(nil)
	_ InputCapturable = (*Control)(nil)
	_ Invalidatable   = (*Control)(nil)
	_ Tweenable       = (*Control)(nil)
)

// Control is a rectangular element of the overlay UI. Controls live in the
// arena of the UI that created them and refer to their parent and children by
// ControlID. A control created with NewContainer can hold children.
type Control struct {
	// Name is a human-readable label used in diagnostics.
	Name string

	// EntityID links this control to an ECS entity. When non-zero and the UI
	// has an EntityStore, mouse events are forwarded to it.
	EntityID uint32

	// UserData is an arbitrary value owned by the application.
	UserData any

	ui        *UI
	id        ControlID
	widget    Widget
	container *containerState

	parent ControlID

	location    image.Point
	size        image.Point
	opacity     float64
	visible     bool
	enabled     bool
	zIndex      int
	padding     Thickness
	capture     CaptureType
	clipsBounds bool
	tooltipText string
	mouseOver   bool

	layoutState     LayoutState
	layoutSuspended bool
	layoutDepth     int

	disposed bool

	handlers controlHandlers
}

// NewControl creates a leaf control drawn by w. w may be nil.
func (u *UI) NewControl(w Widget) *Control {
	c := &Control{
		widget:      w,
		size:        image.Pt(defaultControlWidth, defaultControlHeight),
		opacity:     1,
		visible:     true,
		enabled:     true,
		capture:     CaptureMouse,
		clipsBounds: true,
		layoutState: LayoutSkipDraw,
	}
	u.register(c)
	return c
}

// NewContainer creates a control that can hold children. w may be nil.
func (u *UI) NewContainer(w Widget) *Control {
	c := u.NewControl(w)
	c.container = &containerState{sortedDirty: true}
	return c
}

// ID returns the arena handle of c.
func (c *Control) ID() ControlID { return c.id }

// UI returns the context that owns c.
func (c *Control) UI() *UI { return c.ui }

// Widget returns the drawing strategy of c.
func (c *Control) Widget() Widget { return c.widget }

// IsContainer reports whether c can hold children.
func (c *Control) IsContainer() bool { return c.container != nil }

// IsDisposed reports whether Dispose has been called.
func (c *Control) IsDisposed() bool { return c.disposed }

// --- Geometry ---

// Location returns the position relative to the parent's content region.
func (c *Control) Location() image.Point { return c.location }

// SetLocation moves c. Nothing is raised when the location is unchanged.
func (c *Control) SetLocation(p image.Point) {
	if p == c.location {
		return
	}
	prev := c.location
	c.location = p
	c.notifyProperty("Location")
	if prev.X != p.X {
		c.notifyProperty("Left")
		c.notifyProperty("Right")
	}
	if prev.Y != p.Y {
		c.notifyProperty("Top")
		c.notifyProperty("Bottom")
	}
	c.ui.post(c, func(c *Control) {
		c.handlers.moved.emit(MovedEvent{Control: c, Previous: prev, Current: p})
	})
}

// Size returns the width and height of c.
func (c *Control) Size() image.Point { return c.size }

// SetSize resizes c and invalidates its layout. Sizes with a negative
// component are ignored.
func (c *Control) SetSize(s image.Point) {
	if s.X < 0 || s.Y < 0 || s == c.size {
		return
	}
	prev := c.size
	prevRegion := c.ContentRegion()
	c.size = s

	c.notifyProperty("Size")
	if prev.X != s.X {
		c.notifyProperty("Width")
		c.notifyProperty("Right")
	}
	if prev.Y != s.Y {
		c.notifyProperty("Height")
		c.notifyProperty("Bottom")
	}
	c.ui.post(c, func(c *Control) {
		c.handlers.resized.emit(ResizedEvent{Control: c, Previous: prev, Current: s})
	})
	if c.container != nil && !c.container.regionSet {
		c.postContentResized(prevRegion, c.ContentRegion())
	}

	c.reportLayout(c.Invalidate())

	if p := c.Parent(); p != nil {
		if obs, ok := p.widget.(ChildResizeObserver); ok {
			obs.ChildResized(p, c)
		}
	}
}

// Width returns the horizontal size.
func (c *Control) Width() int { return c.size.X }

// Height returns the vertical size.
func (c *Control) Height() int { return c.size.Y }

// SetWidth changes only the width.
func (c *Control) SetWidth(w int) { c.SetSize(image.Pt(w, c.size.Y)) }

// SetHeight changes only the height.
func (c *Control) SetHeight(h int) { c.SetSize(image.Pt(c.size.X, h)) }

// Left returns Location().X.
func (c *Control) Left() int { return c.location.X }

// Top returns Location().Y.
func (c *Control) Top() int { return c.location.Y }

// Right returns the right edge in parent content coordinates.
func (c *Control) Right() int { return c.location.X + c.size.X }

// Bottom returns the bottom edge in parent content coordinates.
func (c *Control) Bottom() int { return c.location.Y + c.size.Y }

// SetLeft changes only the horizontal location.
func (c *Control) SetLeft(x int) { c.SetLocation(image.Pt(x, c.location.Y)) }

// SetTop changes only the vertical location.
func (c *Control) SetTop(y int) { c.SetLocation(image.Pt(c.location.X, y)) }

// LocalBounds returns the bounds of c in its parent's content coordinates.
func (c *Control) LocalBounds() image.Rectangle { return rectAt(c.location, c.size) }

// AbsoluteBounds returns the bounds of c in UI space: the parent's absolute
// origin plus its content region origin, minus its scroll offsets, plus the
// location of c.
func (c *Control) AbsoluteBounds() image.Rectangle {
	p := c.Parent()
	if p == nil {
		return c.LocalBounds()
	}
	origin := p.AbsoluteBounds().Min.
		Add(p.ContentRegion().Min).
		Sub(image.Pt(p.HorizontalScrollOffset(), p.VerticalScrollOffset())).
		Add(c.location)
	return rectAt(origin, c.size)
}

// Padding returns the inner padding widgets use to place content.
func (c *Control) Padding() Thickness { return c.padding }

// SetPadding sets the padding and invalidates the layout.
func (c *Control) SetPadding(t Thickness) {
	if t == c.padding {
		return
	}
	c.padding = t
	c.notifyProperty("Padding")
	c.reportLayout(c.Invalidate())
}

// --- Appearance ---

// Opacity returns the opacity of c alone.
func (c *Control) Opacity() float64 { return c.opacity }

// SetOpacity sets the opacity of c. Values outside [0, 1] are stored as
// given and clamped when composed.
func (c *Control) SetOpacity(v float64) {
	if v == c.opacity {
		return
	}
	c.opacity = v
	c.notifyProperty("Opacity")
}

// AbsoluteOpacity returns the product of the opacities from c up to the root,
// clamped to [0, 1].
func (c *Control) AbsoluteOpacity() float64 {
	return clamp01(c.composedOpacity())
}

func (c *Control) composedOpacity() float64 {
	if p := c.Parent(); p != nil {
		return c.opacity * p.composedOpacity()
	}
	return c.opacity
}

// Visible reports whether c is shown.
func (c *Control) Visible() bool { return c.visible }

// SetVisible shows or hides c.
func (c *Control) SetVisible(v bool) {
	if v == c.visible {
		return
	}
	c.visible = v
	c.notifyProperty("Visible")
	list := &c.handlers.hidden
	if v {
		list = &c.handlers.shown
	}
	c.ui.post(c, func(c *Control) { list.emit(ControlEvent{Control: c}) })
}

// Show makes c visible.
func (c *Control) Show() { c.SetVisible(true) }

// Hide makes c invisible.
func (c *Control) Hide() { c.SetVisible(false) }

// Enabled reports whether c accepts clicks and focus.
func (c *Control) Enabled() bool { return c.enabled }

// SetEnabled enables or disables c.
func (c *Control) SetEnabled(v bool) {
	if v == c.enabled {
		return
	}
	c.enabled = v
	c.notifyProperty("Enabled")
}

// ZIndex returns the stacking order among siblings.
func (c *Control) ZIndex() int { return c.zIndex }

// SetZIndex changes the stacking order among siblings. Higher values paint
// later and are hit-tested first.
func (c *Control) SetZIndex(z int) {
	if z == c.zIndex {
		return
	}
	c.zIndex = z
	if p := c.Parent(); p != nil {
		p.container.sortedDirty = true
	}
	c.notifyProperty("ZIndex")
}

// ClipsBounds reports whether c is clipped to its parent's content region.
func (c *Control) ClipsBounds() bool { return c.clipsBounds }

// SetClipsBounds sets whether c is clipped to (and culled against) its
// parent's content region.
func (c *Control) SetClipsBounds(v bool) {
	if v == c.clipsBounds {
		return
	}
	c.clipsBounds = v
	c.notifyProperty("ClipsBounds")
}

// BasicTooltipText returns the text the shared tooltip shows for c.
func (c *Control) BasicTooltipText() string { return c.tooltipText }

// SetBasicTooltipText sets the text the shared tooltip shows while c is the
// active control.
func (c *Control) SetBasicTooltipText(s string) {
	if s == c.tooltipText {
		return
	}
	c.tooltipText = s
	c.notifyProperty("BasicTooltipText")
}

// --- Input ---

// CaptureInput returns the input kinds c consumes.
func (c *Control) CaptureInput() CaptureType { return c.capture }

// SetCaptureInput sets the input kinds c consumes.
func (c *Control) SetCaptureInput(t CaptureType) {
	if t == c.capture {
		return
	}
	c.capture = t
	if !t.Has(CaptureKeyboard) && c.ui.focused == c.id {
		c.ui.focused = 0
	}
	c.notifyProperty("CaptureInput")
}

// MouseOver reports whether the mouse was over c during the last move pass.
func (c *Control) MouseOver() bool { return c.mouseOver }

// Focused reports whether c has keyboard focus.
func (c *Control) Focused() bool { return c.ui.focused == c.id && c.id != 0 }

func (c *Control) setMouseOver(v bool) {
	if v == c.mouseOver {
		return
	}
	c.mouseOver = v
	list := &c.handlers.mouseLeft
	if v {
		list = &c.handlers.mouseEntered
	}
	e := c.mouseEvent(MouseMoved, MouseState{Position: c.ui.lastMouse.Position, Modifiers: c.ui.lastMouse.Modifiers})
	c.ui.post(c, func(c *Control) { list.emit(e) })
}

func (c *Control) mouseEvent(t MouseEventType, ms MouseState) MouseEvent {
	return MouseEvent{
		Control:    c,
		Type:       t,
		Position:   ms.Position,
		Local:      ms.Position.Sub(c.AbsoluteBounds().Min),
		WheelDelta: ms.WheelDelta,
		Modifiers:  ms.Modifiers,
	}
}

// TriggerMouseInput dispatches a mouse event to c and, for containers, its
// children. It returns the control that handled the event, or nil when the
// event passes through.
func (c *Control) TriggerMouseInput(t MouseEventType, ms MouseState) *Control {
	if t == MouseNone || c.capture.Has(CaptureForceNone) {
		return nil
	}
	if c.container != nil {
		if r := c.triggerChildren(t, ms); r != nil {
			return r
		}
	}
	return c.handleMouse(t, ms)
}

func (c *Control) handleMouse(t MouseEventType, ms MouseState) *Control {
	if t == MouseWheelScrolled {
		if !c.capture.Has(CaptureMouseWheel) {
			return nil
		}
	} else if c.capture == CaptureNone {
		return nil
	}
	filter := c.capture.Has(CaptureFilter)
	e := c.mouseEvent(t, ms)

	switch t {
	case MouseMoved:
		c.ui.lastMouse = ms
		c.ui.markHover(c)
	case LeftMouseButtonPressed, RightMouseButtonPressed, MiddleMouseButtonPressed:
		if !filter {
			c.ui.pressed[pressButton(t)] = c.id
		}
	case LeftMouseButtonReleased:
		if !filter && c.ui.pressed[MouseButtonLeft] == c.id && c.enabled {
			c.ui.post(c, func(c *Control) {
				c.handlers.click.emit(e)
				c.ui.emitInteraction(c, e, true)
			})
		}
	}

	if list := c.handlers.mouseList(t); list != nil && (t != MouseMoved || !c.ui.quietMove) {
		c.ui.post(c, func(c *Control) {
			list.emit(e)
			c.ui.emitInteraction(c, e, false)
		})
	}

	if filter {
		return nil
	}
	return c
}

func pressButton(t MouseEventType) MouseButton {
	switch t {
	case RightMouseButtonPressed, RightMouseButtonReleased:
		return MouseButtonRight
	case MiddleMouseButtonPressed, MiddleMouseButtonReleased:
		return MouseButtonMiddle
	}
	return MouseButtonLeft
}

func (c *Control) dispatchKey(e KeyEvent) {
	e.Control = c
	list := &c.handlers.keyPressed
	switch {
	case e.Char != 0:
		list = &c.handlers.textInput
	case e.Released:
		list = &c.handlers.keyReleased
	}
	c.ui.post(c, func(c *Control) { list.emit(e) })
}

// --- Events ---

// OnResized registers a callback for size changes.
func (c *Control) OnResized(fn func(ResizedEvent)) CallbackHandle { return c.handlers.resized.add(fn) }

// OnMoved registers a callback for location changes.
func (c *Control) OnMoved(fn func(MovedEvent)) CallbackHandle { return c.handlers.moved.add(fn) }

// OnPropertyChanged registers a callback raised once per changed property.
func (c *Control) OnPropertyChanged(fn func(PropertyChangedEvent)) CallbackHandle {
	return c.handlers.propertyChanged.add(fn)
}

// OnShown registers a callback for becoming visible.
func (c *Control) OnShown(fn func(ControlEvent)) CallbackHandle { return c.handlers.shown.add(fn) }

// OnHidden registers a callback for becoming invisible.
func (c *Control) OnHidden(fn func(ControlEvent)) CallbackHandle { return c.handlers.hidden.add(fn) }

// OnDisposed registers a callback raised synchronously by Dispose.
func (c *Control) OnDisposed(fn func(ControlEvent)) CallbackHandle {
	return c.handlers.disposed.add(fn)
}

// OnClick registers a callback for a left press and release on an enabled control.
func (c *Control) OnClick(fn func(MouseEvent)) CallbackHandle { return c.handlers.click.add(fn) }

// OnMouseEntered registers a callback for MouseOver becoming true.
func (c *Control) OnMouseEntered(fn func(MouseEvent)) CallbackHandle {
	return c.handlers.mouseEntered.add(fn)
}

// OnMouseLeft registers a callback for MouseOver becoming false.
func (c *Control) OnMouseLeft(fn func(MouseEvent)) CallbackHandle {
	return c.handlers.mouseLeft.add(fn)
}

// OnMouseMoved registers a callback for mouse moves handled by c.
func (c *Control) OnMouseMoved(fn func(MouseEvent)) CallbackHandle {
	return c.handlers.mouseMoved.add(fn)
}

// OnLeftMouseButtonPressed registers a callback for left presses.
func (c *Control) OnLeftMouseButtonPressed(fn func(MouseEvent)) CallbackHandle {
	return c.handlers.leftPressed.add(fn)
}

// OnLeftMouseButtonReleased registers a callback for left releases.
func (c *Control) OnLeftMouseButtonReleased(fn func(MouseEvent)) CallbackHandle {
	return c.handlers.leftReleased.add(fn)
}

// OnRightMouseButtonPressed registers a callback for right presses.
func (c *Control) OnRightMouseButtonPressed(fn func(MouseEvent)) CallbackHandle {
	return c.handlers.rightPressed.add(fn)
}

// OnRightMouseButtonReleased registers a callback for right releases.
func (c *Control) OnRightMouseButtonReleased(fn func(MouseEvent)) CallbackHandle {
	return c.handlers.rightReleased.add(fn)
}

// OnMouseWheelScrolled registers a callback for wheel events. c must capture
// CaptureMouseWheel to receive them.
func (c *Control) OnMouseWheelScrolled(fn func(MouseEvent)) CallbackHandle {
	return c.handlers.wheel.add(fn)
}

// OnKeyPressed registers a callback for key presses while c is focused.
func (c *Control) OnKeyPressed(fn func(KeyEvent)) CallbackHandle {
	return c.handlers.keyPressed.add(fn)
}

// OnKeyReleased registers a callback for key releases while c is focused.
func (c *Control) OnKeyReleased(fn func(KeyEvent)) CallbackHandle {
	return c.handlers.keyReleased.add(fn)
}

// OnTextInput registers a callback for typed characters while c is focused.
func (c *Control) OnTextInput(fn func(KeyEvent)) CallbackHandle {
	return c.handlers.textInput.add(fn)
}

func (c *Control) notifyProperty(name string) {
	c.ui.post(c, func(c *Control) {
		c.handlers.propertyChanged.emit(PropertyChangedEvent{Control: c, Name: name})
	})
}

// --- Layout ---

// LayoutState returns where c is in its layout lifecycle.
func (c *Control) LayoutState() LayoutState { return c.layoutState }

func (c *Control) isLayoutSuspended() bool {
	return c.layoutSuspended || c.layoutDepth > 0
}

// Invalidate marks the layout of c dirty and recalculates it immediately
// unless layout is suspended.
func (c *Control) Invalidate() error {
	if c.disposed {
		return nil
	}
	c.layoutState = LayoutInvalidated
	if c.isLayoutSuspended() {
		return nil
	}
	return c.RecalculateLayout()
}

// RecalculateLayout runs the widget's layout with layout suspended on c and
// marks c ready.
func (c *Control) RecalculateLayout() error {
	c.layoutDepth++
	defer func() { c.layoutDepth-- }()
	var err error
	if lw, ok := c.widget.(LayoutWidget); ok {
		err = lw.RecalculateLayout(c)
	}
	c.layoutState = LayoutReady
	return err
}

// SuspendLayout defers layout recalculation until ResumeLayout.
func (c *Control) SuspendLayout() { c.layoutSuspended = true }

// ResumeLayout re-enables layout and recalculates when the layout was
// invalidated while suspended, or when force is set.
func (c *Control) ResumeLayout(force bool) {
	c.layoutSuspended = false
	if force || c.layoutState == LayoutInvalidated {
		c.reportLayout(c.Invalidate())
	}
}

func (c *Control) reportLayout(err error) {
	if err != nil {
		c.ui.reportError(fmt.Errorf("overlay: layout of %q: %w", c.Name, err))
	}
}

// --- Update ---

// DoUpdate settles a dirty layout, runs the widget update, and updates the
// children that are visible or not yet laid out.
func (c *Control) DoUpdate(gt GameTime) {
	if c.disposed {
		return
	}
	if c.layoutState != LayoutReady && !c.isLayoutSuspended() {
		c.reportLayout(c.RecalculateLayout())
	}
	if uw, ok := c.widget.(UpdateWidget); ok {
		uw.Update(c, gt)
	}
	if c.container != nil {
		c.updateChildren(gt)
	}
}

// --- Disposal ---

// Dispose detaches c from its parent, disposes its children, cancels tweens
// targeting it and releases its arena slot. OnDisposed handlers run before
// the handle stops resolving.
func (c *Control) Dispose() {
	if c.disposed {
		return
	}
	if c.container != nil {
		for _, child := range c.Children() {
			child.Dispose()
		}
	}
	if p := c.Parent(); p != nil {
		p.detach(c)
	}
	c.ui.tweener.TargetCancel(c)
	if dw, ok := c.widget.(DisposeWidget); ok {
		dw.Dispose(c)
	}
	c.handlers.disposed.emit(ControlEvent{Control: c})
	c.handlers.clear()
	c.disposed = true
	c.ui.release(c)
}
