package overlay

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ControlID is a stable handle to a control inside a UI arena. IDs are never
// reused, so a handle to a disposed control resolves to nil.
type ControlID uint32

// maxNotificationPasses bounds how many times Flush re-drains notifications
// queued by handlers running inside Flush.
const maxNotificationPasses = 16

// ErrNotificationLoop is reported when handlers keep queueing notifications
// beyond maxNotificationPasses within one Flush.
var ErrNotificationLoop = errors.New("overlay: notification loop")

// EntityStore receives interaction events for controls that carry an
// EntityID. See the ecs subpackage for a Donburi-backed implementation.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries control input for the ECS bridge.
type InteractionEvent struct {
	Type       MouseEventType
	Click      bool
	EntityID   uint32
	X, Y       int // UI space
	LocalX     int
	LocalY     int
	WheelDelta int
	Modifiers  KeyModifiers
}

type notification struct {
	target ControlID
	fire   func(c *Control)
}

// UI owns every control of one overlay: the control arena, interaction state
// shared by the whole tree, and the queues that defer work to the frame loop.
// UI is not safe for concurrent use except for QueueFrameAction.
type UI struct {
	controls map[ControlID]*Control
	nextID   ControlID

	active  ControlID
	focused ControlID
	pressed [3]ControlID

	lastMouse MouseState
	quietMove bool        // hover refresh without movement
	overList  []ControlID // controls with MouseOver set
	hoverList []ControlID // controls hit by the current MouseMoved pass

	tooltip *Control

	notes      []notification
	notesSpare []notification

	actionsMu sync.Mutex
	actions   []func()

	errs   []error
	logger *slog.Logger
	debug  bool

	tweener *Tweener
	content *Content
	store   EntityStore
}

// NewUI creates an empty UI context with its own tweener, content service and
// shared tooltip.
func NewUI() *UI {
	u := &UI{
		controls: make(map[ControlID]*Control),
		logger:   slog.Default(),
		tweener:  NewTweener(),
		content:  NewContent(),
	}
	u.content.SetLogger(u.logger)
	u.tooltip = u.NewControl(&Tooltip{})
	u.tooltip.Name = "tooltip"
	u.tooltip.capture = CaptureForceNone
	u.tooltip.zIndex = tooltipZIndex
	u.tooltip.visible = false
	return u
}

// --- Arena ---

func (u *UI) register(c *Control) {
	u.nextID++
	c.id = u.nextID
	c.ui = u
	u.controls[c.id] = c
}

func (u *UI) release(c *Control) {
	delete(u.controls, c.id)
	if u.active == c.id {
		u.active = 0
	}
	if u.focused == c.id {
		u.focused = 0
	}
	for i := range u.pressed {
		if u.pressed[i] == c.id {
			u.pressed[i] = 0
		}
	}
}

// Control resolves a handle. It returns nil for disposed or unknown IDs.
func (u *UI) Control(id ControlID) *Control {
	if id == 0 {
		return nil
	}
	return u.controls[id]
}

// Len returns the number of live controls, including the shared tooltip.
func (u *UI) Len() int { return len(u.controls) }

// Tweener returns the tweener driven by this UI's frame loop.
func (u *UI) Tweener() *Tweener { return u.tweener }

// Content returns the texture and font service.
func (u *UI) Content() *Content { return u.content }

// Tooltip returns the shared tooltip control.
func (u *UI) Tooltip() *Control { return u.tooltip }

// SetEntityStore sets the ECS bridge that receives interaction events for
// controls with a non-zero EntityID. Pass nil to disable.
func (u *UI) SetEntityStore(store EntityStore) { u.store = store }

// SetLogger replaces the logger. A nil logger restores slog.Default.
func (u *UI) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	u.logger = l
	u.content.SetLogger(l)
}

// Logger returns the logger used for diagnostics.
func (u *UI) Logger() *slog.Logger { return u.logger }

// SetDebugMode enables debug checks: disposed-control panics, tree
// warnings and fatal layout errors.
func (u *UI) SetDebugMode(enabled bool) { u.debug = enabled }

// --- Interaction state ---

// ActiveControl returns the control that handled the last mouse move, or nil.
func (u *UI) ActiveControl() *Control { return u.Control(u.active) }

func (u *UI) setActiveControl(c *Control) {
	var id ControlID
	if c != nil {
		id = c.id
	}
	if id == u.active {
		return
	}
	u.active = id
	tip, _ := u.tooltip.widget.(*Tooltip)
	if c != nil && c.tooltipText != "" {
		tip.SetText(u.tooltip, c.tooltipText)
		u.tooltip.Show()
	} else {
		u.tooltip.Hide()
	}
}

// FocusedControl returns the control receiving keyboard input, or nil.
func (u *UI) FocusedControl() *Control { return u.Control(u.focused) }

// SetFocus gives keyboard focus to c. Controls without CaptureKeyboard are
// refused. Passing nil clears focus.
func (u *UI) SetFocus(c *Control) bool {
	if c == nil {
		u.focused = 0
		return true
	}
	if !c.capture.Has(CaptureKeyboard) || !c.enabled {
		return false
	}
	u.focused = c.id
	return true
}

func (u *UI) beginHover() {
	u.hoverList = u.hoverList[:0]
}

func (u *UI) markHover(c *Control) {
	u.hoverList = append(u.hoverList, c.id)
	c.setMouseOver(true)
}

// endHover clears MouseOver on every control the last pass did not reach.
func (u *UI) endHover() {
	for _, id := range u.overList {
		if containsID(u.hoverList, id) {
			continue
		}
		if c := u.Control(id); c != nil {
			c.setMouseOver(false)
		}
	}
	u.overList = append(u.overList[:0], u.hoverList...)
}

func containsID(ids []ControlID, id ControlID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// --- Notifications ---

// post queues fire to run against target during the next Flush. The call is
// dropped if target is disposed by then.
func (u *UI) post(target *Control, fire func(c *Control)) {
	u.notes = append(u.notes, notification{target: target.id, fire: fire})
}

// Pending returns the number of queued notifications.
func (u *UI) Pending() int { return len(u.notes) }

// Flush delivers queued notifications in FIFO order. Notifications queued by
// handlers are delivered in later passes of the same call, up to a bounded
// number of passes; the remainder is dropped and ErrNotificationLoop reported.
func (u *UI) Flush() int {
	delivered := 0
	for pass := 0; len(u.notes) > 0; pass++ {
		if pass == maxNotificationPasses {
			u.reportError(fmt.Errorf("%w: %d notifications dropped", ErrNotificationLoop, len(u.notes)))
			clear(u.notes)
			u.notes = u.notes[:0]
			break
		}
		batch := u.notes
		u.notes = u.notesSpare[:0]
		for i := range batch {
			n := batch[i]
			batch[i] = notification{}
			c := u.Control(n.target)
			if c == nil {
				if u.debug {
					u.logger.Debug("overlay: notification dropped for disposed control", "id", n.target)
				}
				continue
			}
			n.fire(c)
			delivered++
		}
		u.notesSpare = batch[:0]
	}
	return delivered
}

// --- Frame actions ---

// QueueFrameAction schedules fn to run once on the frame loop at the start of
// the next update. Safe to call from any goroutine.
func (u *UI) QueueFrameAction(fn func()) {
	if fn == nil {
		return
	}
	u.actionsMu.Lock()
	u.actions = append(u.actions, fn)
	u.actionsMu.Unlock()
}

// QueueOnFrame schedules fn(arg) to run once on the frame loop. Safe to call
// from any goroutine.
func QueueOnFrame[T any](u *UI, fn func(T), arg T) {
	if fn == nil {
		return
	}
	u.QueueFrameAction(func() { fn(arg) })
}

// runFrameActions executes the actions queued before this call. Actions
// queued while running wait for the next frame.
func (u *UI) runFrameActions() int {
	u.actionsMu.Lock()
	pending := u.actions
	u.actions = nil
	u.actionsMu.Unlock()
	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

// --- Errors ---

func (u *UI) reportError(err error) {
	if err == nil {
		return
	}
	u.errs = append(u.errs, err)
}

// TakeErrors returns and clears the errors reported since the last call.
func (u *UI) TakeErrors() []error {
	errs := u.errs
	u.errs = nil
	return errs
}

// --- ECS bridge ---

func (u *UI) emitInteraction(c *Control, e MouseEvent, click bool) {
	if u.store == nil || c.EntityID == 0 {
		return
	}
	u.store.EmitEvent(InteractionEvent{
		Type:       e.Type,
		Click:      click,
		EntityID:   c.EntityID,
		X:          e.Position.X,
		Y:          e.Position.Y,
		LocalX:     e.Local.X,
		LocalY:     e.Local.Y,
		WheelDelta: e.WheelDelta,
		Modifiers:  e.Modifiers,
	})
}
