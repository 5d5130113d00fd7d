package overlay

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Handler lists ---

type handlerEntry[E any] struct {
	id uint32
	fn func(E)
}

// handlerList is an ordered set of callbacks for one event.
type handlerList[E any] struct {
	entries []handlerEntry[E]
	nextID  uint32
}

func (l *handlerList[E]) add(fn func(E)) CallbackHandle {
	if fn == nil {
		return CallbackHandle{}
	}
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, handlerEntry[E]{id: id, fn: fn})
	return CallbackHandle{remove: func() { l.remove(id) }}
}

// remove drops the entry with the given id. The entry is removed from the
// slice to avoid nil iteration waste.
func (l *handlerList[E]) remove(id uint32) {
	for i := range l.entries {
		if l.entries[i].id == id {
			copy(l.entries[i:], l.entries[i+1:])
			l.entries[len(l.entries)-1] = handlerEntry[E]{}
			l.entries = l.entries[:len(l.entries)-1]
			return
		}
	}
}

// emit calls every handler in registration order. Handlers added or removed
// during emit take effect on the next emit.
func (l *handlerList[E]) emit(e E) {
	switch len(l.entries) {
	case 0:
		return
	case 1:
		l.entries[0].fn(e)
		return
	}
	snapshot := make([]handlerEntry[E], len(l.entries))
	copy(snapshot, l.entries)
	for _, h := range snapshot {
		h.fn(e)
	}
}

func (l *handlerList[E]) len() int { return len(l.entries) }

func (l *handlerList[E]) clear() {
	clear(l.entries)
	l.entries = l.entries[:0]
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	remove func()
}

// Remove unregisters this callback so it no longer fires. Calling Remove more
// than once is harmless.
func (h CallbackHandle) Remove() {
	if h.remove != nil {
		h.remove()
	}
}

// --- Event arguments ---

// ResizedEvent reports a size change.
type ResizedEvent struct {
	Control  *Control
	Previous image.Point
	Current  image.Point
}

// MovedEvent reports a location change.
type MovedEvent struct {
	Control  *Control
	Previous image.Point
	Current  image.Point
}

// RegionChangedEvent reports a content region change.
type RegionChangedEvent struct {
	Control  *Control
	Previous image.Rectangle
	Current  image.Rectangle
}

// PropertyChangedEvent names a property whose value changed.
type PropertyChangedEvent struct {
	Control *Control
	Name    string
}

// ControlEvent carries only the control an event concerns.
type ControlEvent struct {
	Control *Control
}

// MouseEvent describes a mouse event delivered to a control.
type MouseEvent struct {
	Control    *Control
	Type       MouseEventType
	Position   image.Point // UI space
	Local      image.Point // relative to the control's absolute origin
	WheelDelta int
	Modifiers  KeyModifiers
}

// KeyEvent describes a keyboard event delivered to the focused control.
type KeyEvent struct {
	Control   *Control
	Key       ebiten.Key
	Char      rune // set for text input only
	Released  bool
	Modifiers KeyModifiers
}

// ChildChangedEvent is raised before a child is added to or removed from a
// container. Setting Cancel vetoes the change; nothing has been mutated yet.
type ChildChangedEvent struct {
	Parent            *Control
	Child             *Control
	Added             bool
	ResultingChildren []*Control
	Cancel            bool
}

// --- Per-control handler registry ---

type controlHandlers struct {
	resized         handlerList[ResizedEvent]
	moved           handlerList[MovedEvent]
	contentResized  handlerList[RegionChangedEvent]
	propertyChanged handlerList[PropertyChangedEvent]
	shown           handlerList[ControlEvent]
	hidden          handlerList[ControlEvent]
	disposed        handlerList[ControlEvent]

	childAdded   handlerList[*ChildChangedEvent]
	childRemoved handlerList[*ChildChangedEvent]

	click         handlerList[MouseEvent]
	mouseEntered  handlerList[MouseEvent]
	mouseLeft     handlerList[MouseEvent]
	mouseMoved    handlerList[MouseEvent]
	leftPressed   handlerList[MouseEvent]
	leftReleased  handlerList[MouseEvent]
	rightPressed  handlerList[MouseEvent]
	rightReleased handlerList[MouseEvent]
	wheel         handlerList[MouseEvent]

	keyPressed  handlerList[KeyEvent]
	keyReleased handlerList[KeyEvent]
	textInput   handlerList[KeyEvent]
}

func (h *controlHandlers) clear() {
	h.resized.clear()
	h.moved.clear()
	h.contentResized.clear()
	h.propertyChanged.clear()
	h.shown.clear()
	h.hidden.clear()
	h.disposed.clear()
	h.childAdded.clear()
	h.childRemoved.clear()
	h.click.clear()
	h.mouseEntered.clear()
	h.mouseLeft.clear()
	h.mouseMoved.clear()
	h.leftPressed.clear()
	h.leftReleased.clear()
	h.rightPressed.clear()
	h.rightReleased.clear()
	h.wheel.clear()
	h.keyPressed.clear()
	h.keyReleased.clear()
	h.textInput.clear()
}

// mouseList returns the handler list for a button or wheel event type.
func (h *controlHandlers) mouseList(t MouseEventType) *handlerList[MouseEvent] {
	switch t {
	case MouseMoved:
		return &h.mouseMoved
	case LeftMouseButtonPressed:
		return &h.leftPressed
	case LeftMouseButtonReleased:
		return &h.leftReleased
	case RightMouseButtonPressed:
		return &h.rightPressed
	case RightMouseButtonReleased:
		return &h.rightReleased
	case MouseWheelScrolled:
		return &h.wheel
	}
	return nil
}
