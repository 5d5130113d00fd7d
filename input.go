package overlay

import (
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// wheelNotch is the wheel delta reported for one detent.
const wheelNotch = 120

// RawMouse is the state of the mouse in screen pixels.
type RawMouse struct {
	X, Y       int
	Left       bool
	Right      bool
	Middle     bool
	WheelDelta int
}

// RawMouseEvent is a single mouse change reported by an OS hook.
type RawMouseEvent struct {
	Type       MouseEventType
	X, Y       int
	WheelDelta int
}

// InputSource supplies device state once per frame.
type InputSource interface {
	Mouse() RawMouse
	Modifiers() KeyModifiers
	AppendKeyEvents(dst []KeyEvent) []KeyEvent
}

// --- Ebiten source ---

// EbitenSource reads input from Ebitengine. It must be polled from the game
// loop.
type EbitenSource struct {
	keys  []ebiten.Key
	chars []rune
	wheel float64 // fractional notches carried between frames
}

// Mouse returns cursor position, buttons and the wheel delta of this frame.
func (s *EbitenSource) Mouse() RawMouse {
	x, y := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	s.wheel += wy * wheelNotch
	delta := int(s.wheel)
	s.wheel -= float64(delta)
	return RawMouse{
		X:          x,
		Y:          y,
		Left:       ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Right:      ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		Middle:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
		WheelDelta: delta,
	}
}

// Modifiers reads the current keyboard modifier state.
func (s *EbitenSource) Modifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// AppendKeyEvents appends this frame's key presses, releases and typed
// characters.
func (s *EbitenSource) AppendKeyEvents(dst []KeyEvent) []KeyEvent {
	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	for _, k := range s.keys {
		dst = append(dst, KeyEvent{Key: k})
	}
	s.keys = inpututil.AppendJustReleasedKeys(s.keys[:0])
	for _, k := range s.keys {
		dst = append(dst, KeyEvent{Key: k, Released: true})
	}
	s.chars = ebiten.AppendInputChars(s.chars[:0])
	for _, r := range s.chars {
		dst = append(dst, KeyEvent{Char: r})
	}
	return dst
}

// --- Input service ---

// Input turns device state into control events. Poll runs on the frame loop;
// HookMouse and QueueKey may be called from any goroutine.
type Input struct {
	source InputSource
	scale  float64

	raw     RawMouse
	state   MouseState
	started bool

	mu    sync.Mutex
	hooks []RawMouseEvent
	keys  []KeyEvent

	hookBuf []RawMouseEvent
	keyBuf  []KeyEvent

	injectQueue []RawMouse
}

// NewInput creates an input service reading from source. A nil source reads
// nothing; events then come only from hooks and injection.
func NewInput(source InputSource) *Input {
	return &Input{source: source, scale: 1}
}

// SetSource replaces the device source. A nil source reads nothing.
func (in *Input) SetSource(source InputSource) { in.source = source }

// SetScale sets the UI scale positions are divided by.
func (in *Input) SetScale(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	in.scale = scale
}

// State returns the last dispatched mouse state in UI space.
func (in *Input) State() MouseState { return in.state }

// HookMouse queues a mouse change reported outside the game loop, such as by
// a low-level OS hook. While hook events are pending, they replace polling.
func (in *Input) HookMouse(e RawMouseEvent) {
	in.mu.Lock()
	in.hooks = append(in.hooks, e)
	in.mu.Unlock()
}

// QueueKey queues a keyboard event for the focused control.
func (in *Input) QueueKey(e KeyEvent) {
	in.mu.Lock()
	in.keys = append(in.keys, e)
	in.mu.Unlock()
}

// Poll reads this frame's input and dispatches it through root. Injected
// events take priority over hook events, which take priority over the source.
func (in *Input) Poll(root *Control) {
	var mods KeyModifiers
	if in.source != nil {
		mods = in.source.Modifiers()
	}

	in.mu.Lock()
	in.hookBuf = append(in.hookBuf[:0], in.hooks...)
	in.hooks = in.hooks[:0]
	in.keyBuf = append(in.keyBuf[:0], in.keys...)
	in.keys = in.keys[:0]
	in.mu.Unlock()

	switch {
	case in.processInjectedInput(root, mods):
	case len(in.hookBuf) > 0:
		for _, e := range in.hookBuf {
			in.dispatch(root, in.applyHook(e), mods)
		}
	case in.source != nil:
		in.dispatch(root, in.source.Mouse(), mods)
	}

	if in.source != nil {
		in.keyBuf = in.source.AppendKeyEvents(in.keyBuf)
	}
	in.dispatchKeys(root.ui, mods)
}

// applyHook folds a hook event into the last raw state.
func (in *Input) applyHook(e RawMouseEvent) RawMouse {
	raw := in.raw
	raw.X, raw.Y = e.X, e.Y
	raw.WheelDelta = 0
	switch e.Type {
	case LeftMouseButtonPressed:
		raw.Left = true
	case LeftMouseButtonReleased:
		raw.Left = false
	case RightMouseButtonPressed:
		raw.Right = true
	case RightMouseButtonReleased:
		raw.Right = false
	case MiddleMouseButtonPressed:
		raw.Middle = true
	case MiddleMouseButtonReleased:
		raw.Middle = false
	case MouseWheelScrolled:
		raw.WheelDelta = e.WheelDelta
	}
	return raw
}

// dispatch diffs raw against the previous state and routes the resulting
// events through root. A hover pass runs every call so the active control
// follows layout changes under a stationary cursor; OnMouseMoved handlers
// only fire when the position changed.
func (in *Input) dispatch(root *Control, raw RawMouse, mods KeyModifiers) {
	ui := root.ui
	prev := in.state
	ms := MouseState{
		Position:   unscalePoint(raw.X, raw.Y, in.scale),
		Left:       raw.Left,
		Right:      raw.Right,
		Middle:     raw.Middle,
		WheelDelta: raw.WheelDelta,
		Modifiers:  mods,
	}
	moved := !in.started || ms.Position != prev.Position
	in.raw = raw
	in.state = ms
	in.started = true

	ui.quietMove = !moved
	ui.beginHover()
	active := root.TriggerMouseInput(MouseMoved, ms)
	ui.endHover()
	ui.quietMove = false
	ui.setActiveControl(active)

	in.button(root, prev.Left, ms.Left, MouseButtonLeft, ms)
	in.button(root, prev.Right, ms.Right, MouseButtonRight, ms)
	in.button(root, prev.Middle, ms.Middle, MouseButtonMiddle, ms)

	if ms.WheelDelta != 0 {
		root.TriggerMouseInput(MouseWheelScrolled, ms)
	}
}

var buttonEvents = [3][2]MouseEventType{
	MouseButtonLeft:   {LeftMouseButtonPressed, LeftMouseButtonReleased},
	MouseButtonRight:  {RightMouseButtonPressed, RightMouseButtonReleased},
	MouseButtonMiddle: {MiddleMouseButtonPressed, MiddleMouseButtonReleased},
}

func (in *Input) button(root *Control, was, is bool, b MouseButton, ms MouseState) {
	ui := root.ui
	switch {
	case !was && is:
		handled := root.TriggerMouseInput(buttonEvents[b][0], ms)
		if b == MouseButtonLeft {
			if handled == nil || !ui.SetFocus(handled) {
				ui.SetFocus(nil)
			}
		}
	case was && !is:
		root.TriggerMouseInput(buttonEvents[b][1], ms)
		ui.pressed[b] = 0
	}
}

func (in *Input) dispatchKeys(ui *UI, mods KeyModifiers) {
	if len(in.keyBuf) == 0 {
		return
	}
	focused := ui.FocusedControl()
	if focused == nil || !focused.enabled {
		return
	}
	for _, e := range in.keyBuf {
		if e.Modifiers == 0 {
			e.Modifiers = mods
		}
		focused.dispatchKey(e)
	}
}

// wheelNotches converts a wheel delta to whole detents, rounding away from
// zero so small trackpad deltas still scroll.
func wheelNotches(delta int) int {
	n := float64(delta) / wheelNotch
	if n < 0 {
		return int(math.Floor(n))
	}
	return int(math.Ceil(n))
}
