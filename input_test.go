package overlay

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hajimehoshi/ebiten/v2"
)

// scriptedSource replays a fixed mouse state and key list.
type scriptedSource struct {
	mouse RawMouse
	mods  KeyModifiers
	keys  []KeyEvent
}

func (s *scriptedSource) Mouse() RawMouse         { return s.mouse }
func (s *scriptedSource) Modifiers() KeyModifiers { return s.mods }

func (s *scriptedSource) AppendKeyEvents(dst []KeyEvent) []KeyEvent {
	dst = append(dst, s.keys...)
	s.keys = nil
	return dst
}

// inputFixture is a 200x200 root with a 50x50 button at (10,10).
type inputFixture struct {
	ui     *UI
	root   *Control
	button *Control
	src    *scriptedSource
	input  *Input
	log    []string
}

func newInputFixture() *inputFixture {
	f := &inputFixture{ui: newTestUI(), src: &scriptedSource{}}
	f.root = f.ui.NewContainer(nil)
	f.root.Name = "root"
	f.root.SetSize(image.Pt(200, 200))
	f.root.SetCaptureInput(CaptureNone)
	f.button = f.ui.NewControl(nil)
	f.button.Name = "button"
	f.button.SetLocation(image.Pt(10, 10))
	f.button.SetSize(image.Pt(50, 50))
	f.root.AddChild(f.button)
	f.input = NewInput(f.src)

	b := f.button
	b.OnMouseEntered(func(MouseEvent) { f.log = append(f.log, "enter") })
	b.OnMouseLeft(func(MouseEvent) { f.log = append(f.log, "leave") })
	b.OnMouseMoved(func(MouseEvent) { f.log = append(f.log, "move") })
	b.OnLeftMouseButtonPressed(func(MouseEvent) { f.log = append(f.log, "press") })
	b.OnLeftMouseButtonReleased(func(MouseEvent) { f.log = append(f.log, "release") })
	b.OnClick(func(MouseEvent) { f.log = append(f.log, "click") })
	return f
}

// frame moves the scripted mouse, polls and flushes.
func (f *inputFixture) frame(x, y int, left bool) {
	f.src.mouse.X, f.src.mouse.Y, f.src.mouse.Left = x, y, left
	f.input.Poll(f.root)
	f.ui.Flush()
}

func (f *inputFixture) takeLog() []string {
	l := f.log
	f.log = nil
	return l
}

// --- Hover ---

func TestHoverEnterMoveLeave(t *testing.T) {
	f := newInputFixture()

	f.frame(20, 20, false)
	if diff := cmp.Diff([]string{"enter", "move"}, f.takeLog()); diff != "" {
		t.Errorf("enter frame (-want +got):\n%s", diff)
	}
	if !f.button.MouseOver() || f.ui.ActiveControl() != f.button {
		t.Error("button should be hovered and active")
	}

	f.frame(20, 20, false)
	if got := f.takeLog(); len(got) != 0 {
		t.Errorf("stationary cursor raised %v", got)
	}

	f.frame(25, 20, false)
	if diff := cmp.Diff([]string{"move"}, f.takeLog()); diff != "" {
		t.Errorf("move frame (-want +got):\n%s", diff)
	}

	f.frame(150, 150, false)
	if diff := cmp.Diff([]string{"leave"}, f.takeLog()); diff != "" {
		t.Errorf("leave frame (-want +got):\n%s", diff)
	}
	if f.button.MouseOver() || f.ui.ActiveControl() != nil {
		t.Error("hover should clear after leaving")
	}
}

func TestHoverFollowsLayoutUnderStillCursor(t *testing.T) {
	f := newInputFixture()
	f.frame(20, 20, false)
	f.takeLog()

	f.button.SetLocation(image.Pt(100, 100))
	f.ui.Flush()
	f.frame(20, 20, false)
	if diff := cmp.Diff([]string{"leave"}, f.takeLog()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

// --- Buttons ---

func TestClickPressAndReleaseOnSameControl(t *testing.T) {
	f := newInputFixture()
	f.frame(20, 20, false)
	f.takeLog()

	f.frame(20, 20, true)
	f.frame(20, 20, false)
	if diff := cmp.Diff([]string{"press", "click", "release"}, f.takeLog()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestNoClickWhenReleasedElsewhere(t *testing.T) {
	f := newInputFixture()
	f.frame(20, 20, true)
	f.takeLog()
	f.frame(150, 150, false)
	for _, e := range f.takeLog() {
		if e == "click" {
			t.Error("release outside the control should not click")
		}
	}
}

func TestNoClickWhenDisabled(t *testing.T) {
	f := newInputFixture()
	f.button.SetEnabled(false)
	f.frame(20, 20, true)
	f.frame(20, 20, false)
	for _, e := range f.takeLog() {
		if e == "click" {
			t.Error("disabled control clicked")
		}
	}
}

func TestPollScalesPositions(t *testing.T) {
	f := newInputFixture()
	f.input.SetScale(2)
	f.frame(50, 50, false)
	if got := f.input.State().Position; got != image.Pt(25, 25) {
		t.Errorf("Position = %v, want (25,25)", got)
	}
	if !f.button.MouseOver() {
		t.Error("scaled position should hover the button")
	}
}

// --- Wheel ---

func TestWheelNeedsCapture(t *testing.T) {
	f := newInputFixture()
	scrolled := 0
	f.button.OnMouseWheelScrolled(func(e MouseEvent) { scrolled += e.WheelDelta })

	f.src.mouse.WheelDelta = 120
	f.frame(20, 20, false)
	if scrolled != 0 {
		t.Error("wheel delivered without CaptureMouseWheel")
	}

	f.button.SetCaptureInput(CaptureMouse | CaptureMouseWheel)
	f.frame(20, 20, false)
	if scrolled != 120 {
		t.Errorf("scrolled = %d, want 120", scrolled)
	}
}

func TestWheelNotches(t *testing.T) {
	tests := []struct {
		delta int
		want  int
	}{
		{0, 0},
		{120, 1},
		{240, 2},
		{30, 1},
		{-30, -1},
		{-240, -2},
	}
	for _, tt := range tests {
		if got := wheelNotches(tt.delta); got != tt.want {
			t.Errorf("wheelNotches(%d) = %d, want %d", tt.delta, got, tt.want)
		}
	}
}

// --- Focus and keys ---

func TestLeftPressFocusesKeyboardControl(t *testing.T) {
	f := newInputFixture()
	f.button.SetCaptureInput(CaptureMouse | CaptureKeyboard)

	f.frame(20, 20, true)
	if !f.button.Focused() {
		t.Fatal("press should focus the button")
	}
	f.frame(20, 20, false)
	f.frame(150, 150, true)
	if f.button.Focused() {
		t.Error("press elsewhere should clear focus")
	}
}

func TestAnyCaptureHandlesMouse(t *testing.T) {
	tests := []struct {
		name    string
		capture CaptureType
	}{
		{"keyboard only", CaptureKeyboard},
		{"wheel only", CaptureMouseWheel},
		{"mouse", CaptureMouse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newTestUI()
			c := u.NewControl(nil)
			c.SetCaptureInput(tt.capture)

			u.beginHover()
			got := c.TriggerMouseInput(MouseMoved, MouseState{Position: image.Pt(5, 5)})
			u.endHover()
			if got != c || !c.MouseOver() {
				t.Errorf("MouseMoved returned %v, MouseOver = %v", got, c.MouseOver())
			}
			if got := c.TriggerMouseInput(LeftMouseButtonPressed, MouseState{Position: image.Pt(5, 5)}); got != c {
				t.Errorf("press returned %v", got)
			}
		})
	}

	u := newTestUI()
	c := u.NewControl(nil)
	c.SetCaptureInput(CaptureNone)
	if got := c.TriggerMouseInput(MouseMoved, MouseState{}); got != nil || c.MouseOver() {
		t.Error("CaptureNone must pass mouse input through")
	}
}

func TestKeyboardOnlyControlFocusedByClick(t *testing.T) {
	f := newInputFixture()
	f.button.SetCaptureInput(CaptureKeyboard)
	f.frame(20, 20, true)
	if !f.button.Focused() {
		t.Error("press should focus a keyboard-only control")
	}
}

func TestWheelOnlyControlShowsTooltip(t *testing.T) {
	f := newInputFixture()
	f.button.SetCaptureInput(CaptureMouseWheel)
	f.button.SetBasicTooltipText("scroll me")
	f.frame(20, 20, false)
	if f.ui.ActiveControl() != f.button || !f.ui.Tooltip().Visible() {
		t.Errorf("active = %v, tooltip visible = %v", f.ui.ActiveControl(), f.ui.Tooltip().Visible())
	}
}

func TestKeysGoToFocusedControl(t *testing.T) {
	f := newInputFixture()
	f.button.SetCaptureInput(CaptureMouse | CaptureKeyboard)
	f.ui.SetFocus(f.button)

	var got []string
	f.button.OnKeyPressed(func(e KeyEvent) {
		if e.Key == ebiten.KeyA {
			got = append(got, "down")
		}
	})
	f.button.OnKeyReleased(func(e KeyEvent) {
		if e.Key == ebiten.KeyA {
			got = append(got, "up")
		}
	})
	f.button.OnTextInput(func(e KeyEvent) {
		got = append(got, "char:"+string(e.Char))
		if e.Modifiers != ModShift {
			t.Errorf("Modifiers = %v, want ModShift from the source", e.Modifiers)
		}
	})

	f.src.mods = ModShift
	f.src.keys = []KeyEvent{{Key: ebiten.KeyA}, {Char: 'A'}, {Key: ebiten.KeyA, Released: true}}
	f.frame(150, 150, false)

	want := []string{"down", "char:A", "up"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestKeysDroppedWithoutFocus(t *testing.T) {
	f := newInputFixture()
	calls := 0
	f.button.OnKeyPressed(func(KeyEvent) { calls++ })
	f.input.QueueKey(KeyEvent{Key: ebiten.KeyEnter})
	f.frame(150, 150, false)
	if calls != 0 {
		t.Error("key delivered without focus")
	}
}

// --- Hooks ---

func TestHookEventsReplacePolling(t *testing.T) {
	f := newInputFixture()
	f.src.mouse = RawMouse{X: 150, Y: 150}
	f.input.HookMouse(RawMouseEvent{Type: MouseMoved, X: 20, Y: 20})
	f.input.HookMouse(RawMouseEvent{Type: LeftMouseButtonPressed, X: 20, Y: 20})
	f.input.HookMouse(RawMouseEvent{Type: LeftMouseButtonReleased, X: 20, Y: 20})
	f.input.Poll(f.root)
	f.ui.Flush()

	want := []string{"enter", "move", "press", "click", "release"}
	if diff := cmp.Diff(want, f.takeLog()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
