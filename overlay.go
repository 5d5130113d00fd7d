package overlay

import (
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw submission time.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// RGBA returns a color from 8-bit components.
func RGBA(r, g, b, a uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, float64(a) / 255}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// toRGBA converts c to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// --- White pixel singleton (frame thread only) ---

var whitePixel *ebiten.Image

// WhitePixel returns a shared 1x1 white image used for solid fills. It is
// created on first use.
func WhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// Thickness is a set of four edge insets, used for padding.
type Thickness struct {
	Top, Right, Bottom, Left int
}

// Uniform returns a Thickness with the same inset on every edge.
func Uniform(v int) Thickness {
	return Thickness{v, v, v, v}
}

// Horizontal returns Left + Right.
func (t Thickness) Horizontal() int { return t.Left + t.Right }

// Vertical returns Top + Bottom.
func (t Thickness) Vertical() int { return t.Top + t.Bottom }

// Inset shrinks r by t. The result never has negative size.
func (t Thickness) Inset(r image.Rectangle) image.Rectangle {
	out := image.Rect(r.Min.X+t.Left, r.Min.Y+t.Top, r.Max.X-t.Right, r.Max.Y-t.Bottom)
	if out.Max.X < out.Min.X {
		out.Max.X = out.Min.X
	}
	if out.Max.Y < out.Min.Y {
		out.Max.Y = out.Min.Y
	}
	return out
}

// CaptureType is a bit set describing which input a control consumes.
type CaptureType uint8

const (
	CaptureNone       CaptureType = 0
	CaptureMouse      CaptureType = 1 << iota // consumes mouse button and move events
	CaptureMouseWheel                         // consumes wheel events
	CaptureFilter                             // observes events but lets them pass to controls below
	CaptureForceNone                          // whole subtree is transparent to input
	CaptureKeyboard                           // may receive keyboard focus
)

// Has reports whether every bit in flag is set in c.
func (c CaptureType) Has(flag CaptureType) bool { return c&flag == flag && flag != 0 }

// LayoutState is the layout lifecycle of a control.
type LayoutState uint8

const (
	LayoutSkipDraw    LayoutState = iota // never laid out; not painted yet
	LayoutInvalidated                    // layout must be recalculated
	LayoutReady                          // layout is current
)

func (s LayoutState) String() string {
	switch s {
	case LayoutSkipDraw:
		return "SkipDraw"
	case LayoutInvalidated:
		return "Invalidated"
	case LayoutReady:
		return "Ready"
	}
	return "LayoutState(?)"
}

// MouseEventType identifies a mouse event dispatched through the control tree.
type MouseEventType uint8

const (
	MouseNone MouseEventType = iota
	MouseMoved
	LeftMouseButtonPressed
	LeftMouseButtonReleased
	RightMouseButtonPressed
	RightMouseButtonReleased
	MiddleMouseButtonPressed
	MiddleMouseButtonReleased
	MouseWheelScrolled
)

var mouseEventNames = [...]string{
	MouseNone:                 "None",
	MouseMoved:                "MouseMoved",
	LeftMouseButtonPressed:    "LeftMouseButtonPressed",
	LeftMouseButtonReleased:   "LeftMouseButtonReleased",
	RightMouseButtonPressed:   "RightMouseButtonPressed",
	RightMouseButtonReleased:  "RightMouseButtonReleased",
	MiddleMouseButtonPressed:  "MiddleMouseButtonPressed",
	MiddleMouseButtonReleased: "MiddleMouseButtonReleased",
	MouseWheelScrolled:        "MouseWheelScrolled",
}

func (t MouseEventType) String() string {
	if int(t) < len(mouseEventNames) {
		return mouseEventNames[t]
	}
	return "MouseEventType(?)"
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// MouseState is a snapshot of the mouse in UI space.
type MouseState struct {
	Position   image.Point
	Left       bool
	Right      bool
	Middle     bool
	WheelDelta int
	Modifiers  KeyModifiers
}

// TextAlign controls horizontal text alignment.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // align text to the left edge (default)
	TextAlignCenter                  // center text horizontally
	TextAlignRight                   // align text to the right edge
)

// Flip mirrors a texture when drawn.
type Flip uint8

const (
	FlipNone       Flip = 0
	FlipHorizontal Flip = 1 << iota
	FlipVertical
)

// GameTime carries frame timing into update calls.
type GameTime struct {
	Elapsed time.Duration // time since the previous frame
	Total   time.Duration // time since the first frame
}

// Seconds returns Elapsed in seconds.
func (gt GameTime) Seconds() float32 {
	return float32(gt.Elapsed.Seconds())
}

// Advance returns gt moved forward by one frame of length d.
func (gt GameTime) Advance(d time.Duration) GameTime {
	return GameTime{Elapsed: d, Total: gt.Total + d}
}
