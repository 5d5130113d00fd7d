package overlay

import (
	"errors"
	"image"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Screen composes one overlay: the UI with its root container and shared
// tooltip, the input service and the 3D world. It drives them in a fixed
// order each frame.
type Screen struct {
	cfg       Config
	ui        *UI
	root      *Control
	input     *Input
	world     *World
	telemetry Telemetry

	viewport image.Point // screen pixels
	scale    float64
	batch    *EbitenBatch
	stats    frameStats
	shots    []string
	script   *Script
}

// NewScreen creates a screen sized and scaled by cfg, reading input from
// Ebitengine.
func NewScreen(cfg Config) *Screen {
	ui := NewUI()
	ui.SetDebugMode(cfg.Debug)

	root := ui.NewContainer(nil)
	root.Name = "root"
	root.SetCaptureInput(CaptureNone)

	world := NewWorld()
	cam := world.Camera()
	if cfg.Camera.Near > 0 && cfg.Camera.Far > cfg.Camera.Near {
		cam.Near, cam.Far = cfg.Camera.Near, cfg.Camera.Far
	}
	if cfg.Camera.FOVDegrees > 0 {
		cam.FOV = mgl32.DegToRad(cfg.Camera.FOVDegrees)
	}

	s := &Screen{
		cfg:   cfg,
		ui:    ui,
		root:  root,
		input: NewInput(&EbitenSource{}),
		world: world,
		scale: 1,
	}
	s.SetScale(cfg.UIScale)
	s.Resize(cfg.Width, cfg.Height)
	return s
}

// UI returns the UI context.
func (s *Screen) UI() *UI { return s.ui }

// Root returns the root container. It captures no input itself.
func (s *Screen) Root() *Control { return s.root }

// Input returns the input service.
func (s *Screen) Input() *Input { return s.input }

// World returns the 3D world.
func (s *Screen) World() *World { return s.world }

// Config returns the configuration the screen was created with.
func (s *Screen) Config() Config { return s.cfg }

// SetTelemetry sets the game state the world camera follows. With nil the
// camera keeps its last state.
func (s *Screen) SetTelemetry(t Telemetry) { s.telemetry = t }

// Scale returns the UI scale.
func (s *Screen) Scale() float64 { return s.scale }

// SetScale changes the UI scale and resizes the root to match.
func (s *Screen) SetScale(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	s.scale = scale
	s.input.SetScale(scale)
	if s.viewport != (image.Point{}) {
		s.Resize(s.viewport.X, s.viewport.Y)
	}
}

// Viewport returns the window size in screen pixels.
func (s *Screen) Viewport() image.Point { return s.viewport }

// Resize sets the window size in screen pixels. The root covers the whole
// window in UI space.
func (s *Screen) Resize(w, h int) {
	s.viewport = image.Pt(max(w, 0), max(h, 0))
	s.root.SetSize(unscaleSize(s.viewport.X, s.viewport.Y, s.scale))
}

// Update runs one frame: queued frame actions, input, notifications, tweens,
// the control tree, tooltip placement, notifications raised by the update,
// then the world. Errors reported during the frame are returned joined in
// debug mode and logged otherwise.
func (s *Screen) Update(gt GameTime) error {
	ui := s.ui
	var start, mark time.Time
	if ui.debug {
		start = time.Now()
	}

	ui.runFrameActions()
	if s.script != nil {
		s.script.step(s.input, s.Screenshot)
	}
	s.input.Poll(s.root)
	if ui.debug {
		mark = time.Now()
		s.stats.input = mark.Sub(start)
	}

	ui.Flush()
	ui.tweener.Update(gt.Seconds())
	s.root.DoUpdate(gt)
	ui.tooltip.DoUpdate(gt)
	if ui.tooltip.Visible() {
		placeTooltip(ui.tooltip, s.input.State().Position, s.cfg.TooltipOffset, s.root.LocalBounds())
	}
	ui.Flush()
	if ui.debug {
		now := time.Now()
		s.stats.update = now.Sub(mark)
		mark = now
	}

	s.world.DoUpdate(gt, s.telemetry, s.viewport)
	if ui.debug {
		s.stats.world = time.Since(mark)
	}

	errs := ui.TakeErrors()
	if len(errs) == 0 {
		return nil
	}
	if ui.debug {
		return errors.Join(errs...)
	}
	for _, err := range errs {
		ui.logger.Warn("overlay: frame error", "error", err)
	}
	return nil
}

// Draw draws the world and then the UI onto target.
func (s *Screen) Draw(target *ebiten.Image) {
	var start time.Time
	if s.ui.debug {
		start = time.Now()
	}

	s.world.Draw(target)

	if s.batch == nil {
		s.batch = NewEbitenBatch(target, s.scale)
	} else {
		s.batch.Reset(target, s.scale)
	}
	view := s.batch.Viewport()
	s.root.Draw(s.batch, view)
	s.ui.tooltip.Draw(s.batch, view)
	s.flushScreenshots(target)

	if s.ui.debug {
		s.stats.draw = time.Since(start)
		s.stats.controls = s.ui.Len()
		s.stats.entities = s.world.Len()
		s.stats.draws = s.batch.DrawCalls
		s.ui.debugLogFrame(s.stats)
	}
}
