package overlay

import (
	"bytes"
	"errors"
	"image"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestScreen(cfg Config) (*Screen, *scriptedSource) {
	s := NewScreen(cfg)
	s.UI().SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	src := &scriptedSource{}
	s.Input().SetSource(src)
	return s, src
}

// --- Sizing ---

func TestScreenRootFollowsScale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.UIScale = 1280, 720, 2
	s, _ := newTestScreen(cfg)

	if got := s.Root().Size(); got != image.Pt(640, 360) {
		t.Errorf("root = %v, want (640,360)", got)
	}
	s.Resize(800, 600)
	if got := s.Root().Size(); got != image.Pt(400, 300) {
		t.Errorf("root after resize = %v, want (400,300)", got)
	}
	s.SetScale(0)
	if s.Scale() != 1 || s.Root().Size() != image.Pt(800, 600) {
		t.Errorf("scale %v, root %v", s.Scale(), s.Root().Size())
	}
	if s.Root().CaptureInput() != CaptureNone {
		t.Error("root should capture nothing")
	}
}

func TestScreenCameraConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Camera = CameraConfig{Near: 1, Far: 50, FOVDegrees: 90}
	s, _ := newTestScreen(cfg)
	cam := s.World().Camera()
	if cam.Near != 1 || cam.Far != 50 || !approxEqual(float64(cam.FOV), float64(mgl32.DegToRad(90)), 1e-6) {
		t.Errorf("camera = near %v far %v fov %v", cam.Near, cam.Far, cam.FOV)
	}
}

// --- Frame ---

func TestScreenUpdatePlacesTooltip(t *testing.T) {
	s, src := newTestScreen(DefaultConfig())
	c := s.UI().NewControl(nil)
	c.SetLocation(image.Pt(100, 100))
	c.SetSize(image.Pt(50, 50))
	c.SetBasicTooltipText("tip")
	s.Root().AddChild(c)

	src.mouse.X, src.mouse.Y = 120, 120
	if err := s.Update(GameTime{}); err != nil {
		t.Fatal(err)
	}
	tip := s.UI().Tooltip()
	if !tip.Visible() {
		t.Fatal("tooltip should show over a control with tooltip text")
	}
	if got := tip.Location(); got != image.Pt(134, 138) {
		t.Errorf("tooltip at %v, want (134,138)", got)
	}

	src.mouse.X, src.mouse.Y = 300, 300
	if err := s.Update(GameTime{}); err != nil {
		t.Fatal(err)
	}
	if tip.Visible() {
		t.Error("tooltip should hide once the cursor leaves")
	}
}

func TestScreenUpdateSyncsCamera(t *testing.T) {
	s, _ := newTestScreen(DefaultConfig())
	s.SetTelemetry(StaticTelemetry{
		Camera:       mgl32.Vec3{1, 2, 3},
		CameraFacing: mgl32.Vec3{0, 0, -2},
	})
	if err := s.Update(GameTime{}); err != nil {
		t.Fatal(err)
	}
	cam := s.World().Camera()
	if cam.Position != (mgl32.Vec3{1, 2, 3}) || cam.Forward != (mgl32.Vec3{0, 0, -1}) {
		t.Errorf("camera at %v facing %v", cam.Position, cam.Forward)
	}
	if cam.Viewport != s.Viewport() {
		t.Errorf("camera viewport %v, want %v", cam.Viewport, s.Viewport())
	}
}

func TestScreenUpdateRunsFrameActionsFirst(t *testing.T) {
	s, _ := newTestScreen(DefaultConfig())
	var order []string
	s.UI().QueueFrameAction(func() {
		c := s.UI().NewControl(nil)
		c.OnPropertyChanged(func(PropertyChangedEvent) { order = append(order, "notified") })
		c.SetOpacity(0.5)
		order = append(order, "action")
	})
	if err := s.Update(GameTime{}); err != nil {
		t.Fatal(err)
	}
	if strings.Join(order, ",") != "action,notified" {
		t.Errorf("order = %v", order)
	}
}

// --- Errors ---

var errBadLayout = errors.New("bad layout")

func TestScreenUpdateReturnsErrorsInDebug(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debug = true
	s, _ := newTestScreen(cfg)
	s.Root().AddChild(s.UI().NewControl(&layoutCounter{err: errBadLayout}))

	err := s.Update(GameTime{})
	if !errors.Is(err, errBadLayout) {
		t.Fatalf("Update = %v, want %v", err, errBadLayout)
	}
	if err := s.Update(GameTime{}); err != nil {
		t.Errorf("errors should be cleared after being returned, got %v", err)
	}
}

func TestScreenUpdateLogsErrors(t *testing.T) {
	s, _ := newTestScreen(DefaultConfig())
	var buf bytes.Buffer
	s.UI().SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	s.Root().AddChild(s.UI().NewControl(&layoutCounter{err: errBadLayout}))

	if err := s.Update(GameTime{}); err != nil {
		t.Fatalf("Update = %v, want nil outside debug mode", err)
	}
	if !strings.Contains(buf.String(), "bad layout") {
		t.Errorf("log = %q", buf.String())
	}
}

// --- Scripts ---

func TestScreenRunsScript(t *testing.T) {
	s, _ := newTestScreen(DefaultConfig())
	c := s.UI().NewControl(nil)
	c.SetLocation(image.Pt(10, 10))
	c.SetSize(image.Pt(20, 20))
	s.Root().AddChild(c)
	clicks := 0
	c.OnClick(func(MouseEvent) { clicks++ })

	sc, err := LoadScript([]byte("steps:\n  - {action: click, x: 15, y: 15}\n"))
	if err != nil {
		t.Fatal(err)
	}
	s.SetScript(sc)
	for range 3 {
		if err := s.Update(GameTime{}); err != nil {
			t.Fatal(err)
		}
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if !sc.Done() {
		t.Error("script should be done")
	}
}
