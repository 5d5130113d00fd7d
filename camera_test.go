package overlay

import (
	"image"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const pixelEpsilon = 1e-3

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func testCamera() *Camera {
	cam := NewCamera()
	cam.Viewport = image.Pt(800, 600)
	cam.MarkDirty()
	return cam
}

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera()
	if cam.Forward != (mgl32.Vec3{0, 0, -1}) {
		t.Errorf("Forward = %v, want -Z", cam.Forward)
	}
	if cam.Up != WorldUp {
		t.Errorf("Up = %v, want WorldUp", cam.Up)
	}
	if !approxEqual(float64(cam.FOV), 70*math.Pi/180, 1e-6) {
		t.Errorf("FOV = %v, want 70 degrees", cam.FOV)
	}
}

func TestCameraCenterProjectsToViewportCenter(t *testing.T) {
	cam := testCamera()
	x, y, ok := cam.WorldToScreen(mgl32.Vec3{0, 0, -10})
	if !ok {
		t.Fatal("point in front of the camera should project")
	}
	if !approxEqual(float64(x), 400, pixelEpsilon) || !approxEqual(float64(y), 300, pixelEpsilon) {
		t.Errorf("WorldToScreen = (%f,%f), want (400,300)", x, y)
	}
}

func TestCameraAxes(t *testing.T) {
	cam := testCamera()
	rx, _, _ := cam.WorldToScreen(mgl32.Vec3{1, 0, -10})
	if rx <= 400 {
		t.Errorf("+X should project right of center, got x=%f", rx)
	}
	_, uy, _ := cam.WorldToScreen(mgl32.Vec3{0, 1, -10})
	if uy >= 300 {
		t.Errorf("+Y should project above center, got y=%f", uy)
	}
	if r := cam.Right(); !r.ApproxEqual(mgl32.Vec3{1, 0, 0}) {
		t.Errorf("Right = %v", r)
	}
	if u := cam.ScreenUp(); !u.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
		t.Errorf("ScreenUp = %v", u)
	}
}

func TestCameraRejectsBehindAndBeyondFar(t *testing.T) {
	cam := testCamera()
	if _, _, ok := cam.WorldToScreen(mgl32.Vec3{0, 0, 10}); ok {
		t.Error("point behind the camera should not project")
	}
	if _, _, ok := cam.WorldToScreen(mgl32.Vec3{0, 0, -5000}); ok {
		t.Error("point beyond Far should not project")
	}
}

func TestCameraSync(t *testing.T) {
	cam := NewCamera()
	cam.Sync(StaticTelemetry{
		Camera:       mgl32.Vec3{0, 0, 10},
		CameraFacing: mgl32.Vec3{0, 0, -4},
		Avatar:       mgl32.Vec3{1, 2, 3},
		VerticalFOV:  1,
	}, image.Pt(640, 480))

	if cam.Forward != (mgl32.Vec3{0, 0, -1}) {
		t.Errorf("Forward = %v, want normalized", cam.Forward)
	}
	if cam.FOV != 1 || cam.Avatar != (mgl32.Vec3{1, 2, 3}) || cam.Viewport != image.Pt(640, 480) {
		t.Errorf("camera = %+v", cam)
	}
	x, y, ok := cam.WorldToScreen(mgl32.Vec3{})
	if !ok || !approxEqual(float64(x), 320, pixelEpsilon) || !approxEqual(float64(y), 240, pixelEpsilon) {
		t.Errorf("origin = (%f,%f,%v), want viewport center", x, y, ok)
	}
}

func TestCameraSyncKeepsFOVWhenUnset(t *testing.T) {
	cam := NewCamera()
	fov := cam.FOV
	cam.Sync(StaticTelemetry{}, image.Pt(10, 10))
	if cam.FOV != fov {
		t.Errorf("FOV = %v, want %v kept", cam.FOV, fov)
	}
	if cam.Forward != (mgl32.Vec3{0, 0, -1}) {
		t.Errorf("zero facing should keep Forward, got %v", cam.Forward)
	}
}

func TestCameraLookingStraightDown(t *testing.T) {
	cam := testCamera()
	cam.Position = mgl32.Vec3{0, 10, 0}
	cam.Forward = mgl32.Vec3{0, -1, 0}
	cam.MarkDirty()
	x, y, ok := cam.WorldToScreen(mgl32.Vec3{})
	if !ok || math.IsNaN(float64(x)) || math.IsNaN(float64(y)) {
		t.Fatalf("degenerate up axis: (%f,%f,%v)", x, y, ok)
	}
	if !approxEqual(float64(x), 400, pixelEpsilon) || !approxEqual(float64(y), 300, pixelEpsilon) {
		t.Errorf("WorldToScreen = (%f,%f), want center", x, y)
	}
}

func TestCameraDistance(t *testing.T) {
	cam := NewCamera()
	cam.Position = mgl32.Vec3{1, 2, 3}
	if d := cam.Distance(mgl32.Vec3{4, 6, 3}); !approxEqual(float64(d), 5, 1e-6) {
		t.Errorf("Distance = %v, want 5", d)
	}
}
