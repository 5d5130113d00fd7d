package overlay

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the up axis of game space.
var WorldUp = mgl32.Vec3{0, 1, 0}

// Telemetry is the game state the 3D layer follows. Implementations typically
// read a shared-memory link published by the game.
type Telemetry interface {
	CameraPosition() mgl32.Vec3
	CameraForward() mgl32.Vec3
	AvatarPosition() mgl32.Vec3
	AvatarForward() mgl32.Vec3
	FieldOfView() float32 // vertical, radians
}

// StaticTelemetry is a fixed Telemetry value, for tests and tools.
type StaticTelemetry struct {
	Camera       mgl32.Vec3
	CameraFacing mgl32.Vec3
	Avatar       mgl32.Vec3
	AvatarFacing mgl32.Vec3
	VerticalFOV  float32
}

func (t StaticTelemetry) CameraPosition() mgl32.Vec3 { return t.Camera }
func (t StaticTelemetry) CameraForward() mgl32.Vec3  { return t.CameraFacing }
func (t StaticTelemetry) AvatarPosition() mgl32.Vec3 { return t.Avatar }
func (t StaticTelemetry) AvatarForward() mgl32.Vec3  { return t.AvatarFacing }
func (t StaticTelemetry) FieldOfView() float32       { return t.VerticalFOV }

// Camera projects game space onto the overlay window.
type Camera struct {
	Position mgl32.Vec3
	Forward  mgl32.Vec3
	Up       mgl32.Vec3
	FOV      float32 // vertical, radians
	Near     float32
	Far      float32
	Viewport image.Point // screen pixels

	// Avatar is the player position, used for avatar-relative fading.
	Avatar mgl32.Vec3

	view     mgl32.Mat4
	proj     mgl32.Mat4
	viewProj mgl32.Mat4
	dirty    bool
}

// NewCamera returns a camera at the origin looking down -Z.
func NewCamera() *Camera {
	return &Camera{
		Forward: mgl32.Vec3{0, 0, -1},
		Up:      WorldUp,
		FOV:     mgl32.DegToRad(70),
		Near:    0.1,
		Far:     1000,
		dirty:   true,
	}
}

// Sync copies camera state from telemetry and sets the viewport.
func (c *Camera) Sync(t Telemetry, viewport image.Point) {
	c.Position = t.CameraPosition()
	if f := t.CameraForward(); f.Len() > 0 {
		c.Forward = f.Normalize()
	}
	if fov := t.FieldOfView(); fov > 0 {
		c.FOV = fov
	}
	c.Avatar = t.AvatarPosition()
	c.Viewport = viewport
	c.dirty = true
}

// MarkDirty forces a matrix rebuild on the next query.
func (c *Camera) MarkDirty() { c.dirty = true }

func (c *Camera) computeMatrices() {
	if !c.dirty {
		return
	}
	up := c.Up
	if up.Len() == 0 {
		up = WorldUp
	}
	fwd := c.Forward
	if fwd.Len() == 0 {
		fwd = mgl32.Vec3{0, 0, -1}
	}
	// LookAt degenerates when looking straight along the up axis.
	if fwd.Normalize().Cross(up.Normalize()).Len() < 1e-5 {
		up = mgl32.Vec3{0, 0, 1}
	}
	c.view = mgl32.LookAtV(c.Position, c.Position.Add(fwd), up)
	aspect := float32(1)
	if c.Viewport.Y > 0 {
		aspect = float32(c.Viewport.X) / float32(c.Viewport.Y)
	}
	c.proj = mgl32.Perspective(c.FOV, aspect, c.Near, c.Far)
	c.viewProj = c.proj.Mul4(c.view)
	c.dirty = false
}

// View returns the view matrix.
func (c *Camera) View() mgl32.Mat4 {
	c.computeMatrices()
	return c.view
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	c.computeMatrices()
	return c.viewProj
}

// Right returns the camera's right axis.
func (c *Camera) Right() mgl32.Vec3 {
	r := c.Forward.Cross(c.Up)
	if r.Len() < 1e-5 {
		return mgl32.Vec3{1, 0, 0}
	}
	return r.Normalize()
}

// ScreenUp returns the camera's up axis, perpendicular to Forward.
func (c *Camera) ScreenUp() mgl32.Vec3 {
	return c.Right().Cross(c.Forward).Normalize()
}

// Distance returns the distance from the camera to p.
func (c *Camera) Distance(p mgl32.Vec3) float32 {
	return p.Sub(c.Position).Len()
}

// WorldToScreen projects p to screen pixels. ok is false when p is behind the
// camera or outside the depth range.
func (c *Camera) WorldToScreen(p mgl32.Vec3) (x, y float32, ok bool) {
	c.computeMatrices()
	clip := c.viewProj.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 1e-6 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / w)
	if ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, false
	}
	x = (ndc.X() + 1) * 0.5 * float32(c.Viewport.X)
	y = (1 - ndc.Y()) * 0.5 * float32(c.Viewport.Y)
	return x, y, true
}
