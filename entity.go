package overlay

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Target3D receives the triangles of the 3D layer. *ebiten.Image satisfies it.
type Target3D interface {
	DrawTriangles(vertices []ebiten.Vertex, indices []uint16, img *ebiten.Image, options *ebiten.DrawTrianglesOptions)
}

// DrawContext3D is passed to entities while the world draws. Options are set
// once per frame by the world.
type DrawContext3D struct {
	Target  Target3D
	Camera  *Camera
	Options ebiten.DrawTrianglesOptions
}

// EntityBehavior supplies what varies between kinds of entities.
type EntityBehavior interface {
	// HandleRebuild regenerates cached geometry after a rebuild-triggering
	// change. It runs at most once per update.
	HandleRebuild(e *Entity)
	Update(e *Entity, gt GameTime)
	Draw(e *Entity, dc *DrawContext3D)
}

// NopBehavior is an EntityBehavior that does nothing. Embed it to implement
// only the methods a behavior needs.
type NopBehavior struct{}

func (NopBehavior) HandleRebuild(*Entity)        {}
func (NopBehavior) Update(*Entity, GameTime)     {}
func (NopBehavior) Draw(*Entity, *DrawContext3D) {}

var _ Tweenable = (*Entity)(nil)

// Entity is an object placed in game space.
type Entity struct {
	Name string

	behavior EntityBehavior
	parent   *Entity

	position     mgl32.Vec3
	rotation     mgl32.Vec3 // euler radians
	renderOffset mgl32.Vec3
	scale        float32
	opacity      float32
	visible      bool

	pendingRebuild bool
	billboard      *Billboard

	distance float32 // camera distance, refreshed each draw
}

// NewEntity creates an entity driven by b. A nil behavior does nothing.
// New entities rebuild on their first update.
func NewEntity(b EntityBehavior) *Entity {
	if b == nil {
		b = NopBehavior{}
	}
	return &Entity{
		behavior:       b,
		scale:          1,
		opacity:        1,
		visible:        true,
		pendingRebuild: true,
	}
}

// Behavior returns the behavior driving e.
func (e *Entity) Behavior() EntityBehavior { return e.behavior }

// Parent returns the container holding e, or nil.
func (e *Entity) Parent() *Entity { return e.parent }

// Position returns the position relative to the parent.
func (e *Entity) Position() mgl32.Vec3 { return e.position }

// SetPosition moves e and schedules a rebuild.
func (e *Entity) SetPosition(p mgl32.Vec3) {
	if p == e.position {
		return
	}
	e.position = p
	e.Invalidate()
}

// Rotation returns the euler rotation in radians.
func (e *Entity) Rotation() mgl32.Vec3 { return e.rotation }

// SetRotation rotates e and schedules a rebuild.
func (e *Entity) SetRotation(r mgl32.Vec3) {
	if r == e.rotation {
		return
	}
	e.rotation = r
	e.Invalidate()
}

// RenderOffset returns the offset applied when drawing, such as lifting a
// marker above the ground.
func (e *Entity) RenderOffset() mgl32.Vec3 { return e.renderOffset }

// SetRenderOffset sets the draw offset and schedules a rebuild.
func (e *Entity) SetRenderOffset(o mgl32.Vec3) {
	if o == e.renderOffset {
		return
	}
	e.renderOffset = o
	e.Invalidate()
}

// Scale returns the uniform scale.
func (e *Entity) Scale() float32 { return e.scale }

// SetScale sets the uniform scale and schedules a rebuild.
func (e *Entity) SetScale(s float32) {
	if s == e.scale {
		return
	}
	e.scale = s
	e.Invalidate()
}

// Opacity returns the opacity of e.
func (e *Entity) Opacity() float32 { return e.opacity }

// SetOpacity sets the opacity of e.
func (e *Entity) SetOpacity(v float32) { e.opacity = v }

// AbsoluteOpacity multiplies opacities up the container chain, clamped to
// [0, 1].
func (e *Entity) AbsoluteOpacity() float32 {
	o := float64(e.opacity)
	for p := e.parent; p != nil; p = p.parent {
		o *= float64(p.opacity)
	}
	return float32(clamp01(o))
}

// Visible reports whether e is drawn.
func (e *Entity) Visible() bool { return e.visible }

// SetVisible shows or hides e.
func (e *Entity) SetVisible(v bool) { e.visible = v }

// Invalidate schedules HandleRebuild for the next update.
func (e *Entity) Invalidate() {
	e.pendingRebuild = true
	if e.billboard != nil {
		e.billboard.dirty = true
	}
}

// PendingRebuild reports whether a rebuild is scheduled.
func (e *Entity) PendingRebuild() bool { return e.pendingRebuild }

// WorldPosition returns the position in game space.
func (e *Entity) WorldPosition() mgl32.Vec3 {
	p := e.position
	for c := e.parent; c != nil; c = c.parent {
		p = p.Add(c.position)
	}
	return p
}

// RenderPosition returns WorldPosition plus RenderOffset.
func (e *Entity) RenderPosition() mgl32.Vec3 {
	return e.WorldPosition().Add(e.renderOffset)
}

// AttachBillboard attaches b to e, detaching it from any other entity.
func (e *Entity) AttachBillboard(b *Billboard) {
	if b.owner != nil && b.owner != e {
		b.owner.billboard = nil
	}
	e.billboard = b
	b.owner = e
	b.dirty = true
}

// DetachBillboard removes the attached billboard, if any.
func (e *Entity) DetachBillboard() {
	if e.billboard != nil {
		e.billboard.owner = nil
		e.billboard = nil
	}
}

// Billboard returns the attached billboard, or nil.
func (e *Entity) Billboard() *Billboard { return e.billboard }

// DoUpdate rebuilds e if needed, then updates its behavior and billboard.
func (e *Entity) DoUpdate(gt GameTime) {
	e.rebuild()
	e.behavior.Update(e, gt)
	if e.billboard != nil {
		e.billboard.update()
	}
}

func (e *Entity) rebuild() {
	if e.pendingRebuild {
		e.pendingRebuild = false
		e.behavior.HandleRebuild(e)
	}
}

// Draw draws e and its billboard when visible.
func (e *Entity) Draw(dc *DrawContext3D) {
	if !e.visible {
		return
	}
	e.behavior.Draw(e, dc)
	if e.billboard != nil {
		e.billboard.draw(e, dc)
	}
}

// TweenAccessor exposes Opacity, PositionX/Y/Z, RotationZ and Scale.
func (e *Entity) TweenAccessor(p Property) (Accessor, bool) {
	vec := func(get func() mgl32.Vec3, set func(mgl32.Vec3), i int) Accessor {
		return Accessor{
			Get: func() float64 { return float64(get()[i]) },
			Set: func(v float64) {
				cur := get()
				cur[i] = float32(v)
				set(cur)
			},
		}
	}
	switch p {
	case PropOpacity:
		return Accessor{
			Get: func() float64 { return float64(e.opacity) },
			Set: func(v float64) { e.SetOpacity(float32(v)) },
		}, true
	case PropPositionX:
		return vec(e.Position, e.SetPosition, 0), true
	case PropPositionY:
		return vec(e.Position, e.SetPosition, 1), true
	case PropPositionZ:
		return vec(e.Position, e.SetPosition, 2), true
	case PropRotationZ:
		acc := vec(e.Rotation, e.SetRotation, 2)
		acc.Lerp = LerpAngle
		return acc, true
	case PropScale:
		return Accessor{
			Get: func() float64 { return float64(e.scale) },
			Set: func(v float64) { e.SetScale(float32(v)) },
		}, true
	}
	return Accessor{}, false
}

// sortBackToFront orders entities by descending camera distance. Ties keep
// their insertion order.
func sortBackToFront(entities []*Entity, cam *Camera) {
	for _, e := range entities {
		e.distance = cam.Distance(e.RenderPosition())
	}
	slices.SortStableFunc(entities, func(a, b *Entity) int {
		return cmp.Compare(b.distance, a.distance)
	})
}

// --- EntityContainer ---

// EntityContainer is an entity that owns child entities positioned relative
// to it.
type EntityContainer struct {
	*Entity

	children []*Entity
	sorted   []*Entity
}

// NewEntityContainer creates an empty container entity.
func NewEntityContainer() *EntityContainer {
	ec := &EntityContainer{}
	ec.Entity = NewEntity(ec)
	return ec
}

// Add appends children, detaching each from its previous container.
func (ec *EntityContainer) Add(children ...*Entity) {
	for _, child := range children {
		if child == nil || child == ec.Entity {
			continue
		}
		if p := child.parent; p != nil {
			if pc, ok := p.behavior.(*EntityContainer); ok {
				pc.Remove(child)
			}
		}
		child.parent = ec.Entity
		child.Invalidate()
		ec.children = append(ec.children, child)
	}
}

// Remove detaches child and reports whether it was present.
func (ec *EntityContainer) Remove(child *Entity) bool {
	i := slices.Index(ec.children, child)
	if i < 0 {
		return false
	}
	ec.children = slices.Delete(ec.children, i, i+1)
	child.parent = nil
	child.Invalidate()
	return true
}

// Children returns a snapshot of the children.
func (ec *EntityContainer) Children() []*Entity { return slices.Clone(ec.children) }

// Len returns the number of children.
func (ec *EntityContainer) Len() int { return len(ec.children) }

// HandleRebuild schedules a rebuild of every child, since their world
// positions follow the container.
func (ec *EntityContainer) HandleRebuild(*Entity) {
	for _, child := range ec.children {
		child.Invalidate()
	}
}

// Update updates every child.
func (ec *EntityContainer) Update(_ *Entity, gt GameTime) {
	for _, child := range slices.Clone(ec.children) {
		child.DoUpdate(gt)
	}
}

// Draw draws the children back to front.
func (ec *EntityContainer) Draw(_ *Entity, dc *DrawContext3D) {
	ec.sorted = append(ec.sorted[:0], ec.children...)
	sortBackToFront(ec.sorted, dc.Camera)
	for _, child := range ec.sorted {
		child.rebuild()
		child.Draw(dc)
	}
}
