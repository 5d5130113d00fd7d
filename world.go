package overlay

import (
	"image"
	"slices"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// World holds the top-level entities of the 3D layer and the camera that
// views them. Add and Remove may be called from any goroutine; DoUpdate and
// Draw run on the frame loop.
type World struct {
	mu       sync.Mutex
	entities []*Entity
	removed  map[*Entity]struct{} // since the last update

	camera *Camera
	order  []*Entity // back to front, rebuilt every update
	dc     DrawContext3D
}

// NewWorld creates an empty world with a default camera.
func NewWorld() *World {
	return &World{camera: NewCamera()}
}

// Camera returns the world camera.
func (w *World) Camera() *Camera { return w.camera }

// Add appends entities. Entities already in the world are ignored.
func (w *World) Add(entities ...*Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, e := range entities {
		if e == nil || slices.Contains(w.entities, e) {
			continue
		}
		delete(w.removed, e)
		w.entities = append(w.entities, e)
	}
}

// Remove removes e and reports whether it was present.
func (w *World) Remove(e *Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := slices.Index(w.entities, e)
	if i < 0 {
		return false
	}
	w.entities = slices.Delete(w.entities, i, i+1)
	if w.removed == nil {
		w.removed = make(map[*Entity]struct{})
	}
	w.removed[e] = struct{}{}
	return true
}

// Entities returns a snapshot of the entities in insertion order.
func (w *World) Entities() []*Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.entities)
}

// Len returns the number of top-level entities.
func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entities)
}

// DoUpdate syncs the camera to t (when non-nil), sorts the entities back to
// front and updates them in that order.
func (w *World) DoUpdate(gt GameTime, t Telemetry, viewport image.Point) {
	if t != nil {
		w.camera.Sync(t, viewport)
	} else if w.camera.Viewport != viewport {
		w.camera.Viewport = viewport
		w.camera.MarkDirty()
	}

	w.mu.Lock()
	w.order = append(w.order[:0], w.entities...)
	clear(w.removed)
	w.mu.Unlock()

	sortBackToFront(w.order, w.camera)
	for _, e := range w.order {
		e.DoUpdate(gt)
	}
}

// DrawOrder returns the entities in the order the last update sorted them.
func (w *World) DrawOrder() []*Entity { return slices.Clone(w.order) }

// Draw draws every visible entity back to front onto target. Entities
// removed since the last update are skipped; entities added since then wait
// for the next update.
func (w *World) Draw(target Target3D) {
	w.mu.Lock()
	if len(w.removed) > 0 {
		w.order = slices.DeleteFunc(w.order, func(e *Entity) bool {
			_, gone := w.removed[e]
			return gone
		})
	}
	w.mu.Unlock()

	w.dc.Target = target
	w.dc.Camera = w.camera
	w.dc.Options = ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
		Filter:         ebiten.FilterLinear,
		Blend:          ebiten.BlendSourceOver,
	}
	for _, e := range w.order {
		// Changes made after the update still rebuild before they draw.
		e.rebuild()
		e.Draw(&w.dc)
	}
	w.dc.Target = nil
}
