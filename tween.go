package overlay

import (
	"fmt"
	"math"
	"reflect"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Property names a tweenable value on a target.
type Property string

// Properties exposed by controls and entities.
const (
	PropOpacity                Property = "Opacity"
	PropLeft                   Property = "Left"
	PropTop                    Property = "Top"
	PropWidth                  Property = "Width"
	PropHeight                 Property = "Height"
	PropHorizontalScrollOffset Property = "HorizontalScrollOffset"
	PropVerticalScrollOffset   Property = "VerticalScrollOffset"
	PropPositionX              Property = "PositionX"
	PropPositionY              Property = "PositionY"
	PropPositionZ              Property = "PositionZ"
	PropRotationZ              Property = "RotationZ"
	PropScale                  Property = "Scale"
)

// Values maps properties to their tween destination.
type Values map[Property]float64

// LerpFunc interpolates between from and to at progress t in [0, 1].
type LerpFunc func(from, to, t float64) float64

// Lerp is the default linear interpolation.
func Lerp(from, to, t float64) float64 { return from + (to-from)*t }

// LerpAngle interpolates radians along the shortest arc.
func LerpAngle(from, to, t float64) float64 {
	diff := math.Mod(to-from, 2*math.Pi)
	if diff > math.Pi {
		diff -= 2 * math.Pi
	} else if diff < -math.Pi {
		diff += 2 * math.Pi
	}
	return from + diff*t
}

// Accessor reads and writes one tweenable value. Lerp may be nil for linear.
type Accessor struct {
	Get  func() float64
	Set  func(float64)
	Lerp LerpFunc
}

// IntAccessor adapts an integer property, rounding on write.
func IntAccessor(get func() int, set func(int)) Accessor {
	return Accessor{
		Get: func() float64 { return float64(get()) },
		Set: func(v float64) { set(int(math.Round(v))) },
	}
}

// Tweenable is implemented by targets that expose properties to the tweener.
// Targets must be pointers.
type Tweenable interface {
	TweenAccessor(p Property) (Accessor, bool)
}

// TweenError describes a tween request that can never work. It is raised as a
// panic value since it indicates a programming error.
type TweenError struct {
	TargetType string
	Property   Property
	Reason     string
}

func (e *TweenError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("overlay: cannot tween %s: %s", e.TargetType, e.Reason)
	}
	return fmt.Sprintf("overlay: cannot tween %s.%s: %s", e.TargetType, e.Property, e.Reason)
}

type tweenProp struct {
	name     Property
	acc      Accessor
	from, to float64
}

// Tween animates properties of one target. Configure it with the fluent
// methods right after creation; it starts on the next Tweener.Update.
type Tween struct {
	target Tweenable
	props  []tweenProp

	duration  float32
	delayLeft float32
	elapsed   float32
	easeFn    ease.TweenFunc
	clock     *gween.Tween

	repeat  int
	reflect bool

	started  bool
	paused   bool
	canceled bool
	done     bool

	onComplete func()
	onUpdate   func()
	onRepeat   func()
}

// Ease sets the easing function. The default is ease.Linear.
func (t *Tween) Ease(fn ease.TweenFunc) *Tween {
	if fn == nil {
		fn = ease.Linear
	}
	t.easeFn = fn
	if t.clock != nil {
		t.clock = gween.New(0, 1, t.duration, fn)
		t.clock.Set(t.elapsed)
	}
	return t
}

// Repeat runs the tween n more times after the first run; -1 repeats
// forever.
func (t *Tween) Repeat(n int) *Tween {
	t.repeat = n
	return t
}

// Reflect swaps start and end values each time the tween repeats.
func (t *Tween) Reflect() *Tween {
	t.reflect = true
	return t
}

// OnComplete sets a callback run once when the tween finishes.
func (t *Tween) OnComplete(fn func()) *Tween {
	t.onComplete = fn
	return t
}

// OnUpdate sets a callback run after every step that writes values.
func (t *Tween) OnUpdate(fn func()) *Tween {
	t.onUpdate = fn
	return t
}

// OnRepeat sets a callback run at each repeat boundary.
func (t *Tween) OnRepeat(fn func()) *Tween {
	t.onRepeat = fn
	return t
}

// Pause stops the tween from advancing.
func (t *Tween) Pause() *Tween {
	t.paused = true
	return t
}

// Resume continues a paused tween.
func (t *Tween) Resume() *Tween {
	t.paused = false
	return t
}

// Paused reports whether the tween is paused.
func (t *Tween) Paused() bool { return t.paused }

// Done reports whether the tween finished or was canceled.
func (t *Tween) Done() bool { return t.done || t.canceled }

// Properties returns the properties the tween still animates.
func (t *Tween) Properties() []Property {
	out := make([]Property, len(t.props))
	for i := range t.props {
		out[i] = t.props[i].name
	}
	return out
}

// Cancel stops the tween where it is. The completion callback does not run.
func (t *Tween) Cancel() {
	if t.Done() {
		return
	}
	t.canceled = true
}

// CancelAndComplete stops the tween, writes its end values and runs the
// completion callback.
func (t *Tween) CancelAndComplete() {
	if t.Done() {
		return
	}
	t.apply(1)
	t.canceled = true
	if t.onComplete != nil {
		t.onComplete()
	}
}

func (t *Tween) start() {
	t.started = true
	for i := range t.props {
		t.props[i].from = t.props[i].acc.Get()
	}
	t.clock = gween.New(0, 1, t.duration, t.easeFn)
}

func (t *Tween) apply(p float64) {
	for i := range t.props {
		tp := &t.props[i]
		if p >= 1 {
			tp.acc.Set(tp.to)
			continue
		}
		lerp := tp.acc.Lerp
		if lerp == nil {
			lerp = Lerp
		}
		tp.acc.Set(lerp(tp.from, tp.to, p))
	}
}

func (t *Tween) update(dt float32) {
	if t.paused || t.Done() {
		return
	}
	if t.delayLeft > 0 {
		t.delayLeft -= dt
		if t.delayLeft > 0 {
			return
		}
		dt = -t.delayLeft
		t.delayLeft = 0
	}
	if !t.started {
		t.start()
	}

	t.elapsed += dt
	if t.duration > 0 && t.elapsed < t.duration {
		p, _ := t.clock.Set(t.elapsed)
		t.apply(float64(p))
		if t.onUpdate != nil {
			t.onUpdate()
		}
		return
	}

	t.apply(1)
	if t.onUpdate != nil {
		t.onUpdate()
	}
	if t.repeat != 0 {
		if t.repeat > 0 {
			t.repeat--
		}
		t.elapsed = max(0, t.elapsed-t.duration)
		if t.reflect {
			for i := range t.props {
				t.props[i].from, t.props[i].to = t.props[i].to, t.props[i].from
			}
		}
		t.clock.Reset()
		if t.onRepeat != nil {
			t.onRepeat()
		}
		return
	}
	t.done = true
	if t.onComplete != nil {
		t.onComplete()
	}
}

// dropProps removes the named properties and reports whether any remain.
func (t *Tween) dropProps(values Values) bool {
	kept := t.props[:0]
	for _, tp := range t.props {
		if _, overlap := values[tp.name]; !overlap {
			kept = append(kept, tp)
		}
	}
	clear(t.props[len(kept):])
	t.props = kept
	return len(kept) > 0
}

// --- Tweener ---

// Tweener drives every tween of a UI. Tweens requested during Update join on
// the next Update; finished and canceled tweens are removed after iteration.
type Tweener struct {
	active []*Tween
	toAdd  []*Tween
}

// NewTweener creates an empty tweener.
func NewTweener() *Tweener {
	return &Tweener{}
}

// Tween animates target's properties to values over duration seconds after
// delay seconds, replacing those properties in existing tweens of target.
func (tw *Tweener) Tween(target Tweenable, values Values, duration, delay float32) *Tween {
	return tw.Add(target, values, duration, delay, true)
}

// Add is Tween with control over overwriting. When overwrite is set, the
// requested properties are removed from other tweens on the same target, and
// tweens left with nothing to animate are canceled.
//
// Add panics with *TweenError if target is not a pointer or lacks one of the
// properties.
func (tw *Tweener) Add(target Tweenable, values Values, duration, delay float32, overwrite bool) *Tween {
	if target == nil {
		panic(&TweenError{TargetType: "<nil>", Reason: "target is nil"})
	}
	typeName := fmt.Sprintf("%T", target)
	if reflect.ValueOf(target).Kind() != reflect.Pointer {
		panic(&TweenError{TargetType: typeName, Reason: "target must be a pointer"})
	}
	t := &Tween{
		target:    target,
		duration:  duration,
		delayLeft: delay,
		easeFn:    ease.Linear,
	}
	for name, to := range values {
		acc, ok := target.TweenAccessor(name)
		if !ok {
			panic(&TweenError{TargetType: typeName, Property: name, Reason: "no such property"})
		}
		t.props = append(t.props, tweenProp{name: name, acc: acc, to: to})
	}
	if overwrite {
		tw.overwrite(target, values)
	}
	tw.toAdd = append(tw.toAdd, t)
	return t
}

// Timer returns a tween with no properties, useful for delayed callbacks.
func (tw *Tweener) Timer(duration, delay float32) *Tween {
	t := &Tween{duration: duration, delayLeft: delay, easeFn: ease.Linear}
	tw.toAdd = append(tw.toAdd, t)
	return t
}

func (tw *Tweener) overwrite(target Tweenable, values Values) {
	for _, list := range [2][]*Tween{tw.active, tw.toAdd} {
		for _, other := range list {
			if other.target != target || other.Done() || len(other.props) == 0 {
				continue
			}
			if !other.dropProps(values) {
				other.Cancel()
			}
		}
	}
}

// Update advances every tween by dt seconds.
func (tw *Tweener) Update(dt float32) {
	if len(tw.toAdd) > 0 {
		tw.active = append(tw.active, tw.toAdd...)
		clear(tw.toAdd)
		tw.toAdd = tw.toAdd[:0]
	}
	for _, t := range tw.active {
		t.update(dt)
	}
	kept := tw.active[:0]
	for _, t := range tw.active {
		if !t.Done() {
			kept = append(kept, t)
		}
	}
	clear(tw.active[len(kept):])
	tw.active = kept
}

// TargetCancel cancels every tween animating target.
func (tw *Tweener) TargetCancel(target Tweenable) {
	tw.eachTarget(target, (*Tween).Cancel)
}

// TargetCancelAndComplete completes every tween animating target.
func (tw *Tweener) TargetCancelAndComplete(target Tweenable) {
	tw.eachTarget(target, (*Tween).CancelAndComplete)
}

func (tw *Tweener) eachTarget(target Tweenable, fn func(*Tween)) {
	for _, list := range [2][]*Tween{tw.active, tw.toAdd} {
		for _, t := range list {
			if t.target == target {
				fn(t)
			}
		}
	}
}

// Count returns the number of tweens that have not finished.
func (tw *Tweener) Count() int {
	n := 0
	for _, list := range [2][]*Tween{tw.active, tw.toAdd} {
		for _, t := range list {
			if !t.Done() {
				n++
			}
		}
	}
	return n
}

// --- Control properties ---

// TweenAccessor exposes Opacity, Left, Top, Width, Height and, for
// containers, the scroll offsets.
func (c *Control) TweenAccessor(p Property) (Accessor, bool) {
	switch p {
	case PropOpacity:
		return Accessor{Get: c.Opacity, Set: c.SetOpacity}, true
	case PropLeft:
		return IntAccessor(c.Left, c.SetLeft), true
	case PropTop:
		return IntAccessor(c.Top, c.SetTop), true
	case PropWidth:
		return IntAccessor(c.Width, c.SetWidth), true
	case PropHeight:
		return IntAccessor(c.Height, c.SetHeight), true
	case PropHorizontalScrollOffset:
		if c.container != nil {
			return IntAccessor(c.HorizontalScrollOffset, c.SetHorizontalScrollOffset), true
		}
	case PropVerticalScrollOffset:
		if c.container != nil {
			return IntAccessor(c.VerticalScrollOffset, c.SetVerticalScrollOffset), true
		}
	}
	return Accessor{}, false
}
