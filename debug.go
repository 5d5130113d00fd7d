package overlay

import (
	"fmt"
	"time"
)

// frameStats holds per-frame timings. Only collected in debug mode.
type frameStats struct {
	input    time.Duration
	update   time.Duration
	world    time.Duration
	draw     time.Duration
	controls int
	entities int
	draws    int
}

// debugLogFrame logs the timings of one frame.
func (u *UI) debugLogFrame(s frameStats) {
	if !u.debug {
		return
	}
	u.logger.Debug("overlay: frame",
		"input", s.input,
		"update", s.update,
		"world", s.world,
		"draw", s.draw,
		"controls", s.controls,
		"entities", s.entities,
		"drawCalls", s.draws,
	)
}

// debugCheckDisposed panics when a disposed control is used in a tree
// operation. Callers only run it in debug mode.
func debugCheckDisposed(c *Control, op string) {
	if c.disposed {
		panic(fmt.Sprintf("overlay debug: %s on disposed control %q (ID was %d)", op, c.Name, c.id))
	}
}

const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns when c sits deeper than debugMaxTreeDepth.
func debugCheckTreeDepth(c *Control) {
	depth := 0
	for p := c; p != nil; p = p.Parent() {
		depth++
	}
	if depth > debugMaxTreeDepth {
		c.ui.logger.Warn("overlay: control tree is deep",
			"control", c.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

const debugMaxChildCount = 1000

// debugCheckChildCount warns when c holds more than debugMaxChildCount
// children.
func debugCheckChildCount(c *Control) {
	if n := c.ChildCount(); n > debugMaxChildCount {
		c.ui.logger.Warn("overlay: container has many children",
			"control", c.Name, "children", n, "threshold", debugMaxChildCount)
	}
}
