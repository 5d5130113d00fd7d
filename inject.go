package overlay

// InjectPress queues a left press at the given screen coordinates. The event
// is consumed on the next frame's Poll, ahead of real device input.
func (in *Input) InjectPress(x, y int) {
	raw := in.lastInjected()
	raw.X, raw.Y, raw.Left = x, y, true
	in.injectQueue = append(in.injectQueue, raw)
}

// InjectMove queues a move to the given screen coordinates, keeping the
// button state of the previous injected event.
func (in *Input) InjectMove(x, y int) {
	raw := in.lastInjected()
	raw.X, raw.Y = x, y
	in.injectQueue = append(in.injectQueue, raw)
}

// InjectRelease queues a left release at the given screen coordinates.
func (in *Input) InjectRelease(x, y int) {
	raw := in.lastInjected()
	raw.X, raw.Y, raw.Left = x, y, false
	in.injectQueue = append(in.injectQueue, raw)
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two frames.
func (in *Input) InjectClick(x, y int) {
	in.InjectPress(x, y)
	in.InjectRelease(x, y)
}

// InjectScroll queues a wheel event at the given screen coordinates.
func (in *Input) InjectScroll(x, y, delta int) {
	raw := in.lastInjected()
	raw.X, raw.Y, raw.WheelDelta = x, y, delta
	in.injectQueue = append(in.injectQueue, raw)
}

// InjectDrag queues a press at (fromX, fromY), linearly interpolated moves
// over frames-2 intermediate frames, and a release at (toX, toY). Minimum
// frames is 2 (press + release).
func (in *Input) InjectDrag(fromX, fromY, toX, toY, frames int) {
	if frames < 2 {
		frames = 2
	}
	in.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		x := fromX + (toX-fromX)*i/(steps+1)
		y := fromY + (toY-fromY)*i/(steps+1)
		in.InjectMove(x, y)
	}
	in.InjectRelease(toX, toY)
}

// PendingInjected returns the number of queued synthetic events.
func (in *Input) PendingInjected() int { return len(in.injectQueue) }

// lastInjected returns the state queued events build on: the most recently
// queued event, or the last dispatched state. Wheel deltas never carry over.
func (in *Input) lastInjected() RawMouse {
	raw := in.raw
	if n := len(in.injectQueue); n > 0 {
		raw = in.injectQueue[n-1]
	}
	raw.WheelDelta = 0
	return raw
}

// processInjectedInput pops one event from the inject queue and dispatches
// it. Returns true if an event was consumed (real mouse input is skipped).
func (in *Input) processInjectedInput(root *Control, mods KeyModifiers) bool {
	if len(in.injectQueue) == 0 {
		return false
	}
	raw := in.injectQueue[0]
	copy(in.injectQueue, in.injectQueue[1:])
	in.injectQueue = in.injectQueue[:len(in.injectQueue)-1]
	in.dispatch(root, raw, mods)
	return true
}
