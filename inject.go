package lunar

import "time"

// syntheticPointerEvent represents a single injected pointer event in the
// widget's logical coordinates.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
}

func (r *inputRouter) inject(x, y float64, pressed bool) {
	r.injectQueue = append(r.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: pressed})
}

// processInjectedInput pops one event from the inject queue and feeds it
// through processPointer as pointer 0. Returns true if an event was consumed
// (real devices should be skipped).
func (r *inputRouter) processInjectedInput(t pointerTarget, now time.Time) bool {
	if len(r.injectQueue) == 0 {
		return false
	}
	evt := r.injectQueue[0]
	copy(r.injectQueue, r.injectQueue[1:])
	r.injectQueue = r.injectQueue[:len(r.injectQueue)-1]

	r.processPointer(t, 0, evt.x, evt.y, evt.pressed, now)
	return true
}

// InjectPress queues a pointer press at the given logical coordinates. The
// event is consumed on the next Update.
func (w *Widget) InjectPress(x, y float64) {
	w.input.inject(x, y, true)
}

// InjectMove queues a pointer move with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (w *Widget) InjectMove(x, y float64) {
	w.input.inject(x, y, true)
}

// InjectRelease queues a pointer release at the given logical coordinates.
func (w *Widget) InjectRelease(x, y float64) {
	w.input.inject(x, y, false)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), frames-2
// evenly spaced moves ending at (toX, toY), and a release there. The total
// sequence consumes `frames` frames. Minimum frames is 2 (press + release).
//
// The release itself is not a move, so a two-frame drag shifts nothing.
func (w *Widget) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	w.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		w.InjectMove(x, y)
	}
	w.InjectRelease(toX, toY)
}

// PendingInput returns the number of queued synthetic events.
func (w *Widget) PendingInput() int {
	return len(w.input.injectQueue)
}
