package lunar

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constants ---

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// pointerTarget is what the input router drives. Scrubber implements it.
type pointerTarget interface {
	Hit(x, y float64) bool
	PointerDown(x, y float64, at time.Time) bool
	PointerMove(x float64, at time.Time)
	PointerUp()
	PointerLeave()
}

// Hit reports whether (x, y) is inside the scrubber's bounds. An empty Bounds
// matches everything.
func (s *Scrubber) Hit(x, y float64) bool {
	return s.cfg.Bounds.Empty() || s.cfg.Bounds.Contains(x, y)
}

// --- Per-pointer state ---

type pointerState struct {
	down  bool
	lastX float64
	lastY float64
}

// inputRouter funnels mouse, touch and synthetic events into one
// down/move/up stream for a single target. Only one pointer drives the target
// at a time; the first press that the target accepts captures it until that
// pointer is released or leaves the target.
type inputRouter struct {
	pointers [maxPointers]pointerState
	active   int // pointer driving the target, or -1

	touchUsed    [maxPointers]bool
	touchMap     [maxPointers]ebiten.TouchID
	prevTouchIDs []ebiten.TouchID

	injectQueue []syntheticPointerEvent

	// scale converts host pixels to logical pixels (divide).
	scale float64
}

func newInputRouter() *inputRouter {
	return &inputRouter{active: -1, scale: 1}
}

// process is called once per frame. Injected events take priority: when one
// is consumed real devices are not polled that frame.
func (r *inputRouter) process(t pointerTarget, now time.Time) {
	if r.processInjectedInput(t, now) {
		return
	}
	r.processMousePointer(t, now)
	r.processTouchPointers(t, now)
}

// processMousePointer handles mouse input (pointer 0).
func (r *inputRouter) processMousePointer(t pointerTarget, now time.Time) {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	r.processPointer(t, 0, float64(mx)/r.scale, float64(my)/r.scale, pressed, now)
}

// processTouchPointers handles touch input (pointers 1-9).
func (r *inputRouter) processTouchPointers(t pointerTarget, now time.Time) {
	touchIDs := ebiten.AppendTouchIDs(r.prevTouchIDs[:0])
	r.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := r.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		r.processPointer(t, slot, float64(tx)/r.scale, float64(ty)/r.scale, true, now)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if r.touchUsed[i] && !activeSlots[i] {
			ps := &r.pointers[i]
			if ps.down {
				r.processPointer(t, i, ps.lastX, ps.lastY, false, now)
			}
			r.touchUsed[i] = false
			r.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (r *inputRouter) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if r.touchUsed[i] && r.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !r.touchUsed[i] {
			r.touchUsed[i] = true
			r.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the press/move/release state machine for one pointer.
func (r *inputRouter) processPointer(t pointerTarget, id int, x, y float64, pressed bool, now time.Time) {
	ps := &r.pointers[id]

	switch {
	case pressed && !ps.down:
		ps.down = true
		if r.active < 0 && t.PointerDown(x, y, now) {
			r.active = id
		}

	case pressed && ps.down:
		if r.active != id || (x == ps.lastX && y == ps.lastY) {
			break
		}
		if !t.Hit(x, y) {
			t.PointerLeave()
			r.active = -1
			break
		}
		t.PointerMove(x, now)

	case !pressed && ps.down:
		ps.down = false
		if r.active == id {
			t.PointerUp()
			r.active = -1
		}
	}

	ps.lastX, ps.lastY = x, y
}

// cancel ends any capture, e.g. when the widget is resized or disposed.
func (r *inputRouter) cancel(t pointerTarget) {
	if r.active >= 0 {
		t.PointerLeave()
		r.active = -1
	}
	for i := range r.pointers {
		r.pointers[i].down = false
	}
}
