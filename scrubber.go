package lunar

import "time"

const (
	// DefaultPixelsPerHour is the horizontal scale of the timeline.
	DefaultPixelsPerHour = 12.0
	// DefaultVisibleDays is the number of day cells laid out around the
	// selected day.
	DefaultVisibleDays = 7
)

// ScrubConfig configures a Scrubber.
type ScrubConfig struct {
	// PixelsPerHour converts horizontal drag distance into time. Zero uses
	// DefaultPixelsPerHour.
	PixelsPerHour float64
	// VisibleDays is the number of day cells in LayoutDays. Zero uses
	// DefaultVisibleDays.
	VisibleDays int
	// Bounds is the hit region for starting a drag, in the same coordinate
	// space as the pointer. An empty Bounds accepts any point.
	Bounds Rect
}

func (c ScrubConfig) withDefaults() ScrubConfig {
	if c.PixelsPerHour <= 0 {
		c.PixelsPerHour = DefaultPixelsPerHour
	}
	if c.VisibleDays <= 0 {
		c.VisibleDays = DefaultVisibleDays
	}
	return c
}

// ScrubState is the drag state of a Scrubber. The zero value is Idle.
type ScrubState struct {
	IsDragging bool
	// StartX is the drag origin. It moves to the pointer after every move, so
	// each move is measured from the previous one.
	StartX float64
	// OffsetX is the total pointer displacement since the drag began.
	OffsetX float64
	// Velocity is the most recent pointer speed in pixels per millisecond.
	// Nothing consumes it; there is no inertia after release.
	Velocity      float64
	LastEventTime time.Time
}

// Scrubber is a horizontal time control: dragging left moves the date forward,
// dragging right moves it back. It owns the current date and reports every
// change through OnChange.
//
// The state machine is Idle → Dragging → Idle. Moves and releases that arrive
// without a preceding press are ignored.
type Scrubber struct {
	cfg      ScrubConfig
	date     time.Time
	state    ScrubState
	onChange func(time.Time)
}

// NewScrubber creates an idle scrubber positioned at date.
func NewScrubber(cfg ScrubConfig, date time.Time) *Scrubber {
	return &Scrubber{cfg: cfg.withDefaults(), date: date}
}

// Config returns the effective configuration.
func (s *Scrubber) Config() ScrubConfig {
	return s.cfg
}

// SetBounds replaces the hit region.
func (s *Scrubber) SetBounds(r Rect) {
	s.cfg.Bounds = r
}

// OnChange sets the callback invoked with the new date after every move that
// shifts it. Pass nil to remove it.
func (s *Scrubber) OnChange(fn func(time.Time)) {
	s.onChange = fn
}

// Date returns the current date.
func (s *Scrubber) Date() time.Time {
	return s.date
}

// SetDate moves the scrubber to t without emitting a change. It does not
// interrupt a drag in progress.
func (s *Scrubber) SetDate(t time.Time) {
	s.date = t
}

// State returns a copy of the drag state.
func (s *Scrubber) State() ScrubState {
	return s.state
}

// Dragging reports whether a drag is in progress.
func (s *Scrubber) Dragging() bool {
	return s.state.IsDragging
}

// PointerDown starts a drag when (x, y) is inside Bounds. It returns true if
// a drag started. A press during a drag is ignored.
func (s *Scrubber) PointerDown(x, y float64, at time.Time) bool {
	if s.state.IsDragging {
		return false
	}
	if !s.cfg.Bounds.Empty() && !s.cfg.Bounds.Contains(x, y) {
		return false
	}
	s.state = ScrubState{
		IsDragging:    true,
		StartX:        x,
		LastEventTime: at,
	}
	return true
}

// PointerMove shifts the date by (StartX - x) / PixelsPerHour hours, emits it
// and makes x the new origin. Ignored when not dragging; a zero delta emits
// nothing.
func (s *Scrubber) PointerMove(x float64, at time.Time) {
	if !s.state.IsDragging {
		return
	}
	delta := s.state.StartX - x
	if dt := at.Sub(s.state.LastEventTime); dt > 0 {
		s.state.Velocity = delta / (float64(dt) / float64(time.Millisecond))
	}
	s.state.LastEventTime = at
	if delta == 0 {
		return
	}
	s.state.OffsetX += x - s.state.StartX
	s.state.StartX = x

	s.date = s.date.Add(HoursToDuration(delta / s.cfg.PixelsPerHour))
	if s.onChange != nil {
		s.onChange(s.date)
	}
}

// PointerUp ends the drag. Ignored when not dragging.
func (s *Scrubber) PointerUp() {
	s.reset()
}

// PointerCancel ends the drag the same way PointerUp does.
func (s *Scrubber) PointerCancel() {
	s.reset()
}

// PointerLeave ends the drag when the pointer leaves the tracked surface.
func (s *Scrubber) PointerLeave() {
	s.reset()
}

func (s *Scrubber) reset() {
	s.state = ScrubState{}
}

// Days lays out the day cells for a viewport of the given width.
func (s *Scrubber) Days(viewportWidth float64) []TimelineDay {
	return LayoutDays(s.date, viewportWidth, s.cfg.PixelsPerHour, s.cfg.VisibleDays)
}

// Ticks lays out the hour ticks for a viewport of the given width.
func (s *Scrubber) Ticks(viewportWidth float64) []TimelineTick {
	return LayoutTicks(s.date, viewportWidth, s.cfg.PixelsPerHour)
}

// HoursToDuration converts fractional hours to a Duration, truncating toward
// zero so that h and -h map to exact opposites.
func HoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
