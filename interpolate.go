package lunar

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// LerpPhase blends two descriptors for cross-fading between frames. The cycle
// position moves along the shorter arc (so New at 0.98 → 0.02 passes through
// 0, not Full), and every derived field is recomputed from the blended
// position, so the result satisfies the same invariants as PhaseOf output.
// t is clamped to [0, 1].
func LerpPhase(a, b PhaseDescriptor, t float64) PhaseDescriptor {
	t = clamp01(t)

	df := b.PhaseFraction - a.PhaseFraction
	if df > 0.5 {
		df--
	} else if df < -0.5 {
		df++
	}
	f := a.PhaseFraction + df*t
	f -= math.Floor(f)
	if f >= 1 {
		f = 0
	}

	span := b.Instant.Sub(a.Instant)
	return PhaseDescriptor{
		Illumination:    illuminationAt(f),
		PhaseFraction:   f,
		IsWaxing:        f < 0.5,
		Name:            phaseNameAt(f),
		TerminatorAngle: terminatorAngleAt(f),
		Instant:         a.Instant.Add(time.Duration(float64(span) * t)),
		LunarAge:        f * SynodicMonth,
	}
}

// DateTween animates a calendar instant from one value to another. gween
// works in float32, which cannot hold a Unix timestamp, so the tween drives a
// 0..1 progress value and the instant is rebuilt in float64.
//
// There is no global animation manager; the owner calls Update each frame.
type DateTween struct {
	from, to time.Time
	tween    *gween.Tween
	current  time.Time
	Done     bool
}

// NewDateTween creates a tween from → to over duration seconds. A nil easing
// function uses ease.OutCubic; a non-positive duration completes on the first
// Update.
func NewDateTween(from, to time.Time, duration float32, fn ease.TweenFunc) *DateTween {
	if fn == nil {
		fn = ease.OutCubic
	}
	dt := &DateTween{from: from, to: to, current: from}
	if duration > 0 {
		dt.tween = gween.New(0, 1, duration, fn)
	}
	return dt
}

// Update advances the tween by dt seconds and returns the current instant.
func (d *DateTween) Update(dt float32) time.Time {
	if d.Done {
		return d.current
	}
	if d.tween == nil {
		d.current = d.to
		d.Done = true
		return d.current
	}
	progress, finished := d.tween.Update(dt)
	if finished {
		d.current = d.to
		d.Done = true
		return d.current
	}
	span := d.to.Sub(d.from)
	d.current = d.from.Add(time.Duration(float64(span) * float64(progress)))
	return d.current
}

// Current returns the most recent instant produced by Update.
func (d *DateTween) Current() time.Time {
	return d.current
}

// Target returns the instant the tween ends on.
func (d *DateTween) Target() time.Time {
	return d.to
}
