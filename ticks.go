package lunar

import (
	"fmt"
	"time"
)

// TickKind classifies an hour tick on the timeline.
type TickKind uint8

const (
	TickMinor TickKind = iota // unlabeled hour
	TickHour                  // every sixth hour, labeled "06", "12", "18"
	TickDay                   // local midnight, labeled with the weekday
)

// TimelineTick is one hour mark. Ticks are derived per layout pass and have
// no identity beyond it.
type TimelineTick struct {
	X     float64
	Time  time.Time
	Kind  TickKind
	Label string
}

// TimelineDay is one day cell centered around the selected date.
type TimelineDay struct {
	// X is the left edge of the day (local midnight); Width spans to the next
	// local midnight and so follows DST shifts.
	X, Width float64
	Start    time.Time
	Label    string
	Selected bool
}

// maxTicks bounds a single layout pass.
const maxTicks = 4096

// LayoutTicks returns the hour ticks visible in a viewport of width pixels
// with date at its center. Ticks fall on local whole hours in date's location.
func LayoutTicks(date time.Time, width, pixelsPerHour float64) []TimelineTick {
	if width <= 0 {
		return nil
	}
	if pixelsPerHour <= 0 {
		pixelsPerHour = DefaultPixelsPerHour
	}
	center := width / 2
	first := floorHour(date.Add(-HoursToDuration(center / pixelsPerHour)))

	var ticks []TimelineTick
	for t := first; len(ticks) < maxTicks; t = t.Add(time.Hour) {
		x := center + t.Sub(date).Hours()*pixelsPerHour
		if x > width {
			break
		}
		if x < 0 {
			continue
		}
		tick := TimelineTick{X: x, Time: t, Kind: TickMinor}
		switch h := t.Hour(); {
		case h == 0:
			tick.Kind = TickDay
			tick.Label = t.Weekday().String()[:3]
		case h%6 == 0:
			tick.Kind = TickHour
			tick.Label = fmt.Sprintf("%02d", h)
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

// LayoutDays returns visibleDays day cells around the selected day. The
// selected day is at index visibleDays/2.
func LayoutDays(date time.Time, width, pixelsPerHour float64, visibleDays int) []TimelineDay {
	if visibleDays <= 0 {
		return nil
	}
	if pixelsPerHour <= 0 {
		pixelsPerHour = DefaultPixelsPerHour
	}
	center := width / 2
	today := startOfDay(date)
	half := visibleDays / 2

	days := make([]TimelineDay, 0, visibleDays)
	for i := range visibleDays {
		start := today.AddDate(0, 0, i-half)
		next := start.AddDate(0, 0, 1)
		days = append(days, TimelineDay{
			X:        center + start.Sub(date).Hours()*pixelsPerHour,
			Width:    next.Sub(start).Hours() * pixelsPerHour,
			Start:    start,
			Label:    fmt.Sprintf("%s %d", start.Weekday().String()[:3], start.Day()),
			Selected: i == half,
		})
	}
	return days
}

// floorHour truncates t to the start of its local hour. time.Truncate works
// on absolute time and would be off for zones with sub-hour offsets.
func floorHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
