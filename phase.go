package lunar

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// SynodicMonth is the mean length of the lunar cycle in days.
const SynodicMonth = 29.530588853

// ReferenceNewMoon is the epoch the cycle is measured from: the new moon of
// 2000-01-06 18:14 UTC.
var ReferenceNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

const secondsPerDay = 86400.0

// PhaseName identifies one of the eight named phases.
type PhaseName uint8

const (
	PhaseNew            PhaseName = iota // wraps the 0/1 boundary
	PhaseWaxingCrescent
	PhaseFirstQuarter
	PhaseWaxingGibbous
	PhaseFull
	PhaseWaningGibbous
	PhaseLastQuarter
	PhaseWaningCrescent
)

var phaseNames = [...]string{
	"New Moon", "Waxing Crescent", "First Quarter", "Waxing Gibbous",
	"Full Moon", "Waning Gibbous", "Last Quarter", "Waning Crescent",
}

var phaseShort = [...]string{"New", "WaxC", "1stQ", "WaxG", "Full", "WanG", "LstQ", "WanC"}

var phaseSymbols = [...]string{"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"}

// String returns the display name, e.g. "Waxing Crescent".
func (p PhaseName) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("PhaseName(%d)", p)
}

// Short returns a four-letter abbreviation for narrow layouts.
func (p PhaseName) Short() string {
	if int(p) < len(phaseShort) {
		return phaseShort[p]
	}
	return "?"
}

// Symbol returns the Unicode moon glyph for the phase.
func (p PhaseName) Symbol() string {
	if int(p) < len(phaseSymbols) {
		return phaseSymbols[p]
	}
	return "?"
}

// MarshalText encodes the phase as its display name.
func (p PhaseName) MarshalText() ([]byte, error) {
	if int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("marshal phase name: invalid value %d", p)
	}
	return []byte(phaseNames[p]), nil
}

// UnmarshalText decodes a display name or abbreviation, case-insensitively.
func (p *PhaseName) UnmarshalText(b []byte) error {
	v, err := ParsePhaseName(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePhaseName accepts a display name ("Full Moon"), an abbreviation
// ("Full", "WaxC") or a compact form ("fullmoon", "waxing-crescent").
func ParsePhaseName(s string) (PhaseName, error) {
	norm := func(v string) string {
		v = strings.ToLower(v)
		return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(v)
	}
	want := norm(s)
	for i := range phaseNames {
		name := norm(phaseNames[i])
		if want == name || want == strings.TrimSuffix(name, "moon") || want == norm(phaseShort[i]) {
			return PhaseName(i), nil
		}
	}
	return 0, fmt.Errorf("parse phase name %q: unknown phase", s)
}

// PhaseDescriptor describes the Moon at one instant. It is a value type:
// recompute rather than mutate.
type PhaseDescriptor struct {
	// Illumination is the lit fraction of the visible disc in [0, 1].
	Illumination float64 `json:"illumination" yaml:"illumination"`
	// PhaseFraction is the position in the synodic cycle in [0, 1), 0 = new.
	PhaseFraction float64 `json:"phaseFraction" yaml:"phaseFraction"`
	// IsWaxing is true while PhaseFraction < 0.5.
	IsWaxing bool `json:"isWaxing" yaml:"isWaxing"`
	// Name is the named phase bin for PhaseFraction.
	Name PhaseName `json:"phaseName" yaml:"phaseName"`
	// TerminatorAngle is the 2D orientation of the day/night boundary in
	// degrees, [0, 360).
	TerminatorAngle float64 `json:"terminatorAngle" yaml:"terminatorAngle"`
	// Instant is the moment this descriptor describes.
	Instant time.Time `json:"instant" yaml:"instant"`
	// LunarAge is the number of days since the last new moon, [0, SynodicMonth).
	LunarAge float64 `json:"lunarAge" yaml:"lunarAge"`
}

// Equal reports whether two descriptors carry identical values. Instants are
// compared with time.Time.Equal.
func (d PhaseDescriptor) Equal(o PhaseDescriptor) bool {
	return d.Illumination == o.Illumination &&
		d.PhaseFraction == o.PhaseFraction &&
		d.IsWaxing == o.IsWaxing &&
		d.Name == o.Name &&
		d.TerminatorAngle == o.TerminatorAngle &&
		d.LunarAge == o.LunarAge &&
		d.Instant.Equal(o.Instant)
}

// Location is a geographic position. It is accepted for forward
// compatibility and currently does not change any computed value.
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// PhaseOptions carries the observer parameters accepted by PhaseAt.
//
// Neither field alters the result: the calculator is a function of the
// instant alone. They exist so callers can plumb observer data through
// today without an API change when topocentric corrections arrive.
type PhaseOptions struct {
	Location *Location
	TimeZone *time.Location
}

// Calculator produces phase descriptors.
type Calculator interface {
	Phase(t time.Time) PhaseDescriptor
}

// CalculatorFunc adapts a plain function to the Calculator interface.
type CalculatorFunc func(t time.Time) PhaseDescriptor

// Phase calls f(t).
func (f CalculatorFunc) Phase(t time.Time) PhaseDescriptor {
	return f(t)
}

// DefaultCalculator is the uncached calculator backed by PhaseOf.
var DefaultCalculator Calculator = CalculatorFunc(PhaseOf)

// PhaseOf returns the phase descriptor for t. It is a pure function: the same
// instant always yields bit-identical fields.
//
// t must be a valid time; there is no error path.
func PhaseOf(t time.Time) PhaseDescriptor {
	days := daysSince(ReferenceNewMoon, t)

	age := math.Mod(days, SynodicMonth)
	if age < 0 {
		age += SynodicMonth
	}
	if age >= SynodicMonth {
		age = 0
	}
	fraction := age / SynodicMonth

	waxing := fraction < 0.5
	return PhaseDescriptor{
		Illumination:    illuminationAt(fraction),
		PhaseFraction:   fraction,
		IsWaxing:        waxing,
		Name:            phaseNameAt(fraction),
		TerminatorAngle: terminatorAngleAt(fraction),
		Instant:         t,
		LunarAge:        age,
	}
}

// PhaseAt is PhaseOf with observer options. The options are ignored; see
// PhaseOptions.
func PhaseAt(t time.Time, opts PhaseOptions) PhaseDescriptor {
	return PhaseOf(t)
}

// daysSince returns (t - from) in fractional days without going through
// time.Duration, which saturates about 292 years out.
func daysSince(from, t time.Time) float64 {
	secs := float64(t.Unix() - from.Unix())
	nanos := float64(t.Nanosecond() - from.Nanosecond())
	return (secs + nanos/1e9) / secondsPerDay
}

func illuminationAt(fraction float64) float64 {
	return (1 - math.Cos(2*math.Pi*fraction)) / 2
}

// phaseNameAt bins a cycle fraction. The New bin wraps across 0/1.
func phaseNameAt(f float64) PhaseName {
	switch {
	case f < 0.033 || f >= 0.966:
		return PhaseNew
	case f < 0.216:
		return PhaseWaxingCrescent
	case f < 0.283:
		return PhaseFirstQuarter
	case f < 0.466:
		return PhaseWaxingGibbous
	case f < 0.533:
		return PhaseFull
	case f < 0.716:
		return PhaseWaningGibbous
	case f < 0.783:
		return PhaseLastQuarter
	default:
		return PhaseWaningCrescent
	}
}

// terminatorAngleAt is a simplified 2D projection: two linear maps stitched at
// the half cycle, not a real 3D terminator.
func terminatorAngleAt(f float64) float64 {
	var a float64
	if f < 0.5 {
		a = 90 - f*180
	} else {
		a = 270 - (f-0.5)*180
	}
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// NextFraction returns the first instant strictly after t at which the cycle
// reaches target (taken modulo 1). The result is in t's location.
func NextFraction(t time.Time, target float64) time.Time {
	target -= math.Floor(target)
	d := PhaseOf(t)
	delta := target - d.PhaseFraction
	if delta <= 0 {
		delta++
	}
	secs := delta * SynodicMonth * secondsPerDay
	return t.Add(time.Duration(secs * float64(time.Second)))
}

// NextNewMoon returns the next new moon after t.
func NextNewMoon(t time.Time) time.Time {
	return NextFraction(t, 0)
}

// NextFullMoon returns the next full moon after t.
func NextFullMoon(t time.Time) time.Time {
	return NextFraction(t, 0.5)
}

// MonthPhases returns one descriptor per calendar day of the given month,
// sampled at local noon in loc (UTC when loc is nil).
func MonthPhases(year int, month time.Month, loc *time.Location) []PhaseDescriptor {
	if loc == nil {
		loc = time.UTC
	}
	first := time.Date(year, month, 1, 12, 0, 0, 0, loc)
	n := first.AddDate(0, 1, -1).Day()
	out := make([]PhaseDescriptor, 0, n)
	for day := 1; day <= n; day++ {
		out = append(out, PhaseOf(time.Date(year, month, day, 12, 0, 0, 0, loc)))
	}
	return out
}
