package lunar

import (
	"fmt"
	"strings"
)

// FormatInfo returns the text readout for d: the phase name, illumination
// percent, lunar age and a waxing/waning arrow. With details it adds the
// terminator angle and the next full and new moons in d.Instant's location.
func FormatInfo(d PhaseDescriptor, details bool) []string {
	arrow := "↓ Waning"
	if d.IsWaxing {
		arrow = "↑ Waxing"
	}
	lines := []string{
		d.Name.String(),
		fmt.Sprintf("Illumination: %.0f%%", d.Illumination*100),
		fmt.Sprintf("Age: %.1f days", d.LunarAge),
		arrow,
	}
	if !details {
		return lines
	}
	const layout = "Mon Jan 2 15:04"
	return append(lines,
		fmt.Sprintf("Terminator: %.1f°", d.TerminatorAngle),
		"Next full: "+NextFullMoon(d.Instant).Format(layout),
		"Next new: "+NextNewMoon(d.Instant).Format(layout),
	)
}

// asciiInfo rewrites the glyphs the ebiten debug font lacks.
var asciiInfo = strings.NewReplacer("↑", "^", "↓", "v", "°", " deg")
