package termview

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary    = lipgloss.Color("#F4F1E8") // Moon white
	colorAccent     = lipgloss.Color("#FFD700") // Gold, selected hour
	colorMuted      = lipgloss.Color("#5A6488") // Slate, minor ticks
	colorMutedLight = lipgloss.Color("#9AA3C7") // Light slate, day ticks
	colorSurface    = lipgloss.Color("#161A26") // Timeline background
)

// backgroundHex is what the disc is composited over before it is turned into
// terminal cells.
const backgroundHex = "#0E1018"

var (
	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleInfo = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleTimeline = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorMuted)

	styleTickDay = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorMutedLight).
			Bold(true)

	styleCursor = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorAccent).
			Bold(true)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterDesc = lipgloss.NewStyle().
			Foreground(colorMuted)
)
