// Package termview is a terminal rendition of the lunar timeline: the disc
// drawn with half-block cells, the info readout, and an hour ruler that can be
// scrubbed with the mouse or stepped with the keyboard.
package termview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phanxgames/lunar"
)

const (
	defaultDiscCells    = 32
	minDiscCells        = 8
	maxDiscCells        = 64
	defaultCellsPerHour = 1.0
	// chromeRows is everything but the disc: title, info, ruler, footer.
	chromeRows = 14
)

// Config configures a Model. Every field is optional.
type Config struct {
	Date        time.Time
	TimeZone    *time.Location
	Disc        lunar.DiscConfig
	Cache       *lunar.PhaseCache
	ShowDetails bool
	// DiscCells is the disc width in terminal columns. Zero sizes it from
	// the window.
	DiscCells int
	// CellsPerHour is the ruler scale; dragging one cell moves 1/CellsPerHour
	// hours.
	CellsPerHour float64
	Now          func() time.Time
	OnDateChange func(time.Time, lunar.PhaseDescriptor)
}

// Model is the bubbletea model for the terminal view.
type Model struct {
	keys  KeyMap
	cfg   Config
	cache *lunar.PhaseCache
	scrub *lunar.Scrubber
	bg    lunar.Color

	date     time.Time
	phase    lunar.PhaseDescriptor
	discRows []string
	details  bool

	width, height int
	discCells     int
}

// New creates a model positioned at cfg.Date (or now).
func New(cfg Config) Model {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Cache == nil {
		cfg.Cache = lunar.NewPhaseCache(lunar.DefaultCacheCapacity, nil)
	}
	if cfg.CellsPerHour <= 0 {
		cfg.CellsPerHour = defaultCellsPerHour
	}
	date := cfg.Date
	if date.IsZero() {
		date = cfg.Now()
	}
	cells := cfg.DiscCells
	if cells <= 0 {
		cells = defaultDiscCells
	}

	m := Model{
		keys:      DefaultKeyMap(),
		cfg:       cfg,
		cache:     cfg.Cache,
		scrub:     lunar.NewScrubber(lunar.ScrubConfig{PixelsPerHour: cfg.CellsPerHour}, date),
		bg:        lunar.MustParseHexColor(backgroundHex),
		details:   cfg.ShowDetails,
		width:     80,
		height:    24,
		discCells: cells,
	}
	m.setDate(date, false)
	return m
}

// Date returns the selected date.
func (m Model) Date() time.Time {
	return m.date
}

// Phase returns the descriptor for the selected date.
func (m Model) Phase() lunar.PhaseDescriptor {
	return m.phase
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.cfg.DiscCells <= 0 {
			m.discCells = fitDisc(msg.Width, msg.Height)
			m.renderDisc()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.setDate(m.date.Add(-time.Hour), true)
	case key.Matches(msg, m.keys.Forward):
		m.setDate(m.date.Add(time.Hour), true)
	case key.Matches(msg, m.keys.BackDay):
		m.setDate(m.date.AddDate(0, 0, -1), true)
	case key.Matches(msg, m.keys.ForwardDay):
		m.setDate(m.date.AddDate(0, 0, 1), true)
	case key.Matches(msg, m.keys.NextFull):
		m.setDate(lunar.NextFullMoon(m.date), true)
	case key.Matches(msg, m.keys.NextNew):
		m.setDate(lunar.NextNewMoon(m.date), true)
	case key.Matches(msg, m.keys.Now):
		m.setDate(m.cfg.Now(), true)
	case key.Matches(msg, m.keys.Details):
		m.details = !m.details
	}
	return m, nil
}

// handleMouse feeds left-button drags to the scrubber. Any cell is a valid
// drag origin.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	at := m.cfg.Now()
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.scrub.PointerDown(float64(msg.X), float64(msg.Y), at)
		}
	case tea.MouseActionMotion:
		m.scrub.PointerMove(float64(msg.X), at)
		if d := m.scrub.Date(); !d.Equal(m.date) {
			m.setDate(d, true)
		}
	case tea.MouseActionRelease:
		m.scrub.PointerUp()
	}
}

func (m *Model) setDate(t time.Time, emit bool) {
	if m.cfg.TimeZone != nil {
		t = t.In(m.cfg.TimeZone)
	}
	m.date = t
	m.scrub.SetDate(t)
	m.phase = m.cache.Get(t)
	m.renderDisc()
	if emit && m.cfg.OnDateChange != nil {
		m.cfg.OnDateChange(t, m.phase)
	}
}

func (m *Model) renderDisc() {
	img := lunar.RenderImage(m.phase, float64(m.discCells), 1, m.cfg.Disc)
	m.discRows = HalfBlocks(img, m.bg)
}

func fitDisc(width, height int) int {
	n := min(width-4, (height-chromeRows)*2)
	return max(minDiscCells, min(maxDiscCells, n))
}

// View implements tea.Model.
func (m Model) View() string {
	shown := m.phase
	shown.Instant = m.date
	info := lunar.FormatInfo(shown, m.details)

	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("%s  %s", m.phase.Name.Symbol(), m.date.Format("Mon Jan 2 2006 15:04 MST"))))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(m.discRows, "\n"))
	b.WriteString("\n\n")
	for _, line := range info {
		b.WriteString(styleInfo.Render(line))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(m.ruler())
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

// ruler draws the hour ticks, their labels and a marker under the selected
// instant, one cell per tick column.
func (m Model) ruler() string {
	w := max(m.width, 1)
	marks := []rune(strings.Repeat(" ", w))
	labels := []rune(strings.Repeat(" ", w))
	for _, tick := range lunar.LayoutTicks(m.date, float64(w), m.cfg.CellsPerHour) {
		col := int(tick.X)
		if col < 0 || col >= w {
			continue
		}
		switch tick.Kind {
		case lunar.TickDay:
			marks[col] = '|'
		case lunar.TickHour:
			marks[col] = '+'
		default:
			marks[col] = '·'
		}
		for i, r := range tick.Label {
			if col+i < w {
				labels[col+i] = r
			}
		}
	}
	cursor := []rune(strings.Repeat(" ", w))
	cursor[min(w/2, w-1)] = '▲'

	return lipgloss.JoinVertical(lipgloss.Left,
		styleTickDay.Render(string(labels)),
		styleTimeline.Render(string(marks)),
		styleCursor.Render(string(cursor)),
	)
}

func (m Model) footer() string {
	var parts []string
	for _, b := range footerBindings(m.keys) {
		help := b.Help()
		parts = append(parts, styleFooterKey.Render(help.Key)+" "+styleFooterDesc.Render(help.Desc))
	}
	return strings.Join(parts, "  ")
}

// Run starts the terminal view and blocks until the user quits.
func Run(cfg Config, opts ...tea.ProgramOption) error {
	allOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
	allOpts = append(allOpts, opts...)
	if _, err := tea.NewProgram(New(cfg), allOpts...).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
