package termview

import (
	"image"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phanxgames/lunar"
)

var testDate = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestModel() Model {
	return New(Config{
		Date:      testDate,
		DiscCells: 12,
		Now:       func() time.Time { return testDate },
	})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestKeys_StepDate(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want time.Time
	}{
		{"right", tea.KeyMsg{Type: tea.KeyRight}, testDate.Add(time.Hour)},
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, testDate.Add(-time.Hour)},
		{"l", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}}, testDate.Add(time.Hour)},
		{"]", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}}, testDate.AddDate(0, 0, 1)},
		{"[", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}}, testDate.AddDate(0, 0, -1)},
		{"f", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}}, lunar.NextFullMoon(testDate)},
		{"n", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, lunar.NextNewMoon(testDate)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := update(t, newTestModel(), tt.msg)
			if !m.Date().Equal(tt.want) {
				t.Errorf("Date() = %v, want %v", m.Date(), tt.want)
			}
		})
	}
}

func TestKeys_Quit(t *testing.T) {
	_, cmd := newTestModel().Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestMouse_DragLeftAdvances(t *testing.T) {
	var emitted []time.Time
	m := New(Config{
		Date:         testDate,
		DiscCells:    12,
		CellsPerHour: 1,
		Now:          func() time.Time { return testDate },
		OnDateChange: func(t time.Time, _ lunar.PhaseDescriptor) { emitted = append(emitted, t) },
	})

	m = update(t, m, tea.MouseMsg{X: 40, Y: 30, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 35, Y: 30, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 35, Y: 30, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if want := testDate.Add(5 * time.Hour); !m.Date().Equal(want) {
		t.Errorf("Date() = %v, want %v", m.Date(), want)
	}
	if len(emitted) != 1 {
		t.Errorf("OnDateChange called %d times, want 1", len(emitted))
	}

	// Motion after release is ignored.
	m = update(t, m, tea.MouseMsg{X: 10, Y: 30, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if want := testDate.Add(5 * time.Hour); !m.Date().Equal(want) {
		t.Errorf("motion after release moved date to %v", m.Date())
	}
}

func TestWindowSize_FitsDisc(t *testing.T) {
	m := New(Config{Date: testDate})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.discCells != 52 {
		t.Errorf("discCells = %d, want 52", m.discCells)
	}
	if got := len(m.discRows); got != 26 {
		t.Errorf("disc rows = %d, want 26", got)
	}
}

func TestView_ShowsPhase(t *testing.T) {
	m := newTestModel()
	view := m.View()
	if !strings.Contains(view, m.Phase().Name.String()) {
		t.Errorf("view should contain phase name %q", m.Phase().Name)
	}
	if !strings.Contains(view, "Illumination") {
		t.Error("view should contain the illumination line")
	}
}

func TestHalfBlocks_Dimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 6, 5))
	rows := HalfBlocks(img, lunar.MustParseHexColor("#000000"))
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
}

func TestFlatten(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	bg := lunar.MustParseHexColor("#204060")

	if got := flatten(img, 0, 0, bg); got != "#204060" {
		t.Errorf("transparent pixel = %s, want background", got)
	}

	copy(img.Pix, []byte{255, 0, 0, 255})
	if got := flatten(img, 0, 0, bg); got != "#FF0000" {
		t.Errorf("opaque red = %s, want #FF0000", got)
	}
}
