package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/phanxgames/lunar"
	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print a month of moon phases",
	Args:  cobra.NoArgs,
	RunE:  runCalendar,
}

func init() {
	calendarCmd.Flags().String("month", "", "month to show as YYYY-MM (default current)")
	rootCmd.AddCommand(calendarCmd)
}

var (
	calTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F4F1E8")).
			MarginBottom(1)
	calHeadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7A86A8")).
			Width(calCellWidth).
			Align(lipgloss.Center)
	calCellStyle = lipgloss.NewStyle().
			Width(calCellWidth).
			Align(lipgloss.Center)
	calMajorStyle = calCellStyle.
			Foreground(lipgloss.Color("#F2C94C")).
			Bold(true)
	calLegendStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7A86A8")).
			MarginTop(1)
)

const calCellWidth = 7

func runCalendar(cmd *cobra.Command, args []string) error {
	loc, err := appCfg.Location()
	if err != nil {
		return err
	}
	now := time.Now().In(loc)
	year, month := now.Year(), now.Month()

	if s, _ := cmd.Flags().GetString("month"); s != "" {
		m, err := time.ParseInLocation("2006-01", s, loc)
		if err != nil {
			return fmt.Errorf("invalid --month %q: want YYYY-MM", s)
		}
		year, month = m.Year(), m.Month()
	}

	today := -1
	if now.Year() == year && now.Month() == month {
		today = now.Day()
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderCalendar(year, month, loc, today))
	return nil
}

// renderCalendar lays out one week per row, Sunday first. Each cell holds the
// day number over the phase glyph sampled at local noon. today < 1 marks no
// day.
func renderCalendar(year int, month time.Month, loc *time.Location, today int) string {
	phases := lunar.MonthPhases(year, month, loc)
	first := time.Date(year, month, 1, 12, 0, 0, 0, loc)
	lead := int(first.Weekday())

	var rows []string

	head := make([]string, 7)
	for i := range head {
		head[i] = calHeadStyle.Render(time.Weekday(i).String()[:3])
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, head...))

	week := make([]string, 0, 7)
	for i := 0; i < lead; i++ {
		week = append(week, calCellStyle.Render(""))
	}
	for i, d := range phases {
		day := i + 1
		style := calCellStyle
		if isMajor(d.Name) {
			style = calMajorStyle
		}
		if day == today {
			style = style.Reverse(true)
		}
		week = append(week, style.Render(fmt.Sprintf("%d\n%s", day, d.Name.Symbol())))
		if len(week) == 7 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, week...))
			week = week[:0]
		}
	}
	if len(week) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, week...))
	}

	title := calTitleStyle.Render(first.Format("January 2006"))
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		calLegendStyle.Render(legend()),
	)
}

func isMajor(n lunar.PhaseName) bool {
	switch n {
	case lunar.PhaseNew, lunar.PhaseFirstQuarter, lunar.PhaseFull, lunar.PhaseLastQuarter:
		return true
	}
	return false
}

func legend() string {
	parts := make([]string, 0, 8)
	for n := lunar.PhaseNew; n <= lunar.PhaseWaningCrescent; n++ {
		parts = append(parts, n.Symbol()+" "+n.Short())
	}
	return strings.Join(parts, "  ")
}
