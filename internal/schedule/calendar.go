package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	calHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	calWeekdayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	calDayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	calMarkedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	calTodayStyle   = lipgloss.NewStyle().Bold(true).Reverse(true)
)

// RenderCalendar renders a month grid with scheduled days highlighted and
// today inverted. Weeks start on Monday.
func RenderCalendar(year int, month time.Month, marked map[int]bool, today time.Time) string {
	var b strings.Builder

	title := fmt.Sprintf("%s %d", month.String(), year)
	b.WriteString(calHeaderStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(calWeekdayStyle.Render("Mo Tu We Th Fr Sa Su"))
	b.WriteString("\n")

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Column index of day 1: Monday=0 .. Sunday=6.
	col := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("   ", col))

	for day := 1; day <= daysInMonth; day++ {
		cell := fmt.Sprintf("%2d", day)
		switch {
		case today.Year() == year && today.Month() == month && today.Day() == day:
			cell = calTodayStyle.Render(cell)
		case marked[day]:
			cell = calMarkedStyle.Render(cell)
		default:
			cell = calDayStyle.Render(cell)
		}
		b.WriteString(cell)
		col++
		if col == 7 && day != daysInMonth {
			b.WriteString("\n")
			col = 0
		} else if day != daysInMonth {
			b.WriteString(" ")
		}
	}
	return b.String()
}
