package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not a cron line")
	require.Error(t, err)

	_, err = Parse("0 9 * * 1-5")
	require.NoError(t, err)
}

func TestParseAllSeparatesInvalid(t *testing.T) {
	entries, invalid := ParseAll([]string{"0 9 * * *", "bogus", "*/30 * * * *"})
	require.Len(t, entries, 2)
	require.Equal(t, []string{"bogus"}, invalid)
}

func TestNextRunsMergedInOrder(t *testing.T) {
	entries, invalid := ParseAll([]string{"0 9 * * *", "0 18 * * *"})
	require.Empty(t, invalid)

	from := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
	runs := NextRuns(entries, from, 4)
	require.Len(t, runs, 4)
	require.Equal(t, 9, runs[0].Hour())
	require.Equal(t, 18, runs[1].Hour())
	require.Equal(t, 9, runs[2].Hour())
	require.Equal(t, 18, runs[3].Hour())
	for i := 1; i < len(runs); i++ {
		require.True(t, runs[i].After(runs[i-1]))
	}
}

func TestDaysInMonthWeekdays(t *testing.T) {
	// Weekdays at 09:00, August 2026. Aug 1-2 2026 is a weekend.
	entries, _ := ParseAll([]string{"0 9 * * 1-5"})
	days := DaysInMonth(entries, 2026, time.August, time.UTC)

	require.False(t, days[1])
	require.False(t, days[2])
	require.True(t, days[3], "Monday Aug 3")
	require.True(t, days[7], "Friday Aug 7")
	require.False(t, days[8], "Saturday Aug 8")
	require.True(t, days[31], "Monday Aug 31")
}

func TestDaysInMonthIncludesMidnight(t *testing.T) {
	entries, _ := ParseAll([]string{"0 0 1 * *"})
	days := DaysInMonth(entries, 2026, time.August, time.UTC)
	require.True(t, days[1], "midnight on the 1st counts")
	require.Len(t, days, 1)
}

func TestRenderCalendarShape(t *testing.T) {
	today := time.Date(2026, time.August, 23, 12, 0, 0, 0, time.Local)
	out := RenderCalendar(2026, time.August, map[int]bool{3: true}, today)

	require.Contains(t, out, "August 2026")
	require.Contains(t, out, "Mo Tu We Th Fr Sa Su")
	// August 2026 starts on a Saturday: five leading blank columns.
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	require.True(t, strings.HasPrefix(lines[2], strings.Repeat("   ", 5)))
	require.Contains(t, out, "31")
}
