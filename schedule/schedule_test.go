package schedule

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/garminplanner/plan"
)

func wk(name, date, at string, minutes int, sport plan.Sport) plan.Workout {
	return plan.Workout{
		Name:            name,
		Description:     "desc, with \"quotes\"\nand a newline",
		Sport:           sport,
		ScheduledDate:   date,
		ScheduledTime:   at,
		DurationSeconds: minutes * 60,
	}
}

func TestExportCalendar(t *testing.T) {
	ws := []plan.Workout{
		wk("late swim", "2025-08-04", "23:30", 60, plan.SportSwimming),
		wk("untimed", "2025-08-05", "", 30, plan.SportRunning),
		wk("undated", "", "07:00", 30, plan.SportRunning),
		wk("morning run", "2025-08-05", "07:00", 45, plan.SportRunning),
		wk("new year", "2025-12-31", "23:00", 90, plan.SportCycling),
	}

	base := filepath.Join(t.TempDir(), "calendar")
	path, err := ExportCalendar(ws, base)
	require.NoError(t, err)
	assert.Equal(t, base+".csv", path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4, "header plus one row per fully scheduled workout")
	assert.Equal(t, csvHeader, rows[0])

	tests := []struct {
		subject, startDate, startTime, endDate, endTime string
	}{
		{"late swim", "2025-08-04", "23:30", "2025-08-05", "00:30"},
		{"morning run", "2025-08-05", "07:00", "2025-08-05", "07:45"},
		{"new year", "2025-12-31", "23:00", "2026-01-01", "00:30"},
	}
	for i, tt := range tests {
		row := rows[i+1]
		got := []string{row[0], row[1], row[2], row[3], row[4]}
		want := []string{tt.subject, tt.startDate, tt.startTime, tt.endDate, tt.endTime}
		assert.Equal(t, want, got)
		assert.Equal(t, "False", row[5])
		assert.Equal(t, "desc, with \"quotes\"\nand a newline", row[6])
		assert.Equal(t, "Garmin Connect Workout", row[7])
		assert.Equal(t, "Fitness,Training", row[8])
	}
}

func TestCalendarSkipsOutOfRangeDurations(t *testing.T) {
	ws := []plan.Workout{
		wk("huge", "2025-08-04", "07:00", 1_000_000_000, plan.SportRunning),
		wk("zero", "2025-08-04", "08:00", 0, plan.SportRunning),
		wk("full day", "2025-08-04", "09:00", plan.MaxMinutes, plan.SportCycling),
	}

	data, err := CalendarCSV(ws)
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"full day", "2025-08-04", "09:00", "2025-08-05", "09:00"}, rows[1][:5])

	ics := CalendarICS(ws, time.Date(2025, time.August, 3, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, strings.Count(ics, "BEGIN:VEVENT"))
	assert.NotContains(t, ics, "SUMMARY:huge")
}

func TestExportCalendarEmpty(t *testing.T) {
	data, err := CalendarCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(csvHeader, ",")+"\n", string(data))
}

func TestSummarize(t *testing.T) {
	ws := []plan.Workout{
		wk("2025-08-05 18:00 Strength strength", "2025-08-05", "18:00", 45, plan.SportStrength),
		wk("2025-08-04 Yoga general", "2025-08-04", "", 30, plan.SportYoga),
		wk("undated", "", "", 30, plan.SportRunning),
		wk("2025-08-05 Indoor_Cycling base", "2025-08-05", "", 60, plan.SportIndoorCycling),
		wk("2025-08-05 07:00 Running base", "2025-08-05", "07:00", 45, plan.SportRunning),
	}

	got := Summarize(ws)
	want := strings.Join([]string{
		"📋 WORKOUT SCHEDULE SUMMARY",
		strings.Repeat("=", 50),
		"",
		"📅 Monday, August 04, 2025",
		strings.Repeat("-", 30),
		"  ⏰ No time - 2025-08-04 Yoga general",
		"     🏃 Yoga • 30 minutes",
		"",
		"",
		"📅 Tuesday, August 05, 2025",
		strings.Repeat("-", 30),
		"  ⏰ No time - 2025-08-05 Indoor_Cycling base",
		"     🏃 Indoor Cycling • 60 minutes",
		"",
		"  ⏰ 7:00 AM - 2025-08-05 07:00 Running base",
		"     🏃 Running • 45 minutes",
		"",
		"  ⏰ 6:00 PM - 2025-08-05 18:00 Strength strength",
		"     🏃 Strength Training • 45 minutes",
		"",
		"",
		"📱 SCHEDULING INSTRUCTIONS:",
		"1. Open Garmin Connect app or website",
		"2. Go to Training → Workouts",
		"3. Find your uploaded workout",
		"4. Tap/click 'Schedule' or 'Add to Calendar'",
		"5. Set the date and time as shown above",
		"",
		"💡 TIP: You can also import the CSV file into your calendar app!",
	}, "\n")
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "undated")
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, "No workouts to schedule.", Summarize(nil))
}

func TestCalendarICS(t *testing.T) {
	ws := []plan.Workout{
		wk("2025-08-04 23:30 Swimming base", "2025-08-04", "23:30", 60, plan.SportSwimming),
		wk("untimed", "2025-08-05", "", 30, plan.SportRunning),
	}
	stamp := time.Date(2025, time.August, 1, 9, 0, 0, 0, time.UTC)

	ics := CalendarICS(ws, stamp)
	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n"))
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
	assert.Equal(t, 1, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Contains(t, ics, "DTSTAMP:20250801T090000Z\r\n")
	assert.Contains(t, ics, "DTSTART:20250804T233000\r\n")
	assert.Contains(t, ics, "DTEND:20250805T003000\r\n")
	assert.Contains(t, ics, "DESCRIPTION:desc\\, with \"quotes\"\\nand a newline\r\n")
	assert.Contains(t, ics, "UID:"+EventUID(ws[0])+"\r\n")

	assert.Equal(t, EventUID(ws[0]), EventUID(ws[0]))
	assert.NotEqual(t, EventUID(ws[0]), EventUID(ws[1]))
}

func TestExportICS(t *testing.T) {
	base := filepath.Join(t.TempDir(), "plan")
	path, err := ExportICS([]plan.Workout{wk("a", "2025-08-04", "07:00", 30, plan.SportRunning)}, base)
	require.NoError(t, err)
	assert.Equal(t, base+".ics", path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "SUMMARY:a\r\n")
}
