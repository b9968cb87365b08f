// Package schedule exports parsed workouts for people and calendars: a CSV
// for calendar import, an iCalendar file and a plain text summary.
package schedule

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/briangreenhill/garminplanner/plan"
	"github.com/briangreenhill/garminplanner/store"
	"github.com/briangreenhill/garminplanner/workout"
)

const (
	DefaultBase = "workout_schedule"
	location    = "Garmin Connect Workout"
	categories  = "Fitness,Training"
)

var csvHeader = []string{
	"Subject", "Start Date", "Start Time", "End Date", "End Time",
	"All Day Event", "Description", "Location", "Categories",
}

// slot is a fully scheduled workout.
type slot struct {
	w          plan.Workout
	start, end time.Time
}

// slots returns the workouts that have both a date and a time, in input order.
// Durations outside (0, plan.MaxMinutes] are left out.
func slots(ws []plan.Workout) []slot {
	var out []slot
	for _, w := range ws {
		if !w.HasSchedule() || w.DurationSeconds <= 0 || w.DurationSeconds > plan.MaxMinutes*60 {
			continue
		}
		start, err := time.Parse(plan.DateLayout+" "+plan.TimeLayout, w.ScheduledDate+" "+w.ScheduledTime)
		if err != nil {
			continue
		}
		out = append(out, slot{w: w, start: start, end: start.Add(time.Duration(w.DurationSeconds) * time.Second)})
	}
	return out
}

// CalendarCSV renders the calendar rows of ws.
func CalendarCSV(ws []plan.Workout) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, s := range slots(ws) {
		row := []string{
			s.w.Name,
			s.w.ScheduledDate,
			s.w.ScheduledTime,
			s.end.Format(plan.DateLayout),
			s.end.Format(plan.TimeLayout),
			"False",
			s.w.Description,
			location,
			categories,
		}
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	return buf.Bytes(), cw.Error()
}

// ExportCalendar writes <base>.csv and returns its path. Workouts without a
// date and a time are left out.
func ExportCalendar(ws []plan.Workout, base string) (string, error) {
	if base == "" {
		base = DefaultBase
	}
	data, err := CalendarCSV(ws)
	if err != nil {
		return "", fmt.Errorf("render calendar: %w", err)
	}
	path := base + ".csv"
	if err := store.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write calendar: %w", err)
	}
	return path, nil
}

// Summarize renders a day-by-day schedule. Workouts without a date are left
// out; on one day untimed workouts come first.
func Summarize(ws []plan.Workout) string {
	if len(ws) == 0 {
		return "No workouts to schedule."
	}

	byDate := map[string][]plan.Workout{}
	for _, w := range ws {
		if w.ScheduledDate != "" {
			byDate[w.ScheduledDate] = append(byDate[w.ScheduledDate], w)
		}
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	lines := []string{"📋 WORKOUT SCHEDULE SUMMARY", strings.Repeat("=", 50), ""}
	for _, d := range dates {
		day := d
		if t, err := time.Parse(plan.DateLayout, d); err == nil {
			day = t.Format("Monday, January 02, 2006")
		}
		lines = append(lines, "📅 "+day, strings.Repeat("-", 30))

		dayWorkouts := byDate[d]
		sort.SliceStable(dayWorkouts, func(i, j int) bool {
			return dayWorkouts[i].ScheduledTime < dayWorkouts[j].ScheduledTime
		})
		for _, w := range dayWorkouts {
			lines = append(lines,
				fmt.Sprintf("  ⏰ %s - %s", clock(w.ScheduledTime), w.Name),
				fmt.Sprintf("     🏃 %s • %d minutes", sportLabel(w.Sport), w.DurationSeconds/60),
				"",
			)
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"📱 SCHEDULING INSTRUCTIONS:",
		"1. Open Garmin Connect app or website",
		"2. Go to Training → Workouts",
		"3. Find your uploaded workout",
		"4. Tap/click 'Schedule' or 'Add to Calendar'",
		"5. Set the date and time as shown above",
		"",
		"💡 TIP: You can also import the CSV file into your calendar app!",
	)
	return strings.Join(lines, "\n")
}

// clock renders "07:00" as "7:00 AM".
func clock(hhmm string) string {
	if hhmm == "" {
		return "No time"
	}
	t, err := time.Parse(plan.TimeLayout, hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}

// sportLabel renders the Garmin sport key in words, e.g. "Strength Training".
func sportLabel(s plan.Sport) string {
	words := strings.Fields(strings.ReplaceAll(workout.SportType(s).SportTypeKey, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
