package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/briangreenhill/garminplanner/plan"
	"github.com/briangreenhill/garminplanner/store"
)

// uidNamespace scopes event UIDs so re-exporting a workout updates the
// calendar entry instead of adding a second one.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://connect.garmin.com/modern/workouts"))

// CalendarICS renders ws as an iCalendar document. Event times are floating
// local times, as they are in the plan.
func CalendarICS(ws []plan.Workout, stamp time.Time) string {
	var sb strings.Builder

	sb.WriteString("BEGIN:VCALENDAR\r\n")
	sb.WriteString("VERSION:2.0\r\n")
	sb.WriteString("PRODID:-//garminplanner//Workout Plan//EN\r\n")
	sb.WriteString("CALSCALE:GREGORIAN\r\n")
	sb.WriteString("METHOD:PUBLISH\r\n")
	sb.WriteString("X-WR-CALNAME:Workouts\r\n")

	for _, s := range slots(ws) {
		sb.WriteString("BEGIN:VEVENT\r\n")
		sb.WriteString(fmt.Sprintf("UID:%s\r\n", EventUID(s.w)))
		sb.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp.UTC().Format("20060102T150405Z")))
		sb.WriteString(fmt.Sprintf("DTSTART:%s\r\n", s.start.Format("20060102T150405")))
		sb.WriteString(fmt.Sprintf("DTEND:%s\r\n", s.end.Format("20060102T150405")))
		sb.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(s.w.Name)))
		if s.w.Description != "" {
			sb.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(s.w.Description)))
		}
		sb.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(location)))
		sb.WriteString(fmt.Sprintf("CATEGORIES:%s\r\n", categories))
		sb.WriteString("END:VEVENT\r\n")
	}

	sb.WriteString("END:VCALENDAR\r\n")
	return sb.String()
}

// EventUID is stable for a workout name.
func EventUID(w plan.Workout) string {
	return uuid.NewSHA1(uidNamespace, []byte(w.Name)).String() + "@garminplanner"
}

// ExportICS writes <base>.ics and returns its path.
func ExportICS(ws []plan.Workout, base string) (string, error) {
	if base == "" {
		base = DefaultBase
	}
	path := base + ".ics"
	if err := store.WriteFile(path, []byte(CalendarICS(ws, time.Now())), 0o644); err != nil {
		return "", fmt.Errorf("write ics: %w", err)
	}
	return path, nil
}

func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
