package plan

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time { return time.Date(year, time.July, 30, 9, 0, 0, 0, time.UTC) }
}

func newTestParser() *Parser {
	return NewParser(zerolog.Nop(), WithClock(fixedClock(2025)))
}

func TestResolveDate(t *testing.T) {
	tests := []struct {
		label string
		want  string
		ok    bool
	}{
		{"Monday, August 4th", "2025-08-04", true},
		{"Tuesday, August 5", "2025-08-05", true},
		{"Friday, Aug 1st", "2025-08-01", true},
		{"Saturday, September 22nd", "2025-09-22", true},
		{"Sunday, March 23rd", "2025-03-23", true},
		{"Wednesday, Smarch 4th", "", false},
		{"Thursday, August 45th", "", false},
		{"Saturday, February 29th", "", false},
	}

	for _, tt := range tests {
		got, ok := ResolveDate(tt.label, 2025)
		if ok != tt.ok {
			t.Errorf("ResolveDate(%q) ok = %v, want %v", tt.label, ok, tt.ok)
			continue
		}
		if ok && got.Format(DateLayout) != tt.want {
			t.Errorf("ResolveDate(%q) = %s, want %s", tt.label, got.Format(DateLayout), tt.want)
		}
	}
}

func TestResolveDateLeapYear(t *testing.T) {
	got, ok := ResolveDate("Thursday, February 29th", 2024)
	require.True(t, ok)
	assert.Equal(t, "2024-02-29", got.Format(DateLayout))
}

func TestSections(t *testing.T) {
	text := `# Weekly plan
Intro line that belongs to no section.

**Monday, August 4th:**
- Running (45 minutes, Zone 2)

- Easy pace

Tuesday, August 5th
Rest day

**Monday, August 4th**
- Yoga (30 minutes)
**Wednesday, August 6th:**
`
	sections := Sections(text)
	require.Len(t, sections, 3)

	assert.Equal(t, "Monday, August 4th", sections[0].DateLabel)
	assert.Equal(t, []string{"- Running (45 minutes, Zone 2)", "- Easy pace"}, sections[0].Lines)
	assert.Equal(t, "Tuesday, August 5th", sections[1].DateLabel)
	assert.Equal(t, "Monday, August 4th", sections[2].DateLabel, "duplicate headings stay separate")
	assert.Equal(t, "- Yoga (30 minutes)", sections[2].Body())
}

func TestParseTwoSportsUnderOneHeading(t *testing.T) {
	text := `**Monday, August 4th:**
- Morning (07:00): Running (60 minutes, Zone 2) easy aerobic run
- Evening (18:30): Strength Training (45 minutes) full body gym session`

	workouts := newTestParser().Parse(text)
	require.Len(t, workouts, 2)

	run, strength := workouts[0], workouts[1]
	assert.Equal(t, SportRunning, run.Sport)
	assert.Equal(t, 3600, run.DurationSeconds)
	assert.Equal(t, "2025-08-04", run.ScheduledDate)
	assert.Equal(t, "07:00", run.ScheduledTime)

	assert.Equal(t, SportStrength, strength.Sport)
	assert.Equal(t, 2700, strength.DurationSeconds)
	assert.Equal(t, "18:30", strength.ScheduledTime)
	assert.Equal(t, ArchetypeStrength, strength.Archetype)
	assert.Equal(t, "2025-08-04 18:30 Strength strength", strength.Name)
}

func TestParseSportPrecedence(t *testing.T) {
	text := `Saturday, August 9th
- Indoor Cycling (60 minutes, Zone 2) on the trainer
- Open Water Swim (40 minutes) easy
- Bike ride (90 minutes) long endurance
- Pool Swims (30 minutes)`

	workouts := newTestParser().Parse(text)
	require.Len(t, workouts, 4)

	tests := []struct {
		sport   Sport
		seconds int
	}{
		{SportIndoorCycling, 3600},
		{SportSwimming, 2400},
		{SportCycling, 5400},
		{SportSwimming, 1800},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.sport, workouts[i].Sport, "workout %d", i)
		assert.Equal(t, tt.seconds, workouts[i].DurationSeconds, "workout %d", i)
	}
	assert.Equal(t, "2025-08-09 Indoor_Cycling base", workouts[0].Name)
}

func TestParseSkipsUnparseableAndEmpty(t *testing.T) {
	text := `Funday, Octember 40th
- Running (30 minutes)

Monday, August 4th
- Running (0 minutes) just kidding
- Running (200000000000000000 minutes) easy
- Cycling (1441 minutes) endless
- Running without a duration
- Yoga (20 minutes) at 25:00 then at 19:15`

	workouts := newTestParser().Parse(text)
	require.Len(t, workouts, 1)
	assert.Equal(t, SportYoga, workouts[0].Sport)
	assert.Equal(t, "19:15", workouts[0].ScheduledTime)
	assert.Positive(t, workouts[0].DurationSeconds)
}

func TestParseMaxMinutes(t *testing.T) {
	workouts := newTestParser().Parse("Monday, August 4th\n- Cycling (1440 minutes) long ride")
	require.Len(t, workouts, 1)
	assert.Equal(t, MaxMinutes*60, workouts[0].DurationSeconds)
}

func TestParseYogaIsGeneral(t *testing.T) {
	workouts := newTestParser().Parse("Monday, August 4th\n- Yoga (30 minutes) breathing intervals, zone 4 focus")
	require.Len(t, workouts, 1)
	assert.Equal(t, ArchetypeGeneral, workouts[0].Archetype)
	assert.Equal(t, "2025-08-04 Yoga general", workouts[0].Name)
}

func TestParseEmptyText(t *testing.T) {
	assert.Empty(t, newTestParser().Parse(""))
	assert.Empty(t, newTestParser().Parse("no headings here\nRunning (30 minutes)"))
}

func TestExtractTime(t *testing.T) {
	tests := []struct {
		context string
		want    string
	}{
		{"Morning (06:30): Running (45 minutes)", "06:30"},
		{"evening (19:00) swim", "19:00"},
		{"Afternoon(13:15) ride", "13:15"},
		{"**05:45** Running (30 minutes)", "05:45"},
		{"Yoga (30 minutes) at 20:00", "20:00"},
		{"Easy morning jog", "07:00"},
		{"Evening recovery spin", "18:00"},
		{"Afternoon tempo", "12:00"},
		{"Running (30 minutes)", ""},
		{"at 24:30 sharp", ""},
	}

	for _, tt := range tests {
		if got := ExtractTime(tt.context); got != tt.want {
			t.Errorf("ExtractTime(%q) = %q, want %q", tt.context, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Archetype
	}{
		{"4 x 5-minute intervals at Zone 4", ArchetypeIntervals},
		{"Tempo run in Zone 3", ArchetypeTempo},
		{"Easy Zone 2 run", ArchetypeBase},
		{"Long endurance ride", ArchetypeEndurance},
		{"Strength training session", ArchetypeStrength},
		{"General workout", ArchetypeGeneral},
		{"Threshold efforts then easy", ArchetypeTempo},
	}

	for _, tt := range tests {
		if got := Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestContextSkipsHeadingMarkup(t *testing.T) {
	text := `Monday, August 4th
- Running (40 minutes)
### Notes
**Keep it steady**
- Zone 2 throughout
- Hydrate well
- Not part of the context`

	workouts := newTestParser().Parse(text)
	require.Len(t, workouts, 1)
	assert.Equal(t, "- Running (40 minutes) - Zone 2 throughout", workouts[0].Notes)
	assert.Equal(t, ArchetypeBase, workouts[0].Archetype)
}

func TestDescription(t *testing.T) {
	text := `Monday, August 4th
- Morning (07:00): Running (45 minutes, Zone 2)`

	workouts := newTestParser().Parse(text)
	require.Len(t, workouts, 1)

	want := "- Morning (07:00): Running (45 minutes, Zone 2)\n\n" +
		"📅 Scheduled: Monday, August 04, 2025\n" +
		"⏰ Time: 7:00 AM\n" +
		"📱 Tip: Add to your calendar or set a reminder!"
	assert.Equal(t, want, workouts[0].Description)
}

func TestDescriptionTruncation(t *testing.T) {
	long := make([]rune, 0, 600)
	for len(long) < 600 {
		long = append(long, 'é')
	}
	date := time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC)

	desc := describe(string(long), date, "07:00")
	assert.Equal(t, 500, len([]rune(desc)))
	assert.Equal(t, string(long[:400])+"\n\n📅", string([]rune(desc)[:403]))
	assert.True(t, strings.HasSuffix(desc, "set a reminder"), "description cut at 500 runes")

	untimed := describe(string(long), date, "")
	assert.True(t, strings.HasSuffix(untimed, "set a reminder!"))

	noContext := describe("", date, "18:00")
	assert.Equal(t, "📅 Scheduled: Monday, August 04, 2025\n⏰ Time: 6:00 PM\n📱 Tip: Add to your calendar or set a reminder!", noContext)
}

func TestSportTitle(t *testing.T) {
	assert.Equal(t, "Indoor_Cycling", SportIndoorCycling.Title())
	assert.Equal(t, "Running", SportRunning.Title())
}
