package plan

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	contextLines      = 4 // the matching line plus three more
	maxContextRunes   = 400
	maxDescriptionLen = 500

	// MaxMinutes bounds the duration of a single workout mention.
	MaxMinutes = 24 * 60
)

var (
	headingPattern  = regexp.MustCompile(`^\*{0,2}\s*([A-Za-z]+,\s+[A-Za-z]+\s+\d+(?:st|nd|rd|th)?)\s*[:*]*\s*$`)
	ordinalSuffix   = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)\b`)
	boldLinePattern = regexp.MustCompile(`^\*\*.*\*\*:?$`)
)

// Section is the text under one date heading.
type Section struct {
	DateLabel string
	Lines     []string // non-blank lines, in order
}

// Body returns the section's lines joined by newlines. Line breaks are kept
// so a match offset maps back to its line for the context window.
func (s Section) Body() string {
	return strings.Join(s.Lines, "\n")
}

// Parser extracts workouts from plan markdown. The zero value is not usable;
// construct one with NewParser.
type Parser struct {
	logger zerolog.Logger
	now    func() time.Time
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithClock sets the clock used to pick the year of section dates.
func WithClock(now func() time.Time) ParserOption {
	return func(p *Parser) { p.now = now }
}

// NewParser creates a Parser that logs skipped sections at debug level.
func NewParser(logger zerolog.Logger, opts ...ParserOption) *Parser {
	p := &Parser{logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Sections splits plan text on date headings. Lines before the first heading
// are ignored and headings without any content are dropped.
func Sections(text string) []Section {
	var (
		sections []Section
		current  *Section
	)
	flush := func() {
		if current != nil && len(current.Lines) > 0 {
			sections = append(sections, *current)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := headingPattern.FindStringSubmatch(trimmed); m != nil {
			flush()
			current = &Section{DateLabel: strings.TrimSpace(m[1])}
			continue
		}
		if current != nil && trimmed != "" {
			current.Lines = append(current.Lines, line)
		}
	}
	flush()
	return sections
}

// ResolveDate parses a heading such as "Monday, August 4th" into a date in
// the given year.
func ResolveDate(label string, year int) (time.Time, bool) {
	if i := strings.Index(label, ","); i >= 0 {
		label = label[i+1:]
	}
	label = strings.TrimSpace(ordinalSuffix.ReplaceAllString(label, "$1"))

	for _, layout := range []string{"January 2", "Jan 2"} {
		t, err := time.Parse(layout, label)
		if err != nil {
			continue
		}
		d := time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if d.Month() != t.Month() {
			// February 29 outside a leap year
			return time.Time{}, false
		}
		return d, true
	}
	return time.Time{}, false
}

type mention struct {
	sport      Sport
	start, end int
	minutes    int
}

// Parse returns the workouts found in text, section by section and in text
// order within a section.
func (p *Parser) Parse(text string) []Workout {
	year := p.now().Year()

	var workouts []Workout
	for _, section := range Sections(text) {
		date, ok := ResolveDate(section.DateLabel, year)
		if !ok {
			p.logger.Debug().Str("heading", section.DateLabel).Msg("skipping section with unparseable date")
			continue
		}

		body := section.Body()
		for _, m := range findMentions(body) {
			context := extractContext(section.Lines, body, m.start)
			workouts = append(workouts, newWorkout(date, m, context))
		}
	}
	return workouts
}

func findMentions(body string) []mention {
	var found []mention
	overlaps := func(start, end int) bool {
		for _, m := range found {
			if start < m.end && m.start < end {
				return true
			}
		}
		return false
	}

	for _, rule := range sportRules {
		for _, idx := range rule.pattern.FindAllStringSubmatchIndex(body, -1) {
			start, end := idx[0], idx[1]
			if overlaps(start, end) {
				continue
			}
			minutes, err := strconv.Atoi(body[idx[2]:idx[3]])
			if err != nil || minutes <= 0 || minutes > MaxMinutes {
				continue
			}
			found = append(found, mention{sport: rule.sport, start: start, end: end, minutes: minutes})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].start < found[j].start })
	return found
}

// extractContext returns the line holding offset plus up to three following
// lines, skipping markdown headings and fully bolded lines after the first.
func extractContext(lines []string, body string, offset int) string {
	target := strings.Count(body[:offset], "\n")

	var parts []string
	for i := target; i < len(lines) && i < target+contextLines; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if i != target && (strings.HasPrefix(line, "#") || boldLinePattern.MatchString(line)) {
			continue
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

// ExtractTime returns the HH:MM time of day a context names, falling back to
// a default for the part of day it mentions. It returns "" when neither is found.
func ExtractTime(context string) string {
	for _, re := range timeRules {
		for _, m := range re.FindAllStringSubmatch(context, -1) {
			if _, err := time.Parse(TimeLayout, m[1]); err == nil {
				return m[1]
			}
		}
	}

	lower := strings.ToLower(context)
	for _, d := range defaultTimes {
		if strings.Contains(lower, d.word) {
			return d.at
		}
	}
	return ""
}

func newWorkout(date time.Time, m mention, context string) Workout {
	at := ExtractTime(context)
	archetype := Classify(context)
	if m.sport == SportYoga {
		// yoga is always one steady block
		archetype = ArchetypeGeneral
	}

	name := date.Format(DateLayout) + " "
	if at != "" {
		name += at + " "
	}
	name += m.sport.Title() + " " + string(archetype)

	return Workout{
		Name:            name,
		Description:     describe(context, date, at),
		Sport:           m.sport,
		Archetype:       archetype,
		ScheduledDate:   date.Format(DateLayout),
		ScheduledTime:   at,
		DurationSeconds: m.minutes * 60,
		Notes:           context,
	}
}

func describe(context string, date time.Time, at string) string {
	info := []string{"📅 Scheduled: " + date.Format("Monday, January 02, 2006")}
	if at != "" {
		if t, err := time.Parse(TimeLayout, at); err == nil {
			info = append(info, "⏰ Time: "+t.Format("3:04 PM"))
		}
	}
	info = append(info, "📱 Tip: Add to your calendar or set a reminder!")

	desc := strings.Join(info, "\n")
	if context != "" {
		desc = truncate(context, maxContextRunes) + "\n\n" + desc
	}
	return truncate(desc, maxDescriptionLen)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
