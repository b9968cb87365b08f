package plan

import (
	"fmt"
	"regexp"
	"strings"
)

// sportRule maps a sport mention such as "Running (60 minutes, Zone 2)" to a
// sport. Rules are evaluated in order: a mention that overlaps text already
// claimed by an earlier rule is ignored, so specific keywords must precede
// the generic ones they contain.
type sportRule struct {
	sport   Sport
	pattern *regexp.Regexp
}

func mentionPattern(keyword string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)%s(?:s)?[ \t]*\([ \t]*(\d+)[ \t]*minutes?[^)\n]*\)`, keyword))
}

var sportRules = []sportRule{
	{SportRunning, mentionPattern(`Running?`)},
	{SportIndoorCycling, mentionPattern(`Indoor Cycling?`)},
	{SportCycling, mentionPattern(`Cycling?`)},
	{SportSwimming, mentionPattern(`Open Water Swim`)},
	{SportSwimming, mentionPattern(`Pool Swim`)},
	{SportSwimming, mentionPattern(`Swimming?`)},
	{SportStrength, mentionPattern(`Strength Training?`)},
	{SportYoga, mentionPattern(`Yoga`)},
	{SportCycling, mentionPattern(`Bike[^()\n]*?`)},
}

// timeRules are tried in order; the first valid HH:MM wins.
var timeRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Morning\s*\((\d{2}:\d{2})\)`),
	regexp.MustCompile(`(?i)Evening\s*\((\d{2}:\d{2})\)`),
	regexp.MustCompile(`(?i)Afternoon\s*\((\d{2}:\d{2})\)`),
	regexp.MustCompile(`\*\*\s*(\d{2}:\d{2})\s*\*\*`),
	regexp.MustCompile(`(?i)\bat\s+(\d{2}:\d{2})`),
}

// defaultTimes apply when no explicit time is found but the part of day is mentioned.
var defaultTimes = []struct {
	word string
	at   string
}{
	{"morning", "07:00"},
	{"evening", "18:00"},
	{"afternoon", "12:00"},
}

// archetypeRules are keyword membership tests; the first match wins.
var archetypeRules = []struct {
	archetype Archetype
	keywords  []string
}{
	{ArchetypeIntervals, []string{"interval", "intervals", "zone 4", "zone 5"}},
	{ArchetypeTempo, []string{"tempo", "zone 3", "threshold"}},
	{ArchetypeBase, []string{"easy", "zone 2", "recovery", "base"}},
	{ArchetypeEndurance, []string{"long", "endurance"}},
	{ArchetypeStrength, []string{"strength", "weights", "gym"}},
}

// Classify returns the archetype described by text.
func Classify(text string) Archetype {
	lower := strings.ToLower(text)
	for _, rule := range archetypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.archetype
			}
		}
	}
	return ArchetypeGeneral
}
