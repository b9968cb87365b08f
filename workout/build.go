// Package workout expands parsed plan workouts into timed, zoned steps and
// into the Garmin Connect workout payload.
package workout

import (
	"regexp"
	"strconv"

	"github.com/briangreenhill/garminplanner/plan"
)

const (
	warmupSeconds   = 15 * 60
	cooldownSeconds = 10 * 60

	defaultIntervals       = 4
	defaultIntervalMinutes = 5
	minTempoMinutes        = 20
)

var intervalPattern = regexp.MustCompile(`(?i)(\d+)\s*x\s*(\d+)[-\s]*(?:minute|min)`)

// shape describes how an archetype is laid out. Without tempo or repeat the
// main block spans the whole workout.
type shape struct {
	warmup   bool
	mainZone int
	tempo    bool // main block is max(20, minutes-25) minutes
	repeat   bool // main block is a work/recovery repeat
	cooldown bool
}

var (
	steadyShape    = shape{mainZone: 2}
	archetypeShape = map[plan.Archetype]shape{
		plan.ArchetypeIntervals: {warmup: true, repeat: true, cooldown: true},
		plan.ArchetypeTempo:     {warmup: true, mainZone: 3, tempo: true, cooldown: true},
	}
)

// Build returns the steps of a workout.
func Build(w plan.Workout) []plan.Step {
	sh, ok := archetypeShape[w.Archetype]
	if !ok || w.Sport == plan.SportYoga {
		sh = steadyShape
	}

	var steps []plan.Step
	if sh.warmup {
		steps = append(steps, simple(w.Sport, plan.IntentWarmup, 2, warmupSeconds))
	}

	switch {
	case sh.repeat:
		n, m := Intervals(w.Notes)
		steps = append(steps, plan.Step{
			Kind:       plan.StepRepeat,
			Iterations: n,
			Children: []plan.Step{
				simple(w.Sport, plan.IntentInterval, 4, m*60),
				simple(w.Sport, plan.IntentRecovery, 2, m*60),
			},
		})
	case sh.tempo:
		minutes := max(minTempoMinutes, w.DurationSeconds/60-25)
		steps = append(steps, simple(w.Sport, plan.IntentMain, sh.mainZone, minutes*60))
	default:
		steps = append(steps, simple(w.Sport, plan.IntentMain, sh.mainZone, w.DurationSeconds))
	}

	if sh.cooldown {
		steps = append(steps, simple(w.Sport, plan.IntentCooldown, 1, cooldownSeconds))
	}
	return steps
}

func simple(sport plan.Sport, intent plan.StepIntent, zone, seconds int) plan.Step {
	s := plan.Step{
		Kind:            plan.StepSimple,
		Intent:          intent,
		Zone:            zone,
		DurationSeconds: seconds,
	}
	if sport == plan.SportIndoorCycling {
		s.Equipment = plan.EquipmentTrainer
	}
	if sport == plan.SportSwimming && intent != plan.IntentRecovery {
		s.Stroke = plan.StrokeFreestyle
	}
	return s
}

// Intervals reads an "N x M-minute" pattern from text, defaulting to 4 x 5.
func Intervals(text string) (count, minutes int) {
	count, minutes = defaultIntervals, defaultIntervalMinutes
	m := intervalPattern.FindStringSubmatch(text)
	if m == nil {
		return count, minutes
	}
	if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
		count = n
	}
	if d, err := strconv.Atoi(m[2]); err == nil && d > 0 {
		minutes = d
	}
	return count, minutes
}

// TotalSeconds sums step durations, multiplying repeat children by the
// iteration count.
func TotalSeconds(steps []plan.Step) int {
	total := 0
	for _, s := range steps {
		if s.Kind == plan.StepRepeat {
			total += s.Iterations * TotalSeconds(s.Children)
			continue
		}
		total += s.DurationSeconds
	}
	return total
}

// ExpandAll fills in the steps of every workout.
func ExpandAll(ws []plan.Workout) []plan.Workout {
	out := make([]plan.Workout, len(ws))
	for i, w := range ws {
		w.Steps = Build(w)
		out[i] = w
	}
	return out
}
