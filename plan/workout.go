// Package plan turns the markdown workout plan produced by the language model
// into dated, timed, typed workouts.
package plan

import "strings"

// Sport is the platform-neutral sport of a planned workout.
type Sport string

const (
	SportRunning       Sport = "running"
	SportCycling       Sport = "cycling"
	SportIndoorCycling Sport = "indoor_cycling"
	SportSwimming      Sport = "swimming"
	SportStrength      Sport = "strength"
	SportYoga          Sport = "yoga"
)

// Title renders the sport the way workout names show it, e.g. "Indoor_Cycling".
func (s Sport) Title() string {
	parts := strings.Split(string(s), "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "_")
}

// Archetype classifies a workout's intensity pattern.
type Archetype string

const (
	ArchetypeIntervals Archetype = "intervals"
	ArchetypeTempo     Archetype = "tempo"
	ArchetypeBase      Archetype = "base"
	ArchetypeEndurance Archetype = "endurance"
	ArchetypeStrength  Archetype = "strength"
	ArchetypeGeneral   Archetype = "general"
)

// DateLayout and TimeLayout are the formats of ScheduledDate and ScheduledTime.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Workout is one structured workout extracted from a plan section.
type Workout struct {
	Name            string    `json:"workoutName"`
	Description     string    `json:"description"`
	Sport           Sport     `json:"sport"`
	Archetype       Archetype `json:"archetype"`
	ScheduledDate   string    `json:"scheduledDate,omitempty"`
	ScheduledTime   string    `json:"scheduledTime,omitempty"`
	DurationSeconds int       `json:"estimatedDurationInSecs"`
	Notes           string    `json:"notes,omitempty"` // text the workout was read from
	Steps           []Step    `json:"steps,omitempty"`
}

// HasSchedule reports whether both a date and a time of day are known.
func (w Workout) HasSchedule() bool {
	return w.ScheduledDate != "" && w.ScheduledTime != ""
}

// StepKind tags the Step variant.
type StepKind string

const (
	StepSimple StepKind = "simple"
	StepRepeat StepKind = "repeat"
)

// StepIntent is the role a simple step plays inside a workout.
type StepIntent string

const (
	IntentWarmup   StepIntent = "warmup"
	IntentMain     StepIntent = "main"
	IntentInterval StepIntent = "interval"
	IntentRecovery StepIntent = "recovery"
	IntentCooldown StepIntent = "cooldown"
)

// Equipment is the sport equipment a step uses.
type Equipment string

const (
	EquipmentNone    Equipment = ""
	EquipmentTrainer Equipment = "trainer"
)

// Stroke is the swim stroke of a step. Non-swim steps leave it empty.
type Stroke string

const (
	StrokeNone      Stroke = ""
	StrokeFreestyle Stroke = "free"
)

// Step is either a simple timed step at a heart rate zone or a repeat of
// simple child steps.
type Step struct {
	Kind StepKind `json:"kind"`

	// simple
	Intent          StepIntent `json:"intent,omitempty"`
	Zone            int        `json:"zone,omitempty"`
	DurationSeconds int        `json:"durationSeconds,omitempty"`
	Equipment       Equipment  `json:"equipment,omitempty"`
	Stroke          Stroke     `json:"stroke,omitempty"`

	// repeat
	Iterations int    `json:"iterations,omitempty"`
	Children   []Step `json:"children,omitempty"`
}
