package workout

import (
	"github.com/briangreenhill/garminplanner/garmin"
	"github.com/briangreenhill/garminplanner/plan"
)

var sportTypes = map[plan.Sport]garmin.SportType{
	plan.SportRunning:       {SportTypeID: 1, SportTypeKey: "running"},
	plan.SportCycling:       {SportTypeID: 2, SportTypeKey: "cycling"},
	plan.SportIndoorCycling: {SportTypeID: 25, SportTypeKey: "indoor_cycling"},
	plan.SportSwimming:      {SportTypeID: 4, SportTypeKey: "swimming"},
	plan.SportStrength:      {SportTypeID: 13, SportTypeKey: "strength_training"},
	plan.SportYoga:          {SportTypeID: 43, SportTypeKey: "yoga"},
}

// SportType maps a sport to Garmin's sport type; unknown sports map to running.
func SportType(s plan.Sport) garmin.SportType {
	if st, ok := sportTypes[s]; ok {
		return st
	}
	return sportTypes[plan.SportRunning]
}

var (
	stepTypes = map[plan.StepIntent]garmin.StepType{
		plan.IntentWarmup:   {StepTypeID: 1, StepTypeKey: "warmup", DisplayOrder: 1},
		plan.IntentCooldown: {StepTypeID: 2, StepTypeKey: "cooldown", DisplayOrder: 2},
		plan.IntentInterval: {StepTypeID: 3, StepTypeKey: "interval", DisplayOrder: 3},
		plan.IntentRecovery: {StepTypeID: 4, StepTypeKey: "recovery", DisplayOrder: 4},
		plan.IntentMain:     {StepTypeID: 5, StepTypeKey: "workout", DisplayOrder: 5},
	}
	swimStepTypes = map[plan.StepIntent]garmin.StepType{
		plan.IntentInterval: {StepTypeID: 8, StepTypeKey: "main", DisplayOrder: 8},
		plan.IntentMain:     {StepTypeID: 8, StepTypeKey: "main", DisplayOrder: 8},
		plan.IntentRecovery: {StepTypeID: 5, StepTypeKey: "rest", DisplayOrder: 5},
	}
	repeatStepType = garmin.StepType{StepTypeID: 6, StepTypeKey: "repeat", DisplayOrder: 6}

	timeCondition       = garmin.Condition{ConditionTypeID: 2, ConditionTypeKey: "time", DisplayOrder: 2, Displayable: true}
	iterationsCondition = garmin.Condition{ConditionTypeID: 7, ConditionTypeKey: "iterations", DisplayOrder: 7, Displayable: false}
	heartRateZone       = garmin.TargetType{WorkoutTargetTypeID: 4, WorkoutTargetTypeKey: "heart.rate.zone", DisplayOrder: 4}
	kilogram            = garmin.Unit{UnitID: 8, UnitKey: "kilogram", Factor: 1000}
)

const noWeight = -1

func strokeType(s plan.Stroke) garmin.StrokeType {
	if s == plan.StrokeNone {
		return garmin.StrokeType{}
	}
	key := string(s)
	return garmin.StrokeType{StrokeTypeID: 6, StrokeTypeKey: &key, DisplayOrder: 6}
}

func equipmentType(e plan.Equipment) garmin.EquipmentType {
	if e == plan.EquipmentNone {
		return garmin.EquipmentType{}
	}
	key := string(e)
	return garmin.EquipmentType{EquipmentTypeID: 1, EquipmentTypeKey: &key, DisplayOrder: 1}
}

// Payload renders a workout as a Garmin workout-service request. Scheduling
// fields are not part of the payload. Steps are built when w has none.
func Payload(w plan.Workout) garmin.Workout {
	steps := w.Steps
	if len(steps) == 0 {
		steps = Build(w)
	}

	a := assembler{swim: w.Sport == plan.SportSwimming}
	sport := SportType(w.Sport)
	return garmin.Workout{
		WorkoutName:             w.Name,
		Description:             w.Description,
		SportType:               sport,
		EstimatedDurationInSecs: w.DurationSeconds,
		WorkoutSegments: []garmin.Segment{{
			SegmentOrder: 1,
			SportType:    sport,
			WorkoutSteps: a.steps(steps, 0),
		}},
	}
}

// assembler numbers steps depth first and repeat groups from one.
type assembler struct {
	swim   bool
	order  int
	groups int
}

func (a *assembler) steps(steps []plan.Step, group int) []garmin.Step {
	out := make([]garmin.Step, 0, len(steps))
	for _, s := range steps {
		a.order++
		if s.Kind == plan.StepRepeat {
			a.groups++
			rg := garmin.NewRepeatGroup()
			rg.StepOrder = a.order
			rg.StepType = repeatStepType
			rg.ChildStepID = a.groups
			rg.NumberOfIterations = s.Iterations
			rg.EndCondition = iterationsCondition
			rg.EndConditionValue = float64(s.Iterations)
			rg.SkipLastRestStep = true
			rg.WorkoutSteps = a.steps(s.Children, a.groups)
			out = append(out, rg)
			continue
		}
		out = append(out, a.executable(s, group))
	}
	return out
}

func (a *assembler) executable(s plan.Step, group int) *garmin.ExecutableStep {
	es := garmin.NewExecutableStep()
	es.StepOrder = a.order
	es.StepType = stepTypes[s.Intent]
	if st, ok := swimStepTypes[s.Intent]; ok && a.swim {
		es.StepType = st
	}
	es.EndCondition = timeCondition
	es.EndConditionValue = float64(s.DurationSeconds)
	if !a.swim && group == 0 {
		es.EndConditionCompare = "gt"
	}
	if group > 0 {
		id := group
		es.ChildStepID = &id
	}
	es.TargetType = heartRateZone
	es.ZoneNumber = s.Zone
	es.StrokeType = strokeType(s.Stroke)
	es.EquipmentType = equipmentType(s.Equipment)
	es.WeightValue = noWeight
	es.WeightUnit = kilogram
	return es
}
