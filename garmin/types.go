package garmin

import "encoding/json"

// ActivityType is the nested type object of an activity.
type ActivityType struct {
	TypeID  int    `json:"typeId"`
	TypeKey string `json:"typeKey"`
}

// Activity is one entry of the activity search response. Raw keeps the
// complete entry as Garmin sent it.
type Activity struct {
	ActivityID     int64        `json:"activityId"`
	ActivityName   string       `json:"activityName"`
	ActivityType   ActivityType `json:"activityType"`
	StartTimeLocal string       `json:"startTimeLocal"` // "2006-01-02 15:04:05"
	Duration       float64      `json:"duration"`       // sec
	Distance       float64      `json:"distance"`       // meters
	Calories       float64      `json:"calories"`

	Raw json.RawMessage `json:"-"`
}

// SportType identifies a sport in workout payloads.
type SportType struct {
	SportTypeID  int    `json:"sportTypeId"`
	SportTypeKey string `json:"sportTypeKey"`
}

// Workout is the body of a workout-service create request.
type Workout struct {
	WorkoutName             string    `json:"workoutName"`
	Description             string    `json:"description"`
	SportType               SportType `json:"sportType"`
	EstimatedDurationInSecs int       `json:"estimatedDurationInSecs"`
	WorkoutSegments         []Segment `json:"workoutSegments"`
}

// Segment groups the steps of one sport.
type Segment struct {
	SegmentOrder int       `json:"segmentOrder"`
	SportType    SportType `json:"sportType"`
	WorkoutSteps []Step    `json:"workoutSteps"`
}

// Step is an ExecutableStep or a RepeatGroup.
type Step interface {
	Order() int
}

// StepType is the role of a step ("warmup", "interval", "repeat", ...).
type StepType struct {
	StepTypeID   int    `json:"stepTypeId"`
	StepTypeKey  string `json:"stepTypeKey"`
	DisplayOrder int    `json:"displayOrder"`
}

// Condition ends a step: after a time or after a number of iterations.
type Condition struct {
	ConditionTypeID  int    `json:"conditionTypeId"`
	ConditionTypeKey string `json:"conditionTypeKey"`
	DisplayOrder     int    `json:"displayOrder"`
	Displayable      bool   `json:"displayable"`
}

// TargetType is what a step targets, here always a heart rate zone.
type TargetType struct {
	WorkoutTargetTypeID  int    `json:"workoutTargetTypeId"`
	WorkoutTargetTypeKey string `json:"workoutTargetTypeKey"`
	DisplayOrder         int    `json:"displayOrder"`
}

// StrokeType is the swim stroke. A nil key encodes as null.
type StrokeType struct {
	StrokeTypeID  int     `json:"strokeTypeId"`
	StrokeTypeKey *string `json:"strokeTypeKey"`
	DisplayOrder  int     `json:"displayOrder"`
}

// EquipmentType is the sport equipment. A nil key encodes as null.
type EquipmentType struct {
	EquipmentTypeID  int     `json:"equipmentTypeId"`
	EquipmentTypeKey *string `json:"equipmentTypeKey"`
	DisplayOrder     int     `json:"displayOrder"`
}

// Unit is a weight unit.
type Unit struct {
	UnitID  int     `json:"unitId"`
	UnitKey string  `json:"unitKey"`
	Factor  float64 `json:"factor"`
}

const (
	executableStepType = "ExecutableStepDTO"
	repeatGroupType    = "RepeatGroupDTO"
)

// ExecutableStep is a single timed step.
type ExecutableStep struct {
	Type                string        `json:"type"`
	StepOrder           int           `json:"stepOrder"`
	StepType            StepType      `json:"stepType"`
	ChildStepID         *int          `json:"childStepId,omitempty"`
	EndCondition        Condition     `json:"endCondition"`
	EndConditionValue   float64       `json:"endConditionValue"`
	EndConditionCompare string        `json:"endConditionCompare"`
	TargetType          TargetType    `json:"targetType"`
	ZoneNumber          int           `json:"zoneNumber"`
	StrokeType          StrokeType    `json:"strokeType"`
	EquipmentType       EquipmentType `json:"equipmentType"`
	WeightValue         float64       `json:"weightValue"`
	WeightUnit          Unit          `json:"weightUnit"`
}

// NewExecutableStep returns a step with its type discriminator set.
func NewExecutableStep() *ExecutableStep {
	return &ExecutableStep{Type: executableStepType}
}

func (s *ExecutableStep) Order() int { return s.StepOrder }

// RepeatGroup repeats its child steps NumberOfIterations times.
type RepeatGroup struct {
	Type               string    `json:"type"`
	StepOrder          int       `json:"stepOrder"`
	StepType           StepType  `json:"stepType"`
	ChildStepID        int       `json:"childStepId"`
	NumberOfIterations int       `json:"numberOfIterations"`
	WorkoutSteps       []Step    `json:"workoutSteps"`
	EndConditionValue  float64   `json:"endConditionValue"`
	EndCondition       Condition `json:"endCondition"`
	SkipLastRestStep   bool      `json:"skipLastRestStep"`
	SmartRepeat        bool      `json:"smartRepeat"`
}

// NewRepeatGroup returns a repeat group with its type discriminator set.
func NewRepeatGroup() *RepeatGroup {
	return &RepeatGroup{Type: repeatGroupType}
}

func (s *RepeatGroup) Order() int { return s.StepOrder }

// CalendarEvent schedules an uploaded workout on a day of the Garmin calendar.
type CalendarEvent struct {
	WorkoutID               int64     `json:"workoutId"`
	Date                    string    `json:"date"`
	StartTime               string    `json:"startTime"`
	WorkoutName             string    `json:"workoutName"`
	SportType               SportType `json:"sportType"`
	EstimatedDurationInSecs int       `json:"estimatedDurationInSecs"`
	Description             string    `json:"description"`
	ScheduledDate           int64     `json:"scheduledDate"` // epoch millis
	TimeZoneID              string    `json:"timeZoneId"`
}

// TrainingEvent is the body of the per-date calendar endpoint.
type TrainingEvent struct {
	Date      string `json:"date"`
	WorkoutID int64  `json:"workoutId"`
	Completed bool   `json:"completed"`
	Scheduled bool   `json:"scheduled"`
}
