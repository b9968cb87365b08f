// Package upload creates parsed workouts on Garmin Connect and optionally
// places them on the Garmin calendar.
package upload

import (
	"context"
	"fmt"
	"strconv"
	"time"
	_ "time/tzdata" // calendar time zones on hosts without a zoneinfo database

	"github.com/rs/zerolog"

	"github.com/briangreenhill/garminplanner/garmin"
	"github.com/briangreenhill/garminplanner/internal/observability"
	"github.com/briangreenhill/garminplanner/plan"
	"github.com/briangreenhill/garminplanner/workout"
)

// DefaultTimezone is used for calendar events when none is configured.
const DefaultTimezone = "Europe/Lisbon"

// WorkoutAPI is the part of the Garmin client the uploader needs.
type WorkoutAPI interface {
	CreateWorkout(ctx context.Context, w garmin.Workout) (int64, error)
	ScheduleWorkout(ctx context.Context, ev garmin.CalendarEvent) error
	ScheduleWorkoutOnDate(ctx context.Context, ev garmin.TrainingEvent) error
}

// Result is the outcome of one upload.
type Result struct {
	WorkoutID string // empty when the upload failed
	Name      string
	Scheduled bool
	Err       error
}

// OK reports whether the workout was created.
func (r Result) OK() bool { return r.WorkoutID != "" }

// Report summarises a batch upload.
type Report struct {
	Total      int
	Uploaded   int
	WorkoutIDs []string
	Failed     []string // names of workouts that were not created
}

// Uploader creates workouts one at a time. Failures are logged and never retried.
type Uploader struct {
	api      WorkoutAPI
	logger   zerolog.Logger
	schedule bool
	location *time.Location
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithScheduling places workouts that have a date and time on the calendar
// after creating them, in the given IANA time zone.
func WithScheduling(tz string) Option {
	return func(u *Uploader) {
		u.schedule = true
		if tz == "" {
			tz = DefaultTimezone
		}
		loc, err := time.LoadLocation(tz)
		if err != nil {
			u.logger.Warn().Err(err).Str("timezone", tz).Msg("unknown timezone, using UTC")
			loc = time.UTC
		}
		u.location = loc
	}
}

// New creates an Uploader.
func New(api WorkoutAPI, logger zerolog.Logger, opts ...Option) *Uploader {
	u := &Uploader{api: api, logger: logger, location: time.UTC}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload creates one workout.
func (u *Uploader) Upload(ctx context.Context, w plan.Workout) Result {
	res := Result{Name: w.Name}
	log := u.logger.With().Str("workout", w.Name).Logger()

	id, err := u.api.CreateWorkout(ctx, workout.Payload(w))
	observability.RecordUpload(err == nil)
	if err != nil {
		res.Err = fmt.Errorf("upload %q: %w", w.Name, err)
		log.Error().Err(err).Msg("failed to upload workout")
		return res
	}
	res.WorkoutID = strconv.FormatInt(id, 10)
	log.Info().Str("workout_id", res.WorkoutID).Msg("uploaded workout")

	if u.schedule && w.HasSchedule() {
		res.Scheduled = u.scheduleWorkout(ctx, id, w)
	}
	return res
}

// UploadAll uploads workouts in order.
func (u *Uploader) UploadAll(ctx context.Context, ws []plan.Workout) Report {
	rep := Report{Total: len(ws)}
	for _, w := range ws {
		res := u.Upload(ctx, w)
		if !res.OK() {
			rep.Failed = append(rep.Failed, res.Name)
			continue
		}
		rep.Uploaded++
		rep.WorkoutIDs = append(rep.WorkoutIDs, res.WorkoutID)
	}
	return rep
}

// scheduleWorkout tries the calendar endpoint and falls back to the per-date one.
func (u *Uploader) scheduleWorkout(ctx context.Context, id int64, w plan.Workout) bool {
	log := u.logger.With().Int64("workout_id", id).Str("date", w.ScheduledDate).Logger()

	start, err := time.ParseInLocation(plan.DateLayout+" "+plan.TimeLayout, w.ScheduledDate+" "+w.ScheduledTime, u.location)
	if err != nil {
		log.Warn().Err(err).Msg("cannot schedule workout")
		return false
	}

	ev := garmin.CalendarEvent{
		WorkoutID:               id,
		Date:                    w.ScheduledDate,
		StartTime:               w.ScheduledTime,
		WorkoutName:             w.Name,
		SportType:               workout.SportType(w.Sport),
		EstimatedDurationInSecs: w.DurationSeconds,
		Description:             w.Description,
		ScheduledDate:           start.UnixMilli(),
		TimeZoneID:              u.location.String(),
	}
	err = u.api.ScheduleWorkout(ctx, ev)
	if err == nil {
		log.Info().Msg("scheduled workout")
		return true
	}
	log.Debug().Err(err).Msg("calendar scheduling failed, trying per-date endpoint")

	err = u.api.ScheduleWorkoutOnDate(ctx, garmin.TrainingEvent{
		Date:      w.ScheduledDate,
		WorkoutID: id,
		Scheduled: true,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to schedule workout")
		return false
	}
	log.Info().Msg("scheduled workout on date")
	return true
}
