package garmin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrNoWorkoutID is returned when a create response carries no workout id.
var ErrNoWorkoutID = errors.New("response has no workoutId")

// SearchActivities lists activities that started between start and end, both inclusive by date.
func (c *Client) SearchActivities(ctx context.Context, start, end time.Time, limit int) ([]Activity, error) {
	q := url.Values{}
	q.Set("startDate", start.Format("2006-01-02"))
	q.Set("endDate", end.Format("2006-01-02"))
	q.Set("start", "0")
	q.Set("limit", strconv.Itoa(limit))

	var raw []json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/activitylist-service/activities/search/activities", q, nil, &raw); err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(raw))
	for _, r := range raw {
		var a Activity
		if err := json.Unmarshal(r, &a); err != nil {
			return nil, fmt.Errorf("failed to decode activity: %w", err)
		}
		a.Raw = r
		activities = append(activities, a)
	}
	return activities, nil
}

// Activity returns the summary of one activity as raw JSON.
func (c *Client) Activity(ctx context.Context, id int64) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/activity-service/activity/%d", id), nil, nil, &raw)
	return raw, err
}

// ActivityDetails returns the detail (metrics, polyline) of one activity as raw JSON.
func (c *Client) ActivityDetails(ctx context.Context, id int64) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/activity-service/activity/%d/details", id), nil, nil, &raw)
	return raw, err
}

// CreateWorkout uploads a workout and returns the id Garmin assigned to it.
func (c *Client) CreateWorkout(ctx context.Context, w Workout) (int64, error) {
	var resp struct {
		WorkoutID int64 `json:"workoutId"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/workout-service/workout", nil, w, &resp); err != nil {
		return 0, err
	}
	if resp.WorkoutID == 0 {
		return 0, ErrNoWorkoutID
	}
	return resp.WorkoutID, nil
}

// ScheduleWorkout adds an uploaded workout to the calendar.
func (c *Client) ScheduleWorkout(ctx context.Context, ev CalendarEvent) error {
	return c.doJSON(ctx, http.MethodPost, "/calendar-service/calendar/workouts", nil, ev, nil)
}

// ScheduleWorkoutOnDate adds an uploaded workout to the calendar through the
// per-date endpoint.
func (c *Client) ScheduleWorkoutOnDate(ctx context.Context, ev TrainingEvent) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/calendar-service/calendar/%s/workouts", url.PathEscape(ev.Date)), nil, ev, nil)
}
