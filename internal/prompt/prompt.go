// Package prompt builds the workout planning prompt from the training context
// and archived activities, and turns the model's answer into a saved plan.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/garminplanner/archive"
	"github.com/briangreenhill/garminplanner/store"
)

const (
	DefaultContextFile = "training_context.txt"
	DefaultWeeks       = 1
)

// ErrEmptyPlan is returned when the model answers with no text.
var ErrEmptyPlan = errors.New("empty response from model")

// Completer is a text completion service.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Request selects the inputs of a plan.
type Request struct {
	ContextFile   string
	ActivitiesDir string
	Weeks         int
}

// Generator handles workout plan generation
type Generator struct {
	completer Completer
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the clock used for the plan start date.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a new plan generator
func NewGenerator(c Completer, logger zerolog.Logger, opts ...Option) *Generator {
	g := &Generator{completer: c, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate asks the model for a plan starting tomorrow.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	p := g.Prompt(req)
	g.logger.Debug().Int("prompt_bytes", len(p)).Msg("requesting workout plan")

	plan, err := g.completer.Complete(ctx, p)
	if err != nil {
		return "", fmt.Errorf("generate plan: %w", err)
	}
	if strings.TrimSpace(plan) == "" {
		return "", ErrEmptyPlan
	}
	return plan, nil
}

// Prompt builds the planning prompt for req.
func (g *Generator) Prompt(req Request) string {
	weeks := req.Weeks
	if weeks <= 0 {
		weeks = DefaultWeeks
	}

	now := g.now()
	start := now.AddDate(0, 0, 1)
	return fmt.Sprintf(planTemplate,
		weeks,
		g.loadContext(req.ContextFile),
		FormatActivities(g.loadActivities(req.ActivitiesDir)),
		start.Format("Monday, January 02"),
		now.Format("2006-01-02"),
		start.Format("2006-01-02"),
	)
}

func (g *Generator) loadContext(path string) string {
	if path == "" {
		path = DefaultContextFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			g.logger.Warn().Err(err).Str("file", path).Msg("error reading context file")
		}
		g.logger.Info().Str("file", path).Msg("context file not found, using default context")
		return DefaultContext()
	}
	g.logger.Info().Str("file", path).Msg("loaded training context")
	return strings.TrimSpace(string(data))
}

func (g *Generator) loadActivities(dir string) []archive.ActivityRecord {
	if dir == "" {
		dir = archive.DefaultDir
	}
	s, err := archive.LoadSummary(dir)
	if err != nil {
		g.logger.Warn().Err(err).Str("dir", dir).Msg("no activities summary")
		return nil
	}
	g.logger.Info().Int("count", len(s.Activities)).Msg("loaded recent activities")
	return s.Activities
}

// FormatActivities renders activities for the prompt.
func FormatActivities(acts []archive.ActivityRecord) string {
	if len(acts) == 0 {
		return "No recent activities available."
	}

	blocks := make([]string, 0, len(acts))
	for _, a := range acts {
		date := a.StartTime
		if len(date) > 10 {
			date = date[:10]
		}
		blocks = append(blocks, strings.Join([]string{
			"Activity: " + orUnknown(a.Name),
			"Type: " + orUnknown(a.SportType),
			"Date: " + orUnknown(date),
			"Duration: " + FormatDuration(a.DurationSeconds),
			"Distance: " + FormatDistance(a.DistanceMeters),
			"Calories: " + formatCalories(a.Calories),
		}, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// FormatDuration renders seconds as "1h 5m" or "45m".
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "N/A"
	}
	s := int(seconds)
	h, m := s/3600, (s%3600)/60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatDistance renders meters as kilometers with two decimals.
func FormatDistance(meters float64) string {
	if meters <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f km", meters/1000)
}

func formatCalories(c float64) string {
	if c <= 0 {
		return "N/A"
	}
	return strconv.FormatFloat(c, 'f', -1, 64)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// PlanFileName returns the default plan file name for a run at t.
func PlanFileName(t time.Time) string {
	return "workout_plan_" + t.Format("20060102_1504") + ".md"
}

// SavePlan writes plan to path and returns its absolute path.
func SavePlan(plan, path string) (string, error) {
	if path == "" {
		path = PlanFileName(time.Now())
	}
	if err := store.WriteFile(path, []byte(plan), 0o644); err != nil {
		return "", fmt.Errorf("save plan: %w", err)
	}
	return store.Abs(path), nil
}
