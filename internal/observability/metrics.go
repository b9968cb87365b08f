// Package observability keeps the run counters of the planner and writes them
// in the Prometheus text format for the node exporter's textfile collector.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activitiesCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "garminplanner",
		Subsystem: "archive",
		Name:      "activities_total",
		Help:      "Number of activities handled by the archiver, by result.",
	}, []string{"result"})

	workoutsParsedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "garminplanner",
		Subsystem: "plan",
		Name:      "workouts_parsed_total",
		Help:      "Number of workouts parsed from plans, by sport.",
	}, []string{"sport"})

	uploadsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "garminplanner",
		Subsystem: "upload",
		Name:      "workouts_total",
		Help:      "Number of workout uploads, by result.",
	}, []string{"result"})

	lastRunGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "garminplanner",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last completed run per command.",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(activitiesCounter, workoutsParsedCounter, uploadsCounter, lastRunGauge)
}

// RecordActivity counts an archived ("saved") or skipped ("failed") activity.
func RecordActivity(saved bool) {
	activitiesCounter.WithLabelValues(result(saved)).Inc()
}

// RecordWorkoutParsed counts a workout parsed from a plan.
func RecordWorkoutParsed(sport string) {
	workoutsParsedCounter.WithLabelValues(sport).Inc()
}

// RecordUpload counts a workout upload attempt.
func RecordUpload(ok bool) {
	uploadsCounter.WithLabelValues(result(ok)).Inc()
}

// RecordRun marks a command as completed at ts.
func RecordRun(command string, ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastRunGauge.WithLabelValues(command).Set(float64(ts.Unix()))
}

// WriteTextfile writes every registered metric to path.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
