package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(uploadsCounter.WithLabelValues("failed"))
	RecordUpload(false)
	RecordUpload(true)
	assert.InDelta(t, before+1, testutil.ToFloat64(uploadsCounter.WithLabelValues("failed")), 0)

	beforeSaved := testutil.ToFloat64(activitiesCounter.WithLabelValues("ok"))
	RecordActivity(true)
	assert.InDelta(t, beforeSaved+1, testutil.ToFloat64(activitiesCounter.WithLabelValues("ok")), 0)

	RecordWorkoutParsed("swimming")
	assert.GreaterOrEqual(t, testutil.ToFloat64(workoutsParsedCounter.WithLabelValues("swimming")), 1.0)
}

func TestRecordRunIgnoresZeroTime(t *testing.T) {
	RecordRun("export", time.Unix(1754300000, 0))
	RecordRun("export", time.Time{})
	assert.InDelta(t, 1754300000, testutil.ToFloat64(lastRunGauge.WithLabelValues("export")), 0)
}

func TestWriteTextfile(t *testing.T) {
	RecordWorkoutParsed("running")
	path := filepath.Join(t.TempDir(), "garminplanner.prom")

	require.NoError(t, WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `garminplanner_plan_workouts_parsed_total{sport="running"}`)
}
