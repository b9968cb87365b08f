// Package archive downloads recent Garmin Connect activities into a directory
// of JSON files plus an aggregate summary.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/garminplanner/garmin"
	"github.com/briangreenhill/garminplanner/internal/observability"
	"github.com/briangreenhill/garminplanner/store"
)

const (
	SummaryFile  = "activities_summary.json"
	DefaultDir   = "garmin_activities"
	SearchLimit  = 100
	startLayout  = "2006-01-02 15:04:05"
	fileDateTime = "2006-01-02_15-04"
)

// ErrNoActivities is returned when the search window holds no activities.
var ErrNoActivities = errors.New("no activities found")

// ActivityAPI is the part of the Garmin client the archiver needs.
type ActivityAPI interface {
	SearchActivities(ctx context.Context, start, end time.Time, limit int) ([]garmin.Activity, error)
	Activity(ctx context.Context, id int64) (json.RawMessage, error)
	ActivityDetails(ctx context.Context, id int64) (json.RawMessage, error)
}

// ActivityRecord is the archived summary of one activity.
type ActivityRecord struct {
	ID              int64   `json:"activity_id"`
	Name            string  `json:"name"`
	SportType       string  `json:"type"`
	StartTime       string  `json:"start_time"`
	DurationSeconds float64 `json:"duration"`
	DistanceMeters  float64 `json:"distance"`
	Calories        float64 `json:"calories"`
}

// Metadata heads every per-activity file.
type Metadata struct {
	ActivityRecord
	DownloadTimestamp string `json:"download_timestamp"`
}

// GarminData is the raw Garmin payload of one activity.
type GarminData struct {
	Summary json.RawMessage `json:"summary"`
	Details json.RawMessage `json:"details"`
}

// ActivityFile is the content of one per-activity file.
type ActivityFile struct {
	Metadata   Metadata   `json:"metadata"`
	GarminData GarminData `json:"garmin_data"`
}

// DateRange spans the start times of the archived activities.
type DateRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// DownloadInfo describes one archiver run.
type DownloadInfo struct {
	TotalActivities   int       `json:"total_activities"`
	DownloadTimestamp string    `json:"download_timestamp"`
	DateRange         DateRange `json:"date_range"`
}

// Summary is the content of activities_summary.json.
type Summary struct {
	DownloadInfo DownloadInfo     `json:"download_info"`
	Activities   []ActivityRecord `json:"activities"`
}

// Result reports a Download run.
type Result struct {
	Success    bool
	Total      int
	Downloaded int
	OutputDir  string
}

// Archiver saves activities to a directory.
type Archiver struct {
	api    ActivityAPI
	dir    string
	logger zerolog.Logger
	now    func() time.Time
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithClock sets the clock that ends the search window and stamps files.
func WithClock(now func() time.Time) Option {
	return func(a *Archiver) { a.now = now }
}

// New creates an archiver writing into dir.
func New(api ActivityAPI, dir string, logger zerolog.Logger, opts ...Option) *Archiver {
	if dir == "" {
		dir = DefaultDir
	}
	a := &Archiver{api: api, dir: dir, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Download archives the activities of the last weeks. Activities whose data
// cannot be fetched or saved are logged and skipped.
func (a *Archiver) Download(ctx context.Context, weeks int) (Result, error) {
	result := Result{OutputDir: store.Abs(a.dir)}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return result, fmt.Errorf("create output dir: %w", err)
	}

	end := a.now()
	start := end.AddDate(0, 0, -7*weeks)
	a.logger.Info().Str("start", start.Format("2006-01-02")).Str("end", end.Format("2006-01-02")).Msg("fetching activities")

	activities, err := a.api.SearchActivities(ctx, start, end, SearchLimit)
	if err != nil {
		return result, fmt.Errorf("search activities: %w", err)
	}
	if len(activities) == 0 {
		return result, ErrNoActivities
	}
	result.Total = len(activities)
	a.logger.Info().Int("count", len(activities)).Msg("found activities")

	records := make([]ActivityRecord, 0, len(activities))
	for i, act := range activities {
		log := a.logger.With().Int64("activity_id", act.ActivityID).Str("type", act.ActivityType.TypeKey).Logger()
		log.Info().Msgf("[%d/%d] %s", i+1, len(activities), act.ActivityName)

		rec, err := a.save(ctx, act)
		observability.RecordActivity(err == nil)
		if err != nil {
			log.Error().Err(err).Msg("skipping activity")
			continue
		}
		records = append(records, rec)
	}

	if err := a.writeSummary(records); err != nil {
		return result, err
	}
	result.Success = true
	result.Downloaded = len(records)
	return result, nil
}

func (a *Archiver) save(ctx context.Context, act garmin.Activity) (ActivityRecord, error) {
	summary, err := a.api.Activity(ctx, act.ActivityID)
	if err != nil {
		return ActivityRecord{}, fmt.Errorf("fetch summary: %w", err)
	}
	details, err := a.api.ActivityDetails(ctx, act.ActivityID)
	if err != nil {
		return ActivityRecord{}, fmt.Errorf("fetch details: %w", err)
	}

	rec := Record(act)
	file := ActivityFile{
		Metadata:   Metadata{ActivityRecord: rec, DownloadTimestamp: a.now().Format(time.RFC3339)},
		GarminData: GarminData{Summary: summary, Details: details},
	}
	name := FileName(act)
	if err := store.WriteJSON(filepath.Join(a.dir, name), file, 0o644); err != nil {
		return ActivityRecord{}, fmt.Errorf("save %s: %w", name, err)
	}
	a.logger.Debug().Str("file", name).Msg("saved activity")
	return rec, nil
}

func (a *Archiver) writeSummary(records []ActivityRecord) error {
	s := Summary{
		DownloadInfo: DownloadInfo{
			TotalActivities:   len(records),
			DownloadTimestamp: a.now().Format(time.RFC3339),
		},
		Activities: records,
	}
	if len(records) > 0 {
		first, last := records[0].StartTime, records[0].StartTime
		for _, r := range records[1:] {
			first = min(first, r.StartTime)
			last = max(last, r.StartTime)
		}
		s.DownloadInfo.DateRange = DateRange{Start: &first, End: &last}
	}

	path := filepath.Join(a.dir, SummaryFile)
	if err := store.WriteJSON(path, s, 0o644); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	a.logger.Info().Str("file", path).Msg("summary saved")
	return nil
}

// Record converts a search entry to an ActivityRecord.
func Record(act garmin.Activity) ActivityRecord {
	return ActivityRecord{
		ID:              act.ActivityID,
		Name:            act.ActivityName,
		SportType:       act.ActivityType.TypeKey,
		StartTime:       act.StartTimeLocal,
		DurationSeconds: act.Duration,
		DistanceMeters:  act.Distance,
		Calories:        act.Calories,
	}
}

// FileName returns "<date>_<time>_<type>_<name>_<id>.json" for an activity.
func FileName(act garmin.Activity) string {
	stamp := store.SanitizeFilename(act.StartTimeLocal)
	for _, layout := range []string{startLayout, "2006-01-02T15:04:05", "2006-01-02T15:04:05.0"} {
		if t, err := time.Parse(layout, act.StartTimeLocal); err == nil {
			stamp = t.Format(fileDateTime)
			break
		}
	}
	return fmt.Sprintf("%s_%s_%s_%d.json", stamp, act.ActivityType.TypeKey, store.SanitizeFilename(act.ActivityName), act.ActivityID)
}

// LoadSummary reads activities_summary.json from dir.
func LoadSummary(dir string) (*Summary, error) {
	var s Summary
	if err := store.ReadJSON(filepath.Join(dir, SummaryFile), &s); err != nil {
		return nil, fmt.Errorf("load summary: %w", err)
	}
	return &s, nil
}

// Entry is one archived activity file.
type Entry struct {
	File     string
	DateTime string // "2006-01-02_15-04", empty when the name has another shape
	Type     string
	Size     int64
}

// List returns the activity files in dir sorted by name, skipping the summary.
func List(dir string) ([]Entry, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, p := range paths {
		name := filepath.Base(p)
		if name == SummaryFile {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		e := Entry{File: name, Size: info.Size()}
		if parts := strings.Split(strings.TrimSuffix(name, ".json"), "_"); len(parts) >= 3 {
			e.DateTime = parts[0] + "_" + parts[1]
			e.Type = parts[2]
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].File < entries[j].File })
	return entries, nil
}
