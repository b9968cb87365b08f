package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/garminplanner/archive"
	"github.com/briangreenhill/garminplanner/garmin"
	"github.com/briangreenhill/garminplanner/gemini"
	"github.com/briangreenhill/garminplanner/internal/config"
	"github.com/briangreenhill/garminplanner/internal/observability"
	"github.com/briangreenhill/garminplanner/internal/prompt"
	"github.com/briangreenhill/garminplanner/plan"
	"github.com/briangreenhill/garminplanner/schedule"
	"github.com/briangreenhill/garminplanner/store"
	"github.com/briangreenhill/garminplanner/upload"
	"github.com/briangreenhill/garminplanner/workout"
)

// DefaultWorkoutsFile receives the structured workouts of a parsed plan.
const DefaultWorkoutsFile = "structured_workouts.json"

var (
	errNoPlanFile = errors.New("no plan file given, use -plan")
	errNoWorkouts = errors.New("no workouts found in the plan")
	errNoGemini   = errors.New("gemini api key not configured - set GEMINI_API_KEY")
)

// commonFlags are accepted by every command that reads the configuration.
type commonFlags struct {
	envFile string
	verbose bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.envFile, "env-file", config.DefaultEnvFile, "path to .env file")
	fs.BoolVar(&c.verbose, "verbose", false, "enable verbose output")
	fs.BoolVar(&c.verbose, "v", false, "enable verbose output (shorthand)")
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// setup loads the configuration and builds the command's logger.
func (a *app) setup(c commonFlags) (*config.Config, zerolog.Logger, error) {
	logger := newLogger(a.stderr, c.verbose)
	cfg, err := config.Load(c.envFile)
	if err != nil {
		return nil, logger, err
	}
	logger.Debug().Str("env_file", c.envFile).Msg("configuration loaded")
	return cfg, logger, nil
}

// finish records the completed command and writes the metrics textfile when configured.
func (a *app) finish(cfg *config.Config, command string, logger zerolog.Logger) {
	observability.RecordRun(command, a.now())
	if cfg.MetricsTextfile == "" {
		return
	}
	if err := observability.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Warn().Err(err).Msg("failed to write metrics")
	}
}

// garminClient logs in to Garmin Connect, resuming the stored token when possible.
func (a *app) garminClient(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*garmin.Client, error) {
	tokenPath := cfg.Garmin.TokenFile
	if tokenPath == "" {
		p, err := garmin.DefaultTokenPath()
		if err != nil {
			return nil, fmt.Errorf("token path: %w", err)
		}
		tokenPath = p
	}

	session := garmin.NewSession(garmin.Credentials{
		Email:    cfg.Garmin.Email,
		Password: cfg.Garmin.Password,
		ClientID: cfg.Garmin.ClientID,
		TokenURL: cfg.Garmin.TokenURL,
	}, garmin.FileTokenStore{Path: tokenPath}, logger)

	hc, err := session.Login(ctx)
	if err != nil {
		return nil, err
	}

	opts := []garmin.Option{garmin.WithHTTPClient(hc)}
	if cfg.Garmin.APIURL != "" {
		opts = append(opts, garmin.WithBaseURL(cfg.Garmin.APIURL))
	}
	return garmin.NewClient(opts...), nil
}

func (a *app) download(ctx context.Context, args []string) error {
	fs := a.flagSet("download")
	var common commonFlags
	common.register(fs)
	weeks := fs.Int("weeks", 0, "number of weeks to look back (default GARMIN_DEFAULT_WEEKS or 2)")
	outputDir := fs.String("output-dir", "", "output directory for JSON files (default GARMIN_OUTPUT_DIR or garmin_activities)")
	email := fs.String("email", "", "Garmin Connect email (or GARMIN_EMAIL)")
	password := fs.String("password", "", "Garmin Connect password (or GARMIN_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := a.setup(common)
	if err != nil {
		return err
	}
	if *weeks > 0 {
		cfg.Garmin.DefaultWeeks = *weeks
	}
	if *outputDir != "" {
		cfg.Garmin.OutputDir = *outputDir
	}
	if *email != "" {
		cfg.Garmin.Email = *email
	}
	if *password != "" {
		cfg.Garmin.Password = *password
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Debug().
		Str("email", cfg.Garmin.Email).
		Int("weeks", cfg.Garmin.DefaultWeeks).
		Str("output_dir", cfg.Garmin.OutputDir).
		Msg("download settings")

	client, err := a.garminClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	archiver := archive.New(client, cfg.Garmin.OutputDir, logger, archive.WithClock(a.now))
	res, err := archiver.Download(ctx, cfg.Garmin.DefaultWeeks)
	defer a.finish(cfg, "download", logger)
	if errors.Is(err, archive.ErrNoActivities) {
		return fmt.Errorf("download failed: %w", err)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Downloaded %d/%d activities\n", res.Downloaded, res.Total)
	fmt.Fprintf(a.stdout, "Files saved to: %s\n", res.OutputDir)
	if common.verbose {
		return a.printEntries(cfg.Garmin.OutputDir)
	}
	return nil
}

func (a *app) list(args []string) error {
	fs := a.flagSet("list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	dir := archive.DefaultDir
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}
	return a.printEntries(dir)
}

func (a *app) printEntries(dir string) error {
	entries, err := archive.List(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("directory %s does not exist", dir)
		}
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(a.stdout, "No activity files found in %s\n", dir)
		return nil
	}

	fmt.Fprintf(a.stdout, "Found %d activities in %s:\n", len(entries), dir)
	for _, e := range entries {
		size := float64(e.Size) / 1024
		if e.DateTime == "" {
			fmt.Fprintf(a.stdout, "   %s (%.1f KB)\n", e.File, size)
			continue
		}
		fmt.Fprintf(a.stdout, "   %s | %-12s | %s (%.1f KB)\n", e.DateTime, e.Type, e.File, size)
	}
	return nil
}

func (a *app) plan(ctx context.Context, args []string) error {
	fs := a.flagSet("plan")
	var common commonFlags
	common.register(fs)
	contextFile := fs.String("context", prompt.DefaultContextFile, "training context file")
	activities := fs.String("activities", "", "directory of downloaded activities (default GARMIN_OUTPUT_DIR)")
	weeks := fs.Int("weeks", prompt.DefaultWeeks, "number of weeks to plan")
	out := fs.String("out", "", "plan file (default workout_plan_<timestamp>.md)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := a.setup(common)
	if err != nil {
		return err
	}
	if !cfg.HasGemini() {
		return errNoGemini
	}
	if *activities == "" {
		*activities = cfg.Garmin.OutputDir
	}

	opts := []gemini.Option{gemini.WithModel(cfg.Gemini.Model)}
	if cfg.Gemini.BaseURL != "" {
		opts = append(opts, gemini.WithBaseURL(cfg.Gemini.BaseURL))
	}
	client, err := gemini.New(ctx, cfg.Gemini.APIKey, opts...)
	if err != nil {
		return err
	}
	logger.Info().Str("model", client.Model()).Msg("generating workout plan")

	gen := prompt.NewGenerator(client, logger, prompt.WithClock(a.now))
	text, err := gen.Generate(ctx, prompt.Request{ContextFile: *contextFile, ActivitiesDir: *activities, Weeks: *weeks})
	if err != nil {
		return err
	}

	if *out == "" {
		*out = prompt.PlanFileName(a.now())
	}
	path, err := prompt.SavePlan(text, *out)
	if err != nil {
		return err
	}
	a.finish(cfg, "plan", logger)
	fmt.Fprintf(a.stdout, "Workout plan saved to: %s\n", path)
	return nil
}

// planFlag registers -plan and returns a getter that falls back to the first argument.
func planFlag(fs *flag.FlagSet) func() string {
	p := fs.String("plan", "", "workout plan markdown file")
	return func() string {
		if *p == "" && fs.NArg() > 0 {
			return fs.Arg(0)
		}
		return *p
	}
}

// loadWorkouts parses the plan at path and expands the steps of every workout.
func (a *app) loadWorkouts(path string, logger zerolog.Logger) ([]plan.Workout, error) {
	if path == "" {
		return nil, errNoPlanFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	logger.Info().Str("file", path).Msg("parsing workout plan")
	parser := plan.NewParser(logger, plan.WithClock(a.now))
	ws := workout.ExpandAll(parser.Parse(string(data)))
	for _, w := range ws {
		observability.RecordWorkoutParsed(string(w.Sport))
	}
	if len(ws) == 0 {
		return nil, errNoWorkouts
	}
	logger.Info().Int("count", len(ws)).Msg("found workouts")
	return ws, nil
}

func (a *app) parse(args []string) error {
	fs := a.flagSet("parse")
	var common commonFlags
	common.register(fs)
	planFile := planFlag(fs)
	out := fs.String("out", DefaultWorkoutsFile, "structured workouts JSON file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := a.setup(common)
	if err != nil {
		return err
	}
	ws, err := a.loadWorkouts(planFile(), logger)
	if err != nil {
		return err
	}

	if err := store.WriteJSON(*out, ws, 0o644); err != nil {
		return fmt.Errorf("save structured workouts: %w", err)
	}
	a.finish(cfg, "parse", logger)

	fmt.Fprintf(a.stdout, "Parsed %d workouts\n", len(ws))
	fmt.Fprintf(a.stdout, "Structured workouts saved to: %s\n\n", store.Abs(*out))
	fmt.Fprintln(a.stdout, schedule.Summarize(ws))
	return nil
}

func (a *app) upload(ctx context.Context, args []string) error {
	fs := a.flagSet("upload")
	var common commonFlags
	common.register(fs)
	planFile := planFlag(fs)
	scheduleFlag := fs.Bool("schedule", false, "add workouts with a date and time to the Garmin calendar")
	timezone := fs.String("timezone", "", "time zone of scheduled workouts (default GARMIN_TIMEZONE)")
	calendar := fs.Bool("calendar", false, "also write the calendar CSV")
	open := fs.Bool("open", false, "open the Garmin Connect workouts page when done")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := a.setup(common)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ws, err := a.loadWorkouts(planFile(), logger)
	if err != nil {
		return err
	}

	client, err := a.garminClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var opts []upload.Option
	if *scheduleFlag {
		tz := cfg.Garmin.Timezone
		if *timezone != "" {
			tz = *timezone
		}
		opts = append(opts, upload.WithScheduling(tz))
	}
	rep := upload.New(client, logger, opts...).UploadAll(ctx, ws)
	defer a.finish(cfg, "upload", logger)

	fmt.Fprintf(a.stdout, "Upload complete: %d/%d workouts uploaded\n", rep.Uploaded, rep.Total)
	for _, name := range rep.Failed {
		fmt.Fprintf(a.stdout, "Failed: %s\n", name)
	}

	if *calendar {
		path, err := schedule.ExportCalendar(ws, schedule.DefaultBase)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Calendar saved to: %s\n", store.Abs(path))
	}
	if *open && rep.Uploaded > 0 {
		if err := a.openURL(garmin.WorkoutsPage); err != nil {
			logger.Warn().Err(err).Msg("could not open browser")
		}
	}

	if rep.Uploaded == 0 {
		return fmt.Errorf("no workouts uploaded (%d failed)", len(rep.Failed))
	}
	return nil
}

func (a *app) export(args []string) error {
	fs := a.flagSet("export")
	var common commonFlags
	common.register(fs)
	planFile := planFlag(fs)
	name := fs.String("name", schedule.DefaultBase, "base name of the calendar files")
	ics := fs.Bool("ics", false, "also write an iCalendar file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := a.setup(common)
	if err != nil {
		return err
	}
	ws, err := a.loadWorkouts(planFile(), logger)
	if err != nil {
		return err
	}

	path, err := schedule.ExportCalendar(ws, *name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Calendar saved to: %s\n", store.Abs(path))

	if *ics {
		icsPath, err := schedule.ExportICS(ws, *name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "iCalendar saved to: %s\n", store.Abs(icsPath))
	}
	a.finish(cfg, "export", logger)

	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, schedule.Summarize(ws))
	return nil
}
