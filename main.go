package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cli/browser"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const version = "0.1.0"

func main() {
	if err := runCLI(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCLI(ctx context.Context, args []string) error {
	a := &app{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		now:     time.Now,
		openURL: browser.OpenURL,
	}
	return a.run(ctx, args)
}

// app carries the process-level dependencies of every command.
type app struct {
	stdout  io.Writer
	stderr  io.Writer
	now     func() time.Time
	openURL func(string) error
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd := "download"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	} else if len(args) > 0 {
		switch args[0] {
		case "--help", "-h", "-help":
			cmd = "help"
		case "--version", "-version":
			cmd = "version"
		}
	}

	switch cmd {
	case "help":
		a.usage()
		return nil
	case "version":
		fmt.Fprintf(a.stdout, "garminplanner v%s\n", version)
		return nil
	case "download":
		return a.download(ctx, args)
	case "list", "list-activities":
		return a.list(args)
	case "plan":
		return a.plan(ctx, args)
	case "parse":
		return a.parse(args)
	case "upload":
		return a.upload(ctx, args)
	case "export":
		return a.export(args)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (a *app) usage() {
	fmt.Fprintln(a.stdout, `Usage: garminplanner [command] [options]

Commands:
  download          Download recent Garmin Connect activities (default)
  list [dir]        List downloaded activities
  plan              Generate a workout plan with Gemini
  parse             Parse a plan into structured workouts
  upload            Upload the workouts of a plan to Garmin Connect
  export            Write the calendar CSV (and ICS) of a plan
  help              Show this help message
  version           Show the version

Run "garminplanner <command> -h" for the options of a command.

Environment:
  GARMIN_EMAIL, GARMIN_PASSWORD   Garmin Connect credentials
  GARMIN_OUTPUT_DIR               Activity directory (default garmin_activities)
  GARMIN_DEFAULT_WEEKS            Weeks to download (default 2)
  GARMIN_TIMEZONE                 Time zone of scheduled workouts (default Europe/Lisbon)
  GEMINI_API_KEY, GEMINI_MODEL    Gemini settings for plan
  METRICS_TEXTFILE                Write run metrics to this file`)
}

// newLogger writes human-readable logs to w, tagged with a per-run id.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Str("run", uuid.NewString()[:8]).
		Logger()
}
