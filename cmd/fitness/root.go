// ABOUTME: Root Cobra command for fitness CLI.
// ABOUTME: Owns the app dependencies and opens/closes them via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/harperreed/fitness/internal/config"
	"github.com/harperreed/fitness/internal/logging"
	"github.com/harperreed/fitness/internal/scheduler"
	"github.com/harperreed/fitness/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// app carries the dependencies every command uses. A repo set before
// Execute is used as-is and not closed.
type app struct {
	repo  storage.Repository
	sched *scheduler.Scheduler

	dataFile string
	logFile  string
	logLevel string

	ownsRepo  bool
	logCloser io.Closer
}

// Execute runs the CLI against the configured storage.
func Execute() error {
	a := &app{}
	err := newRootCmd(a).Execute()
	return multierr.Append(err, a.close())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "fitness",
		Short: "Personal fitness tracker",
		Long: `Fitness is a CLI tool for tracking users, workouts, and exercises,
and for scheduling workouts for users.

RECORDS:

  Every item is a record with an id, a type, and free-form data.
  The known types are user, workout, exercise, and schedule.

QUICK START:

  $ fitness create-user --username alice --age 30 --height 168
  $ fitness create-workout --name "Leg Day" --duration 45
  $ fitness list                                   # See all records
  $ fitness schedule --user-id 1a2b --workout-id 3c4d
  $ fitness schedules                              # See scheduled workouts

  Ids may be shortened to any unique prefix.

MCP INTEGRATION:

  Run 'fitness mcp' to start the Model Context Protocol server for use with
  MCP-compatible AI assistants.

DATA STORAGE:

  Records are stored in ~/.local/share/fitness/data.json by default.
  Use --data to point at another file, or set "backend": "badger" in
  ~/.config/fitness/config.json for the embedded key-value store.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip setup for commands that don't need it
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.dataFile, "data", "", "JSON data file (default: ~/.local/share/fitness/data.json)")
	root.PersistentFlags().StringVar(&a.logFile, "logfile", "", "write logs to a rotating file instead of stderr")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (default: warn)")

	root.AddCommand(
		newCreateUserCmd(a),
		newCreateWorkoutCmd(a),
		newCreateExerciseCmd(a),
		newCreateCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newUpdateUserCmd(a),
		newUpdateWorkoutCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newScheduleCmd(a),
		newSchedulesCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newMCPCmd(a),
	)

	return root
}

// open loads config, sets up logging, and opens storage. Flags win over
// the config file; --data always selects the JSON backend.
func (a *app) open() error {
	if a.sched == nil {
		a.sched = scheduler.New()
	}
	if a.repo != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.dataFile != "" {
		cfg.Backend = config.BackendJSON
		cfg.DataFile = a.dataFile
	}
	if a.logFile != "" {
		cfg.LogFile = a.logFile
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	a.logCloser, err = logging.Setup(logging.Params{
		LogFileName: cfg.GetLogFile(),
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	a.repo, err = cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	a.ownsRepo = true
	return nil
}

// close releases what open acquired. Safe to call more than once.
func (a *app) close() error {
	var err error
	if a.ownsRepo && a.repo != nil {
		err = multierr.Append(err, a.repo.Close())
		a.repo = nil
		a.ownsRepo = false
	}
	if a.logCloser != nil {
		err = multierr.Append(err, a.logCloser.Close())
		a.logCloser = nil
	}
	return err
}

// resolve expands an id prefix, turning lookup failures into CLI errors.
func (a *app) resolve(idOrPrefix string) (string, error) {
	id, err := a.repo.ResolveID(idOrPrefix)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return "", fmt.Errorf("record not found: %s", idOrPrefix)
	case errors.Is(err, storage.ErrAmbiguousID):
		return "", fmt.Errorf("id prefix %q matches more than one record", idOrPrefix)
	case err != nil:
		return "", err
	}
	return id, nil
}
