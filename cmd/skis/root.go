package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/skis/internal/config"
	"github.com/ALT-F4-LLC/skis/internal/output"
	"github.com/ALT-F4-LLC/skis/internal/tracker"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

type contextKey string

const (
	trackerKey  contextKey = "tracker"
	settingsKey contextKey = "settings"
	loggerKey   contextKey = "logger"
)

// skipRepo marks commands that run without an open repository.
const skipRepo = "skipRepo"

// CmdError wraps an error with a machine-readable error code for structured output.
type CmdError struct {
	Err  error
	Code output.ErrorCode
}

func (e *CmdError) Error() string { return e.Err.Error() }

func (e *CmdError) Unwrap() error { return e.Err }

func cmdErr(err error, code output.ErrorCode) *CmdError {
	return &CmdError{Err: err, Code: code}
}

// Resources opened by PersistentPreRunE. Execute releases them, since
// cobra skips post-run hooks when a command fails.
var (
	logCloser  io.Closer
	openedRepo *tracker.Tracker
)

var rootCmd = &cobra.Command{
	Use:     "skis",
	Short:   "Local offline issue tracker",
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		start, err := startPath(cmd)
		if err != nil {
			return err
		}

		// Settings live inside the repository, so find it first. Commands
		// that run outside one fall back to defaults plus environment.
		var settings config.Settings
		if cfg, findErr := config.Find(start); findErr == nil {
			settings, err = cfg.LoadSettings()
		} else if _, skip := cmd.Annotations[skipRepo]; skip {
			settings, err = config.LoadSettings("")
		} else {
			return findErr
		}
		if err != nil {
			return cmdErr(err, output.ErrValidation)
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		logger, closer, err := newLogger(settings, verbose)
		if err != nil {
			return err
		}
		logCloser = closer

		ctx := context.WithValue(cmd.Context(), settingsKey, settings)
		ctx = context.WithValue(ctx, loggerKey, logger)

		if _, ok := cmd.Annotations[skipRepo]; ok {
			cmd.SetContext(ctx)
			return nil
		}

		tr, err := tracker.Open(ctx, start,
			tracker.WithLogger(logger),
			tracker.WithSettings(settings),
		)
		if err != nil {
			return err
		}
		openedRepo = tr

		cmd.SetContext(context.WithValue(ctx, trackerKey, tr))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringP("repo", "C", "", "Start repository discovery at this path (default $SKIS_PATH or the current directory)")
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

// startPath is where repository discovery begins: --repo, then SKIS_PATH,
// then the working directory.
func startPath(cmd *cobra.Command) (string, error) {
	if repo, _ := cmd.Flags().GetString("repo"); repo != "" {
		return repo, nil
	}
	if env := os.Getenv("SKIS_PATH"); env != "" {
		return env, nil
	}
	return os.Getwd()
}

// newLogger builds the process logger. Text goes to stderr unless
// log_file is set, in which case JSON lines are appended to that file.
func newLogger(s config.Settings, verbose bool) (*slog.Logger, io.Closer, error) {
	level, err := s.Level()
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if s.LogFile == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil, nil
	}

	f, err := os.OpenFile(s.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, opts)), f, nil
}

func getWriter(cmd *cobra.Command) *output.Writer {
	jsonMode, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return output.New(jsonMode, quietMode)
}

func getTracker(cmd *cobra.Command) *tracker.Tracker {
	if cmd.Context() == nil {
		return nil
	}
	tr, _ := cmd.Context().Value(trackerKey).(*tracker.Tracker)
	return tr
}

func getSettings(cmd *cobra.Command) config.Settings {
	s, ok := cmd.Context().Value(settingsKey).(config.Settings)
	if !ok {
		return config.DefaultSettings()
	}
	return s
}

func getLogger(cmd *cobra.Command) *slog.Logger {
	l, ok := cmd.Context().Value(loggerKey).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// releaseResources closes the tracker and log file opened for the command.
func releaseResources() error {
	var err error
	if openedRepo != nil {
		err = openedRepo.Close()
		openedRepo = nil
	}
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
	return err
}

// Execute runs the root command and returns an exit code.
func Execute() int {
	err := rootCmd.Execute()
	if closeErr := releaseResources(); err == nil {
		err = closeErr
	}
	if err != nil {
		jsonMode, _ := rootCmd.PersistentFlags().GetBool("json")
		quietMode, _ := rootCmd.PersistentFlags().GetBool("quiet")
		w := output.New(jsonMode, quietMode)

		var ce *CmdError
		if errors.As(err, &ce) {
			return w.Error(ce.Err, ce.Code)
		}
		return w.Error(err, "")
	}
	return 0
}
