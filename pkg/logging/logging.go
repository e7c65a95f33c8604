// Package logging configures the zerolog logger shared by every windeploy
// package. Console output is for the operator; the JSON log file under the
// state directory keeps the full record of each deployment.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/windeploy/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level maps a -v count to a level: none is Warn, then Info, Debug and
// Trace for three or more
func Level(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger points the global logger at stderr and the log file. The file
// is best-effort: when it cannot be opened the console still works and a
// warning says why.
func SetupLogger(verbosity int, noColor bool) {
	zerolog.SetGlobalLevel(Level(verbosity))

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}

	logPath := paths.New().LogFilePath()
	file, fileErr := openLogFile(logPath)

	var out io.Writer = console
	if fileErr == nil {
		out = zerolog.MultiLevelWriter(console, file)
	}

	ctx := zerolog.New(out).With().Timestamp()
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logPath).Msg("Logging to the console only")
	}
	log.Debug().Int("verbosity", verbosity).Str("log_file", logPath).Msg("Logger initialized")
}

// GetLogger returns the global logger tagged with component
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// LogCommand records an external program about to be started
func LogCommand(logger zerolog.Logger, program string, args []string) {
	logger.Debug().
		Str("program", program).
		Strs("args", args).
		Msg("Starting program")
}

// LogDuration records how long operation took since start. Meant for defer.
func LogDuration(start time.Time, operation string) {
	log.Info().
		Str("operation", operation).
		Dur("duration", time.Since(start)).
		Msg("Operation finished")
}

// LogOperationStart records the start of operation and returns the func
// that records its end
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation finished")
	}
}
