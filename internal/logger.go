package internal

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

var (
	logLevel = new(slog.LevelVar)
	logger   = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
)

// SetupLogger configures a dual-output logger: text to stderr for the user,
// JSON to a file for later inspection. Returns a cleanup function that closes
// the file. Falls back to stderr-only when the file cannot be opened.
func SetupLogger(logFile string) func() error {
	stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})

	if logFile == "" {
		logger = slog.New(stderrHandler)
		return func() error { return nil }
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger = slog.New(stderrHandler)
		logger.Warn("failed to open log file, using stderr only", "error", err, "file", logFile)
		return func() error { return nil }
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(slogmulti.Fanout(stderrHandler, fileHandler))

	return func() error {
		return file.Close()
	}
}

// SetupLoggerWithWriters configures the logger with custom writers (for testing).
func SetupLoggerWithWriters(stderr, file io.Writer) {
	stderrHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel})
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(slogmulti.Fanout(stderrHandler, fileHandler))
}

// SetVerbose enables debug logging
func SetVerbose(verbose bool) {
	if verbose {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelInfo)
	}
}

// LogError logs an error message with structured attributes
func LogError(msg string, args ...any) {
	logger.Error(msg, args...)
}

// LogWarn logs a warning message with structured attributes
func LogWarn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// LogInfo logs an info message with structured attributes
func LogInfo(msg string, args ...any) {
	logger.Info(msg, args...)
}

// LogDebug logs a debug message with structured attributes
func LogDebug(msg string, args ...any) {
	logger.Debug(msg, args...)
}
