package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options configures Setup.
type Options struct {
	Dir          string
	FileLevel    string
	ConsoleLevel string
	// Console receives records at ConsoleLevel and above. Nil disables it.
	Console io.Writer
	// Now names the log file; time.Now when nil.
	Now func() time.Time
}

// Setup creates dir/agent_YYYYMMDD_HHMMSS.log and returns a logger writing
// to it and to the console, the path of the file, and a function closing it.
func Setup(opts Options) (*slog.Logger, string, func() error, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, "", nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(opts.Dir, fmt.Sprintf("agent_%s.log", now().Format("20060102_150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to open log file: %w", err)
	}

	handlers := fanout{NewHandler(f, ParseLevel(opts.FileLevel))}
	if opts.Console != nil {
		handlers = append(handlers, NewHandler(opts.Console, ParseLevel(opts.ConsoleLevel)))
	}

	logger := slog.New(handlers)
	logger.Info("Logging initialized", "file", path)

	return logger, path, f.Close, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
