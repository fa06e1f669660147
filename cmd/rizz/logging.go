package main

import (
	"log/slog"
	"strings"

	"github.com/Cyclone1070/rizz/internal/config"
	"github.com/Cyclone1070/rizz/internal/logging"
)

type noticeSink interface {
	Ready() <-chan struct{}
	WriteNotice(content string)
}

// noticeWriter turns console log lines into chat notices. The UI holds the
// alt screen, so nothing may be written to the terminal directly.
type noticeWriter struct {
	sink noticeSink
}

func (w noticeWriter) Write(p []byte) (int, error) {
	select {
	case <-w.sink.Ready():
	default:
		// before the program runs; the file handler still has the record
		return len(p), nil
	}
	if line := strings.TrimSpace(string(p)); line != "" {
		w.sink.WriteNotice(line)
	}
	return len(p), nil
}

// setupLogging builds the file logger plus a console handler that reports
// through the UI instead of stderr.
func setupLogging(cfg *config.Config, sink noticeSink) (*slog.Logger, string, func() error, error) {
	return logging.Setup(logging.Options{
		Dir:          cfg.Log.Dir,
		FileLevel:    cfg.Log.FileLevel,
		ConsoleLevel: cfg.Log.ConsoleLevel,
		Console:      noticeWriter{sink: sink},
	})
}
