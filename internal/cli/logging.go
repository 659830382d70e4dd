package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/sqlitebrowser/internal/cli/config"
)

// newLogger builds the process logger. Records go to cfg.LogFile when set.
// Without a log file, headless commands log to stderr in verbose mode and
// the interactive browser discards records so they never draw over the UI.
// The returned close function releases the log file.
func newLogger(cfg *config.Config, stderr io.Writer, interactive bool) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	noop := func() error { return nil }

	if cfg.LogFile != "" {
		if dir := filepath.Dir(cfg.LogFile); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return slog.New(slog.NewTextHandler(f, opts)), f.Close, nil
	}

	if cfg.Verbose && !interactive {
		return slog.New(slog.NewTextHandler(stderr, opts)), noop, nil
	}
	return slog.New(slog.DiscardHandler), noop, nil
}
