package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlitebrowser/internal/ui/browser"
	"github.com/leapstack-labs/sqlitebrowser/internal/ui/chooser"
)

// ErrInterrupted is returned when the browser is left with ctrl+c.
var ErrInterrupted = errors.New("interrupted")

// RunBrowse opens the interactive browser. The database comes from the
// first argument, then the configured database, and finally from a file
// chooser; cancelling the chooser returns chooser.ErrCancelled.
func RunBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	path := cfg.Database
	if len(args) > 0 {
		path = args[0]
	}

	if path == "" {
		chosen, err := chooser.Choose(ctx, startDir(cfg.StartDir))
		if err != nil {
			return err
		}
		path = chosen
	}

	dbOpts := cfg.DatabaseOptions()
	dbOpts.Logger = cmdCtx.Logger

	m, err := browser.New(ctx, browser.Options{
		Path:     path,
		Database: dbOpts,
		Snapshot: cfg.SnapshotOptions(),
		StartDir: cfg.StartDir,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)
	// Keep the default SIGINT disposition so an interrupt delivered from
	// outside the terminal still terminates the process.
	signal.Reset(os.Interrupt)

	cmdCtx.Logger.Info("starting browser", slog.String("path", path))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}

	if m.Interrupted() {
		return ErrInterrupted
	}
	return nil
}

func startDir(dir string) string {
	if dir != "" {
		return dir
	}
	return "."
}
