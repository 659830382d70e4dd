package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sqlitebrowser/internal/cli/config"
	"github.com/leapstack-labs/sqlitebrowser/internal/cli/output"
	"github.com/leapstack-labs/sqlitebrowser/internal/database"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration
// and the logger stored on the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenDatabase opens path with the configured driver and access mode.
// The caller must close the returned handle.
func (c *CommandContext) OpenDatabase(ctx context.Context, path string) (*database.Handle, error) {
	opts := c.Cfg.DatabaseOptions()
	opts.Logger = c.Logger

	h, err := database.Open(ctx, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return h, nil
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		Driver:       config.DefaultDriver,
		ReadOnly:     true,
		NullText:     config.DefaultNullText,
		OutputFormat: config.DefaultOutput,
	}
}
