// Package cli provides the command-line interface for sqlitebrowser.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/sqlitebrowser/internal/cli/commands"
	"github.com/leapstack-labs/sqlitebrowser/internal/cli/config"
	"github.com/leapstack-labs/sqlitebrowser/internal/cli/output"
	"github.com/leapstack-labs/sqlitebrowser/internal/database"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	cfg      *config.Config
	closeLog = func() error { return nil }
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqlitebrowser [database]",
		Short: "sqlitebrowser - browse SQLite databases in the terminal",
		Long: `sqlitebrowser opens a SQLite database and shows every user table as a
labelled grid of its column names and rows.

Without a database argument a file chooser is shown first.

Key bindings:
  q, ctrl+q   quit
  ctrl+z      suspend to the shell
  ctrl+r      reload the current database from disk
  ctrl+o      open another database
  tab         move to the next table`,
		Args:    cobra.MaximumNArgs(1),
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger, closer, err := newLogger(cfg, cmd.ErrOrStderr(), cmd == cmd.Root())
			if err != nil {
				return err
			}
			closeLog = closer

			ctx := config.WithLogger(cmd.Context(), logger)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", slog.String("path", configFile))
			}

			return nil
		},
		RunE:          commands.RunBrowse,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Terminal browser for SQLite databases
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sqlitebrowser.yaml)")
	rootCmd.PersistentFlags().String("driver", "", "SQLite driver (sqlite|sqlite3)")
	rootCmd.PersistentFlags().Bool("read-write", false, "Open databases writable instead of read-only")
	rootCmd.PersistentFlags().Int("page-size", 0, "Maximum rows read per table (0 for all)")
	rootCmd.PersistentFlags().String("null-text", "", "Text shown for NULL values (default: None)")
	rootCmd.PersistentFlags().String("start-dir", "", "Directory the file chooser opens in")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format for dump and tables (auto|table|markdown|csv)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.OutputFormats, cobra.ShellCompDirectiveNoFileComp
	})

	// Register completion for driver flag
	_ = rootCmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{database.DriverModernc, database.DriverCGO}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewTablesCommand())
	rootCmd.AddCommand(commands.NewDumpCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return execute(NewRootCmd(), os.Stderr)
}

func execute(rootCmd *cobra.Command, stderr io.Writer) error {
	err := rootCmd.Execute()
	_ = closeLog()
	if err != nil {
		// An interrupt is reported through the exit status only.
		if !errors.Is(err, commands.ErrInterrupted) {
			output.NewRenderer(rootCmd.OutOrStdout(), stderr, output.ModeAuto).Error(fmt.Sprintf("Error: %v", err))
		}
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sqlitebrowser.

To load completions:

Bash:
  $ source <(sqlitebrowser completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ sqlitebrowser completion zsh > "${fpath[1]}/_sqlitebrowser"

Fish:
  $ sqlitebrowser completion fish > ~/.config/fish/completions/sqlitebrowser.fish

PowerShell:
  PS> sqlitebrowser completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
