// Package config provides configuration management for the sqlitebrowser CLI.
//
// Values are layered from defaults, an optional YAML file, SQLITEBROWSER_
// environment variables and explicitly set command-line flags, in that
// order of increasing precedence.
package config

import (
	"github.com/leapstack-labs/sqlitebrowser/internal/database"
	"github.com/leapstack-labs/sqlitebrowser/internal/snapshot"
)

// Config holds all CLI configuration options.
type Config struct {
	// Database is the file to open. A positional argument overrides it.
	Database string `koanf:"database"`
	Driver   string `koanf:"driver"`
	ReadOnly bool   `koanf:"read_only"`
	// PageSize limits rows read per table; 0 reads whole tables.
	PageSize int    `koanf:"page_size"`
	NullText string `koanf:"null_text"`
	StartDir string `koanf:"start_dir"`
	LogFile  string `koanf:"log_file"`
	Verbose  bool   `koanf:"verbose"`
	// OutputFormat selects how headless commands print grids.
	OutputFormat string `koanf:"output"`
}

// Default configuration values.
const (
	DefaultDriver   = database.DefaultDriver
	DefaultNullText = snapshot.DefaultNullText
	DefaultOutput   = "auto" // Auto-detect: TTY=table, non-TTY=markdown
	EnvPrefix       = "SQLITEBROWSER_"
)

// Output formats accepted by headless commands.
var OutputFormats = []string{"auto", "table", "markdown", "csv"}

// DatabaseOptions converts the config to options for database.Open.
func (c *Config) DatabaseOptions() database.Options {
	return database.Options{
		Driver:   c.Driver,
		ReadOnly: c.ReadOnly,
	}
}

// SnapshotOptions converts the config to options for snapshot reads.
func (c *Config) SnapshotOptions() snapshot.Options {
	return snapshot.Options{
		Limit:    c.PageSize,
		NullText: c.NullText,
	}
}
