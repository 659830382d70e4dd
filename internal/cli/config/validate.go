package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlitebrowser/internal/database"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !database.ValidDriver(c.Driver) {
		return fmt.Errorf("unknown driver %q\nHint: set driver to %q (pure Go) or %q (cgo) in sqlitebrowser.yaml",
			c.Driver, database.DriverModernc, database.DriverCGO)
	}
	if c.PageSize < 0 {
		return fmt.Errorf("page_size must be zero or positive, got %d", c.PageSize)
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (expected one of: %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	return nil
}
