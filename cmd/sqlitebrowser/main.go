// Package main provides the entry point for the sqlitebrowser CLI.
package main

import (
	"errors"
	"os"

	"github.com/leapstack-labs/sqlitebrowser/internal/cli"
	"github.com/leapstack-labs/sqlitebrowser/internal/cli/commands"
)

// Exit status after an interrupt, as a shell reports SIGINT.
const exitInterrupted = 130

func main() {
	os.Exit(exitCode(cli.Execute()))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, commands.ErrInterrupted):
		return exitInterrupted
	default:
		return 1
	}
}
