// Package main provides the htmlview CLI entrypoint.
//
// Usage:
//
//	htmlview <command> [options] <target>
//
// Exit codes for the viewer commands:
//   - 0: window closed by the user
//   - 1: viewer error or launch failure
//   - 2: usage error
//   - 3: viewer timed out
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jmg049/htmlview/cli/cmd"
	"github.com/jmg049/htmlview/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:           "htmlview",
		Usage:          "Display HTML content in a native viewer window",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.HTMLCommand(),
			cmd.FileCommand(),
			cmd.DirCommand(),
			cmd.URLCommand(),
			cmd.WatchCommand(),
			cmd.HistoryCommand(),
			cmd.InspectCommand(),
			cmd.VersionCommand(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		// This branch handles unexpected errors that weren't wrapped.
		os.Exit(1)
	}
}

// exitErrHandler handles errors from the CLI, preserving exit codes from
// cli.Exit() so viewer outcomes map onto the documented codes.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() returns "exit status N"; skip those.
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
