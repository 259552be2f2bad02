// Package cmd provides CLI commands for the htmlview binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// ConfigFlag names an explicit config file instead of the per-user one.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to htmlview.yaml config file",
	}

	// JournalDirFlag overrides the session journal directory.
	JournalDirFlag = &cli.StringFlag{
		Name:  "journal-dir",
		Usage: "Session journal directory",
	}

	// NoJournalFlag disables session journaling.
	NoJournalFlag = &cli.BoolFlag{
		Name:  "no-journal",
		Usage: "Do not record this session in the journal",
	}

	// BinaryFlag names an explicit viewer binary.
	BinaryFlag = &cli.StringFlag{
		Name:  "binary",
		Usage: "Path to the viewer binary (overrides discovery)",
	}

	// DebugFlag enables debug logging to stderr.
	DebugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
)

// ReadOnlyFlags returns the shared flags for the read-only commands
// (history, inspect, version).
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		ConfigFlag,
		JournalDirFlag,
	}
}

// ViewerFlags returns the flags shared by every command that launches a
// viewer window. Config file values fill in whatever the flags leave
// unset; flags always win.
func ViewerFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
		BinaryFlag,
		JournalDirFlag,
		NoJournalFlag,
		DebugFlag,
		FormatFlag,
		NoColorFlag,
		&cli.StringFlag{
			Name:  "title",
			Usage: "Window title",
		},
		&cli.IntFlag{
			Name:  "width",
			Usage: "Window width in pixels",
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "Window height in pixels",
		},
		&cli.BoolFlag{
			Name:    "maximised",
			Aliases: []string{"maximized"},
			Usage:   "Start maximised",
		},
		&cli.BoolFlag{
			Name:  "fullscreen",
			Usage: "Start fullscreen",
		},
		&cli.BoolFlag{
			Name:  "always-on-top",
			Usage: "Keep the window above others",
		},
		&cli.StringFlag{
			Name:  "theme",
			Usage: "Window theme: light or dark",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Auto-close the viewer after this duration (e.g. 30s, 5m)",
		},
		&cli.BoolFlag{
			Name:  "devtools",
			Usage: "Enable browser devtools",
		},
		&cli.BoolFlag{
			Name:  "allow-external-navigation",
			Usage: "Allow navigation away from the displayed content",
		},
		&cli.StringSliceFlag{
			Name:  "allowed-domain",
			Usage: "Domain allowed for external navigation (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "allow-remote-content",
			Usage: "Allow the page to load remote resources",
		},
	}
}
