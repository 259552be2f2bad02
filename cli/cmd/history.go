package cmd

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/jmg049/htmlview/cli/render"
	"github.com/jmg049/htmlview/journal"
)

// HistoryCommand returns the history command: list recorded sessions.
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent viewer sessions",
		Flags: append(ReadOnlyFlags(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Show at most this many sessions (0 = all)",
				Value:   20,
			}),
		Action: historyAction,
	}
}

func historyAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	j, err := openJournal(c)
	if err != nil {
		return cli.Exit(err.Error(), exitViewerError)
	}

	records, err := j.List()
	if err != nil {
		return cli.Exit(err.Error(), exitViewerError)
	}
	if limit := c.Int("limit"); limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return r.History(records)
}

// InspectCommand returns the inspect command: show one session in detail.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show a recorded session (full id or unique prefix)",
		ArgsUsage: "<session-id>",
		Flags:     ReadOnlyFlags(),
		Action:    inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("inspect requires exactly one session id argument", exitUsage)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	j, err := openJournal(c)
	if err != nil {
		return cli.Exit(err.Error(), exitViewerError)
	}

	rec, err := j.Get(c.Args().First())
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) || errors.Is(err, journal.ErrAmbiguousID) {
			return cli.Exit(err.Error(), exitUsage)
		}
		return cli.Exit(err.Error(), exitViewerError)
	}

	return r.Record(rec)
}

func openJournal(c *cli.Context) (*journal.Journal, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	dir, err := journalDir(c, cfg)
	if err != nil {
		return nil, err
	}
	return journal.Open(dir)
}
