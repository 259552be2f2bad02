package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jmg049/htmlview/cli/config"
	"github.com/jmg049/htmlview/cli/render"
	"github.com/jmg049/htmlview/journal"
	"github.com/jmg049/htmlview/log"
	"github.com/jmg049/htmlview/types"
	"github.com/jmg049/htmlview/viewer"
)

// Exit codes.
const (
	exitClean       = 0
	exitViewerError = 1
	exitUsage       = 2
	exitTimedOut    = 3
)

// HTMLCommand returns the html command: display inline markup.
func HTMLCommand() *cli.Command {
	return &cli.Command{
		Name:      "html",
		Usage:     "Display an inline HTML string (or - to read stdin)",
		ArgsUsage: "<markup>",
		Flags: append(ViewerFlags(),
			&cli.StringFlag{
				Name:  "base-dir",
				Usage: "Directory for resolving relative asset paths",
			}),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("html requires exactly one argument (markup, or - for stdin)", exitUsage)
			}
			markup := c.Args().First()
			if markup == "-" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return cli.Exit(fmt.Sprintf("reading stdin: %v", err), exitUsage)
				}
				markup = string(data)
			}

			content := types.InlineHTML(markup)
			if base := c.String("base-dir"); base != "" {
				content = types.InlineHTMLWithBase(markup, base)
			}
			return openAction(c, content)
		},
	}
}

// FileCommand returns the file command: display a local HTML file.
func FileCommand() *cli.Command {
	return &cli.Command{
		Name:      "file",
		Usage:     "Display a local HTML file",
		ArgsUsage: "<path>",
		Flags:     ViewerFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("file requires exactly one path argument", exitUsage)
			}
			path := c.Args().First()
			if _, err := os.Stat(path); err != nil {
				return cli.Exit(fmt.Sprintf("cannot read %s: %v", path, err), exitUsage)
			}
			return openAction(c, types.LocalFile(path))
		},
	}
}

// DirCommand returns the dir command: display a static HTML application.
func DirCommand() *cli.Command {
	return &cli.Command{
		Name:      "dir",
		Usage:     "Display a static HTML application directory",
		ArgsUsage: "<root>",
		Flags: append(ViewerFlags(),
			&cli.StringFlag{
				Name:  "entry",
				Usage: "Entry file relative to the root",
				Value: "index.html",
			}),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("dir requires exactly one root argument", exitUsage)
			}
			root := c.Args().First()
			info, err := os.Stat(root)
			if err != nil || !info.IsDir() {
				return cli.Exit(fmt.Sprintf("%s is not a readable directory", root), exitUsage)
			}
			return openAction(c, types.AppDir(root, c.String("entry")))
		},
	}
}

// URLCommand returns the url command: display a remote URL.
func URLCommand() *cli.Command {
	return &cli.Command{
		Name:      "url",
		Usage:     "Display a remote URL",
		ArgsUsage: "<url>",
		Flags:     ViewerFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("url requires exactly one URL argument", exitUsage)
			}
			return openAction(c, types.RemoteURL(c.Args().First()))
		},
	}
}

// openAction launches a blocking viewer session for the given content and
// maps its outcome onto the process exit code.
func openAction(c *cli.Context, content types.ViewerContent) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	opts := buildOptions(c, cfg, content)
	started := time.Now()

	res, err := viewer.OpenWith(opts, newLocator(c, cfg), newLogger(c))
	if err != nil {
		return cli.Exit(fmt.Sprintf("viewer launch failed: %v", err), exitViewerError)
	}

	recordSession(c, cfg, opts, res.Status, started, 0)
	return reportStatus(c, res.Status)
}

// reportStatus renders the exit status when a format was requested and
// converts the viewer's exit reason into the process exit code.
func reportStatus(c *cli.Context, status *types.ViewerExitStatus) error {
	if c.IsSet("format") {
		r, err := render.NewRenderer(c)
		if err != nil {
			return cli.Exit(err.Error(), exitUsage)
		}
		if err := r.Status(status); err != nil {
			return err
		}
	}

	switch status.Reason {
	case types.ExitClosedByUser:
		return nil
	case types.ExitTimedOut:
		return cli.Exit("viewer timed out", exitTimedOut)
	case types.ExitError:
		msg := status.Message
		if msg == "" {
			msg = "viewer reported an error"
		}
		return cli.Exit(msg, exitViewerError)
	default:
		return cli.Exit(fmt.Sprintf("viewer reported unknown exit reason %q", status.Reason), exitViewerError)
	}
}

// loadConfig loads the config file named by --config, or the per-user
// default (missing default file yields an empty config).
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// buildOptions merges config defaults and CLI flags into viewer options.
// Flags always override config values.
func buildOptions(c *cli.Context, cfg *config.Config, content types.ViewerContent) viewer.ViewerOptions {
	opts := viewer.ViewerOptions{
		Content: content,
		Window:  types.DefaultWindowOptions(),
		Wait:    viewer.Blocking,
	}
	if content.Type == types.ContentRemoteURL {
		opts.Behaviour.AllowRemoteContent = true
	}

	// Config file defaults.
	if cfg.Window.Title != "" {
		opts.Window.Title = cfg.Window.Title
	}
	if cfg.Window.Width > 0 {
		opts.Window.Width = cfg.Window.Width
	}
	if cfg.Window.Height > 0 {
		opts.Window.Height = cfg.Window.Height
	}
	if cfg.Window.Maximised {
		opts.Window.Maximised = true
	}
	if cfg.Window.Fullscreen {
		opts.Window.Fullscreen = true
	}
	if cfg.Window.AlwaysOnTop {
		opts.Window.AlwaysOnTop = true
	}
	if cfg.Window.Theme != "" {
		opts.Window.Theme = cfg.Window.Theme
	}
	if cfg.Behaviour.AllowExternalNavigation {
		opts.Behaviour.AllowExternalNavigation = true
	}
	if len(cfg.Behaviour.AllowedDomains) > 0 {
		opts.Behaviour.AllowedDomains = cfg.Behaviour.AllowedDomains
	}
	if cfg.Behaviour.EnableDevtools {
		opts.Behaviour.EnableDevtools = true
	}
	if cfg.Behaviour.AllowRemoteContent {
		opts.Behaviour.AllowRemoteContent = true
	}
	if cfg.Behaviour.AllowNotifications {
		opts.Behaviour.AllowNotifications = true
	}
	if cfg.Timeout.Duration > 0 {
		opts.Environment.TimeoutSeconds = secondsCeil(cfg.Timeout.Duration)
	}

	// Flag overrides.
	if c.IsSet("title") {
		opts.Window.Title = c.String("title")
	}
	if c.IsSet("width") {
		opts.Window.Width = c.Int("width")
	}
	if c.IsSet("height") {
		opts.Window.Height = c.Int("height")
	}
	if c.Bool("maximised") {
		opts.Window.Maximised = true
	}
	if c.Bool("fullscreen") {
		opts.Window.Fullscreen = true
	}
	if c.Bool("always-on-top") {
		opts.Window.AlwaysOnTop = true
	}
	if c.IsSet("theme") {
		opts.Window.Theme = c.String("theme")
	}
	if c.Bool("allow-external-navigation") {
		opts.Behaviour.AllowExternalNavigation = true
	}
	if domains := c.StringSlice("allowed-domain"); len(domains) > 0 {
		opts.Behaviour.AllowedDomains = domains
	}
	if c.Bool("devtools") {
		opts.Behaviour.EnableDevtools = true
	}
	if c.Bool("allow-remote-content") {
		opts.Behaviour.AllowRemoteContent = true
	}
	if c.IsSet("timeout") {
		opts.Environment.TimeoutSeconds = secondsCeil(c.Duration("timeout"))
	}
	return opts
}

func secondsCeil(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	secs := (d + time.Second - 1) / time.Second
	return uint64(secs)
}

// newLocator resolves binary discovery: --binary flag, then the config
// file, then the standard discovery chain.
func newLocator(c *cli.Context, cfg *config.Config) viewer.AppLocator {
	if path := c.String("binary"); path != "" {
		return viewer.LocatorFunc(func() (string, error) { return path, nil })
	}
	if cfg.Binary != "" {
		binary := cfg.Binary
		return viewer.LocatorFunc(func() (string, error) { return binary, nil })
	}
	return &viewer.DefaultLocator{}
}

func newLogger(c *cli.Context) *log.Logger {
	if c.Bool("debug") {
		return log.New("")
	}
	return nil
}

// recordSession appends the session outcome to the journal. Journaling is
// best effort; a failure warns on stderr but never fails the command.
func recordSession(c *cli.Context, cfg *config.Config, opts viewer.ViewerOptions, status *types.ViewerExitStatus, started time.Time, refreshes int) {
	if c.Bool("no-journal") || status == nil {
		return
	}

	dir, err := journalDir(c, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal disabled: %v\n", err)
		return
	}
	j, err := journal.Open(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal disabled: %v\n", err)
		return
	}

	ended := time.Now()
	rec := journal.Record{
		ID:            status.ID,
		Started:       started.UTC(),
		Ended:         ended.UTC(),
		ContentType:   string(opts.Content.Type),
		Target:        opts.Content.Target(),
		Reason:        string(status.Reason),
		Message:       status.Message,
		ViewerVersion: status.ViewerVersion,
		DurationMs:    ended.Sub(started).Milliseconds(),
		RefreshCount:  refreshes,
	}
	if err := j.Append(rec); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

// journalDir resolves the journal location: --journal-dir flag, then the
// config file, then the per-user default.
func journalDir(c *cli.Context, cfg *config.Config) (string, error) {
	if dir := c.String("journal-dir"); dir != "" {
		return dir, nil
	}
	if cfg.JournalDir != "" {
		return cfg.JournalDir, nil
	}
	return journal.DefaultDir()
}
