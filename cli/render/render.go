// Package render provides centralized output rendering for the htmlview CLI.
//
// Format selection rules:
//   - If output is a TTY, default to table
//   - If output is not a TTY, default to json
//   - --format flag always overrides defaults
//   - Invalid formats are errors
//
// Color handling:
//   - --no-color affects table output only
//   - The watch TUI is unaffected by --no-color (it uses its own styling)
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/jmg049/htmlview/cli/tui"
	"github.com/jmg049/htmlview/journal"
	"github.com/jmg049/htmlview/types"
)

// Format represents an output format.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string, returning an error for invalid formats.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	case "yaml":
		return FormatYAML, nil
	case "":
		return "", nil // Let caller decide default
	default:
		return "", fmt.Errorf("invalid format: %q (must be json, table, or yaml)", s)
	}
}

// Renderer handles output formatting.
type Renderer struct {
	format  Format
	noColor bool
	out     io.Writer
}

// NewRenderer creates a renderer from CLI context, applying the format
// selection rules above.
func NewRenderer(c *cli.Context) (*Renderer, error) {
	format, err := ParseFormat(c.String("format"))
	if err != nil {
		return nil, err
	}

	if format == "" {
		if isTTY(os.Stdout) {
			format = FormatTable
		} else {
			format = FormatJSON
		}
	}

	return &Renderer{
		format:  format,
		noColor: c.Bool("no-color"),
		out:     os.Stdout,
	}, nil
}

// NewRendererWithWriter creates a renderer with a custom writer (for testing).
func NewRendererWithWriter(format Format, noColor bool, out io.Writer) *Renderer {
	return &Renderer{
		format:  format,
		noColor: noColor,
		out:     out,
	}
}

// History renders the session journal listing.
func (r *Renderer) History(records []journal.Record) error {
	if r.format != FormatTable {
		return r.encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(r.out, "(no sessions)")
		return nil
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tREASON\tREFRESHES\tTARGET")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			shortID(rec.ID),
			rec.Started.Local().Format("2006-01-02 15:04:05"),
			formatDuration(rec.DurationMs),
			r.reason(rec.Reason),
			rec.RefreshCount,
			rec.Target)
	}
	return nil
}

// Record renders a single session record in detail.
func (r *Renderer) Record(rec *journal.Record) error {
	if r.format != FormatTable {
		return r.encode(rec)
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "id:\t%s\n", rec.ID)
	fmt.Fprintf(w, "started:\t%s\n", rec.Started.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "ended:\t%s\n", rec.Ended.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "duration:\t%s\n", formatDuration(rec.DurationMs))
	fmt.Fprintf(w, "content:\t%s\n", rec.ContentType)
	fmt.Fprintf(w, "target:\t%s\n", rec.Target)
	fmt.Fprintf(w, "reason:\t%s\n", r.reason(rec.Reason))
	if rec.Message != "" {
		fmt.Fprintf(w, "message:\t%s\n", rec.Message)
	}
	fmt.Fprintf(w, "viewer:\t%s\n", rec.ViewerVersion)
	fmt.Fprintf(w, "refreshes:\t%d\n", rec.RefreshCount)
	return nil
}

// Status renders a viewer exit status.
func (r *Renderer) Status(status *types.ViewerExitStatus) error {
	if r.format != FormatTable {
		return r.encode(status)
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "id:\t%s\n", status.ID)
	fmt.Fprintf(w, "reason:\t%s\n", r.reason(string(status.Reason)))
	if status.Message != "" {
		fmt.Fprintf(w, "message:\t%s\n", status.Message)
	}
	fmt.Fprintf(w, "viewer:\t%s\n", status.ViewerVersion)
	return nil
}

// VersionInfo is the payload for the version command.
type VersionInfo struct {
	Version  string `json:"version" yaml:"version"`
	Protocol string `json:"protocol" yaml:"protocol"`
	Commit   string `json:"commit" yaml:"commit"`
}

// Version renders version information.
func (r *Renderer) Version(info VersionInfo) error {
	if r.format != FormatTable {
		return r.encode(info)
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "version:\t%s\n", info.Version)
	fmt.Fprintf(w, "protocol:\t%s\n", info.Protocol)
	fmt.Fprintf(w, "commit:\t%s\n", info.Commit)
	return nil
}

func (r *Renderer) encode(data any) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

func (r *Renderer) reason(reason string) string {
	if r.noColor {
		return reason
	}
	return tui.ReasonStyle(reason).Render(reason)
}

// shortID truncates a session UUID for table display; json/yaml output
// keeps the full id.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func formatDuration(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).Round(100 * time.Millisecond).String()
}

// isTTY returns true if the writer is a TTY.
func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
