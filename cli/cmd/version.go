package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/jmg049/htmlview/cli/render"
	"github.com/jmg049/htmlview/types"
)

// VersionCommand returns the version command. Library and protocol
// versions move in lockstep; the command never launches a viewer.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Flags:  []cli.Flag{FormatFlag, NoColorFlag},
		Action: versionAction(commit),
	}
}

func versionAction(commit string) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := render.NewRenderer(c)
		if err != nil {
			return err
		}

		return r.Version(render.VersionInfo{
			Version:  types.Version,
			Protocol: types.ProtocolVersion,
			Commit:   commit,
		})
	}
}
