package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

// versionInfo is the serialized output of the version command. The
// fields come from the build-time ldflags overrides.
type versionInfo struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:                  "version",
		EnableShellCompletion: true,
		Usage:                 "Show version information",
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return writeOutput(ctx, cmd, versionInfo{
				Name:    name,
				Version: version,
				Commit:  commit,
				Date:    date,
			})
		},
	}
}
