package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/TomasBahnik/kube-helpers/pkg/modules"
	"github.com/TomasBahnik/kube-helpers/pkg/sizing"
)

// moduleListing is the serialized output of modules list. Enabled and
// Disabled carry the partition against a sizing universe and stay empty
// without --sizing.
type moduleListing struct {
	Profile  string   `json:"profile" yaml:"profile"`
	Modules  []string `json:"modules" yaml:"modules"`
	Enabled  []string `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Disabled []string `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

func modulesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "modules",
		EnableShellCompletion: true,
		Usage:                 "Inspect module profiles",
		Commands: []*cli.Command{
			modulesListCmd(),
		},
	}
}

func modulesListCmd() *cli.Command {
	return &cli.Command{
		Name:                  "list",
		EnableShellCompletion: true,
		Usage:                 "List the modules of a module profile",
		Description: `Lists the enabled module paths of a module profile. With --sizing the
profile is additionally partitioned against the component sections of
that sizing: every section covered by an enabled path lands in enabled,
the complement in disabled. Enabling a child keeps its ancestors
enabled.

# Examples

Raw profile listing:
  khctl modules list -d ./sizing -m basic

Partition against a sizing universe, as JSON:
  khctl modules list -d ./sizing -m basic -s perf_standard -t json`,
		Flags: []cli.Flag{
			sizingDirFlag,
			&cli.StringFlag{
				Name:    "modules",
				Aliases: []string{"m"},
				Value:   "basic",
				Usage:   "module profile according to modules.ini",
			},
			&cli.StringFlag{
				Name:    "sizing",
				Aliases: []string{"s"},
				Value:   "",
				Usage:   "sizing profile whose sections form the partition universe",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("sizing-dir")

			enabled, err := sizing.EnabledModules(dir, cmd.String("modules"))
			if err != nil {
				return err
			}

			listing := moduleListing{
				Profile: cmd.String("modules"),
				Modules: modules.Normalize(enabled),
			}

			if profile := cmd.String("sizing"); profile != "" {
				src, err := sizing.Load(dir, profile)
				if err != nil {
					return err
				}
				part, err := modules.Resolve(src.Sections(), listing.Modules)
				if err != nil {
					return err
				}
				listing.Enabled = part.Enabled
				listing.Disabled = part.Disabled
			}

			return writeOutput(ctx, cmd, listing)
		},
	}
}
