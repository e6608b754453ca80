package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/TomasBahnik/kube-helpers/pkg/sizing"
)

// profileListing pairs the sizing and module profile names of one
// sizing directory.
type profileListing struct {
	SizingProfiles []string `json:"sizingProfiles" yaml:"sizingProfiles"`
	ModuleProfiles []string `json:"moduleProfiles" yaml:"moduleProfiles"`
}

func profilesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "profiles",
		EnableShellCompletion: true,
		Usage:                 "List sizing and module profiles",
		Description: `Lists the profile names defined by sizings.ini and modules.ini in the
sizing directory. Sizing profiles name layered INI chains, module
profiles name enabled module sets.

# Examples

  khctl profiles -d ./sizing
  khctl profiles -d ./sizing -t json -o profiles.json`,
		Flags: []cli.Flag{
			sizingDirFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("sizing-dir")

			sizings, err := sizing.SizingProfiles(dir)
			if err != nil {
				return err
			}
			mods, err := sizing.ModuleProfiles(dir)
			if err != nil {
				return err
			}

			return writeOutput(ctx, cmd, profileListing{
				SizingProfiles: sizings,
				ModuleProfiles: mods,
			})
		},
	}
}
