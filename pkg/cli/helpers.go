package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/TomasBahnik/kube-helpers/pkg/serializer"
)

// Flags shared across commands.
var (
	sizingDirFlag = &cli.StringFlag{
		Name:    "sizing-dir",
		Aliases: []string{"d"},
		Value:   ".",
		Usage:   "directory with sizings.ini, modules.ini and the sizing layer files",
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   "",
		Usage:   "output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   "yaml",
		Usage:   "output format (json, yaml, table)",
	}

	outputDirFlag = &cli.StringFlag{
		Name:    "output-dir",
		Aliases: []string{"O"},
		Value:   ".",
		Usage:   "directory for generated artifacts",
	}
)

// parseOutputFormat extracts and validates the output format from CLI flags.
// Returns the validated format or an error if the format is unknown.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: %v", outFormat, serializer.SupportedFormats())
	}
	return outFormat, nil
}

// writeOutput serializes v in the requested format to --output, stdout when
// unset.
func writeOutput(ctx context.Context, cmd *cli.Command, v any) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	ser, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	if err != nil {
		return err
	}
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()

	return ser.Serialize(ctx, v)
}
