package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/TomasBahnik/kube-helpers/pkg/logging"
)

const (
	name           = "khctl"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/TomasBahnik/kube-helpers/pkg/cli.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// New assembles the khctl command tree.
func New() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Synthesize helm values and size kubernetes workloads",
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "log format (text, json)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLogger(name, version,
				logging.WithLevel(logging.ParseLevel(cmd.String("log-level"))),
				logging.WithFormat(logging.ParseFormat(cmd.String("log-format"))),
			)
			return ctx, nil
		},
		Commands: []*cli.Command{
			valuesCmd(),
			sizingCmd(),
			modulesCmd(),
			profilesCmd(),
			versionCmd(),
		},
	}
}

// Execute runs khctl and exits non-zero on failure.
func Execute() {
	if err := New().Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
