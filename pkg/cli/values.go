package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/TomasBahnik/kube-helpers/pkg/analysis"
	"github.com/TomasBahnik/kube-helpers/pkg/props"
	"github.com/TomasBahnik/kube-helpers/pkg/sizing"
	"github.com/TomasBahnik/kube-helpers/pkg/values"
)

func valuesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "values",
		EnableShellCompletion: true,
		Usage:                 "Build and analyze helm values documents",
		Commands: []*cli.Command{
			valuesBuildCmd(),
			valuesAnalyzeCmd(),
		},
	}
}

func valuesBuildCmd() *cli.Command {
	return &cli.Command{
		Name:                  "build",
		EnableShellCompletion: true,
		Usage:                 "Synthesize a values document from a sizing and a module profile",
		Description: `Synthesizes a helm values document from layered INI definitions:
  - enabled/disabled flags for every chart module
  - per-component resources, replicas, javaOpts, extraProperties, extraEnv
  - optional externals from an environment property file (hostname,
    database coordinates, image tags)

The document is written as values.yaml (with a provenance comment header)
and values.json into the output directory.

# Examples

Build perf values with the basic module set:
  khctl values build -d ./sizing -s perf_standard -m basic -O ./generated

Merge externals from a property environment:
  khctl values build -d ./sizing -s perf_standard -m basic \
    --props-dir ./environments --env perf01`,
		Flags: []cli.Flag{
			sizingDirFlag,
			&cli.StringFlag{
				Name:    "sizing",
				Aliases: []string{"s"},
				Value:   "perf_standard",
				Usage:   "sizing profile according to sizings.ini",
			},
			&cli.StringFlag{
				Name:    "modules",
				Aliases: []string{"m"},
				Value:   "basic",
				Usage:   "module profile according to modules.ini",
			},
			&cli.StringFlag{
				Name:  "props-dir",
				Value: ".",
				Usage: "directory with environment property files",
			},
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Value:   "",
				Usage:   "property environment supplying externals (skipped when empty)",
			},
			&cli.StringFlag{
				Name:  "app-component",
				Value: values.DefaultAppComponent,
				Usage: "component receiving the application database name",
			},
			&cli.StringFlag{
				Name:  "exporter-component",
				Value: values.DefaultExporterComponent,
				Usage: "component receiving the database exporter environment",
			},
			outputDirFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("sizing-dir")

			src, err := sizing.Load(dir, cmd.String("sizing"))
			if err != nil {
				return err
			}
			enabled, err := sizing.EnabledModules(dir, cmd.String("modules"))
			if err != nil {
				return err
			}

			builder := values.NewBuilder(src, enabled,
				values.WithAppComponent(cmd.String("app-component")),
				values.WithExporterComponent(cmd.String("exporter-component")),
			)

			var ext *values.Externals
			if env := cmd.String("env"); env != "" {
				cfg, err := props.Load(cmd.String("props-dir"), env)
				if err != nil {
					return err
				}
				ext = values.ExternalsFromProps(cfg)
			}

			doc, err := builder.Build(ext)
			if err != nil {
				return err
			}

			hdr := values.NewHeader(src.Profile(), cmd.String("modules"), version)
			result, err := values.SaveValues(ctx, doc, cmd.String("output-dir"), hdr)
			if err != nil {
				return err
			}

			fmt.Printf("\nValues document generated successfully!\n")
			fmt.Printf("Output directory: %s\n", cmd.String("output-dir"))
			fmt.Printf("Files generated: %d\n", len(result.Files))
			return nil
		},
	}
}

func valuesAnalyzeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "analyze",
		EnableShellCompletion: true,
		Usage:                 "Collect values keys and resources from a chart tree",
		Description: `Scans a chart tree for values files (file name contains "values" or the
content carries a resources: block), flattens every document and emits:
  - a sorted, unique key=value properties file
  - optionally an INI skeleton of the component sections seen
  - the resources keys per file, printed in the requested format

Template lines referencing .Values in non-value files are collected and
counted in the summary.

# Examples

Analyze a checked out chart repository:
  khctl values analyze -r ./helm-charts -O ./reports

Print the per-file resources keys as a table:
  khctl values analyze -r ./helm-charts --resources --format table`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "root",
				Aliases:  []string{"r"},
				Required: true,
				Usage:    "chart tree to scan",
			},
			&cli.StringFlag{
				Name:  "properties",
				Value: "helm_values.properties",
				Usage: "name of the unique key=value artifact",
			},
			&cli.StringFlag{
				Name:  "components",
				Value: "",
				Usage: "name of the component INI skeleton artifact (skipped when empty)",
			},
			&cli.BoolFlag{
				Name:  "resources",
				Usage: "print resources keys per value file",
			},
			outputDirFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := analysis.Scan(cmd.String("root"))
			if err != nil {
				return err
			}
			fmt.Println(a.Summary())

			outputDir := cmd.String("output-dir")
			if err := a.SaveProperties(filepath.Join(outputDir, cmd.String("properties"))); err != nil {
				return err
			}
			if name := cmd.String("components"); name != "" {
				if err := a.SaveComponents(filepath.Join(outputDir, name)); err != nil {
					return err
				}
			}

			if cmd.Bool("resources") {
				return writeOutput(ctx, cmd, a.ResourceRows())
			}
			return nil
		},
	}
}
