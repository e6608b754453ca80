package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/TomasBahnik/kube-helpers/pkg/artifact"
	"github.com/TomasBahnik/kube-helpers/pkg/errors"
	"github.com/TomasBahnik/kube-helpers/pkg/manifest"
	"github.com/TomasBahnik/kube-helpers/pkg/props"
	"github.com/TomasBahnik/kube-helpers/pkg/report"
	"github.com/TomasBahnik/kube-helpers/pkg/sizing"
	"github.com/TomasBahnik/kube-helpers/pkg/values"
)

func sizingCmd() *cli.Command {
	return &cli.Command{
		Name:                  "sizing",
		EnableShellCompletion: true,
		Usage:                 "Analyze manifests and export sizing profiles",
		Commands: []*cli.Command{
			sizingReportCmd(),
			sizingExportCmd(),
			sizingScaleCmd(),
		},
	}
}

func sizingReportCmd() *cli.Command {
	return &cli.Command{
		Name:                  "report",
		EnableShellCompletion: true,
		Usage:                 "Extract container sizing from a rendered manifest",
		Description: `Walks a multi-document manifest stream and collects per-container
resources, replica counts, volume claims, application properties and the
image inventory. The report lands as four artifacts plus a checksum
manifest:
  - <stem>_sizing.json        raw rows, volumes and images
  - <stem>_sizing_props.json  ConfigMap application properties
  - <stem>_sizing.html        sortable table
  - <stem>_sizing.csv         normalized values (bytes, cores)

The input is either a helm template dump or a kubectl get -o yaml List
payload. Kind mode narrows the stream to one workload kind; manifest mode
takes every document.

# Examples

Report over a rendered chart:
  khctl sizing report -f rendered.yaml -O ./reports

Deployments only, sidecars excluded, reading from stdin:
  helm template release ./chart | khctl sizing report -f - -k deploy --exclude "*linkerd*"`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "manifest",
				Aliases:  []string{"f"},
				Required: true,
				Usage:    "manifest file to analyze, - for stdin",
			},
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Value:   string(manifest.KindManifest),
				Usage:   "document filter (pod, deploy, job, manifest)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "container name patterns dropped from the report (exact, prefix*, *suffix, *contains*)",
			},
			&cli.StringFlag{
				Name:  "stem",
				Value: "",
				Usage: "artifact family name (default: manifest base name)",
			},
			outputDirFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			start := time.Now()

			kind, err := manifest.ParseKind(cmd.String("kind"))
			if err != nil {
				return err
			}
			analyzer := manifest.New(kind, manifest.WithExclude(cmd.StringSlice("exclude")...))

			var a *manifest.Analysis
			if path := cmd.String("manifest"); path == "-" {
				a, err = analyzer.Analyze(os.Stdin)
			} else {
				a, err = analyzer.AnalyzeFile(path)
			}
			if err != nil {
				return err
			}

			rep := report.New(a, cmd.String("stem"))
			result, err := rep.Save(ctx, cmd.String("output-dir"))
			if err != nil {
				return err
			}

			out := artifact.Collect([]*artifact.Result{result}, time.Since(start))
			fmt.Printf("\nSizing report generated successfully!\n")
			fmt.Printf("Output directory: %s\n", cmd.String("output-dir"))
			fmt.Printf("Summary: %s\n", out.Summary())
			return nil
		},
	}
}

func sizingExportCmd() *cli.Command {
	return &cli.Command{
		Name:                  "export",
		EnableShellCompletion: true,
		Usage:                 "Export sizing profiles as YAML/JSON documents",
		Description: `Exports the layered INI sizing verbatim as a nested document, one node
per component with resources, replicas, javaOpts and storage size limit.
The artifact pair is named <profile>_ini_sizing.yaml/.json.

With --app-templates the export switches to per-component chart
templates: every component of every listed profile gets
templates/services/<component>/sizing/<name>.yaml/.json carrying the
chart root key and the profile sizing node.

# Examples

Export one profile:
  khctl sizing export -d ./sizing -s perf_standard -O ./export

Export app templates over the basic profile ladder:
  khctl sizing export -d ./sizing --app-templates \
    --sizings minimal --sizings small --sizings standard`,
		Flags: []cli.Flag{
			sizingDirFlag,
			&cli.StringFlag{
				Name:    "sizing",
				Aliases: []string{"s"},
				Value:   "perf_standard",
				Usage:   "sizing profile according to sizings.ini",
			},
			&cli.BoolFlag{
				Name:  "app-templates",
				Usage: "emit per-component chart templates instead of one document",
			},
			&cli.StringSliceFlag{
				Name:  "sizings",
				Usage: "sizing profiles for app template mode",
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
				Usage:   "property environment supplying the application database name",
			},
			outputDirFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("sizing-dir")
			outputDir := cmd.String("output-dir")

			if cmd.Bool("app-templates") {
				profiles := cmd.StringSlice("sizings")
				if len(profiles) == 0 {
					return errors.New(errors.ErrCodeInvalidRequest, "app template mode needs at least one --sizings profile")
				}
				sources := make([]*sizing.Source, 0, len(profiles))
				for _, profile := range profiles {
					src, err := sizing.Load(dir, profile)
					if err != nil {
						return err
					}
					sources = append(sources, src)
				}
				result, err := values.SaveAppTemplates(ctx, values.AppTemplates(sources), outputDir)
				if err != nil {
					return err
				}
				fmt.Printf("\nApp templates generated successfully!\n")
				fmt.Printf("Output directory: %s\n", outputDir)
				fmt.Printf("Files generated: %d\n", len(result.Files))
				return nil
			}

			src, err := sizing.Load(dir, cmd.String("sizing"))
			if err != nil {
				return err
			}

			var appDBName string
			if env := cmd.String("env"); env != "" {
				cfg, err := props.Load(cmd.String("props-dir"), env)
				if err != nil {
					return err
				}
				appDBName, _ = cfg.Value(props.KeyAppDBName)
			}

			result, err := values.SaveExport(ctx, values.Export(src, appDBName), outputDir, src.Profile())
			if err != nil {
				return err
			}
			fmt.Printf("\nSizing export generated successfully!\n")
			fmt.Printf("Output directory: %s\n", outputDir)
			fmt.Printf("Files generated: %d\n", len(result.Files))
			return nil
		},
	}
}

func sizingScaleCmd() *cli.Command {
	return &cli.Command{
		Name:                  "scale",
		EnableShellCompletion: true,
		Usage:                 "Scale component resources by cpu and memory factors",
		Description: `Multiplies the cpu and memory quantities of the selected components
and writes the scaled resources as one YAML document. Memory lands in
canonical bytes rounded to whole units, cpu in cores rounded to one
decimal. The artifact name records the factors:
<profile>_<cpu>x_cpu_<mem>x_mem.yaml.

# Examples

Triple cpu, double memory for the application backend:
  khctl sizing scale -d ./sizing -s perf_standard --cpu 3 --mem 2`,
		Flags: []cli.Flag{
			sizingDirFlag,
			&cli.StringFlag{
				Name:    "sizing",
				Aliases: []string{"s"},
				Value:   "perf_standard",
				Usage:   "sizing profile according to sizings.ini",
			},
			&cli.FloatFlag{
				Name:  "cpu",
				Value: 1,
				Usage: "cpu multiplication factor",
			},
			&cli.FloatFlag{
				Name:  "mem",
				Value: 1,
				Usage: "memory multiplication factor",
			},
			&cli.StringSliceFlag{
				Name:    "component",
				Aliases: []string{"c"},
				Value:   []string{values.DefaultAppComponent},
				Usage:   "components to scale",
			},
			outputDirFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			src, err := sizing.Load(cmd.String("sizing-dir"), cmd.String("sizing"))
			if err != nil {
				return err
			}

			cpu, mem := cmd.Float("cpu"), cmd.Float("mem")
			doc := values.ScaledResources(src, cmd.StringSlice("component"), cpu, mem)
			name := values.ScaleArtifactName(src.Profile(), cpu, mem)

			result, err := values.SaveScaled(ctx, doc, cmd.String("output-dir"), name)
			if err != nil {
				return err
			}
			fmt.Printf("\nScaled resources generated successfully!\n")
			fmt.Printf("Output file: %s\n", result.Files[0])
			return nil
		},
	}
}
