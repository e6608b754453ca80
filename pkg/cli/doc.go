// Package cli implements the command-line interface for the khctl tool.
//
// # Overview
//
// The khctl CLI turns layered INI sizing definitions into helm values
// documents and extracts sizing data back out of rendered kubernetes
// manifests. It is designed for performance engineers managing the
// resource envelopes of chart-deployed environments.
//
// # Commands
//
// values build - Synthesize a values document:
//
//	khctl values build --sizing-dir ./sizing --sizing perf_standard --modules basic
//	khctl values build -d ./sizing -s perf_standard -m basic --props-dir ./env --env perf01
//
// Builds values.yaml/values.json from a sizing profile and a module
// profile. Enabled flags, resources, replicas, javaOpts, extra
// properties and extra env come from the INI layers; hostname, database
// coordinates and image tags come from an optional property environment.
//
// values analyze - Collect keys and resources from a chart tree:
//
//	khctl values analyze --root ./helm-charts --output-dir ./reports
//	khctl values analyze -r ./helm-charts --resources --format table
//
// Scans a chart tree for values files, flattens every document into
// key=value properties and reports the resources keys per file.
//
// sizing report - Extract container sizing from a manifest:
//
//	khctl sizing report --manifest rendered.yaml --output-dir ./reports
//	helm template release ./chart | khctl sizing report -f - -k deploy
//
// Produces JSON, HTML, CSV and properties artifacts plus a checksum
// manifest from a multi-document manifest stream or a kubectl List
// payload.
//
// sizing export - Export sizing profiles:
//
//	khctl sizing export -d ./sizing -s perf_standard
//	khctl sizing export -d ./sizing --app-templates --sizings minimal --sizings standard
//
// Exports one profile verbatim as <profile>_ini_sizing.yaml/.json, or
// per-component chart templates for a list of profiles.
//
// sizing scale - Scale component resources:
//
//	khctl sizing scale -d ./sizing -s perf_standard --cpu 3 --mem 2
//
// Multiplies cpu and memory of selected components and writes the
// scaled document under a factor-stamped name.
//
// modules list - Inspect module profiles:
//
//	khctl modules list -d ./sizing -m basic
//	khctl modules list -d ./sizing -m basic -s perf_standard
//
// Lists the enabled module paths, optionally partitioned against the
// component sections of a sizing profile.
//
// profiles - List profile names:
//
//	khctl profiles -d ./sizing
//
// # Global Flags
//
//	--log-level    Logging verbosity: debug, info, warn, error (default: info)
//	--log-format   Log output format: text, json (default: text)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Output Formats
//
// Commands that serialize their result (values analyze --resources,
// modules list, profiles, version) accept --format:
//
// YAML (default):
//   - Human-readable, preserves structure
//   - Suitable for version control
//
// JSON:
//   - Machine-parseable, compact
//   - Suitable for programmatic consumption
//
// Table:
//   - Flattened key/value representation
//   - Suitable for terminal viewing
//
// # Usage Examples
//
// Complete workflow:
//
//	khctl profiles -d ./sizing
//	khctl values build -d ./sizing -s perf_standard -m basic -O ./generated
//	helm template release ./chart -f ./generated/values.yaml | khctl sizing report -f - -O ./reports
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized
// packages:
//   - pkg/sizing - Layered INI sizing sources
//   - pkg/modules - Module universe partitioning
//   - pkg/values - Values synthesis, export and scaling
//   - pkg/manifest - Manifest stream analysis
//   - pkg/report - Sizing report rendering
//   - pkg/analysis - Chart tree scanning
//   - pkg/props - Environment property files
//   - pkg/serializer - Output formatting
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/TomasBahnik/kube-helpers/pkg/cli.version=1.0.0'"
package cli
