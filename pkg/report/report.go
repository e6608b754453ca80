// Package report renders a manifest analysis into sizing artifacts: a
// JSON dump of the raw rows, an HTML table, a CSV with normalized
// values and the collected ConfigMap properties.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/TomasBahnik/kube-helpers/pkg/artifact"
	"github.com/TomasBahnik/kube-helpers/pkg/defaults"
	"github.com/TomasBahnik/kube-helpers/pkg/errors"
	"github.com/TomasBahnik/kube-helpers/pkg/manifest"
	"github.com/TomasBahnik/kube-helpers/pkg/quantity"
)

// csvHeader lists the normalized CSV columns.
var csvHeader = []string{"module", "memory_limits", "cpu_limits", "memory_requests", "cpu_requests", "replicas"}

// NamedRow is one report line: a container row with its name attached.
type NamedRow struct {
	Name string
	manifest.Row
}

// Report renders one manifest analysis into sizing artifacts.
type Report struct {
	analysis  *manifest.Analysis
	stem      string
	generated time.Time
}

// New creates a report over an analysis. stem names the artifact family
// (<stem>_sizing.json and friends); when empty it falls back to the base
// name of the analysis source without extension, or "manifest" for
// stream input.
func New(a *manifest.Analysis, stem string) *Report {
	if stem == "" {
		stem = "manifest"
		if a.Source != "" {
			base := filepath.Base(a.Source)
			stem = strings.TrimSuffix(base, filepath.Ext(base))
		}
	}
	return &Report{analysis: a, stem: stem, generated: time.Now().UTC()}
}

// Stem returns the artifact family name.
func (r *Report) Stem() string {
	return r.stem
}

// Rows returns the analysis rows sorted by container name.
func (r *Report) Rows() []NamedRow {
	names := make([]string, 0, len(r.analysis.Rows))
	for name := range r.analysis.Rows {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]NamedRow, 0, len(names))
	for _, name := range names {
		rows = append(rows, NamedRow{Name: name, Row: r.analysis.Rows[name]})
	}
	return rows
}

// Totals aggregates limits and requests over all rows.
func (r *Report) Totals() (limits, requests quantity.Totals) {
	items := make([]quantity.Resources, 0, len(r.analysis.Rows))
	for _, row := range r.analysis.Rows {
		items = append(items, quantity.Resources{Limits: row.Limits, Requests: row.Requests})
	}
	return quantity.Aggregate(items, quantity.CategoryLimits),
		quantity.Aggregate(items, quantity.CategoryRequests)
}

// JSON renders the raw rows plus the volumes and images inventories,
// 4-space indent, keys sorted.
func (r *Report) JSON() ([]byte, error) {
	doc := make(map[string]any, len(r.analysis.Rows)+2)
	for name, row := range r.analysis.Rows {
		doc[name] = row
	}
	doc["volumes"] = r.analysis.Volumes
	doc["images"] = r.analysis.Images

	out, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "encoding sizing json", err)
	}
	return append(out, '\n'), nil
}

// PropertiesJSON renders ConfigMap name to application.properties
// content, 4-space indent, keys sorted.
func (r *Report) PropertiesJSON() ([]byte, error) {
	out, err := json.MarshalIndent(r.analysis.Properties, "", "    ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "encoding properties json", err)
	}
	return append(out, '\n'), nil
}

// pageData feeds the embedded HTML template.
type pageData struct {
	Source    string
	Generated string
	Rows      []NamedRow
}

// HTML renders the raw rows into the embedded table template.
func (r *Report) HTML() ([]byte, error) {
	tmpl, err := htmlTemplate()
	if err != nil {
		return nil, err
	}

	data := pageData{
		Source:    r.analysis.Source,
		Generated: r.generated.Format(time.RFC3339),
		Rows:      r.Rows(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "rendering sizing page", err)
	}
	return buf.Bytes(), nil
}

// CSV renders the rows with normalized values: canonical bytes for
// memory, cores for cpu. Values the manifest does not configure stay
// empty cells.
func (r *Report) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "encoding sizing csv", err)
	}

	for _, row := range r.Rows() {
		norm := quantity.Normalize(quantity.Resources{Limits: row.Limits, Requests: row.Requests}, 1, 1)
		record := []string{
			row.Name,
			csvCell(norm, quantity.CategoryLimits, "memory"),
			csvCell(norm, quantity.CategoryLimits, "cpu"),
			csvCell(norm, quantity.CategoryRequests, "memory"),
			csvCell(norm, quantity.CategoryRequests, "cpu"),
			replicasCell(row.Replicas),
		}
		if err := w.Write(record); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "encoding sizing csv", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "encoding sizing csv", err)
	}
	return buf.Bytes(), nil
}

func csvCell(norm map[quantity.Category]map[string]float64, c quantity.Category, name string) string {
	v, ok := norm[c][name]
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func replicasCell(replicas *int64) string {
	if replicas == nil {
		return ""
	}
	return strconv.FormatInt(*replicas, 10)
}

// Save writes the four artifacts plus a checksum manifest into dir.
// Artifacts render and write concurrently; the first failure cancels
// the rest. The partially filled result is returned alongside the
// error so callers can report what was written.
func (r *Report) Save(ctx context.Context, dir string) (*artifact.Result, error) {
	start := time.Now()

	result := artifact.NewResult(artifact.TypeSizingReport)
	if err := artifact.EnsureDir(dir); err != nil {
		result.AddError(err)
		return result, err
	}

	limits, requests := r.Totals()
	slog.Info("sizing totals",
		"limits", limits.Keyed(quantity.CategoryLimits),
		"requests", requests.Keyed(quantity.CategoryRequests),
	)

	parts := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{r.stem + defaults.SizingSuffix + ".json", r.JSON},
		{r.stem + defaults.SizingSuffix + defaults.PropertiesSuffix + ".json", r.PropertiesJSON},
		{r.stem + defaults.SizingSuffix + ".html", r.HTML},
		{r.stem + defaults.SizingSuffix + ".csv", r.CSV},
	}

	writer := artifact.NewFileWriter(result)

	g, ctx := errgroup.WithContext(ctx)
	for _, p := range parts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := p.render()
			if err != nil {
				return err
			}
			return writer.WriteFile(filepath.Join(dir, p.name), content, defaults.FileMode)
		})
	}
	if err := g.Wait(); err != nil {
		result.AddError(err)
		return result, err
	}

	// Concurrent writers record files in completion order.
	sort.Strings(result.Files)

	checksums, err := artifact.NewChecksumGenerator(result).Generate(dir, "Sizing Report")
	if err != nil {
		result.AddError(err)
		return result, err
	}
	if err := writer.WriteFileString(filepath.Join(dir, defaults.ChecksumsFile), checksums, defaults.FileMode); err != nil {
		result.AddError(err)
		return result, err
	}

	result.MarkSuccess()
	slog.Info("sizing artifacts written",
		"dir", dir,
		"stem", r.stem,
		"files", len(result.Files),
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return result, nil
}
