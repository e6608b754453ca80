// Package analysis scans a chart tree for values files and reduces them
// to flat properties: which files carry values, which components size
// resources, and one unique key=value inventory over every document
// found.
package analysis

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/TomasBahnik/kube-helpers/pkg/defaults"
	"github.com/TomasBahnik/kube-helpers/pkg/document"
	"github.com/TomasBahnik/kube-helpers/pkg/errors"
)

const (
	// valuesNameMarker classifies a file as a values file by name.
	valuesNameMarker = "values"

	// resourcesMarker classifies a file as a values file by content.
	resourcesMarker = "resources:"

	// placeholderMarker tags template lines that read values at render
	// time.
	placeholderMarker = ".Values."

	// resourcesSegment is the path segment resource blocks live under.
	resourcesSegment = "resources"
)

// FileDoc is one flattened mapping document of a values file.
type FileDoc struct {
	// File is the path relative to the scanned root.
	File string

	// Props are the flattened key=value rows of the document.
	Props []document.Property
}

// Analysis is the result of one chart tree scan.
type Analysis struct {
	root string

	// ValueFiles are the relative paths classified as values files:
	// the name contains "values" or the content declares resources.
	ValueFiles []string

	// NonValueFiles are the remaining YAML files.
	NonValueFiles []string

	// Docs holds the flattened mapping documents of all value files,
	// in file order.
	Docs []FileDoc

	// Placeholders are template lines from non-value files that read
	// .Values. at render time.
	Placeholders []string
}

// Scan walks root for .yaml files, classifies them and flattens every
// mapping document of the values files. Files that fail to decode are
// skipped with a warning.
func Scan(root string) (*Analysis, error) {
	files, err := listYAMLFiles(root)
	if err != nil {
		return nil, err
	}

	a := &Analysis{root: root}
	for _, rel := range files {
		content, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInternal, err, "reading %s", rel)
		}

		if strings.Contains(filepath.Base(rel), valuesNameMarker) ||
			strings.Contains(string(content), resourcesMarker) {
			a.ValueFiles = append(a.ValueFiles, rel)
			a.loadValueFile(rel, content)
			continue
		}

		a.NonValueFiles = append(a.NonValueFiles, rel)
		a.collectPlaceholders(string(content))
	}

	slog.Info("values tree scanned",
		"root", root,
		"valueFiles", len(a.ValueFiles),
		"otherFiles", len(a.NonValueFiles),
		"docs", len(a.Docs),
	)
	return a, nil
}

// listYAMLFiles returns the .yaml files under root, relative and sorted.
func listYAMLFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeNotFound, err, "walking %s", root)
	}
	return files, nil
}

// loadValueFile flattens every mapping document of one values file.
// Non-mapping documents are skipped; a decode error abandons the rest
// of the file but not the scan.
func (a *Analysis) loadValueFile(rel string, content []byte) {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	for i := 0; ; i++ {
		var raw yaml.Node
		if err := decoder.Decode(&raw); err != nil {
			if err != io.EOF {
				slog.Warn("skipping rest of values file", "file", rel, "document", i, "error", err)
			}
			return
		}

		node, err := document.FromYAML(&raw)
		if err != nil {
			slog.Warn("skipping document", "file", rel, "document", i, "error", err)
			continue
		}
		if node.Kind() != document.KindMap {
			slog.Warn("skipping non mapping document", "file", rel, "document", i)
			continue
		}

		a.Docs = append(a.Docs, FileDoc{File: rel, Props: document.Wrap(node).Flatten()})
	}
}

// collectPlaceholders keeps the template lines that read values at
// render time.
func (a *Analysis) collectPlaceholders(content string) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		if line := scanner.Text(); strings.Contains(line, placeholderMarker) {
			a.Placeholders = append(a.Placeholders, strings.TrimSpace(line))
		}
	}
}

// Properties returns the unique key=value rows across all value
// documents, sorted. A key appearing with different values keeps every
// variant.
func (a *Analysis) Properties() []string {
	seen := make(map[string]struct{})
	var rows []string
	for _, doc := range a.Docs {
		for _, p := range doc.Props {
			row := p.String()
			if _, ok := seen[row]; ok {
				continue
			}
			seen[row] = struct{}{}
			rows = append(rows, row)
		}
	}
	sort.Strings(rows)
	return rows
}

// SaveProperties writes the unique key=value rows to path.
func (a *Analysis) SaveProperties(path string) error {
	rows := a.Properties()
	slog.Info("writing unique key/value pairs", "count", len(rows), "path", path)

	content := strings.Join(rows, "\n")
	if len(rows) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), defaults.FileMode); err != nil {
		return errors.Wrapf(errors.ErrCodeInternal, err, "writing %s", path)
	}
	return nil
}

// ResourceRows returns per file the flattened rows naming resources,
// taken from the file's last mapping document.
func (a *Analysis) ResourceRows() map[string][]document.Property {
	last := make(map[string][]document.Property)
	for _, doc := range a.Docs {
		last[doc.File] = doc.Props
	}

	rows := make(map[string][]document.Property)
	for file, props := range last {
		var res []document.Property
		for _, p := range props {
			if strings.Contains(p.Key, resourcesSegment) {
				res = append(res, p)
			}
		}
		if len(res) > 0 {
			rows[file] = res
		}
	}
	return rows
}

// Components returns the sorted unique component paths owning a
// resources block across all value files.
func (a *Analysis) Components() []string {
	seen := make(map[string]struct{})
	for _, props := range a.ResourceRows() {
		for _, p := range props {
			segments := strings.Split(p.Key, ".")
			for i, s := range segments {
				if s != resourcesSegment {
					continue
				}
				if i > 0 {
					seen[strings.Join(segments[:i], document.PathSeparator)] = struct{}{}
				}
				break
			}
		}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// SaveComponents writes the component paths as an empty-section INI
// skeleton, the seed of a sizing layer file.
func (a *Analysis) SaveComponents(path string) error {
	file := ini.Empty()
	for _, c := range a.Components() {
		if _, err := file.NewSection(c); err != nil {
			return errors.Wrapf(errors.ErrCodeInternal, err, "adding section %s", c)
		}
	}
	if err := file.SaveTo(path); err != nil {
		return errors.Wrapf(errors.ErrCodeInternal, err, "writing %s", path)
	}
	return nil
}

// Summary returns the per-tree counts line.
func (a *Analysis) Summary() string {
	return fmt.Sprintf("%d value files, %d other yaml files, %d documents, %d template placeholders",
		len(a.ValueFiles), len(a.NonValueFiles), len(a.Docs), len(a.Placeholders))
}
