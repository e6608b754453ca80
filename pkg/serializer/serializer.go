// Package serializer renders command output as JSON, YAML or a flat
// field table, routed to stdout or a file. "-" and an empty path both
// mean stdout.
package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/TomasBahnik/kube-helpers/pkg/errors"
)

// StdoutURI is the output path meaning stdout.
const StdoutURI = "-"

const (
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"

	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"

	// FormatTable renders a flattened FIELD/VALUE table.
	FormatTable Format = "table"
)

// Format selects the output encoding.
type Format string

// IsUnknown reports whether the format is not one of the supported ones.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// SupportedFormats returns the supported format names.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// Serializer renders values to an output destination.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is implemented by serializers holding a file handle.
type Closer interface {
	Close() error
}

// Writer serializes values in one format to one destination.
type Writer struct {
	format Format
	out    io.Writer

	// closer is non-nil when the writer owns the destination.
	closer io.Closer
	closed bool
}

// NewWriter creates a writer for the given format and destination.
// Unknown formats fall back to JSON; a nil destination means stdout.
func NewWriter(format Format, out io.Writer) *Writer {
	if format.IsUnknown() {
		format = FormatJSON
	}
	if out == nil {
		out = os.Stdout
	}
	return &Writer{format: format, out: out}
}

// NewStdoutWriter creates a writer to stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, nil)
}

// NewFileWriterOrStdout creates a writer to the given path. An empty,
// whitespace-only or "-" path routes to stdout.
func NewFileWriterOrStdout(format Format, path string) (*Writer, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == StdoutURI {
		return NewStdoutWriter(format), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidRequest, err, "failed to create output file %s", path)
	}

	w := NewWriter(format, f)
	w.closer = f
	return w, nil
}

// Serialize renders v to the destination in the writer's format.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch w.format {
	case FormatYAML:
		return w.writeYAML(v)
	case FormatTable:
		return w.writeTable(v)
	default:
		return w.writeJSON(v)
	}
}

// Close releases the destination when the writer owns it. Closing a
// stdout writer, or closing twice, is a no-op.
func (w *Writer) Close() error {
	if w.closer == nil || w.closed {
		return nil
	}
	w.closed = true
	if err := w.closer.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "closing output", err)
	}
	return nil
}

func (w *Writer) writeJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "encoding json output", err)
	}
	_, err = fmt.Fprintln(w.out, string(out))
	return err
}

func (w *Writer) writeYAML(v any) error {
	enc := yaml.NewEncoder(w.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "encoding yaml output", err)
	}
	return enc.Close()
}

// writeTable flattens v into dotted field paths and renders an aligned
// FIELD/VALUE table.
func (w *Writer) writeTable(v any) error {
	rows, err := flattenValue(v)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w.out, "<empty>")
		return err
	}

	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

// flattenValue reduces v to [field, value] pairs through its JSON form,
// so only marshalable fields appear. Slice elements index as [i], maps
// render keys sorted.
func flattenValue(v any) ([][2]string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "flattening output", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "flattening output", err)
	}

	var rows [][2]string
	flattenInto("", generic, &rows)
	return rows, nil
}

func flattenInto(path string, v any, rows *[][2]string) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenInto(joinPath(path, k), val[k], rows)
		}
	case []any:
		for i, item := range val {
			flattenInto(fmt.Sprintf("%s[%d]", path, i), item, rows)
		}
	case nil:
		*rows = append(*rows, [2]string{path, ""})
	default:
		*rows = append(*rows, [2]string{path, fmt.Sprint(val)})
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
