// Package artifact tracks files produced by the sizing and values
// commands: which files were written, how large they are, and whether
// the producing step succeeded. A checksums file over the written set
// makes the artifacts verifiable after they leave the machine.
package artifact

import (
	"fmt"
	"sync"
	"time"
)

const (
	// TypeValues identifies a synthesized helm values document.
	TypeValues Type = "values"

	// TypeSizingReport identifies manifest analysis artifacts
	// (JSON, HTML, CSV, properties).
	TypeSizingReport Type = "sizing-report"

	// TypeSizingExport identifies a sizing profile exported verbatim
	// as YAML/JSON.
	TypeSizingExport Type = "sizing-export"

	// TypeAppTemplates identifies per-component app sizing templates.
	TypeAppTemplates Type = "app-templates"

	// TypeScaledResources identifies resource documents scaled by
	// cpu/memory factors.
	TypeScaledResources Type = "scaled-resources"

	// TypeValuesAnalysis identifies a values-tree properties artifact.
	TypeValuesAnalysis Type = "values-analysis"
)

// Type identifies different kinds of produced artifacts.
type Type string

// Result tracks the files written while producing one artifact type.
// AddFile and AddError are safe for concurrent use, so one result can
// collect files from parallel writers.
type Result struct {
	Type    Type
	Files   []string
	Errors  []string
	Size    int64
	Success bool

	mu          sync.Mutex
	generatedAt time.Time
}

// NewResult creates an empty result for the given artifact type.
func NewResult(t Type) *Result {
	return &Result{
		Type:        t,
		Files:       []string{},
		Errors:      []string{},
		generatedAt: time.Now().UTC(),
	}
}

// AddFile records a written file and its size.
func (r *Result) AddFile(path string, size int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Files = append(r.Files, path)
	r.Size += size
}

// AddError records a non-nil error. Nil errors are ignored so callers
// can pass through optional-step results unconditionally.
func (r *Result) AddError(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, err.Error())
}

// MarkSuccess marks the result as successful.
func (r *Result) MarkSuccess() {
	r.Success = true
}

// GeneratedAt returns the creation timestamp in RFC 3339 form.
func (r *Result) GeneratedAt() string {
	return r.generatedAt.Format(time.RFC3339)
}

// ProduceError pairs a failed artifact type with its error message.
type ProduceError struct {
	Type  Type
	Error string
}

// Output aggregates the results of all artifact producers of one run.
type Output struct {
	Results       []*Result
	Errors        []ProduceError
	TotalFiles    int
	TotalSize     int64
	TotalDuration time.Duration
}

// Collect builds an Output from per-producer results and the run duration.
func Collect(results []*Result, duration time.Duration) *Output {
	out := &Output{
		Results:       results,
		Errors:        []ProduceError{},
		TotalDuration: duration,
	}
	for _, r := range results {
		out.TotalFiles += len(r.Files)
		out.TotalSize += r.Size
		for _, msg := range r.Errors {
			out.Errors = append(out.Errors, ProduceError{Type: r.Type, Error: msg})
		}
	}
	return out
}

// HasErrors reports whether any producer recorded an error.
func (o *Output) HasErrors() bool {
	return len(o.Errors) > 0
}

// SuccessCount returns the number of successful producers.
func (o *Output) SuccessCount() int {
	count := 0
	for _, r := range o.Results {
		if r.Success {
			count++
		}
	}
	return count
}

// FailureCount returns the number of failed producers.
func (o *Output) FailureCount() int {
	return len(o.Results) - o.SuccessCount()
}

// ByType returns the last result recorded for each artifact type.
func (o *Output) ByType() map[Type]*Result {
	byType := make(map[Type]*Result, len(o.Results))
	for _, r := range o.Results {
		byType[r.Type] = r
	}
	return byType
}

// FailedProducers returns the types of all failed producers.
func (o *Output) FailedProducers() []Type {
	var failed []Type
	for _, r := range o.Results {
		if !r.Success {
			failed = append(failed, r.Type)
		}
	}
	return failed
}

// SuccessfulProducers returns the types of all successful producers.
func (o *Output) SuccessfulProducers() []Type {
	var successful []Type
	for _, r := range o.Results {
		if r.Success {
			successful = append(successful, r.Type)
		}
	}
	return successful
}

// Summary returns a one-line human summary of the run.
func (o *Output) Summary() string {
	return fmt.Sprintf("%d/%d producers succeeded, %d files, %s, %s",
		o.SuccessCount(), len(o.Results), o.TotalFiles,
		formatBytes(o.TotalSize), o.TotalDuration)
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
