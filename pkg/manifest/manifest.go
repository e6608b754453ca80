// Package manifest extracts sizing-relevant data from rendered kubernetes
// manifests: per-container resources, replica counts, persistent volume
// claims, application properties and the container image inventory. Input
// is a multi-document YAML stream, either a full rendered chart or a
// kubectl get -o yaml List payload.
package manifest

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	corev1 "k8s.io/api/core/v1"

	"github.com/TomasBahnik/kube-helpers/pkg/errors"
)

// Kind selects which documents of the stream contribute container rows.
type Kind string

const (
	// KindPod analyzes Pod documents, containers at spec/containers.
	KindPod Kind = "pod"

	// KindDeploy analyzes Deployment documents.
	KindDeploy Kind = "deploy"

	// KindJob analyzes Job documents.
	KindJob Kind = "job"

	// KindManifest analyzes every document in the stream.
	KindManifest Kind = "manifest"
)

// ParseKind validates a kind mode given on the command line.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPod, KindDeploy, KindJob, KindManifest:
		return Kind(s), nil
	}
	return "", errors.Newf(errors.ErrCodeInvalidRequest, "unknown manifest kind %q (pod, deploy, job, manifest)", s)
}

// objectKind returns the k8s kind the mode filters on, empty for manifest
// mode.
func (k Kind) objectKind() string {
	switch k {
	case KindPod:
		return "Pod"
	case KindDeploy:
		return "Deployment"
	case KindJob:
		return "Job"
	}
	return ""
}

// Row is the sizing record of one container. Limits and requests hold the
// raw quantity strings from the manifest; a container without a resources
// block gets empty maps, not a missing row.
type Row struct {
	Env      []corev1.EnvVar   `json:"env,omitempty"`
	Image    string            `json:"image,omitempty"`
	Limits   map[string]string `json:"limits"`
	Replicas *int64            `json:"replicas"`
	Requests map[string]string `json:"requests"`
}

// Analysis is the result of one manifest pass.
type Analysis struct {
	// Source is the input path, empty when read from a stream.
	Source string

	// Rows maps container name to its sizing record. A name appearing in
	// several documents keeps the last occurrence.
	Rows map[string]Row

	// Volumes maps service name to the storage request of its single
	// volume claim template.
	Volumes map[string]string

	// Properties maps ConfigMap name to its application.properties payload.
	Properties map[string]string

	// Images is the unique container image inventory, sorted.
	Images []Image
}

// Analyzer walks manifest streams in one kind mode.
type Analyzer struct {
	kind    Kind
	exclude []string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithExclude drops containers whose name matches any of the patterns from
// rows and totals. Patterns follow the usual wildcard forms: "exact",
// "prefix*", "*suffix" and "*contains*".
func WithExclude(patterns ...string) Option {
	return func(a *Analyzer) { a.exclude = append(a.exclude, patterns...) }
}

// New creates an analyzer for the given kind mode.
func New(kind Kind, opts ...Option) *Analyzer {
	a := &Analyzer{kind: kind}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFile analyzes the manifest stored at path.
func (a *Analyzer) AnalyzeFile(path string) (*Analysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeNotFound, err, "opening manifest %s", path)
	}
	defer f.Close()

	analysis, err := a.Analyze(f)
	if err != nil {
		return nil, err
	}
	analysis.Source = path
	return analysis, nil
}

// Analyze reads the YAML stream and extracts rows, volumes, properties and
// the image inventory. Documents that are not mappings are skipped with a
// warning; a stream that cannot be parsed at all is an error.
func (a *Analyzer) Analyze(r io.Reader) (*Analysis, error) {
	docs, err := loadDocs(r)
	if err != nil {
		return nil, err
	}
	docs = unwrapLists(docs)
	if want := a.kind.objectKind(); want != "" {
		docs = filterKind(docs, want)
	}

	acc := &Analysis{
		Rows:       make(map[string]Row),
		Volumes:    make(map[string]string),
		Properties: make(map[string]string),
	}
	inv := newInventory()
	for _, doc := range docs {
		a.processDoc(doc, acc, inv)
	}
	acc.Rows = FilterOut(acc.Rows, a.exclude)
	acc.Images = inv.sorted()

	slog.Info("manifest analyzed",
		"kind", string(a.kind),
		"documents", len(docs),
		"containers", len(acc.Rows),
		"volumes", len(acc.Volumes),
		"images", len(acc.Images),
	)
	return acc, nil
}

func (a *Analysis) String() string {
	return fmt.Sprintf("%d containers, %d volumes, %d images", len(a.Rows), len(a.Volumes), len(a.Images))
}
