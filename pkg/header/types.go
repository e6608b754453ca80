// Package header stamps generated artifacts with provenance: what kind of
// artifact it is, which schema version it follows, and when, by which tool
// run, it was produced. Values documents carry the header as a YAML comment
// block so helm still reads them unchanged.
package header

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ApiVersionDomain = "kube-helpers.io"
	ApiVersionV1     = "v1"
)

// Kind identifies the artifact type carried in a header.
type Kind string

const (
	KindValues          Kind = "Values"
	KindSizingReport    Kind = "SizingReport"
	KindSizingExport    Kind = "SizingExport"
	KindAppTemplate     Kind = "AppTemplate"
	KindScaledResources Kind = "ScaledResources"
	KindValuesAnalysis  Kind = "ValuesAnalysis"
)

// Well-known metadata keys set by Init. Callers add their own keys through
// WithMetadata or SetMeta.
const (
	MetaGeneratedAt = "generated-at"
	MetaGeneratedID = "generated-id"
	MetaToolVersion = "tool-version"
)

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
// If the Metadata map is nil, it will be initialized.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind returns an Option that sets the Kind field of the Header.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = string(kind)
	}
}

// WithAPIVersion returns an Option that sets the APIVersion field of the Header.
// The APIVersion identifies the schema version for the artifact.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// New creates a new Header instance with the provided functional options.
// The Metadata map is initialized automatically.
func New(opts ...Option) *Header {
	h := &Header{
		Metadata: make(map[string]string),
	}

	// Apply options
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Header contains kind and versioning information for generated artifacts.
// It follows Kubernetes-style resource conventions with Kind, APIVersion,
// and Metadata fields.
type Header struct {
	// Kind is the type of the generated artifact.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the API version of the generated artifact.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs with provenance of the artifact.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init fills the header for the given artifact kind. The APIVersion is
// constructed as "<kind>.kube-helpers.io/v1" and the metadata receives a
// generation timestamp, a fresh id and, when non-empty, the tool version.
func (h *Header) Init(kind Kind, toolVersion string) {
	h.Kind = string(kind)
	h.APIVersion = fmt.Sprintf("%s.%s/%s", strings.ToLower(string(kind)), ApiVersionDomain, ApiVersionV1)
	if h.Metadata == nil {
		h.Metadata = make(map[string]string)
	}
	h.Metadata[MetaGeneratedAt] = time.Now().UTC().Format(time.RFC3339)
	h.Metadata[MetaGeneratedID] = uuid.New().String()
	if toolVersion != "" {
		h.Metadata[MetaToolVersion] = toolVersion
	}
}

// SetMeta adds one metadata key-value pair, initializing the map if needed.
func (h *Header) SetMeta(key, value string) {
	if h.Metadata == nil {
		h.Metadata = make(map[string]string)
	}
	h.Metadata[key] = value
}

// CommentBlock renders the header as YAML comment lines, kind and apiVersion
// first, metadata sorted by key. The block ends with a newline so it can be
// prepended to a serialized document directly.
func (h *Header) CommentBlock() string {
	var b strings.Builder
	if h.Kind != "" {
		fmt.Fprintf(&b, "# kind: %s\n", h.Kind)
	}
	if h.APIVersion != "" {
		fmt.Fprintf(&b, "# apiVersion: %s\n", h.APIVersion)
	}
	keys := make([]string, 0, len(h.Metadata))
	for k := range h.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "# %s: %s\n", k, h.Metadata[k])
	}
	return b.String()
}
