// Package values assembles helm values documents from sizing profiles,
// module profiles and environment properties. The build is deterministic:
// identical inputs produce identical documents, and nothing is written
// here, documents are handed back for the caller to serialize.
package values

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/TomasBahnik/kube-helpers/pkg/document"
	"github.com/TomasBahnik/kube-helpers/pkg/modules"
	"github.com/TomasBahnik/kube-helpers/pkg/sizing"
)

// Default merge targets for the externals step.
const (
	DefaultAppComponent      = "mmmBe"
	DefaultExporterComponent = "postgresExporter"

	dataSourceURIFormat = "%s:5432/postgres?sslmode=disable"
)

// Builder merges one sizing profile and one module set into a values
// document.
type Builder struct {
	src               *sizing.Source
	enabled           []string
	appComponent      string
	exporterComponent string
}

// Option adjusts builder targets.
type Option func(*Builder)

// WithAppComponent overrides the component that receives db/dbName.
func WithAppComponent(name string) Option {
	return func(b *Builder) { b.appComponent = name }
}

// WithExporterComponent overrides the component that receives the database
// exporter environment.
func WithExporterComponent(name string) Option {
	return func(b *Builder) { b.exporterComponent = name }
}

// NewBuilder creates a builder over the sizing source and the enabled
// module paths of a module profile.
func NewBuilder(src *sizing.Source, enabled []string, opts ...Option) *Builder {
	b := &Builder{
		src:               src,
		enabled:           enabled,
		appComponent:      DefaultAppComponent,
		exporterComponent: DefaultExporterComponent,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces the values document: module enabled flags first, then the
// per-component sizing paths, then the caller-supplied externals. ext may
// be nil.
func (b *Builder) Build(ext *Externals) (*document.Document, error) {
	part, err := modules.Resolve(b.src.Sections(), modules.Normalize(b.enabled))
	if err != nil {
		return nil, err
	}
	slog.Info("building values document",
		"sizing", b.src.Profile(),
		"enabled", len(part.Enabled),
		"disabled", len(part.Disabled),
	)

	doc := document.New()
	b.applyModules(doc, part)
	b.applySizing(doc)
	b.applyExternals(doc, ext)
	return doc, nil
}

// applyModules sets enabled flags. Enabled paths switch on every ancestor
// so a nested chart key like termSuggestions/api enables termSuggestions
// too; disabled modules are flagged only at their own key.
func (b *Builder) applyModules(doc *document.Document, part modules.Partition) {
	for _, m := range part.Enabled {
		for _, path := range modules.Ancestors(m) {
			doc.Merge(path, document.MapOf("enabled", document.Bool(true)))
		}
	}
	for _, m := range part.Disabled {
		doc.Merge(m, document.MapOf("enabled", document.Bool(false)))
	}
}

func (b *Builder) applySizing(doc *document.Document) {
	for _, c := range b.src.Sections() {
		doc.Merge(c+"/resources", resourcesNode(b.src.ResourceSpec(c)))
	}
	for _, c := range b.src.Sections() {
		doc.Merge(c+"/extraProperties", propertiesNode(b.src.ExtraProperties(c)))
	}
	for _, c := range b.src.Sections() {
		doc.Merge(c+"/extraEnv", envNode(b.src.ExtraEnv(c)))
	}
	for _, c := range b.src.Sections() {
		if v, ok := b.src.JavaOpts(c); ok {
			doc.Merge(c+"/javaOpts", document.String(v))
		}
	}
	for _, c := range b.src.Sections() {
		if v, ok := b.src.Replicas(c); ok {
			doc.Merge(c+"/replicas", countNode(c, sizing.KeyReplicas, v))
		}
	}
	for _, c := range b.src.Sections() {
		if v, ok := b.src.StorageSizeLimit(c); ok {
			doc.Merge(c+"/storage/tmp/sizeLimit", document.String(v))
		}
	}
}

func (b *Builder) applyExternals(doc *document.Document, ext *Externals) {
	if ext == nil {
		return
	}
	if ext.Hostname != "" {
		doc.Merge("global/hostname", document.String(ext.Hostname))
	}
	if db := globalDBNode(ext); db != nil {
		doc.Merge("global/db", db)
	}
	if env := exporterEnvNode(ext); env != nil {
		doc.Merge(b.exporterComponent+"/extraEnv", env)
	}
	if ext.AppDBName != "" {
		doc.Merge(b.appComponent+"/db/dbName", document.String(ext.AppDBName))
	}
	for _, tag := range ext.ImageTags {
		slog.Info("setting image tag", "path", tag.Path, "tag", tag.Tag)
		doc.Merge(tag.Path, document.String(tag.Tag))
	}
}

// resourcesNode renders the resources block, requests before limits and
// cpu before memory. Keys without a configured value are left out; in
// particular a component without cpu.limits gets no cpu key under limits.
func resourcesNode(r sizing.ResourceSpec) *document.Node {
	if r.Empty() {
		return nil
	}
	requests := document.Map()
	if r.CPURequests != "" {
		requests.Set("cpu", document.String(r.CPURequests))
	}
	if r.MemoryRequests != "" {
		requests.Set("memory", document.String(r.MemoryRequests))
	}
	limits := document.Map()
	if r.CPULimits != "" {
		limits.Set("cpu", document.String(r.CPULimits))
	}
	if r.MemoryLimits != "" {
		limits.Set("memory", document.String(r.MemoryLimits))
	}
	res := document.Map()
	if requests.Len() > 0 {
		res.Set("requests", requests)
	}
	if limits.Len() > 0 {
		res.Set("limits", limits)
	}
	if res.Len() == 0 {
		return nil
	}
	return res
}

// propertiesNode renders extraProperties as a map with the original dotted
// keys kept literal. Values carry their parsed types so the encoder leaves
// numbers and booleans unquoted.
func propertiesNode(props []sizing.TypedProperty) *document.Node {
	if len(props) == 0 {
		return nil
	}
	m := document.Map()
	for _, p := range props {
		m.Set(p.Key, document.Scalar(p.Value))
	}
	return m
}

func envNode(env []sizing.EnvVar) *document.Node {
	if len(env) == 0 {
		return nil
	}
	items := make([]*document.Node, 0, len(env))
	for _, e := range env {
		items = append(items, document.MapOf(
			"name", document.String(e.Name),
			"value", document.String(e.Value),
		))
	}
	return document.List(items...)
}

// countNode renders an integer-valued key as an int when it parses,
// otherwise keeps the raw string and logs.
func countNode(component, key, raw string) *document.Node {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return document.Int(n)
	}
	slog.Warn("value is not an integer, keeping raw string", "component", component, "key", key, "value", raw)
	return document.String(raw)
}

func globalDBNode(ext *Externals) *document.Node {
	db := document.Map()
	if ext.DBHost != "" {
		db.Set("host", document.String(ext.DBHost))
	}
	if ext.DBPort != "" {
		db.Set("port", countNode("global", "db.port", ext.DBPort))
	}
	if ext.DBUser != "" {
		db.Set("userName", document.String(ext.DBUser))
	}
	if ext.DBPassword != "" {
		db.Set("password", document.String(ext.DBPassword))
	}
	if db.Len() == 0 {
		return nil
	}
	return db
}

// exporterEnvNode builds the postgres exporter environment from the
// database externals. The exporter connects to the postgres maintenance
// database on the fixed in-cluster port.
func exporterEnvNode(ext *Externals) *document.Node {
	var env []sizing.EnvVar
	if ext.DBHost != "" {
		env = append(env, sizing.EnvVar{
			Name:  "DATA_SOURCE_URI",
			Value: fmt.Sprintf(dataSourceURIFormat, ext.DBHost),
		})
	}
	if ext.DBUser != "" {
		env = append(env, sizing.EnvVar{Name: "DATA_SOURCE_USER", Value: ext.DBUser})
	}
	return envNode(env)
}
