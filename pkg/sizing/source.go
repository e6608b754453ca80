package sizing

import (
	"log/slog"

	"gopkg.in/ini.v1"

	"github.com/TomasBahnik/kube-helpers/pkg/errors"
)

// Fixed sizing keys looked up per component section.
const (
	KeyCPURequests    = "cpu.requests"
	KeyCPULimits      = "cpu.limits"
	KeyMemoryRequests = "memory.requests"
	KeyMemoryLimits   = "memory.limits"
	KeyJavaOpts       = "javaOpts"
	KeyReplicas       = "replicas"
	KeyStorageLimit   = "storage.tmp.sizeLimit"
	KeyExtraProps     = "extraProperties"
	KeyExtraEnv       = "extraEnv"

	// Common-environment control keys, usually set in the DEFAULT scope.
	KeyCommonExtraEnv        = "commonExtraEnv"
	KeyCommonExtraEnvEnabled = "commonExtraEnvEnabled"
	KeyExcludeCommonExtraEnv = "excludePodsCommonExtraEnv"
)

// KeyValue is one raw section entry in layer order.
type KeyValue struct {
	Key   string
	Value string
}

// Source is a sizing profile resolved to its merged layer values. Values
// are interpolated eagerly at load time; lookups never touch the files
// again.
type Source struct {
	profile  string
	layers   []string
	sections []string
	values   map[string]map[string]string
	keyOrder map[string][]string
	defaults map[string]string
}

// Load resolves profile through sizings.ini in dir and reads its layer
// files in order. Later layers override earlier ones for identical keys.
// Values may reference sibling or DEFAULT-scope keys as %(key)s; references
// are resolved here, once.
func Load(dir, profile string) (*Source, error) {
	layers, err := layerFiles(dir, profile)
	if err != nil {
		return nil, err
	}
	if len(layers) == 0 {
		return nil, errors.Newf(errors.ErrCodeNotFound, "profile %q lists no layer files", profile)
	}

	others := make([]any, len(layers)-1)
	for i, l := range layers[1:] {
		others[i] = l
	}
	f, err := ini.LoadSources(loadOptions, layers[0], others...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeNotFound, err, "reading layers of profile %q", profile)
	}

	src := &Source{
		profile:  profile,
		layers:   layers,
		values:   make(map[string]map[string]string),
		keyOrder: make(map[string][]string),
		defaults: make(map[string]string),
	}
	for _, section := range f.Sections() {
		if section.Name() == ini.DefaultSection {
			for _, key := range section.KeyStrings() {
				src.defaults[key] = section.Key(key).String()
			}
			continue
		}
		name := section.Name()
		src.sections = append(src.sections, name)
		src.keyOrder[name] = section.KeyStrings()
		vals := make(map[string]string, len(src.keyOrder[name]))
		for _, key := range src.keyOrder[name] {
			vals[key] = section.Key(key).String()
		}
		src.values[name] = vals
	}

	slog.Info("loaded sizing profile",
		"profile", profile,
		"layers", len(layers),
		"components", len(src.sections),
	)
	return src, nil
}

// Profile returns the loaded profile name.
func (s *Source) Profile() string {
	return s.profile
}

// Layers returns the resolved layer file paths in load order.
func (s *Source) Layers() []string {
	return s.layers
}

// Sections returns the component section names in load order. This is the
// module universe.
func (s *Source) Sections() []string {
	return s.sections
}

// Items returns the section's own entries in layer order, without
// DEFAULT-scope keys.
func (s *Source) Items(component string) []KeyValue {
	order := s.keyOrder[component]
	out := make([]KeyValue, 0, len(order))
	for _, key := range order {
		out = append(out, KeyValue{Key: key, Value: s.values[component][key]})
	}
	return out
}

// Value looks key up in the component section, falling back to the DEFAULT
// scope. A miss returns false and logs at warning level; missing values
// degrade, they do not fail the build.
func (s *Source) Value(component, key string) (string, bool) {
	v, ok := s.lookup(component, key)
	if !ok {
		slog.Warn("sizing value not set", "component", component, "key", key)
	}
	return v, ok
}

func (s *Source) lookup(component, key string) (string, bool) {
	if vals, ok := s.values[component]; ok {
		if v, ok := vals[key]; ok {
			return v, true
		}
	}
	v, ok := s.defaults[key]
	return v, ok
}

// JavaOpts returns the component's JVM options.
func (s *Source) JavaOpts(component string) (string, bool) {
	return s.Value(component, KeyJavaOpts)
}

// Replicas returns the component's replica count, unparsed.
func (s *Source) Replicas(component string) (string, bool) {
	return s.Value(component, KeyReplicas)
}

// StorageSizeLimit returns the component's scratch storage limit.
func (s *Source) StorageSizeLimit(component string) (string, bool) {
	return s.Value(component, KeyStorageLimit)
}

// ResourceSpec carries the four raw resource quantities of one component.
// Empty strings mean not configured.
type ResourceSpec struct {
	CPURequests    string
	MemoryRequests string
	CPULimits      string
	MemoryLimits   string
}

// Empty reports whether no resource key is configured at all.
func (r ResourceSpec) Empty() bool {
	return r == ResourceSpec{}
}

// ResourceSpec collects the component's resource keys. A missing CPU limit
// stays empty: "no explicit CPU limit" is a distinct state, not zero.
func (s *Source) ResourceSpec(component string) ResourceSpec {
	var r ResourceSpec
	r.CPURequests, _ = s.Value(component, KeyCPURequests)
	r.MemoryRequests, _ = s.Value(component, KeyMemoryRequests)
	r.CPULimits, _ = s.Value(component, KeyCPULimits)
	r.MemoryLimits, _ = s.Value(component, KeyMemoryLimits)
	return r
}
