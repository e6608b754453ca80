package sizing

import (
	"log/slog"
	"strconv"
	"strings"
)

// EntrySeparator splits multi-entry sizing values (extraProperties,
// extraEnv and the pod exclusion list).
const EntrySeparator = ";"

// TypedProperty is one extraProperties entry with its value converted to
// the narrowest type it parses as: int, then float, then bool, then string.
type TypedProperty struct {
	Key   string
	Value any
}

// ExtraProperties parses the component's extraProperties entries. Entries
// without '=' are skipped with a warning.
func (s *Source) ExtraProperties(component string) []TypedProperty {
	raw, ok := s.lookup(component, KeyExtraProps)
	if !ok {
		return nil
	}
	return ParseProperties(component, raw)
}

// ParseProperties splits raw on ';' and converts each k=v entry to a typed
// property. The component name is only used for log context.
func ParseProperties(component, raw string) []TypedProperty {
	var props []TypedProperty
	for _, entry := range strings.Split(raw, EntrySeparator) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, value, found := strings.Cut(entry, "=")
		if !found {
			slog.Warn("skipping malformed property entry", "component", component, "entry", entry)
			continue
		}
		props = append(props, TypedProperty{
			Key:   strings.TrimSpace(key),
			Value: typedValue(strings.TrimSpace(value)),
		})
	}
	return props
}

func typedValue(v string) any {
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if b, ok := parseBool(v); ok {
		return b
	}
	return v
}

// EnvVar is one extraEnv entry.
type EnvVar struct {
	Name  string
	Value string
}

// ExtraEnv returns the component's environment entries, combining the
// DEFAULT-scope common list with the component's own. Common entries come
// first so the component's own can be read as overrides. Components named
// in excludePodsCommonExtraEnv, and all components when
// commonExtraEnvEnabled is false, get only their own entries. A nil result
// means the component has no environment at all.
func (s *Source) ExtraEnv(component string) []EnvVar {
	own, hasOwn := "", false
	if vals, ok := s.values[component]; ok {
		own, hasOwn = vals[KeyExtraEnv]
	}

	common, hasCommon := s.defaults[KeyCommonExtraEnv]
	if hasCommon && !s.commonEnvEnabled() {
		hasCommon = false
	}
	if hasCommon && s.commonEnvExcluded(component) {
		hasCommon = false
	}

	switch {
	case hasCommon && hasOwn:
		return ParseEnv(component, common+EntrySeparator+own)
	case hasCommon:
		return ParseEnv(component, common)
	case hasOwn:
		return ParseEnv(component, own)
	default:
		return nil
	}
}

func (s *Source) commonEnvEnabled() bool {
	raw, ok := s.defaults[KeyCommonExtraEnvEnabled]
	if !ok {
		return true
	}
	b, ok := parseBool(raw)
	if !ok {
		slog.Warn("unrecognized boolean, treating common environment as enabled", "key", KeyCommonExtraEnvEnabled, "value", raw)
		return true
	}
	return b
}

func (s *Source) commonEnvExcluded(component string) bool {
	raw, ok := s.defaults[KeyExcludeCommonExtraEnv]
	if !ok {
		return false
	}
	for _, name := range strings.Split(raw, EntrySeparator) {
		if strings.TrimSpace(name) == component {
			return true
		}
	}
	return false
}

// ParseEnv splits a raw extraEnv value into name/value entries. The
// component name is only used for log context.
func ParseEnv(component, raw string) []EnvVar {
	var env []EnvVar
	for _, entry := range strings.Split(raw, EntrySeparator) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		// Split on the first '=' only: JVM flags like -Xlog:gc=info keep
		// their own '=' inside the value.
		name, value, found := strings.Cut(entry, "=")
		if !found {
			slog.Warn("skipping malformed environment entry", "component", component, "entry", entry)
			continue
		}
		env = append(env, EnvVar{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}
	return env
}

// parseBool accepts the spellings INI files conventionally use.
func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
