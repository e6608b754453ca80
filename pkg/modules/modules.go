// Package modules partitions the universe of hierarchical module paths into
// enabled and disabled sets.
//
// The rule is strictly prefix-based: a universe member stays enabled when any
// entry of the enabled list starts with it. Enabling "termSuggestions/api"
// therefore keeps "termSuggestions" enabled even when sizing defines only a
// [termSuggestions] section, while "termSuggestions/db" ends up disabled.
// Downstream charts depend on this precedence, so no deeper hierarchy logic
// is applied.
package modules

import (
	"sort"
	"strings"

	"github.com/TomasBahnik/kube-helpers/pkg/errors"
)

// Partition is the result of resolving a module universe against an enabled
// list. Both slices are sorted; together they cover the universe exactly.
type Partition struct {
	// Enabled are the universe members covered by an enabled entry.
	Enabled []string

	// Disabled is the complement, sorted for deterministic output.
	Disabled []string
}

// Resolve partitions universe using the prefix rule
// disabled = universe \ {u : exists e in enabled with strings.HasPrefix(e, u)}.
// The enabled list may contain paths outside the universe; they influence
// the partition but do not appear in it.
func Resolve(universe, enabled []string) (Partition, error) {
	var p Partition
	for _, u := range dedupe(universe) {
		if coveredBy(u, enabled) {
			p.Enabled = append(p.Enabled, u)
		} else {
			p.Disabled = append(p.Disabled, u)
		}
	}
	sort.Strings(p.Enabled)
	sort.Strings(p.Disabled)

	if err := p.verify(universe); err != nil {
		return Partition{}, err
	}
	return p, nil
}

func coveredBy(u string, enabled []string) bool {
	for _, e := range enabled {
		if strings.HasPrefix(e, u) {
			return true
		}
	}
	return false
}

// verify asserts the partition invariant: union equals the universe and the
// sets are disjoint. A violation is a programmer error.
func (p Partition) verify(universe []string) error {
	seen := make(map[string]int, len(p.Enabled)+len(p.Disabled))
	for _, m := range p.Enabled {
		seen[m]++
	}
	for _, m := range p.Disabled {
		seen[m]++
	}
	for m, n := range seen {
		if n > 1 {
			return errors.Newf(errors.ErrCodeInvariant, "module %q both enabled and disabled", m)
		}
	}
	for _, u := range dedupe(universe) {
		if seen[u] != 1 {
			return errors.Newf(errors.ErrCodeInvariant, "module %q lost by partition", u)
		}
	}
	return nil
}

// Ancestors returns every prefix path of module, shortest first, the module
// itself included ("a/b/c" -> ["a", "a/b", "a/b/c"]).
func Ancestors(module string) []string {
	segs := strings.Split(module, "/")
	out := make([]string, 0, len(segs))
	for i := range segs {
		out = append(out, strings.Join(segs[:i+1], "/"))
	}
	return out
}

// Normalize trims whitespace, drops empties and sorts, matching how enabled
// lists are read from module profiles.
func Normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, m := range list {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, m := range list {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
