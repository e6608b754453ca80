// Package quantity parses Kubernetes-style resource quantity strings and
// aggregates per-category totals. CPU canonicalizes to cores, memory to
// bytes, so limits and requests sum on one scale.
package quantity

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"

	"github.com/TomasBahnik/kube-helpers/pkg/errors"
)

// Gi is the canonical bytes-per-gibibyte factor used in totals.
const Gi = 1024 * 1024 * 1024

// quantityRE matches an optional-suffix quantity: a non-negative numeric
// literal followed by an optional unit.
var quantityRE = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)([A-Za-z]+)?$`)

// factors maps recognized unit suffixes to canonical multipliers.
// Binary suffixes scale by 1024, decimal by 1000, milli-CPU by 1e-3.
var factors = map[string]float64{
	"m":  0.001,
	"Ki": 1 << 10,
	"Mi": 1 << 20,
	"Gi": 1 << 30,
	"Ti": 1 << 40,
	"K":  1e3,
	"M":  1e6,
	"G":  1e9,
	"T":  1e12,
}

// Quantity is a parsed resource quantity.
type Quantity struct {
	// Value is the numeric part, unscaled.
	Value float64

	// Unit is the suffix, empty for bare numbers.
	Unit string
}

// Canonical returns the value scaled by the unit factor. Bare numbers scale
// by 1.
func (q Quantity) Canonical() float64 {
	if q.Unit == "" {
		return q.Value
	}
	return q.Value * factors[q.Unit]
}

// Parse parses a quantity string. Unrecognized unit suffixes are parse
// errors, never a silent factor of 1.
func Parse(s string) (Quantity, error) {
	m := quantityRE.FindStringSubmatch(s)
	if m == nil {
		return Quantity{}, errors.Newf(errors.ErrCodeParse, "invalid quantity %q", s)
	}
	value, unit := m[1], m[2]
	if unit != "" {
		if _, ok := factors[unit]; !ok {
			return Quantity{}, errors.Newf(errors.ErrCodeParse, "unknown unit %q in quantity %q", unit, s)
		}
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Quantity{}, errors.Wrapf(errors.ErrCodeParse, err, "invalid quantity %q", s)
	}
	return Quantity{Value: v, Unit: unit}, nil
}

// Canonical parses s and returns the scaled value in one step.
func Canonical(s string) (float64, error) {
	q, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return q.Canonical(), nil
}

// Round0 rounds to whole units, half away from zero. Used for canonical
// memory values.
func Round0(v float64) float64 {
	return math.Round(v)
}

// Round1 rounds to one decimal place. Used for CPU cores.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Category selects the resource block totals aggregate over.
type Category string

const (
	// CategoryLimits aggregates resource limits.
	CategoryLimits Category = "limits"

	// CategoryRequests aggregates resource requests.
	CategoryRequests Category = "requests"
)

// Resources holds raw quantity strings per category, keyed by resource name
// (cpu, memory). Nil maps mean the category is not configured.
type Resources struct {
	Limits   map[string]string `json:"limits,omitempty"`
	Requests map[string]string `json:"requests,omitempty"`
}

// Category returns the raw map for the given category.
func (r Resources) Category(c Category) map[string]string {
	switch c {
	case CategoryLimits:
		return r.Limits
	case CategoryRequests:
		return r.Requests
	default:
		return nil
	}
}

// Totals is one aggregated category over a set of resource records.
type Totals struct {
	// Items is the number of records aggregated, including skipped ones.
	Items int `json:"items"`

	// CPU is the summed cores, rounded to one decimal.
	CPU float64 `json:"cpu"`

	// MemoryGi is the summed memory in Gi, rounded to one decimal.
	MemoryGi float64 `json:"memoryGi"`
}

// Aggregate sums the canonical cpu and memory of one category across
// records. Records missing the category are skipped with a warning, not
// treated as zero. Unparseable values are skipped the same way.
func Aggregate(items []Resources, category Category) Totals {
	var cpu, mem float64
	for _, r := range items {
		block := r.Category(category)
		if len(block) == 0 {
			slog.Warn("totals: category missing", "category", category)
			continue
		}
		cpu += canonicalOrZero(block["cpu"], "cpu")
		mem += canonicalOrZero(block["memory"], "memory")
	}
	return Totals{
		Items:    len(items),
		CPU:      Round1(cpu),
		MemoryGi: Round1(mem / Gi),
	}
}

// Keyed renders the totals under category-qualified keys, the form the
// sizing report prints: items, total_<category>_cpu and
// "total_<category>_mem [Gi]".
func (t Totals) Keyed(c Category) map[string]any {
	keyed := map[string]any{"items": t.Items}
	keyed[fmt.Sprintf("total_%s_cpu", c)] = t.CPU
	keyed[fmt.Sprintf("total_%s_mem [Gi]", c)] = t.MemoryGi
	return keyed
}

func canonicalOrZero(raw, name string) float64 {
	if raw == "" {
		return 0
	}
	v, err := Canonical(raw)
	if err != nil {
		slog.Warn("totals: skipping value", "resource", name, "value", raw, "error", err)
		return 0
	}
	return v
}

// Normalize converts one raw record into canonical numbers, memory rounded
// to whole units and cpu to one decimal, with optional multipliers applied.
// Categories absent from the input stay absent in the output.
func Normalize(r Resources, multiplyCPU, multiplyMem float64) map[Category]map[string]float64 {
	out := make(map[Category]map[string]float64, 2)
	for _, c := range []Category{CategoryRequests, CategoryLimits} {
		block := r.Category(c)
		if block == nil {
			continue
		}
		norm := make(map[string]float64, 2)
		if raw, ok := block["memory"]; ok {
			if v, err := Canonical(raw); err == nil {
				norm["memory"] = Round0(v * multiplyMem)
			} else {
				slog.Warn("normalize: skipping memory", "value", raw, "error", err)
			}
		}
		if raw, ok := block["cpu"]; ok {
			if v, err := Canonical(raw); err == nil {
				norm["cpu"] = Round1(v * multiplyCPU)
			} else {
				slog.Warn("normalize: skipping cpu", "value", raw, "error", err)
			}
		}
		out[c] = norm
	}
	return out
}
