package modules

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolve_PrefixRule(t *testing.T) {
	universe := []string{"termSuggestions", "termSuggestions/api", "termSuggestions/db"}
	enabled := []string{"termSuggestions/api"}

	p, err := Resolve(universe, enabled)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	wantEnabled := []string{"termSuggestions", "termSuggestions/api"}
	wantDisabled := []string{"termSuggestions/db"}

	if diff := cmp.Diff(wantEnabled, p.Enabled); diff != "" {
		t.Errorf("Enabled (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantDisabled, p.Disabled); diff != "" {
		t.Errorf("Disabled (-want +got):\n%s", diff)
	}
}

func TestResolve_EntryOutsideUniverse(t *testing.T) {
	// postgresExporter/serviceMonitor is enabled without a matching sizing
	// section; the bare postgresExporter section must stay enabled.
	universe := []string{"postgresExporter", "mmmBe"}
	enabled := []string{"postgresExporter/serviceMonitor", "mmmBe"}

	p, err := Resolve(universe, enabled)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"mmmBe", "postgresExporter"}, p.Enabled); diff != "" {
		t.Errorf("Enabled (-want +got):\n%s", diff)
	}
	if len(p.Disabled) != 0 {
		t.Errorf("Disabled = %v, want empty", p.Disabled)
	}
}

func TestResolve_PartitionProperty(t *testing.T) {
	universe := []string{"a", "a/b", "b", "c", "c/d/e", "z"}
	enabledLists := [][]string{
		nil,
		{"a"},
		{"a/b", "c/d/e"},
		{"q/r"},
		{"a", "b", "c", "z"},
	}

	for _, enabled := range enabledLists {
		p, err := Resolve(universe, enabled)
		if err != nil {
			t.Fatalf("Resolve(%v) error: %v", enabled, err)
		}

		if got, want := len(p.Enabled)+len(p.Disabled), len(universe); got != want {
			t.Errorf("enabled %v: |E|+|D| = %d, want %d", enabled, got, want)
		}
		seen := map[string]bool{}
		for _, m := range p.Enabled {
			seen[m] = true
		}
		for _, m := range p.Disabled {
			if seen[m] {
				t.Errorf("enabled %v: %q in both sets", enabled, m)
			}
		}
	}
}

func TestResolve_DisabledSorted(t *testing.T) {
	universe := []string{"zeta", "alpha", "midway"}

	p, err := Resolve(universe, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"alpha", "midway", "zeta"}
	if diff := cmp.Diff(want, p.Disabled); diff != "" {
		t.Errorf("Disabled (-want +got):\n%s", diff)
	}
}

func TestAncestors(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a", []string{"a"}},
		{"a/b/c", []string{"a", "a/b", "a/b/c"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Ancestors(tt.in)); diff != "" {
			t.Errorf("Ancestors(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]string{" b ", "", "a", "c "})
	want := []string{"a", "b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize (-want +got):\n%s", diff)
	}
}
