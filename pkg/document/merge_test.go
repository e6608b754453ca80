package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustYAML(t *testing.T, d *Document) string {
	t.Helper()
	b, err := d.YAML()
	if err != nil {
		t.Fatalf("YAML() error: %v", err)
	}
	return string(b)
}

func TestMerge_CreatesIntermediateMaps(t *testing.T) {
	d := New()
	d.Merge("mmmBe/resources/limits/cpu", String("2"))

	node, ok := d.Get("mmmBe/resources/limits/cpu")
	if !ok {
		t.Fatal("path not created")
	}
	if node.Value() != "2" {
		t.Errorf("Value() = %v, want %q", node.Value(), "2")
	}
}

func TestMerge_NilValueIsNoOp(t *testing.T) {
	d := New()
	d.Merge("mmmBe/javaOpts", nil)

	if _, ok := d.Get("mmmBe"); ok {
		t.Error("nil merge created a key")
	}
}

func TestMerge_Idempotent(t *testing.T) {
	build := func(times int) string {
		d := New()
		for range times {
			d.Merge("dpm/replicas", Int(2))
			d.Merge("dpm/resources", MapOf("requests", MapOf("cpu", String("1"))))
		}
		return mustYAML(t, d)
	}

	if diff := cmp.Diff(build(1), build(2)); diff != "" {
		t.Errorf("document changed after repeated merge (-once +twice):\n%s", diff)
	}
}

func TestMerge_NonOverlappingPathsCommute(t *testing.T) {
	forward := New()
	forward.Merge("a/b", Int(1))
	forward.Merge("c/d", Int(2))

	// Key order follows insertion, so only the resolved values are
	// compared across arrival orders.
	reversed := New()
	reversed.Merge("a/c", Int(2))
	reversed.Merge("a/b", Int(1))

	again := New()
	again.Merge("a/b", Int(1))
	again.Merge("a/c", Int(2))

	fb, _ := forward.Get("a/b")
	if fb.Value() != int64(1) {
		t.Errorf("a/b = %v, want 1", fb.Value())
	}

	rNode, _ := reversed.Get("a")
	aNode, _ := again.Get("a")
	if len(rNode.Keys()) != 2 || len(aNode.Keys()) != 2 {
		t.Fatal("sibling keys missing")
	}
	for _, d := range []*Document{reversed, again} {
		for path, want := range map[string]int64{"a/b": 1, "a/c": 2} {
			n, ok := d.Get(path)
			if !ok || n.Value() != want {
				t.Errorf("%s = %v, want %d", path, n.Value(), want)
			}
		}
	}
}

func TestMerge_MapOntoMapDescends(t *testing.T) {
	d := New()
	d.Merge("postgresExporter", MapOf("enabled", Bool(true)))
	d.Merge("postgresExporter", MapOf("extraEnv", List(
		MapOf("name", String("DATA_SOURCE_USER"), "value", String("postgres")),
	)))

	enabled, ok := d.Get("postgresExporter/enabled")
	if !ok || enabled.Value() != true {
		t.Error("existing key lost by map merge")
	}
	env, ok := d.Get("postgresExporter/extraEnv")
	if !ok || env.Kind() != KindList {
		t.Error("new key not merged in")
	}

	keys := func() []string {
		n, _ := d.Get("postgresExporter")
		return n.Keys()
	}()
	want := []string{"enabled", "extraEnv"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("key order (-want +got):\n%s", diff)
	}
}

func TestMerge_ListReplacesList(t *testing.T) {
	d := New()
	d.Merge("mmmBe/extraEnv", List(MapOf("name", String("A"), "value", String("1"))))
	d.Merge("mmmBe/extraEnv", List(MapOf("name", String("B"), "value", String("2"))))

	env, _ := d.Get("mmmBe/extraEnv")
	if env.Len() != 1 {
		t.Fatalf("list length = %d, want 1 (replace, not append)", env.Len())
	}
	name, _ := env.Items()[0].Get("name")
	if name.Value() != "B" {
		t.Errorf("item name = %v, want B", name.Value())
	}
}

func TestMerge_ScalarReplaced(t *testing.T) {
	d := New()
	d.Merge("dpm/replicas", Int(1))
	d.Merge("dpm/replicas", Int(3))

	n, _ := d.Get("dpm/replicas")
	if n.Value() != int64(3) {
		t.Errorf("replicas = %v, want 3", n.Value())
	}
}

func TestMerge_ModulePrefixConvergence(t *testing.T) {
	d := New()
	enabled := MapOf("enabled", Bool(true))
	d.Merge("termSuggestions", enabled)
	d.Merge("termSuggestions/api", MapOf("enabled", Bool(true)))
	d.Merge("termSuggestions/db", MapOf("enabled", Bool(false)))
	d.Merge("termSuggestions/api/resources",
		MapOf("requests", MapOf("cpu", String("1"), "memory", String("512Mi"))))

	for path, want := range map[string]any{
		"termSuggestions/enabled":     true,
		"termSuggestions/api/enabled": true,
		"termSuggestions/db/enabled":  false,
	} {
		n, ok := d.Get(path)
		if !ok {
			t.Fatalf("%s missing", path)
		}
		if n.Value() != want {
			t.Errorf("%s = %v, want %v", path, n.Value(), want)
		}
	}

	if _, ok := d.Get("termSuggestions/api/resources/requests/memory"); !ok {
		t.Error("resources lost under enabled module")
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a/b/c", []string{"a", "b", "c"}},
		{"/a/b/", []string{"a", "b"}},
		{"a", []string{"a"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := SplitPath(tt.in)
		if len(got) == 0 {
			got = nil
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("SplitPath(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestDottedToPath(t *testing.T) {
	if got := DottedToPath("storage.tmp.sizeLimit"); got != "storage/tmp/sizeLimit" {
		t.Errorf("DottedToPath = %q", got)
	}
}
