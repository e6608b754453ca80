package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlatten(t *testing.T) {
	d := New()
	d.Merge("mmmBe/resources/limits/cpu", String("2"))
	d.Merge("mmmBe/resources/limits/memory", String("4Gi"))
	d.Merge("mmmBe/enabled", Bool(true))
	d.Merge("dpm/replicas", Int(3))

	want := []Property{
		{Key: "mmmBe.resources.limits.cpu", Value: "2"},
		{Key: "mmmBe.resources.limits.memory", Value: "4Gi"},
		{Key: "mmmBe.enabled", Value: "true"},
		{Key: "dpm.replicas", Value: "3"},
	}

	got := d.Flatten()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Flatten() (-want +got):\n%s", diff)
	}
}

func TestFlatten_ListLeaf(t *testing.T) {
	d := New()
	d.Merge("mmmBe/extraEnv", List(
		MapOf("name", String("JAVA_TOOL_OPTIONS"), "value", String("-Xmx1g")),
	))

	got := d.Flatten()
	if len(got) != 1 {
		t.Fatalf("rows = %d, want 1", len(got))
	}
	want := `mmmBe.extraEnv=[{"name":"JAVA_TOOL_OPTIONS","value":"-Xmx1g"}]`
	if got[0].String() != want {
		t.Errorf("row = %s, want %s", got[0].String(), want)
	}
}
