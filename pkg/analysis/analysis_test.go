package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func scanFixture(t *testing.T) *Analysis {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "values.yaml", `mmmBe:
  resources:
    limits:
      cpu: "2"
      memory: 2Gi
  image:
    tag: 14.0.0
---
postgresql:
  resources:
    requests:
      memory: 512Mi
`)
	writeFile(t, root, "charts/other-values.yaml", `mmmBe:
  resources:
    limits:
      cpu: "2"
  image:
    tag: 15.0.0
`)
	// classified by content, not parseable as YAML
	writeFile(t, root, "templates/deployment.yaml", `apiVersion: apps/v1
kind: Deployment
spec:
  template:
    spec:
      containers:
        - name: app
          resources:
{{ toYaml .Values.mmmBe.resources | indent 12 }}
`)
	writeFile(t, root, "templates/service.yaml", `apiVersion: v1
kind: Service
metadata:
  name: {{ .Values.name }}
`)
	writeFile(t, root, "config.yaml", "kind: Kustomization\n")
	writeFile(t, root, "notes.txt", "not yaml\n")

	a, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	return a
}

func TestScanClassification(t *testing.T) {
	a := scanFixture(t)

	wantValues := []string{
		filepath.Join("charts", "other-values.yaml"),
		filepath.Join("templates", "deployment.yaml"),
		"values.yaml",
	}
	if diff := cmp.Diff(wantValues, a.ValueFiles); diff != "" {
		t.Errorf("value files mismatch (-want +got):\n%s", diff)
	}

	wantOthers := []string{
		"config.yaml",
		filepath.Join("templates", "service.yaml"),
	}
	if diff := cmp.Diff(wantOthers, a.NonValueFiles); diff != "" {
		t.Errorf("non-value files mismatch (-want +got):\n%s", diff)
	}

	// two docs from values.yaml, one from other-values.yaml, none from
	// the unparseable template
	if len(a.Docs) != 3 {
		t.Errorf("len(Docs) = %d, want 3", len(a.Docs))
	}
}

func TestScanPlaceholders(t *testing.T) {
	a := scanFixture(t)

	want := []string{"name: {{ .Values.name }}"}
	if diff := cmp.Diff(want, a.Placeholders); diff != "" {
		t.Errorf("placeholders mismatch (-want +got):\n%s", diff)
	}
}

func TestProperties(t *testing.T) {
	a := scanFixture(t)

	want := []string{
		"mmmBe.image.tag=14.0.0",
		"mmmBe.image.tag=15.0.0",
		"mmmBe.resources.limits.cpu=2",
		"mmmBe.resources.limits.memory=2Gi",
		"postgresql.resources.requests.memory=512Mi",
	}
	if diff := cmp.Diff(want, a.Properties()); diff != "" {
		t.Errorf("properties mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveProperties(t *testing.T) {
	a := scanFixture(t)
	path := filepath.Join(t.TempDir(), "values.properties")

	if err := a.SaveProperties(path); err != nil {
		t.Fatalf("SaveProperties() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) != 5 {
		t.Errorf("len(lines) = %d, want 5:\n%s", len(lines), content)
	}
	if lines[0] != "mmmBe.image.tag=14.0.0" {
		t.Errorf("lines[0] = %q", lines[0])
	}
}

func TestResourceRows(t *testing.T) {
	a := scanFixture(t)
	rows := a.ResourceRows()

	// last document of values.yaml wins
	values, ok := rows["values.yaml"]
	if !ok {
		t.Fatalf("missing values.yaml rows: %v", rows)
	}
	if len(values) != 1 || values[0].String() != "postgresql.resources.requests.memory=512Mi" {
		t.Errorf("values.yaml rows = %v", values)
	}

	if _, ok := rows[filepath.Join("templates", "deployment.yaml")]; ok {
		t.Error("unparseable file should have no rows")
	}
}

func TestComponents(t *testing.T) {
	a := scanFixture(t)

	want := []string{"mmmBe", "postgresql"}
	if diff := cmp.Diff(want, a.Components()); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveComponents(t *testing.T) {
	a := scanFixture(t)
	path := filepath.Join(t.TempDir(), "components.ini")

	if err := a.SaveComponents(path); err != nil {
		t.Fatalf("SaveComponents() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	s := string(content)
	for _, section := range []string{"[mmmBe]", "[postgresql]"} {
		if !strings.Contains(s, section) {
			t.Errorf("missing section %s:\n%s", section, s)
		}
	}
}

func TestSummary(t *testing.T) {
	a := scanFixture(t)

	want := "3 value files, 2 other yaml files, 3 documents, 1 template placeholders"
	if got := a.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
