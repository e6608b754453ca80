package props

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "perf.properties", `[Main]
env.resources = common;perf
`)
	writeFile(t, dir, "common/test.properties", `[Main]
app.host = app.example.com
db.host = db.example.com
db.port = 5432
app.db.user = one
app.db.password = secret
app.db.name = mmm_one
helm.mmmBe.image.tag = 14.0.0
helm.postgresql.image.tag = 15.2.1
helm.mmmBe.image.repository = registry.example.com/mmm-be
`)
	writeFile(t, dir, "perf/test.properties", `[Main]
db.host = db-perf.example.com
helm.mmmBe.image.tag = 14.1.0-rc1
`)
	return dir
}

func TestLoadLayering(t *testing.T) {
	cfg, err := Load(fixtureDir(t), "perf")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Env(); got != "perf" {
		t.Errorf("Env() = %q", got)
	}
	if got := cfg.Folders(); !reflect.DeepEqual(got, []string{"common", "perf"}) {
		t.Errorf("Folders() = %v", got)
	}
	// The perf layer overrides db.host but leaves the rest from common.
	if v, _ := cfg.Value("db.host"); v != "db-perf.example.com" {
		t.Errorf("db.host = %q", v)
	}
	if v, _ := cfg.Value("app.db.user"); v != "one" {
		t.Errorf("app.db.user = %q", v)
	}
	if _, ok := cfg.Value("no.such.key"); ok {
		t.Error("Value(no.such.key) should miss")
	}
}

func TestLoadMissingLayerTolerated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "perf.properties", "[Main]\nenv.resources = common;gone\n")
	writeFile(t, dir, "common/test.properties", "[Main]\ndb.host = db\n")
	cfg, err := Load(dir, "perf")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, _ := cfg.Value("db.host"); v != "db" {
		t.Errorf("db.host = %q", v)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir, "missing"); err == nil {
		t.Error("expected error for missing meta file")
	}
	writeFile(t, dir, "bad.properties", "[Other]\nx = 1\n")
	if _, err := Load(dir, "bad"); err == nil {
		t.Error("expected error for missing [Main] section")
	}
	writeFile(t, dir, "nores.properties", "[Main]\nx = 1\n")
	if _, err := Load(dir, "nores"); err == nil {
		t.Error("expected error for missing env.resources")
	}
}

func TestEnvOverride(t *testing.T) {
	cfg, err := Load(fixtureDir(t), "perf")
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("DB_PORT", "6432")
	if v, _ := cfg.Value("db.port"); v != "6432" {
		t.Errorf("db.port with env override = %q, want 6432", v)
	}
}

func TestEnvKey(t *testing.T) {
	if got := EnvKey("app.db.password"); got != "APP_DB_PASSWORD" {
		t.Errorf("EnvKey = %q", got)
	}
}

func TestHelmProperties(t *testing.T) {
	cfg, err := Load(fixtureDir(t), "perf")
	if err != nil {
		t.Fatal(err)
	}
	all := cfg.HelmProperties("")
	if len(all) != 3 {
		t.Fatalf("HelmProperties(\"\") = %v", all)
	}
	tags := cfg.HelmProperties("tag")
	want := []string{"helm.mmmBe.image.tag", "helm.postgresql.image.tag"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("HelmProperties(tag) = %v, want %v", tags, want)
	}
}

func TestImageTags(t *testing.T) {
	cfg, err := Load(fixtureDir(t), "perf")
	if err != nil {
		t.Fatal(err)
	}
	got := cfg.ImageTags()
	want := []ImageTag{
		{Path: "mmmBe/image/tag", Tag: "14.1.0-rc1"},
		{Path: "postgresql/image/tag", Tag: "15.2.1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ImageTags() = %v, want %v", got, want)
	}
}
