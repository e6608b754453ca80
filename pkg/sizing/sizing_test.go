package sizing

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/TomasBahnik/kube-helpers/pkg/errors"
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

// fixtureDir lays out a two-layer profile the way deployment trees do:
// a shared base plus a profile override, glued together by sizings.ini.
func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "sizings.ini", `[sizings]
test = layers/base.ini,layers/test.ini
base-only = layers/base.ini
empty =
`)
	writeFile(t, dir, "modules.ini", `[modules]
test = postgresql,mmmBe,mmmFe
minimal = postgresql
`)
	writeFile(t, dir, "layers/base.ini", `[DEFAULT]
baseMemory = 2Gi
commonExtraEnv = LOG_FORMAT=json;TZ=UTC

[mmmBe]
cpu.requests = 500m
cpu.limits = 2
memory.requests = 1Gi
memory.limits = %(baseMemory)s
javaOpts = -Xmx1g -Xlog:gc=info
replicas = 1
extraProperties = spring.port=8080;ratio=0.5;debug=false;name=mmm
extraEnv = JAVA_TOOL_OPTIONS=-Dfile.encoding=UTF-8

[mmmFe]
memory.requests = 256Mi
memory.limits = 512Mi

[postgresql]
cpu.requests = 250m
memory.requests = 512Mi
memory.limits = 1Gi
storage.tmp.sizeLimit = 1Gi
`)
	writeFile(t, dir, "layers/test.ini", `[mmmBe]
memory.limits = 4Gi
replicas = 2
`)
	return dir
}

func TestLoadLayering(t *testing.T) {
	dir := fixtureDir(t)
	src, err := Load(dir, "test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := src.Profile(); got != "test" {
		t.Errorf("Profile() = %q", got)
	}
	if got := len(src.Layers()); got != 2 {
		t.Errorf("len(Layers()) = %d, want 2", got)
	}
	// The override layer wins for keys it sets and leaves the rest alone.
	if v, _ := src.Value("mmmBe", "memory.limits"); v != "4Gi" {
		t.Errorf("memory.limits = %q, want 4Gi", v)
	}
	if v, _ := src.Replicas("mmmBe"); v != "2" {
		t.Errorf("replicas = %q, want 2", v)
	}
	if v, _ := src.Value("mmmBe", "cpu.requests"); v != "500m" {
		t.Errorf("cpu.requests = %q, want 500m", v)
	}
}

func TestLoadInterpolation(t *testing.T) {
	dir := fixtureDir(t)
	src, err := Load(dir, "base-only")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// %(baseMemory)s resolves against the DEFAULT scope at load time.
	if v, _ := src.Value("mmmBe", "memory.limits"); v != "2Gi" {
		t.Errorf("memory.limits = %q, want 2Gi", v)
	}
}

func TestLoadUnknownProfile(t *testing.T) {
	dir := fixtureDir(t)
	_, err := Load(dir, "tset")
	if err == nil {
		t.Fatal("expected error for unknown profile")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeNotFound {
		t.Errorf("code = %q, want %q", code, errors.ErrCodeNotFound)
	}
	if !strings.Contains(err.Error(), `did you mean "test"`) {
		t.Errorf("error lacks suggestion: %v", err)
	}
}

func TestLoadEmptyProfile(t *testing.T) {
	dir := fixtureDir(t)
	if _, err := Load(dir, "empty"); err == nil {
		t.Fatal("expected error for profile without layers")
	}
}

func TestValueFallsBackToDefaults(t *testing.T) {
	dir := fixtureDir(t)
	src, err := Load(dir, "base-only")
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := src.Value("mmmFe", "baseMemory"); !ok || v != "2Gi" {
		t.Errorf("Value(mmmFe, baseMemory) = %q, %v", v, ok)
	}
	if _, ok := src.Value("mmmFe", "javaOpts"); ok {
		t.Error("Value(mmmFe, javaOpts) should miss")
	}
}

func TestSections(t *testing.T) {
	dir := fixtureDir(t)
	src, err := Load(dir, "test")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"mmmBe", "mmmFe", "postgresql"}
	if got := src.Sections(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sections() = %v, want %v", got, want)
	}
}

func TestItemsOwnKeysOnly(t *testing.T) {
	dir := fixtureDir(t)
	src, err := Load(dir, "base-only")
	if err != nil {
		t.Fatal(err)
	}
	items := src.Items("mmmFe")
	want := []KeyValue{
		{Key: "memory.requests", Value: "256Mi"},
		{Key: "memory.limits", Value: "512Mi"},
	}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("Items(mmmFe) = %v, want %v", items, want)
	}
}

func TestResourceSpec(t *testing.T) {
	dir := fixtureDir(t)
	src, err := Load(dir, "test")
	if err != nil {
		t.Fatal(err)
	}
	got := src.ResourceSpec("mmmBe")
	want := ResourceSpec{
		CPURequests:    "500m",
		MemoryRequests: "1Gi",
		CPULimits:      "2",
		MemoryLimits:   "4Gi",
	}
	if got != want {
		t.Errorf("ResourceSpec(mmmBe) = %+v, want %+v", got, want)
	}

	// mmmFe has no CPU keys at all; the zero strings carry that through.
	fe := src.ResourceSpec("mmmFe")
	if fe.CPULimits != "" || fe.CPURequests != "" {
		t.Errorf("ResourceSpec(mmmFe) has CPU values: %+v", fe)
	}
	if fe.Empty() {
		t.Error("ResourceSpec(mmmFe).Empty() = true, want false")
	}
	if !(ResourceSpec{}).Empty() {
		t.Error("zero ResourceSpec should be Empty")
	}
}

func TestExtraProperties(t *testing.T) {
	dir := fixtureDir(t)
	src, err := Load(dir, "test")
	if err != nil {
		t.Fatal(err)
	}
	got := src.ExtraProperties("mmmBe")
	want := []TypedProperty{
		{Key: "spring.port", Value: int64(8080)},
		{Key: "ratio", Value: 0.5},
		{Key: "debug", Value: false},
		{Key: "name", Value: "mmm"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtraProperties(mmmBe) = %v, want %v", got, want)
	}
	if props := src.ExtraProperties("postgresql"); props != nil {
		t.Errorf("ExtraProperties(postgresql) = %v, want nil", props)
	}
}

func TestParseProperties(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []TypedProperty
	}{
		{
			name: "whitespace and empties",
			raw:  " a=1 ;; b = x ",
			want: []TypedProperty{{Key: "a", Value: int64(1)}, {Key: "b", Value: "x"}},
		},
		{
			name: "malformed entry skipped",
			raw:  "valid=1;broken;alsoValid=true",
			want: []TypedProperty{{Key: "valid", Value: int64(1)}, {Key: "alsoValid", Value: true}},
		},
		{
			name: "value keeps later equals",
			raw:  "conn=host=db port=5432",
			want: []TypedProperty{{Key: "conn", Value: "host=db port=5432"}},
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseProperties("c", tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseProperties(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExtraEnvInheritance(t *testing.T) {
	dir := fixtureDir(t)
	src, err := Load(dir, "test")
	if err != nil {
		t.Fatal(err)
	}
	// Common entries come first, the component's own after them.
	got := src.ExtraEnv("mmmBe")
	want := []EnvVar{
		{Name: "LOG_FORMAT", Value: "json"},
		{Name: "TZ", Value: "UTC"},
		{Name: "JAVA_TOOL_OPTIONS", Value: "-Dfile.encoding=UTF-8"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtraEnv(mmmBe) = %v, want %v", got, want)
	}

	// A component with no extraEnv of its own still inherits the common set.
	got = src.ExtraEnv("mmmFe")
	want = []EnvVar{
		{Name: "LOG_FORMAT", Value: "json"},
		{Name: "TZ", Value: "UTC"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtraEnv(mmmFe) = %v, want %v", got, want)
	}
}

func TestExtraEnvExclusion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sizings.ini", "[sizings]\np = l.ini\n")
	writeFile(t, dir, "l.ini", `[DEFAULT]
commonExtraEnv = TZ=UTC
excludePodsCommonExtraEnv = postgresql;redis

[postgresql]
extraEnv = PGDATA=/data

[redis]
memory.limits = 1Gi

[mmmBe]
memory.limits = 1Gi
`)
	src, err := Load(dir, "p")
	if err != nil {
		t.Fatal(err)
	}
	if got := src.ExtraEnv("postgresql"); !reflect.DeepEqual(got, []EnvVar{{Name: "PGDATA", Value: "/data"}}) {
		t.Errorf("excluded component kept common entries: %v", got)
	}
	if got := src.ExtraEnv("redis"); got != nil {
		t.Errorf("excluded component without own entries = %v, want nil", got)
	}
	if got := src.ExtraEnv("mmmBe"); !reflect.DeepEqual(got, []EnvVar{{Name: "TZ", Value: "UTC"}}) {
		t.Errorf("non-excluded component = %v", got)
	}
}

func TestExtraEnvDisabled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sizings.ini", "[sizings]\np = l.ini\n")
	writeFile(t, dir, "l.ini", `[DEFAULT]
commonExtraEnv = TZ=UTC
commonExtraEnvEnabled = no

[mmmBe]
extraEnv = A=1
`)
	src, err := Load(dir, "p")
	if err != nil {
		t.Fatal(err)
	}
	if got := src.ExtraEnv("mmmBe"); !reflect.DeepEqual(got, []EnvVar{{Name: "A", Value: "1"}}) {
		t.Errorf("ExtraEnv with disabled common = %v", got)
	}
}

func TestEnabledModules(t *testing.T) {
	dir := fixtureDir(t)
	got, err := EnabledModules(dir, "test")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"postgresql", "mmmBe", "mmmFe"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EnabledModules = %v, want %v", got, want)
	}
	if _, err := EnabledModules(dir, "nosuch"); err == nil {
		t.Fatal("expected error for unknown module profile")
	}
}

func TestProfileListings(t *testing.T) {
	dir := fixtureDir(t)
	sp, err := SizingProfiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"test", "base-only", "empty"}; !reflect.DeepEqual(sp, want) {
		t.Errorf("SizingProfiles = %v, want %v", sp, want)
	}
	mp, err := ModuleProfiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"test", "minimal"}; !reflect.DeepEqual(mp, want) {
		t.Errorf("ModuleProfiles = %v, want %v", mp, want)
	}
}

func TestParseBool(t *testing.T) {
	truthy := []string{"1", "true", "True", "YES", "on"}
	falsy := []string{"0", "false", "No", "OFF"}
	for _, v := range truthy {
		if b, ok := parseBool(v); !ok || !b {
			t.Errorf("parseBool(%q) = %v, %v", v, b, ok)
		}
	}
	for _, v := range falsy {
		if b, ok := parseBool(v); !ok || b {
			t.Errorf("parseBool(%q) = %v, %v", v, b, ok)
		}
	}
	if _, ok := parseBool("maybe"); ok {
		t.Error(`parseBool("maybe") should not parse`)
	}
}
