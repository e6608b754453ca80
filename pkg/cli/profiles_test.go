package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestProfilesCmd_CommandStructure(t *testing.T) {
	cmd := profilesCmd()

	if cmd.Name != "profiles" {
		t.Errorf("Name = %v, want profiles", cmd.Name)
	}

	if cmd.Usage == "" {
		t.Error("Usage should not be empty")
	}

	requiredFlags := []string{"sizing-dir", "output", "format"}
	for _, flagName := range requiredFlags {
		found := false
		for _, flag := range cmd.Flags {
			if hasName(flag, flagName) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("required flag %q not found", flagName)
		}
	}

	if cmd.Action == nil {
		t.Error("Action should not be nil")
	}
}

func TestProfilesCmd_ListsProfiles(t *testing.T) {
	dir := sizingFixture(t)
	outPath := filepath.Join(t.TempDir(), "profiles.json")

	args := []string{
		"profiles",
		"--sizing-dir", dir,
		"--format", "json",
		"--output", outPath,
	}
	if err := profilesCmd().Run(context.Background(), args); err != nil {
		t.Fatalf("Run: %v", err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var got struct {
		SizingProfiles []string `json:"sizingProfiles"`
		ModuleProfiles []string `json:"moduleProfiles"`
	}
	if err := json.Unmarshal(content, &got); err != nil {
		t.Fatalf("unmarshalling output: %v", err)
	}

	if want := []string{"perf_standard"}; !reflect.DeepEqual(got.SizingProfiles, want) {
		t.Errorf("sizing profiles = %v, want %v", got.SizingProfiles, want)
	}
	if want := []string{"basic", "full"}; !reflect.DeepEqual(got.ModuleProfiles, want) {
		t.Errorf("module profiles = %v, want %v", got.ModuleProfiles, want)
	}
}

func TestProfilesCmd_MissingDir(t *testing.T) {
	args := []string{
		"profiles",
		"--sizing-dir", filepath.Join(t.TempDir(), "missing"),
		"--format", "json",
		"--output", "-",
	}
	if err := profilesCmd().Run(context.Background(), args); err == nil {
		t.Fatal("expected error but got nil")
	}
}
