package cli

import (
	"testing"

	"github.com/urfave/cli/v3"
)

func TestNew_CommandStructure(t *testing.T) {
	cmd := New()

	if cmd.Name != "khctl" {
		t.Errorf("Name = %v, want khctl", cmd.Name)
	}

	if cmd.Usage == "" {
		t.Error("Usage should not be empty")
	}

	if cmd.Version != version {
		t.Errorf("Version = %v, want %v", cmd.Version, version)
	}

	if cmd.Before == nil {
		t.Error("Before should not be nil")
	}

	globalFlags := []string{"log-level", "log-format"}
	for _, flagName := range globalFlags {
		found := false
		for _, flag := range cmd.Flags {
			if hasName(flag, flagName) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("global flag %q not found", flagName)
		}
	}

	subcommands := []string{"values", "sizing", "modules", "profiles", "version"}
	for _, name := range subcommands {
		if findCommand(cmd, name) == nil {
			t.Errorf("subcommand %q not found", name)
		}
	}
}

func TestValuesCmd_Subcommands(t *testing.T) {
	cmd := valuesCmd()

	for _, name := range []string{"build", "analyze"} {
		if findCommand(cmd, name) == nil {
			t.Errorf("subcommand %q not found", name)
		}
	}
}

func TestSizingCmd_Subcommands(t *testing.T) {
	cmd := sizingCmd()

	for _, name := range []string{"report", "export", "scale"} {
		if findCommand(cmd, name) == nil {
			t.Errorf("subcommand %q not found", name)
		}
	}
}

func findCommand(cmd *cli.Command, name string) *cli.Command {
	for _, sub := range cmd.Commands {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

func hasName(flag cli.Flag, name string) bool {
	if flag == nil {
		return false
	}
	names := flag.Names()
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
