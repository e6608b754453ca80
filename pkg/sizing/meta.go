// Package sizing loads layered sizing definitions for a deployment size
// class. A sizing profile names an ordered list of INI layer files; later
// layers override earlier ones key by key. Component sections expose typed
// convenience accessors for the fixed sizing keys (resources, replicas,
// javaOpts, extraProperties, extraEnv, storage limits).
package sizing

import (
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/TomasBahnik/kube-helpers/pkg/defaults"
	"github.com/TomasBahnik/kube-helpers/pkg/errors"
)

// loadOptions disables inline comment parsing: sizing values carry literal
// ';' separators (extraProperties, extraEnv).
var loadOptions = ini.LoadOptions{
	IgnoreInlineComment: true,
}

func loadMeta(path, section string) (*ini.Section, error) {
	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeNotFound, err, "reading %s", path)
	}
	s, err := f.GetSection(section)
	if err != nil {
		return nil, errors.Newf(errors.ErrCodeNotFound, "no [%s] section in %s", section, path)
	}
	return s, nil
}

func profileList(s *ini.Section, profile, path string) ([]string, error) {
	if !s.HasKey(profile) {
		return nil, unknownProfileError(profile, path, s.KeyStrings())
	}
	var out []string
	for _, p := range strings.Split(s.Key(profile).String(), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// SizingProfiles returns the profile names defined in sizings.ini, in file
// order.
func SizingProfiles(dir string) ([]string, error) {
	s, err := loadMeta(filepath.Join(dir, defaults.SizingsFile), defaults.SizingsSection)
	if err != nil {
		return nil, err
	}
	return s.KeyStrings(), nil
}

// ModuleProfiles returns the profile names defined in modules.ini, in file
// order.
func ModuleProfiles(dir string) ([]string, error) {
	s, err := loadMeta(filepath.Join(dir, defaults.ModulesFile), defaults.ModulesSection)
	if err != nil {
		return nil, err
	}
	return s.KeyStrings(), nil
}

// EnabledModules resolves a module profile into its enabled module paths,
// trimmed. Callers sort as needed.
func EnabledModules(dir, profile string) ([]string, error) {
	path := filepath.Join(dir, defaults.ModulesFile)
	s, err := loadMeta(path, defaults.ModulesSection)
	if err != nil {
		return nil, err
	}
	modules, err := profileList(s, profile, path)
	if err != nil {
		return nil, err
	}
	slog.Debug("resolved module profile", "profile", profile, "modules", len(modules))
	return modules, nil
}

// layerFiles resolves a sizing profile into its ordered layer file paths.
func layerFiles(dir, profile string) ([]string, error) {
	path := filepath.Join(dir, defaults.SizingsFile)
	s, err := loadMeta(path, defaults.SizingsSection)
	if err != nil {
		return nil, err
	}
	rel, err := profileList(s, profile, path)
	if err != nil {
		return nil, err
	}
	layers := make([]string, len(rel))
	for i, r := range rel {
		layers[i] = filepath.Join(dir, r)
	}
	return layers, nil
}
