// Package props reads layered environment property files. An environment
// name resolves to a meta file <env>.properties whose [Main] section lists
// property folders in env.resources; each folder contributes a
// test.properties file, read in list order with later files overriding
// earlier ones. Process environment variables override file values key by
// key.
package props

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/TomasBahnik/kube-helpers/pkg/defaults"
	"github.com/TomasBahnik/kube-helpers/pkg/errors"
)

// Well-known property keys consumed by the values builder.
const (
	KeyResourceFolders = "env.resources"
	KeyAppHost         = "app.host"
	KeyDBHost          = "db.host"
	KeyDBPort          = "db.port"
	KeyAppDBUser       = "app.db.user"
	KeyAppDBPassword   = "app.db.password"
	KeyAppDBName       = "app.db.name"

	helmKeyPrefix = "helm"
	folderSep     = ";"
)

// Property values carry literal ';' lists, so inline comment parsing is off.
var loadOptions = ini.LoadOptions{
	IgnoreInlineComment: true,
}

// Config is a resolved property environment.
type Config struct {
	env      string
	folders  []string
	keys     []string
	values   map[string]string
	defaults map[string]string
}

// Load reads the meta file <env>.properties from dir and the
// test.properties file of every folder it lists. Listed files that do not
// exist are skipped with a warning, matching the tolerant read the property
// layout relies on.
func Load(dir, env string) (*Config, error) {
	metaPath := filepath.Join(dir, env+".properties")
	meta, err := ini.LoadSources(loadOptions, metaPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeNotFound, err, "reading %s", metaPath)
	}
	main, err := meta.GetSection(defaults.PropertiesSection)
	if err != nil {
		return nil, errors.Newf(errors.ErrCodeNotFound, "no [%s] section in %s", defaults.PropertiesSection, metaPath)
	}
	if !main.HasKey(KeyResourceFolders) {
		return nil, errors.Newf(errors.ErrCodeNotFound, "%s not set in %s", KeyResourceFolders, metaPath)
	}

	var folders []string
	for _, f := range strings.Split(main.Key(KeyResourceFolders).String(), folderSep) {
		if f = strings.TrimSpace(f); f != "" {
			folders = append(folders, f)
		}
	}

	sources := []any{}
	for _, folder := range folders {
		path := filepath.Join(dir, folder, defaults.PropertiesFile)
		if _, err := os.Stat(path); err != nil {
			slog.Warn("skipping missing property file", "path", path)
			continue
		}
		sources = append(sources, path)
	}

	f, err := ini.LoadSources(loadOptions, metaPath, sources...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeNotFound, err, "reading property files of %s", env)
	}

	cfg := &Config{
		env:      env,
		folders:  folders,
		values:   make(map[string]string),
		defaults: make(map[string]string),
	}
	for _, key := range f.Section(ini.DefaultSection).KeyStrings() {
		cfg.defaults[key] = f.Section(ini.DefaultSection).Key(key).String()
	}
	merged, err := f.GetSection(defaults.PropertiesSection)
	if err != nil {
		return nil, errors.Newf(errors.ErrCodeNotFound, "no [%s] section after merge for %s", defaults.PropertiesSection, env)
	}
	cfg.keys = merged.KeyStrings()
	for _, key := range cfg.keys {
		cfg.values[key] = merged.Key(key).String()
	}

	slog.Info("loaded property environment", "env", env, "folders", len(folders), "keys", len(cfg.keys))
	return cfg, nil
}

// Env returns the environment name the config was loaded for.
func (c *Config) Env() string {
	return c.env
}

// Folders returns the property folders the meta file listed, in order.
func (c *Config) Folders() []string {
	return c.folders
}

// Keys returns all merged property keys in file order.
func (c *Config) Keys() []string {
	return c.keys
}

// Value resolves key, preferring a process environment variable named after
// the key with dots replaced by underscores and upper-cased. A miss logs a
// warning and reports absence.
func (c *Config) Value(key string) (string, bool) {
	if v, ok := os.LookupEnv(EnvKey(key)); ok {
		return v, true
	}
	if v, ok := c.values[key]; ok {
		return v, true
	}
	if v, ok := c.defaults[key]; ok {
		return v, true
	}
	slog.Warn("property not found", "key", key, "env", c.env)
	return "", false
}

// EnvKey converts a property key to its environment variable spelling.
func EnvKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// HelmProperties returns the keys starting with "helm", optionally only
// those whose final dotted segment equals endKey. Chart image tags live
// under such keys (helm.<chart...>.tag).
func (c *Config) HelmProperties(endKey string) []string {
	var out []string
	for _, key := range c.keys {
		if !strings.HasPrefix(key, helmKeyPrefix) {
			continue
		}
		if endKey != "" {
			segments := strings.Split(key, ".")
			if segments[len(segments)-1] != endKey {
				continue
			}
		}
		out = append(out, key)
	}
	return out
}

// ImageTag is one chart image tag property resolved to a merge path: the
// leading helm segment is dropped and the remaining dots become path
// separators (helm.a.b.tag -> a/b/tag).
type ImageTag struct {
	Path string
	Tag  string
}

// ImageTags resolves every helm.*.tag property, in key order.
func (c *Config) ImageTags() []ImageTag {
	var tags []ImageTag
	for _, key := range c.HelmProperties("tag") {
		value, ok := c.Value(key)
		if !ok {
			continue
		}
		path := strings.Join(strings.Split(key, ".")[1:], "/")
		slog.Debug("resolved image tag", "path", path, "tag", value)
		tags = append(tags, ImageTag{Path: path, Tag: value})
	}
	return tags
}
