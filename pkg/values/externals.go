package values

import (
	"github.com/TomasBahnik/kube-helpers/pkg/props"
)

// Externals carries values that come from the environment properties
// rather than the sizing profile. Zero fields are skipped during the
// build, a partially filled struct merges only what it has.
type Externals struct {
	Hostname   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	AppDBName  string
	ImageTags  []props.ImageTag
}

// ExternalsFromProps resolves the well-known property keys into an
// Externals. Missing keys stay empty; the property layer already logged
// them.
func ExternalsFromProps(cfg *props.Config) *Externals {
	ext := &Externals{ImageTags: cfg.ImageTags()}
	ext.Hostname, _ = cfg.Value(props.KeyAppHost)
	ext.DBHost, _ = cfg.Value(props.KeyDBHost)
	ext.DBPort, _ = cfg.Value(props.KeyDBPort)
	ext.DBUser, _ = cfg.Value(props.KeyAppDBUser)
	ext.DBPassword, _ = cfg.Value(props.KeyAppDBPassword)
	ext.AppDBName, _ = cfg.Value(props.KeyAppDBName)
	return ext
}
