package defaults

import "os"

// Sizing definition files.
const (
	// SizingsFile lists which layer files compose each sizing profile.
	SizingsFile = "sizings.ini"

	// SizingsSection is the meta section inside SizingsFile.
	SizingsSection = "sizings"

	// ModulesFile lists which module paths compose each module profile.
	ModulesFile = "modules.ini"

	// ModulesSection is the meta section inside ModulesFile.
	ModulesSection = "modules"
)

// Environment property files.
const (
	// PropertiesSection is the single section of environment property files.
	PropertiesSection = "Main"

	// PropertiesFile is the per-folder property file name.
	PropertiesFile = "test.properties"
)

// Generated artifacts.
const (
	// ValuesYAML is the merged values document artifact.
	ValuesYAML = "values.yaml"

	// ValuesJSON is the JSON form of the merged values document.
	ValuesJSON = "values.json"

	// SizingSuffix is appended to the manifest stem for report artifacts
	// (<stem>_sizing.json, <stem>_sizing.html, <stem>_sizing.csv).
	SizingSuffix = "_sizing"

	// IniSizingSuffix is appended to the profile name for sizing exports
	// (<profile>_ini_sizing.yaml, <profile>_ini_sizing.json).
	IniSizingSuffix = "_ini_sizing"

	// PropertiesSuffix is appended to the report stem for the ConfigMap
	// properties artifact.
	PropertiesSuffix = "_properties"

	// ChecksumsFile lists SHA256 checksums of the written artifacts.
	ChecksumsFile = "checksums.txt"
)

// File permissions for generated artifacts and directories.
const (
	// FileMode is the permission for generated files.
	FileMode os.FileMode = 0644

	// DirMode is the permission for created artifact directories.
	DirMode os.FileMode = 0755
)
