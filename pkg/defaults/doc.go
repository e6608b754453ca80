// Package defaults provides centralized constants for the kube-helpers
// tools: well-known file names, INI section names, artifact suffixes and
// file permissions.
//
// Centralizing these values keeps the CLI, the builder and the reporters
// agreeing on where definitions live and what artifacts are called.
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/TomasBahnik/kube-helpers/pkg/defaults"
//
//	path := filepath.Join(dir, defaults.SizingsFile)
package defaults
