// Package paths resolves the configuration directory and storage file
// locations from flags, config.yaml and the environment.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/nexus/pkg/types"
)

// DefaultConfigDirName is the CWD-relative configuration directory.
const DefaultConfigDirName = ".nexus"

// Environment variable names for location overrides.
const (
	EnvConfigDir = "NEXUS_CONFIG_DIR"
	EnvDBPath    = "NEXUS_DB_PATH"
)

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > NEXUS_CONFIG_DIR env > .nexus in the working
// directory.
func ResolveConfigDir(flag string) string {
	if flag != "" {
		return filepath.Clean(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Clean(env)
	}
	return DefaultConfigDirName
}

// ResolveDBPath returns the storage file path following the precedence
// chain: flag > configYAMLValue > NEXUS_DB_PATH env > types.DefaultDBPath.
//
// Paths are returned as given (cleaned, not made absolute, trailing
// separator kept) so the confirmation printed by the CLI names the location
// the way the operator wrote it.
func ResolveDBPath(flag, configYAMLValue string) string {
	if flag != "" {
		return cleanFilePath(flag)
	}
	if configYAMLValue != "" {
		return cleanFilePath(configYAMLValue)
	}
	if env := os.Getenv(EnvDBPath); env != "" {
		return cleanFilePath(env)
	}
	return types.DefaultDBPath
}

// cleanFilePath cleans p but keeps a trailing separator, so a value naming
// a directory is still rejected by types.Config.Validate.
func cleanFilePath(p string) string {
	c := filepath.Clean(p)
	sep := string(filepath.Separator)
	if (strings.HasSuffix(p, "/") || strings.HasSuffix(p, sep)) && !strings.HasSuffix(c, sep) {
		c += sep
	}
	return c
}
