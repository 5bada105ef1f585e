// Package nexus holds build-level facts about the nexus module.
package nexus

import "github.com/maloquacious/semver"

var version = semver.Version{Minor: 1, PreRelease: "alpha", Build: semver.Commit()}

// ModulePath is the Go module path of nexus.
const ModulePath = "github.com/mesh-intelligence/nexus"

// Version returns the semantic version of this build.
func Version() string {
	return version.String()
}
