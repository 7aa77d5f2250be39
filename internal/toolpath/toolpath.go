// Package toolpath locates executables produced by the toolchain's own build.
//
// In-tree tools live under a fixed two-level layout:
//
//	<tools_root>/<tool_name>/<build_type>/<tool_name>
//
// Resolution never touches the filesystem. A missing binary is only observed
// when the test runner invokes it.
package toolpath

import "path/filepath"

// DefaultBuildType is the build label used when no BUILD_TYPE parameter is given.
const DefaultBuildType = "Debug"

// Resolver resolves in-tree tool names for a single build configuration.
// Every path it returns points into the same build, so a run never mixes
// binaries from different configurations.
type Resolver struct {
	ToolsRoot string
	BuildType string
}

// New returns a Resolver for toolsRoot. An empty buildType selects DefaultBuildType.
func New(toolsRoot, buildType string) Resolver {
	if buildType == "" {
		buildType = DefaultBuildType
	}
	return Resolver{ToolsRoot: toolsRoot, BuildType: buildType}
}

// Resolve returns the executable path of the named in-tree tool.
func (r Resolver) Resolve(name string) string {
	return Resolve(r.ToolsRoot, name, r.BuildType)
}

// Resolve composes the executable path of an in-tree tool.
func Resolve(toolsRoot, name, buildType string) string {
	return filepath.Join(toolsRoot, name, buildType, name)
}
