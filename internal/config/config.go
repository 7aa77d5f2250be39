package config

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/roach88/vastlit/internal/toolpath"
)

// SuiteName is the name reported to the test runner.
const SuiteName = "VAST"

// Inert values handed to the test runner.
var (
	DefaultSuffixes = []string{".mlir", ".c", ".cpp", ".ll"}
	DefaultExcludes = []string{"Inputs", "Examples", "CMakeLists.txt", "README.txt", "LICENSE.txt"}

	// EnvAllowList names the environment variables passed through to tools.
	EnvAllowList = []string{"HOME", "INCLUDE", "LIB", "TMP", "TEMP"}
)

// LookupEnv reads one environment variable. os.LookupEnv satisfies it.
type LookupEnv func(key string) (string, bool)

// Config is the complete harness configuration for one run.
// It is built once by New and must be treated as read-only afterwards.
type Config struct {
	Name     string
	Suffixes []string
	Excludes []string

	SourceRoot     string
	ObjRoot        string
	TestSourceRoot string
	TestExecRoot   string
	TestUtilDir    string
	ToolsDir       string

	BuildType string
	HostCC    string
	ShlibExt  string
	Path      string
	SARIF     bool

	// Stages is the pipeline stage list; nil selects the built-in list.
	Stages     []string
	SkipProbes []string

	// Environment holds the allow-listed variables that are set.
	Environment map[string]string
}

// New combines a validated site config with run parameters. A nil lookup
// reads the process environment.
func New(site *Site, params Params, lookup LookupEnv) *Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	buildType, _ := params.Get(ParamBuildType)
	if buildType == "" {
		buildType = toolpath.DefaultBuildType
	}

	shlibExt := site.ShlibExt
	if shlibExt == "" {
		shlibExt = defaultShlibExt(runtime.GOOS)
	}

	env := make(map[string]string)
	for _, key := range EnvAllowList {
		if v, ok := lookup(key); ok {
			env[key] = v
		}
	}
	path, _ := lookup("PATH")

	return &Config{
		Name:           SuiteName,
		Suffixes:       slices.Clone(DefaultSuffixes),
		Excludes:       slices.Clone(DefaultExcludes),
		SourceRoot:     site.SrcRoot,
		ObjRoot:        site.ObjRoot,
		TestSourceRoot: filepath.Join(site.SrcRoot, "test"),
		TestExecRoot:   filepath.Join(site.ObjRoot, "test"),
		TestUtilDir:    filepath.Join(site.SrcRoot, "test", "utils"),
		ToolsDir:       filepath.Join(site.ObjRoot, "tools"),
		BuildType:      buildType,
		HostCC:         site.HostCC,
		ShlibExt:       shlibExt,
		Path:           path,
		SARIF:          site.EnableSARIF || params.Bool(ParamEnableSARIF),
		Stages:         slices.Clone(site.Stages),
		SkipProbes:     slices.Clone(site.SkipProbes),
		Environment:    env,
	}
}

// Resolver returns the in-tree tool resolver for this configuration.
func (c *Config) Resolver() toolpath.Resolver {
	return toolpath.New(c.ToolsDir, c.BuildType)
}

func defaultShlibExt(goos string) string {
	switch goos {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}
