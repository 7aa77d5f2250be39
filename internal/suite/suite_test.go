package suite

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vastlit/internal/canon"
	"github.com/roach88/vastlit/internal/config"
	"github.com/roach88/vastlit/internal/pipeline"
	"github.com/roach88/vastlit/internal/subst"
	"github.com/roach88/vastlit/internal/testutil"
)

func testConfig(t *testing.T, params config.Params) *config.Config {
	t.Helper()
	site := &config.Site{
		SrcRoot:  "/src",
		ObjRoot:  "/obj",
		HostCC:   "ccache clang",
		ShlibExt: ".so",
	}
	env := map[string]string{"PATH": "/usr/bin", "HOME": "/home/dev"}
	return config.New(site, params, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
}

func frontPath(buildType string) string {
	return filepath.Join("/obj", "tools", "vast-front", buildType, "vast-front")
}

func TestSetup_SubstitutionTableGolden(t *testing.T) {
	s, err := Setup(context.Background(), testConfig(t, nil), Options{SkipProbes: true})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Substitutions().Write(&buf))

	testutil.AssertGolden(t, "substitutions", buf.Bytes())
}

func TestSetup_BaselineAndDerived(t *testing.T) {
	s, err := Setup(context.Background(), testConfig(t, nil), Options{SkipProbes: true})
	require.NoError(t, err)

	table := s.Substitutions()
	assert.Equal(t, 11+len(pipeline.DefaultStages()), table.Len())
	assert.Empty(t, s.Collisions())

	cc, ok := table.Lookup("%cc")
	require.True(t, ok)
	assert.Equal(t, "ccache", cc.Path)
	assert.Equal(t, []string{"clang"}, cc.ExtraArgs)

	check, ok := table.Lookup("%check-hl-dce")
	require.True(t, ok)
	assert.Equal(t, frontPath("Debug"), check.Path)
	assert.Equal(t, "-vast-emit-mlir-after=vast-hl-dce", check.ExtraArgs[0])
}

func TestSetup_BuildTypeAppliesToEveryInTreeTool(t *testing.T) {
	s, err := Setup(context.Background(), testConfig(t, config.Params{config.ParamBuildType: "Release"}), Options{SkipProbes: true})
	require.NoError(t, err)

	for _, e := range s.Substitutions().Entries() {
		if e.Command.Kind != subst.InTree {
			continue
		}
		assert.Equal(t, "Release", filepath.Base(filepath.Dir(e.Path)), "token %s", e.Token)
	}
}

func TestSetup_MalformedStageIsConfigError(t *testing.T) {
	cfg := testConfig(t, nil)
	cfg.Stages = []string{"vast-hl-dce", "hl-ude"}

	_, err := Setup(context.Background(), cfg, Options{SkipProbes: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pipeline.ErrMalformedStage))
}

func TestSetup_CustomStages(t *testing.T) {
	cfg := testConfig(t, nil)
	cfg.Stages = []string{"vast-hl-dce"}

	s, err := Setup(context.Background(), cfg, Options{SkipProbes: true})
	require.NoError(t, err)
	assert.Equal(t, 12, s.Substitutions().Len())
}

func TestSetup_InvalidHostCC(t *testing.T) {
	cfg := testConfig(t, nil)
	cfg.HostCC = `clang "unterminated`

	_, err := Setup(context.Background(), cfg, Options{SkipProbes: true})
	assert.ErrorContains(t, err, "host_cc")
}

func TestSetup_Features(t *testing.T) {
	r := testutil.NewFakeRunner()
	r.Exit["cc"] = 0
	r.Exit[frontPath("Debug")] = 1

	s, err := Setup(context.Background(), testConfig(t, config.Params{config.ParamEnableSARIF: "1"}), Options{Runner: r, GOOS: "linux"})
	require.NoError(t, err)

	assert.Equal(t, []string{"clang", "sarif", "stdbit", "ucharc23"}, s.Features().List())
	assert.False(t, s.Features().Has("miamcu"))
	assert.Len(t, s.ProbeResults(), 3)
}

func TestSetup_ProbeLaunchFailureIsNotFatal(t *testing.T) {
	r := testutil.NewFakeRunner()
	r.Errors["cc"] = errors.New("exec: \"cc\": executable file not found in $PATH")

	s, err := Setup(context.Background(), testConfig(t, nil), Options{Runner: r, GOOS: "linux"})
	require.NoError(t, err)
	assert.Equal(t, []string{"clang"}, s.Features().List())
}

func TestSetup_SkipProbesFromConfig(t *testing.T) {
	r := testutil.NewFakeRunner()
	r.Default = 0

	cfg := testConfig(t, nil)
	cfg.SkipProbes = []string{"miamcu"}

	s, err := Setup(context.Background(), cfg, Options{Runner: r, GOOS: "linux"})
	require.NoError(t, err)
	assert.Equal(t, []string{"clang", "stdbit", "ucharc23"}, s.Features().List())
	assert.Len(t, r.Calls(), 2)
}

func TestSetup_Idempotent(t *testing.T) {
	r := testutil.NewFakeRunner()
	r.Exit["cc"] = 0
	cfg := testConfig(t, nil)

	first, err := Setup(context.Background(), cfg, Options{Runner: r, GOOS: "linux"})
	require.NoError(t, err)
	second, err := Setup(context.Background(), cfg, Options{Runner: r, GOOS: "linux"})
	require.NoError(t, err)

	assert.Equal(t, first.Substitutions().Entries(), second.Substitutions().Entries())
	assert.Equal(t, first.Features().List(), second.Features().List())

	h1, err := first.Snapshot().Hash()
	require.NoError(t, err)
	h2, err := second.Snapshot().Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestSnapshot_HashChangesWithBuildType(t *testing.T) {
	debug, err := Setup(context.Background(), testConfig(t, nil), Options{SkipProbes: true})
	require.NoError(t, err)
	release, err := Setup(context.Background(), testConfig(t, config.Params{config.ParamBuildType: "Release"}), Options{SkipProbes: true})
	require.NoError(t, err)

	h1, err := debug.Snapshot().Hash()
	require.NoError(t, err)
	h2, err := release.Snapshot().Hash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestSnapshot_Scalars(t *testing.T) {
	s, err := Setup(context.Background(), testConfig(t, nil), Options{SkipProbes: true})
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, "VAST", snap.Name)
	assert.Equal(t, filepath.Join("/src", "test"), snap.TestSourceRoot)
	assert.Equal(t, filepath.Join("/obj", "test"), snap.TestExecRoot)
	assert.Equal(t, "Debug", snap.BuildType)
	assert.Equal(t, map[string]string{"HOME": "/home/dev"}, snap.Environment)
	assert.Equal(t, []string{"clang"}, snap.Features)

	data, err := snap.Canonical()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"build_type":"Debug"`)
	assert.Contains(t, string(data), `"token":"%check-hl-dce"`)
}

func TestSnapshot_DoesNotAliasConfig(t *testing.T) {
	s, err := Setup(context.Background(), testConfig(t, nil), Options{SkipProbes: true})
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Suffixes[0] = ".changed"
	snap.Excludes[0] = "changed"
	snap.Environment["HOME"] = "/changed"

	again := s.Snapshot()
	assert.Equal(t, config.DefaultSuffixes, again.Suffixes)
	assert.Equal(t, config.DefaultExcludes, again.Excludes)
	assert.Equal(t, "/home/dev", again.Environment["HOME"])
}

func TestSnapshot_InvalidUTF8PathsDoNotHash(t *testing.T) {
	site := &config.Site{SrcRoot: "/src/\xff", ObjRoot: "/obj", HostCC: "clang"}
	s, err := Setup(context.Background(), config.New(site, nil, func(string) (string, bool) { return "", false }), Options{SkipProbes: true})
	require.NoError(t, err)

	_, err = s.Snapshot().Hash()
	assert.ErrorIs(t, err, canon.ErrInvalidUTF8)
}
