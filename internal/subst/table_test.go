package subst

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vastTable(t *testing.T) *Table {
	t.Helper()
	b := NewBuilder()
	b.MustRegister("%vast-cc", InTreeTool("vast-cc"))
	b.MustRegister("%vast-cc1", InTreeTool("vast-front"), "-cc1", "-internal-isystem", "-nostdsysteminc")
	b.MustRegister("%vast-front", InTreeTool("vast-front"))
	b.MustRegister("%file-check", AmbientTool("FileCheck"))
	b.MustRegister("%cc", AmbientTool("cc"))
	b.MustRegister("%PATH%", LiteralValue("/usr/bin:/bin"))
	return b.Build(testResolver())
}

func frontPath() string {
	return filepath.Join("/obj/tools", "vast-front", "Debug", "vast-front")
}

func TestApply_SimpleRunLine(t *testing.T) {
	table := vastTable(t)

	got := table.Apply("// RUN: %vast-front %s -o - | %file-check %s")
	assert.Equal(t, "// RUN: "+frontPath()+" %s -o - | FileCheck %s", got)
}

func TestApply_LongestMatchWins(t *testing.T) {
	table := vastTable(t)

	got := table.Apply("%vast-cc1 x.c")
	assert.Equal(t, frontPath()+" -cc1 -internal-isystem -nostdsysteminc x.c", got)
}

func TestApply_NoMatchInsideLongerToken(t *testing.T) {
	table := vastTable(t)

	assert.Equal(t, "%vast-ccx x.c", table.Apply("%vast-ccx x.c"))
	assert.Equal(t, "%cc_wrapper", table.Apply("%cc_wrapper"))
}

func TestApply_TokenAtEndOfText(t *testing.T) {
	table := vastTable(t)
	assert.Equal(t, "cc", table.Apply("%cc"))
}

func TestApply_NonWordEdgeToken(t *testing.T) {
	table := vastTable(t)
	assert.Equal(t, "PATH=/usr/bin:/bin:x", table.Apply("PATH=%PATH%:x"))
}

func TestApply_EmptyTable(t *testing.T) {
	table := NewBuilder().Build(testResolver())
	assert.Equal(t, "%vast-cc foo", table.Apply("%vast-cc foo"))
}

func TestApply_QuotesArguments(t *testing.T) {
	b := NewBuilder()
	b.MustRegister("%run", AmbientTool("my tool"), "a b")
	table := b.Build(testResolver())

	assert.Equal(t, `'my tool' 'a b'`, table.Apply("%run"))
}

func TestWrite_RegistrationOrder(t *testing.T) {
	b := NewBuilder()
	b.MustRegister("%z", AmbientTool("z"))
	b.MustRegister("%a", AmbientTool("a"), "-v")
	table := b.Build(testResolver())

	var buf bytes.Buffer
	require.NoError(t, table.Write(&buf))
	assert.Equal(t, "%z\tz\n%a\ta -v\n", buf.String())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "in-tree", InTree.String())
	assert.Equal(t, "ambient", Ambient.String())
	assert.Equal(t, "literal", Literal.String())
	assert.Equal(t, "kind(0)", Kind(0).String())
}
