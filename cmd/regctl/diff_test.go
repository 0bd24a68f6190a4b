package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gersonkurz/regkit/internal/regtext"
	"github.com/gersonkurz/regkit/pkg/regtree"
	"github.com/gersonkurz/regkit/pkg/types"
)

func TestRunDiffProducesPatch(t *testing.T) {
	dir := t.TempDir()

	older := regtree.NewRoot()
	ok := older.FindOrCreateKey(`HKEY_CURRENT_USER\Software\App`)
	ok.FindOrCreateValue("Keep").SetDWORD(1)
	ok.FindOrCreateValue("Gone").SetString("old")

	newer := regtree.NewRoot()
	nk := newer.FindOrCreateKey(`HKEY_CURRENT_USER\Software\App`)
	nk.FindOrCreateValue("Keep").SetDWORD(1)
	nk.FindOrCreateValue("Added").SetString("new")

	a := writeRegFile(t, dir, "older.reg", older, regtext.Regedit5)
	b := writeRegFile(t, dir, "newer.reg", newer, regtext.Regedit5)
	out := filepath.Join(dir, "patch.reg")

	diffFormat = "5"
	require.NoError(t, runDiff(parseCmd(t), []string{a, b, out}))

	patch := parseRegFile(t, out)
	app := patch.FindKey(`Software\App`)
	require.NotNil(t, app)
	assert.Nil(t, app.Value("Keep"), "unchanged values stay out of the patch")
	require.NotNil(t, app.Value("Added"))
	assert.Equal(t, "new", app.Value("Added").String(""))
	require.NotNil(t, app.Value("Gone"))
	assert.True(t, app.Value("Gone").Removed())
}

func TestRunDiffIdenticalFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeRegFile(t, dir, "a.reg", sampleTree(), regtext.Regedit5)
	b := writeRegFile(t, dir, "b.reg", sampleTree(), regtext.Regedit5)
	out := filepath.Join(dir, "patch.reg")

	diffFormat = "5"
	require.NoError(t, runDiff(parseCmd(t), []string{a, b, out}))

	// the patch has a header and nothing else
	data, err := regtext.ParseFile(out, types.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, data.SubkeyCount())
	assert.Equal(t, 0, data.ValueCount())
}

func TestRunDiffRemovedKey(t *testing.T) {
	dir := t.TempDir()

	older := regtree.NewRoot()
	older.FindOrCreateKey(`HKEY_CURRENT_USER\A`).FindOrCreateValue("x").SetDWORD(1)
	older.FindOrCreateKey(`HKEY_CURRENT_USER\B`)

	newer := regtree.NewRoot()
	newer.FindOrCreateKey(`HKEY_CURRENT_USER\A`).FindOrCreateValue("x").SetDWORD(1)

	a := writeRegFile(t, dir, "older.reg", older, regtext.Regedit5)
	b := writeRegFile(t, dir, "newer.reg", newer, regtext.Regedit5)
	out := filepath.Join(dir, "patch.reg")

	diffFormat = "5"
	require.NoError(t, runDiff(parseCmd(t), []string{a, b, out}))

	patch := parseRegFile(t, out)
	gone := patch.FindKey("B")
	require.NotNil(t, gone)
	assert.True(t, gone.Removed())
}
