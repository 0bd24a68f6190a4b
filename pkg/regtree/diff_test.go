package regtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskToAddKeyCopiesSubtree(t *testing.T) {
	src := NewRoot()
	b := src.FindOrCreateKey(`A\B`)
	b.FindOrCreateValue("v").SetDWORD(1)
	b.FindOrCreateKey("C").FindOrCreateValue("w").SetString("x")

	dst := NewRoot()
	copied := dst.AskToAddKey(b)
	require.NotNil(t, copied)
	assert.Equal(t, `A\B`, copied.Path())
	assert.Equal(t, uint32(1), copied.Value("v").DWORD(0))
	assert.Equal(t, "x", copied.FindKey("C").Value("w").String(""))

	// never aliases: source mutation is invisible in the copy
	b.Value("v").SetDWORD(9)
	b.FindOrCreateKey("D")
	assert.Equal(t, uint32(1), copied.Value("v").DWORD(0))
	assert.Nil(t, copied.FindKey("D"))
}

func TestAskToRemoveKey(t *testing.T) {
	src := NewRoot()
	b := src.FindOrCreateKey(`A\B`)

	dst := NewRoot()
	removed := dst.AskToRemoveKey(b)
	assert.True(t, removed.Removed())
	assert.Equal(t, `A\B`, removed.Path())
	assert.False(t, b.Removed(), "source must stay unmodified")
}

func TestAskToAddValue(t *testing.T) {
	src := NewRoot()
	k := src.FindOrCreateKey(`A\B`)
	k.FindOrCreateValue("V").SetDWORD(1)

	dst := NewRoot()
	v := dst.AskToAddValue(k, "V")
	require.NotNil(t, v)
	assert.Equal(t, uint32(1), v.DWORD(0))
	assert.NotSame(t, k.Value("V"), v)

	assert.Nil(t, dst.AskToAddValue(k, "missing"))
}

func TestAskToRemoveValueLeavesSourceUnmodified(t *testing.T) {
	src := NewRoot()
	k := src.FindOrCreateKey(`A\B`)
	k.FindOrCreateValue("V").SetDWORD(1)

	dst := NewRoot()
	v := dst.AskToRemoveValue(k, "V")
	require.NotNil(t, v)
	assert.True(t, v.Removed())
	assert.False(t, k.Value("V").Removed())

	node := dst.FindKey(`A\B`)
	require.NotNil(t, node)
	assert.Same(t, v, node.Value("V"))
}

func TestAskToRemoveValueAbsentInSource(t *testing.T) {
	src := NewRoot()
	k := src.FindOrCreateKey("A")

	dst := NewRoot()
	v := dst.AskToRemoveValue(k, "gone")
	require.NotNil(t, v)
	assert.True(t, v.Removed())
	assert.Equal(t, "gone", v.Name())
}

func TestCompareAddsAndRemoves(t *testing.T) {
	older := NewRoot()
	a := older.FindOrCreateKey(`HKCU\Software\App`)
	a.FindOrCreateValue("Keep").SetDWORD(1)
	a.FindOrCreateValue("Gone").SetString("old")
	older.FindOrCreateKey(`HKCU\Software\Obsolete`)

	newer := NewRoot()
	b := newer.FindOrCreateKey(`HKCU\Software\App`)
	b.FindOrCreateValue("Keep").SetDWORD(1)
	b.FindOrCreateValue("New").SetString("fresh")
	newer.FindOrCreateKey(`HKCU\Software\Added`).FindOrCreateValue("x").SetDWORD(2)

	patch := Compare(older, newer)

	app := patch.FindKey(`HKCU\Software\App`)
	require.NotNil(t, app)
	assert.Nil(t, app.Value("Keep"), "unchanged values stay out of the patch")
	require.NotNil(t, app.Value("New"))
	assert.Equal(t, "fresh", app.Value("New").String(""))
	require.NotNil(t, app.Value("Gone"))
	assert.True(t, app.Value("Gone").Removed())

	added := patch.FindKey(`HKCU\Software\Added`)
	require.NotNil(t, added)
	assert.Equal(t, uint32(2), added.Value("x").DWORD(0))

	obsolete := patch.FindKey(`HKCU\Software\Obsolete`)
	require.NotNil(t, obsolete)
	assert.True(t, obsolete.Removed())
}

func TestCompareDetectsChangedValue(t *testing.T) {
	older := NewRoot()
	older.FindOrCreateKey("A").FindOrCreateValue("v").SetDWORD(1)
	newer := NewRoot()
	newer.FindOrCreateKey("A").FindOrCreateValue("v").SetDWORD(2)

	patch := Compare(older, newer)
	v := patch.FindKey("A").Value("v")
	require.NotNil(t, v)
	assert.False(t, v.Removed())
	assert.Equal(t, uint32(2), v.DWORD(0))
}

func TestCompareDefaultValue(t *testing.T) {
	older := NewRoot()
	older.FindOrCreateKey("A")
	newer := NewRoot()
	newer.FindOrCreateKey("A").FindOrCreateValue("").SetString("d")

	patch := Compare(older, newer)
	dv := patch.FindKey("A").DefaultValue()
	require.NotNil(t, dv)
	assert.Equal(t, "d", dv.String(""))

	// and the reverse records a removal
	reverse := Compare(newer, older)
	rdv := reverse.FindKey("A").DefaultValue()
	require.NotNil(t, rdv)
	assert.True(t, rdv.Removed())
}

func TestCompareIdenticalTreesIsEmpty(t *testing.T) {
	build := func() *Key {
		r := NewRoot()
		k := r.FindOrCreateKey(`A\B`)
		k.FindOrCreateValue("v").SetString("same")
		return r
	}
	patch := Compare(build(), build())
	assert.Equal(t, 0, patch.SubkeyCount())
}
