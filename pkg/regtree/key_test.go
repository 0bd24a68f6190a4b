package regtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateKeyCreatesChain(t *testing.T) {
	root := NewRoot()
	k := root.FindOrCreateKey(`HKEY_CURRENT_USER\Software\Test`)
	require.NotNil(t, k)
	assert.Equal(t, "Test", k.Name())
	assert.Equal(t, `HKEY_CURRENT_USER\Software\Test`, k.Path())
	assert.Equal(t, 1, root.SubkeyCount())
}

func TestFindOrCreateKeyNoDuplicates(t *testing.T) {
	root := NewRoot()
	a := root.FindOrCreateKey(`A\B\C`)
	b := root.FindOrCreateKey(`A\B\C`)
	assert.Same(t, a, b)
	assert.Equal(t, 1, root.SubkeyCount())
	assert.Equal(t, 1, root.Subkey("A").SubkeyCount())
}

func TestFindOrCreateKeyCaseInsensitive(t *testing.T) {
	root := NewRoot()
	a := root.FindOrCreateKey(`Software\Vendor`)
	b := root.FindOrCreateKey(`SOFTWARE\VENDOR`)
	assert.Same(t, a, b)
	// first spelling wins for display
	assert.Equal(t, "Vendor", a.Name())
	assert.Equal(t, "Software", a.Parent().Name())
}

func TestFindOrCreateKeyRemovePrefix(t *testing.T) {
	root := NewRoot()
	k := root.FindOrCreateKey(`-A\B`)
	assert.Equal(t, "B", k.Name())
	assert.True(t, k.Removed())
	// only the final node carries the flag
	assert.False(t, root.Subkey("A").Removed())
}

func TestFindOrCreateSubkeyTakesNameVerbatim(t *testing.T) {
	root := NewRoot()
	k := root.FindOrCreateSubkey(`-Weird\Name`)
	assert.Equal(t, `-Weird\Name`, k.Name())
	assert.False(t, k.Removed())
	assert.Same(t, k, root.FindOrCreateSubkey(`-WEIRD\NAME`))
	assert.Equal(t, 1, root.SubkeyCount())
}

func TestFindKey(t *testing.T) {
	root := NewRoot()
	root.FindOrCreateKey(`A\B`)
	assert.NotNil(t, root.FindKey(`a\b`))
	assert.Nil(t, root.FindKey(`A\Missing`))
	assert.Nil(t, root.FindKey(`Missing`))
}

func TestPathSkipsAnonymousRoot(t *testing.T) {
	root := NewRoot()
	assert.Equal(t, "", root.Path())
	k := root.FindOrCreateKey(`X\Y`)
	assert.Equal(t, `X\Y`, k.Path())
}

func TestDefaultValueSlot(t *testing.T) {
	root := NewRoot()
	k := root.FindOrCreateKey("A")
	assert.Nil(t, k.DefaultValue())
	assert.Nil(t, k.Value(""))

	dv := k.FindOrCreateValue("")
	dv.SetString("default")
	assert.Same(t, dv, k.DefaultValue())
	assert.Same(t, dv, k.Value(""))
	assert.Equal(t, 0, k.ValueCount())
}

func TestValueLookupCaseInsensitive(t *testing.T) {
	root := NewRoot()
	k := root.FindOrCreateKey("A")
	v := k.FindOrCreateValue("MixedCase")
	assert.Same(t, v, k.Value("mixedcase"))
	assert.Same(t, v, k.FindOrCreateValue("MIXEDCASE"))
	assert.Equal(t, "MixedCase", v.Name())
	assert.Equal(t, 1, k.ValueCount())
}

func TestSubkeyAndValueNamesSorted(t *testing.T) {
	root := NewRoot()
	k := root.FindOrCreateKey("A")
	k.FindOrCreateKey("zeta")
	k.FindOrCreateKey("Alpha")
	k.FindOrCreateKey("beta")
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, k.SubkeyNames())

	k.FindOrCreateValue("b")
	k.FindOrCreateValue("A")
	k.FindOrCreateValue("c")
	assert.Equal(t, []string{"A", "b", "c"}, k.ValueNames())
}

func TestHasValuesIgnoresSubkeys(t *testing.T) {
	root := NewRoot()
	k := root.FindOrCreateKey("A")
	k.FindOrCreateKey("Child")
	assert.False(t, k.HasValues())

	k.FindOrCreateValue("v")
	assert.True(t, k.HasValues())

	d := root.FindOrCreateKey("B")
	d.FindOrCreateValue("").SetString("x")
	assert.True(t, d.HasValues())
}

func TestCloneIsIndependent(t *testing.T) {
	root := NewRoot()
	k := root.FindOrCreateKey(`A\B`)
	k.FindOrCreateValue("v").SetDWORD(1)
	k.MarkRemoved()

	c := root.Clone(nil)
	cb := c.FindKey(`A\B`)
	require.NotNil(t, cb)
	assert.True(t, cb.Removed())
	assert.Equal(t, uint32(1), cb.Value("v").DWORD(0))

	// mutating the clone leaves the original alone
	cb.Value("v").SetDWORD(2)
	cb.FindOrCreateKey("New")
	assert.Equal(t, uint32(1), k.Value("v").DWORD(0))
	assert.Equal(t, 0, k.SubkeyCount())
}

func TestPromoteSingleChild(t *testing.T) {
	root := NewRoot()
	root.FindOrCreateKey(`HKEY_CURRENT_USER\Software`)
	promoted := root.PromoteSingleChild()
	assert.Equal(t, "HKEY_CURRENT_USER", promoted.Name())
	assert.Nil(t, promoted.Parent())
	assert.Equal(t, "HKEY_CURRENT_USER", promoted.Path())
}

func TestPromoteSingleChildKeepsRootWithSiblings(t *testing.T) {
	root := NewRoot()
	root.FindOrCreateKey("A")
	root.FindOrCreateKey("B")
	assert.Same(t, root, root.PromoteSingleChild())
}

func TestPromoteSingleChildKeepsRootWithValues(t *testing.T) {
	root := NewRoot()
	root.FindOrCreateKey("A")
	root.FindOrCreateValue("v")
	assert.Same(t, root, root.PromoteSingleChild())
}
