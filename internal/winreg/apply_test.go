package winreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gersonkurz/regkit/pkg/regtree"
	"github.com/gersonkurz/regkit/pkg/types"
)

// fakeApplier records all mutation calls in order.
type fakeApplier struct {
	ops     []string
	failSet map[string]bool // "path\name" -> SetValue fails
}

func (f *fakeApplier) CreateKey(path string) error {
	f.ops = append(f.ops, "create "+path)
	return nil
}

func (f *fakeApplier) SetValue(path string, v *regtree.Value) error {
	if f.failSet[path+`\`+v.Name()] {
		return types.ErrAccessDenied
	}
	f.ops = append(f.ops, "set "+path+`\`+v.Name())
	return nil
}

func (f *fakeApplier) DeleteValue(path, name string) error {
	f.ops = append(f.ops, "delval "+path+`\`+name)
	return nil
}

func (f *fakeApplier) DeleteTree(path string) bool {
	f.ops = append(f.ops, "deltree "+path)
	return true
}

func TestApplyTreeCreatesAndSets(t *testing.T) {
	root := regtree.NewRoot()
	k := root.FindOrCreateKey(`HKCU\App`)
	k.FindOrCreateValue("").SetString("default")
	k.FindOrCreateValue("Version").SetDWORD(3)
	k.FindOrCreateKey("Sub").FindOrCreateValue("x").SetString("y")

	a := &fakeApplier{}
	ok := ApplyTree(a, root, types.ExportOptions{})
	require.True(t, ok)
	assert.Equal(t, []string{
		"create HKCU",
		"create HKCU\\App",
		"set HKCU\\App\\", // default value first
		"set HKCU\\App\\Version",
		"create HKCU\\App\\Sub",
		"set HKCU\\App\\Sub\\x",
	}, a.ops)
}

func TestApplyTreeRemovals(t *testing.T) {
	root := regtree.NewRoot()
	k := root.FindOrCreateKey(`HKCU\App`)
	k.FindOrCreateValue("Old").MarkRemoved()
	root.FindOrCreateKey(`HKCU\Dead`).MarkRemoved()

	a := &fakeApplier{}
	ok := ApplyTree(a, root, types.ExportOptions{})
	require.True(t, ok)
	assert.Contains(t, a.ops, "delval HKCU\\App\\Old")
	assert.Contains(t, a.ops, "deltree HKCU\\Dead")
	assert.NotContains(t, a.ops, "create HKCU\\Dead")
}

func TestApplyTreeSkipsPlaceholders(t *testing.T) {
	root := regtree.NewRoot()
	k := root.FindOrCreateKey(`HKCU\App`)
	k.FindOrCreateValue("Port").SetEscapedDWORD("$port$")
	k.FindOrCreateValue("Real").SetDWORD(1)

	a := &fakeApplier{}
	ok := ApplyTree(a, root, types.ExportOptions{})
	assert.False(t, ok, "a skipped placeholder counts as a failure")
	assert.NotContains(t, a.ops, "set HKCU\\App\\Port")
	assert.Contains(t, a.ops, "set HKCU\\App\\Real")
}

func TestApplyTreeContinuesPastSetFailure(t *testing.T) {
	root := regtree.NewRoot()
	k := root.FindOrCreateKey(`HKCU\App`)
	k.FindOrCreateValue("a").SetDWORD(1)
	k.FindOrCreateValue("b").SetDWORD(2)

	a := &fakeApplier{failSet: map[string]bool{`HKCU\App\a`: true}}
	ok := ApplyTree(a, root, types.ExportOptions{})
	assert.False(t, ok)
	assert.Contains(t, a.ops, "set HKCU\\App\\b")
}

func TestApplyTreeNoEmptyKeys(t *testing.T) {
	root := regtree.NewRoot()
	child := root.FindOrCreateKey(`HKCU\Empty\Child`)
	child.FindOrCreateValue("v").SetDWORD(1)

	a := &fakeApplier{}
	ApplyTree(a, root, types.ExportOptions{NoEmptyKeys: true})
	assert.NotContains(t, a.ops, "create HKCU\\Empty")
	assert.Contains(t, a.ops, "create HKCU\\Empty\\Child")
}
