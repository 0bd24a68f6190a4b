//go:build !windows

package winreg

import (
	"github.com/gersonkurz/regkit/pkg/regtree"
	"github.com/gersonkurz/regkit/pkg/types"
)

// The text-parsing, tree, and diff/merge components are fully portable;
// only live-registry access is Windows-specific. These stubs keep the
// package buildable everywhere while reporting the limitation.

// DeleteKeyRecursive is unavailable off Windows.
func DeleteKeyRecursive(path string, force bool) (bool, error) {
	if _, err := CanonicalPath(path); err != nil {
		return false, err
	}
	return false, types.ErrUnsupported
}

// ImportKey is unavailable off Windows.
func ImportKey(path string) (*regtree.Key, bool, error) {
	if _, err := CanonicalPath(path); err != nil {
		return nil, false, err
	}
	return nil, false, types.ErrUnsupported
}

// Apply is unavailable off Windows.
func Apply(root *regtree.Key, opts types.ExportOptions, force bool) bool {
	return false
}
