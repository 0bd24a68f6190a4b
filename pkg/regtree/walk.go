package regtree

import "github.com/gersonkurz/regkit/pkg/types"

// ExportVisitor is the value-writing strategy plugged into Export. The
// text dialects and the live-registry writer all implement it; Export
// itself owns ordering and the no-empty-keys skip.
type ExportVisitor interface {
	// VisitKey announces a key before its values. Returning false marks
	// the key failed; its values are skipped but the walk continues.
	VisitKey(k *Key) bool
	// VisitValue handles one value of the most recent key. The default
	// value is delivered first, the rest sorted by lowercase name.
	VisitValue(k *Key, v *Value) bool
	// LeaveKey closes a key announced by VisitKey.
	LeaveKey(k *Key)
	// VisitRemovedKey handles a remove-flagged key; no body follows.
	VisitRemovedKey(k *Key) bool
}

// Export walks the tree depth-first, keys and values sorted by lowercase
// name so output is reproducible regardless of map iteration order. It
// continues past individual visitor failures and returns the logical AND
// of all results.
func Export(root *Key, opts types.ExportOptions, vis ExportVisitor) bool {
	ok := true
	var walk func(k *Key)
	walk = func(k *Key) {
		if k.Path() != "" {
			if k.removed {
				if !vis.VisitRemovedKey(k) {
					ok = false
				}
				return
			}
			// The skip test deliberately looks at values only; a key whose
			// entire subtree is valueless is still skipped.
			if !opts.NoEmptyKeys || k.HasValues() {
				if vis.VisitKey(k) {
					if k.defaultValue != nil && !vis.VisitValue(k, k.defaultValue) {
						ok = false
					}
					for _, name := range k.ValueNames() {
						if !vis.VisitValue(k, k.Value(name)) {
							ok = false
						}
					}
					vis.LeaveKey(k)
				} else {
					ok = false
				}
			}
		}
		for _, name := range k.SubkeyNames() {
			walk(k.Subkey(name))
		}
	}
	walk(root)
	return ok
}
