package regtree

import "strings"

// Diff/merge composition. These are the only mutation entry points used by
// diff-generation callers: each locates (or creates) the node at the same
// path as a source node inside a destination tree and copies the source
// material in. Copies are always deep clones, so a destination tree never
// shares node or value identity with any source tree.

// AskToAddKey copies src's entire subtree into the destination tree rooted
// at k, creating the path as needed, and returns the destination node.
func (k *Key) AskToAddKey(src *Key) *Key {
	dst := k.FindOrCreateKey(src.Path())
	src.copyInto(dst)
	return dst
}

// AskToRemoveKey creates the node at src's path in the destination tree
// and marks it removed. The source tree is untouched.
func (k *Key) AskToRemoveKey(src *Key) *Key {
	dst := k.FindOrCreateKey(src.Path())
	dst.removed = true
	return dst
}

// AskToAddValue copies one value of srcKey into the destination tree at
// srcKey's path and returns the copy. A nil is returned when srcKey has no
// such value.
func (k *Key) AskToAddValue(srcKey *Key, name string) *Value {
	src := srcKey.Value(name)
	if src == nil {
		return nil
	}
	dst := k.FindOrCreateKey(srcKey.Path())
	return dst.putValue(src.clone())
}

// AskToRemoveValue records a removal of the named value of srcKey in the
// destination tree: the copied value carries the remove-flag.
func (k *Key) AskToRemoveValue(srcKey *Key, name string) *Value {
	dst := k.FindOrCreateKey(srcKey.Path())
	var copied *Value
	if src := srcKey.Value(name); src != nil {
		copied = src.clone()
	} else {
		copied = NewValue(name)
	}
	copied.removed = true
	return dst.putValue(copied)
}

// Compare builds the patch tree that transforms older into newer. Keys and
// values present only in newer become additions, ones present only in older
// become removals, and values whose type or payload differ are re-added with
// newer's content. Both inputs are left unmodified.
func Compare(older, newer *Key) *Key {
	patch := NewRoot()
	compareKeys(older, newer, patch)
	return patch
}

func compareKeys(older, newer, patch *Key) {
	for _, name := range newer.SubkeyNames() {
		nk := newer.Subkey(name)
		ok := older.Subkey(name)
		if ok == nil {
			patch.AskToAddKey(nk)
			continue
		}
		compareKeys(ok, nk, patch)
	}
	for _, name := range older.SubkeyNames() {
		if newer.Subkey(name) == nil {
			patch.AskToRemoveKey(older.Subkey(name))
		}
	}
	compareValues(older, newer, patch)
}

func compareValues(older, newer, patch *Key) {
	for _, name := range newer.ValueNames() {
		nv := newer.Value(name)
		ov := older.Value(name)
		if ov == nil || !ov.Equal(nv) {
			patch.AskToAddValue(newer, name)
		}
	}
	for _, name := range older.ValueNames() {
		if newer.Value(name) == nil {
			patch.AskToRemoveValue(older, name)
		}
	}
	nd, od := newer.DefaultValue(), older.DefaultValue()
	switch {
	case nd != nil && (od == nil || !od.Equal(nd)):
		patch.AskToAddValue(newer, "")
	case nd == nil && od != nil:
		patch.AskToRemoveValue(older, "")
	}
}

// copyInto merges k's values and subtree into dst, cloning everything.
func (k *Key) copyInto(dst *Key) {
	if k.removed {
		dst.removed = true
	}
	if k.defaultValue != nil {
		dst.defaultValue = k.defaultValue.clone()
	}
	for lower, v := range k.values {
		dst.values[lower] = v.clone()
	}
	for _, child := range k.subkeys {
		child.copyInto(dst.FindOrCreateSubkey(child.name))
	}
}

// putValue installs v under its own name, replacing any previous value in
// that slot, and returns it.
func (k *Key) putValue(v *Value) *Value {
	if v.IsDefaultValue() {
		k.defaultValue = v
		return v
	}
	k.values[strings.ToLower(v.name)] = v
	return v
}
