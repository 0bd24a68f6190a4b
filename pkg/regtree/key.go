// Package regtree implements the in-memory registry key/value tree that
// every importer produces and every exporter consumes. A tree has exactly
// one root; a node owns its subkeys and values outright. The parent
// back-reference exists only so a node can reconstruct its full path.
package regtree

import (
	"sort"
	"strings"
)

// PathSeparator is the backslash separating registry path segments.
const PathSeparator = "\\"

// RemovePrefix marks a key path for deletion when it leads a path handed
// to FindOrCreateKey, mirroring the .reg "[-path]" syntax.
const RemovePrefix = "-"

// Key is a node in a registry tree. Subkey and value names are compared
// case-insensitively but displayed in their original spelling.
type Key struct {
	name         string
	parent       *Key
	subkeys      map[string]*Key // lowercased name -> child
	values       map[string]*Value
	defaultValue *Value
	removed      bool
}

// NewRoot creates an empty, unnamed tree root.
func NewRoot() *Key {
	return &Key{
		subkeys: make(map[string]*Key),
		values:  make(map[string]*Value),
	}
}

// Name returns the display name of the key ("" for an unnamed root).
func (k *Key) Name() string { return k.name }

// Parent returns the owning key, or nil for the root.
func (k *Key) Parent() *Key { return k.parent }

// Removed reports whether the key is marked for deletion.
func (k *Key) Removed() bool { return k.removed }

// MarkRemoved flags the key for deletion.
func (k *Key) MarkRemoved() { k.removed = true }

// Path returns the backslash-joined chain of names from the root down to
// this key. An unnamed root contributes nothing.
func (k *Key) Path() string {
	var segments []string
	for n := k; n != nil; n = n.parent {
		if n.name != "" {
			segments = append(segments, n.name)
		}
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, PathSeparator)
}

// FindOrCreateKey resolves path relative to this key, creating any missing
// intermediate keys. A leading "-" on the original path sets the
// remove-flag on the final resolved node only, after full traversal.
func (k *Key) FindOrCreateKey(path string) *Key {
	remove := strings.HasPrefix(path, RemovePrefix)
	if remove {
		path = path[len(RemovePrefix):]
	}
	node := k
	for _, segment := range splitPath(path) {
		node = node.FindOrCreateSubkey(segment)
	}
	if remove && node != k {
		node.removed = true
	}
	return node
}

// FindKey resolves path without creating anything. Returns nil when any
// segment is missing.
func (k *Key) FindKey(path string) *Key {
	node := k
	for _, segment := range splitPath(path) {
		node = node.subkeys[strings.ToLower(segment)]
		if node == nil {
			return nil
		}
	}
	return node
}

// FindOrCreateSubkey looks up or inserts a single direct child by name,
// case-insensitively, preserving the first-seen spelling. Unlike
// FindOrCreateKey the name is taken verbatim: no path splitting and no
// remove-prefix handling, so callers holding names from outside the .reg
// grammar (live enumeration, user input) can use it safely.
func (k *Key) FindOrCreateSubkey(name string) *Key {
	lower := strings.ToLower(name)
	if child, ok := k.subkeys[lower]; ok {
		return child
	}
	child := &Key{
		name:    name,
		parent:  k,
		subkeys: make(map[string]*Key),
		values:  make(map[string]*Value),
	}
	k.subkeys[lower] = child
	return child
}

// FindOrCreateValue returns the value with the given name, creating an
// empty one if missing. The empty name routes to the lazily allocated
// default-value slot.
func (k *Key) FindOrCreateValue(name string) *Value {
	if name == "" {
		if k.defaultValue == nil {
			k.defaultValue = NewValue("")
		}
		return k.defaultValue
	}
	lower := strings.ToLower(name)
	if v, ok := k.values[lower]; ok {
		return v
	}
	v := NewValue(name)
	k.values[lower] = v
	return v
}

// Value returns the named value or nil. The empty name returns the default
// value slot (which may be nil).
func (k *Key) Value(name string) *Value {
	if name == "" {
		return k.defaultValue
	}
	return k.values[strings.ToLower(name)]
}

// DefaultValue returns the default value slot, or nil if never assigned.
func (k *Key) DefaultValue() *Value { return k.defaultValue }

// Subkey returns the named child, matched case-insensitively, or nil.
func (k *Key) Subkey(name string) *Key { return k.subkeys[strings.ToLower(name)] }

// SubkeyCount returns the number of direct children.
func (k *Key) SubkeyCount() int { return len(k.subkeys) }

// ValueCount returns the number of named values (the default value is not
// counted).
func (k *Key) ValueCount() int { return len(k.values) }

// HasValues reports whether the key carries named values or a default
// value. Subkeys deliberately do not count; the no-empty-keys export skip
// relies on exactly this test.
func (k *Key) HasValues() bool {
	return len(k.values) > 0 || k.defaultValue != nil
}

// SubkeyNames returns the display names of all children sorted by their
// lowercase form, giving exporters a stable, locale-independent order.
func (k *Key) SubkeyNames() []string {
	names := make([]string, 0, len(k.subkeys))
	for _, child := range k.subkeys {
		names = append(names, child.name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// ValueNames returns the display names of all named values sorted by their
// lowercase form.
func (k *Key) ValueNames() []string {
	names := make([]string, 0, len(k.values))
	for _, v := range k.values {
		names = append(names, v.name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// Clone deep-copies the subtree rooted at k, including all values and
// remove-flags, attaching the copy under newParent (which may be nil).
func (k *Key) Clone(newParent *Key) *Key {
	c := &Key{
		name:    k.name,
		parent:  newParent,
		subkeys: make(map[string]*Key, len(k.subkeys)),
		values:  make(map[string]*Value, len(k.values)),
		removed: k.removed,
	}
	if k.defaultValue != nil {
		c.defaultValue = k.defaultValue.clone()
	}
	for lower, v := range k.values {
		c.values[lower] = v.clone()
	}
	for lower, child := range k.subkeys {
		c.subkeys[lower] = child.Clone(c)
	}
	return c
}

// PromoteSingleChild returns the only child detached as a standalone root
// when k has exactly one subkey, no named values, and no default value;
// otherwise k is returned unchanged. The text importer uses this to
// normalize trees whose .reg content was rooted at a single hive path.
func (k *Key) PromoteSingleChild() *Key {
	if len(k.subkeys) != 1 || len(k.values) != 0 || k.defaultValue != nil {
		return k
	}
	for _, child := range k.subkeys {
		child.parent = nil
		return child
	}
	return k
}

// splitPath splits a registry path into its non-empty segments.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	var segments []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == PathSeparator[0] {
			if i > start {
				segments = append(segments, path[start:i])
			}
			start = i + 1
		}
	}
	if start < len(path) {
		segments = append(segments, path[start:])
	}
	return segments
}
