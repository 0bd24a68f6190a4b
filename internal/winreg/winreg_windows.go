//go:build windows

package winreg

import (
	"errors"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/gersonkurz/regkit/pkg/regtree"
	"github.com/gersonkurz/regkit/pkg/types"
)

// Key wraps an open live registry key. Hive roots use the well-known
// pseudo-handles: they are never closed and are always writable.
type Key struct {
	h        registry.Key
	path     string // full canonical path including the hive name
	isRoot   bool
	writable bool
}

// OpenRead opens the key at path with read access.
func OpenRead(path string) (*Key, error) {
	hive, rest, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	if rest == "" {
		return &Key{h: registry.Key(hive.handle), path: hive.Name, isRoot: true, writable: true}, nil
	}
	h, err := registry.OpenKey(registry.Key(hive.handle), rest, registry.READ)
	if err != nil {
		return nil, mapErr("open", path, err)
	}
	return &Key{h: h, path: hive.Name + "\\" + rest}, nil
}

// OpenWrite opens the key at path with write access, creating missing
// keys along the way.
func OpenWrite(path string) (*Key, error) {
	hive, rest, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	if rest == "" {
		return &Key{h: registry.Key(hive.handle), path: hive.Name, isRoot: true, writable: true}, nil
	}
	h, _, err := registry.CreateKey(registry.Key(hive.handle), rest, registry.ALL_ACCESS)
	if err != nil {
		return nil, mapErr("create", path, err)
	}
	return &Key{h: h, path: hive.Name + "\\" + rest, writable: true}, nil
}

// Upgrade re-opens a read-only key with write access. Handles are never
// mutated in place.
func (k *Key) Upgrade() error {
	if k.writable {
		return nil
	}
	up, err := OpenWrite(k.path)
	if err != nil {
		return err
	}
	k.Close()
	*k = *up
	return nil
}

// Path returns the full canonical path of the key.
func (k *Key) Path() string { return k.path }

// Close releases the handle. Hive roots need no close.
func (k *Key) Close() {
	if !k.isRoot {
		_ = k.h.Close()
	}
}

// mapErr wraps a registry API error with a stable kind.
func mapErr(op, path string, err error) error {
	kind := types.ErrKindState
	switch {
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		kind = types.ErrKindAccess
	case errors.Is(err, windows.ERROR_FILE_NOT_FOUND):
		kind = types.ErrKindNotFound
	}
	return &types.Error{Kind: kind, Msg: "cannot " + op + " " + path, Err: err}
}

// -----------------------------------------------------------------------------
// Public operations
// -----------------------------------------------------------------------------

// DeleteKeyRecursive deletes the key at path and its whole subtree from
// the live registry. With force, access-denied keys get one
// ownership-escalation retry each. The bool is the aggregate success of
// the individual deletions.
func DeleteKeyRecursive(path string, force bool) (bool, error) {
	canonical, err := CanonicalPath(path)
	if err != nil {
		return false, err
	}
	return deleteTree(liveDeleter{}, canonical, force), nil
}

// ImportKey reads the subtree at path into a new tree. The bool reports
// whether every key and value could be read.
func ImportKey(path string) (*regtree.Key, bool, error) {
	canonical, err := CanonicalPath(path)
	if err != nil {
		return nil, false, err
	}
	k, err := OpenRead(canonical)
	if err != nil {
		return nil, false, err
	}
	defer k.Close()

	root := regtree.NewRoot()
	node := root.FindOrCreateKey(canonical)
	ok := importInto(node, liveSource{k: k})
	return root.PromoteSingleChild(), ok, nil
}

// Apply writes a tree to the live registry: the third exporter backend.
func Apply(root *regtree.Key, opts types.ExportOptions, force bool) bool {
	return ApplyTree(liveApplier{force: force}, root, opts)
}

// -----------------------------------------------------------------------------
// Backend implementations
// -----------------------------------------------------------------------------

type liveDeleter struct{}

func (liveDeleter) SubkeyNames(path string) ([]string, error) {
	k, err := OpenRead(path)
	if err != nil {
		return nil, err
	}
	defer k.Close()
	var names []string
	it := k.Subkeys()
	for it.Next() {
		names = append(names, it.Name())
	}
	return names, it.Err()
}

func (liveDeleter) DeleteKey(path string) error {
	hive, rest, err := ResolvePath(path)
	if err != nil {
		return err
	}
	if rest == "" {
		return &types.Error{Kind: types.ErrKindState, Msg: "cannot delete hive root " + path}
	}
	if err := registry.DeleteKey(registry.Key(hive.handle), rest); err != nil {
		return mapErr("delete", path, err)
	}
	return nil
}

func (liveDeleter) TakeOwnership(path string) error {
	return takeOwnership(path)
}

type liveSource struct {
	k *Key
}

func (s liveSource) Subkeys() ([]string, error) {
	var paths []string
	it := s.k.Subkeys()
	for it.Next() {
		paths = append(paths, s.k.path+"\\"+it.Name())
	}
	return paths, it.Err()
}

func (s liveSource) Values() ([]ValueEntry, error) {
	var entries []ValueEntry
	it := s.k.Values()
	for it.Next() {
		entries = append(entries, it.Value())
	}
	return entries, it.Err()
}

func (s liveSource) OpenSubkey(path string) (Source, error) {
	k, err := OpenRead(path)
	if err != nil {
		return nil, err
	}
	return liveSource{k: k}, nil
}

func (s liveSource) Close() { s.k.Close() }

type liveApplier struct {
	force bool
}

func (liveApplier) CreateKey(path string) error {
	k, err := OpenWrite(path)
	if err != nil {
		return err
	}
	k.Close()
	return nil
}

func (liveApplier) SetValue(path string, v *regtree.Value) error {
	k, err := OpenWrite(path)
	if err != nil {
		return err
	}
	defer k.Close()
	if err := regSetValueEx(windows.Handle(k.h), v.Name(), uint32(v.Type()), v.Bytes()); err != nil {
		return mapErr("set value on", path, err)
	}
	return nil
}

func (liveApplier) DeleteValue(path, name string) error {
	k, err := OpenWrite(path)
	if err != nil {
		if types.IsKind(err, types.ErrKindNotFound) {
			return nil
		}
		return err
	}
	defer k.Close()
	err = regDeleteValue(windows.Handle(k.h), name)
	if err != nil && errors.Is(err, windows.ERROR_FILE_NOT_FOUND) {
		return nil
	}
	if err != nil {
		return mapErr("delete value on", path, err)
	}
	return nil
}

func (a liveApplier) DeleteTree(path string) bool {
	return deleteTree(liveDeleter{}, path, a.force)
}
