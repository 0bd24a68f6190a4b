// Package winreg is the live-registry access layer: hive-name resolution,
// key open/read/write/enumerate, the privilege-escalating recursive
// delete, and the importer/exporter that connect the live registry to a
// regtree. The Windows syscall surface is build-tagged; the algorithms
// (deletion ordering, tree import, tree apply) are portable and expressed
// over small backend interfaces.
package winreg

import (
	"strings"

	"github.com/gersonkurz/regkit/pkg/types"
)

// Hive is one of the fixed top-level registry roots. The handle values
// are the well-known HKEY_* pseudo-handles; they need no open/close and
// are always writable.
type Hive struct {
	Name  string // canonical name, e.g. HKEY_LOCAL_MACHINE
	Alias string // short form, e.g. HKLM ("" when none exists)

	handle  uintptr
	secName string // SE_REGISTRY_KEY object-name prefix ("" = unsupported)
}

// The ten standard hives and their five short aliases.
var hives = []Hive{
	{Name: "HKEY_CLASSES_ROOT", Alias: "HKCR", handle: 0x80000000, secName: "CLASSES_ROOT"},
	{Name: "HKEY_CURRENT_USER", Alias: "HKCU", handle: 0x80000001, secName: "CURRENT_USER"},
	{Name: "HKEY_LOCAL_MACHINE", Alias: "HKLM", handle: 0x80000002, secName: "MACHINE"},
	{Name: "HKEY_USERS", Alias: "HKU", handle: 0x80000003, secName: "USERS"},
	{Name: "HKEY_PERFORMANCE_DATA", handle: 0x80000004},
	{Name: "HKEY_CURRENT_CONFIG", Alias: "HKCC", handle: 0x80000005, secName: "CONFIG"},
	{Name: "HKEY_DYN_DATA", handle: 0x80000006},
	{Name: "HKEY_CURRENT_USER_LOCAL_SETTINGS", handle: 0x80000007},
	{Name: "HKEY_PERFORMANCE_TEXT", handle: 0x80000050},
	{Name: "HKEY_PERFORMANCE_NLSTEXT", handle: 0x80000060},
}

var hivesByName = func() map[string]*Hive {
	m := make(map[string]*Hive, len(hives)*2)
	for i := range hives {
		h := &hives[i]
		m[strings.ToLower(h.Name)] = h
		if h.Alias != "" {
			m[strings.ToLower(h.Alias)] = h
		}
	}
	return m
}()

// ResolvePath matches the leading segment of a registry path against the
// hive table, case-insensitively, and returns the hive plus the
// hive-relative remainder. An empty remainder means the hive root itself.
func ResolvePath(path string) (*Hive, string, error) {
	name := path
	rest := ""
	if i := strings.IndexByte(path, '\\'); i >= 0 {
		name = path[:i]
		rest = strings.Trim(path[i+1:], "\\")
	}
	h, ok := hivesByName[strings.ToLower(name)]
	if !ok {
		return nil, "", &types.Error{Kind: types.ErrKindNotFound, Msg: "unknown registry hive in " + path}
	}
	return h, rest, nil
}

// CanonicalPath rewrites a registry path so its hive segment uses the
// canonical long name.
func CanonicalPath(path string) (string, error) {
	h, rest, err := ResolvePath(path)
	if err != nil {
		return "", err
	}
	if rest == "" {
		return h.Name, nil
	}
	return h.Name + "\\" + rest, nil
}
