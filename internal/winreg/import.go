package winreg

import (
	"strings"

	"go.uber.org/zap"

	"github.com/gersonkurz/regkit/internal/logging"
	"github.com/gersonkurz/regkit/pkg/regtree"
	"github.com/gersonkurz/regkit/pkg/types"
)

// ValueEntry is one enumerated live-registry value in its native encoding.
type ValueEntry struct {
	Name string // "" for the default value
	Type types.RegType
	Data []byte
}

// Source is one open live key, abstracted for the importer.
type Source interface {
	// Subkeys returns the full registry paths of the immediate children.
	Subkeys() ([]string, error)
	// Values returns every value of the key, the default one as name "".
	Values() ([]ValueEntry, error)
	// OpenSubkey opens the child identified by its full path.
	OpenSubkey(path string) (Source, error)
	Close()
}

// importInto copies src's values and subtree into node. Individual
// open/enumerate failures are logged and skipped; the return value is
// false when anything was left behind.
func importInto(node *regtree.Key, src Source) bool {
	ok := true

	entries, err := src.Values()
	if err != nil {
		logging.Warn("cannot enumerate values", zap.String("key", node.Path()), zap.Error(err))
		ok = false
	}
	for _, e := range entries {
		node.FindOrCreateValue(e.Name).SetBinary(e.Type, e.Data)
	}

	paths, err := src.Subkeys()
	if err != nil {
		logging.Warn("cannot enumerate subkeys", zap.String("key", node.Path()), zap.Error(err))
		return false
	}
	for _, full := range paths {
		// Enumeration hands back full paths; the node name is the final
		// segment, taken verbatim. FindOrCreateSubkey keeps a legitimate
		// leading "-" in a live key name from being read as a removal.
		name := full
		if i := strings.LastIndexByte(full, '\\'); i >= 0 {
			name = full[i+1:]
		}
		child := node.FindOrCreateSubkey(name)
		sub, err := src.OpenSubkey(full)
		if err != nil {
			logging.Warn("cannot open subkey", zap.String("key", full), zap.Error(err))
			ok = false
			continue
		}
		if !importInto(child, sub) {
			ok = false
		}
		sub.Close()
	}
	return ok
}
