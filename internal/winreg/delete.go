package winreg

import (
	"go.uber.org/zap"

	"github.com/gersonkurz/regkit/internal/logging"
	"github.com/gersonkurz/regkit/pkg/types"
)

// deleter abstracts the per-key operations of the recursive delete so the
// ordering and escalation logic can be exercised on any platform.
type deleter interface {
	// SubkeyNames lists the immediate child names of the key at path.
	SubkeyNames(path string) ([]string, error)
	// DeleteKey removes a single childless key.
	DeleteKey(path string) error
	// TakeOwnership reassigns the key's owner to the caller and grants
	// full control, after enabling the required process privileges.
	TakeOwnership(path string) error
}

// deleteTree deletes the key at path and everything beneath it. The
// subtree is first enumerated depth-first into a bottom-up deletion order
// so no key is deleted before its descendants; a key whose children cannot
// be enumerated still gets a best-effort direct deletion attempt. Each
// collected key is deleted individually, with one ownership-escalation
// retry on access-denied when force is set. The result is the logical AND
// of all individual deletions.
func deleteTree(d deleter, path string, force bool) bool {
	var order []string
	var collect func(p string)
	collect = func(p string) {
		names, err := d.SubkeyNames(p)
		if err != nil {
			logging.Warn("cannot enumerate subkeys", zap.String("key", p), zap.Error(err))
		}
		for _, name := range names {
			collect(p + "\\" + name)
		}
		order = append(order, p)
	}
	collect(path)

	ok := true
	for _, p := range order {
		if !deleteOne(d, p, force) {
			ok = false
		}
	}
	return ok
}

// deleteOne deletes a single key. Access-denied with force enabled
// triggers exactly one escalation-then-retry; a second failure is final
// for this key.
func deleteOne(d deleter, path string, force bool) bool {
	err := d.DeleteKey(path)
	if err == nil {
		return true
	}
	if force && types.IsKind(err, types.ErrKindAccess) {
		if ownErr := d.TakeOwnership(path); ownErr != nil {
			logging.Warn("cannot take ownership", zap.String("key", path), zap.Error(ownErr))
		} else if err = d.DeleteKey(path); err == nil {
			return true
		}
	}
	logging.Warn("cannot delete key", zap.String("key", path), zap.Error(err))
	return false
}
