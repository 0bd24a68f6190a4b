package winreg

import (
	"go.uber.org/zap"

	"github.com/gersonkurz/regkit/internal/logging"
	"github.com/gersonkurz/regkit/pkg/regtree"
	"github.com/gersonkurz/regkit/pkg/types"
)

// Applier abstracts live-registry mutation for the registry export
// backend, so the walk logic is testable off-Windows.
type Applier interface {
	// CreateKey ensures the key at path exists.
	CreateKey(path string) error
	// SetValue writes one value (native encoding) under the key at path.
	SetValue(path string, v *regtree.Value) error
	// DeleteValue removes one value; deleting an absent value succeeds.
	DeleteValue(path, name string) error
	// DeleteTree removes the key at path and its whole subtree.
	DeleteTree(path string) bool
}

// ApplyTree runs the shared recursive tree walk against the live
// registry: remove-flagged keys are deleted recursively, everything else
// is created and written in place. Individual failures are logged and do
// not abort the rest; the result is the aggregate success flag.
func ApplyTree(a Applier, root *regtree.Key, opts types.ExportOptions) bool {
	return regtree.Export(root, opts, &applyVisitor{a: a})
}

// applyVisitor is the live-registry back end of the shared tree walk.
type applyVisitor struct {
	a Applier
}

func (av *applyVisitor) VisitKey(k *regtree.Key) bool {
	if err := av.a.CreateKey(k.Path()); err != nil {
		logging.Warn("cannot create key", zap.String("key", k.Path()), zap.Error(err))
		return false
	}
	return true
}

func (av *applyVisitor) VisitRemovedKey(k *regtree.Key) bool {
	return av.a.DeleteTree(k.Path())
}

func (av *applyVisitor) LeaveKey(k *regtree.Key) {}

func (av *applyVisitor) VisitValue(k *regtree.Key, v *regtree.Value) bool {
	if v.Removed() {
		if err := av.a.DeleteValue(k.Path(), v.Name()); err != nil {
			logging.Warn("cannot delete value",
				zap.String("key", k.Path()), zap.String("value", v.Name()), zap.Error(err))
			return false
		}
		return true
	}
	if v.Type().IsEscaped() {
		// Placeholder values have no decoded payload to write.
		logging.Warn("skipping variable placeholder value",
			zap.String("key", k.Path()), zap.String("value", v.Name()))
		return false
	}
	if err := av.a.SetValue(k.Path(), v); err != nil {
		logging.Warn("cannot set value",
			zap.String("key", k.Path()), zap.String("value", v.Name()), zap.Error(err))
		return false
	}
	return true
}
