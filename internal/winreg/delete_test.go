package winreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gersonkurz/regkit/pkg/types"
)

// fakeDeleter simulates a key tree and records every backend call.
type fakeDeleter struct {
	children map[string][]string // path -> child names
	denied   map[string]bool     // paths that report access denied
	owned    map[string]bool     // paths whose ownership was taken

	deleteCalls []string
	ownCalls    []string
}

func newFakeDeleter(children map[string][]string) *fakeDeleter {
	return &fakeDeleter{
		children: children,
		denied:   make(map[string]bool),
		owned:    make(map[string]bool),
	}
}

func (f *fakeDeleter) SubkeyNames(path string) ([]string, error) {
	return f.children[path], nil
}

func (f *fakeDeleter) DeleteKey(path string) error {
	f.deleteCalls = append(f.deleteCalls, path)
	if f.denied[path] && !f.owned[path] {
		return types.ErrAccessDenied
	}
	return nil
}

func (f *fakeDeleter) TakeOwnership(path string) error {
	f.ownCalls = append(f.ownCalls, path)
	f.owned[path] = true
	return nil
}

func TestDeleteTreeBottomUpOrder(t *testing.T) {
	d := newFakeDeleter(map[string][]string{
		`HKCU\A`:   {"B", "C"},
		`HKCU\A\B`: {"D"},
	})

	ok := deleteTree(d, `HKCU\A`, false)
	assert.True(t, ok)
	// children strictly before parents, N subkeys plus the root itself
	assert.Equal(t, []string{
		`HKCU\A\B\D`,
		`HKCU\A\B`,
		`HKCU\A\C`,
		`HKCU\A`,
	}, d.deleteCalls)
	assert.Empty(t, d.ownCalls)
}

func TestDeleteTreeAccessDeniedWithoutForce(t *testing.T) {
	d := newFakeDeleter(map[string][]string{`HKCU\A`: {"B"}})
	d.denied[`HKCU\A\B`] = true

	ok := deleteTree(d, `HKCU\A`, false)
	assert.False(t, ok)
	assert.Empty(t, d.ownCalls, "no escalation without force")
	// the parent deletion is still attempted
	assert.Contains(t, d.deleteCalls, `HKCU\A`)
}

func TestDeleteTreeForceEscalatesExactlyOnce(t *testing.T) {
	d := newFakeDeleter(map[string][]string{`HKCU\A`: {"B"}})
	d.denied[`HKCU\A\B`] = true

	ok := deleteTree(d, `HKCU\A`, true)
	assert.True(t, ok)
	assert.Equal(t, []string{`HKCU\A\B`}, d.ownCalls)
	// denied attempt, retry after ownership, then the parent
	assert.Equal(t, []string{`HKCU\A\B`, `HKCU\A\B`, `HKCU\A`}, d.deleteCalls)
}

func TestDeleteTreeForceGivesUpAfterSecondDenial(t *testing.T) {
	stubborn := &stubbornDeleter{fakeDeleter: newFakeDeleter(map[string][]string{})}
	stubborn.denied[`HKCU\Stuck`] = true

	ok := deleteTree(stubborn, `HKCU\Stuck`, true)
	assert.False(t, ok)
	assert.Equal(t, []string{`HKCU\Stuck`}, stubborn.ownCalls, "only one retry per key")
	assert.Equal(t, []string{`HKCU\Stuck`, `HKCU\Stuck`}, stubborn.deleteCalls)
}

// stubbornDeleter accepts ownership but keeps denying deletion.
type stubbornDeleter struct {
	*fakeDeleter
}

func (s *stubbornDeleter) DeleteKey(path string) error {
	s.deleteCalls = append(s.deleteCalls, path)
	if s.denied[path] {
		return types.ErrAccessDenied
	}
	return nil
}

func TestDeleteTreeNonAccessErrorIsNotEscalated(t *testing.T) {
	d := &failingDeleter{fakeDeleter: newFakeDeleter(map[string][]string{})}

	ok := deleteTree(d, `HKCU\A`, true)
	assert.False(t, ok)
	assert.Empty(t, d.ownCalls)
}

// failingDeleter fails every deletion with a non-access error.
type failingDeleter struct {
	*fakeDeleter
}

func (f *failingDeleter) DeleteKey(path string) error {
	f.deleteCalls = append(f.deleteCalls, path)
	return types.ErrNotFound
}

func TestDeleteTreeEnumerationFailureStillDeletes(t *testing.T) {
	d := &blindDeleter{fakeDeleter: newFakeDeleter(map[string][]string{})}

	ok := deleteTree(d, `HKCU\A`, false)
	require.True(t, ok)
	assert.Equal(t, []string{`HKCU\A`}, d.deleteCalls)
}

// blindDeleter cannot enumerate anything.
type blindDeleter struct {
	*fakeDeleter
}

func (b *blindDeleter) SubkeyNames(path string) ([]string, error) {
	return nil, types.ErrAccessDenied
}
