package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/stretchr/testify/require"

	"github.com/gersonkurz/regkit/internal/regtext"
	"github.com/gersonkurz/regkit/pkg/regtree"
	"github.com/gersonkurz/regkit/pkg/types"
)

// writeRegFile emits tree as a .reg file in the given dialect and returns
// its path.
func writeRegFile(t *testing.T, dir, name string, tree *regtree.Key, d regtext.Dialect) string {
	t.Helper()
	buf, err := regtext.Export(tree, d, types.ExportOptions{})
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

// parseRegFile reads a .reg file back into a tree, failing the test on
// any parse error.
func parseRegFile(t *testing.T, path string) *regtree.Key {
	t.Helper()
	tree, err := regtext.ParseFile(path, types.ImportOptions{})
	require.NoError(t, err)
	return tree
}

// parseCmd returns a throwaway command carrying the shared parse flags,
// for calling run functions directly.
func parseCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	registerParseFlags(cmd)
	return cmd
}
