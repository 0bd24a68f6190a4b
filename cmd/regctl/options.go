package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gersonkurz/regkit/internal/regtext"
	"github.com/gersonkurz/regkit/internal/writer"
	"github.com/gersonkurz/regkit/pkg/regtree"
	"github.com/gersonkurz/regkit/pkg/types"
)

var (
	flagHashComments bool
	flagNoSemicolon  bool
	flagLooseSpace   bool
	flagVariables    bool
)

// outputSink builds the destination for encoded .reg output. Tests swap
// it to capture the bytes in memory instead of touching the filesystem.
var outputSink = func(path string) writer.Sink {
	return &writer.FileWriter{Path: path}
}

// registerParseFlags attaches the shared .reg parsing tolerances to a
// command that reads .reg input.
func registerParseFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagHashComments, "hash-comments", false, "Accept # line comments")
	cmd.Flags().BoolVar(&flagNoSemicolon, "no-semicolon-comments", false, "Reject ; line comments")
	cmd.Flags().BoolVar(&flagLooseSpace, "ignore-whitespace", false, "Tolerate indentation and blank lines")
	cmd.Flags().BoolVar(&flagVariables, "variables", false, "Accept $name$ placeholders in dword/qword data")
}

// importOptions layers the command-line tolerances over the config file.
func importOptions(cmd *cobra.Command) types.ImportOptions {
	opts := configuredImportOptions()
	if cmd.Flags().Changed("hash-comments") {
		opts.AllowHashComments = flagHashComments
	}
	if cmd.Flags().Changed("no-semicolon-comments") {
		opts.AllowSemicolonComments = !flagNoSemicolon
	}
	if cmd.Flags().Changed("ignore-whitespace") {
		opts.IgnoreWhitespace = flagLooseSpace
	}
	if cmd.Flags().Changed("variables") {
		opts.AllowVariableNames = flagVariables
	}
	return opts
}

// dialectFromFormat maps the --format flag to a .reg dialect.
func dialectFromFormat(s string) (regtext.Dialect, error) {
	switch s {
	case "4":
		return regtext.Regedit4, nil
	case "5", "":
		return regtext.Regedit5, nil
	}
	return 0, fmt.Errorf("unknown format %q (want 4 or 5)", s)
}

// countTree tallies keys and values of the whole subtree for summaries.
func countTree(k *regtree.Key) (keys, values int) {
	if k.Path() != "" {
		keys++
	}
	values = k.ValueCount()
	if k.DefaultValue() != nil {
		values++
	}
	for _, name := range k.SubkeyNames() {
		sk, sv := countTree(k.Subkey(name))
		keys += sk
		values += sv
	}
	return keys, values
}
