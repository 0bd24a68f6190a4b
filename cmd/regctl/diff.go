package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gersonkurz/regkit/internal/regtext"
	"github.com/gersonkurz/regkit/pkg/regtree"
)

var diffFormat string

func init() {
	cmd := newDiffCmd()
	cmd.Flags().StringVar(&diffFormat, "format", "5", "Patch dialect (4 = REGEDIT4, 5 = Version 5.00)")
	registerParseFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <older.reg> <newer.reg> [patch.reg]",
		Short: "Generate a .reg patch between two .reg files",
		Long: `The diff command compares two .reg files and emits a patch that, when
imported, transforms a registry in the older state into the newer one.
Keys and values present only in the newer file become additions; ones
present only in the older file become "-" removal entries. Without an
output file the patch goes to stdout.

Example:
  regctl diff before.reg after.reg patch.reg
  regctl diff before.reg after.reg`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args)
		},
	}
	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	olderPath, newerPath := args[0], args[1]
	var outputPath string
	if len(args) > 2 {
		outputPath = args[2]
	}

	dialect, err := dialectFromFormat(diffFormat)
	if err != nil {
		return err
	}

	opts := importOptions(cmd)
	olderTree, err := regtext.ParseFile(olderPath, opts)
	if err != nil {
		return err
	}
	newerTree, err := regtext.ParseFile(newerPath, opts)
	if err != nil {
		return err
	}

	// Rehang both under fresh unnamed roots so single-hive files compare
	// at the same level regardless of root promotion.
	older := regtree.NewRoot()
	older.AskToAddKey(olderTree)
	newer := regtree.NewRoot()
	newer.AskToAddKey(newerTree)

	patch := regtree.Compare(older, newer)
	keys, values := countTree(patch)
	printVerbose("Patch: %d keys, %d values\n", keys, values)

	buf, err := regtext.Export(patch, dialect, configuredExportOptions())
	if err != nil {
		return err
	}

	if outputPath == "" {
		_, err = os.Stdout.Write(buf)
		return err
	}
	if err := outputSink(outputPath).Write(buf); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"older":  olderPath,
			"newer":  newerPath,
			"output": outputPath,
			"keys":   keys,
			"values": values,
		})
	}
	printInfo("Wrote patch %s (%d keys, %d values)\n", outputPath, keys, values)
	return nil
}
