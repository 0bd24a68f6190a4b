package main

import (
	"github.com/spf13/cobra"

	"github.com/gersonkurz/regkit/internal/regtext"
	"github.com/gersonkurz/regkit/pkg/regtree"
)

var mergeFormat string

func init() {
	cmd := newMergeCmd()
	cmd.Flags().StringVar(&mergeFormat, "format", "5", "Output dialect (4 = REGEDIT4, 5 = Version 5.00)")
	registerParseFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <output.reg> <input.reg...>",
		Short: "Merge several .reg files into one",
		Long: `The merge command parses all input files into a single tree and writes it
back out. Later inputs win: a value set by two files keeps the content of
the one named last.

Example:
  regctl merge combined.reg base.reg overrides.reg
  regctl merge all.reg fragments/*.reg`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args)
		},
	}
	return cmd
}

func runMerge(cmd *cobra.Command, args []string) error {
	outputPath := args[0]
	inputs := args[1:]

	dialect, err := dialectFromFormat(mergeFormat)
	if err != nil {
		return err
	}

	opts := importOptions(cmd)
	merged := regtree.NewRoot()
	for _, in := range inputs {
		printVerbose("Parsing: %s\n", in)
		tree, err := regtext.ParseFile(in, opts)
		if err != nil {
			return err
		}
		merged.AskToAddKey(tree)
	}

	buf, err := regtext.Export(merged, dialect, configuredExportOptions())
	if err != nil {
		return err
	}
	if err := outputSink(outputPath).Write(buf); err != nil {
		return err
	}

	keys, values := countTree(merged)
	if jsonOut {
		return printJSON(map[string]interface{}{
			"output": outputPath,
			"inputs": inputs,
			"keys":   keys,
			"values": values,
		})
	}
	printInfo("Merged %d files into %s (%d keys, %d values)\n", len(inputs), outputPath, keys, values)
	return nil
}
