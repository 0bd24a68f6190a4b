package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gersonkurz/regkit/internal/regtext"
	"github.com/gersonkurz/regkit/internal/winreg"
)

var (
	exportFormat string
	exportStdout bool
)

func init() {
	cmd := newExportCmd()
	cmd.Flags().StringVar(&exportFormat, "format", "5", "Output dialect (4 = REGEDIT4, 5 = Version 5.00)")
	cmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write to stdout instead of file")
	rootCmd.AddCommand(cmd)
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <hive-path> [output.reg]",
		Short: "Export a live registry subtree to .reg format",
		Long: `The export command reads a subtree of the live registry and writes it as
a .reg file. Hive names accept both long and short spellings
(HKEY_LOCAL_MACHINE or HKLM).

Example:
  regctl export "HKCU\Software\MyApp" myapp.reg
  regctl export "HKLM\SOFTWARE\Vendor" vendor.reg --format 4
  regctl export "HKCU\Environment" --stdout`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args)
		},
	}
	return cmd
}

func runExport(args []string) error {
	keyPath := args[0]
	var outputPath string
	if len(args) > 1 {
		outputPath = args[1]
	}

	if outputPath != "" && exportStdout {
		return fmt.Errorf("cannot specify both output file and --stdout")
	}
	if outputPath == "" && !exportStdout {
		return fmt.Errorf("must specify output file or use --stdout")
	}

	dialect, err := dialectFromFormat(exportFormat)
	if err != nil {
		return err
	}

	printVerbose("Reading live registry: %s\n", keyPath)
	root, complete, err := winreg.ImportKey(keyPath)
	if err != nil {
		return err
	}
	if !complete {
		printError("some keys or values could not be read; output is partial\n")
	}

	buf, err := regtext.Export(root, dialect, configuredExportOptions())
	if err != nil {
		return err
	}

	if exportStdout {
		_, err = os.Stdout.Write(buf)
		return err
	}
	if err := outputSink(outputPath).Write(buf); err != nil {
		return err
	}

	keys, values := countTree(root)
	if jsonOut {
		return printJSON(map[string]interface{}{
			"key":      keyPath,
			"output":   outputPath,
			"format":   exportFormat,
			"keys":     keys,
			"values":   values,
			"complete": complete,
		})
	}
	printInfo("Exported %s to %s (%d keys, %d values)\n", keyPath, outputPath, keys, values)
	return nil
}
