package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gersonkurz/regkit/internal/regtext"
	"github.com/gersonkurz/regkit/internal/winreg"
)

var (
	importDryRun bool
	importForce  bool
)

func init() {
	cmd := newImportCmd()
	cmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and summarize without touching the registry")
	cmd.Flags().BoolVar(&importForce, "force", false, "Escalate ownership when a removal is denied")
	registerParseFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.reg>",
		Short: "Apply a .reg file to the live registry",
		Long: `The import command parses a .reg file (REGEDIT4 or Version 5.00, detected
from the header) and applies it to the live registry: plain keys and values
are created or overwritten, and "-" entries delete keys and values.

Example:
  regctl import settings.reg
  regctl import cleanup.reg --force
  regctl import settings.reg --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args)
		},
	}
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	printVerbose("Parsing: %s\n", path)
	root, err := regtext.ParseFile(path, importOptions(cmd))
	if err != nil {
		return err
	}

	keys, values := countTree(root)
	if importDryRun {
		if jsonOut {
			return printJSON(map[string]interface{}{
				"file":    path,
				"keys":    keys,
				"values":  values,
				"applied": false,
			})
		}
		printInfo("%s: %d keys, %d values (dry run, nothing applied)\n", path, keys, values)
		return nil
	}

	printVerbose("Applying %d keys, %d values\n", keys, values)
	if !winreg.Apply(root, configuredExportOptions(), importForce) {
		return fmt.Errorf("import finished with errors")
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":    path,
			"keys":    keys,
			"values":  values,
			"applied": true,
		})
	}
	printInfo("Imported %s (%d keys, %d values)\n", path, keys, values)
	return nil
}
