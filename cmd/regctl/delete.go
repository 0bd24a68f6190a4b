package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gersonkurz/regkit/internal/winreg"
)

var deleteForce bool

func init() {
	cmd := newDeleteCmd()
	cmd.Flags().BoolVar(&deleteForce, "force", false, "Take ownership of access-denied keys and retry")
	rootCmd.AddCommand(cmd)
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <hive-path>",
		Short: "Recursively delete a live registry key",
		Long: `The delete command removes a key and its whole subtree from the live
registry, children before parents. With --force, a key whose deletion is
denied gets its ownership taken and its ACL rewritten, then the deletion
is retried once.

Example:
  regctl delete "HKCU\Software\MyApp"
  regctl delete "HKLM\SOFTWARE\StuckDriver" --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(args)
		},
	}
	return cmd
}

func runDelete(args []string) error {
	keyPath := args[0]

	printVerbose("Deleting subtree: %s\n", keyPath)
	ok, err := winreg.DeleteKeyRecursive(keyPath, deleteForce)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("some keys under %s could not be deleted", keyPath)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"key":     keyPath,
			"force":   deleteForce,
			"deleted": true,
		})
	}
	printInfo("Deleted %s\n", keyPath)
	return nil
}
