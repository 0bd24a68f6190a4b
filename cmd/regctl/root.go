package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gersonkurz/regkit/internal/logging"
	"github.com/gersonkurz/regkit/pkg/types"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "regctl",
	Short: "Read, convert, diff, and apply Windows .reg files",
	Long: `regctl is a tool for working with Windows-registry-shaped data: the
textual .reg exchange format (both the legacy REGEDIT4 and the current
Version 5.00 dialect) and, on Windows, the live registry. It supports
parsing, conversion between dialects, diff/patch generation, merging,
live import/export, and recursive key deletion.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// initConfig loads the optional regctl.yaml from the working directory or
// $HOME/.config/regctl. Flags always override config values.
func initConfig() {
	viper.SetConfigName("regctl")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "regctl"))
	}
	viper.SetDefault("log_level", "")
	viper.SetDefault("import.allow_hash_comments", false)
	viper.SetDefault("import.allow_semicolon_comments", true)
	viper.SetDefault("import.ignore_whitespace", false)
	viper.SetDefault("import.allow_variable_names", false)
	viper.SetDefault("export.no_empty_keys", false)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			printError("bad config file: %v\n", err)
		}
	}
	if err := logging.Initialize(viper.GetString("log_level")); err != nil {
		printError("%v\n", err)
	}
}

// configuredImportOptions returns the import tolerances from the config
// file; per-command flags are layered on top by the callers.
func configuredImportOptions() types.ImportOptions {
	return types.ImportOptions{
		AllowHashComments:      viper.GetBool("import.allow_hash_comments"),
		AllowSemicolonComments: viper.GetBool("import.allow_semicolon_comments"),
		IgnoreWhitespace:       viper.GetBool("import.ignore_whitespace"),
		AllowVariableNames:     viper.GetBool("import.allow_variable_names"),
	}
}

func configuredExportOptions() types.ExportOptions {
	return types.ExportOptions{
		NoEmptyKeys: viper.GetBool("export.no_empty_keys"),
	}
}

func execute() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
