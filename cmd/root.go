// =============================================================================
// XER to CSV Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command does
// the conversion itself and has no subcommands, so every pair of directory
// names, including "version" or "help", reaches the conversion.
//
// COBRA CLI STRUCTURE:
//   rootCmd (xer2csv <input_directory> <output_directory>)
//   xer2csv --version, xer2csv --help
//
// EXIT CODES:
//   0 : every .xer file was converted
//   1 : wrong argument count, input path is not a directory, or any I/O
//       failure during the run
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// OPTIONS
// =============================================================================

// options holds the command-line flags of one invocation.
type options struct {
	// cfgFile is the optional YAML configuration file.
	cfgFile string

	// verbose switches logging to debug level.
	verbose bool

	// logFormat overrides the configured log format.
	logFormat string

	// writeXLSX also writes one workbook per input file.
	writeXLSX bool

	// writeSummary writes a processing summary into the output root.
	writeSummary bool

	// nameMode overrides how section names become file names.
	nameMode string
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "xer2csv <input_directory> <output_directory>",
		Short: "XER to CSV Converter - Split Primavera P6 XER exports into CSV files",
		Long: `xer2csv walks the input directory tree, finds every .xer file and writes
one CSV file per XER table (section) into <output_directory>/<file name>/.

Each processed input file is printed on its own line as it completes.

Example Usage:
  xer2csv ./exports ./csv                   # Convert every .xer under ./exports
  xer2csv ./exports ./csv --xlsx            # Also write one workbook per file
  xer2csv ./exports ./csv --config my.yaml  # Use a configuration file`,

		Args:    cobra.ExactArgs(2),
		Version: Version,

		// Errors are printed once by Execute.
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid at this point; later failures are not
			// usage errors.
			cmd.SilenceUsage = true
			return runProcess(cmd, opts, args[0], args[1])
		},
	}

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&opts.cfgFile,
		"config",
		"",
		"Path to an optional YAML configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&opts.verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// ==========================================================================
	// LOCAL FLAGS
	// ==========================================================================

	rootCmd.Flags().StringVar(
		&opts.logFormat,
		"log-format",
		"",
		"Log format: text or json (default from config, else text)",
	)

	rootCmd.Flags().BoolVar(
		&opts.writeXLSX,
		"xlsx",
		false,
		"Also write <name>.xlsx with one worksheet per section",
	)

	rootCmd.Flags().BoolVar(
		&opts.writeSummary,
		"summary",
		false,
		"Write a processing summary file into the output directory",
	)

	rootCmd.Flags().StringVar(
		&opts.nameMode,
		"name-mode",
		"",
		"Section file naming: compat (spaces to underscores) or strict",
	)

	rootCmd.SetVersionTemplate(versionTemplate())

	// No subcommands: "completion" would otherwise be claimed by cobra.
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
