// =============================================================================
// XER to CSV Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the XER to CSV Converter CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   xer2csv <input_directory> <output_directory>  - Convert every .xer file
//   xer2csv version                               - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Parsing, writing and conversion logic
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/XER-to-CSV-conversion/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
