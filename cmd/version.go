// =============================================================================
// XER to CSV Converter - Version Flag
// =============================================================================
//
// USAGE:
//   xer2csv --version
//
// OUTPUT:
//   XER to CSV Converter
//   Version:    1.0.0
//   Build Date: 2024-01-01
//   Go Version: go1.24.0
//
// The version is a flag rather than a subcommand: the root command takes two
// directory arguments, and a directory may be called "version".
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"
)

// These variables are set at build time using ldflags.
// Example build command:
//   go build -ldflags "-X 'github.com/ginjaninja78/XER-to-CSV-conversion/cmd.Version=1.0.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

// versionTemplate is the cobra template printed for --version.
func versionTemplate() string {
	return "XER to CSV Converter\n" +
		"Version:    {{.Version}}\n" +
		fmt.Sprintf("Build Date: %s\n", BuildDate) +
		fmt.Sprintf("Go Version: %s\n", runtime.Version())
}
