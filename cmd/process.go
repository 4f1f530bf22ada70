// =============================================================================
// XER to CSV Converter - Conversion Run
// =============================================================================
//
// This file holds the run that the root command executes.
//
// PROCESSING PIPELINE:
//   1. Load configuration and set up logging
//   2. Check the input directory, create the output directory
//   3. Discover .xer files in the input tree
//   4. For each file, in walk order:
//      a. Convert it (see internal/converter)
//      b. Print its path to stdout
//   5. Optionally write a summary file
//
// Files are converted one at a time. The first failure aborts the run.
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/config"
	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/converter"
	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/logging"
	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/validation"
	"github.com/ginjaninja78/XER-to-CSV-conversion/pkg/utils"
)

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess converts every .xer file under inputDir into outputDir.
func runProcess(cmd *cobra.Command, opts *options, inputDir, outputDir string) error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	logger := logging.WithRun(logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat), runID)

	// =========================================================================
	// STEP 2: CHECK DIRECTORIES
	// =========================================================================

	files := utils.NewFileManager(inputDir, outputDir, cfg.Extension)
	files.Logger = logger

	if err := files.CheckInputDir(); err != nil {
		return err
	}

	if err := files.EnsureOutputDir(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: DISCOVER INPUT FILES
	// =========================================================================

	inputFiles, err := files.DiscoverInputFiles()
	if err != nil {
		return fmt.Errorf("failed to discover input files: %w", err)
	}

	logger.Info("discovered input files", "input", inputDir, "count", len(inputFiles))

	// =========================================================================
	// STEP 4: CONVERT FILES
	// =========================================================================

	summary := utils.ProcessingSummary{
		RunID:     runID,
		StartTime: startTime,
		InputDir:  inputDir,
		OutputDir: outputDir,
	}

	for _, path := range inputFiles {
		result := converter.New(path, files, cfg, logger).Run()
		if !result.Success {
			return fmt.Errorf("failed to process %s: %w", path, result.Error)
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)

		summary.Add(utils.ProcessedFileInfo{
			InputFile:   path,
			OutputDir:   result.OutputDir,
			Workbook:    result.Workbook,
			Sections:    result.Stats.SectionsWritten,
			Rows:        result.Stats.RowsWritten,
			Issues:      len(result.Issues),
			ProcessTime: result.Stats.ProcessingTime,
			IssueReport: validation.FormatIssues(result.Issues),
		})
	}

	summary.EndTime = time.Now()

	// =========================================================================
	// STEP 5: SUMMARY
	// =========================================================================

	if cfg.WriteSummary {
		summaryPath, err := utils.WriteSummaryLog(summary, outputDir)
		if err != nil {
			return err
		}
		logger.Info("wrote summary", "path", summaryPath)
	}

	logger.Info("run complete",
		"files", summary.TotalFiles,
		"sections", summary.TotalSections,
		"rows", summary.TotalRows,
		"issues", summary.TotalIssues,
		"elapsed", summary.EndTime.Sub(startTime),
	)

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// loadConfig loads the configuration and applies flags that were set.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	if flags.Changed("xlsx") {
		cfg.WriteXLSX = opts.writeXLSX
	}
	if flags.Changed("summary") {
		cfg.WriteSummary = opts.writeSummary
	}
	if flags.Changed("name-mode") {
		cfg.NameMode = opts.nameMode
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	return cfg, nil
}
