// =============================================================================
// XER to CSV Converter - Converter Module
// =============================================================================
//
// This module contains the per-file conversion logic. It runs the whole
// pipeline for a single .xer file, from reading the bytes to writing one CSV
// per section.
//
// CONVERSION PIPELINE:
//   1. Read and decode the file (invalid UTF-8 becomes U+FFFD)
//   2. Create <output>/<basename>/
//   3. Parse sections one at a time
//   4. Inspect each section (warnings only)
//   5. Write each section to <section>.csv as soon as it is complete
//   6. Optionally write all sections to <basename>.xlsx
//
// FAILURES:
//   Any I/O failure stops the file immediately. CSVs already written stay on
//   disk; nothing is rolled back.
//
// =============================================================================

package converter

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/config"
	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/csvwriter"
	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/logging"
	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/types"
	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/validation"
	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/xerparser"
	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/xlsxwriter"
	"github.com/ginjaninja78/XER-to-CSV-conversion/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputDir is the directory that received the section files.
	OutputDir string

	// Files lists the CSV files written, in section order.
	Files []string

	// Workbook is the path of the XLSX workbook, if one was written.
	Workbook string

	// Issues holds the structural warnings found in the file.
	Issues []*validation.Issue

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	// This is nil if processing was successful.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// SectionsWritten is the number of CSV files written.
	SectionsWritten int

	// RowsWritten is the number of data rows across all written sections.
	RowsWritten int

	// Parse holds the parser counters for the file.
	Parse xerparser.Stats

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the conversion of a single XER file.
type Converter struct {
	// xerPath is the path to the input file.
	xerPath string

	// files knows where output goes.
	files *utils.FileManager

	// cfg is the run configuration.
	cfg *config.Config

	// logger is tagged with the input file.
	logger *slog.Logger
}

// New creates a new Converter instance.
//
// PARAMETERS:
//   - xerPath: The path to the input file.
//   - files: The file manager holding the output root.
//   - cfg: The run configuration.
//   - logger: The run logger; the file path is added to it.
func New(xerPath string, files *utils.FileManager, cfg *config.Config, logger *slog.Logger) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Converter{
		xerPath: xerPath,
		files:   files,
		cfg:     cfg,
		logger:  logging.WithFile(logger, xerPath),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{
		FilePath: c.xerPath,
		Success:  false,
	}

	fail := func(err error) Result {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(startTime)
		c.logger.Error("conversion failed", "error", err)
		return result
	}

	// =========================================================================
	// STEP 1: READ AND DECODE
	// =========================================================================

	text, err := xerparser.DecodeFile(c.xerPath)
	if err != nil {
		return fail(err)
	}

	// =========================================================================
	// STEP 2: PREPARE OUTPUT DIRECTORY
	// =========================================================================

	outputDir, err := c.files.EnsureOutputSubdir(c.xerPath)
	if err != nil {
		return fail(err)
	}
	result.OutputDir = outputDir

	// =========================================================================
	// STEP 3: PARSE, INSPECT AND WRITE SECTIONS
	// =========================================================================

	var (
		inspector = validation.NewInspector()
		nameMode  = c.cfg.SectionNameMode()
		keep      []*types.Section
	)

	parser := xerparser.NewParser(strings.NewReader(text))
	for parser.Next() {
		section := parser.Section()

		if c.cfg.InspectEnabled() {
			for _, issue := range inspector.Check(section) {
				c.logger.Warn("structural issue", "kind", issue.Kind, "detail", issue.Error())
				result.Issues = append(result.Issues, issue)
			}
		}

		path, err := csvwriter.WriteSection(outputDir, section, nameMode)
		if err != nil {
			result.Stats.Parse = parser.Stats()
			return fail(fmt.Errorf("failed to write section %q: %w", section.Name, err))
		}

		c.logger.Debug("wrote section", "section", section.Name, "rows", section.RowCount(), "path", path)

		result.Files = append(result.Files, path)
		result.Stats.SectionsWritten++
		result.Stats.RowsWritten += section.RowCount()

		if c.cfg.WriteXLSX {
			keep = append(keep, section)
		}
	}

	result.Stats.Parse = parser.Stats()
	if err := parser.Err(); err != nil {
		return fail(fmt.Errorf("failed to parse: %w", err))
	}

	if discarded := result.Stats.Parse.DiscardedLines; discarded > 0 {
		c.logger.Warn("discarded lines outside any named section", "lines", discarded)
	}

	// =========================================================================
	// STEP 4: OPTIONAL WORKBOOK
	// =========================================================================

	if len(keep) > 0 {
		workbook := filepath.Join(outputDir, utils.BaseName(c.xerPath)+".xlsx")
		if _, err := xlsxwriter.WriteWorkbook(workbook, keep); err != nil {
			return fail(fmt.Errorf("failed to write workbook: %w", err))
		}
		result.Workbook = workbook
		c.logger.Debug("wrote workbook", "path", workbook, "sheets", len(keep))
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	c.logger.Info("file converted",
		"sections", result.Stats.SectionsWritten,
		"rows", result.Stats.RowsWritten,
		"padded_rows", result.Stats.Parse.PaddedRows,
		"issues", len(result.Issues),
		"elapsed", result.Stats.ProcessingTime,
	)

	return result
}
