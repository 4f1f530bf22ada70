// =============================================================================
// XER to CSV Converter - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the converter, including:
//   - Input directory checks
//   - Recursive discovery of .xer files
//   - Output directory management
//   - Processing summary generation
//
// OUTPUT LAYOUT:
//   <output_dir>/<input file base name>/<section>.csv
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotDirectory is returned when the input path exists but is not a directory.
var ErrNotDirectory = errors.New("the provided input path is not a directory")

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the converter.
type FileManager struct {
	// InputDir is the root of the tree that is searched for input files.
	InputDir string

	// OutputDir is the root under which per-file directories are created.
	OutputDir string

	// Extension is the input file extension without the dot, e.g. "xer".
	Extension string

	// Logger receives warnings about entries skipped during discovery.
	Logger *slog.Logger
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, extension string) *FileManager {
	return &FileManager{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Extension: extension,
		Logger:    slog.Default(),
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// CheckInputDir verifies that the input path exists and is a directory.
func (fm *FileManager) CheckInputDir() error {
	info, err := os.Stat(fm.InputDir)
	if err != nil {
		return fmt.Errorf("failed to access input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", fm.InputDir, ErrNotDirectory)
	}
	return nil
}

// EnsureOutputDir creates the output root, including parents, if missing.
func (fm *FileManager) EnsureOutputDir() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// OutputSubdir returns the directory that receives the sections of inputPath.
func (fm *FileManager) OutputSubdir(inputPath string) string {
	return filepath.Join(fm.OutputDir, BaseName(inputPath))
}

// EnsureOutputSubdir creates the per-file output directory and returns it.
func (fm *FileManager) EnsureOutputSubdir(inputPath string) (string, error) {
	dir := fm.OutputSubdir(inputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

// BaseName returns the file name of path without its final extension.
// "plan.v2.xer" gives "plan.v2".
func BaseName(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles walks the input tree and returns every regular file whose
// extension is exactly fm.Extension.
//
// RETURNS:
//   - A slice of file paths in lexical walk order.
//   - An error if the input root itself cannot be walked.
//
// NOTES:
//   - Matching is case-sensitive: "plan.XER" is skipped.
//   - Dotfiles such as ".xer" have no extension and are skipped.
//   - Symlinks to regular files are included; symlinked directories below
//     the root are not followed.
//   - Entries below the root that cannot be read are skipped with a warning.
func (fm *FileManager) DiscoverInputFiles() ([]string, error) {
	var files []string

	// A symlinked root is followed; a trailing separator makes WalkDir
	// resolve it.
	root := fm.InputDir
	if info, err := os.Lstat(root); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		root += string(filepath.Separator)
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			fm.logger().Warn("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !fm.matches(d.Name()) {
			return nil
		}

		regular, err := isRegularFile(path, d)
		if err != nil {
			fm.logger().Warn("skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		if regular {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk input directory: %w", err)
	}

	return files, nil
}

// matches reports whether name carries the wanted extension.
func (fm *FileManager) matches(name string) bool {
	ext := filepath.Ext(name)
	if ext == name {
		return false
	}
	return ext == "."+fm.Extension
}

// isRegularFile resolves symlinks before checking the file type.
func isRegularFile(path string, d fs.DirEntry) (bool, error) {
	if d.Type().IsRegular() {
		return true, nil
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (fm *FileManager) logger() *slog.Logger {
	if fm.Logger == nil {
		return slog.Default()
	}
	return fm.Logger
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	RunID          string
	StartTime      time.Time
	EndTime        time.Time
	InputDir       string
	OutputDir      string
	TotalFiles     int
	TotalSections  int
	TotalRows      int
	TotalIssues    int
	ProcessedFiles []ProcessedFileInfo
}

// ProcessedFileInfo contains information about a successfully processed file.
type ProcessedFileInfo struct {
	InputFile   string
	OutputDir   string
	Workbook    string
	Sections    int
	Rows        int
	Issues      int
	ProcessTime time.Duration

	// IssueReport lists the structural issues one per line, if any.
	IssueReport string
}

// Add records one processed file and updates the totals.
func (s *ProcessingSummary) Add(info ProcessedFileInfo) {
	s.ProcessedFiles = append(s.ProcessedFiles, info)
	s.TotalFiles++
	s.TotalSections += info.Sections
	s.TotalRows += info.Rows
	s.TotalIssues += info.Issues
}

// WriteSummaryLog writes a processing summary to a file in outputDir.
//
// PARAMETERS:
//   - summary: The processing summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	timestamp := summary.EndTime.Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("processing_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "XER to CSV Converter - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Input:          %s\n"+
		"  Output:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:    %d\n"+
		"  Total Sections: %d\n"+
		"  Total Rows:     %d\n"+
		"  Total Issues:   %d\n\n",
		summary.RunID,
		summary.InputDir,
		summary.OutputDir,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.TotalSections,
		summary.TotalRows,
		summary.TotalIssues)

	if len(summary.ProcessedFiles) > 0 {
		writer.WriteString("Processed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(writer, "  Input:        %s\n", pf.InputFile)
			fmt.Fprintf(writer, "  Output:       %s\n", pf.OutputDir)
			if pf.Workbook != "" {
				fmt.Fprintf(writer, "  Workbook:     %s\n", pf.Workbook)
			}
			fmt.Fprintf(writer, "  Sections:     %d\n", pf.Sections)
			fmt.Fprintf(writer, "  Rows:         %d\n", pf.Rows)
			fmt.Fprintf(writer, "  Issues:       %d\n", pf.Issues)
			if pf.IssueReport != "" {
				writer.WriteString(pf.IssueReport)
			}
			fmt.Fprintf(writer, "  Process Time: %s\n\n", pf.ProcessTime.String())
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close summary file: %w", err)
	}

	return summaryPath, nil
}
