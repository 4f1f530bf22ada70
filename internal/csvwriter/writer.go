// =============================================================================
// XER to CSV Converter - CSV Writer Module
// =============================================================================
//
// This module writes one parsed XER section to one CSV file. The first record
// is the header line; every following record is one row. Quoting follows the
// usual CSV rules: fields holding a comma, a quote or a line break are quoted
// and embedded quotes are doubled. A record of one empty field is written as
// "" so it is not mistaken for a blank line.
//
// FILE NAMING:
//   <dir>/<section name>.csv, where the section name is passed through
//   FileName. Two naming modes exist:
//   - NameModeCompat : spaces become underscores, nothing else changes.
//                      "PROJECT WBS" -> "PROJECT_WBS.csv"
//   - NameModeStrict : additionally replaces path separators and characters
//                      that are reserved on common filesystems.
//
// =============================================================================

package csvwriter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/types"
)

// =============================================================================
// NAME MODES
// =============================================================================

// NameMode selects how section names are turned into file names.
type NameMode string

const (
	// NameModeCompat only replaces spaces. Names with path separators
	// still reach the filesystem unchanged.
	NameModeCompat NameMode = "compat"

	// NameModeStrict also replaces separators, reserved characters and
	// control characters, and never yields "." or "..".
	NameModeStrict NameMode = "strict"
)

// Extension is appended to every section file name.
const Extension = ".csv"

// ParseNameMode converts a configuration string into a NameMode.
func ParseNameMode(value string) (NameMode, error) {
	switch NameMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", NameModeCompat:
		return NameModeCompat, nil
	case NameModeStrict:
		return NameModeStrict, nil
	default:
		return "", fmt.Errorf("unknown name mode %q (want %q or %q)", value, NameModeCompat, NameModeStrict)
	}
}

// FileName returns the CSV file name for a section name.
func FileName(sectionName string, mode NameMode) string {
	name := strings.ReplaceAll(sectionName, " ", "_")

	if mode == NameModeStrict {
		name = strings.Map(func(r rune) rune {
			switch {
			case r < 0x20 || r == 0x7f:
				return '_'
			case strings.ContainsRune(`/\:*?"<>|`, r):
				return '_'
			}
			return r
		}, name)

		if name == "." || name == ".." {
			name = "_"
		}
	}

	return name + Extension
}

// =============================================================================
// WRITER
// =============================================================================

// WriteSection writes section to a CSV file inside dir and returns its path.
// The file is flushed and closed before WriteSection returns. An existing
// file with the same name is overwritten.
//
// PARAMETERS:
//   - dir: The directory that receives the file. It must already exist.
//   - section: The section to write.
//   - mode: How the section name is mapped to a file name.
//
// RETURNS:
//   - The path of the written file.
//   - An error if the file cannot be created or written.
func WriteSection(dir string, section *types.Section, mode NameMode) (string, error) {
	path := filepath.Join(dir, FileName(section.Name, mode))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := writeRecords(file, section); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	return path, nil
}

// writeRecords streams the header and rows through a csv.Writer.
func writeRecords(file *os.File, section *types.Section) error {
	writer := csv.NewWriter(file)

	if err := writeRecord(file, writer, section.Headers); err != nil {
		return err
	}

	for _, row := range section.Rows {
		if err := writeRecord(file, writer, row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// emptyFieldRecord is a record holding one empty field. encoding/csv would
// write it as a blank line, which reads back as no record at all.
const emptyFieldRecord = `""` + "\n"

// writeRecord writes one record. A record made of a single empty field is
// written quoted so it survives a round trip.
func writeRecord(file *os.File, writer *csv.Writer, record []string) error {
	if len(record) != 1 || record[0] != "" {
		return writer.Write(record)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	_, err := file.WriteString(emptyFieldRecord)
	return err
}
