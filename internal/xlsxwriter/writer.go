// =============================================================================
// XER to CSV Converter - XLSX Workbook Writer
// =============================================================================
//
// This module writes every section of one XER file into a single XLSX
// workbook, one worksheet per section, in file order. It is an optional
// companion to the per-section CSV files.
//
// WORKSHEET LAYOUT:
//   Row 1      : the section headers
//   Row 2..n+1 : the section rows, one per line
//
// SHEET NAMES:
//   Excel limits sheet names to 31 characters and forbids : \ / ? * [ ].
//   Those characters become underscores, long names are cut, and repeated
//   names get a " (2)", " (3)", ... suffix.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/types"
)

// MaxSheetNameLength is the longest worksheet name Excel accepts.
const MaxSheetNameLength = 31

// defaultSheet is the worksheet every new excelize workbook starts with.
const defaultSheet = "Sheet1"

// =============================================================================
// WORKBOOK WRITER
// =============================================================================

// WriteWorkbook writes sections to the workbook at path.
//
// PARAMETERS:
//   - path: The destination .xlsx file. It is overwritten if present.
//   - sections: The sections to write, in sheet order. Must not be empty.
//
// RETURNS:
//   - The sheet names used, in the same order as sections.
//   - An error if the workbook cannot be built or saved.
func WriteWorkbook(path string, sections []*types.Section) ([]string, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("no sections to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	names := SheetNames(sections)

	for i, section := range sections {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, names[i]); err != nil {
				return nil, fmt.Errorf("failed to name sheet %q: %w", names[i], err)
			}
		} else if _, err := f.NewSheet(names[i]); err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", names[i], err)
		}

		if err := writeSheet(f, names[i], section); err != nil {
			return nil, fmt.Errorf("failed to write sheet %q: %w", names[i], err)
		}
	}

	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	return names, nil
}

// writeSheet streams the header and rows of one section into a sheet.
func writeSheet(f *excelize.File, sheet string, section *types.Section) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	if err := setRow(sw, 1, section.Headers); err != nil {
		return err
	}

	for i, row := range section.Rows {
		if err := setRow(sw, i+2, row); err != nil {
			return err
		}
	}

	return sw.Flush()
}

// setRow writes values as text cells starting in column A of rowNumber.
func setRow(sw *excelize.StreamWriter, rowNumber int, values []string) error {
	if len(values) == 0 {
		return nil
	}

	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return err
	}

	cells := make([]interface{}, len(values))
	for i, value := range values {
		cells[i] = value
	}

	return sw.SetRow(cell, cells)
}

// =============================================================================
// SHEET NAMING
// =============================================================================

// SheetNames returns a unique, Excel-safe worksheet name per section.
func SheetNames(sections []*types.Section) []string {
	names := make([]string, len(sections))
	used := make(map[string]bool)

	for i, section := range sections {
		base := SheetName(section.Name)
		name := base

		// Excel compares sheet names case-insensitively.
		for n := 2; used[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncate(base, MaxSheetNameLength-len(suffix)) + suffix
		}

		used[strings.ToLower(name)] = true
		names[i] = name
	}

	return names
}

// SheetName makes a single section name usable as a worksheet name.
func SheetName(sectionName string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, sectionName)

	// Excel rejects names that start or end with an apostrophe.
	name = strings.Trim(name, "'")
	if name == "" {
		name = "_"
	}

	return truncate(name, MaxSheetNameLength)
}

// truncate cuts s to at most max runes.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
