// =============================================================================
// XER to CSV Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - xerparser (produces sections)
//   - csvwriter / xlsxwriter (serialize sections)
//   - validation (inspects sections)
//
// =============================================================================

package types

// =============================================================================
// SECTION TYPES
// =============================================================================

// Section is one logical table of an XER file: the %T name, the %F header
// fields and every %R row that followed, in file order.
type Section struct {
	// Name is the text after the %T tag, trimmed. Never empty for a
	// section handed out by the parser.
	Name string

	// Headers holds the %F fields in order. Names are not required to be
	// unique and may be empty strings.
	Headers []string

	// Rows holds the %R records. A row is never shorter than len(Headers)
	// was when it was read; it may be longer.
	Rows []Row

	// Line is the 1-based line number of the %T tag in the source file.
	Line int
}

// Row is a single %R record, positionally aligned with the section headers.
type Row []string

// RowCount returns the number of data rows in the section.
func (s *Section) RowCount() int {
	return len(s.Rows)
}
