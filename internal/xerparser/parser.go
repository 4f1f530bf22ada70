// =============================================================================
// XER to CSV Converter - XER Parser Module
// =============================================================================
//
// This module splits the text of a Primavera P6 XER export into sections.
// An XER file holds many tables in one tab-delimited text file; each line
// starts with a two character tag:
//
//   %T <name>            : starts a new section (table)
//   %F<TAB>f1<TAB>f2...  : the field (header) names of the current section
//   %R<TAB>v1<TAB>v2...  : one data record of the current section
//
// Every other line (ERMHDR, %E, blank lines, ...) is ignored.
//
// PARSING RULES:
//   - A section is flushed when the next %T is seen and once more at end of
//     input. Sections with an empty name are never flushed, so anything that
//     appears before the first named %T is discarded.
//   - A later %F in the same section replaces the earlier one.
//   - Records shorter than the header are padded with empty fields. Longer
//     records are kept as they are.
//
// USAGE:
//   parser := xerparser.NewParser(strings.NewReader(text))
//   for parser.Next() {
//       section := parser.Section()
//       // Write the section...
//   }
//   if err := parser.Err(); err != nil {
//       return err
//   }
//
// =============================================================================

package xerparser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/types"
)

// =============================================================================
// TAGS
// =============================================================================

const (
	// TagTable starts a new section.
	TagTable = "%T"

	// TagFields carries the header names of the current section.
	TagFields = "%F"

	// TagRecord carries one data row of the current section.
	TagRecord = "%R"

	// fieldSeparator separates fields on %F and %R lines.
	fieldSeparator = "\t"
)

// =============================================================================
// PARSE STATISTICS
// =============================================================================

// Stats describes what the parser saw while reading one file.
type Stats struct {
	// Lines is the number of lines read.
	Lines int

	// Sections is the number of sections flushed.
	Sections int

	// Rows is the number of %R rows stored in flushed or open sections.
	Rows int

	// IgnoredLines counts lines without a recognised tag, blank lines included.
	IgnoredLines int

	// DiscardedLines counts %F and %R lines read while no named section was
	// open. Their content never reaches the output.
	DiscardedLines int

	// PaddedRows counts rows that were shorter than the header.
	PaddedRows int

	// WideRows counts rows that were longer than the header.
	WideRows int

	// ReplacedHeaders counts %F lines that replaced an earlier %F in the
	// same section.
	ReplacedHeaders int
}

// =============================================================================
// PARSER
// =============================================================================

// Parser reads XER text line by line and hands out finished sections.
// A Parser makes a single pass over its input and cannot be restarted.
type Parser struct {
	reader     *bufio.Reader
	lineNumber int

	// current is the open section. Its name may be empty, in which case
	// whatever it collects is dropped.
	current     *types.Section
	headersSeen bool

	section  *types.Section
	eof      bool
	finished bool
	err      error
	stats    Stats
}

// NewParser creates a parser over already decoded XER text.
func NewParser(r io.Reader) *Parser {
	return &Parser{
		reader:  bufio.NewReader(r),
		current: &types.Section{},
	}
}

// Next advances to the next finished section. It returns false when the
// input is exhausted or a read error occurred; check Err afterwards.
func (p *Parser) Next() bool {
	if p.err != nil {
		return false
	}

	for !p.eof {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			p.err = fmt.Errorf("error reading line %d: %w", p.lineNumber+1, err)
			p.section = nil
			return false
		}
		if err == io.EOF {
			p.eof = true
			if line == "" {
				break
			}
		}

		p.lineNumber++
		p.stats.Lines++

		if flushed := p.consume(line); flushed != nil {
			p.section = flushed
			return true
		}
	}

	// End of input: flush the open section exactly once.
	if !p.finished {
		p.finished = true
		if flushed := p.flush(); flushed != nil {
			p.section = flushed
			return true
		}
	}

	p.section = nil
	return false
}

// Section returns the section produced by the last successful call to Next.
// The caller owns it; the parser never touches it again.
func (p *Parser) Section() *types.Section {
	return p.section
}

// Err returns the first read error, if any.
func (p *Parser) Err() error {
	return p.err
}

// Stats returns the counters collected so far.
func (p *Parser) Stats() Stats {
	return p.stats
}

// consume applies one line to the parse state. It returns the section that
// was flushed by a %T line, or nil.
func (p *Parser) consume(raw string) *types.Section {
	line := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(line, TagTable):
		flushed := p.flush()
		p.current = &types.Section{
			Name: strings.TrimSpace(line[len(TagTable):]),
			Line: p.lineNumber,
		}
		p.headersSeen = false
		return flushed

	case strings.HasPrefix(line, TagFields):
		if p.current.Name == "" {
			p.stats.DiscardedLines++
		}
		if p.headersSeen {
			p.stats.ReplacedHeaders++
		}
		p.current.Headers = splitFields(line[len(TagFields):])
		p.headersSeen = true

	case strings.HasPrefix(line, TagRecord):
		if p.current.Name == "" {
			p.stats.DiscardedLines++
		}
		row := types.Row(splitFields(line[len(TagRecord):]))
		switch {
		case len(row) < len(p.current.Headers):
			row = padRow(row, len(p.current.Headers))
			p.stats.PaddedRows++
		case len(row) > len(p.current.Headers):
			p.stats.WideRows++
		}
		p.current.Rows = append(p.current.Rows, row)
		p.stats.Rows++

	default:
		p.stats.IgnoredLines++
	}

	return nil
}

// flush finalizes the open section. Unnamed sections are dropped.
func (p *Parser) flush() *types.Section {
	if p.current == nil || p.current.Name == "" {
		return nil
	}
	flushed := p.current
	p.current = &types.Section{}
	p.stats.Sections++
	return flushed
}

// =============================================================================
// FIELD SPLITTING
// =============================================================================

// splitFields splits the text that follows a %F or %R tag. Surrounding
// whitespace, tabs included, is trimmed first, so leading empty fields are
// dropped and the remaining fields shift left.
func splitFields(rest string) []string {
	return strings.Split(strings.TrimSpace(rest), fieldSeparator)
}

// padRow right-pads row with empty fields up to width.
func padRow(row types.Row, width int) types.Row {
	padded := make(types.Row, width)
	copy(padded, row)
	return padded
}

// =============================================================================
// CONVENIENCE FUNCTIONS
// =============================================================================

// Parse reads every section from r.
//
// RETURNS:
//   - The sections in the order their %T tags appeared.
//   - The parse statistics.
//   - An error if reading fails.
func Parse(r io.Reader) ([]*types.Section, Stats, error) {
	parser := NewParser(r)

	var sections []*types.Section
	for parser.Next() {
		sections = append(sections, parser.Section())
	}

	return sections, parser.Stats(), parser.Err()
}

// ParseString is Parse over an in-memory string.
func ParseString(text string) ([]*types.Section, Stats, error) {
	return Parse(strings.NewReader(text))
}
