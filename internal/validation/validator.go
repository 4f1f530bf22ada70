// =============================================================================
// XER to CSV Converter - Structural Inspection Module
// =============================================================================
//
// This module looks at the shape of parsed sections and reports anything that
// will make the CSV output surprising. It does NOT check XER semantics (keys
// between tables, column data types); it only looks at structure.
//
// Issues are warnings. They are logged and counted but never stop a run and
// never change what is written.
//
// CHECKS:
//   - duplicate-section : a section name repeats within one file; the later
//                         CSV overwrites the earlier one
//   - duplicate-header  : a header name repeats within a section
//   - missing-header    : a section has no %F line
//   - wide-row          : rows carry more fields than the header
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/types"
)

// =============================================================================
// ISSUE STRUCTURE
// =============================================================================

// IssueKind names the check that produced an Issue.
type IssueKind string

const (
	KindDuplicateSection IssueKind = "duplicate-section"
	KindDuplicateHeader  IssueKind = "duplicate-header"
	KindMissingHeader    IssueKind = "missing-header"
	KindWideRow          IssueKind = "wide-row"
)

// Issue describes one structural problem in one section.
type Issue struct {
	// Kind is the check that fired.
	Kind IssueKind

	// Section is the name of the affected section.
	Section string

	// Line is the line number of the section's %T tag.
	Line int

	// Row is the 1-based row index inside the section, or 0 when the
	// issue is about the section as a whole.
	Row int

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface so issues can be wrapped or joined.
func (i *Issue) Error() string {
	if i.Row > 0 {
		return fmt.Sprintf("section %q (line %d), row %d: %s", i.Section, i.Line, i.Row, i.Message)
	}
	return fmt.Sprintf("section %q (line %d): %s", i.Section, i.Line, i.Message)
}

// =============================================================================
// INSPECTOR
// =============================================================================

// Inspector checks the sections of one file. It remembers section names so
// repeats can be reported; use a new Inspector per file.
type Inspector struct {
	seen map[string]int
}

// NewInspector creates an Inspector for one file.
func NewInspector() *Inspector {
	return &Inspector{seen: make(map[string]int)}
}

// Check inspects one section and returns the issues found, if any.
func (in *Inspector) Check(section *types.Section) []*Issue {
	var issues []*Issue

	newIssue := func(kind IssueKind, row int, format string, args ...interface{}) {
		issues = append(issues, &Issue{
			Kind:    kind,
			Section: section.Name,
			Line:    section.Line,
			Row:     row,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if firstLine, ok := in.seen[section.Name]; ok {
		newIssue(KindDuplicateSection, 0, "section already appeared at line %d; its CSV will be overwritten", firstLine)
	} else {
		in.seen[section.Name] = section.Line
	}

	if len(section.Headers) == 0 {
		newIssue(KindMissingHeader, 0, "section has no %%F header line")
	}

	if dups := duplicateHeaders(section.Headers); len(dups) > 0 {
		newIssue(KindDuplicateHeader, 0, "header names repeat: %s", strings.Join(dups, ", "))
	}

	wide, first := 0, 0
	for i, row := range section.Rows {
		if len(row) > len(section.Headers) {
			if wide == 0 {
				first = i + 1
			}
			wide++
		}
	}
	if wide > 0 {
		newIssue(KindWideRow, first, "%d row(s) have more fields than the %d header(s)", wide, len(section.Headers))
	}

	return issues
}

// duplicateHeaders returns each repeated header name once, in first-repeat order.
func duplicateHeaders(headers []string) []string {
	counts := make(map[string]int, len(headers))
	var dups []string

	for _, header := range headers {
		counts[header]++
		if counts[header] == 2 {
			dups = append(dups, fmt.Sprintf("%q", header))
		}
	}

	return dups
}

// =============================================================================
// REPORTING
// =============================================================================

// FormatIssues renders issues one per line for logs and summaries.
func FormatIssues(issues []*Issue) string {
	var b strings.Builder
	for _, issue := range issues {
		b.WriteString("  [")
		b.WriteString(string(issue.Kind))
		b.WriteString("] ")
		b.WriteString(issue.Error())
		b.WriteString("\n")
	}
	return b.String()
}
