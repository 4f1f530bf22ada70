package xerparser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/types"
)

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func TestParse_PadsShortRowsAndKeepsWideRows(t *testing.T) {
	text := lines(
		"%T TASK",
		"%F\tid\tname",
		"%R\t1",
		"%T RSRC",
		"%F\tid",
		"%R\t9\tX",
	)

	sections, stats, err := ParseString(text)
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Equal(t, "TASK", sections[0].Name)
	assert.Equal(t, []string{"id", "name"}, sections[0].Headers)
	assert.Equal(t, []types.Row{{"1", ""}}, sections[0].Rows)
	assert.Equal(t, 1, sections[0].Line)

	assert.Equal(t, "RSRC", sections[1].Name)
	assert.Equal(t, []string{"id"}, sections[1].Headers)
	assert.Equal(t, []types.Row{{"9", "X"}}, sections[1].Rows)
	assert.Equal(t, 4, sections[1].Line)

	assert.Equal(t, 2, stats.Sections)
	assert.Equal(t, 1, stats.PaddedRows)
	assert.Equal(t, 1, stats.WideRows)
	assert.Equal(t, 2, stats.Rows)
}

func TestParse_SectionCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "no tags",
			input: lines("ERMHDR\t8.0", "%F\ta", "%R\t1", "%E"),
			want:  nil,
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "leading unnamed section is dropped",
			input: lines("%T", "%F\ta", "%R\t1", "%T PROJECT", "%F\tb"),
			want:  []string{"PROJECT"},
		},
		{
			name:  "unnamed section in the middle is dropped",
			input: lines("%T A", "%T   ", "%R\tlost", "%T B"),
			want:  []string{"A", "B"},
		},
		{
			name:  "three sections",
			input: lines("%T A", "%F\tx", "%T B", "%F\ty", "%R\t1", "%T C", "%F\tz"),
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "no trailing newline",
			input: "%T A\n%F\tx\n%R\t1",
			want:  []string{"A"},
		},
		{
			name:  "crlf line endings",
			input: "%T PROJECT WBS\r\n%F\tx\r\n%R\t1\r\n",
			want:  []string{"PROJECT WBS"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections, _, err := ParseString(tt.input)
			require.NoError(t, err)

			var got []string
			for _, s := range sections {
				got = append(got, s.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_EmptySectionIsFlushed(t *testing.T) {
	sections, _, err := ParseString(lines("%T CALENDAR", "%F\tclndr_id\tclndr_name"))
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.Equal(t, []string{"clndr_id", "clndr_name"}, sections[0].Headers)
	assert.Empty(t, sections[0].Rows)
}

func TestParse_SectionWithoutHeaders(t *testing.T) {
	sections, _, err := ParseString(lines("%T NOTES", "%R\ta\tb", "%R\tc"))
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.Empty(t, sections[0].Headers)
	assert.Equal(t, []types.Row{{"a", "b"}, {"c"}}, sections[0].Rows)
}

func TestParse_LaterHeaderReplacesEarlier(t *testing.T) {
	sections, stats, err := ParseString(lines("%T A", "%F\tx", "%R\t1", "%F\tp\tq", "%R\t2"))
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.Equal(t, []string{"p", "q"}, sections[0].Headers)
	// Rows keep the width they were padded to when read.
	assert.Equal(t, []types.Row{{"1"}, {"2", ""}}, sections[0].Rows)
	assert.Equal(t, 1, stats.ReplacedHeaders)
}

func TestParse_FieldSplitting(t *testing.T) {
	tests := []struct {
		name string
		line string
		want types.Row
	}{
		{"leading empty field is trimmed away", "%R\t\tb\tc", types.Row{"b", "c", ""}},
		{"leading spaces are trimmed", "%R\t  x\ty", types.Row{"x", "y", ""}},
		{"leading blank field is trimmed away", "%R\t \tz", types.Row{"z", "", ""}},
		{"empty middle field", "%R\ta\t\tc", types.Row{"a", "", "c"}},
		{"inner spaces kept", "%R\ta\t b \tc", types.Row{"a", " b ", "c"}},
		{"tag only", "%R", types.Row{"", "", ""}},
		{"space after tag", "%R a\tb\tc", types.Row{"a", "b", "c"}},
		{"trailing tabs trimmed then padded", "%R\ta\t\t", types.Row{"a", "", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections, _, err := ParseString(lines("%T T", "%F\tx\ty\tz", tt.line))
			require.NoError(t, err)
			require.Len(t, sections, 1)
			require.Len(t, sections[0].Rows, 1)
			assert.Equal(t, tt.want, sections[0].Rows[0])
		})
	}
}

func TestParse_HeaderSplitting(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"leading empty header is trimmed away", "%F\t\tid", []string{"id"}},
		{"bare tag gives one empty header", "%F", []string{""}},
		{"inner empty header kept", "%F\ta\t\tb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections, _, err := ParseString(lines("%T T", tt.line))
			require.NoError(t, err)
			require.Len(t, sections, 1)
			assert.Equal(t, tt.want, sections[0].Headers)
		})
	}
}

func TestParse_IgnoredAndDiscardedLines(t *testing.T) {
	text := lines(
		"ERMHDR\t8.0\t2024-01-01",
		"%F\torphan",
		"%R\torphan",
		"",
		"%T TASK",
		"%F\tid",
		"%R\t1",
		"%E",
	)

	sections, stats, err := ParseString(text)
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.Equal(t, 8, stats.Lines)
	assert.Equal(t, 3, stats.IgnoredLines)
	assert.Equal(t, 2, stats.DiscardedLines)
}

func TestParser_SectionsAreIndependent(t *testing.T) {
	parser := NewParser(strings.NewReader(lines("%T A", "%F\tx", "%R\t1", "%T B", "%F\ty")))

	require.True(t, parser.Next())
	first := parser.Section()

	require.True(t, parser.Next())
	second := parser.Section()

	assert.False(t, parser.Next())
	assert.Nil(t, parser.Section())
	assert.NoError(t, parser.Err())

	assert.Equal(t, "A", first.Name)
	assert.Equal(t, []types.Row{{"1"}}, first.Rows)
	assert.Equal(t, "B", second.Name)
	assert.Empty(t, second.Rows)
}

type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestParser_ReadErrorStopsParsing(t *testing.T) {
	boom := errors.New("disk gone")
	parser := NewParser(&failingReader{data: []byte("%T A\n%F\tx\n"), err: boom})

	assert.False(t, parser.Next())
	require.Error(t, parser.Err())
	assert.True(t, errors.Is(parser.Err(), boom))
	assert.False(t, parser.Next())
}

func TestDecode_ReplacesInvalidBytes(t *testing.T) {
	text, err := Decode([]byte("%T TASK\n%R\tcaf\xff\n"))
	require.NoError(t, err)
	assert.Equal(t, "%T TASK\n%R\tcaf\uFFFD\n", text)

	valid, err := Decode([]byte("%R\tÜberstunden"))
	require.NoError(t, err)
	assert.Equal(t, "%R\tÜberstunden", valid)
}
