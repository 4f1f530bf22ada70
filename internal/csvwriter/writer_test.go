package csvwriter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/types"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	return records
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name    string
		section string
		mode    NameMode
		want    string
	}{
		{"plain", "TASK", NameModeCompat, "TASK.csv"},
		{"spaces", "PROJECT WBS", NameModeCompat, "PROJECT_WBS.csv"},
		{"compat keeps separators", "A/B", NameModeCompat, "A/B.csv"},
		{"strict replaces separators", `A/B\C`, NameModeStrict, "A_B_C.csv"},
		{"strict replaces reserved", `a:b*c?"d"<e>|f`, NameModeStrict, "a_b_c__d__e__f.csv"},
		{"strict dot dot", "..", NameModeStrict, "_.csv"},
		{"strict keeps spaces rule", "TASK PRED", NameModeStrict, "TASK_PRED.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.section, tt.mode))
		})
	}
}

func TestParseNameMode(t *testing.T) {
	mode, err := ParseNameMode("")
	require.NoError(t, err)
	assert.Equal(t, NameModeCompat, mode)

	mode, err = ParseNameMode(" Strict ")
	require.NoError(t, err)
	assert.Equal(t, NameModeStrict, mode)

	_, err = ParseNameMode("paranoid")
	assert.Error(t, err)
}

func TestWriteSection_PaddedAndWideRows(t *testing.T) {
	dir := t.TempDir()

	task := &types.Section{
		Name:    "TASK",
		Headers: []string{"id", "name"},
		Rows:    []types.Row{{"1", ""}},
	}
	path, err := WriteSection(dir, task, NameModeCompat)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "TASK.csv"), path)
	assert.Equal(t, [][]string{{"id", "name"}, {"1", ""}}, readCSV(t, path))

	rsrc := &types.Section{
		Name:    "RSRC",
		Headers: []string{"id"},
		Rows:    []types.Row{{"9", "X"}},
	}
	path, err = WriteSection(dir, rsrc, NameModeCompat)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id\n9,X\n", string(raw))
}

func TestWriteSection_Quoting(t *testing.T) {
	dir := t.TempDir()

	section := &types.Section{
		Name:    "MEMO",
		Headers: []string{"id", "text"},
		Rows:    []types.Row{{"1", `say "hi", then leave`}, {"2", "two\nlines"}},
	}
	path, err := WriteSection(dir, section, NameModeCompat)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,text\n1,\"say \"\"hi\"\", then leave\"\n2,\"two\nlines\"\n", string(raw))
	assert.Equal(t, [][]string{{"id", "text"}, {"1", `say "hi", then leave`}, {"2", "two\nlines"}}, readCSV(t, path))
}

func TestWriteSection_HeaderOnly(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteSection(dir, &types.Section{Name: "PROJECT WBS", Headers: []string{"wbs_id"}}, NameModeCompat)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "PROJECT_WBS.csv"), path)
	assert.Equal(t, [][]string{{"wbs_id"}}, readCSV(t, path))
}

func TestWriteSection_SingleEmptyField(t *testing.T) {
	dir := t.TempDir()

	section := &types.Section{
		Name:    "BLANK",
		Headers: []string{""},
		Rows:    []types.Row{{""}, {"1"}, {""}},
	}
	path, err := WriteSection(dir, section, NameModeCompat)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\"\"\n\"\"\n1\n\"\"\n", string(raw))
	assert.Equal(t, [][]string{{""}, {""}, {"1"}, {""}}, readCSV(t, path))
}

func TestWriteSection_NoHeaders(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteSection(dir, &types.Section{Name: "NOTES", Rows: []types.Row{{"a", "b"}}}, NameModeCompat)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\na,b\n", string(raw))
}

func TestWriteSection_Overwrites(t *testing.T) {
	dir := t.TempDir()
	section := &types.Section{Name: "TASK", Headers: []string{"id"}, Rows: []types.Row{{"1"}}}

	path, err := WriteSection(dir, section, NameModeCompat)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = WriteSection(dir, section, NameModeCompat)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriteSection_CreateFailure(t *testing.T) {
	dir := t.TempDir()

	_, err := WriteSection(dir, &types.Section{Name: "missing/TASK"}, NameModeCompat)
	assert.Error(t, err)

	path, err := WriteSection(dir, &types.Section{Name: "missing/TASK"}, NameModeStrict)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "missing_TASK.csv"), path)
}
