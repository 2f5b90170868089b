package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadFile_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")

	res, err := LoadFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, res.Missing)
	assert.True(t, res.Empty())
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "file not found")
}

func TestLoadFile_EmptyCSV(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "empty.csv", "")

	res, err := LoadFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.False(t, res.Missing)
	assert.Equal(t, []string{"CSV is empty"}, res.Warnings)
}

func TestLoadFile_PlainCSV(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "grades.csv", "name,score\nAlice,85\nBob,92\n")

	res, err := LoadFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, names(res.Records))
	assert.True(t, res.HeaderDetected)
}

func TestLoadFile_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte("Alice,85\nBob,not_a_number\nCharlie,78\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	res, err := LoadFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Charlie"}, names(res.Records))
	assert.Len(t, res.Skipped, 1)
}

func TestLoadFile_Zstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.csv.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = zw.Write([]byte("Alice,85\nBob,60\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	res, err := LoadFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, names(res.Records))
}

func TestLoadFile_CorruptGzip(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "bad.csv.gz", "not gzip at all")

	_, err := LoadFile(path, DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func writeXLSX(t *testing.T, path string, sheet string, rows [][]any) {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close() //nolint:errcheck
	if sheet != "Sheet1" {
		_, err := wb.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, wb.SaveAs(path))
}

func TestLoadFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.xlsx")
	writeXLSX(t, path, "Sheet1", [][]any{
		{"Name", "Score"},
		{"Alice", 85},
		{"Bob", "oops"},
		{"Charlie", 78.5},
	})

	res, err := LoadFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, res.HeaderDetected)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "Alice", res.Records[0].Name)
	assert.Equal(t, 85.0, res.Records[0].Score)
	assert.Equal(t, 78.5, res.Records[1].Score)
	assert.Equal(t, 4, res.Records[1].Line)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, SkipInvalidScore, res.Skipped[1].Reason)
}

func TestLoadFile_XLSXStyledScoresUseStoredValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styled.xlsx")
	wb := excelize.NewFile()
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]any{"Alice", 92.5}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A2", &[]any{"Bob", 0.855}))
	integer, err := wb.NewStyle(&excelize.Style{NumFmt: 1})
	require.NoError(t, err)
	percent, err := wb.NewStyle(&excelize.Style{NumFmt: 9})
	require.NoError(t, err)
	require.NoError(t, wb.SetCellStyle("Sheet1", "B1", "B1", integer))
	require.NoError(t, wb.SetCellStyle("Sheet1", "B2", "B2", percent))
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	res, err := LoadFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 92.5, res.Records[0].Score)
	assert.Equal(t, 0.855, res.Records[1].Score)
}

func TestLoadFile_XLSXNamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.xlsx")
	writeXLSX(t, path, "Midterm", [][]any{{"Dana", 74}})

	opts := DefaultOptions()
	opts.Sheet = "Midterm"
	res, err := LoadFile(path, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dana"}, names(res.Records))

	opts.Sheet = "Final"
	_, err = LoadFile(path, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `read sheet "Final"`)
}
