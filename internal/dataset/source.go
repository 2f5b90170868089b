package dataset

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/xuri/excelize/v2"
)

// LoadFile reads scores from path. The format follows the extension:
// .xlsx workbooks, .gz and .zst compressed CSV, anything else plain CSV.
//
// A missing file is not an error: it yields an empty result carrying a
// warning and Missing set.
func LoadFile(path string, opts Options) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			res := &LoadResult{Missing: true}
			res.warn(fmt.Sprintf("file not found: %s", path), "path", path)
			return res, nil
		}
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	slog.Debug("Loading scores", "path", path)

	var res *LoadResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		res, err = ReadXLSX(f, opts)
	case ".gz":
		res, err = readGzip(f, opts)
	case ".zst":
		res, err = readZstd(f, opts)
	default:
		res, err = Read(f, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("Loaded scores", "path", path, "records", len(res.Records), "skipped", len(res.Skipped))
	return res, nil
}

func readGzip(r io.Reader, opts Options) (*LoadResult, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer zr.Close() //nolint:errcheck
	return Read(zr, opts)
}

func readZstd(r io.Reader, opts Options) (*LoadResult, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer zr.Close()
	return Read(zr, opts)
}

// ReadXLSX reads the first two columns of a worksheet (opts.Sheet, or the
// first sheet) through the same row pipeline as CSV input.
func ReadXLSX(r io.Reader, opts Options) (*LoadResult, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open: %w", err)
	}
	defer wb.Close() //nolint:errcheck

	sheet := opts.Sheet
	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx: workbook has no sheets")
		}
		sheet = sheets[0]
	}

	// Raw values: number formats would otherwise round or rescale scores.
	cells, err := wb.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsx: read sheet %q: %w", sheet, err)
	}

	rows := make([]rawRow, len(cells))
	for i, c := range cells {
		rows[i] = rawRow{line: i + 1, cells: c}
	}
	return parseRows(rows, opts), nil
}
