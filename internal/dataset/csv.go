package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/gradebook-analyzer/gradebook/internal/gradebook"
)

// DefaultUnknownName replaces a blank name column.
const DefaultUnknownName = "<Unknown>"

// SkipReason says why a row did not produce a ScoreRecord.
type SkipReason string

const (
	SkipTooFewColumns SkipReason = "too-few-columns"
	SkipInvalidScore  SkipReason = "invalid-score"
	SkipHeader        SkipReason = "header"
)

// Options controls row parsing.
type Options struct {
	// DetectHeader treats the first non-blank row as a header when its
	// second cell is not a number.
	DetectHeader bool
	// UnknownName replaces an empty name. Empty keeps the blank name.
	UnknownName string
	// Sheet selects the worksheet for .xlsx sources. Empty means the first.
	Sheet string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{DetectHeader: true, UnknownName: DefaultUnknownName}
}

// SkippedRow records a row that was not turned into a ScoreRecord.
type SkippedRow struct {
	Line   int        `json:"line"`
	Cells  []string   `json:"cells"`
	Reason SkipReason `json:"reason"`
}

// LoadResult is the outcome of reading one source.
type LoadResult struct {
	Records        []gradebook.ScoreRecord `json:"records"`
	Skipped        []SkippedRow            `json:"skipped,omitempty"`
	Warnings       []string                `json:"warnings,omitempty"`
	HeaderDetected bool                    `json:"header_detected"`
	// Missing is set when the source file did not exist.
	Missing bool `json:"missing,omitempty"`
}

// Empty reports whether no record was parsed.
func (r *LoadResult) Empty() bool {
	return r == nil || len(r.Records) == 0
}

func (r *LoadResult) warn(msg string, attrs ...any) {
	slog.Debug(msg, attrs...)
	r.Warnings = append(r.Warnings, msg)
}

func (r *LoadResult) skip(row rawRow, reason SkipReason, msg string) {
	r.Skipped = append(r.Skipped, SkippedRow{Line: row.line, Cells: row.cells, Reason: reason})
	r.warn(fmt.Sprintf("line %d: %s: %v", row.line, msg, row.cells), "line", row.line, "reason", string(reason))
}

var errEmptyScore = errors.New("score is empty")

// ParseScore parses a trimmed score cell as a finite floating-point number.
func ParseScore(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmptyScore
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid score %q: not a finite number", s)
	}
	return v, nil
}

// IsBlankRow reports whether cells is empty or holds only whitespace.
func IsBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseRow turns one row into a ScoreRecord, or returns the reason it was
// skipped.
func ParseRow(cells []string, line int, opts Options) (gradebook.ScoreRecord, *SkippedRow) {
	if len(cells) < 2 {
		return gradebook.ScoreRecord{}, &SkippedRow{Line: line, Cells: cells, Reason: SkipTooFewColumns}
	}
	score, err := ParseScore(cells[1])
	if err != nil {
		return gradebook.ScoreRecord{}, &SkippedRow{Line: line, Cells: cells, Reason: SkipInvalidScore}
	}
	name := strings.TrimSpace(cells[0])
	if name == "" {
		name = opts.UnknownName
	}
	return gradebook.ScoreRecord{Name: name, Score: score, Line: line}, nil
}

type rawRow struct {
	line  int
	cells []string
}

// Read parses CSV rows from r. Malformed rows are skipped with a warning and
// never abort the read; only I/O and quoting errors are returned.
func Read(r io.Reader, opts Options) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var rows []rawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: parse: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, rawRow{line: line, cells: record})
	}

	return parseRows(rows, opts), nil
}

// parseRows applies header detection and per-row validation.
func parseRows(rows []rawRow, opts Options) *LoadResult {
	res := &LoadResult{}
	seenFirst := false

	for _, row := range rows {
		if IsBlankRow(row.cells) {
			continue
		}
		if !seenFirst {
			seenFirst = true
			if len(row.cells) < 2 {
				res.skip(row, SkipTooFewColumns, "CSV must have at least two columns: name, score")
				continue
			}
			if opts.DetectHeader {
				if _, err := ParseScore(row.cells[1]); err != nil {
					res.HeaderDetected = true
					res.skip(row, SkipHeader, "treating first row as header")
					continue
				}
			}
		}

		rec, skipped := ParseRow(row.cells, row.line, opts)
		if skipped != nil {
			switch skipped.Reason {
			case SkipTooFewColumns:
				res.skip(row, skipped.Reason, "skipping malformed row (fewer than 2 columns)")
			default:
				res.skip(row, skipped.Reason, "skipping row with invalid score")
			}
			continue
		}
		res.Records = append(res.Records, rec)
	}

	if !seenFirst {
		res.warn("CSV is empty")
	}
	return res
}
