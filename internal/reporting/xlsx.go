package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gradebook-analyzer/gradebook/internal/grading"
)

// Sheet names in the exported workbook.
const (
	SheetStudents = "Students"
	SheetSummary  = "Summary"
)

// WriteXLSX writes r as an Excel workbook with a Students sheet (one row per
// student) and a Summary sheet (statistics and grade distribution).
func WriteXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", SheetStudents); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	summaryIdx, err := f.NewSheet(SheetSummary)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	students := [][]any{{"Name", "Score", "Grade", "Result"}}
	for _, st := range r.Students {
		result := "pass"
		if !st.Passed {
			result = "fail"
		}
		students = append(students, []any{st.Name, st.Score, string(st.Grade), result})
	}
	if err := writeRows(f, SheetStudents, students); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetStudents, "A1", "D1", bold); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	if err := writeRows(f, SheetSummary, summaryRows(r)); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "B1", bold); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	if r.Empty() {
		f.SetActiveSheet(summaryIdx)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: writing workbook: %w", err)
	}
	return nil
}

func summaryRows(r *Report) [][]any {
	rows := [][]any{{"Metric", "Value"}}
	if r.Empty() {
		return append(rows, []any{"Status", EmptyMessage})
	}

	s := r.Summary
	rows = append(rows,
		[]any{"Students", s.Count},
		[]any{"Average", s.Average},
		[]any{"Median", s.Median},
		[]any{"Max", s.Max.Score},
		[]any{"Max students", strings.Join(s.Max.Names, ", ")},
		[]any{"Min", s.Min.Score},
		[]any{"Min students", strings.Join(s.Min.Names, ", ")},
		[]any{"Std dev", s.Spread.StdDev},
		[]any{"Pass threshold", r.PassThreshold},
		[]any{"Passed", len(r.Passed)},
		[]any{"Failed", len(r.Failed)},
	)
	if r.MeanCI != nil {
		rows = append(rows,
			[]any{"Mean CI lower", r.MeanCI.Lower},
			[]any{"Mean CI upper", r.MeanCI.Upper},
		)
	}
	for _, l := range grading.Letters {
		rows = append(rows, []any{"Grade " + string(l), r.Distribution[l]})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
