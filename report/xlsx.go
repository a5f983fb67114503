package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"

	patternType    = "pattern"
	patternValue   = 1
	errorBgColor   = "FFC7CE"
	warningBgColor = "FFEB9C"
	headerBgColor  = "D9D9D9"

	// slowResponseSeconds marks passing rows that took longer than this.
	slowResponseSeconds = 1.0
)

var xlsxHeaders = []string{
	"Timestamp", "Category", "Scenario", "Description", "Method", "URL",
	"Expected", "Actual", "Response Time (s)", "Result", "Attempts", "Error",
}

var xlsxColumnWidths = []float64{20, 20, 40, 40, 9, 60, 10, 10, 18, 9, 9, 50}

// WriteXLSX writes a workbook with a results sheet, where failed rows are filled red, and a
// summary sheet.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("creating results sheet: %w", err)
	}
	if err := writeResultsSheet(f, doc); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, doc); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("saving XLSX report: %w", err)
	}
	return nil
}

func fillStyle(f *excelize.File, color string, bold bool) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: bold},
		Fill: excelize.Fill{
			Type:    patternType,
			Pattern: patternValue,
			Color:   []string{color},
		},
	})
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}, style int) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
		if style != 0 {
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeResultsSheet(f *excelize.File, doc Document) error {
	headerStyle, err := fillStyle(f, headerBgColor, true)
	if err != nil {
		return err
	}
	errorStyle, err := fillStyle(f, errorBgColor, false)
	if err != nil {
		return err
	}
	warningStyle, err := fillStyle(f, warningBgColor, false)
	if err != nil {
		return err
	}

	for i, width := range xlsxColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(resultsSheet, col, col, width); err != nil {
			return err
		}
	}

	headers := make([]interface{}, len(xlsxHeaders))
	for i, h := range xlsxHeaders {
		headers[i] = h
	}
	if err := setRow(f, resultsSheet, 1, headers, headerStyle); err != nil {
		return fmt.Errorf("writing results header: %w", err)
	}

	for i, r := range doc.Records {
		result := "PASS"
		style := 0
		switch {
		case !r.Success:
			result = "FAIL"
			style = errorStyle
		case r.ResponseTime > slowResponseSeconds:
			style = warningStyle
		}
		values := []interface{}{
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Category,
			r.Scenario,
			r.Description,
			string(r.Method),
			r.URL,
			r.ExpectedStatus,
			r.ActualStatus,
			r.ResponseTime,
			result,
			r.Attempts,
			r.Error,
		}
		if err := setRow(f, resultsSheet, i+2, values, style); err != nil {
			return fmt.Errorf("writing result row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, doc Document) error {
	headerStyle, err := fillStyle(f, headerBgColor, true)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 30); err != nil {
		return err
	}

	s := doc.Summary
	rows := [][]interface{}{
		{"Base URL", doc.Metadata.BaseURL},
		{"API version", doc.Metadata.APIVersion},
		{"Generated", doc.Metadata.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Total execution time (s)", doc.Metadata.Duration.Seconds()},
		{"Total tests", s.Total},
		{"Passed", s.Passed},
		{"Failed", s.Failed},
		{"Success rate", percent(s.SuccessRate)},
		{"Avg response time (s)", s.AvgResponseTime},
	}
	for i, row := range rows {
		if err := setRow(f, summarySheet, i+1, row, 0); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	start := len(rows) + 2
	if err := setRow(f, summarySheet, start,
		[]interface{}{"Category", "Total", "Passed", "Failed", "Success rate"}, headerStyle); err != nil {
		return fmt.Errorf("writing category header: %w", err)
	}
	for i, c := range doc.Categories {
		values := []interface{}{c.Category, c.Total, c.Passed, c.Failed, percent(c.SuccessRate)}
		if err := setRow(f, summarySheet, start+1+i, values, 0); err != nil {
			return fmt.Errorf("writing category %s: %w", c.Category, err)
		}
	}
	return nil
}
