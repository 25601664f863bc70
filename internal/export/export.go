// Package export writes tabular reports as CSV or Excel.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a header row plus data rows.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]string
}

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Filename returns the attachment name for the table in the given format.
func (t Table) Filename(format string) string {
	return fmt.Sprintf("%s.%s", strings.ToLower(strings.ReplaceAll(t.Sheet, " ", "-")), format)
}

// Write encodes the table in format ("csv" or "xlsx") to w.
func Write(w io.Writer, format string, t Table) error {
	switch format {
	case FormatCSV, "":
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteExcel(w, t)
	default:
		return fmt.Errorf("export: unsupported format %q", format)
	}
}

func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("export: csv header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("export: csv rows: %w", err)
	}
	return nil
}

// WriteExcel writes a single-sheet workbook with a bold, shaded header row.
func WriteExcel(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("export: sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	for i, h := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if len(t.Headers) > 0 {
		last, _ := excelize.ColumnNumberToName(len(t.Headers))
		_ = f.SetColWidth(sheet, "A", last, 16)
	}
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}
