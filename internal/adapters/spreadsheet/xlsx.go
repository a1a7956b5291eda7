package spreadsheet

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"salesdashboard/internal/domain"
)

const defaultSheet = "Sheet1"

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

type xlsxWriter struct{}

// NewXLSXWriter returns a SpreadsheetWriter producing .xlsx workbooks with a
// bold header row.
func NewXLSXWriter() domain.SpreadsheetWriter {
	return xlsxWriter{}
}

func (xlsxWriter) Write(w io.Writer, sheet string, columns []domain.Column, rows []domain.Record) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	sheet = sheetName(sheet)
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c.Header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if len(columns) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("header style: %w", err)
		}
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return fmt.Errorf("header style: %w", err)
		}
	}

	for i, row := range rows {
		values := make([]any, len(columns))
		for j, c := range columns {
			values[j] = cellValue(row[c.Key])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// cellValue keeps scalars typed and flattens nested values to JSON.
func cellValue(v any) any {
	switch v := v.(type) {
	case nil:
		return ""
	case string, bool, float64, float32, int, int64, json.Number:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

func sheetName(name string) string {
	if name == "" {
		return defaultSheet
	}
	r := []rune(name)
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	return string(r)
}
