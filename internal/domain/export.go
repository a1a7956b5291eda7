package domain

import "io"

// XLSXContentType is the media type of an exported workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SpreadsheetWriter writes rows as a single-sheet workbook.
type SpreadsheetWriter interface {
	Write(w io.Writer, sheet string, columns []Column, rows []Record) error
}
