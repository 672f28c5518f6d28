package importer

import (
	"path/filepath"
	"strings"
)

// Format is the import file family chosen from the file extension.
type Format string

const (
	FormatSpreadsheet Format = "spreadsheet"
	FormatCSV         Format = "csv"
	FormatJSON        Format = "json"
)

// DetectFormat picks the reader for a file name. Workbooks and CSV go through
// the row parser; every other extension is treated as JSON text.
func DetectFormat(filename string) Format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "xlsx", "xls":
		return FormatSpreadsheet
	case "csv":
		return FormatCSV
	default:
		return FormatJSON
	}
}

// Tabular reports whether the format is read as rows.
func (f Format) Tabular() bool {
	return f == FormatSpreadsheet || f == FormatCSV
}
