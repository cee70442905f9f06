package entity

import "strings"

// Extensions of files that can be uploaded.
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
)

// Format is a target format for export.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// ParseFormat accepts a format name case-insensitively; "xlsx" is an alias for excel.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(FormatCSV):
		return FormatCSV, true
	case string(FormatExcel), "xlsx":
		return FormatExcel, true
	default:
		return "", false
	}
}

// Extension returns the file extension, with the leading dot.
func (f Format) Extension() string {
	if f == FormatExcel {
		return ExtXLSX
	}
	return ExtCSV
}

// MediaType returns the MIME type of an exported file.
func (f Format) MediaType() string {
	if f == FormatExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// ColumnKind mirrors the element type of a dataset column.
type ColumnKind string

const (
	ColumnKindInt    ColumnKind = "int"
	ColumnKindFloat  ColumnKind = "float"
	ColumnKindString ColumnKind = "string"
	ColumnKindBool   ColumnKind = "bool"
)

// IsNumeric reports whether the column takes part in mean filling and charts.
func (k ColumnKind) IsNumeric() bool {
	return k == ColumnKindInt || k == ColumnKindFloat
}
