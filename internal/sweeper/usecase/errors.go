package usecase

import "errors"

var (
	// ErrUnsupportedFormat is returned by Parse for extensions other than .csv and .xlsx.
	ErrUnsupportedFormat = errors.New("File type not supported")
	// ErrEmptyFile is returned by Parse when the file has no header row.
	ErrEmptyFile = errors.New("empty file")
	// ErrUnknownColumn is returned when an operation names a column the dataset lacks.
	ErrUnknownColumn = errors.New("column does not exist")
	// ErrNoNumericColumn is returned by charting when nothing numeric can be drawn.
	ErrNoNumericColumn = errors.New("no numeric column to visualize")
)
