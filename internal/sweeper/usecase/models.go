package usecase

import "github.com/shandysiswandi/datasweeper/internal/sweeper/entity"

type UploadFile struct {
	Name string
	Size int64
	Data []byte
}

type FileError struct {
	FileName string
	Message  string
}

type UploadResult struct {
	Datasets []entity.DatasetMeta
	Skipped  []FileError
}

type PreviewInput struct {
	Rows    int
	Columns []string
}

type PreviewResult struct {
	Meta           entity.DatasetMeta
	Columns        []entity.Column
	NumericColumns []string
	Rows           [][]any
}

type DeduplicateResult struct {
	Meta    entity.DatasetMeta
	Removed int
}

type FillMissingResult struct {
	Meta   entity.DatasetMeta
	Filled []string
}

type ChartInput struct {
	Column  string
	Columns []string
}

type ChartResult struct {
	Column string
	PNG    []byte
}

type ExportInput struct {
	Format  entity.Format
	Columns []string
}

type ExportResult struct {
	FileName  string
	MediaType string
	Content   []byte
}
