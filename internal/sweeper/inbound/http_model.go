package inbound

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/usecase"
)

type Column struct {
	Name string            `json:"name"`
	Kind entity.ColumnKind `json:"kind"`
}

type Dataset struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	Ext        string    `json:"ext"`
	SizeBytes  int64     `json:"size_bytes"`
	Rows       int       `json:"rows"`
	Columns    []Column  `json:"columns"`
	UploadedAt time.Time `json:"uploaded_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type FileError struct {
	FileName string `json:"file_name"`
	Message  string `json:"message"`
}

type UploadResponse struct {
	Datasets []Dataset   `json:"datasets"`
	Errors   []FileError `json:"errors"`
}

// StatusCode is 201 once any file became a dataset; a request where every
// file was rejected is reported as 422 with the same body.
func (r UploadResponse) StatusCode() int {
	if len(r.Datasets) == 0 {
		return http.StatusUnprocessableEntity
	}
	return http.StatusCreated
}

func (r UploadResponse) Message() string {
	switch {
	case len(r.Datasets) == 0:
		return "no file could be loaded"
	case len(r.Errors) > 0:
		return "some files were skipped"
	default:
		return "files uploaded"
	}
}

type ListResponse struct {
	Datasets []Dataset `json:"datasets"`
}

func (r ListResponse) Meta() map[string]any {
	return map[string]any{"total": len(r.Datasets)}
}

type PreviewResponse struct {
	Dataset        Dataset  `json:"dataset"`
	Columns        []Column `json:"columns"`
	NumericColumns []string `json:"numeric_columns"`
	Rows           [][]any  `json:"rows"`
}

type DeduplicateResponse struct {
	Dataset Dataset `json:"dataset"`
	Removed int     `json:"removed"`
}

func (DeduplicateResponse) Message() string {
	return "duplicates removed"
}

type FillMissingResponse struct {
	Dataset Dataset  `json:"dataset"`
	Filled  []string `json:"filled"`
}

func (FillMissingResponse) Message() string {
	return "missing values filled"
}

type ChartResponse struct {
	png []byte
}

func (ChartResponse) ContentType() string {
	return "image/png"
}

func (r ChartResponse) Content() []byte {
	return r.png
}

type ExportResponse struct {
	fileName  string
	mediaType string
	content   []byte
}

func (r ExportResponse) ContentType() string {
	return r.mediaType
}

func (r ExportResponse) Content() []byte {
	return r.content
}

func (r ExportResponse) FileName() string {
	return r.fileName
}

func toHTTPColumns(cols []entity.Column) []Column {
	out := make([]Column, len(cols))
	for i, c := range cols {
		out[i] = Column{Name: c.Name, Kind: c.Kind}
	}
	return out
}

func toHTTPDataset(meta entity.DatasetMeta) Dataset {
	return Dataset{
		ID:         meta.ID,
		FileName:   meta.FileName,
		Ext:        meta.Ext,
		SizeBytes:  meta.SizeBytes,
		Rows:       meta.Rows,
		Columns:    toHTTPColumns(meta.Columns),
		UploadedAt: meta.UploadedAt,
		UpdatedAt:  meta.UpdatedAt,
	}
}

func toHTTPDatasets(metas []entity.DatasetMeta) []Dataset {
	out := make([]Dataset, len(metas))
	for i, meta := range metas {
		out[i] = toHTTPDataset(meta)
	}
	return out
}

func toHTTPFileErrors(skipped []usecase.FileError) []FileError {
	out := make([]FileError, len(skipped))
	for i, s := range skipped {
		out[i] = FileError{FileName: s.FileName, Message: s.Message}
	}
	return out
}
