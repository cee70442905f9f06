package inbound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgerror"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgvalidator"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/usecase"
)

const (
	defaultPreviewRows = 5
	maxPreviewRows     = 100
)

type HTTPEndpoint struct {
	uc   uc
	opts Options
}

func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	files, err := h.readFiles(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Upload(ctx, files)
	if err != nil {
		return nil, err
	}

	return UploadResponse{
		Datasets: toHTTPDatasets(result.Datasets),
		Errors:   toHTTPFileErrors(result.Skipped),
	}, nil
}

func (h *HTTPEndpoint) List(ctx context.Context, r *http.Request) (any, error) {
	metas, err := h.uc.List(ctx)
	if err != nil {
		return nil, err
	}

	return ListResponse{Datasets: toHTTPDatasets(metas)}, nil
}

func (h *HTTPEndpoint) Preview(ctx context.Context, r *http.Request) (any, error) {
	rows := h.opts.PreviewRows
	if raw := strings.TrimSpace(r.URL.Query().Get("rows")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, pkgerror.NewInvalidInput(errors.New("rows: must be an integer"))
		}
		rows = n
	}

	// Min and Max skip zero values, so zero is rejected by Required.
	if err := pkgvalidator.Value("rows", rows,
		validation.Required.Error("must be no less than 1"),
		validation.Min(1),
		validation.Max(maxPreviewRows),
	); err != nil {
		return nil, err
	}

	result, err := h.uc.Preview(ctx, pkgrouter.GetParam(ctx, "id"), usecase.PreviewInput{
		Rows:    rows,
		Columns: pkgrouter.QueryList(r, "columns"),
	})
	if err != nil {
		return nil, err
	}

	return PreviewResponse{
		Dataset:        toHTTPDataset(result.Meta),
		Columns:        toHTTPColumns(result.Columns),
		NumericColumns: nonNil(result.NumericColumns),
		Rows:           result.Rows,
	}, nil
}

func (h *HTTPEndpoint) Delete(ctx context.Context, r *http.Request) (any, error) {
	if err := h.uc.Delete(ctx, pkgrouter.GetParam(ctx, "id")); err != nil {
		return nil, err
	}

	return nil, nil
}

func (h *HTTPEndpoint) RemoveDuplicates(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.RemoveDuplicates(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}

	return DeduplicateResponse{
		Dataset: toHTTPDataset(result.Meta),
		Removed: result.Removed,
	}, nil
}

func (h *HTTPEndpoint) FillMissing(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.FillMissing(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}

	return FillMissingResponse{
		Dataset: toHTTPDataset(result.Meta),
		Filled:  nonNil(result.Filled),
	}, nil
}

func (h *HTTPEndpoint) Chart(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()

	result, err := h.uc.Chart(ctx, pkgrouter.GetParam(ctx, "id"), usecase.ChartInput{
		Column:  strings.TrimSpace(query.Get("column")),
		Columns: pkgrouter.QueryList(r, "columns"),
	})
	if err != nil {
		return nil, err
	}

	return ChartResponse{png: result.PNG}, nil
}

type exportQuery struct {
	Format string `json:"format"`
}

func (h *HTTPEndpoint) Export(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()

	in := exportQuery{Format: strings.ToLower(strings.TrimSpace(query.Get("format")))}
	if err := pkgvalidator.Struct(&in,
		validation.Field(&in.Format,
			validation.Required,
			validation.In(string(entity.FormatCSV), string(entity.FormatExcel), "xlsx"),
		),
	); err != nil {
		return nil, err
	}

	format, _ := entity.ParseFormat(in.Format)
	result, err := h.uc.Export(ctx, pkgrouter.GetParam(ctx, "id"), usecase.ExportInput{
		Format:  format,
		Columns: pkgrouter.QueryList(r, "columns"),
	})
	if err != nil {
		return nil, err
	}

	return ExportResponse{
		fileName:  result.FileName,
		mediaType: result.MediaType,
		content:   result.Content,
	}, nil
}

// readFiles collects every "file" part of a multipart upload.
func (h *HTTPEndpoint) readFiles(r *http.Request) ([]usecase.UploadFile, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, pkgerror.NewInvalidFormat()
	}

	var files []usecase.UploadFile
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, h.bodyErr(err)
		}

		if part.FormName() != "file" || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, h.bodyErr(err)
		}

		files = append(files, usecase.UploadFile{
			Name: part.FileName(),
			Size: int64(len(data)),
			Data: data,
		})
	}

	if len(files) == 0 {
		return nil, pkgerror.NewInvalidInput(errors.New("file part is required"))
	}

	return files, nil
}

func (h *HTTPEndpoint) bodyErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerror.NewTooLarge(tooLarge.Limit)
	}
	return pkgerror.NewInvalidInput(fmt.Errorf("read upload: %w", err))
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
