package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgerror"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkguid"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
)

type Store interface {
	Create(ctx context.Context, ds entity.Dataset) error
	Get(ctx context.Context, id string) (entity.Dataset, error)
	Update(ctx context.Context, id string, fn func(ds *entity.Dataset) error) (entity.Dataset, error)
	List(ctx context.Context) ([]entity.DatasetMeta, error)
	Delete(ctx context.Context, id string) error
	EvictIdle(ctx context.Context, before time.Time) (int, error)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store      Store
	Clock      Clock
	ID         pkguid.StringID
	Chart      ChartOptions
	SessionTTL time.Duration
}

type Usecase struct {
	store      Store
	clock      Clock
	id         pkguid.StringID
	chart      ChartOptions
	sessionTTL time.Duration
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	return &Usecase{
		store:      dep.Store,
		clock:      clock,
		id:         dep.ID,
		chart:      dep.Chart.withDefaults(),
		sessionTTL: dep.SessionTTL,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Upload parses every file into its own dataset. A file that cannot be parsed
// is skipped and reported in UploadResult.Skipped; the others still proceed.
// When nothing was loaded and every file had an unsupported type, the call
// fails with an unsupported-media error instead.
func (u *Usecase) Upload(ctx context.Context, files []UploadFile) (UploadResult, error) {
	if u.store == nil || u.id == nil {
		return UploadResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	if len(files) == 0 {
		return UploadResult{}, pkgerror.NewInvalidInput(errors.New("at least one file is required"))
	}

	result := UploadResult{
		Datasets: make([]entity.DatasetMeta, 0, len(files)),
	}

	var unsupported []string
	for _, file := range files {
		df, err := Parse(file.Name, file.Data)
		if err != nil {
			slog.WarnContext(ctx, "skip uploaded file", "file_name", file.Name, "error", err)
			result.Skipped = append(result.Skipped, FileError{FileName: file.Name, Message: err.Error()})
			if errors.Is(err, ErrUnsupportedFormat) {
				unsupported = append(unsupported, err.Error())
			}
			continue
		}

		now := u.clock.Now()
		ds := entity.Dataset{
			Meta: entity.DatasetMeta{
				ID:         u.id.Generate(),
				FileName:   file.Name,
				Ext:        FileExt(file.Name),
				SizeBytes:  file.Size,
				UploadedAt: now,
			},
			Frame: df,
		}
		refreshMeta(&ds, now)

		if err := u.store.Create(ctx, ds); err != nil {
			return UploadResult{}, normalizeErr(err)
		}

		slog.InfoContext(ctx, "dataset uploaded",
			"dataset_id", ds.Meta.ID,
			"file_name", file.Name,
			"size_bytes", file.Size,
			"rows", ds.Meta.Rows,
			"columns", len(ds.Meta.Columns),
		)
		result.Datasets = append(result.Datasets, ds.Meta)
	}

	if len(result.Datasets) == 0 && len(unsupported) == len(files) {
		return UploadResult{}, pkgerror.NewUnsupportedMedia(errors.New(strings.Join(unsupported, "; ")))
	}

	return result, nil
}

func (u *Usecase) List(ctx context.Context) ([]entity.DatasetMeta, error) {
	metas, err := u.store.List(ctx)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return metas, nil
}

// Preview returns the first rows of the dataset restricted to the chosen columns.
func (u *Usecase) Preview(ctx context.Context, id string, in PreviewInput) (PreviewResult, error) {
	ds, err := u.get(ctx, id)
	if err != nil {
		return PreviewResult{}, err
	}

	df, err := projectInput(ds.Frame, in.Columns)
	if err != nil {
		return PreviewResult{}, err
	}

	n := min(max(in.Rows, 0), df.Nrow())
	cols := seriesOf(df)
	rows := make([][]any, n)
	for i := 0; i < n; i++ {
		row := make([]any, len(cols))
		for j, s := range cols {
			row[j] = jsonValue(cellValue(s, i))
		}
		rows[i] = row
	}

	return PreviewResult{
		Meta:           ds.Meta,
		Columns:        columnsOf(df),
		NumericColumns: numericColumns(df),
		Rows:           rows,
	}, nil
}

func (u *Usecase) RemoveDuplicates(ctx context.Context, id string) (DeduplicateResult, error) {
	var removed int

	ds, err := u.update(ctx, id, func(ds *entity.Dataset) error {
		df, n, err := Deduplicate(ds.Frame)
		if err != nil {
			return err
		}
		ds.Frame = df
		removed = n
		return nil
	})
	if err != nil {
		return DeduplicateResult{}, err
	}

	slog.InfoContext(ctx, "duplicates removed", "dataset_id", id, "removed", removed, "rows", ds.Meta.Rows)

	return DeduplicateResult{Meta: ds.Meta, Removed: removed}, nil
}

func (u *Usecase) FillMissing(ctx context.Context, id string) (FillMissingResult, error) {
	var filled []string

	ds, err := u.update(ctx, id, func(ds *entity.Dataset) error {
		df, cols, err := FillMissing(ds.Frame)
		if err != nil {
			return err
		}
		ds.Frame = df
		filled = cols
		return nil
	})
	if err != nil {
		return FillMissingResult{}, err
	}

	slog.InfoContext(ctx, "missing values filled", "dataset_id", id, "columns", filled)

	if filled == nil {
		filled = []string{}
	}
	return FillMissingResult{Meta: ds.Meta, Filled: filled}, nil
}

// Chart renders a bar chart of one numeric column of the projected dataset.
func (u *Usecase) Chart(ctx context.Context, id string, in ChartInput) (ChartResult, error) {
	ds, err := u.get(ctx, id)
	if err != nil {
		return ChartResult{}, err
	}

	df, err := projectInput(ds.Frame, in.Columns)
	if err != nil {
		return ChartResult{}, err
	}

	column, err := pickChartColumn(df, in.Column)
	if err != nil {
		return ChartResult{}, pkgerror.NewInvalidInput(err)
	}

	png, err := RenderBarChart(df, column, u.chart)
	if err != nil {
		if errors.Is(err, ErrNoNumericColumn) || errors.Is(err, ErrUnknownColumn) {
			return ChartResult{}, pkgerror.NewInvalidInput(err)
		}
		return ChartResult{}, pkgerror.NewServer(err)
	}

	return ChartResult{Column: column, PNG: png}, nil
}

// Export serializes the projected dataset into a downloadable file.
func (u *Usecase) Export(ctx context.Context, id string, in ExportInput) (ExportResult, error) {
	format, ok := entity.ParseFormat(string(in.Format))
	if !ok {
		return ExportResult{}, pkgerror.NewInvalidInput(fmt.Errorf("unsupported export format %q", in.Format))
	}

	ds, err := u.get(ctx, id)
	if err != nil {
		return ExportResult{}, err
	}

	df, err := projectInput(ds.Frame, in.Columns)
	if err != nil {
		return ExportResult{}, err
	}

	content, err := Encode(df, format)
	if err != nil {
		return ExportResult{}, pkgerror.NewServer(err)
	}

	fileName := ExportFileName(ds.Meta.FileName, ds.Meta.Ext, format)
	slog.InfoContext(ctx, "dataset exported",
		"dataset_id", id,
		"format", format,
		"file_name", fileName,
		"columns", df.Ncol(),
		"bytes", len(content),
	)

	return ExportResult{
		FileName:  fileName,
		MediaType: format.MediaType(),
		Content:   content,
	}, nil
}

func (u *Usecase) Delete(ctx context.Context, id string) error {
	if err := u.store.Delete(ctx, id); err != nil {
		return mapStoreErr(err)
	}

	slog.InfoContext(ctx, "dataset deleted", "dataset_id", id)
	return nil
}

// EvictIdle drops datasets untouched for longer than the session TTL.
// A non-positive TTL keeps everything.
func (u *Usecase) EvictIdle(ctx context.Context) error {
	if u.sessionTTL <= 0 {
		return nil
	}

	n, err := u.store.EvictIdle(ctx, u.clock.Now().Add(-u.sessionTTL))
	if err != nil {
		return err
	}
	if n > 0 {
		slog.InfoContext(ctx, "idle datasets evicted", "count", n, "ttl", u.sessionTTL.String())
	}

	return nil
}

func (u *Usecase) get(ctx context.Context, id string) (entity.Dataset, error) {
	if id == "" {
		return entity.Dataset{}, pkgerror.NewInvalidInput(errors.New("dataset id is required"))
	}

	ds, err := u.store.Get(ctx, id)
	if err != nil {
		return entity.Dataset{}, mapStoreErr(err)
	}

	return ds, nil
}

func (u *Usecase) update(ctx context.Context, id string, fn func(ds *entity.Dataset) error) (entity.Dataset, error) {
	if id == "" {
		return entity.Dataset{}, pkgerror.NewInvalidInput(errors.New("dataset id is required"))
	}

	ds, err := u.store.Update(ctx, id, func(ds *entity.Dataset) error {
		if err := fn(ds); err != nil {
			return pkgerror.NewServer(err)
		}
		refreshMeta(ds, u.clock.Now())
		return nil
	})
	if err != nil {
		return entity.Dataset{}, mapStoreErr(err)
	}

	return ds, nil
}

// jsonValue turns non-finite floats into nil since JSON cannot carry them.
func jsonValue(v any) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}

func refreshMeta(ds *entity.Dataset, now time.Time) {
	ds.Meta.Rows = ds.Frame.Nrow()
	ds.Meta.Columns = columnsOf(ds.Frame)
	ds.Meta.UpdatedAt = now
}

func projectInput(df dataframe.DataFrame, columns []string) (dataframe.DataFrame, error) {
	out, err := project(df, columns)
	if err != nil {
		if errors.Is(err, ErrUnknownColumn) {
			return dataframe.DataFrame{}, pkgerror.NewInvalidInput(err)
		}
		return dataframe.DataFrame{}, pkgerror.NewServer(err)
	}
	return out, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewBusiness("dataset not found", pkgerror.CodeNotFound)
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	if perr, ok := pkgerror.As(err); ok {
		return perr
	}
	return pkgerror.NewServer(err)
}
