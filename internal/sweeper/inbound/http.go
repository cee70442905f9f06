package inbound

import (
	"context"
	_ "embed"
	"net/http"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/usecase"
)

//go:embed ui/index.html
var indexHTML []byte

type uc interface {
	Upload(ctx context.Context, files []usecase.UploadFile) (usecase.UploadResult, error)
	List(ctx context.Context) ([]entity.DatasetMeta, error)
	Preview(ctx context.Context, id string, in usecase.PreviewInput) (usecase.PreviewResult, error)
	RemoveDuplicates(ctx context.Context, id string) (usecase.DeduplicateResult, error)
	FillMissing(ctx context.Context, id string) (usecase.FillMissingResult, error)
	Chart(ctx context.Context, id string, in usecase.ChartInput) (usecase.ChartResult, error)
	Export(ctx context.Context, id string, in usecase.ExportInput) (usecase.ExportResult, error)
	Delete(ctx context.Context, id string) error
}

// Options tunes request handling.
type Options struct {
	MaxUploadBytes int64
	PreviewRows    int
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, opts Options) {
	if opts.PreviewRows < 1 {
		opts.PreviewRows = defaultPreviewRows
	}
	opts.PreviewRows = min(opts.PreviewRows, maxPreviewRows)

	end := &HTTPEndpoint{uc: uc, opts: opts}

	r.Handle(http.MethodGet, "/", http.HandlerFunc(serveIndex))

	r.POST("/datasets", end.Upload, pkgrouter.MaxBytes(opts.MaxUploadBytes))
	r.GET("/datasets", end.List)
	r.GET("/datasets/:id", end.Preview) // ?rows=&columns=
	r.DELETE("/datasets/:id", end.Delete)
	r.POST("/datasets/:id/duplicates", end.RemoveDuplicates)
	r.POST("/datasets/:id/missing", end.FillMissing)
	r.GET("/datasets/:id/chart", end.Chart)   // ?column=&columns=
	r.GET("/datasets/:id/export", end.Export) // ?format=&columns=
}

func serveIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}
