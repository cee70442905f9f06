package sweeper

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkguid"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/inbound"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/store"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/usecase"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.ID == nil {
		sf, err := pkguid.NewSnowflake()
		if err != nil {
			return nil, fmt.Errorf("init dataset id generator: %w", err)
		}
		dep.ID = sf.Strings()
	}

	storage := store.NewInMemoryStore()

	uc := usecase.New(usecase.Dependency{
		Store: storage,
		ID:    dep.ID,
		Chart: usecase.ChartOptions{
			MaxBars: int(dep.Config.GetInt("modules.sweeper.chart.max_bars")),
			Width:   int(dep.Config.GetInt("modules.sweeper.chart.width")),
			Height:  int(dep.Config.GetInt("modules.sweeper.chart.height")),
		},
		SessionTTL: dep.Config.GetDuration("modules.sweeper.session_ttl"),
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, inbound.Options{
		MaxUploadBytes: dep.Config.GetInt("modules.sweeper.max_upload_bytes"),
		PreviewRows:    int(dep.Config.GetInt("modules.sweeper.preview_rows")),
	})

	if dep.Goroutine != nil && dep.Context != nil {
		dep.Goroutine.Tick(dep.Context, "sweeper-janitor", dep.Config.GetDuration("modules.sweeper.janitor_interval"), uc.EvictIdle)
	}

	return storage.Close, nil
}
