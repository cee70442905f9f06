package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/shandysiswandi/datasweeper/internal/sweeper"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.sweeper.enabled") {
		closer, err := sweeper.New(sweeper.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.datasetID,
		})
		if err != nil {
			slog.Error("failed to init module sweeper", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Sweeper"] = closer
		}
	}
}
