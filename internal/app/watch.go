package app

import (
	"context"

	"github.com/vk/rulemake/internal/watch"
)

// watch blocks, rebuilding targets every time the description file changes.
func (a *App) watch(ctx context.Context, targets []string) error {
	w, err := watch.New(a.config.BuildFile)
	if err != nil {
		return err
	}
	defer w.Close()

	return w.Run(ctx, func(ctx context.Context) error {
		return a.rebuild(ctx, targets)
	})
}
