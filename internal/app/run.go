package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vk/rulemake/internal/ctxlog"
	"github.com/vk/rulemake/internal/executor"
	"github.com/vk/rulemake/internal/registry"
	"github.com/vk/rulemake/internal/rule"
)

// Run loads the description file and builds the requested targets in order.
// No targets means the description's default target. With Watch set, Run
// keeps rebuilding on every change until ctx is cancelled.
func (a *App) Run(ctx context.Context, targets []string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "build_file", a.config.BuildFile, "targets", targets)

	reg, def, err := a.load(ctx)
	if err != nil {
		return err
	}

	if path := a.lockPath(); path != "" {
		lock, err := acquireLock(path)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				a.logger.Warn("Failed to release lock.", "path", path, "error", err)
			}
		}()
		a.logger.Debug("Lock acquired.", "path", path)
	}

	err = a.build(ctx, reg, def, targets)
	if !a.config.Watch {
		return err
	}
	if err != nil {
		a.logger.Error("Build failed.", "error", err)
	}
	return a.watch(ctx, targets)
}

// load turns the description file into a registry plus its default target.
func (a *App) load(ctx context.Context) (*registry.Registry, string, error) {
	reg, def, err := a.loader.LoadRegistry(ctx, a.config.BuildFile)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrLoad, err)
	}
	ctxlog.FromContext(ctx).Debug("Description loaded.", "path", a.config.BuildFile, "rules", reg.Len(), "default", def)
	return reg, def, nil
}

// build executes each requested target against reg, tagging the run with a
// fresh run_id.
func (a *App) build(ctx context.Context, reg *registry.Registry, def string, targets []string) error {
	ctx = ctxlog.With(ctx, "run_id", uuid.NewString())
	logger := ctxlog.FromContext(ctx)

	if len(targets) == 0 {
		targets = []string{def}
	}
	logger.Debug("Resolved targets.", "targets", targets)

	exec := executor.New(reg, a.executorOptions()...)
	for _, target := range targets {
		r, err := reg.Lookup(rule.Name(target))
		if errors.Is(err, registry.ErrNotFound) {
			if a.config.Strict {
				return fmt.Errorf("%w: %q", ErrUnknownTarget, target)
			}
			continue
		}
		if err != nil {
			return err
		}

		logger.Info("Building target.", "target", target, "kind", r.Kind().String())
		if err := exec.Execute(ctx, r); err != nil {
			return fmt.Errorf("target %q: %w", target, err)
		}
	}

	logger.Debug("Build finished.", "targets", len(targets))
	return nil
}

// rebuild reloads the description and builds again. Used by watch mode.
func (a *App) rebuild(ctx context.Context, targets []string) error {
	reg, def, err := a.load(ctx)
	if err != nil {
		return err
	}
	return a.build(ctx, reg, def, targets)
}
