package app

import (
	"context"
	"errors"
	"fmt"

	"buddyfarm/internal/config"
	"buddyfarm/internal/corpus"
	"buddyfarm/internal/logger"
	sitehttp "buddyfarm/internal/transport/http/site"

	"golang.org/x/sync/errgroup"
)

// App wires the loaded corpus, settings persistence and the HTTP API.
type App struct {
	cfg     *config.Config
	corpus  *corpus.Registry
	http    *sitehttp.Server
	closers []func() error
	Summary *StartupSummary
}

// NewApp builds the application without starting it.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Run serves HTTP, and watches the data directory when enabled, until ctx is
// cancelled or a component fails. Resources are released on return.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	defer a.Close()
	if a.Summary != nil {
		a.Summary.Print()
	}
	if a.http == nil {
		return fmt.Errorf("http server not initialized")
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.http.Start(ctx); err != nil {
			return fmt.Errorf("site http server error: %w", err)
		}
		return nil
	})
	if a.cfg.Data.Watch && a.corpus != nil {
		group.Go(func() error {
			if err := a.corpus.Watch(ctx); err != nil {
				return fmt.Errorf("corpus watcher error: %w", err)
			}
			return nil
		})
	}
	return group.Wait()
}

// Corpus exposes the loaded corpus registry.
func (a *App) Corpus() *corpus.Registry {
	if a == nil {
		return nil
	}
	return a.corpus
}

// Close releases stores opened by the builder. It is safe to call twice.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	for _, fn := range a.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
