package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"buddyfarm/internal/config"
	"buddyfarm/internal/corpus"
	"buddyfarm/internal/logger"
	"buddyfarm/internal/settings"
	"buddyfarm/internal/store/sqlite"
	sitehttp "buddyfarm/internal/transport/http/site"
)

type AppBuilder struct {
	cfg *config.Config

	corpusFn   func(context.Context, config.DataConfig) (*corpus.Registry, error)
	settingsFn func(config.SettingsConfig) (settingsSetup, error)
	httpFn     func(sitehttp.ServerConfig) (*sitehttp.Server, error)
}

type AppBuilderOption func(*AppBuilder)

// WithSettingsBackend replaces the configured settings persistence.
func WithSettingsBackend(backend settings.Backend) AppBuilderOption {
	return func(b *AppBuilder) {
		b.settingsFn = func(config.SettingsConfig) (settingsSetup, error) {
			return settingsSetup{backend: backend, kind: "custom"}, nil
		}
	}
}

func NewAppBuilder(cfg *config.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:        cfg,
		corpusFn:   corpus.NewRegistry,
		settingsFn: buildSettings,
		httpFn:     sitehttp.NewServer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	cfg := b.cfg

	reg, err := b.corpusFn(ctx, cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("load corpus failed: %w", err)
	}
	snap := reg.Snapshot()
	logger.Infof("✓ corpus loaded: %d locations, %d search entries", snap.Locations.Len(), snap.Catalog.Len())

	st, err := b.settingsFn(cfg.Settings)
	if err != nil {
		return nil, err
	}
	app := &App{cfg: cfg, corpus: reg}
	if st.close != nil {
		app.closers = append(app.closers, st.close)
	}

	server, err := b.httpFn(sitehttp.ServerConfig{
		Addr:         cfg.App.HTTPAddr,
		Corpus:       reg,
		Settings:     st.backend,
		History:      st.history,
		Namespace:    cfg.Settings.Namespace,
		CookieName:   cfg.Settings.CookieName,
		CookieMaxAge: time.Duration(cfg.Settings.CookieMaxAgeDays) * 24 * time.Hour,
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("build http server failed: %w", err)
	}
	app.http = server
	app.Summary = &StartupSummary{
		Env:           cfg.App.Env,
		HTTPAddr:      server.Addr(),
		DataDir:       cfg.Data.Dir,
		Watch:         cfg.Data.Watch,
		Locations:     snap.Locations.Names(),
		SearchEntries: snap.Catalog.Len(),
		Settings:      st.kind,
		SettingsPath:  cfg.Settings.DBPath,
	}
	return app, nil
}

type settingsSetup struct {
	backend settings.Backend
	history sitehttp.HistorySource
	kind    string
	close   func() error
}

// buildSettings opens the SQLite settings store. Without a path, or when the
// database cannot be opened, settings live in memory for this process only.
func buildSettings(cfg config.SettingsConfig) (settingsSetup, error) {
	path := strings.TrimSpace(cfg.DBPath)
	if path == "" {
		logger.Warnf("settings.db_path not set, settings are kept in memory")
		return settingsSetup{backend: settings.NewMemoryBackend(), kind: "memory"}, nil
	}
	st, err := sqlite.NewSqliteStore(path)
	if err != nil {
		logger.Warnf("open settings store %s failed, falling back to memory: %v", path, err)
		return settingsSetup{backend: settings.NewMemoryBackend(), kind: "memory"}, nil
	}
	backend := settings.NewStoreBackend(st)
	return settingsSetup{backend: backend, history: backend, kind: "sqlite", close: st.Close}, nil
}
