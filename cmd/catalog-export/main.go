// Command catalog-export builds the search catalog once and writes it as a
// JSON file and, optionally, a SQLite snapshot.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"buddyfarm/internal/config"
	"buddyfarm/internal/corpus"
	"buddyfarm/internal/logger"
	"buddyfarm/internal/search"

	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	defaultCfg := os.Getenv("BUDDYFARM_CONFIG")
	if defaultCfg == "" {
		defaultCfg = "configs/config.yaml"
	}
	cfgPath := pflag.StringP("config", "c", defaultCfg, "config file")
	jsonOut := pflag.String("json", "", "override export.json_path")
	sqliteOut := pflag.String("sqlite", "", "override export.sqlite_path")
	pflag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	logger.SetFormat(cfg.App.LogFormat)
	logger.SetLevel(cfg.App.LogLevel)
	if *jsonOut != "" {
		cfg.Export.JSONPath = *jsonOut
	}
	if *sqliteOut != "" {
		cfg.Export.SQLitePath = *sqliteOut
	}

	snap, err := corpus.Load(ctx, cfg.Data)
	if err != nil {
		log.Fatalf("load corpus failed: %v", err)
	}
	if err := search.WriteJSONFile(cfg.Export.JSONPath, snap.Catalog); err != nil {
		log.Fatalf("write catalog json failed: %v", err)
	}
	logger.Infof("✓ wrote %d entries to %s", snap.Catalog.Len(), cfg.Export.JSONPath)

	if !cfg.Export.SQLiteEnabled() {
		return
	}
	store, err := search.OpenSnapshot(cfg.Export.SQLitePath)
	if err != nil {
		log.Fatalf("open snapshot failed: %v", err)
	}
	defer store.Close()
	if err := store.WriteCatalog(ctx, snap.Catalog); err != nil {
		log.Fatalf("write snapshot failed: %v", err)
	}
	logger.Infof("✓ wrote snapshot to %s", cfg.Export.SQLitePath)
}
