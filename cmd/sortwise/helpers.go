package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sortwise/sortwise/internal/config"
	"github.com/sortwise/sortwise/internal/engine"
	"github.com/sortwise/sortwise/internal/ollama"
	"github.com/sortwise/sortwise/internal/pipeline"
	"github.com/sortwise/sortwise/internal/service"
	"github.com/sortwise/sortwise/internal/storage"
)

// runtime bundles the collaborators most commands need.
type runtime struct {
	cfg       *config.Config
	client    *ollama.HTTPClient
	suggester *engine.Suggester
	pipeline  *pipeline.Pipeline
	store     service.Storage
}

// newRuntime loads configuration and wires the inference client,
// suggestion engine, and pipeline. Storage is only opened when both
// enabled in config and requested by the command; callers must Close().
func newRuntime(withStorage bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.Default()
	client := ollama.NewClient(cfg.Ollama, logger)
	suggester := engine.NewSuggester(client, logger)

	var store service.Storage
	if withStorage && cfg.Storage.Enabled {
		store, err = openStorage(cfg)
		if err != nil {
			return nil, err
		}
	}

	p := pipeline.New(suggester, store, cfg.Pipeline.ToPipelineConfig(), logger)

	return &runtime{
		cfg:       cfg,
		client:    client,
		suggester: suggester,
		pipeline:  p,
		store:     store,
	}, nil
}

// Close releases runtime resources.
func (r *runtime) Close() {
	if r.store != nil {
		_ = r.store.Close()
	}
}

// openStorage opens the database and brings the schema up to date.
// Migrations are idempotent, so commands can call this freely.
func openStorage(cfg *config.Config) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return store, nil
}
