package main

import (
	"context"
	"fmt"

	"github.com/custodia-labs/resumerag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/resumerag/internal/adapters/driven/embedding/hash"
	"github.com/custodia-labs/resumerag/internal/adapters/driven/storage"
	"github.com/custodia-labs/resumerag/internal/adapters/driving/cli"
	"github.com/custodia-labs/resumerag/internal/core/services"
	"github.com/custodia-labs/resumerag/internal/logger"
	"github.com/custodia-labs/resumerag/internal/normalisers"
	"github.com/custodia-labs/resumerag/internal/normalisers/docx"
	"github.com/custodia-labs/resumerag/internal/normalisers/html"
	"github.com/custodia-labs/resumerag/internal/normalisers/markdown"
	"github.com/custodia-labs/resumerag/internal/normalisers/pdf"
	"github.com/custodia-labs/resumerag/internal/normalisers/plaintext"
	"github.com/custodia-labs/resumerag/internal/postprocessors"
)

// wire builds the services for one command from the config file and opts.
func wire(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	if opts.ConfigOnly {
		return &cli.Services{Settings: settingsService}, nil
	}

	if err := settingsService.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", configStore.Path(), err)
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	if opts.DSN != "" {
		settings.Storage.DSN = opts.DSN
	}
	if opts.DataDir != "" {
		settings.Storage.DataDir = opts.DataDir
	}

	backend, err := storage.Open(ctx, settings.Storage, settings.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	logger.Debug("Storage backend: %s, %d dimensions", backend.Kind, settings.Embedding.Dimensions)

	embedder := hash.NewEmbeddingService(hash.Config{Dimensions: settings.Embedding.Dimensions})

	registry := normalisers.NewRegistry(plaintext.New(), markdown.New(), html.New(), docx.New(), pdf.New())

	pipeline, err := postprocessors.NewIngestPipeline(settings.Chunking, embedder)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("building ingest pipeline: %w", err)
	}

	guard := services.NewIdempotencyGuard(backend.Idempotency, settings.Idempotency.TTL)

	return &cli.Services{
		Ingest:      services.NewIngestService(registry, pipeline, backend.Documents, guard),
		Ask:         services.NewAskService(embedder, backend.Search, backend.Documents, backend.Cache, settings.Ask),
		Jobs:        services.NewJobService(backend.Jobs, backend.Documents, guard, settings.Jobs),
		Documents:   services.NewDocumentService(backend.Documents),
		Settings:    settingsService,
		Maintenance: services.NewMaintenanceService(backend.Cache, backend.Idempotency),
		Close:       backend.Close,
	}, nil
}
