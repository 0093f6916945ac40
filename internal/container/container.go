// Package container wires the application's dependencies together once
// at process start: configuration, the persistence engine, the
// tokeniser, the station mapping, and the Store Coordinator.
package container

import (
	"context"
	"fmt"
	"strings"

	"fishtrack/adapters/csvtok"
	"fishtrack/adapters/dynamostore"
	"fishtrack/adapters/stationsource"
	"fishtrack/domain/stationmap"
	"fishtrack/internal/config"
	"fishtrack/internal/logging"
	"fishtrack/internal/pipeline"
	"fishtrack/internal/upload"
	"fishtrack/ports"
)

// Container holds every dependency the CLI and HTTP entry points need.
type Container struct {
	Config      *config.Config
	Logger      *logging.Logger
	Store       ports.Store
	Tokeniser   ports.Tokeniser
	Mapping     *stationmap.Mapping
	Coordinator *pipeline.Coordinator
	Uploads     *upload.Storage
}

// New builds a Container from cfg. It connects to the persistence
// engine but does not load the station mapping; callers that need
// reconciliation should call LoadStationMapping explicitly, since not
// every CLI subcommand requires it ("cons" and the table admin commands
// do not).
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("container: config cannot be nil")
	}

	logger := logging.NewDefault()

	store, err := dynamostore.New(ctx, dynamostore.Config{
		Mode:            cfg.Store.Mode,
		Region:          cfg.Store.Region,
		LocalEndpoint:   cfg.Store.LocalEndpoint,
		TableName:       cfg.Store.TableName,
		AccessKeyID:     cfg.Store.AccessKeyID,
		SecretAccessKey: cfg.Store.SecretAccessKey,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("container: build store: %w", err)
	}

	c := &Container{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Tokeniser: csvtok.New(logger),
		Uploads:   upload.New(nil),
	}
	c.Coordinator = pipeline.New(store, cfg.Pipeline.GapMinutes, 4, logger)

	return c, nil
}

// LoadStationMapping loads the mapping from path and stores it on the
// container for reuse by subsequent pipeline runs within the same
// process. path selects the source: a postgres://... or postgresql://...
// DSN routes to the Postgres-backed source, with the table name taken
// from Config.Pipeline.StationMappingTable (env ST_MAPPING_TABLE,
// defaulting to "station_mappings"); anything else is dispatched by
// file extension (CSV, Markdown, XLSX).
func (c *Container) LoadStationMapping(ctx context.Context, path string) error {
	if isPostgresDSN(path) {
		return c.loadStationMappingFromPostgres(ctx, path)
	}

	source, err := stationSourceForPath(path)
	if err != nil {
		return err
	}

	mapping, err := source.LoadStationMapping(ctx)
	if err != nil {
		return fmt.Errorf("container: load station mapping: %w", err)
	}
	c.Mapping = mapping
	return nil
}

func (c *Container) loadStationMappingFromPostgres(ctx context.Context, dsn string) error {
	source, err := stationsource.Open(dsn, c.Config.Pipeline.StationMappingTable)
	if err != nil {
		return fmt.Errorf("container: open postgres station mapping: %w", err)
	}
	defer source.Close()

	mapping, err := source.LoadStationMapping(ctx)
	if err != nil {
		return fmt.Errorf("container: load station mapping: %w", err)
	}
	c.Mapping = mapping
	return nil
}

func isPostgresDSN(path string) bool {
	return strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://")
}

func stationSourceForPath(path string) (ports.StationMappingSource, error) {
	switch ext(path) {
	case ".csv":
		return stationsource.NewCSVSource(path), nil
	case ".xlsx":
		return stationsource.NewXLSXSource(path), nil
	case ".md", "":
		return stationsource.NewMarkdownSource(path), nil
	default:
		return nil, fmt.Errorf("container: unsupported station mapping file %q", path)
	}
}

func ext(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}
