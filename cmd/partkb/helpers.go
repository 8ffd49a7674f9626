package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/partkb"
	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/config"
	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/ingestion"
	"github.com/poiesic/partkb/pricing"
	"github.com/poiesic/partkb/search"
	"github.com/urfave/cli/v2"
)

// openDatabase opens the configured snapshot store.
func openDatabase(cfg *config.Config) (*partkb.Database, error) {
	db, err := partkb.NewDatabase(cfg.Database.Path, partkb.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// loadCatalog opens the database and restores the latest catalog.
func loadCatalog(c *cli.Context) (*partkb.Database, *catalog.Catalog, error) {
	db, err := openDatabase(settings(c))
	if err != nil {
		return nil, nil, err
	}
	cat, err := db.LoadCatalog(c.Context)
	if err != nil {
		db.Close()
		if errors.Is(err, partkb.ErrNoCatalog) {
			return nil, nil, fmt.Errorf("%w: run 'partkb build' first", err)
		}
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return db, cat, nil
}

// newSearcher builds a searcher using the configured missing-data policy.
func newSearcher(db *partkb.Database, cfg *config.Config) (*search.Searcher, error) {
	policy, err := cfg.Query.Policy()
	if err != nil {
		return nil, err
	}
	return db.NewSearcher(search.WithPolicy(policy))
}

// newPipeline wires an ingestion pipeline from the configuration.
func newPipeline(db *partkb.Database, cfg *config.Config, progress io.Writer) (*ingestion.Pipeline, error) {
	canonicalizer, err := partkb.NewCanonicalizer(cfg.Taxonomy.Rules, cfg.Taxonomy.Overrides, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create canonicalizer: %w", err)
	}
	builder, err := catalog.NewBuilder(
		catalog.WithSeparators(cfg.Catalog.Separators),
		catalog.WithDefaultControllerInterfaces(cfg.Catalog.ControllerInterfaces),
		catalog.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog builder: %w", err)
	}

	opts := []ingestion.Option{
		ingestion.WithPoolSize(cfg.Ingestion.PoolSize),
		ingestion.WithBuilder(builder),
		ingestion.WithStrictCategories(cfg.Taxonomy.Strict),
		ingestion.WithSmartOnly(cfg.Ingestion.SmartOnly),
	}
	if cfg.Ingestion.Enrich {
		enricher, err := ingestion.NewEnricher(ingestion.WithEnricherLogger(slog.Default()))
		if err != nil {
			return nil, fmt.Errorf("failed to create enricher: %w", err)
		}
		opts = append(opts, ingestion.WithEnricher(enricher))
	}
	if cfg.Pricing.PriceList != "" {
		refresher, err := newRefresher(cfg, progress, 0)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ingestion.WithPriceRefresh(refresher))
	}

	pipeline, err := db.NewIngestionPipeline(canonicalizer, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	return pipeline, nil
}

// newRefresher builds a price refresher over the configured price list.
func newRefresher(cfg *config.Config, progress io.Writer, interval int) (*pricing.Refresher, error) {
	quoter, err := pricing.LoadPriceList(cfg.Pricing.PriceList)
	if err != nil {
		return nil, fmt.Errorf("failed to load price list: %w", err)
	}
	slog.Debug("price list loaded", "path", cfg.Pricing.PriceList, "entries", quoter.Len())

	opts := []pricing.Option{
		pricing.WithBackoff(pricing.Backoff{
			Attempts:  cfg.Pricing.Attempts,
			BaseDelay: cfg.Pricing.BaseDelay,
			MaxDelay:  cfg.Pricing.MaxDelay,
		}),
		pricing.WithPause(cfg.Pricing.Pause),
		pricing.WithForce(cfg.Pricing.Force),
		pricing.WithLogger(slog.Default()),
	}
	if progress != nil && interval > 0 {
		opts = append(opts, pricing.WithProgress(progress, interval))
	}
	refresher, err := pricing.NewRefresher(quoter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create price refresher: %w", err)
	}
	return refresher, nil
}

// readRecords loads every record from the given CSV files in order.
func readRecords(paths []string) ([]*core.RawRecord, error) {
	var records []*core.RawRecord
	for _, path := range paths {
		src, err := ingestion.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if len(src.Ignored) > 0 {
			slog.Warn("ignoring unknown columns", "source", path, "columns", src.Ignored)
		}
		records = append(records, src.Records...)
	}
	return records, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// createOutput opens path for writing, or the app's writer for "" and "-".
func createOutput(c *cli.Context, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{c.App.Writer}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// logDiagnostics logs each diagnostic at a level matching its severity.
func logDiagnostics(ds core.Diagnostics) {
	for _, d := range ds.All() {
		switch d.Kind.Severity() {
		case core.SeverityError:
			slog.Error(d.String())
		case core.SeverityWarning:
			slog.Warn(d.String())
		default:
			slog.Debug(d.String())
		}
	}
}
