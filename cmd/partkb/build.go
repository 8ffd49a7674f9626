package main

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/partkb"
	"github.com/poiesic/partkb/canon"
	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/export"
	"github.com/poiesic/partkb/ingestion"
	"github.com/urfave/cli/v2"
)

func categorizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "categorize",
		Usage: "Assign a category and kind to every record of a CSV file",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Source CSV file (repeatable)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output CSV file (- for stdout)",
				Value:   "-",
			},
			&cli.StringFlag{
				Name:  "rules",
				Usage: "Detection rules file (overrides taxonomy.rules)",
			},
			&cli.StringFlag{
				Name:  "overrides",
				Usage: "Manual overrides file (overrides taxonomy.overrides)",
			},
			&cli.BoolFlag{
				Name:  "enrich",
				Usage: "Fill empty fields from the standard parts table first",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := settings(c)
			if c.IsSet("rules") {
				cfg.Taxonomy.Rules = c.String("rules")
			}
			if c.IsSet("overrides") {
				cfg.Taxonomy.Overrides = c.String("overrides")
			}

			records, err := readRecords(c.StringSlice("input"))
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			canonicalizer, err := partkb.NewCanonicalizer(cfg.Taxonomy.Rules, cfg.Taxonomy.Overrides, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to create canonicalizer: %w", err)
			}

			if c.Bool("enrich") || cfg.Ingestion.Enrich {
				enricher, err := ingestion.NewEnricher(ingestion.WithEnricherLogger(slog.Default()))
				if err != nil {
					return fmt.Errorf("failed to create enricher: %w", err)
				}
				n := enricher.EnrichAll(records)
				slog.Info("records enriched", "count", n)
			}

			for _, rec := range records {
				if a := canonicalizer.Canonicalize(rec); a.InvalidCategory != "" {
					slog.Warn("unrecognized category",
						"label", rec.Label, "category", a.InvalidCategory, "assigned", a.Category)
				}
			}
			stats := canonicalizer.ApplyAll(records)

			out, err := createOutput(c, c.String("output"))
			if err != nil {
				return err
			}
			if err := export.WriteCSV(out, records); err != nil {
				out.Close()
				return fmt.Errorf("failed to write output: %w", err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}

			printStats(c.App.ErrWriter, len(records), stats)
			return nil
		},
	}
}

func printStats(w io.Writer, total int, stats canon.Stats) {
	fmt.Fprintf(w, "Categorized %d records\n", total)
	for _, cat := range core.Categories {
		if n := stats.ByCategory[cat]; n > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat, n)
		}
	}
	decisions := make([]canon.Decision, 0, len(stats.ByDecision))
	for d := range stats.ByDecision {
		decisions = append(decisions, d)
	}
	slices.Sort(decisions)
	for _, d := range decisions {
		fmt.Fprintf(w, "  %-22s %d\n", d.String()+":", stats.ByDecision[d])
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build the catalog from source CSV files and store it",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "Source file or glob pattern (repeatable, overrides sources)",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Rebuild even when no source changed",
			},
			&cli.BoolFlag{
				Name:  "enrich",
				Usage: "Fill empty fields from the standard parts table",
			},
			&cli.BoolFlag{
				Name:  "smart-only",
				Usage: "Keep only smart parts (those with a digital interface)",
			},
			&cli.BoolFlag{
				Name:  "lenient",
				Usage: "Keep records with unrecognized categories as tooling",
			},
			&cli.StringFlag{
				Name:  "price-list",
				Usage: "Refresh offer prices from this price list before building",
			},
			&cli.IntFlag{
				Name:  "pool-size",
				Usage: "Number of concurrent source loaders",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := settings(c)
			if c.IsSet("source") {
				cfg.Sources = c.StringSlice("source")
			}
			if c.IsSet("enrich") {
				cfg.Ingestion.Enrich = c.Bool("enrich")
			}
			if c.IsSet("smart-only") {
				cfg.Ingestion.SmartOnly = c.Bool("smart-only")
			}
			if c.IsSet("lenient") {
				cfg.Taxonomy.Strict = !c.Bool("lenient")
			}
			if c.IsSet("price-list") {
				cfg.Pricing.PriceList = c.String("price-list")
			}
			if c.IsSet("pool-size") {
				cfg.Ingestion.PoolSize = c.Int("pool-size")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			paths, err := ingestion.Discover(cfg.Sources)
			if err != nil {
				return fmt.Errorf("failed to discover sources: %w", err)
			}
			slog.Info("sources discovered", "count", len(paths))

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			pipeline, err := newPipeline(db, cfg, c.App.ErrWriter)
			if err != nil {
				return err
			}
			defer pipeline.Release()

			start := time.Now()
			result, err := pipeline.Run(c.Context, paths, &ingestion.RunOptions{Force: c.Bool("force")})
			if err != nil {
				return fmt.Errorf("failed to build catalog: %w", err)
			}

			logDiagnostics(result.Diagnostics)
			if result.Report != nil {
				logDiagnostics(result.Report.Diagnostics)
			}
			printBuild(c.App.Writer, result, time.Since(start))
			return nil
		},
	}
}

func printBuild(w io.Writer, result *ingestion.Result, elapsed time.Duration) {
	cat := result.Catalog
	if result.Skipped {
		fmt.Fprintf(w, "Sources unchanged; catalog %s has %d parts\n", cat.Metadata().RunID, cat.Len())
		return
	}

	fmt.Fprintf(w, "Built catalog %s in %s\n", cat.Metadata().RunID, elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  Sources:    %d\n", len(result.Sources))
	fmt.Fprintf(w, "  Records:    %d\n", result.Records)
	fmt.Fprintf(w, "  Parts:      %d\n", cat.Len())
	fmt.Fprintf(w, "  Terms:      %d\n", len(cat.Terms()))
	fmt.Fprintf(w, "  Duplicates: %d\n", result.Report.Duplicates)
	fmt.Fprintf(w, "  Dropped:    %d\n", result.Report.Dropped+result.Diagnostics.Len())
	if result.Enriched > 0 {
		fmt.Fprintf(w, "  Enriched:   %d records\n", result.Enriched)
	}
	if result.Pricing.Eligible > 0 {
		fmt.Fprintf(w, "  Priced:     %d of %d\n", result.Pricing.Priced, result.Pricing.Eligible)
	}

	counts := cat.CountByCategory()
	for _, category := range core.Categories {
		if n := counts[category]; n > 0 {
			fmt.Fprintf(w, "    %-12s %d\n", category, n)
		}
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Write the standard parts table, optionally merged into existing CSV files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output CSV file (- for stdout)",
				Value:   "-",
			},
			&cli.StringSliceFlag{
				Name:    "existing",
				Aliases: []string{"e"},
				Usage:   "Existing CSV file whose records are kept (repeatable)",
			},
		},
		Action: func(c *cli.Context) error {
			records := ingestion.StandardParts()
			if existing := c.StringSlice("existing"); len(existing) > 0 {
				current, err := readRecords(existing)
				if err != nil {
					return fmt.Errorf("failed to read existing records: %w", err)
				}
				added := ingestion.Seed(current)
				slog.Info("seeded records", "existing", len(current), "added", len(added))
				records = append(current, added...)
			}

			out, err := createOutput(c, c.String("output"))
			if err != nil {
				return err
			}
			if err := export.WriteCSV(out, records); err != nil {
				out.Close()
				return fmt.Errorf("failed to write output: %w", err)
			}
			return out.Close()
		},
	}
}

func priceCommand() *cli.Command {
	return &cli.Command{
		Name:  "price",
		Usage: "Fill offer prices in a CSV file from a price list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Source CSV file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output CSV file (- for stdout)",
				Value:   "-",
			},
			&cli.StringFlag{
				Name:  "price-list",
				Usage: "Price list CSV (overrides pricing.price_list)",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Look up records that already carry a price",
			},
			&cli.IntFlag{
				Name:  "attempts",
				Usage: "Lookup attempts per record",
			},
			&cli.DurationFlag{
				Name:  "base-delay",
				Usage: "Delay before the first retry",
			},
			&cli.DurationFlag{
				Name:  "pause",
				Usage: "Delay between consecutive lookups",
			},
			&cli.IntFlag{
				Name:  "progress-interval",
				Usage: "Report progress every N lookups (0 disables)",
				Value: 10,
			},
		},
		Action: func(c *cli.Context) error {
			cfg := settings(c)
			if c.IsSet("price-list") {
				cfg.Pricing.PriceList = c.String("price-list")
			}
			if c.IsSet("force") {
				cfg.Pricing.Force = c.Bool("force")
			}
			if c.IsSet("attempts") {
				cfg.Pricing.Attempts = c.Int("attempts")
			}
			if c.IsSet("base-delay") {
				cfg.Pricing.BaseDelay = c.Duration("base-delay")
			}
			if c.IsSet("pause") {
				cfg.Pricing.Pause = c.Duration("pause")
			}
			if cfg.Pricing.PriceList == "" {
				return fmt.Errorf("no price list: set --price-list or pricing.price_list")
			}

			records, err := readRecords([]string{c.String("input")})
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			refresher, err := newRefresher(cfg, c.App.ErrWriter, c.Int("progress-interval"))
			if err != nil {
				return err
			}
			summary, err := refresher.Refresh(c.Context, records)
			if err != nil {
				return fmt.Errorf("failed to refresh prices: %w", err)
			}

			out, err := createOutput(c, c.String("output"))
			if err != nil {
				return err
			}
			if err := export.WriteCSV(out, records); err != nil {
				out.Close()
				return fmt.Errorf("failed to write output: %w", err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}

			fmt.Fprintf(c.App.ErrWriter, "Priced %d of %d eligible records (%d missing, %d failed, %d skipped)\n",
				summary.Priced, summary.Eligible, summary.Missing, summary.Failed, summary.Skipped)
			return nil
		},
	}
}
