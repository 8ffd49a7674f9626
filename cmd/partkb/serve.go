package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/poiesic/partkb"
	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/ingestion"
	"github.com/poiesic/partkb/server"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve recommendations over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Usage:   "Listen address (overrides server.address)",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Rebuild the catalog when source files change",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet time before a rebuild (overrides server.debounce)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := settings(c)
			if c.IsSet("address") {
				cfg.Server.Address = c.String("address")
			}
			if c.IsSet("watch") {
				cfg.Server.Watch = c.Bool("watch")
			}
			if c.IsSet("debounce") {
				cfg.Server.Debounce = c.Duration("debounce")
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			pipeline, err := newPipeline(db, cfg, nil)
			if err != nil {
				return err
			}
			defer pipeline.Release()

			rebuild := func(ctx context.Context) (*catalog.Catalog, error) {
				paths, err := ingestion.Discover(cfg.Sources)
				if err != nil {
					return nil, err
				}
				result, err := pipeline.Run(ctx, paths, nil)
				if err != nil {
					return nil, err
				}
				logDiagnostics(result.Diagnostics)
				if result.Report != nil {
					logDiagnostics(result.Report.Diagnostics)
				}
				return result.Catalog, nil
			}

			cat, err := db.LoadCatalog(ctx)
			if errors.Is(err, partkb.ErrNoCatalog) {
				slog.Info("no stored catalog, building from sources", "sources", cfg.Sources)
				cat, err = rebuild(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}

			searcher, err := newSearcher(db, cfg)
			if err != nil {
				return fmt.Errorf("failed to create searcher: %w", err)
			}
			srv, err := server.NewServer(searcher, cat,
				server.WithAddress(cfg.Server.Address),
				server.WithLogger(slog.Default()),
			)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			g, ctx := errgroup.WithContext(ctx)
			if cfg.Server.Watch {
				watcher, err := server.NewWatcher(srv, cfg.Sources, rebuild,
					server.WithDebounce(cfg.Server.Debounce),
					server.WithWatcherLogger(slog.Default()),
				)
				if err != nil {
					return fmt.Errorf("failed to create watcher: %w", err)
				}
				g.Go(func() error { return watcher.Run(ctx) })
			}
			g.Go(func() error {
				err := srv.ListenAndServe(ctx)
				stop()
				return err
			})
			return g.Wait()
		},
	}
}
