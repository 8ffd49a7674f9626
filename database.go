// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package partkb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/partkb/canon"
	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/ingestion"
	"github.com/poiesic/partkb/search"
	"github.com/poiesic/partkb/storage"
	"github.com/poiesic/partkb/storage/badger"
	"github.com/poiesic/partkb/taxonomy"
)

// ErrNoCatalog is returned by LoadCatalog before the first build.
var ErrNoCatalog = errors.New("no catalog has been built")

// Database owns the snapshot store and hands out the components that read
// and write it.
type Database struct {
	repos  *badger.Repositories
	logger *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	inMemory bool
	logger   *slog.Logger
}

// WithInMemory keeps the store in memory; the path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets the logger given to the database and its components.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}
	repos, err := badger.NewRepositories(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		repos:  repos,
		logger: options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.repos.Close(); err != nil {
		db.logger.Error("error closing database", "err", err)
		return err
	}
	return nil
}

func (db *Database) SnapshotStore() storage.SnapshotStore {
	return db.repos.Snapshots
}

func (db *Database) PartRepository() storage.PartRepository {
	return db.repos.Parts
}

func (db *Database) VocabularyRepository() storage.VocabularyRepository {
	return db.repos.Vocabulary
}

func (db *Database) BuildRepository() storage.BuildRepository {
	return db.repos.Builds
}

func (db *Database) SourceStateRepository() storage.SourceStateRepository {
	return db.repos.Sources
}

// NewCanonicalizer builds a canonicalizer from optional rules and overrides
// files. An empty rules path uses the built-in detection table and an empty
// overrides path the built-in override table.
func NewCanonicalizer(rulesPath, overridesPath string, logger *slog.Logger) (*canon.Canonicalizer, error) {
	tx := taxonomy.Default()
	if rulesPath != "" {
		var err error
		if tx, err = taxonomy.LoadFile(rulesPath); err != nil {
			return nil, err
		}
	}
	overrides := taxonomy.DefaultOverrides()
	if overridesPath != "" {
		var err error
		if overrides, err = taxonomy.LoadOverrides(overridesPath); err != nil {
			return nil, err
		}
	}
	return canon.New(tx, canon.WithOverrides(overrides), canon.WithLogger(logger))
}

func (db *Database) NewIngestionPipeline(canonicalizer *canon.Canonicalizer, opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{ingestion.WithLogger(db.logger)}, opts...)
	return ingestion.NewPipeline(db.repos.Snapshots, canonicalizer, opts...)
}

// LoadCatalog restores the catalog saved by the latest build.
// Returns ErrNoCatalog if nothing has been built yet.
func (db *Database) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	snap, err := db.repos.Snapshots.LoadSnapshot(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoCatalog
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return catalog.Restore(snap.Parts, snap.Terms, catalog.Metadata{
		RunID:   snap.Build.RunID,
		BuiltAt: snap.Build.BuiltAt,
		Sources: snap.Build.Sources,
	})
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	opts = append([]search.Option{search.WithLogger(db.logger)}, opts...)
	return search.NewSearcher(opts...)
}
