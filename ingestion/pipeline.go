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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/partkb/canon"
	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/pricing"
	"github.com/poiesic/partkb/storage"
)

// Pipeline orchestrates loading sources, building the catalog and saving it.
type Pipeline struct {
	store     storage.SnapshotStore
	canon     *canon.Canonicalizer
	builder   *catalog.Builder
	enricher  *Enricher
	refresher *pricing.Refresher
	pool      *ants.Pool
	strict    bool
	smartOnly bool
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent source loading.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBuilder sets the catalog builder.
// Default is a builder with default options.
func WithBuilder(b *catalog.Builder) Option {
	return func(p *Pipeline) error {
		if b != nil {
			p.builder = b
		}
		return nil
	}
}

// WithEnricher enables standard-part enrichment before canonicalization.
func WithEnricher(e *Enricher) Option {
	return func(p *Pipeline) error {
		p.enricher = e
		return nil
	}
}

// WithPriceRefresh enables price lookups before the build.
func WithPriceRefresh(r *pricing.Refresher) Option {
	return func(p *Pipeline) error {
		p.refresher = r
		return nil
	}
}

// WithStrictCategories controls whether records whose raw category is
// neither a category nor a known alias are dropped. Default is true.
func WithStrictCategories(strict bool) Option {
	return func(p *Pipeline) error {
		p.strict = strict
		return nil
	}
}

// WithSmartOnly keeps only smart parts in the built catalog.
func WithSmartOnly(smartOnly bool) Option {
	return func(p *Pipeline) error {
		p.smartOnly = smartOnly
		return nil
	}
}

// WithClock sets the clock used for source state timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) error {
		if now != nil {
			p.now = now
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(store storage.SnapshotStore, canonicalizer *canon.Canonicalizer, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrSnapshotStoreRequired
	}
	if canonicalizer == nil {
		return nil, ErrCanonicalizerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	builder, err := catalog.NewBuilder()
	if err != nil {
		pool.Release()
		return nil, err
	}

	p := &Pipeline{
		store:   store,
		canon:   canonicalizer,
		builder: builder,
		pool:    pool,
		strict:  true,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Load reads every source concurrently and returns them in path order.
// The first failing source aborts the load.
func (p *Pipeline) Load(ctx context.Context, paths []string) ([]*Source, error) {
	if len(paths) == 0 {
		return nil, ErrNoSources
	}

	sources := make([]*Source, len(paths))
	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			src, err := LoadFile(path)
			if err != nil {
				errs[i] = err
				return
			}
			if len(src.Ignored) > 0 {
				p.logger.Debug("ignored source columns", "source", path, "columns", src.Ignored)
			}
			sources[i] = src
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return sources, nil
}

// Result describes one pipeline run.
type Result struct {
	Catalog     *catalog.Catalog
	Report      *catalog.Report // Nil when the build was skipped
	Sources     []core.SourceState
	Skipped     bool // Sources were unchanged and the stored catalog was reused
	Records     int  // Records read from all sources
	Enriched    int
	Canonical   canon.Stats
	Pricing     pricing.Summary
	Diagnostics core.Diagnostics // Pipeline-level problems, before the build
}

// RunOptions tunes a single run.
type RunOptions struct {
	Force bool // Rebuild even when no source changed
}

// Run loads the given source paths, builds the catalog and saves it.
// Sources are merged in the order given, so the earliest source wins any
// duplicate. When every source is byte-identical to the stored build, the
// build settings are unchanged and opts.Force is unset, the stored catalog is
// returned without rebuilding. A pipeline with price refresh always rebuilds.
func (p *Pipeline) Run(ctx context.Context, paths []string, opts *RunOptions) (*Result, error) {
	if opts == nil {
		opts = &RunOptions{}
	}

	sources, err := p.Load(ctx, paths)
	if err != nil {
		return nil, err
	}

	now := p.now()
	result := &Result{Sources: make([]core.SourceState, len(sources))}
	for i, src := range sources {
		result.Sources[i] = src.State(now)
		result.Records += len(src.Records)
	}

	if !opts.Force && p.refresher == nil {
		if cat, ok := p.reuse(ctx, paths, result.Sources); ok {
			p.logger.Info("sources unchanged, reusing stored catalog", "sources", len(sources), "parts", cat.Len())
			result.Catalog = cat
			result.Skipped = true
			return result, nil
		}
	}

	records := make([]*core.RawRecord, 0, result.Records)
	for _, src := range sources {
		records = append(records, src.Records...)
	}

	cat, report, err := p.build(ctx, records, paths, result)
	if err != nil {
		return nil, err
	}
	result.Catalog = cat
	result.Report = report

	snap := &storage.Snapshot{
		Parts:   cat.Parts(),
		Terms:   cat.Terms(),
		Build:   report.Record(paths, len(cat.Terms())),
		Sources: result.Sources,
	}
	snap.Build.Input = result.Records
	snap.Build.Dropped += result.Diagnostics.Len()
	snap.Build.Warnings += result.Diagnostics.Warnings()
	snap.Build.Accepted = cat.Len()
	snap.Build.Settings = p.fingerprint()
	if err := p.store.SaveSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	p.logger.Info("catalog built",
		"run", report.RunID, "records", result.Records, "parts", cat.Len(),
		"terms", len(snap.Terms), "duplicates", report.Duplicates,
		"dropped", snap.Build.Dropped, "warnings", snap.Build.Warnings)
	return result, nil
}

// prepare runs enrichment and canonicalization over records in place and
// returns those that survive strict category checking. It does not build.
func (p *Pipeline) prepare(records []*core.RawRecord, result *Result) []*core.RawRecord {
	if p.enricher != nil {
		result.Enriched = p.enricher.EnrichAll(records)
	}

	result.Canonical = canon.Stats{
		ByCategory: make(map[core.Category]int),
		ByDecision: make(map[canon.Decision]int),
	}
	kept := make([]*core.RawRecord, 0, len(records))
	for _, rec := range records {
		a := p.canon.Apply(rec)
		if a.InvalidCategory != "" && p.strict {
			result.Diagnostics.Add(core.Diagnostic{
				Kind:     core.DiagInvalidCategory,
				Identity: rec.Label,
				Source:   rec.Source,
				Line:     rec.Line,
				Message:  fmt.Sprintf("unknown category %q", a.InvalidCategory),
			})
			continue
		}
		result.Canonical.ByCategory[a.Category]++
		result.Canonical.ByDecision[a.Decision]++
		kept = append(kept, rec)
	}
	return kept
}

// build turns merged records into a catalog.
func (p *Pipeline) build(ctx context.Context, records []*core.RawRecord, paths []string, result *Result) (*catalog.Catalog, *catalog.Report, error) {
	records = p.prepare(records, result)

	if p.refresher != nil {
		summary, err := p.refresher.Refresh(ctx, records)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to refresh prices: %w", err)
		}
		result.Pricing = summary
	}

	cat, report := p.builder.Build(records, paths...)
	for _, d := range report.Diagnostics.All() {
		p.logger.Debug("build diagnostic", "kind", d.Kind, "part", d.Identity, "source", d.Source, "line", d.Line)
	}
	if p.smartOnly {
		cat = cat.Filter(catalog.IsSmart)
	}
	return cat, report, nil
}

// fingerprint identifies every setting that changes what a build produces
// from the same records.
func (p *Pipeline) fingerprint() core.ID {
	var enrich core.ID
	if p.enricher != nil {
		enrich = p.enricher.Fingerprint()
	}
	return core.IDFromContent(fmt.Sprintf("canon %x\nbuilder %x\nenrich %t %x\nstrict %t\nsmart %t\n",
		uint64(p.canon.Fingerprint()), uint64(p.builder.Fingerprint()),
		p.enricher != nil, uint64(enrich), p.strict, p.smartOnly))
}

// reuse returns the stored catalog when it was built from exactly these
// source contents with the same settings.
func (p *Pipeline) reuse(ctx context.Context, paths []string, states []core.SourceState) (*catalog.Catalog, bool) {
	snap, err := p.store.LoadSnapshot(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			p.logger.Warn("could not load stored snapshot", "err", err)
		}
		return nil, false
	}
	if !slices.Equal(snap.Build.Sources, paths) || !sameSources(snap.Sources, states) {
		return nil, false
	}
	if snap.Build.Settings != p.fingerprint() {
		p.logger.Info("build settings changed, rebuilding")
		return nil, false
	}
	cat, err := catalog.Restore(snap.Parts, snap.Terms, catalog.Metadata{
		RunID:   snap.Build.RunID,
		BuiltAt: snap.Build.BuiltAt,
		Sources: snap.Build.Sources,
	})
	if err != nil {
		p.logger.Warn("stored snapshot is unusable, rebuilding", "err", err)
		return nil, false
	}
	return cat, true
}

// sameSources compares stored and current source states by path and digest.
func sameSources(stored, current []core.SourceState) bool {
	if len(stored) != len(current) {
		return false
	}
	digests := make(map[string]core.ID, len(stored))
	for _, s := range stored {
		digests[s.Path] = s.Digest
	}
	for _, c := range current {
		d, ok := digests[c.Path]
		if !ok || d != c.Digest {
			return false
		}
	}
	return true
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
