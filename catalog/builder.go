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


package catalog

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/partkb/core"
)

// DefaultControllerInterfaces are assigned to controllers that list none.
var DefaultControllerInterfaces = []string{"I2C", "SPI", "UART", "ADC", "GPIO"}

// Builder turns normalized raw records into a Catalog.
// A Builder holds only configuration and may be reused.
type Builder struct {
	separators      string
	controllerIface []string
	now             func() time.Time
	logger          *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithSeparators sets the characters that split multi-valued fields.
// Default is "," and "|".
func WithSeparators(seps string) Option {
	return func(b *Builder) error {
		if seps == "" {
			return ErrEmptySeparators
		}
		b.separators = seps
		return nil
	}
}

// WithDefaultControllerInterfaces replaces the interface set given to
// controllers with none. An empty list disables the default.
func WithDefaultControllerInterfaces(ifaces []string) Option {
	return func(b *Builder) error {
		b.controllerIface = slices.Clone(ifaces)
		return nil
	}
}

// WithClock sets the time source used to stamp builds.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) error {
		if now != nil {
			b.now = now
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		separators:      DefaultSeparators,
		controllerIface: slices.Clone(DefaultControllerInterfaces),
		now:             func() time.Time { return time.Now().UTC() },
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Fingerprint identifies the options that change what Build produces.
func (b *Builder) Fingerprint() core.ID {
	return core.IDFromContent(fmt.Sprintf("separators %q\ncontroller interfaces %q\n", b.separators, b.controllerIface))
}

// DuplicateGroup lists the records merged into one part.
type DuplicateGroup struct {
	Kept      string   // Key of the surviving part
	Discarded []string // Labels of the discarded records, in input order
}

// Report summarizes a build.
type Report struct {
	RunID           string
	BuiltAt         time.Time
	Input           int
	Accepted        int
	Duplicates      int
	Dropped         int
	DuplicateGroups []DuplicateGroup
	Diagnostics     core.Diagnostics
}

// Record converts the report into a persistable build record.
func (r *Report) Record(sources []string, terms int) core.BuildRecord {
	return core.BuildRecord{
		RunID:      r.RunID,
		BuiltAt:    r.BuiltAt,
		Sources:    slices.Clone(sources),
		Input:      r.Input,
		Accepted:   r.Accepted,
		Duplicates: r.Duplicates,
		Dropped:    r.Dropped,
		Warnings:   r.Diagnostics.Warnings(),
		Terms:      terms,
	}
}

// candidate is a record that passed identity and category checks.
type candidate struct {
	rec      *core.RawRecord
	label    string
	key      string
	pnKey    string
	category core.Category
}

// Build constructs a catalog from records.
//
// Records without an identity or with a category outside the six are
// dropped and reported. Records sharing a label key or a manufacturer+mpn
// pair, directly or through a chain of such links, collapse into the
// earliest record. Build never fails as a whole.
func (b *Builder) Build(records []*core.RawRecord, sources ...string) (*Catalog, *Report) {
	report := &Report{
		RunID:   uuid.NewString(),
		BuiltAt: b.now(),
		Input:   len(records),
	}

	cands := make([]candidate, 0, len(records))
	for _, rec := range records {
		if c, ok := b.admit(rec, report); ok {
			cands = append(cands, c)
		}
	}

	uf := newUnionFind(len(cands))
	owners := make(map[string]int, len(cands)*2)
	link := func(i int, k string) {
		if j, ok := owners[k]; ok {
			uf.union(i, j)
			return
		}
		owners[k] = i
	}
	for i, c := range cands {
		link(i, "label:"+c.key)
		if c.pnKey != "" {
			link(i, "mpn:"+c.pnKey)
		}
	}

	groups := uf.components()
	vocab := newVocabulary()
	parts := make([]core.Part, 0, len(groups))
	for i, c := range cands {
		root := uf.find(i)
		if root != i {
			kept := cands[root]
			report.Duplicates++
			report.Diagnostics.Add(core.Diagnostic{
				Kind:     core.DiagDuplicateRecord,
				Identity: c.label,
				Source:   c.rec.Source,
				Line:     c.rec.Line,
				Message:  fmt.Sprintf("duplicate of %q", kept.label),
			})
			continue
		}

		if members := groups[root]; len(members) > 1 {
			g := DuplicateGroup{Kept: c.key}
			for _, m := range members[1:] {
				g.Discarded = append(g.Discarded, cands[m].label)
			}
			report.DuplicateGroups = append(report.DuplicateGroups, g)
		}

		part := b.newPart(c, vocab)
		if err := core.CheckVoltageRange(&part); err != nil {
			report.Diagnostics.Add(core.Diagnostic{
				Kind:     core.DiagRangeInconsistency,
				Identity: part.Label,
				Source:   c.rec.Source,
				Line:     c.rec.Line,
				Message:  err.Error(),
			})
			b.logger.Warn("inconsistent voltage range", "part", part.Key, "err", err)
		}
		parts = append(parts, part)
	}
	report.Accepted = len(parts)

	b.logger.Debug("catalog built",
		"run", report.RunID,
		"input", report.Input,
		"accepted", report.Accepted,
		"duplicates", report.Duplicates,
		"dropped", report.Dropped,
		"terms", len(vocab.terms))

	meta := Metadata{RunID: report.RunID, BuiltAt: report.BuiltAt, Sources: slices.Clone(sources)}
	return newCatalog(parts, vocab.terms, meta), report
}

// admit checks identity and category, reporting and dropping bad records.
func (b *Builder) admit(rec *core.RawRecord, report *Report) (candidate, bool) {
	drop := func(kind core.DiagnosticKind, identity, source string, line int, msg string) {
		report.Dropped++
		report.Diagnostics.Add(core.Diagnostic{
			Kind:     kind,
			Identity: identity,
			Source:   source,
			Line:     line,
			Message:  msg,
		})
		b.logger.Warn("dropping record", "kind", kind, "identity", identity, "source", source, "line", line, "reason", msg)
	}

	if rec == nil {
		drop(core.DiagMalformedRecord, "", "", 0, "nil record")
		return candidate{}, false
	}

	label := DisplayLabel(rec)
	if label == "" {
		drop(core.DiagMalformedRecord, rec.MPN, rec.Source, rec.Line, "record has no label and no manufacturer+mpn")
		return candidate{}, false
	}
	key := PartKey(rec)
	if key == "" {
		drop(core.DiagMalformedRecord, label, rec.Source, rec.Line, "label has no alphanumeric characters and no manufacturer+mpn")
		return candidate{}, false
	}

	category, err := core.ParseCategory(rec.Category)
	if err != nil {
		drop(core.DiagInvalidCategory, label, rec.Source, rec.Line, err.Error())
		return candidate{}, false
	}

	return candidate{
		rec:      rec,
		label:    label,
		key:      key,
		pnKey:    partNumberKey(rec),
		category: category,
	}, true
}

// newPart converts an admitted record into a Part, interning its tokens.
func (b *Builder) newPart(c candidate, vocab *vocabulary) core.Part {
	rec := c.rec

	observed := SplitTokens(rec.ObservedProperty, b.separators)
	actuated := SplitTokens(rec.ActuatableProperty, b.separators)
	features := SplitTokens(rec.FeatureOfInterest, b.separators)
	ifaces := SplitTokens(rec.Iface, b.separators)
	if len(ifaces) == 0 && c.category == core.CategoryController {
		ifaces = slices.Clone(b.controllerIface)
	}

	vocab.observe(observed)
	vocab.actuate(actuated)
	vocab.internAll(core.TermInterface, ifaces)
	vocab.internAll(core.TermFeature, features)

	kind := strings.TrimSpace(rec.Kind)
	if isAbsent(kind) {
		kind = ""
	}

	return core.Part{
		Id:           core.IDFromContent(c.key),
		Key:          c.key,
		Label:        c.label,
		Manufacturer: cleanText(rec.Manufacturer),
		MPN:          cleanText(rec.MPN),
		Category:     c.category,
		Kind:         kind,

		ObservesProperty:  core.NewTokenSet(observed...),
		ActsOnProperty:    core.NewTokenSet(actuated...),
		Interfaces:        core.NewTokenSet(ifaces...),
		FeatureOfInterest: core.NewTokenSet(features...),

		VccMin:          ParseMeasure(rec.VccMin),
		VccMax:          ParseMeasure(rec.VccMax),
		LogicLevel:      ParseMeasure(rec.LogicLevel),
		IActiveMA:       ParseMeasure(rec.IActiveMA),
		IIdleUA:         ParseMeasure(rec.IIdleUA),
		PinCount:        ParseCount(rec.PinCount),
		TempMinC:        ParseMeasure(rec.TempMinC),
		TempMaxC:        ParseMeasure(rec.TempMaxC),
		SPIMaxMHz:       ParseMeasure(rec.SPIMaxMHz),
		SampleRateMaxHz: ParseMeasure(rec.SampleRateMaxHz),
		LatencyMs:       ParseMeasure(rec.LatencyMs),
		AccuracyPct:     ParseMeasure(rec.AccuracyPct),
		RangeMin:        ParseMeasure(rec.RangeMin),
		RangeMax:        ParseMeasure(rec.RangeMax),
		Price:           ParseMeasure(rec.OfferPrice),

		PackageCase:    cleanText(rec.PackageCase),
		I2CAddrDefault: cleanText(rec.I2CAddrDefault),
		I2CAddrRange:   cleanText(rec.I2CAddrRange),
		UARTBaud:       cleanText(rec.UARTBaud),
		Units:          cleanText(rec.Units),
		DatasheetURL:   cleanText(rec.DatasheetURL),
		ProductURL:     cleanText(rec.ProductURL),
		Currency:       cleanText(rec.Currency),
		Lifecycle:      cleanText(rec.Lifecycle),
		Notes:          cleanText(rec.Notes),
		Source:         rec.Source,
	}
}

// cleanText trims s and maps "nan" to empty.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if isAbsent(s) {
		return ""
	}
	return s
}

// Build is a convenience wrapper around a default Builder.
func Build(records []*core.RawRecord) (*Catalog, *Report) {
	b, _ := NewBuilder()
	return b.Build(records)
}
