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


package canon

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/taxonomy"
)

// FallbackKind is assigned together with core.CategoryTooling when no rule matches.
const FallbackKind = "component"

// GenericKind is assigned when a trusted category has no matching rule.
const GenericKind = "generic"

// Decision records which branch produced an assignment.
type Decision int

const (
	// DecisionOverride: the label has a manual override entry.
	DecisionOverride Decision = iota + 1
	// DecisionTrusted: manual category and kind were kept unchanged.
	DecisionTrusted
	// DecisionTrustedKindMissing: manual category kept, kind detected within it.
	DecisionTrustedKindMissing
	// DecisionDetected: category and kind detected from the full rule table.
	DecisionDetected
	// DecisionFallback: nothing matched.
	DecisionFallback
)

func (d Decision) String() string {
	switch d {
	case DecisionOverride:
		return "override"
	case DecisionTrusted:
		return "trusted"
	case DecisionTrustedKindMissing:
		return "trusted-kind-missing"
	case DecisionDetected:
		return "detected"
	case DecisionFallback:
		return "fallback"
	}
	return "unknown"
}

// Assignment is the outcome of canonicalizing one record.
type Assignment struct {
	Category core.Category
	Kind     string
	Decision Decision

	// InvalidCategory holds the raw category text when it was non-empty but
	// matched neither a category nor a known alias.
	InvalidCategory string
}

// trustedCategories are the categories a manual entry is trusted for.
// Tooling is the default bucket, so a tooling entry is always re-detected.
var trustedCategories = map[core.Category]bool{
	core.CategorySensor:     true,
	core.CategoryActuator:   true,
	core.CategoryController: true,
	core.CategoryPower:      true,
	core.CategoryMechanical: true,
}

// Canonicalizer assigns a (category, kind) pair to raw records.
// It is safe for concurrent use.
type Canonicalizer struct {
	taxonomy  *taxonomy.Taxonomy
	overrides *taxonomy.Overrides
	logger    *slog.Logger
}

// Option configures a Canonicalizer.
type Option func(*Canonicalizer) error

// WithOverrides sets the manual override table consulted before anything else.
func WithOverrides(o *taxonomy.Overrides) Option {
	return func(c *Canonicalizer) error {
		c.overrides = o
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Canonicalizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// New creates a canonicalizer over a taxonomy.
func New(tx *taxonomy.Taxonomy, opts ...Option) (*Canonicalizer, error) {
	if tx == nil {
		return nil, ErrTaxonomyRequired
	}
	c := &Canonicalizer{
		taxonomy: tx,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Fingerprint identifies the rules and overrides behind this canonicalizer.
// Canonicalizers with equal fingerprints assign every record alike.
func (c *Canonicalizer) Fingerprint() core.ID {
	var b strings.Builder
	for _, r := range c.taxonomy.Rules() {
		fmt.Fprintf(&b, "rule %s %q %q\n", r.Category, r.Kind, r.Keywords)
	}
	for _, a := range c.overrides.Entries() {
		fmt.Fprintf(&b, "override %q %s %q\n", a.Label, a.Category, a.Kind)
	}
	return core.IDFromContent(b.String())
}

// Canonicalize computes the assignment for a record without modifying it.
//
// Manual data wins: an override entry for the label is returned as is, and a
// trusted manual category is never replaced. Only a missing kind is detected,
// and only among that category's rules. Records without a trusted category
// are classified from the full rule table, falling back to
// (tooling, component).
func (c *Canonicalizer) Canonicalize(rec *core.RawRecord) Assignment {
	if a, ok := c.overrides.Lookup(rec.Label); ok {
		return Assignment{Category: a.Category, Kind: a.Kind, Decision: DecisionOverride}
	}

	rawCategory := strings.TrimSpace(rec.Category)
	category, known := taxonomy.NormalizeCategory(rawCategory)
	kind := strings.TrimSpace(rec.Kind)
	if strings.EqualFold(kind, "nan") {
		kind = ""
	}

	var invalid string
	if !known && rawCategory != "" && !strings.EqualFold(rawCategory, "nan") {
		invalid = rawCategory
	}

	text := taxonomy.SearchText(rec.Label, rec.MPN, rec.Notes)

	if known && trustedCategories[category] {
		if kind != "" {
			return Assignment{Category: category, Kind: kind, Decision: DecisionTrusted}
		}
		if r, ok := c.taxonomy.DetectWithin(category, text); ok {
			return Assignment{Category: category, Kind: r.Kind, Decision: DecisionTrustedKindMissing}
		}
		return Assignment{Category: category, Kind: GenericKind, Decision: DecisionTrustedKindMissing}
	}

	if r, ok := c.taxonomy.Detect(text); ok {
		return Assignment{Category: r.Category, Kind: r.Kind, Decision: DecisionDetected, InvalidCategory: invalid}
	}

	c.logger.Debug("no detection rule matched", "label", rec.Label, "mpn", rec.MPN)
	return Assignment{Category: core.CategoryTooling, Kind: FallbackKind, Decision: DecisionFallback, InvalidCategory: invalid}
}

// Apply canonicalizes rec and writes the assigned category and kind back onto it.
func (c *Canonicalizer) Apply(rec *core.RawRecord) Assignment {
	a := c.Canonicalize(rec)
	rec.Category = string(a.Category)
	rec.Kind = a.Kind
	return a
}

// Stats counts assignments per category and decision.
type Stats struct {
	ByCategory map[core.Category]int
	ByDecision map[Decision]int
}

// ApplyAll canonicalizes every record in place and returns summary counts.
func (c *Canonicalizer) ApplyAll(records []*core.RawRecord) Stats {
	stats := Stats{
		ByCategory: make(map[core.Category]int),
		ByDecision: make(map[Decision]int),
	}
	for _, rec := range records {
		a := c.Apply(rec)
		stats.ByCategory[a.Category]++
		stats.ByDecision[a.Decision]++
	}
	return stats
}
