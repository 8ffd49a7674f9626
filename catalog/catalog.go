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
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/partkb/core"
)

// Metadata describes the build a catalog came from.
type Metadata struct {
	RunID   string
	BuiltAt time.Time
	Sources []string
}

// Catalog is an immutable collection of parts and the vocabulary they
// reference. It exposes no mutating methods and is safe for concurrent reads.
type Catalog struct {
	parts  []core.Part
	byKey  map[string]int
	terms  []core.Term
	byTerm map[termKey]int
	meta   Metadata
}

func newCatalog(parts []core.Part, terms []core.Term, meta Metadata) *Catalog {
	c := &Catalog{
		parts:  parts,
		byKey:  make(map[string]int, len(parts)),
		terms:  terms,
		byTerm: make(map[termKey]int, len(terms)),
		meta:   meta,
	}
	for i := range parts {
		c.byKey[parts[i].Key] = i
	}
	for i := range terms {
		c.byTerm[termKey{kind: terms[i].Kind, token: terms[i].Token}] = i
	}
	return c
}

// Restore rebuilds a catalog from persisted parts and terms without running
// a build. Parts are validated and keys must be unique.
func Restore(parts []core.Part, terms []core.Term, meta Metadata) (*Catalog, error) {
	seen := make(map[string]bool, len(parts))
	for i := range parts {
		if err := core.ValidatePart(&parts[i]); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRestoreFailed, err)
		}
		if seen[parts[i].Key] {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrRestoreFailed, parts[i].Key)
		}
		seen[parts[i].Key] = true
	}
	for i := range terms {
		if err := core.ValidateTerm(&terms[i]); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRestoreFailed, err)
		}
	}
	meta.Sources = slices.Clone(meta.Sources)
	return newCatalog(slices.Clone(parts), slices.Clone(terms), meta), nil
}

// Len returns the number of parts.
func (c *Catalog) Len() int {
	return len(c.parts)
}

// Metadata returns the build metadata.
func (c *Catalog) Metadata() Metadata {
	m := c.meta
	m.Sources = slices.Clone(m.Sources)
	return m
}

// All iterates over the parts in catalog order.
func (c *Catalog) All() iter.Seq[core.Part] {
	return func(yield func(core.Part) bool) {
		for _, p := range c.parts {
			if !yield(p) {
				return
			}
		}
	}
}

// Parts returns a copy of the parts in catalog order.
func (c *Catalog) Parts() []core.Part {
	return slices.Clone(c.parts)
}

// SortedParts returns a copy of the parts ordered by identity key.
func (c *Catalog) SortedParts() []core.Part {
	out := slices.Clone(c.parts)
	slices.SortFunc(out, func(a, b core.Part) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

// Part looks up a part by identity key. Labels are accepted too and are
// converted to their key.
func (c *Catalog) Part(keyOrLabel string) (core.Part, bool) {
	if i, ok := c.byKey[keyOrLabel]; ok {
		return c.parts[i], true
	}
	if i, ok := c.byKey[LabelKey(keyOrLabel)]; ok {
		return c.parts[i], true
	}
	return core.Part{}, false
}

// Terms returns a copy of the vocabulary in first-reference order.
func (c *Catalog) Terms() []core.Term {
	return slices.Clone(c.terms)
}

// Term looks up a vocabulary term.
func (c *Catalog) Term(kind core.TermKind, token string) (core.Term, bool) {
	i, ok := c.byTerm[termKey{kind: kind, token: token}]
	if !ok {
		return core.Term{}, false
	}
	return c.terms[i], true
}

// TermsOfKind returns the terms of one kind, ordered by token.
func (c *Catalog) TermsOfKind(kind core.TermKind) []core.Term {
	var out []core.Term
	for _, t := range c.terms {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b core.Term) int {
		return strings.Compare(a.Token, b.Token)
	})
	return out
}

// CountByCategory returns the number of parts per category.
func (c *Catalog) CountByCategory() map[core.Category]int {
	counts := make(map[core.Category]int)
	for _, p := range c.parts {
		counts[p.Category]++
	}
	return counts
}

// Filter returns a new catalog holding only parts for which keep returns
// true. The vocabulary is reduced to the terms the kept parts reference, and
// property flags reflect only the kept parts.
func (c *Catalog) Filter(keep func(core.Part) bool) *Catalog {
	var parts []core.Part
	used := make(map[termKey]bool)
	observed := make(map[string]bool)
	actuated := make(map[string]bool)
	for _, p := range c.parts {
		if !keep(p) {
			continue
		}
		parts = append(parts, p)
		for _, tok := range p.ObservesProperty.Values() {
			used[termKey{core.TermProperty, tok}] = true
			observed[tok] = true
		}
		for _, tok := range p.ActsOnProperty.Values() {
			used[termKey{core.TermProperty, tok}] = true
			actuated[tok] = true
		}
		for _, tok := range p.Interfaces.Values() {
			used[termKey{core.TermInterface, tok}] = true
		}
		for _, tok := range p.FeatureOfInterest.Values() {
			used[termKey{core.TermFeature, tok}] = true
		}
	}
	var terms []core.Term
	for _, t := range c.terms {
		if !used[termKey{t.Kind, t.Token}] {
			continue
		}
		if t.Kind == core.TermProperty {
			t.Observable = observed[t.Token]
			t.Actuatable = actuated[t.Token]
		}
		terms = append(terms, t)
	}
	return newCatalog(parts, terms, c.Metadata())
}

// smartCategories are the categories that carry electrical behavior.
var smartCategories = map[core.Category]bool{
	core.CategorySensor:     true,
	core.CategoryActuator:   true,
	core.CategoryController: true,
	core.CategoryPower:      true,
}

// IsSmart reports whether a part belongs to a smart-system category and has
// a specific kind.
func IsSmart(p core.Part) bool {
	if !smartCategories[p.Category] {
		return false
	}
	switch strings.ToLower(p.Kind) {
	case "component", "nan", "unknown", "":
		return false
	}
	return true
}
