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


package search

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/core"
)

// Stage names a filter step of a search.
type Stage string

const (
	StageClass      Stage = "class"
	StageCapability Stage = "capability"
	StageInterface  Stage = "interface"
	StageVoltage    Stage = "voltage"
	StageBudget     Stage = "budget"
	StageCurrency   Stage = "currency"
)

// Stages lists the filter steps in the order they run.
var Stages = []Stage{StageClass, StageCapability, StageInterface, StageVoltage, StageBudget, StageCurrency}

// StageCount is the number of candidates left after a stage.
type StageCount struct {
	Stage     Stage
	Remaining int
}

// Result is the outcome of a search.
type Result struct {
	// Class is the resolved target category, empty when the query did not
	// constrain the class.
	Class       core.Category
	Matches     []core.Match
	Stages      []StageCount
	Diagnostics core.Diagnostics
}

// Searcher answers constraint queries against a catalog. It holds only
// configuration and is safe for concurrent use.
type Searcher struct {
	policy Policy
	logger *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPolicy sets the missing-data policy.
// Default is DefaultPolicy().
func WithPolicy(policy Policy) Option {
	return func(s *Searcher) error {
		s.policy = policy
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(opts ...Option) (*Searcher, error) {
	s := &Searcher{
		policy: DefaultPolicy(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Policy returns the searcher's missing-data policy.
func (s *Searcher) Policy() Policy {
	return s.policy
}

// Search runs a query against cat.
// An unknown target class is not an error: it yields no matches and an
// UnknownQueryClass diagnostic. Use core.ValidateClass beforehand to tell
// bad input apart from an empty result.
func (s *Searcher) Search(cat *catalog.Catalog, q core.Query) (*Result, error) {
	return s.SearchWithMonitor(cat, q, nil)
}

// SearchWithMonitor runs a query, reporting each stage to monitor.
func (s *Searcher) SearchWithMonitor(cat *catalog.Catalog, q core.Query, monitor SearchMonitor) (*Result, error) {
	if cat == nil {
		return nil, ErrCatalogRequired
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	q.RequiredProperties = normalizeTokens(q.RequiredProperties)
	q.RequiredInterfaces = normalizeTokens(q.RequiredInterfaces)
	q.Currency = strings.TrimSpace(q.Currency)
	monitor.Start(q)

	result := &Result{Matches: []core.Match{}}

	var class core.Category
	if strings.TrimSpace(q.TargetClass) != "" {
		var err error
		class, err = core.ValidateClass(q.TargetClass)
		if err != nil {
			s.logger.Warn("unknown query class", "class", q.TargetClass)
			result.Diagnostics.Add(core.Diagnostic{
				Kind:     core.DiagUnknownQueryClass,
				Identity: q.TargetClass,
				Message:  err.Error(),
			})
			monitor.Finish(result.Matches)
			return result, nil
		}
		result.Class = class
	}

	candidates := cat.Parts()
	for _, st := range s.stages(class, q) {
		if st.keep != nil {
			candidates = slices.DeleteFunc(candidates, func(p core.Part) bool {
				return !st.keep(&p)
			})
		}
		result.Stages = append(result.Stages, StageCount{Stage: st.name, Remaining: len(candidates)})
		monitor.AfterStage(st.name, len(candidates))
	}

	slices.SortFunc(candidates, compareParts)
	for i, p := range candidates {
		_, priced := p.Price.Get()
		result.Matches = append(result.Matches, core.Match{
			Part:              p,
			Rank:              i + 1,
			MatchedProperties: p.Capabilities().Intersect(q.RequiredProperties),
			MatchedInterfaces: p.Interfaces.Intersect(q.RequiredInterfaces),
			PriceKnown:        priced,
		})
	}

	s.logger.Debug("search complete", "class", class, "matches", len(result.Matches))
	monitor.Finish(result.Matches)
	return result, nil
}

type stage struct {
	name Stage
	keep func(*core.Part) bool // nil when the constraint is unset
}

func (s *Searcher) stages(class core.Category, q core.Query) []stage {
	out := make([]stage, 0, len(Stages))

	var byClass func(*core.Part) bool
	if class != "" {
		byClass = func(p *core.Part) bool { return p.Category == class }
	}
	out = append(out, stage{StageClass, byClass})

	var byCapability func(*core.Part) bool
	if len(q.RequiredProperties) > 0 {
		byCapability = func(p *core.Part) bool {
			caps := p.Capabilities()
			for _, prop := range q.RequiredProperties {
				if !caps.Has(prop) {
					return false
				}
			}
			return true
		}
	}
	out = append(out, stage{StageCapability, byCapability})

	var byInterface func(*core.Part) bool
	if len(q.RequiredInterfaces) > 0 {
		byInterface = func(p *core.Part) bool {
			if p.Interfaces.IsEmpty() {
				return s.policy.Interface == MissingPasses
			}
			return len(p.Interfaces.Intersect(q.RequiredInterfaces)) > 0
		}
	}
	out = append(out, stage{StageInterface, byInterface})

	var byVoltage func(*core.Part) bool
	if v, ok := q.TargetVoltage.Get(); ok {
		byVoltage = func(p *core.Part) bool {
			return s.admit(p.VccMin, s.policy.Voltage, func(lo float64) bool { return lo <= v }) &&
				s.admit(p.VccMax, s.policy.Voltage, func(hi float64) bool { return v <= hi })
		}
	}
	out = append(out, stage{StageVoltage, byVoltage})

	var byBudget func(*core.Part) bool
	if budget, ok := q.MaxBudget.Get(); ok {
		byBudget = func(p *core.Part) bool {
			return s.admit(p.Price, s.policy.Budget, func(price float64) bool { return price <= budget })
		}
	}
	out = append(out, stage{StageBudget, byBudget})

	var byCurrency func(*core.Part) bool
	if q.Currency != "" {
		byCurrency = func(p *core.Part) bool {
			if p.Currency == "" {
				return s.policy.Currency == MissingPasses
			}
			return p.Currency == q.Currency
		}
	}
	out = append(out, stage{StageCurrency, byCurrency})

	return out
}

// admit applies check to a present measure and the policy to an absent one.
func (s *Searcher) admit(m core.Measure, policy Missing, check func(float64) bool) bool {
	v, ok := m.Get()
	if !ok {
		return policy == MissingPasses
	}
	return check(v)
}

// compareParts orders by price with unpriced parts last, then label, then key.
func compareParts(a, b core.Part) int {
	pa, okA := a.Price.Get()
	pb, okB := b.Price.Get()
	switch {
	case okA && okB:
		if c := cmp.Compare(pa, pb); c != 0 {
			return c
		}
	case okA:
		return -1
	case okB:
		return 1
	}
	if c := strings.Compare(a.Label, b.Label); c != 0 {
		return c
	}
	return strings.Compare(a.Key, b.Key)
}

// InterfacesForController returns the interfaces a controller board offers,
// for use as a query's required interfaces.
func InterfacesForController(cat *catalog.Catalog, keyOrLabel string) ([]string, error) {
	if cat == nil {
		return nil, ErrCatalogRequired
	}
	p, ok := cat.Part(keyOrLabel)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPartNotFound, keyOrLabel)
	}
	if p.Category != core.CategoryController {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotController, keyOrLabel, p.Category)
	}
	return p.Interfaces.Values(), nil
}
