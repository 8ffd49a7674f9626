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


package taxonomy

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/poiesic/partkb/core"
	"gopkg.in/yaml.v3"
)

// Taxonomy holds an ordered, immutable list of detection rules.
type Taxonomy struct {
	rules []Rule
	kinds map[core.Category][]string
}

// New builds a taxonomy from rules, keeping their order.
// Keywords are lowercased and trimmed; empty keywords are dropped.
func New(rules []Rule) (*Taxonomy, error) {
	if len(rules) == 0 {
		return nil, ErrEmptyRules
	}

	t := &Taxonomy{
		rules: make([]Rule, 0, len(rules)),
		kinds: make(map[core.Category][]string),
	}
	for i, r := range rules {
		if !r.Category.IsValid() {
			return nil, fmt.Errorf("%w: rule %d: %w: %q", ErrInvalidRule, i, core.ErrInvalidCategory, r.Category)
		}
		kind := strings.TrimSpace(r.Kind)
		if kind == "" {
			return nil, fmt.Errorf("%w: rule %d: empty kind", ErrInvalidRule, i)
		}
		var keywords []string
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("%w: rule %d (%s/%s): no keywords", ErrInvalidRule, i, r.Category, kind)
		}
		t.rules = append(t.rules, Rule{Category: r.Category, Kind: kind, Keywords: keywords})
		if !slices.Contains(t.kinds[r.Category], kind) {
			t.kinds[r.Category] = append(t.kinds[r.Category], kind)
		}
	}
	return t, nil
}

// Default returns a taxonomy over DefaultRules.
func Default() *Taxonomy {
	t, err := New(DefaultRules)
	if err != nil {
		panic(err) // built-in table is static
	}
	return t
}

// Rules returns a copy of the rules in evaluation order.
func (t *Taxonomy) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	for i, r := range t.rules {
		out[i] = Rule{Category: r.Category, Kind: r.Kind, Keywords: slices.Clone(r.Keywords)}
	}
	return out
}

// Kinds returns the kinds defined for a category in rule order.
func (t *Taxonomy) Kinds(c core.Category) []string {
	return slices.Clone(t.kinds[c])
}

// Detect scans all rules in order and returns the first one with a keyword
// contained in text. text must already be lowercase (see SearchText).
func (t *Taxonomy) Detect(text string) (Rule, bool) {
	for _, r := range t.rules {
		if r.matches(text) {
			return r, true
		}
	}
	return Rule{}, false
}

// DetectWithin is Detect restricted to the rules of one category.
func (t *Taxonomy) DetectWithin(c core.Category, text string) (Rule, bool) {
	for _, r := range t.rules {
		if r.Category == c && r.matches(text) {
			return r, true
		}
	}
	return Rule{}, false
}

func (r Rule) matches(text string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// SearchText builds the lowercase text detection runs against.
func SearchText(label, mpn, notes string) string {
	return strings.ToLower(label) + " " + strings.ToLower(mpn) + " " + strings.ToLower(notes)
}

// RulesFile is the YAML layout for custom detection rules.
//
//	replace: false
//	rules:
//	  - category: sensor
//	    kind: flame
//	    keywords: [flame sensor, flame]
//
// Custom rules are evaluated before the built-in table unless replace is set,
// in which case they are the whole table.
type RulesFile struct {
	Replace bool   `yaml:"replace"`
	Rules   []Rule `yaml:"rules"`
}

// LoadFile builds a taxonomy from a YAML rules file.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if rf.Replace {
		return New(rf.Rules)
	}
	return New(append(slices.Clone(rf.Rules), DefaultRules...))
}
