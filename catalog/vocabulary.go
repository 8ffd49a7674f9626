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

import "github.com/poiesic/partkb/core"

type termKey struct {
	kind  core.TermKind
	token string
}

// vocabulary interns terms for a single build. Every (kind, token) pair is
// created once, on first reference, and kept in first-reference order.
type vocabulary struct {
	terms []core.Term
	index map[termKey]int
}

func newVocabulary() *vocabulary {
	return &vocabulary{index: make(map[termKey]int)}
}

func (v *vocabulary) intern(kind core.TermKind, token string) *core.Term {
	k := termKey{kind: kind, token: token}
	if i, ok := v.index[k]; ok {
		return &v.terms[i]
	}
	t := core.Term{Kind: kind, Token: token}
	t.Id = core.IDFromContent(t.Tuple())
	v.terms = append(v.terms, t)
	v.index[k] = len(v.terms) - 1
	return &v.terms[len(v.terms)-1]
}

func (v *vocabulary) observe(tokens []string) {
	for _, tok := range tokens {
		v.intern(core.TermProperty, tok).Observable = true
	}
}

func (v *vocabulary) actuate(tokens []string) {
	for _, tok := range tokens {
		v.intern(core.TermProperty, tok).Actuatable = true
	}
}

func (v *vocabulary) internAll(kind core.TermKind, tokens []string) {
	for _, tok := range tokens {
		v.intern(kind, tok)
	}
}
