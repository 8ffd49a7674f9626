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


package core

import (
	"fmt"
	"strings"
)

// ParseCategory validates a category string.
// Leading/trailing whitespace and letter case are ignored; aliases are not
// resolved here (see the taxonomy package).
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// ValidatePart validates a Part according to domain rules.
//
// Validation rules:
//   - Key must not be empty
//   - Category must be one of the six catalog categories
//
// NOT validated (reported as warnings instead):
//   - voltage bound ordering (see CheckVoltageRange)
func ValidatePart(part *Part) error {
	if part == nil {
		return fmt.Errorf("%w: part is nil", ErrInvalidPart)
	}

	if part.Key == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPart, ErrEmptyKey)
	}

	if !part.Category.IsValid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidPart, ErrInvalidCategory, part.Category)
	}

	return nil
}

// CheckVoltageRange reports ErrRangeInconsistency when both voltage bounds
// are present and the minimum exceeds the maximum.
func CheckVoltageRange(part *Part) error {
	lo, okLo := part.VccMin.Get()
	hi, okHi := part.VccMax.Get()
	if okLo && okHi && lo > hi {
		return fmt.Errorf("%w: vcc_min %g > vcc_max %g", ErrRangeInconsistency, lo, hi)
	}
	return nil
}

// ValidateTerm validates a vocabulary Term.
func ValidateTerm(term *Term) error {
	if term == nil {
		return fmt.Errorf("%w: term is nil", ErrInvalidTerm)
	}
	if term.Token == "" {
		return fmt.Errorf("%w: token cannot be empty", ErrInvalidTerm)
	}
	if term.Kind < TermProperty || term.Kind > TermFeature {
		return fmt.Errorf("%w: kind %d", ErrInvalidTerm, term.Kind)
	}
	return nil
}

// ValidateClass resolves a query target class, returning ErrUnknownQueryClass
// when it names no category.
func ValidateClass(name string) (Category, error) {
	c, ok := ResolveClass(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownQueryClass, name)
	}
	return c, nil
}
