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
	"math"
	"strconv"
	"strings"

	"github.com/poiesic/partkb/core"
)

// DefaultSeparators split multi-valued token fields.
const DefaultSeparators = ",|"

// isAbsent reports whether a trimmed value stands for "no data".
func isAbsent(s string) bool {
	return s == "" || strings.EqualFold(s, "nan")
}

// ParseMeasure parses a decimal permissively. Empty, "nan" and unparsable
// text yield an absent measure; so do infinities.
func ParseMeasure(s string) core.Measure {
	s = strings.TrimSpace(s)
	if isAbsent(s) {
		return core.Measure{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return core.Measure{}
	}
	return core.Some(v)
}

// ParseCount parses an integer column. Decimal text such as "4.0" is
// truncated to an integer.
func ParseCount(s string) core.Measure {
	m := ParseMeasure(s)
	if !m.Valid {
		return m
	}
	return core.Some(math.Trunc(m.Value))
}

// SplitTokens splits s on any of the separator characters, trimming each
// token and dropping empty and "nan" tokens. Order and duplicates are kept;
// TokenSet takes care of both.
func SplitTokens(s, separators string) []string {
	s = strings.TrimSpace(s)
	if isAbsent(s) {
		return nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if !isAbsent(f) {
			out = append(out, f)
		}
	}
	return out
}

// formatMeasure renders a measure the way ParseMeasure reads it back.
func formatMeasure(m core.Measure) string {
	if !m.Valid {
		return ""
	}
	return strconv.FormatFloat(m.Value, 'g', -1, 64)
}
