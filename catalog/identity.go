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
	"strings"

	"github.com/poiesic/partkb/core"
)

// LabelKey derives a part identity key from a label: lowercased, every run of
// characters outside [a-z0-9] collapsed to a single "_", with leading and
// trailing separators trimmed. "HC-SR04" and "hc sr04" share the key "hc_sr04".
func LabelKey(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	pendingSep := false
	for i := 0; i < len(label); i++ {
		c := label[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteByte(c)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// DisplayLabel returns the label a record is shown and keyed by. Records
// without a label fall back to "manufacturer mpn" when both are present.
func DisplayLabel(rec *core.RawRecord) string {
	if label := strings.TrimSpace(rec.Label); !isAbsent(label) {
		return label
	}
	mfr := strings.TrimSpace(rec.Manufacturer)
	mpn := strings.TrimSpace(rec.MPN)
	if !isAbsent(mfr) && !isAbsent(mpn) {
		return mfr + " " + mpn
	}
	return ""
}

// PartKey returns the identity key of a record: the key of its display
// label, or of "manufacturer mpn" when the label has no ASCII letters or
// digits. It returns "" when neither yields a key.
func PartKey(rec *core.RawRecord) string {
	if key := LabelKey(DisplayLabel(rec)); key != "" {
		return key
	}
	mfr := strings.TrimSpace(rec.Manufacturer)
	mpn := strings.TrimSpace(rec.MPN)
	if isAbsent(mfr) || isAbsent(mpn) {
		return ""
	}
	return LabelKey(mfr + " " + mpn)
}

// partNumberKey returns the case-insensitive manufacturer+mpn identity, or ""
// when either half is missing.
func partNumberKey(rec *core.RawRecord) string {
	mfr := strings.ToLower(strings.TrimSpace(rec.Manufacturer))
	mpn := strings.ToLower(strings.TrimSpace(rec.MPN))
	if isAbsent(mfr) || isAbsent(mpn) {
		return ""
	}
	return mfr + "|" + mpn
}
