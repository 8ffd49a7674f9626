package ingestion

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/partkb/core"
)

// protectedColumns are never written by enrichment: they carry the record's
// identity and its live pricing.
var protectedColumns = map[string]bool{
	"part_label":  true,
	"mpn":         true,
	"offer_price": true,
	"currency":    true,
}

// minLabelMPN is the shortest library mpn that may match inside a label.
const minLabelMPN = 4

// Enricher fills sparse records from a library of well-known parts.
type Enricher struct {
	library   []*core.RawRecord
	overwrite bool
	logger    *slog.Logger
}

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher) error

// WithLibrary replaces the standard part library.
func WithLibrary(records []*core.RawRecord) EnricherOption {
	return func(e *Enricher) error {
		e.library = records
		return nil
	}
}

// WithOverwrite makes enrichment replace present values instead of only
// filling empty ones. Protected columns are never replaced.
func WithOverwrite(overwrite bool) EnricherOption {
	return func(e *Enricher) error {
		e.overwrite = overwrite
		return nil
	}
}

// WithEnricherLogger sets a custom logger.
// Default is slog.Default().
func WithEnricherLogger(logger *slog.Logger) EnricherOption {
	return func(e *Enricher) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEnricher creates an enricher over the standard part library.
func NewEnricher(opts ...EnricherOption) (*Enricher, error) {
	e := &Enricher{
		library: StandardParts(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Fingerprint identifies the library and overwrite mode.
func (e *Enricher) Fingerprint() core.ID {
	var b strings.Builder
	fmt.Fprintf(&b, "overwrite %t\n", e.overwrite)
	for _, rec := range e.library {
		if rec != nil {
			fmt.Fprintf(&b, "%+v\n", *rec)
		}
	}
	return core.IDFromContent(b.String())
}

// Match finds the library part a record describes.
//
// Matching runs in two passes over the whole library. The strong pass looks
// for a library mpn contained in the record's mpn. Only when nothing matches
// does the weak pass look for a library label, or a library mpn of at least
// four characters, contained in the record's label. Comparison is
// case-insensitive and the first library entry wins within a pass.
func (e *Enricher) Match(rec *core.RawRecord) (*core.RawRecord, bool) {
	mpn := normalizeText(rec.MPN)
	label := normalizeText(rec.Label)

	if mpn != "" {
		for _, std := range e.library {
			if m := normalizeText(std.MPN); m != "" && strings.Contains(mpn, m) {
				return std, true
			}
		}
	}

	if label == "" {
		return nil, false
	}
	for _, std := range e.library {
		if l := normalizeText(std.Label); l != "" && strings.Contains(label, l) {
			return std, true
		}
		if m := normalizeText(std.MPN); len(m) >= minLabelMPN && strings.Contains(label, m) {
			return std, true
		}
	}
	return nil, false
}

// Enrich copies library values onto rec and returns the number of columns
// written. A record without a library match is left untouched.
func (e *Enricher) Enrich(rec *core.RawRecord) int {
	std, ok := e.Match(rec)
	if !ok {
		return 0
	}

	written := 0
	for _, col := range core.Columns {
		if protectedColumns[col] {
			continue
		}
		value := std.Field(col)
		if value == "" {
			continue
		}
		current := rec.Field(col)
		if !e.overwrite && normalizeText(current) != "" {
			continue
		}
		if current == value {
			continue
		}
		rec.SetField(col, value)
		written++
	}

	if written > 0 {
		e.logger.Debug("enriched record", "part", rec.Label, "match", std.Label, "columns", written)
	}
	return written
}

// EnrichAll enriches every record in place and returns how many changed.
func (e *Enricher) EnrichAll(records []*core.RawRecord) int {
	changed := 0
	for _, rec := range records {
		if e.Enrich(rec) > 0 {
			changed++
		}
	}
	return changed
}

// normalizeText lowercases and trims s, treating "nan" as empty.
func normalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "nan" {
		return ""
	}
	return s
}
