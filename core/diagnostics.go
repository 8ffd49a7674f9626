package core

import (
	"fmt"
	"slices"
)

// DiagnosticKind classifies a non-fatal problem found while building or querying.
type DiagnosticKind string

const (
	// DiagMalformedRecord: record had no usable identity and was dropped.
	DiagMalformedRecord DiagnosticKind = "MalformedRecord"
	// DiagInvalidCategory: record category is not a catalog category; dropped.
	DiagInvalidCategory DiagnosticKind = "InvalidCategory"
	// DiagDuplicateRecord: record collided with an earlier one and was discarded.
	DiagDuplicateRecord DiagnosticKind = "DuplicateRecord"
	// DiagRangeInconsistency: vcc_min > vcc_max; the part is kept.
	DiagRangeInconsistency DiagnosticKind = "RangeInconsistency"
	// DiagUnknownQueryClass: query target class maps to no category.
	DiagUnknownQueryClass DiagnosticKind = "UnknownQueryClass"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Severity returns the default severity of the kind.
func (k DiagnosticKind) Severity() Severity {
	switch k {
	case DiagMalformedRecord, DiagInvalidCategory:
		return SeverityError
	case DiagDuplicateRecord:
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

// Diagnostic is a structured report about one record or query.
type Diagnostic struct {
	Kind     DiagnosticKind
	Identity string // Label, key or class the diagnostic is about
	Source   string
	Line     int
	Message  string
}

func (d Diagnostic) String() string {
	loc := d.Source
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", d.Source, d.Line)
	}
	if loc == "" {
		return fmt.Sprintf("%s %s: %s", d.Kind, d.Identity, d.Message)
	}
	return fmt.Sprintf("%s %s (%s): %s", d.Kind, d.Identity, loc, d.Message)
}

// Diagnostics is an ordered collection of Diagnostic values.
// The zero value is ready to use.
type Diagnostics struct {
	items []Diagnostic
}

// Add appends a diagnostic.
func (ds *Diagnostics) Add(d Diagnostic) {
	ds.items = append(ds.items, d)
}

// Len returns the number of diagnostics.
func (ds *Diagnostics) Len() int {
	return len(ds.items)
}

// All returns a copy of the diagnostics in insertion order.
func (ds *Diagnostics) All() []Diagnostic {
	return slices.Clone(ds.items)
}

// Count returns how many diagnostics have the given kind.
func (ds *Diagnostics) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range ds.items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// OfKind returns the diagnostics with the given kind.
func (ds *Diagnostics) OfKind(kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range ds.items {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Warnings counts diagnostics at warning severity or above.
func (ds *Diagnostics) Warnings() int {
	n := 0
	for _, d := range ds.items {
		if d.Kind.Severity() >= SeverityWarning {
			n++
		}
	}
	return n
}
