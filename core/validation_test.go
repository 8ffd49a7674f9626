package core

import (
	"errors"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Category
		wantErr error
	}{
		{"canonical", "sensor", CategorySensor, nil},
		{"mixed case and space", "  Actuator ", CategoryActuator, nil},
		{"tooling", "tooling", CategoryTooling, nil},
		{"unknown", "gizmo", "", ErrInvalidCategory},
		{"empty", "", "", ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseCategory(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

func TestValidatePart(t *testing.T) {
	tests := []struct {
		name    string
		part    *Part
		wantErr error
	}{
		{
			name:    "valid part",
			part:    &Part{Key: "hc_sr04", Category: CategorySensor},
			wantErr: nil,
		},
		{
			name:    "nil part",
			part:    nil,
			wantErr: ErrInvalidPart,
		},
		{
			name:    "empty key",
			part:    &Part{Category: CategorySensor},
			wantErr: ErrEmptyKey,
		},
		{
			name:    "invalid category",
			part:    &Part{Key: "x", Category: "gizmo"},
			wantErr: ErrInvalidCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePart(tt.part)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePart() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePart() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidPart) {
				t.Errorf("ValidatePart() error should wrap ErrInvalidPart: %v", err)
			}
		})
	}
}

func TestCheckVoltageRange(t *testing.T) {
	tests := []struct {
		name    string
		min     Measure
		max     Measure
		wantErr bool
	}{
		{"both absent", Measure{}, Measure{}, false},
		{"only min", Some(3.3), Measure{}, false},
		{"ordered", Some(4.5), Some(5.5), false},
		{"equal", Some(5), Some(5), false},
		{"inverted", Some(6), Some(5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckVoltageRange(&Part{VccMin: tt.min, VccMax: tt.max})
			if tt.wantErr != errors.Is(err, ErrRangeInconsistency) {
				t.Errorf("CheckVoltageRange() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTerm(t *testing.T) {
	if err := ValidateTerm(&Term{Kind: TermProperty, Token: "distance"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateTerm(&Term{Kind: TermProperty}); !errors.Is(err, ErrInvalidTerm) {
		t.Errorf("empty token should fail, got %v", err)
	}
	if err := ValidateTerm(&Term{Kind: 9, Token: "x"}); !errors.Is(err, ErrInvalidTerm) {
		t.Errorf("bad kind should fail, got %v", err)
	}
	if err := ValidateTerm(nil); !errors.Is(err, ErrInvalidTerm) {
		t.Errorf("nil term should fail, got %v", err)
	}
}

func TestValidateClass(t *testing.T) {
	c, err := ValidateClass("ActuatorPart")
	if err != nil || c != CategoryActuator {
		t.Errorf("ValidateClass(ActuatorPart) = %q, %v", c, err)
	}
	if _, err := ValidateClass("Robot"); !errors.Is(err, ErrUnknownQueryClass) {
		t.Errorf("ValidateClass(Robot) error = %v", err)
	}
}

func TestDiagnostics(t *testing.T) {
	var ds Diagnostics
	ds.Add(Diagnostic{Kind: DiagMalformedRecord, Source: "a.csv", Line: 3})
	ds.Add(Diagnostic{Kind: DiagDuplicateRecord, Identity: "hc_sr04"})
	ds.Add(Diagnostic{Kind: DiagRangeInconsistency, Identity: "odd"})

	if ds.Len() != 3 {
		t.Fatalf("Len() = %d", ds.Len())
	}
	if ds.Count(DiagDuplicateRecord) != 1 {
		t.Errorf("Count(DuplicateRecord) = %d", ds.Count(DiagDuplicateRecord))
	}
	if ds.Warnings() != 2 {
		t.Errorf("Warnings() = %d, want 2 (duplicates are informational)", ds.Warnings())
	}
	if got := ds.All()[0].String(); got != "MalformedRecord  (a.csv:3): " {
		t.Errorf("String() = %q", got)
	}
}
