package core

import (
	"slices"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "part key", content: "hc_sr04"},
		{name: "empty string", content: ""},
		{name: "term tuple", content: "(interface,I2C)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)
			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	if IDFromContent("content1") == IDFromContent("content2") {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestResolveClass(t *testing.T) {
	tests := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"sensor", CategorySensor, true},
		{"SensorPart", CategorySensor, true},
		{"sensorpart", CategorySensor, true},
		{" ControllerBoard ", CategoryController, true},
		{"PowerSupply", CategoryPower, true},
		{"tooling", CategoryTooling, true},
		{"Gizmo", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ResolveClass(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ResolveClass(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCategory_ClassName(t *testing.T) {
	if got := CategoryController.ClassName(); got != "ControllerBoard" {
		t.Errorf("ClassName() = %q, want ControllerBoard", got)
	}
	if Category("gizmo").IsValid() {
		t.Errorf("gizmo should not be a valid category")
	}
}

func TestTokenSet(t *testing.T) {
	s := NewTokenSet("UART", "I2C", "", "I2C", "SPI")

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if !slices.Equal(s.Values(), []string{"I2C", "SPI", "UART"}) {
		t.Errorf("Values() = %v, want sorted unique tokens", s.Values())
	}
	if !s.Has("SPI") || s.Has("spi") {
		t.Errorf("Has() should be exact and case-sensitive")
	}
	if got := s.Intersect([]string{"GPIO", "UART", "I2C"}); !slices.Equal(got, []string{"I2C", "UART"}) {
		t.Errorf("Intersect() = %v", got)
	}
	if s.String() != "I2C|SPI|UART" {
		t.Errorf("String() = %q", s.String())
	}

	// Values returns a copy
	vals := s.Values()
	vals[0] = "X"
	if !s.Has("I2C") {
		t.Errorf("mutating Values() result changed the set")
	}
}

func TestTokenSet_Empty(t *testing.T) {
	var zero TokenSet
	if !zero.IsEmpty() || !NewTokenSet("", "").IsEmpty() {
		t.Errorf("expected empty sets")
	}
	if !zero.Equal(NewTokenSet()) {
		t.Errorf("zero set should equal an empty built set")
	}
}

func TestPart_Capabilities(t *testing.T) {
	p := &Part{
		ObservesProperty: NewTokenSet("distance"),
		ActsOnProperty:   NewTokenSet("angular_position", "distance"),
	}
	if got := p.Capabilities().Values(); !slices.Equal(got, []string{"angular_position", "distance"}) {
		t.Errorf("Capabilities() = %v", got)
	}
}

func TestPart_InterfacePredicate(t *testing.T) {
	ctrl := &Part{Category: CategoryController}
	sensor := &Part{Category: CategorySensor}
	if ctrl.InterfacePredicate() != "supportsInterface" {
		t.Errorf("controller predicate = %q", ctrl.InterfacePredicate())
	}
	if sensor.InterfacePredicate() != "hasInterface" {
		t.Errorf("sensor predicate = %q", sensor.InterfacePredicate())
	}
}

func TestTerm_Tuple(t *testing.T) {
	term := &Term{Kind: TermInterface, Token: "I2C"}
	if term.Tuple() != "(interface,I2C)" {
		t.Errorf("Tuple() = %q", term.Tuple())
	}
}

func TestRawRecord_Fields(t *testing.T) {
	var r RawRecord
	for _, col := range Columns {
		if !r.SetField(col, col+"-v") {
			t.Fatalf("SetField(%q) rejected a canonical column", col)
		}
	}
	for _, col := range Columns {
		if got := r.Field(col); got != col+"-v" {
			t.Errorf("Field(%q) = %q", col, got)
		}
	}
	if r.SetField("Unnamed: 0", "x") {
		t.Errorf("SetField accepted an unknown column")
	}
	if r.Label != "part_label-v" || r.IActiveMA != "i_active_mA-v" {
		t.Errorf("column mapping mismatch: %+v", r)
	}
}
