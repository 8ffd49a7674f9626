package taxonomy

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/poiesic/partkb/core"
	"gopkg.in/yaml.v3"
)

// Assignment is a manual (category, kind) decision for one exact label.
type Assignment struct {
	Label    string        `yaml:"label"`
	Category core.Category `yaml:"category"`
	Kind     string        `yaml:"kind"`
}

// Overrides maps exact, trimmed part labels to manual assignments.
// It is immutable once built.
type Overrides struct {
	byLabel map[string]Assignment
}

// NewOverrides validates and indexes assignments. Later entries for the same
// label replace earlier ones.
func NewOverrides(entries []Assignment) (*Overrides, error) {
	o := &Overrides{byLabel: make(map[string]Assignment, len(entries))}
	for i, e := range entries {
		label := strings.TrimSpace(e.Label)
		if label == "" {
			return nil, fmt.Errorf("%w: entry %d: empty label", ErrInvalidOverride, i)
		}
		cat := core.Category(strings.ToLower(strings.TrimSpace(string(e.Category))))
		if !cat.IsValid() {
			return nil, fmt.Errorf("%w: %q: %w: %q", ErrInvalidOverride, label, core.ErrInvalidCategory, e.Category)
		}
		kind := strings.TrimSpace(e.Kind)
		if kind == "" {
			return nil, fmt.Errorf("%w: %q: empty kind", ErrInvalidOverride, label)
		}
		o.byLabel[label] = Assignment{Label: label, Category: cat, Kind: kind}
	}
	return o, nil
}

// Lookup returns the assignment for a label, if any.
func (o *Overrides) Lookup(label string) (Assignment, bool) {
	if o == nil {
		return Assignment{}, false
	}
	a, ok := o.byLabel[strings.TrimSpace(label)]
	return a, ok
}

// Len returns the number of labels with an override.
func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}
	return len(o.byLabel)
}

// Entries returns every assignment ordered by label.
func (o *Overrides) Entries() []Assignment {
	if o == nil {
		return nil
	}
	out := make([]Assignment, 0, len(o.byLabel))
	for _, a := range o.byLabel {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b Assignment) int { return cmp.Compare(a.Label, b.Label) })
	return out
}

type overridesFile struct {
	Overrides []Assignment `yaml:"overrides"`
}

// LoadOverrides reads a YAML overrides file:
//
//	overrides:
//	  - label: Infrared Flame Sensor Module
//	    category: sensor
//	    kind: flame
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file: %w", err)
	}
	var f overridesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file %s: %w", path, err)
	}
	return NewOverrides(f.Overrides)
}

// DefaultOverrides returns the curated assignments for well-known starter kit
// labels that keyword detection gets wrong.
func DefaultOverrides() *Overrides {
	o, err := NewOverrides(defaultAssignments)
	if err != nil {
		panic(err) // built-in table is static
	}
	return o
}

var defaultAssignments = []Assignment{
	{"Infrared Flame Sensor Module", core.CategorySensor, "flame"},
	{"Gas Sensor Module", core.CategorySensor, "gas_smoke"},
	{"Passive Buzzer 3.3–5V", core.CategoryActuator, "buzzer"},
	{"ELEGOO ESP-WROOM-32 (Bluetooth)", core.CategoryController, "esp32"},
	{"ENS160 eCO2/TVOC + AHT21 Temp/Humidity", core.CategorySensor, "environment_multi"},
	{"Arduino Mega 2560", core.CategoryController, "arduino_mega"},
	{"Ultrasonic Sensor HC-SR04", core.CategorySensor, "distance"},
	{"DC Motor with Gearbox (High Torque)", core.CategoryActuator, "motor_dc"},
	{"Dual H-Bridge Motor Driver (L298N)", core.CategoryActuator, "motor_driver"},
	{"12V DC Adapter", core.CategoryPower, "dc_12v_adapter"},
	{"5V DC Adapter", core.CategoryPower, "dc_5v_adapter"},
	{"Relay Module (4-Channel)", core.CategoryActuator, "relay_module"},
	{"Reed Switch (Door State)", core.CategorySensor, "contact"},
	{"Limit Switch (Endstop)", core.CategorySensor, "contact"},
	{"RTC Module (DS3231)", core.CategoryController, "rtc_module"},
	{"Flexible Plastic Sheet (Door Panel)", core.CategoryMechanical, "door_panel"},
	{"LDR Module (Photoresistor)", core.CategorySensor, "light"},
	{"PIR Motion Sensor HC-SR501", core.CategorySensor, "motion"},
	{"Jumper Wires Kit (120pcs)", core.CategoryTooling, "jumper_wires"},
	{"INA226 Current/Power Monitor", core.CategorySensor, "current"},
	{"Micro Submersible Water Pump", core.CategoryActuator, "pump"},
	{"Assorted LEDs Kit", core.CategoryTooling, "led_kit"},
	{"Resistor Assortment Kit", core.CategoryTooling, "resistor_kit"},
	{"Breadboard", core.CategoryTooling, "breadboard"},
	{"Soldering Kit", core.CategoryTooling, "soldering_kit"},
}
