package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/partkb/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Detect(t *testing.T) {
	tx := Default()

	tests := []struct {
		name     string
		text     string
		category core.Category
		kind     string
	}{
		{"esp32 wins over arduino", SearchText("ESP32 Arduino-compatible board", "", ""), core.CategoryController, "esp32"},
		{"ultrasonic", SearchText("Ultrasonic Sensor", "HC-SR04", ""), core.CategorySensor, "distance"},
		{"rgb led before led", SearchText("RGB LED 5mm", "", ""), core.CategoryActuator, "led_rgb"},
		{"plain led", SearchText("Red LED", "", ""), core.CategoryActuator, "led"},
		{"notes are searched", SearchText("Mystery module", "", "uses a piezo element"), core.CategoryActuator, "buzzer"},
		{"mpn is searched", SearchText("Breakout", "BME280", ""), core.CategorySensor, "temp_humidity"},
		{"passives", SearchText("10k Resistor", "", ""), core.CategoryTooling, "resistor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := tx.Detect(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.category, rule.Category)
			assert.Equal(t, tt.kind, rule.Kind)
		})
	}
}

func TestDetect_NoMatch(t *testing.T) {
	_, ok := Default().Detect(SearchText("Zzz", "q-7", ""))
	assert.False(t, ok)
}

func TestDetectWithin(t *testing.T) {
	tx := Default()

	// "motion" matches the sensor rule globally, but within actuator only
	// actuator rules are considered.
	rule, ok := tx.DetectWithin(core.CategoryActuator, SearchText("Motion servo kit", "", ""))
	require.True(t, ok)
	assert.Equal(t, "motor_servo", rule.Kind)

	_, ok = tx.DetectWithin(core.CategoryPower, SearchText("Ultrasonic Sensor", "", ""))
	assert.False(t, ok)
}

func TestRuleOrderSensitivity(t *testing.T) {
	generic := Rule{Category: core.CategoryController, Kind: "arduino", Keywords: []string{"arduino"}}
	specific := Rule{Category: core.CategoryController, Kind: "esp32", Keywords: []string{"esp32"}}
	text := SearchText("ESP32 Arduino board", "", "")

	first, err := New([]Rule{specific, generic})
	require.NoError(t, err)
	r, _ := first.Detect(text)
	assert.Equal(t, "esp32", r.Kind)

	swapped, err := New([]Rule{generic, specific})
	require.NoError(t, err)
	r, _ = swapped.Detect(text)
	assert.Equal(t, "arduino", r.Kind)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyRules)

	_, err = New([]Rule{{Category: "gizmo", Kind: "x", Keywords: []string{"x"}}})
	assert.ErrorIs(t, err, ErrInvalidRule)
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	_, err = New([]Rule{{Category: core.CategorySensor, Kind: " ", Keywords: []string{"x"}}})
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = New([]Rule{{Category: core.CategorySensor, Kind: "x", Keywords: []string{"", "  "}}})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestNew_NormalizesKeywords(t *testing.T) {
	tx, err := New([]Rule{{Category: core.CategorySensor, Kind: "flame", Keywords: []string{" Flame "}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"flame"}, tx.Rules()[0].Keywords)

	_, ok := tx.Detect(SearchText("IR FLAME detector", "", ""))
	assert.True(t, ok)
}

func TestKinds(t *testing.T) {
	kinds := Default().Kinds(core.CategoryMechanical)
	assert.Equal(t, []string{"connector", "mounting", "switch"}, kinds)
}

func TestRules_ReturnsCopy(t *testing.T) {
	tx := Default()
	rules := tx.Rules()
	rules[0].Keywords[0] = "mutated"
	assert.Equal(t, "esp32", tx.Rules()[0].Keywords[0])
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("prepends custom rules", func(t *testing.T) {
		path := filepath.Join(dir, "rules.yaml")
		content := "rules:\n  - category: sensor\n    kind: flame\n    keywords: [flame]\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		tx, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, tx.Rules(), len(DefaultRules)+1)

		r, ok := tx.Detect(SearchText("Infrared Flame Sensor Module", "", ""))
		require.True(t, ok)
		assert.Equal(t, "flame", r.Kind)
	})

	t.Run("replace", func(t *testing.T) {
		path := filepath.Join(dir, "replace.yaml")
		content := "replace: true\nrules:\n  - category: power\n    kind: cell\n    keywords: [cell]\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		tx, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, tx.Rules(), 1)
	})

	t.Run("invalid category", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		content := "rules:\n  - category: robot\n    kind: x\n    keywords: [x]\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		_, err := LoadFile(path)
		assert.ErrorIs(t, err, ErrInvalidRule)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want core.Category
		ok   bool
	}{
		{"sensor", core.CategorySensor, true},
		{"Sensors", core.CategorySensor, true},
		{"Sensor Module", core.CategorySensor, true},
		{"Power Supply", core.CategoryPower, true},
		{"power-supply-unit", core.CategoryPower, true},
		{"board", core.CategoryController, true},
		{"ControllerBoard", core.CategoryController, true},
		{"jumper_wires", core.CategoryTooling, true},
		{"Tool", core.CategoryTooling, true},
		{"gizmo", "", false},
		{"  ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeCategory(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverrides(t *testing.T) {
	o := DefaultOverrides()

	a, ok := o.Lookup("  Ultrasonic Sensor HC-SR04 ")
	require.True(t, ok)
	assert.Equal(t, core.CategorySensor, a.Category)
	assert.Equal(t, "distance", a.Kind)

	_, ok = o.Lookup("ultrasonic sensor hc-sr04")
	assert.False(t, ok, "lookup is exact")

	var nilOverrides *Overrides
	_, ok = nilOverrides.Lookup("anything")
	assert.False(t, ok)
	assert.Equal(t, 0, nilOverrides.Len())
	assert.Empty(t, nilOverrides.Entries())
}

func TestOverrides_Entries(t *testing.T) {
	o, err := NewOverrides([]Assignment{
		{Label: "Zeta board", Category: core.CategoryController, Kind: "zeta"},
		{Label: " Alpha sensor ", Category: core.CategorySensor, Kind: "alpha"},
		{Label: "Zeta board", Category: core.CategoryTooling, Kind: "devkit"},
	})
	require.NoError(t, err)

	assert.Equal(t, []Assignment{
		{Label: "Alpha sensor", Category: core.CategorySensor, Kind: "alpha"},
		{Label: "Zeta board", Category: core.CategoryTooling, Kind: "devkit"},
	}, o.Entries())
}

func TestNewOverrides_Validation(t *testing.T) {
	_, err := NewOverrides([]Assignment{{Label: "x", Category: "robot", Kind: "k"}})
	assert.ErrorIs(t, err, ErrInvalidOverride)
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	_, err = NewOverrides([]Assignment{{Label: "", Category: core.CategorySensor, Kind: "k"}})
	assert.ErrorIs(t, err, ErrInvalidOverride)

	_, err = NewOverrides([]Assignment{{Label: "x", Category: core.CategorySensor}})
	assert.ErrorIs(t, err, ErrInvalidOverride)

	o, err := NewOverrides([]Assignment{{Label: "X", Category: "Sensor", Kind: "k"}})
	require.NoError(t, err)
	a, _ := o.Lookup("X")
	assert.Equal(t, core.CategorySensor, a.Category)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	content := "overrides:\n  - label: Gas Sensor Module\n    category: sensor\n    kind: gas_smoke\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	o, err := LoadOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, 1, o.Len())
	a, ok := o.Lookup("Gas Sensor Module")
	require.True(t, ok)
	assert.Equal(t, "gas_smoke", a.Kind)
}
