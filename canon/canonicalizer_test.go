package canon

import (
	"log/slog"
	"testing"

	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCanonicalizer(t *testing.T, opts ...Option) *Canonicalizer {
	t.Helper()
	c, err := New(taxonomy.Default(), opts...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Run("nil taxonomy", func(t *testing.T) {
		_, err := New(nil)
		assert.Equal(t, ErrTaxonomyRequired, err)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		c, err := New(taxonomy.Default(), WithLogger(nil))
		require.NoError(t, err)
		assert.Equal(t, slog.Default(), c.logger)
	})
}

func TestCanonicalize(t *testing.T) {
	c := newTestCanonicalizer(t)

	tests := []struct {
		name     string
		rec      core.RawRecord
		category core.Category
		kind     string
		decision Decision
	}{
		{
			name:     "manual entry is kept",
			rec:      core.RawRecord{Label: "ESP32 board", Category: "sensor", Kind: "custom"},
			category: core.CategorySensor,
			kind:     "custom",
			decision: DecisionTrusted,
		},
		{
			name:     "alias category is trusted",
			rec:      core.RawRecord{Label: "thing", Category: "Power Supply", Kind: "bench"},
			category: core.CategoryPower,
			kind:     "bench",
			decision: DecisionTrusted,
		},
		{
			name:     "missing kind detected within category",
			rec:      core.RawRecord{Label: "Servo SG90", Category: "actuator"},
			category: core.CategoryActuator,
			kind:     "motor_servo",
			decision: DecisionTrustedKindMissing,
		},
		{
			name:     "nan kind treated as missing",
			rec:      core.RawRecord{Label: "Servo SG90", Category: "actuator", Kind: "nan"},
			category: core.CategoryActuator,
			kind:     "motor_servo",
			decision: DecisionTrustedKindMissing,
		},
		{
			name:     "trusted category with no hit is generic",
			rec:      core.RawRecord{Label: "Ultrasonic Sensor", Category: "power"},
			category: core.CategoryPower,
			kind:     GenericKind,
			decision: DecisionTrustedKindMissing,
		},
		{
			name:     "no category detects from all rules",
			rec:      core.RawRecord{Label: "Ultrasonic Sensor", MPN: "HC-SR04"},
			category: core.CategorySensor,
			kind:     "distance",
			decision: DecisionDetected,
		},
		{
			name:     "tooling is re-detected",
			rec:      core.RawRecord{Label: "OLED display 128x64", Category: "tooling", Kind: "component"},
			category: core.CategoryActuator,
			kind:     "display_oled",
			decision: DecisionDetected,
		},
		{
			name:     "fallback",
			rec:      core.RawRecord{Label: "Zzz", MPN: "Q-7"},
			category: core.CategoryTooling,
			kind:     FallbackKind,
			decision: DecisionFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.rec
			a := c.Canonicalize(&rec)
			assert.Equal(t, tt.category, a.Category)
			assert.Equal(t, tt.kind, a.Kind)
			assert.Equal(t, tt.decision, a.Decision)
			assert.Empty(t, a.InvalidCategory)
			assert.Equal(t, tt.rec, rec, "Canonicalize must not modify the record")
		})
	}
}

func TestCanonicalize_InvalidCategoryReported(t *testing.T) {
	c := newTestCanonicalizer(t)

	a := c.Canonicalize(&core.RawRecord{Label: "Ultrasonic Sensor", Category: "gizmo"})
	assert.Equal(t, "gizmo", a.InvalidCategory)
	assert.Equal(t, core.CategorySensor, a.Category)

	a = c.Canonicalize(&core.RawRecord{Label: "Ultrasonic Sensor", Category: "nan"})
	assert.Empty(t, a.InvalidCategory)
}

func TestCanonicalize_Override(t *testing.T) {
	c := newTestCanonicalizer(t, WithOverrides(taxonomy.DefaultOverrides()))

	// Keyword detection would say "rtc" sensor; the override says controller.
	a := c.Canonicalize(&core.RawRecord{Label: "RTC Module (DS3231)", Category: "sensor", Kind: "rtc"})
	assert.Equal(t, core.CategoryController, a.Category)
	assert.Equal(t, "rtc_module", a.Kind)
	assert.Equal(t, DecisionOverride, a.Decision)
}

func TestCanonicalize_Deterministic(t *testing.T) {
	c := newTestCanonicalizer(t)
	rec := &core.RawRecord{Label: "Arduino Nano Every", Notes: "ATmega4809"}
	first := c.Canonicalize(rec)
	for range 10 {
		assert.Equal(t, first, c.Canonicalize(rec))
	}
}

func TestFingerprint(t *testing.T) {
	plain := newTestCanonicalizer(t)
	assert.Equal(t, plain.Fingerprint(), newTestCanonicalizer(t).Fingerprint())

	withOverrides := newTestCanonicalizer(t, WithOverrides(taxonomy.DefaultOverrides()))
	assert.NotEqual(t, plain.Fingerprint(), withOverrides.Fingerprint())

	tx, err := taxonomy.New(taxonomy.DefaultRules[1:])
	require.NoError(t, err)
	fewerRules, err := New(tx)
	require.NoError(t, err)
	assert.NotEqual(t, plain.Fingerprint(), fewerRules.Fingerprint())
}

func TestApplyAll(t *testing.T) {
	c := newTestCanonicalizer(t)
	records := []*core.RawRecord{
		{Label: "HC-SR04 Ultrasonic"},
		{Label: "Relay 5V"},
		{Label: "Widget", Category: "sensor", Kind: "widget"},
		{Label: "Zzz"},
	}

	stats := c.ApplyAll(records)

	assert.Equal(t, "sensor", records[0].Category)
	assert.Equal(t, "distance", records[0].Kind)
	assert.Equal(t, "actuator", records[1].Category)
	assert.Equal(t, "relay", records[1].Kind)
	assert.Equal(t, "widget", records[2].Kind)
	assert.Equal(t, "tooling", records[3].Category)

	assert.Equal(t, 2, stats.ByCategory[core.CategorySensor])
	assert.Equal(t, 2, stats.ByDecision[DecisionDetected])
	assert.Equal(t, 1, stats.ByDecision[DecisionTrusted])
	assert.Equal(t, 1, stats.ByDecision[DecisionFallback])
}
