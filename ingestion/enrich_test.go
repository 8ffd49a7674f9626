package ingestion

import (
	"testing"

	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardParts(t *testing.T) {
	parts := StandardParts()
	require.NotEmpty(t, parts)

	parts[0].Label = "mutated"
	assert.NotEqual(t, "mutated", StandardParts()[0].Label, "callers get copies")

	cat, report := catalog.Build(StandardParts())
	assert.Equal(t, len(parts), cat.Len(), "every library part builds")
	assert.Zero(t, report.Diagnostics.Warnings())
}

func TestSeed(t *testing.T) {
	existing := []*core.RawRecord{
		{Label: "arduino nano"},
		{Label: "My Ultrasonic", MPN: "hc-sr04"},
	}
	added := Seed(existing)
	assert.Len(t, added, len(StandardParts())-2)
	for _, rec := range added {
		assert.NotEqual(t, "Arduino Nano", rec.Label)
		assert.NotEqual(t, "HC-SR04", rec.MPN)
		assert.Equal(t, "standard", rec.Source)
	}

	assert.Len(t, Seed(nil), len(StandardParts()))
}

func TestEnricher_Match(t *testing.T) {
	e, err := NewEnricher()
	require.NoError(t, err)

	tests := []struct {
		name  string
		rec   *core.RawRecord
		label string
		ok    bool
	}{
		{"mpn containment", &core.RawRecord{Label: "Distance thing", MPN: "Ultrasonic HC-SR04 v2"}, "HC-SR04 Ultrasonic", true},
		{"strong pass beats earlier weak match", &core.RawRecord{Label: "Arduino Nano clone", MPN: "DHT22"}, "DHT22 (AM2302)", true},
		{"label containment", &core.RawRecord{Label: "Generic Active Buzzer 5V"}, "Active Buzzer", true},
		{"mpn inside label", &core.RawRecord{Label: "Blue BME280 board"}, "BME280 Breakout", true},
		{"nan mpn ignored", &core.RawRecord{Label: "Unknown", MPN: "nan"}, "", false},
		{"no match", &core.RawRecord{Label: "Flux capacitor", MPN: "FC-1"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			std, ok := e.Match(tt.rec)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.label, std.Label)
			}
		})
	}
}

func TestEnricher_FillsMissingOnly(t *testing.T) {
	e, err := NewEnricher()
	require.NoError(t, err)

	rec := &core.RawRecord{
		Label:      "My HC-SR04",
		MPN:        "HC-SR04",
		Category:   "sensor",
		VccMin:     "4.0",
		VccMax:     "nan",
		OfferPrice: "3.5",
		Currency:   "CAD",
	}
	written := e.Enrich(rec)

	assert.Positive(t, written)
	assert.Equal(t, "My HC-SR04", rec.Label)
	assert.Equal(t, "HC-SR04", rec.MPN)
	assert.Equal(t, "4.0", rec.VccMin, "present values are kept")
	assert.Equal(t, "5.5", rec.VccMax, "nan counts as missing")
	assert.Equal(t, "distance", rec.Kind)
	assert.Equal(t, "distance", rec.ObservedProperty)
	assert.Equal(t, "GPIO_TRIGGER_ECHO", rec.Iface)
	assert.Equal(t, "3.5", rec.OfferPrice)
	assert.Equal(t, "CAD", rec.Currency)

	assert.Zero(t, e.Enrich(rec), "enrichment is idempotent")
}

func TestEnricher_Overwrite(t *testing.T) {
	library := []*core.RawRecord{{
		Label: "Widget", MPN: "W-100", Category: "sensor", Kind: "light",
		VccMin: "3.3", OfferPrice: "9", Currency: "USD",
	}}
	e, err := NewEnricher(WithLibrary(library), WithOverwrite(true))
	require.NoError(t, err)

	rec := &core.RawRecord{Label: "widget", MPN: "W-100-B", Kind: "generic", VccMin: "5", OfferPrice: "1", Currency: "CAD"}
	e.Enrich(rec)

	assert.Equal(t, "light", rec.Kind)
	assert.Equal(t, "3.3", rec.VccMin)
	assert.Equal(t, "widget", rec.Label, "identity is protected")
	assert.Equal(t, "W-100-B", rec.MPN)
	assert.Equal(t, "1", rec.OfferPrice, "pricing is protected")
	assert.Equal(t, "CAD", rec.Currency)
}

func TestEnricher_EnrichAll(t *testing.T) {
	e, err := NewEnricher()
	require.NoError(t, err)

	records := []*core.RawRecord{
		{Label: "SG90 servo", MPN: "SG90"},
		{Label: "Mystery"},
	}
	assert.Equal(t, 1, e.EnrichAll(records))
	assert.Equal(t, "motor_servo", records[0].Kind)
	assert.Empty(t, records[1].Kind)
}
