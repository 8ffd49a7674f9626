package storage

import (
	"testing"
	"time"

	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("hc_sr04")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestPartRoundTrip(t *testing.T) {
	cat, _ := catalog.Build([]*core.RawRecord{
		{
			Label: "BME280", Manufacturer: "Bosch", MPN: "BME280", Category: "sensor", Kind: "environment",
			ObservedProperty: "temperature|humidity|pressure", FeatureOfInterest: "air",
			Iface: "I2C,SPI", VccMin: "1.71", VccMax: "3.6", TempMinC: "-40", PinCount: "8",
			I2CAddrDefault: "0x76", OfferPrice: "9.95", Currency: "USD", Source: "parts.csv",
		},
		{Label: "Bare Switch", Category: "mechanical"},
		{Label: "Uno", Category: "controller"},
	})

	for p := range cat.All() {
		t.Run(p.Key, func(t *testing.T) {
			data := MarshalPart(&p)
			decoded, err := UnmarshalPart(data)
			require.NoError(t, err)
			assert.Equal(t, p, *decoded)
		})
	}
}

func TestPartRoundTrip_AbsentMeasuresAreCompact(t *testing.T) {
	bare := core.Part{Key: "x", Label: "X", Category: core.CategoryTooling}
	priced := bare
	priced.Price = core.Some(1)

	assert.Less(t, len(MarshalPart(&bare)), len(MarshalPart(&priced)))

	decoded, err := UnmarshalPart(MarshalPart(&bare))
	require.NoError(t, err)
	_, ok := decoded.Price.Get()
	assert.False(t, ok)
	assert.True(t, decoded.Interfaces.IsEmpty())
}

func TestTermRoundTrip(t *testing.T) {
	term := core.Term{Kind: core.TermProperty, Token: "temperature", Observable: true}
	term.Id = core.IDFromContent(term.Tuple())

	decoded, err := UnmarshalTerm(MarshalTerm(&term))
	require.NoError(t, err)
	assert.Equal(t, term, *decoded)
}

func TestBuildRecordRoundTrip(t *testing.T) {
	rec := core.BuildRecord{
		RunID:    "7d0c2f3e-0000-4000-8000-000000000001",
		BuiltAt:  time.Date(2025, 3, 1, 12, 30, 0, 123456000, time.UTC),
		Sources:  []string{"a.csv", "b.csv"},
		Input:    10,
		Accepted: 7,
		Dropped:  1,
		Warnings: 2,
		Terms:    15,
		Settings: core.IDFromContent("settings"),
	}
	rec.Duplicates = 2

	decoded, err := UnmarshalBuildRecord(MarshalBuildRecord(&rec))
	require.NoError(t, err)
	assert.True(t, rec.BuiltAt.Equal(decoded.BuiltAt))
	decoded.BuiltAt = rec.BuiltAt
	assert.Equal(t, rec, *decoded)
}

func TestSourceStateRoundTrip(t *testing.T) {
	state := core.SourceState{
		Path:      "data/parts.csv",
		Digest:    core.IDFromContent("contents"),
		Records:   42,
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	decoded, err := UnmarshalSourceState(MarshalSourceState(&state))
	require.NoError(t, err)
	assert.Equal(t, state.Path, decoded.Path)
	assert.Equal(t, state.Digest, decoded.Digest)
	assert.Equal(t, state.Records, decoded.Records)
	assert.True(t, state.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestUnmarshal_Truncated(t *testing.T) {
	part := core.Part{Key: "hc_sr04", Label: "HC-SR04", Category: core.CategorySensor, Notes: "ultrasonic ranging"}
	data := MarshalPart(&part)

	_, err := UnmarshalPart(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalTerm(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalBuildRecord([]byte{0x02})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
