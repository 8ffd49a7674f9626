package partkb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const partsCSV = `manufacturer,mpn,part_label,part_type,part_kind,observed_property,iface,offer_price,currency
Generic,HC-SR04,HC-SR04,sensor,distance,distance,GPIO,3.5,CAD
Arduino,A000066,Arduino Uno R3,controller,,,,,
`

func partKeys(parts []core.Part) []string {
	keys := make([]string, len(parts))
	for i, p := range parts {
		keys[i] = p.Key
	}
	return keys
}

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NotNil(t, db.SnapshotStore())
		assert.NotNil(t, db.PartRepository())
		assert.NotNil(t, db.VocabularyRepository())
		assert.NotNil(t, db.BuildRepository())
		assert.NotNil(t, db.SourceStateRepository())
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("in memory", func(t *testing.T) {
		db, err := NewDatabase("", WithInMemory(), WithLogger(nil))
		require.NoError(t, err)
		assert.NoError(t, db.Close())
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, db)

	assert.NoError(t, db.Close())
}

func TestDatabase_BuildAndLoadCatalog(t *testing.T) {
	ctx := context.Background()
	dbDir := t.TempDir()
	db, err := NewDatabase(dbDir)
	require.NoError(t, err)

	_, err = db.LoadCatalog(ctx)
	assert.ErrorIs(t, err, ErrNoCatalog)

	c, err := NewCanonicalizer("", "", nil)
	require.NoError(t, err)
	pipeline, err := db.NewIngestionPipeline(c, ingestion.WithPoolSize(1))
	require.NoError(t, err)
	defer pipeline.Release()

	source := filepath.Join(t.TempDir(), "parts.csv")
	require.NoError(t, os.WriteFile(source, []byte(partsCSV), 0o600))
	result, err := pipeline.Run(ctx, []string{source}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, result.Catalog.Len())
	require.NoError(t, db.Close())

	// A reopened database serves the same catalog.
	db, err = NewDatabase(dbDir)
	require.NoError(t, err)
	defer db.Close()

	cat, err := db.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, partKeys(result.Catalog.SortedParts()), partKeys(cat.SortedParts()))
	assert.Equal(t, result.Catalog.Metadata().RunID, cat.Metadata().RunID)
	assert.Equal(t, []string{source}, cat.Metadata().Sources)

	uno, ok := cat.Part("Arduino Uno R3")
	require.True(t, ok)
	assert.Equal(t, "arduino", uno.Kind)

	searcher, err := db.NewSearcher()
	require.NoError(t, err)
	res, err := searcher.Search(cat, core.Query{TargetClass: "SensorPart", RequiredProperties: []string{"distance"}})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "HC-SR04", res.Matches[0].Part.Label)
}

func TestNewCanonicalizer_Files(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte(`
rules:
  - category: sensor
    kind: widget
    keywords: [widgetron]
`), 0o600))
	overrides := filepath.Join(dir, "overrides.yaml")
	require.NoError(t, os.WriteFile(overrides, []byte(`
overrides:
  - label: Mystery Box
    category: actuator
    kind: buzzer
`), 0o600))

	c, err := NewCanonicalizer(rules, overrides, nil)
	require.NoError(t, err)

	a := c.Canonicalize(&core.RawRecord{Label: "Widgetron 3000"})
	assert.Equal(t, core.CategorySensor, a.Category)
	assert.Equal(t, "widget", a.Kind)

	a = c.Canonicalize(&core.RawRecord{Label: "Mystery Box", Category: "tooling"})
	assert.Equal(t, core.CategoryActuator, a.Category)
	assert.Equal(t, "buzzer", a.Kind)

	_, err = NewCanonicalizer(filepath.Join(dir, "missing.yaml"), "", nil)
	assert.Error(t, err)
	_, err = NewCanonicalizer("", filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}
