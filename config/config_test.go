package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/partkb/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "partkb.db", cfg.Database.Path)
	assert.True(t, cfg.Taxonomy.Strict)
	assert.Equal(t, []string{"I2C", "SPI", "UART", "ADC", "GPIO"}, cfg.Catalog.ControllerInterfaces)
	assert.Equal(t, ":5000", cfg.Server.Address)

	policy, err := cfg.Query.Policy()
	require.NoError(t, err)
	assert.Equal(t, search.DefaultPolicy(), policy)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"empty separators", func(c *Config) { c.Catalog.Separators = "" }},
		{"bad policy", func(c *Config) { c.Query.Voltage = "maybe" }},
		{"zero pool", func(c *Config) { c.Ingestion.PoolSize = 0 }},
		{"zero attempts", func(c *Config) { c.Pricing.Attempts = 0 }},
		{"negative pause", func(c *Config) { c.Pricing.Pause = -time.Second }},
		{"empty address", func(c *Config) { c.Server.Address = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestDecode_OverlaysOnlyGivenKeys(t *testing.T) {
	cfg := Default()
	err := cfg.Decode(strings.NewReader(`
taxonomy:
  strict: false
query:
  voltage: exclude
pricing:
  base_delay: 1s
sources:
  - parts/*.csv
`))
	require.NoError(t, err)

	assert.False(t, cfg.Taxonomy.Strict)
	assert.Equal(t, "exclude", cfg.Query.Voltage)
	assert.Equal(t, "exclude", cfg.Query.Interface)
	assert.Equal(t, time.Second, cfg.Pricing.BaseDelay)
	assert.Equal(t, 3, cfg.Pricing.Attempts)
	assert.Equal(t, []string{"parts/*.csv"}, cfg.Sources)

	assert.Error(t, cfg.Decode(strings.NewReader("bogus: 1\n")))
	assert.NoError(t, cfg.Decode(strings.NewReader("")))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partkb.yaml")
	writeFile(t, path, "database:\n  path: /tmp/kb\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/kb", cfg.Database.Path)

	writeFile(t, path, "ingestion:\n  pool_size: 0\n")
	_, err = LoadFile(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	writeFile(t, path, "database: [\n")
	_, err = LoadFile(path)
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Server.Watch = true
	cfg.Pricing.PriceList = "prices.csv"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoader_Layers(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	work := filepath.Join(project, "sub", "dir")
	require.NoError(t, os.MkdirAll(work, 0o755))

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
database:
  path: user.db
server:
  address: ":7000"
ingestion:
  enrich: true
`)
	writeFile(t, filepath.Join(project, ProjectConfigFile), `
database:
  path: project.db
`)
	explicit := filepath.Join(t.TempDir(), "ci.yaml")
	writeFile(t, explicit, `
server:
  address: ":9000"
`)

	loader, err := NewLoader(WithHomeDir(home), WithWorkDir(work), WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(project, ProjectConfigFile), loader.ProjectConfigPath())

	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, "project.db", cfg.Database.Path)
	assert.Equal(t, ":7000", cfg.Server.Address)
	assert.True(t, cfg.Ingestion.Enrich)

	cfg, err = loader.Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, "project.db", cfg.Database.Path)

	_, err = loader.Load(filepath.Join(project, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoader_NoFiles(t *testing.T) {
	loader, err := NewLoader(WithHomeDir(t.TempDir()), WithWorkDir(""))
	require.NoError(t, err)
	assert.Empty(t, loader.ProjectConfigPath())

	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
