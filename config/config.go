package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/search"
	"gopkg.in/yaml.v3"
)

// Config is the complete partkb configuration.
type Config struct {
	Sources   []string        `yaml:"sources"`
	Database  DatabaseConfig  `yaml:"database"`
	Taxonomy  TaxonomyConfig  `yaml:"taxonomy"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Query     QueryConfig     `yaml:"query"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Server    ServerConfig    `yaml:"server"`
}

// DatabaseConfig locates the snapshot store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// TaxonomyConfig selects detection rules and manual overrides.
// Empty paths use the built-in tables.
type TaxonomyConfig struct {
	Rules     string `yaml:"rules"`
	Overrides string `yaml:"overrides"`
	// Strict drops records whose raw category is not recognized.
	Strict bool `yaml:"strict"`
}

// CatalogConfig holds catalog builder settings.
type CatalogConfig struct {
	Separators           string   `yaml:"separators"`
	ControllerInterfaces []string `yaml:"controller_interfaces"`
}

// QueryConfig holds the missing-data policy per query dimension.
// Each value is "pass" or "exclude".
type QueryConfig struct {
	Interface string `yaml:"interface"`
	Voltage   string `yaml:"voltage"`
	Budget    string `yaml:"budget"`
	Currency  string `yaml:"currency"`
}

// IngestionConfig holds pipeline settings.
type IngestionConfig struct {
	PoolSize  int  `yaml:"pool_size"`
	Enrich    bool `yaml:"enrich"`
	SmartOnly bool `yaml:"smart_only"`
}

// PricingConfig holds price refresh settings.
type PricingConfig struct {
	PriceList string        `yaml:"price_list"`
	Attempts  int           `yaml:"attempts"`
	BaseDelay time.Duration `yaml:"base_delay"`
	MaxDelay  time.Duration `yaml:"max_delay"`
	Pause     time.Duration `yaml:"pause"`
	Force     bool          `yaml:"force"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address  string        `yaml:"address"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	policy := search.DefaultPolicy()
	return &Config{
		Sources:  []string{"data/**/*.csv"},
		Database: DatabaseConfig{Path: "partkb.db"},
		Taxonomy: TaxonomyConfig{Strict: true},
		Catalog: CatalogConfig{
			Separators:           ",|",
			ControllerInterfaces: slices.Clone(catalog.DefaultControllerInterfaces),
		},
		Query: QueryConfig{
			Interface: policy.Interface.String(),
			Voltage:   policy.Voltage.String(),
			Budget:    policy.Budget.String(),
			Currency:  policy.Currency.String(),
		},
		Ingestion: IngestionConfig{PoolSize: poolSize},
		Pricing: PricingConfig{
			Attempts:  3,
			BaseDelay: 200 * time.Millisecond,
			MaxDelay:  5 * time.Second,
		},
		Server: ServerConfig{
			Address:  ":5000",
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Policy converts the query section into a search policy.
func (q QueryConfig) Policy() (search.Policy, error) {
	var (
		p    search.Policy
		errs []error
	)
	for _, dim := range []struct {
		value string
		into  *search.Missing
	}{
		{q.Interface, &p.Interface},
		{q.Voltage, &p.Voltage},
		{q.Budget, &p.Budget},
		{q.Currency, &p.Currency},
	} {
		m, err := search.ParseMissing(dim.value)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		*dim.into = m
	}
	return p, errors.Join(errs...)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Catalog.Separators == "" {
		errs = append(errs, errors.New("catalog.separators must not be empty"))
	}
	if _, err := c.Query.Policy(); err != nil {
		errs = append(errs, fmt.Errorf("query: %w", err))
	}
	if c.Ingestion.PoolSize < 1 {
		errs = append(errs, errors.New("ingestion.pool_size must be at least 1"))
	}
	if c.Pricing.Attempts < 1 {
		errs = append(errs, errors.New("pricing.attempts must be at least 1"))
	}
	if c.Pricing.BaseDelay < 0 || c.Pricing.MaxDelay < 0 || c.Pricing.Pause < 0 {
		errs = append(errs, errors.New("pricing delays must not be negative"))
	}
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address is required"))
	}
	if c.Server.Debounce < 0 {
		errs = append(errs, errors.New("server.debounce must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Decode overlays YAML from r onto c. Keys absent from the document keep
// their current values; unknown keys are rejected.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyFile overlays the YAML file at path onto c.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := c.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReadConfig, path, err)
	}
	return nil
}

// LoadFile reads a single file on top of the defaults and validates it.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.ApplyFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
