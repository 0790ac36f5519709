// Package config loads the executor configuration from TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/BurntSushi/toml"
	"shardexec/pkg/logging"
)

const (
	DefaultMaxConnectionsSizePerQuery = 1
	DefaultPreparedStatementCacheSize = 128
	DefaultMaxOpenConnsPerDataSource  = 16
	DefaultMaxIdleConnsPerDataSource  = 4
	DefaultConnMaxLifetimeSeconds     = 300
)

// Props are the execution properties read by operators.
type Props struct {
	// ExecutorSize bounds the scan fan-out worker pool. Zero means the number of CPUs.
	ExecutorSize int `toml:"executor-size"`

	// MaxConnectionsSizePerQuery is the number of connections one query may hold
	// per data source. When a data source needs more units than this, its
	// results are materialized in memory so connections can be shared.
	MaxConnectionsSizePerQuery int `toml:"max-connections-size-per-query"`

	// PreparedStatementCacheSize is the LRU size of cached prepared statements
	// per data source.
	PreparedStatementCacheSize int `toml:"prepared-statement-cache-size"`

	// SQLShow logs every physical statement before it runs.
	SQLShow bool `toml:"sql-show"`
}

// DataSource describes one physical database.
type DataSource struct {
	Name   string `toml:"name"`
	Driver string `toml:"driver"` // mysql, postgresql or sqlite3
	DSN    string `toml:"dsn"`

	MaxOpenConns       int `toml:"max-open-conns"`
	MaxIdleConns       int `toml:"max-idle-conns"`
	ConnMaxLifetimeSec int `toml:"conn-max-lifetime"`
}

// Config is the root of the configuration file.
type Config struct {
	Props       Props          `toml:"props"`
	DataSources []DataSource   `toml:"data-sources"`
	Log         logging.Config `toml:"log"`
}

// NewConfig returns a configuration with default values.
func NewConfig() *Config {
	return &Config{
		Props: Props{
			ExecutorSize:               runtime.NumCPU(),
			MaxConnectionsSizePerQuery: DefaultMaxConnectionsSizePerQuery,
			PreparedStatementCacheSize: DefaultPreparedStatementCacheSize,
		},
		Log: logging.Config{
			Level:      logging.LevelInfo,
			Format:     "console",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 7,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(string(content))
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(input string) (*Config, error) {
	c := NewConfig()
	md, err := toml.Decode(input, c)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown config keys: %v", keys)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Props.ExecutorSize == 0 {
		c.Props.ExecutorSize = runtime.NumCPU()
	}
	for i := range c.DataSources {
		ds := &c.DataSources[i]
		if ds.MaxOpenConns == 0 {
			ds.MaxOpenConns = DefaultMaxOpenConnsPerDataSource
		}
		if ds.MaxIdleConns == 0 {
			ds.MaxIdleConns = DefaultMaxIdleConnsPerDataSource
		}
		if ds.ConnMaxLifetimeSec == 0 {
			ds.ConnMaxLifetimeSec = DefaultConnMaxLifetimeSeconds
		}
	}
}

// Validate checks value ranges and data source definitions.
func (c *Config) Validate() error {
	if err := c.Props.Validate(); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(c.DataSources))
	for _, ds := range c.DataSources {
		if ds.Name == "" {
			return fmt.Errorf("data source without name")
		}
		if _, dup := seen[ds.Name]; dup {
			return fmt.Errorf("duplicate data source %q", ds.Name)
		}
		seen[ds.Name] = struct{}{}

		switch ds.Driver {
		case "mysql", "postgresql", "sqlite3":
		default:
			return fmt.Errorf("data source %q: unsupported driver %q", ds.Name, ds.Driver)
		}
		if ds.DSN == "" {
			return fmt.Errorf("data source %q: dsn is required", ds.Name)
		}
		if ds.MaxOpenConns < 0 || ds.MaxIdleConns < 0 {
			return fmt.Errorf("data source %q: connection limits must not be negative", ds.Name)
		}
	}
	return nil
}

// Validate checks the execution properties.
func (p Props) Validate() error {
	if p.ExecutorSize < 0 {
		return fmt.Errorf("executor-size must not be negative, got %d", p.ExecutorSize)
	}
	if p.MaxConnectionsSizePerQuery < 1 {
		return fmt.Errorf("max-connections-size-per-query must be at least 1, got %d", p.MaxConnectionsSizePerQuery)
	}
	if p.PreparedStatementCacheSize < 1 {
		return fmt.Errorf("prepared-statement-cache-size must be at least 1, got %d", p.PreparedStatementCacheSize)
	}
	return nil
}

// DefaultProps returns the default execution properties.
func DefaultProps() Props {
	return NewConfig().Props
}

// DataSourceNames returns the configured data source names in file order.
func (c *Config) DataSourceNames() []string {
	names := make([]string, len(c.DataSources))
	for i, ds := range c.DataSources {
		names[i] = ds.Name
	}
	return names
}
