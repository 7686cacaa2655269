package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Rana718/Seedling/internal/seeder"
)

const (
	DefaultConfigName = "seedling.config"
	DefaultDBPath     = "data-modeling-practice.db"
	dateLayout        = "2006-01-02"
)

type Config struct {
	Version    string     `json:"version" mapstructure:"version"`
	Database   Database   `json:"database" mapstructure:"database"`
	Generation Generation `json:"generation" mapstructure:"generation"`
	Transform  Transform  `json:"transform" mapstructure:"transform"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	Path     string `json:"path,omitempty" mapstructure:"path"` // sqlite only
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

type Generation struct {
	Rows              int            `json:"rows" mapstructure:"rows"`
	Seed              uint64         `json:"seed,omitempty" mapstructure:"seed"`
	Ledger            string         `json:"ledger" mapstructure:"ledger"`
	MaxUniqueAttempts int            `json:"max_unique_attempts" mapstructure:"max_unique_attempts"`
	IntMin            int            `json:"int_min" mapstructure:"int_min"`
	IntMax            int            `json:"int_max" mapstructure:"int_max"`
	DateStart         string         `json:"date_start,omitempty" mapstructure:"date_start"`
	DateEnd           string         `json:"date_end,omitempty" mapstructure:"date_end"`
	MaxOffsetDays     int            `json:"max_offset_days" mapstructure:"max_offset_days"`
	AutoOrder         bool           `json:"auto_order,omitempty" mapstructure:"auto_order"`
	Tables            map[string]int `json:"tables,omitempty" mapstructure:"tables"`
}

type Transform struct {
	Dir     string `json:"dir" mapstructure:"dir"`
	Command string `json:"command" mapstructure:"command"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Version: "1",
		Database: Database{
			Provider: "sqlite",
			Path:     DefaultDBPath,
			URLEnv:   "DATABASE_URL",
		},
		Generation: Generation{
			Rows:              seeder.DefaultRows,
			Ledger:            string(seeder.LedgerPersistent),
			MaxUniqueAttempts: seeder.DefaultMaxUniqueAttempts,
			IntMin:            seeder.DefaultIntMin,
			IntMax:            seeder.DefaultIntMax,
			MaxOffsetDays:     seeder.DefaultMaxOffsetDays,
			Tables:            map[string]int{},
		},
		Transform: Transform{
			Dir:     "dbt_project",
			Command: "dbt run",
		},
	}
}

// Load reads the configuration from viper and fills in defaults.
func Load() (*Config, error) {
	cfg := Default()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	def := Default()
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = def.Database.Provider
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = def.Database.Path
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = def.Database.URLEnv
	}
	if cfg.Generation.Ledger == "" {
		cfg.Generation.Ledger = def.Generation.Ledger
	}
	if cfg.Generation.MaxUniqueAttempts <= 0 {
		cfg.Generation.MaxUniqueAttempts = def.Generation.MaxUniqueAttempts
	}
	if cfg.Generation.IntMin == 0 && cfg.Generation.IntMax == 0 {
		cfg.Generation.IntMin = def.Generation.IntMin
		cfg.Generation.IntMax = def.Generation.IntMax
	}
	if cfg.Generation.MaxOffsetDays <= 0 {
		cfg.Generation.MaxOffsetDays = def.Generation.MaxOffsetDays
	}
	if cfg.Transform.Dir == "" {
		cfg.Transform.Dir = def.Transform.Dir
	}
	if cfg.Transform.Command == "" {
		cfg.Transform.Command = def.Transform.Command
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	switch seeder.LedgerMode(c.Generation.Ledger) {
	case seeder.LedgerPersistent, seeder.LedgerEphemeral:
	default:
		return fmt.Errorf("unsupported ledger mode: %s. Supported modes: [persistent ephemeral]", c.Generation.Ledger)
	}

	if c.Generation.Rows <= 0 {
		return fmt.Errorf("generation.rows must be positive, got %d", c.Generation.Rows)
	}

	if c.Generation.IntMin > c.Generation.IntMax {
		return fmt.Errorf("generation.int_min (%d) is greater than generation.int_max (%d)", c.Generation.IntMin, c.Generation.IntMax)
	}

	for table, rows := range c.Generation.Tables {
		if rows < 0 {
			return fmt.Errorf("generation.tables.%s cannot be negative", table)
		}
	}

	// Compare the window generation will actually use: an unset end is today.
	sc, err := c.SeedConfig()
	if err != nil {
		return err
	}
	if sc.DateStart.After(sc.DateEnd) {
		return fmt.Errorf("generation date window is empty: %s is after %s",
			sc.DateStart.Format(dateLayout), sc.DateEnd.Format(dateLayout))
	}

	return nil
}

func (c *Config) IsSQLite() bool {
	return c.Database.Provider == "sqlite" || c.Database.Provider == "sqlite3"
}

// GetDatabaseURL returns the sqlite file path, or the URL held in the
// configured environment variable for server databases.
func (c *Config) GetDatabaseURL() (string, error) {
	if c.IsSQLite() {
		if c.Database.Path == "" {
			return "", fmt.Errorf("database.path cannot be empty for sqlite")
		}
		return c.Database.Path, nil
	}

	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

// SeedConfig converts the generation section into the seeder policy.
func (c *Config) SeedConfig() (seeder.SeedConfig, error) {
	start, end, err := c.dateWindow()
	if err != nil {
		return seeder.SeedConfig{}, err
	}

	sc := seeder.DefaultSeedConfig()
	sc.Rows = c.Generation.Rows
	sc.Seed = c.Generation.Seed
	sc.Ledger = seeder.LedgerMode(c.Generation.Ledger)
	sc.MaxUniqueAttempts = c.Generation.MaxUniqueAttempts
	sc.IntMin = c.Generation.IntMin
	sc.IntMax = c.Generation.IntMax
	sc.MaxOffsetDays = c.Generation.MaxOffsetDays
	sc.AutoOrder = c.Generation.AutoOrder
	for table, rows := range c.Generation.Tables {
		sc.Tables[table] = rows
	}
	if !start.IsZero() {
		sc.DateStart = start
	}
	if !end.IsZero() {
		sc.DateEnd = end
	}
	return sc, nil
}

func (c *Config) dateWindow() (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if s := strings.TrimSpace(c.Generation.DateStart); s != "" {
		if start, err = time.Parse(dateLayout, s); err != nil {
			return start, end, fmt.Errorf("invalid generation.date_start %q: %w", s, err)
		}
	}
	if s := strings.TrimSpace(c.Generation.DateEnd); s != "" {
		if end, err = time.Parse(dateLayout, s); err != nil {
			return start, end, fmt.Errorf("invalid generation.date_end %q: %w", s, err)
		}
	}
	return start, end, nil
}
