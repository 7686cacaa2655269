package seeder

import (
	"fmt"
	"time"
)

// LedgerMode selects where issued unique values are remembered.
type LedgerMode string

const (
	// LedgerPersistent stores issued values in a side table of the target
	// database, so uniqueness holds across runs against the same store.
	LedgerPersistent LedgerMode = "persistent"
	// LedgerEphemeral keeps issued values in memory for one run only.
	LedgerEphemeral LedgerMode = "ephemeral"
)

const (
	DefaultRows              = 1000
	DefaultIntMin            = 1
	DefaultIntMax            = 100000
	DefaultMaxUniqueAttempts = 1000
	DefaultMaxOffsetDays     = 1000

	// widenAfter is the number of consecutive collisions after which unique
	// candidates are built from two independent draws.
	widenAfter = 8
)

type SeedConfig struct {
	Rows              int            // Default records per table
	Tables            map[string]int // Per-table counts
	Seed              uint64         // 0 picks a random seed
	Ledger            LedgerMode
	MaxUniqueAttempts int
	AutoOrder         bool // Order tables by foreign key dependencies
	IntMin            int
	IntMax            int
	DateStart         time.Time
	DateEnd           time.Time
	MaxOffsetDays     int

	// Optional progress hooks, called around each table.
	BeforeTable func(table string, rows int)
	AfterTable  func(report TableReport)
}

// DefaultSeedConfig returns the generation policy used when nothing is configured.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		Rows:              DefaultRows,
		Tables:            map[string]int{},
		Ledger:            LedgerPersistent,
		MaxUniqueAttempts: DefaultMaxUniqueAttempts,
		IntMin:            DefaultIntMin,
		IntMax:            DefaultIntMax,
		DateStart:         time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:           today(),
		MaxOffsetDays:     DefaultMaxOffsetDays,
	}
}

// RowsFor returns the row count for table, honoring per-table overrides.
func (c SeedConfig) RowsFor(table string) int {
	if n, ok := c.Tables[table]; ok {
		return n
	}
	return c.Rows
}

// validate rejects a policy that would fail partway through a run.
func (c SeedConfig) validate() error {
	if c.Rows <= 0 {
		return fmt.Errorf("%w: rows must be positive, got %d", ErrInvalidRowCount, c.Rows)
	}
	for table, n := range c.Tables {
		if n < 0 {
			return fmt.Errorf("%w: table %s has %d rows", ErrInvalidRowCount, table, n)
		}
	}
	if c.IntMin > c.IntMax {
		return fmt.Errorf("int range %d..%d is empty", c.IntMin, c.IntMax)
	}
	if c.DateStart.After(c.DateEnd) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidDateRange,
			c.DateStart.Format(dateLayout), c.DateEnd.Format(dateLayout))
	}
	return nil
}

func (c SeedConfig) withDefaults() SeedConfig {
	def := DefaultSeedConfig()
	if c.Ledger == "" {
		c.Ledger = def.Ledger
	}
	if c.MaxUniqueAttempts <= 0 {
		c.MaxUniqueAttempts = def.MaxUniqueAttempts
	}
	if c.IntMin == 0 && c.IntMax == 0 {
		c.IntMin, c.IntMax = def.IntMin, def.IntMax
	}
	if c.DateStart.IsZero() {
		c.DateStart = def.DateStart
	}
	if c.DateEnd.IsZero() {
		c.DateEnd = def.DateEnd
	}
	if c.MaxOffsetDays <= 0 {
		c.MaxOffsetDays = def.MaxOffsetDays
	}
	return c
}

type TableReport struct {
	Table              string
	Rows               int
	ConstraintsApplied int
	RowsConstrained    int64
}

type Report struct {
	RunID    string
	Tables   []TableReport
	Duration time.Duration
}

func (r *Report) table(name string) *TableReport {
	for i := range r.Tables {
		if r.Tables[i].Table == name {
			return &r.Tables[i]
		}
	}
	r.Tables = append(r.Tables, TableReport{Table: name})
	return &r.Tables[len(r.Tables)-1]
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
