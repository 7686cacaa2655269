package seeder

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/zeebo/xxh3"

	"github.com/Rana718/Seedling/internal/database"
	"github.com/Rana718/Seedling/internal/schema"
)

// LedgerTable holds every unique value issued against a database.
const LedgerTable = "_seedling_unique_values"

var ledgerColumns = []schema.ColumnDef{
	{Name: "table_name", Definition: schema.TypeVarchar + " NOT NULL"},
	{Name: "column_name", Definition: schema.TypeVarchar + " NOT NULL"},
	{Name: "value", Definition: schema.TypeVarchar + " NOT NULL"},
	{Name: "run_id", Definition: schema.TypeVarchar},
	{Name: "issued_at", Definition: schema.TypeVarchar},
}

// Ledger remembers which values were already issued for a (table, column).
type Ledger interface {
	Issued(ctx context.Context, table, column, value string) (bool, error)
	Record(ctx context.Context, table, column, value string) error
}

type PersistentLedger struct {
	store database.Store
	runID string
}

// NewPersistentLedger creates the ledger table if it is missing. Existing
// entries are kept, which is what makes uniqueness hold across runs.
func NewPersistentLedger(ctx context.Context, store database.Store, runID string) (*PersistentLedger, error) {
	err := store.CreateTableIfNotExists(ctx, LedgerTable, ledgerColumns, []string{"table_name", "column_name", "value"})
	if err != nil {
		return nil, fmt.Errorf("failed to create uniqueness ledger: %w", err)
	}
	return &PersistentLedger{store: store, runID: runID}, nil
}

func (l *PersistentLedger) Issued(ctx context.Context, table, column, value string) (bool, error) {
	row, err := l.store.SelectOneWhere(ctx, LedgerTable, squirrel.Eq{
		"table_name":  table,
		"column_name": column,
		"value":       value,
	})
	if err != nil {
		return false, fmt.Errorf("failed to query uniqueness ledger: %w", err)
	}
	return row != nil, nil
}

// Record inserts the triple. The ledger's primary key rejects a duplicate
// triple, so a concurrent writer fails instead of issuing a value twice.
func (l *PersistentLedger) Record(ctx context.Context, table, column, value string) error {
	row := database.NewRow(len(ledgerColumns))
	row.Set("table_name", table)
	row.Set("column_name", column)
	row.Set("value", value)
	row.Set("run_id", l.runID)
	row.Set("issued_at", time.Now().UTC().Format(time.RFC3339))
	if err := l.store.InsertRow(ctx, LedgerTable, row); err != nil {
		return fmt.Errorf("failed to record unique value: %w", err)
	}
	return nil
}

// EphemeralLedger is an in-memory set scoped to one run. Keys are 64-bit
// hashes of the triple: a hash collision only reports a fresh value as issued,
// which costs a redraw and never lets a duplicate through.
type EphemeralLedger struct {
	seen map[uint64]struct{}
}

func NewEphemeralLedger() *EphemeralLedger {
	return &EphemeralLedger{seen: make(map[uint64]struct{})}
}

func (l *EphemeralLedger) Issued(_ context.Context, table, column, value string) (bool, error) {
	_, ok := l.seen[ledgerKey(table, column, value)]
	return ok, nil
}

func (l *EphemeralLedger) Record(_ context.Context, table, column, value string) error {
	l.seen[ledgerKey(table, column, value)] = struct{}{}
	return nil
}

func (l *EphemeralLedger) Len() int {
	return len(l.seen)
}

func ledgerKey(table, column, value string) uint64 {
	return xxh3.HashString(table + "\x00" + column + "\x00" + value)
}

// stringify renders a generated value the way it is stored in the ledger.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
