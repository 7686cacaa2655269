package seeder

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rana718/Seedling/internal/database"
	"github.com/Rana718/Seedling/internal/schema"
)

const shopYAML = `customers:
  columns:
    customer_id: INTEGER PRIMARY KEY
    email: VARCHAR UNIQUE
    created_at: DATE
orders:
  columns:
    order_id: INTEGER PRIMARY KEY
    customer_id: INTEGER REFERENCES customers(customer_id)
    quantity: INTEGER
    order_date: DATE
  custom_constraints:
    quantity: BETWEEN 1 AND 5
    order_date: AFTER customers.created_at
`

func loadSchema(t *testing.T, doc string) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return s
}

func query(t *testing.T, store database.Store, q string) []map[string]interface{} {
	t.Helper()
	result, err := store.ExecuteQuery(context.Background(), q)
	require.NoError(t, err)
	return result.Rows
}

func scalar(t *testing.T, store database.Store, q string) int64 {
	t.Helper()
	rows := query(t, store, q)
	require.Len(t, rows, 1)
	for _, v := range rows[0] {
		n, ok := v.(int64)
		require.True(t, ok, "expected integer result for %q, got %T", q, v)
		return n
	}
	t.Fatalf("no columns in result of %q", q)
	return 0
}

func TestGenerateCustomersAndOrders(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	cfg := DefaultSeedConfig()
	cfg.Seed = 5
	report, err := Generate(ctx, store, loadSchema(t, shopYAML), 10, cfg, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, report.Tables, 2)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, TableReport{Table: "customers", Rows: 10}, report.Tables[0])
	assert.Equal(t, "orders", report.Tables[1].Table)
	assert.Equal(t, 10, report.Tables[1].Rows)
	assert.Equal(t, 2, report.Tables[1].ConstraintsApplied)
	assert.Equal(t, int64(20), report.Tables[1].RowsConstrained)

	// Primary keys are the row indexes, in insertion order.
	rows := query(t, store, `SELECT customer_id FROM customers ORDER BY rowid`)
	require.Len(t, rows, 10)
	for i, row := range rows {
		assert.Equal(t, int64(i), row["customer_id"])
	}

	assert.Equal(t, int64(10), scalar(t, store, `SELECT COUNT(DISTINCT email) FROM customers`))

	assert.Equal(t, int64(0), scalar(t, store,
		`SELECT COUNT(*) FROM orders WHERE customer_id < 0 OR customer_id > 9 OR customer_id IS NULL`))
	assert.Equal(t, int64(0), scalar(t, store,
		`SELECT COUNT(*) FROM orders o WHERE NOT EXISTS (SELECT 1 FROM customers c WHERE c.customer_id = o.customer_id)`))

	assert.Equal(t, int64(0), scalar(t, store,
		`SELECT COUNT(*) FROM orders WHERE quantity IS NULL OR quantity < 1 OR quantity > 5`))

	// Every order date is strictly later than some customer's created_at.
	assert.Equal(t, int64(0), scalar(t, store,
		`SELECT COUNT(*) FROM orders o WHERE o.order_date IS NULL
		 OR NOT EXISTS (SELECT 1 FROM customers c WHERE c.created_at < o.order_date)`))
}

func TestGenerateRerunNeverRepeatsUniqueValues(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	s := loadSchema(t, shopYAML)

	cfg := DefaultSeedConfig()
	cfg.Seed = 8
	_, err := Generate(ctx, store, s, 10, cfg, nil)
	require.NoError(t, err)

	first := make(map[string]bool)
	for _, row := range query(t, store, `SELECT email FROM customers`) {
		first[fmt.Sprint(row["email"])] = true
	}
	require.Len(t, first, 10)

	_, err = Generate(ctx, store, s, 10, cfg, nil)
	require.NoError(t, err)

	for _, row := range query(t, store, `SELECT email FROM customers`) {
		email := fmt.Sprint(row["email"])
		assert.False(t, first[email], "email %q reissued by the second run", email)
	}

	assert.Equal(t, int64(20), scalar(t, store,
		`SELECT COUNT(*) FROM _seedling_unique_values WHERE table_name = 'customers' AND column_name = 'email'`))
}

func TestGenerateEphemeralLedgerLeavesNoSideTable(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	cfg := DefaultSeedConfig()
	cfg.Ledger = LedgerEphemeral
	_, err := Generate(ctx, store, loadSchema(t, shopYAML), 5, cfg, nil)
	require.NoError(t, err)

	tables, err := store.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "orders"}, tables)
}

func TestGenerateValidationFailureCreatesNothing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	doc := strings.Replace(shopYAML, "created_at: DATE", "created_at: BOOLEAN", 1)
	_, err := Generate(ctx, store, loadSchema(t, doc), 10, DefaultSeedConfig(), nil)
	assert.ErrorIs(t, err, schema.ErrUnsupportedDataType)

	doc = strings.Replace(shopYAML, "BETWEEN 1 AND 5", "INVALID CONSTRAINT", 1)
	_, err = Generate(ctx, store, loadSchema(t, doc), 10, DefaultSeedConfig(), nil)
	assert.ErrorIs(t, err, schema.ErrUnsupportedConstraint)

	tables, err := store.ListTables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

const reversedYAML = `orders:
  columns:
    order_id: INTEGER PRIMARY KEY
    customer_id: INTEGER REFERENCES customers(customer_id)
customers:
  columns:
    customer_id: INTEGER PRIMARY KEY
    name: VARCHAR
`

func TestGenerateUnresolvedReference(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := Generate(ctx, store, loadSchema(t, reversedYAML), 3, DefaultSeedConfig(), nil)
	assert.ErrorIs(t, err, ErrUnresolvedReference)

	tables, err := store.ListTables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestGenerateAutoOrderAndTableOverrides(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	cfg := DefaultSeedConfig()
	cfg.AutoOrder = true
	cfg.Tables = map[string]int{"customers": 3}

	var started []string
	cfg.BeforeTable = func(table string, rows int) {
		started = append(started, fmt.Sprintf("%s:%d", table, rows))
	}

	report, err := Generate(ctx, store, loadSchema(t, reversedYAML), 7, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers:3", "orders:7"}, started)
	assert.Equal(t, "customers", report.Tables[0].Table)

	count, err := store.CountRows(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)

	// Foreign keys come from the referenced table's own key range.
	assert.Equal(t, int64(0), scalar(t, store,
		`SELECT COUNT(*) FROM orders WHERE customer_id < 0 OR customer_id > 2`))
}

func TestGenerateBeforeConstraint(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	doc := `launches:
  columns:
    launch_id: INTEGER PRIMARY KEY
    launched_on: DATE
teasers:
  columns:
    teaser_id: INTEGER PRIMARY KEY
    shown_on: DATE
  custom_constraints:
    shown_on: BEFORE launches.launched_on
`
	cfg := DefaultSeedConfig()
	cfg.MaxOffsetDays = 30
	_, err := Generate(ctx, store, loadSchema(t, doc), 10, cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(0), scalar(t, store,
		`SELECT COUNT(*) FROM teasers t WHERE t.shown_on IS NULL
		 OR NOT EXISTS (SELECT 1 FROM launches l WHERE l.launched_on > t.shown_on)`))
}

func TestApplyLeavesFilledRowsUntouched(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	cols := []schema.ColumnDef{
		{Name: "id", Definition: "INTEGER PRIMARY KEY"},
		{Name: "score", Definition: "INTEGER"},
	}
	require.NoError(t, store.CreateOrReplaceTable(ctx, "scores", cols))
	for i, score := range []interface{}{500, nil, nil} {
		row := database.NewRow(2)
		row.Set("id", i)
		row.Set("score", score)
		require.NoError(t, store.InsertRow(ctx, "scores", row))
	}

	applier := NewApplier(store, 0, nil)
	n, err := applier.ApplyExpression(ctx, "scores", "score", "BETWEEN 1 AND 3")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.Equal(t, int64(500), scalar(t, store, `SELECT score FROM scores WHERE id = 0`))
	assert.Equal(t, int64(0), scalar(t, store, `SELECT COUNT(*) FROM scores WHERE score NOT BETWEEN 1 AND 3 AND id > 0`))

	_, err = applier.ApplyExpression(ctx, "scores", "score", "INVALID CONSTRAINT")
	assert.ErrorIs(t, err, schema.ErrUnsupportedConstraint)
}

func TestGenerateChainedConstraintsDeclaredInReverse(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	doc := `customers:
  columns:
    customer_id: INTEGER PRIMARY KEY
    created_at: DATE
orders:
  columns:
    order_id: INTEGER PRIMARY KEY
    order_date: DATE
    ship_date: DATE
  custom_constraints:
    ship_date: AFTER orders.order_date
    order_date: AFTER customers.created_at
`
	cfg := DefaultSeedConfig()
	cfg.Seed = 13
	cfg.Ledger = LedgerEphemeral
	report, err := Generate(ctx, store, loadSchema(t, doc), 10, cfg, nil)
	require.NoError(t, err)

	require.Len(t, report.Tables, 2)
	assert.Equal(t, 2, report.Tables[1].ConstraintsApplied)
	assert.Equal(t, int64(20), report.Tables[1].RowsConstrained)

	assert.Equal(t, int64(0), scalar(t, store,
		`SELECT COUNT(*) FROM orders WHERE order_date IS NULL OR ship_date IS NULL`))
	assert.Equal(t, int64(0), scalar(t, store,
		`SELECT COUNT(*) FROM orders o WHERE NOT EXISTS (SELECT 1 FROM orders r WHERE r.order_date < o.ship_date)`))
}

func TestApplyCountsOnlyFilledRows(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateOrReplaceTable(ctx, "events", []schema.ColumnDef{
		{Name: "event_id", Definition: "INTEGER PRIMARY KEY"},
		{Name: "starts_on", Definition: "DATE"},
		{Name: "ends_on", Definition: "DATE"},
	}))
	for i := 0; i < 3; i++ {
		row := database.NewRow(3)
		row.Set("event_id", i)
		row.Set("starts_on", nil)
		row.Set("ends_on", nil)
		require.NoError(t, store.InsertRow(ctx, "events", row))
	}

	applier := NewApplier(store, 10, nil)
	n, err := applier.ApplyExpression(ctx, "events", "ends_on", "AFTER events.starts_on")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, int64(3), scalar(t, store, `SELECT COUNT(*) FROM events WHERE ends_on IS NULL`))
}

func TestGenerateRejectsPolicyBeforeWriting(t *testing.T) {
	future := today().AddDate(2, 0, 0)

	tests := []struct {
		name   string
		rows   int
		modify func(*SeedConfig)
		want   error
	}{
		{"negative rows", -1, func(*SeedConfig) {}, ErrInvalidRowCount},
		{"zero rows", 0, func(c *SeedConfig) { c.Rows = 0 }, ErrInvalidRowCount},
		{"negative table override", 5, func(c *SeedConfig) { c.Tables = map[string]int{"orders": -2} }, ErrInvalidRowCount},
		{"start after default end", 5, func(c *SeedConfig) { c.DateStart = future }, ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newTestStore(t)

			cfg := DefaultSeedConfig()
			tt.modify(&cfg)
			_, err := Generate(ctx, store, loadSchema(t, shopYAML), tt.rows, cfg, nil)
			assert.ErrorIs(t, err, tt.want)

			tables, err := store.ListTables(ctx)
			require.NoError(t, err)
			assert.Empty(t, tables)
		})
	}
}
